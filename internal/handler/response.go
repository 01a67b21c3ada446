package handler

import (
	"encoding/json"
	"log"
	"net/http"
)

// respondWithError is a helper for sending error responses in JSON format.
// Example: {"error": "what went wrong"}
func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJson(w, code, map[string]string{"error": message})
}

// respondWithJson marshals the payload, sets the headers and writes the
// response. 'payload' is any JSON-marshalable value (struct, map, slice).
func respondWithJson(w http.ResponseWriter, code int, payload interface{}) {
	dat, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Failed to marshal JSON response: %v", payload)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(dat)
}
