package handler

import (
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/suar-net/hookmirror/internal/model"
	"github.com/suar-net/hookmirror/internal/service"
)

// maxBodySize bounds how much of an inbound payload gets recorded.
const maxBodySize = 10 * 1024 * 1024 // 10 MB

// WebhookHandler is the ingestion entry point: any verb on a user's endpoint
// is accepted, recorded and answered with the user's canned response.
type WebhookHandler struct {
	webhookService service.IWebhookService
	logger         *log.Logger
}

func NewWebhookHandler(s service.IWebhookService, l *log.Logger) *WebhookHandler {
	return &WebhookHandler{
		webhookService: s,
		logger:         l,
	}
}

func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	// An unreadable body degrades to a null record body, never to an error.
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	rawBody, err := io.ReadAll(r.Body)
	if err != nil {
		rawBody = nil
	}

	// Duplicate header values collapse last-value-wins.
	headers := make(map[string]string, len(r.Header))
	for key, values := range r.Header {
		headers[key] = values[len(values)-1]
	}

	in := &model.InboundRequest{
		Username:    username,
		Method:      r.Method,
		Path:        r.URL.Path,
		Headers:     headers,
		QueryParams: r.URL.Query(),
		RawBody:     rawBody,
	}

	result, err := h.webhookService.ProcessRequest(r.Context(), in)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			respondWithError(w, http.StatusNotFound, "User '"+username+"' not found")
			return
		}

		h.logger.Printf("ERROR: %v", err)
		respondWithError(w, http.StatusInternalServerError, "An internal error occurred")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(result.Response)
}
