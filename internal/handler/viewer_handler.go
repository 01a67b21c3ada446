package handler

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/suar-net/hookmirror/internal/model"
	"github.com/suar-net/hookmirror/internal/service"
)

// ViewerHandler exposes the query engine over a user's recorded requests:
// listing, search, statistics, deletion and CSV export.
type ViewerHandler struct {
	userService   service.IUserService
	viewerService service.IViewerService
	logger        *log.Logger
}

func NewViewerHandler(users service.IUserService, viewer service.IViewerService, l *log.Logger) *ViewerHandler {
	return &ViewerHandler{
		userService:   users,
		viewerService: viewer,
		logger:        l,
	}
}

func (h *ViewerHandler) List(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	if _, err := h.userService.Get(r.Context(), username); err != nil {
		h.respondViewerError(w, err)
		return
	}

	limit := queryInt(r, "limit", 100)
	skip := queryInt(r, "skip", 0)

	requests, err := h.viewerService.List(r.Context(), username, limit, skip)
	if err != nil {
		h.respondViewerError(w, err)
		return
	}
	if requests == nil {
		// Serialize an empty history as [] rather than null.
		requests = []*model.WebhookRequest{}
	}

	respondWithJson(w, http.StatusOK, requests)
}

func (h *ViewerHandler) Clear(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	if _, err := h.userService.Get(r.Context(), username); err != nil {
		h.respondViewerError(w, err)
		return
	}

	deleted, err := h.viewerService.Clear(r.Context(), username)
	if err != nil {
		h.respondViewerError(w, err)
		return
	}

	respondWithJson(w, http.StatusOK, map[string]int64{"deleted_count": deleted})
}

// Delete removes one record by id. A miss is not an error; the response just
// reports deleted=false.
func (h *ViewerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	id := chi.URLParam(r, "id")

	deleted, err := h.viewerService.Delete(r.Context(), username, id)
	if err != nil {
		h.respondViewerError(w, err)
		return
	}

	respondWithJson(w, http.StatusOK, map[string]bool{"deleted": deleted})
}

func (h *ViewerHandler) Search(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	query := r.URL.Query().Get("q")
	limit := queryInt(r, "limit", 100)

	requests, err := h.viewerService.Search(r.Context(), username, query, limit)
	if err != nil {
		h.respondViewerError(w, err)
		return
	}
	if requests == nil {
		requests = []*model.WebhookRequest{}
	}

	respondWithJson(w, http.StatusOK, requests)
}

func (h *ViewerHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	stats, err := h.viewerService.Statistics(r.Context(), username)
	if err != nil {
		h.respondViewerError(w, err)
		return
	}

	respondWithJson(w, http.StatusOK, stats)
}

func (h *ViewerHandler) Export(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	if _, err := h.userService.Get(r.Context(), username); err != nil {
		h.respondViewerError(w, err)
		return
	}

	csvContent, err := h.viewerService.ExportCSV(r.Context(), username)
	if err != nil {
		h.respondViewerError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s_webhook_requests.csv", username))
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(csvContent))
}

func (h *ViewerHandler) respondViewerError(w http.ResponseWriter, err error) {
	if errors.Is(err, service.ErrUserNotFound) {
		respondWithError(w, http.StatusNotFound, err.Error())
		return
	}

	h.logger.Printf("ERROR: %v", err)
	respondWithError(w, http.StatusInternalServerError, "An internal error occurred")
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
