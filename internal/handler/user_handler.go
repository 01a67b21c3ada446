package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/suar-net/hookmirror/internal/model"
	"github.com/suar-net/hookmirror/internal/service"
)

// UserHandler exposes the configuration store: registration, partial config
// updates and username availability checks.
type UserHandler struct {
	userService service.IUserService
	logger      *log.Logger
}

func NewUserHandler(s service.IUserService, l *log.Logger) *UserHandler {
	return &UserHandler{
		userService: s,
		logger:      l,
	}
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var dto model.DTOUserCreate
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	if err := validate.Struct(&dto); err != nil {
		respondWithError(w, http.StatusBadRequest, ValidationError(err))
		return
	}

	user, err := h.userService.Create(r.Context(), &dto)
	if err != nil {
		h.respondUserError(w, err)
		return
	}

	respondWithJson(w, http.StatusCreated, user)
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	var dto model.DTOUserUpdate
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	if err := validate.Struct(&dto); err != nil {
		respondWithError(w, http.StatusBadRequest, ValidationError(err))
		return
	}

	user, err := h.userService.Update(r.Context(), username, &dto)
	if err != nil {
		h.respondUserError(w, err)
		return
	}

	respondWithJson(w, http.StatusOK, user)
}

// CheckAvailability never fails; invalid and taken usernames both report as
// unavailable.
func (h *UserHandler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	available := h.userService.IsUsernameAvailable(r.Context(), username)
	respondWithJson(w, http.StatusOK, map[string]bool{"available": available})
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	user, err := h.userService.Get(r.Context(), username)
	if err != nil {
		h.respondUserError(w, err)
		return
	}

	respondWithJson(w, http.StatusOK, user)
}

func (h *UserHandler) respondUserError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidUsername):
		respondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrUsernameTaken):
		respondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrUserNotFound):
		respondWithError(w, http.StatusNotFound, err.Error())
	default:
		h.logger.Printf("ERROR: %v", err)
		respondWithError(w, http.StatusInternalServerError, "An internal error occurred")
	}
}
