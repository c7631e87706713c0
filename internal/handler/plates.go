package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/platevision/platevision-go/internal/middleware"
	"github.com/platevision/platevision-go/internal/model"
	"github.com/platevision/platevision-go/internal/repository"
	"github.com/platevision/platevision-go/internal/service"
)

// PlateHandler handles HTTP requests for plate record operations.
type PlateHandler struct {
	service *service.PlateService
}

// NewPlateHandler creates a new PlateHandler.
func NewPlateHandler(svc *service.PlateService) *PlateHandler {
	return &PlateHandler{service: svc}
}

// HandleList handles GET /api/plates requests. The body is a bare JSON
// array of records, newest first.
func (h *PlateHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	records, err := h.service.List(r.Context(), session.UserID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, records)
}

// HandleCreate handles POST /api/plates requests.
func (h *PlateHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB

	var req model.CreatePlateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if tooLarge(err) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse("request body too large"))
			return
		}
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid request body"))
		return
	}

	rec, err := h.service.Create(r.Context(), session.UserID, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPlateNumberRequired), errors.Is(err, service.ErrImageURLRequired):
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
		default:
			writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		}
		return
	}

	writeJSON(w, http.StatusCreated, rec)
}

// HandleDelete handles DELETE /api/plates/{id} requests.
func (h *PlateHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" || len(id) > 36 {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid record id"))
		return
	}

	if err := h.service.Delete(r.Context(), session.UserID, id); err != nil {
		switch {
		case errors.Is(err, repository.ErrRecordNotFound):
			writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
		default:
			writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
