package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/me/pcontainer/internal/scheduler"
	"github.com/me/pcontainer/pkg/model"
)

// GET /api/v1/containers
func (s *Server) handleListContainers(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	list := s.scheduler.Containers()
	respondList(w, reqID, list, &model.Pagination{
		Total: len(list),
		Limit: len(list),
	})
}

// GET /api/v1/containers/{cid}
func (s *Server) handleGetContainer(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	raw := chi.URLParam(r, "cid")

	id, err := model.ParseContainerID(raw)
	if err != nil {
		respondError(w, reqID, http.StatusBadRequest, model.NewValidationError("invalid container id",
			model.FieldError{Field: "cid", Message: err.Error()}))
		return
	}

	info, err := s.scheduler.Container(id)
	if errors.Is(err, scheduler.ErrContainerNotFound) {
		respondError(w, reqID, http.StatusNotFound, model.NewNotFoundError("container", raw))
		return
	}
	if err != nil {
		respondError(w, reqID, http.StatusInternalServerError, model.NewInternalError(err.Error()))
		return
	}
	respondOK(w, reqID, info)
}
