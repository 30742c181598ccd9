package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/me/pcontainer/internal/command"
	"github.com/me/pcontainer/pkg/model"
)

// handleCommand dispatches a generic {verb, container_id} request.
// POST /api/v1/commands
func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	cmd, err := command.Decode(r.Body, CallerFromContext(r.Context()))
	if err != nil {
		respondError(w, reqID, http.StatusBadRequest, model.NewValidationError(err.Error()))
		return
	}
	s.dispatch(w, r, cmd)
}

// POST /api/v1/containers/{cid}/join
func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	id, err := model.ParseContainerID(chi.URLParam(r, "cid"))
	if err != nil {
		respondError(w, reqID, http.StatusBadRequest, model.NewValidationError("invalid container id",
			model.FieldError{Field: "cid", Message: err.Error()}))
		return
	}
	s.dispatch(w, r, &command.Command{Verb: model.VerbJoin, ContainerID: id, Caller: CallerFromContext(r.Context())})
}

// POST /api/v1/yield
func (s *Server) handleYield(w http.ResponseWriter, r *http.Request) {
	s.dispatch(w, r, &command.Command{Verb: model.VerbYield, Caller: CallerFromContext(r.Context())})
}

// POST /api/v1/leave
func (s *Server) handleLeave(w http.ResponseWriter, r *http.Request) {
	s.dispatch(w, r, &command.Command{Verb: model.VerbLeave, Caller: CallerFromContext(r.Context())})
}

// dispatch answers 200 for every decoded verb; failures travel in the code.
func (s *Server) dispatch(w http.ResponseWriter, r *http.Request, cmd *command.Command) {
	reqID := RequestIDFromContext(r.Context())
	res := s.dispatcher.Dispatch(r.Context(), cmd)
	if errors.Is(r.Context().Err(), context.Canceled) {
		s.logger.Warn("client went away before verb completed",
			"verb", cmd.Verb, "caller", cmd.Caller, "code", res.CodeName)
	}
	respondOK(w, reqID, res)
}
