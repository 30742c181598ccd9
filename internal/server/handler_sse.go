package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/me/pcontainer/internal/scheduler"
	"github.com/me/pcontainer/pkg/model"
)

// handleSSEContainer streams queue changes of one container via Server-Sent Events.
// GET /api/v1/sse/containers/{cid}
func (s *Server) handleSSEContainer(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "cid")
	reqID := RequestIDFromContext(r.Context())

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

	// Set headers for SSE.
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "SSE not supported", http.StatusInternalServerError)
		return
	}

	if err := sendSSEEvent(w, flusher, "init", info); err != nil {
		s.logger.Debug("sse client disconnected", "container", id, "error", err)
		return
	}

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	last := info
	for {
		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
			info, err := s.scheduler.Container(id)
			if err != nil {
				// Container destroyed by its last Leave.
				_ = sendSSEEvent(w, flusher, "removed", map[string]uint64{"id": id})
				return
			}

			if !slices.Equal(info.Members, last.Members) {
				if err := sendSSEEvent(w, flusher, "update", info); err != nil {
					s.logger.Debug("sse client disconnected", "container", id)
					return
				}
				last = info
			} else {
				fmt.Fprintf(w, ": heartbeat\n\n")
				flusher.Flush()
			}
		}
	}
}

func sendSSEEvent(w http.ResponseWriter, flusher http.Flusher, event string, data any) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, jsonData)
	if err != nil {
		return err
	}

	flusher.Flush()
	return nil
}
