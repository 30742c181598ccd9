package server

import (
	"net/http"
	"strconv"

	"github.com/me/pcontainer/pkg/model"
)

// handleListEvents lists journal events, newest first.
// GET /api/v1/events?container_id=&caller=&verb=&limit=&offset=
func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())

	opts, fieldErrs := parseListOptions(r)
	if len(fieldErrs) > 0 {
		respondError(w, reqID, http.StatusBadRequest, model.NewValidationError("invalid query", fieldErrs...))
		return
	}

	if s.journal == nil {
		respondList(w, reqID, []*model.Event{}, &model.Pagination{Limit: opts.Limit, Offset: opts.Offset})
		return
	}

	events, total, err := s.journal.List(r.Context(), opts)
	if err != nil {
		respondError(w, reqID, http.StatusInternalServerError, model.NewInternalError(err.Error()))
		return
	}
	if events == nil {
		events = []*model.Event{}
	}

	respondList(w, reqID, events, &model.Pagination{
		Total:   total,
		Limit:   opts.Limit,
		Offset:  opts.Offset,
		HasMore: opts.Offset+opts.Limit < total,
	})
}

func parseListOptions(r *http.Request) (model.ListOptions, []model.FieldError) {
	q := r.URL.Query()
	opts := model.DefaultListOptions()
	var errs []model.FieldError

	if v := q.Get("container_id"); v != "" {
		id, err := model.ParseContainerID(v)
		if err != nil {
			errs = append(errs, model.FieldError{Field: "container_id", Message: err.Error()})
		} else {
			opts.ContainerID = &id
		}
	}
	if v := q.Get("verb"); v != "" {
		verb, ok := model.ParseVerb(v)
		if !ok {
			errs = append(errs, model.FieldError{Field: "verb", Message: "must be JOIN, YIELD or LEAVE"})
		}
		opts.Verb = verb
	}
	opts.Caller = q.Get("caller")

	for field, dst := range map[string]*int{"limit": &opts.Limit, "offset": &opts.Offset} {
		v := q.Get(field)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, model.FieldError{Field: field, Message: err.Error()})
			continue
		}
		*dst = n
	}

	opts.Clamp()
	return opts, errs
}
