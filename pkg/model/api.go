package model

import "time"

// Response is the standard API response envelope.
type Response struct {
	Status     string      `json:"status"`
	RequestID  string      `json:"request_id"`
	Timestamp  time.Time   `json:"timestamp"`
	Data       any         `json:"data"`
	Pagination *Pagination `json:"pagination,omitempty"`
	Error      *APIError   `json:"error"`
}

// Pagination holds pagination metadata for list endpoints.
type Pagination struct {
	Total   int  `json:"total"`
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
}

// ListOptions configures journal queries with pagination and filtering.
type ListOptions struct {
	Limit       int
	Offset      int
	ContainerID *uint64 // Optional container filter
	Caller      string  // Optional caller filter
	Verb        Verb    // Optional verb filter
}

// DefaultListOptions returns sensible defaults.
func DefaultListOptions() ListOptions {
	return ListOptions{Limit: 50, Offset: 0}
}

// Clamp enforces limits (max 500, min 1).
func (o *ListOptions) Clamp() {
	if o.Limit <= 0 {
		o.Limit = 50
	}
	if o.Limit > 500 {
		o.Limit = 500
	}
	if o.Offset < 0 {
		o.Offset = 0
	}
}

// VerbRequest is the body of the generic command endpoint.
type VerbRequest struct {
	Verb        Verb   `json:"verb"`
	ContainerID uint64 `json:"container_id"`
}

// VerbResult is the payload answered for every verb, successful or not.
type VerbResult struct {
	Verb        Verb        `json:"verb"`
	ContainerID uint64      `json:"container_id,omitempty"`
	Caller      CallerID    `json:"caller"`
	Code        Status      `json:"code"`
	CodeName    string      `json:"code_name"`
	State       MemberState `json:"state,omitempty"`
}
