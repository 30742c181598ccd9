package server

import "net/http"

type endpointInfo struct {
	Path        string   `json:"path"`
	Methods     []string `json:"methods"`
	Description string   `json:"description"`
}

type discoveryResponse struct {
	Name        string         `json:"name"`
	Version     string         `json:"version"`
	Description string         `json:"description"`
	Endpoints   []endpointInfo `json:"endpoints"`
}

func (s *Server) handleDiscovery(w http.ResponseWriter, r *http.Request) {
	reqID := RequestIDFromContext(r.Context())
	respondOK(w, reqID, discoveryResponse{
		Name:        "pcontainer API",
		Version:     "v1",
		Description: "Container-scoped cooperative round-robin scheduling. Verbs identify the caller by the X-Caller-ID header",
		Endpoints: []endpointInfo{
			{"/api/v1/commands", []string{"POST"}, "Dispatch a {verb, container_id} command"},
			{"/api/v1/containers/{cid}/join", []string{"POST"}, "JOIN a container; blocks while queued"},
			{"/api/v1/yield", []string{"POST"}, "YIELD the running slot; blocks until resumed"},
			{"/api/v1/leave", []string{"POST"}, "LEAVE the current container"},
			{"/api/v1/containers", []string{"GET"}, "List registered containers"},
			{"/api/v1/containers/{cid}", []string{"GET"}, "Container members in queue order"},
			{"/api/v1/sse/containers/{cid}", []string{"GET"}, "Stream queue changes of a container"},
			{"/api/v1/events", []string{"GET"}, "Verb journal, newest first"},
			{"/api/v1/health", []string{"GET"}, "Server health and version"},
		},
	})
}
