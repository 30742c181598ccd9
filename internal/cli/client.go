package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/me/pcontainer/pkg/model"
)

// callerHeader mirrors server.CallerHeader.
const callerHeader = "X-Caller-ID"

// Client is an HTTP client for the pcontainer API.
type Client struct {
	BaseURL    string
	Caller     string
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// NewClient creates a pcontainer API client. Verb requests block while the
// caller is queued, so the HTTP client has no timeout.
func NewClient(baseURL string, logger *slog.Logger) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{},
		Logger:     logger,
	}
}

// apiResponse is the parsed envelope.
type apiResponse struct {
	Status     string            `json:"status"`
	RequestID  string            `json:"request_id"`
	Data       json.RawMessage   `json:"data"`
	Pagination *model.Pagination `json:"pagination"`
	Error      *model.APIError   `json:"error"`
}

// do performs an HTTP request and returns the parsed envelope.
func (c *Client) do(method, path string, body any) (*apiResponse, error) {
	url := c.BaseURL + path

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
		c.Logger.Debug("HTTP request body", "body", string(data))
	}

	req, err := http.NewRequest(method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Caller != "" {
		req.Header.Set(callerHeader, c.Caller)
	}

	c.Logger.Debug("HTTP request", "method", method, "url", url, "caller", c.Caller)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	c.Logger.Debug("HTTP response", "status", resp.StatusCode, "body", string(respBody))

	var apiResp apiResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return nil, fmt.Errorf("parse response (status %d): %w\nbody: %s", resp.StatusCode, err, string(respBody))
	}

	if apiResp.Status == "error" && apiResp.Error != nil {
		return &apiResp, apiResp.Error
	}

	return &apiResp, nil
}

// Get performs a GET request.
func (c *Client) Get(path string) (*apiResponse, error) {
	return c.do("GET", path, nil)
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(path string, body any) (*apiResponse, error) {
	return c.do("POST", path, body)
}

// Join joins container id, blocking while queued.
func (c *Client) Join(id uint64) (model.VerbResult, error) {
	return c.verb(fmt.Sprintf("/api/v1/containers/%d/join", id))
}

// Yield hands over the running slot, blocking until resumed.
func (c *Client) Yield() (model.VerbResult, error) {
	return c.verb("/api/v1/yield")
}

// Leave leaves the current container.
func (c *Client) Leave() (model.VerbResult, error) {
	return c.verb("/api/v1/leave")
}

// verb posts to a verb endpoint. A non-OK code is returned as a *VerbError.
func (c *Client) verb(path string) (model.VerbResult, error) {
	var res model.VerbResult
	resp, err := c.Post(path, nil)
	if err != nil {
		return res, err
	}
	if err := json.Unmarshal(resp.Data, &res); err != nil {
		return res, fmt.Errorf("parse verb result: %w", err)
	}
	if !res.Code.OK() {
		return res, &VerbError{Result: res}
	}
	return res, nil
}

// VerbError reports a verb answered with a failure code.
type VerbError struct {
	Result model.VerbResult
}

func (e *VerbError) Error() string {
	return fmt.Sprintf("%s failed: %s (%d)", e.Result.Verb, e.Result.CodeName, e.Result.Code)
}
