package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/me/pcontainer/pkg/model"
)

// Client issues verbs to the pcontainer server on behalf of one caller.
type Client struct {
	baseURL    string
	caller     model.CallerID
	httpClient *http.Client
}

// NewClient creates a verb client. Join and Yield hold the request open
// while the caller is queued, so the client sets no overall timeout.
func NewClient(baseURL string, caller model.CallerID) *Client {
	transport := &http.Transport{
		MaxIdleConns:    10,
		IdleConnTimeout: 90 * time.Second,
	}

	return &Client{
		baseURL: baseURL,
		caller:  caller,
		httpClient: &http.Client{
			Transport: transport,
		},
	}
}

// Caller returns the identity the client acts for.
func (c *Client) Caller() model.CallerID {
	return c.caller
}

// Join joins container id and returns once the caller runs.
func (c *Client) Join(ctx context.Context, id uint64) (model.VerbResult, error) {
	return c.verb(ctx, fmt.Sprintf("/api/v1/containers/%d/join", id))
}

// Yield hands over the running slot and returns once resumed.
func (c *Client) Yield(ctx context.Context) (model.VerbResult, error) {
	return c.verb(ctx, "/api/v1/yield")
}

// Leave removes the caller from its container.
func (c *Client) Leave(ctx context.Context) (model.VerbResult, error) {
	return c.verb(ctx, "/api/v1/leave")
}

func (c *Client) verb(ctx context.Context, path string) (model.VerbResult, error) {
	var res model.VerbResult

	resp, err := c.doRequest(ctx, http.MethodPost, path)
	if err != nil {
		return res, err
	}
	if err := decodeResponseData(resp, &res); err != nil {
		return res, fmt.Errorf("%s: %w", path, err)
	}
	if !res.Code.OK() {
		return res, fmt.Errorf("%s: %s (%d)", res.Verb, res.CodeName, res.Code)
	}
	return res, nil
}

// doRequest executes an HTTP request and returns the response.
func (c *Client) doRequest(ctx context.Context, method, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Caller-ID", string(c.caller))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, respBody)
	}

	return resp, nil
}

// decodeResponseData extracts the data field from the API response envelope.
func decodeResponseData(resp *http.Response, dest any) error {
	defer resp.Body.Close()

	var envelope struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
		Error  *model.APIError `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if envelope.Error != nil {
		return envelope.Error
	}

	return json.Unmarshal(envelope.Data, dest)
}
