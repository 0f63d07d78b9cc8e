package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"problemtracker/internal/domain/models"
)

// DefaultBaseURL is where the backend listens unless configured otherwise.
const DefaultBaseURL = "http://localhost:5001"

// StatusError reports a response outside the 2xx range.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.StatusCode)
}

// Client talks to the problems REST backend.
type Client struct {
	baseURL string
	http    *http.Client
}

// New builds a client. A zero timeout leaves the transport default in place.
func New(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) BaseURL() string { return c.baseURL }

func (c *Client) ListProblems(ctx context.Context) ([]models.Problem, error) {
	var problems []models.Problem
	if err := c.do(ctx, http.MethodGet, "/problems", nil, &problems, true); err != nil {
		return nil, err
	}
	if problems == nil {
		problems = []models.Problem{}
	}
	return problems, nil
}

func (c *Client) GetProblem(ctx context.Context, id string) (*models.Problem, error) {
	var problem models.Problem
	if err := c.do(ctx, http.MethodGet, "/problems/"+url.PathEscape(id), nil, &problem, true); err != nil {
		return nil, err
	}
	return &problem, nil
}

// CreateProblem returns the created record when the backend echoes one, nil otherwise.
func (c *Client) CreateProblem(ctx context.Context, req models.CreateProblemRequest) (*models.Problem, error) {
	var problem models.Problem
	if err := c.do(ctx, http.MethodPost, "/problems", req, &problem, false); err != nil {
		return nil, err
	}
	if problem.ID == "" {
		return nil, nil
	}
	return &problem, nil
}

// UpdateStatus returns the updated record when the backend echoes one, nil otherwise.
func (c *Client) UpdateStatus(ctx context.Context, id string, status string) (*models.Problem, error) {
	var problem models.Problem
	path := "/problems/updatestatus/" + url.PathEscape(id)
	if err := c.do(ctx, http.MethodPut, path, models.UpdateStatusRequest{Status: status}, &problem, false); err != nil {
		return nil, err
	}
	if problem.ID == "" {
		return nil, nil
	}
	return &problem, nil
}

func (c *Client) DeleteProblem(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/problems/"+url.PathEscape(id), nil, nil, false)
}

// do sends one request. With strict set a missing or malformed body is an
// error; otherwise the status code alone decides success.
func (c *Client) do(ctx context.Context, method, path string, in, out interface{}, strict bool) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Method: method, Path: path, StatusCode: resp.StatusCode, Message: errorMessage(raw)}
	}

	if out == nil {
		return nil
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		if strict {
			return fmt.Errorf("%s %s: empty response body", method, path)
		}
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		if strict {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func errorMessage(raw []byte) string {
	var body struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(raw, &body) == nil && body.Error != "" {
		return body.Error
	}
	return strings.TrimSpace(string(raw))
}
