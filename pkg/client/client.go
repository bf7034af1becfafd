// Package client submits registrations to the SDC registration API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/sdc-club/backend/internal/models"
	"github.com/sdc-club/backend/internal/validation"
)

// Messages reported when the server gives no usable reason.
const (
	MsgRegistrationFailed = "Registration failed"
	MsgNetworkError       = "Network error occurred"
	MsgRequestFailed      = "Request failed"
)

// ValidationError is returned when a form fails local validation and is never sent.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "invalid form: " + strings.Join(parts, "; ")
}

// SubmissionError carries the user-facing message of a failed request.
type SubmissionError struct {
	StatusCode int // 0 on transport failure
	Message    string
	Err        error
}

func (e *SubmissionError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *SubmissionError) Unwrap() error { return e.Err }

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

// Client talks to the registration API. Each call makes exactly one attempt.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New returns a client for baseURL (e.g. http://localhost:5000). A nil httpClient gets a 30s timeout client.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}
}

// Submit validates form locally and, if valid, posts it once.
func (c *Client) Submit(ctx context.Context, form models.RegistrationForm) (*models.Registration, error) {
	if errs := validation.Validate(form); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}
	var reg models.Registration
	if err := c.do(ctx, http.MethodPost, "/api/registration", form, MsgRegistrationFailed, &reg); err != nil {
		return nil, err
	}
	return &reg, nil
}

// List fetches every registration.
func (c *Client) List(ctx context.Context) ([]models.Registration, error) {
	var regs []models.Registration
	if err := c.do(ctx, http.MethodGet, "/api/registration", nil, MsgRequestFailed, &regs); err != nil {
		return nil, err
	}
	return regs, nil
}

// UpdateStatus sets the review status of registration id.
func (c *Client) UpdateStatus(ctx context.Context, id string, status models.Status) (*models.Registration, error) {
	var reg models.Registration
	body := map[string]models.Status{"status": status}
	if err := c.do(ctx, http.MethodPatch, "/api/registration/"+id, body, MsgRequestFailed, &reg); err != nil {
		return nil, err
	}
	return &reg, nil
}

func (c *Client) do(ctx context.Context, method, path string, in interface{}, fallback string, out interface{}) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return &SubmissionError{Message: MsgNetworkError, Err: err}
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &SubmissionError{Message: MsgNetworkError, Err: err}
	}
	defer resp.Body.Close()

	var env envelope
	decodeErr := json.NewDecoder(resp.Body).Decode(&env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := fallback
		if decodeErr == nil && env.Message != "" {
			msg = env.Message
		}
		serr := &SubmissionError{StatusCode: resp.StatusCode, Message: msg}
		if decodeErr == nil && env.Error != "" {
			serr.Err = fmt.Errorf("%s", env.Error)
		}
		return serr
	}
	if decodeErr != nil {
		return &SubmissionError{StatusCode: resp.StatusCode, Message: fallback, Err: fmt.Errorf("decode response: %w", decodeErr)}
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return &SubmissionError{StatusCode: resp.StatusCode, Message: fallback, Err: fmt.Errorf("decode data: %w", err)}
		}
	}
	return nil
}
