package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// DefaultServerURL is the job board API endpoint used when no server is
// configured.
const DefaultServerURL = "http://localhost:5000"

// Error is a non-2xx response from the server. Message carries the
// body's msg field when the server sent one.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("server returned %d", e.Status)
}

// Config holds common client configuration.
type Config struct {
	ServerURL string
	Timeout   time.Duration
	CacheDir  string
	Debug     bool
}

// DefaultConfig returns a default client configuration.
func DefaultConfig() Config {
	return Config{
		ServerURL: DefaultServerURL,
		Timeout:   30 * time.Second,
	}
}

// TokenSource supplies the bearer token for authenticated requests.
// An empty return sends the request anonymously.
type TokenSource func() string

// Client talks to the job board REST API.
type Client struct {
	baseURL string
	httpc   *http.Client
	cached  *http.Client
	token   TokenSource
}

// NewClient creates a new API client. token may be nil for a purely
// anonymous client.
func NewClient(config Config, token TokenSource) *Client {
	if config.ServerURL == "" {
		config.ServerURL = DefaultServerURL
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}

	return &Client{
		baseURL: config.ServerURL,
		httpc: &http.Client{
			Timeout: config.Timeout,
		},
		cached: NewCachingHTTPClient(config.CacheDir, config.Timeout),
		token:  token,
	}
}

// Login exchanges credentials for a bearer token and a role.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	body := map[string]string{"email": email, "password": password}

	var out LoginResult
	if err := c.doJSON(ctx, c.httpc, http.MethodPost, "/api/auth/login", body, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, params RegisterParams) error {
	return c.doJSON(ctx, c.httpc, http.MethodPost, "/api/auth/register", params, nil)
}

// ListJobs fetches the public job listing. The call goes through the
// caching transport and retries transient failures.
func (c *Client) ListJobs(ctx context.Context) ([]Job, error) {
	var jobs []Job
	if err := c.getJSONRetry(ctx, c.cached, "/api/jobs", &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

// MyApplications fetches the applications submitted by the current
// identity.
func (c *Client) MyApplications(ctx context.Context) ([]Application, error) {
	var apps []Application
	if err := c.getJSONRetry(ctx, c.httpc, "/api/applications", &apps); err != nil {
		return nil, err
	}
	return apps, nil
}

// RecruiterJobs fetches the jobs posted by the current recruiter.
func (c *Client) RecruiterJobs(ctx context.Context) ([]Job, error) {
	var jobs []Job
	if err := c.getJSONRetry(ctx, c.httpc, "/api/recruiter/jobs", &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

// PostJob creates a new posting as the current recruiter.
func (c *Client) PostJob(ctx context.Context, job NewJob) error {
	return c.doJSON(ctx, c.httpc, http.MethodPost, "/api/recruiter/jobs", job, nil)
}

// Applicants fetches the applicants for one of the current recruiter's
// jobs.
func (c *Client) Applicants(ctx context.Context, jobID int64) ([]Applicant, error) {
	var applicants []Applicant
	path := fmt.Sprintf("/api/recruiter/jobs/%d/applicants", jobID)
	if err := c.getJSONRetry(ctx, c.httpc, path, &applicants); err != nil {
		return nil, err
	}
	return applicants, nil
}

// Apply submits a job application as a multipart form. Apply is never
// retried; the request id header lets the server deduplicate instead.
func (c *Client) Apply(ctx context.Context, jobID int64, form ApplicationForm) error {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	fields := map[string]string{
		"cover_letter": form.CoverLetter,
		"email":        form.Email,
		"phone":        form.Phone,
	}
	for name, value := range fields {
		if err := w.WriteField(name, value); err != nil {
			return fmt.Errorf("failed to encode form: %w", err)
		}
	}

	fw, err := w.CreateFormFile("resume", form.ResumeName)
	if err != nil {
		return fmt.Errorf("failed to encode form: %w", err)
	}
	if _, err := fw.Write(form.Resume); err != nil {
		return fmt.Errorf("failed to encode form: %w", err)
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to encode form: %w", err)
	}

	path := fmt.Sprintf("/api/jobs/%d/apply", jobID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, buf)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("X-Request-Id", uuid.New().String()) // Idempotency token
	c.authorize(req)

	log.Debug().Int64("jobID", jobID).Str("resume", form.ResumeName).Msg("submitting application")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp)
	}

	_, _ = io.Copy(io.Discard, resp.Body)

	return nil
}

// getJSONRetry issues a GET with exponential backoff. Client errors are
// permanent; only transport failures and 5xx responses retry.
func (c *Client) getJSONRetry(ctx context.Context, hc *http.Client, path string, out any) error {
	operation := func() (struct{}, error) {
		err := c.doJSON(ctx, hc, http.MethodGet, path, nil, out)
		if err != nil {
			var apiErr *Error
			if errors.As(err, &apiErr) && apiErr.Status < 500 {
				return struct{}{}, backoff.Permanent(err)
			}
		}
		return struct{}{}, err
	}

	_, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(3),
	)

	return err
}

func (c *Client) doJSON(ctx context.Context, hc *http.Client, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.authorize(req)

	resp, err := hc.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

func (c *Client) authorize(req *http.Request) {
	if c.token == nil {
		return
	}
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

func decodeError(resp *http.Response) error {
	apiErr := &Error{Status: resp.StatusCode}

	var body struct {
		Msg     string `json:"msg"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&body); err == nil {
		apiErr.Message = body.Msg
		if apiErr.Message == "" {
			apiErr.Message = body.Message
		}
	}

	return apiErr
}
