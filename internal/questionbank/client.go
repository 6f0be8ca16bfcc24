package questionbank

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is the public question bank endpoint.
	DefaultBaseURL = "https://questions.aloc.com.ng/api/v2"

	// DefaultTimeout bounds a single HTTP request.
	DefaultTimeout = 30 * time.Second

	maxBodyBytes = 10 << 20
)

// Options configures a Client.
type Options struct {
	BaseURL     string
	AccessToken string
	Timeout     time.Duration
	Retry       RetryPolicy
	HTTPClient  *http.Client
	Logger      *slog.Logger
}

// Client fetches questions from the remote question bank.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	retry   RetryPolicy
	log     *slog.Logger
}

// NewClient creates a question bank client, filling unset options with
// defaults.
func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Retry.Attempts == 0 {
		opts.Retry = DefaultRetry
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: opts.Timeout}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		token:   opts.AccessToken,
		http:    opts.HTTPClient,
		retry:   opts.Retry,
		log:     opts.Logger,
	}
}

// BaseURL returns the question bank root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// FetchQuestions requests count questions for subject, optionally limited to
// a year (0 means any year).
func (c *Client) FetchQuestions(ctx context.Context, subject string, count, year int) ([]Question, error) {
	q := subjectQuery(subject)
	if year > 0 {
		q.Set("year", strconv.Itoa(year))
	}
	return c.fetch(ctx, "fetch questions", fmt.Sprintf("/q/%d", count), q, subject, c.retry)
}

// FetchBulkQuestions requests the larger unfiltered batch for subject and
// returns at most count of them.
func (c *Client) FetchBulkQuestions(ctx context.Context, subject string, count int) ([]Question, error) {
	qs, err := c.fetch(ctx, "fetch bulk questions", "/m", subjectQuery(subject), subject, c.retry)
	if err != nil {
		return nil, err
	}
	if len(qs) > count {
		qs = qs[:count]
	}
	return qs, nil
}

// FetchQuestion requests a single question for subject.
func (c *Client) FetchQuestion(ctx context.Context, subject string, year int) (*Question, error) {
	q := subjectQuery(subject)
	if year > 0 {
		q.Set("year", strconv.Itoa(year))
	}
	qs, err := c.fetch(ctx, "fetch question", "/q", q, subject, singleRetry)
	if err != nil {
		return nil, err
	}
	if len(qs) == 0 {
		return nil, &ServiceError{Op: "fetch question", Err: ErrNotFound}
	}
	return &qs[0], nil
}

// SubjectMetrics returns per-subject question counts, or nil when the
// metrics endpoint can't be reached. Metrics are informational only.
func (c *Client) SubjectMetrics(ctx context.Context) map[string]any {
	body, err := c.get(ctx, "subject metrics", "/metrics/subjects", nil)
	if err != nil {
		c.log.Warn("could not fetch subject metrics", "err", err)
		return nil
	}
	var out map[string]any
	if err := json.Unmarshal(body, &out); err != nil {
		c.log.Warn("could not decode subject metrics", "err", err)
		return nil
	}
	return out
}

func subjectQuery(subject string) url.Values {
	q := url.Values{}
	q.Set("subject", subject)
	q.Set("type", DefaultExamType)
	return q
}

func (c *Client) fetch(ctx context.Context, op, path string, query url.Values, subject string, policy RetryPolicy) ([]Question, error) {
	body, err := withRetry(ctx, policy, func(ctx context.Context) ([]byte, error) {
		return c.get(ctx, op, path, query)
	})
	if err != nil {
		return nil, err
	}

	qs, dropped, err := Normalize(body, subject)
	if err != nil {
		return nil, &ServiceError{Op: op, Err: err}
	}
	if dropped > 0 {
		c.log.Debug("dropped invalid question records", "subject", subject, "dropped", dropped)
	}
	return qs, nil
}

func (c *Client) get(ctx context.Context, op, path string, query url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &ServiceError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("AccessToken", c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &ServiceError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &ServiceError{Op: op, Status: resp.StatusCode, Err: err}
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, &ServiceError{Op: op, Status: resp.StatusCode, Err: ErrNotFound}
	case resp.StatusCode >= 400:
		return nil, &ServiceError{Op: op, Status: resp.StatusCode, Err: errors.New(http.StatusText(resp.StatusCode))}
	}
	return body, nil
}
