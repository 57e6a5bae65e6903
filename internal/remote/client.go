// Package remote talks to the CBT history endpoints of the study platform API.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
)

type Client struct {
	baseURL string
	http    *http.Client
}

type Config struct {
	BaseURL string
	// SessionCookie is an optional "name=value" pair seeded into the jar so
	// that requests carry the user's credentials.
	SessionCookie string
	Timeout       time.Duration
	Logger        *slog.Logger
	Transport     http.RoundTripper
}

func New(cfg Config) (*Client, error) {
	base, err := url.Parse(strings.TrimSuffix(cfg.BaseURL, "/"))
	if err != nil {
		return nil, errors.Wrap(err, "parse base url")
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, errors.Wrap(err, "cookie jar")
	}
	if name, value, ok := strings.Cut(cfg.SessionCookie, "="); ok && name != "" {
		jar.SetCookies(base, []*http.Cookie{{Name: name, Value: value, Path: "/"}})
	}

	transport := cfg.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	if cfg.Logger != nil {
		transport = &LoggingTransport{Base: transport, Logger: cfg.Logger}
	}

	return &Client{
		baseURL: base.String(),
		http: &http.Client{
			Jar:       jar,
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
	}, nil
}

// StatusError is returned when the API answers with a non-2xx status.
type StatusError struct {
	Op   string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: HTTP error! status: %d", e.Op, e.Code)
}

// StatusCode extracts the HTTP status from err, or 0.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code
	}
	return 0
}

// PreviousAttempt is a past attempt as returned by the API. The client does
// not interpret it.
type PreviousAttempt struct {
	Body json.RawMessage
}

// Decode unmarshals the attempt into v.
func (p *PreviousAttempt) Decode(v any) error {
	return json.Unmarshal(p.Body, v)
}

// Submission is the result of a finished attempt.
type Submission struct {
	CertificateID string `json:"certificate_id"`
	Score         int    `json:"score"`
	CorrectCount  int    `json:"correct_Count"`
	LeftTime      int    `json:"left_time"`
}

// SubmitAck is the API's acknowledgement of a submission, passed through as-is.
type SubmitAck struct {
	Body json.RawMessage
}

func (a *SubmitAck) Decode(v any) error {
	return json.Unmarshal(a.Body, v)
}

// PreviousAttempt fetches attempt id. A non-2xx response yields *StatusError.
func (c *Client) PreviousAttempt(ctx context.Context, id int64) (*PreviousAttempt, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/api/user/cbt/previous/%d", c.baseURL, id), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "fetch previous attempt")
	}
	defer res.Body.Close()
	if res.StatusCode/100 != 2 {
		return nil, &StatusError{Op: "fetch previous attempt", Code: res.StatusCode}
	}

	body, err := readJSON(res.Body)
	if err != nil {
		return nil, errors.Wrap(err, "fetch previous attempt")
	}
	return &PreviousAttempt{Body: body}, nil
}

// SubmitAttempt posts a finished attempt. The response status is not
// inspected; transport and decoding errors are returned.
func (c *Client) SubmitAttempt(ctx context.Context, s Submission) (*SubmitAck, error) {
	payload, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/user/cbt/add", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "submit attempt")
	}
	defer res.Body.Close()

	body, err := readJSON(res.Body)
	if err != nil {
		return nil, errors.Wrap(err, "submit attempt")
	}
	return &SubmitAck{Body: body}, nil
}

func readJSON(r io.Reader) (json.RawMessage, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if !json.Valid(data) {
		return nil, errors.New("response is not valid JSON")
	}
	return json.RawMessage(data), nil
}
