// Package api is the HTTP client for the call-reminder backend.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/colonyops/callbell/internal/core/logging"
	"github.com/colonyops/callbell/internal/core/reminder"
	"github.com/colonyops/callbell/internal/core/settings"
)

// Options configures a Client.
type Options struct {
	BaseURL   string
	Timeout   time.Duration
	CSRFToken string
	SessionID string
	// Transport overrides the underlying round tripper (tests).
	Transport http.RoundTripper
}

// Client talks to the backend. It keeps a cookie jar so the session and CSRF
// cookies set by the server are reused across requests.
type Client struct {
	base   *url.URL
	http   *http.Client
	jar    http.CookieJar
	logger zerolog.Logger
}

// New builds a Client. CSRFToken and SessionID, when set, seed the cookie jar.
func New(opts Options) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", opts.BaseURL)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	var seed []*http.Cookie
	if opts.CSRFToken != "" {
		seed = append(seed, &http.Cookie{Name: CSRFCookie, Value: opts.CSRFToken, Path: "/"})
	}
	if opts.SessionID != "" {
		seed = append(seed, &http.Cookie{Name: SessionCookie, Value: opts.SessionID, Path: "/"})
	}
	if len(seed) > 0 {
		jar.SetCookies(base, seed)
	}

	transport := opts.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}

	c := &Client{
		base:   base,
		jar:    jar,
		logger: logging.Component("api"),
	}
	c.http = &http.Client{
		Jar:       jar,
		Timeout:   opts.Timeout,
		Transport: &csrfTransport{next: transport, jar: jar, referer: base.String() + "/"},
		// Unauthenticated requests are redirected to the login page. Surface
		// the redirect instead of parsing an HTML page as JSON.
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return c, nil
}

// BaseURL returns the backend root.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// Notifications fetches the reminders that are due now. The backend marks
// returned records as notified, so each record is reported once.
func (c *Client) Notifications(ctx context.Context) ([]reminder.Record, error) {
	var resp notificationsResponse
	if err := c.getJSON(ctx, PathNotifications, &resp); err != nil {
		return nil, err
	}

	out := make([]reminder.Record, 0, len(resp.Notifications))
	for _, n := range resp.Notifications {
		out = append(out, n.Record())
	}
	return out, nil
}

// FetchSettings reads the user's settings.
func (c *Client) FetchSettings(ctx context.Context) (settings.Settings, error) {
	var s settings.Settings
	if err := c.getJSON(ctx, PathSettings, &s); err != nil {
		return settings.Settings{}, err
	}
	return s, nil
}

// SaveSettings stores the alerting and theme preferences.
func (c *Client) SaveSettings(ctx context.Context, s settings.Settings) error {
	form := url.Values{}
	form.Set("sound_enabled", strconv.FormatBool(s.SoundEnabled))
	form.Set("volume", strconv.Itoa(s.Volume))
	form.Set("dark_theme", strconv.FormatBool(s.DarkTheme))
	_, err := c.postForm(ctx, PathSettingsSave, form)
	return err
}

// CallAction posts id=<callID> to one of the call mutation endpoints.
func (c *Client) CallAction(ctx context.Context, path, callID string) error {
	form := url.Values{}
	form.Set("id", callID)
	_, err := c.postForm(ctx, path, form)
	return err
}

// AddCall schedules a new call and returns its id.
func (c *Client) AddCall(ctx context.Context, call NewCall) (string, error) {
	form := url.Values{}
	form.Set("comment", call.Comment)
	form.Set("phone", call.Phone)
	if call.CallType != "" {
		form.Set("call_type", call.CallType)
	}
	if call.NextAttempt != "" {
		form.Set("next_attempt", call.NextAttempt)
	}

	body, err := c.postForm(ctx, PathCallAdd, form)
	if err != nil {
		return "", err
	}
	var resp addCallResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("decode %s: %w", PathCallAdd, err)
	}
	return resp.ID.String(), nil
}

// Calls returns the user's call list.
func (c *Client) Calls(ctx context.Context) ([]Call, error) {
	var resp callsResponse
	if err := c.getJSON(ctx, PathCalls, &resp); err != nil {
		return nil, err
	}
	return resp.Calls, nil
}

// Tracking returns the user's tracked claims.
func (c *Client) Tracking(ctx context.Context) ([]Tracking, error) {
	var resp trackingResponse
	if err := c.getJSON(ctx, PathTracking, &resp); err != nil {
		return nil, err
	}
	return resp.Tracking, nil
}

// Download streams a static file from the backend into w.
func (c *Client) Download(ctx context.Context, path string, w io.Writer) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url(path), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4*maxErrorBody))
		return &StatusError{Method: http.MethodGet, Path: path, Code: resp.StatusCode, Body: trimBody(body)}
	}
	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url(path), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	body, err := c.do(req)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func (c *Client) postForm(ctx context.Context, path string, form url.Values) ([]byte, error) {
	if err := c.ensureCSRF(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(path), strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")

	return c.do(req)
}

// ensureCSRF loads the site root once when the jar has no CSRF cookie yet so
// the server can issue one.
func (c *Client) ensureCSRF(ctx context.Context) error {
	if csrfToken(c.jar, c.base) != "" {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url("/"), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("fetch csrf cookie: %w", err)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()

	if csrfToken(c.jar, c.base) == "" {
		c.logger.Warn().Msg("server did not issue a csrf cookie; posting without token")
	}
	return nil
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", req.URL.Path, err)
	}

	c.logger.Debug().
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Int("status", resp.StatusCode).
		Dur("took", time.Since(start)).
		Msg("request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{
			Method: req.Method,
			Path:   req.URL.Path,
			Code:   resp.StatusCode,
			Body:   trimBody(body),
		}
	}
	return body, nil
}

func (c *Client) url(path string) string {
	return c.base.String() + path
}
