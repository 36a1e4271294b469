// Package web implements the portal-facing WebSession adapter on top of
// net/http with a persistent-capable cookie jar.
package web

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"

	"github.com/example/renewbot/internal/models"
	"github.com/example/renewbot/internal/ports/secondary"
)

const (
	// defaultUserAgent mirrors a desktop browser; the portal serves a
	// degraded page to unknown clients.
	defaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:128.0) Gecko/20100101 Firefox/128.0"

	defaultRetries    = 2
	defaultRetryDelay = 2 * time.Second
	defaultTimeout    = 60 * time.Second
)

// Session implements secondary.WebSession. All relative URLs resolve
// against the configured base.
type Session struct {
	client     *http.Client
	base       *url.URL
	agent      string
	retries    int
	retryDelay time.Duration
}

// Option adjusts a Session.
type Option func(*Session)

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(agent string) Option {
	return func(s *Session) { s.agent = agent }
}

// WithRetries sets how many times a failed request is retried.
func WithRetries(n int) Option {
	return func(s *Session) { s.retries = n }
}

// WithRetryDelay sets the pause between retries.
func WithRetryDelay(d time.Duration) Option {
	return func(s *Session) { s.retryDelay = d }
}

// NewSession creates a web session rooted at baseURL.
func NewSession(baseURL string, opts ...Option) (*Session, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", baseURL, err)
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	s := &Session{
		client:     &http.Client{Jar: jar, Timeout: defaultTimeout},
		base:       base,
		agent:      defaultUserAgent,
		retries:    defaultRetries,
		retryDelay: defaultRetryDelay,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Get fetches rawurl, resolved against the base. An empty rawurl
// fetches the base itself.
func (s *Session) Get(ctx context.Context, rawurl string) (*models.Page, error) {
	target, err := s.resolve(rawurl)
	if err != nil {
		return nil, err
	}
	return s.do(ctx, http.MethodGet, target, "")
}

// PostForm submits fields form-encoded to rawurl.
func (s *Session) PostForm(ctx context.Context, rawurl string, fields url.Values) (*models.Page, error) {
	target, err := s.resolve(rawurl)
	if err != nil {
		return nil, err
	}
	return s.do(ctx, http.MethodPost, target, fields.Encode())
}

// Submit sends a scraped form, resolving its action against the page it
// came from. A form without a method posts.
func (s *Session) Submit(ctx context.Context, page *models.Page, form *models.Form) (*models.Page, error) {
	origin := s.base
	if page != nil && page.URL != "" {
		u, err := url.Parse(page.URL)
		if err != nil {
			return nil, fmt.Errorf("invalid page url %q: %w", page.URL, err)
		}
		origin = u
	}

	action, err := url.Parse(form.Action)
	if err != nil {
		return nil, fmt.Errorf("invalid form action %q: %w", form.Action, err)
	}
	target := origin.ResolveReference(action)

	if strings.EqualFold(form.Method, http.MethodGet) {
		target.RawQuery = form.Fields.Encode()
		return s.do(ctx, http.MethodGet, target, "")
	}
	return s.do(ctx, http.MethodPost, target, form.Fields.Encode())
}

// Cookies returns the jar's cookies for the base URL.
func (s *Session) Cookies() []models.Cookie {
	var out []models.Cookie
	for _, c := range s.client.Jar.Cookies(s.base) {
		out = append(out, models.Cookie{
			Name:   c.Name,
			Value:  c.Value,
			Domain: s.base.Hostname(),
			Path:   "/",
		})
	}
	return out
}

// SetCookies replaces the jar contents for the base URL.
func (s *Session) SetCookies(cookies []models.Cookie) {
	s.ClearCookies()
	hc := make([]*http.Cookie, 0, len(cookies))
	for _, c := range cookies {
		hc = append(hc, &http.Cookie{Name: c.Name, Value: c.Value, Path: "/"})
	}
	s.client.Jar.SetCookies(s.base, hc)
}

// ClearCookies drops every stored cookie.
func (s *Session) ClearCookies() {
	// cookiejar has no wipe operation, a fresh jar is the reliable way.
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return
	}
	s.client.Jar = jar
}

func (s *Session) resolve(rawurl string) (*url.URL, error) {
	if rawurl == "" {
		return s.base, nil
	}
	u, err := url.Parse(rawurl)
	if err != nil {
		return nil, fmt.Errorf("invalid url %q: %w", rawurl, err)
	}
	return s.base.ResolveReference(u), nil
}

// do issues the request, retrying transport failures. HTTP error codes
// are returned as pages, not errors: the caller classifies the body.
func (s *Session) do(ctx context.Context, method string, target *url.URL, body string) (*models.Page, error) {
	var lastErr error
	for attempt := 0; attempt <= s.retries; attempt++ {
		if attempt > 0 {
			if err := sleep(ctx, s.retryDelay); err != nil {
				return nil, err
			}
		}

		page, err := s.once(ctx, method, target, body)
		if err == nil {
			return page, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}
	return nil, fmt.Errorf("%s %s failed after %d attempts: %w", method, target, s.retries+1, lastErr)
}

func (s *Session) once(ctx context.Context, method string, target *url.URL, body string) (*models.Page, error) {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", s.agent)
	if method == http.MethodPost {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return &models.Page{
		URL:        resp.Request.URL.String(),
		StatusCode: resp.StatusCode,
		Body:       string(data),
	}, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Ensure Session implements the interface
var _ secondary.WebSession = (*Session)(nil)
