package nzbgeek

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/textproto"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

// Submitter uploads a single NZB file and returns the raw response body.
// This interface is implemented by *Client and can be used for testing.
type Submitter interface {
	Submit(ctx context.Context, path, category string) (string, error)
}

// Ensure Client implements Submitter at compile time.
var _ Submitter = (*Client)(nil)

// Client talks to the indexer submit API.
type Client struct {
	endpoint  *url.URL
	apiKey    string
	http      *http.Client
	userAgent string
}

const (
	// DefaultEndpoint is the indexer submit URL.
	DefaultEndpoint = "https://api.nzbgeek.info/submit"
	// RequestTimeout bounds a single upload, including reading the response.
	RequestTimeout = 60 * time.Second
	// Version is reported in the User-Agent header.
	Version = "1.1.1"

	formField      = "nzb"
	nzbContentType = "application/x-nzb"
	maxErrorBody   = 200
)

// Option customizes a Client.
type Option func(*Client) error

// WithEndpoint overrides the submit URL, e.g. for a mirror or a test server.
func WithEndpoint(raw string) Option {
	return func(c *Client) error {
		u, err := parseEndpoint(raw)
		if err != nil {
			return err
		}
		c.endpoint = u
		return nil
	}
}

// WithHTTPClient replaces the underlying HTTP client. The caller owns its
// timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) error {
		if hc == nil {
			return fmt.Errorf("http client is nil")
		}
		c.http = hc
		return nil
	}
}

// NewClient builds a Client authenticating with apiKey.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	key := strings.TrimSpace(apiKey)
	if key == "" {
		return nil, fmt.Errorf("missing api key")
	}

	endpoint, err := parseEndpoint(DefaultEndpoint)
	if err != nil {
		return nil, err
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{MinVersion: tls.VersionTLS12}

	c := &Client{
		endpoint: endpoint,
		apiKey:   key,
		http: &http.Client{
			Transport: transport,
			Timeout:   RequestTimeout,
		},
		userAgent: buildUserAgent(),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Submit uploads the file at path under the given category code (optional)
// and returns the response body verbatim. Any failure, including a non-2xx
// status, is returned as a *TransportError. Submit never retries.
func (c *Client) Submit(ctx context.Context, path, category string) (string, error) {
	if c == nil {
		return "", fmt.Errorf("client is nil")
	}

	body, contentType, err := encodeUpload(path)
	if err != nil {
		return "", &TransportError{Op: "read nzb", Err: err}
	}

	values := url.Values{}
	values.Set("apikey", c.apiKey)
	if cat := strings.TrimSpace(category); cat != "" {
		values.Set("cat", cat)
	}
	reqURL := *c.endpoint
	reqURL.RawQuery = values.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL.String(), body)
	if err != nil {
		return "", &TransportError{Op: "create request", Err: c.redact(err)}
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &TransportError{Op: "execute request", Err: c.redact(err)}
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &TransportError{Op: "read response", StatusCode: resp.StatusCode, Err: c.redact(err)}
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", &TransportError{Op: "submit", StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return string(raw), nil
}

// redact strips the query string, which carries the API key, from URL errors.
func (c *Client) redact(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		urlErr.URL = c.endpoint.String()
	}
	return err
}

// TransportError describes a submission that never produced a usable
// response: the file could not be read, the request failed or timed out, or
// the API answered with a non-2xx status.
type TransportError struct {
	Op         string
	StatusCode int
	Body       string
	Err        error
}

func (e *TransportError) Error() string {
	switch {
	case e.Timeout():
		return fmt.Sprintf("%s: request timed out: %v", e.Op, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	case e.StatusCode != 0:
		msg := fmt.Sprintf("%s: api returned status %d", e.Op, e.StatusCode)
		if snippet := truncate(strings.TrimSpace(e.Body), maxErrorBody); snippet != "" {
			msg += ": " + snippet
		}
		return msg
	default:
		return e.Op
	}
}

func (e *TransportError) Unwrap() error { return e.Err }

// Timeout reports whether the request exceeded its deadline.
func (e *TransportError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(e.Err, &netErr) && netErr.Timeout()
}

func encodeUpload(path string) (io.Reader, string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer file.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		formField, escapeQuotes(filepath.Base(path))))
	header.Set("Content-Type", nzbContentType)

	part, err := w.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("create part: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, "", fmt.Errorf("copy %s: %w", filepath.Base(path), err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

func parseEndpoint(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, fmt.Errorf("endpoint is empty")
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse endpoint %q: %w", raw, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("endpoint %q must be an absolute URL", raw)
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}

func buildUserAgent() string {
	return fmt.Sprintf("nzbpost/%s (%s; %s; %s)", Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
