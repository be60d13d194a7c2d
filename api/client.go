package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/teal-bauer/aemctl/internal/config"
)

// Client is an AEM Sling HTTP client using Basic Authentication
type Client struct {
	baseURL  string
	username string
	password string
	http     *http.Client
	log      *zap.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithLogger sets the logger for request diagnostics
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

// NewClient creates a client from cfg. It fails without touching the
// network when username or password is missing.
func NewClient(cfg config.Config, opts ...Option) (*Client, error) {
	if !cfg.HasCredentials() {
		return nil, errNotConfigured()
	}

	c := &Client{
		baseURL:  strings.TrimSuffix(cfg.EffectiveBaseURL(), "/"),
		username: cfg.Username,
		password: cfg.Password,
		http:     &http.Client{},
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the AEM instance the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) url(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}

func (c *Client) doRequest(ctx context.Context, method, path string, body io.Reader, contentType string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.url(path), body)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Err: fmt.Errorf("creating request: %w", err)}
	}

	if contentType == "" {
		contentType = "application/json"
	}
	requestID := uuid.NewString()
	req.SetBasicAuth(c.username, c.password)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-Request-ID", requestID)

	log := c.log.With(zap.String("request_id", requestID))
	log.Debug("request started",
		zap.String("method", method),
		zap.String("url", req.URL.String()),
	)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		log.Debug("request failed", zap.Error(err))
		return nil, requestError(err, c.baseURL)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Err: fmt.Errorf("reading response: %w", err)}
	}

	log.Debug("request completed",
		zap.Int("status", resp.StatusCode),
		zap.Int("size", len(respBody)),
		zap.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode >= 400 {
		return nil, statusError(resp.StatusCode, respBody)
	}
	return respBody, nil
}

// GetNode fetches path and decodes the response as an ordered JSON object
func (c *Client) GetNode(ctx context.Context, path string) (*Node, error) {
	data, err := c.doRequest(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return nil, err
	}

	node := NewNode()
	if err := node.UnmarshalJSON(data); err != nil {
		return nil, &Error{Kind: KindTransport, Err: fmt.Errorf("parsing response: %w", err)}
	}
	return node, nil
}

// PostForm sends a form-encoded POST
func (c *Client) PostForm(ctx context.Context, path string, form url.Values) ([]byte, error) {
	return c.doRequest(ctx, http.MethodPost, path, strings.NewReader(form.Encode()), "application/x-www-form-urlencoded")
}

// Delete performs a DELETE request
func (c *Client) Delete(ctx context.Context, path string) ([]byte, error) {
	return c.doRequest(ctx, http.MethodDelete, path, nil, "")
}

// PostFile sends content as the multipart part "file" together with the
// given plain fields
func (c *Client) PostFile(ctx context.Context, path, fileName, mimeType string, content io.Reader, fields map[string]string) ([]byte, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, fileName))
	header.Set("Content-Type", mimeType)
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Err: fmt.Errorf("creating form file: %w", err)}
	}

	if _, err := io.Copy(part, content); err != nil {
		return nil, &Error{Kind: KindTransport, Err: fmt.Errorf("copying file: %w", err)}
	}

	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			return nil, &Error{Kind: KindTransport, Err: fmt.Errorf("writing %s field: %w", k, err)}
		}
	}

	if err := writer.Close(); err != nil {
		return nil, &Error{Kind: KindTransport, Err: fmt.Errorf("closing writer: %w", err)}
	}

	return c.doRequest(ctx, http.MethodPost, path, body, writer.FormDataContentType())
}
