package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vahango/rental-gateway/internal/config"
)

// StatusSuccess is the success marker in the marketplace API envelope
const StatusSuccess = "Success"

// ErrUnreachable marks transport-level failures (DNS, refused connection,
// timeout). Callers translate it into a user-facing network message.
var ErrUnreachable = errors.New("marketplace API unreachable")

// Envelope is the common response wrapper of the marketplace API:
// {"status": "Success", "message": "...", "data": {...}}
type Envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// APIError is a non-success response from the marketplace API
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("marketplace API returned status %d", e.StatusCode)
}

// Client talks to the upstream marketplace REST API
type Client struct {
	baseURL string
	client  *http.Client
	logger  *logrus.Logger
}

// NewClient creates a new marketplace API client
func NewClient(cfg config.UpstreamConfig, logger *logrus.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// do performs a JSON request against the marketplace API and unwraps the
// response envelope. token is forwarded as a bearer token when non-empty.
func (c *Client) do(ctx context.Context, method, path, token string, query url.Values, body interface{}) (*Envelope, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint = endpoint + "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.WithError(err).WithFields(logrus.Fields{
			"method": method,
			"path":   path,
		}).Error("Failed to call marketplace API")
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	return c.decodeEnvelope(resp, method, path)
}

// doMultipart forwards a multipart body (license photos, business profile
// forms) to the marketplace API without re-encoding it.
func (c *Client) doMultipart(ctx context.Context, method, path, token, contentType string, body io.Reader) (*Envelope, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.WithError(err).WithFields(logrus.Fields{
			"method": method,
			"path":   path,
		}).Error("Failed to call marketplace API")
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	return c.decodeEnvelope(resp, method, path)
}

// decodeEnvelope reads the response, rejects non-JSON bodies (proxies and
// load balancers answer with HTML error pages), and unwraps the envelope.
func (c *Client) decodeEnvelope(resp *http.Response, method, path string) (*Envelope, error) {
	rawBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	mediaType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if mediaType != "application/json" {
		c.logger.WithFields(logrus.Fields{
			"method":       method,
			"path":         path,
			"status_code":  resp.StatusCode,
			"content_type": mediaType,
		}).Error("Marketplace API returned non-JSON response")
		return nil, fmt.Errorf("server returned an unexpected response (status %d, content-type %q) - the marketplace API may be down",
			resp.StatusCode, resp.Header.Get("Content-Type"))
	}

	var env Envelope
	if err := json.Unmarshal(rawBody, &env); err != nil {
		c.logger.WithFields(logrus.Fields{
			"method": method,
			"path":   path,
			"body":   truncate(string(rawBody), 512),
		}).Error("Failed to parse marketplace API response")
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 || env.Status != StatusSuccess {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    env.Message,
		}
	}

	return &env, nil
}

// decodeData unmarshals the envelope payload into dest
func decodeData(env *Envelope, dest interface{}) error {
	if len(env.Data) == 0 {
		return fmt.Errorf("response has no data")
	}
	if err := json.Unmarshal(env.Data, dest); err != nil {
		return fmt.Errorf("failed to decode response data: %w", err)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
