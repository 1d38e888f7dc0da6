// Package downstream provides the HTTP client for the five external
// text-processing services. Each operation kind maps to one fixed endpoint;
// a call either succeeds with a JSON body or fails terminally - there is no
// retry at this layer.
package downstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/textgate/textgate/internal/model"
)

const (
	// DialTimeout is the connection timeout.
	DialTimeout = 10 * time.Second
	// TLSHandshakeTimeout is the TLS negotiation timeout.
	TLSHandshakeTimeout = 10 * time.Second
	// ResponseHeaderTimeout is time to wait for response headers.
	ResponseHeaderTimeout = 15 * time.Second

	// maxResponseBody caps how much of a downstream body is read.
	maxResponseBody = 1 << 20 // 1 MB
)

// operationPaths maps each operation kind to the request path on its service.
var operationPaths = map[model.OperationKind]string{
	model.OperationTranslation: "/translate",
	model.OperationSummary:     "/summarize",
	model.OperationKeywords:    "/keywords",
	model.OperationEditing:     "/edit",
	model.OperationAnalytics:   "/analyze",
}

// Client sends operation payloads to the external text-processing services.
// It is stateless and safe for concurrent use.
type Client struct {
	httpClient *http.Client
	endpoints  map[model.OperationKind]string
}

// NewClient creates a Client for the given per-kind base URLs.
// timeout bounds the full round trip of a single call.
func NewClient(endpoints map[model.OperationKind]string, timeout time.Duration) *Client {
	return &Client{
		httpClient: newHTTPClient(timeout),
		endpoints:  endpoints,
	}
}

// newHTTPClient creates an HTTP client configured for service calls.
// It has appropriate timeouts and does not follow redirects.
func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   DialTimeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout:   TLSHandshakeTimeout,
			ResponseHeaderTimeout: ResponseHeaderTimeout,
			MaxIdleConns:          100,
			MaxIdleConnsPerHost:   10,
			IdleConnTimeout:       90 * time.Second,
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// Invoke sends payload to the service for kind and returns its JSON body.
// Any failure is returned as a *ServiceError wrapping ErrUnavailable or
// ErrDownstream.
func (c *Client) Invoke(ctx context.Context, kind model.OperationKind, payload any) (json.RawMessage, error) {
	base, ok := c.endpoints[kind]
	if !ok {
		return nil, fmt.Errorf("no endpoint configured for operation kind %q", kind)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base+operationPaths[kind], bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "Textgate/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &ServiceError{
			Kind:    kind,
			Message: "service unreachable",
			err:     ErrUnavailable,
		}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, &ServiceError{
			Kind:    kind,
			Message: "failed to read response body",
			err:     ErrUnavailable,
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ServiceError{
			Kind:    kind,
			Message: errorMessage(respBody, fmt.Sprintf("unexpected status %d", resp.StatusCode)),
			err:     ErrDownstream,
		}
	}

	if !json.Valid(respBody) {
		return nil, &ServiceError{
			Kind:    kind,
			Message: "malformed response body",
			err:     ErrDownstream,
		}
	}

	return respBody, nil
}

// errorMessage extracts the downstream's {"error": "..."} message from body,
// falling back to fallback when the body has no usable message.
func errorMessage(body []byte, fallback string) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	return fallback
}
