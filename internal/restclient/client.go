// Package restclient implements the typed, paginated Integration
// (REST) API client described in §4.2 of the controller runtime spec:
// JSON CRUD under `/integration/v1/...` authenticated with a sensitive
// `X-API-KEY` header.
package restclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/brightlane/uctl/internal/platform"
	"github.com/brightlane/uctl/internal/transport"
	"go.uber.org/zap"
)

const apiKeyHeader = "X-API-KEY"

// Client is the Integration-API client. It is not cloneable the way
// the Legacy client is (§4.3); it is header-authenticated and therefore
// stateless enough that callers share one instance.
type Client struct {
	httpClient *http.Client
	baseURL    string // normalized, always ends in "/"
	logger     *zap.SugaredLogger
}

// New builds a Client with the platform-specific base URL prefix
// already applied (§4.2 "Base-URL normalization").
func New(httpClient *http.Client, rawBaseURL string, kind platform.Kind, apiKey string, logger *zap.SugaredLogger) *Client {
	base := httpClient.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	signed := &http.Client{
		Timeout: httpClient.Timeout,
		Transport: &transport.SensitiveHeader{
			Name:  apiKeyHeader,
			Value: apiKey,
			Base:  base,
		},
	}
	return &Client{
		httpClient: signed,
		baseURL:    normalizeBaseURL(rawBaseURL, kind),
		logger:     logger,
	}
}

// normalizeBaseURL applies §4.2's prefixing rule: if the raw base URL
// already ends in "/integration", that's preserved verbatim with only
// a trailing slash appended; otherwise the platform's prefix is used.
func normalizeBaseURL(raw string, kind platform.Kind) string {
	trimmed := strings.TrimRight(raw, "/")
	if strings.HasSuffix(trimmed, "/integration") {
		return trimmed + "/"
	}
	return trimmed + kind.RestPrefix()
}

func (c *Client) url(pathAndQuery string) string {
	return c.baseURL + strings.TrimPrefix(pathAndQuery, "/")
}

// do issues a request and decodes a 2xx JSON body into out (nil to
// discard the body). Implements the response-handling contract of §4.2.
func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("restclient: marshal request body: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path), reader)
	if err != nil {
		return fmt.Errorf("restclient: build request: %w", err)
	}
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("restclient: %s %s: %w", method, path, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrInvalidApiKey
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var eb errorBody
		if jsonErr := json.Unmarshal(raw, &eb); jsonErr == nil && eb.Message != "" {
			return &IntegrationError{Status: resp.StatusCode, Message: eb.Message, Code: eb.Code}
		}
		msg := strings.TrimSpace(string(raw))
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &IntegrationError{Status: resp.StatusCode, Message: msg}
	}

	if out == nil {
		return nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("restclient: read response body: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		preview := raw
		if len(preview) > 200 {
			preview = preview[:200]
		}
		return &DeserializationError{Message: err.Error(), BodyPreview: string(preview)}
	}
	return nil
}

func pageQuery(offset int64, limit int32) string {
	q := url.Values{}
	q.Set("offset", strconv.FormatInt(offset, 10))
	q.Set("limit", strconv.FormatInt(int64(limit), 10))
	return q.Encode()
}

// PaginateAll iterates pages via fetch(offset, limit) until the
// received count falls below limit or the total-count ceiling is
// reached, returning the flattened concatenation of page.Data (§4.2,
// §8.1 property 7).
func PaginateAll[T any](ctx context.Context, limit int32, fetch func(ctx context.Context, offset int64, limit int32) (Page[T], error)) ([]T, error) {
	var all []T
	var offset int64
	for {
		page, err := fetch(ctx, offset, limit)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Data...)
		offset += int64(len(page.Data))
		if int32(len(page.Data)) < limit || offset >= page.TotalCount {
			break
		}
	}
	return all, nil
}
