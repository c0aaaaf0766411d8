// Package legacyclient implements the cookie/session authenticated
// Legacy API client described in §4.3: platform detection, login,
// typed operations for data the Integration API doesn't cover, and
// logout. Instances are cheap to clone — clones share the transport
// and cookie jar so concurrent pollers can release the Controller's
// client-guard mutex before issuing HTTP calls (§4.3, §5).
package legacyclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/brightlane/uctl/internal/platform"
	"go.uber.org/zap"
)

// Client is cookie-session authenticated against `/api/s/{site}/...`.
type Client struct {
	httpClient *http.Client
	baseURL    string
	site       string
	kind       platform.Kind
	logger     *zap.SugaredLogger
}

// Detect classifies the controller front-end at baseURL (§4.3 step 1).
func Detect(ctx context.Context, httpClient *http.Client, baseURL string) (platform.Kind, error) {
	return platform.Detect(ctx, httpClient, baseURL)
}

// New builds a Client that has not yet logged in.
func New(httpClient *http.Client, baseURL, site string, kind platform.Kind, logger *zap.SugaredLogger) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		site:       site,
		kind:       kind,
		logger:     logger,
	}
}

// Clone returns a shallow copy sharing the transport and cookie jar;
// the canonical "acquire guard, clone, release guard, then .await"
// pattern (§4.3, §5) hands this value to a poller before the guard is
// dropped.
func (c *Client) Clone() *Client {
	cp := *c
	return &cp
}

func (c *Client) legacyPrefix() string { return c.kind.LegacyPrefix() }

func (c *Client) apiURL(pathSuffix string) string {
	return c.baseURL + c.legacyPrefix() + "s/" + c.site + "/" + strings.TrimPrefix(pathSuffix, "/")
}

func (c *Client) loginURL() string {
	if c.kind == platform.UniFiOS {
		return c.baseURL + "/api/auth/login"
	}
	return c.baseURL + c.legacyPrefix() + "login"
}

func (c *Client) logoutURL() string {
	if c.kind == platform.UniFiOS {
		return c.baseURL + "/api/auth/logout"
	}
	return c.baseURL + c.legacyPrefix() + "logout"
}

// Login authenticates with username/password; the shared cookie jar
// captures the resulting session cookie (§4.3 step 2).
func (c *Client) Login(ctx context.Context, username, password string) error {
	body, err := json.Marshal(struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}{username, password})
	if err != nil {
		return fmt.Errorf("legacyclient: marshal login body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.loginURL(), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("legacyclient: build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &AuthenticationError{Message: err.Error()}
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &AuthenticationError{Message: fmt.Sprintf("login failed: status=%d body=%q", resp.StatusCode, raw)}
	}
	return nil
}

// Logout is best-effort; failures are logged and ignored by callers (§4.3 step 4).
func (c *Client) Logout(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.logoutURL(), nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.Body.Close()
}

// CookieHeader returns the current session Cookie header value for
// this client's login endpoint (where the session cookie is scoped),
// for the event-stream client's WebSocket handshake (§4.4). Returns ""
// if no session cookie has been set yet.
func (c *Client) CookieHeader() (string, bool) {
	if c.httpClient.Jar == nil {
		return "", false
	}
	u, err := url.Parse(c.loginURL())
	if err != nil {
		return "", false
	}
	cookies := c.httpClient.Jar.Cookies(u)
	if len(cookies) == 0 {
		return "", false
	}
	parts := make([]string, 0, len(cookies))
	for _, ck := range cookies {
		parts = append(parts, ck.Name+"="+ck.Value)
	}
	return strings.Join(parts, "; "), true
}

// Platform reports the detected front-end kind this client was built for.
func (c *Client) Platform() platform.Kind { return c.kind }

// do issues a request against the site-scoped Legacy API and decodes
// the `{meta,data}` envelope's data array into out.
func (c *Client) do(ctx context.Context, method, pathSuffix string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("legacyclient: marshal request body: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.apiURL(pathSuffix), reader)
	if err != nil {
		return fmt.Errorf("legacyclient: build request: %w", err)
	}
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("legacyclient: %s %s: %w", method, pathSuffix, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{Status: resp.StatusCode, Body: string(raw)}
	}

	if out == nil {
		return nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("legacyclient: read response body: %w", err)
	}
	// Binary endpoints (backup download) bypass the JSON envelope.
	if b, ok := out.(*[]byte); ok {
		*b = raw
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		preview := raw
		if len(preview) > 200 {
			preview = preview[:200]
		}
		return fmt.Errorf("legacyclient: decode response: %w (body: %q)", err, preview)
	}
	return nil
}
