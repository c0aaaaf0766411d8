package eventstream

import (
	"context"
	"crypto/tls"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/brightlane/uctl/internal/broadcast"
	"github.com/brightlane/uctl/internal/platform"
)

// ReconnectConfig bounds the exponential backoff used between dial
// attempts (§4.7.2 "websocket reconnect"); a MaxAttempts of 0 means
// unlimited.
type ReconnectConfig struct {
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
	MaxAttempts  int
}

// DefaultReconnectConfig matches the cadence the donor's instance.go
// watch-retry loop uses: start fast, back off to a one-minute ceiling,
// retry forever.
func DefaultReconnectConfig() ReconnectConfig {
	return ReconnectConfig{
		InitialDelay: time.Second,
		MaxDelay:     time.Minute,
		Multiplier:   2,
		MaxAttempts:  0,
	}
}

func (c ReconnectConfig) delay(attempt int) time.Duration {
	d := float64(c.InitialDelay) * math.Pow(c.Multiplier, float64(attempt))
	if time.Duration(d) > c.MaxDelay {
		return c.MaxDelay
	}
	return time.Duration(d)
}

// CookieSource supplies the session cookie used to authenticate the
// websocket handshake; legacyclient.Client.CookieHeader satisfies it.
type CookieSource interface {
	CookieHeader() (string, bool)
}

// Client maintains a reconnecting websocket connection to the
// controller's push event endpoint and republishes every decoded
// Message to its subscribers.
type Client struct {
	baseURL   string
	site      string
	kind      platform.Kind
	cookies   CookieSource
	reconnect ReconnectConfig
	insecure  bool
	logger    *zap.SugaredLogger
	hub       *broadcast.Hub[Message]

	stateHub *broadcast.Hub[ConnectionState]
}

// ConnectionState mirrors the controller-wide connection state
// (§4.7.5) as observed from the websocket's perspective.
type ConnectionState int

const (
	StateDisconnected ConnectionState = iota
	StateConnecting
	StateConnected
	StateReconnecting
	StateFailed
)

// New builds an eventstream Client. baseURL is the controller's HTTP
// base URL; the websocket path is derived from kind.WebsocketPath()
// with site substituted for the {site} placeholder. insecure mirrors
// the transport's accept-all-invalid TLS policy onto the dialer.
func New(baseURL, site string, kind platform.Kind, cookies CookieSource, reconnect ReconnectConfig, insecure bool, logger *zap.SugaredLogger) *Client {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Client{
		baseURL:   baseURL,
		site:      site,
		kind:      kind,
		cookies:   cookies,
		reconnect: reconnect,
		insecure:  insecure,
		logger:    logger,
		hub:       broadcast.New[Message](256),
		stateHub:  broadcast.New[ConnectionState](8),
	}
}

// Subscribe registers a new Message subscriber.
func (c *Client) Subscribe() *broadcast.Subscription[Message] { return c.hub.Subscribe() }

// SubscribeState registers a new ConnectionState subscriber.
func (c *Client) SubscribeState() *broadcast.Subscription[ConnectionState] { return c.stateHub.Subscribe() }

// Run dials and redials the websocket until ctx is cancelled. On a
// platform without a push stream it returns nil at once; otherwise it
// does not return until ctx is done (or MaxAttempts is exhausted), so
// callers run it as a background task per §4.7.4.
func (c *Client) Run(ctx context.Context) error {
	if !c.kind.SupportsWebsocket() {
		c.stateHub.Publish(StateDisconnected)
		return nil
	}

	attempt := 0
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if attempt == 0 {
			c.stateHub.Publish(StateConnecting)
		} else {
			c.stateHub.Publish(StateReconnecting)
		}

		err := c.runOnce(ctx)
		if ctx.Err() != nil {
			c.stateHub.Publish(StateDisconnected)
			return ctx.Err()
		}
		if err != nil {
			c.logger.Warnw("eventstream connection lost", "error", err, "attempt", attempt)
		}
		attempt++
		if c.reconnect.MaxAttempts > 0 && attempt >= c.reconnect.MaxAttempts {
			c.stateHub.Publish(StateFailed)
			return fmt.Errorf("eventstream: exhausted %d reconnect attempts: %w", attempt, err)
		}

		select {
		case <-time.After(c.reconnect.delay(attempt - 1)):
		case <-ctx.Done():
			c.stateHub.Publish(StateDisconnected)
			return ctx.Err()
		}
	}
}

func (c *Client) wsURL() (string, error) {
	path, ok := c.kind.WebsocketPath()
	if !ok {
		return "", fmt.Errorf("eventstream: platform %s has no websocket endpoint", c.kind)
	}
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.Replace(path, "{site}", c.site, 1)
	return u.String(), nil
}

func (c *Client) runOnce(ctx context.Context) error {
	target, err := c.wsURL()
	if err != nil {
		return err
	}

	header := http.Header{}
	if c.cookies != nil {
		if ck, ok := c.cookies.CookieHeader(); ok {
			header.Set("Cookie", ck)
		}
	}

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	if c.insecure {
		dialer.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}
	conn, resp, err := dialer.DialContext(ctx, target, header)
	if err != nil {
		if resp != nil {
			return fmt.Errorf("eventstream: dial %s: status %d: %w", target, resp.StatusCode, err)
		}
		return fmt.Errorf("eventstream: dial %s: %w", target, err)
	}
	defer conn.Close()

	c.stateHub.Publish(StateConnected)

	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second))
			_ = conn.Close()
		case <-done:
		}
	}()
	defer close(done)

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		msg, err := parseMessage(raw)
		if err != nil {
			c.logger.Debugw("eventstream: dropping unparseable message", "error", err)
			continue
		}
		c.hub.Publish(msg)
	}
}
