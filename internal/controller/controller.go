// Package controller implements the controller runtime's connection
// lifecycle, full refresh, background pollers, event-stream bridge,
// and command router (§4.7). A Controller owns one REST client, one
// Legacy client, an event-stream client, and an in-memory Store. The
// clients are rebuilt on every Connect and dropped on Disconnect; the
// Store is created once by New and kept across Disconnect — nothing
// here persists across restarts.
package controller

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/brightlane/uctl/internal/config"
	"github.com/brightlane/uctl/internal/eventstream"
	"github.com/brightlane/uctl/internal/legacyclient"
	"github.com/brightlane/uctl/internal/model"
	"github.com/brightlane/uctl/internal/platform"
	"github.com/brightlane/uctl/internal/restclient"
	"github.com/brightlane/uctl/internal/store"
	"github.com/brightlane/uctl/internal/transport"
)

// Controller is the consumer-facing handle onto one controller's
// mirrored state (§6.2). Safe for concurrent use; every accessor reads
// through to the Store, which has its own locking.
type Controller struct {
	cfg    *config.Config
	logger *zap.SugaredLogger

	connected atomic.Bool
	platform  platform.Kind
	siteID    string

	rest *restclient.Client

	legacyMu sync.Mutex
	legacy   *legacyclient.Client // nil if Legacy auth unavailable (§4.7.1 api_key-only path)

	ws    *eventstream.Client
	store *store.Store

	statsCh chan model.DeviceStatsUpdate
	cmdCh   chan commandRequest

	rootCtx    context.Context
	rootCancel context.CancelFunc
	connCancel context.CancelFunc
	wg         sync.WaitGroup

	warnMu   sync.Mutex
	warnings []string
}

// New builds a disconnected Controller. Call Connect before using any
// other method.
func New(cfg *config.Config, logger *zap.SugaredLogger) *Controller {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Controller{
		cfg:    cfg,
		logger: logger,
		store:  store.New(),
	}
}

// Store exposes the underlying in-memory mirror directly; most
// consumer code should prefer the narrower accessor methods in
// accessors.go, but direct access is occasionally convenient (tests,
// diagnostics).
func (c *Controller) Store() *store.Store { return c.store }

// warn records a non-fatal condition surfaced by full_refresh or a
// background task, drained via TakeWarnings (§4.7.3, §6.2).
func (c *Controller) warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	c.logger.Warn(msg)
	c.warnMu.Lock()
	c.warnings = append(c.warnings, msg)
	c.warnMu.Unlock()
}

// TakeWarnings returns and clears every warning accumulated since the
// last call (§4.7.3 "warnings accumulator").
func (c *Controller) TakeWarnings() []string {
	c.warnMu.Lock()
	defer c.warnMu.Unlock()
	out := c.warnings
	c.warnings = nil
	return out
}

// Connect establishes the controller connection: detects the platform,
// authenticates per the configured Auth.Kind, builds the REST/Legacy
// clients, performs the initial full refresh, and spawns every
// background task (§4.7.1). Calling Connect while already connected is
// a no-op error.
func (c *Controller) Connect(ctx context.Context) error {
	if c.connected.Load() {
		return newError("AlreadyConnected", "controller is already connected")
	}
	c.store.Connection.Set(store.ConnectionState{Kind: store.ConnConnecting})

	httpClient, err := transport.Build(c.cfg.Tls.ToTransport(), c.cfg.Timeout(), nil, true)
	if err != nil {
		return fmt.Errorf("controller: build transport: %w", err)
	}

	kind, err := platform.Detect(ctx, httpClient, c.cfg.URL)
	if err != nil {
		c.warn("platform detection failed, assuming standalone: %v", err)
		kind = platform.Standalone
	}
	c.platform = kind
	c.siteID = c.cfg.Site

	if err := c.authenticate(ctx, httpClient, kind); err != nil {
		c.store.Connection.Set(store.ConnectionState{Kind: store.ConnFailed, LastErr: err.Error()})
		return err
	}

	if err := c.resolveSite(ctx); err != nil {
		c.store.Connection.Set(store.ConnectionState{Kind: store.ConnFailed, LastErr: err.Error()})
		return err
	}

	c.statsCh = make(chan model.DeviceStatsUpdate, 64)
	c.cmdCh = make(chan commandRequest, 64)

	if c.rootCancel == nil {
		rootCtx, rootCancel := context.WithCancel(context.Background())
		c.rootCtx = rootCtx
		c.rootCancel = rootCancel
	}
	connCtx, connCancel := context.WithCancel(c.rootCtx)
	c.connCancel = connCancel

	if err := c.fullRefresh(connCtx); err != nil {
		connCancel()
		c.store.Connection.Set(store.ConnectionState{Kind: store.ConnFailed, LastErr: err.Error()})
		return fmt.Errorf("controller: initial full refresh: %w", err)
	}

	c.spawnWebsocket(httpClient)
	c.spawnBackgroundTasks(connCtx)

	c.connected.Store(true)
	c.store.Connection.Set(store.ConnectionState{Kind: store.ConnConnected})
	c.logger.Infow("controller connected", "platform", kind.String(), "site", c.siteID)
	return nil
}

// authenticate builds c.rest and c.legacy per the configured Auth.Kind
// (§4.7.1): ApiKey builds REST and, when a username is configured,
// also attempts a Legacy login, Credentials builds Legacy only,
// Hybrid builds both, Cloud builds REST only and skips Legacy/WS
// entirely since Cloud fronts never expose the cookie session surface.
func (c *Controller) authenticate(ctx context.Context, httpClient *http.Client, kind platform.Kind) error {
	switch c.cfg.Auth.Kind {
	case config.AuthApiKey:
		c.rest = restclient.New(httpClient, c.cfg.URL, kind, c.cfg.Auth.ApiKey, c.logger)
		// Legacy is a supplement here: it feeds events, health, and the
		// stats fields the Integration API omits. Losing it degrades,
		// never fails, the connect (§4.7.1).
		if c.cfg.Auth.Username != "" {
			legacy := legacyclient.New(httpClient, c.cfg.URL, c.cfg.Site, kind, c.logger)
			if err := legacy.Login(ctx, c.cfg.Auth.Username, c.cfg.Auth.Password); err != nil {
				c.warn("legacy login failed, events and health unavailable: %v", err)
			} else {
				c.legacy = legacy
			}
		}
		return nil

	case config.AuthCredentials:
		legacy := legacyclient.New(httpClient, c.cfg.URL, c.cfg.Site, kind, c.logger)
		if err := legacy.Login(ctx, c.cfg.Auth.Username, c.cfg.Auth.Password); err != nil {
			return fmt.Errorf("controller: legacy login: %w", err)
		}
		c.legacy = legacy
		return nil

	case config.AuthHybrid:
		c.rest = restclient.New(httpClient, c.cfg.URL, kind, c.cfg.Auth.ApiKey, c.logger)
		legacy := legacyclient.New(httpClient, c.cfg.URL, c.cfg.Site, kind, c.logger)
		if err := legacy.Login(ctx, c.cfg.Auth.Username, c.cfg.Auth.Password); err != nil {
			c.warn("legacy login failed, continuing REST-only: %v", err)
			return nil
		}
		c.legacy = legacy
		return nil

	case config.AuthCloud:
		c.rest = restclient.New(httpClient, c.cfg.URL, platform.Cloud, c.cfg.Auth.ApiKey, c.logger)
		c.platform = platform.Cloud
		c.warn("cloud access: push event stream and session-only features are unavailable")
		return nil

	default:
		return newError("ValidationFailed", "unrecognized auth kind")
	}
}

func (c *Controller) spawnWebsocket(httpClient *http.Client) {
	if !c.cfg.WebsocketEnabled || c.legacy == nil || !c.platform.SupportsWebsocket() {
		return
	}
	// The push stream addresses sites by slug, never by the resolved UUID.
	insecure := transport.IsInsecure(c.cfg.Tls.ToTransport())
	c.ws = eventstream.New(c.cfg.URL, c.cfg.Site, c.platform, c.legacy, eventstream.DefaultReconnectConfig(), insecure, c.logger)
}

// legacyHandle returns a cloned Legacy client under the canonical
// "acquire guard, clone, release guard, then await" pattern (§4.3,
// §5): the mutex only protects the pointer swap, never the network
// call itself.
func (c *Controller) legacyHandle() *legacyclient.Client {
	c.legacyMu.Lock()
	defer c.legacyMu.Unlock()
	if c.legacy == nil {
		return nil
	}
	return c.legacy.Clone()
}

// resolveSite turns the configured site (slug or UUID) into the site
// UUID the Integration API paths require (§4.7.1 step 6). A site that
// already is a UUID short-circuits without a list call; otherwise the
// site list is scanned for a matching internal reference. Legacy-only
// configurations keep the slug — the cookie API addresses sites by
// slug, never UUID.
func (c *Controller) resolveSite(ctx context.Context) error {
	c.siteID = c.cfg.Site
	if c.rest == nil {
		return nil
	}
	if _, err := uuid.Parse(c.cfg.Site); err == nil {
		return nil
	}
	sites, err := restclient.PaginateAll(ctx, 100, func(ctx context.Context, offset int64, limit int32) (restclient.Page[restclient.SiteDTO], error) {
		return c.rest.ListSites(ctx, offset, limit)
	})
	if err != nil {
		return fmt.Errorf("controller: list sites: %w", err)
	}
	for _, s := range sites {
		if s.InternalReference == c.cfg.Site {
			c.siteID = s.ID
			return nil
		}
	}
	return ErrSiteNotFound(c.cfg.Site)
}

// Disconnect cancels the connection-lifetime child token, awaits every
// background task, logs out of the Legacy session if one is active,
// and resets the Controller to its pre-Connect state (§4.7.2). The
// controller-lifetime parent token survives so a subsequent Connect can
// reuse it; the Store is left as-is so a caller can still read the
// last-known snapshot after Disconnect returns.
func (c *Controller) Disconnect(ctx context.Context) error {
	if !c.connected.Load() {
		return nil
	}
	c.connCancel()
	c.wg.Wait()

	if legacy := c.legacyHandle(); legacy != nil {
		if err := legacy.Logout(ctx); err != nil {
			c.warn("legacy logout failed: %v", err)
		}
	}

	c.legacyMu.Lock()
	c.legacy = nil
	c.legacyMu.Unlock()
	c.rest = nil
	c.ws = nil

	c.connected.Store(false)
	c.store.Connection.Set(store.ConnectionState{Kind: store.ConnDisconnected})
	c.logger.Info("controller disconnected")
	return nil
}

// Close cancels the controller-lifetime parent token. The Controller
// cannot be reused after Close; callers wanting to reconnect later
// should use Disconnect instead.
func (c *Controller) Close() {
	if c.connected.Load() {
		_ = c.Disconnect(context.Background())
	}
	if c.rootCancel != nil {
		c.rootCancel()
	}
}

// Oneshot builds a Controller with the websocket and periodic refresh
// forced off, connects, runs f, and disconnects — the CLI single-request
// path that must not leave pollers running (§4.7.7).
func Oneshot[T any](ctx context.Context, cfg *config.Config, logger *zap.SugaredLogger, f func(*Controller) (T, error)) (T, error) {
	var zero T
	oneCfg := *cfg
	oneCfg.WebsocketEnabled = false
	oneCfg.RefreshIntervalSecs = 0
	ctrl := New(&oneCfg, logger)
	if err := ctrl.Connect(ctx); err != nil {
		return zero, err
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = ctrl.Disconnect(dctx)
	}()
	return f(ctrl)
}
