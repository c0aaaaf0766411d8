package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/brightlane/uctl/internal/config"
	"github.com/brightlane/uctl/internal/model"
	"github.com/brightlane/uctl/internal/store"
)

const (
	siteUUID    = "22222222-2222-2222-2222-222222222222"
	deviceUUID  = "33333333-3333-3333-3333-333333333333"
	networkUUID = "44444444-4444-4444-4444-444444444444"
	deviceMac   = "aa:bb:cc:00:11:22"
)

// recorded is one request the mock controller observed.
type recorded struct {
	Method string
	Path   string
	Body   string
}

// mockControllerServer stands in for both API surfaces of one
// controller: the Integration API under /integration/v1 and the Legacy
// cookie API under /api. Legacy client-list contents are mutable so
// tests can simulate churn between polls.
type mockControllerServer struct {
	srv *httptest.Server

	mu            sync.Mutex
	requests      []recorded
	legacyClients []map[string]any
}

func (m *mockControllerServer) record(r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	m.mu.Lock()
	m.requests = append(m.requests, recorded{Method: r.Method, Path: r.URL.Path, Body: string(body)})
	m.mu.Unlock()
}

func (m *mockControllerServer) find(method, pathSubstr string) (recorded, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.requests {
		if r.Method == method && strings.Contains(r.Path, pathSubstr) {
			return r, true
		}
	}
	return recorded{}, false
}

func (m *mockControllerServer) setLegacyClients(clients []map[string]any) {
	m.mu.Lock()
	m.legacyClients = clients
	m.mu.Unlock()
}

func pageJSON(w http.ResponseWriter, data any) {
	raw, _ := json.Marshal(data)
	var count int
	var arr []json.RawMessage
	_ = json.Unmarshal(raw, &arr)
	count = len(arr)
	_, _ = fmt.Fprintf(w, `{"offset":0,"limit":100,"count":%d,"totalCount":%d,"data":%s}`, count, count, raw)
}

func envelopeJSON(w http.ResponseWriter, data any) {
	raw, _ := json.Marshal(data)
	_, _ = fmt.Fprintf(w, `{"meta":{"rc":"ok"},"data":%s}`, raw)
}

func newMockController(t *testing.T) *mockControllerServer {
	t.Helper()
	m := &mockControllerServer{
		legacyClients: []map[string]any{
			{"_id": "c-aa", "mac": "aa:aa:aa:aa:aa:aa", "is_wired": true},
			{"_id": "c-bb", "mac": "bb:bb:bb:bb:bb:bb", "is_wired": true},
			{"_id": "c-cc", "mac": "cc:cc:cc:cc:cc:cc", "is_wired": true},
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Server", "UniFi")
	})
	mux.HandleFunc("POST /api/login", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "unifises", Value: "test-session"})
		_, _ = w.Write([]byte(`{"meta":{"rc":"ok"},"data":[]}`))
	})
	mux.HandleFunc("POST /api/logout", func(w http.ResponseWriter, r *http.Request) {})

	mux.HandleFunc("GET /integration/v1/sites", func(w http.ResponseWriter, r *http.Request) {
		pageJSON(w, []map[string]any{
			{"id": "11111111-1111-1111-1111-111111111111", "internalReference": "default", "name": "Default"},
			{"id": siteUUID, "internalReference": "home", "name": "Home"},
		})
	})
	mux.HandleFunc("GET /integration/v1/sites/"+siteUUID+"/devices", func(w http.ResponseWriter, r *http.Request) {
		pageJSON(w, []map[string]any{{
			"id":              deviceUUID,
			"macAddress":      deviceMac,
			"name":            "office-gateway",
			"model":           "UDM-Pro",
			"features":        []string{"switching", "router"},
			"state":           "ONLINE",
			"firmwareVersion": "4.0.0",
		}})
	})
	mux.HandleFunc("GET /integration/v1/sites/"+siteUUID+"/devices/"+deviceUUID+"/statistics/latest", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"uptimeSec":7200,"cpuUtilizationPct":40}`))
	})
	mux.HandleFunc("POST /integration/v1/sites/"+siteUUID+"/devices/"+deviceUUID+"/actions", func(w http.ResponseWriter, r *http.Request) {
		m.record(r)
	})
	mux.HandleFunc("GET /integration/v1/sites/"+siteUUID+"/networks", func(w http.ResponseWriter, r *http.Request) {
		pageJSON(w, []map[string]any{{"id": networkUUID, "name": "LAN", "enabled": true}})
	})
	mux.HandleFunc("GET /integration/v1/sites/"+siteUUID+"/networks/"+networkUUID, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"` + networkUUID + `","name":"LAN","enabled":true,"vlanId":10,"subnet":"10.0.0.0/24","gatewayIp":"10.0.0.1"}`))
	})
	mux.HandleFunc("PUT /integration/v1/sites/"+siteUUID+"/networks/"+networkUUID, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		m.mu.Lock()
		m.requests = append(m.requests, recorded{Method: "PUT", Path: r.URL.Path, Body: string(body)})
		m.mu.Unlock()
		_, _ = w.Write(body)
	})
	mux.HandleFunc("GET /integration/v1/sites/"+siteUUID+"/wifi/broadcasts", func(w http.ResponseWriter, r *http.Request) {
		pageJSON(w, []map[string]any{})
	})
	mux.HandleFunc("GET /integration/v1/sites/"+siteUUID+"/firewall/policies", func(w http.ResponseWriter, r *http.Request) {
		pageJSON(w, []map[string]any{})
	})
	mux.HandleFunc("GET /integration/v1/sites/"+siteUUID+"/firewall/zones", func(w http.ResponseWriter, r *http.Request) {
		pageJSON(w, []map[string]any{})
	})
	mux.HandleFunc("GET /integration/v1/sites/"+siteUUID+"/traffic-matching-lists", func(w http.ResponseWriter, r *http.Request) {
		pageJSON(w, []map[string]any{})
	})
	// Optional endpoints: this firmware does not support them (S3).
	for _, p := range []string{"acl-rules", "dns/policies", "hotspot/vouchers"} {
		mux.HandleFunc("GET /integration/v1/sites/"+siteUUID+"/"+p, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"not found","code":"NO_SUCH_RESOURCE"}`))
		})
	}

	mux.HandleFunc("GET /api/s/home/stat/device", func(w http.ResponseWriter, r *http.Request) {
		envelopeJSON(w, []map[string]any{{
			"_id": "legacy-dev-1", "mac": deviceMac, "name": "office-gateway", "type": "udm",
			"state": 1, "version": "4.0.0", "num_sta": 9,
			"uplink": "dd:ee:ff:00:11:22",
			"wan1":   map[string]any{"ipv6": []string{"2001:db8::1"}},
		}})
	})
	mux.HandleFunc("GET /api/s/home/stat/sta", func(w http.ResponseWriter, r *http.Request) {
		m.mu.Lock()
		clients := m.legacyClients
		m.mu.Unlock()
		envelopeJSON(w, clients)
	})
	mux.HandleFunc("GET /api/s/home/stat/health", func(w http.ResponseWriter, r *http.Request) {
		envelopeJSON(w, []map[string]any{{"subsystem": "wan", "status": "ok", "latency": 12}})
	})
	mux.HandleFunc("GET /api/s/home/stat/event", func(w http.ResponseWriter, r *http.Request) {
		envelopeJSON(w, []map[string]any{{"_id": "e1", "key": "EVT_AP_LOST_CONTACT", "msg": "AP lost contact"}})
	})
	mux.HandleFunc("POST /api/s/home/cmd/devmgr", func(w http.ResponseWriter, r *http.Request) {
		m.record(r)
		_, _ = w.Write([]byte(`{"meta":{"rc":"ok"},"data":[]}`))
	})
	mux.HandleFunc("POST /api/s/home/cmd/stamgr", func(w http.ResponseWriter, r *http.Request) {
		m.record(r)
		_, _ = w.Write([]byte(`{"meta":{"rc":"ok"},"data":[]}`))
	})
	mux.HandleFunc("POST /api/s/home/cmd/backup", func(w http.ResponseWriter, r *http.Request) {
		m.record(r)
		_, _ = w.Write([]byte(`{"meta":{"rc":"ok"},"data":[]}`))
	})

	m.srv = httptest.NewServer(mux)
	t.Cleanup(m.srv.Close)
	return m
}

func testConfig(url string) *config.Config {
	return &config.Config{
		URL:  url,
		Site: "home",
		Auth: config.Auth{
			Kind:     config.AuthHybrid,
			ApiKey:   "test-key",
			Username: "admin",
			Password: "secret",
		},
		TimeoutSecs:             5,
		RefreshIntervalSecs:     0,
		BandwidthPollIntervalMs: 0,
		WebsocketEnabled:        false,
	}
}

func connectedController(t *testing.T) (*Controller, *mockControllerServer) {
	t.Helper()
	m := newMockController(t)
	ctrl := New(testConfig(m.srv.URL), zap.NewNop().Sugar())
	require.NoError(t, ctrl.Connect(context.Background()))
	t.Cleanup(func() { _ = ctrl.Disconnect(context.Background()) })
	return ctrl, m
}

func TestConnectResolvesSiteBySlug(t *testing.T) {
	ctrl, _ := connectedController(t)
	assert.Equal(t, siteUUID, ctrl.siteID)
}

func TestConnectShortCircuitsUUIDSite(t *testing.T) {
	m := newMockController(t)
	cfg := testConfig(m.srv.URL)
	cfg.Site = siteUUID
	ctrl := New(cfg, zap.NewNop().Sugar())
	require.NoError(t, ctrl.Connect(context.Background()))
	defer ctrl.Disconnect(context.Background())
	assert.Equal(t, siteUUID, ctrl.siteID)
}

func TestConnectUnknownSiteFails(t *testing.T) {
	m := newMockController(t)
	cfg := testConfig(m.srv.URL)
	cfg.Site = "nonexistent"
	ctrl := New(cfg, zap.NewNop().Sugar())
	err := ctrl.Connect(context.Background())
	require.Error(t, err)
	var cerr *Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "SiteNotFound", cerr.Kind)
}

func TestFullRefreshPopulatesStore(t *testing.T) {
	ctrl, _ := connectedController(t)

	devices := ctrl.DevicesSnapshot()
	require.Len(t, devices, 1)
	d := devices[0]
	assert.Equal(t, deviceMac, d.Mac.String())
	assert.Equal(t, model.DeviceTypeGateway, d.Type)
	assert.Equal(t, model.DeviceStateOnline, d.State)
	// REST statistics merged in.
	require.NotNil(t, d.Stats.CpuUtilizationPct)
	assert.Equal(t, 40.0, *d.Stats.CpuUtilizationPct)
	// Legacy supplement filled the fields REST omits.
	assert.Equal(t, "2001:db8::1", d.WanIPv6)
	require.NotNil(t, d.UplinkDeviceMac)
	assert.Equal(t, "dd:ee:ff:00:11:22", d.UplinkDeviceMac.String())
	require.NotNil(t, d.ClientCount)
	assert.Equal(t, 9, *d.ClientCount)

	networks := ctrl.NetworksSnapshot()
	require.Len(t, networks, 1)
	assert.Equal(t, "LAN", networks[0].Name)

	assert.Len(t, ctrl.ClientsSnapshot(), 3)
	assert.Len(t, ctrl.SitesSnapshot(), 2)
}

func TestOptionalEndpoint404sDegradeToEmpty(t *testing.T) {
	ctrl, _ := connectedController(t)

	assert.Empty(t, ctrl.AclRulesSnapshot())
	assert.Empty(t, ctrl.DnsPoliciesSnapshot())
	assert.Empty(t, ctrl.VouchersSnapshot())
	// Other kinds are unaffected.
	assert.NotEmpty(t, ctrl.DevicesSnapshot())

	state, _ := ctrl.ConnectionState().Get()
	assert.Equal(t, store.ConnConnected, state.Kind)
}

func TestHealthAndEventsCapturedOnRefresh(t *testing.T) {
	ctrl, _ := connectedController(t)

	health, _ := ctrl.SiteHealth().Get()
	require.Len(t, health, 1)
	assert.Equal(t, "wan", health[0].Subsystem)

	events := ctrl.RecentEvents(10)
	require.NotEmpty(t, events)
	assert.Equal(t, "EVT_AP_LOST_CONTACT", events[0].EventType)
	assert.Equal(t, model.SeverityWarning, events[0].Severity)
}

func TestClientPollPurgesStaleKeys(t *testing.T) {
	ctrl, m := connectedController(t)
	require.Len(t, ctrl.ClientsSnapshot(), 3)

	m.setLegacyClients([]map[string]any{
		{"_id": "c-aa", "mac": "aa:aa:aa:aa:aa:aa", "is_wired": true},
		{"_id": "c-cc", "mac": "cc:cc:cc:cc:cc:cc", "is_wired": true},
		{"_id": "c-dd", "mac": "dd:dd:dd:dd:dd:dd", "is_wired": true},
	})

	sub := ctrl.Clients()

	// Observe the pre-poll snapshot.
	pre := sub.Current()
	require.Len(t, pre, 3)

	ctrl.refreshClientsAndHealth(context.Background(), time.Now().UTC())

	snap, err := sub.Next(t.Context())
	require.NoError(t, err)
	macs := make(map[string]bool, len(snap))
	for _, c := range snap {
		macs[c.Mac.String()] = true
	}
	assert.Equal(t, map[string]bool{
		"aa:aa:aa:aa:aa:aa": true,
		"cc:cc:cc:cc:cc:cc": true,
		"dd:dd:dd:dd:dd:dd": true,
	}, macs)

	// Exactly one publish for the whole poll diff: no newer snapshot follows.
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = sub.Next(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestDisconnectJoinsTasksAndRejectsCommands(t *testing.T) {
	ctrl, _ := connectedController(t)
	require.NoError(t, ctrl.Disconnect(context.Background()))

	state, _ := ctrl.ConnectionState().Get()
	assert.Equal(t, store.ConnDisconnected, state.Kind)

	err := ctrl.Execute(context.Background(), RestartDevice{ID: mustUUID(t, deviceUUID)})
	assert.ErrorIs(t, err, ErrControllerDisconnected)

	// The last snapshot remains readable after disconnect.
	assert.NotEmpty(t, ctrl.DevicesSnapshot())
}

func TestTakeWarningsDrainsOnce(t *testing.T) {
	ctrl, _ := connectedController(t)
	ctrl.warn("something soft failed")

	first := ctrl.TakeWarnings()
	assert.NotEmpty(t, first)
	assert.Empty(t, ctrl.TakeWarnings())
}

func mustUUID(t *testing.T, raw string) model.EntityId {
	t.Helper()
	id, err := model.ParseUUIDEntityId(raw)
	require.NoError(t, err)
	return id
}
