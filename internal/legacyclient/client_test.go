package legacyclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightlane/uctl/internal/platform"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	c := New(&http.Client{Jar: jar}, srv.URL, "default", platform.Standalone, nil)
	return c, srv
}

func TestLoginCapturesSessionCookie(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/login", func(w http.ResponseWriter, r *http.Request) {
		var creds struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		assert.Equal(t, "admin", creds.Username)
		http.SetCookie(w, &http.Cookie{Name: "unifises", Value: "session-token"})
		_, _ = w.Write([]byte(`{"meta":{"rc":"ok"},"data":[]}`))
	})
	c, srv := newTestClient(t, mux)
	defer srv.Close()

	require.NoError(t, c.Login(context.Background(), "admin", "secret"))

	header, ok := c.CookieHeader()
	require.True(t, ok)
	assert.Contains(t, header, "unifises=session-token")
}

func TestLoginFailureReturnsAuthenticationError(t *testing.T) {
	c, srv := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	err := c.Login(context.Background(), "admin", "wrong")
	var aerr *AuthenticationError
	require.ErrorAs(t, err, &aerr)
}

func TestListDevicesDecodesEnvelope(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/s/default/stat/device", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"meta":{"rc":"ok"},"data":[
			{"_id":"d1","mac":"aa:bb:cc:00:11:22","name":"gw","type":"ugw","state":1,"version":"7.0.0",
			 "uptime":1234,"num_sta":3,"sys_stats":{"cpu":"12.5","mem_used":100,"mem_total":400},
			 "wan1":{"ipv6":["2001:db8::1"]}}
		]}`))
	})
	c, srv := newTestClient(t, mux)
	defer srv.Close()

	devices, err := c.ListDevices(context.Background())
	require.NoError(t, err)
	require.Len(t, devices, 1)
	d := devices[0]
	assert.Equal(t, "aa:bb:cc:00:11:22", d.Mac)
	assert.Equal(t, 1, d.State)
	assert.Equal(t, int64(1234), *d.Uptime)
	assert.Equal(t, "12.5", *d.SysStats.Cpu)
	// Extra preserves keys outside the typed fields.
	_, ok := d.Extra["wan1"]
	assert.True(t, ok)
}

func TestNon2xxReturnsAPIError(t *testing.T) {
	c, srv := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"meta":{"rc":"error","msg":"api.err.NoPermission"}}`))
	}))
	defer srv.Close()

	_, err := c.ListDevices(context.Background())
	var aerr *APIError
	require.ErrorAs(t, err, &aerr)
	assert.Equal(t, http.StatusForbidden, aerr.Status)
}

func TestCloneSharesCookieJar(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/login", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "unifises", Value: "shared"})
	})
	c, srv := newTestClient(t, mux)
	defer srv.Close()

	clone := c.Clone()
	require.NoError(t, c.Login(context.Background(), "admin", "secret"))

	header, ok := clone.CookieHeader()
	require.True(t, ok)
	assert.Contains(t, header, "unifises=shared")
}

func TestUniFiOSPathsUseProxyPrefix(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"meta":{"rc":"ok"},"data":[]}`))
	}))
	defer srv.Close()

	c := New(&http.Client{}, srv.URL, "default", platform.UniFiOS, nil)
	_, err := c.ListClients(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/proxy/network/api/s/default/stat/sta", gotPath)
}
