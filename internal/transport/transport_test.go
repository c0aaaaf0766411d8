package transport

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSensitiveHeaderRoundTrip(t *testing.T) {
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-API-KEY")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	rt := &SensitiveHeader{Name: "X-API-KEY", Value: "secret-123", Base: http.DefaultTransport}
	client := &http.Client{Transport: rt}

	resp, err := client.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "secret-123", gotKey)
}

func TestDefaultHeadersDoesNotOverwrite(t *testing.T) {
	var gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAccept = r.Header.Get("Accept")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	rt := &DefaultHeaders{
		Headers: http.Header{"Accept": []string{"application/json"}},
		Base:    http.DefaultTransport,
	}
	client := &http.Client{Transport: rt}

	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	req.Header.Set("Accept", "text/plain")

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "text/plain", gotAccept)
}

func TestBuildAcceptAllInvalidDisablesVerification(t *testing.T) {
	client, err := Build(TlsConfig{Mode: TlsAcceptAllInvalid}, 5*time.Second, nil, false)
	require.NoError(t, err)

	transport, ok := client.Transport.(*http.Transport)
	require.True(t, ok)
	assert.True(t, transport.TLSClientConfig.InsecureSkipVerify)
}

func TestBuildCustomCaBundleMissingFile(t *testing.T) {
	_, err := Build(TlsConfig{Mode: TlsCustomCaBundle, CaBundlePath: "/nonexistent/ca.pem"}, time.Second, nil, false)
	require.Error(t, err)
	var terr *Error
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, "InvalidTlsConfig", terr.Kind)
}

func TestBuildWithCookieJar(t *testing.T) {
	client, err := Build(TlsConfig{Mode: TlsSystemRoots}, time.Second, nil, true)
	require.NoError(t, err)
	assert.NotNil(t, client.Jar)
}
