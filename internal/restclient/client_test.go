package restclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/brightlane/uctl/internal/platform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	c := New(&http.Client{}, srv.URL, platform.Standalone, "test-key", nil)
	return c, srv
}

func TestNormalizeBaseURLPreservesIntegrationSuffix(t *testing.T) {
	assert.Equal(t, "https://host/integration/", normalizeBaseURL("https://host/integration", platform.Standalone))
	assert.Equal(t, "https://host/integration/", normalizeBaseURL("https://host/integration/", platform.UniFiOS))
	assert.Equal(t, "https://host/integration/", normalizeBaseURL("https://host", platform.Standalone))
	assert.Equal(t, "https://host/proxy/network/integration/", normalizeBaseURL("https://host", platform.UniFiOS))
}

func TestDo401ReturnsInvalidApiKey(t *testing.T) {
	c, srv := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := c.ListSites(context.Background(), 0, 10)
	assert.ErrorIs(t, err, ErrInvalidApiKey)
}

func TestDo404ReturnsIntegrationErrorWithStatus(t *testing.T) {
	c, srv := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"not found","code":"NO_SUCH_RESOURCE"}`))
	}))
	defer srv.Close()

	_, err := c.ListAclRules(context.Background(), "site-1", 0, 10)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	var ierr *IntegrationError
	require.ErrorAs(t, err, &ierr)
	assert.Equal(t, "NO_SUCH_RESOURCE", ierr.Code)
}

func TestDoDecodeFailureReturnsDeserializationErrorWithPreview(t *testing.T) {
	c, srv := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	_, err := c.ListSites(context.Background(), 0, 10)
	require.Error(t, err)
	var derr *DeserializationError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "not json", derr.BodyPreview)
}

func TestXAPIKeyHeaderSent(t *testing.T) {
	var gotKey string
	c, srv := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-API-KEY")
		_ = json.NewEncoder(w).Encode(Page[SiteDTO]{})
	}))
	defer srv.Close()

	_, err := c.ListSites(context.Background(), 0, 10)
	require.NoError(t, err)
	assert.Equal(t, "test-key", gotKey)
}

func TestPaginateAllTerminatesAndConcatenates(t *testing.T) {
	pages := [][]int{{1, 2}, {3, 4}, {5}}
	var calls int
	fetch := func(ctx context.Context, offset int64, limit int32) (Page[int], error) {
		idx := calls
		calls++
		data := pages[idx]
		return Page[int]{Offset: offset, Limit: limit, Count: int32(len(data)), TotalCount: 5, Data: data}, nil
	}

	result, err := PaginateAll(context.Background(), 2, fetch)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, result)
	assert.Equal(t, 3, calls)
}

func TestPaginateAllStopsOnShortPageEvenBelowTotalCount(t *testing.T) {
	fetch := func(ctx context.Context, offset int64, limit int32) (Page[int], error) {
		return Page[int]{Data: []int{1}, TotalCount: 100}, nil
	}
	result, err := PaginateAll(context.Background(), 10, fetch)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, result)
}
