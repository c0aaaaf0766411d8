package eventstream

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightlane/uctl/internal/platform"
)

func TestMessageUnmarshalPreservesExtra(t *testing.T) {
	raw := []byte(`{
		"key": "device:sync",
		"site_id": "s1",
		"mac": "aa:bb:cc:00:11:22",
		"uptime": 99
	}`)
	var m Message
	require.NoError(t, json.Unmarshal(raw, &m))

	assert.Equal(t, "device:sync", m.Key)
	assert.Equal(t, "s1", m.SiteID)
	_, ok := m.Extra["mac"]
	assert.True(t, ok)
	_, ok = m.Extra["uptime"]
	assert.True(t, ok)
}

func TestIsSync(t *testing.T) {
	assert.True(t, Message{Key: "device:sync"}.IsSync())
	assert.True(t, Message{Key: "device:update"}.IsSync())
	assert.True(t, Message{Key: "sta:sync"}.IsSync())
	assert.False(t, Message{Key: "EVT_WU_Connected"}.IsSync())
	assert.False(t, Message{Key: ""}.IsSync())
}

func TestReconnectDelayIsCappedAtMax(t *testing.T) {
	cfg := DefaultReconnectConfig()
	assert.Equal(t, cfg.InitialDelay, cfg.delay(0))
	assert.LessOrEqual(t, cfg.delay(20), cfg.MaxDelay)
	assert.Equal(t, cfg.MaxDelay, cfg.delay(30))
}

func TestWsURLSubstitutesSiteAndScheme(t *testing.T) {
	c := New("https://controller.local:8443", "home", platform.UniFiOS, nil, DefaultReconnectConfig(), false, nil)
	u, err := c.wsURL()
	require.NoError(t, err)
	assert.Equal(t, "wss://controller.local:8443/proxy/network/wss/s/home/events", u)
}
