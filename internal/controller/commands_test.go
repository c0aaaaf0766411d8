package controller

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightlane/uctl/internal/config"
	"github.com/brightlane/uctl/internal/model"
)

func TestRestartDeviceRoutesToRESTForUUID(t *testing.T) {
	ctrl, m := connectedController(t)

	err := ctrl.Execute(context.Background(), RestartDevice{ID: mustUUID(t, deviceUUID)})
	require.NoError(t, err)

	req, ok := m.find("POST", "/devices/"+deviceUUID+"/actions")
	require.True(t, ok)
	assert.JSONEq(t, `{"action":"RESTART"}`, req.Body)
}

func TestRestartDeviceFallsThroughToLegacyForLegacyID(t *testing.T) {
	ctrl, m := connectedController(t)

	// A device only the Legacy surface knows about: legacy id, MAC key.
	legacyID := model.NewLegacyEntityId("legacy-dev-9")
	mac := model.NewMacAddress("bb:cc:dd:ee:ff:00")
	ctrl.store.Devices.Upsert(mac.String(), model.Device{ID: legacyID, Mac: mac})

	err := ctrl.Execute(context.Background(), RestartDevice{ID: legacyID})
	require.NoError(t, err)

	req, ok := m.find("POST", "cmd/devmgr")
	require.True(t, ok)
	assert.JSONEq(t, `{"cmd":"restart","mac":"bb:cc:dd:ee:ff:00"}`, req.Body)
}

func TestRestartDeviceUnknownLegacyIDFails(t *testing.T) {
	ctrl, _ := connectedController(t)

	err := ctrl.Execute(context.Background(), RestartDevice{ID: model.NewLegacyEntityId("nope")})
	var cerr *Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "DeviceNotFound", cerr.Kind)
}

func TestLocateDeviceActionLiterals(t *testing.T) {
	ctrl, m := connectedController(t)

	require.NoError(t, ctrl.Execute(context.Background(), LocateDevice{ID: mustUUID(t, deviceUUID), On: true}))
	req, ok := m.find("POST", "/actions")
	require.True(t, ok)
	assert.JSONEq(t, `{"action":"LOCATE_ON"}`, req.Body)
}

func TestBlockClientFallsThroughToLegacy(t *testing.T) {
	ctrl, m := connectedController(t)

	// Clients in the store came from the Legacy poll, so their ids are
	// legacy strings and block routes through stamgr.
	err := ctrl.Execute(context.Background(), BlockClient{ID: model.NewLegacyEntityId("c-aa")})
	require.NoError(t, err)

	req, ok := m.find("POST", "cmd/stamgr")
	require.True(t, ok)
	assert.JSONEq(t, `{"cmd":"block-sta","mac":"aa:aa:aa:aa:aa:aa"}`, req.Body)
}

func TestUpdateNetworkMergesFieldsOntoCurrent(t *testing.T) {
	ctrl, m := connectedController(t)

	err := ctrl.Execute(context.Background(), UpdateNetwork{
		ID:     mustUUID(t, networkUUID),
		Fields: map[string]any{"name": "LAN-renamed"},
	})
	require.NoError(t, err)

	req, ok := m.find("PUT", "/networks/"+networkUUID)
	require.True(t, ok)
	// The caller only supplied name; server-managed fields survive.
	assert.Contains(t, req.Body, `"name":"LAN-renamed"`)
	assert.Contains(t, req.Body, `"subnet":"10.0.0.0/24"`)
	assert.Contains(t, req.Body, `"vlanId":10`)

	// Store reflects the write optimistically.
	nets := ctrl.NetworksSnapshot()
	require.Len(t, nets, 1)
	assert.Equal(t, "LAN-renamed", nets[0].Name)
}

func TestUpdateNetworkRejectsLegacyID(t *testing.T) {
	ctrl, _ := connectedController(t)

	err := ctrl.Execute(context.Background(), UpdateNetwork{
		ID:     model.NewLegacyEntityId("abc"),
		Fields: map[string]any{"name": "x"},
	})
	var cerr *Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "ValidationFailed", cerr.Kind)
}

func TestLegacyOnlyCommandRequiresSession(t *testing.T) {
	m := newMockController(t)
	cfg := testConfig(m.srv.URL)
	cfg.Auth.Kind = config.AuthApiKey
	cfg.Auth.Username = ""
	cfg.Auth.Password = ""
	ctrl := New(cfg, nil)
	require.NoError(t, ctrl.Connect(context.Background()))
	defer ctrl.Disconnect(context.Background())

	err := ctrl.Execute(context.Background(), RebootController{})
	var cerr *Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "Unsupported", cerr.Kind)
}

func TestCreateBackupRoutesToLegacy(t *testing.T) {
	ctrl, m := connectedController(t)

	err := ctrl.Execute(context.Background(), CreateBackup{})
	require.NoError(t, err)
	_, ok := m.find("POST", "cmd/backup")
	assert.True(t, ok)
}
