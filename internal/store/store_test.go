package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightlane/uctl/internal/model"
)

func fp(v float64) *float64 { return &v }

func TestApplyDeviceStatsUpdateMergesFieldByField(t *testing.T) {
	s := New()
	mac := model.NewMacAddress("aa:bb:cc:00:11:22")

	cpu := 40.0
	s.Devices.Upsert(mac.String(), model.Device{
		Mac:   mac,
		Stats: model.DeviceStats{CpuUtilizationPct: &cpu},
	})

	// CPU-only update bumps CPU and nothing else.
	s.ApplyDeviceStatsUpdate(model.DeviceStatsUpdate{
		Mac:   mac,
		Stats: model.DeviceStats{CpuUtilizationPct: fp(55)},
	})
	d, ok := s.Devices.Get(mac.String())
	require.True(t, ok)
	assert.Equal(t, 55.0, *d.Stats.CpuUtilizationPct)
	assert.Nil(t, d.Stats.MemoryUtilizationPct)

	// Mem+bandwidth update leaves the newer CPU alone.
	s.ApplyDeviceStatsUpdate(model.DeviceStatsUpdate{
		Mac: mac,
		Stats: model.DeviceStats{
			MemoryUtilizationPct: fp(60),
			UplinkBandwidth:      &model.Bandwidth{TxBytesPerSec: 1000, RxBytesPerSec: 2000},
		},
	})
	d, _ = s.Devices.Get(mac.String())
	assert.Equal(t, 55.0, *d.Stats.CpuUtilizationPct)
	assert.Equal(t, 60.0, *d.Stats.MemoryUtilizationPct)
	assert.Equal(t, uint64(1000), d.Stats.UplinkBandwidth.TxBytesPerSec)

	// A later CPU-only update keeps mem and bandwidth.
	s.ApplyDeviceStatsUpdate(model.DeviceStatsUpdate{
		Mac:   mac,
		Stats: model.DeviceStats{CpuUtilizationPct: fp(70)},
	})
	d, _ = s.Devices.Get(mac.String())
	assert.Equal(t, 70.0, *d.Stats.CpuUtilizationPct)
	assert.Equal(t, 60.0, *d.Stats.MemoryUtilizationPct)
	assert.Equal(t, uint64(2000), d.Stats.UplinkBandwidth.RxBytesPerSec)
}

func TestApplyDeviceStatsUpdateSupplementFields(t *testing.T) {
	s := New()
	mac := model.NewMacAddress("aa:bb:cc:00:11:22")
	s.Devices.Upsert(mac.String(), model.Device{Mac: mac})

	n := 7
	v6 := "2001:db8::1"
	uplink := model.NewMacAddress("dd:ee:ff:00:11:22")
	s.ApplyDeviceStatsUpdate(model.DeviceStatsUpdate{
		Mac:             mac,
		ClientCount:     &n,
		WanIPv6:         &v6,
		UplinkDeviceMac: &uplink,
	})

	d, _ := s.Devices.Get(mac.String())
	assert.Equal(t, 7, *d.ClientCount)
	assert.Equal(t, "2001:db8::1", d.WanIPv6)
	assert.Equal(t, uplink, *d.UplinkDeviceMac)
}

func TestDeviceByIDSecondaryIndex(t *testing.T) {
	s := New()
	mac := model.NewMacAddress("aa:bb:cc:00:11:22")
	id := model.NewLegacyEntityId("abc123")
	s.Devices.Upsert(mac.String(), model.Device{ID: id, Mac: mac})

	d, ok := s.DeviceByID(id)
	require.True(t, ok)
	assert.Equal(t, mac, d.Mac)
}

func TestEventLogBoundedAndOrdered(t *testing.T) {
	l := NewEventLog(3)
	for i := 0; i < 5; i++ {
		l.Append(model.Event{EventType: string(rune('a' + i))})
	}
	recent := l.Recent(0)
	require.Len(t, recent, 3)
	assert.Equal(t, "c", recent[0].EventType)
	assert.Equal(t, "e", recent[2].EventType)
}

func TestWatchLateSubscriberSeesCurrentValue(t *testing.T) {
	w := NewWatch(MonthlyWanBytes{})
	w.Set(MonthlyWanBytes{TxBytes: 10, RxBytes: 20})

	v, ver, err := w.Next(t.Context(), 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), v.TxBytes)
	assert.NotZero(t, ver)
}
