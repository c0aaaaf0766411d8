package model

import (
	"net"
	"time"
)

// DeviceType classifies a device per §3.2 / §4.5 of the base spec.
type DeviceType int

const (
	DeviceTypeOther DeviceType = iota
	DeviceTypeGateway
	DeviceTypeSwitch
	DeviceTypeAccessPoint
)

// DeviceState is the 10-way lifecycle enum from §3.2.
type DeviceState int

const (
	DeviceStateUnknown DeviceState = iota
	DeviceStateOffline
	DeviceStateOnline
	DeviceStatePendingAdoption
	DeviceStateUpdating
	DeviceStateGettingReady
	DeviceStateAdopting
	DeviceStateDeleting
	DeviceStateConnectionInterrupted
	DeviceStateIsolated
)

// Port is a single switch/gateway physical interface.
type Port struct {
	Index      int
	Name       string
	Enabled    bool
	PoeEnabled bool
	Speed      *int
	Up         bool
}

// Radio is a single access-point wireless radio.
type Radio struct {
	Name      string
	Band      string // "2.4", "5", "6"
	Channel   *int
	TxPowerDb *int
}

// DeviceStats is the partial, mergeable statistics bag for a device.
// Every field is a pointer so "unknown" is representable and merge can
// tell "absent" from "present but zero".
type DeviceStats struct {
	UptimeSecs            *int64
	CpuUtilizationPct      *float64
	MemoryUtilizationPct   *float64
	LoadAverage1m          *float64
	LoadAverage5m          *float64
	LoadAverage15m         *float64
	UplinkBandwidth        *Bandwidth
	LastHeartbeat          *time.Time
	NextHeartbeat          *time.Time
}

// Merge writes fields from other only where other's value is present,
// per §3.3 invariant 3 and §4.5's DeviceStats.merge rule. Commutative
// on disjoint fields, idempotent on equal updates.
func (s *DeviceStats) Merge(other DeviceStats) {
	if other.UptimeSecs != nil {
		s.UptimeSecs = other.UptimeSecs
	}
	if other.CpuUtilizationPct != nil {
		s.CpuUtilizationPct = other.CpuUtilizationPct
	}
	if other.MemoryUtilizationPct != nil {
		s.MemoryUtilizationPct = other.MemoryUtilizationPct
	}
	if other.LoadAverage1m != nil {
		s.LoadAverage1m = other.LoadAverage1m
	}
	if other.LoadAverage5m != nil {
		s.LoadAverage5m = other.LoadAverage5m
	}
	if other.LoadAverage15m != nil {
		s.LoadAverage15m = other.LoadAverage15m
	}
	if other.UplinkBandwidth != nil {
		s.UplinkBandwidth = other.UplinkBandwidth
	}
	if other.LastHeartbeat != nil {
		s.LastHeartbeat = other.LastHeartbeat
	}
	if other.NextHeartbeat != nil {
		s.NextHeartbeat = other.NextHeartbeat
	}
}

// Device is keyed by MAC per §3.2.
type Device struct {
	ID                 EntityId
	Mac                MacAddress
	IP                 net.IP
	WanIPv6            string
	Name               string
	Model              string
	Type               DeviceType
	State              DeviceState
	FirmwareVersion    string
	FirmwareUpdatable  bool
	Features           []string
	Ports              []Port
	Radios             []Radio
	Stats              DeviceStats
	ClientCount        *int
	UplinkDeviceID     *EntityId
	UplinkDeviceMac    *MacAddress
	Serial             string
	Supported          bool
	AdoptedAt          *time.Time
	ProvisionedAt      *time.Time
	LastSeen           *time.Time
	HasSwitching       bool
	HasAccessPoint     bool
	Origin             *EntityOrigin

	Source    DataSource
	UpdatedAt time.Time
}
