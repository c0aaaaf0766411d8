package model

import (
	"net"
	"time"
)

// ClientType classifies how a client is attached per §3.2.
type ClientType int

const (
	ClientTypeWired ClientType = iota
	ClientTypeWireless
	ClientTypeVPN
	ClientTypeTeleport
)

// WirelessInfo is populated only for non-wired clients.
type WirelessInfo struct {
	Ssid         string
	Bssid        *MacAddress
	Channel      *int
	FrequencyGHz *float32
	SignalDbm    *int
	NoiseDbm     *int
	Satisfaction *int
	TxRateKbps   *int64
	RxRateKbps   *int64
}

// GuestAuth is populated only for guest clients.
type GuestAuth struct {
	Authorized     bool
	Method         *string
	ExpiresAt      *time.Time
	TxBytes        *int64
	RxBytes        *int64
	ElapsedMinutes *int64
}

// Client is keyed by MAC per §3.2.
type Client struct {
	ID              EntityId
	Mac             MacAddress
	IP              net.IP
	Name            string
	Hostname        string
	Type            ClientType
	ConnectedAt     *time.Time
	UplinkDeviceID  *EntityId
	UplinkDeviceMac *MacAddress
	NetworkID       *EntityId
	NetworkName     string
	Vlan            *int
	Wireless        *WirelessInfo
	GuestAuth       *GuestAuth
	IsGuest         bool
	TxBytes         *int64
	RxBytes         *int64
	Bandwidth       *Bandwidth
	Oui             string
	SwPort          *int
	OsName          string
	DeviceClass     string
	Blocked         bool

	Source    DataSource
	UpdatedAt time.Time
}
