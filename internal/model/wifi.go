package model

import "time"

// WifiSecurityMode enumerates the security literals in §6.1.
type WifiSecurityMode int

const (
	SecurityOpen WifiSecurityMode = iota
	SecurityWpa2Personal
	SecurityWpa3Personal
	SecurityWpa2Wpa3Personal
	SecurityWpa2Enterprise
	SecurityWpa3Enterprise
	SecurityWpa2Wpa3Enterprise
)

// WifiBroadcastType distinguishes standard, guest, and IoT-style SSIDs.
type WifiBroadcastType int

const (
	WifiBroadcastStandard WifiBroadcastType = iota
	WifiBroadcastGuest
	WifiBroadcastIot
)

// WifiBroadcast is keyed by UUID per §3.2.
type WifiBroadcast struct {
	ID            EntityId
	Name          string
	Enabled       bool
	Type          WifiBroadcastType
	SecurityMode  WifiSecurityMode
	Passphrase    string // write-only: never populated from reads
	NetworkID     *EntityId
	Frequencies   []string // "2.4", "5", "6"
	Hidden        bool
	BandSteering  bool

	Source    DataSource
	UpdatedAt time.Time
}
