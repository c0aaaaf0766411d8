package model

import "time"

// DataSource identifies which upstream surface most recently wrote a field.
type DataSource int

const (
	SourceREST DataSource = iota
	SourceLegacy
)

func (s DataSource) String() string {
	if s == SourceLegacy {
		return "legacy"
	}
	return "rest"
}

// EntityOrigin captures who/what created a REST-managed entity.
type EntityOrigin int

const (
	OriginUnknown EntityOrigin = iota
	OriginUserDefined
	OriginSystemDefined
	OriginOrchestrated
)

// Bandwidth is an instantaneous throughput sample.
type Bandwidth struct {
	TxBytesPerSec uint64
	RxBytesPerSec uint64
}

// Timestamps shared by every entity per the base spec's §3.2 contract:
// every entity carries id, source, and updated_at.
type Timestamps struct {
	UpdatedAt time.Time
}
