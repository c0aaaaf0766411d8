package model

import "time"

// DnsPolicyType enumerates the record-type literals from §6.1.
type DnsPolicyType int

const (
	DnsA DnsPolicyType = iota
	DnsAAAA
	DnsCNAME
	DnsMX
	DnsTXT
	DnsSRV
	DnsForwardDomain
)

// DnsPolicy is keyed by UUID per §3.2.
type DnsPolicy struct {
	ID       EntityId
	Type     DnsPolicyType
	Domain   string
	Value    string
	TTL      *int
	Priority *int

	Source    DataSource
	UpdatedAt time.Time
}
