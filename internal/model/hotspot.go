package model

import "time"

// VoucherLimits bounds a hotspot voucher's usage.
type VoucherLimits struct {
	TimeMinutes *int
	DataMB      *int64
	RateKbps    *int64
	Guests      *int
}

// Voucher is keyed by UUID per §3.2.
type Voucher struct {
	ID        EntityId
	Code      string
	Name      string
	CreatedAt time.Time
	ExpiresAt *time.Time
	Limits    VoucherLimits

	Source    DataSource
	UpdatedAt time.Time
}
