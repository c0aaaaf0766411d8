package model

// HealthSummary mirrors one subsystem entry from the Legacy
// `stat/health` endpoint; replaced whole on every health poll (§3.2).
type HealthSummary struct {
	Subsystem   string
	Status      string
	NumUser     *int
	NumGuest    *int
	NumAp       *int
	NumSw       *int
	TxBytesRate *uint64
	RxBytesRate *uint64
	WanIP       string
	LatencyMs   *int
}
