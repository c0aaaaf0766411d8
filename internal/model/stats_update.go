package model

// DeviceStatsUpdate is a partial, single-device statistics delta sent
// on the stats channel by the REST poller, the Legacy poller, and the
// event-stream bridge alike; the stats-merge task is the sole consumer
// and serializes all writes for a given MAC (§4.7.4, §9 "single stats
// writer").
type DeviceStatsUpdate struct {
	Mac             MacAddress
	Stats           DeviceStats
	ClientCount     *int
	WanIPv6         *string
	UplinkDeviceMac *MacAddress
}
