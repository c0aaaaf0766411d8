package converters

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/brightlane/uctl/internal/eventstream"
	"github.com/brightlane/uctl/internal/model"
)

// EventFromWebsocket builds a domain Event from a push message. Callers
// should skip sync/state-dump messages (Message.IsSync) before calling
// this — they feed DeviceStatsUpdate/Client upserts instead of the
// event log.
func EventFromWebsocket(m eventstream.Message) model.Event {
	ev := model.Event{
		Timestamp: parseWsDatetime(m.Datetime),
		Category:  categoryFromKey(orSubsystem(m.Key, m.Subsystem)),
		Severity:  severityFromKey(m.Key),
		EventType: m.Key,
		Message:   m.Msg,
		RawKey:    m.Key,
		Source:    model.SourceLegacy,
	}
	if m.SiteID != "" {
		sid := model.NewLegacyEntityId(m.SiteID)
		ev.SiteID = &sid
	}
	if mac, ok := firstExtraString(m.Extra, "mac", "sw", "ap"); ok {
		dm := model.NewMacAddress(mac)
		ev.DeviceMac = &dm
	}
	if mac, ok := firstExtraString(m.Extra, "user", "sta"); ok {
		cm := model.NewMacAddress(mac)
		ev.ClientMac = &cm
	}
	return ev
}

func orSubsystem(key, subsystem string) string {
	if subsystem != "" {
		return "EVT_" + subsystem
	}
	return key
}

func parseWsDatetime(s string) time.Time {
	if s == "" {
		return time.Now().UTC()
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(n, 0).UTC()
	}
	return time.Now().UTC()
}

func firstExtraString(extra map[string]json.RawMessage, keys ...string) (string, bool) {
	for _, k := range keys {
		if s, ok := extraString(extra, k); ok && s != "" {
			return s, true
		}
	}
	return "", false
}

// DeviceStatsUpdateFromSync extracts a DeviceStatsUpdate from a
// `device:sync`/`device:update` push message's Extra payload, which
// carries the same field set as a Legacy `stat/device` record.
func DeviceStatsUpdateFromSync(m eventstream.Message) (model.DeviceStatsUpdate, bool) {
	mac, ok := extraString(m.Extra, "mac")
	if !ok || mac == "" {
		return model.DeviceStatsUpdate{}, false
	}
	upd := model.DeviceStatsUpdate{Mac: model.NewMacAddress(mac)}

	if v, ok := extraInt64(m.Extra, "uptime"); ok {
		upd.Stats.UptimeSecs = &v
	}
	// The key name varies by firmware line; probe both.
	raw, ok := m.Extra["sys_stats"]
	if !ok {
		raw, ok = m.Extra["system-stats"]
	}
	if ok {
		var s struct {
			Cpu      *string `json:"cpu"`
			MemUsed  *int64  `json:"mem_used"`
			MemTotal *int64  `json:"mem_total"`
			Load1    *string `json:"load_1"`
			Load5    *string `json:"load_5"`
			Load15   *string `json:"load_15"`
		}
		if err := json.Unmarshal(raw, &s); err == nil {
			if s.Cpu != nil {
				if f, err := strconv.ParseFloat(*s.Cpu, 64); err == nil {
					upd.Stats.CpuUtilizationPct = &f
				}
			}
			if s.MemUsed != nil && s.MemTotal != nil && *s.MemTotal > 0 {
				pct := float64(*s.MemUsed) / float64(*s.MemTotal) * 100
				upd.Stats.MemoryUtilizationPct = &pct
			}
			if s.Load1 != nil {
				if f, err := strconv.ParseFloat(*s.Load1, 64); err == nil {
					upd.Stats.LoadAverage1m = &f
				}
			}
			if s.Load5 != nil {
				if f, err := strconv.ParseFloat(*s.Load5, 64); err == nil {
					upd.Stats.LoadAverage5m = &f
				}
			}
			if s.Load15 != nil {
				if f, err := strconv.ParseFloat(*s.Load15, 64); err == nil {
					upd.Stats.LoadAverage15m = &f
				}
			}
		}
	}
	if n, ok := extraInt(m.Extra, "num_sta"); ok {
		upd.ClientCount = &n
	}
	if ip6 := pickIPv6(m.Extra); ip6 != "" {
		upd.WanIPv6 = &ip6
	}
	if uplink, ok := extraString(m.Extra, "uplink"); ok {
		um := model.NewMacAddress(uplink)
		upd.UplinkDeviceMac = &um
	} else if raw, ok := m.Extra["uplink"]; ok {
		var u struct {
			TxBytesR *float64 `json:"tx_bytes-r"`
			RxBytesR *float64 `json:"rx_bytes-r"`
		}
		if err := json.Unmarshal(raw, &u); err == nil && (u.TxBytesR != nil || u.RxBytesR != nil) {
			var bw model.Bandwidth
			if u.TxBytesR != nil {
				bw.TxBytesPerSec = uint64(*u.TxBytesR)
			}
			if u.RxBytesR != nil {
				bw.RxBytesPerSec = uint64(*u.RxBytesR)
			}
			upd.Stats.UplinkBandwidth = &bw
		}
	}
	now := time.Now().UTC()
	upd.Stats.LastHeartbeat = &now
	return upd, true
}

func extraInt64(extra map[string]json.RawMessage, key string) (int64, bool) {
	raw, ok := extra[key]
	if !ok {
		return 0, false
	}
	var n int64
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, false
	}
	return n, true
}

func extraInt(extra map[string]json.RawMessage, key string) (int, bool) {
	n, ok := extraInt64(extra, key)
	return int(n), ok
}
