package converters

import (
	"strings"
	"time"

	"github.com/brightlane/uctl/internal/legacyclient"
	"github.com/brightlane/uctl/internal/model"
)

// categoryFromKey classifies an event `key` literal (e.g.
// "EVT_WU_Connected", "EVT_AD_Login") by its subsystem prefix, the
// same ordering the Legacy event stream's `key` namespace follows.
func categoryFromKey(key string) model.EventCategory {
	u := strings.ToUpper(key)
	switch {
	case strings.Contains(u, "EVT_WU_"), strings.Contains(u, "EVT_LU_"), strings.Contains(u, "EVT_GW_"):
		return model.EventCategoryClient
	case strings.Contains(u, "EVT_SW_"), strings.Contains(u, "EVT_AP_"), strings.Contains(u, "EVT_DEVICE_"):
		return model.EventCategoryDevice
	case strings.Contains(u, "EVT_FW_"), strings.Contains(u, "EVT_FIREWALL_"):
		return model.EventCategoryFirewall
	case strings.Contains(u, "EVT_VPN_"):
		return model.EventCategoryVpn
	case strings.Contains(u, "EVT_AD_"), strings.Contains(u, "EVT_ADMIN_"):
		return model.EventCategoryAdmin
	case strings.Contains(u, "EVT_WLAN_"), strings.Contains(u, "EVT_LAN_"), strings.Contains(u, "EVT_NETWORK_"):
		return model.EventCategoryNetwork
	case strings.Contains(u, "EVT_SYSTEM_"), strings.Contains(u, "EVT_SYS_"):
		return model.EventCategorySystem
	default:
		return model.EventCategoryUnknown
	}
}

// severityFromKey infers severity from substrings of the key literal
// (case-insensitive): "Critical" keys are critical, "Error"/"Fail" keys
// are errors, "Lost"/"Down"/"Disconnect" keys are warnings, and every
// other key is informational.
func severityFromKey(key string) model.EventSeverity {
	u := strings.ToUpper(key)
	switch {
	case strings.Contains(u, "CRITICAL"):
		return model.SeverityCritical
	case strings.Contains(u, "ERROR"), strings.Contains(u, "FAIL"):
		return model.SeverityError
	case strings.Contains(u, "LOST"), strings.Contains(u, "DOWN"), strings.Contains(u, "DISCONNECT"):
		return model.SeverityWarning
	default:
		return model.SeverityInfo
	}
}

func parseLegacyDatetime(raw *string) time.Time {
	if raw == nil {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339, *raw); err == nil {
		return t
	}
	return time.Time{}
}

// EventFromLegacy builds an Event from a Legacy `stat/event` entry.
func EventFromLegacy(e legacyclient.Event) model.Event {
	key := ""
	if e.Key != nil {
		key = *e.Key
	}
	msg := ""
	if e.Msg != nil {
		msg = *e.Msg
	}
	ev := model.Event{
		Timestamp: parseLegacyDatetime(e.Datetime),
		Category:  categoryFromKey(key),
		Severity:  severityFromKey(key),
		EventType: key,
		Message:   msg,
		RawKey:    key,
		Source:    model.SourceLegacy,
	}
	if e.ID != "" {
		id := model.NewLegacyEntityId(e.ID)
		ev.ID = &id
	}
	if e.SiteID != nil {
		sid := model.NewLegacyEntityId(*e.SiteID)
		ev.SiteID = &sid
	}
	return ev
}

// AlarmFromLegacy builds an Alarm from a Legacy `stat/alarm` entry.
func AlarmFromLegacy(a legacyclient.Alarm) model.Alarm {
	key := ""
	if a.Key != nil {
		key = *a.Key
	}
	msg := ""
	if a.Msg != nil {
		msg = *a.Msg
	}
	// An alarm is at least a Warning even when its key carries no
	// escalating keyword; the controller only raises alarms for
	// conditions worth attention.
	sev := severityFromKey(key)
	if sev < model.SeverityWarning {
		sev = model.SeverityWarning
	}
	out := model.Alarm{
		ID:        model.NewLegacyEntityId(a.ID),
		Timestamp: parseLegacyDatetime(a.Datetime),
		Category:  categoryFromKey(key),
		Severity:  sev,
		Message:   msg,
	}
	if a.Archived != nil {
		out.Archived = *a.Archived
	}
	return out
}

// HealthSummaryFromLegacy builds a HealthSummary from a Legacy
// `stat/health` entry.
func HealthSummaryFromLegacy(h legacyclient.HealthSubsystem) model.HealthSummary {
	out := model.HealthSummary{
		Subsystem: h.Subsystem,
		Status:    h.Status,
		NumUser:   h.NumUser,
		NumGuest:  h.NumGuest,
		NumAp:     h.NumAp,
		NumSw:     h.NumSw,
		LatencyMs: h.LatencyMs,
	}
	if h.TxBytesR != nil {
		out.TxBytesRate = h.TxBytesR
	}
	if h.RxBytesR != nil {
		out.RxBytesRate = h.RxBytesR
	}
	if h.WanIP != nil {
		out.WanIP = *h.WanIP
	}
	return out
}
