package legacyclient

import "encoding/json"

// envelope is the `{meta:{rc,msg?}, data:[...]}` shape every Legacy
// API response wraps its payload in.
type envelope[T any] struct {
	Meta struct {
		Rc  string `json:"rc"`
		Msg string `json:"msg,omitempty"`
	} `json:"meta"`
	Data []T `json:"data"`
}

// SysStats mirrors the `system-stats`/`sys_stats` sub-object carried
// on legacy device records; field presence varies by firmware (§4.5,
// SUPPLEMENTED FEATURES item 2).
type SysStats struct {
	Cpu      *string `json:"cpu,omitempty"`
	MemUsed  *int64  `json:"mem_used,omitempty"`
	MemTotal *int64  `json:"mem_total,omitempty"`
	Load1    *string `json:"load_1,omitempty"`
	Load5    *string `json:"load_5,omitempty"`
	Load15   *string `json:"load_15,omitempty"`
}

// Device mirrors `stat/device` entries.
type Device struct {
	ID         string                     `json:"_id"`
	Mac        string                     `json:"mac"`
	IP         *string                    `json:"ip,omitempty"`
	Name       string                     `json:"name"`
	Model      *string                    `json:"model,omitempty"`
	Type       string                     `json:"type"`
	State      int                        `json:"state"`
	Version    string                     `json:"version"`
	Upgradable *bool                      `json:"upgradable,omitempty"`
	Serial     *string                    `json:"serial,omitempty"`
	LastSeen   *int64                     `json:"last_seen,omitempty"`
	Uptime     *int64                     `json:"uptime,omitempty"`
	NumSta     *int64                     `json:"num_sta,omitempty"`
	SysStats   *SysStats                  `json:"sys_stats,omitempty"`
	Extra      map[string]json.RawMessage `json:"-"`
}

// UnmarshalJSON decodes the known fields above, plus preserves every
// other key in Extra for the converters' catch-all lookups (uplink
// MAC, wan1.ipv6, ...) per §9 "Polymorphic wire fields".
func (d *Device) UnmarshalJSON(raw []byte) error {
	type alias Device
	var a alias
	if err := json.Unmarshal(raw, &a); err != nil {
		return err
	}
	*d = Device(a)
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return err
	}
	d.Extra = m
	return nil
}

// ClientEntry mirrors `stat/sta` entries.
type ClientEntry struct {
	ID             string   `json:"_id"`
	Mac            string   `json:"mac"`
	IP             *string  `json:"ip,omitempty"`
	Name           *string  `json:"name,omitempty"`
	Hostname       *string  `json:"hostname,omitempty"`
	IsWired        *bool    `json:"is_wired,omitempty"`
	IsGuest        *bool    `json:"is_guest,omitempty"`
	Authorized     *bool    `json:"authorized,omitempty"`
	Essid          *string  `json:"essid,omitempty"`
	Bssid          *string  `json:"bssid,omitempty"`
	ApMac          *string  `json:"ap_mac,omitempty"`
	SwMac          *string  `json:"sw_mac,omitempty"`
	SwPort         *int     `json:"sw_port,omitempty"`
	Channel        *int     `json:"channel,omitempty"`
	Signal         *int     `json:"signal,omitempty"`
	Rssi           *int     `json:"rssi,omitempty"`
	Noise          *int     `json:"noise,omitempty"`
	Satisfaction   *int     `json:"satisfaction,omitempty"`
	TxRate         *int64   `json:"tx_rate,omitempty"`
	RxRate         *int64   `json:"rx_rate,omitempty"`
	TxBytes        *int64   `json:"tx_bytes,omitempty"`
	RxBytes        *int64   `json:"rx_bytes,omitempty"`
	WiredTxBytes   *int64   `json:"wired-tx_bytes,omitempty"`
	WiredRxBytes   *int64   `json:"wired-rx_bytes,omitempty"`
	TxBytesR       *float64 `json:"tx_bytes-r,omitempty"`
	RxBytesR       *float64 `json:"rx_bytes-r,omitempty"`
	WiredTxBytesR  *float64 `json:"wired-tx_bytes-r,omitempty"`
	WiredRxBytesR  *float64 `json:"wired-rx_bytes-r,omitempty"`
	Uptime         *int64   `json:"uptime,omitempty"`
	NetworkID      *string  `json:"network_id,omitempty"`
	Network        *string  `json:"network,omitempty"`
	Oui            *string  `json:"oui,omitempty"`
	Blocked        *bool    `json:"blocked,omitempty"`
}

// Event mirrors `stat/event` entries.
type Event struct {
	ID        string  `json:"_id"`
	Key       *string `json:"key,omitempty"`
	Msg       *string `json:"msg,omitempty"`
	Datetime  *string `json:"datetime,omitempty"`
	Subsystem *string `json:"subsystem,omitempty"`
	SiteID    *string `json:"site_id,omitempty"`
}

// Alarm mirrors `stat/alarm` entries.
type Alarm struct {
	ID       string  `json:"_id"`
	Key      *string `json:"key,omitempty"`
	Msg      *string `json:"msg,omitempty"`
	Datetime *string `json:"datetime,omitempty"`
	Archived *bool   `json:"archived,omitempty"`
}

// Site mirrors `self`/site-list entries.
type Site struct {
	ID   string  `json:"_id"`
	Name string  `json:"name"`
	Desc *string `json:"desc,omitempty"`
}

// HealthSubsystem mirrors one `stat/health` entry. The `www`/`wan`
// subsystems additionally carry the gateway's MAC and a
// `gw_system-stats` bag the health poller feeds into the stats channel.
type HealthSubsystem struct {
	Subsystem   string  `json:"subsystem"`
	Status      string  `json:"status"`
	NumUser     *int    `json:"num_user,omitempty"`
	NumGuest    *int    `json:"num_guest,omitempty"`
	NumAp       *int    `json:"num_ap,omitempty"`
	NumSw       *int    `json:"num_sw,omitempty"`
	TxBytesR    *uint64 `json:"tx_bytes-r,omitempty"`
	RxBytesR    *uint64 `json:"rx_bytes-r,omitempty"`
	WanIP       *string `json:"wan_ip,omitempty"`
	LatencyMs   *int    `json:"latency,omitempty"`

	GwMac         *string        `json:"gw_mac,omitempty"`
	GwSystemStats *GwSystemStats `json:"gw_system-stats,omitempty"`
}

// GwSystemStats mirrors the `gw_system-stats` sub-object; the firmware
// reports CPU/mem percentages as strings.
type GwSystemStats struct {
	Cpu    *string `json:"cpu,omitempty"`
	Mem    *string `json:"mem,omitempty"`
	Uptime *string `json:"uptime,omitempty"`
}

// ReportEntry mirrors a single `stat/report/{interval}.{kind}` row.
type ReportEntry struct {
	Time    int64              `json:"time"`
	Mac     *string            `json:"mac,omitempty"`
	User    *string            `json:"user,omitempty"`
	WanTxB  *uint64            `json:"wan-tx_bytes,omitempty"`
	WanRxB  *uint64            `json:"wan-rx_bytes,omitempty"`
	TxBytes *uint64            `json:"tx_bytes,omitempty"`
	RxBytes *uint64            `json:"rx_bytes,omitempty"`
	Extra   map[string]any     `json:"-"`
}

// Admin mirrors `list/admin` entries.
type Admin struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Backup mirrors `cmd/backup` list entries.
type Backup struct {
	ID       string `json:"_id"`
	Filename string `json:"filename"`
	Datetime string `json:"datetime"`
}
