package legacyclient

import (
	"context"
	"fmt"
)

// ── Reads ──────────────────────────────────────────────────────────

func (c *Client) ListDevices(ctx context.Context) ([]Device, error) {
	var env envelope[Device]
	err := c.do(ctx, "GET", "stat/device", nil, &env)
	return env.Data, err
}

func (c *Client) ListClients(ctx context.Context) ([]ClientEntry, error) {
	var env envelope[ClientEntry]
	err := c.do(ctx, "GET", "stat/sta", nil, &env)
	return env.Data, err
}

func (c *Client) GetHealth(ctx context.Context) ([]HealthSubsystem, error) {
	var env envelope[HealthSubsystem]
	err := c.do(ctx, "GET", "stat/health", nil, &env)
	return env.Data, err
}

func (c *Client) GetSysinfo(ctx context.Context) (map[string]any, error) {
	var env envelope[map[string]any]
	err := c.do(ctx, "GET", "stat/sysinfo", nil, &env)
	if err != nil || len(env.Data) == 0 {
		return nil, err
	}
	return env.Data[0], nil
}

// ListEvents fetches the most recent events, bounded by limit (§4.7.3).
func (c *Client) ListEvents(ctx context.Context, limit int) ([]Event, error) {
	var env envelope[Event]
	err := c.do(ctx, "GET", fmt.Sprintf("stat/event?_limit=%d", limit), nil, &env)
	return env.Data, err
}

func (c *Client) ListAlarms(ctx context.Context) ([]Alarm, error) {
	var env envelope[Alarm]
	err := c.do(ctx, "GET", "stat/alarm", nil, &env)
	return env.Data, err
}

func (c *Client) ListSites(ctx context.Context) ([]Site, error) {
	var env envelope[Site]
	err := c.do(ctx, "GET", "self/sites", nil, &env)
	return env.Data, err
}

func (c *Client) ListAdmins(ctx context.Context) ([]Admin, error) {
	var env envelope[Admin]
	err := c.do(ctx, "GET", "list/admin", nil, &env)
	return env.Data, err
}

func (c *Client) ListBackups(ctx context.Context) ([]Backup, error) {
	var env envelope[Backup]
	err := c.do(ctx, "GET", "cmd/backup", map[string]string{"cmd": "list-backups"}, &env)
	return env.Data, err
}

func (c *Client) DownloadBackup(ctx context.Context, filename string) ([]byte, error) {
	var body []byte
	err := c.do(ctx, "GET", "dl/backup/"+filename, nil, &body)
	return body, err
}

// GetSiteStats fetches aggregated `stat/report/{interval}.site` rows (§4.7.4 monthly WAN task).
func (c *Client) GetSiteStats(ctx context.Context, interval string) ([]ReportEntry, error) {
	var env envelope[ReportEntry]
	err := c.do(ctx, "GET", fmt.Sprintf("stat/report/%s.site", interval), nil, &env)
	return env.Data, err
}

// GetClientStats fetches per-client `stat/report/{interval}.user` rows (§4.7.4 daily usage task).
func (c *Client) GetClientStats(ctx context.Context, interval string) ([]ReportEntry, error) {
	var env envelope[ReportEntry]
	err := c.do(ctx, "GET", fmt.Sprintf("stat/report/%s.user", interval), nil, &env)
	return env.Data, err
}

func (c *Client) GetGatewayStats(ctx context.Context, interval string) ([]ReportEntry, error) {
	var env envelope[ReportEntry]
	err := c.do(ctx, "GET", fmt.Sprintf("stat/report/%s.gw", interval), nil, &env)
	return env.Data, err
}

func (c *Client) GetDpiStats(ctx context.Context) ([]map[string]any, error) {
	var env envelope[map[string]any]
	err := c.do(ctx, "GET", "stat/sitedpi", nil, &env)
	return env.Data, err
}

// ── Commands ───────────────────────────────────────────────────────

// ClientCommand issues a `cmd/stamgr` action against a client MAC
// (§4.7.6 command-router fallback for BLOCK/UNBLOCK/RECONNECT).
func (c *Client) ClientCommand(ctx context.Context, cmd, mac string) error {
	return c.do(ctx, "POST", "cmd/stamgr", map[string]string{"cmd": cmd, "mac": mac}, nil)
}

// DeviceCommand issues a `cmd/devmgr` action against a device MAC
// (restart, adopt, set-locate, unset-locate).
func (c *Client) DeviceCommand(ctx context.Context, cmd, mac string) error {
	return c.do(ctx, "POST", "cmd/devmgr", map[string]string{"cmd": cmd, "mac": mac}, nil)
}

// PowerCyclePort issues a `cmd/devmgr` port power-cycle.
func (c *Client) PowerCyclePort(ctx context.Context, mac string, portIdx int) error {
	return c.do(ctx, "POST", "cmd/devmgr", map[string]any{
		"cmd":     "power-cycle",
		"mac":     mac,
		"port_idx": portIdx,
	}, nil)
}

// Speedtest triggers the gateway speedtest via `cmd/devmgr`.
func (c *Client) Speedtest(ctx context.Context) error {
	return c.do(ctx, "POST", "cmd/devmgr", map[string]string{"cmd": "speedtest"}, nil)
}

// CreateBackup triggers `cmd/backup`.
func (c *Client) CreateBackup(ctx context.Context) error {
	return c.do(ctx, "POST", "cmd/backup", map[string]string{"cmd": "backup"}, nil)
}

func (c *Client) DeleteBackup(ctx context.Context, filename string) error {
	return c.do(ctx, "POST", "cmd/backup", map[string]string{"cmd": "delete-backup", "filename": filename}, nil)
}

// InviteAdmin issues `rest/account`'s admin-invite flow via `cmd/sitemgr`.
func (c *Client) InviteAdmin(ctx context.Context, email, role string) error {
	return c.do(ctx, "POST", "cmd/sitemgr", map[string]string{
		"cmd":   "invite-admin",
		"email": email,
		"role":  role,
	}, nil)
}

// RebootController issues a `cmd/system` reboot.
func (c *Client) RebootController(ctx context.Context) error {
	return c.do(ctx, "POST", "cmd/system", map[string]string{"cmd": "reboot"}, nil)
}

// PoweroffController issues a `cmd/system` poweroff.
func (c *Client) PoweroffController(ctx context.Context) error {
	return c.do(ctx, "POST", "cmd/system", map[string]string{"cmd": "poweroff"}, nil)
}

// CreateSite issues `cmd/sitemgr`'s add-site action.
func (c *Client) CreateSite(ctx context.Context, name, desc string) error {
	return c.do(ctx, "POST", "cmd/sitemgr", map[string]string{
		"cmd":  "add-site",
		"name": name,
		"desc": desc,
	}, nil)
}

func (c *Client) DeleteSite(ctx context.Context, siteID string) error {
	return c.do(ctx, "POST", "cmd/sitemgr", map[string]string{"cmd": "delete-site", "site_id": siteID}, nil)
}

// Legacy device/client command literals (§6.1, §8.2 S6).
const (
	DevCmdRestart     = "restart"
	DevCmdAdopt       = "adopt"
	DevCmdSetLocate   = "set-locate"
	DevCmdUnsetLocate = "unset-locate"
	DevCmdUpgrade     = "upgrade"
	DevCmdProvision   = "force-provision"
	DevCmdSpeedtest   = "speedtest"

	StaCmdBlock     = "block-sta"
	StaCmdUnblock   = "unblock-sta"
	StaCmdReconnect = "kick-sta"
)
