package restclient

import (
	"context"
	"fmt"
)

// Device action literals (§6.1).
const (
	DeviceActionRestart   = "RESTART"
	DeviceActionAdopt     = "ADOPT"
	DeviceActionLocateOn  = "LOCATE_ON"
	DeviceActionLocateOff = "LOCATE_OFF"
)

// Port action literal (§6.1).
const PortActionPowerCycle = "POWER_CYCLE"

// Client action literals (§6.1).
const (
	ClientActionBlock     = "BLOCK"
	ClientActionUnblock   = "UNBLOCK"
	ClientActionReconnect = "RECONNECT"
)

type actionBody struct {
	Action string `json:"action"`
}

// ── Sites ──────────────────────────────────────────────────────────

func (c *Client) ListSites(ctx context.Context, offset int64, limit int32) (Page[SiteDTO], error) {
	var page Page[SiteDTO]
	err := c.do(ctx, "GET", fmt.Sprintf("v1/sites?%s", pageQuery(offset, limit)), nil, &page)
	return page, err
}

// ── Devices ────────────────────────────────────────────────────────

func (c *Client) ListDevices(ctx context.Context, siteID string, offset int64, limit int32) (Page[DeviceDTO], error) {
	var page Page[DeviceDTO]
	err := c.do(ctx, "GET", fmt.Sprintf("v1/sites/%s/devices?%s", siteID, pageQuery(offset, limit)), nil, &page)
	return page, err
}

func (c *Client) GetDevice(ctx context.Context, siteID, deviceID string) (DeviceDTO, error) {
	var d DeviceDTO
	err := c.do(ctx, "GET", fmt.Sprintf("v1/sites/%s/devices/%s", siteID, deviceID), nil, &d)
	return d, err
}

func (c *Client) GetDeviceStatistics(ctx context.Context, siteID, deviceID string) (DeviceStatsDTO, error) {
	var s DeviceStatsDTO
	err := c.do(ctx, "GET", fmt.Sprintf("v1/sites/%s/devices/%s/statistics/latest", siteID, deviceID), nil, &s)
	return s, err
}

func (c *Client) AdoptDevice(ctx context.Context, siteID, mac string, ignoreDeviceLimit bool) error {
	body := struct {
		MacAddress        string `json:"macAddress"`
		IgnoreDeviceLimit bool   `json:"ignoreDeviceLimit"`
	}{mac, ignoreDeviceLimit}
	return c.do(ctx, "POST", fmt.Sprintf("v1/sites/%s/devices", siteID), body, nil)
}

func (c *Client) DeviceAction(ctx context.Context, siteID, deviceID, action string) error {
	return c.do(ctx, "POST", fmt.Sprintf("v1/sites/%s/devices/%s/actions", siteID, deviceID), actionBody{action}, nil)
}

func (c *Client) PortAction(ctx context.Context, siteID, deviceID string, portIdx int, action string) error {
	return c.do(ctx, "POST", fmt.Sprintf("v1/sites/%s/devices/%s/interfaces/ports/%d/actions", siteID, deviceID, portIdx), actionBody{action}, nil)
}

func (c *Client) RemoveDevice(ctx context.Context, siteID, deviceID string) error {
	return c.do(ctx, "DELETE", fmt.Sprintf("v1/sites/%s/devices/%s", siteID, deviceID), nil, nil)
}

// ── Clients ────────────────────────────────────────────────────────

func (c *Client) ListClients(ctx context.Context, siteID string, offset int64, limit int32) (Page[ClientDTO], error) {
	var page Page[ClientDTO]
	err := c.do(ctx, "GET", fmt.Sprintf("v1/sites/%s/clients?%s", siteID, pageQuery(offset, limit)), nil, &page)
	return page, err
}

func (c *Client) ClientAction(ctx context.Context, siteID, clientID, action string) error {
	return c.do(ctx, "POST", fmt.Sprintf("v1/sites/%s/clients/%s/actions", siteID, clientID), actionBody{action}, nil)
}

// ── Networks ───────────────────────────────────────────────────────

func (c *Client) ListNetworks(ctx context.Context, siteID string, offset int64, limit int32) (Page[NetworkListDTO], error) {
	var page Page[NetworkListDTO]
	err := c.do(ctx, "GET", fmt.Sprintf("v1/sites/%s/networks?%s", siteID, pageQuery(offset, limit)), nil, &page)
	return page, err
}

func (c *Client) GetNetwork(ctx context.Context, siteID, networkID string) (NetworkDetailDTO, error) {
	var n NetworkDetailDTO
	err := c.do(ctx, "GET", fmt.Sprintf("v1/sites/%s/networks/%s", siteID, networkID), nil, &n)
	return n, err
}

func (c *Client) CreateNetwork(ctx context.Context, siteID string, n NetworkDetailDTO) (NetworkDetailDTO, error) {
	var created NetworkDetailDTO
	err := c.do(ctx, "POST", fmt.Sprintf("v1/sites/%s/networks", siteID), n, &created)
	return created, err
}

func (c *Client) UpdateNetwork(ctx context.Context, siteID, networkID string, n NetworkDetailDTO) (NetworkDetailDTO, error) {
	var updated NetworkDetailDTO
	err := c.do(ctx, "PUT", fmt.Sprintf("v1/sites/%s/networks/%s", siteID, networkID), n, &updated)
	return updated, err
}

func (c *Client) DeleteNetwork(ctx context.Context, siteID, networkID string) error {
	return c.do(ctx, "DELETE", fmt.Sprintf("v1/sites/%s/networks/%s", siteID, networkID), nil, nil)
}

func (c *Client) GetNetworkReferences(ctx context.Context, siteID, networkID string) (map[string]any, error) {
	var refs map[string]any
	err := c.do(ctx, "GET", fmt.Sprintf("v1/sites/%s/networks/%s/references", siteID, networkID), nil, &refs)
	return refs, err
}

// ── Wifi broadcasts ────────────────────────────────────────────────

func (c *Client) ListWifiBroadcasts(ctx context.Context, siteID string, offset int64, limit int32) (Page[WifiBroadcastDTO], error) {
	var page Page[WifiBroadcastDTO]
	err := c.do(ctx, "GET", fmt.Sprintf("v1/sites/%s/wifi/broadcasts?%s", siteID, pageQuery(offset, limit)), nil, &page)
	return page, err
}

func (c *Client) GetWifiBroadcast(ctx context.Context, siteID, id string) (WifiBroadcastDTO, error) {
	var w WifiBroadcastDTO
	err := c.do(ctx, "GET", fmt.Sprintf("v1/sites/%s/wifi/broadcasts/%s", siteID, id), nil, &w)
	return w, err
}

func (c *Client) CreateWifiBroadcast(ctx context.Context, siteID string, w WifiBroadcastDTO) (WifiBroadcastDTO, error) {
	var created WifiBroadcastDTO
	err := c.do(ctx, "POST", fmt.Sprintf("v1/sites/%s/wifi/broadcasts", siteID), w, &created)
	return created, err
}

func (c *Client) UpdateWifiBroadcast(ctx context.Context, siteID, id string, w WifiBroadcastDTO) (WifiBroadcastDTO, error) {
	var updated WifiBroadcastDTO
	err := c.do(ctx, "PUT", fmt.Sprintf("v1/sites/%s/wifi/broadcasts/%s", siteID, id), w, &updated)
	return updated, err
}

func (c *Client) DeleteWifiBroadcast(ctx context.Context, siteID, id string) error {
	return c.do(ctx, "DELETE", fmt.Sprintf("v1/sites/%s/wifi/broadcasts/%s", siteID, id), nil, nil)
}

// ── Firewall policies / zones ──────────────────────────────────────

func (c *Client) ListFirewallPolicies(ctx context.Context, siteID string, offset int64, limit int32) (Page[FirewallPolicyDTO], error) {
	var page Page[FirewallPolicyDTO]
	err := c.do(ctx, "GET", fmt.Sprintf("v1/sites/%s/firewall/policies?%s", siteID, pageQuery(offset, limit)), nil, &page)
	return page, err
}

func (c *Client) CreateFirewallPolicy(ctx context.Context, siteID string, p FirewallPolicyDTO) (FirewallPolicyDTO, error) {
	var created FirewallPolicyDTO
	err := c.do(ctx, "POST", fmt.Sprintf("v1/sites/%s/firewall/policies", siteID), p, &created)
	return created, err
}

func (c *Client) UpdateFirewallPolicy(ctx context.Context, siteID, id string, p FirewallPolicyDTO) (FirewallPolicyDTO, error) {
	var updated FirewallPolicyDTO
	err := c.do(ctx, "PUT", fmt.Sprintf("v1/sites/%s/firewall/policies/%s", siteID, id), p, &updated)
	return updated, err
}

func (c *Client) PatchFirewallPolicy(ctx context.Context, siteID, id string, fields map[string]any) (FirewallPolicyDTO, error) {
	var updated FirewallPolicyDTO
	err := c.do(ctx, "PATCH", fmt.Sprintf("v1/sites/%s/firewall/policies/%s", siteID, id), fields, &updated)
	return updated, err
}

func (c *Client) DeleteFirewallPolicy(ctx context.Context, siteID, id string) error {
	return c.do(ctx, "DELETE", fmt.Sprintf("v1/sites/%s/firewall/policies/%s", siteID, id), nil, nil)
}

func (c *Client) GetFirewallPolicyOrdering(ctx context.Context, siteID string) ([]string, error) {
	var ordering []string
	err := c.do(ctx, "GET", fmt.Sprintf("v1/sites/%s/firewall/policies/ordering", siteID), nil, &ordering)
	return ordering, err
}

func (c *Client) PutFirewallPolicyOrdering(ctx context.Context, siteID string, ordering []string) error {
	return c.do(ctx, "PUT", fmt.Sprintf("v1/sites/%s/firewall/policies/ordering", siteID), ordering, nil)
}

func (c *Client) ListFirewallZones(ctx context.Context, siteID string, offset int64, limit int32) (Page[FirewallZoneDTO], error) {
	var page Page[FirewallZoneDTO]
	err := c.do(ctx, "GET", fmt.Sprintf("v1/sites/%s/firewall/zones?%s", siteID, pageQuery(offset, limit)), nil, &page)
	return page, err
}

func (c *Client) GetFirewallZone(ctx context.Context, siteID, id string) (FirewallZoneDTO, error) {
	var z FirewallZoneDTO
	err := c.do(ctx, "GET", fmt.Sprintf("v1/sites/%s/firewall/zones/%s", siteID, id), nil, &z)
	return z, err
}

func (c *Client) CreateFirewallZone(ctx context.Context, siteID string, z FirewallZoneDTO) (FirewallZoneDTO, error) {
	var created FirewallZoneDTO
	err := c.do(ctx, "POST", fmt.Sprintf("v1/sites/%s/firewall/zones", siteID), z, &created)
	return created, err
}

func (c *Client) UpdateFirewallZone(ctx context.Context, siteID, id string, z FirewallZoneDTO) (FirewallZoneDTO, error) {
	var updated FirewallZoneDTO
	err := c.do(ctx, "PUT", fmt.Sprintf("v1/sites/%s/firewall/zones/%s", siteID, id), z, &updated)
	return updated, err
}

func (c *Client) DeleteFirewallZone(ctx context.Context, siteID, id string) error {
	return c.do(ctx, "DELETE", fmt.Sprintf("v1/sites/%s/firewall/zones/%s", siteID, id), nil, nil)
}

// ── ACL rules ──────────────────────────────────────────────────────

func (c *Client) ListAclRules(ctx context.Context, siteID string, offset int64, limit int32) (Page[AclRuleDTO], error) {
	var page Page[AclRuleDTO]
	err := c.do(ctx, "GET", fmt.Sprintf("v1/sites/%s/acl-rules?%s", siteID, pageQuery(offset, limit)), nil, &page)
	return page, err
}

func (c *Client) GetAclRule(ctx context.Context, siteID, id string) (AclRuleDTO, error) {
	var r AclRuleDTO
	err := c.do(ctx, "GET", fmt.Sprintf("v1/sites/%s/acl-rules/%s", siteID, id), nil, &r)
	return r, err
}

func (c *Client) CreateAclRule(ctx context.Context, siteID string, r AclRuleDTO) (AclRuleDTO, error) {
	var created AclRuleDTO
	err := c.do(ctx, "POST", fmt.Sprintf("v1/sites/%s/acl-rules", siteID), r, &created)
	return created, err
}

func (c *Client) UpdateAclRule(ctx context.Context, siteID, id string, r AclRuleDTO) (AclRuleDTO, error) {
	var updated AclRuleDTO
	err := c.do(ctx, "PUT", fmt.Sprintf("v1/sites/%s/acl-rules/%s", siteID, id), r, &updated)
	return updated, err
}

func (c *Client) DeleteAclRule(ctx context.Context, siteID, id string) error {
	return c.do(ctx, "DELETE", fmt.Sprintf("v1/sites/%s/acl-rules/%s", siteID, id), nil, nil)
}

func (c *Client) GetAclRuleOrdering(ctx context.Context, siteID string) ([]string, error) {
	var ordering []string
	err := c.do(ctx, "GET", fmt.Sprintf("v1/sites/%s/acl-rules/ordering", siteID), nil, &ordering)
	return ordering, err
}

func (c *Client) PutAclRuleOrdering(ctx context.Context, siteID string, ordering []string) error {
	return c.do(ctx, "PUT", fmt.Sprintf("v1/sites/%s/acl-rules/ordering", siteID), ordering, nil)
}

// ── DNS policies ───────────────────────────────────────────────────

func (c *Client) ListDnsPolicies(ctx context.Context, siteID string, offset int64, limit int32) (Page[DnsPolicyDTO], error) {
	var page Page[DnsPolicyDTO]
	err := c.do(ctx, "GET", fmt.Sprintf("v1/sites/%s/dns/policies?%s", siteID, pageQuery(offset, limit)), nil, &page)
	return page, err
}

func (c *Client) GetDnsPolicy(ctx context.Context, siteID, id string) (DnsPolicyDTO, error) {
	var d DnsPolicyDTO
	err := c.do(ctx, "GET", fmt.Sprintf("v1/sites/%s/dns/policies/%s", siteID, id), nil, &d)
	return d, err
}

func (c *Client) CreateDnsPolicy(ctx context.Context, siteID string, d DnsPolicyDTO) (DnsPolicyDTO, error) {
	var created DnsPolicyDTO
	err := c.do(ctx, "POST", fmt.Sprintf("v1/sites/%s/dns/policies", siteID), d, &created)
	return created, err
}

func (c *Client) UpdateDnsPolicy(ctx context.Context, siteID, id string, d DnsPolicyDTO) (DnsPolicyDTO, error) {
	var updated DnsPolicyDTO
	err := c.do(ctx, "PUT", fmt.Sprintf("v1/sites/%s/dns/policies/%s", siteID, id), d, &updated)
	return updated, err
}

func (c *Client) DeleteDnsPolicy(ctx context.Context, siteID, id string) error {
	return c.do(ctx, "DELETE", fmt.Sprintf("v1/sites/%s/dns/policies/%s", siteID, id), nil, nil)
}

// ── Traffic matching lists ─────────────────────────────────────────

func (c *Client) ListTrafficMatchingLists(ctx context.Context, siteID string, offset int64, limit int32) (Page[TrafficMatchingListDTO], error) {
	var page Page[TrafficMatchingListDTO]
	err := c.do(ctx, "GET", fmt.Sprintf("v1/sites/%s/traffic-matching-lists?%s", siteID, pageQuery(offset, limit)), nil, &page)
	return page, err
}

func (c *Client) GetTrafficMatchingList(ctx context.Context, siteID, id string) (TrafficMatchingListDTO, error) {
	var l TrafficMatchingListDTO
	err := c.do(ctx, "GET", fmt.Sprintf("v1/sites/%s/traffic-matching-lists/%s", siteID, id), nil, &l)
	return l, err
}

func (c *Client) CreateTrafficMatchingList(ctx context.Context, siteID string, l TrafficMatchingListDTO) (TrafficMatchingListDTO, error) {
	var created TrafficMatchingListDTO
	err := c.do(ctx, "POST", fmt.Sprintf("v1/sites/%s/traffic-matching-lists", siteID), l, &created)
	return created, err
}

func (c *Client) UpdateTrafficMatchingList(ctx context.Context, siteID, id string, l TrafficMatchingListDTO) (TrafficMatchingListDTO, error) {
	var updated TrafficMatchingListDTO
	err := c.do(ctx, "PUT", fmt.Sprintf("v1/sites/%s/traffic-matching-lists/%s", siteID, id), l, &updated)
	return updated, err
}

func (c *Client) DeleteTrafficMatchingList(ctx context.Context, siteID, id string) error {
	return c.do(ctx, "DELETE", fmt.Sprintf("v1/sites/%s/traffic-matching-lists/%s", siteID, id), nil, nil)
}

// ── Hotspot vouchers ───────────────────────────────────────────────

func (c *Client) ListVouchers(ctx context.Context, siteID string, offset int64, limit int32) (Page[VoucherDTO], error) {
	var page Page[VoucherDTO]
	err := c.do(ctx, "GET", fmt.Sprintf("v1/sites/%s/hotspot/vouchers?%s", siteID, pageQuery(offset, limit)), nil, &page)
	return page, err
}

func (c *Client) CreateVoucher(ctx context.Context, siteID string, v VoucherDTO) (VoucherDTO, error) {
	var created VoucherDTO
	err := c.do(ctx, "POST", fmt.Sprintf("v1/sites/%s/hotspot/vouchers", siteID), v, &created)
	return created, err
}

func (c *Client) DeleteVoucher(ctx context.Context, siteID, id string) error {
	return c.do(ctx, "DELETE", fmt.Sprintf("v1/sites/%s/hotspot/vouchers/%s", siteID, id), nil, nil)
}

// ── Reference data ─────────────────────────────────────────────────

func (c *Client) ListCountries(ctx context.Context) ([]string, error) {
	var countries []string
	err := c.do(ctx, "GET", "v1/countries", nil, &countries)
	return countries, err
}

func (c *Client) ListWans(ctx context.Context, siteID string) ([]map[string]any, error) {
	var wans []map[string]any
	err := c.do(ctx, "GET", fmt.Sprintf("v1/sites/%s/wans", siteID), nil, &wans)
	return wans, err
}

func (c *Client) ListDpiApplications(ctx context.Context, siteID string) ([]map[string]any, error) {
	var apps []map[string]any
	err := c.do(ctx, "GET", fmt.Sprintf("v1/sites/%s/dpi/applications", siteID), nil, &apps)
	return apps, err
}

func (c *Client) ListRadiusProfiles(ctx context.Context, siteID string) ([]map[string]any, error) {
	var profiles []map[string]any
	err := c.do(ctx, "GET", fmt.Sprintf("v1/sites/%s/radius/profiles", siteID), nil, &profiles)
	return profiles, err
}

// ── Info ───────────────────────────────────────────────────────────

func (c *Client) Info(ctx context.Context) (map[string]any, error) {
	var info map[string]any
	err := c.do(ctx, "GET", "v1/info", nil, &info)
	return info, err
}
