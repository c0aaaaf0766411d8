package controller

import (
	"context"
	"sync"
	"time"

	"github.com/brightlane/uctl/internal/converters"
	"github.com/brightlane/uctl/internal/model"
	"github.com/brightlane/uctl/internal/restclient"
)

// fullRefresh re-fetches every CRUD entity kind from the REST surface
// (core endpoints) and the Legacy surface (clients, health, events),
// merges device statistics field-by-field, and replaces each
// Collection's contents wholesale (§4.7.3). Core endpoint failures
// (sites, devices, networks, wifi, traffic-matching-lists) abort the
// refresh; optional endpoints (firewall policies/zones, ACL rules, DNS
// policies, vouchers — features not every firmware exposes) degrade to
// an empty list instead of failing the refresh: a 404 is silent, any
// other error records a warning.
func (c *Controller) fullRefresh(ctx context.Context) error {
	if c.rest == nil {
		return c.legacyOnlyRefresh(ctx)
	}

	now := time.Now().UTC()

	var (
		sites       []restclient.SiteDTO
		devices     []restclient.DeviceDTO
		networks    []restclient.NetworkListDTO
		wifis       []restclient.WifiBroadcastDTO
		policies    []restclient.FirewallPolicyDTO
		zones       []restclient.FirewallZoneDTO
		aclRules    []restclient.AclRuleDTO
		dnsPolicies []restclient.DnsPolicyDTO
		vouchers    []restclient.VoucherDTO
		tmLists     []restclient.TrafficMatchingListDTO

		coreErr error
	)

	var mu sync.Mutex
	var wg sync.WaitGroup

	core := func(f func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := f(); err != nil {
				mu.Lock()
				if coreErr == nil {
					coreErr = err
				}
				mu.Unlock()
			}
		}()
	}

	optional := func(label string, f func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := f(); err != nil && !restclient.IsNotFound(err) {
				c.warn("full refresh: optional endpoint %s failed: %v", label, err)
			}
		}()
	}

	core(func() error {
		var err error
		sites, err = restclient.PaginateAll(ctx, 100, func(ctx context.Context, offset int64, limit int32) (restclient.Page[restclient.SiteDTO], error) {
			return c.rest.ListSites(ctx, offset, limit)
		})
		return err
	})
	core(func() error {
		var err error
		devices, err = restclient.PaginateAll(ctx, 100, func(ctx context.Context, offset int64, limit int32) (restclient.Page[restclient.DeviceDTO], error) {
			return c.rest.ListDevices(ctx, c.siteID, offset, limit)
		})
		return err
	})
	core(func() error {
		var err error
		networks, err = restclient.PaginateAll(ctx, 100, func(ctx context.Context, offset int64, limit int32) (restclient.Page[restclient.NetworkListDTO], error) {
			return c.rest.ListNetworks(ctx, c.siteID, offset, limit)
		})
		return err
	})
	core(func() error {
		var err error
		wifis, err = restclient.PaginateAll(ctx, 100, func(ctx context.Context, offset int64, limit int32) (restclient.Page[restclient.WifiBroadcastDTO], error) {
			return c.rest.ListWifiBroadcasts(ctx, c.siteID, offset, limit)
		})
		return err
	})
	core(func() error {
		var err error
		tmLists, err = restclient.PaginateAll(ctx, 100, func(ctx context.Context, offset int64, limit int32) (restclient.Page[restclient.TrafficMatchingListDTO], error) {
			return c.rest.ListTrafficMatchingLists(ctx, c.siteID, offset, limit)
		})
		return err
	})

	optional("firewall-policies", func() error {
		var err error
		policies, err = restclient.PaginateAll(ctx, 100, func(ctx context.Context, offset int64, limit int32) (restclient.Page[restclient.FirewallPolicyDTO], error) {
			return c.rest.ListFirewallPolicies(ctx, c.siteID, offset, limit)
		})
		return err
	})
	optional("firewall-zones", func() error {
		var err error
		zones, err = restclient.PaginateAll(ctx, 100, func(ctx context.Context, offset int64, limit int32) (restclient.Page[restclient.FirewallZoneDTO], error) {
			return c.rest.ListFirewallZones(ctx, c.siteID, offset, limit)
		})
		return err
	})
	optional("acl-rules", func() error {
		var err error
		aclRules, err = restclient.PaginateAll(ctx, 100, func(ctx context.Context, offset int64, limit int32) (restclient.Page[restclient.AclRuleDTO], error) {
			return c.rest.ListAclRules(ctx, c.siteID, offset, limit)
		})
		return err
	})
	optional("dns-policies", func() error {
		var err error
		dnsPolicies, err = restclient.PaginateAll(ctx, 100, func(ctx context.Context, offset int64, limit int32) (restclient.Page[restclient.DnsPolicyDTO], error) {
			return c.rest.ListDnsPolicies(ctx, c.siteID, offset, limit)
		})
		return err
	})
	optional("vouchers", func() error {
		var err error
		vouchers, err = restclient.PaginateAll(ctx, 100, func(ctx context.Context, offset int64, limit int32) (restclient.Page[restclient.VoucherDTO], error) {
			return c.rest.ListVouchers(ctx, c.siteID, offset, limit)
		})
		return err
	})
	wg.Wait()
	if coreErr != nil {
		return coreErr
	}

	// Networks omit DHCP/IPv6 config on the list endpoint; re-fetch each by id (§4.7.3 step 2).
	networkDetails := make([]restclient.NetworkDetailDTO, len(networks))
	var detailWg sync.WaitGroup
	for i, n := range networks {
		detailWg.Add(1)
		go func(i int, id string) {
			defer detailWg.Done()
			detail, err := c.rest.GetNetwork(ctx, c.siteID, id)
			if err != nil {
				c.warn("full refresh: network detail %s: %v", id, err)
				return
			}
			networkDetails[i] = detail
		}(i, n.ID)
	}
	detailWg.Wait()

	// Per-device statistics enrichment, merged field-by-field into the
	// REST device record before the Legacy supplement runs.
	statsByID := make(map[string]restclient.DeviceStatsDTO, len(devices))
	var statsWg sync.WaitGroup
	var statsMu sync.Mutex
	for _, d := range devices {
		statsWg.Add(1)
		go func(d restclient.DeviceDTO) {
			defer statsWg.Done()
			s, err := c.rest.GetDeviceStatistics(ctx, c.siteID, d.ID)
			if err != nil {
				c.warn("full refresh: device statistics %s: %v", d.ID, err)
				return
			}
			statsMu.Lock()
			statsByID[d.ID] = s
			statsMu.Unlock()
		}(d)
	}
	statsWg.Wait()

	deviceByMAC := make(map[string]model.Device, len(devices))
	for _, dto := range devices {
		dev, err := converters.DeviceFromREST(dto, now)
		if err != nil {
			c.warn("full refresh: skipping device %s: %v", dto.ID, err)
			continue
		}
		if s, ok := statsByID[dto.ID]; ok {
			dev.Stats.Merge(converters.DeviceStatsFromREST(s))
		}
		deviceByMAC[dev.Mac.String()] = dev
	}

	if err := c.mergeLegacySupplement(ctx, deviceByMAC, now); err != nil {
		c.warn("full refresh: legacy supplement: %v", err)
	}
	c.store.Devices.ApplyRefreshSnapshot(deviceByMAC)

	siteByID := make(map[string]model.Site, len(sites))
	for _, dto := range sites {
		s, err := converters.SiteFromREST(dto)
		if err != nil {
			continue
		}
		siteByID[s.ID.String()] = s
	}
	c.store.Sites.ApplyRefreshSnapshot(siteByID)

	networkByID := make(map[string]model.Network, len(networkDetails))
	for _, dto := range networkDetails {
		if dto.ID == "" {
			continue
		}
		n, err := converters.NetworkFromDetail(dto, now)
		if err != nil {
			continue
		}
		networkByID[n.ID.String()] = n
	}
	c.store.Networks.ApplyRefreshSnapshot(networkByID)

	wifiByID := make(map[string]model.WifiBroadcast, len(wifis))
	for _, dto := range wifis {
		w, err := converters.WifiBroadcastFromREST(dto, now)
		if err != nil {
			continue
		}
		wifiByID[w.ID.String()] = w
	}
	c.store.WifiBroadcasts.ApplyRefreshSnapshot(wifiByID)

	policyByID := make(map[string]model.FirewallPolicy, len(policies))
	for _, dto := range policies {
		p, err := converters.FirewallPolicyFromREST(dto, now)
		if err != nil {
			continue
		}
		policyByID[p.ID.String()] = p
	}
	c.store.FirewallPolicies.ApplyRefreshSnapshot(policyByID)

	zoneByID := make(map[string]model.FirewallZone, len(zones))
	for _, dto := range zones {
		z, err := converters.FirewallZoneFromREST(dto, now)
		if err != nil {
			continue
		}
		zoneByID[z.ID.String()] = z
	}
	c.store.FirewallZones.ApplyRefreshSnapshot(zoneByID)

	aclByID := make(map[string]model.AclRule, len(aclRules))
	for _, dto := range aclRules {
		r, err := converters.AclRuleFromREST(dto, now)
		if err != nil {
			continue
		}
		aclByID[r.ID.String()] = r
	}
	c.store.AclRules.ApplyRefreshSnapshot(aclByID)

	dnsByID := make(map[string]model.DnsPolicy, len(dnsPolicies))
	for _, dto := range dnsPolicies {
		p, err := converters.DnsPolicyFromREST(dto, now)
		if err != nil {
			continue
		}
		dnsByID[p.ID.String()] = p
	}
	c.store.DnsPolicies.ApplyRefreshSnapshot(dnsByID)

	voucherByID := make(map[string]model.Voucher, len(vouchers))
	for _, dto := range vouchers {
		v, err := converters.VoucherFromREST(dto, now)
		if err != nil {
			continue
		}
		voucherByID[v.ID.String()] = v
	}
	c.store.Vouchers.ApplyRefreshSnapshot(voucherByID)

	tmByID := make(map[string]model.TrafficMatchingList, len(tmLists))
	for _, dto := range tmLists {
		l, err := converters.TrafficMatchingListFromREST(dto)
		if err != nil {
			continue
		}
		tmByID[l.ID.String()] = l
	}
	c.store.TrafficMatchingLists.ApplyRefreshSnapshot(tmByID)

	c.refreshClientsAndHealth(ctx, now)
	return nil
}

// legacyOnlyRefresh covers configurations with no Integration API key
// configured (Auth.Credentials): devices, clients, and health all come
// from the Legacy surface alone.
func (c *Controller) legacyOnlyRefresh(ctx context.Context) error {
	legacy := c.legacyHandle()
	if legacy == nil {
		return newError("ValidationFailed", "no REST or Legacy client available")
	}
	now := time.Now().UTC()

	devices, err := legacy.ListDevices(ctx)
	if err != nil {
		return err
	}
	deviceByMAC := make(map[string]model.Device, len(devices))
	for _, d := range devices {
		dev := converters.DeviceFromLegacy(d, now)
		deviceByMAC[dev.Mac.String()] = dev
	}
	c.store.Devices.ApplyRefreshSnapshot(deviceByMAC)

	c.refreshClientsAndHealth(ctx, now)
	return nil
}

// mergeLegacySupplement fills WAN IPv6, uplink MAC, client count and
// any stats fields that are still unknown onto the REST-sourced devices
// already in deviceByMAC, keyed by MAC; a value the REST device already
// has is never overwritten (§4.7.3 SUPPLEMENTED FEATURES).
func (c *Controller) mergeLegacySupplement(ctx context.Context, deviceByMAC map[string]model.Device, now time.Time) error {
	legacy := c.legacyHandle()
	if legacy == nil {
		return nil
	}
	legacyDevices, err := legacy.ListDevices(ctx)
	if err != nil {
		return err
	}
	for _, ld := range legacyDevices {
		supplement := converters.DeviceFromLegacy(ld, now)
		mac := supplement.Mac.String()
		dev, ok := deviceByMAC[mac]
		if !ok {
			continue
		}
		if dev.WanIPv6 == "" {
			dev.WanIPv6 = supplement.WanIPv6
		}
		if dev.UplinkDeviceMac == nil {
			dev.UplinkDeviceMac = supplement.UplinkDeviceMac
		}
		if dev.ClientCount == nil {
			dev.ClientCount = supplement.ClientCount
		}
		filled := supplement.Stats
		filled.Merge(dev.Stats)
		dev.Stats = filled
		deviceByMAC[mac] = dev
	}
	return nil
}

// refreshClientsAndHealth sources clients from the Legacy poller when a
// Legacy client exists (the Integration API's client endpoint lacks
// wireless/guest detail), falling back to the REST client list
// otherwise, and pushes a health snapshot, both best-effort: neither
// failure aborts the refresh since client/health data naturally
// refreshes again on the next poll cycle (§4.7.3, §4.7.4).
func (c *Controller) refreshClientsAndHealth(ctx context.Context, now time.Time) {
	legacy := c.legacyHandle()
	if legacy == nil {
		if c.rest != nil {
			c.refreshClientsFromREST(ctx, now)
		}
		return
	}

	entries, err := legacy.ListClients(ctx)
	if err != nil {
		c.warn("full refresh: legacy clients: %v", err)
	} else {
		clientByMAC := make(map[string]model.Client, len(entries))
		for _, e := range entries {
			cl := converters.ClientFromLegacy(e, now)
			clientByMAC[cl.Mac.String()] = cl
		}
		c.store.Clients.ApplyRefreshSnapshot(clientByMAC)
	}

	health, err := legacy.GetHealth(ctx)
	if err != nil {
		c.warn("full refresh: legacy health: %v", err)
	} else {
		summaries := make([]model.HealthSummary, 0, len(health))
		for _, h := range health {
			summaries = append(summaries, converters.HealthSummaryFromLegacy(h))
		}
		c.store.SiteHealth.Set(summaries)
	}

	events, err := legacy.ListEvents(ctx, 100)
	if err != nil {
		c.warn("full refresh: legacy events: %v", err)
	} else {
		for _, e := range events {
			c.store.Events().Append(converters.EventFromLegacy(e))
		}
	}
}

func (c *Controller) refreshClientsFromREST(ctx context.Context, now time.Time) {
	entries, err := restclient.PaginateAll(ctx, 100, func(ctx context.Context, offset int64, limit int32) (restclient.Page[restclient.ClientDTO], error) {
		return c.rest.ListClients(ctx, c.siteID, offset, limit)
	})
	if err != nil {
		c.warn("full refresh: rest clients: %v", err)
		return
	}
	clientByMAC := make(map[string]model.Client, len(entries))
	for _, dto := range entries {
		cl, err := converters.ClientFromREST(dto, now)
		if err != nil {
			continue
		}
		clientByMAC[cl.Mac.String()] = cl
	}
	c.store.Clients.ApplyRefreshSnapshot(clientByMAC)
}
