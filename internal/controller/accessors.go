package controller

import (
	"github.com/brightlane/uctl/internal/broadcast"
	"github.com/brightlane/uctl/internal/model"
	"github.com/brightlane/uctl/internal/store"
)

// The accessor surface (§6.2): per-kind EntityStream subscribers and
// immediate snapshots, plus the scalar watches. An EntityStream is
// last-snapshot-wins — a slow consumer observes the latest state on
// its next poll, it never lags behind a backlog. Events are the one
// broadcast surface, since discrete events cannot be coalesced.

// ConnectionState returns the connection-state watch.
func (c *Controller) ConnectionState() *store.Watch[store.ConnectionState] {
	return c.store.Connection
}

// Events returns a live event subscriber.
func (c *Controller) Events() *broadcast.Subscription[model.Event] {
	return c.store.Events().Subscribe()
}

// RecentEvents returns up to n of the most recently observed events.
func (c *Controller) RecentEvents(n int) []model.Event {
	return c.store.Events().Recent(n)
}

func (c *Controller) Devices() *store.EntityStream[model.Device] {
	return c.store.Devices.Subscribe()
}

func (c *Controller) Clients() *store.EntityStream[model.Client] {
	return c.store.Clients.Subscribe()
}

func (c *Controller) Networks() *store.EntityStream[model.Network] {
	return c.store.Networks.Subscribe()
}

func (c *Controller) WifiBroadcasts() *store.EntityStream[model.WifiBroadcast] {
	return c.store.WifiBroadcasts.Subscribe()
}

func (c *Controller) FirewallPolicies() *store.EntityStream[model.FirewallPolicy] {
	return c.store.FirewallPolicies.Subscribe()
}

func (c *Controller) FirewallZones() *store.EntityStream[model.FirewallZone] {
	return c.store.FirewallZones.Subscribe()
}

func (c *Controller) AclRules() *store.EntityStream[model.AclRule] {
	return c.store.AclRules.Subscribe()
}

func (c *Controller) DnsPolicies() *store.EntityStream[model.DnsPolicy] {
	return c.store.DnsPolicies.Subscribe()
}

func (c *Controller) Vouchers() *store.EntityStream[model.Voucher] {
	return c.store.Vouchers.Subscribe()
}

func (c *Controller) Sites() *store.EntityStream[model.Site] {
	return c.store.Sites.Subscribe()
}

func (c *Controller) TrafficMatchingLists() *store.EntityStream[model.TrafficMatchingList] {
	return c.store.TrafficMatchingLists.Subscribe()
}

func (c *Controller) DevicesSnapshot() []model.Device { return c.store.Devices.Snapshot() }
func (c *Controller) ClientsSnapshot() []model.Client { return c.store.Clients.Snapshot() }
func (c *Controller) NetworksSnapshot() []model.Network { return c.store.Networks.Snapshot() }
func (c *Controller) WifiBroadcastsSnapshot() []model.WifiBroadcast {
	return c.store.WifiBroadcasts.Snapshot()
}
func (c *Controller) FirewallPoliciesSnapshot() []model.FirewallPolicy {
	return c.store.FirewallPolicies.Snapshot()
}
func (c *Controller) FirewallZonesSnapshot() []model.FirewallZone {
	return c.store.FirewallZones.Snapshot()
}
func (c *Controller) AclRulesSnapshot() []model.AclRule { return c.store.AclRules.Snapshot() }
func (c *Controller) DnsPoliciesSnapshot() []model.DnsPolicy { return c.store.DnsPolicies.Snapshot() }
func (c *Controller) VouchersSnapshot() []model.Voucher { return c.store.Vouchers.Snapshot() }
func (c *Controller) SitesSnapshot() []model.Site       { return c.store.Sites.Snapshot() }
func (c *Controller) TrafficMatchingListsSnapshot() []model.TrafficMatchingList {
	return c.store.TrafficMatchingLists.Snapshot()
}

// SiteHealth returns the health-summary watch.
func (c *Controller) SiteHealth() *store.Watch[[]model.HealthSummary] {
	return c.store.SiteHealth
}

// MonthlyWanBytes returns the rolling monthly WAN counter watch.
func (c *Controller) MonthlyWanBytes() *store.Watch[store.MonthlyWanBytes] {
	return c.store.MonthlyWan
}

// ClientDailyUsage returns the per-client daily usage watch.
func (c *Controller) ClientDailyUsage() *store.Watch[store.ClientDailyUsage] {
	return c.store.DailyUsage
}
