package store

import (
	"sync"

	"github.com/brightlane/uctl/internal/broadcast"
	"github.com/brightlane/uctl/internal/model"
)

// ConnectionState is the controller-wide connection lifecycle (§4.7.5):
// Disconnected -> Connecting -> Connected, with Reconnecting{Attempt}
// on transient loss and Failed once the reconnect budget is exhausted.
type ConnectionState struct {
	Kind     ConnectionStateKind
	Attempt  int
	LastErr  string
}

type ConnectionStateKind int

const (
	ConnDisconnected ConnectionStateKind = iota
	ConnConnecting
	ConnConnected
	ConnReconnecting
	ConnFailed
)

// MonthlyWanBytes is the rolling monthly WAN counter pair tracked by
// the monthly-usage poller (§4.7.4).
type MonthlyWanBytes struct {
	TxBytes uint64
	RxBytes uint64
}

// ClientDailyUsage maps a client MAC (canonical string form) to its
// bytes transferred since local midnight, refreshed by the
// client-daily-usage poller (§4.7.4).
type ClientDailyUsage map[string]model.Bandwidth

// Store is the controller's full in-memory mirror: one Collection per
// CRUD entity kind, a bounded rolling event/alarm log, and the scalar
// Watch values consumers poll for live state. Nothing here is
// persisted; each Connect() repopulates the Store via full_refresh
// (§4.7.3), which replaces every refreshed collection wholesale.
type Store struct {
	Devices              *Collection[string, model.Device]
	Clients              *Collection[string, model.Client]
	Networks             *Collection[string, model.Network]
	WifiBroadcasts       *Collection[string, model.WifiBroadcast]
	FirewallPolicies     *Collection[string, model.FirewallPolicy]
	FirewallZones        *Collection[string, model.FirewallZone]
	AclRules             *Collection[string, model.AclRule]
	DnsPolicies          *Collection[string, model.DnsPolicy]
	Vouchers             *Collection[string, model.Voucher]
	Sites                *Collection[string, model.Site]
	TrafficMatchingLists *Collection[string, model.TrafficMatchingList]
	Alarms               *Collection[string, model.Alarm]

	events     *EventLog
	Connection *Watch[ConnectionState]
	SiteHealth *Watch[[]model.HealthSummary]
	MonthlyWan *Watch[MonthlyWanBytes]
	DailyUsage *Watch[ClientDailyUsage]
}

// New builds an empty Store with every collection's secondary indexes
// wired (MAC-keyed kinds also index by EntityId; UUID-keyed kinds
// index nothing extra since the primary key already is the id).
func New() *Store {
	devices := NewCollection[string, model.Device]()
	devices.WithIndex("id", func(d model.Device) string { return d.ID.String() })

	clients := NewCollection[string, model.Client]()
	clients.WithIndex("id", func(c model.Client) string { return c.ID.String() })

	return &Store{
		Devices:              devices,
		Clients:              clients,
		Networks:             NewCollection[string, model.Network](),
		WifiBroadcasts:       NewCollection[string, model.WifiBroadcast](),
		FirewallPolicies:     NewCollection[string, model.FirewallPolicy](),
		FirewallZones:        NewCollection[string, model.FirewallZone](),
		AclRules:             NewCollection[string, model.AclRule](),
		DnsPolicies:          NewCollection[string, model.DnsPolicy](),
		Vouchers:             NewCollection[string, model.Voucher](),
		Sites:                NewCollection[string, model.Site](),
		TrafficMatchingLists: NewCollection[string, model.TrafficMatchingList](),
		Alarms:               NewCollection[string, model.Alarm](),

		events:     NewEventLog(512),
		Connection: NewWatch(ConnectionState{Kind: ConnDisconnected}),
		SiteHealth: NewWatch[[]model.HealthSummary](nil),
		MonthlyWan: NewWatch(MonthlyWanBytes{}),
		DailyUsage: NewWatch[ClientDailyUsage](nil),
	}
}

// Events exposes the bounded rolling event/alarm log.
func (s *Store) Events() *EventLog { return s.events }

// DeviceByID looks up a device by its EntityId rather than MAC.
func (s *Store) DeviceByID(id model.EntityId) (model.Device, bool) {
	return s.Devices.GetByIndex("id", id.String())
}

// ClientByID looks up a client by its EntityId rather than MAC.
func (s *Store) ClientByID(id model.EntityId) (model.Client, bool) {
	return s.Clients.GetByIndex("id", id.String())
}

// ApplyDeviceStatsUpdate merges a partial stats delta into the device
// at mac, leaving every other field untouched. The single stats-merge
// task is this method's only caller, serializing all writes for a
// given MAC through the Collection's own lock (§4.7.4 "single stats
// writer", §9).
func (s *Store) ApplyDeviceStatsUpdate(upd model.DeviceStatsUpdate) {
	mac := upd.Mac.String()
	s.Devices.Update(mac, func(old model.Device, ok bool) model.Device {
		if !ok {
			old.Mac = upd.Mac
		}
		old.Stats.Merge(upd.Stats)
		if upd.ClientCount != nil {
			old.ClientCount = upd.ClientCount
		}
		if upd.WanIPv6 != nil {
			old.WanIPv6 = *upd.WanIPv6
		}
		if upd.UplinkDeviceMac != nil {
			old.UplinkDeviceMac = upd.UplinkDeviceMac
		}
		return old
	})
}

// EventLog is a bounded rolling buffer of recent events plus a live
// broadcast hub for subscribers that want every event as it happens
// (§3.3: events are append-only and not stored by primary key, though
// a rolling window is retained for late subscribers).
type EventLog struct {
	mu      sync.Mutex
	ring    []model.Event
	cap     int
	hub     *broadcast.Hub[model.Event]
}

// NewEventLog creates an EventLog retaining at most capacity entries.
func NewEventLog(capacity int) *EventLog {
	return &EventLog{cap: capacity, hub: broadcast.New[model.Event](64)}
}

// Append records ev in the rolling window and publishes it to subscribers.
func (l *EventLog) Append(ev model.Event) {
	l.mu.Lock()
	l.ring = append(l.ring, ev)
	if len(l.ring) > l.cap {
		l.ring = l.ring[len(l.ring)-l.cap:]
	}
	l.mu.Unlock()
	l.hub.Publish(ev)
}

// Recent returns up to n of the most recently appended events, newest last.
func (l *EventLog) Recent(n int) []model.Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	if n <= 0 || n > len(l.ring) {
		n = len(l.ring)
	}
	out := make([]model.Event, n)
	copy(out, l.ring[len(l.ring)-n:])
	return out
}

// Subscribe registers a live event subscriber.
func (l *EventLog) Subscribe() *broadcast.Subscription[model.Event] { return l.hub.Subscribe() }
