package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/brightlane/uctl/internal/converters"
	"github.com/brightlane/uctl/internal/legacyclient"
	"github.com/brightlane/uctl/internal/model"
	"github.com/brightlane/uctl/internal/restclient"
)

// Command is the tagged union of administrative operations the runtime
// dispatches back to the controller (§4.7.6). Routing policy: the
// Integration API is preferred whenever it supports the operation, a
// REST client is available, and the target id is a UUID; everything
// else falls through to the Legacy surface. Commands with no
// Integration equivalent (firmware upgrade, provision, speedtest,
// backups, admin/site CRUD, controller power) are Legacy-only.
type Command interface{ isCommand() }

// ── Device commands ────────────────────────────────────────────────

type AdoptDevice struct {
	Mac               model.MacAddress
	IgnoreDeviceLimit bool
}

type RestartDevice struct{ ID model.EntityId }

type LocateDevice struct {
	ID model.EntityId
	On bool
}

type RemoveDevice struct{ ID model.EntityId }

type PowerCyclePort struct {
	DeviceID model.EntityId
	PortIdx  int
}

type UpgradeDevice struct{ ID model.EntityId }

type ProvisionDevice struct{ ID model.EntityId }

type RunSpeedtest struct{}

// ── Client commands ────────────────────────────────────────────────

type BlockClient struct{ ID model.EntityId }
type UnblockClient struct{ ID model.EntityId }
type ReconnectClient struct{ ID model.EntityId }

// ── CRUD commands ──────────────────────────────────────────────────
//
// Update commands carry a sparse Fields overlay rather than a whole
// replacement object: the router fetches the current representation,
// overlays the caller-supplied fields, and writes the composite, so
// server-managed fields the caller never touched survive (§4.7.6
// "merge semantics").

type CreateNetwork struct{ Spec restclient.NetworkDetailDTO }
type UpdateNetwork struct {
	ID     model.EntityId
	Fields map[string]any
}
type DeleteNetwork struct{ ID model.EntityId }

type CreateWifiBroadcast struct{ Spec restclient.WifiBroadcastDTO }
type UpdateWifiBroadcast struct {
	ID     model.EntityId
	Fields map[string]any
}
type DeleteWifiBroadcast struct{ ID model.EntityId }

type CreateFirewallPolicy struct{ Spec restclient.FirewallPolicyDTO }
type UpdateFirewallPolicy struct {
	ID     model.EntityId
	Fields map[string]any
}
type DeleteFirewallPolicy struct{ ID model.EntityId }
type ReorderFirewallPolicies struct{ OrderedIDs []string }

type CreateFirewallZone struct{ Spec restclient.FirewallZoneDTO }
type UpdateFirewallZone struct {
	ID     model.EntityId
	Fields map[string]any
}
type DeleteFirewallZone struct{ ID model.EntityId }

type CreateAclRule struct{ Spec restclient.AclRuleDTO }
type UpdateAclRule struct {
	ID     model.EntityId
	Fields map[string]any
}
type DeleteAclRule struct{ ID model.EntityId }
type ReorderAclRules struct{ OrderedIDs []string }

type CreateDnsPolicy struct{ Spec restclient.DnsPolicyDTO }
type UpdateDnsPolicy struct {
	ID     model.EntityId
	Fields map[string]any
}
type DeleteDnsPolicy struct{ ID model.EntityId }

type CreateTrafficMatchingList struct{ Spec restclient.TrafficMatchingListDTO }
type UpdateTrafficMatchingList struct {
	ID     model.EntityId
	Fields map[string]any
}
type DeleteTrafficMatchingList struct{ ID model.EntityId }

type CreateVoucher struct{ Spec restclient.VoucherDTO }
type DeleteVoucher struct{ ID model.EntityId }

// ── Legacy-only commands ───────────────────────────────────────────

type CreateBackup struct{}
type DeleteBackup struct{ Filename string }

type InviteAdmin struct {
	Email string
	Role  string
}

type RebootController struct{}
type PoweroffController struct{}

type CreateSite struct {
	Name        string
	Description string
}
type DeleteSite struct{ ID model.EntityId }

func (AdoptDevice) isCommand()               {}
func (RestartDevice) isCommand()             {}
func (LocateDevice) isCommand()              {}
func (RemoveDevice) isCommand()              {}
func (PowerCyclePort) isCommand()            {}
func (UpgradeDevice) isCommand()             {}
func (ProvisionDevice) isCommand()           {}
func (RunSpeedtest) isCommand()              {}
func (BlockClient) isCommand()               {}
func (UnblockClient) isCommand()             {}
func (ReconnectClient) isCommand()           {}
func (CreateNetwork) isCommand()             {}
func (UpdateNetwork) isCommand()             {}
func (DeleteNetwork) isCommand()             {}
func (CreateWifiBroadcast) isCommand()       {}
func (UpdateWifiBroadcast) isCommand()       {}
func (DeleteWifiBroadcast) isCommand()       {}
func (CreateFirewallPolicy) isCommand()      {}
func (UpdateFirewallPolicy) isCommand()      {}
func (DeleteFirewallPolicy) isCommand()      {}
func (ReorderFirewallPolicies) isCommand()   {}
func (CreateFirewallZone) isCommand()        {}
func (UpdateFirewallZone) isCommand()        {}
func (DeleteFirewallZone) isCommand()        {}
func (CreateAclRule) isCommand()             {}
func (UpdateAclRule) isCommand()             {}
func (DeleteAclRule) isCommand()             {}
func (ReorderAclRules) isCommand()           {}
func (CreateDnsPolicy) isCommand()           {}
func (UpdateDnsPolicy) isCommand()           {}
func (DeleteDnsPolicy) isCommand()           {}
func (CreateTrafficMatchingList) isCommand() {}
func (UpdateTrafficMatchingList) isCommand() {}
func (DeleteTrafficMatchingList) isCommand() {}
func (CreateVoucher) isCommand()             {}
func (DeleteVoucher) isCommand()             {}
func (CreateBackup) isCommand()              {}
func (DeleteBackup) isCommand()              {}
func (InviteAdmin) isCommand()               {}
func (RebootController) isCommand()          {}
func (PoweroffController) isCommand()        {}
func (CreateSite) isCommand()                {}
func (DeleteSite) isCommand()                {}

// commandRequest pairs a Command with its completion channel, the same
// request/response shape the command channel consumer loops on.
type commandRequest struct {
	cmd  Command
	done chan error
}

// Execute routes cmd to the appropriate API surface via the command
// processor task. Commands are accepted only while Connected (§4.7.6);
// the bounded command channel backpressures producers (§5).
func (c *Controller) Execute(ctx context.Context, cmd Command) error {
	if !c.connected.Load() {
		return ErrControllerDisconnected
	}
	req := commandRequest{cmd: cmd, done: make(chan error, 1)}
	select {
	case c.cmdCh <- req:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-req.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// handleCommand is the single consumer-side dispatch; only the command
// processor task calls it, serializing command execution (§4.7.4).
func (c *Controller) handleCommand(ctx context.Context, cmd Command) error {
	switch v := cmd.(type) {
	case AdoptDevice:
		if c.rest != nil {
			return c.rest.AdoptDevice(ctx, c.siteID, v.Mac.String(), v.IgnoreDeviceLimit)
		}
		return c.legacyDeviceCommand(ctx, legacyclient.DevCmdAdopt, v.Mac.String())

	case RestartDevice:
		return c.deviceAction(ctx, v.ID, restclient.DeviceActionRestart, legacyclient.DevCmdRestart)
	case LocateDevice:
		if v.On {
			return c.deviceAction(ctx, v.ID, restclient.DeviceActionLocateOn, legacyclient.DevCmdSetLocate)
		}
		return c.deviceAction(ctx, v.ID, restclient.DeviceActionLocateOff, legacyclient.DevCmdUnsetLocate)

	case RemoveDevice:
		if c.rest != nil && v.ID.IsUUID() {
			if err := c.rest.RemoveDevice(ctx, c.siteID, v.ID.String()); err != nil {
				return err
			}
			if dev, ok := c.store.DeviceByID(v.ID); ok {
				c.store.Devices.Remove(dev.Mac.String())
			}
			return nil
		}
		return ErrUnsupported("device removal requires the Integration API and a UUID id")

	case PowerCyclePort:
		if c.rest != nil && v.DeviceID.IsUUID() {
			return c.rest.PortAction(ctx, c.siteID, v.DeviceID.String(), v.PortIdx, restclient.PortActionPowerCycle)
		}
		mac, err := c.deviceMac(v.DeviceID)
		if err != nil {
			return err
		}
		legacy := c.legacyHandle()
		if legacy == nil {
			return ErrUnsupported("port power-cycle needs the Integration API or a Legacy session")
		}
		return legacy.PowerCyclePort(ctx, mac, v.PortIdx)

	case UpgradeDevice:
		return c.legacyDeviceCommandByID(ctx, legacyclient.DevCmdUpgrade, v.ID)
	case ProvisionDevice:
		return c.legacyDeviceCommandByID(ctx, legacyclient.DevCmdProvision, v.ID)
	case RunSpeedtest:
		legacy := c.legacyHandle()
		if legacy == nil {
			return ErrUnsupported("speedtest needs a Legacy session")
		}
		return legacy.Speedtest(ctx)

	case BlockClient:
		return c.clientAction(ctx, v.ID, restclient.ClientActionBlock, legacyclient.StaCmdBlock)
	case UnblockClient:
		return c.clientAction(ctx, v.ID, restclient.ClientActionUnblock, legacyclient.StaCmdUnblock)
	case ReconnectClient:
		return c.clientAction(ctx, v.ID, restclient.ClientActionReconnect, legacyclient.StaCmdReconnect)

	case CreateNetwork:
		return crudCreate(ctx, c, v.Spec, c.rest.CreateNetwork, func(dto restclient.NetworkDetailDTO) {
			if n, err := converters.NetworkFromDetail(dto, time.Now().UTC()); err == nil {
				c.store.Networks.Upsert(n.ID.String(), n)
			}
		})
	case UpdateNetwork:
		return crudUpdate(ctx, c, v.ID, v.Fields, c.rest.GetNetwork, c.rest.UpdateNetwork, func(dto restclient.NetworkDetailDTO) {
			if n, err := converters.NetworkFromDetail(dto, time.Now().UTC()); err == nil {
				c.store.Networks.Upsert(n.ID.String(), n)
			}
		})
	case DeleteNetwork:
		return crudDelete(ctx, c, v.ID, c.rest.DeleteNetwork, c.store.Networks.Remove)

	case CreateWifiBroadcast:
		return crudCreate(ctx, c, v.Spec, c.rest.CreateWifiBroadcast, func(dto restclient.WifiBroadcastDTO) {
			if w, err := converters.WifiBroadcastFromREST(dto, time.Now().UTC()); err == nil {
				c.store.WifiBroadcasts.Upsert(w.ID.String(), w)
			}
		})
	case UpdateWifiBroadcast:
		return crudUpdate(ctx, c, v.ID, v.Fields, c.rest.GetWifiBroadcast, c.rest.UpdateWifiBroadcast, func(dto restclient.WifiBroadcastDTO) {
			if w, err := converters.WifiBroadcastFromREST(dto, time.Now().UTC()); err == nil {
				c.store.WifiBroadcasts.Upsert(w.ID.String(), w)
			}
		})
	case DeleteWifiBroadcast:
		return crudDelete(ctx, c, v.ID, c.rest.DeleteWifiBroadcast, c.store.WifiBroadcasts.Remove)

	case CreateFirewallPolicy:
		return crudCreate(ctx, c, v.Spec, c.rest.CreateFirewallPolicy, func(dto restclient.FirewallPolicyDTO) {
			if p, err := converters.FirewallPolicyFromREST(dto, time.Now().UTC()); err == nil {
				c.store.FirewallPolicies.Upsert(p.ID.String(), p)
			}
		})
	case UpdateFirewallPolicy:
		// The policies endpoint supports PATCH, so the overlay happens
		// server-side instead of fetch-overlay-PUT.
		if c.rest == nil {
			return ErrUnsupported("firewall policy update requires the Integration API")
		}
		if !v.ID.IsUUID() {
			return ErrValidationFailed("firewall policy id must be a UUID")
		}
		dto, err := c.rest.PatchFirewallPolicy(ctx, c.siteID, v.ID.String(), v.Fields)
		if err != nil {
			return err
		}
		if p, err := converters.FirewallPolicyFromREST(dto, time.Now().UTC()); err == nil {
			c.store.FirewallPolicies.Upsert(p.ID.String(), p)
		}
		return nil
	case DeleteFirewallPolicy:
		return crudDelete(ctx, c, v.ID, c.rest.DeleteFirewallPolicy, c.store.FirewallPolicies.Remove)
	case ReorderFirewallPolicies:
		if c.rest == nil {
			return ErrUnsupported("firewall policy ordering requires the Integration API")
		}
		return c.rest.PutFirewallPolicyOrdering(ctx, c.siteID, v.OrderedIDs)

	case CreateFirewallZone:
		return crudCreate(ctx, c, v.Spec, c.rest.CreateFirewallZone, func(dto restclient.FirewallZoneDTO) {
			if z, err := converters.FirewallZoneFromREST(dto, time.Now().UTC()); err == nil {
				c.store.FirewallZones.Upsert(z.ID.String(), z)
			}
		})
	case UpdateFirewallZone:
		return crudUpdate(ctx, c, v.ID, v.Fields, c.rest.GetFirewallZone, c.rest.UpdateFirewallZone, func(dto restclient.FirewallZoneDTO) {
			if z, err := converters.FirewallZoneFromREST(dto, time.Now().UTC()); err == nil {
				c.store.FirewallZones.Upsert(z.ID.String(), z)
			}
		})
	case DeleteFirewallZone:
		return crudDelete(ctx, c, v.ID, c.rest.DeleteFirewallZone, c.store.FirewallZones.Remove)

	case CreateAclRule:
		return crudCreate(ctx, c, v.Spec, c.rest.CreateAclRule, func(dto restclient.AclRuleDTO) {
			if r, err := converters.AclRuleFromREST(dto, time.Now().UTC()); err == nil {
				c.store.AclRules.Upsert(r.ID.String(), r)
			}
		})
	case UpdateAclRule:
		return crudUpdate(ctx, c, v.ID, v.Fields, c.rest.GetAclRule, c.rest.UpdateAclRule, func(dto restclient.AclRuleDTO) {
			if r, err := converters.AclRuleFromREST(dto, time.Now().UTC()); err == nil {
				c.store.AclRules.Upsert(r.ID.String(), r)
			}
		})
	case DeleteAclRule:
		return crudDelete(ctx, c, v.ID, c.rest.DeleteAclRule, c.store.AclRules.Remove)
	case ReorderAclRules:
		if c.rest == nil {
			return ErrUnsupported("ACL rule ordering requires the Integration API")
		}
		return c.rest.PutAclRuleOrdering(ctx, c.siteID, v.OrderedIDs)

	case CreateDnsPolicy:
		return crudCreate(ctx, c, v.Spec, c.rest.CreateDnsPolicy, func(dto restclient.DnsPolicyDTO) {
			if p, err := converters.DnsPolicyFromREST(dto, time.Now().UTC()); err == nil {
				c.store.DnsPolicies.Upsert(p.ID.String(), p)
			}
		})
	case UpdateDnsPolicy:
		return crudUpdate(ctx, c, v.ID, v.Fields, c.rest.GetDnsPolicy, c.rest.UpdateDnsPolicy, func(dto restclient.DnsPolicyDTO) {
			if p, err := converters.DnsPolicyFromREST(dto, time.Now().UTC()); err == nil {
				c.store.DnsPolicies.Upsert(p.ID.String(), p)
			}
		})
	case DeleteDnsPolicy:
		return crudDelete(ctx, c, v.ID, c.rest.DeleteDnsPolicy, c.store.DnsPolicies.Remove)

	case CreateTrafficMatchingList:
		return crudCreate(ctx, c, v.Spec, c.rest.CreateTrafficMatchingList, func(dto restclient.TrafficMatchingListDTO) {
			if l, err := converters.TrafficMatchingListFromREST(dto); err == nil {
				c.store.TrafficMatchingLists.Upsert(l.ID.String(), l)
			}
		})
	case UpdateTrafficMatchingList:
		return crudUpdate(ctx, c, v.ID, v.Fields, c.rest.GetTrafficMatchingList, c.rest.UpdateTrafficMatchingList, func(dto restclient.TrafficMatchingListDTO) {
			if l, err := converters.TrafficMatchingListFromREST(dto); err == nil {
				c.store.TrafficMatchingLists.Upsert(l.ID.String(), l)
			}
		})
	case DeleteTrafficMatchingList:
		return crudDelete(ctx, c, v.ID, c.rest.DeleteTrafficMatchingList, c.store.TrafficMatchingLists.Remove)

	case CreateVoucher:
		return crudCreate(ctx, c, v.Spec, c.rest.CreateVoucher, func(dto restclient.VoucherDTO) {
			if vo, err := converters.VoucherFromREST(dto, time.Now().UTC()); err == nil {
				c.store.Vouchers.Upsert(vo.ID.String(), vo)
			}
		})
	case DeleteVoucher:
		return crudDelete(ctx, c, v.ID, c.rest.DeleteVoucher, c.store.Vouchers.Remove)

	case CreateBackup:
		return c.legacyOnly(ctx, "backup creation", func(ctx context.Context, l *legacyclient.Client) error {
			return l.CreateBackup(ctx)
		})
	case DeleteBackup:
		return c.legacyOnly(ctx, "backup deletion", func(ctx context.Context, l *legacyclient.Client) error {
			return l.DeleteBackup(ctx, v.Filename)
		})
	case InviteAdmin:
		return c.legacyOnly(ctx, "admin invite", func(ctx context.Context, l *legacyclient.Client) error {
			return l.InviteAdmin(ctx, v.Email, v.Role)
		})
	case RebootController:
		return c.legacyOnly(ctx, "controller reboot", func(ctx context.Context, l *legacyclient.Client) error {
			return l.RebootController(ctx)
		})
	case PoweroffController:
		return c.legacyOnly(ctx, "controller poweroff", func(ctx context.Context, l *legacyclient.Client) error {
			return l.PoweroffController(ctx)
		})
	case CreateSite:
		return c.legacyOnly(ctx, "site creation", func(ctx context.Context, l *legacyclient.Client) error {
			return l.CreateSite(ctx, v.Name, v.Description)
		})
	case DeleteSite:
		return c.legacyOnly(ctx, "site deletion", func(ctx context.Context, l *legacyclient.Client) error {
			return l.DeleteSite(ctx, v.ID.String())
		})

	default:
		return ErrValidationFailed(fmt.Sprintf("unrecognized command %T", cmd))
	}
}

// deviceAction prefers the Integration API when the target id is a
// UUID and a REST client exists, otherwise translates the id to a MAC
// via the store and issues the Legacy devmgr equivalent (§4.7.6, S6).
func (c *Controller) deviceAction(ctx context.Context, id model.EntityId, restAction, legacyCmd string) error {
	if c.rest != nil && id.IsUUID() {
		return c.rest.DeviceAction(ctx, c.siteID, id.String(), restAction)
	}
	return c.legacyDeviceCommandByID(ctx, legacyCmd, id)
}

func (c *Controller) clientAction(ctx context.Context, id model.EntityId, restAction, legacyCmd string) error {
	if c.rest != nil && id.IsUUID() {
		return c.rest.ClientAction(ctx, c.siteID, id.String(), restAction)
	}
	cl, ok := c.store.ClientByID(id)
	if !ok {
		return ErrClientNotFound(id.String())
	}
	legacy := c.legacyHandle()
	if legacy == nil {
		return ErrUnsupported("client command needs the Integration API or a Legacy session")
	}
	return legacy.ClientCommand(ctx, legacyCmd, cl.Mac.String())
}

func (c *Controller) deviceMac(id model.EntityId) (string, error) {
	dev, ok := c.store.DeviceByID(id)
	if !ok {
		return "", ErrDeviceNotFound(id.String())
	}
	return dev.Mac.String(), nil
}

func (c *Controller) legacyDeviceCommandByID(ctx context.Context, cmd string, id model.EntityId) error {
	mac, err := c.deviceMac(id)
	if err != nil {
		return err
	}
	return c.legacyDeviceCommand(ctx, cmd, mac)
}

func (c *Controller) legacyDeviceCommand(ctx context.Context, cmd, mac string) error {
	legacy := c.legacyHandle()
	if legacy == nil {
		return ErrUnsupported("device command needs the Integration API or a Legacy session")
	}
	return legacy.DeviceCommand(ctx, cmd, mac)
}

func (c *Controller) legacyOnly(ctx context.Context, what string, f func(context.Context, *legacyclient.Client) error) error {
	legacy := c.legacyHandle()
	if legacy == nil {
		return ErrUnsupported(what + " requires a Legacy session")
	}
	return f(ctx, legacy)
}

// crudCreate / crudUpdate / crudDelete factor the REST-only CRUD
// plumbing: availability check, UUID check, the overlay for updates,
// and the optimistic store write on success. The next full refresh
// remains authoritative.
func crudCreate[T any](ctx context.Context, c *Controller, spec T, create func(context.Context, string, T) (T, error), store func(T)) error {
	if c.rest == nil {
		return ErrUnsupported("entity creation requires the Integration API")
	}
	created, err := create(ctx, c.siteID, spec)
	if err != nil {
		return err
	}
	store(created)
	return nil
}

func crudUpdate[T any](ctx context.Context, c *Controller, id model.EntityId, fields map[string]any,
	get func(context.Context, string, string) (T, error),
	put func(context.Context, string, string, T) (T, error),
	store func(T)) error {
	if c.rest == nil {
		return ErrUnsupported("entity update requires the Integration API")
	}
	if !id.IsUUID() {
		return ErrValidationFailed("entity id must be a UUID")
	}
	current, err := get(ctx, c.siteID, id.String())
	if err != nil {
		return err
	}
	composite, err := overlayFields(current, fields)
	if err != nil {
		return ErrValidationFailed(err.Error())
	}
	updated, err := put(ctx, c.siteID, id.String(), composite)
	if err != nil {
		return err
	}
	store(updated)
	return nil
}

func crudDelete(ctx context.Context, c *Controller, id model.EntityId, del func(context.Context, string, string) error, remove func(string)) error {
	if c.rest == nil {
		return ErrUnsupported("entity deletion requires the Integration API")
	}
	if !id.IsUUID() {
		return ErrValidationFailed("entity id must be a UUID")
	}
	if err := del(ctx, c.siteID, id.String()); err != nil {
		return err
	}
	remove(id.String())
	return nil
}

// overlayFields merges caller-supplied fields onto the current wire
// representation through a JSON round-trip, so callers name fields by
// their wire keys and untouched fields keep their server values.
func overlayFields[T any](current T, fields map[string]any) (T, error) {
	var zero T
	raw, err := json.Marshal(current)
	if err != nil {
		return zero, err
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return zero, err
	}
	for k, v := range fields {
		m[k] = v
	}
	merged, err := json.Marshal(m)
	if err != nil {
		return zero, err
	}
	var out T
	if err := json.Unmarshal(merged, &out); err != nil {
		return zero, err
	}
	return out, nil
}
