package converters

import (
	"encoding/json"
	"time"

	"github.com/brightlane/uctl/internal/eventstream"
	"github.com/brightlane/uctl/internal/legacyclient"
	"github.com/brightlane/uctl/internal/model"
	"github.com/brightlane/uctl/internal/restclient"
)

// ClientFromREST builds a Client from the Integration API's ClientDTO,
// used only when the Legacy surface is unavailable (§4.7.3: clients
// are otherwise sourced exclusively from the Legacy poller since the
// Integration API's client endpoint lacks wireless/guest detail).
func ClientFromREST(dto restclient.ClientDTO, now time.Time) (model.Client, error) {
	id, err := model.ParseUUIDEntityId(dto.ID)
	if err != nil {
		return model.Client{}, err
	}
	c := model.Client{
		ID:        id,
		Mac:       model.NewMacAddress(dto.MacAddress),
		Name:      dto.Name,
		Type:      restClientType(dto.Type),
		Source:    model.SourceREST,
		UpdatedAt: now,
	}
	if dto.IPAddress != nil {
		c.IP = parseIP(*dto.IPAddress)
	}
	if dto.NetworkID != nil {
		if nid, err := model.ParseUUIDEntityId(*dto.NetworkID); err == nil {
			c.NetworkID = &nid
		}
	}
	return c, nil
}

func restClientType(s string) model.ClientType {
	switch s {
	case "WIRED":
		return model.ClientTypeWired
	case "VPN":
		return model.ClientTypeVPN
	case "TELEPORT":
		return model.ClientTypeTeleport
	default:
		return model.ClientTypeWireless
	}
}

// ClientFromLegacy builds a Client from a Legacy `stat/sta` entry —
// the primary and most detailed client source (§4.7.3).
func ClientFromLegacy(e legacyclient.ClientEntry, now time.Time) model.Client {
	c := model.Client{
		ID:        model.NewLegacyEntityId(e.ID),
		Mac:       model.NewMacAddress(e.Mac),
		Source:    model.SourceLegacy,
		UpdatedAt: now,
	}
	if e.Name != nil {
		c.Name = *e.Name
	}
	if e.Hostname != nil {
		c.Hostname = *e.Hostname
	}
	if e.IP != nil {
		c.IP = parseIP(*e.IP)
	}
	switch {
	case e.IsWired != nil && *e.IsWired:
		c.Type = model.ClientTypeWired
	default:
		c.Type = model.ClientTypeWireless
	}
	if e.IsGuest != nil {
		c.IsGuest = *e.IsGuest
	}
	if e.Blocked != nil {
		c.Blocked = *e.Blocked
	}
	if e.Oui != nil {
		c.Oui = *e.Oui
	}
	if e.SwPort != nil {
		c.SwPort = e.SwPort
	}
	if e.SwMac != nil {
		m := model.NewMacAddress(*e.SwMac)
		c.UplinkDeviceMac = &m
	} else if e.ApMac != nil {
		m := model.NewMacAddress(*e.ApMac)
		c.UplinkDeviceMac = &m
	}
	if e.NetworkID != nil {
		c.NetworkID = legacyEntityIDPtr(*e.NetworkID)
	}
	if e.Network != nil {
		c.NetworkName = *e.Network
	}
	if e.TxBytes != nil {
		c.TxBytes = e.TxBytes
	}
	if e.RxBytes != nil {
		c.RxBytes = e.RxBytes
	}
	if e.TxBytesR != nil || e.RxBytesR != nil {
		bw := model.Bandwidth{}
		if e.TxBytesR != nil {
			bw.TxBytesPerSec = uint64(*e.TxBytesR)
		}
		if e.RxBytesR != nil {
			bw.RxBytesPerSec = uint64(*e.RxBytesR)
		}
		c.Bandwidth = &bw
	}
	if c.Type == model.ClientTypeWireless {
		w := &model.WirelessInfo{
			Channel:      e.Channel,
			Satisfaction: e.Satisfaction,
			TxRateKbps:   e.TxRate,
			RxRateKbps:   e.RxRate,
		}
		if e.Essid != nil {
			w.Ssid = *e.Essid
		}
		if e.Bssid != nil {
			b := model.NewMacAddress(*e.Bssid)
			w.Bssid = &b
		}
		if e.Channel != nil {
			f := bandToGHz(channelToFrequency(*e.Channel))
			w.FrequencyGHz = &f
		}
		if e.Signal != nil {
			w.SignalDbm = e.Signal
		} else if e.Rssi != nil {
			w.SignalDbm = e.Rssi
		}
		if e.Noise != nil {
			w.NoiseDbm = e.Noise
		}
		c.Wireless = w
	}
	if e.IsGuest != nil && *e.IsGuest {
		c.GuestAuth = &model.GuestAuth{Authorized: e.Authorized != nil && *e.Authorized}
	}
	if e.Uptime != nil {
		est := now.Add(-time.Duration(*e.Uptime) * time.Second)
		c.ConnectedAt = &est
	}
	return c
}

// ClientFromSync decodes a `sta:sync` push message's payload — the
// same field set as a Legacy `stat/sta` record — into a Client.
func ClientFromSync(m eventstream.Message, now time.Time) (model.Client, bool) {
	raw, err := json.Marshal(m.Extra)
	if err != nil {
		return model.Client{}, false
	}
	var entry legacyclient.ClientEntry
	if err := json.Unmarshal(raw, &entry); err != nil || entry.Mac == "" {
		return model.Client{}, false
	}
	return ClientFromLegacy(entry, now), true
}

func legacyEntityIDPtr(raw string) *model.EntityId {
	id := model.NewLegacyEntityId(raw)
	return &id
}

func bandToGHz(band string) float32 {
	switch band {
	case "2.4":
		return 2.4
	case "5":
		return 5
	case "6":
		return 6
	default:
		return 0
	}
}
