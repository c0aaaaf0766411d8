package converters

import (
	"strconv"
	"strings"
	"time"

	"github.com/brightlane/uctl/internal/legacyclient"
	"github.com/brightlane/uctl/internal/model"
	"github.com/brightlane/uctl/internal/restclient"
)

// gatewayModelPrefixes is the known gateway family set; the model
// string outranks feature flags because some gateway firmware
// advertises `switching` without `routing`.
var gatewayModelPrefixes = []string{"UGW", "UDM", "UDR", "UXG", "UCG", "UCK", "USG"}

func hasGatewayModelPrefix(model_ string) bool {
	m := strings.ToUpper(model_)
	for _, p := range gatewayModelPrefixes {
		if strings.HasPrefix(m, p) {
			return true
		}
	}
	return false
}

// InferDeviceType classifies a device from its Integration-API model
// string and feature list. Order: known gateway model prefix, then
// switching+routing together, then the explicit gateway or accessPoint
// or switching features, then Other. Switching and access-point
// capabilities can coexist; both flags are reported alongside the type.
func InferDeviceType(model_ string, features []string) (model.DeviceType, bool, bool) {
	has := make(map[string]bool, len(features))
	for _, f := range features {
		has[f] = true
	}
	isSwitch := has["switching"]
	isAP := has["accessPoint"]
	switch {
	case hasGatewayModelPrefix(model_):
		return model.DeviceTypeGateway, isSwitch, isAP
	case has["switching"] && has["routing"]:
		return model.DeviceTypeGateway, isSwitch, isAP
	case has["gateway"]:
		return model.DeviceTypeGateway, isSwitch, isAP
	case isAP:
		return model.DeviceTypeAccessPoint, isSwitch, true
	case isSwitch:
		return model.DeviceTypeSwitch, true, isAP
	default:
		return model.DeviceTypeOther, isSwitch, isAP
	}
}

// legacyTypeCode maps the Legacy `type` field to a device type
// ("ugw"/"udm" gateway, "usw" switch, "uap" access point); when the
// code is absent or unrecognized (e.g. a "uck" literal) the model name
// prefix is used as a fallback.
func legacyTypeCode(typ, model_ string) (model.DeviceType, bool, bool) {
	switch typ {
	case "ugw", "udm":
		return model.DeviceTypeGateway, true, false
	case "usw":
		return model.DeviceTypeSwitch, true, false
	case "uap":
		return model.DeviceTypeAccessPoint, false, true
	}
	m := strings.ToUpper(model_)
	switch {
	case hasGatewayModelPrefix(m):
		return model.DeviceTypeGateway, true, false
	case strings.HasPrefix(m, "USW"), strings.HasPrefix(m, "USL"):
		return model.DeviceTypeSwitch, true, false
	case strings.HasPrefix(m, "UAP"), strings.HasPrefix(m, "U6"), strings.HasPrefix(m, "U7"):
		return model.DeviceTypeAccessPoint, false, true
	default:
		return model.DeviceTypeOther, false, false
	}
}

// legacyDeviceState maps the Legacy numeric state code to the 10-way
// lifecycle enum; unrecognized codes map to DeviceStateUnknown rather
// than erroring, since new firmware adds codes over time.
func legacyDeviceState(code int) model.DeviceState {
	switch code {
	case 0:
		return model.DeviceStateOffline
	case 1:
		return model.DeviceStateOnline
	case 2:
		return model.DeviceStatePendingAdoption
	case 4:
		return model.DeviceStateUpdating
	case 5:
		return model.DeviceStateGettingReady
	case 6:
		return model.DeviceStateAdopting
	case 7:
		return model.DeviceStateDeleting
	case 9:
		return model.DeviceStateConnectionInterrupted
	case 10:
		return model.DeviceStateIsolated
	default:
		return model.DeviceStateUnknown
	}
}

// restDeviceState maps the Integration API's string state literal.
func restDeviceState(s string) model.DeviceState {
	switch strings.ToUpper(s) {
	case "OFFLINE":
		return model.DeviceStateOffline
	case "ONLINE":
		return model.DeviceStateOnline
	case "PENDING_ADOPTION":
		return model.DeviceStatePendingAdoption
	case "UPDATING":
		return model.DeviceStateUpdating
	case "GETTING_READY":
		return model.DeviceStateGettingReady
	case "ADOPTING":
		return model.DeviceStateAdopting
	case "DELETING":
		return model.DeviceStateDeleting
	case "CONNECTION_INTERRUPTED":
		return model.DeviceStateConnectionInterrupted
	case "ISOLATED":
		return model.DeviceStateIsolated
	default:
		return model.DeviceStateUnknown
	}
}

// DeviceFromREST builds a Device from the Integration API's list/detail DTO.
func DeviceFromREST(dto restclient.DeviceDTO, now time.Time) (model.Device, error) {
	id, err := model.ParseUUIDEntityId(dto.ID)
	if err != nil {
		return model.Device{}, err
	}
	typ, isSwitch, isAP := InferDeviceType(dto.Model, dto.Features)

	d := model.Device{
		ID:                id,
		Mac:               model.NewMacAddress(dto.MacAddress),
		Name:              dto.Name,
		Model:             dto.Model,
		Type:              typ,
		State:             restDeviceState(dto.State),
		FirmwareVersion:   dto.FirmwareVersion,
		FirmwareUpdatable: dto.FirmwareUpdatable,
		Features:          dto.Features,
		ClientCount:       dto.ClientCount,
		Supported:         dto.Supported,
		HasSwitching:      isSwitch,
		HasAccessPoint:    isAP,
		Source:            model.SourceREST,
		UpdatedAt:         now,
	}
	if dto.IPAddress != nil {
		d.IP = parseIP(*dto.IPAddress)
	}
	if dto.Serial != nil {
		d.Serial = *dto.Serial
	}
	if dto.AdoptedAt != nil {
		if t, err := time.Parse(time.RFC3339, *dto.AdoptedAt); err == nil {
			d.AdoptedAt = &t
		}
	}
	if dto.ProvisionedAt != nil {
		if t, err := time.Parse(time.RFC3339, *dto.ProvisionedAt); err == nil {
			d.ProvisionedAt = &t
		}
	}
	if dto.Interfaces != nil {
		for _, p := range dto.Interfaces.Ports {
			d.Ports = append(d.Ports, model.Port{
				Index:      p.Idx,
				Name:       p.Name,
				Enabled:    p.Enabled,
				PoeEnabled: p.PoeEnabled,
				Up:         p.Up,
				Speed:      p.SpeedMbps,
			})
		}
		for _, r := range dto.Interfaces.Radios {
			d.Radios = append(d.Radios, model.Radio{
				Name:      r.Name,
				Band:      r.Band,
				Channel:   r.Channel,
				TxPowerDb: r.TxPowerDb,
			})
		}
	}
	return d, nil
}

// DeviceStatsFromREST builds a partial DeviceStats from the
// Integration API's statistics/latest DTO.
func DeviceStatsFromREST(dto restclient.DeviceStatsDTO) model.DeviceStats {
	stats := model.DeviceStats{
		UptimeSecs:           dto.UptimeSec,
		CpuUtilizationPct:    dto.CPUUtilizationPct,
		MemoryUtilizationPct: dto.MemoryUtilizationPct,
		LoadAverage1m:        dto.LoadAverage1Min,
		LoadAverage5m:        dto.LoadAverage5Min,
		LoadAverage15m:       dto.LoadAverage15Min,
	}
	if dto.UplinkTxBytesRate != nil || dto.UplinkRxBytesRate != nil {
		bw := model.Bandwidth{}
		if dto.UplinkTxBytesRate != nil {
			bw.TxBytesPerSec = *dto.UplinkTxBytesRate
		}
		if dto.UplinkRxBytesRate != nil {
			bw.RxBytesPerSec = *dto.UplinkRxBytesRate
		}
		stats.UplinkBandwidth = &bw
	}
	if dto.LastHeartbeatAt != nil {
		if t, err := time.Parse(time.RFC3339, *dto.LastHeartbeatAt); err == nil {
			stats.LastHeartbeat = &t
		}
	}
	if dto.NextHeartbeatAt != nil {
		if t, err := time.Parse(time.RFC3339, *dto.NextHeartbeatAt); err == nil {
			stats.NextHeartbeat = &t
		}
	}
	return stats
}

// DeviceFromLegacy builds a Device from a Legacy `stat/device` record,
// used to supplement REST devices with fields the Integration API
// does not expose (WAN IPv6, uplink MAC) and as the sole source on
// configs where only the Legacy surface is reachable.
func DeviceFromLegacy(d legacyclient.Device, now time.Time) model.Device {
	typ, isSwitch, isAP := legacyTypeCode(d.Type, derefStr(d.Model))

	out := model.Device{
		ID:        model.NewLegacyEntityId(d.ID),
		Mac:       model.NewMacAddress(d.Mac),
		Name:      d.Name,
		Type:      typ,
		State:     legacyDeviceState(d.State),
		Serial:    derefStr(d.Serial),
		HasSwitching: isSwitch,
		HasAccessPoint: isAP,
		Source:    model.SourceLegacy,
		UpdatedAt: now,
	}
	if d.Model != nil {
		out.Model = *d.Model
	}
	out.FirmwareVersion = d.Version
	if d.Upgradable != nil {
		out.FirmwareUpdatable = *d.Upgradable
	}
	if d.IP != nil {
		out.IP = parseIP(*d.IP)
	}
	if d.NumSta != nil {
		n := int(*d.NumSta)
		out.ClientCount = &n
	}
	if d.LastSeen != nil {
		t := time.Unix(*d.LastSeen, 0).UTC()
		out.LastSeen = &t
	}
	out.WanIPv6 = pickIPv6(d.Extra)
	if mac, ok := extraString(d.Extra, "uplink"); ok {
		u := model.NewMacAddress(mac)
		out.UplinkDeviceMac = &u
	}

	stats := model.DeviceStats{}
	if d.Uptime != nil {
		stats.UptimeSecs = d.Uptime
	}
	if d.SysStats != nil {
		if d.SysStats.Cpu != nil {
			if v, err := strconv.ParseFloat(*d.SysStats.Cpu, 64); err == nil {
				stats.CpuUtilizationPct = &v
			}
		}
		if d.SysStats.MemUsed != nil && d.SysStats.MemTotal != nil && *d.SysStats.MemTotal > 0 {
			pct := float64(*d.SysStats.MemUsed) / float64(*d.SysStats.MemTotal) * 100
			stats.MemoryUtilizationPct = &pct
		}
		if d.SysStats.Load1 != nil {
			if v, err := strconv.ParseFloat(*d.SysStats.Load1, 64); err == nil {
				stats.LoadAverage1m = &v
			}
		}
		if d.SysStats.Load5 != nil {
			if v, err := strconv.ParseFloat(*d.SysStats.Load5, 64); err == nil {
				stats.LoadAverage5m = &v
			}
		}
		if d.SysStats.Load15 != nil {
			if v, err := strconv.ParseFloat(*d.SysStats.Load15, 64); err == nil {
				stats.LoadAverage15m = &v
			}
		}
	}
	out.Stats = stats
	return out
}

func derefStr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
