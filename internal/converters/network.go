package converters

import (
	"time"

	"github.com/brightlane/uctl/internal/model"
	"github.com/brightlane/uctl/internal/restclient"
)

// NetworkFromDetail builds a Network from the per-ID detail fetch
// (§4.7.3 step 2: the list endpoint omits DHCP/IPv6 config, so every
// network is re-fetched individually during a full refresh).
func NetworkFromDetail(dto restclient.NetworkDetailDTO, now time.Time) (model.Network, error) {
	id, err := model.ParseUUIDEntityId(dto.ID)
	if err != nil {
		return model.Network{}, err
	}
	n := model.Network{
		ID:             id,
		Name:           dto.Name,
		Enabled:        dto.Enabled,
		VlanID:         dto.VlanID,
		Subnet:         dto.Subnet,
		GatewayIP:      dto.GatewayIP,
		Isolated:       dto.Isolated,
		InternetAccess: dto.InternetAccess,
		MdnsForwarding: dto.MdnsForwarding,
		CellularBackup: dto.CellularBackup,
		Source:         model.SourceREST,
		UpdatedAt:      now,
	}
	if dto.Dhcp != nil {
		n.Dhcp = model.DhcpConfig{
			Enabled:   dto.Dhcp.Enabled,
			RangeFrom: dto.Dhcp.RangeFrom,
			RangeTo:   dto.Dhcp.RangeTo,
			LeaseSecs: dto.Dhcp.LeaseSecs,
			DNS:       dto.Dhcp.DNS,
		}
	}
	if dto.Ipv6 != nil {
		n.Ipv6 = model.Ipv6Config{
			Mode:   ipv6Mode(dto.Ipv6.Mode),
			Prefix: dto.Ipv6.Prefix,
			Slaac:  dto.Ipv6.Slaac,
			Dhcpv6: dto.Ipv6.Dhcpv6,
		}
	}
	if dto.FirewallZoneID != nil {
		zid, err := model.ParseUUIDEntityId(*dto.FirewallZoneID)
		if err == nil {
			n.FirewallZoneID = &zid
		}
	}
	return n, nil
}

func ipv6Mode(s string) model.Ipv6Mode {
	switch s {
	case "STATIC":
		return model.Ipv6ModeStatic
	case "PREFIX_DELEGATION":
		return model.Ipv6ModePrefixDelegation
	default:
		return model.Ipv6ModeDisabled
	}
}
