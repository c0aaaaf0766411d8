package converters

import (
	"time"

	"github.com/brightlane/uctl/internal/model"
	"github.com/brightlane/uctl/internal/restclient"
)

// WifiBroadcastFromREST builds a WifiBroadcast from its list DTO;
// Passphrase is always blank on reads (the Integration API never
// returns it) and is write-only on create/update commands.
func WifiBroadcastFromREST(dto restclient.WifiBroadcastDTO, now time.Time) (model.WifiBroadcast, error) {
	id, err := model.ParseUUIDEntityId(dto.ID)
	if err != nil {
		return model.WifiBroadcast{}, err
	}
	w := model.WifiBroadcast{
		ID:           id,
		Name:         dto.Name,
		Enabled:      dto.Enabled,
		Type:         wifiBroadcastType(dto.Type),
		SecurityMode: wifiSecurityMode(dto.SecurityMode),
		Frequencies:  dto.Frequencies,
		Hidden:       dto.Hidden,
		BandSteering: dto.BandSteering,
		Source:       model.SourceREST,
		UpdatedAt:    now,
	}
	if dto.NetworkID != nil {
		nid, err := model.ParseUUIDEntityId(*dto.NetworkID)
		if err == nil {
			w.NetworkID = &nid
		}
	}
	return w, nil
}

func wifiBroadcastType(s string) model.WifiBroadcastType {
	switch s {
	case "GUEST":
		return model.WifiBroadcastGuest
	case "IOT":
		return model.WifiBroadcastIot
	default:
		return model.WifiBroadcastStandard
	}
}

func wifiSecurityMode(s string) model.WifiSecurityMode {
	switch s {
	case "OPEN":
		return model.SecurityOpen
	case "WPA3_PERSONAL":
		return model.SecurityWpa3Personal
	case "WPA2_WPA3_PERSONAL":
		return model.SecurityWpa2Wpa3Personal
	case "WPA2_ENTERPRISE":
		return model.SecurityWpa2Enterprise
	case "WPA3_ENTERPRISE":
		return model.SecurityWpa3Enterprise
	case "WPA2_WPA3_ENTERPRISE":
		return model.SecurityWpa2Wpa3Enterprise
	default:
		return model.SecurityWpa2Personal
	}
}
