package converters

import (
	"time"

	"github.com/brightlane/uctl/internal/model"
	"github.com/brightlane/uctl/internal/restclient"
)

func FirewallPolicyFromREST(dto restclient.FirewallPolicyDTO, now time.Time) (model.FirewallPolicy, error) {
	id, err := model.ParseUUIDEntityId(dto.ID)
	if err != nil {
		return model.FirewallPolicy{}, err
	}
	p := model.FirewallPolicy{
		ID:             id,
		Name:           dto.Name,
		Enabled:        dto.Enabled,
		Action:         firewallAction(dto.Action),
		Protocol:       dto.Protocol,
		LoggingEnabled: dto.LoggingEnabled,
		Index:          dto.Index,
		Source:         model.SourceREST,
		UpdatedAt:      now,
	}
	if dto.SourceZoneID != nil {
		if zid, err := model.ParseUUIDEntityId(*dto.SourceZoneID); err == nil {
			p.SourceZoneID = &zid
		}
	}
	if dto.DestinationZoneID != nil {
		if zid, err := model.ParseUUIDEntityId(*dto.DestinationZoneID); err == nil {
			p.DestinationZoneID = &zid
		}
	}
	return p, nil
}

func firewallAction(s string) model.FirewallAction {
	switch s {
	case "DROP":
		return model.FirewallDrop
	case "REJECT":
		return model.FirewallReject
	default:
		return model.FirewallAllow
	}
}

func FirewallZoneFromREST(dto restclient.FirewallZoneDTO, now time.Time) (model.FirewallZone, error) {
	id, err := model.ParseUUIDEntityId(dto.ID)
	if err != nil {
		return model.FirewallZone{}, err
	}
	z := model.FirewallZone{ID: id, Name: dto.Name, Source: model.SourceREST, UpdatedAt: now}
	for _, nid := range dto.NetworkIDs {
		if id, err := model.ParseUUIDEntityId(nid); err == nil {
			z.NetworkIDs = append(z.NetworkIDs, id)
		}
	}
	return z, nil
}

func AclRuleFromREST(dto restclient.AclRuleDTO, now time.Time) (model.AclRule, error) {
	id, err := model.ParseUUIDEntityId(dto.ID)
	if err != nil {
		return model.AclRule{}, err
	}
	r := model.AclRule{
		ID:      id,
		Name:    dto.Name,
		Enabled: dto.Enabled,
		Index:   dto.Index,
		Source:  model.SourceREST,
		UpdatedAt: now,
	}
	if dto.Type == "MAC" {
		r.Type = model.AclRuleMAC
	} else {
		r.Type = model.AclRuleIP
	}
	if dto.Action == "BLOCK" {
		r.Action = model.AclBlock
	} else {
		r.Action = model.AclAllow
	}
	return r, nil
}
