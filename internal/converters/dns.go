package converters

import (
	"time"

	"github.com/brightlane/uctl/internal/model"
	"github.com/brightlane/uctl/internal/restclient"
)

func DnsPolicyFromREST(dto restclient.DnsPolicyDTO, now time.Time) (model.DnsPolicy, error) {
	id, err := model.ParseUUIDEntityId(dto.ID)
	if err != nil {
		return model.DnsPolicy{}, err
	}
	return model.DnsPolicy{
		ID:        id,
		Type:      dnsPolicyType(dto.Type),
		Domain:    dto.Domain,
		Value:     dto.Value,
		TTL:       dto.TTL,
		Priority:  dto.Priority,
		Source:    model.SourceREST,
		UpdatedAt: now,
	}, nil
}

func dnsPolicyType(s string) model.DnsPolicyType {
	switch s {
	case "AAAA":
		return model.DnsAAAA
	case "CNAME":
		return model.DnsCNAME
	case "MX":
		return model.DnsMX
	case "TXT":
		return model.DnsTXT
	case "SRV":
		return model.DnsSRV
	case "FORWARD_DOMAIN":
		return model.DnsForwardDomain
	default:
		return model.DnsA
	}
}
