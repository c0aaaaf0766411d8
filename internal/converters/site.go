package converters

import (
	"github.com/brightlane/uctl/internal/model"
	"github.com/brightlane/uctl/internal/restclient"
)

func SiteFromREST(dto restclient.SiteDTO) (model.Site, error) {
	id, err := model.ParseUUIDEntityId(dto.ID)
	if err != nil {
		return model.Site{}, err
	}
	return model.Site{
		ID:           id,
		InternalName: dto.InternalReference,
		Name:         dto.Name,
		DeviceCount:  dto.DeviceCount,
		ClientCount:  dto.ClientCount,
		Source:       model.SourceREST,
	}, nil
}

func TrafficMatchingListFromREST(dto restclient.TrafficMatchingListDTO) (model.TrafficMatchingList, error) {
	id, err := model.ParseUUIDEntityId(dto.ID)
	if err != nil {
		return model.TrafficMatchingList{}, err
	}
	return model.TrafficMatchingList{
		ID:      id,
		Name:    dto.Name,
		Domains: dto.Domains,
		IPs:     dto.IPs,
		Source:  model.SourceREST,
	}, nil
}
