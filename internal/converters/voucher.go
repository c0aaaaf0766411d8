package converters

import (
	"time"

	"github.com/brightlane/uctl/internal/model"
	"github.com/brightlane/uctl/internal/restclient"
)

func VoucherFromREST(dto restclient.VoucherDTO, now time.Time) (model.Voucher, error) {
	id, err := model.ParseUUIDEntityId(dto.ID)
	if err != nil {
		return model.Voucher{}, err
	}
	v := model.Voucher{
		ID:   id,
		Code: dto.Code,
		Name: dto.Name,
		Limits: model.VoucherLimits{
			TimeMinutes: dto.TimeLimitMinutes,
			DataMB:      dto.DataLimitMB,
			RateKbps:    dto.RateLimitKbps,
			Guests:      dto.GuestLimit,
		},
		Source:    model.SourceREST,
		UpdatedAt: now,
	}
	if t, err := time.Parse(time.RFC3339, dto.CreatedAt); err == nil {
		v.CreatedAt = t
	}
	if dto.ExpiresAt != nil {
		if t, err := time.Parse(time.RFC3339, *dto.ExpiresAt); err == nil {
			v.ExpiresAt = &t
		}
	}
	return v, nil
}
