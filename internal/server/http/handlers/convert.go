package handlers

import (
	"github.com/polkiloo/orderdesk/internal/domain/model"
	"github.com/polkiloo/orderdesk/internal/server/http/dto"
)

func toOrderResponse(o model.Order) dto.OrderResponse {
	return dto.OrderResponse{
		ID:              o.ID,
		Number:          o.Number,
		ClientID:        o.ClientID,
		ClientName:      o.ClientName,
		ProductType:     string(o.ProductType),
		Description:     o.Description,
		Quantity:        o.Quantity,
		Unit:            o.Unit,
		UnitPrice:       o.UnitPrice,
		TotalPrice:      o.TotalPrice,
		Currency:        o.Currency,
		RequestedDate:   o.RequestedDate,
		DeliveryDate:    o.DeliveryDate,
		Reference:       o.Reference,
		Notes:           o.Notes,
		ArticleCode:     o.ArticleCode,
		Channel:         string(o.Channel),
		MessageID:       o.MessageID,
		Sender:          o.Sender,
		Subject:         o.Subject,
		Confidence:      o.Confidence,
		Status:          string(o.Status),
		RenewedFromID:   o.RenewedFromID,
		ValidatedBy:     o.ValidatedBy,
		ValidatedAt:     o.ValidatedAt,
		RejectionReason: o.RejectionReason,
		CreatedAt:       o.CreatedAt,
	}
}

func toClientResponse(c model.Client) dto.ClientResponse {
	ids := make([]dto.IdentityResponse, 0, len(c.Identities))
	for _, id := range c.Identities {
		ids = append(ids, dto.IdentityResponse{Kind: string(id.Kind), Value: id.Value})
	}
	return dto.ClientResponse{
		ID:          c.ID,
		Name:        c.Name,
		Placeholder: c.Placeholder,
		Address:     c.Address,
		Identities:  ids,
		CreatedAt:   c.CreatedAt,
	}
}
