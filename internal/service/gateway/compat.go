package gateway

import (
	"context"

	"github.com/uma-arai/lightbnb/internal/model"
)

// Compat は失敗を呼び出し元に返さない互換インターフェースです
// 失敗はGatewayがログに記録し、ここでは nil または空のスライスを返します
// 呼び出し元からは「該当なし」と「DBエラー」を区別できません
type Compat struct {
	gw *Gateway
}

func NewCompat(gw *Gateway) *Compat {
	return &Compat{gw: gw}
}

func (c *Compat) LookupUserByEmail(ctx context.Context, email string) *model.User {
	user, err := c.gw.LookupUserByEmail(ctx, email)
	if err != nil {
		return nil
	}
	return user
}

func (c *Compat) LookupUserByID(ctx context.Context, id int64) *model.User {
	user, err := c.gw.LookupUserByID(ctx, id)
	if err != nil {
		return nil
	}
	return user
}

func (c *Compat) CreateUser(ctx context.Context, params model.CreateUserParams) *model.User {
	user, err := c.gw.CreateUser(ctx, params)
	if err != nil {
		return nil
	}
	return user
}

func (c *Compat) ListReservationsForGuest(ctx context.Context, guestID int64, limit int) []model.ReservationWithProperty {
	reservations, err := c.gw.ListReservationsForGuest(ctx, guestID, limit)
	if err != nil {
		return []model.ReservationWithProperty{}
	}
	return reservations
}

func (c *Compat) ListProperties(ctx context.Context, filter model.PropertyFilter, limit int) []model.PropertyWithRating {
	properties, err := c.gw.ListProperties(ctx, filter, limit)
	if err != nil {
		return []model.PropertyWithRating{}
	}
	return properties
}

func (c *Compat) CreateProperty(ctx context.Context, params model.CreatePropertyParams) *model.Property {
	property, err := c.gw.CreateProperty(ctx, params)
	if err != nil {
		return nil
	}
	return property
}
