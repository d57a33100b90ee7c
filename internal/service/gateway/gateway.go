package gateway

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"github.com/uma-arai/lightbnb/internal/common/database"
	"github.com/uma-arai/lightbnb/internal/model"
	"github.com/uma-arai/lightbnb/internal/repository"
)

// Gateway はアプリケーションからのデータアクセスをすべて仲介します
// 失敗はログに記録したうえで呼び出し元に返します
type Gateway struct {
	users        repository.UserRepository
	properties   repository.PropertyRepository
	reservations repository.ReservationRepository
	log          zerolog.Logger
}

// New builds a Gateway backed by the shared pool.
func New(db *database.DB, log zerolog.Logger) *Gateway {
	repoDB := repository.NewDB(db.DB, log)

	return NewWithRepositories(
		repository.NewUserRepository(repoDB),
		repository.NewPropertyRepository(repoDB),
		repository.NewReservationRepository(repoDB),
		log,
	)
}

// NewWithRepositories はリポジトリを差し替えてGatewayを作成します
func NewWithRepositories(
	users repository.UserRepository,
	properties repository.PropertyRepository,
	reservations repository.ReservationRepository,
	log zerolog.Logger,
) *Gateway {
	return &Gateway{
		users:        users,
		properties:   properties,
		reservations: reservations,
		log:          log.With().Str("component", "gateway").Logger(),
	}
}

func (g *Gateway) LookupUserByEmail(ctx context.Context, email string) (*model.User, error) {
	user, err := g.users.GetByEmail(ctx, email)
	if err != nil {
		g.logError(err, "lookupUserByEmail")
		return nil, err
	}
	return user, nil
}

func (g *Gateway) LookupUserByID(ctx context.Context, id int64) (*model.User, error) {
	user, err := g.users.GetByID(ctx, id)
	if err != nil {
		g.logError(err, "lookupUserById")
		return nil, err
	}
	return user, nil
}

func (g *Gateway) CreateUser(ctx context.Context, params model.CreateUserParams) (*model.User, error) {
	user, err := g.users.Create(ctx, params)
	if err != nil {
		g.logError(err, "createUser")
		return nil, err
	}
	return user, nil
}

// ListReservationsForGuest returns the guest's past stays, oldest first.
func (g *Gateway) ListReservationsForGuest(ctx context.Context, guestID int64, limit int) ([]model.ReservationWithProperty, error) {
	reservations, err := g.reservations.ListPastForGuest(ctx, guestID, limit)
	if err != nil {
		g.logError(err, "listReservationsForGuest")
		return nil, err
	}
	return reservations, nil
}

// ListProperties returns rated properties matching filter, cheapest first.
func (g *Gateway) ListProperties(ctx context.Context, filter model.PropertyFilter, limit int) ([]model.PropertyWithRating, error) {
	properties, err := g.properties.List(ctx, filter, limit)
	if err != nil {
		g.logError(err, "listProperties")
		return nil, err
	}
	return properties, nil
}

func (g *Gateway) CreateProperty(ctx context.Context, params model.CreatePropertyParams) (*model.Property, error) {
	property, err := g.properties.Create(ctx, params)
	if err != nil {
		g.logError(err, "createProperty")
		return nil, err
	}
	return property, nil
}

// logError は0件をdebug、それ以外をerrorとして記録します
func (g *Gateway) logError(err error, op string) {
	if errors.Is(err, repository.ErrNotFound) {
		g.log.Debug().Str("op", op).Msg("no matching record")
		return
	}
	g.log.Error().
		Err(err).
		Str("op", op).
		Str("kind", repository.KindOf(err).String()).
		Msg("query failed")
}
