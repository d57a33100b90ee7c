package repository

import (
	"context"
	"fmt"

	"github.com/uma-arai/lightbnb/internal/model"
)

type ReservationRepository interface {
	ListPastForGuest(ctx context.Context, guestID int64, limit int) ([]model.ReservationWithProperty, error)
}

type ReservationRepositoryImpl struct {
	db *DB
}

func NewReservationRepository(db *DB) *ReservationRepositoryImpl {
	return &ReservationRepositoryImpl{db: db}
}

// ListPastForGuest は、ゲストの過去の滞在を物件とレビュー平均付きで取得します
// end_date が当日より前の予約のみを対象とし、start_date の昇順で最大 limit 件を返します
func (r *ReservationRepositoryImpl) ListPastForGuest(ctx context.Context, guestID int64, limit int) ([]model.ReservationWithProperty, error) {
	ctx, done := r.db.beginSubsegment(ctx, "ReservationRepository.ListPastForGuest")

	query := `
		SELECT
			reservations.id,
			reservations.guest_id,
			reservations.property_id,
			reservations.start_date,
			reservations.end_date,` + propertyColumns + `,
			avg(property_reviews.rating) AS average_rating
		FROM reservations
		JOIN properties ON reservations.property_id = properties.id
		JOIN property_reviews ON properties.id = property_reviews.property_id
		WHERE reservations.guest_id = $1
		AND reservations.end_date < now()::date
		GROUP BY properties.id, reservations.id
		ORDER BY reservations.start_date ASC
		LIMIT $2
	`

	rows, err := r.db.QueryxContext(ctx, query, guestID, model.NormalizeLimit(limit))
	if err != nil {
		err = wrapError(fmt.Sprintf("list past reservations for guest %d", guestID), err)
		done(err)
		return nil, err
	}
	defer rows.Close()

	reservations := []model.ReservationWithProperty{}
	for rows.Next() {
		var rp model.ReservationWithProperty
		err := rows.Scan(
			&rp.Reservation.ID,
			&rp.Reservation.GuestID,
			&rp.Reservation.PropertyID,
			&rp.Reservation.StartDate,
			&rp.Reservation.EndDate,
			&rp.Property.ID,
			&rp.Property.OwnerID,
			&rp.Property.Title,
			&rp.Property.Description,
			&rp.Property.ThumbnailPhotoURL,
			&rp.Property.CoverPhotoURL,
			&rp.Property.CostPerNight,
			&rp.Property.Street,
			&rp.Property.City,
			&rp.Property.Province,
			&rp.Property.PostCode,
			&rp.Property.Country,
			&rp.Property.ParkingSpaces,
			&rp.Property.NumberOfBathrooms,
			&rp.Property.NumberOfBedrooms,
			&rp.AverageRating,
		)
		if err != nil {
			err = wrapError("scan reservation row", err)
			done(err)
			return nil, err
		}
		reservations = append(reservations, rp)
	}

	if err = rows.Err(); err != nil {
		err = wrapError("iterate reservation rows", err)
		done(err)
		return nil, err
	}

	done(nil)
	return reservations, nil
}
