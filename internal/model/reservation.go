package model

import "time"

type Reservation struct {
	ID         int64     `db:"id" json:"id"`
	GuestID    int64     `db:"guest_id" json:"guest_id"`
	PropertyID int64     `db:"property_id" json:"property_id"`
	StartDate  time.Time `db:"start_date" json:"start_date"`
	EndDate    time.Time `db:"end_date" json:"end_date"`
}

// PropertyReview は平均評価の集計にのみ使われます
type PropertyReview struct {
	ID         int64   `db:"id" json:"id"`
	PropertyID int64   `db:"property_id" json:"property_id"`
	Rating     float64 `db:"rating" json:"rating"`
}

// ReservationWithProperty は過去の滞在1件分です
type ReservationWithProperty struct {
	Reservation   Reservation `json:"reservation"`
	Property      Property    `json:"property"`
	AverageRating float64     `json:"average_rating"`
}
