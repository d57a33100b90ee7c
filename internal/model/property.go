package model

import "math"

// DefaultListLimit は一覧取得で件数が指定されなかった場合の上限です
const DefaultListLimit = 10

// PriceScale converts a per-night price filter into cost_per_night units.
const PriceScale = 100

type Property struct {
	ID                int64  `db:"id" json:"id"`
	OwnerID           int64  `db:"owner_id" json:"owner_id"`
	Title             string `db:"title" json:"title"`
	Description       string `db:"description" json:"description"`
	ThumbnailPhotoURL string `db:"thumbnail_photo_url" json:"thumbnail_photo_url"`
	CoverPhotoURL     string `db:"cover_photo_url" json:"cover_photo_url"`
	CostPerNight      int64  `db:"cost_per_night" json:"cost_per_night"`
	Street            string `db:"street" json:"street"`
	City              string `db:"city" json:"city"`
	Province          string `db:"province" json:"province"`
	PostCode          string `db:"post_code" json:"post_code"`
	Country           string `db:"country" json:"country"`
	ParkingSpaces     int    `db:"parking_spaces" json:"parking_spaces"`
	NumberOfBathrooms int    `db:"number_of_bathrooms" json:"number_of_bathrooms"`
	NumberOfBedrooms  int    `db:"number_of_bedrooms" json:"number_of_bedrooms"`
}

// PropertyWithRating は物件とレビュー平均の組です
type PropertyWithRating struct {
	Property
	AverageRating float64 `db:"average_rating" json:"average_rating"`
}

// CreatePropertyParams は物件作成時の入力です
// CostPerNight は変換せずにそのまま保存されます
type CreatePropertyParams struct {
	OwnerID           int64  `db:"owner_id" json:"owner_id"`
	Title             string `db:"title" json:"title"`
	Description       string `db:"description" json:"description"`
	ThumbnailPhotoURL string `db:"thumbnail_photo_url" json:"thumbnail_photo_url"`
	CoverPhotoURL     string `db:"cover_photo_url" json:"cover_photo_url"`
	CostPerNight      int64  `db:"cost_per_night" json:"cost_per_night"`
	Street            string `db:"street" json:"street"`
	City              string `db:"city" json:"city"`
	Province          string `db:"province" json:"province"`
	PostCode          string `db:"post_code" json:"post_code"`
	Country           string `db:"country" json:"country"`
	ParkingSpaces     int    `db:"parking_spaces" json:"parking_spaces"`
	NumberOfBathrooms int    `db:"number_of_bathrooms" json:"number_of_bathrooms"`
	NumberOfBedrooms  int    `db:"number_of_bedrooms" json:"number_of_bedrooms"`
}

// PropertyFilter は物件一覧の絞り込み条件です
// nil の項目は条件に含めず、指定された項目はすべてANDで結合します
//
// 価格の上下限は1泊あたりの金額で受け取り、PriceScale倍して cost_per_night と比較します。
// CreatePropertyParams.CostPerNight は変換せずに保存されるため、単位が一致しない点に注意してください。
type PropertyFilter struct {
	City                 *string  `json:"city,omitempty"`
	OwnerID              *int64   `json:"owner_id,omitempty"`
	MinimumPricePerNight *float64 `json:"minimum_price_per_night,omitempty"`
	MaximumPricePerNight *float64 `json:"maximum_price_per_night,omitempty"`
	MinimumRating        *float64 `json:"minimum_rating,omitempty"`
}

// MinimumCost returns the lower cost_per_night bound, if any.
func (f PropertyFilter) MinimumCost() (int64, bool) {
	if f.MinimumPricePerNight == nil {
		return 0, false
	}
	return toCost(*f.MinimumPricePerNight), true
}

// MaximumCost returns the upper cost_per_night bound, if any.
func (f PropertyFilter) MaximumCost() (int64, bool) {
	if f.MaximumPricePerNight == nil {
		return 0, false
	}
	return toCost(*f.MaximumPricePerNight), true
}

// 小数の価格はセント単位に丸める
func toCost(price float64) int64 {
	return int64(math.Round(price * PriceScale))
}

// NormalizeLimit は0以下の件数をデフォルト値に置き換えます
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return limit
}
