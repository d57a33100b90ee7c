package repository

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/uma-arai/lightbnb/internal/model"
)

// description は NULL を許容するため空文字に寄せます
const propertyColumns = `
			properties.id,
			properties.owner_id,
			properties.title,
			COALESCE(properties.description, '') AS description,
			properties.thumbnail_photo_url,
			properties.cover_photo_url,
			properties.cost_per_night,
			properties.street,
			properties.city,
			properties.province,
			properties.post_code,
			properties.country,
			properties.parking_spaces,
			properties.number_of_bathrooms,
			properties.number_of_bedrooms`

type PropertyRepository interface {
	List(ctx context.Context, filter model.PropertyFilter, limit int) ([]model.PropertyWithRating, error)
	Create(ctx context.Context, params model.CreatePropertyParams) (*model.Property, error)
}

type PropertyRepositoryImpl struct {
	db *DB
}

func NewPropertyRepository(db *DB) *PropertyRepositoryImpl {
	return &PropertyRepositoryImpl{db: db}
}

// List はレビュー平均付きの物件一覧を cost_per_night の昇順で返します
func (r *PropertyRepositoryImpl) List(ctx context.Context, filter model.PropertyFilter, limit int) ([]model.PropertyWithRating, error) {
	ctx, done := r.db.beginSubsegment(ctx, "PropertyRepository.List")

	query, args := buildPropertyListQuery(filter, limit)

	properties := []model.PropertyWithRating{}
	if err := r.db.SelectContext(ctx, &properties, query, args...); err != nil {
		err = wrapError("list properties", err)
		done(err)
		return nil, err
	}

	done(nil)
	return properties, nil
}

// buildPropertyListQuery はフィルタからSQLとバインド値を組み立てます
// 値はすべてプレースホルダ経由で渡し、SQL文字列には埋め込みません
func buildPropertyListQuery(filter model.PropertyFilter, limit int) (string, []interface{}) {
	var (
		b     strings.Builder
		where []string
		args  []interface{}
	)

	b.WriteString(`
		SELECT ` + propertyColumns + `,
			avg(property_reviews.rating) AS average_rating
		FROM properties
		JOIN property_reviews ON properties.id = property_reviews.property_id`)

	if filter.City != nil {
		where = append(where, `properties.city ILIKE ?`)
		args = append(args, "%"+*filter.City+"%")
	}
	if filter.OwnerID != nil {
		where = append(where, `properties.owner_id = ?`)
		args = append(args, *filter.OwnerID)
	}
	if cost, ok := filter.MinimumCost(); ok {
		where = append(where, `properties.cost_per_night >= ?`)
		args = append(args, cost)
	}
	if cost, ok := filter.MaximumCost(); ok {
		where = append(where, `properties.cost_per_night <= ?`)
		args = append(args, cost)
	}

	if len(where) > 0 {
		b.WriteString(`
		WHERE `)
		b.WriteString(strings.Join(where, `
		AND `))
	}

	b.WriteString(`
		GROUP BY properties.id`)

	// 平均評価は集計後に絞り込む
	if filter.MinimumRating != nil {
		b.WriteString(`
		HAVING avg(property_reviews.rating) >= ?`)
		args = append(args, *filter.MinimumRating)
	}

	b.WriteString(`
		ORDER BY properties.cost_per_night ASC, properties.id ASC
		LIMIT ?`)
	args = append(args, model.NormalizeLimit(limit))

	return sqlx.Rebind(sqlx.DOLLAR, b.String()), args
}

// Create は物件を作成し、採番されたIDを含む行を返します
// cost_per_night は受け取った値をそのまま保存します
func (r *PropertyRepositoryImpl) Create(ctx context.Context, params model.CreatePropertyParams) (*model.Property, error) {
	ctx, done := r.db.beginSubsegment(ctx, "PropertyRepository.Create")

	query := `
		INSERT INTO properties (
			owner_id,
			title,
			description,
			thumbnail_photo_url,
			cover_photo_url,
			cost_per_night,
			street,
			city,
			province,
			post_code,
			country,
			parking_spaces,
			number_of_bathrooms,
			number_of_bedrooms
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14
		)
		RETURNING ` + propertyColumns

	var property model.Property
	err := r.db.GetContext(ctx, &property, query,
		params.OwnerID,
		params.Title,
		params.Description,
		params.ThumbnailPhotoURL,
		params.CoverPhotoURL,
		params.CostPerNight,
		params.Street,
		params.City,
		params.Province,
		params.PostCode,
		params.Country,
		params.ParkingSpaces,
		params.NumberOfBathrooms,
		params.NumberOfBedrooms,
	)
	if err != nil {
		err = wrapError("create property", err)
		done(err)
		return nil, err
	}

	done(nil)
	return &property, nil
}
