package repository

import (
	"context"

	prefixdomain "github.com/cdrmed/cdrmed/internal/prefix/domain"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

func Provide(db *gorm.DB) prefixdomain.Repository {
	return &repo{db: db}
}

func (r *repo) ListByCountry(ctx context.Context, originCountryID int64) ([]prefixdomain.Prefix, error) {
	var rows []prefixdomain.Prefix
	err := r.db.WithContext(ctx).Raw(
		`SELECT id, origin_country_id, code, telephony_type_id, operator_id,
		        min_subscriber_len, max_subscriber_len, band_eligible,
		        origin_indicator_id, active, created_at
		 FROM carrier_prefixes
		 WHERE origin_country_id = ? AND active = ?`,
		originCountryID, true,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
