package repository

import (
	"context"

	banddomain "github.com/cdrmed/cdrmed/internal/band/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

func Provide(db *gorm.DB) banddomain.Repository {
	return &repo{db: db}
}

func (r *repo) FindForIndicator(ctx context.Context, prefixID snowflake.ID, indicatorID, originIndicatorID int64) (*banddomain.Band, error) {
	var row banddomain.Band
	err := r.db.WithContext(ctx).Raw(
		`SELECT b.id, b.name, b.prefix_id, b.origin_indicator_id, b.rate,
		        b.vat_included, b.vat_percent, b.active, b.created_at
		 FROM bands b
		 JOIN band_indicators bi ON bi.band_id = b.id
		 WHERE b.prefix_id = ? AND bi.indicator_id = ?
		   AND b.origin_indicator_id = ? AND b.active = ?
		 ORDER BY b.id
		 LIMIT 1`,
		prefixID, indicatorID, originIndicatorID, true,
	).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == 0 {
		return nil, nil
	}
	return &row, nil
}
