package repository

import (
	"context"

	ssdomain "github.com/cdrmed/cdrmed/internal/specialservice/domain"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

func Provide(db *gorm.DB) ssdomain.Repository {
	return &repo{db: db}
}

func (r *repo) FindByNumber(ctx context.Context, originCountryID, indicatorID int64, number string) (*ssdomain.SpecialService, error) {
	var row ssdomain.SpecialService
	err := r.db.WithContext(ctx).Raw(
		`SELECT id, origin_country_id, indicator_id, number, rate,
		        vat_included, vat_percent, description, active
		 FROM special_services
		 WHERE origin_country_id = ? AND number = ?
		   AND (indicator_id = ? OR indicator_id = 0) AND active = ?
		 ORDER BY CASE WHEN indicator_id = 0 THEN 1 ELSE 0 END
		 LIMIT 1`,
		originCountryID, number, indicatorID, true,
	).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == 0 {
		return nil, nil
	}
	return &row, nil
}
