package repository

import (
	"context"

	tariffdomain "github.com/cdrmed/cdrmed/internal/tariff/domain"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

func Provide(db *gorm.DB) tariffdomain.Repository {
	return &repo{db: db}
}

func (r *repo) FindBaseRate(ctx context.Context, originCountryID, telephonyTypeID, operatorID int64) (*tariffdomain.Rate, error) {
	var row tariffdomain.Rate
	err := r.db.WithContext(ctx).Raw(
		`SELECT id, origin_country_id, telephony_type_id, operator_id, rate,
		        vat_included, vat_percent, active
		 FROM telephony_rates
		 WHERE origin_country_id = ? AND telephony_type_id = ?
		   AND (operator_id = ? OR operator_id = 0) AND active = ?
		 ORDER BY CASE WHEN operator_id = 0 THEN 1 ELSE 0 END
		 LIMIT 1`,
		originCountryID, telephonyTypeID, operatorID, true,
	).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == 0 {
		return nil, nil
	}
	return &row, nil
}

func (r *repo) ListSpecialRates(ctx context.Context, telephonyTypeID, operatorID, originIndicatorID int64) ([]tariffdomain.SpecialRate, error) {
	var rows []tariffdomain.SpecialRate
	err := r.db.WithContext(ctx).Raw(
		`SELECT id, telephony_type_id, operator_id, origin_indicator_id,
		        kind, value, hour_from, hour_to, min_duration_seconds, active
		 FROM special_rates
		 WHERE telephony_type_id = ?
		   AND (operator_id = ? OR operator_id = 0)
		   AND (origin_indicator_id = ? OR origin_indicator_id = 0)
		   AND active = ?
		 ORDER BY CASE WHEN operator_id = 0 THEN 1 ELSE 0 END, id`,
		telephonyTypeID, operatorID, originIndicatorID, true,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
