package repository

import (
	"context"

	indicatordomain "github.com/cdrmed/cdrmed/internal/indicator/domain"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

func Provide(db *gorm.DB) indicatordomain.Repository {
	return &repo{db: db}
}

func (r *repo) NDCLenRange(ctx context.Context, originCountryID, telephonyTypeID int64) (int, int, error) {
	var row indicatordomain.TypeNDCLen
	err := r.db.WithContext(ctx).Raw(
		`SELECT id, origin_country_id, telephony_type_id, min_len, max_len
		 FROM telephony_type_ndc_lens
		 WHERE origin_country_id = ? AND telephony_type_id = ?`,
		originCountryID, telephonyTypeID,
	).Scan(&row).Error
	if err != nil {
		return 0, 0, err
	}
	if row.ID == 0 {
		return 0, 0, indicatordomain.ErrNoNDCLengths
	}
	return row.MinLen, row.MaxLen, nil
}

func (r *repo) ListSeries(ctx context.Context, originCountryID int64, ndc int) ([]indicatordomain.Series, error) {
	var rows []indicatordomain.Series
	err := r.db.WithContext(ctx).Raw(
		`SELECT id, origin_country_id, ndc, indicator_id, initial_number,
		        final_number, subscriber_len, active, created_at
		 FROM subscriber_series
		 WHERE origin_country_id = ? AND ndc = ? AND active = ?`,
		originCountryID, ndc, true,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repo) FindNDC(ctx context.Context, originCountryID, telephonyTypeID int64, ndc int) (*indicatordomain.NDC, error) {
	var row indicatordomain.NDC
	err := r.db.WithContext(ctx).Raw(
		`SELECT id, origin_country_id, telephony_type_id, code, default_indicator_id
		 FROM ndcs
		 WHERE origin_country_id = ? AND telephony_type_id = ? AND code = ?`,
		originCountryID, telephonyTypeID, ndc,
	).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == 0 {
		return nil, nil
	}
	return &row, nil
}

func (r *repo) IndicatorName(ctx context.Context, indicatorID int64) (string, error) {
	var name string
	err := r.db.WithContext(ctx).Raw(
		`SELECT name FROM indicators WHERE id = ?`, indicatorID,
	).Scan(&name).Error
	if err != nil {
		return "", err
	}
	return name, nil
}

func (r *repo) HasLocalExtendedLink(ctx context.Context, indicatorID, peerIndicatorID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Raw(
		`SELECT COUNT(1) FROM local_extended_links
		 WHERE indicator_id = ? AND peer_indicator_id = ?`,
		indicatorID, peerIndicatorID,
	).Scan(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
