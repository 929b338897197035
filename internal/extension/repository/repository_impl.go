package repository

import (
	"context"

	extensiondomain "github.com/cdrmed/cdrmed/internal/extension/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

func Provide(db *gorm.DB) extensiondomain.Repository {
	return &repo{db: db}
}

func (r *repo) FindExtension(ctx context.Context, siteID snowflake.ID, number string) (*extensiondomain.Extension, error) {
	var row extensiondomain.Extension
	err := r.db.WithContext(ctx).Raw(
		`SELECT id, site_id, number, employee_id, active
		 FROM extensions
		 WHERE site_id = ? AND number = ? AND active = ?`,
		siteID, number, true,
	).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == 0 {
		return nil, nil
	}
	return &row, nil
}

func (r *repo) FindAuthCode(ctx context.Context, siteID snowflake.ID, code string) (*extensiondomain.AuthCode, error) {
	var row extensiondomain.AuthCode
	err := r.db.WithContext(ctx).Raw(
		`SELECT id, site_id, code, employee_id, active
		 FROM auth_codes
		 WHERE site_id = ? AND code = ? AND active = ?`,
		siteID, code, true,
	).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == 0 {
		return nil, nil
	}
	return &row, nil
}

func (r *repo) ListRangesContaining(ctx context.Context, siteID snowflake.ID, value int64) ([]extensiondomain.ExtensionRange, error) {
	var rows []extensiondomain.ExtensionRange
	err := r.db.WithContext(ctx).Raw(
		`SELECT id, site_id, range_start, range_end, employee_id, active, created_at
		 FROM extension_ranges
		 WHERE site_id = ? AND range_start <= ? AND range_end >= ? AND active = ?`,
		siteID, value, value, true,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repo) AnyRangeContaining(ctx context.Context, value int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Raw(
		`SELECT COUNT(1) FROM extension_ranges
		 WHERE range_start <= ? AND range_end >= ? AND active = ?`,
		value, value, true,
	).Scan(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
