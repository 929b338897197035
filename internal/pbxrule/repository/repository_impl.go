package repository

import (
	"context"

	pbxruledomain "github.com/cdrmed/cdrmed/internal/pbxrule/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

func Provide(db *gorm.DB) pbxruledomain.Repository {
	return &repo{db: db}
}

func (r *repo) ListForSite(ctx context.Context, siteID snowflake.ID) ([]pbxruledomain.Rule, error) {
	var rows []pbxruledomain.Rule
	err := r.db.WithContext(ctx).Raw(
		`SELECT id, site_id, direction, pattern, ignore_patterns, replacement,
		        min_length, active, created_at
		 FROM pbx_rules
		 WHERE (site_id = ? OR site_id = 0) AND active = ?
		 ORDER BY CASE WHEN site_id = 0 THEN 1 ELSE 0 END, LENGTH(pattern) DESC`,
		siteID, true,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
