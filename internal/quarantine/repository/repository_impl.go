package repository

import (
	"context"

	quarantinedomain "github.com/cdrmed/cdrmed/internal/quarantine/domain"
	"gorm.io/gorm"
)

type repo struct {
	db *gorm.DB
}

func Provide(db *gorm.DB) quarantinedomain.Repository {
	return &repo{db: db}
}

func (r *repo) Insert(ctx context.Context, record *quarantinedomain.Record) error {
	return r.db.WithContext(ctx).Create(record).Error
}
