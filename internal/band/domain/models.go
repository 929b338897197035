// Package domain contains indicator-band price overrides.
package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Band is a price override for calls from an origin indicator to a set of
// destination indicators under one prefix. OriginIndicatorID 0 scopes the
// band globally.
type Band struct {
	ID                snowflake.ID `gorm:"primaryKey"`
	Name              string       `gorm:"type:text;not null"`
	PrefixID          snowflake.ID `gorm:"not null;index"`
	OriginIndicatorID int64        `gorm:"not null;default:0"`
	Rate              float64      `gorm:"not null"`
	VATIncluded       bool         `gorm:"not null"`
	VATPercent        float64      `gorm:"not null"`
	Active            bool         `gorm:"not null;default:true"`
	CreatedAt         time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Band) TableName() string { return "bands" }

// BandIndicator links a band to one destination indicator.
type BandIndicator struct {
	ID          snowflake.ID `gorm:"primaryKey"`
	BandID      snowflake.ID `gorm:"not null;index"`
	IndicatorID int64        `gorm:"not null;index"`
}

func (BandIndicator) TableName() string { return "band_indicators" }

type Service interface {
	// FindOverride returns the band price for the prefix/indicator pair,
	// preferring an origin-scoped band over a global one, or nil.
	FindOverride(ctx context.Context, prefixID snowflake.ID, indicatorID, originIndicatorID int64) (*Band, error)
}

type Repository interface {
	FindForIndicator(ctx context.Context, prefixID snowflake.ID, indicatorID, originIndicatorID int64) (*Band, error)
}
