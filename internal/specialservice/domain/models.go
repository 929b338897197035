// Package domain contains flat-rated special-service numbers (emergency,
// directory, carrier short codes).
package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type SpecialService struct {
	ID              snowflake.ID `gorm:"primaryKey"`
	OriginCountryID int64        `gorm:"not null;index"`
	// 0 applies country-wide, otherwise only for sites with this indicator.
	IndicatorID int64   `gorm:"not null;default:0"`
	Number      string  `gorm:"type:text;not null;index"`
	Rate        float64 `gorm:"not null"`
	VATIncluded bool    `gorm:"not null"`
	VATPercent  float64 `gorm:"not null"`
	Description string  `gorm:"type:text"`
	Active      bool    `gorm:"not null;default:true"`
}

func (SpecialService) TableName() string { return "special_services" }

type Service interface {
	// Resolve returns the flat-rate entry for an exactly dialed special
	// number, preferring an indicator-scoped row, or nil.
	Resolve(ctx context.Context, number string, originCountryID, indicatorID int64) (*SpecialService, error)
}

type Repository interface {
	FindByNumber(ctx context.Context, originCountryID, indicatorID int64, number string) (*SpecialService, error)
}
