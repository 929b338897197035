// Package domain contains the configured rate tables and the price value
// the layering engine produces.
package domain

import (
	"context"
	"time"

	calldomain "github.com/cdrmed/cdrmed/internal/callevent/domain"
	indicatordomain "github.com/cdrmed/cdrmed/internal/indicator/domain"
	prefixdomain "github.com/cdrmed/cdrmed/internal/prefix/domain"
	"github.com/bwmarrin/snowflake"
)

// Rate is the base per-minute price for a telephony type and operator.
type Rate struct {
	ID              snowflake.ID `gorm:"primaryKey"`
	OriginCountryID int64        `gorm:"not null;index"`
	TelephonyTypeID int64        `gorm:"not null;index"`
	OperatorID      int64        `gorm:"not null;default:0"`
	Rate            float64      `gorm:"not null"`
	VATIncluded     bool         `gorm:"not null"`
	VATPercent      float64      `gorm:"not null"`
	Active          bool         `gorm:"not null;default:true"`
}

func (Rate) TableName() string { return "telephony_rates" }

type ValueKind string

const (
	ValueFixed   ValueKind = "fixed"
	ValuePercent ValueKind = "percent"
)

// SpecialRate is a time- or volume-conditioned discount layered on top of
// the resolved per-minute price. OperatorID and OriginIndicatorID 0 apply
// to any; HourFrom == HourTo means all day.
type SpecialRate struct {
	ID                 snowflake.ID `gorm:"primaryKey"`
	TelephonyTypeID    int64        `gorm:"not null;index"`
	OperatorID         int64        `gorm:"not null;default:0"`
	OriginIndicatorID  int64        `gorm:"not null;default:0"`
	Kind               ValueKind    `gorm:"type:text;not null"`
	Value              float64      `gorm:"not null"`
	HourFrom           int          `gorm:"not null;default:0"`
	HourTo             int          `gorm:"not null;default:0"`
	MinDurationSeconds int          `gorm:"not null;default:0"`
	Active             bool         `gorm:"not null;default:true"`
}

func (SpecialRate) TableName() string { return "special_rates" }

// AppliesAt checks the rate's time and volume conditions.
func (r SpecialRate) AppliesAt(at time.Time, durationSeconds int) bool {
	if durationSeconds < r.MinDurationSeconds {
		return false
	}
	if r.HourFrom == r.HourTo {
		return true
	}
	h := at.Hour()
	if r.HourFrom < r.HourTo {
		return h >= r.HourFrom && h < r.HourTo
	}
	// Window crossing midnight.
	return h >= r.HourFrom || h < r.HourTo
}

// Value is one pricing decision. Immutable; a higher-priority layer
// replaces it with a fresh value rather than mutating it.
type Value struct {
	Rate        float64
	VATIncluded bool
	VATPercent  float64
}

// PriceRequest carries the classification outcome into the layering engine.
// Prefix and Destination are nil for internal calls.
type PriceRequest struct {
	Event       *calldomain.CallEvent
	Location    *calldomain.LocationContext
	Prefix      *prefixdomain.Match
	Destination *indicatordomain.Match
}

type Service interface {
	// Price resolves the layered price for the event's telephony type and
	// operator and writes the billed totals onto the event.
	Price(ctx context.Context, req PriceRequest) error

	// PriceFlat bills a single flat unit, used for special services.
	PriceFlat(ctx context.Context, event *calldomain.CallEvent, value Value) error
}

type Repository interface {
	FindBaseRate(ctx context.Context, originCountryID, telephonyTypeID, operatorID int64) (*Rate, error)
	ListSpecialRates(ctx context.Context, telephonyTypeID, operatorID, originIndicatorID int64) ([]SpecialRate, error)
}
