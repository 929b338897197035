// Package domain contains trunk-scoped rate overrides and carrier
// renumbering transforms.
package domain

import (
	"context"
	"strconv"
	"strings"

	"github.com/bwmarrin/snowflake"
)

// TrunkRate overrides the price resolved for calls carried on one trunk.
// OperatorID 0 is the generic row; an operator-specific row wins over it.
// A non-zero New* field also overrides the corresponding lookup value for
// the remaining pricing layers.
type TrunkRate struct {
	ID              snowflake.ID `gorm:"primaryKey"`
	TrunkName       string       `gorm:"type:text;not null;index"`
	TelephonyTypeID int64        `gorm:"not null"`
	OperatorID      int64        `gorm:"not null;default:0"`
	Rate            float64      `gorm:"not null"`
	VATIncluded     bool         `gorm:"not null"`
	VATPercent      float64      `gorm:"not null"`
	// Billing unit in seconds; 0 keeps per-minute billing.
	UnitSeconds int `gorm:"not null;default:0"`

	NewTelephonyTypeID   int64 `gorm:"not null;default:0"`
	NewOperatorID        int64 `gorm:"not null;default:0"`
	NewOriginIndicatorID int64 `gorm:"not null;default:0"`

	// Comma-separated destination indicator ids this rate is restricted
	// to; empty applies to all destinations.
	IndicatorIDs string `gorm:"type:text"`
	Active       bool   `gorm:"not null;default:true"`
}

func (TrunkRate) TableName() string { return "trunk_rates" }

// CoversIndicator checks the indicator restriction by exact tokenized
// membership. The legacy substring behavior ("12" matching inside "123")
// was a defect, not a contract.
func (t TrunkRate) CoversIndicator(indicatorID int64) bool {
	list := strings.TrimSpace(t.IndicatorIDs)
	if list == "" {
		return true
	}
	want := strconv.FormatInt(indicatorID, 10)
	for _, token := range strings.Split(list, ",") {
		if strings.TrimSpace(token) == want {
			return true
		}
	}
	return false
}

// NumberTransform renumbers caller ids delivered on a trunk before origin
// resolution. A transform may hint the telephony type of the caller.
type NumberTransform struct {
	ID                  snowflake.ID `gorm:"primaryKey"`
	TrunkName           string       `gorm:"type:text;not null;index"`
	MatchPrefix         string       `gorm:"type:text;not null"`
	Replacement         string       `gorm:"type:text"`
	HintTelephonyTypeID int64        `gorm:"not null;default:0"`
	Active              bool         `gorm:"not null;default:true"`
}

func (NumberTransform) TableName() string { return "trunk_number_transforms" }

type Service interface {
	// FindRate returns the trunk override for the resolved type/operator
	// and destination indicator, or nil when the trunk has none.
	FindRate(ctx context.Context, trunkName string, telephonyTypeID, operatorID, indicatorID int64) (*TrunkRate, error)

	// ApplyTransforms renumbers an incoming caller id and reports any
	// telephony-type hint from the matched transform.
	ApplyTransforms(ctx context.Context, trunkName, number string) (string, int64, error)
}

type Repository interface {
	ListRates(ctx context.Context, trunkName string, telephonyTypeID int64) ([]TrunkRate, error)
	ListTransforms(ctx context.Context, trunkName string) ([]NumberTransform, error)
}
