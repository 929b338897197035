// Package domain contains the numbering-plan models: indicators, NDCs and
// subscriber series.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Indicator is a geographic/billing region code (city or zone).
type Indicator struct {
	ID              int64  `gorm:"primaryKey"`
	OriginCountryID int64  `gorm:"not null;index"`
	Name            string `gorm:"type:text;not null"`
}

func (Indicator) TableName() string { return "indicators" }

// NDC is a registered national destination code for one telephony type.
// DefaultIndicatorID backs approximate matches when no subscriber series
// confirms the number.
type NDC struct {
	ID                 snowflake.ID `gorm:"primaryKey"`
	OriginCountryID    int64        `gorm:"not null;index"`
	TelephonyTypeID    int64        `gorm:"not null;index"`
	Code               int          `gorm:"not null"`
	DefaultIndicatorID int64        `gorm:"not null;default:0"`
}

func (NDC) TableName() string { return "ndcs" }

// Series is a numeric subscriber-number range registered under an NDC.
type Series struct {
	ID              snowflake.ID `gorm:"primaryKey"`
	OriginCountryID int64        `gorm:"not null;index"`
	NDC             int          `gorm:"not null;index"`
	IndicatorID     int64        `gorm:"not null"`
	InitialNumber   int64        `gorm:"not null"`
	FinalNumber     int64        `gorm:"not null"`
	// SubscriberLen is the digit width subscriber numbers are padded or
	// truncated to before the range check.
	SubscriberLen int       `gorm:"not null"`
	Active        bool      `gorm:"not null;default:true"`
	CreatedAt     time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Series) TableName() string { return "subscriber_series" }

// TypeNDCLen bounds the candidate NDC lengths for a telephony type.
type TypeNDCLen struct {
	ID              snowflake.ID `gorm:"primaryKey"`
	OriginCountryID int64        `gorm:"not null;index"`
	TelephonyTypeID int64        `gorm:"not null;index"`
	MinLen          int          `gorm:"not null"`
	MaxLen          int          `gorm:"not null"`
}

func (TypeNDCLen) TableName() string { return "telephony_type_ndc_lens" }

// LocalExtendedLink marks two indicators as adjacent for local-extended
// incoming classification.
type LocalExtendedLink struct {
	ID              snowflake.ID `gorm:"primaryKey"`
	IndicatorID     int64        `gorm:"not null;index"`
	PeerIndicatorID int64        `gorm:"not null"`
}

func (LocalExtendedLink) TableName() string { return "local_extended_links" }

// Match is a resolved destination or origin. Approximate means the region
// is known from the NDC alone while no subscriber series confirmed it.
type Match struct {
	IndicatorID   int64
	NDC           int
	Description   string
	Approximate   bool
	MatchedNumber string
}

// BetterThan orders candidates across prefix scans: exact beats
// approximate, then the longer matched NDC wins.
func (m Match) BetterThan(other *Match) bool {
	if other == nil {
		return true
	}
	if m.Approximate != other.Approximate {
		return !m.Approximate
	}
	return ndcLen(m.NDC) > ndcLen(other.NDC)
}

func ndcLen(ndc int) int {
	if ndc <= 0 {
		return 0
	}
	n := 0
	for v := ndc; v > 0; v /= 10 {
		n++
	}
	return n
}
