// Package domain contains the carrier dialing-prefix catalog models.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Prefix is one carrier dialing code in the numbering plan.
type Prefix struct {
	ID               snowflake.ID `gorm:"primaryKey"`
	OriginCountryID  int64        `gorm:"not null;index"`
	Code             string       `gorm:"type:text;not null;index"`
	TelephonyTypeID  int64        `gorm:"not null"`
	OperatorID       int64        `gorm:"not null"`
	MinSubscriberLen int          `gorm:"not null"`
	MaxSubscriberLen int          `gorm:"not null"`
	BandEligible     bool         `gorm:"not null"`
	// 0 scopes the prefix globally, otherwise it only applies when the
	// call originates at a site with this indicator.
	OriginIndicatorID int64     `gorm:"not null;default:0"`
	Active            bool      `gorm:"not null;default:true"`
	CreatedAt         time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Prefix) TableName() string { return "carrier_prefixes" }

// Match is a prefix that literally heads a dialed number. Immutable value.
type Match struct {
	PrefixID          snowflake.ID
	Code              string
	TelephonyTypeID   int64
	OperatorID        int64
	MinSubscriberLen  int
	MaxSubscriberLen  int
	BandEligible      bool
	OriginIndicatorID int64
}
