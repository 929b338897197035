// Package domain contains the persisted shape of a fully priced call.
package domain

import (
	"context"
	"time"

	calldomain "github.com/cdrmed/cdrmed/internal/callevent/domain"
	"github.com/bwmarrin/snowflake"
)

// CallRecord is the accepted output of one rated event. Checksum covers
// the identifying input fields so the store drops duplicate submissions.
type CallRecord struct {
	ID           snowflake.ID `gorm:"primaryKey"`
	SiteID       snowflake.ID `gorm:"not null;index"`
	OriginatedAt time.Time    `gorm:"not null"`
	Calling      string       `gorm:"type:text;not null"`
	Called       string       `gorm:"type:text;not null"`
	// Dialed number before any rewrite.
	OriginalCalled       string `gorm:"type:text"`
	EffectiveDestination string `gorm:"type:text"`
	DurationSeconds      int    `gorm:"not null"`
	RingSeconds          int    `gorm:"not null;default:0"`
	Direction            string `gorm:"type:text;not null"`
	Internal             bool   `gorm:"not null"`
	OriginTrunk          string `gorm:"type:text"`
	DestinationTrunk     string `gorm:"type:text"`

	TelephonyTypeID int64        `gorm:"not null"`
	OperatorID      int64        `gorm:"not null"`
	IndicatorID     int64        `gorm:"not null;default:0"`
	DestinationName string       `gorm:"type:text"`
	BandID          snowflake.ID `gorm:"not null;default:0"`
	BandName        string       `gorm:"type:text"`

	UnitSeconds  int     `gorm:"not null"`
	PricePerUnit float64 `gorm:"not null"`
	VATIncluded  bool    `gorm:"not null"`
	VATPercent   float64 `gorm:"not null"`
	BilledUnits  int     `gorm:"not null"`
	BilledAmount float64 `gorm:"not null"`

	EmployeeID      snowflake.ID `gorm:"not null;default:0"`
	AssignmentCause string       `gorm:"type:text;not null"`
	TransferCause   string       `gorm:"type:text"`
	ConferenceLeg   bool         `gorm:"not null;default:false"`

	Checksum  string    `gorm:"type:text;not null;uniqueIndex"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (CallRecord) TableName() string { return "call_records" }

type Repository interface {
	// Insert stores the record, silently dropping checksum duplicates.
	Insert(ctx context.Context, record *CallRecord) error
}

// FromEvent maps a priced event onto its persisted shape. The checksum is
// left to the repository.
func FromEvent(event *calldomain.CallEvent, loc *calldomain.LocationContext) *CallRecord {
	record := &CallRecord{
		OriginatedAt:         event.OriginatedAt,
		Calling:              event.Calling,
		Called:               event.Called,
		OriginalCalled:       event.OriginalCalled,
		EffectiveDestination: event.EffectiveDestination,
		DurationSeconds:      event.DurationSeconds,
		RingSeconds:          event.RingSeconds,
		Direction:            string(event.Direction),
		Internal:             event.Internal,
		OriginTrunk:          event.OriginTrunk,
		DestinationTrunk:     event.DestinationTrunk,
		TelephonyTypeID:      event.TelephonyTypeID,
		OperatorID:           event.OperatorID,
		IndicatorID:          event.IndicatorID,
		DestinationName:      event.DestinationName,
		BandID:               event.BandID,
		BandName:             event.BandName,
		UnitSeconds:          event.UnitSeconds,
		PricePerUnit:         event.PricePerUnit,
		VATIncluded:          event.VATIncluded,
		VATPercent:           event.VATPercent,
		BilledUnits:          event.BilledUnits,
		BilledAmount:         event.BilledAmount,
		EmployeeID:           event.EmployeeID,
		AssignmentCause:      string(event.AssignmentCause),
		TransferCause:        event.TransferCause,
		ConferenceLeg:        event.ConferenceLeg,
	}
	if loc != nil {
		record.SiteID = loc.SiteID
	}
	return record
}
