// Package domain contains the quarantine record and validation contract.
package domain

import (
	"context"
	"time"

	calldomain "github.com/cdrmed/cdrmed/internal/callevent/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
)

// Processing step identifiers recorded with each quarantine entry.
const (
	StepValidation     = "validation"
	StepClassification = "classification"
	StepPricing        = "pricing"
	StepAssignment     = "assignment"
	StepPersistence    = "persistence"
)

// Error type codes on quarantine records.
const (
	ErrorTypeInputInvalid  = "input_invalid"
	ErrorTypeLookupFailure = "lookup_failure"
	ErrorTypeUpstreamFlag  = "upstream_flag"
)

// Record is one quarantined call. It never re-enters the pipeline; a
// corrected event must be resubmitted as new input.
type Record struct {
	ID           snowflake.ID `gorm:"primaryKey"`
	ExternalRef  uuid.UUID    `gorm:"type:text;not null;uniqueIndex"`
	SiteID       snowflake.ID `gorm:"not null;index"`
	OriginatedAt time.Time    `gorm:""`
	Calling      string       `gorm:"type:text"`
	Called       string       `gorm:"type:text"`
	ErrorType    string       `gorm:"type:text;not null"`
	Step         string       `gorm:"type:text;not null"`
	Message      string       `gorm:"type:text;not null"`
	CreatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Record) TableName() string { return "quarantine_records" }

type Service interface {
	// Validate runs every input check and returns the concatenated
	// failure messages; an empty slice means the event may be rated.
	Validate(event *calldomain.CallEvent) []string

	// Save persists a quarantine disposition.
	Save(ctx context.Context, event *calldomain.CallEvent, loc *calldomain.LocationContext, errorType, step, message string) error
}

type Repository interface {
	Insert(ctx context.Context, record *Record) error
}
