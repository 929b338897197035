// Package domain carries the call event value the rating pipeline enriches.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Direction string

const (
	DirectionOutgoing Direction = "OUTGOING"
	DirectionIncoming Direction = "INCOMING"
)

// Telephony type ids follow the carrier numbering-plan catalog.
const (
	TypeUnknown       int64 = 0
	TypeInternal      int64 = 1
	TypeLocal         int64 = 2
	TypeNational      int64 = 3
	TypeCellular      int64 = 4
	TypeInternational int64 = 5
	TypeSpecial       int64 = 6
	TypeSatellite     int64 = 7
	TypeLocalExtended int64 = 8
	TypeCellularFixed int64 = 9
	TypeNoConsumption int64 = 10
	TypeErrors        int64 = 11
)

// IsExternalDestinationType reports whether a prefix of this type may resolve
// an external origin or destination. Internal, special-service and
// fixed-cellular prefixes are handled by dedicated resolvers.
func IsExternalDestinationType(typeID int64) bool {
	switch typeID {
	case TypeInternal, TypeSpecial, TypeCellularFixed:
		return false
	}
	return true
}

type AssignmentCause string

const (
	AssignmentNone           AssignmentCause = "none"
	AssignmentExtension      AssignmentCause = "extension"
	AssignmentAuthCode       AssignmentCause = "auth_code"
	AssignmentExtensionRange AssignmentCause = "extension_range"
	AssignmentTransfer       AssignmentCause = "transfer"
	AssignmentConference     AssignmentCause = "conference"
)

// LocationContext is the site the PBX event was captured at. Read-only for
// the duration of one rating call.
type LocationContext struct {
	SiteID          snowflake.ID
	IndicatorID     int64
	OriginCountryID int64
	PBXDirectory    string
	ExitPrefixes    []string
}

// CallEvent is one normalized PBX call. It is owned exclusively by the
// pipeline invocation processing it; stages enrich it in place.
type CallEvent struct {
	OriginatedAt time.Time
	Calling      string
	Called       string
	// OriginalCalled is snapshotted before any rewrite and never mutated.
	OriginalCalled  string
	DurationSeconds int
	RingSeconds     int
	Direction       Direction
	Internal        bool

	RedirectingNumber string
	TransferCause     string
	ConferenceLeg     bool

	OriginTrunk      string
	DestinationTrunk string
	AuthCode         string

	// Raised by upstream collaborators to force quarantine.
	MarkedForQuarantine bool
	QuarantineHint      string

	// Enrichment output, progressively overwritten by the pipeline.
	EffectiveDestination string
	TelephonyTypeID      int64
	OperatorID           int64
	IndicatorID          int64
	DestinationName      string
	BandID               snowflake.ID
	BandName             string

	UnitSeconds     int
	PricePerUnit    float64
	VATIncluded     bool
	VATPercent      float64
	BilledAmount    float64
	BilledUnits     int
	EmployeeID      snowflake.ID
	AssignmentCause AssignmentCause
}

// SnapshotOriginalCalled captures the dialed number once, before rewrites.
func (e *CallEvent) SnapshotOriginalCalled() {
	if e.OriginalCalled == "" {
		e.OriginalCalled = e.Called
	}
	if e.EffectiveDestination == "" {
		e.EffectiveDestination = e.Called
	}
}

// SwapParties flips the calling and called legs, including trunks. Used when
// an internal call recorded as incoming is re-entered as outgoing.
func (e *CallEvent) SwapParties() {
	e.Calling, e.Called = e.Called, e.Calling
	e.OriginTrunk, e.DestinationTrunk = e.DestinationTrunk, e.OriginTrunk
}

type DispositionStatus string

const (
	DispositionAccepted    DispositionStatus = "accepted"
	DispositionQuarantined DispositionStatus = "quarantined"
)

// Disposition is the single, final outcome for one event. A quarantined
// event never re-enters the pipeline.
type Disposition struct {
	Status DispositionStatus
	Event  *CallEvent

	// Populated when quarantined.
	Reason string
	Step   string
}

func Accepted(event *CallEvent) Disposition {
	return Disposition{Status: DispositionAccepted, Event: event}
}

func Quarantined(event *CallEvent, step, reason string) Disposition {
	return Disposition{
		Status: DispositionQuarantined,
		Event:  event,
		Reason: reason,
		Step:   step,
	}
}
