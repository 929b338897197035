// Package domain contains extension, authorization-code and range models
// used to attribute a call to an employee.
package domain

import (
	"context"
	"time"

	calldomain "github.com/cdrmed/cdrmed/internal/callevent/domain"
	"github.com/bwmarrin/snowflake"
)

type Employee struct {
	ID     snowflake.ID `gorm:"primaryKey"`
	SiteID snowflake.ID `gorm:"not null;index"`
	Name   string       `gorm:"type:text;not null"`
	Active bool         `gorm:"not null;default:true"`
}

func (Employee) TableName() string { return "employees" }

type Extension struct {
	ID         snowflake.ID `gorm:"primaryKey"`
	SiteID     snowflake.ID `gorm:"not null;index"`
	Number     string       `gorm:"type:text;not null;index"`
	EmployeeID snowflake.ID `gorm:"not null"`
	Active     bool         `gorm:"not null;default:true"`
}

func (Extension) TableName() string { return "extensions" }

type AuthCode struct {
	ID         snowflake.ID `gorm:"primaryKey"`
	SiteID     snowflake.ID `gorm:"not null;index"`
	Code       string       `gorm:"type:text;not null;index"`
	EmployeeID snowflake.ID `gorm:"not null"`
	Active     bool         `gorm:"not null;default:true"`
}

func (AuthCode) TableName() string { return "auth_codes" }

// ExtensionRange assigns a numeric block of extensions to one employee
// (typically a shared department line).
type ExtensionRange struct {
	ID          snowflake.ID `gorm:"primaryKey"`
	SiteID      snowflake.ID `gorm:"not null;index"`
	RangeStart  int64        `gorm:"not null"`
	RangeEnd    int64        `gorm:"not null"`
	EmployeeID  snowflake.ID `gorm:"not null"`
	Active      bool         `gorm:"not null;default:true"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (ExtensionRange) TableName() string { return "extension_ranges" }

func (r ExtensionRange) Width() int64 { return r.RangeEnd - r.RangeStart + 1 }

// Assignment is the outcome of party resolution. Exactly one cause is
// recorded even when several resolvers could match.
type Assignment struct {
	EmployeeID snowflake.ID
	Cause      calldomain.AssignmentCause
}

type Service interface {
	// Assign resolves the employee a call belongs to, in fixed priority:
	// auth code, own extension, redirecting extension on transfer, range.
	Assign(ctx context.Context, event *calldomain.CallEvent, loc *calldomain.LocationContext, ignoredAuthCode func(string) bool) (Assignment, error)

	// InAnyRange reports whether the number falls in an active extension
	// range of any site. Used by the internality heuristic.
	InAnyRange(ctx context.Context, number string) (bool, error)
}

type Repository interface {
	FindExtension(ctx context.Context, siteID snowflake.ID, number string) (*Extension, error)
	FindAuthCode(ctx context.Context, siteID snowflake.ID, code string) (*AuthCode, error)
	ListRangesContaining(ctx context.Context, siteID snowflake.ID, value int64) ([]ExtensionRange, error)
	AnyRangeContaining(ctx context.Context, value int64) (bool, error)
}
