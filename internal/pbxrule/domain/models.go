// Package domain contains site-configured number rewrite rules.
package domain

import (
	"context"
	"time"

	calldomain "github.com/cdrmed/cdrmed/internal/callevent/domain"
	"github.com/bwmarrin/snowflake"
)

type RuleDirection string

const (
	RuleIncoming RuleDirection = "IN"
	RuleOutgoing RuleDirection = "OUT"
	RuleInternal RuleDirection = "INTERNAL"
	RuleBoth     RuleDirection = "BOTH"
)

// Rule rewrites the leading segment of a dialed or calling number.
// SiteID 0 scopes the rule globally.
type Rule struct {
	ID        snowflake.ID  `gorm:"primaryKey"`
	SiteID    snowflake.ID  `gorm:"not null;default:0;index"`
	Direction RuleDirection `gorm:"type:text;not null"`
	Pattern   string        `gorm:"type:text;not null"`
	// Comma-separated leading patterns that exempt a number from this rule.
	IgnorePatterns string    `gorm:"type:text"`
	Replacement    string    `gorm:"type:text"`
	MinLength      int       `gorm:"not null"`
	Active         bool      `gorm:"not null;default:true"`
	CreatedAt      time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Rule) TableName() string { return "pbx_rules" }

// AppliesTo reports whether the rule's direction covers the call being
// rewritten. The INTERNAL pseudo-direction is matched explicitly by the
// internality heuristic, never by call direction.
func (r Rule) AppliesTo(direction RuleDirection) bool {
	if r.Direction == RuleBoth && direction != RuleInternal {
		return true
	}
	return r.Direction == direction
}

// DirectionOf maps a call direction to the rule direction it selects.
func DirectionOf(d calldomain.Direction) RuleDirection {
	if d == calldomain.DirectionIncoming {
		return RuleIncoming
	}
	return RuleOutgoing
}

type Service interface {
	// Apply rewrites number through the first matching rule for the site,
	// returning it unchanged when no rule matches.
	Apply(ctx context.Context, number string, loc *calldomain.LocationContext, direction RuleDirection) (string, error)
}

type Repository interface {
	// ListForSite returns active rules for the site plus global rules,
	// site-scoped first, then by descending pattern length.
	ListForSite(ctx context.Context, siteID snowflake.ID) ([]Rule, error)
}
