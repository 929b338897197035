package service

import (
	"context"
	"strings"

	calldomain "github.com/cdrmed/cdrmed/internal/callevent/domain"
	pbxruledomain "github.com/cdrmed/cdrmed/internal/pbxrule/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Service struct {
	log  *zap.Logger
	repo pbxruledomain.Repository
}

type ServiceParam struct {
	fx.In

	Log  *zap.Logger
	Repo pbxruledomain.Repository
}

func NewService(p ServiceParam) pbxruledomain.Service {
	return &Service{
		log:  p.Log.Named("pbxrule.service"),
		repo: p.Repo,
	}
}

// Apply walks the site's rules in priority order and rewrites the first
// match. Rules are not chained: one rewrite ends the walk.
func (s *Service) Apply(ctx context.Context, number string, loc *calldomain.LocationContext, direction pbxruledomain.RuleDirection) (string, error) {
	if number == "" || loc == nil {
		return number, nil
	}

	rules, err := s.repo.ListForSite(ctx, loc.SiteID)
	if err != nil {
		return "", err
	}

	for _, rule := range rules {
		if !rule.AppliesTo(direction) {
			continue
		}
		if len(number) < rule.MinLength {
			continue
		}
		if rule.Pattern == "" || !strings.HasPrefix(number, rule.Pattern) {
			continue
		}
		if matchesIgnore(number, rule.IgnorePatterns) {
			continue
		}
		return rule.Replacement + number[len(rule.Pattern):], nil
	}

	return number, nil
}

func matchesIgnore(number, ignorePatterns string) bool {
	if ignorePatterns == "" {
		return false
	}
	for _, pattern := range strings.Split(ignorePatterns, ",") {
		pattern = strings.TrimSpace(pattern)
		if pattern != "" && strings.HasPrefix(number, pattern) {
			return true
		}
	}
	return false
}
