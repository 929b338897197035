package service

import (
	"context"
	"fmt"
	"time"

	calldomain "github.com/cdrmed/cdrmed/internal/callevent/domain"
	"github.com/cdrmed/cdrmed/internal/clock"
	"github.com/cdrmed/cdrmed/internal/config"
	quarantinedomain "github.com/cdrmed/cdrmed/internal/quarantine/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Service struct {
	log    *zap.Logger
	genID  *snowflake.Node
	repo   quarantinedomain.Repository
	params *config.RatingParamsHolder
	clock  clock.Clock
}

type ServiceParam struct {
	fx.In

	Log    *zap.Logger
	GenID  *snowflake.Node
	Repo   quarantinedomain.Repository
	Params *config.RatingParamsHolder
	Clock  clock.Clock
}

func NewService(p ServiceParam) quarantinedomain.Service {
	return &Service{
		log:    p.Log.Named("quarantine.service"),
		genID:  p.GenID,
		repo:   p.Repo,
		params: p.Params,
		clock:  p.Clock,
	}
}

// Validate runs all input checks; it never stops at the first failure so
// the operator sees every violated rule at once.
func (s *Service) Validate(event *calldomain.CallEvent) []string {
	params := s.params.Get()
	now := s.clock.Now()

	var messages []string

	if event.MarkedForQuarantine {
		hint := event.QuarantineHint
		if hint == "" {
			hint = "flagged by upstream collaborator"
		}
		messages = append(messages, hint)
	}

	if event.OriginatedAt.IsZero() {
		messages = append(messages, "missing origination timestamp")
	} else {
		if event.OriginatedAt.Before(params.MinCaptureTime()) {
			messages = append(messages, fmt.Sprintf("origination timestamp %s precedes allowed window", event.OriginatedAt.Format(time.RFC3339)))
		}
		if maxFuture := now.Add(time.Duration(params.MaxCaptureDelayDays) * 24 * time.Hour); event.OriginatedAt.After(maxFuture) {
			messages = append(messages, fmt.Sprintf("origination timestamp %s is too far in the future", event.OriginatedAt.Format(time.RFC3339)))
		}
	}

	if event.DurationSeconds < 0 {
		messages = append(messages, fmt.Sprintf("invalid duration %d", event.DurationSeconds))
	} else if event.DurationSeconds > params.MaxCallSeconds {
		messages = append(messages, fmt.Sprintf("duration %d exceeds maximum allowed call length %d", event.DurationSeconds, params.MaxCallSeconds))
	}

	return messages
}

func (s *Service) Save(ctx context.Context, event *calldomain.CallEvent, loc *calldomain.LocationContext, errorType, step, message string) error {
	record := &quarantinedomain.Record{
		ID:           s.genID.Generate(),
		ExternalRef:  uuid.New(),
		OriginatedAt: event.OriginatedAt,
		Calling:      event.Calling,
		Called:       event.OriginalCalled,
		ErrorType:    errorType,
		Step:         step,
		Message:      message,
		CreatedAt:    s.clock.Now(),
	}
	if loc != nil {
		record.SiteID = loc.SiteID
	}
	if record.Called == "" {
		record.Called = event.Called
	}

	if err := s.repo.Insert(ctx, record); err != nil {
		return err
	}
	s.log.Warn("call quarantined",
		zap.String("step", step),
		zap.String("error_type", errorType),
		zap.String("message", message),
	)
	return nil
}
