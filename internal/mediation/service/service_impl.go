package service

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"

	calldomain "github.com/cdrmed/cdrmed/internal/callevent/domain"
	callrecorddomain "github.com/cdrmed/cdrmed/internal/callrecord/domain"
	classifierdomain "github.com/cdrmed/cdrmed/internal/classifier/domain"
	"github.com/cdrmed/cdrmed/internal/clock"
	mediationdomain "github.com/cdrmed/cdrmed/internal/mediation/domain"
	"github.com/cdrmed/cdrmed/internal/observability/metrics"
	quarantinedomain "github.com/cdrmed/cdrmed/internal/quarantine/domain"
	"github.com/cdrmed/cdrmed/pkg/db"
)

var ErrMissingLocation = errors.New("missing_location_context")

type Service struct {
	log        *zap.Logger
	genID      *snowflake.Node
	classifier classifierdomain.Service
	records    callrecorddomain.Repository
	quarantine quarantinedomain.Service
	metrics    *metrics.Metrics
	clock      clock.Clock
}

type ServiceParam struct {
	fx.In

	Log        *zap.Logger
	GenID      *snowflake.Node
	Classifier classifierdomain.Service
	Records    callrecorddomain.Repository
	Quarantine quarantinedomain.Service
	Metrics    *metrics.Metrics `optional:"true"`
	Clock      clock.Clock
}

func NewService(p ServiceParam) mediationdomain.Service {
	return &Service{
		log:        p.Log.Named("mediation.service"),
		genID:      p.GenID,
		classifier: p.Classifier,
		records:    p.Records,
		quarantine: p.Quarantine,
		metrics:    p.Metrics,
		clock:      p.Clock,
	}
}

func (s *Service) Process(ctx context.Context, event *calldomain.CallEvent, loc *calldomain.LocationContext) (calldomain.Disposition, error) {
	if loc == nil {
		return calldomain.Disposition{}, ErrMissingLocation
	}

	started := s.clock.Now()
	disposition := s.classifier.Rate(ctx, event, loc)
	s.observe(ctx, disposition, started)

	switch disposition.Status {
	case calldomain.DispositionAccepted:
		record := callrecorddomain.FromEvent(event, loc)
		record.ID = s.genID.Generate()
		if err := s.records.Insert(ctx, record); err != nil {
			// A concurrent resubmission may race the conflict clause.
			if !db.IsDuplicateKeyErr(err) {
				return disposition, err
			}
		}
	case calldomain.DispositionQuarantined:
		errorType := errorTypeFor(event, disposition.Step)
		if err := s.quarantine.Save(ctx, event, loc, errorType, disposition.Step, disposition.Reason); err != nil {
			return disposition, err
		}
	}
	return disposition, nil
}

func (s *Service) ProcessBatch(ctx context.Context, events []*calldomain.CallEvent, loc *calldomain.LocationContext) (mediationdomain.BatchResult, error) {
	if loc == nil {
		return mediationdomain.BatchResult{}, ErrMissingLocation
	}

	var result mediationdomain.BatchResult
	for _, event := range events {
		disposition, err := s.Process(ctx, event, loc)
		if err != nil {
			result.Failed++
			s.log.Error("event not persisted",
				zap.String("calling", event.Calling),
				zap.String("called", event.Called),
				zap.Error(err),
			)
			continue
		}
		if disposition.Status == calldomain.DispositionAccepted {
			result.Accepted++
		} else {
			result.Quarantined++
		}
	}

	s.log.Info("batch processed",
		zap.Int("accepted", result.Accepted),
		zap.Int("quarantined", result.Quarantined),
		zap.Int("failed", result.Failed),
	)
	return result, nil
}

func (s *Service) observe(ctx context.Context, disposition calldomain.Disposition, started time.Time) {
	elapsed := s.clock.Now().Sub(started)
	s.metrics.RecordRatingDuration(ctx, elapsed.Seconds())
	if disposition.Status == calldomain.DispositionAccepted {
		s.metrics.RecordRated(ctx, disposition.Event.TelephonyTypeID)
	} else {
		s.metrics.RecordQuarantined(ctx, disposition.Step)
	}
}

// errorTypeFor keeps the quarantine taxonomy stable: upstream flags keep
// their own code, validation failures are bad input, anything later is a
// lookup that did not resolve.
func errorTypeFor(event *calldomain.CallEvent, step string) string {
	switch {
	case event.MarkedForQuarantine:
		return quarantinedomain.ErrorTypeUpstreamFlag
	case step == quarantinedomain.StepValidation:
		return quarantinedomain.ErrorTypeInputInvalid
	default:
		return quarantinedomain.ErrorTypeLookupFailure
	}
}
