package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	calldomain "github.com/cdrmed/cdrmed/internal/callevent/domain"
	callrecorddomain "github.com/cdrmed/cdrmed/internal/callrecord/domain"
	callrecordrepo "github.com/cdrmed/cdrmed/internal/callrecord/repository"
	"github.com/cdrmed/cdrmed/internal/clock"
	"github.com/cdrmed/cdrmed/internal/config"
	mediationdomain "github.com/cdrmed/cdrmed/internal/mediation/domain"
	quarantinedomain "github.com/cdrmed/cdrmed/internal/quarantine/domain"
	quarantinerepo "github.com/cdrmed/cdrmed/internal/quarantine/repository"
	quarantineservice "github.com/cdrmed/cdrmed/internal/quarantine/service"
)

var pipelineNow = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

// classifierStub returns a canned disposition per called number.
type classifierStub struct {
	quarantined map[string]string
}

func (c *classifierStub) Rate(_ context.Context, event *calldomain.CallEvent, _ *calldomain.LocationContext) calldomain.Disposition {
	if reason, ok := c.quarantined[event.Called]; ok {
		return calldomain.Quarantined(event, quarantinedomain.StepClassification, reason)
	}
	event.TelephonyTypeID = calldomain.TypeNational
	event.BilledAmount = 100
	return calldomain.Accepted(event)
}

func setupPipeline(t *testing.T, stub *classifierStub) (mediationdomain.Service, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&callrecorddomain.CallRecord{}, &quarantinedomain.Record{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fake := clock.NewFakeClock(pipelineNow)
	gate := quarantineservice.NewService(quarantineservice.ServiceParam{
		Log: zap.NewNop(), GenID: node, Repo: quarantinerepo.Provide(db),
		Params: config.NewStaticRatingParamsHolder(config.DefaultRatingParams()),
		Clock:  fake,
	})

	svc := NewService(ServiceParam{
		Log:        zap.NewNop(),
		GenID:      node,
		Classifier: stub,
		Records:    callrecordrepo.Provide(db),
		Quarantine: gate,
		Clock:      fake,
	})
	return svc, db
}

func pipelineEvent(called string) *calldomain.CallEvent {
	return &calldomain.CallEvent{
		OriginatedAt:    pipelineNow.Add(-time.Hour),
		Calling:         "2001",
		Called:          called,
		DurationSeconds: 60,
		Direction:       calldomain.DirectionOutgoing,
	}
}

func pipelineLocation() *calldomain.LocationContext {
	return &calldomain.LocationContext{SiteID: 1, IndicatorID: 77, OriginCountryID: 57}
}

func TestProcess_AcceptedEventPersisted(t *testing.T) {
	svc, db := setupPipeline(t, &classifierStub{})

	got, err := svc.Process(context.Background(), pipelineEvent("6015551234"), pipelineLocation())
	require.NoError(t, err)
	require.Equal(t, calldomain.DispositionAccepted, got.Status)

	var records []callrecorddomain.CallRecord
	require.NoError(t, db.Find(&records).Error)
	require.Len(t, records, 1)
	require.NotZero(t, records[0].ID)
	require.Equal(t, 100.0, records[0].BilledAmount)
	require.NotEmpty(t, records[0].Checksum)
}

func TestProcess_QuarantinedEventPersisted(t *testing.T) {
	svc, db := setupPipeline(t, &classifierStub{quarantined: map[string]string{"BAD": "no route"}})

	got, err := svc.Process(context.Background(), pipelineEvent("BAD"), pipelineLocation())
	require.NoError(t, err)
	require.Equal(t, calldomain.DispositionQuarantined, got.Status)

	var records []quarantinedomain.Record
	require.NoError(t, db.Find(&records).Error)
	require.Len(t, records, 1)
	require.Equal(t, quarantinedomain.ErrorTypeLookupFailure, records[0].ErrorType)
	require.Equal(t, quarantinedomain.StepClassification, records[0].Step)
	require.Equal(t, "no route", records[0].Message)

	var count int64
	require.NoError(t, db.Model(&callrecorddomain.CallRecord{}).Count(&count).Error)
	require.Equal(t, int64(0), count)
}

func TestProcess_UpstreamFlagKeepsItsErrorType(t *testing.T) {
	svc, db := setupPipeline(t, &classifierStub{quarantined: map[string]string{"BAD": "flagged"}})

	ev := pipelineEvent("BAD")
	ev.MarkedForQuarantine = true
	_, err := svc.Process(context.Background(), ev, pipelineLocation())
	require.NoError(t, err)

	var record quarantinedomain.Record
	require.NoError(t, db.First(&record).Error)
	require.Equal(t, quarantinedomain.ErrorTypeUpstreamFlag, record.ErrorType)
}

func TestProcess_MissingLocation(t *testing.T) {
	svc, _ := setupPipeline(t, &classifierStub{})

	_, err := svc.Process(context.Background(), pipelineEvent("X"), nil)
	require.ErrorIs(t, err, ErrMissingLocation)
}

func TestProcessBatch_Counts(t *testing.T) {
	svc, _ := setupPipeline(t, &classifierStub{quarantined: map[string]string{"BAD": "no route"}})

	events := []*calldomain.CallEvent{
		pipelineEvent("6015551234"),
		pipelineEvent("BAD"),
		pipelineEvent("3155551234"),
	}
	result, err := svc.ProcessBatch(context.Background(), events, pipelineLocation())
	require.NoError(t, err)
	require.Equal(t, mediationdomain.BatchResult{Accepted: 2, Quarantined: 1}, result)
}

func TestProcessBatch_ResubmissionDedups(t *testing.T) {
	svc, db := setupPipeline(t, &classifierStub{})
	loc := pipelineLocation()

	_, err := svc.Process(context.Background(), pipelineEvent("6015551234"), loc)
	require.NoError(t, err)
	_, err = svc.Process(context.Background(), pipelineEvent("6015551234"), loc)
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&callrecorddomain.CallRecord{}).Count(&count).Error)
	require.Equal(t, int64(1), count)
}
