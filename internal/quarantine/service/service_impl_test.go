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
	"github.com/cdrmed/cdrmed/internal/clock"
	"github.com/cdrmed/cdrmed/internal/config"
	quarantinedomain "github.com/cdrmed/cdrmed/internal/quarantine/domain"
	quarantinerepo "github.com/cdrmed/cdrmed/internal/quarantine/repository"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func setupGate(t *testing.T) (quarantinedomain.Service, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&quarantinedomain.Record{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := NewService(ServiceParam{
		Log:    zap.NewNop(),
		GenID:  node,
		Repo:   quarantinerepo.Provide(db),
		Params: config.NewStaticRatingParamsHolder(config.DefaultRatingParams()),
		Clock:  clock.NewFakeClock(testNow),
	})
	return svc, db
}

func validEvent() *calldomain.CallEvent {
	return &calldomain.CallEvent{
		OriginatedAt:    testNow.Add(-time.Hour),
		Calling:         "2001",
		Called:          "6015551234",
		DurationSeconds: 60,
	}
}

func TestValidate_AcceptsWellFormedEvent(t *testing.T) {
	svc, _ := setupGate(t)
	require.Empty(t, svc.Validate(validEvent()))
}

func TestValidate_NegativeDuration(t *testing.T) {
	svc, _ := setupGate(t)
	ev := validEvent()
	ev.DurationSeconds = -1

	messages := svc.Validate(ev)
	require.Len(t, messages, 1)
	require.Contains(t, messages[0], "invalid duration")
}

func TestValidate_OverlongDuration(t *testing.T) {
	svc, _ := setupGate(t)
	ev := validEvent()
	ev.DurationSeconds = config.DefaultRatingParams().MaxCallSeconds + 1

	messages := svc.Validate(ev)
	require.Len(t, messages, 1)
	require.Contains(t, messages[0], "exceeds maximum")
}

func TestValidate_MissingTimestamp(t *testing.T) {
	svc, _ := setupGate(t)
	ev := validEvent()
	ev.OriginatedAt = time.Time{}

	messages := svc.Validate(ev)
	require.Len(t, messages, 1)
	require.Contains(t, messages[0], "missing origination timestamp")
}

func TestValidate_TimestampOutOfWindow(t *testing.T) {
	svc, _ := setupGate(t)

	ev := validEvent()
	ev.OriginatedAt = time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC)
	messages := svc.Validate(ev)
	require.Len(t, messages, 1)
	require.Contains(t, messages[0], "precedes allowed window")

	ev = validEvent()
	ev.OriginatedAt = testNow.AddDate(0, 6, 0)
	messages = svc.Validate(ev)
	require.Len(t, messages, 1)
	require.Contains(t, messages[0], "too far in the future")
}

func TestValidate_UpstreamFlag(t *testing.T) {
	svc, _ := setupGate(t)
	ev := validEvent()
	ev.MarkedForQuarantine = true
	ev.QuarantineHint = "duplicate batch"

	messages := svc.Validate(ev)
	require.Len(t, messages, 1)
	require.Equal(t, "duplicate batch", messages[0])
}

func TestValidate_CollectsEveryFailure(t *testing.T) {
	svc, _ := setupGate(t)
	ev := validEvent()
	ev.MarkedForQuarantine = true
	ev.OriginatedAt = time.Time{}
	ev.DurationSeconds = -5

	messages := svc.Validate(ev)
	require.Len(t, messages, 3)
}

func TestSave_PersistsRecord(t *testing.T) {
	svc, db := setupGate(t)
	ev := validEvent()
	ev.OriginalCalled = "95551234"
	loc := &calldomain.LocationContext{SiteID: 42}

	err := svc.Save(context.Background(), ev, loc, quarantinedomain.ErrorTypeInputInvalid, quarantinedomain.StepValidation, "invalid duration -1")
	require.NoError(t, err)

	var rows []quarantinedomain.Record
	require.NoError(t, db.Find(&rows).Error)
	require.Len(t, rows, 1)
	require.Equal(t, snowflake.ID(42), rows[0].SiteID)
	require.Equal(t, "95551234", rows[0].Called)
	require.Equal(t, quarantinedomain.StepValidation, rows[0].Step)
	require.Equal(t, quarantinedomain.ErrorTypeInputInvalid, rows[0].ErrorType)
	require.NotEmpty(t, rows[0].ExternalRef)
}
