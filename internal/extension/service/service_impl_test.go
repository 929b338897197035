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
	extensiondomain "github.com/cdrmed/cdrmed/internal/extension/domain"
	extensionrepo "github.com/cdrmed/cdrmed/internal/extension/repository"
)

type assignFixture struct {
	svc  extensiondomain.Service
	db   *gorm.DB
	node *snowflake.Node
	loc  *calldomain.LocationContext

	alice snowflake.ID
	bob   snowflake.ID
}

func setupAssign(t *testing.T) *assignFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&extensiondomain.Employee{},
		&extensiondomain.Extension{},
		&extensiondomain.AuthCode{},
		&extensiondomain.ExtensionRange{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	f := &assignFixture{
		db:    db,
		node:  node,
		loc:   &calldomain.LocationContext{SiteID: 1},
		alice: node.Generate(),
		bob:   node.Generate(),
	}
	require.NoError(t, db.Create(&extensiondomain.Employee{ID: f.alice, SiteID: 1, Name: "Alice", Active: true}).Error)
	require.NoError(t, db.Create(&extensiondomain.Employee{ID: f.bob, SiteID: 1, Name: "Bob", Active: true}).Error)

	f.svc = NewService(ServiceParam{
		Log:  zap.NewNop(),
		Repo: extensionrepo.Provide(db),
	})
	return f
}

func TestAssign_AuthCodeBeatsExtension(t *testing.T) {
	f := setupAssign(t)
	require.NoError(t, f.db.Create(&extensiondomain.Extension{ID: f.node.Generate(), SiteID: 1, Number: "2001", EmployeeID: f.alice, Active: true}).Error)
	require.NoError(t, f.db.Create(&extensiondomain.AuthCode{ID: f.node.Generate(), SiteID: 1, Code: "7777", EmployeeID: f.bob, Active: true}).Error)

	ev := &calldomain.CallEvent{Calling: "2001", Direction: calldomain.DirectionOutgoing, AuthCode: "7777"}
	got, err := f.svc.Assign(context.Background(), ev, f.loc, nil)
	require.NoError(t, err)
	require.Equal(t, f.bob, got.EmployeeID)
	require.Equal(t, calldomain.AssignmentAuthCode, got.Cause)
}

func TestAssign_IgnoredAuthCodeFallsThrough(t *testing.T) {
	f := setupAssign(t)
	require.NoError(t, f.db.Create(&extensiondomain.Extension{ID: f.node.Generate(), SiteID: 1, Number: "2001", EmployeeID: f.alice, Active: true}).Error)
	require.NoError(t, f.db.Create(&extensiondomain.AuthCode{ID: f.node.Generate(), SiteID: 1, Code: "0", EmployeeID: f.bob, Active: true}).Error)

	ev := &calldomain.CallEvent{Calling: "2001", Direction: calldomain.DirectionOutgoing, AuthCode: "0"}
	got, err := f.svc.Assign(context.Background(), ev, f.loc, func(code string) bool { return code == "0" })
	require.NoError(t, err)
	require.Equal(t, f.alice, got.EmployeeID)
	require.Equal(t, calldomain.AssignmentExtension, got.Cause)
}

func TestAssign_IncomingUsesCalledLeg(t *testing.T) {
	f := setupAssign(t)
	require.NoError(t, f.db.Create(&extensiondomain.Extension{ID: f.node.Generate(), SiteID: 1, Number: "2002", EmployeeID: f.bob, Active: true}).Error)

	ev := &calldomain.CallEvent{Calling: "6015551234", Called: "2002", Direction: calldomain.DirectionIncoming}
	got, err := f.svc.Assign(context.Background(), ev, f.loc, nil)
	require.NoError(t, err)
	require.Equal(t, f.bob, got.EmployeeID)
	require.Equal(t, calldomain.AssignmentExtension, got.Cause)
}

func TestAssign_TransferRedirect(t *testing.T) {
	f := setupAssign(t)
	require.NoError(t, f.db.Create(&extensiondomain.Extension{ID: f.node.Generate(), SiteID: 1, Number: "2003", EmployeeID: f.alice, Active: true}).Error)

	ev := &calldomain.CallEvent{
		Calling:           "6015551234",
		Called:            "2099",
		Direction:         calldomain.DirectionIncoming,
		RedirectingNumber: "2003",
		TransferCause:     "forward",
	}
	got, err := f.svc.Assign(context.Background(), ev, f.loc, nil)
	require.NoError(t, err)
	require.Equal(t, f.alice, got.EmployeeID)
	require.Equal(t, calldomain.AssignmentTransfer, got.Cause)
}

func TestAssign_NarrowestRangeWins(t *testing.T) {
	f := setupAssign(t)
	require.NoError(t, f.db.Create(&extensiondomain.ExtensionRange{
		ID: f.node.Generate(), SiteID: 1, RangeStart: 2500, RangeEnd: 2599,
		EmployeeID: f.alice, Active: true, CreatedAt: time.Now().Add(-time.Hour),
	}).Error)
	require.NoError(t, f.db.Create(&extensiondomain.ExtensionRange{
		ID: f.node.Generate(), SiteID: 1, RangeStart: 2540, RangeEnd: 2560,
		EmployeeID: f.bob, Active: true, CreatedAt: time.Now().Add(-time.Hour),
	}).Error)

	ev := &calldomain.CallEvent{Calling: "2550", Direction: calldomain.DirectionOutgoing}
	got, err := f.svc.Assign(context.Background(), ev, f.loc, nil)
	require.NoError(t, err)
	require.Equal(t, f.bob, got.EmployeeID)
	require.Equal(t, calldomain.AssignmentExtensionRange, got.Cause)
}

func TestAssign_RangeRecencyTieBreak(t *testing.T) {
	f := setupAssign(t)
	require.NoError(t, f.db.Create(&extensiondomain.ExtensionRange{
		ID: f.node.Generate(), SiteID: 1, RangeStart: 3000, RangeEnd: 3099,
		EmployeeID: f.alice, Active: true, CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}).Error)
	require.NoError(t, f.db.Create(&extensiondomain.ExtensionRange{
		ID: f.node.Generate(), SiteID: 1, RangeStart: 3000, RangeEnd: 3099,
		EmployeeID: f.bob, Active: true, CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}).Error)

	ev := &calldomain.CallEvent{Calling: "3050", Direction: calldomain.DirectionOutgoing}
	got, err := f.svc.Assign(context.Background(), ev, f.loc, nil)
	require.NoError(t, err)
	require.Equal(t, f.bob, got.EmployeeID)
}

func TestAssign_NoMatch(t *testing.T) {
	f := setupAssign(t)

	ev := &calldomain.CallEvent{Calling: "9999", Direction: calldomain.DirectionOutgoing}
	got, err := f.svc.Assign(context.Background(), ev, f.loc, nil)
	require.NoError(t, err)
	require.Equal(t, snowflake.ID(0), got.EmployeeID)
	require.Equal(t, calldomain.AssignmentNone, got.Cause)
}

func TestInAnyRange(t *testing.T) {
	f := setupAssign(t)
	require.NoError(t, f.db.Create(&extensiondomain.ExtensionRange{
		ID: f.node.Generate(), SiteID: 1, RangeStart: 2500, RangeEnd: 2599,
		EmployeeID: f.alice, Active: true, CreatedAt: time.Now(),
	}).Error)

	in, err := f.svc.InAnyRange(context.Background(), "2550")
	require.NoError(t, err)
	require.True(t, in)

	in, err = f.svc.InAnyRange(context.Background(), "9000")
	require.NoError(t, err)
	require.False(t, in)

	in, err = f.svc.InAnyRange(context.Background(), "25A0")
	require.NoError(t, err)
	require.False(t, in)
}
