package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	calldomain "github.com/cdrmed/cdrmed/internal/callevent/domain"
	prefixdomain "github.com/cdrmed/cdrmed/internal/prefix/domain"
	prefixrepo "github.com/cdrmed/cdrmed/internal/prefix/repository"
)

func setupCatalog(t *testing.T, rows []prefixdomain.Prefix) prefixdomain.Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&prefixdomain.Prefix{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	for i := range rows {
		rows[i].ID = node.Generate()
		rows[i].OriginCountryID = 57
		rows[i].Active = true
		require.NoError(t, db.Create(&rows[i]).Error)
	}

	return NewService(ServiceParam{
		Log:  zap.NewNop(),
		Repo: prefixrepo.Provide(db),
	})
}

func catalogLocation() *calldomain.LocationContext {
	return &calldomain.LocationContext{SiteID: 1, IndicatorID: 77, OriginCountryID: 57}
}

func TestFindCandidates_LongestFirstWithLocalFallback(t *testing.T) {
	svc := setupCatalog(t, []prefixdomain.Prefix{
		{Code: "0", TelephonyTypeID: calldomain.TypeNational},
		{Code: "00", TelephonyTypeID: calldomain.TypeInternational},
	})

	got, err := svc.FindCandidates(context.Background(), "0049301234", catalogLocation(), false, calldomain.TypeUnknown)
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Equal(t, "00", got[0].Code)
	require.Equal(t, "0", got[1].Code)
	// The synthetic no-prefix entry closes the list.
	require.Equal(t, "", got[2].Code)
	require.Equal(t, calldomain.TypeLocal, got[2].TelephonyTypeID)
}

func TestFindCandidates_IncomingHasNoLocalFallback(t *testing.T) {
	svc := setupCatalog(t, []prefixdomain.Prefix{
		{Code: "0", TelephonyTypeID: calldomain.TypeNational},
	})

	got, err := svc.FindCandidates(context.Background(), "5551234", catalogLocation(), true, calldomain.TypeUnknown)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestFindCandidates_HintedTypeFilters(t *testing.T) {
	svc := setupCatalog(t, []prefixdomain.Prefix{
		{Code: "0", TelephonyTypeID: calldomain.TypeNational},
		{Code: "0", TelephonyTypeID: calldomain.TypeCellular, OperatorID: 3},
	})

	got, err := svc.FindCandidates(context.Background(), "0301234", catalogLocation(), true, calldomain.TypeCellular)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, calldomain.TypeCellular, got[0].TelephonyTypeID)
}

func TestFindCandidates_NonDestinationTypesExcluded(t *testing.T) {
	svc := setupCatalog(t, []prefixdomain.Prefix{
		{Code: "1", TelephonyTypeID: calldomain.TypeSpecial},
		{Code: "1", TelephonyTypeID: calldomain.TypeInternal},
		{Code: "1", TelephonyTypeID: calldomain.TypeCellularFixed},
	})

	got, err := svc.FindCandidates(context.Background(), "123", catalogLocation(), true, calldomain.TypeUnknown)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestFindCandidates_OriginIndicatorScope(t *testing.T) {
	svc := setupCatalog(t, []prefixdomain.Prefix{
		{Code: "0", TelephonyTypeID: calldomain.TypeNational, OriginIndicatorID: 88},
		{Code: "0", TelephonyTypeID: calldomain.TypeCellular, OriginIndicatorID: 77},
	})

	got, err := svc.FindCandidates(context.Background(), "0301234", catalogLocation(), true, calldomain.TypeUnknown)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, calldomain.TypeCellular, got[0].TelephonyTypeID)
}

func TestFindCandidates_MissingLocation(t *testing.T) {
	svc := setupCatalog(t, nil)

	_, err := svc.FindCandidates(context.Background(), "0301234", nil, false, calldomain.TypeUnknown)
	require.ErrorIs(t, err, prefixdomain.ErrMissingLocation)
}
