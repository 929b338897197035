package domain

import (
	"context"
	"errors"
)

// ResolveRequest carries everything needed to place a cleaned number in
// the numbering plan. Number still includes the matched prefix; the
// resolver removes PrefixCode before splitting NDC and subscriber digits.
type ResolveRequest struct {
	Number           string
	PrefixCode       string
	TelephonyTypeID  int64
	MinSubscriberLen int
	MaxSubscriberLen int
	OriginCountryID  int64
}

type Service interface {
	// ResolveDestination returns the best numbering-plan match for the
	// request, or nil when the number cannot be placed at all.
	ResolveDestination(ctx context.Context, req ResolveRequest) (*Match, error)

	// IsLocalExtended reports whether two indicators are configured as
	// adjacent regions.
	IsLocalExtended(ctx context.Context, indicatorID, peerIndicatorID int64) (bool, error)
}

type Repository interface {
	NDCLenRange(ctx context.Context, originCountryID, telephonyTypeID int64) (min int, max int, err error)
	ListSeries(ctx context.Context, originCountryID int64, ndc int) ([]Series, error)
	FindNDC(ctx context.Context, originCountryID, telephonyTypeID int64, ndc int) (*NDC, error)
	IndicatorName(ctx context.Context, indicatorID int64) (string, error)
	HasLocalExtendedLink(ctx context.Context, indicatorID, peerIndicatorID int64) (bool, error)
}

var (
	ErrNoNDCLengths = errors.New("no_ndc_lengths_configured")
)
