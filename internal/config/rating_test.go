package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultRatingParamsValid(t *testing.T) {
	require.NoError(t, validateRatingParams(DefaultRatingParams()))
}

func TestValidateRatingParams(t *testing.T) {
	params := DefaultRatingParams()
	params.MaxCallSeconds = 0
	require.Error(t, validateRatingParams(params))

	params = DefaultRatingParams()
	params.MinExtensionLen = 5
	params.MaxExtensionLen = 2
	require.Error(t, validateRatingParams(params))
}

func TestMinCaptureTime(t *testing.T) {
	params := DefaultRatingParams()
	params.MinCaptureDate = "2010-06-15"
	require.Equal(t, time.Date(2010, 6, 15, 0, 0, 0, 0, time.UTC), params.MinCaptureTime())

	// Unparseable dates fall back to the default lower bound.
	params.MinCaptureDate = "not-a-date"
	require.Equal(t, time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC), params.MinCaptureTime())
}

func TestIsIgnoredAuthCode(t *testing.T) {
	params := DefaultRatingParams()
	params.IgnoredAuthCodes = []string{"0", " 99 "}

	require.True(t, params.IsIgnoredAuthCode("0"))
	require.True(t, params.IsIgnoredAuthCode("99"))
	require.True(t, params.IsIgnoredAuthCode(" 0 "))
	require.False(t, params.IsIgnoredAuthCode("1234"))
}

func TestStaticHolder(t *testing.T) {
	params := DefaultRatingParams()
	params.MaxCallSeconds = 123

	holder := NewStaticRatingParamsHolder(params)
	require.Equal(t, 123, holder.Get().MaxCallSeconds)
}
