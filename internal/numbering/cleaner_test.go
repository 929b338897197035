package numbering

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClean_StripsLongestExitPrefix(t *testing.T) {
	assert.Equal(t, "23456", Clean("0123456", []string{"01"}, false))
	assert.Equal(t, "3456", Clean("0123456", []string{"01", "012"}, false))
}

func TestClean_NoPrefixMatch(t *testing.T) {
	// Not routed through this PBX: rejected.
	assert.Equal(t, "", Clean("5551234", []string{"9"}, false))
	// Caller asked to keep unmatched numbers.
	assert.Equal(t, "5551234", Clean("5551234", []string{"9"}, true))
}

func TestClean_LeadingPlusDropped(t *testing.T) {
	assert.Equal(t, "15551234", Clean("+15551234", nil, true))
}

func TestClean_NonDialableNoiseRemoved(t *testing.T) {
	assert.Equal(t, "9123", Clean("9abc123", nil, true))
	assert.Equal(t, "9#123*", Clean("9#123*", nil, true))
}

func TestClean_FirstCharacterPreserved(t *testing.T) {
	// The first character passes through even when not dialable.
	assert.Equal(t, "a123", Clean("a123", nil, true))
}

func TestClean_EmptyInput(t *testing.T) {
	assert.Equal(t, "", Clean("", nil, true))
	assert.Equal(t, "", Clean("   ", []string{"9"}, false))
}

func TestIsPlausibleExtension(t *testing.T) {
	assert.True(t, IsPlausibleExtension("2550", 2, 5))
	assert.False(t, IsPlausibleExtension("2550", 5, 8))
	assert.False(t, IsPlausibleExtension("25a0", 2, 5))
	assert.False(t, IsPlausibleExtension("", 0, 5))
}
