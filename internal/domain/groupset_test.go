package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseGroupSet(t *testing.T) {
	gs := ParseGroupSet("dev, ops ,,qa")
	assert.Len(t, gs, 3)
	assert.True(t, gs.Contains("dev"))
	assert.True(t, gs.Contains("ops"))
	assert.True(t, gs.Contains("qa"))

	assert.Empty(t, ParseGroupSet(""))
	assert.Empty(t, ParseGroupSet(" , ,"))
}

func TestGroupSetExactMatch(t *testing.T) {
	gs := NewGroupSet("developer")

	// Membership is whole-name only. "dev" is not a member even though
	// it is a prefix of "developer".
	assert.False(t, gs.Contains("dev"))
	assert.False(t, gs.Contains("developers"))
	assert.False(t, gs.Contains("Developer"))
	assert.True(t, gs.Contains("developer"))
}

func TestGroupSetRoundTrip(t *testing.T) {
	gs := NewGroupSet("ops", "dev", "qa")
	assert.Equal(t, "dev,ops,qa", gs.String())
	assert.Equal(t, []string{"dev", "ops", "qa"}, gs.Names())

	again := ParseGroupSet(gs.String())
	assert.Equal(t, gs, again)
}
