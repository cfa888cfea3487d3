package tlerr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeStringKnownAndUnknown(t *testing.T) {
	assert.Equal(t, "No error", OK.String())
	assert.Equal(t, "Layer index out of range", IndexLayer.String())
	assert.Equal(t, "Unknown error", Code(999).String())
}

func TestErrorMessageFormatting(t *testing.T) {
	plain := New(IndexSprite, "")
	assert.Equal(t, "Sprite index out of range", plain.Error())

	withMsg := New(WrongSize, "tilemap exceeds tileset")
	assert.Equal(t, "Wrong size for requested operation: tilemap exceeds tileset", withMsg.Error())
}

func TestTrackerLastReflectsMostRecentSet(t *testing.T) {
	var tr Tracker
	assert.Equal(t, OK, tr.Last(), "zero value tracker reports OK")

	tr.Set(RefTileset)
	assert.Equal(t, RefTileset, tr.Last())

	tr.Set(OK)
	assert.Equal(t, OK, tr.Last())
}
