package sceneconfig

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadStringParsesScene(t *testing.T) {
	doc := `
width = 320
height = 200
num_layers = 2
num_sprites = 16
bg_color = "0xFF102030"

[[palette]]
id = 0
colors = ["0xFF000000", "0xFFFF0000"]

[[tileset]]
name = "tiles"
path = "tiles.bin"
width = 8
height = 8

[[layer]]
tilemap = "map0"
palette = 0
`
	s, err := LoadString(doc)
	assert.NoError(t, err)
	assert.Equal(t, 320, s.Width)
	assert.Equal(t, 200, s.Height)
	assert.Len(t, s.Palettes, 1)
	assert.Equal(t, 2, len(s.Palettes[0].Colors))
	assert.Len(t, s.Tilesets, 1)
	assert.Equal(t, "tiles.bin", s.Tilesets[0].Path)
}

func TestLoadStringRejectsZeroSize(t *testing.T) {
	_, err := LoadString(`width = 0
height = 100`)
	assert.Error(t, err)
}

func TestDefaultIsValid(t *testing.T) {
	s := Default()
	assert.Greater(t, s.Width, 0)
	assert.Greater(t, s.Height, 0)
}

func TestParseColor(t *testing.T) {
	r, g, b, a, err := ParseColor("0xFF102030")
	assert.NoError(t, err)
	assert.Equal(t, uint8(0x10), r)
	assert.Equal(t, uint8(0x20), g)
	assert.Equal(t, uint8(0x30), b)
	assert.Equal(t, uint8(0xFF), a)
}

func TestParseColorInvalid(t *testing.T) {
	_, _, _, _, err := ParseColor("not-hex")
	assert.Error(t, err)
}
