package blit

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"scanforge/internal/mathutil"
	"scanforge/internal/palette"
)

func testPalette() *palette.Palette {
	p := palette.New(4)
	p.SetColor(1, palette.Color{R: 10, G: 20, B: 30, A: 255})
	p.SetColor(2, palette.Color{R: 40, G: 50, B: 60, A: 255})
	return p
}

func TestKeyedSkipsIndexZero(t *testing.T) {
	src := []byte{0, 1, 0, 2}
	dst := []uint32{0xFFFFFFFF, 0xFFFFFFFF, 0xFFFFFFFF, 0xFFFFFFFF}
	Keyed(src, testPalette(), nil, dst, 4, mathutil.FromInt(1))

	assert.Equal(t, uint32(0xFFFFFFFF), dst[0], "index 0 must stay transparent")
	assert.Equal(t, testPalette().Color(1).Pack(), dst[1])
	assert.Equal(t, uint32(0xFFFFFFFF), dst[2])
	assert.Equal(t, testPalette().Color(2).Pack(), dst[3])
}

func TestSolidOverwritesEveryPixel(t *testing.T) {
	src := []byte{0, 1}
	dst := []uint32{0xAAAAAAAA, 0xAAAAAAAA}
	Solid(src, testPalette(), nil, dst, 2, mathutil.FromInt(1))

	assert.Equal(t, testPalette().Color(0).Pack(), dst[0])
	assert.Equal(t, testPalette().Color(1).Pack(), dst[1])
}

func TestExpandMosaicReplicatesBlocks(t *testing.T) {
	dst := []uint32{1, 99, 99, 2, 99, 99}
	ExpandMosaic(dst, 3)
	assert.Equal(t, []uint32{1, 1, 1, 2, 2, 2}, dst)
}

func TestExpandMosaicNoOpBelowTwo(t *testing.T) {
	dst := []uint32{1, 2, 3}
	ExpandMosaic(dst, 1)
	assert.Equal(t, []uint32{1, 2, 3}, dst)
}
