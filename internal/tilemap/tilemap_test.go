package tilemap

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"scanforge/internal/tileset"
)

func TestTileCellEncoding(t *testing.T) {
	tl := NewTile(42, FlagFlipX|FlagPriority|0x05)

	assert.Equal(t, uint16(42), tl.Index())
	assert.True(t, tl.FlipX())
	assert.False(t, tl.FlipY())
	assert.True(t, tl.Priority())
	assert.False(t, tl.Masked())
	assert.Equal(t, uint8(0x05), tl.PaletteSelector())
	assert.False(t, tl.Empty())
}

func TestTileEmptySentinel(t *testing.T) {
	assert.True(t, Tile(0).Empty())
	assert.False(t, NewTile(1, 0).Empty())
}

func TestTileWithFlagSetAndClear(t *testing.T) {
	tl := NewTile(1, 0)
	tl = tl.WithFlag(FlagFlipY, true)
	assert.True(t, tl.FlipY())

	tl = tl.WithFlag(FlagFlipY, false)
	assert.False(t, tl.FlipY())
	assert.Equal(t, uint16(1), tl.Index(), "clearing a flag must not disturb the index")
}

func TestCreateAllCellsEmpty(t *testing.T) {
	ts := tileset.Create(1, 8, 8, nil)
	m := Create(2, 3, ts)

	assert.Equal(t, 2, m.Rows())
	assert.Equal(t, 3, m.Cols())
	for r := 0; r < 2; r++ {
		for c := 0; c < 3; c++ {
			assert.True(t, m.At(r, c).Empty())
		}
	}
}

func TestSetTileTracksMaxIndex(t *testing.T) {
	ts := tileset.Create(4, 8, 8, nil)
	m := Create(1, 1, ts)

	assert.True(t, m.SetTile(0, 0, NewTile(3, 0)))
	assert.Equal(t, uint16(3), m.MaxIndex())

	assert.True(t, m.SetTile(0, 0, NewTile(1, 0)))
	assert.Equal(t, uint16(3), m.MaxIndex(), "max index never decreases")
}

func TestSetTileOutOfRange(t *testing.T) {
	ts := tileset.Create(1, 8, 8, nil)
	m := Create(1, 1, ts)
	assert.False(t, m.SetTile(5, 0, NewTile(1, 0)))
}

func TestAtOutOfRangeReturnsEmpty(t *testing.T) {
	ts := tileset.Create(1, 8, 8, nil)
	m := Create(1, 1, ts)
	assert.True(t, m.At(-1, 0).Empty())
	assert.True(t, m.At(0, 5).Empty())
}

func TestCopyTilesClippedRectangle(t *testing.T) {
	ts := tileset.Create(4, 8, 8, nil)
	src := Create(2, 2, ts)
	src.SetTile(0, 0, NewTile(1, 0))
	src.SetTile(0, 1, NewTile(2, 0))
	src.SetTile(1, 0, NewTile(3, 0))
	src.SetTile(1, 1, NewTile(4, 0))

	dst := Create(2, 2, ts)
	assert.True(t, CopyTiles(dst, 0, 0, src, 0, 0, 2, 2))

	assert.Equal(t, uint16(1), dst.At(0, 0).Index())
	assert.Equal(t, uint16(2), dst.At(0, 1).Index())
	assert.Equal(t, uint16(3), dst.At(1, 0).Index())
	assert.Equal(t, uint16(4), dst.At(1, 1).Index())
}

func TestCopyTilesClipsPartialOverlap(t *testing.T) {
	ts := tileset.Create(4, 8, 8, nil)
	src := Create(1, 2, ts)
	src.SetTile(0, 0, NewTile(1, 0))
	src.SetTile(0, 1, NewTile(2, 0))

	dst := Create(1, 1, ts)
	assert.True(t, CopyTiles(dst, 0, 0, src, 0, 0, 1, 2))

	assert.Equal(t, uint16(1), dst.At(0, 0).Index(), "only the in-bounds column is copied")
}

func TestCloneSharesNoCellBackingArray(t *testing.T) {
	ts := tileset.Create(1, 8, 8, nil)
	m := Create(1, 1, ts)
	m.SetTile(0, 0, NewTile(1, 0))

	clone := m.Clone()
	clone.SetTile(0, 0, NewTile(0, 0))

	assert.Equal(t, uint16(1), m.At(0, 0).Index())
	assert.True(t, clone.At(0, 0).Empty())
	assert.Same(t, ts, clone.Tileset(), "clone keeps the same borrowed tileset reference")
}

func TestBGColorUnsetByDefault(t *testing.T) {
	ts := tileset.Create(1, 8, 8, nil)
	m := Create(1, 1, ts)
	_, _, _, _, ok := m.BGColor()
	assert.False(t, ok)

	m.SetBGColor(1, 2, 3, 255)
	r, g, b, a, ok := m.BGColor()
	assert.True(t, ok)
	assert.Equal(t, uint8(1), r)
	assert.Equal(t, uint8(2), g)
	assert.Equal(t, uint8(3), b)
	assert.Equal(t, uint8(255), a)
}

func TestVisibleDefaultsTrue(t *testing.T) {
	ts := tileset.Create(1, 8, 8, nil)
	m := Create(1, 1, ts)
	assert.True(t, m.Visible())
	m.SetVisible(false)
	assert.False(t, m.Visible())
}
