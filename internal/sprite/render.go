package sprite

import (
	"scanforge/internal/blit"
	"scanforge/internal/mathutil"
	"scanforge/internal/palette"
)

// DrawScanline renders one scanline of this sprite into dst at its current
// screen position, honoring pivot, flip, scale and blend; FLAG_MASKED is
// not checked here, the caller decides whether to draw. index is this
// sprite's slot number, used to stamp the collision buffer. collisionIdx,
// when non-nil, is a per-pixel scratch buffer of "last sprite index drawn
// here" (-1 = none); siblings is the full sprite slot array, used to reach
// back and flag the previously-recorded sprite. Overlapping opaque draws
// mark both the sprite that drew there before and the current sprite as
// colliding, matching DrawSpriteCollision's "set both" semantics.
func (s *Sprite) DrawScanline(y int, dst []uint32, worldScrollX, worldScrollY int32, collisionIdx []int, index int, siblings []*Sprite, table *palette.Table) {
	pal := s.Palette()
	if !s.Enabled() || s.ts == nil || pal == nil {
		return
	}
	x0, y0, w, h := s.screenRect(worldScrollX, worldScrollY)
	if h <= 0 {
		return
	}
	row := y - y0
	if row < 0 || row >= h {
		return
	}

	srcRow := int(float64(row) / s.scaleY)
	if s.FlipY() {
		srcRow = s.Height() - 1 - srcRow
	}
	if srcRow < 0 || srcRow >= s.Height() {
		return
	}

	dxStep := mathutil.FromFloat(1 / s.scaleX)

	for col := 0; col < w; col++ {
		dstX := x0 + col
		if dstX < 0 || dstX >= len(dst) {
			continue
		}
		srcCol := mathutil.FromInt(col).Mul(dxStep).ToInt()
		if s.FlipX() {
			srcCol = s.Width() - 1 - srcCol
		}
		if srcCol < 0 || srcCol >= s.Width() {
			continue
		}

		idx := s.ts.Pixel(s.picture, srcCol, srcRow)
		if idx == 0 {
			continue // color-key 0 is always transparent for sprites
		}

		if s.doCollision && collisionIdx != nil && dstX < len(collisionIdx) {
			prev := collisionIdx[dstX]
			if prev >= 0 && prev != index {
				s.collision = true
				if prev < len(siblings) && siblings[prev] != nil {
					siblings[prev].collision = true
				}
			}
			collisionIdx[dstX] = index
		}

		// Sprites always treat index 0 as transparent, so they always use
		// the keyed blitter variant (matches the unconditional idx==0
		// skip above, now expressed through the same blitter family the
		// layer renderer uses).
		blit.Select(true)([]byte{idx}, pal, table, dst[dstX:dstX+1], 1, mathutil.FromInt(1))
	}
}
