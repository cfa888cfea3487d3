package layer

import (
	"scanforge/internal/blit"
	"scanforge/internal/mathutil"
	"scanforge/internal/palette"
	"scanforge/internal/tilemap"
	"scanforge/internal/tileset"
)

// DrawScanline renders one scanline of this layer. Non-priority cells
// write into dst (framebuffer row, one uint32 per pixel); priority-flagged
// cells write into priorityDst instead, the compositor-owned priority
// scratch line overlaid onto dst at end of line, so a priority pixel is
// never lost to a later non-priority draw at the same column. A nil
// priorityDst routes everything to dst (whole-layer priority draws, plain
// library use). y is the destination scanline index. table is the
// precomputed blend table for this layer's blend mode (nil for BlendNone),
// resolved by the caller from a shared palette.Bank. Matches
// DrawLayerScanline's mode dispatch and per-cell destination selection.
func (l *Layer) DrawScanline(y int, dst []uint32, priorityDst []uint32, table *palette.Table) {
	if !l.Ok() {
		return
	}
	width := len(dst)
	x0, x1 := 0, width
	if l.clip.Active {
		if l.clip.Y1 > y || l.clip.Y2 < y {
			return
		}
		if l.clip.X1 > x0 {
			x0 = l.clip.X1
		}
		if l.clip.X2 < x1 {
			x1 = l.clip.X2 + 1
		}
		if x0 >= x1 {
			return
		}
	}

	var line []uint32
	var prio []bool
	if l.mosaicActive && l.mosaicHeight > 0 {
		y = y - (y % l.mosaicHeight)
	}

	switch l.mode {
	case ModeScaling:
		line, prio = l.renderScaling(y, x0, x1, width)
	case ModeAffine:
		line, prio = l.renderAffine(y, x0, x1, width)
	case ModePixelMap:
		line, prio = l.renderPixelMap(y, x0, x1, width)
	default:
		line, prio = l.renderNormal(y, x0, x1, width)
	}
	if line == nil {
		return
	}

	if l.mosaicActive && l.mosaicWidth > 1 {
		blit.ExpandMosaic(line[x0:x1], l.mosaicWidth)
		expandMosaicFlags(prio[x0:x1], l.mosaicWidth)
	}

	for i := x0; i < x1; i++ {
		if line[i]>>24 == 0 {
			continue // transparent sentinel, see blitCellPixel
		}
		out := dst
		if prio[i] && priorityDst != nil {
			out = priorityDst
		}
		if table == nil {
			out[i] = line[i]
		} else {
			sc := palette.Color{R: uint8(line[i] >> 16), G: uint8(line[i] >> 8), B: uint8(line[i]), A: 255}
			dc := palette.Color{R: uint8(out[i] >> 16), G: uint8(out[i] >> 8), B: uint8(out[i])}
			out[i] = palette.Color{
				R: table.Blend(sc.R, dc.R),
				G: table.Blend(sc.G, dc.G),
				B: table.Blend(sc.B, dc.B),
				A: 255,
			}.Pack()
		}
	}
}

// expandMosaicFlags mirrors blit.ExpandMosaic for the per-pixel priority
// flags so a priority cell's mosaic block carries the flag across its full
// expanded width.
func expandMosaicFlags(dst []bool, blockWidth int) {
	if blockWidth <= 1 {
		return
	}
	for base := 0; base < len(dst); base += blockWidth {
		end := base + blockWidth
		if end > len(dst) {
			end = len(dst)
		}
		sample := dst[base]
		for i := base + 1; i < end; i++ {
			dst[i] = sample
		}
	}
}

// blitCellPixel resolves one source pixel at (srcCol,srcRow) within cell's
// tile and writes it to dst[0] (a one-pixel destination slice) through the
// keyed/solid blitter family, matching DrawLayerScanline's blitter
// selection: "look up color_key[tile_line]; select solid or keyed pre-bound
// blitter". The cell's own PaletteSelector (low byte of the cell's flag
// word) picks which registered palette resolves the index, through
// resolvePalette. table is always nil here: line[] holds unblended source
// color with alpha as the "was anything drawn" sentinel; DrawScanline
// performs the actual blend against the framebuffer afterward.
func (l *Layer) blitCellPixel(ts *tileset.Tileset, cell tilemap.Tile, srcCol, srcRow int, dst []uint32) {
	tile := int(cell.Index())
	idx := ts.Pixel(tile, srcCol, srcRow)
	pal := l.resolvePalette(cell.PaletteSelector())
	keyed := ts.LineHasTransparency(tile, srcRow)
	blit.Select(keyed)([]byte{idx}, pal, nil, dst, 1, mathutil.FromInt(1))
}

// renderNormal walks the tile span under the current scroll position one
// tile at a time, matching DrawLayerScanline's xtile/srcx/column stepping.
// The per-column vertical offset table (SetColumnOffset) is folded into the
// sampled row as the tile column advances, matching the reference's
// per-span "ypos = yposbase + layer->column[column]" recomputation.
func (l *Layer) renderNormal(y, x0, x1, width int) ([]uint32, []bool) {
	ts := l.Tileset()
	line := make([]uint32, width)
	prio := make([]bool, width)
	sx, sy := l.effectiveScroll()

	for x := x0; x < x1; x++ {
		px := x + int(sx)
		col := px / ts.Width()
		colInTile := px % ts.Width()
		if colInTile < 0 {
			colInTile += ts.Width()
			col--
		}
		col = col % l.tm.Cols()
		if col < 0 {
			col += l.tm.Cols()
		}

		py := y + int(sy)
		if l.columnOffset != nil && col < len(l.columnOffset) {
			py += int(l.columnOffset[col])
		}
		tileRow := py / ts.Height()
		rowInTile := py % ts.Height()
		if rowInTile < 0 {
			rowInTile += ts.Height()
			tileRow--
		}
		tileRow = ((tileRow % l.tm.Rows()) + l.tm.Rows()) % l.tm.Rows()

		cell := l.tm.At(tileRow, col)
		if cell.Empty() {
			continue
		}
		srcCol, srcRow := colInTile, rowInTile
		if cell.FlipX() {
			srcCol = ts.Width() - 1 - srcCol
		}
		if cell.FlipY() {
			srcRow = ts.Height() - 1 - srcRow
		}
		l.blitCellPixel(ts, cell, srcCol, srcRow, line[x:x+1])
		prio[x] = cell.Priority()
	}
	return line, prio
}

// renderScaling steps the source position by a fixed-point dx/dy derived
// from the scale factor, matching DrawLayerScanlineScaling. Column offsets
// are added to the source Y pre-scale, matching the reference's ypos
// derivation before it is multiplied by dy.
func (l *Layer) renderScaling(y, x0, x1, width int) ([]uint32, []bool) {
	ts := l.Tileset()
	line := make([]uint32, width)
	prio := make([]bool, width)
	sx, sy := l.effectiveScroll()

	dy := mathutil.FromFloat(1 / l.scaleFactorY)
	dx := mathutil.FromFloat(1 / l.scaleFactorX)

	for x := x0; x < x1; x++ {
		srcXFixed := mathutil.FromInt(x+int(sx)).Mul(dx)
		px := srcXFixed.ToInt()
		col := px / ts.Width()
		colInTile := px % ts.Width()
		if colInTile < 0 {
			colInTile += ts.Width()
			col--
		}
		col = col % l.tm.Cols()
		if col < 0 {
			col += l.tm.Cols()
		}

		yBase := y + int(sy)
		if l.columnOffset != nil && col < len(l.columnOffset) {
			yBase += int(l.columnOffset[col])
		}
		srcYFixed := mathutil.FromInt(yBase).Mul(dy)
		py := srcYFixed.ToInt()
		tileRow := py / ts.Height()
		rowInTile := py % ts.Height()
		if rowInTile < 0 {
			rowInTile += ts.Height()
			tileRow--
		}
		tileRow = ((tileRow % l.tm.Rows()) + l.tm.Rows()) % l.tm.Rows()

		cell := l.tm.At(tileRow, col)
		if cell.Empty() {
			continue
		}
		srcCol, srcRow := colInTile, rowInTile
		if cell.FlipX() {
			srcCol = ts.Width() - 1 - srcCol
		}
		if cell.FlipY() {
			srcRow = ts.Height() - 1 - srcRow
		}
		l.blitCellPixel(ts, cell, srcCol, srcRow, line[x:x+1])
		prio[x] = cell.Priority()
	}
	return line, prio
}

// renderAffine transforms each destination pixel through the layer's
// affine matrix to find the source sample point, matching
// DrawLayerScanlineAffine's per-pixel Point2DMultiply. Each destination
// pixel resolves its own cell and palette directly rather than carrying a
// "last tile" pointer forward, so a mosaic block's expansion pass never
// reads a stale tile's palette: there is no shared mutable state for it to
// read back.
func (l *Layer) renderAffine(y, x0, x1, width int) ([]uint32, []bool) {
	ts := l.Tileset()
	line := make([]uint32, width)
	prio := make([]bool, width)
	sx, sy := l.effectiveScroll()

	for x := x0; x < x1; x++ {
		src := l.affine.Apply(mathutil.Point2D{X: float64(x), Y: float64(y)})
		px := int(src.X) + int(sx)
		py := int(src.Y) + int(sy)

		col := px / ts.Width()
		colInTile := px % ts.Width()
		if colInTile < 0 {
			colInTile += ts.Width()
			col--
		}
		col = ((col % l.tm.Cols()) + l.tm.Cols()) % l.tm.Cols()

		row := py / ts.Height()
		rowInTile := py % ts.Height()
		if rowInTile < 0 {
			rowInTile += ts.Height()
			row--
		}
		row = ((row % l.tm.Rows()) + l.tm.Rows()) % l.tm.Rows()

		cell := l.tm.At(row, col)
		if cell.Empty() {
			continue
		}
		srcCol, srcRow := colInTile, rowInTile
		if cell.FlipX() {
			srcCol = ts.Width() - 1 - srcCol
		}
		if cell.FlipY() {
			srcRow = ts.Height() - 1 - srcRow
		}
		l.blitCellPixel(ts, cell, srcCol, srcRow, line[x:x+1])
		prio[x] = cell.Priority()
	}
	return line, prio
}

// renderPixelMap samples the normal scroll position offset by a per-pixel
// (dx,dy) table entry, matching DrawLayerScanlinePixelMapping.
func (l *Layer) renderPixelMap(y, x0, x1, width int) ([]uint32, []bool) {
	ts := l.Tileset()
	line := make([]uint32, width)
	prio := make([]bool, width)
	sx, sy := l.effectiveScroll()

	for x := x0; x < x1; x++ {
		mapIdx := y*width + x
		var dx, dy int16
		if mapIdx >= 0 && mapIdx < len(l.pixelMap) {
			dx, dy = l.pixelMap[mapIdx].DX, l.pixelMap[mapIdx].DY
		}
		px := x + int(sx) + int(dx)
		py := y + int(sy) + int(dy)

		col := ((px / ts.Width()) % l.tm.Cols())
		colInTile := px % ts.Width()
		if colInTile < 0 {
			colInTile += ts.Width()
			col--
		}
		col = ((col % l.tm.Cols()) + l.tm.Cols()) % l.tm.Cols()

		row := ((py / ts.Height()) % l.tm.Rows())
		rowInTile := py % ts.Height()
		if rowInTile < 0 {
			rowInTile += ts.Height()
			row--
		}
		row = ((row % l.tm.Rows()) + l.tm.Rows()) % l.tm.Rows()

		cell := l.tm.At(row, col)
		if cell.Empty() {
			continue
		}
		srcCol, srcRow := colInTile, rowInTile
		if cell.FlipX() {
			srcCol = ts.Width() - 1 - srcCol
		}
		if cell.FlipY() {
			srcRow = ts.Height() - 1 - srcRow
		}
		l.blitCellPixel(ts, cell, srcCol, srcRow, line[x:x+1])
		prio[x] = cell.Priority()
	}
	return line, prio
}
