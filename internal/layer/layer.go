// Package layer implements background layers: tilemap-backed scrolling
// planes with four render modes (normal, scaling, affine, pixel-map),
// clipping, mosaic, blending and parallax, matching the reference Layer
// object and its TLN_SetLayer*/TLN_GetLayer* operations.
package layer

import (
	"scanforge/internal/mathutil"
	"scanforge/internal/palette"
	"scanforge/internal/tileset"
	"scanforge/internal/tilemap"
	"scanforge/internal/tlerr"
)

// Mode selects which of the four scanline renderers draws this layer,
// matching the reference draw_t enum (MODE_NORMAL, MODE_SCALING,
// MODE_TRANSFORM, MODE_PIXEL_MAP).
type Mode int

const (
	ModeNormal Mode = iota
	ModeScaling
	ModeAffine
	ModePixelMap
)

// PixelMapEntry is one entry of a per-pixel remap table: for pixel-map mode,
// each destination pixel samples the source layer at (dx,dy) offset from
// its own column, matching TLN_PixelMap.
type PixelMapEntry struct {
	DX, DY int16
}

// ClipRect is an inclusive pixel-space clipping rectangle.
type ClipRect struct {
	X1, Y1, X2, Y2 int
	Active         bool
}

// TileInfo describes a single resolved tilemap cell, matching the
// TLN_TileInfo query result (TLN_GetLayerTile).
type TileInfo struct {
	Index            uint16
	Flags            uint16
	Row, Col         int
	XOffset, YOffset int
	Color, Type      uint8
	Empty            bool
}

// Layer is one scrollable, optionally-transformed background plane.
type Layer struct {
	mode Mode

	tm    *tilemap.Tilemap
	pal   *palette.Palette
	store *palette.Store // process-wide registry, see SetPaletteStore

	scrollX, scrollY int32
	worldX, worldY   int32 // set by the engine's world-position update
	parallaxX, parallaxY float64

	priority bool
	enabled  bool
	ok       bool // true once a visible tilemap is bound

	clip   ClipRect
	mosaicWidth, mosaicHeight int
	mosaicActive              bool

	blendMode palette.Mode

	columnOffset []int32 // borrowed; caller owns lifetime, see DESIGN.md

	// affine mode
	angle, pivotX, pivotY, scaleX, scaleY float64
	affine                                 mathutil.Matrix3

	// scaling mode
	scaleFactorX, scaleFactorY float64

	// pixel-map mode
	pixelMap []PixelMapEntry

	dirty bool
	errs  tlerr.Tracker
}

// New creates an unbound layer in normal mode. Parallax defaults to 1 so
// a world-position change moves an untouched layer one-to-one; a fixed HUD
// layer opts out with SetParallaxFactor(0, 0).
func New() *Layer {
	return &Layer{
		enabled:      true,
		parallaxX:    1, parallaxY: 1,
		scaleX:       1, scaleY: 1,
		scaleFactorX: 1, scaleFactorY: 1,
		blendMode: palette.BlendNone,
	}
}

// BindTilemap attaches a tilemap (and, transitively, its tileset) to the
// layer. When the tileset carries attribute records (at least one non-zero
// record), propagates each non-empty cell's tileset-level priority attribute
// onto the cell's own FLAG_PRIORITY bit, matching TLN_SetLayerTilemap's
// attribute-propagation-on-bind behavior. A tileset without attributes
// leaves every cell's own priority flag as written.
func (l *Layer) BindTilemap(tm *tilemap.Tilemap, pal *palette.Palette) bool {
	if tm == nil || tm.Tileset() == nil {
		l.errs.Set(tlerr.RefTilemap)
		return false
	}
	ts := tm.Tileset()
	if int(tm.MaxIndex()) > ts.NumTiles()-1 {
		l.errs.Set(tlerr.WrongSize)
		return false
	}

	propagate := false
	for i := 1; i < ts.NumTiles(); i++ {
		if ts.Attribute(i) != (tileset.Attributes{}) {
			propagate = true
			break
		}
	}
	for row := 0; propagate && row < tm.Rows(); row++ {
		for col := 0; col < tm.Cols(); col++ {
			cell := tm.At(row, col)
			if cell.Empty() {
				continue
			}
			attr := ts.Attribute(int(cell.Index()))
			tm.SetTile(row, col, cell.WithFlag(tilemap.FlagPriority, attr.Priority))
		}
	}

	l.tm = tm
	l.pal = pal
	l.ok = tm.Visible()
	l.dirty = true
	l.errs.Set(tlerr.OK)
	return true
}

// Tileset returns the bound tileset, or nil if none is bound.
func (l *Layer) Tileset() *tileset.Tileset {
	if l.tm == nil {
		return nil
	}
	return l.tm.Tileset()
}

// Tilemap returns the bound tilemap, or nil if none is bound.
func (l *Layer) Tilemap() *tilemap.Tilemap { return l.tm }

// Palette returns the layer's bound fallback palette.
func (l *Layer) Palette() *palette.Palette { return l.pal }

// SetPaletteStore wires the engine's process-wide, identifier-indexed
// palette table into this layer. Once set, each cell resolves its own
// palette through tilemap.Tile.PaletteSelector(), falling back to the
// layer's bound pal when no palette is registered at that id. Called by
// engine.New; layers built directly via New() have no store and always use
// the bound pal.
func (l *Layer) SetPaletteStore(store *palette.Store) { l.store = store }

// resolvePalette returns the palette a cell with the given selector should
// draw through, matching DrawLayerScanline's per-cell blitter invocation
// with "palette id from cell flags low byte".
func (l *Layer) resolvePalette(selector uint8) *palette.Palette {
	if l.store != nil {
		if p := l.store.Get(selector); p != nil {
			return p
		}
	}
	return l.pal
}

// SetPosition sets the scroll position in pixels. The values are stored as
// given; negative values are allowed, and the renderers wrap the sampled
// position into [0, dimension) the way the reference UpdateLayer corrects
// for negative scroll with a modulo-and-add-back.
func (l *Layer) SetPosition(x, y int32) {
	l.scrollX = x
	l.scrollY = y
	l.dirty = true
}

// SetParallaxFactor sets the world-scroll multiplier applied on top of the
// explicit scroll position, matching TLN_SetLayerParallaxFactor.
func (l *Layer) SetParallaxFactor(x, y float64) {
	l.parallaxX, l.parallaxY = x, y
	l.dirty = true
}

// updateWorldPosition is called by the engine after TLN_SetWorldPosition;
// combines world position and this layer's parallax factor, matching
// UpdateLayer's xworld/yworld derivation.
func (l *Layer) updateWorldPosition(worldX, worldY int32) {
	l.worldX = int32(float64(worldX) * l.parallaxX)
	l.worldY = int32(float64(worldY) * l.parallaxY)
}

// effectiveScroll returns the scroll position actually used when sampling
// the tilemap: explicit position plus world/parallax offset.
func (l *Layer) effectiveScroll() (int32, int32) {
	return l.scrollX + l.worldX, l.scrollY + l.worldY
}

// SetScaling sets a uniform-or-nonuniform scale factor and switches the
// layer to scaling mode, matching TLN_SetLayerScaling.
func (l *Layer) SetScaling(sx, sy float64) {
	if sx == 0 {
		sx = 1
	}
	if sy == 0 {
		sy = 1
	}
	l.scaleFactorX, l.scaleFactorY = sx, sy
	l.mode = ModeScaling
	l.dirty = true
}

// SetAffineTransform sets rotation (degrees) and per-axis scale around the
// pivot point (dx,dy) and switches to affine mode, matching
// TLN_SetLayerAffineTransform / TLN_SetLayerTransform.
func (l *Layer) SetAffineTransform(angle, dx, dy, sx, sy float64) {
	l.angle, l.pivotX, l.pivotY, l.scaleX, l.scaleY = angle, dx, dy, sx, sy
	l.affine = mathutil.AffineLayerMatrix(angle, dx, dy, sx, sy)
	l.mode = ModeAffine
	l.dirty = true
}

// SetPixelMapping installs a per-pixel offset table and switches to
// pixel-map mode, matching TLN_SetLayerPixelMapping. map must have one
// entry per framebuffer pixel (width*height); the layer borrows the slice.
func (l *Layer) SetPixelMapping(pixelMap []PixelMapEntry) {
	l.pixelMap = pixelMap
	l.mode = ModePixelMap
	l.dirty = true
}

// ResetMode returns the layer to normal (tilemap-scroll-only) rendering,
// matching TLN_ResetLayerMode.
func (l *Layer) ResetMode() {
	l.mode = ModeNormal
	l.dirty = true
}

// Mode returns the active render mode.
func (l *Layer) Mode() Mode { return l.mode }

// SetBlendMode selects a blend table for this layer's pixels against
// whatever is already in the framebuffer, matching TLN_SetLayerBlendMode.
func (l *Layer) SetBlendMode(mode palette.Mode) {
	l.blendMode = mode
	l.dirty = true
}

// BlendMode returns the active blend mode.
func (l *Layer) BlendMode() palette.Mode { return l.blendMode }

// SetColumnOffset installs a per-column vertical scroll table (one entry
// per tilemap column), matching TLN_SetLayerColumnOffset. The layer
// borrows offsets: the caller must keep it alive and must not resize it
// while bound, and rebinding the tilemap does not clear a previously set
// table.
func (l *Layer) SetColumnOffset(offsets []int32) {
	l.columnOffset = offsets
	l.dirty = true
}

// SetClip sets an inclusive pixel clipping rectangle, clamped to
// [0,width)x[0,height) by the caller (the engine knows the framebuffer
// size), matching TLN_SetLayerClip.
func (l *Layer) SetClip(x1, y1, x2, y2 int) {
	l.clip = ClipRect{X1: x1, Y1: y1, X2: x2, Y2: y2, Active: true}
}

// DisableClip removes the clipping rectangle, matching TLN_DisableLayerClip.
func (l *Layer) DisableClip() {
	l.clip.Active = false
}

// Clip returns the current clip rectangle.
func (l *Layer) Clip() ClipRect { return l.clip }

// SetMosaic enables pixelation in blockWidth x blockHeight blocks, matching
// TLN_SetLayerMosaic.
func (l *Layer) SetMosaic(blockWidth, blockHeight int) {
	l.mosaicWidth, l.mosaicHeight = blockWidth, blockHeight
	l.mosaicActive = true
}

// DisableMosaic turns off mosaic, matching TLN_DisableLayerMosaic.
func (l *Layer) DisableMosaic() {
	l.mosaicActive = false
}

// Mosaic returns the mosaic block size and whether it is active.
func (l *Layer) Mosaic() (width, height int, active bool) {
	return l.mosaicWidth, l.mosaicHeight, l.mosaicActive
}

// SetPriority marks the whole layer as drawing above non-priority sprites,
// matching TLN_SetLayerPriority.
func (l *Layer) SetPriority(priority bool) { l.priority = priority }

// Priority reports the layer's priority flag.
func (l *Layer) Priority() bool { return l.priority }

// Enable/Disable toggle whether the compositor visits this layer at all,
// matching TLN_EnableLayer/TLN_DisableLayer.
func (l *Layer) Enable()  { l.enabled = true }
func (l *Layer) Disable() { l.enabled = false }

// Enabled reports whether the layer is enabled.
func (l *Layer) Enabled() bool { return l.enabled }

// Ok reports whether the layer has a bound, visible tilemap and should be
// considered by the compositor, matching the reference layer.ok flag.
func (l *Layer) Ok() bool { return l.ok && l.enabled && l.tm != nil }

// Dirty reports whether layer state changed since the last scanline pass
// consumed it. Clear with ClearDirty.
func (l *Layer) Dirty() bool   { return l.dirty }
func (l *Layer) ClearDirty()   { l.dirty = false }

// Width returns the layer's pixel width (tilemap cols * tile width).
// Returns an explicit error instead of conflating 0 with failure.
func (l *Layer) Width() (int, error) {
	if l.tm == nil || l.tm.Tileset() == nil {
		return 0, tlerr.New(tlerr.RefTilemap, "layer has no bound tilemap")
	}
	return l.tm.Cols() * l.tm.Tileset().Width(), nil
}

// Height returns the layer's pixel height, with the same error-signaling
// fix as Width.
func (l *Layer) Height() (int, error) {
	if l.tm == nil || l.tm.Tileset() == nil {
		return 0, tlerr.New(tlerr.RefTilemap, "layer has no bound tilemap")
	}
	return l.tm.Rows() * l.tm.Tileset().Height(), nil
}

// TileAt resolves the tilemap cell under pixel (x,y), honoring scroll
// position and any column offset table, matching TLN_GetLayerTile.
func (l *Layer) TileAt(x, y int) (TileInfo, bool) {
	if l.tm == nil || l.tm.Tileset() == nil {
		return TileInfo{}, false
	}
	ts := l.tm.Tileset()
	sx, sy := l.effectiveScroll()
	px := x + int(sx)
	py := y + int(sy)

	col := px >> uint(ts.HShift())
	// The reference's manual carry correction applies only to the index into
	// the column offset table; the cell looked up is the one under px.
	offsetCol := col
	xpos := col << uint(ts.HShift())
	if xpos != 0 && px > xpos {
		offsetCol++
	}
	col = ((col % l.tm.Cols()) + l.tm.Cols()) % l.tm.Cols()
	offsetCol = ((offsetCol % l.tm.Cols()) + l.tm.Cols()) % l.tm.Cols()

	if l.columnOffset != nil && offsetCol < len(l.columnOffset) {
		py += int(l.columnOffset[offsetCol])
	}

	row := (py >> uint(ts.VShift())) % l.tm.Rows()
	if row < 0 {
		row += l.tm.Rows()
	}

	cell := l.tm.At(row, col)
	xoffset := px & (ts.Width() - 1)
	yoffset := py & (ts.Height() - 1)
	srcCol, srcRow := xoffset, yoffset
	if cell.FlipX() {
		srcCol = ts.Width() - 1 - srcCol
	}
	if cell.FlipY() {
		srcRow = ts.Height() - 1 - srcRow
	}
	return TileInfo{
		Index:   cell.Index(),
		Flags:   cell.Flags(),
		Row:     row,
		Col:     col,
		XOffset: xoffset,
		YOffset: yoffset,
		Color:   ts.Pixel(int(cell.Index()), srcCol, srcRow),
		Type:    ts.Attribute(int(cell.Index())).Type,
		Empty:   cell.Empty(),
	}, true
}

// LastError reports the most recent error recorded by this layer.
func (l *Layer) LastError() tlerr.Code {
	return l.errs.Last()
}

// exported for use by the engine package, which owns world position.
func (l *Layer) UpdateWorldPosition(worldX, worldY int32) {
	l.updateWorldPosition(worldX, worldY)
}
