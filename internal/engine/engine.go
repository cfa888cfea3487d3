// Package engine owns the scene: framebuffer, layer and sprite arrays,
// palette blend bank, raster/frame callbacks and world scroll position, and
// drives the per-scanline compositor. Matches the reference TLN_Engine
// context and its TLN_Init/TLN_UpdateFrame/TLN_SetRasterCallback surface.
package engine

import (
	"scanforge/internal/layer"
	"scanforge/internal/palette"
	"scanforge/internal/sprite"
	"scanforge/internal/tilemap"
	"scanforge/internal/tlerr"
	"scanforge/internal/tlog"
)

// RasterCallback runs once per scanline, before that line is rendered, with
// full mutation rights over layers/sprites/palettes (but not the
// framebuffer itself), matching TLN_SDLCallback(int scanline).
type RasterCallback func(e *Engine, scanline int)

// FrameCallback runs once after a full frame has been rendered.
type FrameCallback func(e *Engine)

// Engine is the top-level rasterizer context: one framebuffer, a fixed set
// of layers and sprites, and the scanline state machine that fills them in.
type Engine struct {
	width, height int

	framebuffer []uint32
	scanline    int
	frame       uint32

	bgColor   palette.Color
	bgTilemap *tilemap.Tilemap
	bgEnabled bool

	layers  []*layer.Layer
	sprites []*sprite.Sprite

	blend    *palette.Bank
	palettes *palette.Store

	worldX, worldY int32

	maskTop, maskBottom int
	maskActive          bool

	rasterCB RasterCallback
	frameCB  FrameCallback

	priorityPixels []uint32
	collisionIdx   []int

	log  *tlog.Logger
	errs tlerr.Tracker
}

// New allocates an engine with the given framebuffer size and a fixed
// number of layer/sprite slots, matching TLN_Init's allocation of scratch
// buffers and default object arrays.
func New(width, height, numLayers, numSprites int, logger *tlog.Logger) *Engine {
	e := &Engine{
		width:    width,
		height:   height,
		blend:    palette.NewBank(),
		palettes: palette.NewStore(),
		log:      logger,

		framebuffer:    make([]uint32, width*height),
		priorityPixels: make([]uint32, width),
		collisionIdx:   make([]int, width),

		bgEnabled: true,
	}
	for i := 0; i < numLayers; i++ {
		l := layer.New()
		l.SetPaletteStore(e.palettes)
		e.layers = append(e.layers, l)
	}
	for i := 0; i < numSprites; i++ {
		s := sprite.New()
		s.SetPaletteStore(e.palettes)
		e.sprites = append(e.sprites, s)
	}
	e.logf(tlog.LevelInfo, "engine initialized: %dx%d, %d layers, %d sprites", width, height, numLayers, numSprites)
	return e
}

func (e *Engine) logf(level tlog.LogLevel, format string, args ...interface{}) {
	if e.log == nil {
		return
	}
	e.log.Logf(tlog.ComponentEngine, level, format, args...)
}

// Width and Height return the framebuffer dimensions.
func (e *Engine) Width() int  { return e.width }
func (e *Engine) Height() int { return e.height }

// NumLayers and NumSprites return the fixed slot counts.
func (e *Engine) NumLayers() int  { return len(e.layers) }
func (e *Engine) NumSprites() int { return len(e.sprites) }

// Layer returns the layer at index, or nil if out of range.
func (e *Engine) Layer(index int) *layer.Layer {
	if index < 0 || index >= len(e.layers) {
		e.errs.Set(tlerr.IndexLayer)
		return nil
	}
	return e.layers[index]
}

// Sprite returns the sprite at index, or nil if out of range.
func (e *Engine) Sprite(index int) *sprite.Sprite {
	if index < 0 || index >= len(e.sprites) {
		e.errs.Set(tlerr.IndexSprite)
		return nil
	}
	return e.sprites[index]
}

// CreatePalette registers a new palette with the given entry count at id in
// the engine's process-wide palette table, discarding whatever was
// previously registered there, matching TLN_CreatePalette. Layer cells and
// sprites that select this id (tilemap.Tile.PaletteSelector,
// sprite.Sprite.SetPaletteID) resolve it at draw time.
func (e *Engine) CreatePalette(id uint8, entries int) *palette.Palette {
	return e.palettes.Create(id, entries)
}

// RegisterPalette installs an already-built palette at id in the engine's
// palette table, matching TLN_SetPalette.
func (e *Engine) RegisterPalette(id uint8, p *palette.Palette) {
	e.palettes.Register(id, p)
}

// Palette returns the palette registered at id, or nil if none is
// registered, matching TLN_GetPalette's lookup-by-identifier contract.
func (e *Engine) Palette(id uint8) *palette.Palette {
	return e.palettes.Get(id)
}

// DeletePalette removes the palette registered at id, matching
// TLN_DeletePalette.
func (e *Engine) DeletePalette(id uint8) {
	e.palettes.Delete(id)
}

// GetAvailableSprite returns the index of the first disabled sprite slot,
// matching TLN_GetAvailableSprite. ok is false if every slot is in use.
func (e *Engine) GetAvailableSprite() (index int, ok bool) {
	for i, s := range e.sprites {
		if !s.Enabled() {
			return i, true
		}
	}
	return 0, false
}

// SetBGColor sets the flat fallback color drawn where no layer covers a
// pixel, matching TLN_SetBGColor.
func (e *Engine) SetBGColor(c palette.Color) {
	e.bgColor = c
	e.bgTilemap = nil
	e.bgEnabled = true
}

// SetBGColorFromTilemap sources the background fill from a tilemap's own
// declared background color, matching TLN_SetBGColorFromTilemap.
func (e *Engine) SetBGColorFromTilemap(tm *tilemap.Tilemap) {
	e.bgTilemap = tm
	if r, g, b, a, ok := tm.BGColor(); ok {
		e.bgColor = palette.Color{R: r, G: g, B: b, A: a}
	}
	e.bgEnabled = true
}

// DisableBGColor turns off the background fill, leaving uncovered pixels
// at whatever the framebuffer held from the previous frame, matching
// TLN_DisableBGColor.
func (e *Engine) DisableBGColor() {
	e.bgEnabled = false
}

// SetRasterCallback installs a per-scanline callback, matching
// TLN_SetRasterCallback. Pass nil to remove it.
func (e *Engine) SetRasterCallback(cb RasterCallback) { e.rasterCB = cb }

// SetFrameCallback installs a per-frame callback, matching
// TLN_SetFrameCallback. Pass nil to remove it.
func (e *Engine) SetFrameCallback(cb FrameCallback) { e.frameCB = cb }

// SetCustomBlendFunction installs a user blend function as BlendCustom,
// matching TLN_SetCustomBlendFunction.
func (e *Engine) SetCustomBlendFunction(fn palette.BlendFunc) {
	e.blend.SetCustomTable(fn)
}

// SetWorldPosition moves the whole scene in world space; each layer's
// effective scroll is then this position scaled by its own parallax
// factor, matching TLN_SetWorldPosition.
func (e *Engine) SetWorldPosition(x, y int32) {
	e.worldX, e.worldY = x, y
	for _, l := range e.layers {
		l.UpdateWorldPosition(x, y)
	}
}

// SetSpritesMaskRegion restricts FLAG_MASKED sprite masking to scanlines
// [top,bottom], matching TLN_SetSpritesMaskRegion. Pass (0,0) to disable.
func (e *Engine) SetSpritesMaskRegion(top, bottom int) {
	e.maskTop, e.maskBottom = top, bottom
	e.maskActive = bottom > top
}

// RenderTarget returns the framebuffer, one packed RGBA uint32 per pixel,
// row-major.
func (e *Engine) RenderTarget() []uint32 { return e.framebuffer }

// SetRenderTarget redirects rendering into a caller-supplied buffer, one
// packed RGBA uint32 per pixel, row-major, width*height entries. The
// reference TLN_SetRenderTarget takes a raw pointer plus a byte pitch; a Go
// port has no stride arithmetic to mirror, so a flat slice sized to the
// framebuffer is the whole contract. Returns false (recording NullPointer
// or WrongSize) without changing the target on a bad buffer.
func (e *Engine) SetRenderTarget(data []uint32) bool {
	if data == nil {
		e.errs.Set(tlerr.NullPointer)
		return false
	}
	if len(data) < e.width*e.height {
		e.errs.Set(tlerr.WrongSize)
		return false
	}
	e.framebuffer = data[:e.width*e.height]
	e.errs.Set(tlerr.OK)
	return true
}

// Frame returns the current frame counter.
func (e *Engine) Frame() uint32 { return e.frame }

// Scanline returns the scanline currently being (or about to be) rendered.
func (e *Engine) Scanline() int { return e.scanline }

// LastError reports the most recent error recorded by this engine.
func (e *Engine) LastError() tlerr.Code { return e.errs.Last() }
