package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"scanforge/internal/palette"
	"scanforge/internal/sprite"
	"scanforge/internal/tileset"
	"scanforge/internal/tilemap"
)

func filledTileset(t *testing.T, colorIdx byte) *tileset.Tileset {
	t.Helper()
	ts := tileset.Create(1, 8, 8, nil)
	pix := make([]byte, 64)
	for i := range pix {
		pix[i] = colorIdx
	}
	ts.SetPixels(1, pix, 8)
	return ts
}

func TestUpdateFrameFillsBackgroundColor(t *testing.T) {
	e := New(16, 8, 1, 1, nil)
	e.SetBGColor(palette.Color{R: 1, G: 2, B: 3, A: 255})

	e.UpdateFrame(1)

	want := (palette.Color{R: 1, G: 2, B: 3, A: 255}).Pack()
	for _, px := range e.RenderTarget() {
		assert.Equal(t, want, px)
	}
}

func TestDrawScanlineAdvancesAndTerminates(t *testing.T) {
	e := New(4, 3, 0, 0, nil)
	e.BeginFrame(1)
	assert.True(t, e.DrawScanline())
	assert.True(t, e.DrawScanline())
	assert.False(t, e.DrawScanline())
	assert.Equal(t, 3, e.Scanline())
}

func TestBeginFrameAutoincrement(t *testing.T) {
	e := New(2, 2, 0, 0, nil)
	e.BeginFrame(0)
	assert.Equal(t, uint32(1), e.Frame())
	e.BeginFrame(0)
	assert.Equal(t, uint32(2), e.Frame())
	e.BeginFrame(10)
	assert.Equal(t, uint32(10), e.Frame())
}

func TestLayerDrawsOverBackground(t *testing.T) {
	e := New(8, 1, 1, 0, nil)
	e.SetBGColor(palette.Color{A: 255})

	ts := filledTileset(t, 1)
	tm := tilemap.Create(1, 1, ts)
	tm.SetTile(0, 0, tilemap.NewTile(1, 0))

	pal := palette.New(4)
	pal.SetColor(1, palette.Color{R: 200, A: 255})

	l := e.Layer(0)
	l.BindTilemap(tm, pal)

	e.UpdateFrame(1)

	assert.Equal(t, pal.Color(1).Pack(), e.RenderTarget()[0])
}

func TestEngineLayerResolvesPaletteSelectorThroughEngineStore(t *testing.T) {
	e := New(16, 1, 1, 0, nil)
	e.SetBGColor(palette.Color{A: 255})

	ts := filledTileset(t, 1)
	tm := tilemap.Create(1, 2, ts)
	tm.SetTile(0, 0, tilemap.NewTile(1, 0))
	tm.SetTile(0, 1, tilemap.NewTile(1, 3)) // selects engine palette id 3

	defaultPal := palette.New(4)
	defaultPal.SetColor(1, palette.Color{R: 200, A: 255})

	altPal := e.CreatePalette(3, 4)
	altPal.SetColor(1, palette.Color{B: 200, A: 255})

	l := e.Layer(0)
	l.BindTilemap(tm, defaultPal)

	e.UpdateFrame(1)

	fb := e.RenderTarget()
	assert.Equal(t, defaultPal.Color(1).Pack(), fb[0], "cell without a selector uses the layer's bound palette")
	assert.Equal(t, altPal.Color(1).Pack(), fb[8], "cell selecting id 3 resolves through the engine's palette registry")
}

func TestEnginePaletteLifecycle(t *testing.T) {
	e := New(4, 4, 0, 0, nil)
	assert.Nil(t, e.Palette(1))

	p := e.CreatePalette(1, 4)
	assert.Same(t, p, e.Palette(1))

	e.DeletePalette(1)
	assert.Nil(t, e.Palette(1))
}

func TestGetAvailableSprite(t *testing.T) {
	e := New(4, 4, 0, 2, nil)
	idx, ok := e.GetAvailableSprite()
	assert.True(t, ok)
	assert.Equal(t, 0, idx)

	e.Sprite(0).Enable()
	e.Sprite(0).SetPicture(filledTileset(t, 1), 1)
	idx, ok = e.GetAvailableSprite()
	assert.True(t, ok)
	assert.Equal(t, 1, idx)
}

func TestEngineSpriteResolvesPaletteIDThroughEngineStore(t *testing.T) {
	e := New(8, 8, 0, 1, nil)
	e.SetBGColor(palette.Color{A: 255})

	altPal := e.CreatePalette(2, 4)
	altPal.SetColor(1, palette.Color{G: 255, A: 255})

	s := e.Sprite(0)
	s.SetPicture(filledTileset(t, 1), 1)
	s.SetPaletteID(2)
	s.SetPosition(0, 0)
	s.Enable()

	e.UpdateFrame(1)

	assert.Equal(t, altPal.Color(1).Pack(), e.RenderTarget()[0])
}

func TestRasterCallbackChangesBackgroundMidFrame(t *testing.T) {
	e := New(1, 64, 0, 0, nil)
	e.SetBGColor(palette.Color{R: 255, A: 255})
	e.SetRasterCallback(func(eng *Engine, scanline int) {
		if scanline == 32 {
			eng.SetBGColor(palette.Color{B: 255, A: 255})
		}
	})

	e.UpdateFrame(1)

	fb := e.RenderTarget()
	red := (palette.Color{R: 255, A: 255}).Pack()
	blue := (palette.Color{B: 255, A: 255}).Pack()
	assert.Equal(t, red, fb[31], "line 31 predates the raster callback's change")
	assert.Equal(t, blue, fb[32], "line 32 is the exact transition line")
	assert.Equal(t, blue, fb[63])
}

func TestSpriteCollisionDoesNotStickAcrossFrames(t *testing.T) {
	e := New(8, 8, 0, 2, nil)
	a := e.Sprite(0)
	b := e.Sprite(1)

	ts := filledTileset(t, 1)
	pal := palette.New(4)
	pal.SetColor(1, palette.Color{R: 255, A: 255})

	a.SetPicture(ts, 1)
	a.SetPalette(pal)
	a.SetPosition(0, 0)
	a.Enable()
	a.EnableCollision(true)

	b.SetPicture(ts, 1)
	b.SetPalette(pal)
	b.SetPosition(0, 0)
	b.Enable()
	b.EnableCollision(true)

	e.UpdateFrame(1)
	assert.True(t, a.Collision())
	assert.True(t, b.Collision())

	// Move sprite B far away: the next frame must not report a stale
	// collision left over from when the two sprites overlapped.
	b.SetPosition(100, 100)
	e.UpdateFrame(2)
	assert.False(t, a.Collision())
	assert.False(t, b.Collision())
}

func TestPriorityTileShowsAboveSprite(t *testing.T) {
	e := New(16, 8, 1, 1, nil)
	e.SetBGColor(palette.Color{A: 255})

	ts := filledTileset(t, 1)
	tm := tilemap.Create(1, 2, ts)
	tm.SetTile(0, 0, tilemap.NewTile(1, 0))
	tm.SetTile(0, 1, tilemap.NewTile(1, tilemap.FlagPriority))

	layerPal := palette.New(4)
	layerPal.SetColor(1, palette.Color{R: 255, A: 255})
	e.Layer(0).BindTilemap(tm, layerPal)

	// Sprite spans x 4..11, straddling the plain tile and the priority tile.
	spritePal := palette.New(4)
	spritePal.SetColor(1, palette.Color{G: 255, A: 255})
	s := e.Sprite(0)
	s.SetPicture(filledTileset(t, 1), 1)
	s.SetPalette(spritePal)
	s.SetPosition(4, 0)
	s.Enable()

	e.UpdateFrame(1)

	fb := e.RenderTarget()
	assert.Equal(t, spritePal.Color(1).Pack(), fb[4], "sprite covers the plain tile")
	assert.Equal(t, layerPal.Color(1).Pack(), fb[8], "priority tile is restored above the sprite")
}

func TestPrioritySpriteShowsAbovePriorityTile(t *testing.T) {
	e := New(8, 8, 1, 1, nil)
	e.SetBGColor(palette.Color{A: 255})

	ts := filledTileset(t, 1)
	tm := tilemap.Create(1, 1, ts)
	tm.SetTile(0, 0, tilemap.NewTile(1, tilemap.FlagPriority))

	layerPal := palette.New(4)
	layerPal.SetColor(1, palette.Color{R: 255, A: 255})
	e.Layer(0).BindTilemap(tm, layerPal)

	spritePal := palette.New(4)
	spritePal.SetColor(1, palette.Color{G: 255, A: 255})
	s := e.Sprite(0)
	s.SetPicture(filledTileset(t, 1), 1)
	s.SetPalette(spritePal)
	s.SetPosition(0, 0)
	s.EnableFlag(sprite.FlagPriority, true)
	s.Enable()

	e.UpdateFrame(1)

	assert.Equal(t, spritePal.Color(1).Pack(), e.RenderTarget()[0])
}

func TestSetRenderTargetRedirectsRendering(t *testing.T) {
	e := New(4, 2, 0, 0, nil)
	e.SetBGColor(palette.Color{R: 9, A: 255})

	assert.False(t, e.SetRenderTarget(nil))
	assert.False(t, e.SetRenderTarget(make([]uint32, 3)), "undersized buffer is rejected")

	buf := make([]uint32, 8)
	assert.True(t, e.SetRenderTarget(buf))

	e.UpdateFrame(1)

	want := (palette.Color{R: 9, A: 255}).Pack()
	for _, px := range buf {
		assert.Equal(t, want, px)
	}
}

func TestMaskedSpriteSkippedInsideMaskSpan(t *testing.T) {
	e := New(8, 8, 0, 1, nil)
	e.SetBGColor(palette.Color{A: 255})
	e.SetSpritesMaskRegion(2, 5)

	pal := palette.New(4)
	pal.SetColor(1, palette.Color{R: 255, A: 255})
	s := e.Sprite(0)
	s.SetPicture(filledTileset(t, 1), 1)
	s.SetPalette(pal)
	s.SetPosition(0, 0)
	s.EnableFlag(sprite.FlagMasked, true)
	s.Enable()

	e.UpdateFrame(1)

	fb := e.RenderTarget()
	drawn := pal.Color(1).Pack()
	bg := (palette.Color{A: 255}).Pack()
	assert.Equal(t, drawn, fb[1*8], "line 1 is outside the mask span")
	assert.Equal(t, bg, fb[2*8], "line 2 starts the inclusive mask span")
	assert.Equal(t, bg, fb[5*8], "line 5 ends the inclusive mask span")
	assert.Equal(t, drawn, fb[6*8])
}

func TestBackLayerPriorityTileSurvivesFrontLayerOverlap(t *testing.T) {
	e := New(8, 8, 2, 0, nil)
	e.SetBGColor(palette.Color{A: 255})

	// Layer 1 (back): priority tile, green.
	backPal := palette.New(4)
	backPal.SetColor(1, palette.Color{G: 255, A: 255})
	backTm := tilemap.Create(1, 1, filledTileset(t, 1))
	backTm.SetTile(0, 0, tilemap.NewTile(1, tilemap.FlagPriority))
	e.Layer(1).BindTilemap(backTm, backPal)

	// Layer 0 (front): opaque non-priority tile, red, covering the same
	// pixels.
	frontPal := palette.New(4)
	frontPal.SetColor(1, palette.Color{R: 255, A: 255})
	frontTm := tilemap.Create(1, 1, filledTileset(t, 1))
	frontTm.SetTile(0, 0, tilemap.NewTile(1, 0))
	e.Layer(0).BindTilemap(frontTm, frontPal)

	e.UpdateFrame(1)

	assert.Equal(t, backPal.Color(1).Pack(), e.RenderTarget()[0],
		"the priority tile is held apart from the main line, so the front layer cannot bury it before the overlay")
}
