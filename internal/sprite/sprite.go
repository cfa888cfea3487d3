// Package sprite implements world/screen-space sprites: pivoted, optionally
// scaled and flipped tile images with per-pixel collision, matching the
// reference Sprite object and its TLN_SetSprite*/TLN_EnableSprite* API.
package sprite

import (
	"scanforge/internal/palette"
	"scanforge/internal/tileset"
	"scanforge/internal/tlerr"
)

const (
	FlagFlipX    uint32 = 0x8000
	FlagFlipY    uint32 = 0x4000
	FlagPriority uint32 = 0x1000
	FlagMasked   uint32 = 0x0800
)

// Sprite is a single movable image: a reference into a tileset (the
// "picture"), screen position, optional world position, pivot, scale,
// flags and collision state.
type Sprite struct {
	ts      *tileset.Tileset
	picture int
	pal     *palette.Palette
	paletteID    uint8
	usePaletteID bool
	store        *palette.Store // process-wide registry, see SetPaletteStore

	x, y int32 // screen space

	worldX, worldY int32
	worldSpace     bool

	pivotX, pivotY float64 // normalized [0,1], default (0,0) = top-left
	scaleX, scaleY float64

	blendMode palette.Mode
	flags     uint32

	enabled     bool
	doCollision bool
	collision   bool

	dirty bool
	errs  tlerr.Tracker
}

// New creates a disabled sprite with default unit scale and top-left pivot.
func New() *Sprite {
	return &Sprite{scaleX: 1, scaleY: 1}
}

// SetPicture binds the tileset entry this sprite draws, matching
// TLN_SetSpritePicture. The tile's own dimensions become the sprite's
// width/height.
func (s *Sprite) SetPicture(ts *tileset.Tileset, entry int) bool {
	if ts == nil || entry < 0 || entry >= ts.NumTiles() {
		s.errs.Set(tlerr.IndexSprite)
		return false
	}
	s.ts = ts
	s.picture = entry
	s.dirty = true
	s.errs.Set(tlerr.OK)
	return true
}

// Picture returns the bound tileset entry index.
func (s *Sprite) Picture() int { return s.picture }

// SetPalette sets the palette used to resolve this sprite's pixel indices
// directly, matching TLN_SetSpritePalette. Clears any palette id previously
// set by SetPaletteID.
func (s *Sprite) SetPalette(p *palette.Palette) {
	s.pal = p
	s.usePaletteID = false
	s.dirty = true
}

// SetPaletteID binds this sprite to a palette by its process-wide
// identifier instead of a direct pointer; it is resolved through the store
// wired by SetPaletteStore at every draw, so replacing the registered
// palette at id takes effect immediately without rebinding the sprite.
func (s *Sprite) SetPaletteID(id uint8) {
	s.paletteID = id
	s.usePaletteID = true
	s.dirty = true
}

// SetPaletteStore wires the engine's process-wide palette table into this
// sprite for SetPaletteID resolution. Called by engine.New.
func (s *Sprite) SetPaletteStore(store *palette.Store) { s.store = store }

// Palette returns the sprite's palette as it will actually be drawn with:
// the store-resolved palette if SetPaletteID was used and the id is
// currently registered, otherwise the directly-bound palette.
func (s *Sprite) Palette() *palette.Palette {
	if s.usePaletteID && s.store != nil {
		if p := s.store.Get(s.paletteID); p != nil {
			return p
		}
	}
	return s.pal
}

// Width and Height report the sprite's pixel dimensions, taken from the
// bound tile, or 0 if no picture is bound.
func (s *Sprite) Width() int {
	if s.ts == nil {
		return 0
	}
	return s.ts.Width()
}

func (s *Sprite) Height() int {
	if s.ts == nil {
		return 0
	}
	return s.ts.Height()
}

// SetPosition sets screen-space position, matching TLN_SetSpritePosition.
func (s *Sprite) SetPosition(x, y int32) {
	s.x, s.y = x, y
	s.worldSpace = false
	s.dirty = true
}

// SetWorldPosition sets world-space position, matching
// TLN_SetSpriteWorldPosition; the engine resolves this to screen space
// each frame using its own world scroll position.
func (s *Sprite) SetWorldPosition(x, y int32) {
	s.worldX, s.worldY = x, y
	s.worldSpace = true
	s.dirty = true
}

// WorldSpace reports whether this sprite is positioned in world space.
func (s *Sprite) WorldSpace() bool { return s.worldSpace }

// ResolveScreenPosition computes the effective screen position given the
// engine's current world scroll offset, used by the compositor; for
// screen-space sprites the world offset is ignored.
func (s *Sprite) ResolveScreenPosition(worldScrollX, worldScrollY int32) (int32, int32) {
	if !s.worldSpace {
		return s.x, s.y
	}
	return s.worldX - worldScrollX, s.worldY - worldScrollY
}

// SetPivot sets the normalized pivot point (0,0 = top-left, 0.5,0.5 =
// center, 1,1 = bottom-right), matching TLN_SetSpritePivot. The sprite's
// position addresses the pivot, and scaling grows around it: a centered
// pivot keeps a scaled sprite centered on its position instead of growing
// down-right from the top-left corner.
func (s *Sprite) SetPivot(px, py float64) {
	s.pivotX, s.pivotY = px, py
	s.dirty = true
}

// screenRect derives the destination rectangle actually drawn: the
// resolved screen position is where the pivot lands, so the top-left
// corner backs off by the pivot fraction of the scaled size. The default
// (0,0) pivot leaves the position as the top-left corner.
func (s *Sprite) screenRect(worldScrollX, worldScrollY int32) (x0, y0, w, h int) {
	px, py := s.ResolveScreenPosition(worldScrollX, worldScrollY)
	w = int(float64(s.Width()) * s.scaleX)
	h = int(float64(s.Height()) * s.scaleY)
	x0 = int(px) - int(s.pivotX*float64(w))
	y0 = int(py) - int(s.pivotY*float64(h))
	return x0, y0, w, h
}

// SetScaling sets a per-axis scale factor, matching TLN_SetSpriteScaling.
func (s *Sprite) SetScaling(sx, sy float64) {
	if sx == 0 {
		sx = 1
	}
	if sy == 0 {
		sy = 1
	}
	s.scaleX, s.scaleY = sx, sy
	s.dirty = true
}

// ResetScaling restores unit scale, matching TLN_ResetSpriteScaling.
func (s *Sprite) ResetScaling() {
	s.scaleX, s.scaleY = 1, 1
	s.dirty = true
}

// Scale returns the current per-axis scale factors.
func (s *Sprite) Scale() (float64, float64) { return s.scaleX, s.scaleY }

// Pivot returns the current normalized pivot point.
func (s *Sprite) Pivot() (float64, float64) { return s.pivotX, s.pivotY }

// SetBlendMode selects a blend table for this sprite's pixels, matching
// TLN_SetSpriteBlendMode.
func (s *Sprite) SetBlendMode(mode palette.Mode) { s.blendMode = mode }

// BlendMode returns the active blend mode.
func (s *Sprite) BlendMode() palette.Mode { return s.blendMode }

// EnableFlag sets or clears one of FlagFlipX/FlagFlipY/FlagPriority/FlagMasked, matching
// the generic TLN_EnableSpriteFlag setter.
func (s *Sprite) EnableFlag(flag uint32, enable bool) {
	if enable {
		s.flags |= flag
	} else {
		s.flags &^= flag
	}
}

// Flags returns the raw flag bits.
func (s *Sprite) Flags() uint32 { return s.flags }

// FlipX/FlipY/Masked report individual flag bits.
func (s *Sprite) FlipX() bool  { return s.flags&FlagFlipX != 0 }
func (s *Sprite) FlipY() bool  { return s.flags&FlagFlipY != 0 }
func (s *Sprite) Masked() bool { return s.flags&FlagMasked != 0 }

// Enable/Disable toggle whether the compositor draws this sprite at all,
// matching TLN_EnableSprite/TLN_DisableSprite.
func (s *Sprite) Enable()  { s.enabled = true }
func (s *Sprite) Disable() { s.enabled = false; s.ts = nil }

// Enabled reports whether this sprite slot is currently in use.
func (s *Sprite) Enabled() bool { return s.enabled && s.ts != nil }

// EnableCollision turns on per-pixel collision tracking for this sprite,
// matching TLN_EnableSpriteCollision.
func (s *Sprite) EnableCollision(enable bool) { s.doCollision = enable }

// CollisionEnabled reports whether collision tracking is active.
func (s *Sprite) CollisionEnabled() bool { return s.doCollision }

// Collision reports whether this sprite overlapped another opaque sprite
// pixel during the last frame, matching TLN_GetSpriteCollision.
func (s *Sprite) Collision() bool { return s.collision }

// SetCollision is called by the compositor's collision pass.
func (s *Sprite) SetCollision(v bool) { s.collision = v }

// State mirrors TLN_SpriteState: a snapshot of a sprite's screen geometry
// and flags for external inspection (e.g. a devkit).
type State struct {
	X, Y, W, H int
	Flags      uint32
	Picture    int
	Enabled    bool
	Collision  bool
}

// GetState builds a State snapshot, matching TLN_GetSpriteState. X/Y/W/H
// describe the rectangle actually drawn, with pivot and scale applied.
func (s *Sprite) GetState(worldScrollX, worldScrollY int32) State {
	x0, y0, w, h := s.screenRect(worldScrollX, worldScrollY)
	return State{
		X: x0, Y: y0,
		W: w, H: h,
		Flags: s.flags, Picture: s.picture,
		Enabled: s.Enabled(), Collision: s.collision,
	}
}

// Dirty reports whether sprite state changed since the last frame the
// compositor consumed it.
func (s *Sprite) Dirty() bool { return s.dirty }

// ClearDirty resets the dirty flag.
func (s *Sprite) ClearDirty() { s.dirty = false }

// Tileset returns the bound tileset (spriteset).
func (s *Sprite) Tileset() *tileset.Tileset { return s.ts }

// LastError reports the most recent error recorded by this sprite.
func (s *Sprite) LastError() tlerr.Code { return s.errs.Last() }
