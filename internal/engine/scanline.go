package engine

import (
	"scanforge/internal/sprite"
	"scanforge/internal/tlog"
)

// BeginFrame starts a new frame. frame == 0 means autoincrement: the
// engine bumps its own internal counter; a nonzero value is stored
// verbatim, matching BeginFrame's exact "0 = autoincrement" contract.
func (e *Engine) BeginFrame(frame uint32) {
	if frame == 0 {
		e.frame++
	} else {
		e.frame = frame
	}
	e.scanline = 0
	// Collision is a per-frame fact ("did S overlap another sprite during
	// this frame's render"), not a sticky latch: clear it here so a sprite
	// that moved apart since the last frame reports no collision.
	for _, s := range e.sprites {
		s.SetCollision(false)
	}
}

// DrawScanline renders the current scanline and advances the scanline
// counter. Returns false once the frame is complete (scanline reached
// height), matching TLN_UpdateFrame's "loop DrawScanline until false" loop.
//
// Per-line order, matching the reference DrawScanline: raster callback,
// background fill, priority/collision buffer reset, background layers
// back-to-front, non-priority sprites in index order, priority layers,
// priority-tile overlay, priority sprites, dirty clear, line increment.
func (e *Engine) DrawScanline() bool {
	if e.scanline >= e.height {
		return false
	}
	y := e.scanline
	dst := e.framebuffer[y*e.width : (y+1)*e.width]

	if e.rasterCB != nil {
		e.rasterCB(e, y)
	}

	e.fillBackground(dst, y)

	for i := range e.priorityPixels {
		e.priorityPixels[i] = 0
		e.collisionIdx[i] = -1
	}

	// Background layers, back to front: highest index furthest back.
	// Priority-flagged cells land in the priority scratch line instead of
	// dst, so a closer non-priority draw at the same column cannot bury
	// them before the overlay pass.
	for i := len(e.layers) - 1; i >= 0; i-- {
		l := e.layers[i]
		if !l.Ok() || l.Priority() {
			continue
		}
		table := e.blend.Select(l.BlendMode())
		l.DrawScanline(y, dst, e.priorityPixels, table)
	}

	for idx, s := range e.sprites {
		if !s.Enabled() || s.Flags()&sprite.FlagPriority != 0 {
			continue // priority sprites draw in the later pass
		}
		if s.Masked() && e.maskedAt(y) {
			continue
		}
		table := e.blend.Select(s.BlendMode())
		s.DrawScanline(y, dst, e.worldX, e.worldY, e.collisionIdx, idx, e.sprites, table)
	}

	// Priority layers draw directly over the sprites; the whole layer is
	// already in front, so per-cell routing to the priority line would be
	// redundant.
	for i := len(e.layers) - 1; i >= 0; i-- {
		l := e.layers[i]
		if !l.Ok() || !l.Priority() {
			continue
		}
		table := e.blend.Select(l.BlendMode())
		l.DrawScanline(y, dst, nil, table)
	}

	// Priority-tile overlay: wherever the priority scratch line holds a
	// pixel, it overwrites the main line, above sprites and priority layers.
	for i := range dst {
		if e.priorityPixels[i] != 0 {
			dst[i] = e.priorityPixels[i]
		}
	}

	// Priority sprites draw last so they are visible above everything,
	// including the priority-tile overlay.
	for idx, s := range e.sprites {
		if !s.Enabled() || s.Flags()&sprite.FlagPriority == 0 {
			continue
		}
		table := e.blend.Select(s.BlendMode())
		s.DrawScanline(y, dst, e.worldX, e.worldY, e.collisionIdx, idx, e.sprites, table)
	}

	for _, l := range e.layers {
		l.ClearDirty()
	}
	for _, s := range e.sprites {
		s.ClearDirty()
	}

	e.logf(tlog.LevelTrace, "scanline %d drawn", y)
	e.scanline++
	return e.scanline < e.height
}

// UpdateFrame draws every scanline of a complete frame, matching
// TLN_UpdateFrame. frame == 0 autoincrements per BeginFrame's contract.
func (e *Engine) UpdateFrame(frame uint32) {
	e.BeginFrame(frame)
	for e.DrawScanline() {
	}
	if e.frameCB != nil {
		e.frameCB(e)
	}
}

func (e *Engine) fillBackground(dst []uint32, y int) {
	if !e.bgEnabled {
		return
	}
	c := e.bgColor.Pack()
	for i := range dst {
		dst[i] = c
	}
}

// maskedAt reports whether FLAG_MASKED sprites are suppressed on this
// scanline: inside the inclusive [maskTop, maskBottom] span set by
// SetSpritesMaskRegion they are not drawn.
func (e *Engine) maskedAt(y int) bool {
	return e.maskActive && y >= e.maskTop && y <= e.maskBottom
}
