// Package blit implements the blitter family: the inner-loop pixel copy
// routines the layer and sprite renderers select between based on whether
// the source has color-keyed transparency, is scaled, and/or is blended.
// Mirrors GetBlitter(bpp, key, scaling, blend) and the BlitColor /
// BlitMosaicSolid / BlitMosaicBlend routines in the reference rasterizer.
package blit

import (
	"scanforge/internal/mathutil"
	"scanforge/internal/palette"
)

// Func composites width source pixels (8bpp palette indices) onto dst,
// starting at dst[0], advancing the source read position by dx (fixed
// point) per destination pixel; dx == 1<<16 for unscaled blits. palID
// selects which palette entries to resolve indices through. table is the
// blend table to apply, or nil for opaque replace.
type Func func(src []byte, palID *palette.Palette, table *palette.Table, dst []uint32, width int, dx mathutil.Fixed)

// Keyed draws src onto dst, skipping index-0 (transparent) source pixels.
// Used for every sprite draw and for layer tile lines the tileset reports
// as containing transparency, matching the color-keyed blitters.
func Keyed(src []byte, pal *palette.Palette, table *palette.Table, dst []uint32, width int, dx mathutil.Fixed) {
	pos := mathutil.Fixed(0)
	for i := 0; i < width && i < len(dst); i++ {
		srcIdx := pos.ToInt()
		pos += dx
		if srcIdx < 0 || srcIdx >= len(src) {
			continue
		}
		idx := src[srcIdx]
		if idx == 0 {
			continue
		}
		dst[i] = blendPixel(pal.Color(int(idx)), dst[i], table)
	}
}

// Solid draws src onto dst without any transparency test, used for opaque
// backgrounds (e.g. tilesets the caller knows contain no index-0 pixels).
func Solid(src []byte, pal *palette.Palette, table *palette.Table, dst []uint32, width int, dx mathutil.Fixed) {
	pos := mathutil.Fixed(0)
	for i := 0; i < width && i < len(dst); i++ {
		srcIdx := pos.ToInt()
		pos += dx
		if srcIdx < 0 || srcIdx >= len(src) {
			continue
		}
		dst[i] = blendPixel(pal.Color(int(src[srcIdx])), dst[i], table)
	}
}

func blendPixel(c palette.Color, dstPacked uint32, table *palette.Table) uint32 {
	if table == nil {
		return c.Pack()
	}
	dr := uint8(dstPacked >> 16)
	dg := uint8(dstPacked >> 8)
	db := uint8(dstPacked)
	return palette.Color{
		R: table.Blend(c.R, dr),
		G: table.Blend(c.G, dg),
		B: table.Blend(c.B, db),
		A: 255,
	}.Pack()
}

// Select returns the blitter variant for the keyed flag, the keyed part of
// SelectBlitter's bpp/keyed/scaling decision. Scaling needs no separate
// variant since Func already takes a fixed-point step, and blending is
// chosen by passing a non-nil table, so keyed is the only parameter.
func Select(keyed bool) Func {
	if keyed {
		return Keyed
	}
	return Solid
}
