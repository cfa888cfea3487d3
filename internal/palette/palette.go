// Package palette implements indexed-color palettes and the precomputed
// blend lookup tables the layer and sprite renderers consult per pixel.
package palette

import "scanforge/internal/tlerr"

// Color is a packed 32-bit RGBA color, matching PackRGB32 in the reference
// palette implementation.
type Color struct {
	R, G, B, A uint8
}

// Pack returns the 0xAARRGGBB packed representation.
func (c Color) Pack() uint32 {
	return uint32(c.A)<<24 | uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
}

// Palette is a fixed-size table of indexed colors. Entries is capped at 256
// since tile and sprite pixel data is always 8bpp indexed.
type Palette struct {
	entries []Color
	errs    tlerr.Tracker
}

// New creates a palette with the given number of entries (clamped to
// [1,256]), all initialized to opaque black.
func New(entries int) *Palette {
	if entries < 1 {
		entries = 1
	}
	if entries > 256 {
		entries = 256
	}
	p := &Palette{entries: make([]Color, entries)}
	for i := range p.entries {
		p.entries[i].A = 255
	}
	return p
}

// Clone duplicates the palette; the clone shares no backing array with src.
func (p *Palette) Clone() *Palette {
	out := &Palette{entries: make([]Color, len(p.entries))}
	copy(out.entries, p.entries)
	return out
}

// NumEntries returns the palette's entry count.
func (p *Palette) NumEntries() int {
	return len(p.entries)
}

// SetColor sets a single entry. Alpha is forced to 0xFF: palette entries are
// always opaque, matching AddPalette's load-from-file path, which leaves the
// alpha byte out of its RGB triplets entirely. Returns false (and records an
// error) if index is out of range.
func (p *Palette) SetColor(index int, c Color) bool {
	if index < 0 || index >= len(p.entries) {
		p.errs.Set(tlerr.IndexPalette)
		return false
	}
	c.A = 255
	p.entries[index] = c
	p.errs.Set(tlerr.OK)
	return true
}

// Color returns the color at index, or black if out of range.
func (p *Palette) Color(index int) Color {
	if index < 0 || index >= len(p.entries) {
		p.errs.Set(tlerr.IndexPalette)
		return Color{}
	}
	p.errs.Set(tlerr.OK)
	return p.entries[index]
}

// Data returns the raw entry slice for read-only access (e.g. GPU upload).
func (p *Palette) Data() []Color {
	return p.entries
}

// LastError reports the most recent error recorded by this palette.
func (p *Palette) LastError() tlerr.Code {
	return p.errs.Last()
}

// BlendFunc computes one output channel value given the source and
// destination channel values, matching TLN_BlendFunction's signature.
type BlendFunc func(src, dst uint8) uint8

// AddColorRGB adds independent per-channel deltas, the general form of
// TLN_AddPaletteColor.
func (p *Palette) AddColorRGB(start, end int, dr, dg, db uint8) bool {
	if start < 0 {
		start = 0
	}
	if end >= len(p.entries) {
		end = len(p.entries) - 1
	}
	if start > end {
		p.errs.Set(tlerr.IndexPalette)
		return false
	}
	for c := start; c <= end; c++ {
		e := p.entries[c]
		e.R = addClamp(e.R, dr)
		e.G = addClamp(e.G, dg)
		e.B = addClamp(e.B, db)
		p.entries[c] = e
	}
	p.errs.Set(tlerr.OK)
	return true
}

// SubColorRGB subtracts independent per-channel deltas.
func (p *Palette) SubColorRGB(start, end int, dr, dg, db uint8) bool {
	if start < 0 {
		start = 0
	}
	if end >= len(p.entries) {
		end = len(p.entries) - 1
	}
	if start > end {
		p.errs.Set(tlerr.IndexPalette)
		return false
	}
	for c := start; c <= end; c++ {
		e := p.entries[c]
		e.R = subClamp(e.R, dr)
		e.G = subClamp(e.G, dg)
		e.B = subClamp(e.B, db)
		p.entries[c] = e
	}
	p.errs.Set(tlerr.OK)
	return true
}

// ModColorRGB multiplies each channel by a factor, the general form of
// TLN_ModPaletteColor. Factors above 1 scale up, saturating at 255.
func (p *Palette) ModColorRGB(start, end int, fr, fg, fb float64) bool {
	if start < 0 {
		start = 0
	}
	if end >= len(p.entries) {
		end = len(p.entries) - 1
	}
	if start > end {
		p.errs.Set(tlerr.IndexPalette)
		return false
	}
	for c := start; c <= end; c++ {
		e := p.entries[c]
		e.R = modScale(e.R, fr)
		e.G = modScale(e.G, fg)
		e.B = modScale(e.B, fb)
		p.entries[c] = e
	}
	p.errs.Set(tlerr.OK)
	return true
}

func addClamp(v, d uint8) uint8 {
	sum := int(v) + int(d)
	if sum > 255 {
		return 255
	}
	return uint8(sum)
}

func subClamp(v, d uint8) uint8 {
	diff := int(v) - int(d)
	if diff < 0 {
		return 0
	}
	return uint8(diff)
}

func modScale(v uint8, f float64) uint8 {
	scaled := float64(v) * f
	if scaled > 255 {
		return 255
	}
	if scaled < 0 {
		return 0
	}
	return uint8(scaled)
}
