// Package tilemap implements the rows x cols grid of tile cells a layer
// scans per scanline, plus the 32-bit cell encoding itself.
package tilemap

// Tile is a 32-bit tilemap cell: low 16 bits are the tile index into the
// bound tileset, high 16 bits are flags. Matches the bit-exact union Tile
// layout: index in [0:16), flags in [16:32).
type Tile uint32

const (
	FlagFlipX    uint16 = 0x8000
	FlagFlipY    uint16 = 0x4000
	FlagRotate   uint16 = 0x2000 // reserved, unsupported by this renderer
	FlagPriority uint16 = 0x1000
	FlagMasked   uint16 = 0x0800
	FlagPalette  uint16 = 0x00FF
)

// NewTile packs an index and flags into a cell.
func NewTile(index uint16, flags uint16) Tile {
	return Tile(uint32(flags)<<16 | uint32(index))
}

// Index returns the tile index portion of the cell.
func (t Tile) Index() uint16 {
	return uint16(t & 0xFFFF)
}

// Flags returns the raw flags portion of the cell.
func (t Tile) Flags() uint16 {
	return uint16(t >> 16)
}

// FlipX reports whether the horizontal-flip flag is set.
func (t Tile) FlipX() bool { return t.Flags()&FlagFlipX != 0 }

// FlipY reports whether the vertical-flip flag is set.
func (t Tile) FlipY() bool { return t.Flags()&FlagFlipY != 0 }

// Priority reports whether this cell draws above sprites.
func (t Tile) Priority() bool { return t.Flags()&FlagPriority != 0 }

// Masked reports whether this cell participates in sprite masking regions.
func (t Tile) Masked() bool { return t.Flags()&FlagMasked != 0 }

// PaletteSelector returns the low byte of the flags, selecting an alternate
// palette for multi-palette tilesets.
func (t Tile) PaletteSelector() uint8 { return uint8(t.Flags() & FlagPalette) }

// WithFlag returns a copy of t with the given flag bit set or cleared.
func (t Tile) WithFlag(flag uint16, set bool) Tile {
	flags := t.Flags()
	if set {
		flags |= flag
	} else {
		flags &^= flag
	}
	return NewTile(t.Index(), flags)
}

// Empty reports whether this cell's index is the tileset's reserved
// sentinel slot 0 (never drawn).
func (t Tile) Empty() bool {
	return t.Index() == 0
}
