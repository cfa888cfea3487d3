package tilemap

import (
	"scanforge/internal/tileset"
	"scanforge/internal/tlerr"
)

// Tilemap is a rows x cols grid of Tile cells plus the tileset it indexes
// into. maxindex tracks the highest index ever written, validated against
// the tileset's tile count when a tilemap is bound to a layer.
type Tilemap struct {
	rows, cols int
	cells      []Tile
	tileset    *tileset.Tileset
	maxIndex   uint16
	bgColor    palColor
	visible    bool
	errs       tlerr.Tracker
}

// palColor is a tiny local alias so this package doesn't need to import
// the palette package just to carry an optional background color hint.
type palColor struct {
	R, G, B, A uint8
	set        bool
}

// Create allocates a rows x cols tilemap with every cell set to the empty
// sentinel (index 0, no flags).
func Create(rows, cols int, ts *tileset.Tileset) *Tilemap {
	return &Tilemap{
		rows:    rows,
		cols:    cols,
		cells:   make([]Tile, rows*cols),
		tileset: ts,
		visible: true,
	}
}

// Clone deep-copies the tilemap; the clone's cell grid shares no backing
// array with the source, but both reference the same tileset.
func (m *Tilemap) Clone() *Tilemap {
	out := &Tilemap{
		rows:     m.rows,
		cols:     m.cols,
		tileset:  m.tileset,
		maxIndex: m.maxIndex,
		bgColor:  m.bgColor,
		visible:  m.visible,
	}
	out.cells = append([]Tile(nil), m.cells...)
	return out
}

// Rows returns the number of tile rows.
func (m *Tilemap) Rows() int { return m.rows }

// Cols returns the number of tile columns.
func (m *Tilemap) Cols() int { return m.cols }

// Tileset returns the bound tileset.
func (m *Tilemap) Tileset() *tileset.Tileset { return m.tileset }

// MaxIndex returns the highest tile index ever written to this tilemap,
// used by Layer.BindTilemap to validate compatibility with a tileset.
func (m *Tilemap) MaxIndex() uint16 { return m.maxIndex }

// At returns the cell at (row,col), or the empty sentinel if out of range.
func (m *Tilemap) At(row, col int) Tile {
	if row < 0 || row >= m.rows || col < 0 || col >= m.cols {
		return Tile(0)
	}
	return m.cells[row*m.cols+col]
}

// SetTile writes a cell at (row,col) and updates maxIndex.
func (m *Tilemap) SetTile(row, col int, t Tile) bool {
	if row < 0 || row >= m.rows || col < 0 || col >= m.cols {
		m.errs.Set(tlerr.IndexLayer)
		return false
	}
	m.cells[row*m.cols+col] = t
	if idx := t.Index(); idx > m.maxIndex {
		m.maxIndex = idx
	}
	m.errs.Set(tlerr.OK)
	return true
}

// CopyTiles blits a rows x cols rectangular region from src starting at
// (srcRow,srcCol) into dst starting at (dstRow,dstCol), clipped to both
// tilemaps' bounds. Matches TLN_CopyTiles; no pixel or tileset conversion
// is performed, the two tilemaps are assumed to share a compatible tileset.
func CopyTiles(dst *Tilemap, dstRow, dstCol int, src *Tilemap, srcRow, srcCol, rows, cols int) bool {
	if dst == nil || src == nil {
		return false
	}
	for r := 0; r < rows; r++ {
		sr, dr := srcRow+r, dstRow+r
		if sr < 0 || sr >= src.rows || dr < 0 || dr >= dst.rows {
			continue
		}
		for c := 0; c < cols; c++ {
			sc, dc := srcCol+c, dstCol+c
			if sc < 0 || sc >= src.cols || dc < 0 || dc >= dst.cols {
				continue
			}
			cell := src.cells[sr*src.cols+sc]
			dst.cells[dr*dst.cols+dc] = cell
			if idx := cell.Index(); idx > dst.maxIndex {
				dst.maxIndex = idx
			}
		}
	}
	return true
}

// SetBGColor records the background fill color associated with this
// tilemap, consulted by TLN_SetBGColorFromTilemap.
func (m *Tilemap) SetBGColor(r, g, b, a uint8) {
	m.bgColor = palColor{R: r, G: g, B: b, A: a, set: true}
}

// BGColor returns this tilemap's background color and whether one was set.
func (m *Tilemap) BGColor() (r, g, b, a uint8, ok bool) {
	return m.bgColor.R, m.bgColor.G, m.bgColor.B, m.bgColor.A, m.bgColor.set
}

// SetVisible sets the tilemap's own visible flag. Layer.BindTilemap reads it
// into the layer's ok flag, so a layer bound to an invisible tilemap is not
// drawn, independent of the layer's enabled state.
func (m *Tilemap) SetVisible(v bool) { m.visible = v }

// Visible reports the tilemap's own visibility flag.
func (m *Tilemap) Visible() bool { return m.visible }

// LastError reports the most recent error recorded by this tilemap.
func (m *Tilemap) LastError() tlerr.Code {
	return m.errs.Last()
}
