// Command scenekit is a small Fyne desktop devkit around internal/engine:
// a palette grid editor, a tileset pixel viewer, and a live preview of the
// running scene. Like cmd/sdlviewer, this is host code: the window,
// widgets and ticker all live outside the rasterizer core.
package main

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/alecthomas/kong"

	"scanforge/internal/engine"
	"scanforge/internal/palette"
	"scanforge/internal/sceneconfig"
	"scanforge/internal/tileset"
	"scanforge/internal/tilemap"
)

var CLI struct {
	Scene string `help:"Path to a TOML scene description." type:"path"`
	Scale int    `help:"Live preview pixel scale." default:"3"`
}

func main() {
	kong.Parse(&CLI,
		kong.Name("scenekit"),
		kong.Description("Palette/tileset devkit with a live internal/engine preview."),
		kong.UsageOnError(),
	)

	scene := sceneconfig.Default()
	if CLI.Scene != "" {
		loaded, err := sceneconfig.Load(CLI.Scene)
		if err != nil {
			fmt.Fprintf(os.Stderr, "scenekit: %v\n", err)
			os.Exit(1)
		}
		scene = loaded
	}

	e, ts, pal := buildEditableScene(scene)

	a := app.New()
	w := a.NewWindow("scenekit")

	preview := newLivePreview(e, CLI.Scale)
	paletteGrid := newPaletteEditor(pal, func() { preview.Refresh() })
	tileViewer := newTileViewer(ts, 1)

	content := container.NewHSplit(
		container.NewVBox(widget.NewLabel("Palette"), paletteGrid),
		container.NewHSplit(
			container.NewVBox(widget.NewLabel("Tile #1"), tileViewer),
			container.NewVBox(widget.NewLabel("Live preview"), preview),
		),
	)
	w.SetContent(content)
	w.Resize(fyne.NewSize(900, 500))

	go runPreviewTicker(e, preview)

	w.ShowAndRun()
}

// buildEditableScene mirrors cmd/sdlviewer's demo scene but keeps direct
// handles to the tileset and palette so the devkit widgets can edit them
// live.
func buildEditableScene(scene sceneconfig.Scene) (*engine.Engine, *tileset.Tileset, *palette.Palette) {
	e := engine.New(scene.Width, scene.Height, 1, 0, nil)

	ts := tileset.Create(1, 8, 8, nil)
	pix := make([]byte, 64)
	for i := range pix {
		pix[i] = 1
	}
	ts.SetPixels(1, pix, 8)

	cols, rows := scene.Width/8, scene.Height/8
	tm := tilemap.Create(rows, cols, ts)
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			tm.SetTile(row, col, tilemap.NewTile(1, 0))
		}
	}

	pal := palette.New(16)
	for i := 0; i < 16; i++ {
		pal.SetColor(i, palette.Color{R: uint8(i * 16), G: uint8(255 - i*16), B: 128, A: 255})
	}

	e.Layer(0).BindTilemap(tm, pal)
	return e, ts, pal
}

// runPreviewTicker advances the engine one frame roughly 30 times a second
// and asks the preview raster to redraw: polling-refresh rather than
// event-driven, since the engine has no change notification.
func runPreviewTicker(e *engine.Engine, preview *canvas.Raster) {
	ticker := time.NewTicker(33 * time.Millisecond)
	defer ticker.Stop()
	var frame uint32
	for range ticker.C {
		frame++
		e.UpdateFrame(frame)
		preview.Refresh()
	}
}

// newLivePreview returns a canvas.Raster that reads the engine's
// framebuffer on every redraw, the same approach TileViewer uses for its
// VRAM grid: a pull-based raster function rather than a pushed image.
func newLivePreview(e *engine.Engine, scale int) *canvas.Raster {
	if scale < 1 {
		scale = 1
	}
	raster := canvas.NewRaster(func(w, h int) image.Image {
		img := image.NewRGBA(image.Rect(0, 0, e.Width(), e.Height()))
		fb := e.RenderTarget()
		for y := 0; y < e.Height(); y++ {
			for x := 0; x < e.Width(); x++ {
				c := fb[y*e.Width()+x]
				img.Set(x, y, color.RGBA{
					R: uint8(c >> 16),
					G: uint8(c >> 8),
					B: uint8(c),
					A: uint8(c >> 24),
				})
			}
		}
		return img
	})
	raster.SetMinSize(fyne.NewSize(float32(e.Width()*scale), float32(e.Height()*scale)))
	return raster
}

// newPaletteEditor lays out one button per palette entry; clicking an entry
// nudges it through Palette.AddColorRGB, wired directly to the same
// operation TLN_AddPaletteColor exposes, then calls onChange so the live
// preview picks up the edit on its next tick.
func newPaletteEditor(pal *palette.Palette, onChange func()) fyne.CanvasObject {
	grid := container.NewGridWithColumns(8)
	for i := 0; i < pal.NumEntries(); i++ {
		idx := i
		swatch := canvas.NewRectangle(toNRGBA(pal.Color(idx)))
		swatch.SetMinSize(fyne.NewSize(24, 24))
		btn := widget.NewButton("", func() {
			pal.AddColorRGB(idx, idx, 16, 16, 16)
			swatch.FillColor = toNRGBA(pal.Color(idx))
			swatch.Refresh()
			onChange()
		})
		grid.Add(container.NewStack(swatch, btn))
	}
	return grid
}

func toNRGBA(c palette.Color) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// newTileViewer renders one tile's pixels as a raster, sized up by a fixed
// pixel-per-cell factor so individual indices are visible, matching
// TileViewer's single-tile mode.
func newTileViewer(ts *tileset.Tileset, entry int) fyne.CanvasObject {
	const cell = 12
	raster := canvas.NewRaster(func(w, h int) image.Image {
		img := image.NewRGBA(image.Rect(0, 0, ts.Width()*cell, ts.Height()*cell))
		for y := 0; y < ts.Height(); y++ {
			for x := 0; x < ts.Width(); x++ {
				idx := ts.Pixel(entry, x, y)
				shade := uint8(idx * 48)
				for dy := 0; dy < cell; dy++ {
					for dx := 0; dx < cell; dx++ {
						img.Set(x*cell+dx, y*cell+dy, color.RGBA{shade, shade, shade, 255})
					}
				}
			}
		}
		return img
	})
	raster.SetMinSize(fyne.NewSize(float32(ts.Width()*cell), float32(ts.Height()*cell)))
	return raster
}
