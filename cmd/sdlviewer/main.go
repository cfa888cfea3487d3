// Command sdlviewer opens an SDL2 window and drives an internal/engine
// scene, uploading its framebuffer to an SDL_Texture once per frame.
// Window creation, event pumping and presentation live here, not in
// internal/engine; the rasterizer core never touches a window system.
package main

import (
	"fmt"
	"os"
	"unsafe"

	"github.com/alecthomas/kong"
	"github.com/veandco/go-sdl2/sdl"

	"scanforge/internal/engine"
	"scanforge/internal/palette"
	"scanforge/internal/sceneconfig"
	"scanforge/internal/tileset"
	"scanforge/internal/tilemap"
)

// CLI mirrors nostalgiza's kong.Parse(&CLI{}) shape: one flat set of flags,
// no subcommands, since this viewer only ever does one thing.
var CLI struct {
	Scene string `help:"Path to a TOML scene description." type:"path"`
	Scale int    `help:"Integer window scale factor." default:"3"`
	VSync bool   `help:"Enable renderer vsync." default:"true"`
}

func main() {
	kong.Parse(&CLI,
		kong.Name("sdlviewer"),
		kong.Description("SDL2 host for an internal/engine scanline scene."),
		kong.UsageOnError(),
	)

	scene := sceneconfig.Default()
	if CLI.Scene != "" {
		loaded, err := sceneconfig.Load(CLI.Scene)
		if err != nil {
			fmt.Fprintf(os.Stderr, "sdlviewer: %v\n", err)
			os.Exit(1)
		}
		scene = loaded
	}

	e := buildDemoScene(scene)

	if err := run(e, CLI.Scale, CLI.VSync); err != nil {
		fmt.Fprintf(os.Stderr, "sdlviewer: %v\n", err)
		os.Exit(1)
	}
}

// buildDemoScene constructs a small procedurally-generated checkerboard
// scene from the loaded dimensions. The engine consumes an
// already-populated scene; this stands in for the resource loading a real
// host would do.
func buildDemoScene(scene sceneconfig.Scene) *engine.Engine {
	e := engine.New(scene.Width, scene.Height, max(scene.NumLayers, 1), scene.NumSprites, nil)

	if r, g, b, a, err := sceneconfig.ParseColor(scene.BGColor); err == nil {
		e.SetBGColor(palette.Color{R: r, G: g, B: b, A: a})
	}

	ts := tileset.Create(2, 8, 8, nil)
	solidA := make([]byte, 64)
	for i := range solidA {
		solidA[i] = 1
	}
	ts.SetPixels(1, solidA, 8)
	solidB := make([]byte, 64)
	for i := range solidB {
		solidB[i] = 2
	}
	ts.SetPixels(2, solidB, 8)

	cols, rows := scene.Width/8, scene.Height/8
	tm := tilemap.Create(rows, cols, ts)
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			idx := uint16(1)
			if (row+col)%2 == 1 {
				idx = 2
			}
			tm.SetTile(row, col, tilemap.NewTile(idx, 0))
		}
	}

	pal := palette.New(4)
	pal.SetColor(1, palette.Color{R: 200, G: 40, B: 40, A: 255})
	pal.SetColor(2, palette.Color{R: 40, G: 40, B: 200, A: 255})

	e.Layer(0).BindTilemap(tm, pal)
	return e
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// run opens the SDL2 window sized to the engine's framebuffer times scale,
// then loops: draw one engine frame, upload it to a streaming texture,
// present, pump events.
func run(e *engine.Engine, scale int, vsync bool) error {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return fmt.Errorf("sdl init: %w", err)
	}
	defer sdl.Quit()

	sdl.SetHint(sdl.HINT_RENDER_SCALE_QUALITY, "0")

	w, h := int32(e.Width()*scale), int32(e.Height()*scale)
	window, err := sdl.CreateWindow("scanforge", sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED, w, h, sdl.WINDOW_SHOWN)
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	defer window.Destroy()

	flags := uint32(sdl.RENDERER_ACCELERATED)
	if vsync {
		flags |= sdl.RENDERER_PRESENTVSYNC
	}
	renderer, err := sdl.CreateRenderer(window, -1, flags)
	if err != nil {
		return fmt.Errorf("create renderer: %w", err)
	}
	defer renderer.Destroy()

	texture, err := renderer.CreateTexture(sdl.PIXELFORMAT_ARGB8888, sdl.TEXTUREACCESS_STREAMING, int32(e.Width()), int32(e.Height()))
	if err != nil {
		return fmt.Errorf("create texture: %w", err)
	}
	defer texture.Destroy()

	running := true
	var frame uint32
	for running {
		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			switch ev := event.(type) {
			case *sdl.QuitEvent:
				running = false
			case *sdl.KeyboardEvent:
				if ev.Type == sdl.KEYDOWN && ev.Keysym.Sym == sdl.K_ESCAPE {
					running = false
				}
			}
		}

		frame++
		e.UpdateFrame(frame)

		pixels := e.RenderTarget()
		pitch := e.Width() * 4
		if err := texture.Update(nil, unsafe.Pointer(&pixels[0]), pitch); err != nil {
			return fmt.Errorf("update texture: %w", err)
		}

		renderer.Clear()
		renderer.Copy(texture, nil, nil)
		renderer.Present()
	}
	return nil
}
