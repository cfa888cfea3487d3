// Package sceneconfig loads a declarative starting-scene description from
// TOML: framebuffer size, slot counts and resource bindings the cmd/
// binaries parse at startup before calling into internal/engine.
package sceneconfig

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// PaletteEntry describes one named palette and its colors, read as
// 0xAARRGGBB hex strings so the TOML file stays human-editable.
type PaletteEntry struct {
	ID     int      `toml:"id"`
	Colors []string `toml:"colors"`
}

// TilesetEntry references a tileset resource by file path plus the tile
// geometry needed to interpret it. Actual pixel loading is the host's job;
// this only carries the declaration.
type TilesetEntry struct {
	Name   string `toml:"name"`
	Path   string `toml:"path"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
}

// TilemapEntry references a tilemap resource and the tileset it binds to.
type TilemapEntry struct {
	Name    string `toml:"name"`
	Path    string `toml:"path"`
	Tileset string `toml:"tileset"`
}

// LayerEntry describes one layer slot's initial binding.
type LayerEntry struct {
	Tilemap string `toml:"tilemap"`
	Palette int    `toml:"palette"`
}

// Scene is the top-level declarative description of a starting scene:
// framebuffer size, layer/sprite slot counts, and the resources an engine
// should be initialized with, matching TLN_Init's parameters plus the
// resource bindings a real application would load afterward.
type Scene struct {
	Width      int            `toml:"width"`
	Height     int            `toml:"height"`
	NumLayers  int            `toml:"num_layers"`
	NumSprites int            `toml:"num_sprites"`
	BGColor    string         `toml:"bg_color"`
	Palettes   []PaletteEntry `toml:"palette"`
	Tilesets   []TilesetEntry `toml:"tileset"`
	Tilemaps   []TilemapEntry `toml:"tilemap"`
	Layers     []LayerEntry   `toml:"layer"`
}

// Default returns a valid scene description (a 256x192 framebuffer with 4
// layer slots and 64 sprite slots), used when no config file is given.
func Default() Scene {
	return Scene{
		Width:      256,
		Height:     192,
		NumLayers:  4,
		NumSprites: 64,
		BGColor:    "0xFF000000",
	}
}

// Load parses a scene description from a TOML file at path.
func Load(path string) (Scene, error) {
	var s Scene
	if _, err := toml.DecodeFile(path, &s); err != nil {
		return Scene{}, fmt.Errorf("sceneconfig: load %s: %w", path, err)
	}
	if s.Width <= 0 || s.Height <= 0 {
		return Scene{}, fmt.Errorf("sceneconfig: %s: width and height must be positive", path)
	}
	return s, nil
}

// LoadString parses a scene description from an in-memory TOML document,
// used by tests that don't want to touch the filesystem.
func LoadString(doc string) (Scene, error) {
	var s Scene
	if _, err := toml.Decode(doc, &s); err != nil {
		return Scene{}, fmt.Errorf("sceneconfig: decode: %w", err)
	}
	if s.Width <= 0 || s.Height <= 0 {
		return Scene{}, fmt.Errorf("sceneconfig: width and height must be positive")
	}
	return s, nil
}

// ParseColor parses a "0xAARRGGBB" hex string into its four channel bytes,
// matching the engine's packed-color representation.
func ParseColor(hex string) (r, g, b, a uint8, err error) {
	hex = strings.TrimPrefix(strings.TrimPrefix(hex, "0x"), "0X")
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("sceneconfig: invalid color %q: %w", hex, err)
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v), uint8(v >> 24), nil
}
