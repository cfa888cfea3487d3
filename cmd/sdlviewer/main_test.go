package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"scanforge/internal/sceneconfig"
)

func TestBuildDemoSceneProducesCheckerboard(t *testing.T) {
	scene := sceneconfig.Default()
	scene.Width, scene.Height = 16, 8

	e := buildDemoScene(scene)
	e.UpdateFrame(1)

	fb := e.RenderTarget()
	assert.Equal(t, 16*8, len(fb))
	// Adjacent 8x8 tiles alternate solid colors, so the top-left pixel and
	// the pixel one tile to the right must differ.
	assert.NotEqual(t, fb[0], fb[8])
}
