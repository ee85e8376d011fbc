package render_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/plus3/bounce/render"
)

func TestFitKeepsAspect(t *testing.T) {
	cam := render.Fit(32, 18, 1280, 720)
	assert.Equal(t, 40.0, cam.Scale)
	assert.Zero(t, cam.OffsetX)
	assert.Zero(t, cam.OffsetY)

	x, y := cam.ToScreen(0, 0)
	assert.Equal(t, float32(0), x)
	assert.Equal(t, float32(720), y)

	x, y = cam.ToScreen(32, 18)
	assert.Equal(t, float32(1280), x)
	assert.Equal(t, float32(0), y)
}

func TestFitLetterboxes(t *testing.T) {
	cam := render.Fit(10, 10, 400, 200)
	assert.Equal(t, 20.0, cam.Scale)
	assert.Equal(t, 100.0, cam.OffsetX)
	assert.Zero(t, cam.OffsetY)
	assert.Equal(t, float32(10), cam.Length(0.5))
}

func TestFitDegenerate(t *testing.T) {
	cam := render.Fit(0, 10, 400, 200)
	assert.Equal(t, 1.0, cam.Scale)
}
