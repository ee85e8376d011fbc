package scene_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/colornames"

	"github.com/plus3/bounce/contact"
	"github.com/plus3/bounce/scene"
)

func TestDefaultScene(t *testing.T) {
	s := scene.Default()

	assert.Equal(t, 32.0, s.World.Width)
	assert.Equal(t, 18.0, s.World.Height)
	assert.Equal(t, contact.DefaultThreshold, s.Contacts.Threshold)
	assert.Equal(t, 0.9, s.Behaviors.Bouncy.Restitution)
	assert.Equal(t, 5.0, s.Behaviors.Bouncy.Lift)
	assert.Equal(t, 2.0, s.Behaviors.Mass.Factor)
	assert.Equal(t, 1.1, s.Behaviors.Gravity.Factor)
	assert.Equal(t, 8, s.Behaviors.Spawner.Limit)
	assert.Equal(t, 10.0, s.Behaviors.Spawner.Offset)

	kinds := map[scene.Kind]bool{}
	for _, b := range s.Balls {
		kinds[b.Kind] = true
	}
	for _, k := range scene.Kinds {
		assert.True(t, kinds[k], "default scene has no %s ball", k)
	}
}

func TestParseFillsDefaults(t *testing.T) {
	s, err := scene.Parse([]byte(`
world: {width: 10, height: 10}
balls:
  - {x: 5, y: 5}
`))
	require.NoError(t, err)

	require.Len(t, s.Balls, 1)
	assert.Equal(t, scene.KindPlain, s.Balls[0].Kind)
	assert.Equal(t, 0.5, s.Balls[0].Radius)
	assert.Equal(t, 1.0, s.Balls[0].Mass)
	assert.Equal(t, -9.81, s.World.Gravity)
	assert.Equal(t, contact.DefaultThreshold, s.Contacts.Threshold)
	assert.Equal(t, "red", s.Behaviors.Color.To)
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown kind", "balls: [{kind: rocket, x: 5, y: 5}]"},
		{"negative radius", "balls: [{x: 5, y: 5, radius: -1}]"},
		{"outside world", "balls: [{x: 50, y: 5}]"},
		{"unknown tint", "balls: [{x: 5, y: 5, tint: notacolor}]"},
		{"unknown behavior color", "behaviors: {color: {from: white, to: blurple}}"},
		{"empty world", "world: {width: 0, height: 10}"},
		{"negative threshold", "contacts: {threshold: -1}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := scene.Parse([]byte(tt.yaml))
			assert.ErrorIs(t, err, scene.ErrInvalidScene)
		})
	}
}

func TestParseMalformedYAML(t *testing.T) {
	_, err := scene.Parse([]byte("balls: [unterminated"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, scene.ErrInvalidScene)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := scene.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestTintsAndConfig(t *testing.T) {
	s := scene.Default()

	assert.Equal(t, colornames.White, s.BaseTint(scene.Ball{Kind: scene.KindColor}))
	assert.Equal(t, colornames.Orange, s.BaseTint(scene.Ball{Kind: scene.KindMass, Tint: "orange"}))
	assert.Equal(t, colornames.White, scene.ColorOf("nope"))

	cfg := s.PhysicsConfig()
	assert.Equal(t, s.World.Width, cfg.Width)
	assert.Equal(t, s.World.Gravity, cfg.Gravity)

	spec := scene.Ball{X: 1, Y: 2, VX: 3, Radius: 0.5, Mass: 2}.Spec(0.4)
	assert.Equal(t, 3.0, spec.VX)
	assert.Equal(t, 0.4, spec.Friction)
}

func TestWatchReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	require.NoError(t, os.WriteFile(path, []byte("balls: [{x: 5, y: 5}]"), 0o644))

	w, err := scene.Watch(path)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(path, []byte("balls: [{x: 5, y: 5}, {x: 7, y: 5}]"), 0o644))

	select {
	case s := <-w.Scenes:
		assert.Len(t, s.Balls, 2)
	case err := <-w.Errors:
		t.Fatalf("unexpected watch error: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}

	require.NoError(t, os.WriteFile(path, []byte("balls: [{kind: rocket}]"), 0o644))
	select {
	case err := <-w.Errors:
		assert.ErrorIs(t, err, scene.ErrInvalidScene)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for error")
	}

	require.NoError(t, w.Close())
	_, open := <-w.Scenes
	assert.False(t, open)
}
