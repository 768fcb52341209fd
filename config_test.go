package sceneedit

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gekko3d/sceneedit/scene"
)

const yamlConfig = `
log:
  debug: true
  encoding: json
editor:
  frame_rate: 30
  fixed_step: 0.5
  min_timeline_span: 4
camera:
  type: perspective
  fov: 60
  near: 0.5
  far: 500
  position: [1, 2, 3]
  target: [0, 0, 0]
view_mode: wireframe
scene:
  groups:
    - name: Rig
      position: [0, 1, 0]
  primitives:
    - kind: box
      name: Crate
      group: Rig
      rotation: [0, 90, 0]
  lights:
    - type: spot
      color: "#ff0000"
`

const tomlConfig = `
view_mode = "solid"

[editor]
frame_rate = 24
min_timeline_span = 8

[[scene.primitives]]
kind = "torus"
`

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestLoadConfig_MissingFileGivesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)

	cfg, err = LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultFrameRate, cfg.Editor.FrameRate)
}

func TestLoadConfig_YAML(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "editor.yaml", yamlConfig))
	require.NoError(t, err)

	assert.True(t, cfg.Log.Debug)
	assert.Equal(t, "json", cfg.Log.Encoding)
	assert.Equal(t, 30, cfg.Editor.FrameRate)
	assert.Equal(t, 500*time.Millisecond, cfg.FixedStep())
	assert.Equal(t, float32(60), cfg.Camera.FOV)
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, cfg.Camera.Position)
	assert.Equal(t, scene.ViewWireframe, cfg.ViewMode)
	// untouched sections keep their defaults
	assert.Equal(t, scene.DefaultRenderSettings(), cfg.Render)
	assert.Equal(t, "127.0.0.1:8686", cfg.Editor.Listen)

	require.Len(t, cfg.Scene.Primitives, 1)
	assert.Equal(t, "Rig", cfg.Scene.Primitives[0].Group)
	require.Len(t, cfg.Scene.Lights, 1)
	assert.Equal(t, "#ff0000", cfg.Scene.Lights[0].Color)
}

func TestLoadConfig_TOML(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "editor.toml", tomlConfig))
	require.NoError(t, err)

	assert.Equal(t, 24, cfg.Editor.FrameRate)
	assert.Equal(t, 8.0, cfg.Editor.MinTimelineSpan)
	assert.Equal(t, scene.ViewSolid, cfg.ViewMode)
	require.Len(t, cfg.Scene.Primitives, 1)
	assert.Equal(t, scene.PrimitiveTorus, cfg.Scene.Primitives[0].Kind)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "editor.json", "{}"))
	assert.ErrorIs(t, err, ErrConfigFormat)

	_, err = LoadConfig(writeConfig(t, "editor.yaml", "editor:\n  frame_rat: 30\n"))
	assert.Error(t, err, "unknown yaml keys are rejected")

	_, err = LoadConfig(writeConfig(t, "editor.toml", "[editor]\nframes = 3\n"))
	assert.Error(t, err, "unknown toml keys are rejected")

	_, err = LoadConfig(writeConfig(t, "editor.yaml", "editor:\n  frame_rate: 0\ncamera:\n  near: 0\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "frame_rate")
	assert.Contains(t, err.Error(), "near/far")

	_, err = LoadConfig(writeConfig(t, "editor.yaml", "scene:\n  lights:\n    - type: laser\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "laser")
}

func TestLoadConfig_EmptyYAML(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "editor.yaml", ""))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestConfig_StoreOptions(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "editor.yaml", yamlConfig))
	require.NoError(t, err)

	store := scene.NewStore(cfg.StoreOptions(nil)...)
	assert.Equal(t, cfg.Camera, store.Camera())
	assert.Equal(t, scene.ViewWireframe, store.ViewMode().Type)
	assert.Equal(t, "Wireframe", store.ViewMode().Name)
	assert.Equal(t, 4.0, store.TimelineSpan())
}
