package sceneedit

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/gekko3d/sceneedit/scene"
)

type Config struct {
	Log         LogConfig            `yaml:"log" toml:"log"`
	Editor      EditorConfig         `yaml:"editor" toml:"editor"`
	Camera      scene.CameraSettings `yaml:"camera" toml:"camera"`
	Render      scene.RenderSettings `yaml:"render" toml:"render"`
	ViewMode    scene.ViewModeType   `yaml:"view_mode" toml:"view_mode"`
	Environment scene.Environment    `yaml:"environment" toml:"environment"`
	Scene       SceneDef             `yaml:"scene" toml:"scene"`
}

type EditorConfig struct {
	FrameRate       int     `yaml:"frame_rate" toml:"frame_rate"`
	FixedStep       float64 `yaml:"fixed_step" toml:"fixed_step"`               // seconds, 0 = wall clock
	MinTimelineSpan float64 `yaml:"min_timeline_span" toml:"min_timeline_span"` // seconds
	Listen          string  `yaml:"listen" toml:"listen"`
}

func DefaultConfig() Config {
	return Config{
		Log: LogConfig{Encoding: "console"},
		Editor: EditorConfig{
			FrameRate:       DefaultFrameRate,
			MinTimelineSpan: scene.DefaultMinTimelineSpan,
			Listen:          "127.0.0.1:8686",
		},
		Camera:      scene.DefaultCamera(),
		Render:      scene.DefaultRenderSettings(),
		ViewMode:    scene.ViewShaded,
		Environment: scene.DefaultEnvironment(),
	}
}

// LoadConfig reads a .yaml, .yml or .toml file on top of DefaultConfig. A
// missing file yields the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := DecodeConfig(filepath.Ext(path), data, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// DecodeConfig decodes data into cfg using the format named by ext.
func DecodeConfig(ext string, data []byte, cfg *Config) error {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("decode yaml: %w", err)
		}
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(cfg); err != nil {
			return fmt.Errorf("decode toml: %w", err)
		}
	default:
		return fmt.Errorf("%w: %q", ErrConfigFormat, ext)
	}
	return nil
}

func (c Config) Validate() error {
	var errs []error
	if c.Editor.FrameRate <= 0 {
		errs = append(errs, fmt.Errorf("editor.frame_rate must be positive, got %d", c.Editor.FrameRate))
	}
	if c.Editor.FixedStep < 0 {
		errs = append(errs, fmt.Errorf("editor.fixed_step must not be negative"))
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		errs = append(errs, fmt.Errorf("camera near/far out of order: %v/%v", c.Camera.Near, c.Camera.Far))
	}
	for i, p := range c.Scene.Primitives {
		if !p.Kind.Valid() {
			errs = append(errs, fmt.Errorf("scene.primitives[%d]: unknown kind %q", i, p.Kind))
		}
	}
	for i, l := range c.Scene.Lights {
		if !l.Type.Valid() {
			errs = append(errs, fmt.Errorf("scene.lights[%d]: unknown type %q", i, l.Type))
		}
	}
	return errors.Join(errs...)
}

// StoreOptions turns the config into store options. log may be nil.
func (c Config) StoreOptions(log *zap.Logger) []scene.Option {
	opts := []scene.Option{
		scene.WithCamera(c.Camera),
		scene.WithRenderSettings(c.Render),
		scene.WithViewMode(scene.NewViewMode(c.ViewMode)),
		scene.WithEnvironment(c.Environment),
		scene.WithMinTimelineSpan(c.Editor.MinTimelineSpan),
	}
	if log != nil {
		opts = append(opts, scene.WithLogger(log))
	}
	return opts
}

func (c Config) FixedStep() time.Duration {
	return time.Duration(c.Editor.FixedStep * float64(time.Second))
}
