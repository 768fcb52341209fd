package scene

import (
	"github.com/go-gl/mathgl/mgl32"
)

type CameraType string

const (
	CameraPerspective  CameraType = "perspective"
	CameraOrthographic CameraType = "orthographic"
)

type CameraSettings struct {
	Type     CameraType `json:"type" yaml:"type" toml:"type"`
	FOV      float32    `json:"fov" yaml:"fov" toml:"fov"` // degrees
	Near     float32    `json:"near" yaml:"near" toml:"near"`
	Far      float32    `json:"far" yaml:"far" toml:"far"`
	Position mgl32.Vec3 `json:"position" yaml:"position" toml:"position"`
	Target   mgl32.Vec3 `json:"target" yaml:"target" toml:"target"`
}

func DefaultCamera() CameraSettings {
	return CameraSettings{
		Type:     CameraPerspective,
		FOV:      75,
		Near:     0.1,
		Far:      1000,
		Position: mgl32.Vec3{5, 5, 5},
		Target:   mgl32.Vec3{0, 0, 0},
	}
}

// Forward is the unit view direction, or -Z when position and target coincide.
func (c CameraSettings) Forward() mgl32.Vec3 {
	d := c.Target.Sub(c.Position)
	if d.Len() == 0 {
		return mgl32.Vec3{0, 0, -1}
	}
	return d.Normalize()
}

func (c CameraSettings) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position, c.Target, mgl32.Vec3{0, 1, 0})
}

type CameraPatch struct {
	Type     *CameraType
	FOV      *float32
	Near     *float32
	Far      *float32
	Position *mgl32.Vec3
	Target   *mgl32.Vec3
}

func (p CameraPatch) apply(c *CameraSettings) {
	if p.Type != nil {
		c.Type = *p.Type
	}
	if p.FOV != nil {
		c.FOV = *p.FOV
	}
	if p.Near != nil {
		c.Near = *p.Near
	}
	if p.Far != nil {
		c.Far = *p.Far
	}
	if p.Position != nil {
		c.Position = *p.Position
	}
	if p.Target != nil {
		c.Target = *p.Target
	}
}

type RenderSettings struct {
	Antialias           bool    `json:"antialias" yaml:"antialias" toml:"antialias"`
	Shadows             bool    `json:"shadows" yaml:"shadows" toml:"shadows"`
	ShadowType          string  `json:"shadowType" yaml:"shadow_type" toml:"shadow_type"`
	ToneMapping         string  `json:"toneMapping" yaml:"tone_mapping" toml:"tone_mapping"`
	ToneMappingExposure float32 `json:"toneMappingExposure" yaml:"tone_mapping_exposure" toml:"tone_mapping_exposure"`
	OutputColorSpace    string  `json:"outputColorSpace" yaml:"output_color_space" toml:"output_color_space"`

	Bloom          bool    `json:"bloom" yaml:"bloom" toml:"bloom"`
	BloomStrength  float32 `json:"bloomStrength" yaml:"bloom_strength" toml:"bloom_strength"`
	BloomRadius    float32 `json:"bloomRadius" yaml:"bloom_radius" toml:"bloom_radius"`
	BloomThreshold float32 `json:"bloomThreshold" yaml:"bloom_threshold" toml:"bloom_threshold"`
}

func DefaultRenderSettings() RenderSettings {
	return RenderSettings{
		Antialias:           true,
		Shadows:             true,
		ShadowType:          "pcf-soft",
		ToneMapping:         "aces-filmic",
		ToneMappingExposure: 1.0,
		OutputColorSpace:    "srgb",
		Bloom:               false,
		BloomStrength:       1.5,
		BloomRadius:         0.4,
		BloomThreshold:      0.85,
	}
}

type RenderSettingsPatch struct {
	Antialias           *bool
	Shadows             *bool
	ShadowType          *string
	ToneMapping         *string
	ToneMappingExposure *float32
	OutputColorSpace    *string
	Bloom               *bool
	BloomStrength       *float32
	BloomRadius         *float32
	BloomThreshold      *float32
}

func (p RenderSettingsPatch) apply(r *RenderSettings) {
	if p.Antialias != nil {
		r.Antialias = *p.Antialias
	}
	if p.Shadows != nil {
		r.Shadows = *p.Shadows
	}
	if p.ShadowType != nil {
		r.ShadowType = *p.ShadowType
	}
	if p.ToneMapping != nil {
		r.ToneMapping = *p.ToneMapping
	}
	if p.ToneMappingExposure != nil {
		r.ToneMappingExposure = *p.ToneMappingExposure
	}
	if p.OutputColorSpace != nil {
		r.OutputColorSpace = *p.OutputColorSpace
	}
	if p.Bloom != nil {
		r.Bloom = *p.Bloom
	}
	if p.BloomStrength != nil {
		r.BloomStrength = *p.BloomStrength
	}
	if p.BloomRadius != nil {
		r.BloomRadius = *p.BloomRadius
	}
	if p.BloomThreshold != nil {
		r.BloomThreshold = *p.BloomThreshold
	}
}

type ViewModeType string

const (
	ViewShaded    ViewModeType = "shaded"
	ViewWireframe ViewModeType = "wireframe"
	ViewSolid     ViewModeType = "solid"
	ViewMaterial  ViewModeType = "material"
	ViewLighting  ViewModeType = "lighting"
)

type ViewMode struct {
	Type ViewModeType `json:"type" yaml:"type" toml:"type"`
	Name string       `json:"name" yaml:"name" toml:"name"`
}

// NewViewMode builds a view mode with its display name ("wireframe" -> "Wireframe").
func NewViewMode(t ViewModeType) ViewMode {
	return ViewMode{Type: t, Name: capitalize(string(t))}
}

type EnvironmentType string

const (
	EnvironmentHDRI     EnvironmentType = "hdri"
	EnvironmentColor    EnvironmentType = "color"
	EnvironmentGradient EnvironmentType = "gradient"
)

type Environment struct {
	Type       EnvironmentType `json:"type" yaml:"type" toml:"type"`
	HDRIURL    string          `json:"hdriUrl,omitempty" yaml:"hdri_url,omitempty" toml:"hdri_url,omitempty"`
	HDRIFormat string          `json:"hdriFormat,omitempty" yaml:"hdri_format,omitempty" toml:"hdri_format,omitempty"`
	Color      mgl32.Vec3      `json:"color" yaml:"color" toml:"color"`
	Intensity  float32         `json:"intensity" yaml:"intensity" toml:"intensity"`
}

// DefaultEnvironment is a flat #222222 background.
func DefaultEnvironment() Environment {
	return Environment{
		Type:      EnvironmentColor,
		Color:     mgl32.Vec3{0x22 / 255.0, 0x22 / 255.0, 0x22 / 255.0},
		Intensity: 1.0,
	}
}

type TransformMode string

const (
	TransformTranslate TransformMode = "translate"
	TransformRotate    TransformMode = "rotate"
	TransformScale     TransformMode = "scale"
)

func (m TransformMode) Valid() bool {
	switch m {
	case TransformTranslate, TransformRotate, TransformScale:
		return true
	}
	return false
}
