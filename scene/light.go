package scene

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

type LightType string

const (
	LightPoint       LightType = "point"
	LightSpot        LightType = "spot"
	LightDirectional LightType = "directional"
)

func (t LightType) Valid() bool {
	switch t {
	case LightPoint, LightSpot, LightDirectional:
		return true
	}
	return false
}

// LightProperties describes a light entity.
type LightProperties struct {
	Type       LightType  `json:"type"`
	Intensity  float32    `json:"intensity"`
	Color      mgl32.Vec3 `json:"color"` // RGB, 0..1
	CastShadow bool       `json:"castShadow"`

	// Spot only
	Angle    float32 `json:"angle"` // radians
	Penumbra float32 `json:"penumbra"`

	// Point and spot
	Distance float32 `json:"distance"`
	Decay    float32 `json:"decay"`
}

// DefaultLightPosition is where newly created lights are placed.
var DefaultLightPosition = mgl32.Vec3{2, 2, 2}

func DefaultLightProperties(t LightType) LightProperties {
	return LightProperties{
		Type:       t,
		Intensity:  1,
		Color:      mgl32.Vec3{1, 1, 1},
		CastShadow: true,
		Angle:      math.Pi / 6,
		Penumbra:   0.1,
		Distance:   0,
		Decay:      2,
	}
}

// ParseHexColor parses "#rrggbb" (or "rrggbb") into an RGB vector.
func ParseHexColor(s string) (mgl32.Vec3, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return mgl32.Vec3{}, fmt.Errorf("invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return mgl32.Vec3{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return mgl32.Vec3{
		float32((v>>16)&0xff) / 255,
		float32((v>>8)&0xff) / 255,
		float32(v&0xff) / 255,
	}, nil
}

// HexColor formats an RGB vector as "#rrggbb".
func HexColor(c mgl32.Vec3) string {
	to8 := func(f float32) uint8 {
		f = mgl32.Clamp(f, 0, 1)
		return uint8(math.Round(float64(f) * 255))
	}
	return fmt.Sprintf("#%02x%02x%02x", to8(c.X()), to8(c.Y()), to8(c.Z()))
}
