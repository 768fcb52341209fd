package scene

import (
	"math"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// ParseNumber reads the longest numeric prefix of text ("1.5m" -> 1.5).
// Anything unparseable, infinite or NaN yields 0.
func ParseNumber(text string) float32 {
	text = strings.TrimSpace(text)
	for end := len(text); end > 0; end-- {
		v, err := strconv.ParseFloat(text[:end], 32)
		if err != nil {
			continue
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0
		}
		return float32(v)
	}
	return 0
}

type TransformChannel string

const (
	ChannelPosition TransformChannel = "position"
	ChannelRotation TransformChannel = "rotation"
	ChannelScale    TransformChannel = "scale"
)

// EditTransformAxis sets one component of an object's transform from form
// input. axis is 0, 1 or 2 for x, y, z. Rotation input is in degrees.
func (s *Store) EditTransformAxis(id string, channel TransformChannel, axis int, text string) {
	if axis < 0 || axis > 2 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	obj, ok := s.objects[id]
	if !ok {
		return
	}
	v := ParseNumber(text)
	tr := obj.Transform
	switch channel {
	case ChannelPosition:
		tr.Position[axis] = v
	case ChannelRotation:
		tr.Rotation[axis] = mgl32.DegToRad(v)
	case ChannelScale:
		tr.Scale[axis] = v
	default:
		s.log.Warn("unknown transform channel", zap.String("channel", string(channel)))
		return
	}
	s.updateLocked(id, ObjectPatch{Transform: &tr})
}

// EditLightField sets one light property from form input. color takes
// "#rrggbb" and castShadow takes a boolean; the rest are numbers. Objects
// that are not lights are left alone.
func (s *Store) EditLightField(id, field, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	obj, ok := s.objects[id]
	if !ok || obj.Kind != KindLight || obj.Light == nil {
		return
	}
	lp := *obj.Light
	switch field {
	case "intensity":
		lp.Intensity = ParseNumber(text)
	case "color":
		c, err := ParseHexColor(text)
		if err != nil {
			s.log.Warn("bad light color", zap.String("id", id), zap.Error(err))
			return
		}
		lp.Color = c
	case "castShadow":
		b, err := strconv.ParseBool(strings.TrimSpace(text))
		if err != nil {
			return
		}
		lp.CastShadow = b
	case "angle":
		lp.Angle = ParseNumber(text)
	case "penumbra":
		lp.Penumbra = ParseNumber(text)
	case "distance":
		lp.Distance = ParseNumber(text)
	case "decay":
		lp.Decay = ParseNumber(text)
	default:
		s.log.Warn("unknown light field", zap.String("field", field))
		return
	}
	s.updateLocked(id, ObjectPatch{Light: &lp})
}
