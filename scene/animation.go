package scene

import (
	"fmt"
	"slices"
)

// Clip is a named animation with a fixed duration. Data is the loader's
// opaque clip payload.
type Clip struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Duration float64 `json:"duration"` // seconds
	Data     any     `json:"-"`
}

// ClockState is what the global animation clock pushes into every mixer
// each frame.
type ClockState struct {
	Time    float64 `json:"time"`
	Speed   float64 `json:"speed"`
	Playing bool    `json:"playing"`
}

// Mixer advances or samples the active clips of one object. When
// state.Playing is false the mixer must seek to state.Time exactly.
// Clamping or wrapping against the object's own clip lengths is the mixer's job.
type Mixer interface {
	Update(state ClockState, active []Clip, loop bool)
}

// AnimationState is the optional animation data of an object.
type AnimationState struct {
	Clips       []Clip   `json:"clips"`
	ActiveClips []string `json:"activeClips"`
	Loop        bool     `json:"loop"`
	Mixer       Mixer    `json:"-"`
}

func (a *AnimationState) IsActive(clipID string) bool {
	return slices.Contains(a.ActiveClips, clipID)
}

// Active returns the active clips in clip order.
func (a *AnimationState) Active() []Clip {
	var out []Clip
	for _, c := range a.Clips {
		if a.IsActive(c.ID) {
			out = append(out, c)
		}
	}
	return out
}

// MaxActiveDuration is the longest duration among the active clips, or 0.
func (a *AnimationState) MaxActiveDuration() float64 {
	var longest float64
	for _, c := range a.Active() {
		if c.Duration > longest {
			longest = c.Duration
		}
	}
	return longest
}

func (a *AnimationState) clone() *AnimationState {
	if a == nil {
		return nil
	}
	cp := *a
	cp.Clips = slices.Clone(a.Clips)
	cp.ActiveClips = slices.Clone(a.ActiveClips)
	return &cp
}

// ClipID names the i-th clip imported for an object.
func ClipID(objectID string, i int) string {
	return fmt.Sprintf("%s_clip_%d", objectID, i)
}

// DefaultClipName labels an imported clip that carries no name of its own.
func DefaultClipName(i int) string {
	return fmt.Sprintf("Animation %d", i+1)
}
