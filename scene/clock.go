package scene

import (
	"math"

	"go.uber.org/zap"
)

// DefaultMinTimelineSpan is the shortest timeline, in seconds, even when no
// clip is that long.
const DefaultMinTimelineSpan = 10.0

func (s *Store) clockLocked() ClockState {
	return ClockState{Time: s.animTime, Speed: s.animSpeed, Playing: s.animPlaying}
}

func (s *Store) ClockState() ClockState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.clockLocked()
}

func (s *Store) timelineSpanLocked() float64 {
	span := s.minSpan
	for _, obj := range s.objects {
		if obj.Animation == nil {
			continue
		}
		if d := obj.Animation.MaxActiveDuration(); d > span {
			span = d
		}
	}
	return span
}

// TimelineSpan is the longest active clip across all objects, floored at the
// minimum span.
func (s *Store) TimelineSpan() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.timelineSpanLocked()
}

// AnimatedObjects returns the objects carrying clips, ordered like Objects.
func (s *Store) AnimatedObjects() []SceneObject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []SceneObject
	for _, obj := range s.objects {
		if obj.IsAnimated() {
			out = append(out, obj.Clone())
		}
	}
	sortObjects(out)
	return out
}

// SetAnimationTime scrubs the clock. t is clamped to [0, TimelineSpan].
func (s *Store) SetAnimationTime(t float64) {
	if math.IsNaN(t) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t = math.Max(0, math.Min(t, s.timelineSpanLocked()))
	if t == s.animTime {
		return
	}
	s.animTime = t
	s.touch()
}

func (s *Store) SetAnimationPlaying(playing bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.animPlaying == playing {
		return
	}
	s.animPlaying = playing
	s.touch()
}

func (s *Store) PlayAnimation()  { s.SetAnimationPlaying(true) }
func (s *Store) PauseAnimation() { s.SetAnimationPlaying(false) }

func (s *Store) ToggleAnimation() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.animPlaying = !s.animPlaying
	s.touch()
}

// StopAnimation halts playback and rewinds to 0. Pause keeps the time.
func (s *Store) StopAnimation() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.animPlaying && s.animTime == 0 {
		return
	}
	s.animPlaying = false
	s.animTime = 0
	s.touch()
}

// SetAnimationSpeed sets the playback multiplier. Non-positive and NaN values
// are ignored.
func (s *Store) SetAnimationSpeed(speed float64) {
	if math.IsNaN(speed) || speed <= 0 {
		s.log.Warn("ignoring animation speed", zap.Float64("speed", speed))
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.animSpeed == speed {
		return
	}
	s.animSpeed = speed
	s.touch()
}

// AdvanceAnimation is the per-frame tick. While playing, time moves by
// dt*speed and wraps to 0 once it passes the timeline span. It returns the
// resulting clock time.
func (s *Store) AdvanceAnimation(dt float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.animPlaying || !(dt > 0) {
		return s.animTime
	}
	next := s.animTime + dt*s.animSpeed
	if next > s.timelineSpanLocked() {
		next = 0
	}
	s.animTime = next
	s.touch()
	return next
}

// SetActiveClips replaces the active clip set of id. Clip ids the object does
// not carry are dropped.
func (s *Store) SetActiveClips(id string, clipIDs ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	obj, ok := s.objects[id]
	if !ok || obj.Animation == nil {
		return
	}
	s.setActiveClipsLocked(obj, clipIDs)
}

func (s *Store) setActiveClipsLocked(obj *SceneObject, clipIDs []string) {
	known := make(map[string]bool, len(obj.Animation.Clips))
	for _, c := range obj.Animation.Clips {
		known[c.ID] = true
	}
	active := make([]string, 0, len(clipIDs))
	for _, cid := range clipIDs {
		if known[cid] && !containsID(active, cid) {
			active = append(active, cid)
		}
	}
	obj.Animation.ActiveClips = active
	s.touch()
}

// ToggleClip flips whether clipID is active on id.
func (s *Store) ToggleClip(id, clipID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	obj, ok := s.objects[id]
	if !ok || obj.Animation == nil {
		return
	}
	active := append([]string{}, obj.Animation.ActiveClips...)
	if obj.Animation.IsActive(clipID) {
		active = removeID(active, clipID)
	} else {
		active = append(active, clipID)
	}
	s.setActiveClipsLocked(obj, active)
}

func (s *Store) SetAnimationLoop(id string, loop bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	obj, ok := s.objects[id]
	if !ok || obj.Animation == nil || obj.Animation.Loop == loop {
		return
	}
	obj.Animation.Loop = loop
	s.touch()
}

// DriveMixers pushes the current clock into the mixer of every animated
// object. Mixers run outside the store lock.
func (s *Store) DriveMixers() {
	type job struct {
		mixer  Mixer
		active []Clip
		loop   bool
	}
	s.mu.RLock()
	state := s.clockLocked()
	var jobs []job
	for _, obj := range s.objects {
		a := obj.Animation
		if a == nil || a.Mixer == nil {
			continue
		}
		jobs = append(jobs, job{mixer: a.Mixer, active: a.Active(), loop: a.Loop})
	}
	s.mu.RUnlock()

	for _, j := range jobs {
		j.mixer.Update(state, j.active, j.loop)
	}
}
