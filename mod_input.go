package sceneedit

import (
	"strings"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	KeyG int = iota
	KeyR
	KeyS
	KeySpace
	KeyEscape
	KeyDelete
	KeyShift
	KeyControl
	keyCount
)

var keyNames = map[string]int{
	"g":         KeyG,
	"r":         KeyR,
	"s":         KeyS,
	" ":         KeySpace,
	"space":     KeySpace,
	"escape":    KeyEscape,
	"delete":    KeyDelete,
	"backspace": KeyDelete,
	"shift":     KeyShift,
	"control":   KeyControl,
}

// KeyFromName maps a DOM-style key name ("g", "Escape") to a key code.
func KeyFromName(name string) (int, bool) {
	k, ok := keyNames[strings.ToLower(name)]
	return k, ok
}

type InputEventKind int

const (
	// EventPick is a viewport click that hit ObjectID.
	EventPick InputEventKind = iota
	// EventPickEmpty is a viewport click that hit nothing.
	EventPickEmpty
	EventKeyDown
	EventKeyUp
	// EventPointerDown, EventPointerMove and EventPointerUp carry the
	// world-space pick ray under the pointer.
	EventPointerDown
	EventPointerMove
	EventPointerUp
	// EventOrbit, EventPan and EventZoom are camera drags and wheel
	// steps. Delta is in screen pixels for orbit and pan; Delta[1] holds
	// wheel steps for zoom.
	EventOrbit
	EventPan
	EventZoom
)

type InputEvent struct {
	Kind     InputEventKind
	ObjectID string
	Additive bool
	Key      int
	Origin   mgl32.Vec3
	Dir      mgl32.Vec3
	Delta    mgl32.Vec2
}

type InputModule struct{}

// Input collects events from any goroutine and exposes them one frame at a
// time to systems.
type Input struct {
	mu     sync.Mutex
	queued []InputEvent

	Events []InputEvent

	Pressed      [keyCount]bool
	JustPressed  [keyCount]bool
	JustReleased [keyCount]bool

	PointerDown       bool
	RayOrigin, RayDir mgl32.Vec3
	pointerMove       bool

	// Camera gestures summed over the frame.
	OrbitDelta mgl32.Vec2
	PanDelta   mgl32.Vec2
	ZoomDelta  float32
}

// Push queues an event for the next frame.
func (in *Input) Push(ev InputEvent) {
	in.mu.Lock()
	in.queued = append(in.queued, ev)
	in.mu.Unlock()
}

func (in *Input) PointerMoved() bool {
	return in.pointerMove
}

func (mod InputModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&Input{})
	app.UseSystem(
		System(inputSystem).
			InStage(PreUpdate),
	)
}

func inputSystem(input *Input) {
	input.mu.Lock()
	events := input.queued
	input.queued = nil
	input.mu.Unlock()

	input.Events = events
	input.JustPressed = [keyCount]bool{}
	input.JustReleased = [keyCount]bool{}
	input.pointerMove = false
	input.OrbitDelta = mgl32.Vec2{}
	input.PanDelta = mgl32.Vec2{}
	input.ZoomDelta = 0

	for _, ev := range events {
		switch ev.Kind {
		case EventKeyDown:
			if ev.Key < 0 || ev.Key >= keyCount {
				continue
			}
			if !input.Pressed[ev.Key] {
				input.JustPressed[ev.Key] = true
			}
			input.Pressed[ev.Key] = true
		case EventKeyUp:
			if ev.Key < 0 || ev.Key >= keyCount {
				continue
			}
			if input.Pressed[ev.Key] {
				input.JustReleased[ev.Key] = true
			}
			input.Pressed[ev.Key] = false
		case EventPointerDown:
			input.PointerDown = true
			input.RayOrigin, input.RayDir = ev.Origin, ev.Dir
		case EventPointerMove:
			input.RayOrigin, input.RayDir = ev.Origin, ev.Dir
			input.pointerMove = true
		case EventPointerUp:
			input.PointerDown = false
		case EventOrbit:
			input.OrbitDelta = input.OrbitDelta.Add(ev.Delta)
		case EventPan:
			input.PanDelta = input.PanDelta.Add(ev.Delta)
		case EventZoom:
			input.ZoomDelta += ev.Delta[1]
		}
	}
}
