package sceneedit

import (
	"fmt"

	"github.com/gekko3d/sceneedit/scene"
)

// Frame is everything a renderer needs to draw one frame.
type Frame struct {
	Number uint64
	State  scene.State
	World  map[string]WorldTransform
	Gizmo  []GizmoLine
}

// Renderer draws frames. A Renderer that also implements scene.NodeAccessor
// has its mounted nodes updated from the store before every frame.
type Renderer interface {
	RenderFrame(f *Frame) error
}

type RendererFunc func(f *Frame) error

func (fn RendererFunc) RenderFrame(f *Frame) error { return fn(f) }

// RenderTarget is the resource holding the installed renderer.
type RenderTarget struct {
	Name     string
	Renderer Renderer

	frames   uint64
	failures uint64
	lastRev  uint64
	rendered bool
	// OnlyOnChange skips frames where the store revision did not move and
	// the gizmo is idle.
	OnlyOnChange bool
}

func (rt *RenderTarget) Frames() uint64   { return rt.frames }
func (rt *RenderTarget) Failures() uint64 { return rt.failures }

// CommitNode queues a copy of id's node transform back into the store, as
// after a renderer-side gizmo drag. It does nothing for renderers without
// node access.
func (rt *RenderTarget) CommitNode(cmd *Commands, id string) {
	acc, ok := rt.Renderer.(scene.NodeAccessor)
	if !ok {
		return
	}
	cmd.Do("commit node "+id, func(s *scene.Store) { s.CommitNodeTransform(id, acc) })
}

type RenderModule struct {
	Name         string
	Renderer     Renderer
	OnlyOnChange bool
}

func (m RenderModule) Install(app *App, cmd *Commands) {
	name := m.Name
	if name == "" {
		name = "default"
	}
	if prev, ok := Resource[RenderTarget](app); ok {
		app.Logger().Errorf("Multiple renderers installed: %s and %s", prev.Name, name)
		panic(fmt.Sprintf("renderer %s already installed, cannot add %s", prev.Name, name))
	}
	ensureResource(app, NewWorldTransforms)
	ensureResource(app, func() *Gizmo { return &Gizmo{Scale: 1} })
	app.addResources(&RenderTarget{Name: name, Renderer: m.Renderer, OnlyOnChange: m.OnlyOnChange})
	app.Logger().Infof("Renderer selected: %s", name)

	app.UseSystem(
		System(renderSyncSystem).
			InStage(PreRender),
	)
	app.UseSystem(
		System(renderSystem).
			InStage(Render),
	)
}

// UseRenderer installs exactly one renderer.
// Usage:
//
//	app.UseRenderer("webgl", r)
func (app *App) UseRenderer(name string, r Renderer) *App {
	return app.UseModules(RenderModule{Name: name, Renderer: r})
}

func renderSyncSystem(store *scene.Store, target *RenderTarget) {
	if acc, ok := target.Renderer.(scene.NodeAccessor); ok {
		store.SyncNodes(acc)
	}
}

func renderSystem(cmd *Commands, store *scene.Store, target *RenderTarget, world *WorldTransforms, gizmo *Gizmo) {
	if target.Renderer == nil {
		return
	}
	rev := store.Revision()
	if target.OnlyOnChange && target.rendered && rev == target.lastRev && !gizmo.Dragging() {
		return
	}

	f := &Frame{
		Number: target.frames,
		State:  store.Snapshot(),
		World:  world.All(),
		Gizmo:  gizmo.Lines(),
	}
	target.frames++
	target.lastRev = f.State.Revision
	target.rendered = true
	if err := target.Renderer.RenderFrame(f); err != nil {
		target.failures++
		cmd.Logger().Errorf("Renderer %s: frame %d failed: %v", target.Name, f.Number, err)
	}
}
