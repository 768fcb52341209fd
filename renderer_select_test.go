package sceneedit

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gekko3d/sceneedit/scene"
)

// nodeRenderer is a renderer that owns transform nodes.
type nodeRenderer struct {
	frames []*Frame
	nodes  map[scene.Handle]scene.Transform
	fail   bool
}

func (r *nodeRenderer) RenderFrame(f *Frame) error {
	r.frames = append(r.frames, f)
	if r.fail {
		return errors.New("device lost")
	}
	return nil
}

func (r *nodeRenderer) ReadTransform(h scene.Handle) (scene.Transform, bool) {
	tr, ok := r.nodes[h]
	return tr, ok
}

func (r *nodeRenderer) WriteTransform(h scene.Handle, tr scene.Transform) {
	r.nodes[h] = tr
}

func TestRenderModule_RendersEveryFrame(t *testing.T) {
	app := NewApp()
	r := &nodeRenderer{nodes: map[scene.Handle]scene.Transform{}}
	app.UseModules(HierarchyModule{})
	app.UseRenderer("test", r)

	obj := scene.NewPrimitiveObject("a", scene.PrimitiveBox)
	obj.Node = 3
	obj.Transform.Position = mgl32.Vec3{1, 0, 0}
	app.Store().AddObject(obj)
	app.Store().RegisterMesh("a", 3)

	app.Step()
	app.Step()

	require.Len(t, r.frames, 2)
	f := r.frames[1]
	assert.Equal(t, uint64(1), f.Number)
	assert.Contains(t, f.State.Objects, "a")
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, f.World["a"].Position)
	// store transforms are pushed into renderer nodes before drawing
	assert.Equal(t, mgl32.Vec3{1, 0, 0}, r.nodes[3].Position)

	target, _ := Resource[RenderTarget](app)
	assert.Equal(t, uint64(2), target.Frames())
	assert.Equal(t, uint64(0), target.Failures())
}

func TestRenderModule_OnlyOnChange(t *testing.T) {
	app := NewApp()
	r := &nodeRenderer{nodes: map[scene.Handle]scene.Transform{}}
	app.UseModules(RenderModule{Name: "lazy", Renderer: r, OnlyOnChange: true})

	app.Step()
	app.Step()
	assert.Len(t, r.frames, 1)

	app.Store().AddObject(scene.NewPrimitiveObject("a", scene.PrimitiveBox))
	app.Step()
	assert.Len(t, r.frames, 2)
}

func TestRenderModule_FailuresAreCounted(t *testing.T) {
	app := NewApp()
	r := &nodeRenderer{nodes: map[scene.Handle]scene.Transform{}, fail: true}
	app.UseRenderer("flaky", r)

	app.Step()
	target, _ := Resource[RenderTarget](app)
	assert.Equal(t, uint64(1), target.Failures())
}

func TestRenderModule_SingleRenderer(t *testing.T) {
	app := NewApp()
	app.UseRenderer("one", RendererFunc(func(*Frame) error { return nil }))

	assert.Panics(t, func() {
		app.UseRenderer("two", RendererFunc(func(*Frame) error { return nil }))
	})
}

func TestRenderTarget_CommitNode(t *testing.T) {
	app := NewApp()
	r := &nodeRenderer{nodes: map[scene.Handle]scene.Transform{}}
	app.UseRenderer("test", r)

	obj := scene.NewPrimitiveObject("a", scene.PrimitiveBox)
	obj.Node = 9
	app.Store().AddObject(obj)
	app.Store().RegisterMesh("a", 9)

	dragged := scene.NewTransformAt(mgl32.Vec3{0, 4, 0})
	r.nodes[9] = dragged

	target, _ := Resource[RenderTarget](app)
	target.CommitNode(app.Commands(), "a")
	app.FlushCommands()

	got, _ := app.Store().GetObject("a")
	assert.Equal(t, dragged, got.Transform)
}
