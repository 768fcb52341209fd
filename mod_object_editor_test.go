package sceneedit

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gekko3d/sceneedit/scene"
)

func newEditorApp(t *testing.T) (*App, *Input, *Gizmo) {
	t.Helper()
	app := NewApp()
	app.UseModules(InputModule{}, HierarchyModule{}, ObjectEditorModule{})
	input, ok := Resource[Input](app)
	require.True(t, ok)
	gizmo, ok := Resource[Gizmo](app)
	require.True(t, ok)
	return app, input, gizmo
}

func press(input *Input, key int) {
	input.Push(InputEvent{Kind: EventKeyDown, Key: key})
	input.Push(InputEvent{Kind: EventKeyUp, Key: key})
}

func TestObjectEditor_PickSelects(t *testing.T) {
	app, input, _ := newEditorApp(t)
	app.Store().AddObject(scene.NewPrimitiveObject("a", scene.PrimitiveBox))
	app.Store().AddObject(scene.NewPrimitiveObject("b", scene.PrimitiveBox))

	input.Push(InputEvent{Kind: EventPick, ObjectID: "a"})
	app.Step()
	assert.Equal(t, []string{"a"}, app.Store().SelectedIDs())

	input.Push(InputEvent{Kind: EventPick, ObjectID: "b", Additive: true})
	app.Step()
	assert.Equal(t, []string{"a", "b"}, app.Store().SelectedIDs())

	input.Push(InputEvent{Kind: EventPick, ObjectID: "a", Additive: true})
	app.Step()
	assert.Equal(t, []string{"b"}, app.Store().SelectedIDs())

	input.Push(InputEvent{Kind: EventPickEmpty})
	app.Step()
	assert.Empty(t, app.Store().SelectedIDs())
}

func TestObjectEditor_Shortcuts(t *testing.T) {
	app, input, _ := newEditorApp(t)
	app.Store().AddObject(scene.NewPrimitiveObject("a", scene.PrimitiveBox))
	app.Store().AddObject(scene.NewPrimitiveObject("b", scene.PrimitiveBox))

	press(input, KeyR)
	app.Step()
	assert.Equal(t, scene.TransformRotate, app.Store().TransformMode())

	press(input, KeyS)
	app.Step()
	assert.Equal(t, scene.TransformScale, app.Store().TransformMode())

	press(input, KeyG)
	app.Step()
	assert.Equal(t, scene.TransformTranslate, app.Store().TransformMode())

	app.Store().SelectObject("a", false)
	press(input, KeyEscape)
	app.Step()
	assert.Empty(t, app.Store().SelectedIDs())

	app.Store().SelectObject("a", false)
	press(input, KeyDelete)
	app.Step()
	_, ok := app.Store().GetObject("a")
	assert.False(t, ok)
	assert.Equal(t, 1, app.Store().Len())

	press(input, KeySpace)
	app.Step()
	assert.True(t, app.Store().ClockState().Playing)
}

func TestObjectEditor_HeldKeyFiresOnce(t *testing.T) {
	app, input, _ := newEditorApp(t)

	input.Push(InputEvent{Kind: EventKeyDown, Key: KeySpace})
	app.Step()
	input.Push(InputEvent{Kind: EventKeyDown, Key: KeySpace}) // auto-repeat
	app.Step()

	assert.True(t, app.Store().ClockState().Playing)
	assert.True(t, input.Pressed[KeySpace])
}

func TestObjectEditor_GizmoFollowsTransformTarget(t *testing.T) {
	app, _, gizmo := newEditorApp(t)
	obj := scene.NewPrimitiveObject("a", scene.PrimitiveBox)
	obj.Transform.Position = mgl32.Vec3{1, 2, 3}
	app.Store().AddObject(obj)
	app.Store().AddObject(scene.NewPrimitiveObject("b", scene.PrimitiveBox))

	app.Step()
	assert.False(t, gizmo.Active, "no selection, no gizmo")

	app.Store().SelectObject("a", false)
	app.Step()
	require.True(t, gizmo.Active)
	assert.Equal(t, "a", gizmo.TargetID)
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, gizmo.Position)
	assert.NotEmpty(t, gizmo.Lines())

	app.Store().SelectObject("b", true)
	app.Step()
	assert.False(t, gizmo.Active, "multi selection has no transform target")

	app.Store().SelectObject("b", false)
	app.Store().SetObjectLock("b", true)
	app.Step()
	assert.False(t, gizmo.Active, "locked objects cannot be transformed")

	app.Store().SetObjectLock("b", false)
	app.Store().SetTransformEnabled(false)
	app.Step()
	assert.False(t, gizmo.Active)
	assert.Nil(t, gizmo.Lines())
}

func TestObjectEditor_TranslateDrag(t *testing.T) {
	app, input, gizmo := newEditorApp(t)
	app.Store().AddObject(scene.NewPrimitiveObject("a", scene.PrimitiveBox))
	app.Store().SelectObject("a", false)
	app.Step()
	require.True(t, gizmo.Active)

	down := mgl32.Vec3{0, 0, -1}
	// grab the X arrow one unit out, pick events in the same frame are ignored
	input.Push(InputEvent{Kind: EventPointerDown, Origin: mgl32.Vec3{1, 0, 5}, Dir: down})
	input.Push(InputEvent{Kind: EventPickEmpty})
	input.Push(InputEvent{Kind: EventPointerMove, Origin: mgl32.Vec3{3, 0, 5}, Dir: down})
	app.Step()

	assert.True(t, gizmo.Dragging())
	assert.Equal(t, []string{"a"}, app.Store().SelectedIDs())
	obj, _ := app.Store().GetObject("a")
	assert.InDelta(t, 2.0, obj.Transform.Position.X(), 1e-5)
	assert.InDelta(t, 0.0, obj.Transform.Position.Y(), 1e-5)

	input.Push(InputEvent{Kind: EventPointerMove, Origin: mgl32.Vec3{4, 0, 5}, Dir: down})
	input.Push(InputEvent{Kind: EventPointerUp})
	app.Step()
	assert.False(t, gizmo.Dragging())
	obj, _ = app.Store().GetObject("a")
	assert.InDelta(t, 3.0, obj.Transform.Position.X(), 1e-5)

	// after release, moves do nothing
	input.Push(InputEvent{Kind: EventPointerMove, Origin: mgl32.Vec3{9, 0, 5}, Dir: down})
	app.Step()
	obj, _ = app.Store().GetObject("a")
	assert.InDelta(t, 3.0, obj.Transform.Position.X(), 1e-5)
}

func TestObjectEditor_MissedGizmoDoesNotDrag(t *testing.T) {
	app, input, gizmo := newEditorApp(t)
	app.Store().AddObject(scene.NewPrimitiveObject("a", scene.PrimitiveBox))
	app.Store().SelectObject("a", false)
	app.Step()

	input.Push(InputEvent{Kind: EventPointerDown, Origin: mgl32.Vec3{10, 10, 5}, Dir: mgl32.Vec3{0, 0, -1}})
	input.Push(InputEvent{Kind: EventPickEmpty})
	app.Step()

	assert.False(t, gizmo.Dragging())
	assert.Empty(t, app.Store().SelectedIDs())
}

func TestObjectEditor_Disabled(t *testing.T) {
	app, input, _ := newEditorApp(t)
	editor, _ := Resource[ObjectEditor](app)
	editor.Enabled = false
	app.Store().AddObject(scene.NewPrimitiveObject("a", scene.PrimitiveBox))

	input.Push(InputEvent{Kind: EventPick, ObjectID: "a"})
	press(input, KeyR)
	app.Step()

	assert.Empty(t, app.Store().SelectedIDs())
	assert.Equal(t, scene.TransformTranslate, app.Store().TransformMode())
}

func TestGizmo_ScaleAndRotateDrag(t *testing.T) {
	g := &Gizmo{Scale: 1}
	target := scene.NewPrimitiveObject("a", scene.PrimitiveBox)
	g.attach(target, true, scene.TransformScale, NewWorldTransforms())

	down := mgl32.Vec3{0, 0, -1}
	require.True(t, g.BeginDrag(0, mgl32.Vec3{1, 0, 5}, down, target.Transform))
	tr, ok := g.DragTo(mgl32.Vec3{3, 0, 5}, down)
	require.True(t, ok)
	// factor = 1 + (3-1)/(2*1)
	assert.InDelta(t, 2.0, tr.Scale.X(), 1e-5)
	assert.InDelta(t, 1.0, tr.Scale.Y(), 1e-5)
	g.EndDrag()

	g.attach(target, true, scene.TransformRotate, NewWorldTransforms())
	// rotate about Y: the ring lies in the XZ plane, look straight down
	look := mgl32.Vec3{0, -1, 0}
	require.True(t, g.BeginDrag(1, mgl32.Vec3{2, 5, 0}, look, target.Transform))
	tr, ok = g.DragTo(mgl32.Vec3{0, 5, -2}, look)
	require.True(t, ok)
	// (1,0,0) -> (0,0,-1) is +90 degrees about Y
	assert.InDelta(t, mgl32.DegToRad(90), tr.Rotation.Y(), 1e-4)
}
