package sceneedit

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gekko3d/sceneedit/scene"
)

type MockResource1 struct {
	name string
}
type MockResource2 struct {
	name string
}

func NewMockResource1(name string) *MockResource1 {
	return &MockResource1{name: name}
}
func NewMockResource2(name string) *MockResource2 {
	return &MockResource2{name: name}
}

func TestApp_addResources(t *testing.T) {
	// Test setup
	app := &App{
		resources: make(map[reflect.Type]any),
	}

	// Add a resource
	resource1 := NewMockResource1("Resource1")
	app.addResources(resource1)

	// Check that the resource was added
	assert.Contains(t, app.resources, reflect.TypeOf(resource1).Elem(), "Resource1 should be in resources map.")

	// Expect panic when trying to add the same type of resource again
	require.PanicsWithValue(t, fmt.Sprintf("%s is already in resources", reflect.TypeOf(resource1)), func() {
		app.addResources(resource1) // Try adding resource1 again, should panic
	})

	// Add a resource
	resource2 := NewMockResource2("Resource2")
	app.addResources(resource2)

	// Check that the resource was added
	assert.Contains(t, app.resources, reflect.TypeOf(resource2).Elem(), "Resource2 should be in resources map.")
}

func TestApp_StoreIsAResource(t *testing.T) {
	app := NewApp()

	store, ok := Resource[scene.Store](app)
	require.True(t, ok)
	assert.Same(t, app.Store(), store)

	_, ok = Resource[MockResource1](app)
	assert.False(t, ok)
}

func TestApp_SystemInjection(t *testing.T) {
	app := NewApp()
	app.Commands().AddResources(NewMockResource1("one"))

	var got string
	var gotCmd *Commands
	app.UseSystem(System(func(cmd *Commands, r *MockResource1, s *scene.Store) {
		got = r.name
		gotCmd = cmd
	}).InStage(Update))
	app.Step()

	assert.Equal(t, "one", got)
	require.NotNil(t, gotCmd)
	assert.Equal(t, uint64(1), app.Frame())
}

func TestApp_UnresolvedDependencyPanics(t *testing.T) {
	app := NewApp()
	app.UseSystem(System(func(r *MockResource2) {}))

	assert.Panics(t, app.Step)
}

func TestApp_NonPointerArgumentPanics(t *testing.T) {
	app := NewApp()
	app.UseSystem(System(func(r MockResource1) {}))

	assert.Panics(t, app.Step)
}

func TestApp_CommandsFlushAtStageEnd(t *testing.T) {
	app := NewApp()

	var seenInSameStage, seenInNextStage bool
	app.UseSystem(System(func(cmd *Commands) {
		cmd.AddObject(scene.NewPrimitiveObject("obj_box", scene.PrimitiveBox))
		_, seenInSameStage = cmd.Store().GetObject("obj_box")
	}).InStage(Update))
	app.UseSystem(System(func(store *scene.Store) {
		_, seenInNextStage = store.GetObject("obj_box")
	}).InStage(PostUpdate))
	app.Step()

	assert.False(t, seenInSameStage, "queued objects must not appear before the flush")
	assert.True(t, seenInNextStage)
}

func TestApp_FlushKeepsOrder(t *testing.T) {
	app := NewApp()
	cmd := app.Commands()

	cmd.AddObject(scene.NewPrimitiveObject("obj_a", scene.PrimitiveBox))
	cmd.SelectObject("obj_a", false)
	cmd.RemoveObject("obj_a")
	cmd.AddObject(scene.NewPrimitiveObject("obj_b", scene.PrimitiveBox))
	cmd.SelectObject("obj_b", false)
	assert.Equal(t, 5, app.PendingCommands())

	app.FlushCommands()
	assert.Equal(t, 0, app.PendingCommands())
	assert.Equal(t, 1, app.Store().Len())
	assert.Equal(t, []string{"obj_b"}, app.Store().SelectedIDs())
}

func TestApp_CommandsQueuedDuringFlushRunNextTime(t *testing.T) {
	app := NewApp()
	cmd := app.Commands()

	cmd.Do("outer", func(s *scene.Store) {
		cmd.AddObject(scene.NewPrimitiveObject("obj_late", scene.PrimitiveBox))
	})
	app.FlushCommands()
	assert.Equal(t, 0, app.Store().Len())
	assert.Equal(t, 1, app.PendingCommands())

	app.FlushCommands()
	assert.Equal(t, 1, app.Store().Len())
}

func TestApp_AddObjectCopiesInput(t *testing.T) {
	app := NewApp()
	obj := scene.NewGroupObject("obj_g", "Group")
	obj.Children = []string{}
	app.Commands().AddObject(obj)

	obj.Name = "changed after queueing"
	app.FlushCommands()

	got, ok := app.Store().GetObject("obj_g")
	require.True(t, ok)
	assert.Equal(t, "Group", got.Name)
}

func TestApp_UpdateObjectCopiesPatch(t *testing.T) {
	app := NewApp()
	app.Store().AddObject(scene.NewPrimitiveObject("obj_b", scene.PrimitiveBox))

	name := "Crate"
	tr := scene.NewTransformAt(mgl32.Vec3{1, 2, 3})
	light := scene.DefaultLightProperties(scene.LightPoint)
	app.Commands().UpdateObject("obj_b", scene.ObjectPatch{Name: &name, Transform: &tr, Light: &light})

	name = "reused"
	tr.Position = mgl32.Vec3{9, 9, 9}
	light.Intensity = 42
	app.FlushCommands()

	got, ok := app.Store().GetObject("obj_b")
	require.True(t, ok)
	assert.Equal(t, "Crate", got.Name)
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, got.Transform.Position)
	require.NotNil(t, got.Light)
	assert.Equal(t, scene.DefaultLightProperties(scene.LightPoint).Intensity, got.Light.Intensity)
}

func TestApp_UseStage(t *testing.T) {
	app := NewApp()
	custom := Stage{Name: "Custom"}
	app.UseStage(custom, AfterStage(Update))

	assert.Equal(t,
		[]string{"Prelude", "PreUpdate", "Update", "Custom", "PostUpdate", "PreRender", "Render", "PostRender", "Finale"},
		app.StageNames())

	require.Panics(t, func() { app.UseStage(custom, BeforeStage(Render)) })
	require.Panics(t, func() { app.UseStage(Stage{Name: "Other"}, BeforeStage(Stage{Name: "Missing"})) })
	require.Panics(t, func() { app.UseSystem(System(func() {}).InStage(Stage{Name: "Missing"})) })
}

func TestApp_SetFrameRate(t *testing.T) {
	app := NewApp()
	app.SetFrameRate(30)
	assert.Equal(t, int64(33333333), app.frameInterval.Nanoseconds())

	app.SetFrameRate(0)
	assert.Equal(t, int64(33333333), app.frameInterval.Nanoseconds())
}
