package sceneedit

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/sceneedit/scene"
)

// WorldTransform is an object's transform composed with all of its parents.
type WorldTransform struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
}

func (w WorldTransform) Matrix() mgl32.Mat4 {
	return mgl32.Translate3D(w.Position.X(), w.Position.Y(), w.Position.Z()).
		Mul4(w.Rotation.Mat4()).
		Mul4(mgl32.Scale3D(w.Scale.X(), w.Scale.Y(), w.Scale.Z()))
}

func localWorld(t scene.Transform) WorldTransform {
	return WorldTransform{Position: t.Position, Rotation: t.Quat(), Scale: t.Scale}
}

// compose places local under parent. Components are propagated directly to
// preserve scale signs (reflections).
func compose(parent, local WorldTransform) WorldTransform {
	// WorldPos = ParentPos + ParentRot * (ParentScale * LocalPos)
	scaledLocalPos := mgl32.Vec3{
		local.Position.X() * parent.Scale.X(),
		local.Position.Y() * parent.Scale.Y(),
		local.Position.Z() * parent.Scale.Z(),
	}
	return WorldTransform{
		Position: parent.Position.Add(parent.Rotation.Rotate(scaledLocalPos)),
		// WorldRot = ParentRot * LocalRot
		Rotation: parent.Rotation.Mul(local.Rotation).Normalize(),
		// WorldScale = ParentScale * LocalScale
		Scale: mgl32.Vec3{
			parent.Scale.X() * local.Scale.X(),
			parent.Scale.Y() * local.Scale.Y(),
			parent.Scale.Z() * local.Scale.Z(),
		},
	}
}

// ComputeWorldTransforms resolves the world transform of every object.
// Objects whose parent is missing are treated as roots.
func ComputeWorldTransforms(objects map[string]scene.SceneObject) map[string]WorldTransform {
	out := make(map[string]WorldTransform, len(objects))
	visiting := make(map[string]bool)

	var resolve func(id string) WorldTransform
	resolve = func(id string) WorldTransform {
		if w, ok := out[id]; ok {
			return w
		}
		obj := objects[id]
		w := localWorld(obj.Transform)
		if parent, ok := objects[obj.ParentID]; ok && obj.ParentID != "" && !visiting[id] {
			visiting[id] = true
			w = compose(resolve(parent.ID), w)
			delete(visiting, id)
		}
		out[id] = w
		return w
	}
	for id := range objects {
		resolve(id)
	}
	return out
}

// WorldTransforms holds the world transform of every object as of the last
// store revision it saw.
type WorldTransforms struct {
	byID     map[string]WorldTransform
	revision uint64
	valid    bool
}

func NewWorldTransforms() *WorldTransforms {
	return &WorldTransforms{byID: make(map[string]WorldTransform)}
}

func (w *WorldTransforms) Get(id string) (WorldTransform, bool) {
	t, ok := w.byID[id]
	return t, ok
}

func (w *WorldTransforms) Len() int {
	return len(w.byID)
}

// All returns a copy of the table.
func (w *WorldTransforms) All() map[string]WorldTransform {
	cp := make(map[string]WorldTransform, len(w.byID))
	for id, t := range w.byID {
		cp[id] = t
	}
	return cp
}

type HierarchyModule struct{}

func (HierarchyModule) Install(app *App, cmd *Commands) {
	ensureResource(app, NewWorldTransforms)
	app.UseSystem(
		System(TransformHierarchySystem).
			InStage(PostUpdate),
	)
}

func TransformHierarchySystem(store *scene.Store, world *WorldTransforms) {
	rev := store.Revision()
	if world.valid && rev == world.revision {
		return
	}
	snap := store.Snapshot()
	world.byID = ComputeWorldTransforms(snap.Objects)
	world.revision = snap.Revision
	world.valid = true
}
