package sceneedit

import (
	"github.com/gekko3d/sceneedit/scene"
)

// ObjectEditor holds the state of the object editor.
type ObjectEditor struct {
	Enabled bool

	// gizmo grabbed this frame; viewport picks are ignored
	grabbed bool
}

// ObjectEditorModule applies viewport input to the store: picks drive the
// selection, keys switch the transform mode, and gizmo drags move the
// single selected object.
type ObjectEditorModule struct{}

func (m ObjectEditorModule) Install(app *App, cmd *Commands) {
	ensureResource(app, func() *Input { return &Input{} })
	ensureResource(app, func() *Gizmo { return &Gizmo{Scale: 1} })
	ensureResource(app, NewWorldTransforms)
	ensureResource(app, func() *ObjectEditor { return &ObjectEditor{Enabled: true} })

	app.UseSystem(
		System(EditorInteractionSystem).
			InStage(Update),
	)
	app.UseSystem(
		System(EditorSelectionSystem).
			InStage(Update),
	)
	app.UseSystem(
		System(EditorGizmoSyncSystem).
			InStage(PreRender),
	)
}

// EditorInteractionSystem runs gizmo drags from pointer rays.
func EditorInteractionSystem(cmd *Commands, input *Input, gizmo *Gizmo, editor *ObjectEditor) {
	editor.grabbed = false
	if !editor.Enabled {
		gizmo.EndDrag()
		return
	}

	for _, ev := range input.Events {
		switch ev.Kind {
		case EventPointerDown:
			axis, ok := gizmo.PickAxis(ev.Origin, ev.Dir)
			if !ok {
				continue
			}
			target, ok := cmd.Store().GetObject(gizmo.TargetID)
			if !ok || target.Locked {
				continue
			}
			if gizmo.BeginDrag(axis, ev.Origin, ev.Dir, target.Transform) {
				editor.grabbed = true
			}
		case EventPointerMove:
			if !gizmo.Dragging() {
				continue
			}
			if tr, ok := gizmo.DragTo(ev.Origin, ev.Dir); ok {
				cmd.UpdateObject(gizmo.TargetID, scene.ObjectPatch{Transform: &tr})
			}
		case EventPointerUp:
			gizmo.EndDrag()
		}
	}
}

// EditorSelectionSystem applies picks and editor shortcuts.
func EditorSelectionSystem(cmd *Commands, input *Input, editor *ObjectEditor) {
	if !editor.Enabled {
		return
	}

	for _, ev := range input.Events {
		switch ev.Kind {
		case EventPick:
			if editor.grabbed {
				continue
			}
			cmd.SelectObject(ev.ObjectID, ev.Additive)
		case EventPickEmpty:
			if editor.grabbed {
				continue
			}
			cmd.Do("click empty", func(s *scene.Store) { s.ClickEmpty() })
		}
	}

	switch {
	case input.JustPressed[KeyG]:
		setTransformMode(cmd, scene.TransformTranslate)
	case input.JustPressed[KeyR]:
		setTransformMode(cmd, scene.TransformRotate)
	case input.JustPressed[KeyS]:
		setTransformMode(cmd, scene.TransformScale)
	}
	if input.JustPressed[KeyEscape] {
		cmd.Do("clear selection", func(s *scene.Store) { s.ClearSelection() })
	}
	if input.JustPressed[KeyDelete] {
		cmd.Do("delete selection", func(s *scene.Store) {
			for _, id := range s.SelectedIDs() {
				s.RemoveObject(id)
			}
		})
	}
	if input.JustPressed[KeySpace] {
		cmd.Do("toggle playback", func(s *scene.Store) { s.ToggleAnimation() })
	}
}

func setTransformMode(cmd *Commands, mode scene.TransformMode) {
	cmd.Do("transform mode "+string(mode), func(s *scene.Store) { s.SetTransformMode(mode) })
}

// EditorGizmoSyncSystem attaches the gizmo to the transform target.
func EditorGizmoSyncSystem(store *scene.Store, gizmo *Gizmo, world *WorldTransforms) {
	target, ok := store.TransformTarget()
	gizmo.attach(target, ok, store.TransformMode(), world)
}
