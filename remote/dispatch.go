package remote

import (
	"context"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/sceneedit"
	"github.com/gekko3d/sceneedit/scene"
)

type handler func(s *Server, cmd *sceneedit.Commands, m Message) (Reply, error)

// handlers maps op names to their handlers. Every mutating handler queues
// its change on the app's command queue, so it lands at the next stage
// boundary like any other edit.
var handlers = map[string]handler{
	"snapshot": func(s *Server, cmd *sceneedit.Commands, m Message) (Reply, error) {
		st := cmd.Store().Snapshot()
		return Reply{Type: ReplyState, State: &st}, nil
	},
	"filter": func(s *Server, cmd *sceneedit.Commands, m Message) (Reply, error) {
		return Reply{Type: ReplyObjects, Objects: cmd.Store().FilterObjects(m.Text)}, nil
	},

	// objects
	"add": func(s *Server, cmd *sceneedit.Commands, m Message) (Reply, error) {
		if m.Object == nil || m.Object.ID == "" {
			return Reply{}, fmt.Errorf("%w: add needs an object with an id", ErrBadPayload)
		}
		obj := *m.Object
		obj.Node = 0
		cmd.AddObject(obj)
		return Reply{Type: ReplyAck, ID: obj.ID}, nil
	},
	"remove": withID(func(cmd *sceneedit.Commands, m Message) {
		cmd.RemoveObject(m.ID)
	}),
	"update": func(s *Server, cmd *sceneedit.Commands, m Message) (Reply, error) {
		if m.ID == "" || m.Patch == nil {
			return Reply{}, fmt.Errorf("%w: update needs id and patch", ErrBadPayload)
		}
		cmd.UpdateObject(m.ID, m.Patch.toScene())
		return Reply{Type: ReplyAck, ID: m.ID}, nil
	},
	"rename": withID(func(cmd *sceneedit.Commands, m Message) {
		cmd.Do("rename "+m.ID, func(st *scene.Store) { st.RenameObject(m.ID, m.Name) })
	}),
	"visibility": withFlag(func(cmd *sceneedit.Commands, m Message, v bool) {
		cmd.Do("visibility "+m.ID, func(st *scene.Store) { st.SetObjectVisibility(m.ID, v) })
	}),
	"lock": withFlag(func(cmd *sceneedit.Commands, m Message, v bool) {
		cmd.Do("lock "+m.ID, func(st *scene.Store) { st.SetObjectLock(m.ID, v) })
	}),
	"reparent": withID(func(cmd *sceneedit.Commands, m Message) {
		cmd.Do("reparent "+m.ID, func(st *scene.Store) { st.Reparent(m.ID, m.Parent) })
	}),
	"createPrimitive": func(s *Server, cmd *sceneedit.Commands, m Message) (Reply, error) {
		kind := scene.PrimitiveKind(m.Kind)
		if !kind.Valid() {
			return Reply{}, fmt.Errorf("%w: primitive kind %q", ErrBadPayload, m.Kind)
		}
		id := cmd.Store().GenerateID()
		cmd.AddObject(scene.NewPrimitiveObject(id, kind))
		return Reply{Type: ReplyCreated, ID: id}, nil
	},
	"createLight": func(s *Server, cmd *sceneedit.Commands, m Message) (Reply, error) {
		lt := scene.LightType(m.Kind)
		if !lt.Valid() {
			return Reply{}, fmt.Errorf("%w: light type %q", ErrBadPayload, m.Kind)
		}
		id := cmd.Store().GenerateID()
		cmd.AddObject(scene.NewLightObject(id, lt))
		return Reply{Type: ReplyCreated, ID: id}, nil
	},
	"createGroup": func(s *Server, cmd *sceneedit.Commands, m Message) (Reply, error) {
		id := cmd.Store().GenerateID()
		group := scene.NewGroupObject(id, m.Name)
		children := append([]string(nil), m.Children...)
		cmd.Do("group "+id, func(st *scene.Store) {
			st.AddObject(group)
			for _, c := range children {
				st.Reparent(c, id)
			}
		})
		return Reply{Type: ReplyCreated, ID: id}, nil
	},
	"editTransform": withID(func(cmd *sceneedit.Commands, m Message) {
		ch := scene.TransformChannel(m.Channel)
		cmd.Do("edit transform "+m.ID, func(st *scene.Store) { st.EditTransformAxis(m.ID, ch, m.Axis, m.Text) })
	}),
	"editLight": withID(func(cmd *sceneedit.Commands, m Message) {
		cmd.Do("edit light "+m.ID, func(st *scene.Store) { st.EditLightField(m.ID, m.Field, m.Text) })
	}),

	// selection
	"select": withID(func(cmd *sceneedit.Commands, m Message) {
		cmd.SelectObject(m.ID, m.Additive)
	}),
	"deselect": withID(func(cmd *sceneedit.Commands, m Message) {
		cmd.Do("deselect "+m.ID, func(st *scene.Store) { st.DeselectObject(m.ID) })
	}),
	"clearSelection": queued("clear selection", func(st *scene.Store) { st.ClearSelection() }),
	"clickEmpty":     queued("click empty", func(st *scene.Store) { st.ClickEmpty() }),

	// editor settings
	"transformMode": func(s *Server, cmd *sceneedit.Commands, m Message) (Reply, error) {
		mode := scene.TransformMode(m.Kind)
		if !mode.Valid() {
			return Reply{}, fmt.Errorf("%w: transform mode %q", ErrBadPayload, m.Kind)
		}
		cmd.Do("transform mode "+m.Kind, func(st *scene.Store) { st.SetTransformMode(mode) })
		return Reply{Type: ReplyAck}, nil
	},
	"transformEnabled": withFlag(func(cmd *sceneedit.Commands, m Message, v bool) {
		cmd.Do("transform enabled", func(st *scene.Store) { st.SetTransformEnabled(v) })
	}),
	"viewMode": func(s *Server, cmd *sceneedit.Commands, m Message) (Reply, error) {
		if m.Kind == "" {
			return Reply{}, fmt.Errorf("%w: viewMode needs a kind", ErrBadPayload)
		}
		vm := scene.NewViewMode(scene.ViewModeType(m.Kind))
		if m.Name != "" {
			vm.Name = m.Name
		}
		cmd.Do("view mode "+m.Kind, func(st *scene.Store) { st.SetViewMode(vm) })
		return Reply{Type: ReplyAck}, nil
	},
	"camera": func(s *Server, cmd *sceneedit.Commands, m Message) (Reply, error) {
		if m.Camera == nil {
			return Reply{}, fmt.Errorf("%w: camera needs a patch", ErrBadPayload)
		}
		p := *m.Camera
		cmd.Do("camera", func(st *scene.Store) { st.UpdateCamera(p) })
		return Reply{Type: ReplyAck}, nil
	},
	"render": func(s *Server, cmd *sceneedit.Commands, m Message) (Reply, error) {
		if m.Render == nil {
			return Reply{}, fmt.Errorf("%w: render needs a patch", ErrBadPayload)
		}
		p := *m.Render
		cmd.Do("render settings", func(st *scene.Store) { st.UpdateRenderSettings(p) })
		return Reply{Type: ReplyAck}, nil
	},
	"environment": func(s *Server, cmd *sceneedit.Commands, m Message) (Reply, error) {
		if m.Environment == nil {
			return Reply{}, fmt.Errorf("%w: environment missing", ErrBadPayload)
		}
		cmd.SetEnvironment(*m.Environment)
		return Reply{Type: ReplyAck}, nil
	},
	"clearEnvironment": queued("clear environment", func(st *scene.Store) {
		st.SetEnvironment(scene.DefaultEnvironment())
	}),
	"loadEnvironment": func(s *Server, cmd *sceneedit.Commands, m Message) (Reply, error) {
		im, ok := sceneedit.Resource[sceneedit.Importer](s.app)
		if !ok {
			return Reply{}, fmt.Errorf("%w: importing is not enabled", ErrUnknownCommand)
		}
		uri := m.URI
		if uri == "" {
			uri = m.Filename
		}
		if err := im.LoadEnvironment(m.Filename, uri, m.Data); err != nil {
			return Reply{}, err
		}
		return Reply{Type: ReplyAck}, nil
	},
	"import": func(s *Server, cmd *sceneedit.Commands, m Message) (Reply, error) {
		im, ok := sceneedit.Resource[sceneedit.Importer](s.app)
		if !ok {
			return Reply{}, fmt.Errorf("%w: importing is not enabled", ErrUnknownCommand)
		}
		if m.Filename == "" || len(m.Data) == 0 {
			return Reply{}, fmt.Errorf("%w: import needs filename and data", ErrBadPayload)
		}
		im.Import(context.Background(), m.Filename, m.Data)
		return Reply{Type: ReplyAck}, nil
	},

	// animation clock
	"play":   queued("play", func(st *scene.Store) { st.PlayAnimation() }),
	"pause":  queued("pause", func(st *scene.Store) { st.PauseAnimation() }),
	"toggle": queued("toggle playback", func(st *scene.Store) { st.ToggleAnimation() }),
	"stop":   queued("stop", func(st *scene.Store) { st.StopAnimation() }),
	"time": withValue(func(cmd *sceneedit.Commands, v float64) {
		cmd.Do("scrub", func(st *scene.Store) { st.SetAnimationTime(v) })
	}),
	"speed": withValue(func(cmd *sceneedit.Commands, v float64) {
		cmd.Do("speed", func(st *scene.Store) { st.SetAnimationSpeed(v) })
	}),
	"activeClips": withID(func(cmd *sceneedit.Commands, m Message) {
		clips := append([]string(nil), m.Clips...)
		cmd.Do("active clips "+m.ID, func(st *scene.Store) { st.SetActiveClips(m.ID, clips...) })
	}),
	"toggleClip": withID(func(cmd *sceneedit.Commands, m Message) {
		cmd.Do("toggle clip "+m.ID, func(st *scene.Store) { st.ToggleClip(m.ID, m.Clip) })
	}),
	"loop": withFlag(func(cmd *sceneedit.Commands, m Message, v bool) {
		cmd.Do("loop "+m.ID, func(st *scene.Store) { st.SetAnimationLoop(m.ID, v) })
	}),

	// viewport input
	"pick": func(s *Server, cmd *sceneedit.Commands, m Message) (Reply, error) {
		in, ok := sceneedit.Resource[sceneedit.Input](s.app)
		if !ok {
			return Reply{}, fmt.Errorf("%w: viewport input is not enabled", ErrUnknownCommand)
		}
		if m.ID == "" {
			in.Push(sceneedit.InputEvent{Kind: sceneedit.EventPickEmpty})
		} else {
			in.Push(sceneedit.InputEvent{Kind: sceneedit.EventPick, ObjectID: m.ID, Additive: m.Additive})
		}
		return Reply{Type: ReplyAck}, nil
	},
	"keyDown":     keyEvent(sceneedit.EventKeyDown),
	"keyUp":       keyEvent(sceneedit.EventKeyUp),
	"pointerDown": pointerEvent(sceneedit.EventPointerDown),
	"pointerMove": pointerEvent(sceneedit.EventPointerMove),
	"pointerUp":   pointerEvent(sceneedit.EventPointerUp),
	"orbit":       gestureEvent(sceneedit.EventOrbit),
	"pan":         gestureEvent(sceneedit.EventPan),
	"zoom":        gestureEvent(sceneedit.EventZoom),
}

func withID(fn func(cmd *sceneedit.Commands, m Message)) handler {
	return func(s *Server, cmd *sceneedit.Commands, m Message) (Reply, error) {
		if m.ID == "" {
			return Reply{}, fmt.Errorf("%w: %s needs an id", ErrBadPayload, m.Op)
		}
		fn(cmd, m)
		return Reply{Type: ReplyAck, ID: m.ID}, nil
	}
}

func withFlag(fn func(cmd *sceneedit.Commands, m Message, v bool)) handler {
	return func(s *Server, cmd *sceneedit.Commands, m Message) (Reply, error) {
		if m.Flag == nil {
			return Reply{}, fmt.Errorf("%w: %s needs a flag", ErrBadPayload, m.Op)
		}
		fn(cmd, m, *m.Flag)
		return Reply{Type: ReplyAck, ID: m.ID}, nil
	}
}

func withValue(fn func(cmd *sceneedit.Commands, v float64)) handler {
	return func(s *Server, cmd *sceneedit.Commands, m Message) (Reply, error) {
		if m.Value == nil {
			return Reply{}, fmt.Errorf("%w: %s needs a value", ErrBadPayload, m.Op)
		}
		fn(cmd, *m.Value)
		return Reply{Type: ReplyAck}, nil
	}
}

func queued(name string, fn func(*scene.Store)) handler {
	return func(s *Server, cmd *sceneedit.Commands, m Message) (Reply, error) {
		cmd.Do(name, fn)
		return Reply{Type: ReplyAck}, nil
	}
}

func keyEvent(kind sceneedit.InputEventKind) handler {
	return func(s *Server, cmd *sceneedit.Commands, m Message) (Reply, error) {
		in, ok := sceneedit.Resource[sceneedit.Input](s.app)
		if !ok {
			return Reply{}, fmt.Errorf("%w: viewport input is not enabled", ErrUnknownCommand)
		}
		key, ok := sceneedit.KeyFromName(m.Key)
		if !ok {
			return Reply{}, fmt.Errorf("%w: key %q", ErrBadPayload, m.Key)
		}
		in.Push(sceneedit.InputEvent{Kind: kind, Key: key})
		return Reply{Type: ReplyAck}, nil
	}
}

func pointerEvent(kind sceneedit.InputEventKind) handler {
	return func(s *Server, cmd *sceneedit.Commands, m Message) (Reply, error) {
		in, ok := sceneedit.Resource[sceneedit.Input](s.app)
		if !ok {
			return Reply{}, fmt.Errorf("%w: viewport input is not enabled", ErrUnknownCommand)
		}
		ev := sceneedit.InputEvent{Kind: kind}
		if kind != sceneedit.EventPointerUp {
			if m.Origin == nil || m.Dir == nil {
				return Reply{}, fmt.Errorf("%w: %s needs origin and dir", ErrBadPayload, m.Op)
			}
			ev.Origin = mgl32.Vec3(*m.Origin)
			ev.Dir = mgl32.Vec3(*m.Dir).Normalize()
		}
		in.Push(ev)
		return Reply{Type: ReplyAck}, nil
	}
}

func gestureEvent(kind sceneedit.InputEventKind) handler {
	return func(s *Server, cmd *sceneedit.Commands, m Message) (Reply, error) {
		in, ok := sceneedit.Resource[sceneedit.Input](s.app)
		if !ok {
			return Reply{}, fmt.Errorf("%w: viewport input is not enabled", ErrUnknownCommand)
		}
		if m.Delta == nil {
			return Reply{}, fmt.Errorf("%w: %s needs a delta", ErrBadPayload, m.Op)
		}
		in.Push(sceneedit.InputEvent{Kind: kind, Delta: mgl32.Vec2(*m.Delta)})
		return Reply{Type: ReplyAck}, nil
	}
}

// dispatch runs one client message. The returned reply carries the
// message's op and seq.
func (s *Server) dispatch(m Message) (Reply, error) {
	h, ok := handlers[m.Op]
	if !ok {
		return Reply{}, fmt.Errorf("%w: %q", ErrUnknownCommand, m.Op)
	}
	r, err := h(s, s.app.Commands(), m)
	if err != nil {
		return Reply{}, err
	}
	r.Op = m.Op
	r.Seq = m.Seq
	return r, nil
}
