package scene

import (
	"go.uber.org/zap"
)

type SelectionState int

const (
	SelectionEmpty SelectionState = iota
	SelectionSingle
	SelectionMulti
)

func (s SelectionState) String() string {
	switch s {
	case SelectionEmpty:
		return "empty"
	case SelectionSingle:
		return "single"
	case SelectionMulti:
		return "multi"
	}
	return "unknown"
}

// SelectObject replaces the selection with id. When additive is set, id is
// toggled instead: removed if already selected, appended otherwise.
// Unknown ids leave the selection untouched.
func (s *Store) SelectObject(id string, additive bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.objects[id]; !ok {
		s.log.Debug("select of unknown object", zap.String("id", id))
		return
	}
	if additive {
		if containsID(s.selected, id) {
			s.selected = removeID(append([]string{}, s.selected...), id)
		} else {
			s.selected = append(append([]string{}, s.selected...), id)
		}
		s.touch()
		return
	}
	if len(s.selected) == 1 && s.selected[0] == id {
		return
	}
	s.selected = []string{id}
	s.touch()
}

func (s *Store) DeselectObject(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !containsID(s.selected, id) {
		return
	}
	s.selected = removeID(append([]string{}, s.selected...), id)
	s.touch()
}

func (s *Store) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.selected) == 0 {
		return
	}
	s.selected = []string{}
	s.touch()
}

// ClickEmpty handles a viewport click that hit nothing.
func (s *Store) ClickEmpty() {
	s.ClearSelection()
}

// SelectedIDs returns the selection in selection order.
func (s *Store) SelectedIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string{}, s.selected...)
}

func (s *Store) IsSelected(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return containsID(s.selected, id)
}

// GetSelectedObjects resolves the selection to objects, skipping ids that
// no longer resolve.
func (s *Store) GetSelectedObjects() []SceneObject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]SceneObject, 0, len(s.selected))
	for _, id := range s.selected {
		if obj, ok := s.objects[id]; ok {
			out = append(out, obj.Clone())
		}
	}
	return out
}

func (s *Store) SelectionState() SelectionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch len(s.selected) {
	case 0:
		return SelectionEmpty
	case 1:
		return SelectionSingle
	}
	return SelectionMulti
}

// TransformTarget is the object the transform gizmo attaches to. There is one
// only when transforms are enabled and exactly one unlocked object is selected.
func (s *Store) TransformTarget() (SceneObject, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.transformEnabled || len(s.selected) != 1 {
		return SceneObject{}, false
	}
	obj, ok := s.objects[s.selected[0]]
	if !ok || obj.Locked {
		return SceneObject{}, false
	}
	return obj.Clone(), true
}
