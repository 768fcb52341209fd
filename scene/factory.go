package scene

import (
	"go.uber.org/zap"
)

// NewPrimitiveObject builds a visible mesh entity at the origin with the
// default shape parameters of kind.
func NewPrimitiveObject(id string, kind PrimitiveKind) SceneObject {
	p := DefaultPrimitive(kind)
	return SceneObject{
		ID:        id,
		Name:      DisplayName(string(kind), id),
		Kind:      KindMesh,
		Transform: NewTransform(),
		Visible:   true,
		Primitive: &p,
	}
}

// NewLightObject builds a light entity at DefaultLightPosition.
func NewLightObject(id string, t LightType) SceneObject {
	lp := DefaultLightProperties(t)
	return SceneObject{
		ID:        id,
		Name:      DisplayName(string(t)+" Light", id),
		Kind:      KindLight,
		Transform: NewTransformAt(DefaultLightPosition),
		Visible:   true,
		Light:     &lp,
	}
}

func NewGroupObject(id, name string) SceneObject {
	if name == "" {
		name = DisplayName("group", id)
	}
	return SceneObject{
		ID:        id,
		Name:      name,
		Kind:      KindGroup,
		Transform: NewTransform(),
		Visible:   true,
		Children:  []string{},
	}
}

// CreatePrimitive adds a new primitive of kind and returns its id, or "" for
// an unknown kind.
func (s *Store) CreatePrimitive(kind PrimitiveKind) string {
	if !kind.Valid() {
		s.log.Warn("unknown primitive", zap.String("kind", string(kind)))
		return ""
	}
	id := s.GenerateID()
	s.AddObject(NewPrimitiveObject(id, kind))
	return id
}

func (s *Store) CreateLight(t LightType) string {
	if !t.Valid() {
		s.log.Warn("unknown light type", zap.String("type", string(t)))
		return ""
	}
	id := s.GenerateID()
	s.AddObject(NewLightObject(id, t))
	return id
}

// CreateGroup adds an empty group and moves the given objects under it in
// one step. Children that would create a cycle stay where they are.
func (s *Store) CreateGroup(name string, children ...string) string {
	id := s.GenerateID()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addLocked(NewGroupObject(id, name))
	for _, c := range children {
		s.reparentLocked(c, id)
	}
	return id
}
