package scene

import "slices"

type ObjectKind string

const (
	KindMesh   ObjectKind = "mesh"
	KindLight  ObjectKind = "light"
	KindCamera ObjectKind = "camera"
	KindGroup  ObjectKind = "group"
)

// SceneObject is one addressable entity in the scene. Children and ParentID
// are ids into the store's object table, not ownership edges.
type SceneObject struct {
	ID   string     `json:"id"`
	Name string     `json:"name"`
	Kind ObjectKind `json:"kind"`

	Transform Transform `json:"transform"`
	Node      Handle    `json:"node,omitempty"`

	Visible bool `json:"visible"`
	Locked  bool `json:"locked"`

	Children []string `json:"children,omitempty"`
	ParentID string   `json:"parentId,omitempty"`

	Light     *LightProperties     `json:"light,omitempty"`
	Primitive *PrimitiveDescriptor `json:"primitive,omitempty"`
	Animation *AnimationState      `json:"animation,omitempty"`
}

// Clone returns a copy that shares no mutable memory with o, except for the
// opaque Mixer and clip Data handles.
func (o SceneObject) Clone() SceneObject {
	cp := o
	cp.Children = slices.Clone(o.Children)
	if o.Light != nil {
		l := *o.Light
		cp.Light = &l
	}
	if o.Primitive != nil {
		p := *o.Primitive
		cp.Primitive = &p
	}
	cp.Animation = o.Animation.clone()
	return cp
}

// IsAnimated reports whether o carries at least one clip.
func (o SceneObject) IsAnimated() bool {
	return o.Animation != nil && len(o.Animation.Clips) > 0
}

// ObjectPatch lists the fields UpdateObject merges. Nil fields are left
// untouched. Sub-objects are replaced whole, never merged.
type ObjectPatch struct {
	Name      *string
	Transform *Transform
	Node      *Handle
	Visible   *bool
	Locked    *bool
	Light     *LightProperties
	Primitive *PrimitiveDescriptor
	Animation *AnimationState
}

// Clone returns a patch whose fields point at private copies of p's values.
func (p ObjectPatch) Clone() ObjectPatch {
	return ObjectPatch{
		Name:      clonePtr(p.Name),
		Transform: clonePtr(p.Transform),
		Node:      clonePtr(p.Node),
		Visible:   clonePtr(p.Visible),
		Locked:    clonePtr(p.Locked),
		Light:     clonePtr(p.Light),
		Primitive: clonePtr(p.Primitive),
		Animation: p.Animation.clone(),
	}
}

func clonePtr[T any](v *T) *T {
	if v == nil {
		return nil
	}
	cp := *v
	return &cp
}

func (p ObjectPatch) apply(o *SceneObject) {
	if p.Name != nil {
		o.Name = *p.Name
	}
	if p.Transform != nil {
		o.Transform = *p.Transform
	}
	if p.Node != nil {
		o.Node = *p.Node
	}
	if p.Visible != nil {
		o.Visible = *p.Visible
	}
	if p.Locked != nil {
		o.Locked = *p.Locked
	}
	if p.Light != nil {
		l := *p.Light
		o.Light = &l
	}
	if p.Primitive != nil {
		pr := *p.Primitive
		o.Primitive = &pr
	}
	if p.Animation != nil {
		o.Animation = p.Animation.clone()
	}
}
