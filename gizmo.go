package sceneedit

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/sceneedit/scene"
)

// Gizmo is the transform tool attached to the single selected object.
// It is inactive whenever the store has no transform target.
type Gizmo struct {
	Active   bool
	TargetID string
	Mode     scene.TransformMode
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    float32

	// Internal state for dragging
	dragging     bool
	dragAxis     int
	dragStartS   float32
	dragStartVec mgl32.Vec3
	dragOrigin   mgl32.Vec3
	dragAxisDir  mgl32.Vec3
	dragSize     float32
	dragInitial  scene.Transform
}

var gizmoAxes = [3]mgl32.Vec3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}

var gizmoColors = [3][4]float32{
	{1, 0.2, 0.2, 1},
	{0.2, 1, 0.2, 1},
	{0.2, 0.4, 1, 1},
}

// GizmoLine is one line segment of the gizmo overlay, in world space.
type GizmoLine struct {
	Start mgl32.Vec3
	End   mgl32.Vec3
	Color [4]float32
}

func (g *Gizmo) Dragging() bool {
	return g.dragging
}

func (g *Gizmo) worldAxis(i int) mgl32.Vec3 {
	return g.Rotation.Rotate(gizmoAxes[i])
}

// Lines returns the overlay geometry for the current mode: axis arrows for
// translate and scale, rings for rotate.
func (g *Gizmo) Lines() []GizmoLine {
	if !g.Active {
		return nil
	}
	var lines []GizmoLine
	for i := range gizmoAxes {
		axis := g.worldAxis(i)
		if g.Mode != scene.TransformRotate {
			lines = append(lines, GizmoLine{
				Start: g.Position,
				End:   g.Position.Add(axis.Mul(2 * g.Scale)),
				Color: gizmoColors[i],
			})
			continue
		}
		const segments = 32
		u, v := ringBasis(axis)
		radius := 2 * g.Scale
		for s := 0; s < segments; s++ {
			a0 := float64(s) / segments * 2 * math.Pi
			a1 := float64(s+1) / segments * 2 * math.Pi
			lines = append(lines, GizmoLine{
				Start: g.Position.Add(ringPoint(u, v, radius, a0)),
				End:   g.Position.Add(ringPoint(u, v, radius, a1)),
				Color: gizmoColors[i],
			})
		}
	}
	return lines
}

func ringBasis(normal mgl32.Vec3) (mgl32.Vec3, mgl32.Vec3) {
	ref := mgl32.Vec3{0, 1, 0}
	if math.Abs(float64(normal.Dot(ref))) > 0.9 {
		ref = mgl32.Vec3{1, 0, 0}
	}
	u := normal.Cross(ref).Normalize()
	return u, normal.Cross(u).Normalize()
}

func ringPoint(u, v mgl32.Vec3, r float32, angle float64) mgl32.Vec3 {
	return u.Mul(r * float32(math.Cos(angle))).Add(v.Mul(r * float32(math.Sin(angle))))
}

// PickAxis returns the gizmo axis hit by the ray, if any.
func (g *Gizmo) PickAxis(origin, dir mgl32.Vec3) (int, bool) {
	if !g.Active {
		return 0, false
	}
	best := -1
	minT := float32(1000.0)
	for i := range gizmoAxes {
		axis := g.worldAxis(i)
		if g.Mode != scene.TransformRotate {
			t, s, d := closestPoints(origin, dir, g.Position, axis)
			if t > 0 && s >= 0 && s <= 2.2*g.Scale && d < 0.25*g.Scale && t < minT {
				minT = t
				best = i
			}
			continue
		}
		// rings lie in the plane whose normal is the axis
		hit, t, ok := rayPlane(origin, dir, g.Position, axis)
		if !ok {
			continue
		}
		dist := hit.Sub(g.Position).Len()
		if math.Abs(float64(dist-2.0*g.Scale)) < float64(0.4*g.Scale) && t < minT {
			minT = t
			best = i
		}
	}
	return best, best >= 0
}

// BeginDrag starts dragging axis from the ray. initial is the target's
// transform at the start of the drag.
func (g *Gizmo) BeginDrag(axis int, origin, dir mgl32.Vec3, initial scene.Transform) bool {
	if !g.Active || axis < 0 || axis > 2 {
		return false
	}
	wAxis := g.worldAxis(axis)
	if g.Mode == scene.TransformRotate {
		hit, _, ok := rayPlane(origin, dir, g.Position, wAxis)
		if !ok {
			return false
		}
		g.dragStartVec = hit.Sub(g.Position).Normalize()
	} else {
		_, s, _ := closestPoints(origin, dir, g.Position, wAxis)
		g.dragStartS = s
	}
	g.dragging = true
	g.dragAxis = axis
	g.dragOrigin = g.Position
	g.dragAxisDir = wAxis
	g.dragSize = g.Scale
	g.dragInitial = initial
	return true
}

// DragTo returns the target transform for the current ray.
func (g *Gizmo) DragTo(origin, dir mgl32.Vec3) (scene.Transform, bool) {
	if !g.dragging {
		return scene.Transform{}, false
	}
	tr := g.dragInitial
	wAxis := g.dragAxisDir
	origin0 := g.dragOrigin

	switch g.Mode {
	case scene.TransformTranslate:
		_, s, _ := closestPoints(origin, dir, origin0, wAxis)
		tr.Position = g.dragInitial.Position.Add(wAxis.Mul(s - g.dragStartS))
	case scene.TransformScale:
		_, s, _ := closestPoints(origin, dir, origin0, wAxis)
		factor := 1 + (s-g.dragStartS)/(2*g.dragSize)
		if factor < 0.01 {
			factor = 0.01
		}
		tr.Scale[g.dragAxis] = g.dragInitial.Scale[g.dragAxis] * factor
	case scene.TransformRotate:
		hit, _, ok := rayPlane(origin, dir, origin0, wAxis)
		if !ok {
			return scene.Transform{}, false
		}
		cur := hit.Sub(origin0).Normalize()
		angle := float32(math.Atan2(float64(g.dragStartVec.Cross(cur).Dot(wAxis)), float64(g.dragStartVec.Dot(cur))))
		tr.Rotation[g.dragAxis] = g.dragInitial.Rotation[g.dragAxis] + angle
	default:
		return scene.Transform{}, false
	}
	return tr, true
}

func (g *Gizmo) EndDrag() {
	g.dragging = false
}

// attach places the gizmo on target, or deactivates it.
func (g *Gizmo) attach(target scene.SceneObject, ok bool, mode scene.TransformMode, world *WorldTransforms) {
	if !ok {
		*g = Gizmo{Scale: 1}
		return
	}
	if g.TargetID != target.ID {
		g.dragging = false
	}
	g.Active = true
	g.TargetID = target.ID
	g.Mode = mode
	g.Position = target.Transform.Position
	g.Rotation = target.Transform.Quat()
	scale := target.Transform.Scale
	if w, found := world.Get(target.ID); found {
		g.Position = w.Position
		g.Rotation = w.Rotation
		scale = w.Scale
	}
	maxDim := float32(math.Max(math.Abs(float64(scale.X())), math.Max(math.Abs(float64(scale.Y())), math.Abs(float64(scale.Z())))))
	g.Scale = maxDim * 0.5
	if g.Scale < 1.0 {
		g.Scale = 1.0
	}
}

func closestPoints(ro, rd, ao, ad mgl32.Vec3) (float32, float32, float32) {
	r := ro.Sub(ao)
	a := rd.Dot(rd)
	b := rd.Dot(ad)
	e := ad.Dot(ad)
	f := ad.Dot(r)

	det := a*e - b*b
	if det < 1e-6 {
		return 0, 0, r.Len()
	}

	c := rd.Dot(r)
	t := (b*f - c*e) / det
	s := (a*f - b*c) / det

	p1 := ro.Add(rd.Mul(t))
	p2 := ao.Add(ad.Mul(s))
	return t, s, p1.Sub(p2).Len()
}

func rayPlane(origin, dir, point, normal mgl32.Vec3) (mgl32.Vec3, float32, bool) {
	denom := dir.Dot(normal)
	if math.Abs(float64(denom)) <= 1e-6 {
		return mgl32.Vec3{}, 0, false
	}
	t := point.Sub(origin).Dot(normal) / denom
	if t <= 0 {
		return mgl32.Vec3{}, 0, false
	}
	return origin.Add(dir.Mul(t)), t, true
}
