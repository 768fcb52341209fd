package sceneedit

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/sceneedit/scene"
)

const (
	MinOrbitDistance = 0.1
	MaxOrbitDistance = 1000.0
)

// OrbitCamera turns viewport gestures into edits of the scene camera: orbit
// around the target, pan both, zoom toward the target.
type OrbitCamera struct {
	Enabled bool
	// degrees per pixel
	RotateSpeed float32
	// world units per pixel at distance 1
	PanSpeed float32
	// distance factor per wheel step
	ZoomFactor float32
}

type OrbitCameraModule struct{}

func (m OrbitCameraModule) Install(app *App, cmd *Commands) {
	ensureResource(app, func() *Input { return &Input{} })
	ensureResource(app, func() *Gizmo { return &Gizmo{Scale: 1} })
	ensureResource(app, func() *OrbitCamera {
		return &OrbitCamera{Enabled: true, RotateSpeed: 0.3, PanSpeed: 0.002, ZoomFactor: 0.95}
	})
	app.UseSystem(
		System(OrbitCameraSystem).
			InStage(Update),
	)
}

// OrbitCameraSystem applies the frame's camera gestures. Gestures are ignored
// while the gizmo is being dragged.
func OrbitCameraSystem(cmd *Commands, input *Input, orbit *OrbitCamera, gizmo *Gizmo) {
	if !orbit.Enabled || gizmo.Dragging() {
		return
	}
	if input.OrbitDelta == (mgl32.Vec2{}) && input.PanDelta == (mgl32.Vec2{}) && input.ZoomDelta == 0 {
		return
	}

	cam := cmd.Store().Camera()
	pos, target := orbitCamera(cam.Position, cam.Target, input.OrbitDelta, input.PanDelta, input.ZoomDelta, orbit)
	cmd.Do("orbit camera", func(s *scene.Store) {
		s.UpdateCamera(scene.CameraPatch{Position: &pos, Target: &target})
	})
}

func orbitCamera(pos, target mgl32.Vec3, rotate, pan mgl32.Vec2, zoom float32, o *OrbitCamera) (mgl32.Vec3, mgl32.Vec3) {
	offset := pos.Sub(target)
	radius := offset.Len()
	if radius < MinOrbitDistance {
		offset = mgl32.Vec3{0, 0, MinOrbitDistance}
		radius = MinOrbitDistance
	}

	// spherical coordinates around +Y, polar angle from the up axis
	yaw := math.Atan2(float64(offset.X()), float64(offset.Z()))
	polar := math.Acos(float64(mgl32.Clamp(offset.Y()/radius, -1, 1)))

	yaw -= float64(mgl32.DegToRad(rotate.X() * o.RotateSpeed))
	polar -= float64(mgl32.DegToRad(rotate.Y() * o.RotateSpeed))

	// Clamp polar away from the poles
	const eps = 1e-4
	if polar < eps {
		polar = eps
	}
	if polar > math.Pi-eps {
		polar = math.Pi - eps
	}

	if zoom != 0 {
		radius *= float32(math.Pow(float64(o.ZoomFactor), float64(zoom)))
	}
	radius = mgl32.Clamp(radius, MinOrbitDistance, MaxOrbitDistance)

	dir := mgl32.Vec3{
		float32(math.Sin(polar) * math.Sin(yaw)),
		float32(math.Cos(polar)),
		float32(math.Sin(polar) * math.Cos(yaw)),
	}

	if pan != (mgl32.Vec2{}) {
		forward := dir.Mul(-1)
		right := forward.Cross(mgl32.Vec3{0, 1, 0}).Normalize()
		up := right.Cross(forward).Normalize()
		scale := radius * o.PanSpeed
		move := right.Mul(-pan.X() * scale).Add(up.Mul(pan.Y() * scale))
		target = target.Add(move)
	}

	return target.Add(dir.Mul(radius)), target
}
