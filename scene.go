package sceneedit

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gekko3d/sceneedit/scene"
)

// SceneDef defines the initial content of a scene.
type SceneDef struct {
	Primitives []PrimitiveDef `yaml:"primitives" toml:"primitives"`
	Lights     []LightDef     `yaml:"lights" toml:"lights"`
	Groups     []GroupDef     `yaml:"groups" toml:"groups"`
}

// PrimitiveDef defines a primitive instantiation. Rotation is in degrees.
type PrimitiveDef struct {
	Name     string              `yaml:"name" toml:"name"`
	Kind     scene.PrimitiveKind `yaml:"kind" toml:"kind"`
	Position mgl32.Vec3          `yaml:"position" toml:"position"`
	Rotation mgl32.Vec3          `yaml:"rotation" toml:"rotation"`
	Scale    mgl32.Vec3          `yaml:"scale" toml:"scale"`
	Group    string              `yaml:"group" toml:"group"`
}

// LightDef defines a light instantiation. Zero values take the light defaults.
type LightDef struct {
	Name      string          `yaml:"name" toml:"name"`
	Type      scene.LightType `yaml:"type" toml:"type"`
	Position  *mgl32.Vec3     `yaml:"position" toml:"position"`
	Color     string          `yaml:"color" toml:"color"` // #rrggbb
	Intensity float32         `yaml:"intensity" toml:"intensity"`
	Group     string          `yaml:"group" toml:"group"`
}

// GroupDef names a group that primitives and lights can join by name.
type GroupDef struct {
	Name     string     `yaml:"name" toml:"name"`
	Position mgl32.Vec3 `yaml:"position" toml:"position"`
}

func (d PrimitiveDef) object(id string) scene.SceneObject {
	obj := scene.NewPrimitiveObject(id, d.Kind)
	if d.Name != "" {
		obj.Name = d.Name
	}
	obj.Transform.Position = d.Position
	obj.Transform.Rotation = mgl32.Vec3{
		mgl32.DegToRad(d.Rotation.X()),
		mgl32.DegToRad(d.Rotation.Y()),
		mgl32.DegToRad(d.Rotation.Z()),
	}
	if d.Scale != (mgl32.Vec3{}) {
		obj.Transform.Scale = d.Scale
	}
	return obj
}

func (d LightDef) object(id string, log Logger) scene.SceneObject {
	obj := scene.NewLightObject(id, d.Type)
	if d.Name != "" {
		obj.Name = d.Name
	}
	if d.Position != nil {
		obj.Transform.Position = *d.Position
	}
	if d.Color != "" {
		c, err := scene.ParseHexColor(d.Color)
		if err != nil {
			log.Warnf("Light %s: %v", obj.Name, err)
		} else {
			obj.Light.Color = c
		}
	}
	if d.Intensity > 0 {
		obj.Light.Intensity = d.Intensity
	}
	return obj
}

// SceneModule populates the store from a SceneDef when installed.
type SceneModule struct {
	Def SceneDef
}

func (m SceneModule) Install(app *App, cmd *Commands) {
	store := app.Store()
	log := app.Logger()

	groups := make(map[string]string, len(m.Def.Groups))
	for _, g := range m.Def.Groups {
		obj := scene.NewGroupObject(store.GenerateID(), g.Name)
		obj.Transform.Position = g.Position
		groups[g.Name] = obj.ID
		cmd.AddObject(obj)
	}
	parent := func(name, group string) string {
		if group == "" {
			return ""
		}
		id, ok := groups[group]
		if !ok {
			log.Warnf("%s: unknown group %q", name, group)
		}
		return id
	}

	for _, p := range m.Def.Primitives {
		if !p.Kind.Valid() {
			log.Warnf("Skipping primitive with unknown kind %q", p.Kind)
			continue
		}
		obj := p.object(store.GenerateID())
		obj.ParentID = parent(obj.Name, p.Group)
		cmd.AddObject(obj)
	}
	for _, l := range m.Def.Lights {
		if !l.Type.Valid() {
			log.Warnf("Skipping light with unknown type %q", l.Type)
			continue
		}
		obj := l.object(store.GenerateID(), log)
		obj.ParentID = parent(obj.Name, l.Group)
		cmd.AddObject(obj)
	}
	log.Infof("Scene: %d groups, %d primitives, %d lights queued",
		len(m.Def.Groups), len(m.Def.Primitives), len(m.Def.Lights))
}
