package remote

import (
	"errors"

	"github.com/gekko3d/sceneedit/scene"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrBadPayload     = errors.New("bad payload")
)

// Message is one command sent by a client. Only the fields the op reads
// need to be set.
type Message struct {
	Op string `json:"op"`
	// Seq is echoed back in the reply so clients can match answers.
	Seq uint64 `json:"seq,omitempty"`

	ID       string   `json:"id,omitempty"`
	Parent   string   `json:"parent,omitempty"`
	Name     string   `json:"name,omitempty"`
	Kind     string   `json:"kind,omitempty"`
	Children []string `json:"children,omitempty"`
	Additive bool     `json:"additive,omitempty"`

	Channel string `json:"channel,omitempty"`
	Axis    int    `json:"axis,omitempty"`
	Field   string `json:"field,omitempty"`
	Text    string `json:"text,omitempty"`

	Flag  *bool    `json:"flag,omitempty"`
	Value *float64 `json:"value,omitempty"`
	Clip  string   `json:"clip,omitempty"`
	Clips []string `json:"clips,omitempty"`

	Object      *scene.SceneObject         `json:"object,omitempty"`
	Patch       *ObjectPatch               `json:"patch,omitempty"`
	Camera      *scene.CameraPatch         `json:"camera,omitempty"`
	Render      *scene.RenderSettingsPatch `json:"render,omitempty"`
	Environment *scene.Environment         `json:"environment,omitempty"`

	// File uploads (model import, environment maps).
	Filename string `json:"filename,omitempty"`
	URI      string `json:"uri,omitempty"`
	Data     []byte `json:"data,omitempty"`

	// Viewport input.
	Key    string      `json:"key,omitempty"`
	Origin *[3]float32 `json:"origin,omitempty"`
	Dir    *[3]float32 `json:"dir,omitempty"`
	Delta  *[2]float32 `json:"delta,omitempty"`
}

// ObjectPatch is the wire form of scene.ObjectPatch. Node handles and
// mixers never cross the wire.
type ObjectPatch struct {
	Name      *string                    `json:"name,omitempty"`
	Transform *scene.Transform           `json:"transform,omitempty"`
	Visible   *bool                      `json:"visible,omitempty"`
	Locked    *bool                      `json:"locked,omitempty"`
	Light     *scene.LightProperties     `json:"light,omitempty"`
	Primitive *scene.PrimitiveDescriptor `json:"primitive,omitempty"`
}

func (p ObjectPatch) toScene() scene.ObjectPatch {
	return scene.ObjectPatch{
		Name:      p.Name,
		Transform: p.Transform,
		Visible:   p.Visible,
		Locked:    p.Locked,
		Light:     p.Light,
		Primitive: p.Primitive,
	}
}

const (
	ReplyState   = "state"
	ReplyAck     = "ack"
	ReplyCreated = "created"
	ReplyObjects = "objects"
	ReplyError   = "error"
	ReplyNotice  = "notice"
)

// Reply is everything the server sends. Type selects which fields are set.
type Reply struct {
	Type    string              `json:"type"`
	Seq     uint64              `json:"seq,omitempty"`
	Op      string              `json:"op,omitempty"`
	ID      string              `json:"id,omitempty"`
	Error   string              `json:"error,omitempty"`
	Message string              `json:"message,omitempty"`
	State   *scene.State        `json:"state,omitempty"`
	Objects []scene.SceneObject `json:"objects,omitempty"`
}
