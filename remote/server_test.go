package remote

import (
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gekko3d/sceneedit"
	"github.com/gekko3d/sceneedit/scene"
)

func newTestApp(t *testing.T) (*sceneedit.App, *Server, string) {
	t.Helper()
	n := 0
	app := sceneedit.NewApp(scene.WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("obj_%d", n)
	}))
	srv := NewServer(nil)
	app.UseModules(
		sceneedit.InputModule{},
		sceneedit.ObjectEditorModule{},
		sceneedit.ImportModule{Notifier: srv},
		srv,
	)

	s := httptest.NewServer(srv)
	t.Cleanup(s.Close)
	return app, srv, "ws" + strings.TrimPrefix(s.URL, "http")
}

func dial(t *testing.T, u string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	first := expect(t, conn, ReplyState)
	require.NotNil(t, first.State)
	return conn
}

// expect reads until a reply of type typ arrives, skipping anything else.
func expect(t *testing.T, conn *websocket.Conn, typ string) Reply {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		var r Reply
		require.NoError(t, conn.ReadJSON(&r))
		if r.Type == typ {
			return r
		}
	}
}

func send(t *testing.T, conn *websocket.Conn, m Message) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(m))
}

func TestServer_InitialSnapshot(t *testing.T) {
	app, _, u := newTestApp(t)
	app.Store().AddObject(scene.NewPrimitiveObject("obj_box", scene.PrimitiveBox))

	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	require.NoError(t, err)
	defer conn.Close()

	r := expect(t, conn, ReplyState)
	require.NotNil(t, r.State)
	assert.Contains(t, r.State.Objects, "obj_box")
	assert.Equal(t, scene.TransformTranslate, r.State.TransformMode)
}

func TestServer_CreateAndBroadcast(t *testing.T) {
	app, srv, u := newTestApp(t)
	a := dial(t, u)
	b := dial(t, u)
	require.Eventually(t, func() bool { return srv.Clients() == 2 }, time.Second, 10*time.Millisecond)

	send(t, a, Message{Op: "createPrimitive", Kind: "sphere", Seq: 7})
	created := expect(t, a, ReplyCreated)
	assert.Equal(t, "obj_1", created.ID)
	assert.Equal(t, uint64(7), created.Seq)
	assert.Equal(t, "createPrimitive", created.Op)

	// queued, not applied
	_, ok := app.Store().GetObject("obj_1")
	assert.False(t, ok)

	app.Step()

	for _, conn := range []*websocket.Conn{a, b} {
		st := expect(t, conn, ReplyState)
		require.Contains(t, st.State.Objects, "obj_1")
		obj := st.State.Objects["obj_1"]
		assert.Equal(t, scene.KindMesh, obj.Kind)
		assert.Equal(t, scene.PrimitiveSphere, obj.Primitive.Kind)
	}
}

func TestServer_SelectionRoundTrip(t *testing.T) {
	app, _, u := newTestApp(t)
	app.Store().AddObject(scene.NewPrimitiveObject("obj_a", scene.PrimitiveBox))
	app.Store().AddObject(scene.NewPrimitiveObject("obj_b", scene.PrimitiveBox))
	conn := dial(t, u)

	send(t, conn, Message{Op: "select", ID: "obj_a"})
	expect(t, conn, ReplyAck)
	send(t, conn, Message{Op: "select", ID: "obj_b", Additive: true})
	expect(t, conn, ReplyAck)
	app.FlushCommands()
	assert.Equal(t, []string{"obj_a", "obj_b"}, app.Store().SelectedIDs())

	send(t, conn, Message{Op: "clickEmpty"})
	expect(t, conn, ReplyAck)
	app.FlushCommands()
	assert.Empty(t, app.Store().SelectedIDs())
}

func TestServer_ViewportPick(t *testing.T) {
	app, _, u := newTestApp(t)
	app.Store().AddObject(scene.NewPrimitiveObject("obj_a", scene.PrimitiveBox))
	conn := dial(t, u)

	send(t, conn, Message{Op: "pick", ID: "obj_a"})
	expect(t, conn, ReplyAck)
	app.Step()
	assert.Equal(t, []string{"obj_a"}, app.Store().SelectedIDs())

	send(t, conn, Message{Op: "keyDown", Key: "r"})
	expect(t, conn, ReplyAck)
	app.Step()
	assert.Equal(t, scene.TransformRotate, app.Store().TransformMode())

	send(t, conn, Message{Op: "pick"})
	expect(t, conn, ReplyAck)
	app.Step()
	assert.Empty(t, app.Store().SelectedIDs())
}

func TestServer_ClockCommands(t *testing.T) {
	app, _, u := newTestApp(t)
	conn := dial(t, u)

	speed := 2.0
	scrub := 4.5
	send(t, conn, Message{Op: "speed", Value: &speed})
	expect(t, conn, ReplyAck)
	send(t, conn, Message{Op: "time", Value: &scrub})
	expect(t, conn, ReplyAck)
	send(t, conn, Message{Op: "play"})
	expect(t, conn, ReplyAck)
	app.FlushCommands()

	c := app.Store().ClockState()
	assert.Equal(t, 2.0, c.Speed)
	assert.Equal(t, 4.5, c.Time)
	assert.True(t, c.Playing)

	send(t, conn, Message{Op: "stop"})
	expect(t, conn, ReplyAck)
	app.FlushCommands()
	c = app.Store().ClockState()
	assert.Equal(t, 0.0, c.Time)
	assert.False(t, c.Playing)
}

func TestServer_ErrorsGoToSenderOnly(t *testing.T) {
	_, _, u := newTestApp(t)
	a := dial(t, u)
	b := dial(t, u)

	send(t, a, Message{Op: "teleport", Seq: 3})
	r := expect(t, a, ReplyError)
	assert.Contains(t, r.Error, ErrUnknownCommand.Error())
	assert.Equal(t, uint64(3), r.Seq)

	send(t, a, Message{Op: "select"})
	r = expect(t, a, ReplyError)
	assert.Contains(t, r.Error, ErrBadPayload.Error())

	send(t, a, Message{Op: "createLight", Kind: "laser"})
	r = expect(t, a, ReplyError)
	assert.Contains(t, r.Error, "laser")

	require.NoError(t, b.SetReadDeadline(time.Now().Add(100*time.Millisecond)))
	var stray Reply
	err := b.ReadJSON(&stray)
	assert.Error(t, err, "b should receive nothing, got %+v", stray)
}

func TestServer_MalformedJSONKeepsConnection(t *testing.T) {
	_, _, u := newTestApp(t)
	conn := dial(t, u)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"op": 12}`)))
	r := expect(t, conn, ReplyError)
	assert.Contains(t, r.Error, ErrBadPayload.Error())

	send(t, conn, Message{Op: "snapshot"})
	st := expect(t, conn, ReplyState)
	assert.NotNil(t, st.State)
}

func TestServer_NoBroadcastWithoutChange(t *testing.T) {
	app, _, u := newTestApp(t)
	conn := dial(t, u)

	app.Step() // first publish
	expect(t, conn, ReplyState)

	app.Step()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(100*time.Millisecond)))
	var r Reply
	assert.Error(t, conn.ReadJSON(&r))
}

func TestServer_ImportFailureNotifies(t *testing.T) {
	_, _, u := newTestApp(t)
	conn := dial(t, u)

	send(t, conn, Message{Op: "import", Filename: "robot.glb", Data: []byte("glTF\x02\x00\x00\x00")})

	// no loader is registered for glb; the ack may arrive on either side
	n := expect(t, conn, ReplyNotice)
	assert.Contains(t, n.Message, "robot.glb")
}
