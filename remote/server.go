// Package remote exposes a running editor App over websockets. Clients send
// JSON commands and receive a fresh scene snapshot whenever the store
// changes.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/gekko3d/sceneedit"
	"github.com/gekko3d/sceneedit/scene"
)

const (
	sendBuffer   = 64
	writeTimeout = 5 * time.Second
)

type client struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func (c *client) close() {
	c.once.Do(func() {
		close(c.send)
	})
}

// Server is both a sceneedit.Module and an http.Handler. Install it into the
// App before serving.
type Server struct {
	app      *sceneedit.App
	log      *zap.Logger
	upgrader websocket.Upgrader

	mu        sync.Mutex
	clients   map[*client]struct{}
	lastRev   uint64
	published bool
}

func NewServer(log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		log: log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // local tool; any origin may connect
			},
		},
		clients: make(map[*client]struct{}),
	}
}

func (s *Server) Install(app *sceneedit.App, cmd *sceneedit.Commands) {
	s.app = app
	app.UseSystem(
		sceneedit.System(s.publishSystem).
			InStage(sceneedit.Finale),
	)
}

// publishSystem broadcasts the scene to every client when the revision moved
// since the last broadcast.
func (s *Server) publishSystem(store *scene.Store) {
	rev := store.Revision()
	s.mu.Lock()
	if s.published && rev == s.lastRev {
		s.mu.Unlock()
		return
	}
	s.lastRev = rev
	s.published = true
	n := len(s.clients)
	s.mu.Unlock()

	if n == 0 {
		return
	}
	st := store.Snapshot()
	s.Broadcast(Reply{Type: ReplyState, State: &st})
}

// Clients is the number of connected clients.
func (s *Server) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// Broadcast sends r to every client. Clients that fall behind are dropped.
func (s *Server) Broadcast(r Reply) {
	data, err := json.Marshal(r)
	if err != nil {
		s.log.Error("Failed to encode broadcast", zap.Error(err))
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		select {
		case c.send <- data:
		default:
			s.log.Warn("Dropping slow client", zap.String("remote", c.conn.RemoteAddr().String()))
			delete(s.clients, c)
			c.close()
		}
	}
}

// Notify implements sceneedit.Notifier by broadcasting a notice.
func (s *Server) Notify(msg string) {
	s.Broadcast(Reply{Type: ReplyNotice, Message: msg})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if s.app == nil {
		http.Error(w, "editor not running", http.StatusServiceUnavailable)
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("Websocket upgrade failed", zap.Error(err))
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	st := s.app.Store().Snapshot()
	first, err := json.Marshal(Reply{Type: ReplyState, State: &st})
	if err != nil {
		s.log.Error("Failed to encode snapshot", zap.Error(err))
		_ = conn.Close()
		return
	}
	c.send <- first

	s.mu.Lock()
	s.clients[c] = struct{}{}
	s.mu.Unlock()
	s.log.Info("Client connected", zap.String("remote", conn.RemoteAddr().String()))

	go s.writeLoop(c)
	s.readLoop(c)
}

func (s *Server) remove(c *client) {
	s.mu.Lock()
	if _, ok := s.clients[c]; ok {
		delete(s.clients, c)
		c.close()
	}
	s.mu.Unlock()
}

func (s *Server) readLoop(c *client) {
	defer func() {
		s.remove(c)
		s.log.Info("Client disconnected", zap.String("remote", c.conn.RemoteAddr().String()))
	}()

	for {
		var m Message
		if err := c.conn.ReadJSON(&m); err != nil {
			var syntaxErr *json.SyntaxError
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
				s.reply(c, Reply{Type: ReplyError, Error: ErrBadPayload.Error() + ": " + err.Error()})
				continue
			}
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Warn("Websocket read failed", zap.Error(err))
			}
			return
		}

		r, err := s.dispatch(m)
		if err != nil {
			s.log.Debug("Command rejected", zap.String("op", m.Op), zap.Error(err))
			r = Reply{Type: ReplyError, Op: m.Op, Seq: m.Seq, Error: err.Error()}
		}
		s.reply(c, r)
	}
}

// reply sends r to c alone.
func (s *Server) reply(c *client, r Reply) {
	data, err := json.Marshal(r)
	if err != nil {
		s.log.Error("Failed to encode reply", zap.Error(err))
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[c]; !ok {
		return
	}
	select {
	case c.send <- data:
	default:
		delete(s.clients, c)
		c.close()
	}
}

func (s *Server) writeLoop(c *client) {
	defer c.conn.Close()
	for data := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			s.log.Warn("Websocket write failed", zap.Error(err))
			s.remove(c)
			// drain so Broadcast never blocks on a dead client
			for range c.send {
			}
			return
		}
	}
	_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// ListenAndServe serves the websocket endpoint at /ws until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/ws", s)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("Listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.closeAll()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) closeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		delete(s.clients, c)
		c.close()
	}
}
