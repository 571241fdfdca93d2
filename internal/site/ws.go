package site

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/sumitbaghel/portfolio/internal/grid"
	"github.com/sumitbaghel/portfolio/internal/session"
	"github.com/sumitbaghel/portfolio/internal/viewport"
)

const (
	writeWait   = 10 * time.Second
	outboxSize  = 64
	maxReadSize = 64 << 10
)

// upgrader leaves CheckOrigin unset, so handshakes whose Origin host
// differs from the request host are refused.
var upgrader = websocket.Upgrader{}

// Inbound message types.
const (
	inLayout     = "layout"
	inScroll     = "scroll"
	inPointer    = "pointer"
	inNavigate   = "navigate"
	inToggleMenu = "toggle_menu"
	inField      = "field"
	inDismiss    = "dismiss"
)

// inbound is a browser event. Fields are populated per type.
type inbound struct {
	Type     string          `json:"type"`
	Offset   float64         `json:"offset"`
	Sections viewport.Layout `json:"sections"`
	X        float64         `json:"x"`
	Y        float64         `json:"y"`
	Rect     grid.Rect       `json:"rect"`
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Value    string          `json:"value"`
}

// wsSink queues messages for the connection's writer goroutine. Messages
// that do not fit are dropped; every stream it carries is last-write-wins.
type wsSink struct {
	mu     sync.Mutex
	ch     chan session.Message
	closed bool
	log    *zap.Logger
}

func newWSSink(log *zap.Logger) *wsSink {
	return &wsSink{ch: make(chan session.Message, outboxSize), log: log}
}

func (s *wsSink) Push(m session.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.ch <- m:
	default:
		s.log.Warn("dropping message for slow client", zap.String("type", m.Type))
	}
}

func (s *wsSink) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.ch)
	}
}

func (s *Server) handleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Warn("websocket upgrade", zap.Error(err))
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxReadSize)

	sess, err := s.sessions.Get(c.Query("session"))
	if err != nil {
		sess = s.sessions.Create()
	}
	log := s.log.With(zap.String("session", sess.ID()))

	sink := newWSSink(log)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for m := range sink.ch {
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(m); err != nil {
				log.Debug("websocket write", zap.Error(err))
				return
			}
		}
	}()

	sess.Attach(sink)
	defer func() {
		s.sessions.Delete(sess.ID())
		sink.close()
		<-done
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Info("websocket read", zap.Error(err))
			}
			return
		}

		var in inbound
		if err := json.Unmarshal(msg, &in); err != nil {
			sink.Push(errorMessage("invalid message format"))
			continue
		}
		s.dispatch(sess, sink, in)
	}
}

func (s *Server) dispatch(sess *session.Controller, sink *wsSink, in inbound) {
	switch in.Type {
	case inLayout:
		sess.Layout(in.Sections, in.Offset)
	case inScroll:
		sess.Scroll(in.Offset)
	case inPointer:
		sess.Pointer(in.X, in.Y, in.Rect)
	case inNavigate:
		sess.Navigate(in.ID)
	case inToggleMenu:
		sess.ToggleMenu()
	case inField:
		if err := sess.UpdateField(in.Name, in.Value); err != nil {
			sink.Push(errorMessage(err.Error()))
		}
	case inDismiss:
		sess.Dismiss()
	default:
		sink.Push(errorMessage("unknown message type: " + in.Type))
	}
}

func errorMessage(msg string) session.Message {
	return session.Message{Type: session.TypeError, Data: session.ErrorData{Message: msg}}
}
