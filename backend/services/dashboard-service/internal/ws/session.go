package ws

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"voltboard/backend/services/dashboard-service/internal/models"
)

const (
	readLimit    = 4 * 1024
	pongWait     = 60 * time.Second
	pingInterval = 30 * time.Second
	sendBuffer   = 32
)

// errSessionClosed is returned by frame senders once the connection is gone.
var errSessionClosed = errors.New("ws: session closed")

// Session is one dashboard viewer's stream. It implements the poller's
// ChartSink: snapshot and append frames flow out through a buffered send
// channel serviced by the write pump, retry requests flow in through the read
// pump.
type Session struct {
	conn         *websocket.Conn
	send         chan []byte
	closed       chan struct{}
	writeTimeout time.Duration
	logger       *zap.Logger
	onRetry      func()
}

// NewSession wraps an upgraded connection.
func NewSession(conn *websocket.Conn, writeTimeout time.Duration, logger *zap.Logger, onRetry func()) *Session {
	if writeTimeout <= 0 {
		writeTimeout = 10 * time.Second
	}
	return &Session{
		conn:         conn,
		send:         make(chan []byte, sendBuffer),
		closed:       make(chan struct{}),
		writeTimeout: writeTimeout,
		logger:       logger,
		onRetry:      onRetry,
	}
}

// RenderSnapshot sends the initial chart content.
func (s *Session) RenderSnapshot(rows models.Table) error {
	return s.sendFrame(Frame{Type: FrameSnapshot, Rows: rows})
}

// AppendRows sends delta rows to extend the chart.
func (s *Session) AppendRows(rows models.Table) error {
	return s.sendFrame(Frame{Type: FrameAppend, Rows: rows})
}

// Waiting tells the viewer there is no data yet.
func (s *Session) Waiting() error {
	return s.sendFrame(Frame{Type: FrameWaiting})
}

// Error sends a terminal diagnostic before the session ends.
func (s *Session) Error(message string) error {
	return s.sendFrame(Frame{Type: FrameError, Message: message})
}

func (s *Session) sendFrame(frame Frame) error {
	payload, err := json.Marshal(frame)
	if err != nil {
		return err
	}
	select {
	case s.send <- payload:
		return nil
	case <-s.closed:
		return errSessionClosed
	}
}

// ReadPump consumes client messages until the connection drops, invoking
// onRetry for retry frames. cancel is called on exit so the poller stops with
// the connection.
func (s *Session) ReadPump(cancel context.CancelFunc) {
	defer cancel()

	s.conn.SetReadLimit(readLimit)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := s.conn.ReadMessage()
		if err != nil {
			s.logger.Debug("dashboard stream read closed", zap.Error(err))
			return
		}

		var frame Frame
		if err := json.Unmarshal(message, &frame); err != nil {
			s.logger.Warn("ignoring malformed client frame", zap.Error(err))
			continue
		}
		if frame.Type == FrameRetry && s.onRetry != nil {
			s.onRetry()
		}
	}
}

// WritePump drains the send channel onto the wire and keeps the connection
// alive with pings. Runs until ctx is cancelled or a write fails.
func (s *Session) WritePump(ctx context.Context) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		close(s.closed)
		_ = s.conn.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			_ = s.write(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case msg := <-s.send:
			if err := s.write(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := s.write(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (s *Session) write(messageType int, data []byte) error {
	s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
	return s.conn.WriteMessage(messageType, data)
}
