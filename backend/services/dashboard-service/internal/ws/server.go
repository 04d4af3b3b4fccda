package ws

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"voltboard/backend/services/dashboard-service/internal/observability/metrics"
	"voltboard/backend/services/dashboard-service/internal/service"
)

// PollerFactory builds a poller for one dashboard session. The sink is the
// session itself.
type PollerFactory func(sink service.ChartSink) *service.Poller

// Server upgrades HTTP connections into dashboard stream sessions. Each
// session gets its own poller; the poller dies with the connection.
type Server struct {
	newPoller    PollerFactory
	metrics      *metrics.Metrics
	logger       *zap.Logger
	writeTimeout time.Duration
	upgrader     websocket.Upgrader
}

// NewServer builds ws server.
func NewServer(newPoller PollerFactory, m *metrics.Metrics, writeTimeout time.Duration, logger *zap.Logger) *Server {
	return &Server{
		newPoller:    newPoller,
		metrics:      m,
		logger:       logger,
		writeTimeout: writeTimeout,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// HandleWS is the HTTP handler for GET /ws. It blocks for the lifetime of the
// session: upgrade, run the poller against the session sink, tear down when
// either side goes away.
func (s *Server) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", zap.Error(err))
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	var poller *service.Poller
	session := NewSession(conn, s.writeTimeout, s.logger, func() {
		if poller != nil {
			poller.Retry()
		}
	})
	poller = s.newPoller(session)

	s.metrics.ActiveSessions.Inc()
	defer s.metrics.ActiveSessions.Dec()
	s.logger.Info("dashboard session connected", zap.String("remote", r.RemoteAddr))

	go session.WritePump(ctx)
	go session.ReadPump(cancel)

	err = poller.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Error("dashboard session failed", zap.Error(err))
		_ = session.Error("data feed unavailable")
	}
	cancel()

	s.logger.Info("dashboard session closed", zap.String("remote", r.RemoteAddr))
}
