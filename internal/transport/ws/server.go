package ws

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"github.com/gobwas/ws"

	"github.com/hiraku/chatr/internal/chat"
)

// Server upgrades HTTP connections to WebSocket and runs one chat.Handler
// per connection against the shared directory.
type Server struct {
	address   string
	listener  net.Listener
	directory *chat.Directory
	server    *http.Server
	logger    *slog.Logger
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

// New creates a WebSocket server that submits to the provided directory.
func New(address string, directory *chat.Directory, logger *slog.Logger) *Server {
	return &Server{
		address:   address,
		directory: directory,
		logger:    logger,
	}
}

// Start starts accepting WebSocket connections. It blocks until Stop is
// called or the listener fails.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	s.listener = listener

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		s.handleUpgrade(ctx, w, r)
	})
	s.server = &http.Server{Handler: mux}

	s.logger.Info("WebSocket server started", "addr", listener.Addr().String())

	if err := s.server.Serve(listener); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop stops the server and waits for in-flight handlers to finish.
func (s *Server) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	if s.server != nil {
		s.server.Close()
	}
	s.wg.Wait()
}

// Addr returns the listening address.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return ""
}

func (s *Server) handleUpgrade(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	conn, _, _, err := ws.UpgradeHTTP(r, w)
	if err != nil {
		s.logger.Error("failed to upgrade connection", "error", err)
		return
	}

	handler := chat.NewHandler(NewConn(conn), s.directory, s.logger)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := handler.Run(ctx); err != nil && ctx.Err() == nil {
			s.logger.Debug("connection closed", "error", err)
		}
	}()
}
