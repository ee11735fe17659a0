package tcp

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net"
	"sync"

	"github.com/hiraku/chatr/internal/chat"
)

// Server accepts TCP connections and runs one chat.Handler per connection
// against the shared directory.
type Server struct {
	address   string
	tlsConfig *tls.Config
	listener  net.Listener
	directory *chat.Directory
	logger    *slog.Logger
	quit      chan struct{}
	wg        sync.WaitGroup
}

// New creates a plain TCP server that submits to the provided directory.
func New(address string, directory *chat.Directory, logger *slog.Logger) *Server {
	return &Server{
		address:   address,
		directory: directory,
		logger:    logger,
		quit:      make(chan struct{}),
	}
}

// NewTLS creates a TLS-wrapped TCP server. The certificate material is
// loaded by the caller; the transport only consumes the resulting config.
func NewTLS(address string, tlsConfig *tls.Config, directory *chat.Directory, logger *slog.Logger) *Server {
	s := New(address, directory, logger)
	s.tlsConfig = tlsConfig
	return s
}

// Start starts accepting connections. It blocks until Stop is called or the
// listener fails.
func (s *Server) Start() error {
	listener, err := s.listen()
	if err != nil {
		return fmt.Errorf("failed to start TCP server: %w", err)
	}
	s.listener = listener

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s.logger.Info("TCP server started", "addr", listener.Addr().String(), "tls", s.tlsConfig != nil)

	for {
		select {
		case <-s.quit:
			return nil
		default:
			conn, err := listener.Accept()
			if err != nil {
				select {
				case <-s.quit:
					return nil
				default:
					s.logger.Error("failed to accept connection", "error", err)
					continue
				}
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
	}
}

func (s *Server) listen() (net.Listener, error) {
	if s.tlsConfig != nil {
		return tls.Listen("tcp", s.address, s.tlsConfig)
	}
	return net.Listen("tcp", s.address)
}

// Stop stops the server and waits for in-flight handlers to finish.
func (s *Server) Stop() {
	close(s.quit)
	if s.listener != nil {
		s.listener.Close()
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
