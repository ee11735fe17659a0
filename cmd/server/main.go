package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/hiraku/chatr/internal/chat"
	"github.com/hiraku/chatr/internal/config"
	"github.com/hiraku/chatr/internal/transport/tcp"
	"github.com/hiraku/chatr/internal/transport/ws"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	// A .env file is optional; real environment variables win.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.Level(),
	}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	directory := chat.NewDirectory(cfg.MaxUsers, logger)
	go directory.Run(ctx)

	tcpServer, err := newTCPServer(cfg, directory, logger)
	if err != nil {
		return err
	}

	errs := make(chan error, 2)
	go func() {
		errs <- tcpServer.Start()
	}()

	var wsServer *ws.Server
	if cfg.WSListenAddr != "" {
		wsServer = ws.New(cfg.WSListenAddr, directory, logger)
		go func() {
			errs <- wsServer.Start()
		}()
	}

	select {
	case err := <-errs:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
	}

	tcpServer.Stop()
	if wsServer != nil {
		wsServer.Stop()
	}
	logger.Info("server stopped")
	return nil
}

func newTCPServer(cfg config.Config, directory *chat.Directory, logger *slog.Logger) (*tcp.Server, error) {
	if !cfg.TLSEnabled() {
		return tcp.New(cfg.ListenAddr, directory, logger), nil
	}

	cert, err := tls.LoadX509KeyPair(cfg.TLSCertFile, cfg.TLSKeyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load TLS key pair: %w", err)
	}
	return tcp.NewTLS(cfg.ListenAddr, &tls.Config{Certificates: []tls.Certificate{cert}}, directory, logger), nil
}
