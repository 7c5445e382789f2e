package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/mcoot/jigsawd/internal/dependencies/clock"
	"github.com/mcoot/jigsawd/internal/services/registry"
)

// Config holds configuration for the TCP server
type Config struct {
	Host string
	Port int
	// ShutdownTimeout bounds how long Shutdown waits for sessions to drain
	ShutdownTimeout time.Duration
}

// DefaultConfig returns sensible defaults for server configuration
func DefaultConfig() Config {
	return Config{
		Host:            "",
		Port:            5555,
		ShutdownTimeout: 10 * time.Second,
	}
}

// Server accepts TCP connections and runs one session goroutine per client
type Server struct {
	config   Config
	registry registry.ControllerInterface
	hubs     *HubManager
	clock    clock.Clock
	logger   *slog.Logger

	listener net.Listener

	mu      sync.Mutex
	clients map[*Client]bool
	wg      sync.WaitGroup
}

// NewServer creates a new session server
func NewServer(config Config, reg registry.ControllerInterface, hubs *HubManager, clk clock.Clock, logger *slog.Logger) *Server {
	return &Server{
		config:   config,
		registry: reg,
		hubs:     hubs,
		clock:    clk,
		logger:   logger.With(slog.String("component", "server")),
		clients:  make(map[*Client]bool),
	}
}

// Start begins listening and accepting connections. It blocks until the
// listener is closed by Shutdown.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	s.logger.Info("server listening", slog.String("addr", listener.Addr().String()))

	for {
		conn, err := listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			s.logger.Warn("accept failed", slog.String("error", err.Error()))
			continue
		}

		client := NewClient(conn, s.logger)
		s.trackClient(client)

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer s.untrackClient(client)
			NewSession(client, s.registry, s.hubs, s.clock).Run(ctx)
		}()
	}
}

// Addr returns the listener address, or empty before Start
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Shutdown stops accepting connections, closes every active session, and
// waits for the handlers to drain.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down server")

	s.mu.Lock()
	if s.listener != nil {
		_ = s.listener.Close()
	}
	for client := range s.clients {
		client.Close()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	select {
	case <-done:
	case <-shutdownCtx.Done():
		return fmt.Errorf("shutdown timed out: %w", shutdownCtx.Err())
	}

	s.hubs.CloseAll()
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) trackClient(client *Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[client] = true
}

func (s *Server) untrackClient(client *Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.clients, client)
}
