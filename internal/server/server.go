// Package server exposes the daemon over JSON-RPC 2.0. Plain requests go
// through an HTTP bridge; websocket clients get a full duplex session that
// also receives every emitted event as a notification.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	cws "github.com/coder/websocket"
	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/handler"
	"github.com/creachadair/jrpc2/jhttp"
	"github.com/google/uuid"

	"github.com/ayoisaiah/chime/internal/logger"
	"github.com/ayoisaiah/chime/notify"
)

const (
	PathRPC       = "/rpc"
	PathWebSocket = "/rpc/ws"

	shutdownTimeout = 5 * time.Second
)

// Server serves the RPC endpoints.
type Server struct {
	svc         Service
	broadcaster *notify.Broadcaster
	log         *slog.Logger
	methods     handler.Map
	bridge      jhttp.Bridge
	secret      string
}

// New creates a server for svc. Websocket sessions are registered with b so
// that events reach them. Requests must carry secret as a bearer token.
func New(svc Service, b *notify.Broadcaster, secret string, l *slog.Logger) *Server {
	if l == nil {
		l = logger.Discard()
	}

	s := &Server{
		svc:         svc,
		broadcaster: b,
		secret:      secret,
		log:         l.With(slog.String("component", "server")),
	}

	s.methods = s.methodMap()
	s.bridge = jhttp.NewBridge(s.methods, nil)

	return s
}

// Handler returns the authenticated HTTP handler for both endpoints.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("POST "+PathRPC, s.bridge)
	mux.HandleFunc("GET "+PathWebSocket, s.serveWS)

	return requireToken(s.secret, mux)
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errListen.Fmt(addr).Wrap(err)
	}

	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then closes every websocket
// session and shuts the HTTP server down.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	hs := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)

	go func() {
		errc <- hs.Serve(ln)
	}()

	s.log.Info("rpc server listening", slog.String("address", ln.Addr().String()))

	select {
	case err := <-errc:
		s.Close()
		return err
	case <-ctx.Done():
	}

	s.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := hs.Shutdown(shutdownCtx)

	if serveErr := <-errc; !errors.Is(serveErr, http.ErrServerClosed) && err == nil {
		err = serveErr
	}

	return err
}

// Close ends every websocket session and releases the bridge.
func (s *Server) Close() {
	s.broadcaster.Close()
	s.bridge.Close()
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := cws.Accept(w, r, &cws.AcceptOptions{
		OriginPatterns: []string{"localhost:*", "127.0.0.1:*"},
	})
	if err != nil {
		s.log.Warn("websocket upgrade failed", slog.Any("error", err))
		return
	}

	id := uuid.NewString()

	srv := jrpc2.NewServer(s.methods, &jrpc2.ServerOptions{AllowPush: true})

	s.broadcaster.Register(srv)
	defer s.broadcaster.Unregister(srv)

	srv.Start(NewWSChannel(r.Context(), conn))

	s.log.Debug("client connected", slog.String("id", id))

	err = srv.Wait()

	s.log.Debug("client disconnected", slog.String("id", id), slog.Any("reason", err))
}
