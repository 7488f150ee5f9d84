package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"guardian-control/backend/global"
)

type HTTPServer struct {
	srv *http.Server
}

func StartHTTPServer(host string, port int, handler http.Handler) *HTTPServer {
	addr := net.JoinHostPort(host, fmt.Sprintf("%d", port))
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			global.Logger.Error().Err(err).Str("addr", addr).Msg("http server stopped")
		}
	}()
	global.Logger.Info().Str("addr", addr).Msg("http server listening")
	return &HTTPServer{srv: srv}
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
