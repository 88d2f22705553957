package metrics

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

// Server exposes the registered prometheus collectors over /metrics. It is
// purely an observability endpoint — it carries no finality-verification
// traffic, so it doesn't count against the no-network-transport boundary
// the core packages keep.
type Server struct {
	isStarted  *atomic.Bool
	httpServer *http.Server
	logger     *zap.SugaredLogger
}

// StartServer binds addr and begins serving /metrics in the background.
func StartServer(addr string, logger *zap.SugaredLogger) *Server {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	s := &Server{isStarted: atomic.NewBool(false), httpServer: httpServer, logger: logger}

	s.isStarted.Store(true)
	go func() {
		s.logger.Infow("metrics server starting", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Errorw("metrics server failed", "err", err)
		}
	}()

	return s
}

// Stop gracefully shuts the metrics server down. A second call does not
// shut down again: the isStarted swap makes it return an error, the way
// ChainPoller's isStarted swap guards a double Stop.
func (s *Server) Stop(ctx context.Context) error {
	if !s.isStarted.Swap(false) {
		return fmt.Errorf("metrics server is already stopped")
	}

	s.logger.Infow("stopping metrics server")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		s.logger.Errorw("metrics server shutdown failed", "err", err)
		return err
	}
	return nil
}
