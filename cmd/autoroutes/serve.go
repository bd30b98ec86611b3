package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackielii/autoroutes"
	"github.com/jackielii/autoroutes/chirouter"
	"github.com/spf13/cobra"
)

func newServeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Build the route registry and serve it over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(cmd, opts)
			if err != nil {
				return err
			}
			reg, err := buildRegistry(cfg, logger)
			if err != nil {
				logger.Error("failed to build route registry", "error", err)
				return err
			}
			handler, err := newHandler(reg, logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv := &http.Server{
				Addr:              cfg.Server.Addr(),
				Handler:           handler,
				ReadHeaderTimeout: 10 * time.Second,
			}
			return serve(ctx, srv, cfg.Server.ShutdownTimeoutDuration(), logger)
		},
	}
}

// newHandler mounts reg on a chi router next to a health check.
func newHandler(reg autoroutes.Registry, logger *slog.Logger) (http.Handler, error) {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return chirouter.Mount(r, reg,
		autoroutes.WithMiddlewares(requestLogger(logger)),
		autoroutes.WithServeLogger(logger),
		autoroutes.WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
			logger.Error("route handler failed", "path", r.URL.Path, "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		}),
	)
}

func requestLogger(logger *slog.Logger) autoroutes.MiddlewareFunc {
	return func(next http.Handler, m *autoroutes.Module) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Info("request",
				"module", m.Name,
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}

// serve runs srv until ctx is cancelled, then shuts it down within timeout.
func serve(ctx context.Context, srv *http.Server, timeout time.Duration, logger *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
		return err
	}
	<-errCh
	logger.Info("server stopped")
	return nil
}
