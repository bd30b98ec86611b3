package autoroutes

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jackielii/ctxkey"
)

// MiddlewareFunc wraps a module's handler. It receives the module so that
// middlewares can log or authorize per route.
type MiddlewareFunc = func(http.Handler, *Module) http.Handler

// ErrorHandler handles errors raised while serving a module.
type ErrorHandler = func(http.ResponseWriter, *http.Request, error)

func defaultErrorHandler(w http.ResponseWriter, r *http.Request, err error) {
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

var (
	registryCtx     = ctxkey.New[Registry]("autoroutes.registry", nil)
	errorHandlerCtx = ctxkey.New[ErrorHandler]("autoroutes.onError", defaultErrorHandler)
	serveLoggerCtx  = ctxkey.New[*slog.Logger]("autoroutes.logger", slog.New(slog.DiscardHandler))
)

// Mounter registers the modules of a registry on a Router.
type Mounter struct {
	onError     ErrorHandler
	logger      *slog.Logger
	middlewares []MiddlewareFunc
}

func NewMounter(options ...func(*Mounter)) *Mounter {
	mt := &Mounter{onError: defaultErrorHandler, logger: slog.New(slog.DiscardHandler)}
	for _, opt := range options {
		opt(mt)
	}
	return mt
}

func WithErrorHandler(onError ErrorHandler) func(*Mounter) {
	return func(mt *Mounter) {
		mt.onError = onError
	}
}

// WithServeLogger sets the logger for failures that happen after a response
// has started, when the error handler can no longer change it.
func WithServeLogger(logger *slog.Logger) func(*Mounter) {
	return func(mt *Mounter) {
		if logger != nil {
			mt.logger = logger
		}
	}
}

// WithMiddlewares adds middlewares applied to every module. The first
// middleware is the innermost.
func WithMiddlewares(middlewares ...MiddlewareFunc) func(*Mounter) {
	return func(mt *Mounter) {
		mt.middlewares = append(mt.middlewares, middlewares...)
	}
}

// Mount registers every module of reg on router, in registry order. Modules
// sharing a method and route are rejected before anything is registered.
// When router is a ScratchRouter the whole registry is first registered on a
// scratch router, so routes the router itself rejects, such as two patterns
// matching the same requests, also fail before anything is registered.
func (mt *Mounter) Mount(router Router, reg Registry) error {
	seen := make(map[string]string, len(reg))
	for _, m := range reg {
		if m.Handler == nil {
			return fmt.Errorf("module %s has no handler", m.Name)
		}
		key := m.Method + " " + m.Route
		if other, ok := seen[key]; ok {
			return fmt.Errorf("modules %s and %s both register %s", other, m.Name, key)
		}
		seen[key] = m.Name
	}

	if s, ok := router.(ScratchRouter); ok {
		scratch := s.Scratch()
		for _, m := range reg {
			if err := handle(scratch, m, m.Handler); err != nil {
				return err
			}
		}
	}

	for _, m := range reg {
		handler := m.Handler
		for _, middleware := range mt.middlewares {
			handler = middleware(handler, m)
		}
		if err := handle(router, m, mt.withContext(reg, handler)); err != nil {
			return err
		}
	}
	return nil
}

// handle registers handler for m and turns a router panic into an error.
func handle(router Router, m *Module, handler http.Handler) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("module %s: register %s %s: %v", m.Name, m.Method, m.Route, r)
		}
	}()
	router.HandleMethod(m.Method, m.Route, handler)
	return nil
}

func (mt *Mounter) withContext(reg Registry, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := registryCtx.WithValue(r.Context(), reg)
		ctx = errorHandlerCtx.WithValue(ctx, mt.onError)
		ctx = serveLoggerCtx.WithValue(ctx, mt.logger)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RegistryFromContext returns the registry a mounted handler was served from.
func RegistryFromContext(ctx context.Context) Registry {
	return registryCtx.Value(ctx)
}
