package autoroutes

import (
	"net/http"
)

// Router registers a handler for a method and path pattern. The method is an
// HTTP method, or "ALL" to match every method.
//
// Mounter only needs this one operation, so any router can host a registry;
// see the chirouter package for chi.
type Router interface {
	HandleMethod(method, pattern string, handler http.Handler)
}

// ScratchRouter is implemented by routers that can create an empty router
// with the same matching rules. Mount registers a registry on a scratch
// router first, so that a route the router rejects fails before the real
// router is touched.
type ScratchRouter interface {
	Router
	Scratch() Router
}

// RouterFunc adapts a function to the Router interface.
type RouterFunc func(method, pattern string, handler http.Handler)

func (f RouterFunc) HandleMethod(method, pattern string, handler http.Handler) {
	f(method, pattern, handler)
}

// MuxRouter registers routes on an http.ServeMux using ServeMux method
// patterns.
type MuxRouter struct {
	mux *http.ServeMux
}

var _ ScratchRouter = (*MuxRouter)(nil)

// NewRouter returns a MuxRouter registering on mux. A nil mux means
// http.DefaultServeMux.
//
// Example:
//
//	mux := http.NewServeMux()
//	err := autoroutes.NewMounter().Mount(autoroutes.NewRouter(mux), registry)
func NewRouter(mux *http.ServeMux) *MuxRouter {
	if mux == nil {
		mux = http.DefaultServeMux
	}
	return &MuxRouter{mux: mux}
}

func (r *MuxRouter) HandleMethod(method, pattern string, handler http.Handler) {
	r.mux.Handle(muxPattern(method, pattern), handler)
}

// Scratch returns a MuxRouter over a new, empty ServeMux.
func (r *MuxRouter) Scratch() Router {
	return NewRouter(http.NewServeMux())
}

func (r *MuxRouter) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// muxPattern prefixes pattern with method in ServeMux syntax. ALL leaves the
// pattern method-less.
func muxPattern(method, pattern string) string {
	if method == "" || method == methodAll {
		return pattern
	}
	return method + " " + pattern
}
