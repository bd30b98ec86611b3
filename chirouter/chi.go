// Package chirouter adapts a chi router to autoroutes.Router.
package chirouter

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/jackielii/autoroutes"
)

// Router registers autoroutes modules on a chi router.
type Router struct {
	router chi.Router
}

var _ autoroutes.ScratchRouter = (*Router)(nil)

// New wraps r. Modules with method ALL are registered with Handle and match
// every method; the others with Method.
func New(r chi.Router) *Router {
	return &Router{router: r}
}

// HandleMethod registers handler. chi matches against the decoded request
// path, so escaped literal segments such as "/my%20page" are unescaped first.
func (r *Router) HandleMethod(method, path string, handler http.Handler) {
	if p, err := url.PathUnescape(path); err == nil {
		path = p
	}
	if method == "ALL" || method == "" {
		r.router.Handle(path, handler)
	} else {
		r.router.Method(method, path, handler)
	}
}

// Scratch returns a Router over a new, empty chi router.
func (r *Router) Scratch() autoroutes.Router {
	return New(chi.NewRouter())
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.router.ServeHTTP(w, req)
}

// Mount registers every module of reg on r using a Mounter configured with
// options.
func Mount(r chi.Router, reg autoroutes.Registry, options ...func(*autoroutes.Mounter)) (http.Handler, error) {
	router := New(r)
	if err := autoroutes.NewMounter(options...).Mount(router, reg); err != nil {
		return nil, err
	}
	return router, nil
}
