package autoroutes

import (
	"fmt"
	"go/parser"
	"go/token"
	"net/http"
	"reflect"
	"slices"
	"strconv"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
)

// ScriptDecoder interprets Go entry files with yaegi. A script exports its
// handler as Default, either a func(http.ResponseWriter, *http.Request) or an
// http.Handler, and may export a Route string holding a route tag:
//
//	package about
//
//	import "net/http"
//
//	var Route = "GET /about About"
//
//	func Default(w http.ResponseWriter, r *http.Request) {
//		w.Write([]byte("about"))
//	}
//
// Each script runs in its own interpreter, so scripts cannot see each other.
type ScriptDecoder struct {
	allowed []string
}

// NewScriptDecoder creates a ScriptDecoder. Scripts may import any standard
// library package unless WithAllowedImports narrows the set.
func NewScriptDecoder(options ...func(*ScriptDecoder)) *ScriptDecoder {
	d := &ScriptDecoder{}
	for _, opt := range options {
		opt(d)
	}
	return d
}

// WithAllowedImports restricts the packages scripts may import.
func WithAllowedImports(pkgs ...string) func(*ScriptDecoder) {
	return func(d *ScriptDecoder) {
		d.allowed = append(d.allowed, pkgs...)
	}
}

func (d *ScriptDecoder) Decode(filename string, src []byte) (*Module, error) {
	pkg, err := d.inspect(filename, src)
	if err != nil {
		return nil, err
	}

	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return nil, fmt.Errorf("load stdlib symbols: %w", err)
	}
	if _, err := i.Eval(string(src)); err != nil {
		return nil, fmt.Errorf("evaluate script: %w", err)
	}

	def, err := i.Eval(pkg + ".Default")
	if err != nil {
		return nil, ErrNoDefault
	}
	handler, err := asHandler(def)
	if err != nil {
		return nil, err
	}

	mod := &Module{Handler: handler}
	if v, err := i.Eval(pkg + ".Route"); err == nil && v.Kind() == reflect.String {
		applyTag(mod, v.String())
	}
	return mod, nil
}

// inspect returns the script's package name and rejects imports outside the
// allowed set.
func (d *ScriptDecoder) inspect(filename string, src []byte) (string, error) {
	f, err := parser.ParseFile(token.NewFileSet(), filename, src, parser.ImportsOnly)
	if err != nil {
		return "", fmt.Errorf("parse script: %w", err)
	}
	if d.allowed != nil {
		for _, imp := range f.Imports {
			p, _ := strconv.Unquote(imp.Path.Value)
			if !slices.Contains(d.allowed, p) {
				return "", fmt.Errorf("import %q is not allowed", p)
			}
		}
	}
	return f.Name.Name, nil
}

func asHandler(v reflect.Value) (http.Handler, error) {
	if !v.IsValid() || !v.CanInterface() {
		return nil, ErrNoDefault
	}
	switch h := v.Interface().(type) {
	case func(http.ResponseWriter, *http.Request):
		return http.HandlerFunc(h), nil
	case http.HandlerFunc:
		return h, nil
	case http.Handler:
		return h, nil
	}
	return nil, fmt.Errorf("default export has type %s, want http.Handler or handler func", v.Type())
}
