package autoroutes

import (
	"fmt"
	"net/http"
	"net/url"
	"path"
	"regexp"
	"strings"
)

// Module is the value loaded from a candidate directory's entry file.
type Module struct {
	// Name is the title-cased base name of Dir.
	Name string
	// Dir is the candidate location relative to the registry root.
	Dir string
	// Entry is the entry file the module was decoded from, relative to the root.
	Entry   string
	Method  string
	Route   string
	Title   string
	Handler http.Handler
}

// finalize fills the fields a decoder leaves to the loader: the name and a
// route derived from the directory when the entry declares none.
func (m *Module) finalize(dir, entry string) {
	m.Dir = dir
	m.Entry = entry
	if m.Name == "" {
		m.Name = TitleCase(path.Base(dir))
	}
	if m.Method == "" {
		m.Method = methodAll
	}
	if m.Route == "" {
		m.Route = dirRoute(dir)
	}
	if m.Title == "" {
		m.Title = m.Name
	}
}

var wildcard = regexp.MustCompile(`^\{[A-Za-z_][A-Za-z0-9_]*(\.\.\.)?\}$`)

// dirRoute derives a route from a directory. Segments that are path
// wildcards such as {id} are kept; every other segment is path-escaped, so
// "my page" becomes "/my%20page".
func dirRoute(dir string) string {
	segments := strings.Split(strings.Trim(dir, "/"), "/")
	for i, seg := range segments {
		if !wildcard.MatchString(seg) {
			segments[i] = url.PathEscape(seg)
		}
	}
	return "/" + strings.Join(segments, "/")
}

func (m *Module) String() string {
	var sb strings.Builder
	sb.WriteString("Module{")
	sb.WriteString("\n  name: " + m.Name)
	sb.WriteString("\n  title: " + m.Title)
	sb.WriteString("\n  dir: " + m.Dir)
	sb.WriteString("\n  entry: " + m.Entry)
	sb.WriteString("\n  route: " + m.Method + " " + m.Route)
	sb.WriteString("\n}")
	return sb.String()
}

// Registry is the ordered sequence of loaded modules. Order is discovery order.
type Registry []*Module

// Names returns module names in registry order.
func (r Registry) Names() []string {
	names := make([]string, len(r))
	for i, m := range r {
		names[i] = m.Name
	}
	return names
}

// Lookup returns the first module with the given name or directory.
func (r Registry) Lookup(name string) (*Module, bool) {
	for _, m := range r {
		if m.Name == name || m.Dir == name {
			return m, true
		}
	}
	return nil, false
}

// String renders the registry as an aligned route table.
func (r Registry) String() string {
	var sb strings.Builder
	width := 0
	for _, m := range r {
		width = max(width, len(m.Method))
	}
	for _, m := range r {
		fmt.Fprintf(&sb, "%-*s %s -> %s (%s)\n", width, m.Method, m.Route, m.Name, m.Entry)
	}
	return sb.String()
}
