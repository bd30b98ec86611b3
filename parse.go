package autoroutes

import (
	"fmt"
	"net/http"
	"slices"
	"strings"
)

// parseTag splits a route tag of the form "[METHOD] /path [Title words]".
func parseTag(route string) (method, path, title string) {
	method = methodAll
	parts := strings.Fields(route)
	if len(parts) == 0 {
		path = "/"
		return
	}
	if len(parts) == 1 {
		path = parts[0]
		return
	}
	method = strings.ToUpper(parts[0])
	if slices.Contains(validMethod, method) {
		path = parts[1]
		title = strings.Join(parts[2:], " ")
	} else {
		method = methodAll
		path = parts[0]
		title = strings.Join(parts[1:], " ")
	}
	return
}

// applyTag sets method, route and title on m from a route tag. Empty tags
// leave m untouched so the loader can derive the route from the directory.
func applyTag(m *Module, tag string) {
	if strings.TrimSpace(tag) == "" {
		return
	}
	m.Method, m.Route, m.Title = parseTag(tag)
}

const methodAll = "ALL"

var validMethod = []string{
	http.MethodGet,
	http.MethodHead,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
	http.MethodConnect,
	http.MethodOptions,
	http.MethodTrace,
	methodAll,
}

type segment struct {
	name  string
	param bool
	value string
}

// parseSegments splits a pattern into literal and {param} segments.
func parseSegments(pattern string) (segments []segment, err error) {
	rest := pattern
	for rest != "" {
		start := strings.Index(rest, "{")
		if start == -1 {
			segments = append(segments, segment{name: rest})
			break
		}
		if start > 0 {
			segments = append(segments, segment{name: rest[:start]})
		}
		rest = rest[start+1:]
		end := strings.Index(rest, "}")
		if end == -1 {
			return nil, fmt.Errorf("pattern %s: unmatched {", pattern)
		}
		name := rest[:end]
		rest = rest[end+1:]
		if name == "$" {
			segments = append(segments, segment{name: "{$}"})
			continue
		}
		name = strings.TrimSuffix(name, "...")
		segments = append(segments, segment{name: name, param: true})
	}
	return segments, nil
}

func joinSegments(segments []segment) string {
	var sb strings.Builder
	for _, s := range segments {
		switch {
		case s.value != "":
			sb.WriteString(s.value)
		case s.param:
			sb.WriteString("{" + s.name + "}")
		default:
			sb.WriteString(s.name)
		}
	}
	return sb.String()
}
