package autoroutes

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// URLFor returns the route of the module with the given name or directory,
// using the registry the current request was mounted from. Path parameters
// are filled from args, which may be a single map[string]any, key/value
// pairs, or positional values:
//
//	URLFor(ctx, "Users", "id", 42)
//	URLFor(ctx, "Users", 42)
func URLFor(ctx context.Context, name string, args ...any) (string, error) {
	reg := registryCtx.Value(ctx)
	if reg == nil {
		return "", errors.New("urlfor: registry not found in context")
	}
	return reg.URLFor(name, args...)
}

// URLFor returns the route of the named module with path parameters filled
// from args. See the package-level URLFor for the argument forms.
func (r Registry) URLFor(name string, args ...any) (string, error) {
	m, ok := r.Lookup(name)
	if !ok {
		return "", fmt.Errorf("urlfor: no module named %s", name)
	}
	path, err := formatPathSegments(m.Route, args...)
	if err != nil {
		return "", fmt.Errorf("urlfor: %w", err)
	}
	return strings.Replace(path, "{$}", "", 1), nil
}

func formatPathSegments(pattern string, args ...any) (string, error) {
	segments, err := parseSegments(pattern)
	if err != nil {
		return pattern, err
	}
	var params []int
	names := make(map[string]bool)
	for i, s := range segments {
		if s.param {
			params = append(params, i)
			names[s.name] = true
		}
	}
	if len(params) == 0 {
		return pattern, nil
	}

	if values := argValues(args, names, len(params)); values != nil {
		for _, idx := range params {
			v, ok := values[segments[idx].name]
			if !ok {
				return pattern, fmt.Errorf("pattern %s: argument %s not found in provided args: %v",
					pattern, segments[idx].name, args)
			}
			segments[idx].value = v
		}
		return joinSegments(segments), nil
	}

	if len(args) < len(params) {
		return pattern, fmt.Errorf("pattern %s: not enough arguments provided, args: %v", pattern, args)
	}
	for i, idx := range params {
		segments[idx].value = fmt.Sprint(args[i])
	}
	return joinSegments(segments), nil
}

// argValues interprets args as named values. It returns nil when args are
// positional: exactly one per parameter, or not string keys of which at
// least one names a parameter.
func argValues(args []any, names map[string]bool, nparams int) map[string]string {
	if len(args) == 1 {
		if m, ok := args[0].(map[string]any); ok {
			values := make(map[string]string, len(m))
			for k, v := range m {
				values[k] = fmt.Sprint(v)
			}
			return values
		}
	}
	if len(args) == nparams || len(args)%2 != 0 {
		return nil
	}
	matched := false
	for i := 0; i < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			return nil
		}
		matched = matched || names[key]
	}
	if !matched {
		return nil
	}
	values := make(map[string]string, len(args)/2)
	for i := 0; i < len(args); i += 2 {
		values[args[i].(string)] = fmt.Sprint(args[i+1])
	}
	return values
}
