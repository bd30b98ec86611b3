package autoroutes

import (
	"errors"
	"io/fs"
	"path"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultPattern matches every directory below the root at any depth.
const DefaultPattern = "./**/"

// normalizePattern strips the "./" prefix and trailing slash that shell-style
// directory globs carry and checks the result before any filesystem access.
func normalizePattern(pattern string) (string, error) {
	p := strings.TrimSpace(pattern)
	for strings.HasPrefix(p, "./") {
		p = p[2:]
	}
	p = strings.TrimRight(p, "/")
	switch {
	case pattern == "":
		return "", &InvalidPatternError{Pattern: pattern, Reason: "pattern is empty"}
	case p == "" || p == ".":
		return "", &InvalidPatternError{Pattern: pattern, Reason: "pattern only matches the root"}
	case strings.HasPrefix(pattern, "/"):
		return "", &InvalidPatternError{Pattern: pattern, Reason: "pattern must be relative to the root"}
	case !doublestar.ValidatePattern(p):
		return "", &InvalidPatternError{Pattern: pattern, Reason: "malformed glob"}
	}
	return p, nil
}

// glob expands a normalized pattern against fsys and returns the matches in
// lexical order. keep filters on the entry type.
func glob(fsys fs.FS, pattern string, keep func(fs.DirEntry) bool) ([]string, error) {
	var matches []string
	err := doublestar.GlobWalk(fsys, pattern, func(p string, d fs.DirEntry) error {
		if keep(d) {
			matches = append(matches, p)
		}
		return nil
	}, doublestar.WithFailOnIOErrors())
	if err != nil {
		if errors.Is(err, doublestar.ErrBadPattern) {
			return nil, &InvalidPatternError{Pattern: pattern, Reason: err.Error()}
		}
		return nil, &FilesystemError{Path: ".", Err: err}
	}
	slices.Sort(matches)
	return matches, nil
}

// Discover expands pattern against fsys and returns the matching directories
// as slash-separated paths relative to the root, sorted lexically. The root
// itself is never returned, so a registry mounted from the root cannot load
// its own aggregation point.
func Discover(fsys fs.FS, pattern string) ([]string, error) {
	p, err := normalizePattern(pattern)
	if err != nil {
		return nil, err
	}
	dirs, err := glob(fsys, p, func(d fs.DirEntry) bool { return d.IsDir() })
	if err != nil {
		return nil, err
	}
	return slices.DeleteFunc(dirs, func(dir string) bool {
		return path.Clean(dir) == "."
	}), nil
}
