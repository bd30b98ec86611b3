package autoroutes

import (
	"errors"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// indexDir is the conventional directory holding the top-level route. Its
// entry point is named "index".
const indexDir = "routes"

// EntryPoints maps the entry files matching pattern to logical names. A name
// is the title-cased name of the file's parent directory, except that a
// parent named "routes", or a file at the top of fsys, yields "index". When
// two files share a name the one later in lexical order wins.
func EntryPoints(fsys fs.FS, pattern string) (map[string]string, error) {
	p, err := normalizePattern(pattern)
	if err != nil {
		return nil, err
	}
	files, err := glob(fsys, p, func(d fs.DirEntry) bool { return !d.IsDir() })
	if err != nil {
		return nil, err
	}
	entries := make(map[string]string, len(files))
	for _, f := range files {
		entries[entryName(f)] = f
	}
	return entries, nil
}

func entryName(file string) string {
	parent := path.Base(path.Dir(file))
	if parent == "." || strings.EqualFold(parent, indexDir) {
		return DefaultEntryName
	}
	return TitleCase(parent)
}

// BuildEntryPoints is EntryPoints over the directory tree at root, with the
// returned paths joined to root.
func BuildEntryPoints(root, pattern string) (map[string]string, error) {
	if _, err := normalizePattern(pattern); err != nil {
		return nil, err
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, &FilesystemError{Path: root, Err: err}
	}
	if !info.IsDir() {
		return nil, &FilesystemError{Path: root, Err: errors.New("not a directory")}
	}
	entries, err := EntryPoints(os.DirFS(root), pattern)
	if err != nil {
		return nil, err
	}
	for name, p := range entries {
		entries[name] = filepath.Join(root, filepath.FromSlash(p))
	}
	return entries, nil
}
