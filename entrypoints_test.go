package autoroutes

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntryPoints(t *testing.T) {
	fsys := fstest.MapFS{
		"src/routes/entry.ts":            {Data: []byte("index")},
		"src/routes/about/entry.ts":      {Data: []byte("about")},
		"src/routes/blog/posts/entry.ts": {Data: []byte("posts")},
		"src/routes/blog/README.md":      {Data: []byte("readme")},
		"src/routes/entry/keep.txt":      {Data: []byte("dir named entry")},
	}

	entries, err := EntryPoints(fsys, "src/routes/**/entry.ts")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"index": "src/routes/entry.ts",
		"About": "src/routes/about/entry.ts",
		"Posts": "src/routes/blog/posts/entry.ts",
	}, entries)
}

func TestEntryPointsDuplicateNames(t *testing.T) {
	fsys := fstest.MapFS{
		"a/about/entry.js": {},
		"b/about/entry.js": {},
	}
	entries, err := EntryPoints(fsys, "*/*/entry.js")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"About": "b/about/entry.js"}, entries, "later match wins")
}

func TestEntryPointsInvalidPattern(t *testing.T) {
	fsys := &countingFS{FS: fstest.MapFS{}}
	_, err := EntryPoints(fsys, "{a,")
	var perr *InvalidPatternError
	require.ErrorAs(t, err, &perr)
	assert.Zero(t, fsys.opens)
}

func TestBuildEntryPoints(t *testing.T) {
	root := t.TempDir()
	for _, p := range []string{"routes/index.ts", "routes/contact/index.ts"} {
		full := filepath.Join(root, filepath.FromSlash(p))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, nil, 0o644))
	}

	entries, err := BuildEntryPoints(root, "**/index.ts")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"index":   filepath.Join(root, "routes", "index.ts"),
		"Contact": filepath.Join(root, "routes", "contact", "index.ts"),
	}, entries)

	_, err = BuildEntryPoints(filepath.Join(root, "missing"), "**/index.ts")
	var ferr *FilesystemError
	assert.ErrorAs(t, err, &ferr)

	file := filepath.Join(root, "routes", "index.ts")
	_, err = BuildEntryPoints(file, "**/index.ts")
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, file, ferr.Path)
	assert.Contains(t, err.Error(), "not a directory")
}

func TestEntryPointsTopLevelFile(t *testing.T) {
	fsys := fstest.MapFS{
		"index.toml":       {},
		"about/index.toml": {},
	}
	entries, err := EntryPoints(fsys, "**/index.toml")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"index": "index.toml", "About": "about/index.toml"}, entries)
}
