package autoroutes

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordHandler keeps every log record it receives.
type recordHandler struct {
	mu      sync.Mutex
	records []slog.Record
}

func (h *recordHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *recordHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, r)
	return nil
}

func (h *recordHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *recordHandler) WithGroup(string) slog.Handler      { return h }

// diagnostics returns the records at warn level or above.
func (h *recordHandler) diagnostics() []slog.Record {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []slog.Record
	for _, r := range h.records {
		if r.Level >= slog.LevelWarn {
			out = append(out, r)
		}
	}
	return out
}

// fakeLoader returns a canned module for every directory not listed in
// broken, and records the order of calls.
type fakeLoader struct {
	broken map[string]error
	calls  []string
}

func (l *fakeLoader) Load(fsys fs.FS, dir string) (*Module, error) {
	l.calls = append(l.calls, dir)
	if err, ok := l.broken[dir]; ok {
		return nil, err
	}
	return &Module{Handler: http.NotFoundHandler()}, nil
}

func treeFS(dirs ...string) fstest.MapFS {
	fsys := fstest.MapFS{"index.toml": {Data: []byte(`body = "root"`)}}
	for _, d := range dirs {
		fsys[d+"/index.toml"] = &fstest.MapFile{Data: []byte(`body = "x"`)}
	}
	return fsys
}

func TestBuildAllValid(t *testing.T) {
	loader := &fakeLoader{}
	reg, err := NewBuilder(treeFS("c", "a", "b", "a/nested"), loader).Build(DefaultPattern)
	require.NoError(t, err)

	require.Len(t, reg, 4)
	assert.Equal(t, []string{"a", "a/nested", "b", "c"}, loader.calls)
	dirs := make([]string, len(reg))
	for i, m := range reg {
		dirs[i] = m.Dir
	}
	assert.Equal(t, []string{"a", "a/nested", "b", "c"}, dirs)
	assert.Equal(t, []string{"A", "Nested", "B", "C"}, reg.Names())
	assert.Equal(t, "/a/nested", reg[1].Route)
	assert.Equal(t, methodAll, reg[1].Method)
}

func TestBuildNeverLoadsRoot(t *testing.T) {
	loader := &fakeLoader{}
	reg, err := NewBuilder(treeFS("about"), loader).Build("**")
	require.NoError(t, err)

	assert.Equal(t, []string{"about"}, loader.calls)
	for _, m := range reg {
		assert.NotEqual(t, ".", m.Dir)
	}
}

func TestBuildTolerant(t *testing.T) {
	loader := &fakeLoader{broken: map[string]error{
		"b": errors.New("syntax error"),
		"d": ErrEntryNotFound,
	}}
	h := &recordHandler{}
	var failures []LoadFailure

	reg, err := NewBuilder(treeFS("a", "b", "c", "d", "e"), loader,
		WithLogFailures(slog.New(h)),
		WithFailureHandler(func(f LoadFailure) { failures = append(failures, f) }),
	).Build(DefaultPattern)
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "C", "E"}, reg.Names())
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, loader.calls, "failed candidates are not retried")

	diags := h.diagnostics()
	require.Len(t, diags, 2)
	assert.Equal(t, slog.LevelError, diags[0].Level)
	assert.Contains(t, diags[0].Message, "b")
	assert.Contains(t, diags[0].Message, "syntax error")
	assert.Equal(t, slog.LevelWarn, diags[1].Level)

	require.Len(t, failures, 2)
	assert.Equal(t, "b", failures[0].Name)
	assert.Equal(t, "d", failures[1].Name)
	assert.ErrorIs(t, failures[1].Err, ErrEntryNotFound)
}

func TestBuildTolerantWithoutLoggerUsesDefault(t *testing.T) {
	h := &recordHandler{}
	prev := slog.Default()
	slog.SetDefault(slog.New(h))
	t.Cleanup(func() { slog.SetDefault(prev) })

	loader := &fakeLoader{broken: map[string]error{
		"b": errors.New("boom"),
		"c": ErrEntryNotFound,
	}}
	reg, err := NewBuilder(treeFS("a", "b", "c"), loader, WithLogFailures(nil)).Build(DefaultPattern)
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, reg.Names())

	diags := h.diagnostics()
	require.Len(t, diags, 2, "one diagnostic per failed candidate")
	assert.Equal(t, slog.LevelError, diags[0].Level)
	assert.Equal(t, slog.LevelWarn, diags[1].Level)
}

func TestBuildStrictAbortsOnFirstFailure(t *testing.T) {
	cause := errors.New("boom")
	loader := &fakeLoader{broken: map[string]error{"a": cause}}

	reg, err := NewBuilder(treeFS("a", "b"), loader).Build(DefaultPattern)
	require.Error(t, err)
	assert.Nil(t, reg)
	assert.Equal(t, []string{"a"}, loader.calls)

	var lerr *LoadError
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, "a", lerr.Path)
	assert.ErrorIs(t, err, cause)
}

func TestBuildStrictAfterPartialSuccess(t *testing.T) {
	loader := &fakeLoader{broken: map[string]error{"b": errors.New("boom")}}
	reg, err := NewBuilder(treeFS("a", "b", "c"), loader).Build(DefaultPattern)
	require.Error(t, err)
	assert.Nil(t, reg)
	assert.Equal(t, []string{"a", "b"}, loader.calls)
}

func TestBuildRejectsNilModules(t *testing.T) {
	tests := []struct {
		name   string
		module *Module
		err    error
	}{
		{name: "nil module", module: nil, err: ErrNilModule},
		{name: "nil handler", module: &Module{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader := LoaderFunc(func(fs.FS, string) (*Module, error) { return tt.module, nil })
			reg, err := NewBuilder(treeFS("a"), loader).Build(DefaultPattern)
			require.Error(t, err)
			assert.Nil(t, reg)
			var lerr *LoadError
			require.ErrorAs(t, err, &lerr)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
			}
		})
	}
}

func TestBuildIdempotent(t *testing.T) {
	b := NewBuilder(treeFS("a", "b", "c/d"), &fakeLoader{})
	first, err := b.Build(DefaultPattern)
	require.NoError(t, err)
	second, err := b.Build(DefaultPattern)
	require.NoError(t, err)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Dir, second[i].Dir)
		assert.Equal(t, first[i].Route, second[i].Route)
		assert.NotSame(t, first[i], second[i], "registries are built fresh")
	}
}

func TestBuildInvalidPatternBeforeFilesystem(t *testing.T) {
	fsys := &countingFS{FS: treeFS("a")}
	loader := &fakeLoader{}
	reg, err := NewBuilder(fsys, loader).Build("")
	require.Error(t, err)
	assert.Nil(t, reg)

	var perr *InvalidPatternError
	require.ErrorAs(t, err, &perr)
	assert.Zero(t, fsys.opens)
	assert.Empty(t, loader.calls)
}

func TestBuildFilesystemErrorIsFatalInTolerantMode(t *testing.T) {
	reg, err := NewBuilder(failingFS{}, &fakeLoader{}, WithLogFailures(nil), WithRoot("/srv/routes")).
		Build(DefaultPattern)
	require.Error(t, err)
	assert.Nil(t, reg)

	var ferr *FilesystemError
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, "/srv/routes", ferr.Path)
}

func TestBuildRegistry(t *testing.T) {
	reg, err := BuildRegistry("testdata/site", DefaultPattern, NewEntryLoader())
	require.NoError(t, err)

	var dirs []string
	for _, m := range reg {
		dirs = append(dirs, m.Dir)
	}
	assert.Equal(t, []string{"about", "blog", "contact", "users", "users/{id}"}, dirs)

	about, ok := reg.Lookup("About")
	require.True(t, ok)
	assert.Equal(t, "GET", about.Method)
	assert.Equal(t, "/about", about.Route)
	assert.Equal(t, "About us", about.Title)
	assert.Equal(t, "about/index.toml", about.Entry)

	user, ok := reg.Lookup("users/{id}")
	require.True(t, ok)
	assert.Equal(t, "/users/{id}", user.Route)
	assert.Equal(t, "users/{id}/index.go", user.Entry)
}

func TestBuildRegistryBrokenTree(t *testing.T) {
	t.Run("strict", func(t *testing.T) {
		reg, err := BuildRegistry("testdata/broken", DefaultPattern, NewEntryLoader())
		require.Error(t, err)
		assert.Nil(t, reg)

		var lerr *LoadError
		require.ErrorAs(t, err, &lerr)
		abs, _ := filepath.Abs(filepath.Join("testdata", "broken", "bad"))
		assert.Equal(t, abs, lerr.Path)
	})

	t.Run("tolerant", func(t *testing.T) {
		h := &recordHandler{}
		var failures []LoadFailure
		reg, err := BuildRegistry("testdata/broken", DefaultPattern, NewEntryLoader(),
			WithLogFailures(slog.New(h)),
			WithFailureHandler(func(f LoadFailure) { failures = append(failures, f) }),
		)
		require.NoError(t, err)
		assert.Equal(t, []string{"Ok"}, reg.Names())
		assert.Len(t, h.diagnostics(), 2)

		require.Len(t, failures, 2)
		assert.Equal(t, "bad", failures[0].Name)
		assert.NotErrorIs(t, failures[0].Err, ErrEntryNotFound)
		assert.Equal(t, "empty", failures[1].Name)
		assert.ErrorIs(t, failures[1].Err, ErrEntryNotFound)
	})
}

func TestBuildRegistryErrors(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing")

	_, err := BuildRegistry(missing, "[", NewEntryLoader())
	var perr *InvalidPatternError
	assert.ErrorAs(t, err, &perr, "pattern is checked before the root")

	_, err = BuildRegistry(missing, DefaultPattern, NewEntryLoader())
	var ferr *FilesystemError
	require.ErrorAs(t, err, &ferr)
	assert.ErrorIs(t, err, os.ErrNotExist)

	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	_, err = BuildRegistry(file, DefaultPattern, NewEntryLoader())
	require.ErrorAs(t, err, &ferr)
}
