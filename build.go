package autoroutes

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
)

// Option configures a Builder.
type Option func(*Builder)

// Builder assembles a Registry from the directories under a root. Candidates
// are loaded one at a time in discovery order.
type Builder struct {
	fsys      fs.FS
	root      string
	loader    Loader
	logger    *slog.Logger
	tolerant  bool
	onFailure func(LoadFailure)
}

// NewBuilder creates a strict Builder over fsys. Without WithLogFailures the
// first load failure aborts Build.
func NewBuilder(fsys fs.FS, loader Loader, opts ...Option) *Builder {
	b := &Builder{
		fsys:   fsys,
		loader: loader,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// WithLogFailures switches the builder to tolerant mode: load failures are
// reported to logger and the failing candidate is left out of the registry.
// A nil logger reports to slog.Default.
func WithLogFailures(logger *slog.Logger) Option {
	return func(b *Builder) {
		b.tolerant = true
		if logger == nil {
			logger = slog.Default()
		}
		b.logger = logger
	}
}

// WithLogger sets the logger for progress messages without changing the
// failure mode.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		b.logger = logger
	}
}

// WithFailureHandler registers fn to receive a record of every load failure
// skipped in tolerant mode.
func WithFailureHandler(fn func(LoadFailure)) Option {
	return func(b *Builder) {
		b.onFailure = fn
	}
}

// WithRoot sets the directory paths in errors and diagnostics are joined to.
func WithRoot(root string) Option {
	return func(b *Builder) {
		b.root = root
	}
}

// Build discovers the candidates matching pattern and loads each of them.
// Enumeration errors are always fatal. In strict mode the first load error
// is returned as a *LoadError and no registry is produced.
func (b *Builder) Build(pattern string) (Registry, error) {
	dirs, err := Discover(b.fsys, pattern)
	if err != nil {
		var fe *FilesystemError
		if errors.As(err, &fe) {
			fe.Path = b.display(fe.Path)
		}
		return nil, err
	}
	b.logger.Debug("discovered route candidates", "root", b.display("."), "count", len(dirs))

	reg := make(Registry, 0, len(dirs))
	for _, dir := range dirs {
		m, err := b.load(dir)
		if err == nil {
			reg = append(reg, m)
			b.logger.Debug("loaded route module", "name", m.Name, "route", m.Route, "entry", m.Entry)
			continue
		}
		lerr := &LoadError{Path: b.display(dir), Err: err}
		if !b.tolerant {
			return nil, lerr
		}
		b.report(LoadFailure{Name: path.Base(dir), Path: lerr.Path, Err: err})
	}
	b.logger.Info("route registry built", "root", b.display("."), "modules", len(reg), "candidates", len(dirs))
	return reg, nil
}

func (b *Builder) load(dir string) (*Module, error) {
	m, err := b.loader.Load(b.fsys, dir)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrNilModule
	}
	if m.Handler == nil {
		return nil, errors.New("module has no handler")
	}
	m.finalize(dir, m.Entry)
	return m, nil
}

func (b *Builder) report(f LoadFailure) {
	if errors.Is(f.Err, ErrEntryNotFound) {
		b.logger.Warn("skipping route without entry module", "name", f.Name, "path", f.Path, "error", f.Err)
	} else {
		b.logger.Error(fmt.Sprintf("failed to load route %s\n%+v", f.Name, f.Err), "name", f.Name, "path", f.Path)
	}
	if b.onFailure != nil {
		b.onFailure(f)
	}
}

func (b *Builder) display(p string) string {
	if b.root == "" {
		return p
	}
	return filepath.Join(b.root, filepath.FromSlash(p))
}

// BuildRegistry builds a registry from the directory tree at root. The
// pattern is checked before root is touched; a missing or unreadable root is
// a *FilesystemError.
func BuildRegistry(root, pattern string, loader Loader, opts ...Option) (Registry, error) {
	if _, err := normalizePattern(pattern); err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, &FilesystemError{Path: root, Err: err}
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, &FilesystemError{Path: abs, Err: err}
	}
	if !info.IsDir() {
		return nil, &FilesystemError{Path: abs, Err: errors.New("not a directory")}
	}
	opts = append([]Option{WithRoot(abs)}, opts...)
	return NewBuilder(os.DirFS(abs), loader, opts...).Build(pattern)
}
