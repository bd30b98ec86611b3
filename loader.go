package autoroutes

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
)

// Loader loads the module that lives in dir, a path relative to fsys.
type Loader interface {
	Load(fsys fs.FS, dir string) (*Module, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(fsys fs.FS, dir string) (*Module, error)

func (f LoaderFunc) Load(fsys fs.FS, dir string) (*Module, error) {
	return f(fsys, dir)
}

// Decoder turns the contents of an entry file into a module.
type Decoder interface {
	Decode(filename string, src []byte) (*Module, error)
}

// DecoderFunc adapts a function to the Decoder interface.
type DecoderFunc func(filename string, src []byte) (*Module, error)

func (f DecoderFunc) Decode(filename string, src []byte) (*Module, error) {
	return f(filename, src)
}

// DefaultEntryName is the base name of the canonical entry file.
const DefaultEntryName = "index"

type decoderEntry struct {
	ext     string
	decoder Decoder
}

// EntryLoader loads the canonical entry file of a directory, index.<ext>,
// using the decoder registered for the first extension present.
type EntryLoader struct {
	name     string
	decoders []decoderEntry
}

// NewEntryLoader creates an EntryLoader. Without options it decodes TOML,
// YAML, HCL manifests and interpreted Go scripts, probed in that order.
func NewEntryLoader(options ...func(*EntryLoader)) *EntryLoader {
	l := &EntryLoader{name: DefaultEntryName}
	for _, opt := range options {
		opt(l)
	}
	if len(l.decoders) == 0 {
		WithManifestDecoders()(l)
		WithDecoder(".go", NewScriptDecoder())(l)
	}
	return l
}

// WithEntryName changes the entry file base name.
func WithEntryName(name string) func(*EntryLoader) {
	return func(l *EntryLoader) {
		l.name = name
	}
}

// WithDecoder registers decoder for entry files ending in ext. Earlier
// registrations take precedence when a directory holds several entries.
func WithDecoder(ext string, decoder Decoder) func(*EntryLoader) {
	return func(l *EntryLoader) {
		l.decoders = append(l.decoders, decoderEntry{ext: ext, decoder: decoder})
	}
}

// WithManifestDecoders registers the TOML, YAML and HCL manifest decoders.
func WithManifestDecoders() func(*EntryLoader) {
	return func(l *EntryLoader) {
		WithDecoder(".toml", DecoderFunc(DecodeTOML))(l)
		WithDecoder(".yaml", DecoderFunc(DecodeYAML))(l)
		WithDecoder(".yml", DecoderFunc(DecodeYAML))(l)
		WithDecoder(".hcl", DecoderFunc(DecodeHCL))(l)
	}
}

func (l *EntryLoader) Load(fsys fs.FS, dir string) (*Module, error) {
	for _, d := range l.decoders {
		entry := path.Join(dir, l.name+d.ext)
		src, err := fs.ReadFile(fsys, entry)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		m, err := d.decoder.Decode(entry, src)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", entry, err)
		}
		if m == nil {
			return nil, fmt.Errorf("%s: %w", entry, ErrNilModule)
		}
		m.finalize(dir, entry)
		return m, nil
	}
	return nil, fmt.Errorf("%s/%s.*: %w", dir, l.name, ErrEntryNotFound)
}
