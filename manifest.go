package autoroutes

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Manifest is a declarative route module. Entry files in TOML, YAML or HCL
// decode into a Manifest, which is then served by a manifest handler.
//
//	route        = "GET /about About us"
//	body         = "<h1>About {name}</h1>"
//	partial      = "<p>About {name}</p>"
//	content_type = "text/html; charset=utf-8"
type Manifest struct {
	Route       string            `toml:"route" yaml:"route" hcl:"route,optional"`
	Title       string            `toml:"title" yaml:"title" hcl:"title,optional"`
	Status      int               `toml:"status" yaml:"status" hcl:"status,optional"`
	ContentType string            `toml:"content_type" yaml:"content_type" hcl:"content_type,optional"`
	Body        string            `toml:"body" yaml:"body" hcl:"body,optional"`
	Partial     string            `toml:"partial" yaml:"partial" hcl:"partial,optional"`
	Headers     map[string]string `toml:"headers" yaml:"headers" hcl:"headers,optional"`
	// Data is served as JSON instead of Body. HCL manifests cannot set it.
	Data map[string]any `toml:"data" yaml:"data"`
	HTMX *HTMXManifest  `toml:"htmx" yaml:"htmx" hcl:"htmx,block"`
}

// HTMXManifest holds response headers sent to htmx requests.
type HTMXManifest struct {
	Retarget string   `toml:"retarget" yaml:"retarget" hcl:"retarget,optional"`
	PushURL  string   `toml:"push_url" yaml:"push_url" hcl:"push_url,optional"`
	Trigger  []string `toml:"trigger" yaml:"trigger" hcl:"trigger,optional"`
}

func (m *Manifest) validate() error {
	if m.Status == 0 {
		m.Status = http.StatusOK
	}
	if m.Status < 100 || m.Status > 599 {
		return fmt.Errorf("invalid status %d", m.Status)
	}
	if m.Data != nil && (m.Body != "" || m.Partial != "") {
		return errors.New("data cannot be combined with body or partial")
	}
	if m.ContentType == "" {
		m.ContentType = "text/html; charset=utf-8"
	}
	return nil
}

// Module validates the manifest and returns a module serving it.
func (m *Manifest) Module() (*Module, error) {
	if err := m.validate(); err != nil {
		return nil, err
	}
	mod := &Module{Handler: newManifestHandler(m)}
	applyTag(mod, m.Route)
	if m.Title != "" {
		mod.Title = m.Title
	}
	return mod, nil
}

// DecodeTOML decodes a TOML manifest.
func DecodeTOML(filename string, src []byte) (*Module, error) {
	var m Manifest
	dec := toml.NewDecoder(bytes.NewReader(src))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("parse toml manifest: %w", err)
	}
	return m.Module()
}

// DecodeYAML decodes a YAML manifest.
func DecodeYAML(filename string, src []byte) (*Module, error) {
	var m Manifest
	dec := yaml.NewDecoder(bytes.NewReader(src))
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse yaml manifest: %w", err)
	}
	return m.Module()
}

// DecodeHCL decodes an HCL manifest.
func DecodeHCL(filename string, src []byte) (*Module, error) {
	var m Manifest
	if err := hclsimple.Decode(filename, src, nil, &m); err != nil {
		return nil, fmt.Errorf("parse hcl manifest: %w", err)
	}
	return m.Module()
}
