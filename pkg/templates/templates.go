// Package templates loads named droplet create bodies from YAML or JSON files.
package templates

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Template is a reusable droplet create body. Droplet is sent to the API as
// is; field validation is left to the API.
type Template struct {
	ID          string         `json:"id" yaml:"id"`
	Description string         `json:"description" yaml:"description"`
	Droplet     map[string]any `json:"droplet" yaml:"droplet"`
}

type file struct {
	Templates []Template `json:"templates" yaml:"templates"`
}

// Registry holds the templates of one file.
type Registry struct {
	templates []Template
	idx       map[string]Template
}

// Load reads a template registry from path.
func Load(path string) (*Registry, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("templates file path is empty")
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open templates file: %w", err)
	}
	defer f.Close()

	raw, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read templates file: %w", err)
	}

	parsed, err := parse(raw, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	if len(parsed.Templates) == 0 {
		return nil, errors.New("templates file contains no templates entries")
	}

	reg := &Registry{
		templates: make([]Template, len(parsed.Templates)),
		idx:       make(map[string]Template, len(parsed.Templates)),
	}
	for i := range parsed.Templates {
		tpl := sanitize(parsed.Templates[i])
		if tpl.ID == "" {
			return nil, fmt.Errorf("templates[%d]: id is required", i)
		}
		if _, exists := reg.idx[tpl.ID]; exists {
			return nil, fmt.Errorf("duplicate template id %q", tpl.ID)
		}
		reg.templates[i] = tpl
		reg.idx[tpl.ID] = tpl
	}
	return reg, nil
}

type unmarshalFn func([]byte, any) error

// parse decodes by extension, or tries every format when there is none.
func parse(data []byte, ext string) (file, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))

	decoders := []struct {
		name string
		ext  string
		fn   unmarshalFn
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	var lastErr error
	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		var out file
		if err := d.fn(data, &out); err != nil {
			lastErr = fmt.Errorf("decode %s templates: %w", d.name, err)
			continue
		}
		return out, nil
	}
	if lastErr != nil {
		return file{}, lastErr
	}
	return file{}, errors.New("templates file format not recognized (expected YAML or JSON)")
}

func sanitize(t Template) Template {
	t.ID = strings.TrimSpace(t.ID)
	t.Description = strings.TrimSpace(t.Description)
	if t.Droplet == nil {
		t.Droplet = map[string]any{}
	}
	return t
}

// ByID returns the template with id.
func (r *Registry) ByID(id string) (Template, bool) {
	if r == nil {
		return Template{}, false
	}
	t, ok := r.idx[strings.TrimSpace(id)]
	return t, ok
}

// All returns every template in file order.
func (r *Registry) All() []Template {
	if r == nil {
		return nil
	}
	out := make([]Template, len(r.templates))
	copy(out, r.templates)
	return out
}

// Body returns a copy of the template's droplet body that callers may modify.
func (t Template) Body() map[string]any {
	out := make(map[string]any, len(t.Droplet))
	for k, v := range t.Droplet {
		out[k] = v
	}
	return out
}

// LoadBody reads a single create body (a YAML or JSON object) from path.
func LoadBody(path string) (map[string]any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read droplet body: %w", err)
	}

	var body map[string]any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(raw, &body)
	default:
		err = yaml.Unmarshal(raw, &body)
	}
	if err != nil {
		return nil, fmt.Errorf("decode droplet body: %w", err)
	}
	if body == nil {
		body = map[string]any{}
	}
	return body, nil
}
