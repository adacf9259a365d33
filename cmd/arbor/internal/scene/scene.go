// Package scene reads configuration trees from YAML or TOML files.
//
// A scene names kinds by their registered names and carries props verbatim:
//
//	width: 200
//	height: 100
//	root:
//	  kind: column
//	  props: {main_axis_size: max}
//	  children:
//	    - kind: text
//	      key: title
//	      props: {text: hello}
package scene

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/go-drift/arbor/pkg/core"
	"github.com/go-drift/arbor/pkg/errors"
)

// Format is a scene file encoding.
type Format int

const (
	FormatYAML Format = iota
	FormatTOML
)

// FormatOf picks the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return 0, fmt.Errorf("unsupported scene format %q (use .yaml or .toml)", filepath.Ext(path))
	}
}

// File is a decoded scene. Width and Height override the configured
// surface when set.
type File struct {
	Width  float64  `yaml:"width,omitempty" toml:"width"`
	Height float64  `yaml:"height,omitempty" toml:"height"`
	Root   *Element `yaml:"root" toml:"root"`
}

// Element is one node of a scene tree.
type Element struct {
	Kind     string         `yaml:"kind" toml:"kind"`
	Key      any            `yaml:"key,omitempty" toml:"key"`
	Props    map[string]any `yaml:"props,omitempty" toml:"props"`
	Children []*Element     `yaml:"children,omitempty" toml:"children"`
}

// Load reads and decodes the scene at path.
func Load(path string) (*File, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene: %w", err)
	}
	f, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return f, nil
}

// Parse decodes a scene.
func Parse(data []byte, format Format) (*File, error) {
	var f File
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("failed to parse scene: %w", err)
		}
	case FormatTOML:
		if _, err := toml.Decode(string(data), &f); err != nil {
			return nil, fmt.Errorf("failed to parse scene: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown scene format %d", format)
	}
	if f.Root == nil {
		return nil, fmt.Errorf("scene has no root")
	}
	return &f, nil
}

// Build converts the scene into a configuration tree for the kinds in reg.
// An element naming an unregistered kind is a structural error carrying the
// element's path.
func (f *File) Build(reg *core.Registry) (*core.Node, error) {
	return build(reg, f.Root, f.Root.Kind)
}

func build(reg *core.Registry, el *Element, path string) (*core.Node, error) {
	kind, ok := reg.Lookup(el.Kind)
	if !ok {
		return nil, &errors.StructuralError{
			Op:   "scene.Build",
			Path: path,
			Key:  el.Key,
			Err:  fmt.Errorf("%w %q", errors.ErrUnknownKind, el.Kind),
		}
	}

	n := core.New(kind, normalizeProps(el.Props))
	if el.Key != nil {
		n.Key = normalizeKey(el.Key)
	}
	for i, child := range el.Children {
		if child == nil {
			continue
		}
		c, err := build(reg, child, path+"/"+child.Kind+"["+strconv.Itoa(i)+"]")
		if err != nil {
			return nil, err
		}
		n.Children = append(n.Children, c)
	}
	return n, nil
}

// normalizeProps maps decoder-specific number types to the ones props
// accessors expect.
func normalizeProps(in map[string]any) core.Props {
	if len(in) == 0 {
		return nil
	}
	out := make(core.Props, len(in))
	for name, v := range in {
		switch v := v.(type) {
		case int64:
			out[name] = int(v)
		case uint64:
			out[name] = int(v)
		default:
			out[name] = v
		}
	}
	return out
}

// normalizeKey makes keys decoded from YAML and TOML compare equal: the
// integer 1 is the same key in both formats.
func normalizeKey(key any) core.Key {
	switch k := key.(type) {
	case int64:
		return int(k)
	case uint64:
		return int(k)
	default:
		return k
	}
}
