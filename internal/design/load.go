package design

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"verilab/internal/diag"
)

// Load reads and builds the description at path.
func Load(path string) (*Design, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read design")
	}
	return Parse(path, content)
}

// Parse builds a description from content; the extension of path picks
// the syntax.
func Parse(path string, content []byte) (*Design, error) {
	var (
		fd      fileDesign
		defined map[string]bool
		err     error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		fd, defined, err = decodeTOML(path, content)
	case ".yaml", ".yml":
		fd, defined, err = decodeYAML(path, content)
	default:
		return nil, newError(diag.DsnUnsupportedInput, path, "unsupported description format %q (want .toml, .yaml or .yml)", filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}
	d, err := build(path, &fd)
	if err != nil {
		return nil, err
	}
	d.Content = content
	d.Options = pickOptions(fd.Options, defined)
	return d, nil
}

var optionKeys = []string{"integer_width", "specify", "icarus_misc"}

func decodeTOML(path string, content []byte) (fileDesign, map[string]bool, error) {
	var fd fileDesign
	meta, err := toml.Decode(string(content), &fd)
	if err != nil {
		return fd, nil, newError(diag.DsnInvalid, path, "failed to parse TOML: %v", err)
	}
	if und := meta.Undecoded(); len(und) > 0 {
		return fd, nil, newError(diag.DsnInvalid, path, "unknown key %q", und[0].String())
	}
	defined := make(map[string]bool, len(optionKeys))
	for _, k := range optionKeys {
		defined[k] = meta.IsDefined("options", k)
	}
	return fd, defined, nil
}

func decodeYAML(path string, content []byte) (fileDesign, map[string]bool, error) {
	var fd fileDesign
	dec := yaml.NewDecoder(bytes.NewReader(content))
	dec.KnownFields(true)
	if err := dec.Decode(&fd); err != nil {
		return fd, nil, newError(diag.DsnInvalid, path, "failed to parse YAML: %v", err)
	}
	// второй проход по дереву узлов: какие опции заданы явно
	var root yaml.Node
	if err := yaml.Unmarshal(content, &root); err != nil {
		return fd, nil, newError(diag.DsnInvalid, path, "failed to parse YAML: %v", err)
	}
	defined := make(map[string]bool, len(optionKeys))
	if opts := mappingValue(&root, "options"); opts != nil && opts.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(opts.Content); i += 2 {
			defined[opts.Content[i].Value] = true
		}
	}
	return fd, defined, nil
}

func mappingValue(n *yaml.Node, key string) *yaml.Node {
	if n.Kind == yaml.DocumentNode && len(n.Content) > 0 {
		n = n.Content[0]
	}
	if n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return n.Content[i+1]
		}
	}
	return nil
}

func pickOptions(fo fileOptions, defined map[string]bool) Options {
	var o Options
	if defined["integer_width"] {
		w := fo.IntegerWidth
		o.IntegerWidth = &w
	}
	if defined["specify"] {
		v := fo.Specify
		o.Specify = &v
	}
	if defined["icarus_misc"] {
		v := fo.IcarusMisc
		o.IcarusMisc = &v
	}
	return o
}
