// Package schemafile builds argspec registries from declarative tables
// written in YAML or TOML.
//
//	entries:
//	  - name: Input
//	    kind: positional
//	  - name: Output
//	    kind: flag-arg
//	    short: o
//	groups:
//	  - name: input
//	    requirement: mandatory
//	    alternatives:
//	      - {tag: File, entry: input}
package schemafile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/BurntSushi/toml"
	"github.com/dzonerzy/go-argspec/argspec"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of a schema table.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

var (
	ErrUnknownFormat = errors.New("schemafile: unknown format")
	ErrUnknownKind   = errors.New("schemafile: unknown entry kind")
	ErrUnknownParser = errors.New("schemafile: unknown parser")
)

// Schema is the decoded table. Entries and groups keep their file order,
// which is the declaration order of the built registry.
type Schema struct {
	Entries []EntrySpec `yaml:"entries" toml:"entries"`
	Groups  []GroupSpec `yaml:"groups" toml:"groups"`
}

// EntrySpec declares one entry.
type EntrySpec struct {
	Name        string   `yaml:"name" toml:"name"`
	Kind        string   `yaml:"kind" toml:"kind"` // positional, flag or flag-arg
	Long        string   `yaml:"long,omitempty" toml:"long,omitempty"`
	Short       string   `yaml:"short,omitempty" toml:"short,omitempty"`
	Description string   `yaml:"description,omitempty" toml:"description,omitempty"`
	Default     *string  `yaml:"default,omitempty" toml:"default,omitempty"`
	Parser      string   `yaml:"parser,omitempty" toml:"parser,omitempty"`
	Values      []string `yaml:"values,omitempty" toml:"values,omitempty"` // enum only
}

// GroupSpec declares one group.
type GroupSpec struct {
	Name         string            `yaml:"name" toml:"name"`
	Description  string            `yaml:"description,omitempty" toml:"description,omitempty"`
	Requirement  string            `yaml:"requirement" toml:"requirement"` // mandatory or optional
	Alternatives []AlternativeSpec `yaml:"alternatives" toml:"alternatives"`
}

// AlternativeSpec is one tagged alternative, referencing an entry by long name.
type AlternativeSpec struct {
	Tag   string `yaml:"tag" toml:"tag"`
	Entry string `yaml:"entry" toml:"entry"`
}

var parsers = map[string]argspec.ParseFunc{
	"":            argspec.String,
	"string":      argspec.String,
	"int":         argspec.Int,
	"uint":        argspec.Uint,
	"bool":        argspec.Bool,
	"float":       argspec.Float,
	"duration":    argspec.Duration,
	"semver":      argspec.SemVer,
	"string-list": argspec.StringList,
	"int-list":    argspec.IntList,
}

// FormatOf picks the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
	}
}

// Decode reads a schema table. Unknown keys are rejected in both formats.
func Decode(r io.Reader, format Format) (*Schema, error) {
	var s Schema
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("schemafile: decode yaml: %w", err)
		}
	case FormatTOML:
		md, err := toml.NewDecoder(r).Decode(&s)
		if err != nil {
			return nil, fmt.Errorf("schemafile: decode toml: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("schemafile: decode toml: unknown key %q", undecoded[0].String())
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return &s, nil
}

// Parse is Decode over an in-memory table.
func Parse(data []byte, format Format) (*Schema, error) {
	return Decode(bytes.NewReader(data), format)
}

// Load reads and decodes the table at path, choosing the format by extension.
func Load(path string) (*Schema, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	s, err := Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return s, nil
}

// LoadRegistry loads the table at path and builds its registry.
func LoadRegistry(path string) (*argspec.Registry, error) {
	s, err := Load(path)
	if err != nil {
		return nil, err
	}
	return s.Build()
}

// Builder translates the table into builder declarations. Schema-level
// problems (duplicates, unknown alternatives) are left to Build.
func (s *Schema) Builder() (*argspec.Builder, error) {
	b := argspec.NewBuilder()
	for i, spec := range s.Entries {
		if err := declareEntry(b, spec); err != nil {
			return nil, fmt.Errorf("entries[%d] (%s): %w", i, spec.Name, err)
		}
	}
	for i, spec := range s.Groups {
		var req argspec.Requirement
		switch strings.ToLower(spec.Requirement) {
		case "mandatory", "required":
			req = argspec.Mandatory
		case "", "optional":
			req = argspec.Optional
		default:
			return nil, fmt.Errorf("groups[%d] (%s): unknown requirement %q", i, spec.Name, spec.Requirement)
		}
		gb := b.Group(spec.Name, req).Description(spec.Description)
		for _, alt := range spec.Alternatives {
			gb.Alt(alt.Tag, alt.Entry)
		}
	}
	return b, nil
}

// Build produces the registry described by the table.
func (s *Schema) Build() (*argspec.Registry, error) {
	b, err := s.Builder()
	if err != nil {
		return nil, err
	}
	return b.Build()
}

func declareEntry(b *argspec.Builder, spec EntrySpec) error {
	var eb *argspec.EntryBuilder
	switch strings.ToLower(spec.Kind) {
	case "positional":
		eb = b.Positional(spec.Name, spec.Description)
	case "flag":
		eb = b.Flag(spec.Name, spec.Description)
	case "flag-arg", "flagarg", "option":
		eb = b.FlagArg(spec.Name, spec.Description)
	default:
		return fmt.Errorf("%w %q", ErrUnknownKind, spec.Kind)
	}

	if spec.Long != "" {
		eb.Long(spec.Long)
	}
	if spec.Short != "" {
		if utf8.RuneCountInString(spec.Short) != 1 {
			return fmt.Errorf("short form %q must be a single character", spec.Short)
		}
		r, _ := utf8.DecodeRuneInString(spec.Short)
		eb.Short(r)
	}

	if spec.Parser != "" || len(spec.Values) > 0 {
		fn, err := parserFor(spec)
		if err != nil {
			return err
		}
		eb.Parse(fn)
	}
	if spec.Default != nil {
		eb.Default(*spec.Default)
	}
	return nil
}

func parserFor(spec EntrySpec) (argspec.ParseFunc, error) {
	name := strings.ToLower(spec.Parser)
	if name == "enum" || (name == "" && len(spec.Values) > 0) {
		if len(spec.Values) == 0 {
			return nil, errors.New("enum parser needs values")
		}
		return argspec.OneOf(spec.Values...), nil
	}
	if len(spec.Values) > 0 {
		return nil, fmt.Errorf("values are only valid with the enum parser, not %q", spec.Parser)
	}
	fn, ok := parsers[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownParser, spec.Parser)
	}
	return fn, nil
}
