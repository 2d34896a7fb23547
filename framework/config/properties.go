package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// ── Properties ───────────────────────────────────────────────────────────────

// Property is one key/value pair of a services configuration.
type Property struct {
	Key   string
	Value string
}

// Properties is an ordered set of key/value string pairs. Setting an existing
// key replaces its value in place. It is built at startup and is not safe for
// concurrent mutation.
type Properties struct {
	entries []Property
	index   map[string]int
}

// NewProperties creates an empty set.
func NewProperties() *Properties {
	return &Properties{index: make(map[string]int)}
}

// FromMap builds a set from m, ordered by key.
func FromMap(m map[string]string) *Properties {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	p := NewProperties()
	for _, k := range keys {
		p.Set(k, m[k])
	}
	return p
}

// Set stores value under key and returns p for chaining.
func (p *Properties) Set(key, value string) *Properties {
	if p.index == nil {
		p.index = make(map[string]int)
	}
	if i, ok := p.index[key]; ok {
		p.entries[i].Value = value
		return p
	}
	p.index[key] = len(p.entries)
	p.entries = append(p.entries, Property{Key: key, Value: value})
	return p
}

// Get returns the value stored under key.
func (p *Properties) Get(key string) (string, bool) {
	if p == nil {
		return "", false
	}
	i, ok := p.index[key]
	if !ok {
		return "", false
	}
	return p.entries[i].Value, true
}

// Len returns the number of pairs.
func (p *Properties) Len() int {
	if p == nil {
		return 0
	}
	return len(p.entries)
}

// Keys returns the keys in order.
func (p *Properties) Keys() []string {
	out := make([]string, 0, p.Len())
	for _, e := range p.Entries() {
		out = append(out, e.Key)
	}
	return out
}

// Entries returns a copy of the pairs in order. A nil set has no entries.
func (p *Properties) Entries() []Property {
	if p == nil {
		return nil
	}
	out := make([]Property, len(p.entries))
	copy(out, p.entries)
	return out
}

// Merge copies every pair of other into p. Values from other win; keys already
// present keep their position.
func (p *Properties) Merge(other *Properties) *Properties {
	for _, e := range other.Entries() {
		p.Set(e.Key, e.Value)
	}
	return p
}

// ── Formats ──────────────────────────────────────────────────────────────────

// Format identifies a properties source syntax.
type Format string

const (
	// FormatProperties reads java.util.Properties style files (.properties):
	// "#" and "!" comments, "=", ":" or whitespace between key and value,
	// backslash line continuations. Values are literal, except that
	// surrounding quotes are removed and whitespace followed by "#" starts a
	// trailing comment; other backslash escapes are kept as written. Keys are
	// limited to letters, digits, "_" and ".".
	FormatProperties Format = "properties"
	// FormatDotenv reads dotenv files (.env): optional "export", quoting and
	// ${VAR} expansion against earlier keys of the same file.
	FormatDotenv Format = "dotenv"
	// FormatYAML flattens nested mappings with dots (.yaml, .yml).
	FormatYAML Format = "yaml"
	// FormatJSON accepts JSON with comments and trailing commas (.json, .jsonc).
	FormatJSON Format = "json"
)

// ErrUnsupportedFormat is returned for file extensions with no known parser.
var ErrUnsupportedFormat = errors.New("config: unsupported properties format")

// FormatOf picks the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".properties":
		return FormatProperties, nil
	case ".env":
		return FormatDotenv, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json", ".jsonc":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, path)
}

// LoadProperties reads and parses the file at path from fs.
//
//	props, err := config.LoadProperties(afero.NewOsFs(), "services.yaml")
func LoadProperties(fs afero.Fs, path string) (*Properties, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return ParseProperties(format, bytes.NewReader(data))
}

// ParseProperties parses r in the given format.
//
// Properties and dotenv sources are ordered by key since the parser yields a
// map. YAML and JSON sources keep document order; nested mappings become
// dotted keys and sequence items are keyed by index.
func ParseProperties(format Format, r io.Reader) (*Properties, error) {
	switch format {
	case FormatProperties, FormatDotenv:
		if format == FormatProperties {
			data, err := io.ReadAll(r)
			if err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", format, err)
			}
			r = bytes.NewReader(propertiesToDotenv(data))
		}
		m, err := godotenv.Parse(r)
		if err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", format, err)
		}
		return FromMap(m), nil
	case FormatYAML, FormatJSON:
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", format, err)
		}
		if format == FormatJSON {
			data = jsonc.ToJSON(data)
		}
		return parseTree(format, data)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

// propertiesToDotenv rewrites java.util.Properties lines into the dotenv form
// godotenv reads. Comments are dropped, continuations are joined, the key
// separator becomes "=" and "$" is escaped in unquoted values.
func propertiesToDotenv(data []byte) []byte {
	var out bytes.Buffer
	lines := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
	for i := 0; i < len(lines); i++ {
		line := strings.TrimLeft(lines[i], " \t\f")
		if line == "" || line[0] == '#' || line[0] == '!' {
			continue
		}
		for continued(line) {
			line = line[:len(line)-1]
			if i+1 >= len(lines) {
				break
			}
			i++
			line += strings.TrimLeft(lines[i], " \t\f")
		}

		key, value := splitProperty(line)
		if !strings.HasPrefix(value, `"`) && !strings.HasPrefix(value, "'") {
			value = strings.ReplaceAll(value, "$", `\$`)
		}
		out.WriteString(key)
		out.WriteByte('=')
		out.WriteString(value)
		out.WriteByte('\n')
	}
	return out.Bytes()
}

// continued reports whether line ends in an unescaped backslash.
func continued(line string) bool {
	n := 0
	for i := len(line) - 1; i >= 0 && line[i] == '\\'; i-- {
		n++
	}
	return n%2 == 1
}

// splitProperty splits a logical line at the first unescaped "=", ":" or
// whitespace.
func splitProperty(line string) (key, value string) {
	end := len(line)
	for i := 0; i < len(line); i++ {
		c := line[i]
		if c == '\\' {
			i++
			continue
		}
		if c == '=' || c == ':' || c == ' ' || c == '\t' || c == '\f' {
			end = i
			break
		}
	}
	key = line[:end]
	rest := strings.TrimLeft(line[end:], " \t\f")
	if rest != "" && (rest[0] == '=' || rest[0] == ':') {
		rest = strings.TrimLeft(rest[1:], " \t\f")
	}
	return key, strings.TrimRight(rest, " \t\f\r")
}

func parseTree(format Format, data []byte) (*Properties, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", format, err)
	}

	p := NewProperties()
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return p, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("config: parse %s: top level must be a mapping, got %s", format, kindName(root.Kind))
	}
	if err := flatten(p, "", root); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", format, err)
	}
	return p, nil
}

func flatten(p *Properties, prefix string, n *yaml.Node) error {
	switch n.Kind {
	case yaml.AliasNode:
		return flatten(p, prefix, n.Alias)
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			if err := flatten(p, join(prefix, n.Content[i].Value), n.Content[i+1]); err != nil {
				return err
			}
		}
	case yaml.SequenceNode:
		for i, item := range n.Content {
			if err := flatten(p, join(prefix, strconv.Itoa(i)), item); err != nil {
				return err
			}
		}
	case yaml.ScalarNode:
		if n.Tag == "!!null" {
			p.Set(prefix, "")
			return nil
		}
		p.Set(prefix, n.Value)
	default:
		return fmt.Errorf("unexpected %s at %q", kindName(n.Kind), prefix)
	}
	return nil
}

func join(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	}
	return "unknown node"
}
