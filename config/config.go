// ABOUTME: Course map configuration: graph root key, phase colour table, ignore rules.
// ABOUTME: Loads YAML (yaml.v3) or TOML (BurntSushi/toml) files over built-in defaults.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// DefaultRootKey names the graph and the nested frontmatter section.
const DefaultRootKey = "course-map"

// SearchPaths are the locations, relative to a base directory, probed by
// LoadDefault in order.
var SearchPaths = []string{
	"config.yml",
	"config.yaml",
	"src/course_map/config.yml",
	".course-map.yml",
	".course-map.yaml",
	".course-map.toml",
}

// Config is the read-only value threaded through every pipeline stage.
type Config struct {
	RootKey          string      `yaml:"root-key"`
	Phases           PhaseTable  `yaml:"phase"`
	Ignore           IgnoreRules `yaml:"ignore"`
	TitleFromHeading bool        `yaml:"title-from-heading"`

	// Source is the file the config was loaded from; empty for defaults.
	Source string `yaml:"-"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		RootKey: DefaultRootKey,
		Phases: NewPhaseTable(
			Phase{Name: "Pre", Face: "lightblue"},
			Phase{Name: "InClass", Face: "lightgreen"},
			Phase{Name: "Post", Face: "orange"},
			Phase{Name: "Unknown", Face: "lightgray"},
		),
		Ignore: IgnoreRules{"/index.qmd"},
	}
}

// Load reads a configuration file. Files ending in .toml are decoded as
// TOML, everything else as YAML. Keys absent from the file keep their
// default values; phase and ignore replace the defaults wholesale.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}

	var cfg *Config
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		cfg, err = ParseTOML(data)
	} else {
		cfg, err = ParseYAML(data)
	}
	if err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	cfg.Source = path
	return cfg, nil
}

// LoadDefault probes SearchPaths under dir and loads the first file found.
// When none exists the built-in defaults are returned.
func LoadDefault(dir string) (*Config, error) {
	for _, rel := range SearchPaths {
		candidate := filepath.Join(dir, rel)
		info, err := os.Stat(candidate)
		if err != nil || info.IsDir() {
			continue
		}
		return Load(candidate)
	}
	return Default(), nil
}

// ParseYAML decodes YAML configuration over the defaults. Unknown keys are
// rejected, as in ParseTOML.
func ParseYAML(data []byte) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

type tomlConfig struct {
	RootKey          *string               `toml:"root-key"`
	Phase            map[string]phaseEntry `toml:"phase"`
	Ignore           []string              `toml:"ignore"`
	TitleFromHeading *bool                 `toml:"title-from-heading"`
}

// ParseTOML decodes TOML configuration over the defaults. Phase order
// follows the order keys appear in the document.
func ParseTOML(data []byte) (*Config, error) {
	var raw tomlConfig
	md, err := toml.Decode(string(data), &raw)
	if err != nil {
		return nil, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown configuration keys: %v", undecoded)
	}

	cfg := Default()
	if raw.RootKey != nil {
		cfg.RootKey = *raw.RootKey
	}
	if raw.TitleFromHeading != nil {
		cfg.TitleFromHeading = *raw.TitleFromHeading
	}
	if md.IsDefined("ignore") {
		cfg.Ignore = IgnoreRules(raw.Ignore)
	}
	if md.IsDefined("phase") {
		cfg.Phases = tomlPhaseTable(md, raw.Phase)
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// tomlPhaseTable orders decoded phases by their first appearance in the
// document; any name the metadata did not report is appended sorted.
func tomlPhaseTable(md toml.MetaData, entries map[string]phaseEntry) PhaseTable {
	var order []string
	seen := make(map[string]bool, len(entries))
	for _, key := range md.Keys() {
		if len(key) < 2 || key[0] != "phase" {
			continue
		}
		name := key[1]
		if _, ok := entries[name]; !ok || seen[name] {
			continue
		}
		seen[name] = true
		order = append(order, name)
	}
	var rest []string
	for name := range entries {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	slices.Sort(rest)
	order = append(order, rest...)

	var t PhaseTable
	for _, name := range order {
		t.set(name, entries[name].Face)
	}
	return t
}

func (c *Config) normalize() error {
	c.RootKey = strings.TrimSpace(c.RootKey)
	if c.RootKey == "" {
		c.RootKey = DefaultRootKey
	}
	if err := c.Phases.validate(); err != nil {
		return err
	}
	c.Phases = c.Phases.WithUnknown()
	return nil
}

// Validate reports configuration that the pipeline cannot work with.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if strings.TrimSpace(c.RootKey) == "" {
		return errors.New("root-key must not be empty")
	}
	for i, rule := range c.Ignore {
		if r := strings.TrimSpace(rule); r == "" || r == "/" {
			return fmt.Errorf("ignore rule %d (%q) matches nothing", i+1, rule)
		}
	}
	return c.Phases.validate()
}

// GraphName is the name used for the emitted digraph.
func (c *Config) GraphName() string {
	if c.RootKey == "" {
		return DefaultRootKey
	}
	return c.RootKey
}

// YAML renders the effective configuration in the same layout Load accepts.
func (c *Config) YAML() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
