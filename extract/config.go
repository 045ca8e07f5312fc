package extract

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/gnolang/coda/annotate"
	"github.com/gnolang/coda/grammar"
)

const DefaultConfigPath = ".coda.yaml"

var ErrInvalidGrammar = errors.New("invalid grammar")

// Config is the content of a coda configuration file.
type Config struct {
	Name        string              `yaml:"name" toml:"name"`
	Languages   []annotate.Language `yaml:"languages,omitempty" toml:"languages,omitempty"`
	Grammar     Grammar             `yaml:"grammar,omitempty" toml:"grammar,omitempty"`
	Kinds       []string            `yaml:"kinds,omitempty" toml:"kinds,omitempty"`
	IgnorePaths []string            `yaml:"ignore_paths,omitempty" toml:"ignore_paths,omitempty"`
	CacheDir    string              `yaml:"cache_dir,omitempty" toml:"cache_dir,omitempty"`
}

// Grammar is an ordered list of rules. In YAML it is written as a
// mapping from rule name to expression, whose order is kept:
//
//	grammar:
//	  Block: blockStart comment*
//	  Code: _+
//
// In TOML it is an array of tables with name and expr keys.
type Grammar []grammar.Rule

func (g *Grammar) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.MappingNode:
		rules := make(Grammar, 0, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			key, value := node.Content[i], node.Content[i+1]
			if value.Kind != yaml.ScalarNode {
				return fmt.Errorf("%w: line %d: rule %s must be a string", ErrInvalidGrammar, value.Line, key.Value)
			}
			rules = append(rules, grammar.Rule{Name: key.Value, Expr: value.Value})
		}
		*g = rules
		return nil
	case yaml.SequenceNode:
		var rules []grammar.Rule
		if err := node.Decode(&rules); err != nil {
			return err
		}
		*g = rules
		return nil
	default:
		return fmt.Errorf("%w: line %d: expected a mapping of rules", ErrInvalidGrammar, node.Line)
	}
}

func (g Grammar) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, r := range g {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: r.Name},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: r.Expr},
		)
	}
	return node, nil
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Name:      "coda",
		Languages: append([]annotate.Language(nil), annotate.Builtin...),
		Grammar:   append(Grammar(nil), annotate.DefaultRules...),
		Kinds:     []string{annotate.BlockRule},
	}
}

// withDefaults fills the sections a file left out.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.Name == "" {
		c.Name = def.Name
	}
	if len(c.Languages) == 0 {
		c.Languages = def.Languages
	}
	if len(c.Grammar) == 0 {
		c.Grammar = def.Grammar
	}
	return c
}

// Validate compiles the grammar and checks the languages.
func (c Config) Validate() error {
	for _, l := range c.Languages {
		if err := l.Validate(); err != nil {
			return err
		}
	}
	if _, err := grammar.Compile(c.Grammar...); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidGrammar, err)
	}
	return nil
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}

// LoadConfig reads a configuration file, TOML when its extension is
// .toml and YAML otherwise. Unknown keys are rejected.
func LoadConfig(path string) (Config, error) {
	var config Config

	data, err := os.ReadFile(path)
	if err != nil {
		return config, err
	}

	if isTOML(path) {
		md, err := toml.Decode(string(data), &config)
		if err != nil {
			return config, fmt.Errorf("error parsing %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return config, fmt.Errorf("error parsing %s: unknown key %s", path, undecoded[0])
		}
	} else if len(bytes.TrimSpace(data)) > 0 {
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(&config); err != nil {
			return config, fmt.Errorf("error parsing %s: %w", path, err)
		}
	}

	config = config.withDefaults()
	if err := config.Validate(); err != nil {
		return config, fmt.Errorf("%s: %w", path, err)
	}
	return config, nil
}

// LoadConfigOrDefault is LoadConfig, except that a missing file at the
// default path yields DefaultConfig.
func LoadConfigOrDefault(path string) (Config, error) {
	if path == "" {
		path = DefaultConfigPath
	}
	config, err := LoadConfig(path)
	if errors.Is(err, os.ErrNotExist) && path == DefaultConfigPath {
		return DefaultConfig(), nil
	}
	return config, err
}

// WriteConfig writes config to path, in the format its extension selects.
func WriteConfig(path string, config Config) error {
	var buf bytes.Buffer
	if isTOML(path) {
		if err := toml.NewEncoder(&buf).Encode(config); err != nil {
			return err
		}
	} else {
		encoder := yaml.NewEncoder(&buf)
		encoder.SetIndent(2)
		if err := encoder.Encode(config); err != nil {
			return err
		}
		if err := encoder.Close(); err != nil {
			return err
		}
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}
