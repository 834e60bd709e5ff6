package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"

	"github.com/iancoleman/strcase"
	apperrors "github.com/mcncl/armaconf/internal/errors"
	"gopkg.in/yaml.v3"
)

// Output formats
const (
	FormatGo   = "go"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Formats lists the supported output formats.
var Formats = []string{FormatGo, FormatJSON, FormatYAML}

// Config represents the complete configuration for armaconf
type Config struct {
	Package    string           `yaml:"package"`
	RootName   string           `yaml:"root_name"`
	Output     OutputConfig     `yaml:"output"`
	Formatting FormattingConfig `yaml:"formatting"`
	Types      TypesConfig      `yaml:"types"`
	Naming     NamingConfig     `yaml:"naming"`
	Decoding   DecodingConfig   `yaml:"decoding"`
	Dev        DevConfig        `yaml:"dev"`
}

// OutputConfig selects what the tool writes
type OutputConfig struct {
	Format     string `yaml:"format"`
	Indent     int    `yaml:"indent"`
	FileHeader string `yaml:"file_header"`
}

// FormattingConfig controls gofmt of generated Go code
type FormattingConfig struct {
	Enabled bool `yaml:"enabled"`
}

// TypesConfig controls type inference and mapping
type TypesConfig struct {
	ForceInt64 bool          `yaml:"force_int64"`
	Mappings   []TypeMapping `yaml:"mappings"`
}

// TypeMapping overrides the inferred Go type of fields whose config key
// matches Pattern.
type TypeMapping struct {
	Pattern string `yaml:"pattern"`
	Type    string `yaml:"type"`
	Import  string `yaml:"import,omitempty"`
	Comment string `yaml:"comment,omitempty"`

	regex *regexp.Regexp
}

// NamingConfig controls field and struct naming
type NamingConfig struct {
	PascalCaseFields bool              `yaml:"pascal_case_fields"`
	FieldMappings    map[string]string `yaml:"field_mappings"`
}

// DecodingConfig controls how documents are read
type DecodingConfig struct {
	// Strict rejects classes that repeat a member name.
	Strict bool `yaml:"strict"`
}

// DevConfig contains development/debug options
type DevConfig struct {
	Debug bool `yaml:"debug"`
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Package:  "main",
		RootName: "Config",
		Output: OutputConfig{
			Format: FormatGo,
			Indent: 2,
		},
		Formatting: FormattingConfig{
			Enabled: true,
		},
		Types: TypesConfig{
			Mappings: []TypeMapping{},
		},
		Naming: NamingConfig{
			PascalCaseFields: true,
			FieldMappings:    make(map[string]string),
		},
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := NewConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if cfg.Naming.FieldMappings == nil {
		cfg.Naming.FieldMappings = make(map[string]string)
	}

	if err := cfg.compilePatterns(); err != nil {
		return nil, fmt.Errorf("failed to compile patterns: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// configNames are tried in order in each directory.
var configNames = []string{".armaconf.yml", ".armaconf.yaml", "armaconf.yml", "armaconf.yaml"}

// FindConfigFile searches for a config file in dir and its parents
func FindConfigFile(dir string) string {
	for {
		for _, name := range configNames {
			configPath := filepath.Join(dir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// Validate reports settings that cannot be honoured.
func (c *Config) Validate() error {
	if !slices.Contains(Formats, c.Output.Format) {
		return fmt.Errorf("invalid output.format %q: %w", c.Output.Format, apperrors.ErrUnknownFormat)
	}
	if c.Output.Indent < 0 {
		return fmt.Errorf("invalid output.indent %d: must not be negative", c.Output.Indent)
	}
	if c.RootName != "" && strcase.ToCamel(c.RootName) == "" {
		return fmt.Errorf("invalid root_name %q", c.RootName)
	}
	return nil
}

func (c *Config) compilePatterns() error {
	for i := range c.Types.Mappings {
		mapping := &c.Types.Mappings[i]
		regex, err := regexp.Compile(mapping.Pattern)
		if err != nil {
			return fmt.Errorf("invalid type mapping pattern '%s': %w", mapping.Pattern, err)
		}
		mapping.regex = regex
	}
	return nil
}

// MatchesField checks if this type mapping matches the given config key
func (tm *TypeMapping) MatchesField(key string) bool {
	if tm.regex == nil {
		regex, err := regexp.Compile(tm.Pattern)
		if err != nil {
			return false
		}
		tm.regex = regex
	}
	return tm.regex.MatchString(key)
}

// GetFieldName returns the Go field name for a config key, applying naming rules
func (c *Config) GetFieldName(key string) string {
	if mapped, exists := c.Naming.FieldMappings[key]; exists {
		return mapped
	}
	if c.Naming.PascalCaseFields {
		return strcase.ToCamel(key)
	}
	return key
}

// FindTypeMapping finds the first type mapping that matches the config key
func (c *Config) FindTypeMapping(key string) (TypeMapping, bool) {
	for _, mapping := range c.Types.Mappings {
		if mapping.MatchesField(key) {
			return mapping, true
		}
	}
	return TypeMapping{}, false
}

// Overrides carries command-line values. Zero values leave the file setting
// untouched.
type Overrides struct {
	Package  string
	RootName string
	Format   string
	Strict   bool
	Debug    bool
}

// LoadConfigWithCLI loads the config file at configPath, if any, and applies
// command-line overrides on top of it.
func LoadConfigWithCLI(configPath string, o Overrides) (*Config, error) {
	cfg := NewConfig()
	if configPath != "" {
		fileConfig, err := LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = fileConfig
	}

	if o.Package != "" {
		cfg.Package = o.Package
	}
	if o.RootName != "" {
		cfg.RootName = o.RootName
	}
	if o.Format != "" {
		cfg.Output.Format = o.Format
	}
	cfg.Decoding.Strict = cfg.Decoding.Strict || o.Strict
	cfg.Dev.Debug = cfg.Dev.Debug || o.Debug

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
