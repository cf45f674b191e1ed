// Package config loads autojinja settings.
//
// Values are layered, lowest precedence first: built-in defaults, the
// autojinja.yaml file, AUTOJINJA_* environment variables and explicitly set
// command-line flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/agentflare-ai/go-autojinja/internal/docstring"
)

const (
	// EnvPrefix prefixes environment overrides. Nested keys use a double
	// underscore, e.g. AUTOJINJA_DOCSTRING__USE_RTYPE.
	EnvPrefix = "AUTOJINJA_"

	DefaultBuilder      = "rst"
	DefaultSourceSuffix = ".rst"
)

// FileNames are searched in the working directory when no file is given.
var FileNames = []string{"autojinja.yaml", "autojinja.yml"}

// Config holds all settings.
type Config struct {
	TemplatePath string          `koanf:"template_path"`
	Builder      string          `koanf:"builder" validate:"required,oneof=rst markdown"`
	SourceSuffix string          `koanf:"source_suffix" validate:"required,startswith=."`
	Verbose      bool            `koanf:"verbose"`
	Docstring    DocstringConfig `koanf:"docstring"`

	// File is the config file that was read, empty when none was found.
	File string `koanf:"-"`
}

// DocstringConfig selects the field-list flavour of converted comments.
type DocstringConfig struct {
	UseParam   bool `koanf:"use_param"`
	UseRtype   bool `koanf:"use_rtype"`
	UseKeyword bool `koanf:"use_keyword"`
}

// Convert returns the equivalent docstring.Config.
func (d DocstringConfig) Convert() docstring.Config {
	return docstring.Config{UseParam: d.UseParam, UseRtype: d.UseRtype, UseKeyword: d.UseKeyword}
}

var validate = validator.New()

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func defaults() map[string]any {
	return map[string]any{
		"template_path":         "",
		"builder":               DefaultBuilder,
		"source_suffix":         DefaultSourceSuffix,
		"verbose":               false,
		"docstring.use_param":   true,
		"docstring.use_rtype":   true,
		"docstring.use_keyword": true,
	}
}

func findFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range FileNames {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// Load reads the configuration. cfgFile names an explicit file; flags may be
// nil. Only flags that were changed override other sources, and flag names are
// mapped from kebab-case to the snake_case keys above.
//
// A relative template_path read from the config file is resolved against the
// file's directory.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	used := findFile(cfgFile)
	var fileTemplatePath string
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", used, err)
		}
		fileTemplatePath = k.String("template_path")
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed || f.Name == "config" {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.File = used
	if used != "" && cfg.TemplatePath != "" && cfg.TemplatePath == fileTemplatePath && !filepath.IsAbs(cfg.TemplatePath) {
		cfg.TemplatePath = filepath.Join(filepath.Dir(used), cfg.TemplatePath)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
