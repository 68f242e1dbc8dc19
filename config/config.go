// Package config loads the optional per-project docs.config file.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/hashicorp/hcl/v2/hclsimple"
	"gopkg.in/yaml.v3"
)

// BaseName is the file name looked up in the project root, without
// extension.
const BaseName = "docs.config"

// Extensions lists the accepted config formats in lookup order.
var Extensions = []string{".json", ".yaml", ".yml", ".toml", ".hcl"}

// Config is the parsed project configuration. Every field is optional;
// command-line flags take precedence over it.
type Config struct {
	// ModuleIDOverrides maps a root-relative path, with extension, to the
	// module id to emit for it.
	ModuleIDOverrides map[string]string `json:"moduleIdOverrides" yaml:"moduleIdOverrides" toml:"moduleIdOverrides" hcl:"moduleIdOverrides,optional"`

	Src              string `json:"src" yaml:"src" toml:"src" hcl:"src,optional"`
	Types            string `json:"types" yaml:"types" toml:"types" hcl:"types,optional"`
	Out              string `json:"out" yaml:"out" toml:"out" hcl:"out,optional"`
	GeneratorVersion string `json:"generatorVersion" yaml:"generatorVersion" toml:"generatorVersion" hcl:"generatorVersion,optional"`
	Cache            string `json:"cache" yaml:"cache" toml:"cache" hcl:"cache,optional"`
	FailOnWarning    *bool  `json:"failOnWarning" yaml:"failOnWarning" toml:"failOnWarning" hcl:"failOnWarning,optional"`

	// Path is the file the config was read from, empty when none exists.
	Path string `json:"-" yaml:"-" toml:"-"`
}

// Load reads the first docs.config file found in root. A project without one
// gets an empty Config and no error.
func Load(root string) (*Config, error) {
	for _, ext := range Extensions {
		path := filepath.Join(root, BaseName+ext)
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}

		cfg, err := Parse(path, data)
		if err != nil {
			return nil, err
		}
		cfg.Path = path
		return cfg, nil
	}
	return &Config{}, nil
}

// Parse decodes data in the format given by the extension of path.
func Parse(path string, data []byte) (*Config, error) {
	var cfg Config
	var err error

	switch ext := filepath.Ext(path); ext {
	case ".json":
		err = json.Unmarshal(data, &cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	case ".toml":
		_, err = toml.Decode(string(data), &cfg)
	case ".hcl":
		err = hclsimple.Decode(filepath.Base(path), data, nil, &cfg)
	default:
		return nil, fmt.Errorf("%s: unsupported config format %q", path, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse config: %w", path, err)
	}

	if cfg.ModuleIDOverrides == nil {
		cfg.ModuleIDOverrides = map[string]string{}
	}
	return &cfg, nil
}
