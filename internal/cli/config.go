package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	semver "github.com/Masterminds/semver/v3"
	"github.com/ramen-lang/ramen/internal/codegen"
	"github.com/ramen-lang/ramen/internal/lexer"
)

// ConfigFileName is looked up in the project directory.
const ConfigFileName = "ramen.json"

// Environment overrides.
const (
	EnvNekoHome = "RAMEN_NEKO_HOME"
	EnvVerbose  = "RAMEN_VERBOSE"
)

// Config represents a project's ramen.json.
type Config struct {
	Name        string   `json:"name,omitempty"`
	Version     string   `json:"version,omitempty"`      // project version, semver
	NekoHome    string   `json:"neko_home,omitempty"`    // directory holding nekoc and neko
	NekoVersion string   `json:"neko_version,omitempty"` // semver constraint on the VM
	Prelude     []string `json:"prelude,omitempty"`      // Neko files placed before the program
	Entry       string   `json:"entry,omitempty"`
	Output      string   `json:"output,omitempty"` // output directory
	Verbose     bool     `json:"verbose"`
	Debug       bool     `json:"debug"`

	dir string
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{Entry: codegen.DefaultEntry, dir: "."}
}

// LoadConfig loads configuration from file. A missing file yields the
// defaults. Environment overrides are applied last.
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if configPath != "" {
		config.dir = filepath.Dir(configPath)

		data, err := os.ReadFile(configPath)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		default:
			if err := json.Unmarshal(data, config); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	if err := config.applyEnv(); err != nil {
		return nil, err
	}
	if config.Entry == "" {
		config.Entry = codegen.DefaultEntry
	}
	if err := config.Validate(); err != nil {
		if configPath != "" {
			err = fmt.Errorf("%s: %w", configPath, err)
		}
		return nil, err
	}
	return config, nil
}

// LoadProjectConfig loads ramen.json from a project directory.
func LoadProjectConfig(projectDir string) (*Config, error) {
	return LoadConfig(filepath.Join(projectDir, ConfigFileName))
}

func (c *Config) applyEnv() error {
	if home := os.Getenv(EnvNekoHome); home != "" {
		c.NekoHome = home
	}
	if v := os.Getenv(EnvVerbose); v != "" {
		verbose, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s value %q: %w", EnvVerbose, v, err)
		}
		c.Verbose = verbose
	}
	return nil
}

// Validate checks the version fields and the entry point name.
func (c *Config) Validate() error {
	if c.Version != "" {
		if _, err := semver.NewVersion(c.Version); err != nil {
			return fmt.Errorf("invalid version %q: %w", c.Version, err)
		}
	}
	if c.NekoVersion != "" {
		if _, err := semver.NewConstraint(c.NekoVersion); err != nil {
			return fmt.Errorf("invalid neko_version %q: %w", c.NekoVersion, err)
		}
	}
	if !isIdentifier(c.Entry) {
		return fmt.Errorf("invalid entry %q: not an identifier", c.Entry)
	}
	return nil
}

// isIdentifier reports whether s lexes as a single non-keyword identifier.
func isIdentifier(s string) bool {
	tokens, err := lexer.Tokenize(s)
	return err == nil && len(tokens) == 2 && tokens[0].Type == lexer.TokenIdentifier && tokens[0].Literal == s
}

// PreludePaths returns the prelude files resolved against the config file's
// directory.
func (c *Config) PreludePaths() []string {
	paths := make([]string, len(c.Prelude))
	for i, p := range c.Prelude {
		if filepath.IsAbs(p) || c.dir == "" {
			paths[i] = p
		} else {
			paths[i] = filepath.Join(c.dir, p)
		}
	}
	return paths
}

// OutputDir returns the output directory resolved against the config file's
// directory, or "" for the current directory.
func (c *Config) OutputDir() string {
	if c.Output == "" || filepath.IsAbs(c.Output) || c.dir == "" {
		return c.Output
	}
	return filepath.Join(c.dir, c.Output)
}

// SaveConfig saves configuration to file
func (c *Config) SaveConfig(configPath string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
