// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/H0llyW00dzZ/functions-template-server/src/internal/retrieval"
	"github.com/H0llyW00dzZ/functions-template-server/src/logger"
)

// Environment variables read by loadConfig.
const (
	envConfigFile   = "MCP_TEMPLATES_CONFIG_FILE"
	envTemplateRoot = "MCP_TEMPLATES_ROOT"
	envMaxFileSize  = "MCP_TEMPLATES_MAX_FILE_SIZE"
	envLogLevel     = "MCP_TEMPLATES_LOG_LEVEL"
	envJavaVersion  = "MCP_TEMPLATES_JAVA_VERSION"
	envNodeVersion  = "MCP_TEMPLATES_NODE_VERSION"
)

// defaultTemplatesRoot is resolved against the working directory.
const defaultTemplatesRoot = "templates"

// dotEnvFile is loaded from the working directory when present. Variables
// already set in the process environment win.
const dotEnvFile = ".env"

// configFormat represents supported configuration file formats.
type configFormat int

const (
	// configFormatJSON represents JSON configuration format (.json)
	configFormatJSON configFormat = iota
	// configFormatYAML represents YAML configuration format (.yaml, .yml)
	configFormatYAML
)

// Config represents the MCP server configuration structure.
//
// The configuration can be loaded from a JSON or YAML file specified by the
// MCP_TEMPLATES_CONFIG_FILE environment variable or the --config flag, with
// defaults applied for any missing values.
// Supported file extensions: .json, .yaml, .yml
type Config struct {
	// Templates: Location and limits of the templates tree
	Templates struct {
		// Root: Directory laid out as <root>/<language>/<template>
		Root string `json:"root" yaml:"root"`
		// MaxFileSizeBytes: Largest file whose content is returned
		MaxFileSizeBytes int64 `json:"maxFileSizeBytes" yaml:"maxFileSizeBytes"`
		// StrictCatalog: Refuse to start when the catalog has violations,
		// instead of serving only the entries that validate
		StrictCatalog bool `json:"strictCatalog" yaml:"strictCatalog"`
	} `json:"templates" yaml:"templates"`

	// Runtime: Versions written into runtime placeholders when a request
	// does not name one
	Runtime struct {
		JavaVersion string `json:"javaVersion" yaml:"javaVersion"`
		NodeVersion string `json:"nodeVersion" yaml:"nodeVersion"`
	} `json:"runtime" yaml:"runtime"`

	// Logging: Diagnostics written to stderr
	Logging struct {
		// Silent: Drop every log line
		Silent bool `json:"silent" yaml:"silent"`
		// Level: debug, info, warn or error
		Level string `json:"level" yaml:"level"`
	} `json:"logging" yaml:"logging"`
}

// detectConfigFormat determines the configuration file format based on file extension.
// It uses case-insensitive extension matching; anything that is not .yaml or
// .yml is treated as JSON.
func detectConfigFormat(configPath string) configFormat {
	ext := strings.ToLower(filepath.Ext(configPath))
	switch ext {
	case ".yaml", ".yml":
		return configFormatYAML
	default:
		return configFormatJSON
	}
}

// unmarshalConfig unmarshals configuration data based on the specified format.
//
// Parameters:
//   - data: Raw configuration file contents
//   - config: Pointer to Config struct to populate
//   - format: The configuration format (configFormatJSON or configFormatYAML)
//
// Returns:
//   - error: Any parsing error encountered during unmarshaling
func unmarshalConfig(data []byte, config *Config, format configFormat) error {
	switch format {
	case configFormatYAML:
		if err := yaml.Unmarshal(data, config); err != nil {
			return fmt.Errorf("failed to parse YAML config file: %w", err)
		}
	default:
		if err := json.Unmarshal(data, config); err != nil {
			return fmt.Errorf("failed to parse JSON config file: %w", err)
		}
	}
	return nil
}

// defaultConfig returns the configuration used when nothing overrides it.
func defaultConfig() *Config {
	config := &Config{}
	config.Templates.Root = defaultTemplatesRoot
	config.Templates.MaxFileSizeBytes = retrieval.DefaultMaxFileSize
	config.Logging.Level = "info"
	return config
}

// loadConfig loads MCP server configuration from a JSON or YAML file or applies defaults.
//
// Parameters:
//   - configPath: Path to the configuration file (optional, can be empty)
//     Supported formats: .json, .yaml, .yml
//
// Returns:
//   - A pointer to the loaded Config struct with defaults applied
//   - An error if the configuration file cannot be read or parsed, or if an
//     environment override is malformed
//
// Configuration Priority:
//  1. Default values are set
//  2. A .env file in the working directory is loaded into the environment
//  3. MCP_TEMPLATES_CONFIG_FILE is checked if configPath is empty
//  4. Config file values override defaults
//  5. MCP_TEMPLATES_* environment variables override config file values
//
// The templates root is made absolute and cleaned before returning.
func loadConfig(configPath string) (*Config, error) {
	config := defaultConfig()

	if err := godotenv.Load(dotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", dotEnvFile, err)
	}

	// Check environment variable for config file path if not provided
	if configPath == "" {
		configPath = os.Getenv(envConfigFile)
	}

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		format := detectConfigFormat(configPath)
		if err := unmarshalConfig(data, config, format); err != nil {
			return nil, err
		}
	}

	if err := applyEnvOverrides(config); err != nil {
		return nil, err
	}

	if err := config.normalize(); err != nil {
		return nil, err
	}

	return config, nil
}

// applyEnvOverrides copies MCP_TEMPLATES_* variables over the config.
func applyEnvOverrides(config *Config) error {
	if v := os.Getenv(envTemplateRoot); v != "" {
		config.Templates.Root = v
	}
	if v := os.Getenv(envMaxFileSize); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", envMaxFileSize, v, err)
		}
		config.Templates.MaxFileSizeBytes = n
	}
	if v := os.Getenv(envLogLevel); v != "" {
		config.Logging.Level = v
	}
	if v := os.Getenv(envJavaVersion); v != "" {
		config.Runtime.JavaVersion = v
	}
	if v := os.Getenv(envNodeVersion); v != "" {
		config.Runtime.NodeVersion = v
	}
	return nil
}

// normalize fills invalid values with defaults and resolves the templates root.
func (c *Config) normalize() error {
	if c.Templates.MaxFileSizeBytes <= 0 {
		c.Templates.MaxFileSizeBytes = retrieval.DefaultMaxFileSize
	}
	if c.Templates.Root == "" {
		c.Templates.Root = defaultTemplatesRoot
	}
	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("invalid logging level: %w", err)
	}
	return c.SetTemplatesRoot(c.Templates.Root)
}

// SetTemplatesRoot replaces the templates root with its absolute, cleaned form.
func (c *Config) SetTemplatesRoot(root string) error {
	abs, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("failed to resolve templates root: %w", err)
	}
	c.Templates.Root = abs
	return nil
}

// LogLevel returns the parsed logging level, info when unset or invalid.
func (c *Config) LogLevel() logger.Level {
	l, _ := logger.ParseLevel(c.Logging.Level)
	return l
}
