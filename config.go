package tex2html

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
)

// maxConfigSize limits config input to prevent memory exhaustion.
const maxConfigSize = 1 << 20

// Config holds file-based configuration for the exporter CLI.
type Config struct {
	Converter ConverterConfig `yaml:"converter"`
	Chunking  ChunkingConfig  `yaml:"chunking"`
	Output    OutputConfig    `yaml:"output"`
}

// ConverterConfig selects the external converter backend.
type ConverterConfig struct {
	Command string `yaml:"command"` // converter binary (default "pandoc")
	Args    string `yaml:"args"`    // default flags, e.g. "--standalone --mathjax"
}

// ChunkingConfig tunes the chunked pipeline.
type ChunkingConfig struct {
	MaxChunkSize int `yaml:"maxChunkSize"` // size-based split threshold in bytes
	TimeoutMS    int `yaml:"timeoutMs"`    // per-chunk conversion timeout
	DelayMS      int `yaml:"delayMs"`      // pause between chunks
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // empty = same directory as source
	PDF        bool   `yaml:"pdf"`        // also render a PDF next to the HTML
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Converter: ConverterConfig{
			Command: "pandoc",
			Args:    "--standalone --mathjax",
		},
		Chunking: ChunkingConfig{
			MaxChunkSize: defaultMaxChunkSize,
			TimeoutMS:    int(defaultChunkTimeout / time.Millisecond),
			DelayMS:      int(defaultChunkDelay / time.Millisecond),
		},
	}
}

// ServiceOptions translates the config into Service options.
func (c *Config) ServiceOptions() []Option {
	var opts []Option
	if c.Chunking.MaxChunkSize > 0 {
		opts = append(opts, WithMaxChunkSize(c.Chunking.MaxChunkSize))
	}
	if c.Chunking.TimeoutMS > 0 {
		opts = append(opts, WithChunkTimeout(time.Duration(c.Chunking.TimeoutMS)*time.Millisecond))
	}
	opts = append(opts, WithChunkDelay(time.Duration(c.Chunking.DelayMS)*time.Millisecond))
	return opts
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise it's treated as a config name and searched in standard locations.
// Returns an error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !isFilePath(nameOrPath) {
		resolved, err := resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
		configPath = resolved
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if len(data) > maxConfigSize {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrConfigParse, len(data), maxConfigSize)
	}

	cfg := DefaultConfig()
	if err := yaml.UnmarshalWithOptions(data, cfg, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}
	return cfg, nil
}

// isFilePath returns true if the string looks like a file path.
func isFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, <UserConfigDir>/tex2html/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	var tried []string

	for _, ext := range extensions {
		localPath := name + ext
		if fileExists(localPath) {
			return localPath, nil
		}
		tried = append(tried, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "tex2html", name+ext)
			if fileExists(userPath) {
				return userPath, nil
			}
			tried = append(tried, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(tried, ", "))
}

// fileExists reports whether path exists and is a regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
