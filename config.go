package hxo

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
	"golang.org/x/text/language"
)

// ErrConfigValidation is returned when the configuration fails validation
var ErrConfigValidation = errors.New("configuration validation error")

// Target names an output artifact of the compiler.
type Target string

const (
	TargetJS      Target = "js"
	TargetSSR     Target = "ssr"
	TargetHydrate Target = "hydrate"
	TargetCSS     Target = "css"
	TargetDTS     Target = "dts"
)

// Targets lists every supported output target in emission order.
var Targets = []Target{TargetJS, TargetSSR, TargetHydrate, TargetCSS, TargetDTS}

// ParseTarget converts a target name to a Target.
func ParseTarget(name string) (Target, error) {
	t := Target(name)
	if !slices.Contains(Targets, t) {
		return "", fmt.Errorf("%w: %q (expected one of js, ssr, hydrate, css, dts)", ErrUnknownTarget, name)
	}

	return t, nil
}

// Config represents the hxo.yaml configuration
type Config struct {
	RuntimePath string     `yaml:"runtime_path"`
	Targets     []string   `yaml:"targets"`
	InputDir    string     `yaml:"input_dir"`
	OutputDir   string     `yaml:"output_dir"`
	MinifyCSS   bool       `yaml:"minify_css"`
	SourceMap   bool       `yaml:"source_map"`
	ScopeID     string     `yaml:"scope_id"`
	Production  bool       `yaml:"production"`
	I18n        I18nConfig `yaml:"i18n"`
}

// I18nConfig selects the locale tables compiled into components.
type I18nConfig struct {
	Locale   string   `yaml:"locale"`
	Fallback string   `yaml:"fallback"`
	Files    []string `yaml:"files"`
}

// ParsedTargets returns the configured targets as Target values.
func (c *Config) ParsedTargets() ([]Target, error) {
	result := make([]Target, 0, len(c.Targets))

	for _, name := range c.Targets {
		t, err := ParseTarget(name)
		if err != nil {
			return nil, err
		}

		result = append(result, t)
	}

	return result, nil
}

// Validate checks targets and locale tags.
func (c *Config) Validate() error {
	return validateConfig(c)
}

// LoadConfig loads configuration from the specified file.
// A missing file yields the default configuration.
func LoadConfig(configPath string) (*Config, error) {
	err := loadEnvFiles(filepath.Dir(configPath))
	if err != nil {
		return nil, fmt.Errorf("failed to load environment files: %w", err)
	}

	if !fileExists(configPath) {
		return getDefaultConfig(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	data = []byte(os.ExpandEnv(string(data)))

	// Strict mode rejects unknown keys
	var config Config

	err = yaml.UnmarshalWithOptions(data, &config, yaml.Strict())
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&config)

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	config.resolvePaths(filepath.Dir(configPath))

	return &config, nil
}

func validateConfig(config *Config) error {
	for _, name := range config.Targets {
		if _, err := ParseTarget(name); err != nil {
			return fmt.Errorf("%w: %w", ErrConfigValidation, err)
		}
	}

	for field, tag := range map[string]string{
		"i18n.locale":   config.I18n.Locale,
		"i18n.fallback": config.I18n.Fallback,
	} {
		if tag == "" {
			continue
		}

		if _, err := language.Parse(tag); err != nil {
			return fmt.Errorf("%w: %s has invalid locale %q", ErrConfigValidation, field, tag)
		}
	}

	return nil
}

// getDefaultConfig returns the default configuration
func getDefaultConfig() *Config {
	return &Config{
		RuntimePath: "@hxo",
		Targets:     []string{string(TargetJS)},
		InputDir:    ".",
		OutputDir:   "dist",
		SourceMap:   true,
	}
}

// applyDefaults applies default values to missing configuration fields
func applyDefaults(config *Config) {
	defaults := getDefaultConfig()

	if config.RuntimePath == "" {
		config.RuntimePath = defaults.RuntimePath
	}

	if len(config.Targets) == 0 {
		config.Targets = defaults.Targets
	}

	if config.InputDir == "" {
		config.InputDir = defaults.InputDir
	}

	if config.OutputDir == "" {
		config.OutputDir = defaults.OutputDir
	}
}

// resolvePaths makes locale file paths relative to the config directory.
func (c *Config) resolvePaths(base string) {
	for i, file := range c.I18n.Files {
		if !filepath.IsAbs(file) {
			c.I18n.Files[i] = filepath.Join(base, file)
		}
	}
}

// loadEnvFiles loads .env from the working directory and from dir.
// Variables already set are not overridden.
func loadEnvFiles(dir string) error {
	candidates := []string{".env"}
	if local := filepath.Join(dir, ".env"); filepath.Clean(local) != ".env" {
		candidates = append(candidates, local)
	}

	for _, path := range candidates {
		if !fileExists(path) {
			continue
		}

		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
	}

	return nil
}

// fileExists checks if a file exists
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
