package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is where uprez looks for its configuration by default.
const DefaultConfigPath = ".uprez/config.yaml"

// Config is the immutable configuration for a uprez run. It is constructed
// once in cmd and passed into components; nothing reads it ambiently.
type Config struct {
	Paths    PathsConfig    `yaml:"paths" mapstructure:"paths"`
	Scaling  ScalingConfig  `yaml:"scaling" mapstructure:"scaling"`
	Database DatabaseConfig `yaml:"database" mapstructure:"database"`
	Images   ImagesConfig   `yaml:"images" mapstructure:"images"`
	API      APIConfig      `yaml:"api" mapstructure:"api"`
}

// PathsConfig contains directory settings shared by all commands.
type PathsConfig struct {
	LogDir   string `yaml:"log_dir" mapstructure:"log_dir"`
	ErrorDir string `yaml:"error_dir" mapstructure:"error_dir"`
}

// ScalingConfig contains settings for the text scaling passes.
type ScalingConfig struct {
	Extension string `yaml:"extension" mapstructure:"extension"`
	Workers   int    `yaml:"workers" mapstructure:"workers"`
}

// DatabaseConfig contains the scaling-factor store settings.
type DatabaseConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// ImagesConfig contains settings for the image conversion pipeline.
type ImagesConfig struct {
	TexconvPath    string   `yaml:"texconv_path" mapstructure:"texconv_path"`
	TexconvOptions []string `yaml:"texconv_options" mapstructure:"texconv_options"`
}

// APIConfig contains credentials and models for the hosted collaborators.
type APIConfig struct {
	OpenRouter OpenRouterConfig `yaml:"openrouter" mapstructure:"openrouter"`
	Replicate  ReplicateConfig  `yaml:"replicate" mapstructure:"replicate"`
}

// OpenRouterConfig contains OpenRouter completion settings.
type OpenRouterConfig struct {
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	APIKey  string `yaml:"api_key" mapstructure:"api_key"`
	Model   string `yaml:"model" mapstructure:"model"`
}

// ReplicateConfig contains Replicate upscaling settings.
type ReplicateConfig struct {
	Token string `yaml:"token" mapstructure:"token"`
	Model string `yaml:"model" mapstructure:"model"`
}

// DefaultConfig returns the configuration used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		Paths: PathsConfig{
			LogDir:   ".uprez/logs",
			ErrorDir: ".uprez/errors",
		},
		Scaling: ScalingConfig{
			Extension: "gui",
			Workers:   runtime.NumCPU(),
		},
		Database: DatabaseConfig{
			Path: ".uprez/factors.db",
		},
		Images: ImagesConfig{
			TexconvPath:    "texconv",
			TexconvOptions: []string{"-y", "-m", "1"},
		},
		API: APIConfig{
			OpenRouter: OpenRouterConfig{
				BaseURL: "https://openrouter.ai/api/v1",
				Model:   "anthropic/claude-3.5-sonnet",
			},
			Replicate: ReplicateConfig{
				Model: "nightmareai/real-esrgan",
			},
		},
	}
}

// Load reads configuration from the given path (or DefaultConfigPath when
// empty), layering UPREZ_* environment variables and the collaborator
// credential variables on top. A missing file is not an error; defaults
// apply.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = DefaultConfigPath
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix("UPREZ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Credentials come from the conventional variable names, not UPREZ_*.
	_ = v.BindEnv("api.openrouter.api_key", "OPENROUTER_API_KEY")
	_ = v.BindEnv("api.replicate.token", "REPLICATE_API_TOKEN")

	if _, err := os.Stat(configPath); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}
	return &cfg, nil
}

// Save writes the configuration to the given path, creating parent
// directories as needed.
func (c *Config) Save(configPath string) error {
	if configPath == "" {
		configPath = DefaultConfigPath
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to finalize config: %w", err)
	}

	if err := os.WriteFile(configPath, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("paths.log_dir", d.Paths.LogDir)
	v.SetDefault("paths.error_dir", d.Paths.ErrorDir)
	v.SetDefault("scaling.extension", d.Scaling.Extension)
	v.SetDefault("scaling.workers", d.Scaling.Workers)
	v.SetDefault("database.path", d.Database.Path)
	v.SetDefault("images.texconv_path", d.Images.TexconvPath)
	v.SetDefault("images.texconv_options", d.Images.TexconvOptions)
	v.SetDefault("api.openrouter.base_url", d.API.OpenRouter.BaseURL)
	v.SetDefault("api.openrouter.model", d.API.OpenRouter.Model)
	v.SetDefault("api.replicate.model", d.API.Replicate.Model)
}
