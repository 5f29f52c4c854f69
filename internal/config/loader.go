package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".reportscope"

// OpenAIKeyEnv is read when the config file carries no OpenAI key.
const OpenAIKeyEnv = "OPENAI_API_KEY"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File represents the structure of the .reportscope configuration file.
// Every field is optional; unset fields keep the value already in Config.
type File struct {
	BaseURL       string      `yaml:"base_url,omitempty"`
	Timeout       string      `yaml:"timeout,omitempty"`
	Proxy         string      `yaml:"proxy,omitempty"`
	Routes        FileRoutes  `yaml:"routes,omitempty"`
	PlanURL       string      `yaml:"plan_url,omitempty"`
	SuggestionURL string      `yaml:"suggestion_url,omitempty"`
	Provider      string      `yaml:"provider,omitempty"`
	OpenAI        FileOpenAI  `yaml:"openai,omitempty"`
	Export        FileExport  `yaml:"export,omitempty"`
	Storage       FileStorage `yaml:"storage,omitempty"`
}

// FileRoutes is the routes section of the configuration file.
type FileRoutes struct {
	Projects string `yaml:"projects,omitempty"`
	Scan     string `yaml:"scan,omitempty"`
	Project  string `yaml:"project,omitempty"`
}

// FileOpenAI is the openai section of the configuration file.
type FileOpenAI struct {
	APIKey  string `yaml:"api_key,omitempty"`
	Model   string `yaml:"model,omitempty"`
	BaseURL string `yaml:"base_url,omitempty"`
}

// FileExport is the export section of the configuration file.
type FileExport struct {
	Dir         string `yaml:"dir,omitempty"`
	Format      string `yaml:"format,omitempty"`
	Concurrency int    `yaml:"concurrency,omitempty"`
}

// FileStorage is the storage section of the configuration file.
type FileStorage struct {
	Endpoint  string `yaml:"endpoint,omitempty"`
	Region    string `yaml:"region,omitempty"`
	Bucket    string `yaml:"bucket,omitempty"`
	AccessKey string `yaml:"access_key,omitempty"`
	SecretKey string `yaml:"secret_key,omitempty"`
	UseSSL    bool   `yaml:"use_ssl,omitempty"`
	Prefix    string `yaml:"prefix,omitempty"`
}

// LoadConfigFile loads a YAML configuration file.
// If the file does not exist, it returns ErrConfigNotFound.
// Callers should handle this error based on whether the path was
// explicitly specified by the user.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &cf, nil
}

// Apply copies every set field of the file into cfg.
func (cf *File) Apply(cfg *Config) error {
	setString(&cfg.BaseURL, cf.BaseURL)
	if cf.Timeout != "" {
		d, err := time.ParseDuration(cf.Timeout)
		if err != nil {
			return fmt.Errorf("invalid timeout %q: %w", cf.Timeout, err)
		}
		cfg.Timeout = d
	}
	setString(&cfg.Proxy, cf.Proxy)

	setString(&cfg.Routes.Projects, cf.Routes.Projects)
	setString(&cfg.Routes.Scan, cf.Routes.Scan)
	setString(&cfg.Routes.Project, cf.Routes.Project)

	setString(&cfg.PlanURL, cf.PlanURL)
	setString(&cfg.SuggestionURL, cf.SuggestionURL)
	setString(&cfg.Provider, cf.Provider)

	setString(&cfg.OpenAI.APIKey, cf.OpenAI.APIKey)
	setString(&cfg.OpenAI.Model, cf.OpenAI.Model)
	setString(&cfg.OpenAI.BaseURL, cf.OpenAI.BaseURL)

	setString(&cfg.ExportDir, cf.Export.Dir)
	setString(&cfg.Format, cf.Export.Format)
	if cf.Export.Concurrency != 0 {
		cfg.Concurrency = cf.Export.Concurrency
	}

	setString(&cfg.Storage.Endpoint, cf.Storage.Endpoint)
	setString(&cfg.Storage.Region, cf.Storage.Region)
	setString(&cfg.Storage.Bucket, cf.Storage.Bucket)
	setString(&cfg.Storage.AccessKey, cf.Storage.AccessKey)
	setString(&cfg.Storage.SecretKey, cf.Storage.SecretKey)
	setString(&cfg.Storage.Prefix, cf.Storage.Prefix)
	if cf.Storage.UseSSL {
		cfg.Storage.UseSSL = true
	}
	return nil
}

// ApplyEnv fills secrets that are missing from the file from the environment.
func ApplyEnv(cfg *Config, getenv func(string) string) {
	if cfg.OpenAI.APIKey == "" {
		cfg.OpenAI.APIKey = getenv(OpenAIKeyEnv)
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .reportscope in the current directory
// 3. Look for .reportscope in the user's home directory
// 4. Look for config.yaml in the XDG config directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	candidates := make([]string, 0, 3)
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, DefaultConfigFile))
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, DefaultConfigFile))
	}
	candidates = append(candidates, filepath.Join(XDGConfigDir(), "config.yaml"))

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}
