package config

import (
	"net/url"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "reportscope"

	// DefaultBaseURL is the report service address of a local setup.
	DefaultBaseURL = "http://localhost:3000"

	// DefaultTimeout bounds each HTTP request. The service answers from a
	// database, so 30 seconds leaves room for slow report queries.
	DefaultTimeout = 30 * time.Second

	// DefaultProjectsRoute lists all projects.
	DefaultProjectsRoute = "/projects"

	// DefaultScanRoute fetches one scan.
	DefaultScanRoute = "/scan/{id}"

	// DefaultProjectRoute fetches one project.
	DefaultProjectRoute = "/project/{id}"

	// DefaultPlanURL is the learning-plan service endpoint.
	DefaultPlanURL = "http://localhost:4000/api/generate-learning-plan"

	// DefaultSuggestionURL is the pedagogy-suggestion service endpoint.
	DefaultSuggestionURL = "http://localhost:5000/generate-suggestion"

	// DefaultFormat is the export document format.
	DefaultFormat = "pdf"

	// DefaultConcurrency is the number of scans exported at once by --all.
	// Kept low so a project export does not flood the service.
	DefaultConcurrency = 4

	// DefaultProvider answers generator requests through the product services.
	DefaultProvider = "remote"

	// DefaultOpenAIModel is the chat model used by the openai provider.
	DefaultOpenAIModel = "gpt-4o-mini"
)

// validFormats lists the accepted export format names.
var validFormats = []string{"pdf", "markdown", "md", "text", "txt"}

// Routes holds the path templates of the report service.
type Routes struct {
	Projects string
	Scan     string
	Project  string
}

// OpenAI configures the openai generator provider.
type OpenAI struct {
	APIKey  string
	Model   string
	BaseURL string
}

// Storage configures the S3-compatible export sink.
// Object storage is used only when Bucket is set.
type Storage struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Prefix    string
}

// Enabled reports whether exports go to object storage.
func (s Storage) Enabled() bool {
	return s.Bucket != ""
}

// Config holds all configuration options for reportscope.
// It is populated from defaults, the config file and CLI flags, in that
// order, and passed down explicitly.
type Config struct {
	// BaseURL is the root of the report service.
	BaseURL string

	// Routes are the service path templates, relative to BaseURL.
	Routes Routes

	// Timeout bounds each HTTP request.
	Timeout time.Duration

	// Proxy is an optional http, https or socks5 proxy URL.
	Proxy string

	// PlanURL and SuggestionURL are the generator service endpoints.
	PlanURL       string
	SuggestionURL string

	// Provider selects the generator: "remote" or "openai".
	Provider string

	// OpenAI configures the openai provider.
	OpenAI OpenAI

	// ExportDir is where exported documents are written.
	// Defaults to the user's download directory.
	ExportDir string

	// Format is the export document format.
	Format string

	// Concurrency is the number of scans exported in parallel by --all.
	Concurrency int

	// Storage configures uploads to object storage instead of ExportDir.
	Storage Storage

	// Verbose enables debug logging.
	Verbose bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches the usual locations, see FindConfigFile.
	ConfigFilePath string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		BaseURL: DefaultBaseURL,
		Routes: Routes{
			Projects: DefaultProjectsRoute,
			Scan:     DefaultScanRoute,
			Project:  DefaultProjectRoute,
		},
		Timeout:       DefaultTimeout,
		PlanURL:       DefaultPlanURL,
		SuggestionURL: DefaultSuggestionURL,
		Provider:      DefaultProvider,
		OpenAI:        OpenAI{Model: DefaultOpenAIModel},
		ExportDir:     DefaultExportDir(),
		Format:        DefaultFormat,
		Concurrency:   DefaultConcurrency,
	}
}

// DefaultExportDir returns the user's download directory, falling back to
// the XDG data directory when the platform reports none.
func DefaultExportDir() string {
	if xdg.UserDirs.Download != "" {
		return xdg.UserDirs.Download
	}
	return filepath.Join(XDGDataDir(), "exports")
}

// XDGDataDir returns the XDG data directory for reportscope.
// On Linux: ~/.local/share/reportscope
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for reportscope.
// On Linux: ~/.config/reportscope
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first problem found.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.BaseURL) == "" {
		return ErrNoBaseURL
	}
	if !isHTTPURL(c.BaseURL) {
		return ErrInvalidBaseURL
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if !strings.Contains(c.Routes.Scan, "{id}") || !strings.Contains(c.Routes.Project, "{id}") {
		return ErrInvalidRoute
	}

	if !slices.Contains(validFormats, strings.ToLower(c.Format)) {
		return ErrInvalidFormat
	}

	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}

	switch c.Provider {
	case "remote":
	case "openai":
		if c.OpenAI.APIKey == "" {
			return ErrMissingAPIKey
		}
	default:
		return ErrInvalidProvider
	}

	if (c.Storage.Bucket == "") != (c.Storage.Endpoint == "") {
		return ErrIncompleteStorage
	}

	return nil
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
