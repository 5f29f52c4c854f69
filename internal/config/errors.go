package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() so callers can use
// errors.Is() while users still get a readable message.
var (
	// ErrNoBaseURL is returned when the report service URL is empty.
	ErrNoBaseURL = errors.New("no base URL: set base_url in the config file or use --base-url")

	// ErrInvalidBaseURL is returned when the base URL is not an absolute http(s) URL.
	ErrInvalidBaseURL = errors.New("invalid base URL: must be an absolute http or https URL")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	// A timeout of zero would disable the deadline on every request.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidRoute is returned when a scan or project route lacks the {id} placeholder.
	ErrInvalidRoute = errors.New("invalid route: scan and project routes must contain {id}")

	// ErrInvalidFormat is returned for an unsupported export format.
	ErrInvalidFormat = errors.New("invalid export format: must be pdf, markdown or text")

	// ErrInvalidConcurrency is returned when the batch export concurrency is not positive.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrInvalidProvider is returned for an unknown generator provider.
	ErrInvalidProvider = errors.New("invalid generator provider: must be remote or openai")

	// ErrMissingAPIKey is returned when the openai provider is selected without a key.
	ErrMissingAPIKey = errors.New("openai provider requires an API key: set openai.api_key or OPENAI_API_KEY")

	// ErrIncompleteStorage is returned when object storage is partly configured.
	// Both an endpoint and a bucket are needed.
	ErrIncompleteStorage = errors.New("incomplete object storage config: endpoint and bucket are both required")
)
