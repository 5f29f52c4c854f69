// Package log provides the application logger: standard slog output with
// credentials scrubbed before they reach the writer.
//
// The report service, the text generators and the object store all take
// secrets (API keys, S3 key pairs, proxy passwords). Any of them can end up
// in a log attribute when a request is traced in verbose mode. SecureHandler
// masks them by attribute key and by value shape.
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	logger.Debug("request", "url", u, "api_key", key) // api_key=***REDACTED***
//	slog.SetDefault(logger)
package log
