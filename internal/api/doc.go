// Package api is the HTTP client for the scan-report service and the
// companion generator services.
//
// The report service exposes three read-only routes:
//
//	GET /projects        list of projects with their scan summaries
//	GET /scan/{id}       one scan, whose project may be a bare id
//	GET /project/{id}    one project
//
// Route templates are configurable because deployments differ in their
// prefixes. Every retrieval failure, whether a transport error, a non-2xx
// status or an undecodable body, is reported as a *FetchError that matches
// ErrFetch with errors.Is.
//
// Responses are decoded with github.com/go-json-experiment/json so that the
// object member order of report data survives decoding.
package api
