// Package main provides the entry point for the reportscope CLI.
//
// reportscope browses the projects and scans stored by a vulnerability report
// service, prints scan reports as text and exports them as PDF, Markdown or
// plain text documents.
//
// Usage:
//
//	reportscope projects
//	reportscope show <scan-id>
//	reportscope export <scan-id>
//	reportscope export --project <project-id> --all
//	reportscope browse
//
// See --help for all available options.
package main

// main is the entry point for reportscope.
func main() {
	Execute()
}
