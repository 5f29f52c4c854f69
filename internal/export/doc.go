// Package export turns a loaded scan into a downloadable document.
//
// An Emitter checks that the scan and its project are resolved, builds the
// document fields in a fixed order (username, project, timestamp, then the
// formatted report) and hands them to a DocumentRenderer. Renderers exist
// for PDF, Markdown and plain text. The produced Document is named
// report-<scanID>.<ext> and can be stored with a Sink: a local directory or
// an S3-compatible bucket.
package export
