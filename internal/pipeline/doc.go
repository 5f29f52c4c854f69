// Package pipeline exports scans through a fixed sequence of steps:
// load the scan detail, render the document, store it.
//
// A Pipeline handles one scan. BatchProcessor runs many pipelines with
// bounded concurrency so a whole project can be exported in one go; a
// failing scan is recorded in its Job and does not stop the others.
package pipeline
