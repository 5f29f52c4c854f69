// Package format renders a scan's structured report as flat, human-readable text.
//
// The output lists vulnerabilities grouped by type and file, followed by the
// language statistics:
//
//	Vulnerabilities:
//	SQL_INJECTION:
//	  Path: db/query.py
//	  Instances: line 12, line 40
//
//	Language Statistics:
//	Python: 60.50%
//
// Groups appear in the order the service sent them. Rendering is pure: the same
// report always produces the same text and the input is never modified.
package format
