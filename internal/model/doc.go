// Package model defines the records exchanged with the scan-report service.
//
// This package contains the following main types:
//   - Project: A named collection of scans
//   - Scan: One vulnerability and language analysis run over a project
//   - ProjectRef: The project field of a scan, either a bare id or an embedded project
//   - ReportData: The structured payload of a scan
//
// Design decision: ReportData keeps its keys in the order they arrive on the
// wire. Go maps have no stable iteration order, so the nested objects are
// decoded into ordered slices instead of maps. Rendering code can then walk
// them without sorting and produce the same text for the same input.
//
// Decoding uses github.com/go-json-experiment/json, whose token-level decoder
// lets us read object members one by one.
package model
