// Package schemas holds the JSON Schemas for documents the tool writes.
package schemas

import "embed"

// Comparison and Analysis name the schema files in FS.
const (
	Comparison = "comparison.schema.json"
	Analysis   = "analysis.schema.json"
)

// FS contains every *.schema.json file in this directory.
//
//go:embed *.schema.json
var FS embed.FS
