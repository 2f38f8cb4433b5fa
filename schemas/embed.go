// Package schemas holds the JSON Schemas shipped with the binary.
package schemas

import _ "embed"

// Resume is the JSON Schema for a canonical resume document
//
//go:embed resume.schema.json
var Resume string
