// Package schemas embeds the JSON Schemas for catalog files.
package schemas

import _ "embed"

// DatasetsSchemaJSON is the JSON Schema for datasets catalog files.
//
//go:embed datasets.schema.json
var DatasetsSchemaJSON string

// ModelsSchemaJSON is the JSON Schema for models catalog files.
//
//go:embed models.schema.json
var ModelsSchemaJSON string
