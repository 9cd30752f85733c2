// Package schemafile loads a bucket's BucketDescription from a
// JSONC file, using the same hujson-then-json-unmarshal pipeline as
// internal/config.
package schemafile

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tailscale/hujson"

	"github.com/calvinalkan/noxdb/pkg/docstore"
)

// fieldSpec is the JSON shape of one schema field entry.
type fieldSpec struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// document is the JSON shape of an entire schema file.
type document struct {
	Name   string      `json:"name"`
	Fields []fieldSpec `json:"fields"`
}

var nameToType = map[string]docstore.FieldType{
	"uuid":    docstore.FieldTypeUUID,
	"bytes":   docstore.FieldTypeBytes,
	"text":    docstore.FieldTypeText,
	"int8":    docstore.FieldTypeInt8,
	"int16":   docstore.FieldTypeInt16,
	"int32":   docstore.FieldTypeInt32,
	"int64":   docstore.FieldTypeInt64,
	"uint8":   docstore.FieldTypeUint8,
	"uint16":  docstore.FieldTypeUint16,
	"uint32":  docstore.FieldTypeUint32,
	"uint64":  docstore.FieldTypeUint64,
	"float32": docstore.FieldTypeFloat32,
	"float64": docstore.FieldTypeFloat64,
}

// Load reads and parses a schema file at path into a BucketDescription.
func Load(path string) (*docstore.BucketDescription, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema %s: %w", path, err)
	}

	standardized, err := hujson.Standardize(data)
	if err != nil {
		return nil, fmt.Errorf("invalid JSONC in %s: %w", path, err)
	}

	var doc document
	if err := json.Unmarshal(standardized, &doc); err != nil {
		return nil, fmt.Errorf("invalid schema in %s: %w", path, err)
	}

	fields := make([]docstore.FieldDescriptor, 0, len(doc.Fields))
	for _, fs := range doc.Fields {
		t, ok := nameToType[fs.Type]
		if !ok {
			return nil, fmt.Errorf("schema %s: field %q has unknown type %q", path, fs.Name, fs.Type)
		}
		fields = append(fields, docstore.FieldDescriptor{Name: fs.Name, Type: t})
	}

	return &docstore.BucketDescription{Name: doc.Name, Fields: fields}, nil
}
