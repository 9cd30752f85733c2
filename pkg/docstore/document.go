package docstore

import (
	"encoding/binary"
	"fmt"
)

// Document is a self-describing record: each field carries its own name,
// type tag, and length, so a document can be decoded without consulting
// the bucket's schema. The schema is still checked against on insert (see
// [BucketDescription.validate]) to keep every document in a bucket
// structurally uniform.
type Document struct {
	Fields []Field
}

// BucketDescription is a bucket's schema: an ordered list of field
// descriptors every document inserted into the bucket must match by
// arity, name, and type.
type BucketDescription struct {
	Name   string
	Fields []FieldDescriptor
}

// validate checks a document's fields against the schema. Arity
// mismatches and unknown field names are reported as typed errors so
// callers can distinguish them with errors.Is; a name/type match in a
// different position is accepted, since a document is self-describing
// and field order carries no meaning.
func (b *BucketDescription) validate(doc *Document) error {
	if len(doc.Fields) != len(b.Fields) {
		return &SchemaArityError{Expected: len(b.Fields), Actual: len(doc.Fields)}
	}

	byName := make(map[string]FieldType, len(b.Fields))
	for _, fd := range b.Fields {
		byName[fd.Name] = fd.Type
	}

	for _, f := range doc.Fields {
		want, known := byName[f.Name]
		if !known {
			return &SchemaFieldUnknownError{Name: f.Name}
		}
		if want != f.Type {
			return &SchemaFieldUnknownError{Name: f.Name}
		}
	}

	return nil
}

// encodeDocument serializes a document into its on-disk record body:
// a uint32 field count, followed by each field as
// [nameLen uint8][name][typeTag uint8][valueLen uint32][value bytes].
//
// The body is NOT length-prefixed or padded here; [Bucket.Insert] adds
// the uint64 length prefix and pads the record to a multiple of 8 bytes.
func encodeDocument(doc *Document) ([]byte, error) {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, uint32(len(doc.Fields)))

	for _, f := range doc.Fields {
		if len(f.Name) > 255 {
			return nil, fmt.Errorf("docstore: %w: field name %q exceeds 255 bytes", ErrCodecFailure, f.Name)
		}

		data, ok := encodeFieldValue(f.Type, f.Value)
		if !ok {
			return nil, fmt.Errorf("docstore: %w: field %q does not match declared type %s", ErrCodecFailure, f.Name, f.Type)
		}

		buf = append(buf, byte(len(f.Name)))
		buf = append(buf, f.Name...)
		buf = append(buf, byte(f.Type))

		lenBuf := make([]byte, 4)
		binary.LittleEndian.PutUint32(lenBuf, uint32(len(data)))
		buf = append(buf, lenBuf...)
		buf = append(buf, data...)
	}

	return buf, nil
}

// decodeDocument parses a record body produced by [encodeDocument]. It
// never panics on malformed input: every length is bounds-checked and a
// short or truncated buffer yields [ErrCodecFailure].
func decodeDocument(buf []byte) (*Document, error) {
	if len(buf) < 4 {
		return nil, fmt.Errorf("docstore: %w: record shorter than field count header", ErrCodecFailure)
	}

	count := binary.LittleEndian.Uint32(buf)
	buf = buf[4:]

	fields := make([]Field, 0, min(count, uint32(len(buf))))

	for i := uint32(0); i < count; i++ {
		if len(buf) < 1 {
			return nil, fmt.Errorf("docstore: %w: truncated field name length", ErrCodecFailure)
		}
		nameLen := int(buf[0])
		buf = buf[1:]

		if len(buf) < nameLen+1+4 {
			return nil, fmt.Errorf("docstore: %w: truncated field header", ErrCodecFailure)
		}
		name := string(buf[:nameLen])
		buf = buf[nameLen:]

		typ := FieldType(buf[0])
		buf = buf[1:]

		valLen := binary.LittleEndian.Uint32(buf)
		buf = buf[4:]

		if uint32(len(buf)) < valLen {
			return nil, fmt.Errorf("docstore: %w: truncated field value", ErrCodecFailure)
		}
		valData := buf[:valLen]
		buf = buf[valLen:]

		val, ok := decodeFieldValue(typ, valData)
		if !ok {
			return nil, fmt.Errorf("docstore: %w: field %q has malformed value for type %s", ErrCodecFailure, name, typ)
		}

		fields = append(fields, Field{Name: name, Type: typ, Value: val})
	}

	return &Document{Fields: fields}, nil
}
