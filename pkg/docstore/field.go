package docstore

import (
	"encoding/binary"
	"math"
	"unicode/utf8"
)

// FieldType tags the wire representation of a [Field] value. It is a
// closed set: every document field must carry exactly one of these tags,
// and the tag's numeric value is stored on disk, so the values below must
// never be renumbered.
type FieldType uint8

const (
	FieldTypeUUID FieldType = iota
	FieldTypeBytes
	FieldTypeText
	FieldTypeInt8
	FieldTypeInt16
	FieldTypeInt32
	FieldTypeInt64
	FieldTypeUint8
	FieldTypeUint16
	FieldTypeUint32
	FieldTypeUint64
	FieldTypeFloat32
	FieldTypeFloat64
)

// String returns the lowercase name used in schema files and error
// messages.
func (t FieldType) String() string {
	switch t {
	case FieldTypeUUID:
		return "uuid"
	case FieldTypeBytes:
		return "bytes"
	case FieldTypeText:
		return "text"
	case FieldTypeInt8:
		return "int8"
	case FieldTypeInt16:
		return "int16"
	case FieldTypeInt32:
		return "int32"
	case FieldTypeInt64:
		return "int64"
	case FieldTypeUint8:
		return "uint8"
	case FieldTypeUint16:
		return "uint16"
	case FieldTypeUint32:
		return "uint32"
	case FieldTypeUint64:
		return "uint64"
	case FieldTypeFloat32:
		return "float32"
	case FieldTypeFloat64:
		return "float64"
	default:
		return "unknown"
	}
}

// UUID is a 16-byte universally unique identifier field value. Kept as a
// plain array rather than pulling in a UUID library, since the only
// operations the store needs are byte-for-byte storage and comparison.
type UUID [16]byte

// encodeFieldValue serializes a Go value into its wire bytes for the
// given tag. It returns ok=false for a type/tag mismatch: decode and
// encode failures are values, not panics, so a single malformed field
// cannot take down a writer goroutine.
func encodeFieldValue(t FieldType, v any) (data []byte, ok bool) {
	switch t {
	case FieldTypeUUID:
		u, ok := v.(UUID)
		if !ok {
			return nil, false
		}
		return append([]byte(nil), u[:]...), true
	case FieldTypeBytes:
		b, ok := v.([]byte)
		if !ok {
			return nil, false
		}
		return append([]byte(nil), b...), true
	case FieldTypeText:
		s, ok := v.(string)
		if !ok {
			return nil, false
		}
		return []byte(s), true
	case FieldTypeInt8:
		n, ok := v.(int8)
		if !ok {
			return nil, false
		}
		return []byte{byte(n)}, true
	case FieldTypeUint8:
		n, ok := v.(uint8)
		if !ok {
			return nil, false
		}
		return []byte{n}, true
	case FieldTypeInt16:
		n, ok := v.(int16)
		if !ok {
			return nil, false
		}
		buf := make([]byte, 2)
		binary.LittleEndian.PutUint16(buf, uint16(n))
		return buf, true
	case FieldTypeUint16:
		n, ok := v.(uint16)
		if !ok {
			return nil, false
		}
		buf := make([]byte, 2)
		binary.LittleEndian.PutUint16(buf, n)
		return buf, true
	case FieldTypeInt32:
		n, ok := v.(int32)
		if !ok {
			return nil, false
		}
		buf := make([]byte, 4)
		binary.LittleEndian.PutUint32(buf, uint32(n))
		return buf, true
	case FieldTypeUint32:
		n, ok := v.(uint32)
		if !ok {
			return nil, false
		}
		buf := make([]byte, 4)
		binary.LittleEndian.PutUint32(buf, n)
		return buf, true
	case FieldTypeInt64:
		n, ok := v.(int64)
		if !ok {
			return nil, false
		}
		buf := make([]byte, 8)
		binary.LittleEndian.PutUint64(buf, uint64(n))
		return buf, true
	case FieldTypeUint64:
		n, ok := v.(uint64)
		if !ok {
			return nil, false
		}
		buf := make([]byte, 8)
		binary.LittleEndian.PutUint64(buf, n)
		return buf, true
	case FieldTypeFloat32:
		f, ok := v.(float32)
		if !ok {
			return nil, false
		}
		buf := make([]byte, 4)
		binary.LittleEndian.PutUint32(buf, math.Float32bits(f))
		return buf, true
	case FieldTypeFloat64:
		f, ok := v.(float64)
		if !ok {
			return nil, false
		}
		buf := make([]byte, 8)
		binary.LittleEndian.PutUint64(buf, math.Float64bits(f))
		return buf, true
	default:
		return nil, false
	}
}

// decodeFieldValue parses wire bytes back into a Go value for the given
// tag. ok=false signals malformed input (wrong length, invalid UTF-8),
// never a panic.
func decodeFieldValue(t FieldType, data []byte) (v any, ok bool) {
	switch t {
	case FieldTypeUUID:
		if len(data) != 16 {
			return nil, false
		}
		var u UUID
		copy(u[:], data)
		return u, true
	case FieldTypeBytes:
		return append([]byte(nil), data...), true
	case FieldTypeText:
		if !utf8.Valid(data) {
			return nil, false
		}
		return string(data), true
	case FieldTypeInt8:
		if len(data) != 1 {
			return nil, false
		}
		return int8(data[0]), true
	case FieldTypeUint8:
		if len(data) != 1 {
			return nil, false
		}
		return data[0], true
	case FieldTypeInt16:
		if len(data) != 2 {
			return nil, false
		}
		return int16(binary.LittleEndian.Uint16(data)), true
	case FieldTypeUint16:
		if len(data) != 2 {
			return nil, false
		}
		return binary.LittleEndian.Uint16(data), true
	case FieldTypeInt32:
		if len(data) != 4 {
			return nil, false
		}
		return int32(binary.LittleEndian.Uint32(data)), true
	case FieldTypeUint32:
		if len(data) != 4 {
			return nil, false
		}
		return binary.LittleEndian.Uint32(data), true
	case FieldTypeInt64:
		if len(data) != 8 {
			return nil, false
		}
		return int64(binary.LittleEndian.Uint64(data)), true
	case FieldTypeUint64:
		if len(data) != 8 {
			return nil, false
		}
		return binary.LittleEndian.Uint64(data), true
	case FieldTypeFloat32:
		if len(data) != 4 {
			return nil, false
		}
		return math.Float32frombits(binary.LittleEndian.Uint32(data)), true
	case FieldTypeFloat64:
		if len(data) != 8 {
			return nil, false
		}
		return math.Float64frombits(binary.LittleEndian.Uint64(data)), true
	default:
		return nil, false
	}
}

// Field is a single named, typed value within a [Document].
type Field struct {
	Name  string
	Type  FieldType
	Value any
}

// FieldDescriptor is a bucket schema entry: one declared field name and
// its type. A bucket's schema is an ordered list of these.
type FieldDescriptor struct {
	Name string
	Type FieldType
}
