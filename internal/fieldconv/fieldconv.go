// Package fieldconv converts Go struct values to and from
// docstore.Document values using `noxdb` struct tags, the way the CLI's
// config layer converts JSON using `json` struct tags.
package fieldconv

import (
	"fmt"
	"reflect"

	"github.com/calvinalkan/noxdb/pkg/docstore"
)

// tagName is the struct tag fieldconv reads for a field's document name.
// A field without the tag, or tagged "-", is skipped.
const tagName = "noxdb"

// Wrap adapts any struct value with `noxdb`-tagged fields to
// docstore.Converter, so it can be passed directly to Database.Insert.
func Wrap(v any) docstore.Converter {
	return wrapped{v: v}
}

type wrapped struct{ v any }

func (w wrapped) ToDocument() (*docstore.Document, error) {
	return ToDocument(w.v)
}

// ToDocument converts v, a struct or pointer to struct, into a Document
// by reading its exported fields' `noxdb` tags and mapping each to a
// docstore.FieldType by the field's Go kind. Supported kinds: string,
// []byte, int8/16/32/64, uint8/16/32/64, float32/64, docstore.UUID.
func ToDocument(v any) (*docstore.Document, error) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil, fmt.Errorf("docstore: %w: nil pointer", docstore.ErrConversionFailed)
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, fmt.Errorf("docstore: %w: %s is not a struct", docstore.ErrConversionFailed, rv.Kind())
	}

	rt := rv.Type()
	fields := make([]docstore.Field, 0, rt.NumField())

	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}

		name, ok := sf.Tag.Lookup(tagName)
		if !ok || name == "-" {
			continue
		}

		fv := rv.Field(i)

		typ, val, err := fieldTypeOf(fv)
		if err != nil {
			return nil, fmt.Errorf("docstore: %w: field %q: %w", docstore.ErrConversionFailed, name, err)
		}

		fields = append(fields, docstore.Field{Name: name, Type: typ, Value: val})
	}

	return &docstore.Document{Fields: fields}, nil
}

// FromDocument populates the exported, `noxdb`-tagged fields of dst (a
// pointer to struct) from doc, matching fields by name.
func FromDocument(doc *docstore.Document, dst any) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("docstore: %w: dst must be a non-nil pointer", docstore.ErrConversionFailed)
	}
	rv = rv.Elem()
	if rv.Kind() != reflect.Struct {
		return fmt.Errorf("docstore: %w: dst must point to a struct", docstore.ErrConversionFailed)
	}

	byName := make(map[string]docstore.Field, len(doc.Fields))
	for _, f := range doc.Fields {
		byName[f.Name] = f
	}

	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}

		name, ok := sf.Tag.Lookup(tagName)
		if !ok || name == "-" {
			continue
		}

		f, found := byName[name]
		if !found {
			continue
		}

		fv := rv.Field(i)
		if err := setFieldValue(fv, f.Value); err != nil {
			return fmt.Errorf("docstore: %w: field %q: %w", docstore.ErrConversionFailed, name, err)
		}
	}

	return nil
}

func fieldTypeOf(fv reflect.Value) (docstore.FieldType, any, error) {
	switch fv.Kind() {
	case reflect.String:
		return docstore.FieldTypeText, fv.String(), nil
	case reflect.Slice:
		if fv.Type().Elem().Kind() == reflect.Uint8 {
			return docstore.FieldTypeBytes, fv.Bytes(), nil
		}
	case reflect.Int8:
		return docstore.FieldTypeInt8, int8(fv.Int()), nil
	case reflect.Int16:
		return docstore.FieldTypeInt16, int16(fv.Int()), nil
	case reflect.Int32:
		return docstore.FieldTypeInt32, int32(fv.Int()), nil
	case reflect.Int64, reflect.Int:
		return docstore.FieldTypeInt64, fv.Int(), nil
	case reflect.Uint8:
		return docstore.FieldTypeUint8, uint8(fv.Uint()), nil
	case reflect.Uint16:
		return docstore.FieldTypeUint16, uint16(fv.Uint()), nil
	case reflect.Uint32:
		return docstore.FieldTypeUint32, uint32(fv.Uint()), nil
	case reflect.Uint64, reflect.Uint:
		return docstore.FieldTypeUint64, fv.Uint(), nil
	case reflect.Float32:
		return docstore.FieldTypeFloat32, float32(fv.Float()), nil
	case reflect.Float64:
		return docstore.FieldTypeFloat64, fv.Float(), nil
	case reflect.Array:
		if u, ok := fv.Interface().(docstore.UUID); ok {
			return docstore.FieldTypeUUID, u, nil
		}
	}

	return 0, nil, fmt.Errorf("unsupported field kind %s", fv.Kind())
}

func setFieldValue(fv reflect.Value, v any) error {
	switch x := v.(type) {
	case string:
		fv.SetString(x)
	case []byte:
		fv.SetBytes(x)
	case int8:
		fv.SetInt(int64(x))
	case int16:
		fv.SetInt(int64(x))
	case int32:
		fv.SetInt(int64(x))
	case int64:
		fv.SetInt(x)
	case uint8:
		fv.SetUint(uint64(x))
	case uint16:
		fv.SetUint(uint64(x))
	case uint32:
		fv.SetUint(uint64(x))
	case uint64:
		fv.SetUint(x)
	case float32:
		fv.SetFloat(float64(x))
	case float64:
		fv.SetFloat(x)
	case docstore.UUID:
		fv.Set(reflect.ValueOf(x))
	default:
		return fmt.Errorf("unsupported value type %T", v)
	}
	return nil
}
