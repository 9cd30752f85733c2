package docstore

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Document_RoundTrips_Through_Encode_Decode(t *testing.T) {
	t.Parallel()

	doc := &Document{
		Fields: []Field{
			{Name: "first_name", Type: FieldTypeText, Value: "Ada"},
			{Name: "age", Type: FieldTypeUint8, Value: uint8(36)},
			{Name: "balance", Type: FieldTypeFloat64, Value: 42.5},
		},
	}

	encoded, err := encodeDocument(doc)
	require.NoError(t, err)

	decoded, err := decodeDocument(encoded)
	require.NoError(t, err)

	if diff := cmp.Diff(doc, decoded); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func Test_Document_Decode_Rejects_Truncated_Buffer(t *testing.T) {
	t.Parallel()

	_, err := decodeDocument([]byte{1, 2, 3})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCodecFailure)
}

func Test_BucketDescription_Validate_Rejects_Arity_Mismatch(t *testing.T) {
	t.Parallel()

	schema := &BucketDescription{
		Fields: []FieldDescriptor{
			{Name: "a", Type: FieldTypeText},
			{Name: "b", Type: FieldTypeText},
		},
	}
	doc := &Document{Fields: []Field{{Name: "a", Type: FieldTypeText, Value: "x"}}}

	err := schema.validate(doc)
	require.Error(t, err)

	var arityErr *SchemaArityError
	require.True(t, errors.As(err, &arityErr))
	assert.Equal(t, 2, arityErr.Expected)
	assert.Equal(t, 1, arityErr.Actual)
	assert.ErrorIs(t, err, ErrSchemaArity)
}

func Test_BucketDescription_Validate_Rejects_Unknown_Field(t *testing.T) {
	t.Parallel()

	schema := &BucketDescription{
		Fields: []FieldDescriptor{{Name: "a", Type: FieldTypeText}},
	}
	doc := &Document{Fields: []Field{{Name: "nope", Type: FieldTypeText, Value: "x"}}}

	err := schema.validate(doc)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSchemaFieldUnknown)
}

func Test_BucketDescription_Validate_Accepts_Out_Of_Order_Fields(t *testing.T) {
	t.Parallel()

	schema := &BucketDescription{
		Fields: []FieldDescriptor{
			{Name: "a", Type: FieldTypeText},
			{Name: "b", Type: FieldTypeInt64},
		},
	}
	doc := &Document{Fields: []Field{
		{Name: "b", Type: FieldTypeInt64, Value: int64(1)},
		{Name: "a", Type: FieldTypeText, Value: "x"},
	}}

	assert.NoError(t, schema.validate(doc))
}
