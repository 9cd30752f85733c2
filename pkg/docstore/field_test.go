package docstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_FieldValue_RoundTrips_For_Every_Type(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		typ  FieldType
		val  any
	}{
		{"uuid", FieldTypeUUID, UUID{1, 2, 3}},
		{"bytes", FieldTypeBytes, []byte{0xde, 0xad, 0xbe, 0xef}},
		{"text", FieldTypeText, "hello, 世界"},
		{"int8", FieldTypeInt8, int8(-12)},
		{"int16", FieldTypeInt16, int16(-1234)},
		{"int32", FieldTypeInt32, int32(-123456)},
		{"int64", FieldTypeInt64, int64(-123456789012)},
		{"uint8", FieldTypeUint8, uint8(200)},
		{"uint16", FieldTypeUint16, uint16(60000)},
		{"uint32", FieldTypeUint32, uint32(4000000000)},
		{"uint64", FieldTypeUint64, uint64(18000000000000000000)},
		{"float32", FieldTypeFloat32, float32(3.5)},
		{"float64", FieldTypeFloat64, float64(-2.71828)},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			data, ok := encodeFieldValue(c.typ, c.val)
			if !ok {
				t.Fatalf("encodeFieldValue(%v) returned ok=false", c.typ)
			}

			got, ok := decodeFieldValue(c.typ, data)
			if !ok {
				t.Fatalf("decodeFieldValue(%v) returned ok=false", c.typ)
			}

			assert.Equal(t, c.val, got)
		})
	}
}

func Test_FieldValue_Decode_Rejects_Invalid_UTF8_Text(t *testing.T) {
	t.Parallel()

	_, ok := decodeFieldValue(FieldTypeText, []byte{0xff, 0xfe})
	assert.False(t, ok)
}

func Test_FieldValue_Decode_Rejects_Wrong_Length_Scalars(t *testing.T) {
	t.Parallel()

	_, ok := decodeFieldValue(FieldTypeInt32, []byte{1, 2})
	assert.False(t, ok)
}

func Test_FieldValue_Encode_Rejects_Type_Mismatch(t *testing.T) {
	t.Parallel()

	_, ok := encodeFieldValue(FieldTypeInt64, "not an int")
	assert.False(t, ok)
}

func Test_FieldType_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "text", FieldTypeText.String())
	assert.Equal(t, "uuid", FieldTypeUUID.String())
	assert.Equal(t, "unknown", FieldType(255).String())
}
