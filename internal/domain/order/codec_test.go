package order

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode_WritesVersionedEnvelope(t *testing.T) {
	data, err := Encode([]Order{testOrder("THP-AAAA-111", 9500)})
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.JSONEq(t, `1`, string(raw["version"]))
	assert.JSONEq(t, `[{
		"code": "THP-AAAA-111",
		"items": [
			{"id": 1, "name": "Egusi Soup", "price": "₦3,500", "quantity": 2},
			{"id": 2, "name": "Jollof Rice", "price": "₦2,500", "quantity": 1}
		],
		"total": 9500,
		"timestamp": "2025-06-15T12:00:00.000Z"
	}]`, string(raw["orders"]))
}

func TestEncode_NilIsEmptyArray(t *testing.T) {
	data, err := Encode(nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"version":1,"orders":[]}`, string(data))
}

func TestDecode(t *testing.T) {
	a := testOrder("THP-AAAA-111", 9500)

	tests := []struct {
		name    string
		input   string
		want    []Order
		wantErr bool
	}{
		{name: "empty", input: "", want: nil},
		{name: "whitespace", input: "  \n", want: nil},
		{name: "null", input: "null", want: nil},
		{
			name:  "legacy bare array",
			input: `[{"code":"THP-AAAA-111","items":[{"id":1,"name":"Egusi Soup","price":"₦3,500","quantity":2},{"id":2,"name":"Jollof Rice","price":"₦2,500","quantity":1}],"total":9500,"timestamp":"2025-06-15T12:00:00.000Z"}]`,
			want:  []Order{a},
		},
		{
			name:  "envelope",
			input: `{"version":1,"orders":[{"code":"THP-AAAA-111","items":[{"id":1,"name":"Egusi Soup","price":"₦3,500","quantity":2},{"id":2,"name":"Jollof Rice","price":"₦2,500","quantity":1}],"total":9500,"timestamp":"2025-06-15T12:00:00.000Z"}]}`,
			want:  []Order{a},
		},
		{name: "garbage", input: "{not json", wantErr: true},
		{name: "object without version", input: `{"orders":[]}`, wantErr: true},
		{name: "wrong shape", input: `"THP-AAAA-111"`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode([]byte(tt.input))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Decode() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecode_NewerVersion(t *testing.T) {
	_, err := Decode([]byte(`{"version":2,"orders":[]}`))
	require.ErrorIs(t, err, ErrUnsupportedVersion)
}
