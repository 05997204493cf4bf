package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldValueUnmarshalWrapped(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected FieldValue
	}{
		{"wrapped string", `{"value": "hello"}`, StringValue("hello")},
		{"bare string", `"hello"`, StringValue("hello")},
		{"wrapped number", `{"value": 7.5}`, NumberValue(7.5)},
		{"wrapped bool", `{"value": true}`, BoolValue(true)},
		{"wrapped list", `{"value": ["a", "b"]}`, ListValue([]string{"a", "b"})},
		{"list drops non-strings", `{"value": ["a", 3, "", "b"]}`, ListValue([]string{"a", "b"})},
		{"null", `null`, FieldValue{Kind: KindAbsent}},
		{"nested object", `{"value": {"deep": 1}}`, FieldValue{Kind: KindAbsent}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v FieldValue
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &v))
			assert.Equal(t, tt.expected, v)
		})
	}
}

func TestFieldValueDisplay(t *testing.T) {
	assert.Equal(t, "hello", StringValue("hello").Display())
	assert.Equal(t, "7.5", NumberValue(7.5).Display())
	assert.Equal(t, "8", NumberValue(8).Display())
	assert.Equal(t, "Yes", BoolValue(true).Display())
	assert.Equal(t, "No", BoolValue(false).Display())
	assert.Equal(t, "a\nb", ListValue([]string{"a", "b"}).Display())
	assert.Equal(t, "", FieldValue{Kind: KindAbsent}.Display())
}

func TestFieldValueMarshalRoundTrip(t *testing.T) {
	content := map[string]FieldValue{
		"summary": StringValue("Good paper."),
		"rating":  NumberValue(7),
	}
	data, err := json.Marshal(content)
	require.NoError(t, err)

	var decoded map[string]FieldValue
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, content, decoded)
}

func TestDecodeContent(t *testing.T) {
	t.Run("openreview wrapped values", func(t *testing.T) {
		content := DecodeContent(`{"summary": {"value": "Solid."}, "rating": {"value": 6}}`)
		assert.Equal(t, "Solid.", content["summary"].Display())
		assert.Equal(t, NumberValue(6), content["rating"])
	})

	t.Run("malformed json yields empty map", func(t *testing.T) {
		content := DecodeContent(`{broken`)
		assert.NotNil(t, content)
		assert.Empty(t, content)
	})

	t.Run("empty string yields empty map", func(t *testing.T) {
		assert.Empty(t, DecodeContent(""))
	})
}

func TestReviewUnmarshal(t *testing.T) {
	raw := `{
		"id": "r1",
		"replyto": "sub1",
		"cdate": 1700000000000,
		"review_type": "official_review",
		"rating": 7.0,
		"content": {
			"summary": {"value": "Well written."},
			"code_available": {"value": false}
		}
	}`

	var r Review
	require.NoError(t, json.Unmarshal([]byte(raw), &r))
	assert.Equal(t, "r1", r.ID)
	assert.Equal(t, int64(1700000000000), r.CDate)
	require.NotNil(t, r.Rating)
	assert.Equal(t, 7.0, *r.Rating)
	assert.Equal(t, "Well written.", r.Content["summary"].Display())
	assert.Equal(t, "No", r.Content["code_available"].Display())
}
