package model

import (
	"encoding/json"
	"strconv"
)

// Review types as they appear on discussion records. Anything outside this
// set is preserved verbatim and bucketed as "other" where a bucket is needed.
const (
	TypeOfficialReview = "official_review"
	TypeRebuttal       = "rebuttal"
	TypeMetaReview     = "meta_review"
	TypeDecision       = "decision"
	TypeComment        = "comment"
	TypeOther          = "other"
)

// Review is one flat discussion record attached to a paper: an official
// review, a rebuttal, a meta-review, a decision or a comment. Records are
// immutable once ingested; everything derived (threads, metrics) is computed
// from them at read time.
type Review struct {
	ID         string                `json:"id"`
	ReplyTo    string                `json:"replyto,omitempty"`
	CDate      int64                 `json:"cdate,omitempty"` // epoch millis, 0 when unknown
	ReviewType string                `json:"review_type"`
	Rating     *float64              `json:"rating,omitempty"`
	Confidence *float64              `json:"confidence,omitempty"`
	Content    map[string]FieldValue `json:"content,omitempty"`
}

// FieldValue kind tags.
type FieldKind int

const (
	KindAbsent FieldKind = iota
	KindString
	KindNumber
	KindBool
	KindList
)

// FieldValue is one entry of a review's open-ended content mapping. The
// ingested JSON wraps values as {"value": ...} (OpenReview style) but bare
// values appear too; both decode to the same tagged union.
type FieldValue struct {
	Kind FieldKind
	Str  string
	Num  float64
	Bool bool
	List []string
}

func StringValue(s string) FieldValue  { return FieldValue{Kind: KindString, Str: s} }
func NumberValue(n float64) FieldValue { return FieldValue{Kind: KindNumber, Num: n} }
func BoolValue(b bool) FieldValue      { return FieldValue{Kind: KindBool, Bool: b} }
func ListValue(l []string) FieldValue  { return FieldValue{Kind: KindList, List: l} }

func (v *FieldValue) UnmarshalJSON(data []byte) error {
	// Unwrap {"value": ...} if present.
	var wrapper struct {
		Value json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(data, &wrapper); err == nil && wrapper.Value != nil {
		data = wrapper.Value
	}

	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*v = fromInterface(raw)
	return nil
}

func (v FieldValue) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindString:
		return json.Marshal(v.Str)
	case KindNumber:
		return json.Marshal(v.Num)
	case KindBool:
		return json.Marshal(v.Bool)
	case KindList:
		return json.Marshal(v.List)
	default:
		return []byte("null"), nil
	}
}

func fromInterface(raw interface{}) FieldValue {
	switch val := raw.(type) {
	case string:
		return StringValue(val)
	case float64:
		return NumberValue(val)
	case bool:
		return BoolValue(val)
	case []interface{}:
		items := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := item.(string); ok && s != "" {
				items = append(items, s)
			}
		}
		return ListValue(items)
	default:
		return FieldValue{Kind: KindAbsent}
	}
}

// Display renders the value for presentation: booleans as Yes/No, numbers in
// their shortest form, lists joined with newlines. Absent values render empty.
func (v FieldValue) Display() string {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case KindBool:
		if v.Bool {
			return "Yes"
		}
		return "No"
	case KindList:
		out := ""
		for i, item := range v.List {
			if i > 0 {
				out += "\n"
			}
			out += item
		}
		return out
	default:
		return ""
	}
}

// DecodeContent parses a content_json property as stored on Review nodes.
// Malformed JSON yields an empty mapping, never an error: content is
// untrusted ingestion output and a bad record must not break a page.
func DecodeContent(contentJSON string) map[string]FieldValue {
	if contentJSON == "" {
		return map[string]FieldValue{}
	}
	var content map[string]FieldValue
	if err := json.Unmarshal([]byte(contentJSON), &content); err != nil {
		return map[string]FieldValue{}
	}
	return content
}
