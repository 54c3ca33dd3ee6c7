package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ValueKind tags which member of Value is populated
type ValueKind string

const (
	ValueNone   ValueKind = ""
	ValueText   ValueKind = "text"   // single choice, free text
	ValueList   ValueKind = "list"   // multi choice
	ValueNumber ValueKind = "number" // scale, rating
	ValueMatrix ValueKind = "matrix" // matrix row -> column
)

// Value is an answer or comparison value. Exactly one member is meaningful,
// selected by Kind.
type Value struct {
	Kind   ValueKind         `bson:"kind"`
	Text   string            `bson:"text,omitempty"`
	List   []string          `bson:"list,omitempty"`
	Number float64           `bson:"number,omitempty"`
	Matrix map[string]string `bson:"matrix,omitempty"`
}

func TextValue(s string) Value { return Value{Kind: ValueText, Text: s} }

func ListValue(items ...string) Value {
	list := make([]string, len(items))
	copy(list, items)
	return Value{Kind: ValueList, List: list}
}

func NumberValue(n float64) Value { return Value{Kind: ValueNumber, Number: n} }

func MatrixValue(m map[string]string) Value {
	cp := make(map[string]string, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return Value{Kind: ValueMatrix, Matrix: cp}
}

// IsNone reports whether no value is present
func (v Value) IsNone() bool { return v.Kind == ValueNone }

// IsScalar is true for text and number values
func (v Value) IsScalar() bool { return v.Kind == ValueText || v.Kind == ValueNumber }

// IsEmpty reports whether the value carries nothing a respondent typed or picked
func (v Value) IsEmpty() bool {
	switch v.Kind {
	case ValueText:
		return v.Text == ""
	case ValueList:
		return len(v.List) == 0
	case ValueMatrix:
		return len(v.Matrix) == 0
	case ValueNumber:
		return false
	default:
		return true
	}
}

// String renders scalar values the way they are compared
func (v Value) String() string {
	switch v.Kind {
	case ValueText:
		return v.Text
	case ValueNumber:
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	case ValueList:
		return fmt.Sprint(v.List)
	case ValueMatrix:
		return fmt.Sprint(v.Matrix)
	default:
		return ""
	}
}

// Float coerces the value to a number. Lists and matrices never coerce.
func (v Value) Float() (float64, bool) {
	switch v.Kind {
	case ValueNumber:
		return v.Number, true
	case ValueText:
		n, err := strconv.ParseFloat(strings.TrimSpace(v.Text), 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// Items returns the value as a list of strings; scalars become one element
func (v Value) Items() []string {
	switch v.Kind {
	case ValueList:
		return v.List
	case ValueText, ValueNumber:
		return []string{v.String()}
	default:
		return nil
	}
}

// Interface converts the value to plain Go types for expression environments
func (v Value) Interface() any {
	switch v.Kind {
	case ValueText:
		return v.Text
	case ValueNumber:
		return v.Number
	case ValueList:
		out := make([]any, len(v.List))
		for i, s := range v.List {
			out[i] = s
		}
		return out
	case ValueMatrix:
		out := make(map[string]any, len(v.Matrix))
		for k, s := range v.Matrix {
			out[k] = s
		}
		return out
	default:
		return nil
	}
}

// MarshalJSON encodes the value as its natural JSON type
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case ValueText:
		return json.Marshal(v.Text)
	case ValueNumber:
		return json.Marshal(v.Number)
	case ValueList:
		if v.List == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.List)
	case ValueMatrix:
		return json.Marshal(v.Matrix)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON infers the kind from the JSON type
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*v = Value{}
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = TextValue(s)
	case '[':
		var list []string
		if err := json.Unmarshal(data, &list); err != nil {
			return fmt.Errorf("list values must contain strings: %w", err)
		}
		if list == nil {
			list = []string{}
		}
		*v = Value{Kind: ValueList, List: list}
	case '{':
		var m map[string]string
		if err := json.Unmarshal(data, &m); err != nil {
			return fmt.Errorf("matrix values must map strings to strings: %w", err)
		}
		*v = Value{Kind: ValueMatrix, Matrix: m}
	default:
		var n float64
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("unsupported value %s", string(data))
		}
		*v = NumberValue(n)
	}
	return nil
}

// UnmarshalYAML accepts the same shapes as JSON: scalar, sequence or mapping
func (v *Value) UnmarshalYAML(unmarshal func(any) error) error {
	var raw any
	if err := unmarshal(&raw); err != nil {
		return err
	}
	return v.fromAny(raw)
}

func (v *Value) fromAny(raw any) error {
	switch t := raw.(type) {
	case nil:
		*v = Value{}
	case string:
		*v = TextValue(t)
	case bool:
		*v = TextValue(strconv.FormatBool(t))
	case int:
		*v = NumberValue(float64(t))
	case int64:
		*v = NumberValue(float64(t))
	case float64:
		*v = NumberValue(t)
	case []any:
		list := make([]string, 0, len(t))
		for _, item := range t {
			list = append(list, fmt.Sprint(item))
		}
		*v = Value{Kind: ValueList, List: list}
	case map[string]any:
		m := make(map[string]string, len(t))
		for k, item := range t {
			m[k] = fmt.Sprint(item)
		}
		*v = Value{Kind: ValueMatrix, Matrix: m}
	default:
		return fmt.Errorf("unsupported value type %T", raw)
	}
	return nil
}

// Answer is a recorded response for one question in a session
type Answer struct {
	QuestionID string    `json:"questionId" bson:"questionId"`
	Value      Value     `json:"value" bson:"value"`
	Skipped    bool      `json:"skipped" bson:"skipped"`
	AnsweredAt time.Time `json:"answeredAt" bson:"answeredAt"`
}

// HasResponse is true when the answer is not skipped and carries content
func (a Answer) HasResponse() bool {
	return !a.Skipped && !a.Value.IsEmpty()
}

// Answers is the answer store of a session, keyed by question id
type Answers map[string]Answer

// Get returns the answer for id, if any
func (a Answers) Get(id string) (Answer, bool) {
	ans, ok := a[id]
	return ans, ok
}

// Answered reports whether an unskipped answer exists for id
func (a Answers) Answered(id string) bool {
	ans, ok := a[id]
	return ok && !ans.Skipped
}

// Responded reports whether id has an unskipped, non-empty answer. This is
// what satisfies a required question.
func (a Answers) Responded(id string) bool {
	ans, ok := a[id]
	return ok && ans.HasResponse()
}

// Sorted returns the answers ordered by question id
func (a Answers) Sorted() []Answer {
	out := make([]Answer, 0, len(a))
	for _, ans := range a {
		out = append(out, ans)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].QuestionID < out[j].QuestionID })
	return out
}

// Clone copies the store; values are shared since they are never mutated in place
func (a Answers) Clone() Answers {
	out := make(Answers, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}
