package vision

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

// Payload is a vision analysis result as produced upstream. Every field is optional;
// a nil slice or pointer means the field was absent (or null).
type Payload struct {
	Confidence         *Score       `json:"confidence,omitempty"`
	CombinedConfidence *Score       `json:"combined_confidence,omitempty"`
	Observations       Observations `json:"observations,omitempty"`
	Analyses           SubAnalyses  `json:"analyses,omitempty"`
	Description        Text         `json:"description,omitempty"`
	Analysis           Text         `json:"analysis,omitempty"`
}

type SubAnalysis struct {
	Observations Observations `json:"observations,omitempty"`
}

// UnmarshalJSON ignores entries that are not objects instead of failing the payload.
func (s *SubAnalysis) UnmarshalJSON(data []byte) error {
	var body struct {
		Observations Observations `json:"observations"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		*s = SubAnalysis{}
		return nil
	}
	s.Observations = body.Observations
	return nil
}

// SubAnalyses treats anything but an array as absent.
type SubAnalyses []SubAnalysis

func (a *SubAnalyses) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*a = nil
		return nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		*a = nil
		return nil
	}

	out := make(SubAnalyses, len(items))
	for i, item := range items {
		if err := out[i].UnmarshalJSON(item); err != nil {
			return err
		}
	}
	*a = out
	return nil
}

// ParsePayload decodes a raw JSON document. A JSON null yields a nil payload and
// a document that is not an object yields an empty one. Only invalid JSON fails.
func ParsePayload(raw []byte) (*Payload, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	if !json.Valid(trimmed) {
		return nil, errors.New("vision payload is not valid JSON")
	}

	var p Payload
	if trimmed[0] != '{' {
		return &p, nil
	}
	if err := json.Unmarshal(trimmed, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Score accepts a JSON number or a numeric string. Any other value counts as
// zero and keeps the card hidden.
type Score float64

func (s *Score) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*s = Score(n)
		return nil
	}

	*s = 0
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return nil
	}
	if n, err := strconv.ParseFloat(strings.TrimSpace(str), 64); err == nil {
		*s = Score(n)
	}
	return nil
}

// Text is a free-text field; non-string values keep their compact JSON form.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	*t = Text(stringify(data))
	return nil
}

// Observations accepts an array of arbitrary JSON values; non-strings are rendered
// with their compact JSON text. An empty array stays non-nil so that "present but
// empty" can be told apart from "absent". Objects, numbers and booleans count as
// absent.
type Observations []string

func (o *Observations) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*o = nil
		return nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		// a lone string is treated as a one-element list
		var single string
		if errSingle := json.Unmarshal(data, &single); errSingle == nil {
			*o = Observations{single}
			return nil
		}
		*o = nil
		return nil
	}

	out := make(Observations, 0, len(items))
	for _, item := range items {
		out = append(out, stringify(item))
	}
	*o = out
	return nil
}

func stringify(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if bytes.Equal(trimmed, []byte("null")) {
		return ""
	}

	var str string
	if err := json.Unmarshal(trimmed, &str); err == nil {
		return str
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err != nil {
		return string(trimmed)
	}
	return buf.String()
}
