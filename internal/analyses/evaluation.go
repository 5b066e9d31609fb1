package analyses

import (
	"encoding/json"
	"errors"
	"io"
	"strings"
)

// ParseFailed is the error marker carried by an evaluation whose model
// output was not valid JSON.
const ParseFailed = "parse failed"

var errTrailingData = errors.New("trailing data after JSON value")

// Evaluation is the structured result of an ATS evaluation. Value holds
// whatever JSON the model produced, or the degraded
// {"error":"parse failed","rawText":...} object.
type Evaluation struct {
	Value  any
	failed bool
}

// Interpret parses raw model output as a single JSON value. It never fails:
// anything else, including Markdown-fenced JSON, yields the degraded form
// with the raw text kept verbatim.
func Interpret(raw string) Evaluation {
	v, err := decodeStrict(raw)
	if err != nil {
		return Evaluation{
			Value: map[string]any{
				"error":   ParseFailed,
				"rawText": raw,
			},
			failed: true,
		}
	}
	return Evaluation{Value: v}
}

// Failed reports whether the model output could not be parsed.
func (e Evaluation) Failed() bool {
	return e.failed
}

// RawText returns the unparsed model output for failed evaluations.
func (e Evaluation) RawText() string {
	if !e.failed {
		return ""
	}
	m, _ := e.Value.(map[string]any)
	s, _ := m["rawText"].(string)
	return s
}

// MarshalJSON encodes the evaluation value.
func (e Evaluation) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.Value)
}

func decodeStrict(s string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errTrailingData
	}
	return v, nil
}
