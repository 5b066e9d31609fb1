package analyses

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterpretValidJSONRoundTrips(t *testing.T) {
	raw := `{"ATS_Match_Score":70,"Missing_Keywords":["Kubernetes"]}`

	eval := Interpret(raw)

	assert.False(t, eval.Failed())
	out, err := json.Marshal(eval)
	require.NoError(t, err)
	assert.JSONEq(t, raw, string(out))
}

func TestInterpretNotJSON(t *testing.T) {
	eval := Interpret("not json")

	require.True(t, eval.Failed())
	assert.Equal(t, map[string]any{"error": "parse failed", "rawText": "not json"}, eval.Value)
	assert.Equal(t, "not json", eval.RawText())
}

func TestInterpretCases(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		failed bool
		want   string
	}{
		{name: "surrounding whitespace", raw: "\n  {\"Summary\":\"ok\"}  \n", want: `{"Summary":"ok"}`},
		{name: "array", raw: `["a","b"]`, want: `["a","b"]`},
		{name: "large score keeps precision", raw: `{"score":12345678901234567890}`, want: `{"score":12345678901234567890}`},
		{name: "empty", raw: "", failed: true},
		{name: "trailing garbage", raw: `{"a":1} and more`, failed: true},
		{name: "prose around json", raw: `Here you go: {"a":1}`, failed: true},
		{name: "fenced json", raw: "```json\n{\"ATS_Match_Score\":70}\n```", failed: true},
		{name: "bare fence", raw: "```\n[1,2]\n```", failed: true},
		{name: "unterminated fence", raw: "```json\n{\"a\":1}", failed: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eval := Interpret(tt.raw)
			assert.Equal(t, tt.failed, eval.Failed())
			out, err := json.Marshal(eval)
			require.NoError(t, err)
			if tt.failed {
				var body map[string]string
				require.NoError(t, json.Unmarshal(out, &body))
				assert.Equal(t, ParseFailed, body["error"])
				assert.Equal(t, tt.raw, body["rawText"])
				return
			}
			assert.JSONEq(t, tt.want, string(out))
		})
	}
}

func TestModelCanReturnErrorKeyWithoutFailing(t *testing.T) {
	eval := Interpret(`{"error":"parse failed"}`)

	assert.False(t, eval.Failed())
	assert.Empty(t, eval.RawText())
}

func TestInterpretFencedOutputKeepsRawText(t *testing.T) {
	raw := "```json\n{\"ATS_Match_Score\":70}\n```"

	eval := Interpret(raw)

	require.True(t, eval.Failed())
	assert.Equal(t, map[string]any{"error": ParseFailed, "rawText": raw}, eval.Value)
}
