package llm

import (
	"encoding/json"
	"errors"
	"strings"
)

// ErrNoJSON means the model reply contained no parseable JSON object.
var ErrNoJSON = errors.New("no JSON object in model reply")

// JSONInstruction is appended to prompts that must yield machine-readable
// output.
const JSONInstruction = "\n\nReturn ONLY a minified JSON object. Do not include any extra commentary, markdown, or code fences."

// ExtractJSON pulls the first {...} object out of a model reply and
// unmarshals it. Models routinely wrap JSON in prose or code fences, so
// we cut from the first '{' to the last '}'.
func ExtractJSON(text string) (map[string]any, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end <= start {
		return nil, ErrNoJSON
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(text[start:end+1]), &obj); err != nil {
		return nil, ErrNoJSON
	}
	return obj, nil
}

// Str reads a string field from an extracted object, trimming whitespace.
func Str(obj map[string]any, key string) string {
	if v, ok := obj[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}
