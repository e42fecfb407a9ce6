package ai

import (
	"encoding/json"
	"strings"
)

// EnvelopeShape describes how a model packaged its response items.
type EnvelopeShape int

const (
	// EnvelopeKeyed means the response was an object with the expected key,
	// e.g. {"testCases": [...]}.
	EnvelopeKeyed EnvelopeShape = iota + 1
	// EnvelopeBare means the response was a bare JSON list.
	EnvelopeBare
	// EnvelopeInvalid means the response had neither shape; the decoded
	// item slice is empty, which callers treat as "no results", not an error.
	EnvelopeInvalid
)

// DecodeEnvelope normalizes a model response to an ordered slice of objects.
// Models answer either with {key: [...]} or with a bare list; both are
// accepted here so nothing deeper in the pipeline branches on shape.
// Markdown code fences and common JSON defects are repaired before parsing.
func DecodeEnvelope(raw, key string) ([]map[string]any, EnvelopeShape) {
	cleaned := repairJSON(stripFences(raw))

	var keyed map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &keyed); err == nil {
		if inner, ok := keyed[key]; ok {
			if items, ok := decodeItems(inner); ok {
				return items, EnvelopeKeyed
			}
		}
		return []map[string]any{}, EnvelopeInvalid
	}

	if items, ok := decodeItems(json.RawMessage(cleaned)); ok {
		return items, EnvelopeBare
	}

	return []map[string]any{}, EnvelopeInvalid
}

// DecodeObject parses a model response expected to be a single JSON object
// into dst, applying the same fence stripping and repair as DecodeEnvelope.
func DecodeObject(raw string, dst any) error {
	return json.Unmarshal([]byte(repairJSON(stripFences(raw))), dst)
}

func decodeItems(raw json.RawMessage) ([]map[string]any, bool) {
	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, false
	}
	items := make([]map[string]any, 0, len(list))
	for _, elem := range list {
		var obj map[string]any
		if err := json.Unmarshal(elem, &obj); err != nil {
			// Tolerate stray non-object elements rather than rejecting
			// the whole envelope.
			continue
		}
		items = append(items, obj)
	}
	return items, true
}

// stripFences removes markdown code fences some models wrap around JSON.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
