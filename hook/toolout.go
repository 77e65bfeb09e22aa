package hook

import (
	"encoding/json"

	gojson "github.com/goccy/go-json"
)

// Tool output arrives as untyped JSON and has appeared on the wire in three
// shapes over time. Rather than probing paths ad hoc at every call site,
// the shapes are modeled as a small union with one extraction function.

// ToolOutput is one decoded tool-output shape.
type ToolOutput interface {
	// Text returns the textual content of the output.
	Text() string
}

// PlainOutput is the current shape: {"text": "..."}.
type PlainOutput struct {
	Content string `json:"text"`
}

func (o PlainOutput) Text() string { return o.Content }

// LegacyWrapped is the pre-1.0 shape: {"output": "..."}.
type LegacyWrapped struct {
	Output string `json:"output"`
}

func (o LegacyWrapped) Text() string { return o.Output }

// RawString is a bare JSON string, or the fallback for shapes this package
// does not recognize.
type RawString string

func (o RawString) Text() string { return string(o) }

// DecodeToolOutput decodes raw tool output into one of the union shapes.
// Empty input decodes to an empty RawString. Unrecognized objects fall back
// to RawString of the raw document, so volume-based consumers still see the
// full payload size.
func DecodeToolOutput(raw json.RawMessage) ToolOutput {
	if len(raw) == 0 {
		return RawString("")
	}

	var s string
	if err := gojson.Unmarshal(raw, &s); err == nil {
		return RawString(s)
	}

	// Pointer fields distinguish a present-but-empty value from an absent
	// key, so {"text":""} decodes as an empty PlainOutput instead of
	// falling through to the raw-document fallback.
	var wrapped struct {
		Text   *string `json:"text"`
		Output *string `json:"output"`
	}
	if err := gojson.Unmarshal(raw, &wrapped); err == nil {
		if wrapped.Text != nil {
			return PlainOutput{Content: *wrapped.Text}
		}
		if wrapped.Output != nil {
			return LegacyWrapped{Output: *wrapped.Output}
		}
	}

	return RawString(raw)
}

// ExtractToolText is the convenience form of DecodeToolOutput.
func ExtractToolText(raw json.RawMessage) string {
	return DecodeToolOutput(raw).Text()
}
