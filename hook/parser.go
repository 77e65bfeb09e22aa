package hook

import (
	"bytes"
	"fmt"
	"io"

	json "github.com/goccy/go-json"
)

// Parser decodes hook payloads from the driver and encodes outcomes back.
type Parser struct{}

// NewParser creates a new parser instance.
func NewParser() *Parser {
	return &Parser{}
}

// envelope is the wire shape: the event discriminator plus the payload
// fields flattened alongside it.
type envelope struct {
	HookEventName Event `json:"hook_event_name"`
	Input
}

// ParseInput parses one wire payload into its event and input. The event
// set is closed: an unknown or missing hook_event_name is an error.
func (p *Parser) ParseInput(data []byte) (Event, *Input, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return "", nil, fmt.Errorf("failed to parse hook payload: %w", err)
	}
	if !env.HookEventName.Known() {
		return "", nil, fmt.Errorf("unknown hook event type: %q", env.HookEventName)
	}
	in := env.Input
	return env.HookEventName, &in, nil
}

// ParseOutput parses an outcome document.
func (p *Parser) ParseOutput(data []byte) (*Output, error) {
	var out Output
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to parse hook output: %w", err)
	}
	return &out, nil
}

// MarshalOutput serializes an outcome to JSON with a trailing newline.
func (p *Parser) MarshalOutput(out *Output) ([]byte, error) {
	data, err := json.Marshal(out)
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// StreamParser reads consecutive JSON payloads from a stream.
type StreamParser struct {
	decoder *json.Decoder
	parser  *Parser
}

// NewStreamParser creates a parser for streaming JSON payloads.
func NewStreamParser(reader io.Reader) *StreamParser {
	return &StreamParser{
		decoder: json.NewDecoder(reader),
		parser:  NewParser(),
	}
}

// ParseNext parses the next payload from the stream.
func (sp *StreamParser) ParseNext() (Event, *Input, error) {
	var raw json.RawMessage
	if err := sp.decoder.Decode(&raw); err != nil {
		return "", nil, err
	}
	return sp.parser.ParseInput(raw)
}

// ParsedMessage pairs an event with its input, for batch parsing.
type ParsedMessage struct {
	Event Event
	Input *Input
}

// ParseMultiple parses concatenated JSON payloads from a byte slice.
func (p *Parser) ParseMultiple(data []byte) ([]ParsedMessage, error) {
	var messages []ParsedMessage
	decoder := json.NewDecoder(bytes.NewReader(data))

	for decoder.More() {
		var raw json.RawMessage
		if err := decoder.Decode(&raw); err != nil {
			return messages, fmt.Errorf("failed to decode payload: %w", err)
		}
		event, in, err := p.ParseInput(raw)
		if err != nil {
			return messages, err
		}
		messages = append(messages, ParsedMessage{Event: event, Input: in})
	}

	return messages, nil
}
