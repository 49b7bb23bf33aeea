package tools

import (
	"encoding/xml"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

const defaultServerName = "local"

// ErrNoToolCall is returned when text holds no <tool> element.
var ErrNoToolCall = errors.New("no tool call found")

var toolRegex = regexp.MustCompile(`(?s)<tool>.*?</tool>`)

// entityRegex matches an ampersand that already starts an XML entity.
var entityRegex = regexp.MustCompile(`&(?:amp|lt|gt|quot|apos|#\d+|#x[0-9a-fA-F]+);`)

// ParseToolCall parses the first <tool> element in text and returns it
// with the text that surrounds it.
func ParseToolCall(text string) (*ToolCall, string, error) {
	loc := toolRegex.FindStringIndex(text)
	if loc == nil {
		return nil, text, ErrNoToolCall
	}
	call, err := decodeToolCall(text[loc[0]:loc[1]])
	if err != nil {
		return nil, text, err
	}
	rest := strings.TrimSpace(text[:loc[0]] + text[loc[1]:])
	return call, rest, nil
}

// ParseToolCalls parses every <tool> element in text, in order. Text
// between the elements is ignored.
func ParseToolCalls(text string) ([]*ToolCall, error) {
	locs := toolRegex.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return nil, ErrNoToolCall
	}
	calls := make([]*ToolCall, 0, len(locs))
	for i, loc := range locs {
		call, err := decodeToolCall(text[loc[0]:loc[1]])
		if err != nil {
			return nil, fmt.Errorf("call %d: %w", i+1, err)
		}
		calls = append(calls, call)
	}
	return calls, nil
}

// HasToolCall reports whether text contains a <tool> element.
func HasToolCall(text string) bool {
	return toolRegex.MatchString(text)
}

func decodeToolCall(raw string) (*ToolCall, error) {
	var call ToolCall
	if err := DecodeArguments([]byte(raw), &call); err != nil {
		if len(raw) > 200 {
			raw = raw[:200] + "..."
		}
		return nil, fmt.Errorf("malformed tool call %s: %w", raw, err)
	}
	if err := ValidateToolCall(&call); err != nil {
		return nil, err
	}
	return &call, nil
}

// ValidateToolCall checks required fields, defaulting the server name.
func ValidateToolCall(tc *ToolCall) error {
	if tc == nil {
		return fmt.Errorf("tool call is nil")
	}
	if tc.ToolName == "" {
		return fmt.Errorf("tool_name is required in tool call")
	}
	if tc.ServerName == "" {
		tc.ServerName = defaultServerName
	}
	return nil
}

// DecodeArguments unmarshals XML into v. Toggle arguments often carry
// selectors such as a[href*=a&b], so when the strict parse fails bare
// ampersands are escaped and the parse is retried.
func DecodeArguments(data []byte, v interface{}) error {
	if err := xml.Unmarshal(data, v); err == nil {
		return nil
	}
	return xml.Unmarshal(escapeAmpersands(data), v)
}

func escapeAmpersands(data []byte) []byte {
	text := string(data)
	entities := make(map[int]bool)
	for _, loc := range entityRegex.FindAllStringIndex(text, -1) {
		entities[loc[0]] = true
	}

	var b strings.Builder
	b.Grow(len(text) + 16)
	for i := 0; i < len(text); i++ {
		if text[i] == '&' && !entities[i] {
			b.WriteString("&amp;")
			continue
		}
		b.WriteByte(text[i])
	}
	return []byte(b.String())
}
