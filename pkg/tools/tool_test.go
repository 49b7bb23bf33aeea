package tools

import (
	"context"
	"encoding/xml"
	"errors"
	"strings"
	"testing"
)

type echoTool struct {
	calls int
	fail  bool
}

type echoInput struct {
	XMLName xml.Name `xml:"arguments"`
	Text    string   `xml:"text"`
}

func (t *echoTool) Name() string        { return "echo" }
func (t *echoTool) Description() string { return "echoes its text argument" }
func (t *echoTool) Schema() map[string]interface{} {
	return BaseToolSchema(map[string]interface{}{
		"text": map[string]interface{}{"type": "string"},
	}, []string{"text"})
}

func (t *echoTool) Execute(ctx context.Context, argsXML []byte) (string, map[string]interface{}, error) {
	t.calls++
	if t.fail {
		return "", nil, errors.New("boom")
	}
	var in echoInput
	if err := DecodeArguments(argsXML, &in); err != nil {
		return "", nil, err
	}
	return in.Text, map[string]interface{}{"length": len(in.Text)}, nil
}

func TestParseToolCall(t *testing.T) {
	text := `before
<tool>
<tool_name>echo</tool_name>
<arguments><text>hello</text></arguments>
</tool>
after`

	call, remaining, err := ParseToolCall(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if call.ToolName != "echo" {
		t.Errorf("expected tool name 'echo', got %q", call.ToolName)
	}
	if call.ServerName != defaultServerName {
		t.Errorf("expected default server name, got %q", call.ServerName)
	}
	if got := string(call.GetArgumentsXML()); got != "<arguments><text>hello</text></arguments>" {
		t.Errorf("unexpected arguments XML %q", got)
	}
	if remaining != "before\n\nafter" {
		t.Errorf("unexpected remaining text %q", remaining)
	}
}

func TestParseToolCall_Errors(t *testing.T) {
	tests := map[string]string{
		"no tool":      "just some text",
		"missing name": "<tool><arguments></arguments></tool>",
		"bad xml":      "<tool><tool_name>echo</tool_name><arguments><text></arguments></tool>",
	}
	for name, text := range tests {
		t.Run(name, func(t *testing.T) {
			if _, _, err := ParseToolCall(text); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestParseToolCalls(t *testing.T) {
	text := `<tool><tool_name>echo</tool_name><arguments><text>one</text></arguments></tool>
ignored
<tool><server_name>local</server_name><tool_name>echo</tool_name><arguments><text>a&b</text></arguments></tool>`

	calls, err := ParseToolCalls(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(calls))
	}
	var in echoInput
	if err := DecodeArguments(calls[1].GetArgumentsXML(), &in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in.Text != "a&b" {
		t.Errorf("unexpected text %q", in.Text)
	}

	if _, err := ParseToolCalls("nothing here"); !errors.Is(err, ErrNoToolCall) {
		t.Errorf("expected ErrNoToolCall, got %v", err)
	}
	_, err = ParseToolCalls("<tool><tool_name>a</tool_name></tool><tool><arguments></arguments></tool>")
	if err == nil || !strings.Contains(err.Error(), "call 2") {
		t.Errorf("expected error naming call 2, got %v", err)
	}
}

func TestDecodeArguments_Ampersand(t *testing.T) {
	var in echoInput
	err := DecodeArguments([]byte(`<arguments><text>a[href*=x&y] &amp; b</text></arguments>`), &in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if in.Text != "a[href*=x&y] & b" {
		t.Errorf("unexpected text %q", in.Text)
	}
}

func TestHasToolCall(t *testing.T) {
	if !HasToolCall("x <tool><tool_name>a</tool_name></tool>") {
		t.Error("expected tool call to be detected")
	}
	if HasToolCall("<tools>") {
		t.Error("unexpected tool call")
	}
}

func TestRegistryDispatch(t *testing.T) {
	echo := &echoTool{}
	r := NewRegistry(echo)

	res, err := r.Dispatch(context.Background(),
		`<tool><tool_name>echo</tool_name><arguments><text>hi</text></arguments></tool>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Output != "hi" || res.Tool != "echo" {
		t.Errorf("unexpected result %+v", res)
	}
	if res.Metadata["length"] != 2 {
		t.Errorf("unexpected metadata %v", res.Metadata)
	}

	if names := r.Names(); len(names) != 1 || names[0] != "echo" {
		t.Errorf("unexpected names %v", names)
	}
}

func TestRegistryDispatch_Errors(t *testing.T) {
	echo := &echoTool{fail: true}
	r := NewRegistry(echo)
	ctx := context.Background()

	if _, err := r.Dispatch(ctx, `<tool><tool_name>missing</tool_name></tool>`); err == nil || !strings.Contains(err.Error(), "unknown tool") {
		t.Errorf("expected unknown tool error, got %v", err)
	}
	if _, err := r.Dispatch(ctx, `<tool><server_name>remote</server_name><tool_name>echo</tool_name></tool>`); err == nil {
		t.Error("expected unknown server error")
	}
	if _, err := r.Dispatch(ctx, `<tool><tool_name>echo</tool_name></tool>`); err == nil || !strings.Contains(err.Error(), "boom") {
		t.Errorf("expected tool failure, got %v", err)
	}
	if echo.calls != 1 {
		t.Errorf("expected 1 call, got %d", echo.calls)
	}
}
