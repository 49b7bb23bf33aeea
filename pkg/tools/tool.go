// Package tools defines the XML tool-call format used to drive togglekit
// from scripts and other programs, and a registry that dispatches parsed calls.
package tools

import (
	"context"
	"encoding/xml"
	"fmt"
	"sort"
	"sync"
)

// Tool is a named capability invoked through an XML tool call.
//
// Example tool call:
//
//	<tool>
//	<server_name>local</server_name>
//	<tool_name>toggle_elements</tool_name>
//	<arguments>
//	  <session>main</session>
//	  <element_type>select</element_type>
//	</arguments>
//	</tool>
type Tool interface {
	// Name returns the unique identifier for this tool (e.g., "toggle_elements")
	Name() string

	// Description returns a human-readable description of what this tool does
	Description() string

	// Schema returns the JSON schema for this tool's input parameters
	Schema() map[string]interface{}

	// Execute runs the tool with the given XML arguments.
	// Returns: (result string, metadata map, error)
	// Metadata is optional and can be nil.
	Execute(ctx context.Context, argumentsXML []byte) (string, map[string]interface{}, error)
}

// ToolCall represents a parsed tool invocation
type ToolCall struct {
	XMLName    xml.Name       `xml:"tool"`
	ServerName string         `xml:"server_name"`
	ToolName   string         `xml:"tool_name"`
	Arguments  ArgumentsBlock `xml:"arguments"`
}

// ArgumentsBlock holds the raw XML of the arguments element
type ArgumentsBlock struct {
	InnerXML []byte `xml:",innerxml"`
}

// GetArgumentsXML returns the arguments wrapped in <arguments> tags for unmarshaling.
func (tc *ToolCall) GetArgumentsXML() []byte {
	const prefix = "<arguments>"
	const suffix = "</arguments>"

	result := make([]byte, 0, len(prefix)+len(tc.Arguments.InnerXML)+len(suffix))
	result = append(result, []byte(prefix)...)
	result = append(result, tc.Arguments.InnerXML...)
	result = append(result, []byte(suffix)...)
	return result
}

// BaseToolSchema creates a common JSON schema structure for a tool
// with the given properties and required fields
func BaseToolSchema(properties map[string]interface{}, required []string) map[string]interface{} {
	schema := map[string]interface{}{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

// Result is the outcome of a dispatched call.
type Result struct {
	Tool     string
	Output   string
	Metadata map[string]interface{}
}

// Registry maps tool names to tools.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
}

// NewRegistry creates a registry holding ts.
func NewRegistry(ts ...Tool) *Registry {
	r := &Registry{tools: make(map[string]Tool)}
	for _, t := range ts {
		r.Register(t)
	}
	return r
}

// Register adds or replaces a tool.
func (r *Registry) Register(t Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[t.Name()] = t
}

// Get looks a tool up by name.
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// Names returns the registered tool names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dispatch parses the first tool call in text and executes it.
func (r *Registry) Dispatch(ctx context.Context, text string) (*Result, error) {
	call, _, err := ParseToolCall(text)
	if err != nil {
		return nil, err
	}
	return r.Execute(ctx, call)
}

// Execute runs an already parsed call.
func (r *Registry) Execute(ctx context.Context, call *ToolCall) (*Result, error) {
	if call.ServerName != defaultServerName {
		return nil, fmt.Errorf("unknown server %q", call.ServerName)
	}

	tool, ok := r.Get(call.ToolName)
	if !ok {
		return nil, fmt.Errorf("unknown tool %q", call.ToolName)
	}

	out, meta, err := tool.Execute(ctx, call.GetArgumentsXML())
	if err != nil {
		return nil, fmt.Errorf("tool %s failed: %w", call.ToolName, err)
	}
	return &Result{Tool: call.ToolName, Output: out, Metadata: meta}, nil
}
