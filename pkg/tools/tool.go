// Package tools defines the tool surface an orchestrating agent uses to
// drive wheelhouse. Tools are invoked through XML-formatted calls and
// described by JSON schemas.
package tools

import (
	"context"
	"encoding/xml"
)

// Tool is a capability an agent can invoke.
//
// Example tool call format:
//
//	<tool>
//	<tool_name>browser_action</tool_name>
//	<arguments>
//	  <action>goto</action>
//	  <url>https://example.com</url>
//	</arguments>
//	</tool>
type Tool interface {
	// Name returns the unique identifier for this tool.
	Name() string

	// Description returns a human-readable description of the tool.
	Description() string

	// Schema returns the JSON schema for the tool's input parameters.
	Schema() map[string]interface{}

	// Execute runs the tool with XML-encoded arguments and returns the
	// result text.
	Execute(ctx context.Context, argumentsXML []byte) (string, error)
}

// ToolCall is a parsed tool invocation.
type ToolCall struct {
	XMLName   xml.Name       `xml:"tool"`
	ToolName  string         `xml:"tool_name"`
	Arguments ArgumentsBlock `xml:"arguments"`
}

// ArgumentsBlock holds the raw inner XML of the arguments element.
type ArgumentsBlock struct {
	InnerXML []byte `xml:",innerxml"`
}

// GetArgumentsXML returns the arguments re-wrapped in <arguments> tags for
// unmarshaling into a tool's argument struct.
func (tc *ToolCall) GetArgumentsXML() []byte {
	const prefix = "<arguments>"
	const suffix = "</arguments>"

	result := make([]byte, 0, len(prefix)+len(tc.Arguments.InnerXML)+len(suffix))
	result = append(result, prefix...)
	result = append(result, tc.Arguments.InnerXML...)
	result = append(result, suffix...)
	return result
}

// BaseToolSchema builds the common JSON schema wrapper for a tool's
// properties and required fields.
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
