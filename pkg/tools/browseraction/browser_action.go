// Package browseraction exposes the action dispatcher as a single agent
// tool, browser_action, mirroring the one-entry-point contract of the
// dispatcher itself.
package browseraction

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"

	"github.com/wheelhouse-hq/wheelhouse/pkg/action"
	"github.com/wheelhouse-hq/wheelhouse/pkg/tools"
)

// Tool dispatches browser actions parsed from XML tool-call arguments.
type Tool struct {
	dispatcher *action.Dispatcher
}

// New creates the browser_action tool over a dispatcher.
func New(dispatcher *action.Dispatcher) *Tool {
	return &Tool{dispatcher: dispatcher}
}

// Name returns the tool name.
func (t *Tool) Name() string {
	return "browser_action"
}

// Description returns the tool description.
func (t *Tool) Description() string {
	return "Perform a browser action: navigate, interact with the page, manage tabs, run JavaScript, or export the session. " +
		"Each action requires a fixed subset of the parameters; failures are returned as structured results, never as tool errors."
}

// Schema returns the tool's JSON schema.
func (t *Tool) Schema() map[string]interface{} {
	return tools.BaseToolSchema(
		map[string]interface{}{
			"action": map[string]interface{}{
				"type": "string",
				"description": "Action to perform: launch, goto, back, forward, click, double_click, hover, type, " +
					"press_key, scroll_down, scroll_up, new_tab, switch_tab, close_tab, list_tabs, wait, execute_js, " +
					"save_pdf, get_console_logs, view_source, close, export_session",
			},
			"url": map[string]interface{}{
				"type":        "string",
				"description": "URL for launch, goto, and new_tab actions",
			},
			"coordinate": map[string]interface{}{
				"type":        "string",
				"description": "Pixel coordinate \"x,y\" for click, double_click, and hover actions",
			},
			"text": map[string]interface{}{
				"type":        "string",
				"description": "Text to type for the type action",
			},
			"tab_id": map[string]interface{}{
				"type":        "string",
				"description": "Target tab; defaults to the active tab. Required for switch_tab and close_tab",
			},
			"js_code": map[string]interface{}{
				"type":        "string",
				"description": "JavaScript to evaluate for the execute_js action",
			},
			"duration": map[string]interface{}{
				"type":        "number",
				"description": "Seconds to wait for the wait action; 0 is allowed",
			},
			"key": map[string]interface{}{
				"type":        "string",
				"description": "Key or key combination for the press_key action (e.g. Enter, Control+a)",
			},
			"file_path": map[string]interface{}{
				"type":        "string",
				"description": "Output path for save_pdf and export_session actions",
			},
			"clear": map[string]interface{}{
				"type":        "boolean",
				"description": "Clear the console buffer after get_console_logs",
			},
		},
		[]string{"action"},
	)
}

// browserActionInput mirrors action.Request for XML argument parsing.
type browserActionInput struct {
	XMLName    xml.Name `xml:"arguments"`
	Action     string   `xml:"action"`
	URL        string   `xml:"url"`
	Coordinate string   `xml:"coordinate"`
	Text       string   `xml:"text"`
	TabID      string   `xml:"tab_id"`
	JSCode     string   `xml:"js_code"`
	Duration   *float64 `xml:"duration"`
	Key        string   `xml:"key"`
	FilePath   string   `xml:"file_path"`
	Clear      bool     `xml:"clear"`
}

// Execute parses the arguments, dispatches the action, and returns the
// result as JSON. Validation and backend failures surface inside the result
// document, not as tool errors.
func (t *Tool) Execute(ctx context.Context, argsXML []byte) (string, error) {
	var input browserActionInput
	if err := tools.UnmarshalXMLWithFallback(argsXML, &input); err != nil {
		return "", fmt.Errorf("invalid parameters: %w", err)
	}
	if input.Action == "" {
		return "", fmt.Errorf("action is required")
	}

	res, err := t.dispatcher.Dispatch(ctx, action.Request{
		Action:     action.Action(input.Action),
		URL:        input.URL,
		Coordinate: input.Coordinate,
		Text:       input.Text,
		TabID:      input.TabID,
		JSCode:     input.JSCode,
		Duration:   input.Duration,
		Key:        input.Key,
		FilePath:   input.FilePath,
		Clear:      input.Clear,
	})
	if err != nil {
		return "", err
	}

	data, err := json.Marshal(res)
	if err != nil {
		return "", fmt.Errorf("failed to encode result: %w", err)
	}
	return string(data), nil
}
