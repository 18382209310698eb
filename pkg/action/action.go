package action

// Action identifies a single browser operation in the fixed vocabulary
// accepted by the dispatcher.
type Action string

const (
	// Navigation actions
	ActionLaunch  Action = "launch"
	ActionGoto    Action = "goto"
	ActionBack    Action = "back"
	ActionForward Action = "forward"

	// Interaction actions
	ActionClick       Action = "click"
	ActionDoubleClick Action = "double_click"
	ActionHover       Action = "hover"
	ActionType        Action = "type"
	ActionPressKey    Action = "press_key"
	ActionScrollDown  Action = "scroll_down"
	ActionScrollUp    Action = "scroll_up"

	// Tab management actions
	ActionNewTab    Action = "new_tab"
	ActionSwitchTab Action = "switch_tab"
	ActionCloseTab  Action = "close_tab"
	ActionListTabs  Action = "list_tabs"

	// Utility actions
	ActionWait           Action = "wait"
	ActionExecuteJS      Action = "execute_js"
	ActionSavePDF        Action = "save_pdf"
	ActionGetConsoleLogs Action = "get_console_logs"
	ActionViewSource     Action = "view_source"
	ActionClose          Action = "close"

	// Session management
	ActionExportSession Action = "export_session"
)

// Request carries one action invocation with its loosely-typed parameters.
// Each action requires a fixed subset of the optional fields; the dispatcher
// validates presence before the backend is called.
type Request struct {
	Action     Action   `json:"action" yaml:"action"`
	URL        string   `json:"url,omitempty" yaml:"url,omitempty"`
	Coordinate string   `json:"coordinate,omitempty" yaml:"coordinate,omitempty"`
	Text       string   `json:"text,omitempty" yaml:"text,omitempty"`
	TabID      string   `json:"tab_id,omitempty" yaml:"tab_id,omitempty"`
	JSCode     string   `json:"js_code,omitempty" yaml:"js_code,omitempty"`
	Duration   *float64 `json:"duration,omitempty" yaml:"duration,omitempty"`
	Key        string   `json:"key,omitempty" yaml:"key,omitempty"`
	FilePath   string   `json:"file_path,omitempty" yaml:"file_path,omitempty"`
	Clear      bool     `json:"clear,omitempty" yaml:"clear,omitempty"`
}

// Result is the mapping returned by every backend operation. Successful
// results carry enough context (tab_id, screenshot, is_running) for a caller
// to continue the session; failures carry an "error" key instead.
type Result map[string]interface{}

// Backend is the browser-control collaborator, one method per action name.
// Implementations report rejected parameters by wrapping ErrInvalidArgument
// and failed operations by wrapping ErrOperation; any other error is treated
// as fatal by the dispatcher.
type Backend interface {
	LaunchBrowser(url string) (Result, error)
	GotoURL(url, tabID string) (Result, error)
	Back(tabID string) (Result, error)
	Forward(tabID string) (Result, error)

	Click(coordinate, tabID string) (Result, error)
	DoubleClick(coordinate, tabID string) (Result, error)
	Hover(coordinate, tabID string) (Result, error)
	Scroll(direction, tabID string) (Result, error)
	TypeText(text, tabID string) (Result, error)
	PressKey(key, tabID string) (Result, error)

	NewTab(url string) (Result, error)
	SwitchTab(tabID string) (Result, error)
	CloseTab(tabID string) (Result, error)
	ListTabs() (Result, error)

	WaitBrowser(seconds float64, tabID string) (Result, error)
	ExecuteJS(code, tabID string) (Result, error)
	SavePDF(path, tabID string) (Result, error)
	GetConsoleLogs(tabID string, clear bool) (Result, error)
	ViewSource(tabID string) (Result, error)
	CloseBrowser() (Result, error)

	ExportSession(path string) (Result, error)
}
