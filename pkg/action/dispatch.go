package action

import (
	"context"
)

// Dispatcher routes action requests to the browser backend. It is the single
// entry point for callers (agent loops, scripts) and never lets a validation
// or backend error escape as an error value: those are converted into a
// structured failure Result so every call site sees a uniform shape.
type Dispatcher struct {
	backend Backend
}

// NewDispatcher creates a dispatcher over the given backend.
func NewDispatcher(backend Backend) *Dispatcher {
	return &Dispatcher{backend: backend}
}

// Action group membership. Keeping these as package-level sets makes adding
// a new action a single declaration-site change.
var (
	navigationActions = map[Action]bool{
		ActionLaunch:  true,
		ActionGoto:    true,
		ActionBack:    true,
		ActionForward: true,
	}

	interactionActions = map[Action]bool{
		ActionClick:       true,
		ActionDoubleClick: true,
		ActionHover:       true,
		ActionType:        true,
		ActionPressKey:    true,
		ActionScrollDown:  true,
		ActionScrollUp:    true,
	}

	tabActions = map[Action]bool{
		ActionNewTab:    true,
		ActionSwitchTab: true,
		ActionCloseTab:  true,
		ActionListTabs:  true,
	}

	utilityActions = map[Action]bool{
		ActionWait:           true,
		ActionExecuteJS:      true,
		ActionSavePDF:        true,
		ActionGetConsoleLogs: true,
		ActionViewSource:     true,
		ActionClose:          true,
	}
)

// Dispatch validates the request and invokes the matching backend operation.
// Validation errors, unknown actions, and backend errors wrapping
// ErrInvalidArgument or ErrOperation are returned as a failure Result with a
// nil error. Any other error (including context cancellation) propagates.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) (Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res, err := d.route(req)
	if err == nil {
		return res, nil
	}
	if recoverable(err) {
		return failureResult(err, req.TabID), nil
	}
	return nil, err
}

// failureResult shapes an error into the uniform failure record callers
// receive in place of a successful result.
func failureResult(err error, tabID string) Result {
	return Result{
		"error":      err.Error(),
		"tab_id":     tabID,
		"screenshot": "",
		"is_running": false,
	}
}

func (d *Dispatcher) route(req Request) (Result, error) {
	switch {
	case navigationActions[req.Action]:
		return d.routeNavigation(req)
	case interactionActions[req.Action]:
		return d.routeInteraction(req)
	case tabActions[req.Action]:
		return d.routeTab(req)
	case utilityActions[req.Action]:
		return d.routeUtility(req)
	case req.Action == ActionExportSession:
		if err := requireString(req.Action, "file_path", req.FilePath); err != nil {
			return nil, err
		}
		return d.backend.ExportSession(req.FilePath)
	default:
		return nil, &UnknownActionError{Action: req.Action}
	}
}

func (d *Dispatcher) routeNavigation(req Request) (Result, error) {
	switch req.Action {
	case ActionLaunch:
		return d.backend.LaunchBrowser(req.URL)
	case ActionGoto:
		if err := requireString(req.Action, "url", req.URL); err != nil {
			return nil, err
		}
		return d.backend.GotoURL(req.URL, req.TabID)
	case ActionBack:
		return d.backend.Back(req.TabID)
	case ActionForward:
		return d.backend.Forward(req.TabID)
	default:
		return nil, &UnknownActionError{Action: req.Action}
	}
}

func (d *Dispatcher) routeInteraction(req Request) (Result, error) {
	switch req.Action {
	case ActionClick, ActionDoubleClick, ActionHover:
		if err := requireString(req.Action, "coordinate", req.Coordinate); err != nil {
			return nil, err
		}
		pointerOps := map[Action]func(coordinate, tabID string) (Result, error){
			ActionClick:       d.backend.Click,
			ActionDoubleClick: d.backend.DoubleClick,
			ActionHover:       d.backend.Hover,
		}
		return pointerOps[req.Action](req.Coordinate, req.TabID)
	case ActionScrollDown, ActionScrollUp:
		direction := "down"
		if req.Action == ActionScrollUp {
			direction = "up"
		}
		return d.backend.Scroll(direction, req.TabID)
	case ActionType:
		if err := requireString(req.Action, "text", req.Text); err != nil {
			return nil, err
		}
		return d.backend.TypeText(req.Text, req.TabID)
	case ActionPressKey:
		if err := requireString(req.Action, "key", req.Key); err != nil {
			return nil, err
		}
		return d.backend.PressKey(req.Key, req.TabID)
	default:
		return nil, &UnknownActionError{Action: req.Action}
	}
}

func (d *Dispatcher) routeTab(req Request) (Result, error) {
	switch req.Action {
	case ActionNewTab:
		return d.backend.NewTab(req.URL)
	case ActionSwitchTab:
		if err := requireString(req.Action, "tab_id", req.TabID); err != nil {
			return nil, err
		}
		return d.backend.SwitchTab(req.TabID)
	case ActionCloseTab:
		if err := requireString(req.Action, "tab_id", req.TabID); err != nil {
			return nil, err
		}
		return d.backend.CloseTab(req.TabID)
	case ActionListTabs:
		return d.backend.ListTabs()
	default:
		return nil, &UnknownActionError{Action: req.Action}
	}
}

func (d *Dispatcher) routeUtility(req Request) (Result, error) {
	switch req.Action {
	case ActionWait:
		// Duration is checked for absence, not truthiness: 0 is a legal wait.
		if req.Duration == nil {
			return nil, &ValidationError{Param: "duration", Action: req.Action}
		}
		return d.backend.WaitBrowser(*req.Duration, req.TabID)
	case ActionExecuteJS:
		if err := requireString(req.Action, "js_code", req.JSCode); err != nil {
			return nil, err
		}
		return d.backend.ExecuteJS(req.JSCode, req.TabID)
	case ActionSavePDF:
		if err := requireString(req.Action, "file_path", req.FilePath); err != nil {
			return nil, err
		}
		return d.backend.SavePDF(req.FilePath, req.TabID)
	case ActionGetConsoleLogs:
		return d.backend.GetConsoleLogs(req.TabID, req.Clear)
	case ActionViewSource:
		return d.backend.ViewSource(req.TabID)
	case ActionClose:
		return d.backend.CloseBrowser()
	default:
		return nil, &UnknownActionError{Action: req.Action}
	}
}

func requireString(action Action, param, value string) error {
	if value == "" {
		return &ValidationError{Param: param, Action: action}
	}
	return nil
}
