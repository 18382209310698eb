package browser

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	pdfapi "github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/playwright-community/playwright-go"

	"github.com/wheelhouse-hq/wheelhouse/pkg/action"
	"github.com/wheelhouse-hq/wheelhouse/pkg/htmlutil"
	"github.com/wheelhouse-hq/wheelhouse/pkg/storage"
)

// parseCoordinate parses an "x,y" pair, tolerating surrounding parentheses
// and whitespace.
func parseCoordinate(coordinate string) (float64, float64, error) {
	s := strings.TrimSpace(coordinate)
	s = strings.TrimPrefix(s, "(")
	s = strings.TrimSuffix(s, ")")

	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, argError("invalid coordinate %q, expected \"x,y\"", coordinate)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, argError("invalid coordinate %q, expected \"x,y\"", coordinate)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, argError("invalid coordinate %q, expected \"x,y\"", coordinate)
	}
	return x, y, nil
}

// GotoURL navigates a tab to the given URL.
func (m *TabManager) GotoURL(url, tabID string) (action.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	tab, err := m.resolveLocked(tabID)
	if err != nil {
		return nil, err
	}
	if _, err := tab.Page.Goto(url, playwright.PageGotoOptions{}); err != nil {
		return nil, opError(fmt.Sprintf("failed to navigate to %s", url), err)
	}
	return m.tabResultLocked(tab), nil
}

// Back navigates a tab one entry back in its history.
func (m *TabManager) Back(tabID string) (action.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	tab, err := m.resolveLocked(tabID)
	if err != nil {
		return nil, err
	}
	if _, err := tab.Page.GoBack(); err != nil {
		return nil, opError("failed to navigate back", err)
	}
	return m.tabResultLocked(tab), nil
}

// Forward navigates a tab one entry forward in its history.
func (m *TabManager) Forward(tabID string) (action.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	tab, err := m.resolveLocked(tabID)
	if err != nil {
		return nil, err
	}
	if _, err := tab.Page.GoForward(); err != nil {
		return nil, opError("failed to navigate forward", err)
	}
	return m.tabResultLocked(tab), nil
}

// Click clicks at a pixel coordinate.
func (m *TabManager) Click(coordinate, tabID string) (action.Result, error) {
	return m.pointer(coordinate, tabID, "click", func(tab *Tab, x, y float64) error {
		return tab.Page.Mouse().Click(x, y)
	})
}

// DoubleClick double-clicks at a pixel coordinate.
func (m *TabManager) DoubleClick(coordinate, tabID string) (action.Result, error) {
	return m.pointer(coordinate, tabID, "double click", func(tab *Tab, x, y float64) error {
		return tab.Page.Mouse().Dblclick(x, y)
	})
}

// Hover moves the pointer to a pixel coordinate.
func (m *TabManager) Hover(coordinate, tabID string) (action.Result, error) {
	return m.pointer(coordinate, tabID, "hover", func(tab *Tab, x, y float64) error {
		return tab.Page.Mouse().Move(x, y)
	})
}

func (m *TabManager) pointer(coordinate, tabID, what string, op func(tab *Tab, x, y float64) error) (action.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	tab, err := m.resolveLocked(tabID)
	if err != nil {
		return nil, err
	}
	x, y, err := parseCoordinate(coordinate)
	if err != nil {
		return nil, err
	}
	if err := op(tab, x, y); err != nil {
		return nil, opError(fmt.Sprintf("failed to %s at (%g, %g)", what, x, y), err)
	}
	return m.tabResultLocked(tab), nil
}

// Scroll scrolls the page one step in the given direction ("down" or "up").
func (m *TabManager) Scroll(direction, tabID string) (action.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	tab, err := m.resolveLocked(tabID)
	if err != nil {
		return nil, err
	}

	var delta float64
	switch direction {
	case "down":
		delta = scrollDelta
	case "up":
		delta = -scrollDelta
	default:
		return nil, argError("invalid scroll direction %q", direction)
	}

	if err := tab.Page.Mouse().Wheel(0, delta); err != nil {
		return nil, opError("failed to scroll "+direction, err)
	}
	return m.tabResultLocked(tab), nil
}

// TypeText types text into the focused element.
func (m *TabManager) TypeText(text, tabID string) (action.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	tab, err := m.resolveLocked(tabID)
	if err != nil {
		return nil, err
	}
	if err := tab.Page.Keyboard().Type(text); err != nil {
		return nil, opError("failed to type text", err)
	}
	return m.tabResultLocked(tab), nil
}

// PressKey presses a single key or key combination (e.g. "Enter",
// "Control+a").
func (m *TabManager) PressKey(key, tabID string) (action.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	tab, err := m.resolveLocked(tabID)
	if err != nil {
		return nil, err
	}
	if err := tab.Page.Keyboard().Press(key); err != nil {
		return nil, opError(fmt.Sprintf("failed to press key %q", key), err)
	}
	return m.tabResultLocked(tab), nil
}

// NewTab opens a new tab, optionally navigating it, and makes it active.
func (m *TabManager) NewTab(url string) (action.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return nil, opError("browser is not running", nil)
	}
	tab, err := m.openTabLocked(url)
	if err != nil {
		return nil, err
	}
	debugLog.Infof("Opened tab %s", tab.ID)
	return m.tabResultLocked(tab), nil
}

// SwitchTab makes the addressed tab active and brings it to the front.
func (m *TabManager) SwitchTab(tabID string) (action.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	tab, err := m.resolveLocked(tabID)
	if err != nil {
		return nil, err
	}
	if err := tab.Page.BringToFront(); err != nil {
		return nil, opError("failed to focus tab", err)
	}
	m.activeID = tab.ID
	return m.tabResultLocked(tab), nil
}

// CloseTab closes the addressed tab. If it was active, the most recently
// opened remaining tab becomes active.
func (m *TabManager) CloseTab(tabID string) (action.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	tab, err := m.resolveLocked(tabID)
	if err != nil {
		return nil, err
	}
	if err := tab.Page.Close(); err != nil {
		return nil, opError("failed to close tab", err)
	}
	m.removeTabLocked(tab.ID)
	debugLog.Infof("Closed tab %s", tab.ID)

	return action.Result{
		"tab_id":        tab.ID,
		"closed":        true,
		"active_tab_id": m.activeID,
		"screenshot":    "",
		"is_running":    true,
	}, nil
}

// ListTabs reports all open tabs in creation order.
func (m *TabManager) ListTabs() (action.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return nil, opError("browser is not running", nil)
	}

	infos := make([]TabInfo, 0, len(m.tabOrder))
	for _, id := range m.tabOrder {
		tab := m.tabs[id]
		title, _ := tab.Page.Title()
		infos = append(infos, TabInfo{
			ID:     tab.ID,
			URL:    tab.Page.URL(),
			Title:  title,
			Active: tab.ID == m.activeID,
		})
	}

	return action.Result{
		"tabs":          infos,
		"tab_id":        m.activeID,
		"active_tab_id": m.activeID,
		"screenshot":    "",
		"is_running":    true,
	}, nil
}

// WaitBrowser pauses for the given number of seconds. With a live tab the
// wait runs through the page, otherwise it is a plain sleep; either way a
// zero duration is a no-op, not an error.
func (m *TabManager) WaitBrowser(seconds float64, tabID string) (action.Result, error) {
	if seconds < 0 {
		return nil, argError("duration must not be negative, got %g", seconds)
	}

	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		time.Sleep(time.Duration(seconds * float64(time.Second)))
		return action.Result{
			"waited":     seconds,
			"tab_id":     tabID,
			"screenshot": "",
			"is_running": false,
		}, nil
	}
	defer m.mu.Unlock()

	tab, err := m.resolveLocked(tabID)
	if err != nil {
		return nil, err
	}
	tab.Page.WaitForTimeout(seconds * 1000)
	res := m.tabResultLocked(tab)
	res["waited"] = seconds
	return res, nil
}

// ExecuteJS evaluates a JavaScript expression in the tab and returns its
// value under "result".
func (m *TabManager) ExecuteJS(code, tabID string) (action.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	tab, err := m.resolveLocked(tabID)
	if err != nil {
		return nil, err
	}
	value, err := tab.Page.Evaluate(code)
	if err != nil {
		return nil, opError("javascript execution failed", err)
	}
	res := m.tabResultLocked(tab)
	res["result"] = value
	return res, nil
}

// SavePDF renders the tab to a PDF file and validates the written document.
func (m *TabManager) SavePDF(path, tabID string) (action.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	tab, err := m.resolveLocked(tabID)
	if err != nil {
		return nil, err
	}
	if _, err := tab.Page.PDF(playwright.PagePdfOptions{Path: playwright.String(path)}); err != nil {
		return nil, opError("failed to save PDF", err)
	}
	if err := pdfapi.ValidateFile(path, nil); err != nil {
		return nil, opError(fmt.Sprintf("saved PDF %s failed validation", path), err)
	}

	res := m.tabResultLocked(tab)
	res["file_path"] = path
	return res, nil
}

// GetConsoleLogs returns the tab's captured console messages, optionally
// clearing the buffer.
func (m *TabManager) GetConsoleLogs(tabID string, clear bool) (action.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	tab, err := m.resolveLocked(tabID)
	if err != nil {
		return nil, err
	}
	logs := tab.console.drain(clear)

	return action.Result{
		"logs":       logs,
		"tab_id":     tab.ID,
		"screenshot": "",
		"is_running": true,
	}, nil
}

// ViewSource returns the tab's HTML source with its title and meta
// description extracted.
func (m *TabManager) ViewSource(tabID string) (action.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	tab, err := m.resolveLocked(tabID)
	if err != nil {
		return nil, err
	}
	content, err := tab.Page.Content()
	if err != nil {
		return nil, opError("failed to read page source", err)
	}

	info := htmlutil.Inspect(content)
	return action.Result{
		"source":      content,
		"title":       info.Title,
		"description": info.Description,
		"url":         tab.Page.URL(),
		"tab_id":      tab.ID,
		"screenshot":  "",
		"is_running":  true,
	}, nil
}

// ExportSession persists the live session's storage state to path in
// canonical form and verifies the written file.
func (m *TabManager) ExportSession(path string) (action.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return nil, opError("browser is not running", nil)
	}

	state, err := storage.Save(m, path)
	if err != nil {
		return nil, opError("failed to export session", err)
	}

	return action.Result{
		"session_file": path,
		"cookie_count": len(state.Cookies),
		"origin_count": len(state.Origins),
		"tab_id":       m.activeID,
		"screenshot":   "",
		"is_running":   true,
	}, nil
}
