package browser

import (
	"time"

	"github.com/playwright-community/playwright-go"
)

// Tab is one open page in the managed browser context.
type Tab struct {
	// ID is the short identifier callers use to address this tab.
	ID string

	// Page is the underlying Playwright page.
	Page playwright.Page

	// CreatedAt is when the tab was opened.
	CreatedAt time.Time

	console *consoleBuffer
}

// TabInfo is the caller-visible summary of a tab, as returned by list_tabs.
type TabInfo struct {
	ID     string `json:"tab_id"`
	URL    string `json:"url"`
	Title  string `json:"title"`
	Active bool   `json:"active"`
}

// ConsoleEntry is one captured console message.
type ConsoleEntry struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Screenshot and scroll tuning.
const (
	screenshotQuality = 60
	scrollDelta       = 500.0
)
