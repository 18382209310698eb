// Package browser implements the browser-control backend on top of
// Playwright. A TabManager owns one browser context and a set of tabs, and
// exposes one method per dispatcher action.
package browser

import (
	"encoding/base64"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/playwright-community/playwright-go"

	"github.com/wheelhouse-hq/wheelhouse/pkg/action"
	"github.com/wheelhouse-hq/wheelhouse/pkg/config"
	"github.com/wheelhouse-hq/wheelhouse/pkg/logging"
)

var debugLog *logging.Logger

func init() {
	var err error
	debugLog, err = logging.NewLogger("browser")
	if err != nil {
		debugLog.Warnf("Failed to initialize browser logger, using stderr fallback: %v", err)
	}
}

// TabManager manages the Playwright browser, its context, and all open
// tabs. It implements action.Backend.
type TabManager struct {
	mu       sync.Mutex
	cfg      *config.Config
	pw       *playwright.Playwright
	browser  playwright.Browser
	context  playwright.BrowserContext
	tabs     map[string]*Tab
	tabOrder []string
	activeID string
	running  bool
}

var _ action.Backend = (*TabManager)(nil)

// NewTabManager creates a manager with the given configuration. The browser
// itself starts on the first launch action.
func NewTabManager(cfg *config.Config) *TabManager {
	if cfg == nil {
		cfg = config.Default()
	}
	return &TabManager{
		cfg:  cfg,
		tabs: make(map[string]*Tab),
	}
}

// argError wraps a parameter rejection so the dispatcher folds it into a
// failure result.
func argError(format string, v ...interface{}) error {
	return fmt.Errorf(format+": %w", append(v, action.ErrInvalidArgument)...)
}

// opError wraps a failed browser operation, preserving the driver error.
func opError(context string, err error) error {
	if err == nil {
		return fmt.Errorf("%s: %w", context, action.ErrOperation)
	}
	return fmt.Errorf("%s: %v: %w", context, err, action.ErrOperation)
}

// ensurePlaywright installs and starts the Playwright driver once per
// manager. Driver output is discarded to keep stdout clean for callers.
func (m *TabManager) ensurePlaywright() error {
	if m.pw != nil {
		return nil
	}

	opts := &playwright.RunOptions{
		Verbose: false,
		Stdout:  io.Discard,
		Stderr:  io.Discard,
	}
	if err := playwright.Install(opts); err != nil {
		return opError("failed to install playwright", err)
	}
	pw, err := playwright.Run(opts)
	if err != nil {
		return opError("failed to start playwright", err)
	}
	m.pw = pw
	return nil
}

// LaunchBrowser starts the browser, creates the initial tab, and optionally
// navigates it. The configured session file, if any, seeds the context's
// storage state.
func (m *TabManager) LaunchBrowser(url string) (action.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return nil, argError("browser is already running")
	}
	if err := m.ensurePlaywright(); err != nil {
		return nil, err
	}

	browser, err := m.pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(m.cfg.Headless),
	})
	if err != nil {
		return nil, opError("failed to launch browser", err)
	}

	contextOpts := playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  m.cfg.Viewport.Width,
			Height: m.cfg.Viewport.Height,
		},
	}
	if m.cfg.SessionFile != "" {
		debugLog.Infof("Seeding browser context from session file %s", m.cfg.SessionFile)
		contextOpts.StorageStatePath = playwright.String(m.cfg.SessionFile)
	}

	context, err := browser.NewContext(contextOpts)
	if err != nil {
		browser.Close()
		return nil, opError("failed to create browser context", err)
	}

	m.browser = browser
	m.context = context
	m.running = true

	tab, err := m.openTabLocked(url)
	if err != nil {
		m.teardownLocked()
		return nil, err
	}

	debugLog.Infof("Browser launched, initial tab %s", tab.ID)
	return m.tabResultLocked(tab), nil
}

// openTabLocked creates a page, registers its console listener, and makes
// it the active tab. Callers hold m.mu.
func (m *TabManager) openTabLocked(url string) (*Tab, error) {
	page, err := m.context.NewPage()
	if err != nil {
		return nil, opError("failed to open tab", err)
	}
	page.SetDefaultTimeout(m.cfg.TimeoutSeconds * 1000)

	tab := &Tab{
		ID:        uuid.New().String()[:8],
		Page:      page,
		CreatedAt: time.Now(),
		console:   newConsoleBuffer(m.cfg.ConsoleLogLimit),
	}
	page.OnConsole(func(msg playwright.ConsoleMessage) {
		tab.console.add(ConsoleEntry{Type: msg.Type(), Text: msg.Text()})
	})

	m.tabs[tab.ID] = tab
	m.tabOrder = append(m.tabOrder, tab.ID)
	m.activeID = tab.ID

	if url != "" {
		if _, err := page.Goto(url, playwright.PageGotoOptions{}); err != nil {
			return nil, opError(fmt.Sprintf("failed to navigate to %s", url), err)
		}
	}
	return tab, nil
}

// resolveLocked returns the addressed tab, defaulting to the active one.
func (m *TabManager) resolveLocked(tabID string) (*Tab, error) {
	if !m.running {
		return nil, opError("browser is not running", nil)
	}
	if tabID == "" {
		tabID = m.activeID
	}
	tab, ok := m.tabs[tabID]
	if !ok {
		return nil, argError("unknown tab_id %q", tabID)
	}
	return tab, nil
}

// tabResultLocked builds the standard success result for a tab: enough
// context for a caller to continue the session.
func (m *TabManager) tabResultLocked(tab *Tab) action.Result {
	title, _ := tab.Page.Title()
	return action.Result{
		"tab_id":     tab.ID,
		"url":        tab.Page.URL(),
		"title":      title,
		"screenshot": m.screenshot(tab),
		"is_running": true,
	}
}

// screenshot captures the tab as base64 JPEG. Failures degrade to an empty
// string; a missing screenshot never fails the action that produced it.
func (m *TabManager) screenshot(tab *Tab) string {
	data, err := tab.Page.Screenshot(playwright.PageScreenshotOptions{
		Type:    playwright.ScreenshotTypeJpeg,
		Quality: playwright.Int(screenshotQuality),
	})
	if err != nil {
		debugLog.Debugf("Screenshot failed for tab %s: %v", tab.ID, err)
		return ""
	}
	return base64.StdEncoding.EncodeToString(data)
}

// removeTabLocked drops a tab from the bookkeeping and repoints the active
// tab at the most recently opened remaining one.
func (m *TabManager) removeTabLocked(tabID string) {
	delete(m.tabs, tabID)
	for i, id := range m.tabOrder {
		if id == tabID {
			m.tabOrder = append(m.tabOrder[:i], m.tabOrder[i+1:]...)
			break
		}
	}
	if m.activeID == tabID {
		m.activeID = ""
		if len(m.tabOrder) > 0 {
			m.activeID = m.tabOrder[len(m.tabOrder)-1]
		}
	}
}

// teardownLocked closes every tab, the context, and the browser.
func (m *TabManager) teardownLocked() {
	for _, tab := range m.tabs {
		_ = tab.Page.Close()
	}
	m.tabs = make(map[string]*Tab)
	m.tabOrder = nil
	m.activeID = ""

	if m.context != nil {
		_ = m.context.Close()
		m.context = nil
	}
	if m.browser != nil {
		_ = m.browser.Close()
		m.browser = nil
	}
	m.running = false
}

// CloseBrowser shuts the browser down. The Playwright driver stays up so a
// later launch action can reuse it.
func (m *TabManager) CloseBrowser() (action.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return nil, opError("browser is not running", nil)
	}
	m.teardownLocked()
	debugLog.Infof("Browser closed")

	return action.Result{
		"tab_id":     "",
		"screenshot": "",
		"is_running": false,
	}, nil
}

// Shutdown closes the browser and stops the Playwright driver. Intended for
// process exit.
func (m *TabManager) Shutdown() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.teardownLocked()
	if m.pw != nil {
		if err := m.pw.Stop(); err != nil {
			return fmt.Errorf("failed to stop playwright: %w", err)
		}
		m.pw = nil
	}
	return nil
}

// WriteStorageState persists the live context's storage state to path. It
// satisfies storage.Exporter; ExportSession holds the manager lock while
// calling through.
func (m *TabManager) WriteStorageState(path string) error {
	if m.context == nil {
		return fmt.Errorf("no browser context")
	}
	_, err := m.context.StorageState(path)
	return err
}
