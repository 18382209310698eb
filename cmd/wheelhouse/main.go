// Package main provides the wheelhouse command line interface: one-shot
// cookie conversion and inspection, plus scripted browser-action runs
// against a live browser.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"

	"github.com/wheelhouse-hq/wheelhouse/pkg/action"
	"github.com/wheelhouse-hq/wheelhouse/pkg/browser"
	"github.com/wheelhouse-hq/wheelhouse/pkg/config"
	"github.com/wheelhouse-hq/wheelhouse/pkg/logging"
	"github.com/wheelhouse-hq/wheelhouse/pkg/storage"
)

const version = "0.1.0"

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// CLIConfig holds command-line configuration.
type CLIConfig struct {
	ConvertFile string
	OutFile     string
	Domains     string

	InspectFile string
	Copy        bool

	ScriptFile  string
	SessionFile string
	ConfigFile  string
	Headed      bool

	ShowVersion bool
}

func main() {
	cli := parseFlags()

	if cli.ShowVersion {
		fmt.Printf("wheelhouse v%s\n", version)
		return
	}

	debugLog, err := logging.NewLogger("cli")
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: file logging unavailable: %v\n", err)
	}
	defer debugLog.Close()

	var runErr error
	switch {
	case cli.ConvertFile != "":
		runErr = runConvert(cli)
	case cli.InspectFile != "":
		runErr = runInspect(cli)
	case cli.ScriptFile != "":
		runErr = runScript(cli, debugLog)
	default:
		flag.Usage()
		os.Exit(2)
	}

	if runErr != nil {
		debugLog.Errorf("command failed: %v", runErr)
		fmt.Fprintln(os.Stderr, errorStyle.Render(fmt.Sprintf("error: %v", runErr)))
		os.Exit(1)
	}
}

func parseFlags() *CLIConfig {
	cli := &CLIConfig{}

	flag.StringVar(&cli.ConvertFile, "convert", "", "Convert a cookie export to native storage state")
	flag.StringVar(&cli.OutFile, "out", "storage-state.json", "Output path for -convert")
	flag.StringVar(&cli.Domains, "domains", "", "Comma-separated domain globs to keep during -convert (e.g. \"*.example.com\")")

	flag.StringVar(&cli.InspectFile, "inspect", "", "Inspect a storage-state or cookie export file")
	flag.BoolVar(&cli.Copy, "copy", false, "Copy the normalized state to the clipboard during -inspect")

	flag.StringVar(&cli.ScriptFile, "script", "", "Run a YAML list of browser actions")
	flag.StringVar(&cli.SessionFile, "session-file", "", "Storage-state file applied at browser launch (overrides config and "+config.SessionFileEnvVar+")")
	flag.StringVar(&cli.ConfigFile, "config", "", "Path to YAML configuration file")
	flag.BoolVar(&cli.Headed, "headed", false, "Run the browser with a visible window")

	flag.BoolVar(&cli.ShowVersion, "version", false, "Show version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "wheelhouse - browser session automation\n\n")
		fmt.Fprintf(os.Stderr, "Usage: wheelhouse [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  # Convert a Cookie-Editor export to native storage state\n")
		fmt.Fprintf(os.Stderr, "  wheelhouse -convert cookies.json -out state.json -domains \"*.example.com\"\n\n")
		fmt.Fprintf(os.Stderr, "  # Inspect a session file\n")
		fmt.Fprintf(os.Stderr, "  wheelhouse -inspect state.json\n\n")
		fmt.Fprintf(os.Stderr, "  # Run scripted actions against a live browser\n")
		fmt.Fprintf(os.Stderr, "  wheelhouse -script actions.yaml -session-file state.json\n\n")
	}

	flag.Parse()
	return cli
}

// runConvert normalizes a cookie export into native storage state, optionally
// filtered to matching domains.
func runConvert(cli *CLIConfig) error {
	state, err := storage.Load(cli.ConvertFile)
	if err != nil {
		return err
	}

	total := len(state.Cookies)
	if cli.Domains != "" {
		patterns := splitPatterns(cli.Domains)
		state, err = storage.FilterByDomain(state, patterns)
		if err != nil {
			return err
		}
	}

	if err := storage.Write(state, cli.OutFile); err != nil {
		return err
	}

	msg := fmt.Sprintf("Wrote %d of %d cookies to %s", len(state.Cookies), total, cli.OutFile)
	fmt.Println(successStyle.Render(msg))
	return nil
}

// runInspect prints a normalized view of a storage-state or cookie export
// file without modifying it.
func runInspect(cli *CLIConfig) error {
	state, err := storage.Load(cli.InspectFile)
	if err != nil {
		return err
	}

	fmt.Println(headerStyle.Render(fmt.Sprintf("%s: %d cookies, %d origins",
		cli.InspectFile, len(state.Cookies), len(state.Origins))))

	for _, c := range state.Cookies {
		expiry := "session"
		if !c.IsSession() {
			expiry = fmt.Sprintf("%d", c.Expires)
		}
		flags := make([]string, 0, 2)
		if c.Secure {
			flags = append(flags, "secure")
		}
		if c.HTTPOnly {
			flags = append(flags, "httpOnly")
		}
		line := fmt.Sprintf("  %-30s %-25s %-10s %s",
			c.Name, c.Domain, c.SameSite, expiry)
		if len(flags) > 0 {
			line += dimStyle.Render(" [" + strings.Join(flags, ",") + "]")
		}
		fmt.Println(line)
	}

	if cli.Copy {
		data, err := json.MarshalIndent(state, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode state for clipboard: %w", err)
		}
		if err := clipboard.WriteAll(string(data)); err != nil {
			return fmt.Errorf("failed to copy state to clipboard: %w", err)
		}
		fmt.Println(successStyle.Render("Copied normalized state to clipboard"))
	}
	return nil
}

// runScript executes a YAML list of action requests against a live browser,
// stopping on the first fatal error. Recoverable failures are printed and
// the script continues, matching the dispatcher's failure-result contract.
func runScript(cli *CLIConfig, debugLog *logging.Logger) error {
	cfg, err := config.Load(cli.ConfigFile)
	if err != nil {
		return err
	}
	if cli.Headed {
		cfg.Headless = false
	}
	if err := cfg.ResolveSessionFile(cli.SessionFile); err != nil {
		return err
	}
	if err := cfg.ValidateSessionFile(); err != nil {
		return err
	}

	steps, err := loadScript(cli.ScriptFile)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nShutting down...")
		cancel()
	}()

	manager := browser.NewTabManager(cfg)
	defer func() {
		if err := manager.Shutdown(); err != nil {
			debugLog.Warnf("shutdown: %v", err)
		}
	}()
	dispatcher := action.NewDispatcher(manager)

	for i, req := range steps {
		fmt.Println(headerStyle.Render(fmt.Sprintf("[%d/%d] %s", i+1, len(steps), req.Action)))
		debugLog.Infof("step %d: %s", i+1, req.Action)

		res, err := dispatcher.Dispatch(ctx, req)
		if err != nil {
			return fmt.Errorf("step %d (%s): %w", i+1, req.Action, err)
		}
		printResult(res)
	}
	return nil
}

// loadScript decodes a YAML sequence of action requests.
func loadScript(path string) ([]action.Request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script file %s: %w", path, err)
	}

	var steps []action.Request
	if err := yaml.Unmarshal(data, &steps); err != nil {
		return nil, fmt.Errorf("failed to parse script file %s: %w", path, err)
	}
	if len(steps) == 0 {
		return nil, fmt.Errorf("script file %s contains no actions", path)
	}
	return steps, nil
}

// printResult renders one action result. Page source gets syntax
// highlighting on a terminal; screenshots are elided from the printed JSON
// since base64 blobs are useless on screen.
func printResult(res action.Result) {
	if errMsg, ok := res["error"].(string); ok {
		fmt.Println(errorStyle.Render("  failed: " + errMsg))
		return
	}

	if source, ok := res["source"].(string); ok && isTerminal() {
		if err := quick.Highlight(os.Stdout, source, "html", "terminal256", "monokai"); err != nil {
			fmt.Println(source)
		}
		fmt.Println()
		return
	}

	display := make(map[string]interface{}, len(res))
	for k, v := range res {
		if k == "screenshot" {
			if s, ok := v.(string); ok && s != "" {
				display[k] = fmt.Sprintf("<%d bytes>", len(s))
			}
			continue
		}
		display[k] = v
	}

	data, err := json.MarshalIndent(display, "  ", "  ")
	if err != nil {
		fmt.Printf("  %v\n", display)
		return
	}
	fmt.Println("  " + string(data))
}

func isTerminal() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

func splitPatterns(s string) []string {
	parts := strings.Split(s, ",")
	patterns := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			patterns = append(patterns, trimmed)
		}
	}
	return patterns
}
