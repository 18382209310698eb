// Package storage handles browser storage-state (cookie/session) portability.
// It detects the shape of imported cookie documents, normalizes them to one
// canonical persisted-session format, and persists live sessions back out in
// that format.
package storage

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/wheelhouse-hq/wheelhouse/pkg/logging"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var debugLog *logging.Logger

func init() {
	var err error
	debugLog, err = logging.NewLogger("storage")
	if err != nil {
		debugLog.Warnf("Failed to initialize storage logger, using stderr fallback: %v", err)
	}
}

// Format identifies the shape of an imported cookie document.
type Format string

const (
	// FormatNative is the canonical storage-state format: a document with
	// top-level "cookies" and "origins" sequences.
	FormatNative Format = "native"

	// FormatCookieArray is a flat array of cookie records, as exported by
	// Cookie-Editor, EditThisCookie, and similar browser extensions.
	FormatCookieArray Format = "cookie_array"

	// FormatUnknown is anything else.
	FormatUnknown Format = "unknown"
)

// SessionCookieExpiry is the sentinel expiry for cookies with no fixed
// expiration.
const SessionCookieExpiry int64 = -1

// Cookie is a single canonical cookie record.
type Cookie struct {
	Name     string `json:"name"`
	Value    string `json:"value"`
	Domain   string `json:"domain"`
	Path     string `json:"path"`
	HTTPOnly bool   `json:"httpOnly"`
	Secure   bool   `json:"secure"`
	Expires  int64  `json:"expires"`
	SameSite string `json:"sameSite"`
}

// IsSession reports whether the cookie has no fixed expiry.
func (c Cookie) IsSession() bool {
	return c.Expires == SessionCookieExpiry
}

// State is the canonical session-state document. All imports converge to
// this shape and all exports produce it. Origins are opaque per-origin
// storage blobs and pass through untouched.
type State struct {
	Cookies []Cookie      `json:"cookies"`
	Origins []interface{} `json:"origins"`
}

// Errors distinguishing the load/normalize failure kinds. Missing files are
// reported by wrapping the underlying os error, so errors.Is(err,
// fs.ErrNotExist) holds.
var (
	ErrUnsupportedFormat = errors.New("unsupported cookie format; supported formats: " +
		"native storage state, Cookie-Editor JSON export, EditThisCookie JSON export, JSON array of cookies")

	ErrMalformed = errors.New("storage state file is not valid JSON")
)

// DetectFormat classifies a parsed JSON document. The native check runs
// before the array check; order matters for documents that could satisfy
// both predicates.
func DetectFormat(doc interface{}) Format {
	if m, ok := doc.(map[string]interface{}); ok {
		if _, ok := m["cookies"].([]interface{}); ok {
			return FormatNative
		}
		return FormatUnknown
	}

	if arr, ok := doc.([]interface{}); ok && len(arr) > 0 {
		first, ok := arr[0].(map[string]interface{})
		if !ok {
			return FormatUnknown
		}
		_, hasName := first["name"]
		_, hasValue := first["value"]
		if hasName && hasValue {
			return FormatCookieArray
		}
	}

	return FormatUnknown
}

// Normalize converts a parsed JSON document of any supported shape into
// canonical session state. Native input only has its cookies re-normalized
// (idempotent) with origins passed through; cookie arrays get empty origins.
func Normalize(doc interface{}) (*State, error) {
	switch DetectFormat(doc) {
	case FormatNative:
		m := doc.(map[string]interface{})
		raw := m["cookies"].([]interface{})

		state := &State{
			Cookies: normalizeCookies(raw),
			Origins: []interface{}{},
		}
		if origins, ok := m["origins"].([]interface{}); ok {
			state.Origins = origins
		}
		return state, nil

	case FormatCookieArray:
		debugLog.Infof("Converting cookie array export to native storage state")
		return &State{
			Cookies: normalizeCookies(doc.([]interface{})),
			Origins: []interface{}{},
		}, nil

	default:
		return nil, ErrUnsupportedFormat
	}
}

func normalizeCookies(raw []interface{}) []Cookie {
	cookies := make([]Cookie, 0, len(raw))
	for _, entry := range raw {
		record, ok := entry.(map[string]interface{})
		if !ok {
			// Non-object entries carry nothing usable.
			continue
		}
		cookies = append(cookies, normalizeCookie(record))
	}
	return cookies
}

// normalizeCookie maps one loosely-typed cookie record to canonical form.
func normalizeCookie(record map[string]interface{}) Cookie {
	return Cookie{
		Name:     stringField(record, "name", ""),
		Value:    stringField(record, "value", ""),
		Domain:   stringField(record, "domain", ""),
		Path:     stringField(record, "path", "/"),
		HTTPOnly: boolField(record, "httpOnly"),
		Secure:   boolField(record, "secure"),
		Expires:  normalizeExpires(record),
		SameSite: normalizeSameSite(record["sameSite"]),
	}
}

// stringField reads a string value from a loosely-typed record, falling
// back to def when the key is absent or not a string.
func stringField(record map[string]interface{}, key, def string) string {
	if s, ok := record[key].(string); ok {
		return s
	}
	return def
}

// boolField reads a bool value from a loosely-typed record; absent or
// non-bool values read as false.
func boolField(record map[string]interface{}, key string) bool {
	b, _ := record[key].(bool)
	return b
}

// normalizeExpires reads "expires" or, failing that, "expirationDate".
// Numeric strings are coerced, floats truncated, and a literal 0 remapped to
// the session-cookie sentinel. That remap follows the native format's
// convention even for sources that use 0 to mean "no expiry".
func normalizeExpires(record map[string]interface{}) int64 {
	v, ok := record["expires"]
	if !ok {
		v, ok = record["expirationDate"]
	}
	if !ok {
		return SessionCookieExpiry
	}

	var expires int64
	switch t := v.(type) {
	case float64:
		expires = int64(t)
	case int:
		expires = int64(t)
	case int64:
		expires = t
	case string:
		n, err := strconv.ParseInt(t, 10, 64)
		if err != nil {
			return SessionCookieExpiry
		}
		expires = n
	default:
		return SessionCookieExpiry
	}

	if expires == 0 {
		return SessionCookieExpiry
	}
	return expires
}

// sameSiteAliases maps the lowercase forms seen in third-party exports to
// the three canonical values.
var sameSiteAliases = map[string]string{
	"lax":            "Lax",
	"strict":         "Strict",
	"none":           "None",
	"no_restriction": "None",
	"unspecified":    "Lax",
}

// normalizeSameSite maps any sameSite value onto a canonical one. Unknown
// non-empty strings are capitalized and passed through, tolerant of values
// this code does not know about yet.
func normalizeSameSite(v interface{}) string {
	s, ok := v.(string)
	if !ok {
		return "Lax"
	}

	trimmed := strings.ToLower(strings.TrimSpace(s))
	if trimmed == "" {
		return "Lax"
	}
	if canonical, ok := sameSiteAliases[trimmed]; ok {
		return canonical
	}
	return capitalize(s)
}

// capitalize uppercases the first byte and lowercases the rest, matching
// how unrecognized sameSite values are carried forward.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

// Load reads a storage-state file, parses it, and normalizes it to
// canonical form. Failures are distinct for a missing file, malformed JSON,
// and an unsupported document shape.
func Load(path string) (*State, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("storage state file not found: %s: %w", path, err)
		}
		return nil, fmt.Errorf("failed to read storage state file %s: %w", path, err)
	}

	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	state, err := Normalize(doc)
	if err != nil {
		return nil, err
	}

	debugLog.Infof("Loaded storage state from %s: %d cookies, %d origins",
		path, len(state.Cookies), len(state.Origins))
	return state, nil
}

// Write persists canonical session state to path.
func Write(state *State, path string) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode storage state: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage state file %s: %w", path, err)
	}
	return nil
}

// Exporter is the live-session collaborator that can persist its storage
// state to a file. The browser backend's context implements this.
type Exporter interface {
	WriteStorageState(path string) error
}

// Save persists a live session's storage state to path and re-reads the
// file to confirm integrity. The verified state is returned so callers can
// report cookie counts.
func Save(exp Exporter, path string) (*State, error) {
	debugLog.Infof("Saving storage state to %s", path)

	if err := exp.WriteStorageState(path); err != nil {
		return nil, fmt.Errorf("storage state save failed: %w", err)
	}

	state, err := Load(path)
	if err != nil {
		return nil, fmt.Errorf("storage state verification failed: %w", err)
	}

	debugLog.Infof("Saved storage state with %d cookies", len(state.Cookies))
	return state, nil
}
