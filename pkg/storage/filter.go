package storage

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

// FilterByDomain returns a copy of state keeping only cookies whose domain
// matches at least one glob pattern (e.g. "*.example.com"). A leading dot on
// the cookie domain is ignored for matching, since exports disagree on
// whether host-wide cookies carry one. Origins are preserved unchanged.
func FilterByDomain(state *State, patterns []string) (*State, error) {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p, '.')
		if err != nil {
			return nil, fmt.Errorf("invalid domain pattern %q: %w", p, err)
		}
		globs = append(globs, g)
	}

	filtered := &State{
		Cookies: make([]Cookie, 0, len(state.Cookies)),
		Origins: state.Origins,
	}
	for _, c := range state.Cookies {
		domain := strings.TrimPrefix(c.Domain, ".")
		for _, g := range globs {
			if g.Match(domain) {
				filtered.Cookies = append(filtered.Cookies, c)
				break
			}
		}
	}
	return filtered, nil
}
