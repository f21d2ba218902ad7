// Package mark decides which functions are interesting enough to arm
// detail-lane capture.
//
// Patterns are globs over function names ("db.*", "*.Flush",
// "net/http.**"). An armed match makes the next full detail ring of the
// matched threads durable; everything else keeps rolling over in shared
// memory only.
package mark

import (
	"fmt"

	"github.com/gobwas/glob"
)

// Config lists the function-name patterns that trigger marking.
type Config struct {
	// Patterns are glob expressions, separated on '.' so "pkg.*" matches
	// one path segment.
	Patterns []string `yaml:"patterns"`
}

// Policy is a compiled set of marking patterns.
type Policy struct {
	globs []glob.Glob
}

// New compiles the configured patterns.
func New(cfg Config) (*Policy, error) {
	globs := make([]glob.Glob, 0, len(cfg.Patterns))
	for _, p := range cfg.Patterns {
		g, err := glob.Compile(p, '.')
		if err != nil {
			return nil, fmt.Errorf("invalid mark pattern %q: %w", p, err)
		}
		globs = append(globs, g)
	}
	return &Policy{globs: globs}, nil
}

// Empty reports whether the policy can never match.
func (m *Policy) Empty() bool {
	return len(m.globs) == 0
}

// Match reports whether the function name arms marking.
func (m *Policy) Match(name string) bool {
	for _, g := range m.globs {
		if g.Match(name) {
			return true
		}
	}
	return false
}
