package delta

import (
	"fmt"

	"github.com/gobwas/glob"
)

// TagFilter restricts growth reports to tags matching at least one glob
// pattern, such as "Ntf*" or "?ool". A filter with no patterns matches
// everything.
type TagFilter struct {
	patterns []string
	globs    []glob.Glob
}

// NewTagFilter compiles the given glob patterns into a filter.
//
// Returns an error naming the offending pattern when one does not compile.
func NewTagFilter(patterns ...string) (*TagFilter, error) {
	f := &TagFilter{
		patterns: patterns,
		globs:    make([]glob.Glob, 0, len(patterns)),
	}
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid tag pattern %q: %w", pattern, err)
		}
		f.globs = append(f.globs, g)
	}

	return f, nil
}

// Match reports whether the rendered tag passes the filter.
func (f *TagFilter) Match(tag string) bool {
	if len(f.globs) == 0 {
		return true
	}
	for _, g := range f.globs {
		if g.Match(tag) {
			return true
		}
	}

	return false
}

// Patterns returns the patterns the filter was built from.
func (f *TagFilter) Patterns() []string {
	return f.patterns
}
