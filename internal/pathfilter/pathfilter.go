// Package pathfilter decides which subdirectories take part in a run.
package pathfilter

import (
	"regexp"
	"strings"

	"github.com/srgsanky/recursive-runner/internal/types"
)

// PathFilter rejects hidden directories and directories matching any
// configured ignore pattern.
type PathFilter struct {
	ignoredPatterns []*regexp.Regexp
}

// New creates a PathFilter. A nil config yields a filter that only
// rejects hidden names. Patterns that fail to compile are dropped.
func New(config *types.PathFilterConfig) *PathFilter {
	pf := &PathFilter{}
	if config == nil {
		return pf
	}
	for _, pattern := range config.IgnoredPatterns {
		if re, ok := compileGlob(pattern); ok {
			pf.ignoredPatterns = append(pf.ignoredPatterns, re)
		}
	}
	return pf
}

// compileGlob converts a glob pattern to an anchored regex.
func compileGlob(pattern string) (*regexp.Regexp, bool) {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return nil, false
	}

	// Normalize separators and tolerate "dir/" style entries
	normalized := strings.ReplaceAll(pattern, "\\", "/")
	normalized = strings.TrimPrefix(normalized, "./")
	normalized = strings.TrimSuffix(normalized, "/")

	// Escape all regex special chars first, then unescape the glob ones
	regexPattern := regexp.QuoteMeta(normalized)
	regexPattern = strings.ReplaceAll(regexPattern, `\*\*`, ".*")
	regexPattern = strings.ReplaceAll(regexPattern, `\*`, "[^/]*")
	regexPattern = strings.ReplaceAll(regexPattern, `\?`, "[^/]")

	re, err := regexp.Compile("^" + regexPattern + "$")
	if err != nil {
		return nil, false
	}
	return re, true
}

// IsHidden reports whether name is a dot-file or dot-directory.
func IsHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

// IsAllowed checks whether a directory name may be visited.
func (pf *PathFilter) IsAllowed(name string) bool {
	name = strings.TrimPrefix(strings.ReplaceAll(name, "\\", "/"), "./")
	if name == "" || IsHidden(name) {
		return false
	}

	for _, re := range pf.ignoredPatterns {
		if re.MatchString(name) {
			return false
		}
	}
	return true
}
