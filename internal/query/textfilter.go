package query

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/valter-silva-au/taskquery/pkg/models"
)

// DescriptionFilter matches tasks whose combined name and description
// contains the given text, case-insensitively. With negate set the test is
// inverted.
type DescriptionFilter struct {
	text   string
	negate bool
}

// NewDescriptionFilter builds a case-insensitive substring test over the
// task's name and description.
func NewDescriptionFilter(text string, negate bool) *DescriptionFilter {
	return &DescriptionFilter{text: text, negate: negate}
}

func (f *DescriptionFilter) Matches(ec *EvalContext, t models.Task) bool {
	found := strings.Contains(strings.ToLower(t.SearchText()), strings.ToLower(f.text))
	return found != f.negate
}

func (f *DescriptionFilter) Explain() string {
	if f.negate {
		return fmt.Sprintf("description does not include %q", f.text)
	}
	return fmt.Sprintf("description includes %q", f.text)
}

func (f *DescriptionFilter) ExplainMatch(ec *EvalContext, t models.Task) string {
	return f.describe(t)
}

func (f *DescriptionFilter) ExplainMismatch(ec *EvalContext, t models.Task) string {
	return f.describe(t)
}

func (f *DescriptionFilter) describe(t models.Task) string {
	if strings.Contains(strings.ToLower(t.SearchText()), strings.ToLower(f.text)) {
		return fmt.Sprintf("description includes %q", f.text)
	}
	return fmt.Sprintf("description does not include %q", f.text)
}

// RegexFilter matches tasks whose combined name and description matches a
// regular expression. The pattern compiles at construction, so malformed
// patterns surface as syntax errors rather than evaluation failures.
type RegexFilter struct {
	pattern *regexp.Regexp
	source  string
}

// NewRegexFilter compiles the pattern eagerly. caseInsensitive adds the (?i)
// flag, matching the trailing /i form of the clause.
func NewRegexFilter(pattern string, caseInsensitive bool) (*RegexFilter, error) {
	source := pattern
	if caseInsensitive {
		pattern = "(?i)" + pattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid regular expression /%s/: %w", source, err)
	}
	return &RegexFilter{pattern: re, source: source}, nil
}

func (f *RegexFilter) Matches(ec *EvalContext, t models.Task) bool {
	return f.pattern.MatchString(t.SearchText())
}

func (f *RegexFilter) Explain() string {
	return fmt.Sprintf("description matches /%s/", f.source)
}

func (f *RegexFilter) ExplainMatch(ec *EvalContext, t models.Task) string {
	if m := f.pattern.FindString(t.SearchText()); m != "" {
		return fmt.Sprintf("description matches /%s/ at %q", f.source, m)
	}
	return fmt.Sprintf("description matches /%s/", f.source)
}

func (f *RegexFilter) ExplainMismatch(ec *EvalContext, t models.Task) string {
	return fmt.Sprintf("description does not match /%s/", f.source)
}
