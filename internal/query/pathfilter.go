package query

import (
	"fmt"
	"strings"

	"github.com/valter-silva-au/taskquery/pkg/models"
)

// PathFilter matches tasks whose file path contains the given text,
// case-insensitively. With negate set the test is inverted.
type PathFilter struct {
	text   string
	negate bool
}

// NewPathFilter builds a case-insensitive substring test over the task's path.
func NewPathFilter(text string, negate bool) *PathFilter {
	return &PathFilter{text: text, negate: negate}
}

func (f *PathFilter) Matches(ec *EvalContext, t models.Task) bool {
	found := strings.Contains(strings.ToLower(t.Path), strings.ToLower(f.text))
	return found != f.negate
}

func (f *PathFilter) Explain() string {
	if f.negate {
		return fmt.Sprintf("path does not include %q", f.text)
	}
	return fmt.Sprintf("path includes %q", f.text)
}

func (f *PathFilter) ExplainMatch(ec *EvalContext, t models.Task) string {
	return f.describe(t)
}

func (f *PathFilter) ExplainMismatch(ec *EvalContext, t models.Task) string {
	return f.describe(t)
}

func (f *PathFilter) describe(t models.Task) string {
	if t.Path == "" {
		return "task has no path"
	}
	if strings.Contains(strings.ToLower(t.Path), strings.ToLower(f.text)) {
		return fmt.Sprintf("path %q includes %q", t.Path, f.text)
	}
	return fmt.Sprintf("path %q does not include %q", t.Path, f.text)
}

// HeadingFilter matches tasks whose section heading contains the given text,
// case-insensitively. With negate set the test is inverted; a task with no
// heading fails the inclusion mode and passes the exclusion mode.
type HeadingFilter struct {
	text   string
	negate bool
}

// NewHeadingFilter builds a case-insensitive substring test over the task's
// heading.
func NewHeadingFilter(text string, negate bool) *HeadingFilter {
	return &HeadingFilter{text: text, negate: negate}
}

func (f *HeadingFilter) Matches(ec *EvalContext, t models.Task) bool {
	found := t.Heading != "" && strings.Contains(strings.ToLower(t.Heading), strings.ToLower(f.text))
	return found != f.negate
}

func (f *HeadingFilter) Explain() string {
	if f.negate {
		return fmt.Sprintf("heading does not include %q", f.text)
	}
	return fmt.Sprintf("heading includes %q", f.text)
}

func (f *HeadingFilter) ExplainMatch(ec *EvalContext, t models.Task) string {
	return f.describe(t)
}

func (f *HeadingFilter) ExplainMismatch(ec *EvalContext, t models.Task) string {
	return f.describe(t)
}

func (f *HeadingFilter) describe(t models.Task) string {
	if t.Heading == "" {
		return "task has no heading"
	}
	if strings.Contains(strings.ToLower(t.Heading), strings.ToLower(f.text)) {
		return fmt.Sprintf("heading %q includes %q", t.Heading, f.text)
	}
	return fmt.Sprintf("heading %q does not include %q", t.Heading, f.text)
}
