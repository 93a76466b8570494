package query

import (
	"fmt"
	"strings"

	"github.com/valter-silva-au/taskquery/pkg/models"
)

// TagFilter matches tasks carrying a tag that contains the given text,
// case-insensitively. With negate set it matches tasks carrying no such tag.
type TagFilter struct {
	text   string
	negate bool
}

// NewTagFilter builds a case-insensitive substring test over the task's tags.
func NewTagFilter(text string, negate bool) *TagFilter {
	return &TagFilter{text: text, negate: negate}
}

func (f *TagFilter) matchingTag(t models.Task) (string, bool) {
	needle := strings.ToLower(f.text)
	for _, tag := range t.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return tag, true
		}
	}
	return "", false
}

func (f *TagFilter) Matches(ec *EvalContext, t models.Task) bool {
	_, found := f.matchingTag(t)
	return found != f.negate
}

func (f *TagFilter) Explain() string {
	if f.negate {
		return fmt.Sprintf("no tag includes %q", f.text)
	}
	return fmt.Sprintf("a tag includes %q", f.text)
}

func (f *TagFilter) ExplainMatch(ec *EvalContext, t models.Task) string {
	if tag, found := f.matchingTag(t); found {
		return fmt.Sprintf("tag %q includes %q", tag, f.text)
	}
	return fmt.Sprintf("no tag includes %q", f.text)
}

func (f *TagFilter) ExplainMismatch(ec *EvalContext, t models.Task) string {
	if tag, found := f.matchingTag(t); found {
		return fmt.Sprintf("tag %q includes %q", tag, f.text)
	}
	if len(t.Tags) == 0 {
		return "task has no tags"
	}
	return fmt.Sprintf("no tag includes %q", f.text)
}

// HasTagsFilter matches tasks that carry at least one tag, or none when
// negated.
type HasTagsFilter struct {
	negate bool
}

// NewHasTagsFilter builds a tag-presence check.
func NewHasTagsFilter(negate bool) *HasTagsFilter {
	return &HasTagsFilter{negate: negate}
}

func (f *HasTagsFilter) Matches(ec *EvalContext, t models.Task) bool {
	return (len(t.Tags) > 0) != f.negate
}

func (f *HasTagsFilter) Explain() string {
	if f.negate {
		return "task has no tags"
	}
	return "task has tags"
}

func (f *HasTagsFilter) ExplainMatch(ec *EvalContext, t models.Task) string {
	return f.describe(t)
}

func (f *HasTagsFilter) ExplainMismatch(ec *EvalContext, t models.Task) string {
	return f.describe(t)
}

func (f *HasTagsFilter) describe(t models.Task) string {
	if len(t.Tags) == 0 {
		return "task has no tags"
	}
	return fmt.Sprintf("task has tags %s", strings.Join(t.Tags, ", "))
}
