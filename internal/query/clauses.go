package query

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/valter-silva-au/taskquery/pkg/models"
)

// clauseParser consumes the words of one leaf clause. All keywords are
// matched case-insensitively; operand words keep their original spelling.
type clauseParser struct {
	words []word
	pos   int
	line  int
}

// peek returns the lowercased next word without consuming it.
func (c *clauseParser) peek() string {
	if c.pos >= len(c.words) {
		return ""
	}
	return strings.ToLower(c.words[c.pos].text)
}

// next consumes and returns the next word verbatim.
func (c *clauseParser) next() string {
	w := c.words[c.pos].text
	c.pos++
	return w
}

// accept consumes the next word if it equals the keyword,
// case-insensitively.
func (c *clauseParser) accept(keyword string) bool {
	if c.peek() == keyword {
		c.pos++
		return true
	}
	return false
}

// column returns the column of the next word, or of the clause end when all
// words are consumed.
func (c *clauseParser) column() int {
	if c.pos < len(c.words) {
		return c.words[c.pos].column
	}
	last := c.words[len(c.words)-1]
	return last.column + len(last.text)
}

// rest consumes the remaining words and returns them joined with single
// spaces, as the free-text operand of the clause.
func (c *clauseParser) rest() string {
	parts := make([]string, 0, len(c.words)-c.pos)
	for ; c.pos < len(c.words); c.pos++ {
		parts = append(parts, c.words[c.pos].text)
	}
	return strings.Join(parts, " ")
}

// restRequired is rest, erroring when no operand words remain.
func (c *clauseParser) restRequired(what string) (string, *SyntaxError) {
	if c.pos >= len(c.words) {
		return "", c.errorf("missing %s", what)
	}
	return c.rest(), nil
}

// done reports whether all words are consumed.
func (c *clauseParser) done() bool {
	return c.pos >= len(c.words)
}

// finish errors when unconsumed words remain after a complete clause.
func (c *clauseParser) finish(f Filter) (Filter, *SyntaxError) {
	if !c.done() {
		return nil, c.errorf("unexpected %q after complete clause", c.words[c.pos].text)
	}
	return f, nil
}

func (c *clauseParser) errorf(format string, args ...interface{}) *SyntaxError {
	return &SyntaxError{
		Message: fmt.Sprintf(format, args...),
		Line:    c.line,
		Column:  c.column(),
	}
}

// parseClause turns the words of one leaf clause into a compiled filter.
func parseClause(words []word, line int) (Filter, *SyntaxError) {
	c := &clauseParser{words: words, line: line}

	head := c.peek()
	switch head {
	case "done":
		if len(words) == 1 {
			c.next()
			return NewDoneFilter(false), nil
		}
		return c.parseDateClause()
	case "not":
		c.next()
		if c.accept("done") {
			return c.finish(NewDoneFilter(true))
		}
		return nil, c.errorf("expected \"done\" after \"not\"")
	case "has", "no":
		return c.parsePresenceClause()
	case "is":
		return c.parseIsClause()
	case "status":
		return c.parseStatusClause()
	case "priority":
		return c.parsePriorityClause()
	case "tag":
		return c.parseTagClause()
	case "path":
		return c.parseTextClause("path")
	case "heading":
		return c.parseTextClause("heading")
	case "description":
		return c.parseDescriptionClause()
	case "urgency":
		return c.parseUrgencyClause()
	case "attention":
		return c.parseAttentionClause()
	case "escalation":
		return c.parseEscalationClause()
	case "due", "scheduled", "start", "starts", "created", "cancelled":
		return c.parseDateClause()
	}

	err := c.errorf("unknown filter keyword %q", words[0].text)
	err.Suggestion = suggestKeyword(head, clauseKeywords)
	return nil, err
}

// parsePresenceClause handles "has tags", "no tags", "has <field> date", and
// "no <field> date".
func (c *clauseParser) parsePresenceClause() (Filter, *SyntaxError) {
	negate := strings.ToLower(c.next()) == "no"

	if c.accept("tags") {
		return c.finish(NewHasTagsFilter(negate))
	}

	fieldWord := c.peek()
	if fieldWord == "" {
		return nil, c.errorf("expected a date field or \"tags\"")
	}
	if _, ok := dateFieldAccessors[fieldWord]; !ok {
		err := c.errorf("unknown date field %q", c.words[c.pos].text)
		err.Suggestion = suggestKeyword(fieldWord, presenceKeywords)
		return nil, err
	}
	c.next()
	if !c.accept("date") {
		return nil, c.errorf("expected \"date\" after field name")
	}
	f, buildErr := NewHasDateFilter(fieldWord, negate)
	if buildErr != nil {
		return nil, c.errorf("%v", buildErr)
	}
	return c.finish(f)
}

// parseIsClause handles "is [not] recurring|blocked|blocking".
func (c *clauseParser) parseIsClause() (Filter, *SyntaxError) {
	c.next() // "is"
	negate := c.accept("not")

	switch c.peek() {
	case "recurring":
		c.next()
		return c.finish(NewRecurrenceFilter(negate))
	case "blocked":
		c.next()
		return c.finish(NewBlockedFilter(negate))
	case "blocking":
		c.next()
		return c.finish(NewBlockingFilter(negate))
	case "":
		return nil, c.errorf("expected \"recurring\", \"blocked\", or \"blocking\"")
	}

	err := c.errorf("unknown state %q", c.words[c.pos].text)
	err.Suggestion = suggestKeyword(c.peek(), []string{"recurring", "blocked", "blocking"})
	return nil, err
}

// parseStatusClause handles "status is <name>", "status type is <type>",
// "status name is <name>", and "status symbol is <symbol>".
func (c *clauseParser) parseStatusClause() (Filter, *SyntaxError) {
	c.next() // "status"

	switch {
	case c.accept("type"):
		if !c.accept("is") {
			return nil, c.errorf("expected \"is\" after \"status type\"")
		}
		operand, err := c.restRequired("status type")
		if err != nil {
			return nil, err
		}
		typ, ok := models.ParseStatusType(operand)
		if !ok {
			serr := c.errorf("unknown status type %q", operand)
			serr.Suggestion = suggestKeyword(operand, []string{"todo", "in_progress", "done", "cancelled", "non_task"})
			return nil, serr
		}
		return NewStatusTypeFilter(typ), nil
	case c.accept("name"):
		if !c.accept("is") {
			return nil, c.errorf("expected \"is\" after \"status name\"")
		}
		operand, err := c.restRequired("status name")
		if err != nil {
			return nil, err
		}
		return NewStatusNameFilter(operand), nil
	case c.accept("symbol"):
		if !c.accept("is") {
			return nil, c.errorf("expected \"is\" after \"status symbol\"")
		}
		operand, err := c.restRequired("status symbol")
		if err != nil {
			return nil, err
		}
		return NewStatusSymbolFilter(operand), nil
	case c.accept("is"):
		// Bare "status is X" accepts a type when X names one, a name
		// otherwise.
		operand, err := c.restRequired("status")
		if err != nil {
			return nil, err
		}
		if typ, ok := models.ParseStatusType(operand); ok {
			return NewStatusTypeFilter(typ), nil
		}
		return NewStatusNameFilter(operand), nil
	}

	return nil, c.errorf("expected \"is\", \"type\", \"name\", or \"symbol\" after \"status\"")
}

// parsePriorityClause handles "priority is [above|below|at least|at most]
// <level>".
func (c *clauseParser) parsePriorityClause() (Filter, *SyntaxError) {
	c.next() // "priority"
	if !c.accept("is") {
		return nil, c.errorf("expected \"is\" after \"priority\"")
	}

	comparator := prioIs
	switch {
	case c.accept("above"):
		comparator = prioAbove
	case c.accept("below"):
		comparator = prioBelow
	case c.accept("at"):
		switch {
		case c.accept("least"):
			comparator = prioAtLeast
		case c.accept("most"):
			comparator = prioAtMost
		default:
			return nil, c.errorf("expected \"least\" or \"most\" after \"at\"")
		}
	}

	if c.done() {
		return nil, c.errorf("missing priority level")
	}
	operand := c.next()
	level, ok := models.ParsePriority(operand)
	if !ok {
		err := c.errorf("unknown priority %q", operand)
		err.Suggestion = suggestKeyword(operand, []string{"lowest", "low", "none", "medium", "high", "highest"})
		return nil, err
	}
	return c.finish(NewPriorityFilter(comparator, level))
}

// parseTagClause handles "tag includes <text>" and
// "tag does not include <text>".
func (c *clauseParser) parseTagClause() (Filter, *SyntaxError) {
	c.next() // "tag"
	negate, err := c.parseIncludes("tag")
	if err != nil {
		return nil, err
	}
	operand, err := c.restRequired("tag text")
	if err != nil {
		return nil, err
	}
	return NewTagFilter(operand, negate), nil
}

// parseIncludes consumes "includes" or "does not include", reporting the
// negated form.
func (c *clauseParser) parseIncludes(what string) (bool, *SyntaxError) {
	switch {
	case c.accept("includes"):
		return false, nil
	case c.accept("does"):
		if !c.accept("not") {
			return false, c.errorf("expected \"not\" after \"does\"")
		}
		if !c.accept("include") {
			return false, c.errorf("expected \"include\" after \"does not\"")
		}
		return true, nil
	}
	if c.done() {
		return false, c.errorf("expected \"includes\" after %q", what)
	}
	serr := c.errorf("expected \"includes\" after %q, got %q", what, c.words[c.pos].text)
	serr.Suggestion = suggestKeyword(c.peek(), []string{"includes"})
	return false, serr
}

// parseTextClause handles "path ..." and "heading ..." substring clauses.
func (c *clauseParser) parseTextClause(field string) (Filter, *SyntaxError) {
	c.next() // field keyword
	negate, err := c.parseIncludes(field)
	if err != nil {
		return nil, err
	}
	operand, err := c.restRequired(field + " text")
	if err != nil {
		return nil, err
	}
	if field == "path" {
		return NewPathFilter(operand, negate), nil
	}
	return NewHeadingFilter(operand, negate), nil
}

// parseDescriptionClause handles the plain substring form and the
// "description regex /pattern/" form.
func (c *clauseParser) parseDescriptionClause() (Filter, *SyntaxError) {
	c.next() // "description"

	if c.accept("regex") {
		if c.done() {
			return nil, c.errorf("missing regex pattern")
		}
		literal := c.next()
		pattern, caseInsensitive, ok := splitRegexLiteral(literal)
		if !ok {
			return nil, c.errorf("regex pattern must be delimited by slashes, like /pattern/")
		}
		f, buildErr := NewRegexFilter(pattern, caseInsensitive)
		if buildErr != nil {
			// Surface malformed patterns as syntax errors at parse time.
			c.pos--
			return nil, c.errorf("%v", buildErr)
		}
		return c.finish(f)
	}

	negate, err := c.parseIncludes("description")
	if err != nil {
		return nil, err
	}
	operand, err := c.restRequired("description text")
	if err != nil {
		return nil, err
	}
	return NewDescriptionFilter(operand, negate), nil
}

// splitRegexLiteral strips the slash delimiters and optional trailing i flag
// from a /pattern/ literal.
func splitRegexLiteral(literal string) (pattern string, caseInsensitive bool, ok bool) {
	if !strings.HasPrefix(literal, "/") {
		return "", false, false
	}
	body := literal[1:]
	if strings.HasSuffix(body, "/i") {
		return body[:len(body)-2], true, true
	}
	if strings.HasSuffix(body, "/") && len(body) >= 1 {
		return body[:len(body)-1], false, true
	}
	return "", false, false
}

// parseDateClause handles "<field> <comparator> <date>" and
// "<field> between <date> and <date>".
func (c *clauseParser) parseDateClause() (Filter, *SyntaxError) {
	field := strings.ToLower(c.next())

	comparator, err := c.parseDateComparator()
	if err != nil {
		return nil, err
	}

	first, err := c.parseDateOperand()
	if err != nil {
		return nil, err
	}

	var second dateValue
	if comparator == cmpBetween {
		if !c.accept("and") {
			return nil, c.errorf("expected \"and\" between the two dates")
		}
		second, err = c.parseDateOperand()
		if err != nil {
			return nil, err
		}
	}

	f, buildErr := NewDateFilter(field, comparator, first, second)
	if buildErr != nil {
		return nil, c.errorf("%v", buildErr)
	}
	return c.finish(f)
}

func (c *clauseParser) parseDateComparator() (dateComparator, *SyntaxError) {
	switch {
	case c.accept("before"):
		return cmpBefore, nil
	case c.accept("after"):
		return cmpAfter, nil
	case c.accept("between"):
		return cmpBetween, nil
	case c.accept("on"):
		if c.accept("or") {
			switch {
			case c.accept("before"):
				return cmpOnOrBefore, nil
			case c.accept("after"):
				return cmpOnOrAfter, nil
			}
			return "", c.errorf("expected \"before\" or \"after\" after \"on or\"")
		}
		return cmpOn, nil
	}
	if c.done() {
		return "", c.errorf("missing date comparator")
	}
	err := c.errorf("unknown date comparator %q", c.words[c.pos].text)
	err.Suggestion = suggestKeyword(c.peek(), comparatorKeywords)
	return "", err
}

func (c *clauseParser) parseDateOperand() (dateValue, *SyntaxError) {
	if c.done() {
		return dateValue{}, c.errorf("missing date")
	}
	operand := strings.ToLower(c.next())
	val, err := parseDateValue(operand)
	if err != nil {
		c.pos--
		return dateValue{}, c.errorf("%v", err)
	}
	return val, nil
}

// parseUrgencyClause handles "urgency <is|above|below> <number>".
func (c *clauseParser) parseUrgencyClause() (Filter, *SyntaxError) {
	c.next() // "urgency"
	comparator, err := c.parseNumberComparator()
	if err != nil {
		return nil, err
	}
	threshold, err := c.parseNumber()
	if err != nil {
		return nil, err
	}
	return c.finish(NewUrgencyFilter(comparator, threshold))
}

// parseAttentionClause handles "attention <above|below> <number>" and
// "attention lane is <lane>".
func (c *clauseParser) parseAttentionClause() (Filter, *SyntaxError) {
	c.next() // "attention"

	if c.accept("lane") {
		if !c.accept("is") {
			return nil, c.errorf("expected \"is\" after \"attention lane\"")
		}
		if c.done() {
			return nil, c.errorf("missing attention lane")
		}
		operand := c.next()
		lane, ok := models.ParseAttentionLane(operand)
		if !ok {
			serr := c.errorf("unknown attention lane %q", operand)
			serr.Suggestion = suggestKeyword(operand, []string{"now", "next", "soon", "later", "waiting"})
			return nil, serr
		}
		return c.finish(NewLaneFilter(lane))
	}

	comparator, err := c.parseNumberComparator()
	if err != nil {
		return nil, err
	}
	if comparator == numIs {
		return nil, c.errorf("attention score supports only \"above\" and \"below\"")
	}
	threshold, err := c.parseNumber()
	if err != nil {
		return nil, err
	}
	return c.finish(NewAttentionFilter(comparator, threshold))
}

// parseEscalationClause handles "escalation <is|above|below> <integer>".
func (c *clauseParser) parseEscalationClause() (Filter, *SyntaxError) {
	c.next() // "escalation"
	comparator, err := c.parseNumberComparator()
	if err != nil {
		return nil, err
	}
	if c.done() {
		return nil, c.errorf("missing escalation level")
	}
	operand := c.next()
	level, convErr := strconv.Atoi(operand)
	if convErr != nil {
		c.pos--
		return nil, c.errorf("invalid escalation level %q, expected an integer", operand)
	}
	return c.finish(NewEscalationFilter(comparator, level))
}

func (c *clauseParser) parseNumberComparator() (numberComparator, *SyntaxError) {
	switch {
	case c.accept("is"):
		return numIs, nil
	case c.accept("above"):
		return numAbove, nil
	case c.accept("below"):
		return numBelow, nil
	}
	if c.done() {
		return "", c.errorf("missing comparator, expected \"is\", \"above\", or \"below\"")
	}
	err := c.errorf("unknown comparator %q", c.words[c.pos].text)
	err.Suggestion = suggestKeyword(c.peek(), []string{"is", "above", "below"})
	return "", err
}

func (c *clauseParser) parseNumber() (float64, *SyntaxError) {
	if c.done() {
		return 0, c.errorf("missing number")
	}
	operand := c.next()
	n, err := strconv.ParseFloat(operand, 64)
	if err != nil {
		c.pos--
		return 0, c.errorf("invalid number %q", operand)
	}
	return n, nil
}
