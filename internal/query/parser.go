package query

import (
	"fmt"
	"strings"
)

// MaxNestingDepth bounds how deeply parentheses and NOT may nest inside a
// single line. Queries exceeding it are rejected at parse time, which keeps
// the recursive evaluation of the boolean tree bounded.
const MaxNestingDepth = 32

// SortSpec is a query's terminal sort instruction.
type SortSpec struct {
	Field      string
	Descending bool
}

// GroupSpec is a query's terminal grouping instruction.
type GroupSpec struct {
	Field string
}

// Query is a compiled, immutable query: a boolean filter tree plus at most
// one sort and one group instruction. A nil Root matches every task (a query
// of only sort/group lines, or no lines at all). Compiled queries are safe
// to share and reuse across evaluations.
type Query struct {
	Text  string
	Root  Filter
	Sort  *SortSpec
	Group *GroupSpec
}

// Parse compiles raw query text. Each non-blank, non-comment line is one
// clause; lines combine with an implicit AND. Parsing is fail-fast: any
// malformed line aborts with a SyntaxError and no partial query.
func Parse(text string) (*Query, error) {
	q := &Query{Text: text}

	for i, rawLine := range strings.Split(text, "\n") {
		lineNo := i + 1
		line := strings.TrimSpace(rawLine)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		lower := strings.ToLower(line)
		switch {
		case strings.HasPrefix(lower, "sort by"):
			if q.Sort != nil {
				return nil, &SyntaxError{Message: "duplicate sort instruction", Line: lineNo, Column: 1}
			}
			spec, err := parseSortLine(line, lineNo)
			if err != nil {
				return nil, err
			}
			q.Sort = spec
			continue
		case strings.HasPrefix(lower, "group by"):
			if q.Group != nil {
				return nil, &SyntaxError{Message: "duplicate group instruction", Line: lineNo, Column: 1}
			}
			spec, err := parseGroupLine(line, lineNo)
			if err != nil {
				return nil, err
			}
			q.Group = spec
			continue
		}

		filter, err := parseFilterLine(line, lineNo)
		if err != nil {
			return nil, err
		}
		if q.Root == nil {
			q.Root = filter
		} else {
			q.Root = NewAndFilter(q.Root, filter)
		}
	}

	return q, nil
}

// parseFilterLine parses one line's boolean expression.
func parseFilterLine(line string, lineNo int) (Filter, *SyntaxError) {
	tokens := lexLine(line, lineNo)
	// A line may open with an explicit AND continuing the previous line;
	// the connective between lines is implicit either way.
	if len(tokens) > 0 && tokens[0].kind == tokenAnd {
		tokens = tokens[1:]
	}
	p := &exprParser{tokens: tokens, line: lineNo, lineLen: len(line)}
	filter, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.tokens) {
		return nil, p.errorAt(p.tokens[p.pos].column, "unexpected %s", p.describe(p.tokens[p.pos]))
	}
	return filter, nil
}

// exprParser is a recursive-descent parser over one line's tokens, with OR
// binding loosest, then AND, then NOT, then parentheses.
type exprParser struct {
	tokens  []token
	pos     int
	line    int
	lineLen int
	depth   int
}

func (p *exprParser) errorAt(column int, format string, args ...interface{}) *SyntaxError {
	return &SyntaxError{
		Message: fmt.Sprintf(format, args...),
		Line:    p.line,
		Column:  column,
	}
}

// endColumn is the column just past the last token, for missing-operand
// errors at line end.
func (p *exprParser) endColumn() int {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos].column
	}
	return p.lineLen + 1
}

func (p *exprParser) describe(t token) string {
	switch t.kind {
	case tokenAnd:
		return `"AND"`
	case tokenOr:
		return `"OR"`
	case tokenNot:
		return `"NOT"`
	case tokenLParen:
		return `"("`
	case tokenRParen:
		return `")"`
	default:
		return "clause"
	}
}

func (p *exprParser) parseOr() (Filter, *SyntaxError) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.pos < len(p.tokens) && p.tokens[p.pos].kind == tokenOr {
		p.pos++
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = NewOrFilter(left, right)
	}
	return left, nil
}

func (p *exprParser) parseAnd() (Filter, *SyntaxError) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.pos < len(p.tokens) && p.tokens[p.pos].kind == tokenAnd {
		p.pos++
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = NewAndFilter(left, right)
	}
	return left, nil
}

func (p *exprParser) parseUnary() (Filter, *SyntaxError) {
	if p.depth >= MaxNestingDepth {
		return nil, p.errorAt(p.endColumn(), "query nesting exceeds the maximum depth of %d", MaxNestingDepth)
	}

	if p.pos >= len(p.tokens) {
		return nil, p.errorAt(p.endColumn(), "missing clause")
	}

	switch t := p.tokens[p.pos]; t.kind {
	case tokenNot:
		p.pos++
		p.depth++
		child, err := p.parseUnary()
		p.depth--
		if err != nil {
			return nil, err
		}
		return NewNotFilter(child), nil
	case tokenLParen:
		p.pos++
		p.depth++
		inner, err := p.parseOr()
		p.depth--
		if err != nil {
			return nil, err
		}
		if p.pos >= len(p.tokens) || p.tokens[p.pos].kind != tokenRParen {
			return nil, p.errorAt(p.endColumn(), "missing closing parenthesis")
		}
		p.pos++
		return inner, nil
	case tokenAtom:
		p.pos++
		return parseClause(t.words, p.line)
	default:
		return nil, p.errorAt(t.column, "unexpected %s", p.describe(t))
	}
}

// parseSortLine parses "sort by <field> [asc|desc]".
func parseSortLine(line string, lineNo int) (*SortSpec, *SyntaxError) {
	words := strings.Fields(line)[2:] // after "sort by"
	if len(words) == 0 {
		return nil, &SyntaxError{Message: "missing sort field", Line: lineNo, Column: len(line) + 1}
	}

	field := strings.ToLower(words[0])
	if !isSortField(field) {
		err := &SyntaxError{
			Message: fmt.Sprintf("unknown sort field %q", words[0]),
			Line:    lineNo,
			Column:  strings.Index(strings.ToLower(line), field) + 1,
		}
		err.Suggestion = suggestKeyword(field, sortFields)
		return nil, err
	}

	spec := &SortSpec{Field: field}
	if len(words) > 1 {
		switch strings.ToLower(words[1]) {
		case "asc":
		case "desc":
			spec.Descending = true
		default:
			err := &SyntaxError{
				Message: fmt.Sprintf("unknown sort direction %q", words[1]),
				Line:    lineNo,
				Column:  strings.Index(strings.ToLower(line), strings.ToLower(words[1])) + 1,
			}
			err.Suggestion = suggestKeyword(words[1], []string{"asc", "desc"})
			return nil, err
		}
		if len(words) > 2 {
			return nil, &SyntaxError{Message: fmt.Sprintf("unexpected %q after sort direction", words[2]), Line: lineNo, Column: 1}
		}
	}
	return spec, nil
}

// parseGroupLine parses "group by <field>".
func parseGroupLine(line string, lineNo int) (*GroupSpec, *SyntaxError) {
	words := strings.Fields(line)[2:] // after "group by"
	if len(words) == 0 {
		return nil, &SyntaxError{Message: "missing group field", Line: lineNo, Column: len(line) + 1}
	}
	if len(words) > 1 {
		return nil, &SyntaxError{Message: fmt.Sprintf("unexpected %q after group field", words[1]), Line: lineNo, Column: 1}
	}

	field := strings.ToLower(words[0])
	if !isGroupField(field) {
		err := &SyntaxError{
			Message: fmt.Sprintf("unknown group field %q", words[0]),
			Line:    lineNo,
			Column:  strings.Index(strings.ToLower(line), field) + 1,
		}
		err.Suggestion = suggestKeyword(field, groupFields)
		return nil, err
	}
	return &GroupSpec{Field: field}, nil
}
