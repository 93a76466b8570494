package query

// tokenKind classifies the tokens of a single query line.
type tokenKind int

const (
	tokenAtom tokenKind = iota // one leaf clause, as a word sequence
	tokenAnd
	tokenOr
	tokenNot
	tokenLParen
	tokenRParen
)

// word is a single clause word with its 1-based column in the source line.
type word struct {
	text   string
	column int
}

// token is one lexical element of a query line. Atom tokens carry the words
// of a leaf clause; operator and paren tokens carry only their position.
type token struct {
	kind   tokenKind
	words  []word
	line   int
	column int
}

// lexLine splits one query line into boolean operators, parentheses, and
// atom tokens. Boolean operators must be ALL-CAPS (AND, OR, NOT) so that
// clause text like "between 2026-01-01 and 2026-02-01" or free-text operands
// containing "and" do not read as connectives. A word starting with "/" is
// consumed as a whole regex literal through its closing slash, so slashes,
// spaces, and parens inside a pattern never terminate it.
func lexLine(line string, lineNo int) []token {
	var tokens []token
	var atom []word

	flushAtom := func() {
		if len(atom) > 0 {
			tokens = append(tokens, token{kind: tokenAtom, words: atom, line: lineNo, column: atom[0].column})
			atom = nil
		}
	}

	runes := []rune(line)
	i := 0
	for i < len(runes) {
		switch r := runes[i]; {
		case r == ' ' || r == '\t':
			i++
		case r == '(':
			flushAtom()
			tokens = append(tokens, token{kind: tokenLParen, line: lineNo, column: i + 1})
			i++
		case r == ')':
			flushAtom()
			tokens = append(tokens, token{kind: tokenRParen, line: lineNo, column: i + 1})
			i++
		case r == '/':
			// Regex literal: consume through the closing unescaped slash
			// plus an optional trailing flag character.
			start := i
			i++
			for i < len(runes) && runes[i] != '/' {
				if runes[i] == '\\' && i+1 < len(runes) {
					i++
				}
				i++
			}
			if i < len(runes) {
				i++ // closing slash
			}
			if i < len(runes) && runes[i] == 'i' {
				i++
			}
			atom = append(atom, word{text: string(runes[start:i]), column: start + 1})
		default:
			start := i
			for i < len(runes) && runes[i] != ' ' && runes[i] != '\t' && runes[i] != '(' && runes[i] != ')' {
				i++
			}
			text := string(runes[start:i])
			switch text {
			case "AND":
				flushAtom()
				tokens = append(tokens, token{kind: tokenAnd, line: lineNo, column: start + 1})
			case "OR":
				flushAtom()
				tokens = append(tokens, token{kind: tokenOr, line: lineNo, column: start + 1})
			case "NOT":
				flushAtom()
				tokens = append(tokens, token{kind: tokenNot, line: lineNo, column: start + 1})
			default:
				atom = append(atom, word{text: text, column: start + 1})
			}
		}
	}
	flushAtom()

	return tokens
}
