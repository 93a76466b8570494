package query

import "strings"

// maxSuggestionDistance is the largest edit distance at which a misspelled
// keyword still earns a suggestion.
const maxSuggestionDistance = 2

// clauseKeywords are the words that may legally start a leaf clause,
// used to derive suggestions for close-but-wrong spellings.
var clauseKeywords = []string{
	"due", "scheduled", "start", "starts", "created", "done", "cancelled",
	"status", "priority", "tag", "path", "heading", "description",
	"has", "no", "not", "is", "urgency", "attention", "escalation",
}

// presenceKeywords are the words that may follow "has" or "no": the date
// fields plus "tags".
var presenceKeywords = []string{
	"tags", "due", "scheduled", "start", "starts", "created", "done",
	"cancelled",
}

// comparatorKeywords are the words that may legally follow a date field.
var comparatorKeywords = []string{
	"before", "after", "on", "between", "includes",
}

// suggestKeyword returns the candidate closest to the given word within
// maxSuggestionDistance edits, or "" when nothing is close enough.
func suggestKeyword(got string, candidates []string) string {
	got = strings.ToLower(got)
	best := ""
	bestDist := maxSuggestionDistance + 1
	for _, c := range candidates {
		if d := editDistance(got, c); d < bestDist {
			best, bestDist = c, d
		}
	}
	if bestDist == 0 {
		// Exact matches need no suggestion.
		return ""
	}
	return best
}

// editDistance computes the Levenshtein distance between two strings.
func editDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, min(curr[j-1]+1, prev[j-1]+cost))
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}
