package transcript

import (
	"sort"
	"strings"
	"unicode"
)

const maxKeyTerms = 24

var keyTermStopwords = map[string]struct{}{
	"this": {}, "that": {}, "with": {}, "from": {}, "have": {}, "will": {},
	"about": {}, "them": {}, "they": {}, "then": {}, "than": {}, "when": {},
	"what": {}, "which": {}, "would": {}, "could": {}, "should": {}, "there": {},
	"their": {}, "your": {}, "into": {}, "some": {}, "more": {}, "also": {},
	"been": {}, "were": {}, "just": {}, "like": {}, "need": {}, "note": {},
	"notes": {}, "task": {}, "tasks": {}, "todo": {}, "done": {},
}

// KeyTerms extracts the most frequent distinctive words from existing note
// bodies. The result biases transcription toward vocabulary the user already
// writes with; order is frequency-descending, ties alphabetical.
func KeyTerms(bodies []string) []string {
	counts := map[string]int{}
	for _, body := range bodies {
		tokens := strings.FieldsFunc(strings.ToLower(body), func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsNumber(r)
		})
		for _, token := range tokens {
			if len(token) < 4 {
				continue
			}
			if _, skip := keyTermStopwords[token]; skip {
				continue
			}
			counts[token]++
		}
	}

	terms := make([]string, 0, len(counts))
	for term := range counts {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		if counts[terms[i]] == counts[terms[j]] {
			return terms[i] < terms[j]
		}
		return counts[terms[i]] > counts[terms[j]]
	})

	if len(terms) > maxKeyTerms {
		terms = terms[:maxKeyTerms]
	}
	return terms
}
