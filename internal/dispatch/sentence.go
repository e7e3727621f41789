// internal/dispatch/sentence.go
package dispatch

import (
	"regexp"
	"strings"
	"unicode"
)

const minSentenceLen = 5

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	allowedRe    = regexp.MustCompile(`[^\p{L}\p{N}_\s.!?¿¡,:;()\-%]`)
)

// SplitSentences breaks a reply into sentence-sized chunks for incremental
// synthesis, so the caller hears the first sentence while the rest is still
// being generated. A boundary is a terminator followed by whitespace and the
// start of a new Spanish sentence. Fragments too short to speak are dropped.
func SplitSentences(text string) []string {
	clean := whitespaceRe.ReplaceAllString(strings.TrimSpace(text), " ")
	clean = allowedRe.ReplaceAllString(clean, "")
	if clean == "" {
		return nil
	}

	runes := []rune(clean)
	var sentences []string
	start := 0
	for i := 0; i < len(runes); i++ {
		if !isTerminator(runes[i]) {
			continue
		}
		// Consume any run of terminators, then require whitespace and a
		// sentence opener.
		j := i + 1
		for j < len(runes) && isTerminator(runes[j]) {
			j++
		}
		if j >= len(runes) || !unicode.IsSpace(runes[j]) {
			i = j - 1
			continue
		}
		k := j
		for k < len(runes) && unicode.IsSpace(runes[k]) {
			k++
		}
		if k < len(runes) && opensSentence(runes[k]) {
			sentences = appendSentence(sentences, string(runes[start:j]))
			start = k
			i = k - 1
		} else {
			i = j - 1
		}
	}
	if start < len(runes) {
		sentences = appendSentence(sentences, string(runes[start:]))
	}
	return sentences
}

func appendSentence(sentences []string, s string) []string {
	s = strings.TrimSpace(s)
	if len([]rune(s)) <= minSentenceLen {
		return sentences
	}
	return append(sentences, s)
}

func isTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

func opensSentence(r rune) bool {
	return unicode.IsUpper(r) || r == '¿' || r == '¡'
}
