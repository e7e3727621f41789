// internal/faq/match.go
package faq

import (
	"strings"

	"ana-voicebot/internal/common/logger"
)

const (
	exactPhraseScore = 15.0
	partialWordScore = 8.0
	matchThreshold   = 8.0
)

// Filler words dropped before matching so "me puedes explicar los requisitos"
// scores the same as "requisitos".
var fillerWords = map[string]struct{}{
	"me": {}, "puedes": {}, "podrías": {}, "quisiera": {}, "quiero": {},
	"necesito": {}, "dime": {}, "explica": {}, "explícame": {}, "cuéntame": {},
	"contame": {}, "háblame": {},
}

var questionPunctuation = strings.NewReplacer(
	"¿", " ", "?", " ", "¡", " ", "!", " ",
	".", " ", ",", " ", ";", " ", ":", " ",
)

// Matcher scores utterances against the knowledge base.
type Matcher struct {
	entries []Entry
	log     logger.Logger
}

func NewMatcher(entries []Entry, log logger.Logger) *Matcher {
	if len(entries) == 0 {
		entries = DefaultEntries()
	}
	return &Matcher{entries: entries, log: log}
}

// Match returns the best-scoring entry for the utterance, or false when no
// entry reaches the threshold. Scoring favors full trigger phrases over
// scattered word overlap.
func (m *Matcher) Match(text string) (Entry, bool) {
	clean := cleanUtterance(text)
	if clean == "" {
		return Entry{}, false
	}

	var best Entry
	var bestScore float64
	for _, entry := range m.entries {
		score := scoreEntry(entry, clean)
		if score >= matchThreshold && score > bestScore {
			bestScore = score
			best = entry
		}
	}
	if bestScore == 0 {
		return Entry{}, false
	}

	m.log.Debug("FAQ matched", map[string]interface{}{
		"intent": best.Intent,
		"score":  bestScore,
	})
	return best, true
}

// Response renders the full spoken answer for an entry.
func Response(entry Entry) string {
	if entry.IncludeTrustSnippet {
		return entry.Answer + "\n\n" + TrustSnippet
	}
	return entry.Answer
}

func scoreEntry(entry Entry, clean string) float64 {
	var score float64
	for _, trigger := range entry.Triggers {
		phrase := strings.ToLower(trigger)
		if strings.Contains(clean, phrase) {
			score += exactPhraseScore
			continue
		}
		words := strings.Fields(phrase)
		matched := 0
		for _, w := range words {
			if strings.Contains(clean, w) {
				matched++
			}
		}
		if matched > 0 {
			score += float64(matched) / float64(len(words)) * partialWordScore
		}
	}
	return score
}

func cleanUtterance(text string) string {
	lowered := questionPunctuation.Replace(strings.ToLower(text))
	fields := strings.Fields(lowered)
	kept := fields[:0]
	for _, f := range fields {
		if _, skip := fillerWords[f]; skip {
			continue
		}
		kept = append(kept, f)
	}
	return strings.Join(kept, " ")
}
