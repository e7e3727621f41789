// internal/validate/vocab.go
package validate

import "strings"

// Fixed Spanish affirmation/negation vocabularies. Matching is substring
// matching against a lowercased, punctuation-stripped copy of the utterance,
// which is deliberately loose: callers re-prompt on ambiguity instead of
// failing hard.
var affirmativeWords = []string{
	"sí", "si", "yes", "claro", "correcto", "exacto", "afirmativo", "ok", "está bien",
	"acepto", "de acuerdo", "empecemos", "comencemos", "vamos", "dale", "perfecto",
	"genial", "excelente", "bueno", "bien", "seguro", "por supuesto", "desde luego",
	"comenzar", "empezar", "iniciar", "continuar", "proceder",
}

var negativeWords = []string{
	"no", "nop", "nope", "negativo", "incorrecto", "no acepto",
}

var punctuationReplacer = strings.NewReplacer(
	"¿", " ", "?", " ", "¡", " ", "!", " ",
	".", " ", ",", " ", ";", " ", ":", " ",
)

// Normalize lowercases the utterance and strips sentence punctuation, the
// canonical form every vocabulary check runs against.
func Normalize(text string) string {
	clean := punctuationReplacer.Replace(strings.ToLower(text))
	return strings.Join(strings.Fields(clean), " ")
}

// IsAffirmative reports whether the utterance reads as a yes.
func IsAffirmative(text string) bool {
	return containsAny(Normalize(text), affirmativeWords)
}

// IsNegative reports whether the utterance reads as a no.
func IsNegative(text string) bool {
	return containsAny(Normalize(text), negativeWords)
}

func containsAny(normalized string, words []string) bool {
	for _, w := range words {
		if strings.Contains(normalized, w) {
			return true
		}
	}
	return false
}
