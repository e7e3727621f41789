// internal/validate/validators.go
package validate

import (
	"regexp"
	"strconv"
	"strings"

	"ana-voicebot/internal/models"
)

// Rules carries the numeric thresholds the validators enforce. The zero value
// is not usable; build one with DefaultRules or from configuration.
type Rules struct {
	MinAge           int
	MaxAge           int
	MinMonthlyIncome float64
	MinLoanAmount    float64
	MaxLoanAmount    float64
	MinNameLength    int
	MinAddressLength int
	MinPurposeLength int
}

func DefaultRules() Rules {
	return Rules{
		MinAge:           18,
		MaxAge:           100,
		MinMonthlyIncome: 3000,
		MinLoanAmount:    5000,
		MaxLoanAmount:    1200000,
		MinNameLength:    5,
		MinAddressLength: 10,
		MinPurposeLength: 5,
	}
}

var (
	smallNumberRe = regexp.MustCompile(`\b(\d{1,3})\b`)
	amountRe      = regexp.MustCompile(`\d{1,3}(?:[.,]\d{3})+|\d+(?:\.\d+)?`)
	digitRunRe    = regexp.MustCompile(`\d+`)
	milWordRe     = regexp.MustCompile(`\bmil\b`)

	dobWordsRe   = regexp.MustCompile(`(?i)\b\d{1,2}\s+de\s+\p{L}+\s+de\s+\d{4}\b`)
	dobSlashRe   = regexp.MustCompile(`\b\d{1,2}[/-]\d{1,2}[/-]\d{4}\b`)
	dobSpacedRe  = regexp.MustCompile(`\b\d{1,2}\s+\d{1,2}\s+\d{4}\b`)
	nameRe       = regexp.MustCompile(`^[\p{L}\s]+$`)
	emailRe      = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	spokenAtRe   = regexp.MustCompile(`([a-z0-9_.\-]+(?:\s+[a-z0-9_.\-]+)*?)\s+(?:arroba|en)\s+([a-z0-9\-]+(?:\s+[a-z0-9\-]+)*?)\s+punto\s+([a-z]+)`)
	halfSpokenRe = regexp.MustCompile(`([a-z0-9_.\-]+)\s*@\s*([a-z0-9\-]+(?:\s+[a-z0-9\-]+)*?)\s+punto\s+([a-z]+)`)
)

// Spoken domains come back from transcription split or mangled; these tables
// repair the frequent cases after spaces are removed.
var domainCorrections = map[string]string{
	"gmai":    "gmail",
	"gemail":  "gmail",
	"hotmai":  "hotmail",
	"hotmeil": "hotmail",
	"outlok":  "outlook",
}

var extensionCorrections = map[string]string{
	"con": "com",
	"kom": "com",
	"cm":  "com",
}

// Age accepts an affirmative answer or an explicit age inside the allowed
// range. The number wins when both are present so the stated age is recorded.
func (r Rules) Age(text string) (int, bool) {
	for _, m := range smallNumberRe.FindAllString(text, -1) {
		age, err := strconv.Atoi(m)
		if err != nil {
			continue
		}
		if age >= r.MinAge && age <= r.MaxAge {
			return age, true
		}
		return 0, false
	}
	if IsAffirmative(text) {
		return 0, true
	}
	return 0, false
}

// Income accepts an explicit amount at or above the floor, or a plain
// affirmative with no amount stated.
func (r Rules) Income(text string) (float64, bool) {
	if m := amountRe.FindString(text); m != "" {
		amount, ok := parseAmount(m)
		if ok && amount >= r.MinMonthlyIncome {
			return amount, true
		}
		return 0, false
	}
	if IsAffirmative(text) {
		return 0, true
	}
	return 0, false
}

// FullName requires at least two words of letters only.
func (r Rules) FullName(text string) (string, bool) {
	name := strings.TrimSpace(text)
	if len([]rune(name)) < r.MinNameLength {
		return "", false
	}
	if !strings.Contains(name, " ") {
		return "", false
	}
	if !nameRe.MatchString(name) {
		return "", false
	}
	return name, true
}

// DPI looks for a run of exactly 13 digits after removing spaces and hyphens.
// Longer runs are rejected rather than truncated.
func DPI(text string) (string, bool) {
	stripped := strings.NewReplacer(" ", "", "-", "").Replace(text)
	for _, run := range digitRunRe.FindAllString(stripped, -1) {
		if len(run) == 13 {
			return run, true
		}
	}
	return "", false
}

// DateOfBirth accepts "12 de mayo de 1990", "12/05/1990" (or hyphens) and
// "12 05 1990". The raw utterance is stored as spoken; no calendar parsing.
func DateOfBirth(text string) (string, bool) {
	if dobWordsRe.MatchString(text) || dobSlashRe.MatchString(text) || dobSpacedRe.MatchString(text) {
		return strings.TrimSpace(text), true
	}
	return "", false
}

// Address only checks length; street formats vary too much to pattern-match.
func (r Rules) Address(text string) (string, bool) {
	address := strings.TrimSpace(text)
	if len([]rune(address)) < r.MinAddressLength {
		return "", false
	}
	return address, true
}

// Phone looks for a run of exactly 8 digits after removing spaces and hyphens.
func Phone(text string) (string, bool) {
	stripped := strings.NewReplacer(" ", "", "-", "").Replace(text)
	for _, run := range digitRunRe.FindAllString(stripped, -1) {
		if len(run) == 8 {
			return run, true
		}
	}
	return "", false
}

// Email accepts a written address directly, or reconstructs one from spoken
// forms such as "juan arroba gmail punto com". Reconstruction joins the
// spoken parts, repairs common transcription splits, and only succeeds when
// the result is itself a valid address.
func Email(text string) (string, bool) {
	if m := emailRe.FindString(text); m != "" {
		return strings.ToLower(m), true
	}

	lower := strings.ToLower(strings.TrimSpace(text))
	for _, re := range []*regexp.Regexp{spokenAtRe, halfSpokenRe} {
		groups := re.FindStringSubmatch(lower)
		if groups == nil {
			continue
		}
		local := strings.ReplaceAll(groups[1], " ", "")
		domain := strings.ReplaceAll(groups[2], " ", "")
		ext := groups[3]
		if fixed, ok := domainCorrections[domain]; ok {
			domain = fixed
		}
		if fixed, ok := extensionCorrections[ext]; ok {
			ext = fixed
		}
		candidate := local + "@" + domain + "." + ext
		if emailRe.MatchString(candidate) {
			return candidate, true
		}
	}
	return "", false
}

// Employment keyword sets, checked most specific first. "desempleado"
// contains "empleado", so the unemployed set must run before the employed
// one or it would never match.
var employmentKeywords = []struct {
	status models.EmploymentStatus
	words  []string
}{
	{models.Unemployed, []string{"desempleado", "desempleada", "sin trabajo", "sin empleo", "desempleo"}},
	{models.Student, []string{"estudiante", "estudio", "estudiando", "universidad"}},
	{models.SelfEmployed, []string{"independiente", "cuenta propia", "negocio propio", "emprendedor", "propio"}},
	{models.Employed, []string{"empleado", "empleada", "trabajo", "trabajando", "empleo", "empresa"}},
}

// EmploymentStatus maps free-form Spanish to one of the four categories.
func EmploymentStatus(text string) (models.EmploymentStatus, bool) {
	normalized := Normalize(text)
	for _, set := range employmentKeywords {
		for _, w := range set.words {
			if strings.Contains(normalized, w) {
				return set.status, true
			}
		}
	}
	return "", false
}

// LoanAmount parses spoken and written amounts: "50 mil" multiplies by a
// thousand, "1.5 millones" by a million, and "150.000" reads the dot as a
// thousands separator when exactly three digits follow it. The result must
// fall inside the configured range.
func (r Rules) LoanAmount(text string) (float64, bool) {
	lower := strings.ToLower(text)

	hasMillion := strings.Contains(lower, "millón") || strings.Contains(lower, "millon")
	hasMil := !hasMillion && milWordRe.MatchString(lower)

	m := amountRe.FindString(lower)
	if m == "" {
		return 0, false
	}
	amount, ok := parseAmount(m)
	if !ok {
		return 0, false
	}
	switch {
	case hasMillion:
		amount *= 1_000_000
	case hasMil:
		amount *= 1_000
	}
	if amount < r.MinLoanAmount || amount > r.MaxLoanAmount {
		return 0, false
	}
	return amount, true
}

// LoanPurpose only checks length.
func (r Rules) LoanPurpose(text string) (string, bool) {
	purpose := strings.TrimSpace(text)
	if len([]rune(purpose)) < r.MinPurposeLength {
		return "", false
	}
	return purpose, true
}

// parseAmount handles "150000", "150,000", "150.000" and "1.5". A dot is a
// thousands separator when exactly three digits follow it, a decimal point
// otherwise. Commas are always thousands separators.
func parseAmount(s string) (float64, bool) {
	s = strings.ReplaceAll(s, ",", "")
	if i := strings.LastIndex(s, "."); i >= 0 {
		if len(s)-i-1 == 3 {
			s = strings.ReplaceAll(s, ".", "")
		} else if strings.Count(s, ".") > 1 {
			return 0, false
		}
	}
	amount, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return amount, true
}
