// internal/validate/validators_test.go
package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ana-voicebot/internal/models"
)

func TestIsAffirmative(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected bool
	}{
		{"plain yes", "sí", true},
		{"unaccented yes", "si claro", true},
		{"agreement", "de acuerdo, empecemos", true},
		{"with punctuation", "¡Perfecto!", true},
		{"start verb", "quiero comenzar", true},
		{"plain no", "no gracias", false},
		{"unrelated", "el clima está raro", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsAffirmative(tt.text))
		})
	}
}

func TestIsNegative(t *testing.T) {
	assert.True(t, IsNegative("no, no me interesa"))
	assert.True(t, IsNegative("negativo"))
	assert.False(t, IsNegative("sí, adelante"))
}

func TestRulesAge(t *testing.T) {
	rules := DefaultRules()

	tests := []struct {
		name        string
		text        string
		expectedAge int
		expectedOK  bool
	}{
		{"explicit age", "tengo 25 años", 25, true},
		{"lower boundary", "18", 18, true},
		{"below lower boundary", "tengo 17", 0, false},
		{"upper boundary", "100", 100, true},
		{"above upper boundary", "101 años", 0, false},
		{"affirmative without number", "sí, soy mayor de edad", 0, true},
		{"no signal", "eso es privado", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			age, ok := rules.Age(tt.text)
			assert.Equal(t, tt.expectedOK, ok)
			assert.Equal(t, tt.expectedAge, age)
		})
	}
}

func TestRulesIncome(t *testing.T) {
	rules := DefaultRules()

	tests := []struct {
		name           string
		text           string
		expectedAmount float64
		expectedOK     bool
	}{
		{"floor exactly", "gano 3000 quetzales", 3000, true},
		{"below floor", "2999", 0, false},
		{"with separator", "gano 4,500 al mes", 4500, true},
		{"affirmative only", "sí, gano suficiente", 0, true},
		{"no signal", "prefiero no decir", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount, ok := rules.Income(tt.text)
			assert.Equal(t, tt.expectedOK, ok)
			assert.Equal(t, tt.expectedAmount, amount)
		})
	}
}

func TestRulesFullName(t *testing.T) {
	rules := DefaultRules()

	name, ok := rules.FullName("María Fernanda López")
	assert.True(t, ok)
	assert.Equal(t, "María Fernanda López", name)

	_, ok = rules.FullName("Ana")
	assert.False(t, ok, "single short word")

	_, ok = rules.FullName("Juan123 Pérez")
	assert.False(t, ok, "digits are not letters")

	_, ok = rules.FullName("Juanito")
	assert.False(t, ok, "needs at least two words")
}

func TestDPI(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		expectedDPI string
		expectedOK  bool
	}{
		{"exact thirteen digits", "2547 89654 0101", "2547896540101", true},
		{"with hyphens", "2547-89654-0101", "2547896540101", true},
		{"twelve digits", "254789654010", "", false},
		{"fourteen digits", "25478965401012", "", false},
		{"embedded in sentence", "mi dpi es 2547896540101 gracias", "2547896540101", true},
		{"no digits", "no lo recuerdo", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dpi, ok := DPI(tt.text)
			assert.Equal(t, tt.expectedOK, ok)
			assert.Equal(t, tt.expectedDPI, dpi)
		})
	}
}

func TestDateOfBirth(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		expectedOK bool
	}{
		{"spoken form", "12 de mayo de 1990", true},
		{"slash form", "12/05/1990", true},
		{"hyphen form", "12-05-1990", true},
		{"spaced form", "12 05 1990", true},
		{"two digit year", "12/05/90", false},
		{"no date", "hace mucho tiempo", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dob, ok := DateOfBirth(tt.text)
			assert.Equal(t, tt.expectedOK, ok)
			if tt.expectedOK {
				assert.Equal(t, tt.text, dob, "raw utterance is kept")
			}
		})
	}
}

func TestPhone(t *testing.T) {
	phone, ok := Phone("5512-3478")
	assert.True(t, ok)
	assert.Equal(t, "55123478", phone)

	phone, ok = Phone("mi número es 5512 3478")
	assert.True(t, ok)
	assert.Equal(t, "55123478", phone)

	_, ok = Phone("551234789")
	assert.False(t, ok, "nine digits")

	_, ok = Phone("5512347")
	assert.False(t, ok, "seven digits")
}

func TestEmail(t *testing.T) {
	tests := []struct {
		name          string
		text          string
		expectedEmail string
		expectedOK    bool
	}{
		{"written", "juan.perez@gmail.com", "juan.perez@gmail.com", true},
		{"spoken arroba punto", "juan arroba gmail punto com", "juan@gmail.com", true},
		{"spoken with con extension", "maria arroba hotmail punto con", "maria@hotmail.com", true},
		{"spoken en variant", "pedro en outlook punto com", "pedro@outlook.com", true},
		{"half spoken", "ana@gmail punto com", "ana@gmail.com", true},
		{"no address", "no tengo correo", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			email, ok := Email(tt.text)
			assert.Equal(t, tt.expectedOK, ok)
			assert.Equal(t, tt.expectedEmail, email)
		})
	}
}

func TestEmploymentStatus(t *testing.T) {
	tests := []struct {
		name           string
		text           string
		expectedStatus models.EmploymentStatus
		expectedOK     bool
	}{
		{"employed", "trabajo en una empresa", models.Employed, true},
		{"self employed", "tengo mi propio negocio", models.SelfEmployed, true},
		{"student", "soy estudiante", models.Student, true},
		{"unemployed wins over employed", "estoy desempleado", models.Unemployed, true},
		{"no keyword", "es complicado", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, ok := EmploymentStatus(tt.text)
			assert.Equal(t, tt.expectedOK, ok)
			assert.Equal(t, tt.expectedStatus, status)
		})
	}
}

func TestRulesLoanAmount(t *testing.T) {
	rules := DefaultRules()

	tests := []struct {
		name           string
		text           string
		expectedAmount float64
		expectedOK     bool
	}{
		{"lower boundary", "5000", 5000, true},
		{"below lower boundary", "4999", 0, false},
		{"upper boundary", "1200000", 1200000, true},
		{"above upper boundary", "1200001", 0, false},
		{"mil multiplier", "quiero 50 mil quetzales", 50000, true},
		{"millon multiplier", "1 millón", 1000000, true},
		{"decimal millon", "1.2 millones", 1200000, true},
		{"dot thousands separator", "150.000", 150000, true},
		{"comma thousands separator", "150,000", 150000, true},
		{"no number", "lo que me puedan dar", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount, ok := rules.LoanAmount(tt.text)
			assert.Equal(t, tt.expectedOK, ok)
			assert.Equal(t, tt.expectedAmount, amount)
		})
	}
}

func TestRulesLengthChecks(t *testing.T) {
	rules := DefaultRules()

	_, ok := rules.Address("zona 1")
	assert.False(t, ok)

	address, ok := rules.Address("4a avenida 5-55 zona 10, Ciudad de Guatemala")
	assert.True(t, ok)
	assert.NotEmpty(t, address)

	_, ok = rules.LoanPurpose("casa")
	assert.False(t, ok)

	purpose, ok := rules.LoanPurpose("remodelar mi casa")
	assert.True(t, ok)
	assert.Equal(t, "remodelar mi casa", purpose)
}
