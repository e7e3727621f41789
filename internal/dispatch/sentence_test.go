// internal/dispatch/sentence_test.go
package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{
			name: "question after statement",
			text: "Perfecto, comencemos. Primera pregunta: ¿Tienes 18 años o más?",
			expected: []string{
				"Perfecto, comencemos.",
				"Primera pregunta: ¿Tienes 18 años o más?",
			},
		},
		{
			name: "exclamation boundary",
			text: "¡Excelente! Calificas para nuestros préstamos. Ahora necesito recopilar algunos datos personales.",
			expected: []string{
				"¡Excelente!",
				"Calificas para nuestros préstamos.",
				"Ahora necesito recopilar algunos datos personales.",
			},
		},
		{
			name:     "thousands separators stay intact",
			text:     "Nuestros préstamos van desde 5,000 hasta 1,200,000 quetzales según el tipo.",
			expected: []string{"Nuestros préstamos van desde 5,000 hasta 1,200,000 quetzales según el tipo."},
		},
		{
			name:     "lowercase continuation is not a boundary",
			text:     "Te contactaremos al 5512-3478 para confirmar. los detalles vienen después.",
			expected: []string{"Te contactaremos al 5512-3478 para confirmar. los detalles vienen después."},
		},
		{
			name:     "newlines collapse into spaces",
			text:     "Próximos pasos:\nPrimero, revisamos tu solicitud.\nSegundo, te contactamos.",
			expected: []string{"Próximos pasos: Primero, revisamos tu solicitud.", "Segundo, te contactamos."},
		},
		{
			name:     "short fragments are dropped",
			text:     "Sí. No. Gracias por llamar a nuestra línea.",
			expected: []string{"Gracias por llamar a nuestra línea."},
		},
		{
			name:     "empty input",
			text:     "   ",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SplitSentences(tt.text))
		})
	}
}
