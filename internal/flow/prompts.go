// internal/flow/prompts.go
package flow

import (
	"strconv"
	"strings"

	"ana-voicebot/internal/models"
)

// initialQuestions holds the question Ana asks when a state is entered.
var initialQuestions = map[models.ConversationState]string{
	models.StateAskEligibilityPermission: "¡Excelente! Para comenzar con tu solicitud de préstamo, necesito hacerte unas preguntas rápidas para verificar tu elegibilidad. ¿Está bien que comencemos?",
	models.StateAskMinimumAge:            "Perfecto, comencemos. Primera pregunta: ¿Tienes 18 años o más?",
	models.StateAskResidency:             "Entendido. ¿Resides actualmente en Guatemala?",
	models.StateAskMinimumIncome:         "Muy bien. ¿Tienes ingresos mensuales de al menos 3,000 quetzales?",
	models.StateAskFullName:              "¿Cuál es tu nombre completo?",
	models.StateAskDPI:                   "Gracias. ¿Cuál es tu número de DPI?",
	models.StateAskDOB:                   "Perfecto. ¿Cuál es tu fecha de nacimiento? Por favor dímela en formato día, mes, año.",
	models.StateAskAddress:               "Muy bien. ¿Cuál es tu dirección completa de residencia?",
	models.StateAskPhone:                 "Gracias. ¿Cuál es tu número de teléfono?",
	models.StateAskEmail:                 "Perfecto. ¿Cuál es tu dirección de correo electrónico?",
	models.StateAskEmploymentStatus:      "Muy bien. ¿Cuál es tu situación laboral actual? ¿Estás empleado, eres trabajador independiente, estudiante, o desempleado?",
	models.StateAskLoanAmount:            "Perfecto. ¿Qué monto de préstamo necesitas? Recuerda que nuestros préstamos van desde 5,000 hasta 1,200,000 quetzales según el tipo.",
	models.StateAskLoanPurpose:           "Entendido. ¿Para qué necesitas este préstamo? Por ejemplo: compra de vivienda, vehículo, gastos personales, negocio, etc.",
	models.StateAskConsent:               "Casi terminamos. Para procesar tu solicitud necesito tu consentimiento para verificar tu información crediticia y contactarte sobre tu aplicación. ¿Aceptas estos términos?",
}

// QuestionFor returns the opening question for a state.
func QuestionFor(state models.ConversationState) string {
	if q, ok := initialQuestions[state]; ok {
		return q
	}
	return "¿En qué puedo ayudarte?"
}

const (
	anythingElse = "¿Hay algo más en lo que te pueda ayudar?"

	msgSystemError = "Lo siento, hay un error en el sistema. ¿Podrías repetir tu solicitud?"

	msgTransitionDeclined      = "Entiendo. ¿Hay algo más en lo que te pueda ayudar hoy?"
	msgTransitionClarification = "No entendí tu respuesta. ¿Te gustaría que te ayude a iniciar una solicitud de préstamo? Por favor responde 'sí' o 'no'."

	msgPermissionDeclined = "Entiendo. Si cambias de opinión, estaré aquí para ayudarte. " + anythingElse

	msgAgeRetry = "Disculpa, no entendí bien. ¿Podrías confirmar si tienes 18 años o más? Puedes responder 'sí' o 'no'."
	msgAgeBail  = "Lo siento, pero nuestros préstamos requieren ser mayor de 18 años. Cuando cumplas la edad mínima, estaremos encantados de ayudarte. " + anythingElse

	msgResidencyRetry  = "Disculpa, no entendí. ¿Resides actualmente en Guatemala? Por favor responde 'sí' o 'no'."
	msgResidencyReject = "Lo siento, actualmente solo ofrecemos préstamos a residentes de Guatemala. " + anythingElse
	msgResidencyBail   = "No puedo continuar sin esta información. Te invito a contactarnos nuevamente cuando puedas proporcionar la información requerida. " + anythingElse

	msgIncomeAccepted = "Perfecto, cumples con los requisitos básicos."
	msgIncomeRetry    = "Disculpa, no entendí. ¿Tienes ingresos mensuales de al menos 3,000 quetzales? Puedes responder 'sí' o 'no'."
	msgIncomeBail     = "Entiendo. Lamentablemente, nuestros préstamos requieren ingresos mínimos de 3,000 quetzales mensuales. Te invitamos a aplicar nuevamente cuando tus ingresos aumenten. " + anythingElse

	msgQualified    = "¡Excelente! Calificas para nuestros préstamos. Ahora necesito recopilar algunos datos personales."
	msgNotQualified = "Lo siento, no cumples con los requisitos mínimos para nuestros préstamos en este momento. " + anythingElse

	msgNameRetry = "Disculpa, necesito tu nombre completo. Por favor proporciona tu nombre y apellidos completos."
	msgNameBail  = "No puedo continuar sin tu nombre completo. Te invito a contactarnos nuevamente. " + anythingElse

	msgDPIRetry = "Disculpa, necesito un número de DPI válido. Debe ser un número de 13 dígitos. ¿Podrías repetirlo?"
	msgDPIBail  = "No puedo continuar sin un DPI válido. Te invito a contactarnos nuevamente con tu DPI. " + anythingElse

	msgDOBRetry = "Disculpa, no entendí la fecha. Por favor dime tu fecha de nacimiento en formato día, mes, año. Por ejemplo: 15 de marzo de 1990."
	msgDOBBail  = "No puedo continuar sin una fecha de nacimiento válida. Te invito a contactarnos nuevamente. " + anythingElse

	msgAddressRetry = "Disculpa, necesito tu dirección completa. Por favor incluye zona, municipio o colonia."
	msgAddressBail  = "No puedo continuar sin una dirección completa. Te invito a contactarnos nuevamente. " + anythingElse

	msgPhoneRetry = "Disculpa, necesito un número de teléfono válido. Por ejemplo: 5555-1234 o 4455-6789."
	msgPhoneBail  = "No puedo continuar sin un número de teléfono válido. Te invito a contactarnos nuevamente. " + anythingElse

	msgEmailRetry         = "Disculpa, necesito un correo electrónico válido. Puedes decir: 'mi correo es nombre ARROBA gmail PUNTO com' o deletrearlo."
	msgEmailDictationHint = "Entiendo que estás dictando tu correo. Intenta decirlo claramente: 'mi correo es juan ARROBA gmail PUNTO com'. O puedes deletrearlo letra por letra."
	msgEmailBail          = "No puedo continuar sin un correo electrónico válido. Te invito a contactarnos nuevamente. " + anythingElse

	msgEmploymentRetry      = "Disculpa, no entendí. ¿Estás empleado, eres trabajador independiente, estudiante, o desempleado?"
	msgEmploymentBail       = "No puedo continuar sin conocer tu situación laboral. Te invito a contactarnos nuevamente. " + anythingElse
	msgEmploymentDisqualify = "Entiendo. Para continuar necesitarías tener un empleo o ingresos regulares. " + anythingElse

	msgEmployedDetails     = "Perfecto. ¿En qué empresa trabajas y cuánto tiempo llevas ahí?"
	msgSelfEmployedDetails = "Excelente. ¿A qué te dedicas? Describe brevemente tu negocio o actividad."

	msgAmountRetry = "Disculpa, no entendí el monto. Por favor indica una cantidad entre 5,000 y 1,200,000 quetzales. Por ejemplo: '50,000 quetzales' o '50 mil'."
	msgAmountBail  = "No puedo continuar sin un monto válido. Te invito a contactarnos nuevamente. " + anythingElse

	msgPurposeRetry = "Disculpa, necesito saber para qué necesitas el préstamo. Por ejemplo: compra de casa, auto, negocio, gastos personales, etc."
	msgPurposeBail  = "No puedo continuar sin conocer el propósito del préstamo. Te invito a contactarnos nuevamente. " + anythingElse

	msgConsentAccepted = "¡Perfecto! Procesando tu solicitud..."
	msgConsentDeclined = "Entiendo. Sin tu consentimiento no podemos procesar la solicitud. Si cambias de opinión, estaremos aquí para ayudarte. " + anythingElse
)

// summaryText renders the closing summary once an application is complete.
func summaryText(app *models.ApplicationRecord) string {
	var b strings.Builder
	b.WriteString("Excelente! Tu solicitud ha sido registrada exitosamente.\n\n")
	b.WriteString("Resumen de tu solicitud:\n")
	b.WriteString("Número de referencia: " + app.ApplicationID + "\n")
	b.WriteString("Solicitante: " + app.FullName + "\n")
	b.WriteString("Monto solicitado: " + formatQuetzales(app.LoanAmount) + " quetzales\n")
	b.WriteString("Propósito: " + app.LoanPurpose + "\n\n")
	b.WriteString("Próximos pasos:\n")
	b.WriteString("Primero, nuestro equipo revisará tu solicitud en 24 a 48 horas.\n")
	b.WriteString("Segundo, te contactaremos al " + app.Phone + " para confirmar detalles.\n")
	b.WriteString("Tercero, si es aprobada, coordinaremos la entrega de documentos.\n\n")
	b.WriteString("Gracias por confiar en nosotros! Hay algo más en lo que te pueda ayudar hoy?")
	return b.String()
}

// formatQuetzales renders an amount with thousands separators and no decimals.
func formatQuetzales(amount float64) string {
	s := strconv.FormatFloat(amount, 'f', 0, 64)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
