// internal/faq/knowledge.go

// Package faq answers common loan questions from a small curated knowledge
// base, matched by keyword scoring rather than a model call so answers stay
// deterministic and instant.
package faq

// Entry is one answerable intent: the phrases that trigger it and the canned
// Spanish answer to speak.
type Entry struct {
	Intent              string   `json:"intent"`
	Triggers            []string `json:"triggers"`
	Answer              string   `json:"answer"`
	IncludeTrustSnippet bool     `json:"include_trust_snippet"`
}

// TrustSnippet is appended to answers where credibility matters, such as
// questions about the company itself.
const TrustSnippet = "Somos una empresa con más de 7 años de experiencia en el sector financiero guatemalteco, " +
	"regulada por la Superintendencia de Bancos. Hemos ayudado a miles de familias a cumplir sus sueños " +
	"con préstamos seguros y transparentes."

// TransitionQuestion is asked after every answered question to steer the
// caller toward starting an application.
const TransitionQuestion = "¿Eso aclara tu duda? ¿Te gustaría que te ayude a iniciar una solicitud de préstamo ahora?"

// DefaultEntries returns the built-in knowledge base.
func DefaultEntries() []Entry {
	return []Entry{
		{
			Intent: "faq_loan_types",
			Triggers: []string{
				"qué tipos de préstamo tienen",
				"tipos de préstamos",
				"qué créditos dan",
				"explíquenme sus préstamos",
				"cómo son los créditos que dan",
				"qué préstamos ofrecen",
				"modalidades de préstamo",
				"clases de préstamos",
				"opciones de crédito",
				"préstamos disponibles",
				"tipos",
				"préstamos",
				"qué préstamos",
				"préstamo",
				"tipo de préstamo",
				"opciones",
				"modalidades",
				"tipos de prestamos tienen",
			},
			Answer: "Ofrecemos varios tipos de préstamos para adaptarnos a tus necesidades:\n\n" +
				"Préstamos Personales para gastos personales, vacaciones, o emergencias.\n" +
				"Préstamos para Vivienda para compra, construcción o remodelación de tu hogar.\n" +
				"Préstamos Vehiculares para la compra de tu auto nuevo o usado.\n" +
				"Préstamos para Negocio para impulsar tu emprendimiento o empresa.\n" +
				"Préstamos de Consolidación para unificar tus deudas en una sola cuota.\n\n" +
				"Todos nuestros préstamos tienen condiciones flexibles y tasas competitivas.",
			IncludeTrustSnippet: true,
		},
		{
			Intent: "faq_interest_rates",
			Triggers: []string{
				"tasas de interés",
				"qué intereses cobran",
				"cuánto de interés",
				"porcentaje de interés",
				"tasa anual",
				"intereses",
				"cuánto cobran de interés",
				"tasa del préstamo",
				"interés mensual",
				"qué tasa manejan",
			},
			Answer: "Nuestras tasas de interés son muy competitivas y varían según el tipo de préstamo:\n\n" +
				"Préstamos Personales desde 18% hasta 24% anual.\n" +
				"Préstamos Vehiculares desde 14% hasta 20% anual.\n" +
				"Préstamos de Vivienda desde 12% hasta 18% anual.\n" +
				"Préstamos para Negocio desde 16% hasta 22% anual.\n\n" +
				"La tasa exacta depende de tu perfil crediticio, monto solicitado y plazo. " +
				"Sin sorpresas! Te daremos la tasa exacta antes de firmar cualquier documento.",
		},
		{
			Intent: "faq_loan_amounts_max",
			Triggers: []string{
				"monto máximo",
				"máximo que dan",
				"límite máximo",
				"dinero máximo",
				"cantidad máxima",
				"máximo",
				"hasta cuánto prestan",
				"cuánto es lo máximo",
				"tope máximo",
			},
			Answer: "Nuestros montos máximos son:\n\n" +
				"Préstamos Personales: hasta 150,000 quetzales\n" +
				"Préstamos Vehiculares: hasta 500,000 quetzales\n" +
				"Préstamos de Vivienda: hasta 1,200,000 quetzales\n" +
				"Préstamos para Negocio: hasta 300,000 quetzales\n\n" +
				"El monto final depende de tu capacidad de pago y perfil crediticio.",
		},
		{
			Intent: "faq_loan_amounts_min",
			Triggers: []string{
				"monto mínimo",
				"mínimo que prestan",
				"desde cuánto prestan",
				"cuánto es lo mínimo",
				"cantidad mínima",
			},
			Answer: "El monto mínimo para todos nuestros préstamos es de 5,000 quetzales.\n\n" +
				"Esto aplica para todos los tipos: personales, vehiculares, vivienda y negocio.",
		},
		{
			Intent: "faq_loan_amounts_general",
			Triggers: []string{
				"cuánto puedo pedir prestado",
				"cuánto prestan",
				"límites de préstamo",
				"rangos de préstamo",
				"monto",
				"cuánto dinero",
				"qué cantidad",
			},
			Answer: "Nuestros préstamos van desde 5,000 hasta 1,200,000 quetzales:\n\n" +
				"Mínimo: 5,000 quetzales (todos los tipos)\n" +
				"Máximo: 1,200,000 quetzales (préstamos de vivienda)\n\n" +
				"El monto exacto depende del tipo de préstamo que necesites y tu capacidad de pago.",
		},
		{
			Intent: "faq_application_time",
			Triggers: []string{
				"cuánto tiempo toma",
				"tiempo de aprobación",
				"cuándo me aprueban",
				"proceso de solicitud",
				"tiempo del préstamo",
				"cuánto demora",
				"rapidez del préstamo",
				"tiempo de respuesta",
				"cuándo entregan el dinero",
				"proceso rápido",
			},
			Answer: "Nuestro proceso es rápido y eficiente:\n\n" +
				"Solicitud Inicial de solo 10 a 15 minutos conmigo ahora mismo.\n" +
				"Evaluación de 24 a 48 horas hábiles para la respuesta.\n" +
				"Desembolso una vez aprobado, el dinero en tu cuenta en 1 a 2 días hábiles.\n\n" +
				"Proceso completo normalmente de 3 a 5 días hábiles desde la solicitud hasta tener el dinero.\n\n" +
				"Somos una de las instituciones más rápidas del mercado guatemalteco.",
		},
		{
			Intent: "faq_company_registration",
			Triggers: []string{
				"empresa registrada",
				"empresa legal",
				"regulados por",
				"supervisados",
				"empresa confiable",
				"licencias",
				"permisos",
				"registro de la empresa",
				"empresa autorizada",
				"superintendencia",
			},
			Answer: "Por supuesto! Somos una empresa 100% legal y confiable:\n\n" +
				"Registrados en el Registro Mercantil de Guatemala.\n" +
				"Supervisados por la Superintendencia de Bancos SIB.\n" +
				"Licencia vigente para operar como institución financiera.\n" +
				"Miembro de la Asociación Bancaria de Guatemala.\n\n" +
				"Puedes verificar nuestro registro en la página oficial de la SIB con nuestro número de licencia.",
			IncludeTrustSnippet: true,
		},
		{
			Intent: "faq_requirements",
			Triggers: []string{
				"qué necesito para solicitar",
				"requisitos",
				"documentos necesarios",
				"qué documentos",
				"papeles para préstamo",
				"qué piden",
				"requisitos para préstamo",
				"documentación",
				"qué debo tener",
				"papelería",
			},
			Answer: "Los requisitos básicos son sencillos:\n\n" +
				"Para Todos los Préstamos:\n" +
				"Ser mayor de 18 años.\n" +
				"DPI vigente.\n" +
				"Comprobante de ingresos de los últimos 3 meses.\n" +
				"Referencias personales y comerciales.\n\n" +
				"Adicionales según el tipo:\n" +
				"Para Vivienda necesitas escritura o promesa de compraventa.\n" +
				"Para Vehículo necesitas tarjeta de circulación, factura o avalúo.\n" +
				"Para Negocio necesitas estados financieros básicos.\n\n" +
				"No te preocupes! Te guío paso a paso con cada documento.",
		},
		{
			Intent: "faq_payment_terms",
			Triggers: []string{
				"plazos de pago",
				"cuánto tiempo para pagar",
				"meses para pagar",
				"términos de pago",
				"período de pago",
				"tiempo del préstamo",
				"cuotas",
				"pagos mensuales",
				"plazo máximo",
				"años para pagar",
			},
			Answer: "Ofrecemos plazos flexibles según tus necesidades:\n\n" +
				"Préstamos Personales de 12 a 60 meses.\n" +
				"Préstamos Vehiculares de 12 a 84 meses, es decir 7 años.\n" +
				"Préstamos de Vivienda de 60 a 300 meses, es decir 25 años.\n" +
				"Préstamos para Negocio de 12 a 72 meses.\n\n" +
				"Pagos mensuales fijos, siempre sabrás cuánto pagas cada mes.\n" +
				"Puedes pagar anticipadamente sin penalización.",
		},
	}
}
