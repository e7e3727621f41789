// internal/flow/handlers.go
package flow

import (
	"strings"

	"ana-voicebot/internal/models"
	"ana-voicebot/internal/validate"
)

// handleTransitionResponse resolves the "shall we start an application?"
// question. An answer that is neither a yes nor a no keeps the state so the
// caller of the engine can try interpreting it as another question.
func (e *Engine) handleTransitionResponse(sessionID, input string) step {
	switch {
	case validate.IsAffirmative(input):
		e.store.StartApplication(sessionID)
		return step{
			response: QuestionFor(models.StateAskEligibilityPermission),
			next:     models.StateAskEligibilityPermission,
			success:  true,
		}
	case validate.IsNegative(input):
		return step{response: msgTransitionDeclined, next: models.StateGeneralChat, success: true}
	default:
		return step{response: msgTransitionClarification, next: models.StateAwaitingTransition}
	}
}

// handleEligibilityPermission treats anything short of a yes as a decline.
// There is no retry here: the caller has not committed to anything yet.
func (e *Engine) handleEligibilityPermission(sessionID, input string) step {
	if validate.IsAffirmative(input) {
		return step{
			response: QuestionFor(models.StateAskMinimumAge),
			next:     models.StateAskMinimumAge,
			success:  true,
		}
	}
	return step{response: msgPermissionDeclined, next: models.StateGeneralChat, success: true}
}

func (e *Engine) handleAge(sessionID, input string) step {
	age, ok := e.rules.Age(input)
	if !ok {
		return e.retryOrBail(sessionID, models.StateAskMinimumAge, msgAgeRetry, msgAgeBail,
			func(app *models.ApplicationRecord) {
				app.IsMinimumAge = models.BoolPtr(false)
			})
	}
	app := e.store.Application(sessionID)
	app.IsMinimumAge = models.BoolPtr(true)
	if age > 0 {
		app.Age = models.IntPtr(age)
	}
	return step{
		response: QuestionFor(models.StateAskResidency),
		next:     models.StateAskResidency,
		success:  true,
	}
}

// handleResidency is the one eligibility question where an explicit no is a
// hard rejection rather than a retry; residency cannot change by rephrasing.
func (e *Engine) handleResidency(sessionID, input string) step {
	app := e.store.Application(sessionID)
	switch {
	case validate.IsAffirmative(input):
		app.IsGuatemalanResident = models.BoolPtr(true)
		return step{
			response: QuestionFor(models.StateAskMinimumIncome),
			next:     models.StateAskMinimumIncome,
			success:  true,
		}
	case validate.IsNegative(input):
		app.IsGuatemalanResident = models.BoolPtr(false)
		return step{response: msgResidencyReject, next: models.StateGeneralChat}
	default:
		return e.retryOrBail(sessionID, models.StateAskResidency, msgResidencyRetry, msgResidencyBail, nil)
	}
}

func (e *Engine) handleIncome(sessionID, input string) step {
	income, ok := e.rules.Income(input)
	if !ok {
		return e.retryOrBail(sessionID, models.StateAskMinimumIncome, msgIncomeRetry, msgIncomeBail,
			func(app *models.ApplicationRecord) {
				app.HasMinimumIncome = models.BoolPtr(false)
			})
	}
	app := e.store.Application(sessionID)
	app.HasMinimumIncome = models.BoolPtr(true)
	if income > 0 {
		app.MonthlyIncome = models.Float64Ptr(income)
	}
	return step{response: msgIncomeAccepted, next: models.StateQualificationResult, success: true}
}

// handleQualificationResult is computed: it reads the three eligibility
// answers and never sees user input.
func (e *Engine) handleQualificationResult(sessionID, _ string) step {
	app := e.store.Application(sessionID)
	if app.IsQualified() {
		app.Qualified = models.BoolPtr(true)
		return step{response: msgQualified, next: models.StateAskFullName, success: true}
	}
	return step{response: msgNotQualified, next: models.StateGeneralChat}
}

func (e *Engine) handleFullName(sessionID, input string) step {
	name, ok := e.rules.FullName(input)
	if !ok {
		return e.retryOrBail(sessionID, models.StateAskFullName, msgNameRetry, msgNameBail, nil)
	}
	e.store.Application(sessionID).FullName = name
	return step{response: QuestionFor(models.StateAskDPI), next: models.StateAskDPI, success: true}
}

func (e *Engine) handleDPI(sessionID, input string) step {
	dpi, ok := validate.DPI(input)
	if !ok {
		return e.retryOrBail(sessionID, models.StateAskDPI, msgDPIRetry, msgDPIBail, nil)
	}
	e.store.Application(sessionID).DPI = dpi
	return step{response: QuestionFor(models.StateAskDOB), next: models.StateAskDOB, success: true}
}

func (e *Engine) handleDOB(sessionID, input string) step {
	dob, ok := validate.DateOfBirth(input)
	if !ok {
		return e.retryOrBail(sessionID, models.StateAskDOB, msgDOBRetry, msgDOBBail, nil)
	}
	e.store.Application(sessionID).DateOfBirth = dob
	return step{response: QuestionFor(models.StateAskAddress), next: models.StateAskAddress, success: true}
}

func (e *Engine) handleAddress(sessionID, input string) step {
	address, ok := e.rules.Address(input)
	if !ok {
		return e.retryOrBail(sessionID, models.StateAskAddress, msgAddressRetry, msgAddressBail, nil)
	}
	e.store.Application(sessionID).Address = address
	return step{response: QuestionFor(models.StateAskPhone), next: models.StateAskPhone, success: true}
}

func (e *Engine) handlePhone(sessionID, input string) step {
	phone, ok := validate.Phone(input)
	if !ok {
		return e.retryOrBail(sessionID, models.StateAskPhone, msgPhoneRetry, msgPhoneBail, nil)
	}
	e.store.Application(sessionID).Phone = phone
	return step{response: QuestionFor(models.StateAskEmail), next: models.StateAskEmail, success: true}
}

func (e *Engine) handleEmail(sessionID, input string) step {
	email, ok := validate.Email(input)
	if !ok {
		retryMsg := msgEmailRetry
		if looksLikeEmailDictation(input) {
			retryMsg = msgEmailDictationHint
		}
		return e.retryOrBail(sessionID, models.StateAskEmail, retryMsg, msgEmailBail, nil)
	}
	e.store.Application(sessionID).Email = email
	return step{
		response: QuestionFor(models.StateAskEmploymentStatus),
		next:     models.StateAskEmploymentStatus,
		success:  true,
	}
}

func looksLikeEmailDictation(input string) bool {
	lower := strings.ToLower(input)
	for _, hint := range []string{"arroba", "punto", "gmail", "hotmail", "yahoo"} {
		if strings.Contains(lower, hint) {
			return true
		}
	}
	return false
}

// handleEmploymentStatus branches three ways: employed and self-employed
// continue to details, student and unemployed end the application outright.
func (e *Engine) handleEmploymentStatus(sessionID, input string) step {
	status, ok := validate.EmploymentStatus(input)
	if !ok {
		return e.retryOrBail(sessionID, models.StateAskEmploymentStatus, msgEmploymentRetry, msgEmploymentBail, nil)
	}
	app := e.store.Application(sessionID)
	app.EmploymentStatus = status

	if status.Disqualifying() {
		return step{response: msgEmploymentDisqualify, next: models.StateGeneralChat}
	}
	detailsQuestion := msgEmployedDetails
	if status == models.SelfEmployed {
		detailsQuestion = msgSelfEmployedDetails
	}
	return step{response: detailsQuestion, next: models.StateAskEmploymentDetails, success: true}
}

// handleEmploymentDetails stores free text, no validation: which field it
// lands in depends on the status collected one step earlier.
func (e *Engine) handleEmploymentDetails(sessionID, input string) step {
	app := e.store.Application(sessionID)
	details := strings.TrimSpace(input)
	if app.EmploymentStatus == models.Employed {
		app.CompanyName = details
	} else {
		app.BusinessType = details
	}
	return step{
		response: QuestionFor(models.StateAskLoanAmount),
		next:     models.StateAskLoanAmount,
		success:  true,
	}
}

func (e *Engine) handleLoanAmount(sessionID, input string) step {
	amount, ok := e.rules.LoanAmount(input)
	if !ok {
		return e.retryOrBail(sessionID, models.StateAskLoanAmount, msgAmountRetry, msgAmountBail, nil)
	}
	e.store.Application(sessionID).LoanAmount = amount
	return step{
		response: QuestionFor(models.StateAskLoanPurpose),
		next:     models.StateAskLoanPurpose,
		success:  true,
	}
}

func (e *Engine) handleLoanPurpose(sessionID, input string) step {
	purpose, ok := e.rules.LoanPurpose(input)
	if !ok {
		return e.retryOrBail(sessionID, models.StateAskLoanPurpose, msgPurposeRetry, msgPurposeBail, nil)
	}
	e.store.Application(sessionID).LoanPurpose = purpose
	return step{response: QuestionFor(models.StateAskConsent), next: models.StateAskConsent, success: true}
}

// handleConsent treats anything short of a yes as a decline; consent must be
// explicit, so there is no retry.
func (e *Engine) handleConsent(sessionID, input string) step {
	if !validate.IsAffirmative(input) {
		return step{response: msgConsentDeclined, next: models.StateGeneralChat}
	}
	e.store.Application(sessionID).ConsentGiven = models.BoolPtr(true)
	return step{response: msgConsentAccepted, next: models.StateApplicationSummary, success: true}
}

// handleApplicationSummary is computed: it closes the interview, hands the
// finished record to the caller, and returns the session to general chat.
func (e *Engine) handleApplicationSummary(sessionID, _ string) step {
	app := e.store.Application(sessionID)
	e.log.Info("application completed", map[string]interface{}{
		"sessionId":     sessionID,
		"applicationId": app.ApplicationID,
		"loanAmount":    app.LoanAmount,
	})
	finished := *app
	return step{
		response:  summaryText(app),
		next:      models.StateGeneralChat,
		success:   true,
		completed: &finished,
	}
}
