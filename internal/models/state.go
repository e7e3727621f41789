// internal/models/state.go
package models

// ConversationState identifies where a session is in the interview script.
type ConversationState string

const (
	// Free-chat states.
	StateGeneralChat        ConversationState = "general_chat"
	StateAwaitingTransition ConversationState = "awaiting_transition_response"

	// Scripted interview states, in script order.
	StateAskEligibilityPermission ConversationState = "ask_eligibility_permission"
	StateAskMinimumAge            ConversationState = "ask_minimum_age"
	StateAskResidency             ConversationState = "ask_residency"
	StateAskMinimumIncome         ConversationState = "ask_minimum_income"
	StateQualificationResult      ConversationState = "handle_initial_qualification"
	StateAskFullName              ConversationState = "ask_full_name"
	StateAskDPI                   ConversationState = "ask_dpi"
	StateAskDOB                   ConversationState = "ask_dob"
	StateAskAddress               ConversationState = "ask_address"
	StateAskPhone                 ConversationState = "ask_phone"
	StateAskEmail                 ConversationState = "ask_email"
	StateAskEmploymentStatus      ConversationState = "ask_employment_status"
	StateAskEmploymentDetails     ConversationState = "ask_employment_details"
	StateAskLoanAmount            ConversationState = "ask_loan_amount"
	StateAskLoanPurpose           ConversationState = "ask_loan_purpose"
	StateAskConsent               ConversationState = "ask_consent_disclosures"
	StateApplicationSummary       ConversationState = "provide_application_summary"
)

// InInterview reports whether the state is part of the structured application
// script, as opposed to the free-chat pair.
func (s ConversationState) InInterview() bool {
	switch s {
	case StateGeneralChat, StateAwaitingTransition:
		return false
	}
	return true
}

// Computed reports whether the state consumes no user input: its handler reads
// accumulated data and produces the next step on its own.
func (s ConversationState) Computed() bool {
	return s == StateQualificationResult || s == StateApplicationSummary
}
