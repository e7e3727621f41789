// internal/flow/engine.go

// Package flow runs the scripted loan interview: one handler per conversation
// state, a shared retry policy, and automatic chaining through the states
// that consume no user input.
package flow

import (
	"ana-voicebot/internal/common/logger"
	"ana-voicebot/internal/models"
	"ana-voicebot/internal/session"
	"ana-voicebot/internal/validate"
)

// Result is the outcome of one processed utterance. Responses holds the
// utterances to speak in order; a single turn can produce several when the
// script chains through a computed state.
type Result struct {
	Responses []string
	State     models.ConversationState
	Success   bool

	// AbandonedState is set when the retry cap ended the application, naming
	// the state that exhausted its attempts.
	AbandonedState models.ConversationState

	// Completed is the finished application, set only on the turn that
	// produced the closing summary.
	Completed *models.ApplicationRecord
}

// step is the outcome of a single state handler before chaining.
type step struct {
	response  string
	next      models.ConversationState
	success   bool
	abandoned bool
	completed *models.ApplicationRecord
}

type handlerFunc func(sessionID, input string) step

// Engine dispatches utterances to the handler for the session's current state.
type Engine struct {
	store      *session.Store
	rules      validate.Rules
	maxRetries int
	log        logger.Logger
	handlers   map[models.ConversationState]handlerFunc
}

func NewEngine(store *session.Store, rules validate.Rules, maxRetries int, log logger.Logger) *Engine {
	e := &Engine{
		store:      store,
		rules:      rules,
		maxRetries: maxRetries,
		log:        log,
	}
	e.handlers = map[models.ConversationState]handlerFunc{
		models.StateAwaitingTransition:       e.handleTransitionResponse,
		models.StateAskEligibilityPermission: e.handleEligibilityPermission,
		models.StateAskMinimumAge:            e.handleAge,
		models.StateAskResidency:             e.handleResidency,
		models.StateAskMinimumIncome:         e.handleIncome,
		models.StateQualificationResult:      e.handleQualificationResult,
		models.StateAskFullName:              e.handleFullName,
		models.StateAskDPI:                   e.handleDPI,
		models.StateAskDOB:                   e.handleDOB,
		models.StateAskAddress:               e.handleAddress,
		models.StateAskPhone:                 e.handlePhone,
		models.StateAskEmail:                 e.handleEmail,
		models.StateAskEmploymentStatus:      e.handleEmploymentStatus,
		models.StateAskEmploymentDetails:     e.handleEmploymentDetails,
		models.StateAskLoanAmount:            e.handleLoanAmount,
		models.StateAskLoanPurpose:           e.handleLoanPurpose,
		models.StateAskConsent:               e.handleConsent,
		models.StateApplicationSummary:       e.handleApplicationSummary,
	}
	return e
}

// Process runs the current state's handler on the utterance, commits the
// resulting transition, and chains through any computed states so a single
// caller turn always ends on a state that waits for input.
func (e *Engine) Process(sessionID, input string) Result {
	state := e.store.State(sessionID)

	handler, ok := e.handlers[state]
	if !ok {
		e.log.Error("no handler for state", map[string]interface{}{
			"sessionId": sessionID,
			"state":     string(state),
		})
		e.store.SetState(sessionID, models.StateGeneralChat)
		return Result{
			Responses: []string{msgSystemError},
			State:     models.StateGeneralChat,
			Success:   false,
		}
	}

	st := handler(sessionID, input)
	e.commit(sessionID, state, st.next)

	result := Result{
		Responses: []string{st.response},
		State:     st.next,
		Success:   st.success,
		Completed: st.completed,
	}
	if st.abandoned {
		result.AbandonedState = state
	}

	// Computed states read accumulated data instead of waiting for the
	// caller, so their handlers run immediately in the same turn.
	for result.State.Computed() {
		prev := result.State
		st = e.handlers[prev](sessionID, "")
		e.commit(sessionID, prev, st.next)

		result.Responses = append(result.Responses, st.response)
		result.State = st.next
		result.Success = st.success
		if st.completed != nil {
			result.Completed = st.completed
		}

		// Moving from a computed state straight into a question state means
		// nothing has asked the question yet.
		if !st.next.Computed() && st.next.InInterview() {
			result.Responses = append(result.Responses, QuestionFor(st.next))
		}
	}
	return result
}

func (e *Engine) commit(sessionID string, from, to models.ConversationState) {
	e.store.SetState(sessionID, to)
	if from != to {
		e.log.Debug("state transition", map[string]interface{}{
			"sessionId": sessionID,
			"from":      string(from),
			"to":        string(to),
		})
	}
}

// retryOrBail applies the shared retry policy: re-prompt until the cap is
// reached, then abandon the application and return to general chat. onBail
// runs just before bailing, for steps that record a failed check.
func (e *Engine) retryOrBail(sessionID string, state models.ConversationState, retryMsg, bailMsg string, onBail func(*models.ApplicationRecord)) step {
	count := e.store.IncrementRetry(sessionID)
	if count >= e.maxRetries {
		if onBail != nil {
			onBail(e.store.Application(sessionID))
		}
		e.log.Info("retries exhausted, abandoning application", map[string]interface{}{
			"sessionId": sessionID,
			"state":     string(state),
			"retries":   count,
		})
		return step{response: bailMsg, next: models.StateGeneralChat, abandoned: true}
	}
	return step{response: retryMsg, next: state}
}
