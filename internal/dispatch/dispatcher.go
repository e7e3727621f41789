// internal/dispatch/dispatcher.go

// Package dispatch is the turn loop: it takes one transcribed utterance,
// routes it through greeting, FAQ, scripted interview or free chat, and
// produces the utterances Ana speaks back. Optional collaborators (model,
// memory, persistence, notifications) degrade gracefully when absent or
// failing; the bot always answers.
package dispatch

import (
	"context"
	"strings"
	"time"

	"ana-voicebot/internal/common/logger"
	"ana-voicebot/internal/common/observability"
	"ana-voicebot/internal/faq"
	"ana-voicebot/internal/flow"
	"ana-voicebot/internal/llm"
	"ana-voicebot/internal/memory"
	"ana-voicebot/internal/models"
	"ana-voicebot/internal/notify"
	"ana-voicebot/internal/session"
)

const (
	introSpeech = "¡Hola! Soy Ana, tu asistente virtual de Club Cash In. ¿En qué puedo ayudarte hoy?"

	msgThanksReply   = "¡De nada! ¿Hay algo más en lo que te pueda ayudar hoy?"
	msgGreetingReply = "¡Hola de nuevo! ¿En qué puedo asistirte?"
	msgLLMEmptyReply = "Disculpa, no estoy segura de cómo responder a eso. ¿Podrías reformular tu pregunta? Puedo ayudarte con información sobre préstamos o iniciar una solicitud."
	msgNoLLMReply    = "Disculpa, no pude entender tu pregunta. Puedo ayudarte con información sobre nuestros préstamos o iniciar una solicitud."
)

var thanksWords = []string{"gracias", "muchas gracias", "ok", "bueno", "bien", "entiendo", "claro"}

var plainGreetings = []string{"hola", "buenos días", "buenas tardes", "buenas noches"}

// applicationPhrases start the interview directly from general chat, without
// the FAQ transition question in between.
var applicationPhrases = []string{
	"solicitar un préstamo", "aplicar para un préstamo", "pedir un préstamo",
	"iniciar solicitud", "empezar solicitud", "hacer una solicitud",
	"solicitud de préstamo", "aplicación de préstamo",
	"quiero un préstamo", "necesito un préstamo", "solicito un préstamo",
}

// Repository persists completed applications.
type Repository interface {
	Save(ctx context.Context, app *models.ApplicationRecord) error
}

// Turn is what one utterance produced: the utterances to speak, in order, and
// the state the session ended on.
type Turn struct {
	Responses []string
	State     models.ConversationState
}

// Deps wires the dispatcher. Engine, Store, FAQ and Log are required; the
// rest may be nil and their features simply switch off.
type Deps struct {
	Store        *session.Store
	Engine       *flow.Engine
	FAQ          *faq.Matcher
	LLM          llm.Client
	Memory       memory.Store
	Repo         Repository
	Notifier     notify.Notifier
	Obs          *observability.Observability
	HistoryLimit int
	Log          logger.Logger
}

type Dispatcher struct {
	deps Deps
	now  func() time.Time
}

func New(deps Deps) *Dispatcher {
	if deps.HistoryLimit <= 0 {
		deps.HistoryLimit = 10
	}
	return &Dispatcher{deps: deps, now: time.Now}
}

// ProcessTurn handles one utterance end to end. It never returns an error:
// collaborator failures are logged and the conversation continues with
// whatever can still be said.
func (d *Dispatcher) ProcessTurn(ctx context.Context, sessionID, userText string) Turn {
	start := d.now()
	turn := d.processTurn(ctx, sessionID, userText)
	d.finishTurn(ctx, sessionID, userText, turn, start)
	return turn
}

func (d *Dispatcher) processTurn(ctx context.Context, sessionID, userText string) Turn {
	// One-time introduction. The turn ends here so the greeting is never
	// doubled up with a substantive answer.
	if !d.deps.Store.WasIntroduced(sessionID) {
		d.deps.Store.MarkIntroduced(sessionID)
		return Turn{Responses: []string{introSpeech}, State: d.deps.Store.State(sessionID)}
	}

	state := d.deps.Store.State(sessionID)
	switch state {
	case models.StateGeneralChat:
		return d.handleGeneralChat(ctx, sessionID, userText)
	case models.StateAwaitingTransition:
		return d.handleTransition(ctx, sessionID, userText)
	default:
		return d.runEngine(ctx, sessionID, userText)
	}
}

// handleGeneralChat works through the priority ladder: contextual replies,
// explicit application requests, FAQ, then the model.
func (d *Dispatcher) handleGeneralChat(ctx context.Context, sessionID, userText string) Turn {
	lower := strings.ToLower(strings.TrimSpace(userText))

	for _, w := range thanksWords {
		if strings.Contains(lower, w) {
			return Turn{Responses: []string{msgThanksReply}, State: models.StateGeneralChat}
		}
	}
	for _, g := range plainGreetings {
		if lower == g {
			return Turn{Responses: []string{msgGreetingReply}, State: models.StateGeneralChat}
		}
	}

	// Explicit application requests outrank the FAQ: the knowledge base has a
	// bare "préstamo" trigger that would otherwise swallow every "quiero un
	// préstamo" into an informational answer.
	for _, phrase := range applicationPhrases {
		if strings.Contains(lower, phrase) {
			d.deps.Store.StartApplication(sessionID)
			return Turn{
				Responses: []string{flow.QuestionFor(models.StateAskEligibilityPermission)},
				State:     models.StateAskEligibilityPermission,
			}
		}
	}

	if entry, ok := d.deps.FAQ.Match(userText); ok {
		d.deps.Store.SetState(sessionID, models.StateAwaitingTransition)
		return Turn{
			Responses: []string{faq.Response(entry), faq.TransitionQuestion},
			State:     models.StateAwaitingTransition,
		}
	}

	return Turn{Responses: []string{d.chatFallback(ctx, sessionID, userText)}, State: models.StateGeneralChat}
}

// handleTransition lets the flow engine try first; an utterance it cannot
// read as yes or no may be another question, so the FAQ gets a second look
// before Ana asks for clarification. Answering a question does not consume a
// retry.
func (d *Dispatcher) handleTransition(ctx context.Context, sessionID, userText string) Turn {
	turn := d.runEngine(ctx, sessionID, userText)
	if turn.State != models.StateAwaitingTransition {
		return turn
	}

	if entry, ok := d.deps.FAQ.Match(userText); ok {
		return Turn{
			Responses: []string{faq.Response(entry), faq.TransitionQuestion},
			State:     models.StateAwaitingTransition,
		}
	}
	return turn
}

// runEngine executes a scripted-interview turn and handles the side effects
// of a completed application.
func (d *Dispatcher) runEngine(ctx context.Context, sessionID, userText string) Turn {
	from := d.deps.Store.State(sessionID)
	result := d.deps.Engine.Process(sessionID, userText)

	if d.deps.Obs != nil {
		if result.State != from {
			d.deps.Obs.RecordTransition(ctx, string(from), string(result.State))
		}
		if result.AbandonedState != "" {
			d.deps.Obs.RecordRetryExhausted(ctx, string(result.AbandonedState))
		}
	}

	if result.Completed != nil {
		d.persistCompleted(ctx, result.Completed)
	}
	return Turn{Responses: result.Responses, State: result.State}
}

// persistCompleted saves and announces a finished application. Neither step
// may disturb the conversation; the caller already heard the summary.
func (d *Dispatcher) persistCompleted(ctx context.Context, app *models.ApplicationRecord) {
	if d.deps.Repo != nil {
		if err := d.deps.Repo.Save(ctx, app); err != nil {
			d.deps.Log.WithError(err).Error("failed to persist completed application", map[string]interface{}{
				"applicationId": app.ApplicationID,
			})
		}
	}
	if d.deps.Notifier != nil {
		if err := d.deps.Notifier.NotifySubmitted(ctx, app); err != nil {
			d.deps.Log.WithError(err).Warn("submission notification incomplete", map[string]interface{}{
				"applicationId": app.ApplicationID,
			})
		}
	}
}

// chatFallback asks the model, degrading to canned lines when the model is
// absent, failing, or silent.
func (d *Dispatcher) chatFallback(ctx context.Context, sessionID, userText string) string {
	if d.deps.LLM == nil {
		return msgNoLLMReply
	}

	history := d.recentHistory(ctx, sessionID)
	reply, err := d.deps.LLM.Reply(ctx, userText, history)
	if err != nil {
		d.deps.Log.WithError(err).Warn("model fallback failed", map[string]interface{}{
			"sessionId": sessionID,
		})
		return msgLLMEmptyReply
	}
	if strings.TrimSpace(reply) == "" {
		return msgLLMEmptyReply
	}
	return reply
}

// recentHistory prefers the shared memory and falls back to the in-process
// session history when memory is absent or failing.
func (d *Dispatcher) recentHistory(ctx context.Context, sessionID string) []models.Interaction {
	if d.deps.Memory != nil {
		history, err := d.deps.Memory.RecentInteractions(ctx, sessionID, d.deps.HistoryLimit)
		if err == nil {
			return history
		}
		d.deps.Log.WithError(err).Warn("conversation memory unavailable", map[string]interface{}{
			"sessionId": sessionID,
		})
	}
	return d.deps.Store.RecentHistory(sessionID, d.deps.HistoryLimit)
}

// finishTurn records the exchange and the turn metrics.
func (d *Dispatcher) finishTurn(ctx context.Context, sessionID, userText string, turn Turn, start time.Time) {
	aiText := strings.Join(turn.Responses, " ")
	d.deps.Store.AppendHistory(sessionID, userText, aiText)
	if d.deps.Memory != nil {
		if err := d.deps.Memory.SaveInteraction(ctx, sessionID, userText, aiText); err != nil {
			d.deps.Log.WithError(err).Warn("failed to save interaction to memory", map[string]interface{}{
				"sessionId": sessionID,
			})
		}
	}

	if d.deps.Obs != nil {
		status := "ok"
		if len(turn.Responses) == 0 {
			status = "empty"
		}
		d.deps.Obs.RecordTurn(ctx, status)
		d.deps.Obs.RecordTurnDuration(ctx, d.now().Sub(start), status)
	}

	d.deps.Log.Debug("turn processed", map[string]interface{}{
		"sessionId": sessionID,
		"state":     string(turn.State),
		"responses": len(turn.Responses),
	})
}
