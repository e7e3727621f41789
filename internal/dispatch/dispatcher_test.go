// internal/dispatch/dispatcher_test.go
package dispatch

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ana-voicebot/internal/common/logger"
	"ana-voicebot/internal/faq"
	"ana-voicebot/internal/flow"
	"ana-voicebot/internal/models"
	"ana-voicebot/internal/session"
	"ana-voicebot/internal/validate"
)

type stubLLM struct {
	reply string
	err   error
	calls int
}

func (s *stubLLM) Reply(_ context.Context, _ string, _ []models.Interaction) (string, error) {
	s.calls++
	return s.reply, s.err
}

type stubRepo struct {
	saved []*models.ApplicationRecord
	err   error
}

func (s *stubRepo) Save(_ context.Context, app *models.ApplicationRecord) error {
	s.saved = append(s.saved, app)
	return s.err
}

type stubNotifier struct {
	notified []*models.ApplicationRecord
}

func (s *stubNotifier) NotifySubmitted(_ context.Context, app *models.ApplicationRecord) error {
	s.notified = append(s.notified, app)
	return nil
}

type fixture struct {
	dispatcher *Dispatcher
	store      *session.Store
	llm        *stubLLM
	repo       *stubRepo
	notifier   *stubNotifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := logger.NewTestLogger(t)
	store := session.NewStore(log)
	f := &fixture{
		store:    store,
		llm:      &stubLLM{reply: "Con gusto te cuento más."},
		repo:     &stubRepo{},
		notifier: &stubNotifier{},
	}
	f.dispatcher = New(Deps{
		Store:    store,
		Engine:   flow.NewEngine(store, validate.DefaultRules(), 2, log),
		FAQ:      faq.NewMatcher(faq.DefaultEntries(), log),
		LLM:      f.llm,
		Repo:     f.repo,
		Notifier: f.notifier,
		Log:      log,
	})
	return f
}

// introduce burns the one-time greeting so tests can exercise real turns.
func (f *fixture) introduce(t *testing.T, sessionID string) {
	t.Helper()
	turn := f.dispatcher.ProcessTurn(context.Background(), sessionID, "hola")
	require.Equal(t, []string{introSpeech}, turn.Responses)
}

func TestIntroductionPlaysExactlyOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	turn := f.dispatcher.ProcessTurn(ctx, "s1", "hola")
	assert.Equal(t, []string{introSpeech}, turn.Responses)

	turn = f.dispatcher.ProcessTurn(ctx, "s1", "hola")
	assert.Equal(t, []string{msgGreetingReply}, turn.Responses)
}

func TestThanksGetsContextualReply(t *testing.T) {
	f := newFixture(t)
	f.introduce(t, "s1")

	turn := f.dispatcher.ProcessTurn(context.Background(), "s1", "muchas gracias")
	assert.Equal(t, []string{msgThanksReply}, turn.Responses)
	assert.Equal(t, 0, f.llm.calls)
}

func TestFAQAnswerLeadsToTransitionQuestion(t *testing.T) {
	f := newFixture(t)
	f.introduce(t, "s1")
	ctx := context.Background()

	turn := f.dispatcher.ProcessTurn(ctx, "s1", "¿qué tipos de préstamos tienen?")
	require.Len(t, turn.Responses, 2)
	assert.Contains(t, turn.Responses[0], "Préstamos Personales")
	assert.Equal(t, faq.TransitionQuestion, turn.Responses[1])
	assert.Equal(t, models.StateAwaitingTransition, turn.State)
}

func TestExplicitApplicationRequestStartsFlow(t *testing.T) {
	f := newFixture(t)
	f.introduce(t, "s1")

	turn := f.dispatcher.ProcessTurn(context.Background(), "s1", "quiero un préstamo para mi negocio")
	require.Len(t, turn.Responses, 1)
	assert.Equal(t, flow.QuestionFor(models.StateAskEligibilityPermission), turn.Responses[0])
	assert.Equal(t, models.StateAskEligibilityPermission, turn.State)
}

func TestQuestionDuringTransitionAnsweredWithoutRetry(t *testing.T) {
	f := newFixture(t)
	f.introduce(t, "s1")
	ctx := context.Background()

	f.dispatcher.ProcessTurn(ctx, "s1", "¿qué tipos de préstamos tienen?")

	// A follow-up question instead of yes/no gets an answer and a re-ask.
	turn := f.dispatcher.ProcessTurn(ctx, "s1", "¿y las tasas de interés?")
	require.Len(t, turn.Responses, 2)
	assert.Contains(t, turn.Responses[0], "tasas de interés")
	assert.Equal(t, faq.TransitionQuestion, turn.Responses[1])
	assert.Equal(t, models.StateAwaitingTransition, turn.State)

	// Saying yes afterwards still starts the interview.
	turn = f.dispatcher.ProcessTurn(ctx, "s1", "sí, empecemos")
	assert.Equal(t, models.StateAskEligibilityPermission, turn.State)
}

func TestLLMFallback(t *testing.T) {
	t.Run("model reply is used", func(t *testing.T) {
		f := newFixture(t)
		f.introduce(t, "s1")

		turn := f.dispatcher.ProcessTurn(context.Background(), "s1", "cuéntame un chiste")
		assert.Equal(t, []string{"Con gusto te cuento más."}, turn.Responses)
		assert.Equal(t, 1, f.llm.calls)
	})

	t.Run("model failure degrades to canned reply", func(t *testing.T) {
		f := newFixture(t)
		f.llm.err = errors.New("timeout")
		f.introduce(t, "s1")

		turn := f.dispatcher.ProcessTurn(context.Background(), "s1", "cuéntame un chiste")
		assert.Equal(t, []string{msgLLMEmptyReply}, turn.Responses)
	})

	t.Run("missing model degrades to canned reply", func(t *testing.T) {
		f := newFixture(t)
		f.dispatcher.deps.LLM = nil
		f.introduce(t, "s1")

		turn := f.dispatcher.ProcessTurn(context.Background(), "s1", "cuéntame un chiste")
		assert.Equal(t, []string{msgNoLLMReply}, turn.Responses)
	})
}

func TestCompletedApplicationPersistedAndNotified(t *testing.T) {
	f := newFixture(t)
	f.introduce(t, "s1")
	ctx := context.Background()

	app := f.store.StartApplication("s1")
	app.IsMinimumAge = models.BoolPtr(true)
	app.IsGuatemalanResident = models.BoolPtr(true)
	app.HasMinimumIncome = models.BoolPtr(true)
	app.FullName = "Juan Pérez García"
	app.Phone = "55123478"
	app.LoanAmount = 50000
	app.LoanPurpose = "negocio"
	f.store.SetState("s1", models.StateAskConsent)

	turn := f.dispatcher.ProcessTurn(ctx, "s1", "sí, acepto")
	assert.Equal(t, models.StateGeneralChat, turn.State)

	require.Len(t, f.repo.saved, 1)
	assert.Equal(t, app.ApplicationID, f.repo.saved[0].ApplicationID)
	require.Len(t, f.notifier.notified, 1)
	assert.Equal(t, app.ApplicationID, f.notifier.notified[0].ApplicationID)
}

func TestRepositoryFailureDoesNotBreakTheTurn(t *testing.T) {
	f := newFixture(t)
	f.repo.err = errors.New("database down")
	f.introduce(t, "s1")

	f.store.StartApplication("s1")
	f.store.SetState("s1", models.StateAskConsent)

	turn := f.dispatcher.ProcessTurn(context.Background(), "s1", "sí, acepto")
	assert.Equal(t, models.StateGeneralChat, turn.State)
	assert.NotEmpty(t, turn.Responses, "the caller still hears the summary")
}
