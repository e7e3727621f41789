// internal/notify/notify_test.go
package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "ana-voicebot/internal/common/errors"
	"ana-voicebot/internal/common/logger"
	"ana-voicebot/internal/models"
)

type fakeEmail struct {
	inputs []*ses.SendEmailInput
	err    error
}

func (f *fakeEmail) SendEmail(_ context.Context, input *ses.SendEmailInput) (*ses.SendEmailOutput, error) {
	f.inputs = append(f.inputs, input)
	return &ses.SendEmailOutput{}, f.err
}

type fakeSMS struct {
	inputs []*sns.PublishInput
	err    error
}

func (f *fakeSMS) Publish(_ context.Context, input *sns.PublishInput) (*sns.PublishOutput, error) {
	f.inputs = append(f.inputs, input)
	return &sns.PublishOutput{}, f.err
}

func submittedApplication() *models.ApplicationRecord {
	app := models.NewApplicationRecord(time.Now())
	app.FullName = "Juan Pérez García"
	app.Email = "juan@gmail.com"
	app.Phone = "55123478"
	return app
}

func TestNotifySubmittedBothChannels(t *testing.T) {
	email := &fakeEmail{}
	sms := &fakeSMS{}
	n := NewAWSNotifier(email, sms, "prestamos@example.com", true, true, logger.NewTestLogger(t))

	app := submittedApplication()
	require.NoError(t, n.NotifySubmitted(context.Background(), app))

	require.Len(t, email.inputs, 1)
	assert.Equal(t, []string{"juan@gmail.com"}, email.inputs[0].Destination.ToAddresses)
	assert.Contains(t, *email.inputs[0].Message.Body.Text.Data, app.ApplicationID)

	require.Len(t, sms.inputs, 1)
	assert.Equal(t, "+50255123478", *sms.inputs[0].PhoneNumber)
}

func TestNotifySubmittedRespectsOptOut(t *testing.T) {
	email := &fakeEmail{}
	sms := &fakeSMS{}
	n := NewAWSNotifier(email, sms, "prestamos@example.com", true, true, logger.NewTestLogger(t))

	app := submittedApplication()
	app.WantsEmailConfirmation = models.BoolPtr(false)
	require.NoError(t, n.NotifySubmitted(context.Background(), app))

	assert.Empty(t, email.inputs)
	assert.Len(t, sms.inputs, 1)
}

func TestNotifySubmittedDisabledChannels(t *testing.T) {
	email := &fakeEmail{}
	sms := &fakeSMS{}
	n := NewAWSNotifier(email, sms, "prestamos@example.com", false, false, logger.NewTestLogger(t))

	require.NoError(t, n.NotifySubmitted(context.Background(), submittedApplication()))
	assert.Empty(t, email.inputs)
	assert.Empty(t, sms.inputs)
}

func TestNotifySubmittedReportsFailures(t *testing.T) {
	email := &fakeEmail{err: errors.New("ses throttled")}
	sms := &fakeSMS{}
	n := NewAWSNotifier(email, sms, "prestamos@example.com", true, true, logger.NewTestLogger(t))

	err := n.NotifySubmitted(context.Background(), submittedApplication())
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeNotificationSendFailed))
	assert.Len(t, sms.inputs, 1, "sms still attempted after email failure")
}
