// internal/notify/notify.go

// Package notify sends submission confirmations after an application is
// persisted. Notifications are best-effort side effects: a failure is logged
// and reported, never surfaced to the caller mid-conversation.
package notify

import (
	"context"
	"fmt"
	"strings"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	apperrors "ana-voicebot/internal/common/errors"
	"ana-voicebot/internal/common/logger"
	"ana-voicebot/internal/models"
)

// Guatemalan mobile numbers are dialed with the +502 country code.
const countryCode = "+502"

// Notifier delivers submission confirmations.
type Notifier interface {
	NotifySubmitted(ctx context.Context, app *models.ApplicationRecord) error
}

type emailSender interface {
	SendEmail(ctx context.Context, input *ses.SendEmailInput) (*ses.SendEmailOutput, error)
}

type smsPublisher interface {
	Publish(ctx context.Context, input *sns.PublishInput) (*sns.PublishOutput, error)
}

// AWSNotifier sends the confirmation email through SES and the confirmation
// SMS through SNS. Either channel can be disabled independently.
type AWSNotifier struct {
	email        emailSender
	sms          smsPublisher
	sender       string
	emailEnabled bool
	smsEnabled   bool
	log          logger.Logger
}

func NewAWSNotifier(email emailSender, sms smsPublisher, sender string, emailEnabled, smsEnabled bool, log logger.Logger) *AWSNotifier {
	return &AWSNotifier{
		email:        email,
		sms:          sms,
		sender:       sender,
		emailEnabled: emailEnabled,
		smsEnabled:   smsEnabled,
		log:          log,
	}
}

// NotifySubmitted fires both channels and reports the combined outcome. A
// declined email confirmation suppresses the email but not the SMS.
func (n *AWSNotifier) NotifySubmitted(ctx context.Context, app *models.ApplicationRecord) error {
	var failures []string

	if n.emailEnabled && app.Email != "" && wantsEmail(app) {
		if err := n.sendEmail(ctx, app); err != nil {
			n.log.WithError(err).Warn("confirmation email failed", map[string]interface{}{
				"applicationId": app.ApplicationID,
			})
			failures = append(failures, "email")
		}
	}
	if n.smsEnabled && app.Phone != "" {
		if err := n.sendSMS(ctx, app); err != nil {
			n.log.WithError(err).Warn("confirmation SMS failed", map[string]interface{}{
				"applicationId": app.ApplicationID,
			})
			failures = append(failures, "sms")
		}
	}

	if len(failures) > 0 {
		return apperrors.New(apperrors.ErrCodeNotificationSendFailed,
			fmt.Sprintf("channels failed: %s", strings.Join(failures, ", "))).
			WithMetadata("applicationId", app.ApplicationID).
			WithRetryable()
	}
	return nil
}

func wantsEmail(app *models.ApplicationRecord) bool {
	return app.WantsEmailConfirmation == nil || *app.WantsEmailConfirmation
}

func (n *AWSNotifier) sendEmail(ctx context.Context, app *models.ApplicationRecord) error {
	subject := "Confirmación de tu solicitud de préstamo"
	body := fmt.Sprintf(
		"Hola %s,\n\nTu solicitud de préstamo fue registrada exitosamente.\n\n"+
			"Número de referencia: %s\n\n"+
			"Nuestro equipo la revisará en 24 a 48 horas y te contactaremos al %s.\n\n"+
			"Gracias por confiar en nosotros.",
		app.FullName, app.ApplicationID, app.Phone,
	)

	_, err := n.email.SendEmail(ctx, &ses.SendEmailInput{
		Source:      awssdk.String(n.sender),
		Destination: &sestypes.Destination{ToAddresses: []string{app.Email}},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{Data: awssdk.String(subject)},
			Body: &sestypes.Body{
				Text: &sestypes.Content{Data: awssdk.String(body)},
			},
		},
	})
	return err
}

func (n *AWSNotifier) sendSMS(ctx context.Context, app *models.ApplicationRecord) error {
	message := fmt.Sprintf(
		"Tu solicitud de préstamo %s fue registrada. Te contactaremos en 24 a 48 horas.",
		app.ApplicationID,
	)
	_, err := n.sms.Publish(ctx, &sns.PublishInput{
		PhoneNumber: awssdk.String(countryCode + app.Phone),
		Message:     awssdk.String(message),
	})
	return err
}
