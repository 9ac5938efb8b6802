package notifications

import (
	"context"
	"fmt"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/you/foodauth/domain"
	"github.com/you/foodauth/internal/logging"
)

// TwilioServiceImpl implements domain.NotificationService
type TwilioServiceImpl struct {
	client     *twilio.RestClient
	fromNumber string
	fallback   domain.NotificationService
}

// NewTwilioService creates a new Twilio notification service. Without a
// from-number messages are only logged.
func NewTwilioService(accountSID, authToken, fromNumber string, log logging.Logger) domain.NotificationService {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})

	return &TwilioServiceImpl{
		client:     client,
		fromNumber: fromNumber,
		fallback:   NewLogService(log.With("provider", "twilio")),
	}
}

// SendSMS implements domain.NotificationService
func (t *TwilioServiceImpl) SendSMS(ctx context.Context, to, message string) error {
	if t.fromNumber == "" {
		return t.fallback.SendSMS(ctx, to, message)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(t.fromNumber)
	params.SetBody(message)

	if _, err := t.client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("failed to send SMS: %w", err)
	}
	return nil
}
