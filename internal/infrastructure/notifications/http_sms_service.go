package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/you/foodauth/domain"
)

// HTTPSMSService posts messages to a generic SMS gateway as
// {"to","from","message"} JSON with a bearer API key.
type HTTPSMSService struct {
	client   *resty.Client
	url      string
	senderID string
}

type gatewayRequest struct {
	To      string `json:"to"`
	From    string `json:"from,omitempty"`
	Message string `json:"message"`
}

func NewHTTPSMSService(url, apiKey, senderID string, timeout time.Duration) domain.NotificationService {
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")
	if apiKey != "" {
		client.SetAuthToken(apiKey)
	}
	return &HTTPSMSService{client: client, url: url, senderID: senderID}
}

func (s *HTTPSMSService) SendSMS(ctx context.Context, to, message string) error {
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(gatewayRequest{To: to, From: s.senderID, Message: message}).
		Post(s.url)
	if err != nil {
		return fmt.Errorf("sms gateway: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("sms gateway returned %d: %s", resp.StatusCode(), resp.String())
	}
	return nil
}
