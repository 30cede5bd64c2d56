package notify

import (
	"context"
	"fmt"

	"github.com/twilio/twilio-go"
	twilioapi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/furnix/furnix-api/internal/config"
)

// TwilioSender sends SMS through a Twilio Messaging Service.
type TwilioSender struct {
	client       *twilio.RestClient
	messagingSID string
}

func NewTwilioSender(cfg config.TwilioConfig) *TwilioSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.SID,
		Password: cfg.AuthToken,
	})
	return &TwilioSender{client: client, messagingSID: cfg.MessagingServiceSID}
}

func (s *TwilioSender) Send(_ context.Context, to, body string) error {
	params := &twilioapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetMessagingServiceSid(s.messagingSID)
	params.SetBody(body)

	if _, err := s.client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("send sms: %w", err)
	}
	return nil
}
