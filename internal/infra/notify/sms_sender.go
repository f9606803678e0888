package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// SMSSender delivers follow-up messages through an HTTP SMS gateway.
type SMSSender struct {
	client *resty.Client
	from   string
}

func NewSMSSender(baseURL, apiKey, from string) *SMSSender {
	client := resty.New().
		SetBaseURL(baseURL).
		SetAuthToken(apiKey).
		SetTimeout(10 * time.Second)
	return &SMSSender{client: client, from: from}
}

type smsRequest struct {
	To   string `json:"to"`
	From string `json:"from"`
	Text string `json:"text"`
}

// Send posts one message to the gateway. The subject is folded into the text
// since SMS has no subject line.
func (s *SMSSender) Send(ctx context.Context, recipient, subject, body string) error {
	text := body
	if subject != "" {
		text = subject + ": " + body
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(smsRequest{To: recipient, From: s.from, Text: text}).
		Post("/messages")
	if err != nil {
		return fmt.Errorf("sms gateway request failed: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("sms gateway returned %s: %s", resp.Status(), resp.String())
	}
	return nil
}
