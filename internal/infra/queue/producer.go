package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// DispatchedEvent is published once per successful automated send, for
// downstream CRM consumers (timeline views, analytics).
type DispatchedEvent struct {
	FollowUpID   string    `json:"follow_up_id"`
	SuggestionID string    `json:"suggestion_id"`
	LeadID       string    `json:"lead_id"`
	Action       string    `json:"action"`
	DispatchedAt time.Time `json:"dispatched_at"`
}

type Producer struct {
	ch *amqp.Channel
}

func NewProducer(ch *amqp.Channel) *Producer {
	return &Producer{ch: ch}
}

func (p *Producer) PublishDispatched(ctx context.Context, evt DispatchedEvent) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to marshal dispatched event: %w", err)
	}

	err = p.ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish dispatched event: %w", err)
	}
	return nil
}
