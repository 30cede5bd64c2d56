package events

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	EntityOrder       = "order"
	EntityCustomOrder = "custom_order"

	QueueName = "status-events"
)

// Event is the compact status-change record handed to the notification
// worker. Messages carry ids, not entity snapshots; the worker reloads the
// entity so notifications reflect its state after the write.
type Event struct {
	Entity        string `json:"entity"`
	ID            string `json:"id"`
	Status        string `json:"status,omitempty"`
	Created       bool   `json:"created,omitempty"`
	Deleted       bool   `json:"deleted,omitempty"`
	DistributorID string `json:"distributor_id,omitempty"`
}

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

type amqpPublisher struct {
	ch *amqp.Channel
}

// NewAMQPPublisher publishes status events to the durable status queue.
func NewAMQPPublisher(ch *amqp.Channel) Publisher {
	return &amqpPublisher{ch: ch}
}

func (p *amqpPublisher) Publish(ctx context.Context, ev Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	err = p.ch.PublishWithContext(ctx, "", QueueName, false, false, amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
	})
	if err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	return nil
}

// Setup declares the status queue and caps unacked deliveries at one so a
// slow notification transport cannot pile up in-flight work.
func Setup(ch *amqp.Channel) error {
	if _, err := ch.QueueDeclare(QueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare status queue: %w", err)
	}
	if err := ch.Qos(1, 0, false); err != nil {
		return fmt.Errorf("set QoS: %w", err)
	}
	return nil
}
