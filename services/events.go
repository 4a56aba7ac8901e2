package services

import (
	"encoding/json"
	"log"
	"time"

	"github.com/streadway/amqp"
)

const (
	EventTestGenerated    = "ielts.test.generated"
	EventTestDeleted      = "ielts.test.deleted"
	EventSessionStarted   = "ielts.session.started"
	EventSessionCompleted = "ielts.session.completed"
)

// EventPublisher emits domain events. Publishing is best effort.
type EventPublisher interface {
	Publish(eventType string, payload interface{}) error
}

// AMQPPublisher publishes events to a RabbitMQ topic exchange using the
// event type as routing key.
type AMQPPublisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

func NewAMQPPublisher(amqpURL, exchange string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	err = ch.ExchangeDeclare(
		exchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}
	return &AMQPPublisher{conn: conn, channel: ch, exchange: exchange}, nil
}

func (p *AMQPPublisher) Publish(eventType string, payload interface{}) error {
	body, err := json.Marshal(map[string]interface{}{
		"type":        eventType,
		"payload":     payload,
		"occurred_at": time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	return p.channel.Publish(
		p.exchange,
		eventType,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}

func (p *AMQPPublisher) Close() {
	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}

// publishEvent logs instead of failing the caller when publishing fails.
func publishEvent(p EventPublisher, eventType string, payload interface{}) {
	if p == nil {
		return
	}
	if err := p.Publish(eventType, payload); err != nil {
		log.Printf("Failed to publish %s event: %v", eventType, err)
	}
}
