package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/accountsvc/apiserver/config"
	amqp "github.com/rabbitmq/amqp091-go"
)

// RabbitMQMailer queues activation email on a RabbitMQ queue instead of
// sending it inline. Publishing is still synchronous: a broker failure
// surfaces to the registration workflow immediately.
type RabbitMQMailer struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
	baseURL string
}

func NewRabbitMQMailer(cfg config.RabbitMQConfig, activationBaseURL string) (*RabbitMQMailer, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, errors.New("rabbitmq url is required")
	}
	if strings.TrimSpace(cfg.Queue) == "" {
		return nil, errors.New("rabbitmq queue is required")
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	if cfg.PrefetchCount > 0 {
		if err := ch.Qos(cfg.PrefetchCount, 0, false); err != nil {
			_ = ch.Close()
			_ = conn.Close()
			return nil, err
		}
	}

	if _, err := ch.QueueDeclare(cfg.Queue, cfg.QueueDurable, cfg.QueueAutoDelete, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}

	return &RabbitMQMailer{
		conn:    conn,
		channel: ch,
		queue:   cfg.Queue,
		baseURL: activationBaseURL,
	}, nil
}

// SendActivation publishes the activation message as a JSON job.
func (m *RabbitMQMailer) SendActivation(ctx context.Context, to, token string) error {
	body, err := json.Marshal(ActivationMessage{
		To:    to,
		Token: token,
		Link:  ActivationLink(m.baseURL, token),
	})
	if err != nil {
		return err
	}

	return m.channel.PublishWithContext(ctx, "", m.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
}

// Consume drains queued activation messages and hands each one to deliver.
// Failed deliveries are nacked for redelivery. Blocks until ctx is done.
func (m *RabbitMQMailer) Consume(ctx context.Context, deliver func(ctx context.Context, msg ActivationMessage) error) error {
	consumerTag := fmt.Sprintf("mailworker-%s", m.queue)
	deliveries, err := m.channel.Consume(m.queue, consumerTag, false, false, false, false, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = m.channel.Cancel(consumerTag, false)
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case delivery, ok := <-deliveries:
			if !ok {
				return errors.New("rabbitmq delivery channel closed")
			}
			var msg ActivationMessage
			if err := json.Unmarshal(delivery.Body, &msg); err != nil {
				// Malformed job, drop it instead of requeueing forever.
				_ = delivery.Nack(false, false)
				continue
			}
			if err := deliver(ctx, msg); err != nil {
				_ = delivery.Nack(false, true)
				continue
			}
			_ = delivery.Ack(false)
		}
	}
}

// Close closes the underlying channel and connection.
func (m *RabbitMQMailer) Close() error {
	if m.channel != nil {
		_ = m.channel.Close()
	}
	if m.conn != nil {
		return m.conn.Close()
	}
	return nil
}
