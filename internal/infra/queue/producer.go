package queue

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rotisserie/eris"
)

// ReplayMessage asks the worker to push a stored lead to the integrations
// again.
type ReplayMessage struct {
	Email       string    `json:"email"`
	RequestedAt time.Time `json:"requested_at"`
}

type publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type RabbitMQProducer struct {
	Ch  publisher
	now func() time.Time
}

func NewProducer(ch publisher) *RabbitMQProducer {
	return &RabbitMQProducer{Ch: ch, now: time.Now}
}

func (p *RabbitMQProducer) PublishReplay(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return eris.New("rabbitmq: replay needs an email")
	}

	body, err := json.Marshal(ReplayMessage{Email: email, RequestedAt: p.now().UTC()})
	if err != nil {
		return eris.Wrap(err, "rabbitmq: marshal replay")
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    p.now(),
		},
	)
	if err != nil {
		return eris.Wrap(err, "rabbitmq: publish replay")
	}
	return nil
}
