package queue

import (
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rotisserie/eris"
)

const (
	ExchangeName = "ex.wizard"
	QueueName    = "q.replays"
	DLQName      = "q.replays.dlq"
	DLXName      = "ex.wizard.dlx" // Dead Letter Exchange
	RoutingKey   = "k.replay"
)

type RabbitMQ struct {
	Conn *amqp.Connection
	Ch   *amqp.Channel
}

// topology is the subset of *amqp.Channel used to declare queues.
type topology interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error
}

func NewRabbitMQ(url string) (*RabbitMQ, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, eris.Wrap(err, "rabbitmq: dial")
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, eris.Wrap(err, "rabbitmq: open channel")
	}

	if err := setupTopology(ch); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return &RabbitMQ{Conn: conn, Ch: ch}, nil
}

// setupTopology declares the replay exchange and queue. Rejected messages go
// to the DLQ through the DLX with the same routing key.
func setupTopology(ch topology) error {
	if err := ch.ExchangeDeclare(DLXName, "direct", true, false, false, false, nil); err != nil {
		return eris.Wrap(err, "rabbitmq: declare dlx")
	}
	if _, err := ch.QueueDeclare(DLQName, true, false, false, false, nil); err != nil {
		return eris.Wrap(err, "rabbitmq: declare dlq")
	}
	if err := ch.QueueBind(DLQName, RoutingKey, DLXName, false, nil); err != nil {
		return eris.Wrap(err, "rabbitmq: bind dlq")
	}

	args := amqp.Table{
		"x-dead-letter-exchange":    DLXName,
		"x-dead-letter-routing-key": RoutingKey,
	}

	if err := ch.ExchangeDeclare(ExchangeName, "direct", true, false, false, false, nil); err != nil {
		return eris.Wrap(err, "rabbitmq: declare exchange")
	}
	if _, err := ch.QueueDeclare(QueueName, true, false, false, false, args); err != nil {
		return eris.Wrap(err, "rabbitmq: declare queue")
	}
	if err := ch.QueueBind(QueueName, RoutingKey, ExchangeName, false, nil); err != nil {
		return eris.Wrap(err, "rabbitmq: bind queue")
	}
	return nil
}

// Healthy reports whether the connection is still open.
func (r *RabbitMQ) Healthy() bool {
	return r != nil && r.Conn != nil && !r.Conn.IsClosed()
}

func (r *RabbitMQ) Close() error {
	if r == nil || r.Conn == nil {
		return nil
	}
	if r.Ch != nil {
		_ = r.Ch.Close()
	}
	return r.Conn.Close()
}
