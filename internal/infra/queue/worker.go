package queue

import (
	"context"
	"encoding/json"
	"strings"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/xavierca1/wizard-sync/internal/usecase"
)

// Replayer reruns the downstream syncs of a stored lead.
type Replayer interface {
	Replay(ctx context.Context, email string) (usecase.ProcessSubmissionOutput, error)
}

type consumer interface {
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

type Worker struct {
	Channel  consumer
	Replayer Replayer
	Log      *zap.Logger
}

func NewWorker(ch consumer, replayer Replayer, log *zap.Logger) *Worker {
	if log == nil {
		log = zap.NewNop()
	}
	return &Worker{Channel: ch, Replayer: replayer, Log: log}
}

// Start consumes queueName until ctx is done or the delivery channel closes.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.Consume(
		queueName,
		"",    // consumer
		false, // manual ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return eris.Wrapf(err, "rabbitmq: consume %s", queueName)
	}

	w.Log.Info("replay worker started", zap.String("queue", queueName))
	for {
		select {
		case <-ctx.Done():
			w.Log.Info("replay worker stopped")
			return nil
		case d, ok := <-msgs:
			if !ok {
				w.Log.Warn("replay worker: delivery channel closed")
				return nil
			}
			w.handleDelivery(ctx, d)
		}
	}
}

// handleDelivery acks a replay that ran, even with a partial failure. Anything
// that could not run is dead-lettered; there is no requeue.
func (w *Worker) handleDelivery(ctx context.Context, d amqp.Delivery) {
	var msg ReplayMessage
	if err := json.Unmarshal(d.Body, &msg); err != nil || strings.TrimSpace(msg.Email) == "" {
		w.Log.Error("replay worker: malformed message", zap.ByteString("body", d.Body), zap.Error(err))
		_ = d.Nack(false, false)
		return
	}

	log := w.Log.With(zap.String("email", msg.Email))
	out, err := w.Replayer.Replay(ctx, msg.Email)
	if err != nil {
		log.Error("replay worker: replay failed", zap.Error(err))
		_ = d.Nack(false, false)
		return
	}

	if out.Warning != "" {
		log.Warn("replay worker: replay degraded", zap.String("warning", out.Warning))
	} else {
		log.Info("replay worker: replay done")
	}
	_ = d.Ack(false)
}
