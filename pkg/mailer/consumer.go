package mailer

import (
	"context"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// Consume handles deliveries until msgs is closed, which happens after the channel's consumer
// is cancelled. Sent jobs are acked, malformed ones dropped, and failed sends requeued once.
func Consume(ctx context.Context, msgs <-chan amqp.Delivery, s Sender, timeout time.Duration, logger *logrus.Logger) {
	for msg := range msgs {
		out, err := Handle(ctx, s, msg.Body, timeout)
		switch out {
		case Ack:
			_ = msg.Ack(false)
		case Drop:
			logger.WithError(err).Warn("dropping email job")
			_ = msg.Nack(false, false)
		case Retry:
			logger.WithError(err).WithField("redelivered", msg.Redelivered).Error("email send failed")
			_ = msg.Nack(false, !msg.Redelivered)
		}
	}
}
