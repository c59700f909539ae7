package messaging

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/reliefdesk/grievance-service/internal/core/ports"
)

var _ ports.GrievanceEventPublisher = (*RabbitMQBroker)(nil)

// PublishStatusChanged delivers one grievance lifecycle notification to the
// volunteer queue. The publish goes through the circuit breaker so a broker
// outage degrades to dropped notifications instead of stalled relays.
func (rmq *RabbitMQBroker) PublishStatusChanged(ctx context.Context, evt ports.GrievanceEvent) error {
	body, err := json.Marshal(evt)
	if err != nil {
		return err
	}

	if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) <= 0 {
		return ctx.Err()
	}

	_, err = rmq.cb.Execute(func() (interface{}, error) {
		return nil, rmq.ch.PublishWithContext(
			ctx,
			"",            // exchange (default)
			rmq.queueName, // routing key == queue name
			false,         // mandatory
			false,         // immediate
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent,
				Body:         body,
			},
		)
	})
	return err
}
