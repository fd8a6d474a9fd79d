package rabbitmq

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher enqueues completion jobs for cmd/worker. The queue topology is
// main queue -> DLQ on reject, with a retry queue dead-lettering back to the
// main queue. Both binaries declare it through DeclareTopology; the broker
// rejects a redeclaration with different arguments, so there is exactly one
// definition of the layout.
type Publisher struct {
	conn  *amqp.Connection
	ch    *amqp.Channel
	queue string
}

type JobMessage struct {
	JobID string `json:"job_id"`
}

func NewPublisher(url, queue string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	if err := DeclareTopology(ch, queue); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}

	return &Publisher{conn: conn, ch: ch, queue: queue}, nil
}

type queueSpec struct {
	name string
	args amqp.Table
}

// topologyFor lists the declarations for one job queue, in dependency order:
// DLQ first, then the retry queue dead-lettering back to the main queue, then
// the main queue dead-lettering to the DLQ on reject/nack(requeue=false).
func topologyFor(queue string) []queueSpec {
	dlqQ := queue + ".dlq"
	retryQ := queue + ".retry"

	return []queueSpec{
		{name: dlqQ, args: nil},
		{name: retryQ, args: amqp.Table{
			"x-dead-letter-exchange":    "",
			"x-dead-letter-routing-key": queue,
		}},
		{name: queue, args: amqp.Table{
			"x-dead-letter-exchange":    "",
			"x-dead-letter-routing-key": dlqQ,
		}},
	}
}

// DeclareTopology declares the job queues on ch. Publisher and worker both
// call it, so either side can start first.
func DeclareTopology(ch *amqp.Channel, queue string) error {
	for _, q := range topologyFor(queue) {
		if _, err := ch.QueueDeclare(q.name, true, false, false, false, q.args); err != nil {
			return err
		}
	}
	return nil
}

func (p *Publisher) Close() error {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

func (p *Publisher) PublishJob(ctx context.Context, jobID string) error {
	body, err := json.Marshal(JobMessage{JobID: jobID})
	if err != nil {
		return err
	}

	cctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return p.ch.PublishWithContext(cctx,
		"",      // default exchange
		p.queue, // routing key = queue
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
			Timestamp:    time.Now(),
		},
	)
}
