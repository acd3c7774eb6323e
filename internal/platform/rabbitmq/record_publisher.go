package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"docuchat/internal/model"
)

// RecordPublisher pushes artifact registry rows onto a durable queue so the
// request path never blocks on MySQL.
type RecordPublisher struct {
	conn      *amqp.Connection
	queueName string
}

func NewRecordPublisher(conn *amqp.Connection, queueName string) *RecordPublisher {
	return &RecordPublisher{
		conn:      conn,
		queueName: queueName,
	}
}

func (p *RecordPublisher) Publish(ctx context.Context, record model.ArtifactRecord) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("open rabbitmq channel failed: %w", err)
	}
	defer ch.Close()

	_, err = ch.QueueDeclare(
		p.queueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("declare queue failed: %w", err)
	}

	body, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal artifact record failed: %w", err)
	}

	err = ch.PublishWithContext(ctx,
		"",
		p.queueName,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish artifact record failed: %w", err)
	}
	return nil
}
