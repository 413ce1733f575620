// Package queuepublisher publishes outbound email jobs to RabbitMQ.
// Publish errors are logged and returned so callers can report a
// degraded outcome without interrupting the main request flow.
package queuepublisher

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	q "github.com/Vamshik07/marketmind/internal/queue"
)

// PublishEmailJob publishes one job to the email.outbound queue.
// Messages are marked persistent so they survive broker restarts.
func PublishEmailJob(ctx context.Context, job q.EmailJob) error {
	conn, err := amqp.Dial(q.BrokerURL())
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	// Ensure the queue exists (idempotent). Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(
		q.EmailQueueName, // name
		true,             // durable
		false,            // autoDelete
		false,            // exclusive
		false,            // noWait
		nil,              // args
	); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(job)
	if err != nil {
		log.Printf("rabbitmq: marshal job failed: %v", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent, // store on disk
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx,
		"",               // default exchange
		q.EmailQueueName, // routing key = queue name
		false,            // mandatory
		false,            // immediate
		pub,
	); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}
	return nil
}

// QueueMailer satisfies the account service's Mailer interface by
// enqueueing jobs instead of delivering inline. A publish failure is
// the delivery failure the caller observes; actual SMTP failures are
// handled (and logged) by the consumer.
type QueueMailer struct{}

func (QueueMailer) SendVerification(ctx context.Context, to, name, link string) error {
	return PublishEmailJob(ctx, q.EmailJob{
		Kind: q.EmailKindVerification, To: to, Name: name, Link: link,
		RequestedAt: time.Now().UTC(),
	})
}

func (QueueMailer) SendPasswordReset(ctx context.Context, to, name, link string) error {
	return PublishEmailJob(ctx, q.EmailJob{
		Kind: q.EmailKindPasswordReset, To: to, Name: name, Link: link,
		RequestedAt: time.Now().UTC(),
	})
}
