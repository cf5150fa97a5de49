package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/streadway/amqp"

	"github.com/rentopedia/rentals-service/internal/utils"
)

// AMQPPublisher pushes rent-request change events onto a durable queue
// so downstream consumers (search index, notification workers) can react.
type AMQPPublisher struct {
	connection *amqp.Connection
	channel    *amqp.Channel
	queueName  string
}

func NewAMQPPublisher(rabbitURL, queueName string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(rabbitURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	_, err = ch.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	utils.Logger.Infof("AMQP publisher ready on queue %q", queueName)
	return &AMQPPublisher{connection: conn, channel: ch, queueName: queueName}, nil
}

func (p *AMQPPublisher) OnRentRequestChanged(_ context.Context, ev RentRequestEvent) {
	body, err := json.Marshal(ev)
	if err != nil {
		utils.Logger.WithError(err).Error("Failed to marshal rent-request event")
		return
	}

	err = p.channel.Publish(
		"",          // default exchange
		p.queueName, // routing key
		false,       // mandatory
		false,       // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
	if err != nil {
		utils.Logger.WithError(err).Error("Failed to publish rent-request event")
	}
}

func (p *AMQPPublisher) Close() {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.connection != nil {
		p.connection.Close()
	}
}
