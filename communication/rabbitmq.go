package communication

import (
	"context"
	"fmt"
	amqp "github.com/rabbitmq/amqp091-go"
)

type RabbitMQ struct {
	connection *amqp.Connection
	channel    *amqp.Channel
}

// NewRabbitMQ constructor for RabbitMQ. This function returns a RabbitMQ
// with connections already established.
func NewRabbitMQ(rabbitURL string) (*RabbitMQ, error) {
	connection, err := amqp.Dial(rabbitURL)
	if err != nil {
		return nil, fmt.Errorf("error connecting to RabbitMQ: %w", err)
	}

	channel, err := connection.Channel()
	if err != nil {
		_ = connection.Close()
		return nil, fmt.Errorf("error opening RabbitMQ channel: %w", err)
	}

	return &RabbitMQ{
		connection: connection,
		channel:    channel,
	}, nil
}

// DeclareNonAnonymousQueues declares non-anonymous queues based on the slice of configs
func (r *RabbitMQ) DeclareNonAnonymousQueues(queuesConfig []QueueDeclarationConfig) error {
	for idx := range queuesConfig {
		queueName := queuesConfig[idx].Name
		_, err := r.channel.QueueDeclare(
			queueName,
			queuesConfig[idx].Durable,
			queuesConfig[idx].DeleteWhenUnused,
			queuesConfig[idx].Exclusive,
			queuesConfig[idx].NoWait,
			nil,
		)

		if err != nil {
			return fmt.Errorf("error declaring queue %s: %w", queueName, err)
		}
	}
	return nil
}

// DeclareExchanges declare exchanges based on the slice of configs
func (r *RabbitMQ) DeclareExchanges(exchangesConfig []ExchangeDeclarationConfig) error {
	for idx := range exchangesConfig {
		exchangeName := exchangesConfig[idx].Name
		err := r.channel.ExchangeDeclare(
			exchangeName,
			exchangesConfig[idx].Type,
			exchangesConfig[idx].Durable,
			exchangesConfig[idx].AutoDeleted,
			exchangesConfig[idx].Internal,
			exchangesConfig[idx].NoWait,
			nil,
		)

		if err != nil {
			return fmt.Errorf("error declaring exchange %s: %w", exchangeName, err)
		}
	}
	return nil
}

// SetQualityOfService limits the amount of unacknowledged messages delivered to the consumers of the channel
func (r *RabbitMQ) SetQualityOfService(prefetchCount int) error {
	err := r.channel.Qos(prefetchCount, 0, false)
	if err != nil {
		return fmt.Errorf("error setting prefetch count %v: %w", prefetchCount, err)
	}
	return nil
}

// PublishMessageInQueue publish a message in a given queue
func (r *RabbitMQ) PublishMessageInQueue(ctx context.Context, queueName string, message []byte, contentType string) error {
	return r.channel.PublishWithContext(ctx,
		"",
		queueName,
		false,
		false,
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  contentType,
			Body:         message,
		},
	)
}

// PublishMessageInExchange publish a message in a given exchange with a given routing key
func (r *RabbitMQ) PublishMessageInExchange(ctx context.Context, exchange string, routingKey string, message []byte, contentType string) error {
	return r.channel.PublishWithContext(ctx,
		exchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType: contentType,
			Body:        message,
		},
	)
}

// DeclareReplyQueue declares an anonymous queue owned by this connection, it's deleted when the connection is closed.
// The name assigned by the broker is returned
func (r *RabbitMQ) DeclareReplyQueue() (string, error) {
	anonymousQueue, err := r.channel.QueueDeclare(
		"",
		false,
		true,
		true,
		false,
		nil,
	)

	if err != nil {
		return "", fmt.Errorf("error declaring anonymous queue: %w", err)
	}

	return anonymousQueue.Name, nil
}

// PublishRequestInQueue publish a message in a given queue asking the consumer to answer in replyTo
func (r *RabbitMQ) PublishRequestInQueue(ctx context.Context, queueName string, replyTo string, correlationID string, message []byte, contentType string) error {
	return r.channel.PublishWithContext(ctx,
		"",
		queueName,
		false,
		false,
		amqp.Publishing{
			ContentType:   contentType,
			CorrelationId: correlationID,
			ReplyTo:       replyTo,
			Body:          message,
		},
	)
}

// GetQueueConsumer returns a consumer for a given queue
func (r *RabbitMQ) GetQueueConsumer(queueName string, consumptionConfig ConsumptionConfig) (<-chan amqp.Delivery, error) {
	consumer, err := r.channel.Consume(
		queueName,
		consumptionConfig.Consumer,
		consumptionConfig.AutoACK,
		consumptionConfig.Exclusive,
		consumptionConfig.NoLocal,
		consumptionConfig.NoWait,
		nil,
	)

	if err != nil {
		return nil, fmt.Errorf("error getting consumer for queue %s: %w", queueName, err)
	}

	return consumer, nil
}

// KillBadBunny close RabbitMQ's connection and channel
func (r *RabbitMQ) KillBadBunny() error {
	err := r.channel.Close()
	if err != nil {
		return fmt.Errorf("error closing RabbitMQ channel: %w", err)
	}

	err = r.connection.Close()
	if err != nil {
		return fmt.Errorf("error closing RabbitMQ connection: %w", err)
	}

	return nil
}
