package traffic

import (
	"bikeflow/communication"
	"bikeflow/domain/business/queryresponse"
	"bikeflow/domain/entities/trafficrequest"
	"bikeflow/engine"
	"bikeflow/workers/traffic/config"
	"context"
	"encoding/json"
	"fmt"
	amqp "github.com/rabbitmq/amqp091-go"
	log "github.com/sirupsen/logrus"
	"time"
)

const (
	trafficWorkerType = "traffic-worker"
	contentTypeJson   = "application/json"
	routingKeyPrefix  = "traffic"
)

// Broker operations the Traffic Worker needs from the message broker
type Broker interface {
	DeclareNonAnonymousQueues(queuesConfig []communication.QueueDeclarationConfig) error
	DeclareExchanges(exchangesConfig []communication.ExchangeDeclarationConfig) error
	SetQualityOfService(prefetchCount int) error
	GetQueueConsumer(queueName string, consumptionConfig communication.ConsumptionConfig) (<-chan amqp.Delivery, error)
	PublishMessageInQueue(ctx context.Context, queueName string, message []byte, contentType string) error
	PublishMessageInExchange(ctx context.Context, exchange string, routingKey string, message []byte, contentType string) error
	KillBadBunny() error
}

// TrafficWorker answers traffic requests that arrive at the request queue. Requests come from
// a slider, so they can arrive faster than they are answered: when several requests of the same
// sender are waiting only the newest one is answered and the rest are discarded. The sender of a
// request is its reply queue, requests without one share the response queue and count as a
// single sender.
type TrafficWorker struct {
	broker Broker
	engine *engine.TrafficEngine
	config *config.TrafficWorkerConfig
}

func NewTrafficWorker(trafficWorkerConfig *config.TrafficWorkerConfig, trafficEngine *engine.TrafficEngine, broker Broker) *TrafficWorker {
	return &TrafficWorker{
		broker: broker,
		engine: trafficEngine,
		config: trafficWorkerConfig,
	}
}

func (tw *TrafficWorker) getLogMessage(method string, message string, err error) string {
	if err != nil {
		return fmt.Sprintf("[worker: %s][workerID: %v][method: %s][status: ERROR] %s: %s", trafficWorkerType, tw.GetID(), method, message, err.Error())
	}
	return fmt.Sprintf("[worker: %s][workerID: %v][method: %s][status: OK] %s", trafficWorkerType, tw.GetID(), method, message)
}

// GetID returns the Traffic Worker ID
func (tw *TrafficWorker) GetID() int {
	return tw.config.ID
}

// GetType returns the Traffic Worker type
func (tw *TrafficWorker) GetType() string {
	return trafficWorkerType
}

// DeclareQueues declares the request queue and the response queue
func (tw *TrafficWorker) DeclareQueues() error {
	err := tw.broker.DeclareNonAnonymousQueues([]communication.QueueDeclarationConfig{
		tw.config.RequestQueue,
		tw.config.ResponseQueue,
	})
	if err != nil {
		log.Error(tw.getLogMessage("DeclareQueues", "error declaring queues", err))
		return err
	}

	if tw.config.PrefetchCount > 0 {
		err = tw.broker.SetQualityOfService(tw.config.PrefetchCount)
		if err != nil {
			log.Error(tw.getLogMessage("DeclareQueues", "error setting quality of service", err))
			return err
		}
	}

	log.Info(tw.getLogMessage("DeclareQueues", "queues declared correctly!", nil))
	return nil
}

// DeclareExchanges declares the response exchange, if there is one configured
func (tw *TrafficWorker) DeclareExchanges() error {
	if tw.config.ResponseExchange == nil {
		return nil
	}

	err := tw.broker.DeclareExchanges([]communication.ExchangeDeclarationConfig{*tw.config.ResponseExchange})
	if err != nil {
		log.Error(tw.getLogMessage("DeclareExchanges", "error declaring exchanges", err))
		return err
	}

	log.Info(tw.getLogMessage("DeclareExchanges", "exchanges declared correctly!", nil))
	return nil
}

// ProcessInputMessages consumes the request queue until ctx is done or the consumer is closed.
// Each time a request arrives every request already waiting in the consumer is read too and
// only the newest request of each sender is answered. If a response cannot be published the
// unanswered requests are requeued and the error is returned.
func (tw *TrafficWorker) ProcessInputMessages(ctx context.Context) error {
	consumer, err := tw.broker.GetQueueConsumer(tw.config.RequestQueue.Name, tw.config.RequestConsumption)
	if err != nil {
		log.Error(tw.getLogMessage("ProcessInputMessages", "error getting consumer", err))
		return err
	}

	log.Info(tw.getLogMessage("ProcessInputMessages", "start consuming messages", nil))
	for {
		select {
		case <-ctx.Done():
			log.Info(tw.getLogMessage("ProcessInputMessages", "context done, stop consuming", nil))
			return nil
		case message, ok := <-consumer:
			if !ok {
				log.Info(tw.getLogMessage("ProcessInputMessages", "consumer closed", nil))
				return nil
			}

			latest, superseded := latestDeliveries(consumer, message)
			for idx := range superseded {
				log.Debug(tw.getLogMessage("ProcessInputMessages", fmt.Sprintf("discarding superseded request %s", superseded[idx].Body), nil))
				tw.ack(superseded[idx])
			}

			for idx := range latest {
				err = tw.processRequest(ctx, latest[idx])
				if err != nil {
					for _, pending := range latest[idx:] {
						tw.nack(pending)
					}
					return err
				}
				tw.ack(latest[idx])
			}
		}
	}
}

func (tw *TrafficWorker) Kill() error {
	return tw.broker.KillBadBunny()
}

// processRequest computes the traffic for the request and publishes the response. A request that
// cannot be parsed is logged and skipped.
func (tw *TrafficWorker) processRequest(ctx context.Context, message amqp.Delivery) error {
	request, err := trafficrequest.Parse(message.Body)
	if err != nil {
		log.Error(tw.getLogMessage("processRequest", fmt.Sprintf("skipping invalid request %q", message.Body), err))
		return nil
	}

	requestID := request.RequestID
	if requestID == "" {
		requestID = message.CorrelationId
	}

	filter := request.GetFilter()
	snapshot := tw.engine.Traffic(filter)
	response := queryresponse.NewTrafficResponse(requestID, filter.TimeFilter(), snapshot.Stations, snapshot.Scale, trafficWorkerType)

	responseBytes, err := json.Marshal(response)
	if err != nil {
		log.Error(tw.getLogMessage("processRequest", "error marshalling response", err))
		return err
	}

	log.Debug(tw.getLogMessage("processRequest", fmt.Sprintf("answering request %s with filter %s", response.GetQueryID(), filter), nil))
	return tw.publishResponse(ctx, message.ReplyTo, responseBytes)
}

// publishResponse publishes the response in the reply queue of the request, or in the response
// queue if the request doesn't have one. If a response exchange is configured, the response is
// published there too.
func (tw *TrafficWorker) publishResponse(ctx context.Context, replyTo string, responseBytes []byte) error {
	publishCtx, cancel := context.WithTimeout(ctx, time.Duration(tw.config.PublishTimeoutMS)*time.Millisecond)
	defer cancel()

	targetQueue := tw.config.ResponseQueue.Name
	if replyTo != "" {
		targetQueue = replyTo
	}

	err := tw.broker.PublishMessageInQueue(publishCtx, targetQueue, responseBytes, contentTypeJson)
	if err != nil {
		log.Error(tw.getLogMessage("publishResponse", fmt.Sprintf("error publishing response in queue %s", targetQueue), err))
		return err
	}

	if tw.config.ResponseExchange == nil {
		return nil
	}

	exchangeName := tw.config.ResponseExchange.Name
	routingKey := fmt.Sprintf("%s.%v", routingKeyPrefix, tw.GetID())
	err = tw.broker.PublishMessageInExchange(publishCtx, exchangeName, routingKey, responseBytes, contentTypeJson)
	if err != nil {
		log.Error(tw.getLogMessage("publishResponse", fmt.Sprintf("error publishing response in exchange %s", exchangeName), err))
		return err
	}
	return nil
}

// ack acknowledges a delivery when the consumer is not in auto ack mode
func (tw *TrafficWorker) ack(message amqp.Delivery) {
	if tw.config.RequestConsumption.AutoACK {
		return
	}

	err := message.Ack(false)
	if err != nil {
		log.Error(tw.getLogMessage("ack", "error acknowledging message", err))
	}
}

// nack returns a delivery to the queue when the consumer is not in auto ack mode
func (tw *TrafficWorker) nack(message amqp.Delivery) {
	if tw.config.RequestConsumption.AutoACK {
		log.Warn(tw.getLogMessage("nack", fmt.Sprintf("request %s was auto acknowledged, it cannot be requeued", message.Body), nil))
		return
	}

	err := message.Nack(false, true)
	if err != nil {
		log.Error(tw.getLogMessage("nack", "error requeueing message", err))
	}
}

// latestDeliveries reads, without blocking, every delivery already waiting in consumer and keeps
// the newest one of each sender, in the order senders were first seen. The deliveries that were
// replaced by a newer one of the same sender are returned too, oldest first.
func latestDeliveries(consumer <-chan amqp.Delivery, first amqp.Delivery) ([]amqp.Delivery, []amqp.Delivery) {
	latest := []amqp.Delivery{first}
	senderPosition := map[string]int{first.ReplyTo: 0}
	var superseded []amqp.Delivery
	for {
		select {
		case message, ok := <-consumer:
			if !ok {
				return latest, superseded
			}

			position, found := senderPosition[message.ReplyTo]
			if !found {
				senderPosition[message.ReplyTo] = len(latest)
				latest = append(latest, message)
				continue
			}
			superseded = append(superseded, latest[position])
			latest[position] = message
		default:
			return latest, superseded
		}
	}
}
