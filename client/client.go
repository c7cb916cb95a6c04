package main

import (
	"bikeflow/communication"
	"bikeflow/domain/business/queryresponse"
	"bikeflow/domain/business/window"
	"bikeflow/domain/entities/trafficrequest"
	"context"
	"encoding/json"
	"fmt"
	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	log "github.com/sirupsen/logrus"
	"sort"
)

const contentTypeJSON = "application/json"

type ClientConfig struct {
	RequestQueue      string   `yaml:"request_queue" validate:"required"`
	ResponseTimeoutMS int      `yaml:"response_timeout_ms" validate:"gt=0"`
	TopStations       int      `yaml:"top_stations" validate:"gte=0"`
	TimeFilters       []string `yaml:"time_filters" validate:"required,min=1"`
}

// requester is the part of communication.RabbitMQ used by the client
type requester interface {
	DeclareReplyQueue() (string, error)
	PublishRequestInQueue(ctx context.Context, queueName string, replyTo string, correlationID string, message []byte, contentType string) error
	GetQueueConsumer(queueName string, consumptionConfig communication.ConsumptionConfig) (<-chan amqp.Delivery, error)
	KillBadBunny() error
}

// Client sends traffic requests to the traffic worker and waits for the answers in its own reply queue
type Client struct {
	config     ClientConfig
	broker     requester
	replyQueue string
	responses  <-chan amqp.Delivery
}

func NewClient(clientConfig ClientConfig, broker requester) *Client {
	return &Client{
		config: clientConfig,
		broker: broker,
	}
}

// OpenReplyQueue declares the queue where the worker answers and starts consuming from it
func (c *Client) OpenReplyQueue() error {
	replyQueue, err := c.broker.DeclareReplyQueue()
	if err != nil {
		return err
	}

	responses, err := c.broker.GetQueueConsumer(replyQueue, communication.ConsumptionConfig{
		AutoACK:   true,
		Exclusive: true,
	})
	if err != nil {
		return err
	}

	c.replyQueue = replyQueue
	c.responses = responses
	log.Debugf("[client][method: OpenReplyQueue][status: OK] consuming from %s", replyQueue)
	return nil
}

// RequestTraffic asks for the traffic of every station under filter and blocks until the answer
// arrives or ctx is done. Answers to older requests are discarded.
func (c *Client) RequestTraffic(ctx context.Context, filter window.Filter) (*queryresponse.TrafficResponse, error) {
	if c.responses == nil {
		return nil, fmt.Errorf("reply queue is not open")
	}

	timeFilter := filter.TimeFilter()
	request := trafficrequest.TrafficRequest{
		RequestID:  uuid.New().String(),
		TimeFilter: &timeFilter,
	}

	requestBytes, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("error marshalling traffic request: %w", err)
	}

	err = c.broker.PublishRequestInQueue(ctx, c.config.RequestQueue, c.replyQueue, request.RequestID, requestBytes, contentTypeJSON)
	if err != nil {
		return nil, fmt.Errorf("error publishing traffic request %s: %w", request.RequestID, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("error waiting response of request %s: %w", request.RequestID, ctx.Err())
		case delivery, ok := <-c.responses:
			if !ok {
				return nil, fmt.Errorf("reply queue %s closed", c.replyQueue)
			}

			var response queryresponse.TrafficResponse
			if err := json.Unmarshal(delivery.Body, &response); err != nil {
				log.Errorf("[client][method: RequestTraffic][status: ERROR] error unmarshalling response: %s", err.Error())
				continue
			}

			if response.GetQueryID() != request.RequestID {
				log.Debugf("[client][method: RequestTraffic] discarding response of stale request %s", response.GetQueryID())
				continue
			}

			return &response, nil
		}
	}
}

// Close closes the connection with the broker
func (c *Client) Close() error {
	return c.broker.KillBadBunny()
}

// busiestStations returns the top stations of the response by total traffic. Ties are broken by station code.
func busiestStations(response *queryresponse.TrafficResponse, top int) []queryresponse.StationResponse {
	stations := make([]queryresponse.StationResponse, 0, len(response.Stations))
	for idx := range response.Stations {
		if response.Stations[idx].Station != nil {
			stations = append(stations, response.Stations[idx])
		}
	}

	sort.SliceStable(stations, func(i, j int) bool {
		if stations[i].TotalTraffic != stations[j].TotalTraffic {
			return stations[i].TotalTraffic > stations[j].TotalTraffic
		}
		return stations[i].Station.Code < stations[j].Station.Code
	})

	if top < len(stations) {
		stations = stations[:top]
	}
	return stations
}
