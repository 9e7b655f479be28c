package kafka

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/georgs-k/employee-service/internal/config"
	"github.com/georgs-k/employee-service/internal/models"
	"github.com/georgs-k/employee-service/internal/service"
)

// replyHandler receives events-response messages from the consumer loop.
// Both gateway variants implement it; what they do with a reply is the
// difference between them.
type replyHandler interface {
	HandleEventsReply(correlationID string, payload []byte)
}

// Gateway is the messaging side of the attendance exchange, with a hook
// for the reply listener.
type Gateway interface {
	service.EventGateway
	replyHandler
}

// NewGateway picks the gateway variant from configuration, so call sites
// stay the same across deployments.
func NewGateway(cfg config.Config, producer *Producer) Gateway {
	if cfg.KafkaReplyMode == config.ReplyModeFireForget {
		return NewFireForgetGateway(producer)
	}
	return NewRequestReplyGateway(producer, time.Duration(cfg.KafkaReplySeconds)*time.Second)
}

// FireForgetGateway publishes requests and never waits. Replies arrive
// on the response topic whenever they arrive; with no request retained
// they are logged and dropped, which the contract tolerates.
type FireForgetGateway struct {
	producer publisher
}

func NewFireForgetGateway(producer publisher) *FireForgetGateway {
	return &FireForgetGateway{producer: producer}
}

func (g *FireForgetGateway) RequestEventsWithinDates(ctx context.Context, eventIDs []int64, fromDate, thruDate string) []models.Event {
	request := EventsRequest{EventIDs: eventIDs, FromDate: fromDate, ThruDate: thruDate}
	if err := g.producer.Publish(ctx, TopicEventsRequest, request); err != nil {
		log.Printf("events request failed: %v", err)
	}
	return []models.Event{}
}

func (g *FireForgetGateway) PublishAttendanceNotification(ctx context.Context, attending bool, employees []models.Employee, event models.Event) error {
	return publishAttendanceNotification(ctx, g.producer, attending, employees, event)
}

func (g *FireForgetGateway) HandleEventsReply(correlationID string, payload []byte) {
	var events []models.Event
	if err := json.Unmarshal(payload, &events); err != nil {
		log.Printf("malformed events reply dropped: %v", err)
		return
	}
	log.Printf("reply with %d events received and dropped, no request outstanding", len(events))
}

func publishAttendanceNotification(ctx context.Context, producer publisher, attending bool, employees []models.Employee, event models.Event) error {
	notification := AttendanceNotification{Attending: attending, Employees: employees, Event: event}
	if err := producer.Publish(ctx, TopicAttendanceNotification, notification); err != nil {
		return err
	}
	log.Printf("attendance notification for event %d is sent to kafka topic %s", event.ID, TopicAttendanceNotification)
	return nil
}
