package kafka

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/georgs-k/employee-service/internal/models"
)

// RequestReplyGateway gives callers bounded-wait semantics over the
// async transport: each request carries a generated correlation id, the
// caller parks on a channel until the matching reply lands or the
// timeout elapses. Pending entries are removed on every exit path.
type RequestReplyGateway struct {
	producer publisher
	timeout  time.Duration

	mu      sync.Mutex
	pending map[string]chan []models.Event
}

func NewRequestReplyGateway(producer publisher, timeout time.Duration) *RequestReplyGateway {
	return &RequestReplyGateway{
		producer: producer,
		timeout:  timeout,
		pending:  make(map[string]chan []models.Event),
	}
}

func (g *RequestReplyGateway) RequestEventsWithinDates(ctx context.Context, eventIDs []int64, fromDate, thruDate string) []models.Event {
	correlationID := uuid.NewString()
	reply := make(chan []models.Event, 1)

	g.mu.Lock()
	g.pending[correlationID] = reply
	g.mu.Unlock()
	defer func() {
		g.mu.Lock()
		delete(g.pending, correlationID)
		g.mu.Unlock()
	}()

	request := EventsRequest{EventIDs: eventIDs, FromDate: fromDate, ThruDate: thruDate}
	header := kafkago.Header{Key: HeaderCorrelationID, Value: []byte(correlationID)}
	if err := g.producer.Publish(ctx, TopicEventsRequest, request, header); err != nil {
		log.Printf("events request %s failed: %v", correlationID, err)
		return []models.Event{}
	}

	select {
	case events := <-reply:
		if events == nil {
			events = []models.Event{}
		}
		return events
	case <-time.After(g.timeout):
		log.Printf("events request %s timed out after %s", correlationID, g.timeout)
		return []models.Event{}
	case <-ctx.Done():
		log.Printf("events request %s cancelled: %v", correlationID, ctx.Err())
		return []models.Event{}
	}
}

func (g *RequestReplyGateway) PublishAttendanceNotification(ctx context.Context, attending bool, employees []models.Employee, event models.Event) error {
	return publishAttendanceNotification(ctx, g.producer, attending, employees, event)
}

func (g *RequestReplyGateway) HandleEventsReply(correlationID string, payload []byte) {
	g.mu.Lock()
	reply, ok := g.pending[correlationID]
	if ok {
		delete(g.pending, correlationID)
	}
	g.mu.Unlock()
	if !ok {
		log.Printf("reply %s has no outstanding request, dropped", correlationID)
		return
	}

	var events []models.Event
	if err := json.Unmarshal(payload, &events); err != nil {
		log.Printf("malformed events reply %s: %v", correlationID, err)
		events = nil
	}
	reply <- events
}
