package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/georgs-k/employee-service/internal/models"
)

// AttendanceService is the slice of the service layer the consumers
// drive.
type AttendanceService interface {
	FindAttendingAny(ctx context.Context, eventIDs []int64) ([]models.Employee, error)
	FindNonAttendingAny(ctx context.Context, eventIDs []int64) ([]models.Employee, error)
	Attend(ctx context.Context, employeeIDs []uint, event models.Event) ([]models.Employee, error)
	Unattend(ctx context.Context, employeeIDs []uint, event models.Event) ([]models.Employee, error)
	UnattendAndDelete(ctx context.Context, event models.Event) ([]models.Employee, error)
}

type readerFactory func(topic string) reader

type reader interface {
	ReadMessage(ctx context.Context) (kafkago.Message, error)
	Close() error
}

type Consumer struct {
	attendance AttendanceService
	producer   publisher
	replies    replyHandler
	newReader  readerFactory
}

func NewConsumer(brokers []string, groupID string, attendance AttendanceService, producer *Producer, replies Gateway) *Consumer {
	return &Consumer{
		attendance: attendance,
		producer:   producer,
		replies:    replies,
		newReader: func(topic string) reader {
			return kafkago.NewReader(kafkago.ReaderConfig{
				Brokers: brokers,
				GroupID: groupID,
				Topic:   topic,
			})
		},
	}
}

// Run starts one consumer loop per topic. Loops stop when ctx is
// cancelled; a message once accepted is processed to completion.
func (c *Consumer) Run(ctx context.Context) {
	go c.consume(ctx, TopicAttendingRequest, c.handleAttendingRequest)
	go c.consume(ctx, TopicNonAttendingRequest, c.handleNonAttendingRequest)
	go c.consume(ctx, TopicAttendanceRequest, c.handleAttendanceRequest)
	go c.consume(ctx, TopicEventsResponse, c.handleEventsResponse)
}

func (c *Consumer) consume(ctx context.Context, topic string, handle func(ctx context.Context, msg kafkago.Message)) {
	r := c.newReader(topic)
	defer r.Close()
	for {
		msg, err := r.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return
			}
			log.Printf("reading %s failed: %v", topic, err)
			return
		}
		handle(context.Background(), msg)
	}
}

func (c *Consumer) handleAttendingRequest(ctx context.Context, msg kafkago.Message) {
	var request EmployeesRequest
	if err := json.Unmarshal(msg.Value, &request); err != nil {
		log.Printf("malformed message on %s skipped: %v", TopicAttendingRequest, err)
		return
	}
	log.Printf("request for employees attending events %v is received", request.EventIDs)
	employees, err := c.attendance.FindAttendingAny(ctx, request.EventIDs)
	if err != nil {
		log.Printf("attending employees lookup failed: %v", err)
		return
	}
	c.reply(ctx, TopicAttendingResponse, msg, employees)
}

func (c *Consumer) handleNonAttendingRequest(ctx context.Context, msg kafkago.Message) {
	var request EmployeesRequest
	if err := json.Unmarshal(msg.Value, &request); err != nil {
		log.Printf("malformed message on %s skipped: %v", TopicNonAttendingRequest, err)
		return
	}
	log.Printf("request for employees not attending events %v is received", request.EventIDs)
	employees, err := c.attendance.FindNonAttendingAny(ctx, request.EventIDs)
	if err != nil {
		log.Printf("non-attending employees lookup failed: %v", err)
		return
	}
	c.reply(ctx, TopicNonAttendingResponse, msg, employees)
}

func (c *Consumer) handleAttendanceRequest(ctx context.Context, msg kafkago.Message) {
	var request AttendanceChangeRequest
	if err := json.Unmarshal(msg.Value, &request); err != nil {
		log.Printf("malformed message on %s skipped: %v", TopicAttendanceRequest, err)
		return
	}
	switch {
	case request.Attend:
		log.Printf("request for employees %v to attend event %d is received", request.EmployeeIDs, request.Event.ID)
		if _, err := c.attendance.Attend(ctx, request.EmployeeIDs, request.Event); err != nil {
			log.Printf("attend failed for event %d: %v", request.Event.ID, err)
		}
	case len(request.EmployeeIDs) == 0:
		log.Printf("request for cancelling all employees' attendance of event %d is received", request.Event.ID)
		if _, err := c.attendance.UnattendAndDelete(ctx, request.Event); err != nil {
			log.Printf("unattend and delete failed for event %d: %v", request.Event.ID, err)
		}
	default:
		log.Printf("request for cancelling employees' %v attendance of event %d is received", request.EmployeeIDs, request.Event.ID)
		if _, err := c.attendance.Unattend(ctx, request.EmployeeIDs, request.Event); err != nil {
			log.Printf("unattend failed for event %d: %v", request.Event.ID, err)
		}
	}
}

func (c *Consumer) handleEventsResponse(_ context.Context, msg kafkago.Message) {
	c.replies.HandleEventsReply(correlationID(msg), msg.Value)
}

func (c *Consumer) reply(ctx context.Context, topic string, request kafkago.Message, employees []models.Employee) {
	headers := []kafkago.Header{}
	if id := correlationID(request); id != "" {
		headers = append(headers, kafkago.Header{Key: HeaderCorrelationID, Value: []byte(id)})
	}
	if err := c.producer.Publish(ctx, topic, employees, headers...); err != nil {
		log.Printf("reply on %s failed: %v", topic, err)
	}
}

func correlationID(msg kafkago.Message) string {
	for _, header := range msg.Headers {
		if header.Key == HeaderCorrelationID {
			return string(header.Value)
		}
	}
	return ""
}
