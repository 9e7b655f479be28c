package kafka

import "github.com/georgs-k/employee-service/internal/models"

const (
	TopicAttendingRequest       = "attending_employees_request"
	TopicAttendingResponse      = "attending_employees_response"
	TopicNonAttendingRequest    = "non_attending_employees_request"
	TopicNonAttendingResponse   = "non_attending_employees_response"
	TopicAttendanceRequest      = "attendance-request"
	TopicAttendanceNotification = "attendance-notification"
	TopicEventsRequest          = "events-request"
	TopicEventsResponse         = "events-response"
)

// HeaderCorrelationID pairs an asynchronous request with its reply.
const HeaderCorrelationID = "correlation_id"

// EmployeesRequest asks for the employees attending, or not attending,
// the given events. Replies go to the matching *_response topic with the
// request's correlation header echoed.
type EmployeesRequest struct {
	EventIDs []int64 `json:"eventIds"`
}

// AttendanceChangeRequest mutates attendance. An empty EmployeeIDs set
// on an unattend means "cancel everyone and delete the record".
type AttendanceChangeRequest struct {
	Attend      bool         `json:"attend"`
	EmployeeIDs []uint       `json:"employeeIds"`
	Event       models.Event `json:"event"`
}

// AttendanceNotification fans an attendance change out to the
// notification service. Event id and employee ids are always present so
// consumers can deduplicate redeliveries.
type AttendanceNotification struct {
	Attending bool              `json:"attending"`
	Employees []models.Employee `json:"employees"`
	Event     models.Event      `json:"event"`
}

// EventsRequest queries the event service for events scheduled within
// the date range.
type EventsRequest struct {
	EventIDs []int64 `json:"eventIds"`
	FromDate string  `json:"fromDate"`
	ThruDate string  `json:"thruDate"`
}
