package service

import (
	"context"
	"errors"

	"github.com/georgs-k/employee-service/internal/models"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// EventGateway is the messaging side of the attendance exchange with the
// event service. Implementations live in the kafka package.
type EventGateway interface {
	// RequestEventsWithinDates asks the event service for the given
	// events scheduled between fromDate and thruDate. A timeout, a lost
	// reply and a genuinely empty answer all come back as an empty slice.
	RequestEventsWithinDates(ctx context.Context, eventIDs []int64, fromDate, thruDate string) []models.Event

	// PublishAttendanceNotification fans out an attendance change so the
	// notification service can inform the affected employees. Best effort,
	// no retry here.
	PublishAttendanceNotification(ctx context.Context, attending bool, employees []models.Employee, event models.Event) error
}
