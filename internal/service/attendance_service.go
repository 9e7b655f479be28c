package service

import (
	"context"
	"log"

	"github.com/georgs-k/employee-service/internal/models"
	"github.com/georgs-k/employee-service/internal/repository"
)

// AttendanceService answers who attends which events and cancels
// attendance. The event_attended join table is the source of truth on
// this side; every mutation is one transaction with the event row locked,
// so concurrent changes to the same roster serialize instead of losing
// updates.
type AttendanceService struct {
	tx      repository.TxManager
	gateway EventGateway
}

func NewAttendanceService(tx repository.TxManager, gateway EventGateway) *AttendanceService {
	return &AttendanceService{tx: tx, gateway: gateway}
}

// FindAttending returns the roster of one event, empty when no attendance
// record exists. A missing event is a valid "nobody attending" result.
func (s *AttendanceService) FindAttending(ctx context.Context, eventID int64) ([]models.Employee, error) {
	return s.FindAttendingAny(ctx, []int64{eventID})
}

// FindAttendingAny returns the union of the rosters of the given events
// in one store round trip.
func (s *AttendanceService) FindAttendingAny(ctx context.Context, eventIDs []int64) ([]models.Employee, error) {
	attending := []models.Employee{}
	err := s.tx.WithTx(ctx, func(ctx context.Context, repos repository.TxRepositories) error {
		employees, err := repos.Attendance.AttendeesOf(ctx, eventIDs)
		if err != nil {
			return err
		}
		attending = employees
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Printf("found %d employees attending events %v", len(attending), eventIDs)
	return attending, nil
}

// FindNonAttending returns every employee not on the event's roster.
// Scoped per event: attending some other event does not exclude anyone.
func (s *AttendanceService) FindNonAttending(ctx context.Context, eventID int64) ([]models.Employee, error) {
	return s.FindNonAttendingAny(ctx, []int64{eventID})
}

func (s *AttendanceService) FindNonAttendingAny(ctx context.Context, eventIDs []int64) ([]models.Employee, error) {
	nonAttending := []models.Employee{}
	err := s.tx.WithTx(ctx, func(ctx context.Context, repos repository.TxRepositories) error {
		all, err := repos.Employees.FindAll(ctx)
		if err != nil {
			return err
		}
		attending, err := repos.Attendance.AttendeesOf(ctx, eventIDs)
		if err != nil {
			return err
		}
		attendingIDs := make(map[uint]struct{}, len(attending))
		for _, employee := range attending {
			attendingIDs[employee.ID] = struct{}{}
		}
		for _, employee := range all {
			if _, ok := attendingIDs[employee.ID]; !ok {
				nonAttending = append(nonAttending, employee)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Printf("found %d employees not attending events %v", len(nonAttending), eventIDs)
	return nonAttending, nil
}

// Attend marks the given employees as attending the event, creating the
// attendance record on first attendee. Ids unknown to the directory are
// dropped silently; already-attending ids are not duplicated.
func (s *AttendanceService) Attend(ctx context.Context, employeeIDs []uint, event models.Event) ([]models.Employee, error) {
	added := []models.Employee{}
	err := s.tx.WithTx(ctx, func(ctx context.Context, repos repository.TxRepositories) error {
		exists, err := repos.Attendance.LockEvent(ctx, event.ID)
		if err != nil {
			return err
		}
		if !exists {
			if err := repos.Attendance.CreateEvent(ctx, event.ID); err != nil {
				return err
			}
		}
		current, err := repos.Attendance.AttendeeIDs(ctx, event.ID)
		if err != nil {
			return err
		}
		candidates := subtractIDs(employeeIDs, current)
		if len(candidates) == 0 {
			return nil
		}
		employees, err := repos.Employees.FindByIDs(ctx, candidates)
		if err != nil {
			return err
		}
		if err := repos.Attendance.AddAttendees(ctx, event.ID, idsOf(employees)); err != nil {
			return err
		}
		added = employees
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(added) == 0 {
		log.Printf("no new attendees for event %d", event.ID)
		return added, nil
	}
	log.Printf("%d employees now attend event %d", len(added), event.ID)
	s.notify(ctx, true, added, event)
	return added, nil
}

// Unattend cancels the given employees' attendance of the event. An
// empty employeeIDs set means everyone: the whole roster is removed and
// the attendance record deleted. Requested ids that are not on the
// roster are dropped silently. Idempotent: repeating the call is a no-op
// returning empty.
func (s *AttendanceService) Unattend(ctx context.Context, employeeIDs []uint, event models.Event) ([]models.Employee, error) {
	removed := []models.Employee{}
	err := s.tx.WithTx(ctx, func(ctx context.Context, repos repository.TxRepositories) error {
		exists, err := repos.Attendance.LockEvent(ctx, event.ID)
		if err != nil {
			return err
		}
		if !exists {
			log.Printf("employees' attendance of event %d is not found", event.ID)
			return nil
		}
		current, err := repos.Attendance.AttendeeIDs(ctx, event.ID)
		if err != nil {
			return err
		}
		if len(current) == 0 {
			log.Printf("employees' attendance of event %d is not found", event.ID)
			return nil
		}
		if len(employeeIDs) == 0 {
			employees, err := repos.Attendance.AttendeesOf(ctx, []int64{event.ID})
			if err != nil {
				return err
			}
			if err := repos.Attendance.DeleteEvent(ctx, event.ID); err != nil {
				return err
			}
			removed = employees
			return nil
		}
		requested := intersectIDs(employeeIDs, current)
		if len(requested) == 0 {
			log.Printf("requested employees' attendance of event %d is not found", event.ID)
			return nil
		}
		employees, err := repos.Employees.FindByIDs(ctx, requested)
		if err != nil {
			return err
		}
		if err := repos.Attendance.RemoveAttendees(ctx, event.ID, idsOf(employees)); err != nil {
			return err
		}
		removed = employees
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(removed) > 0 {
		log.Printf("%d employees' attendance of event %d is cancelled", len(removed), event.ID)
		s.notify(ctx, false, removed, event)
	}
	return removed, nil
}

// UnattendAndDelete cancels everyone's attendance and drops the event's
// attendance record whether or not anyone was attending.
func (s *AttendanceService) UnattendAndDelete(ctx context.Context, event models.Event) ([]models.Employee, error) {
	removed := []models.Employee{}
	err := s.tx.WithTx(ctx, func(ctx context.Context, repos repository.TxRepositories) error {
		exists, err := repos.Attendance.LockEvent(ctx, event.ID)
		if err != nil {
			return err
		}
		if !exists {
			log.Printf("employees' attendance of event %d is not found", event.ID)
			return nil
		}
		employees, err := repos.Attendance.AttendeesOf(ctx, []int64{event.ID})
		if err != nil {
			return err
		}
		if err := repos.Attendance.DeleteEvent(ctx, event.ID); err != nil {
			return err
		}
		removed = employees
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(removed) > 0 {
		log.Printf("%d employees' attendance of event %d is cancelled", len(removed), event.ID)
		s.notify(ctx, false, removed, event)
	}
	return removed, nil
}

func (s *AttendanceService) notify(ctx context.Context, attending bool, employees []models.Employee, event models.Event) {
	if err := s.gateway.PublishAttendanceNotification(ctx, attending, employees, event); err != nil {
		log.Printf("attendance notification for event %d failed: %v", event.ID, err)
	}
}

func idsOf(employees []models.Employee) []uint {
	ids := make([]uint, 0, len(employees))
	for _, employee := range employees {
		ids = append(ids, employee.ID)
	}
	return ids
}

func intersectIDs(requested, current []uint) []uint {
	currentSet := make(map[uint]struct{}, len(current))
	for _, id := range current {
		currentSet[id] = struct{}{}
	}
	kept := []uint{}
	for _, id := range requested {
		if _, ok := currentSet[id]; ok {
			kept = append(kept, id)
		}
	}
	return kept
}

func subtractIDs(requested, current []uint) []uint {
	currentSet := make(map[uint]struct{}, len(current))
	for _, id := range current {
		currentSet[id] = struct{}{}
	}
	kept := []uint{}
	seen := map[uint]struct{}{}
	for _, id := range requested {
		if _, ok := currentSet[id]; ok {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		kept = append(kept, id)
	}
	return kept
}
