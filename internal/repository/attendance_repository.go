package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/georgs-k/employee-service/internal/models"
)

type AttendanceRepository interface {
	// LockEvent takes a row lock on the event's attendance record so the
	// surrounding transaction owns its read-modify-write. Reports whether
	// the record exists.
	LockEvent(ctx context.Context, eventID int64) (bool, error)
	CreateEvent(ctx context.Context, eventID int64) error
	DeleteEvent(ctx context.Context, eventID int64) error
	AttendeeIDs(ctx context.Context, eventID int64) ([]uint, error)
	AttendeesOf(ctx context.Context, eventIDs []int64) ([]models.Employee, error)
	EventIDsFor(ctx context.Context, employeeID uint) ([]int64, error)
	AddAttendees(ctx context.Context, eventID int64, employeeIDs []uint) error
	RemoveAttendees(ctx context.Context, eventID int64, employeeIDs []uint) error
}

type AttendanceGormRepository struct {
	db *gorm.DB
}

func NewAttendanceGormRepository(db *gorm.DB) *AttendanceGormRepository {
	return &AttendanceGormRepository{db: db}
}

func (r *AttendanceGormRepository) LockEvent(ctx context.Context, eventID int64) (bool, error) {
	var record models.EventAttendance
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&record, "id = ?", eventID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *AttendanceGormRepository) CreateEvent(ctx context.Context, eventID int64) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.EventAttendance{ID: eventID}).Error
}

func (r *AttendanceGormRepository) DeleteEvent(ctx context.Context, eventID int64) error {
	if err := r.db.WithContext(ctx).Delete(&models.EventAttendee{}, "event_id = ?", eventID).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Delete(&models.EventAttendance{}, "id = ?", eventID).Error
}

func (r *AttendanceGormRepository) AttendeeIDs(ctx context.Context, eventID int64) ([]uint, error) {
	ids := []uint{}
	err := r.db.WithContext(ctx).Model(&models.EventAttendee{}).
		Where("event_id = ?", eventID).
		Pluck("employee_id", &ids).Error
	return ids, err
}

func (r *AttendanceGormRepository) AttendeesOf(ctx context.Context, eventIDs []int64) ([]models.Employee, error) {
	employees := []models.Employee{}
	if len(eventIDs) == 0 {
		return employees, nil
	}
	err := r.db.WithContext(ctx).Model(&models.Employee{}).
		Joins("JOIN event_attended ON event_attended.employee_id = employees.id").
		Where("event_attended.event_id IN ?", eventIDs).
		Distinct().
		Order("employees.last_name asc").
		Find(&employees).Error
	return employees, err
}

func (r *AttendanceGormRepository) EventIDsFor(ctx context.Context, employeeID uint) ([]int64, error) {
	ids := []int64{}
	err := r.db.WithContext(ctx).Model(&models.EventAttendee{}).
		Where("employee_id = ?", employeeID).
		Pluck("event_id", &ids).Error
	return ids, err
}

func (r *AttendanceGormRepository) AddAttendees(ctx context.Context, eventID int64, employeeIDs []uint) error {
	if len(employeeIDs) == 0 {
		return nil
	}
	rows := make([]models.EventAttendee, 0, len(employeeIDs))
	for _, employeeID := range employeeIDs {
		rows = append(rows, models.EventAttendee{EventID: eventID, EmployeeID: employeeID})
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows).Error
}

func (r *AttendanceGormRepository) RemoveAttendees(ctx context.Context, eventID int64, employeeIDs []uint) error {
	if len(employeeIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("event_id = ? AND employee_id IN ?", eventID, employeeIDs).
		Delete(&models.EventAttendee{}).Error
}
