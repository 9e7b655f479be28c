package service

import (
	"context"
	"errors"
	"log"

	"github.com/georgs-k/employee-service/internal/models"
	"github.com/georgs-k/employee-service/internal/repository"
)

// EmployeeService is the directory: plain CRUD over employee records,
// independent of attendance. The store is the sole id authority.
type EmployeeService struct {
	tx      repository.TxManager
	gateway EventGateway
}

func NewEmployeeService(tx repository.TxManager, gateway EventGateway) *EmployeeService {
	return &EmployeeService{tx: tx, gateway: gateway}
}

func (s *EmployeeService) FindAll(ctx context.Context) ([]models.Employee, error) {
	employees := []models.Employee{}
	err := s.tx.WithTx(ctx, func(ctx context.Context, repos repository.TxRepositories) error {
		var err error
		employees, err = repos.Employees.FindAll(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	log.Printf("number of all employees is %d", len(employees))
	return employees, nil
}

func (s *EmployeeService) FindByID(ctx context.Context, id uint) (models.Employee, error) {
	var employee models.Employee
	err := s.tx.WithTx(ctx, func(ctx context.Context, repos repository.TxRepositories) error {
		var err error
		employee, err = repos.Employees.FindByID(ctx, id)
		return err
	})
	if errors.Is(err, repository.ErrNotFound) {
		return employee, ErrNotFound
	}
	return employee, err
}

// Save creates an employee. A client-supplied id is discarded: the store
// assigns the id.
func (s *EmployeeService) Save(ctx context.Context, employee models.Employee) (models.Employee, error) {
	employee.ID = 0
	err := s.tx.WithTx(ctx, func(ctx context.Context, repos repository.TxRepositories) error {
		taken, err := repos.Employees.ExistsByEmail(ctx, employee.Email, 0)
		if err != nil {
			return err
		}
		if taken {
			return ErrConflict
		}
		return repos.Employees.Save(ctx, &employee)
	})
	if err != nil {
		return models.Employee{}, err
	}
	log.Printf("new employee is saved with id %d", employee.ID)
	return employee, nil
}

// Update overwrites the employee with the given id. Callers confirm
// existence first via ExistsByID so the boundary can answer 404 vs 200.
func (s *EmployeeService) Update(ctx context.Context, employee models.Employee) (models.Employee, error) {
	err := s.tx.WithTx(ctx, func(ctx context.Context, repos repository.TxRepositories) error {
		taken, err := repos.Employees.ExistsByEmail(ctx, employee.Email, employee.ID)
		if err != nil {
			return err
		}
		if taken {
			return ErrConflict
		}
		return repos.Employees.Save(ctx, &employee)
	})
	if err != nil {
		return models.Employee{}, err
	}
	log.Printf("employee with id %d is updated", employee.ID)
	return employee, nil
}

func (s *EmployeeService) DeleteByID(ctx context.Context, id uint) error {
	err := s.tx.WithTx(ctx, func(ctx context.Context, repos repository.TxRepositories) error {
		return repos.Employees.DeleteByID(ctx, id)
	})
	if err != nil {
		return err
	}
	log.Printf("employee with id %d is deleted", id)
	return nil
}

func (s *EmployeeService) ExistsByID(ctx context.Context, id uint) (bool, error) {
	var exists bool
	err := s.tx.WithTx(ctx, func(ctx context.Context, repos repository.TxRepositories) error {
		var err error
		exists, err = repos.Employees.ExistsByID(ctx, id)
		return err
	})
	return exists, err
}

// Schedule resolves the events the employee attends between fromDate and
// thruDate through the event service. "No events" and "event service
// silent" are both an empty slice.
func (s *EmployeeService) Schedule(ctx context.Context, id uint, fromDate, thruDate string) ([]models.Event, error) {
	var eventIDs []int64
	err := s.tx.WithTx(ctx, func(ctx context.Context, repos repository.TxRepositories) error {
		exists, err := repos.Employees.ExistsByID(ctx, id)
		if err != nil {
			return err
		}
		if !exists {
			return ErrNotFound
		}
		eventIDs, err = repos.Attendance.EventIDsFor(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if len(eventIDs) == 0 {
		return []models.Event{}, nil
	}
	return s.gateway.RequestEventsWithinDates(ctx, eventIDs, fromDate, thruDate), nil
}
