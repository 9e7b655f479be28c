package service

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/georgs-k/employee-service/internal/models"
	"github.com/georgs-k/employee-service/internal/repository"
)

// memStore backs the in-memory repositories. The tx manager holds its
// lock for the whole transaction, which models the event row lock the
// real store takes: transactions against the store serialize.
type memStore struct {
	mu        sync.Mutex
	nextID    uint
	employees map[uint]models.Employee
	rosters   map[int64]map[uint]struct{}
	users     map[uuid.UUID]models.User
}

func newMemStore() *memStore {
	return &memStore{
		employees: map[uint]models.Employee{},
		rosters:   map[int64]map[uint]struct{}{},
		users:     map[uuid.UUID]models.User{},
	}
}

func (s *memStore) addEmployee(employee models.Employee) models.Employee {
	s.nextID++
	employee.ID = s.nextID
	s.employees[employee.ID] = employee
	return employee
}

func (s *memStore) addRoster(eventID int64, employeeIDs ...uint) {
	roster := map[uint]struct{}{}
	for _, id := range employeeIDs {
		roster[id] = struct{}{}
	}
	s.rosters[eventID] = roster
}

type memTxManager struct {
	store *memStore
}

func (m *memTxManager) WithTx(ctx context.Context, fn func(ctx context.Context, repos repository.TxRepositories) error) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	repos := repository.TxRepositories{
		Employees:  &memEmployeeRepo{store: m.store},
		Attendance: &memAttendanceRepo{store: m.store},
		Users:      &memUserRepo{store: m.store},
	}
	return fn(ctx, repos)
}

type memEmployeeRepo struct {
	store *memStore
}

func (r *memEmployeeRepo) FindAll(ctx context.Context) ([]models.Employee, error) {
	employees := []models.Employee{}
	for _, employee := range r.store.employees {
		employees = append(employees, employee)
	}
	sortBySurname(employees)
	return employees, nil
}

func (r *memEmployeeRepo) FindByID(ctx context.Context, id uint) (models.Employee, error) {
	employee, ok := r.store.employees[id]
	if !ok {
		return models.Employee{}, repository.ErrNotFound
	}
	return employee, nil
}

func (r *memEmployeeRepo) FindByIDs(ctx context.Context, ids []uint) ([]models.Employee, error) {
	employees := []models.Employee{}
	for _, id := range ids {
		if employee, ok := r.store.employees[id]; ok {
			employees = append(employees, employee)
		}
	}
	sortBySurname(employees)
	return employees, nil
}

func (r *memEmployeeRepo) ExistsByID(ctx context.Context, id uint) (bool, error) {
	_, ok := r.store.employees[id]
	return ok, nil
}

func (r *memEmployeeRepo) ExistsByEmail(ctx context.Context, email string, excludeID uint) (bool, error) {
	for _, employee := range r.store.employees {
		if employee.Email == email && employee.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memEmployeeRepo) Save(ctx context.Context, employee *models.Employee) error {
	if employee.ID == 0 {
		r.store.nextID++
		employee.ID = r.store.nextID
	}
	r.store.employees[employee.ID] = *employee
	return nil
}

func (r *memEmployeeRepo) DeleteByID(ctx context.Context, id uint) error {
	delete(r.store.employees, id)
	return nil
}

type memAttendanceRepo struct {
	store *memStore
}

func (r *memAttendanceRepo) LockEvent(ctx context.Context, eventID int64) (bool, error) {
	_, ok := r.store.rosters[eventID]
	return ok, nil
}

func (r *memAttendanceRepo) CreateEvent(ctx context.Context, eventID int64) error {
	if _, ok := r.store.rosters[eventID]; !ok {
		r.store.rosters[eventID] = map[uint]struct{}{}
	}
	return nil
}

func (r *memAttendanceRepo) DeleteEvent(ctx context.Context, eventID int64) error {
	delete(r.store.rosters, eventID)
	return nil
}

func (r *memAttendanceRepo) AttendeeIDs(ctx context.Context, eventID int64) ([]uint, error) {
	ids := []uint{}
	for id := range r.store.rosters[eventID] {
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *memAttendanceRepo) AttendeesOf(ctx context.Context, eventIDs []int64) ([]models.Employee, error) {
	seen := map[uint]struct{}{}
	employees := []models.Employee{}
	for _, eventID := range eventIDs {
		for id := range r.store.rosters[eventID] {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			if employee, ok := r.store.employees[id]; ok {
				employees = append(employees, employee)
			}
		}
	}
	sortBySurname(employees)
	return employees, nil
}

func (r *memAttendanceRepo) EventIDsFor(ctx context.Context, employeeID uint) ([]int64, error) {
	ids := []int64{}
	for eventID, roster := range r.store.rosters {
		if _, ok := roster[employeeID]; ok {
			ids = append(ids, eventID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (r *memAttendanceRepo) AddAttendees(ctx context.Context, eventID int64, employeeIDs []uint) error {
	roster, ok := r.store.rosters[eventID]
	if !ok {
		roster = map[uint]struct{}{}
		r.store.rosters[eventID] = roster
	}
	for _, id := range employeeIDs {
		roster[id] = struct{}{}
	}
	return nil
}

func (r *memAttendanceRepo) RemoveAttendees(ctx context.Context, eventID int64, employeeIDs []uint) error {
	roster := r.store.rosters[eventID]
	for _, id := range employeeIDs {
		delete(roster, id)
	}
	return nil
}

type memUserRepo struct {
	store *memStore
}

func (r *memUserRepo) FindAll(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	for _, user := range r.store.users {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Email < users[j].Email })
	return users, nil
}

func (r *memUserRepo) FindByID(ctx context.Context, id uuid.UUID) (models.User, error) {
	user, ok := r.store.users[id]
	if !ok {
		return models.User{}, repository.ErrNotFound
	}
	return user, nil
}

func (r *memUserRepo) FindByEmail(ctx context.Context, email string) (models.User, error) {
	for _, user := range r.store.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, repository.ErrNotFound
}

func (r *memUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.FindByEmail(ctx, email)
	if err == nil {
		return true, nil
	}
	return false, nil
}

func (r *memUserRepo) Create(ctx context.Context, user *models.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	r.store.users[user.ID] = *user
	return nil
}

func (r *memUserRepo) Save(ctx context.Context, user *models.User) error {
	r.store.users[user.ID] = *user
	return nil
}

func (r *memUserRepo) Delete(ctx context.Context, user *models.User) error {
	delete(r.store.users, user.ID)
	return nil
}

type notification struct {
	attending bool
	employees []models.Employee
	event     models.Event
}

type fakeGateway struct {
	mu            sync.Mutex
	notifications []notification
	events        []models.Event
	requestedIDs  []int64
}

func (g *fakeGateway) RequestEventsWithinDates(ctx context.Context, eventIDs []int64, fromDate, thruDate string) []models.Event {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.requestedIDs = append([]int64{}, eventIDs...)
	return g.events
}

func (g *fakeGateway) PublishAttendanceNotification(ctx context.Context, attending bool, employees []models.Employee, event models.Event) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.notifications = append(g.notifications, notification{attending: attending, employees: employees, event: event})
	return nil
}

func (g *fakeGateway) sent() []notification {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]notification{}, g.notifications...)
}

func sortBySurname(employees []models.Employee) {
	sort.Slice(employees, func(i, j int) bool { return employees[i].LastName < employees[j].LastName })
}
