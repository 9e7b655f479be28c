package repository

import (
	"context"

	"gorm.io/gorm"
)

type TxRepositories struct {
	Employees  EmployeeRepository
	Attendance AttendanceRepository
	Users      UserRepository
}

// TxManager runs a function against the store with all repositories bound
// to one transaction. Every engine call is exactly one transaction.
type TxManager interface {
	WithTx(ctx context.Context, fn func(ctx context.Context, repos TxRepositories) error) error
}

type GormTxManager struct {
	db *gorm.DB
}

func NewGormTxManager(db *gorm.DB) *GormTxManager {
	return &GormTxManager{db: db}
}

func (m *GormTxManager) WithTx(ctx context.Context, fn func(ctx context.Context, repos TxRepositories) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := TxRepositories{
			Employees:  NewEmployeeGormRepository(tx),
			Attendance: NewAttendanceGormRepository(tx),
			Users:      NewUserGormRepository(tx),
		}
		return fn(ctx, repos)
	})
}
