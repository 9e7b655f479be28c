package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/georgs-k/employee-service/internal/models"
)

var ErrNotFound = errors.New("record not found")

type EmployeeRepository interface {
	FindAll(ctx context.Context) ([]models.Employee, error)
	FindByID(ctx context.Context, id uint) (models.Employee, error)
	FindByIDs(ctx context.Context, ids []uint) ([]models.Employee, error)
	ExistsByID(ctx context.Context, id uint) (bool, error)
	ExistsByEmail(ctx context.Context, email string, excludeID uint) (bool, error)
	Save(ctx context.Context, employee *models.Employee) error
	DeleteByID(ctx context.Context, id uint) error
}

type EmployeeGormRepository struct {
	db *gorm.DB
}

func NewEmployeeGormRepository(db *gorm.DB) *EmployeeGormRepository {
	return &EmployeeGormRepository{db: db}
}

func (r *EmployeeGormRepository) FindAll(ctx context.Context) ([]models.Employee, error) {
	var employees []models.Employee
	err := r.db.WithContext(ctx).Order("last_name asc").Find(&employees).Error
	return employees, err
}

func (r *EmployeeGormRepository) FindByID(ctx context.Context, id uint) (models.Employee, error) {
	var employee models.Employee
	err := r.db.WithContext(ctx).First(&employee, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return employee, ErrNotFound
	}
	return employee, err
}

func (r *EmployeeGormRepository) FindByIDs(ctx context.Context, ids []uint) ([]models.Employee, error) {
	employees := []models.Employee{}
	if len(ids) == 0 {
		return employees, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("last_name asc").Find(&employees).Error
	return employees, err
}

func (r *EmployeeGormRepository) ExistsByID(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Employee{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *EmployeeGormRepository) ExistsByEmail(ctx context.Context, email string, excludeID uint) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.Employee{}).Where("email = ?", email)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

func (r *EmployeeGormRepository) Save(ctx context.Context, employee *models.Employee) error {
	return r.db.WithContext(ctx).Save(employee).Error
}

func (r *EmployeeGormRepository) DeleteByID(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Employee{}, "id = ?", id).Error
}
