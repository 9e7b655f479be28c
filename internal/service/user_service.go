package service

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"

	"github.com/georgs-k/employee-service/internal/models"
	"github.com/georgs-k/employee-service/internal/repository"
	"github.com/georgs-k/employee-service/internal/utils"
)

type UserService struct {
	tx repository.TxManager
}

func NewUserService(tx repository.TxManager) *UserService {
	return &UserService{tx: tx}
}

func (s *UserService) FindAll(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	err := s.tx.WithTx(ctx, func(ctx context.Context, repos repository.TxRepositories) error {
		var err error
		users, err = repos.Users.FindAll(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	log.Printf("number of all users is %d", len(users))
	return users, nil
}

func (s *UserService) FindByID(ctx context.Context, id uuid.UUID) (models.User, error) {
	var user models.User
	err := s.tx.WithTx(ctx, func(ctx context.Context, repos repository.TxRepositories) error {
		var err error
		user, err = repos.Users.FindByID(ctx, id)
		return err
	})
	if errors.Is(err, repository.ErrNotFound) {
		return user, ErrNotFound
	}
	return user, err
}

func (s *UserService) Create(ctx context.Context, email, password, role string) (models.User, error) {
	passwordHash, err := utils.HashPassword(password)
	if err != nil {
		return models.User{}, err
	}
	user := models.User{Email: email, PasswordHash: passwordHash, Role: role}
	err = s.tx.WithTx(ctx, func(ctx context.Context, repos repository.TxRepositories) error {
		exists, err := repos.Users.ExistsByEmail(ctx, email)
		if err != nil {
			return err
		}
		if exists {
			log.Printf("user is not created: email %s already exists", email)
			return ErrConflict
		}
		return repos.Users.Create(ctx, &user)
	})
	if err != nil {
		return models.User{}, err
	}
	log.Printf("new user %s is created", user.ID)
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, id uuid.UUID, email string) error {
	err := s.tx.WithTx(ctx, func(ctx context.Context, repos repository.TxRepositories) error {
		user, err := repos.Users.FindByID(ctx, id)
		if errors.Is(err, repository.ErrNotFound) || (err == nil && user.Email != email) {
			log.Printf("user is not deleted: user with id %s and email %s is not found", id, email)
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return repos.Users.Delete(ctx, &user)
	})
	if err != nil {
		return err
	}
	log.Printf("user with id %s is deleted", id)
	return nil
}

func (s *UserService) ChangeRole(ctx context.Context, id uuid.UUID, email, role string) error {
	err := s.tx.WithTx(ctx, func(ctx context.Context, repos repository.TxRepositories) error {
		user, err := repos.Users.FindByID(ctx, id)
		if errors.Is(err, repository.ErrNotFound) || (err == nil && user.Email != email) {
			log.Printf("user role is not changed: user with id %s and email %s is not found", id, email)
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		user.Role = role
		return repos.Users.Save(ctx, &user)
	})
	if err != nil {
		return err
	}
	log.Printf("role of user %s is changed to %s", id, role)
	return nil
}

func (s *UserService) ChangePassword(ctx context.Context, email, oldPassword, newPassword, newPasswordConfirmed string) error {
	if newPassword != newPasswordConfirmed {
		return ErrInvalidInput
	}
	err := s.tx.WithTx(ctx, func(ctx context.Context, repos repository.TxRepositories) error {
		user, err := repos.Users.FindByEmail(ctx, email)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if !utils.CheckPassword(user.PasswordHash, oldPassword) {
			return ErrInvalidCredentials
		}
		passwordHash, err := utils.HashPassword(newPassword)
		if err != nil {
			return err
		}
		user.PasswordHash = passwordHash
		return repos.Users.Save(ctx, &user)
	})
	if err != nil {
		return err
	}
	log.Printf("password of user %s is changed", email)
	return nil
}

// Authenticate verifies credentials for token issuance.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (models.User, error) {
	var user models.User
	err := s.tx.WithTx(ctx, func(ctx context.Context, repos repository.TxRepositories) error {
		var err error
		user, err = repos.Users.FindByEmail(ctx, email)
		return err
	})
	if errors.Is(err, repository.ErrNotFound) {
		return models.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return models.User{}, err
	}
	if !utils.CheckPassword(user.PasswordHash, password) {
		return models.User{}, ErrInvalidCredentials
	}
	return user, nil
}
