package service

import (
	"context"
	"fmt"

	"github.com/0Bleak/order-service/internal/models"
	"github.com/0Bleak/order-service/internal/repository"
	"go.uber.org/zap"
)

type UserService interface {
	CreateUser(ctx context.Context, req *models.CreateUserRequest) (*models.User, error)
	GetUser(ctx context.Context, id uint32) (*models.User, error)
	UpdateName(ctx context.Context, id uint32, name string) (*models.User, error)
	UpdateEmail(ctx context.Context, id uint32, email string) (*models.User, error)
	UpdateAddress(ctx context.Context, id uint32, address string) (*models.User, error)
}

type userService struct {
	repo   repository.UserRepository
	logger *zap.Logger
}

func NewUserService(repo repository.UserRepository, logger *zap.Logger) UserService {
	return &userService{
		repo:   repo,
		logger: logger,
	}
}

func (s *userService) CreateUser(ctx context.Context, req *models.CreateUserRequest) (*models.User, error) {
	// Validate before taking an id from the sequence.
	if _, err := models.NewUser(0, req.Name, req.Email, req.Address); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	id, err := s.repo.NextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate user id: %w", err)
	}

	user, err := models.NewUser(id, req.Name, req.Email, req.Address)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user created", zap.Uint32("user_id", user.ID()))
	return user, nil
}

func (s *userService) GetUser(ctx context.Context, id uint32) (*models.User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *userService) UpdateName(ctx context.Context, id uint32, name string) (*models.User, error) {
	return s.update(ctx, id, func(u *models.User) error { return u.UpdateName(name) })
}

func (s *userService) UpdateEmail(ctx context.Context, id uint32, email string) (*models.User, error) {
	return s.update(ctx, id, func(u *models.User) error { return u.UpdateEmail(email) })
}

func (s *userService) UpdateAddress(ctx context.Context, id uint32, address string) (*models.User, error) {
	return s.update(ctx, id, func(u *models.User) error { return u.UpdateAddress(address) })
}

func (s *userService) update(ctx context.Context, id uint32, apply func(*models.User) error) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := apply(user); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}
