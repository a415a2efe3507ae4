package services

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/smartnote/core/internal/domain/entities"
	"github.com/smartnote/core/internal/infrastructure/logger"
	"github.com/smartnote/core/internal/ports"
)

// UserService handles user management and login
type UserService struct {
	userRepo ports.Repository[entities.User]
	logger   *logger.Logger
}

// NewUserService creates a new user service
func NewUserService(userRepo ports.Repository[entities.User], logger *logger.Logger) *UserService {
	return &UserService{
		userRepo: userRepo,
		logger:   logger.WithComponent("users"),
	}
}

// BcryptHasher returns a password hasher using the given bcrypt cost
func BcryptHasher(cost int) func(string) (string, error) {
	return func(password string) (string, error) {
		hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
		if err != nil {
			return "", fmt.Errorf("failed to hash password: %w", err)
		}
		return string(hashed), nil
	}
}

// CreateUser stores a new user; the password is hashed by the repository schema
func (s *UserService) CreateUser(ctx context.Context, fields entities.Document) (*entities.User, error) {
	user, err := s.userRepo.Create(ctx, fields)
	if err != nil {
		return nil, err
	}

	s.logger.Infow("User created", "user_id", user.ID, "email", user.Email)
	return user, nil
}

// GetUser retrieves a user by ID
func (s *UserService) GetUser(ctx context.Context, id string) (*entities.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// UpdateUser merges patch into the user
func (s *UserService) UpdateUser(ctx context.Context, id string, patch entities.Document) (*entities.User, error) {
	user, err := s.userRepo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	s.logger.LogUserAction(id, "user_updated", nil)
	return user, nil
}

// DeleteUser permanently removes a user
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Infow("User deleted", "user_id", id)
	return nil
}

// Login looks the user up by email and checks the password against the
// stored hash. Unknown emails and wrong passwords are indistinguishable.
func (s *UserService) Login(ctx context.Context, req ports.LoginRequest) (*entities.Profile, error) {
	users, err := s.userRepo.Find(ctx, ports.Eq("email", req.Email))
	if err != nil {
		return nil, err
	}

	for _, user := range users {
		if user.PasswordHash == "" {
			continue
		}
		err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password))
		if err == nil {
			profile := user.Profile()
			s.logger.LogUserAction(user.ID, "login", nil)
			return &profile, nil
		}
		if !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			s.logger.Errorw("Password comparison failed", "user_id", user.ID, "error", err)
		}
	}

	return nil, entities.ErrUnauthorized
}
