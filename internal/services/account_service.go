package services

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/h4ks-com/cashbook/internal/auth"
	"github.com/h4ks-com/cashbook/internal/models"
	"github.com/h4ks-com/cashbook/internal/repository"
	"gorm.io/gorm"
)

const (
	MinUsernameLength = 3
	MinPasswordLength = 4
	MaxUsernameLength = 64
	// bcrypt rejects longer input.
	MaxPasswordBytes = 72
)

// AccountService is the user store: registration, lookup and credential checks.
type AccountService struct {
	userRepo *repository.UserRepository
	logger   *slog.Logger
}

func NewAccountService(userRepo *repository.UserRepository, logger *slog.Logger) *AccountService {
	return &AccountService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// Register validates a sign-up form and creates the account.
func (s *AccountService) Register(username, password, confirmPassword string) (*models.User, error) {
	username = strings.TrimSpace(username)

	switch {
	case username == "" || password == "":
		return nil, invalid("Please fill all fields")
	case password != confirmPassword:
		return nil, invalid("Passwords do not match")
	case len(username) < MinUsernameLength:
		return nil, invalid("Username must be at least 3 characters")
	case len(password) < MinPasswordLength:
		return nil, invalid("Password must be at least 4 characters")
	}

	return s.Create(username, password)
}

// Create hashes password and inserts the user. A taken username is
// reported as ErrUsernameTaken.
func (s *AccountService) Create(username, password string) (*models.User, error) {
	switch {
	case len(username) > MaxUsernameLength:
		return nil, invalid("Username must be at most 64 characters")
	case len(password) > MaxPasswordBytes:
		return nil, invalid("Password must be at most 72 bytes")
	}

	existing, err := s.userRepo.FindByUsername(username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{Username: username, PasswordHash: hash}
	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}

	s.logger.Info("user created", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// EnsureUser creates the user unless the username already exists.
func (s *AccountService) EnsureUser(username, password string) (*models.User, bool, error) {
	user, err := s.Create(username, password)
	if errors.Is(err, ErrUsernameTaken) {
		existing, err := s.userRepo.FindByUsername(username)
		return existing, false, err
	}
	if err != nil {
		return nil, false, err
	}
	return user, true, nil
}

func (s *AccountService) FindByUsername(username string) (*models.User, error) {
	return s.userRepo.FindByUsername(username)
}

func (s *AccountService) FindByID(id uint) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// Verify returns the user when password matches, ErrInvalidCredentials
// otherwise. Legacy digests are replaced by a bcrypt hash on success.
func (s *AccountService) Verify(username, password string) (*models.User, error) {
	user, err := s.userRepo.FindByUsername(strings.TrimSpace(username))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	ok, upgrade := auth.CheckPassword(password, user.PasswordHash)
	if !ok {
		return nil, ErrInvalidCredentials
	}

	if upgrade {
		if hash, err := auth.HashPassword(password); err == nil {
			if err := s.userRepo.UpdatePasswordHash(user.ID, hash); err != nil {
				s.logger.Warn("failed to upgrade legacy password hash", "user_id", user.ID, "error", err)
			} else {
				user.PasswordHash = hash
			}
		}
	}

	return user, nil
}

// SeedDemoUsers creates the demo accounts user1 and user2 if missing.
func (s *AccountService) SeedDemoUsers() error {
	for _, demo := range []struct{ username, password string }{
		{"user1", "password1"},
		{"user2", "password2"},
	} {
		_, created, err := s.EnsureUser(demo.username, demo.password)
		if err != nil {
			return err
		}
		if created {
			s.logger.Info("demo user seeded", "username", demo.username)
		}
	}
	return nil
}
