package services

import (
	"context"
	"errors"
	"regexp"
	"time"
	"unicode"

	"storefront/internal/domain"
	"storefront/internal/repository"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

type AccountService struct {
	users repository.UserRepository
}

func NewAccountService(users repository.UserRepository) *AccountService {
	return &AccountService{users: users}
}

// Register validates the registration form, checks username and email
// uniqueness and stores the new account with a bcrypt password hash.
func (s *AccountService) Register(ctx context.Context, username, email, password, confirmPassword string) (*domain.User, error) {
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if !emailPattern.MatchString(email) {
		return nil, &domain.ValidationError{Field: "email", Message: "invalid email address"}
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	if password != confirmPassword {
		return nil, &domain.ValidationError{Field: "confirmPassword", Message: "passwords do not match"}
	}

	existing, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, &domain.ConflictError{Field: "username", Message: "username already exists"}
	}

	existing, err = s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, &domain.ConflictError{Field: "email", Message: "email already registered"}
	}

	var pw domain.Password
	if err := pw.Set(password); err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: pw.Hash,
		CreatedAt:    time.Now(),
		IsActive:     true,
	}

	if err := s.users.Create(ctx, user); err != nil {
		// Losing the uniqueness race at insert time is still a conflict,
		// not a store failure.
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, &domain.ConflictError{Field: "username", Message: "username or email already registered"}
		}
		return nil, err
	}

	return user, nil
}

// Login verifies the credentials and stamps the last-login time. Unknown
// usernames and wrong passwords fail identically.
func (s *AccountService) Login(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrInvalidCredentials
	}

	pw := domain.Password{Hash: user.PasswordHash}
	match, err := pw.Matches(password)
	if err != nil {
		return nil, err
	}
	if !match {
		return nil, domain.ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, domain.ErrAccountDeactivated
	}

	now := time.Now()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, err
	}
	user.LastLoginAt = &now

	return user, nil
}

// Deactivate flips the account's active flag off. Deactivated accounts keep
// their rows and order history but can no longer log in.
func (s *AccountService) Deactivate(ctx context.Context, userID uint64) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUserNotFound
	}
	return s.users.SetActive(ctx, userID, false)
}

func validateUsername(username string) error {
	if len(username) < 3 || len(username) > 50 {
		return &domain.ValidationError{Field: "username", Message: "username must be between 3 and 50 characters"}
	}
	return nil
}

// validatePassword enforces the registration password policy: at least six
// characters with an upper-case letter, a lower-case letter, a digit and a
// special character.
func validatePassword(password string) error {
	if len(password) < 6 {
		return &domain.ValidationError{Field: "password", Message: "password must be at least 6 characters"}
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSpecial = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit || !hasSpecial {
		return &domain.ValidationError{
			Field:   "password",
			Message: "password must contain an uppercase letter, a lowercase letter, a number and a special character",
		}
	}
	return nil
}
