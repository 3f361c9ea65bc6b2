package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hackernest/hackernest/models"
	"github.com/hackernest/hackernest/utils"
)

// Accounts implements registration and login rules: the blocked-email gate,
// unique username/email, restricted roles, and blocked-account login denial.
type Accounts struct {
	store AccountStore
}

// NewAccounts wires an Accounts service.
func NewAccounts(store AccountStore) *Accounts {
	return &Accounts{store: store}
}

// RegisterInput carries the registration payload after binding.
type RegisterInput struct {
	FirstName string
	LastName  string
	Username  string
	Email     string
	Password  string
	Role      string
}

// Register creates an account. Blocked emails are refused before any
// uniqueness checks run.
func (s *Accounts) Register(in RegisterInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	blocked, err := s.store.IsEmailBlocked(email)
	if err != nil {
		return nil, err
	}
	if blocked {
		return nil, fmt.Errorf("%w: this email address is not allowed to register", ErrBadRequest)
	}

	role := in.Role
	switch role {
	case "":
		role = models.RoleUser
	case models.RoleUser, models.RoleEmployer:
	default:
		return nil, fmt.Errorf("%w: invalid role", ErrBadRequest)
	}

	if _, err := s.store.UserByUsername(in.Username); err == nil {
		return nil, fmt.Errorf("%w: username already exists", ErrBadRequest)
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if _, err := s.store.UserByEmail(email); err == nil {
		return nil, fmt.Errorf("%w: email already exists", ErrBadRequest)
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	u := &models.User{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Username:  in.Username,
		Email:     email,
		Password:  hash,
		Role:      role,
	}
	if err := s.store.CreateUser(u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login validates credentials and denies blocked accounts. Credential
// failures are indistinguishable on purpose.
func (s *Accounts) Login(username, password string) (*models.User, error) {
	u, err := s.store.UserByUsername(username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid username or password", ErrBadRequest)
		}
		return nil, err
	}
	if u.IsBlocked {
		return nil, fmt.Errorf("%w: your account has been blocked, please contact support", ErrBadRequest)
	}
	if !utils.CheckPassword(u.Password, password) {
		return nil, fmt.Errorf("%w: invalid username or password", ErrBadRequest)
	}
	return u, nil
}

// IsUsernameTaken reports local username availability.
func (s *Accounts) IsUsernameTaken(username string) (bool, error) {
	if _, err := s.store.UserByUsername(username); err == nil {
		return true, nil
	} else if errors.Is(err, ErrNotFound) {
		return false, nil
	} else {
		return false, err
	}
}
