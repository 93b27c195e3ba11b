package services

import (
	"context"
	"errors"
	"strings"
	"yatube/internal/errs"
	"yatube/internal/models"

	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

// Accounts is the minimal identity provider behind signup and login.
type Accounts struct {
	store *Store
	cost  int
}

// NewAccounts creates the service. A zero cost means bcrypt.DefaultCost.
func NewAccounts(store *Store, cost int) *Accounts {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &Accounts{store: store, cost: cost}
}

// Register creates a user with a hashed password.
func (a *Accounts) Register(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, errs.NewValidationError("username", errs.UsernameRequired)
	}
	if len(password) < minPasswordLength {
		return nil, errs.NewValidationError("password", errs.PasswordTooShort)
	}

	if _, err := a.store.UserByUsername(ctx, username); err == nil {
		return nil, errs.NewValidationError("username", errs.UsernameTaken)
	} else if !errors.Is(err, errs.NotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.cost)
	if err != nil {
		return nil, err
	}
	user := &models.User{Username: username, Password: string(hash)}
	if err := a.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate returns the user when username and password match.
func (a *Accounts) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := a.store.UserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, errs.NotFound) {
			return nil, errs.NewValidationError("username", errs.InvalidCredentials)
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, errs.NewValidationError("username", errs.InvalidCredentials)
	}
	return user, nil
}
