// Package auth is the only producer of a valid local session: it exchanges
// credentials with the backend and records the login on success.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/stockbox/stockbox-admin/internal/session"
	"github.com/stockbox/stockbox-admin/pkg/client"
	"github.com/stockbox/stockbox-admin/pkg/domain"
)

var (
	// ErrMissingFields is returned before any request when email or password is empty.
	ErrMissingFields = errors.New("please fill in all fields")
	// ErrLoginFailed is the generic failure shown to the operator.
	ErrLoginFailed = errors.New("login failed, please try again")
	// ErrLogoutFailed is returned when the backend does not confirm the logout.
	ErrLogoutFailed = errors.New("logout failed, please try again")
)

// Credentials are what the operator types on the login screen.
type Credentials struct {
	Email      string `validate:"required"`
	Password   string `validate:"required"`
	RememberMe bool
}

// Backend is the part of the API client the flow needs.
type Backend interface {
	Login(ctx context.Context, req client.LoginRequest) (*domain.StatusResponse, error)
	Logout(ctx context.Context) (*domain.StatusResponse, error)
}

// Flow performs login and logout against the backend and keeps the session
// store in step.
type Flow struct {
	backend  Backend
	store    *session.Store
	now      func() time.Time
	validate *validator.Validate
	log      zerolog.Logger
}

// NewFlow returns a login flow. now may be nil to use time.Now.
func NewFlow(backend Backend, store *session.Store, now func() time.Time, log zerolog.Logger) *Flow {
	if now == nil {
		now = time.Now
	}
	return &Flow{
		backend:  backend,
		store:    store,
		now:      now,
		validate: validator.New(),
		log:      log,
	}
}

// Login submits creds. Only a response with status "success" counts; it
// writes the session record stamped with the current time. Any other outcome
// is reported as ErrLoginFailed, wrapping the cause for logs.
func (f *Flow) Login(ctx context.Context, creds Credentials) error {
	if err := f.validate.Struct(creds); err != nil {
		return ErrMissingFields
	}

	res, err := f.backend.Login(ctx, client.LoginRequest{
		Email:      creds.Email,
		Password:   creds.Password,
		RememberMe: creds.RememberMe,
	})
	if err != nil {
		f.log.Info().Err(err).Str("email", creds.Email).Msg("login rejected")
		return fmt.Errorf("%w: %w", ErrLoginFailed, err)
	}
	if !res.OK() {
		f.log.Info().Str("status", res.Status).Str("email", creds.Email).Msg("login not successful")
		return ErrLoginFailed
	}

	if err := f.store.Write(f.now()); err != nil {
		return fmt.Errorf("auth.Login: %w", err)
	}
	f.log.Info().Str("email", creds.Email).Msg("logged in")
	return nil
}

// Logout ends the server session and, once the backend confirms, clears the
// local record.
func (f *Flow) Logout(ctx context.Context) error {
	res, err := f.backend.Logout(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLogoutFailed, err)
	}
	if !res.OK() {
		return ErrLogoutFailed
	}
	if err := f.store.Clear(); err != nil {
		return fmt.Errorf("auth.Logout: %w", err)
	}
	f.log.Info().Msg("logged out")
	return nil
}
