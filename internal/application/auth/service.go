// Package auth implements login, registration, email verification and
// profile management against the customer service.
package auth

import (
	"context"
	"net/mail"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/ecomm/storefront/internal/application/session"
	"github.com/ecomm/storefront/internal/domain/customer"
	"github.com/ecomm/storefront/internal/domain/shared"
	"github.com/ecomm/storefront/internal/infrastructure/gateway"
	"github.com/ecomm/storefront/internal/notify"
)

// User-facing validation messages
const (
	MsgEmailRequired     = "Please enter a valid email address"
	MsgPasswordTooShort  = "Password must be at least 8 characters long"
	MsgPasswordsMismatch = "Passwords do not match"
	MsgLoginFailed       = "Login failed. Please check your credentials."
	MsgRegisterFailed    = "Registration failed. Please try again."
)

const minPasswordLength = 8

// Credentials is a login request
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is a sign-up request. ConfirmPassword is checked
// locally and never sent upstream.
type Registration struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"-"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Phone           string `json:"phone,omitempty"`
}

// Result is the outcome of a login or registration attempt. Exactly
// one of the three shapes holds: a session was established, email
// verification is pending for Email, or the attempt failed with
// Message.
type Result struct {
	Session              *customer.Session
	VerificationRequired bool
	Email                string
	Message              string
}

// Succeeded reports whether a session was established
func (r *Result) Succeeded() bool {
	return r.Session != nil
}

// authResponse is the customer service's auth payload
type authResponse struct {
	Token                string             `json:"token"`
	Customer             *customer.Customer `json:"customer"`
	Message              string             `json:"message"`
	VerificationRequired bool               `json:"verification_required"`
	Email                string             `json:"email"`
	Valid                bool               `json:"valid"`
}

// Service orchestrates authentication flows
type Service struct {
	customers *gateway.Client
	sessions  *session.Manager
	notifier  *notify.Center
	log       *zap.Logger

	loginBusy    atomic.Bool
	registerBusy atomic.Bool
}

// NewService creates an auth service
func NewService(customers *gateway.Client, sessions *session.Manager, notifier *notify.Center, log *zap.Logger) *Service {
	return &Service{
		customers: customers,
		sessions:  sessions,
		notifier:  notifier,
		log:       log,
	}
}

// Login authenticates the customer and establishes a session. While a
// login is in flight further attempts are rejected.
func (s *Service) Login(ctx context.Context, creds Credentials) (*Result, error) {
	if !s.loginBusy.CompareAndSwap(false, true) {
		return nil, shared.ErrSubmitInFlight
	}
	defer s.loginBusy.Store(false)

	creds.Email = strings.TrimSpace(creds.Email)
	if !validEmail(creds.Email) {
		return &Result{Message: MsgEmailRequired}, nil
	}
	if creds.Password == "" {
		return &Result{Message: MsgLoginFailed}, nil
	}

	env := s.customers.Post(ctx, "/login", creds)
	return s.resolveAuth(ctx, env, MsgLoginFailed)
}

// Register creates an account. Depending on upstream policy the
// response either carries a session or asks for email verification.
func (s *Service) Register(ctx context.Context, reg Registration) (*Result, error) {
	if !s.registerBusy.CompareAndSwap(false, true) {
		return nil, shared.ErrSubmitInFlight
	}
	defer s.registerBusy.Store(false)

	reg.Email = strings.TrimSpace(reg.Email)
	if !validEmail(reg.Email) {
		return &Result{Message: MsgEmailRequired}, nil
	}
	if len(reg.Password) < minPasswordLength {
		return &Result{Message: MsgPasswordTooShort}, nil
	}
	if reg.Password != reg.ConfirmPassword {
		return &Result{Message: MsgPasswordsMismatch}, nil
	}

	env := s.customers.Post(ctx, "/register", reg)
	return s.resolveAuth(ctx, env, MsgRegisterFailed)
}

// resolveAuth maps an upstream auth envelope onto the three-outcome
// result shape
func (s *Service) resolveAuth(ctx context.Context, env *gateway.Envelope, fallback string) (*Result, error) {
	var resp authResponse
	if err := env.Decode(&resp); err != nil {
		s.log.Warn("unreadable auth response", zap.Error(err))
	}

	if resp.VerificationRequired {
		return &Result{VerificationRequired: true, Email: resp.Email}, nil
	}

	if env.Succeeded() && resp.Token != "" && resp.Customer != nil {
		if err := s.sessions.Establish(ctx, resp.Token, *resp.Customer); err != nil {
			return nil, err
		}
		return &Result{Session: &customer.Session{Token: resp.Token, Customer: *resp.Customer}}, nil
	}

	msg := firstNonEmpty(resp.Message, env.Message, fallback)
	return &Result{Message: msg}, nil
}

// VerifyEmail redeems an emailed verification token
func (s *Service) VerifyEmail(ctx context.Context, token string) error {
	if token == "" {
		return shared.ErrInvalidInput
	}
	env := s.customers.Get(ctx, "/verify-email?token="+token)
	if !env.Succeeded() {
		if env.Message != "" {
			return shared.NewDomainError("VERIFY_FAILED", env.Message)
		}
		return shared.ErrUpstreamFailure
	}
	s.notifier.Notify("Email verified. You can now log in.", notify.KindSuccess)
	return nil
}

// ResendVerification asks for a fresh verification email
func (s *Service) ResendVerification(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if !validEmail(email) {
		return shared.NewDomainError("INVALID_INPUT", MsgEmailRequired)
	}
	env := s.customers.Post(ctx, "/resend-verification", map[string]string{"email": email})
	if !env.Succeeded() {
		if env.Message != "" {
			return shared.NewDomainError("RESEND_FAILED", env.Message)
		}
		return shared.ErrUpstreamFailure
	}
	s.notifier.Notify("Verification email sent.", notify.KindInfo)
	return nil
}

// ValidateToken checks the stored session token against the customer
// service, refreshing the profile snapshot when valid and clearing the
// session when not
func (s *Service) ValidateToken(ctx context.Context) (*customer.Session, error) {
	current, err := s.sessions.Current(ctx)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, nil
	}

	env := s.customers.Get(ctx, "/validate-token")
	var resp authResponse
	if err := env.Decode(&resp); err != nil {
		s.log.Warn("unreadable validate-token response", zap.Error(err))
	}

	if !env.Succeeded() || !resp.Valid {
		s.log.Info("stored token rejected upstream, clearing session")
		if err := s.sessions.Clear(ctx); err != nil {
			s.log.Error("failed to clear session", zap.Error(err))
		}
		return nil, nil
	}

	if resp.Customer != nil {
		if err := s.sessions.UpdateProfile(ctx, *resp.Customer); err != nil {
			s.log.Warn("failed to refresh profile snapshot", zap.Error(err))
		}
		return &customer.Session{Token: current.Token, Customer: *resp.Customer}, nil
	}
	return current, nil
}

// UpdateProfile pushes profile edits upstream and refreshes the local
// snapshot
func (s *Service) UpdateProfile(ctx context.Context, c customer.Customer) error {
	if _, err := s.requireSession(ctx); err != nil {
		return err
	}
	env := s.customers.Put(ctx, "/profile", c)
	if !env.Succeeded() {
		if env.Message != "" {
			return shared.NewDomainError("PROFILE_UPDATE_FAILED", env.Message)
		}
		return shared.ErrUpstreamFailure
	}

	var resp authResponse
	if err := env.Decode(&resp); err == nil && resp.Customer != nil {
		c = *resp.Customer
	}
	if err := s.sessions.UpdateProfile(ctx, c); err != nil {
		return err
	}
	s.notifier.Notify("Profile updated successfully", notify.KindSuccess)
	return nil
}

// ChangePassword updates the account password
func (s *Service) ChangePassword(ctx context.Context, current, next, confirm string) error {
	if _, err := s.requireSession(ctx); err != nil {
		return err
	}
	if len(next) < minPasswordLength {
		return shared.NewDomainError("INVALID_INPUT", MsgPasswordTooShort)
	}
	if next != confirm {
		return shared.NewDomainError("INVALID_INPUT", MsgPasswordsMismatch)
	}
	env := s.customers.Post(ctx, "/change-password", map[string]string{
		"current_password": current,
		"new_password":     next,
	})
	if !env.Succeeded() {
		if env.Message != "" {
			return shared.NewDomainError("PASSWORD_CHANGE_FAILED", env.Message)
		}
		return shared.ErrUpstreamFailure
	}
	s.notifier.Notify("Password changed successfully", notify.KindSuccess)
	return nil
}

// Logout tells the customer service goodbye and clears the local
// session. The upstream call is best-effort: the session is cleared
// even when it fails.
func (s *Service) Logout(ctx context.Context) error {
	env := s.customers.Post(ctx, "/logout", nil)
	if !env.Succeeded() {
		s.log.Warn("logout call failed, clearing session anyway",
			zap.String("message", env.Message))
	}
	if err := s.sessions.Clear(ctx); err != nil {
		return err
	}
	s.notifier.Notify("You have been logged out", notify.KindInfo)
	return nil
}

// Session returns the currently persisted session, if any
func (s *Service) Session(ctx context.Context) (*customer.Session, error) {
	return s.sessions.Current(ctx)
}

func (s *Service) requireSession(ctx context.Context) (*customer.Session, error) {
	current, err := s.sessions.Current(ctx)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, shared.ErrSessionRequired
	}
	return current, nil
}

func validEmail(email string) bool {
	if email == "" {
		return false
	}
	_, err := mail.ParseAddress(email)
	return err == nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
