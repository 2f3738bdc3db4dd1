package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/portalnorte/noticias-backend/internal/domain/entity"
	repo "github.com/portalnorte/noticias-backend/internal/domain/repository"
	"github.com/portalnorte/noticias-backend/internal/infrastructure/postgres"
	"github.com/portalnorte/noticias-backend/internal/verification"
	"github.com/portalnorte/noticias-backend/pkg/helpers"
	"github.com/portalnorte/noticias-backend/pkg/mailer"
)

const (
	minAge = 13
	maxAge = 120
)

// AuthService orchestrates the account lifecycle: register, email-code
// verification, login, and password reset. Each user moves through
// unregistered -> pending verification -> verified; reset is a side channel
// that never changes that state.
type AuthService struct {
	Users      repo.UserRepository
	Codes      *verification.Registry
	Notifier   mailer.Notifier
	JWT        *helpers.JWTManager
	Logger     *logrus.Logger
	AdminEmail string
}

func NewAuthService(users repo.UserRepository, codes *verification.Registry, notifier mailer.Notifier, jwt *helpers.JWTManager, logger *logrus.Logger, adminEmail string) *AuthService {
	return &AuthService{
		Users:      users,
		Codes:      codes,
		Notifier:   notifier,
		JWT:        jwt,
		Logger:     logger,
		AdminEmail: entity.NormalizeEmail(adminEmail),
	}
}

// RegisterInput carries the registration payload after HTTP binding.
type RegisterInput struct {
	Name     string
	Email    string
	Age      int
	Password string
}

// CodeDelivery reports how a verification or reset code went out. When the
// notifier runs in simulated mode the code is echoed back so the flow can be
// exercised without a mail transport; it is never set otherwise.
type CodeDelivery struct {
	Simulated     bool
	SimulatedCode string
	Delivered     bool
}

// TokenResult is an issued session token with its claims summary.
type TokenResult struct {
	Token     string
	ExpiresAt time.Time
	UserID    string
	Email     string
	Admin     bool
}

// Register creates an unverified account and sends a signup code. The admin
// role is granted only when the email matches the configured administrator
// identity; it can never be self-escalated later.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*CodeDelivery, error) {
	if in.Age < minAge || in.Age > maxAge {
		return nil, ErrInvalidAge
	}
	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	email := entity.NormalizeEmail(in.Email)
	u := &entity.User{
		Email:        email,
		Name:         in.Name,
		Age:          in.Age,
		PasswordHash: hash,
		Verified:     false,
		IsAdmin:      email == s.AdminEmail,
	}
	if err := s.Users.Create(ctx, u); err != nil {
		if errors.Is(err, postgres.ErrDuplicateEmail) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	return s.sendCode(ctx, email, verification.PurposeSignup)
}

// ResendCode re-issues a signup code, overwriting any unexpired prior one.
func (s *AuthService) ResendCode(ctx context.Context, email string) (*CodeDelivery, error) {
	if _, err := s.getUser(ctx, email); err != nil {
		return nil, err
	}
	return s.sendCode(ctx, email, verification.PurposeSignup)
}

// VerifyCode consumes a signup code and flips the verified flag. A wrong,
// expired, or never-issued code all fail the same way.
func (s *AuthService) VerifyCode(ctx context.Context, email, code string) error {
	email = entity.NormalizeEmail(email)
	if err := s.Codes.Consume(email, verification.PurposeSignup, code); err != nil {
		return ErrInvalidOrExpiredCode
	}
	return s.Users.SetVerified(ctx, email)
}

// Login authenticates and issues a session token carrying the persisted role.
func (s *AuthService) Login(ctx context.Context, email, password string) (*TokenResult, error) {
	u, err := s.authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if !u.Verified {
		return nil, ErrNotVerified
	}
	return s.issueToken(u)
}

// AdminLogin is Login plus the administrator gate: correct credentials for
// any non-admin account still fail.
func (s *AuthService) AdminLogin(ctx context.Context, email, password string) (*TokenResult, error) {
	u, err := s.authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if !u.IsAdmin {
		return nil, ErrAccessDenied
	}
	return s.issueToken(u)
}

// RequestPasswordReset issues a reset code for an existing account.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) (*CodeDelivery, error) {
	if _, err := s.getUser(ctx, email); err != nil {
		return nil, err
	}
	return s.sendCode(ctx, email, verification.PurposeReset)
}

// ResetPassword consumes a reset code and replaces the stored secret.
func (s *AuthService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	email = entity.NormalizeEmail(email)
	if err := s.Codes.Consume(email, verification.PurposeReset, code); err != nil {
		return ErrInvalidOrExpiredCode
	}
	hash, err := helpers.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.Users.UpdatePassword(ctx, email, hash)
}

// EnsureAdmin creates the pre-verified administrator account on first run.
func (s *AuthService) EnsureAdmin(ctx context.Context, name, password string) error {
	_, err := s.Users.GetByEmail(ctx, s.AdminEmail)
	if err == nil {
		return nil
	}
	if !errors.Is(err, postgres.ErrNotFound) {
		return err
	}
	hash, err := helpers.HashPassword(password)
	if err != nil {
		return err
	}
	u := &entity.User{
		Email:        s.AdminEmail,
		Name:         name,
		Age:          maxAge,
		PasswordHash: hash,
		Verified:     true,
		IsAdmin:      true,
	}
	if err := s.Users.Create(ctx, u); err != nil {
		// Lost a race against a concurrent bootstrap; the account exists.
		if errors.Is(err, postgres.ErrDuplicateEmail) {
			return nil
		}
		return err
	}
	if s.Logger != nil {
		s.Logger.WithField("email", s.AdminEmail).Info("administrator account bootstrapped")
	}
	return nil
}

func (s *AuthService) authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	u, err := s.Users.GetByEmail(ctx, entity.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !helpers.CompareHashAndPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

func (s *AuthService) getUser(ctx context.Context, email string) (*entity.User, error) {
	u, err := s.Users.GetByEmail(ctx, entity.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, postgres.ErrNotFound) {
			return nil, ErrUnknownEmail
		}
		return nil, err
	}
	return u, nil
}

func (s *AuthService) issueToken(u *entity.User) (*TokenResult, error) {
	token, exp, err := s.JWT.Generate(u.ID, u.Email, u.IsAdmin)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate session token failed")
		}
		return nil, err
	}
	return &TokenResult{Token: token, ExpiresAt: exp, UserID: u.ID, Email: u.Email, Admin: u.IsAdmin}, nil
}

func (s *AuthService) sendCode(ctx context.Context, email string, purpose verification.Purpose) (*CodeDelivery, error) {
	code, exp, err := s.Codes.Issue(email, purpose)
	if err != nil {
		return nil, err
	}

	subject := "Your verification code"
	if purpose == verification.PurposeReset {
		subject = "Your password reset code"
	}
	body := fmt.Sprintf("Your code is %s. It expires at %s.", code, exp.Format(time.RFC1123))

	simulated, err := s.Notifier.Send(ctx, email, subject, body)
	if err != nil {
		// The code stays valid; the client can request a resend. The flow
		// itself must not fail on a notifier outage.
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("email", email).Warn("code delivery failed")
		}
		return &CodeDelivery{Delivered: false}, nil
	}
	if simulated {
		return &CodeDelivery{Simulated: true, SimulatedCode: code}, nil
	}
	return &CodeDelivery{Delivered: true}, nil
}
