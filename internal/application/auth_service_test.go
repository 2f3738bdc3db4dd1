package application

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/portalnorte/noticias-backend/internal/domain/entity"
	"github.com/portalnorte/noticias-backend/internal/infrastructure/postgres"
	"github.com/portalnorte/noticias-backend/internal/verification"
	"github.com/portalnorte/noticias-backend/pkg/helpers"
	"github.com/portalnorte/noticias-backend/pkg/mailer"
)

// memUserRepo is an in-memory UserRepository that mirrors the postgres
// implementation's error contract.
type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User // keyed by email
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]*entity.User{}}
}

func (r *memUserRepo) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.Email]; ok {
		return postgres.ErrDuplicateEmail
	}
	u.ID = uuid.NewString()
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	r.users[u.Email] = &cp
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, postgres.ErrNotFound
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[email]
	if !ok {
		return nil, postgres.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) SetVerified(_ context.Context, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[email]
	if !ok {
		return postgres.ErrNotFound
	}
	u.Verified = true
	return nil
}

func (r *memUserRepo) UpdatePassword(_ context.Context, email, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[email]
	if !ok {
		return postgres.ErrNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (r *memUserRepo) List(_ context.Context) ([]*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*entity.User, 0, len(r.users))
	for _, u := range r.users {
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memUserRepo) Count(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.users)), nil
}

func newTestAuthService(adminEmail string) (*AuthService, *memUserRepo) {
	users := newMemUserRepo()
	svc := NewAuthService(
		users,
		verification.NewRegistry(5*time.Minute),
		&mailer.SimulatedNotifier{},
		helpers.NewJWTManager("test-secret", time.Hour),
		nil,
		adminEmail,
	)
	return svc, users
}

func TestRegisterVerifyLoginRoundTrip(t *testing.T) {
	svc, _ := newTestAuthService("admin@example.com")
	ctx := context.Background()

	delivery, err := svc.Register(ctx, RegisterInput{
		Name:     "Ana",
		Email:    "Ana@Example.com",
		Age:      28,
		Password: "s3cretpass",
	})
	require.NoError(t, err)
	require.True(t, delivery.Simulated)
	require.NotEmpty(t, delivery.SimulatedCode)

	// Login before verification must be rejected.
	_, err = svc.Login(ctx, "ana@example.com", "s3cretpass")
	assert.ErrorIs(t, err, ErrNotVerified)

	require.NoError(t, svc.VerifyCode(ctx, "ana@example.com", delivery.SimulatedCode))

	tok, err := svc.Login(ctx, "ana@example.com", "s3cretpass")
	require.NoError(t, err)
	assert.NotEmpty(t, tok.Token)
	assert.False(t, tok.Admin)

	claims, err := svc.JWT.Parse(tok.Token)
	require.NoError(t, err)
	assert.Equal(t, tok.UserID, claims.UserID)
	assert.Equal(t, "ana@example.com", claims.Email)
	assert.False(t, claims.Admin)
}

func TestRegisterRejectsInvalidAge(t *testing.T) {
	svc, _ := newTestAuthService("admin@example.com")
	ctx := context.Background()

	for _, age := range []int{0, 12, 121} {
		_, err := svc.Register(ctx, RegisterInput{Name: "x", Email: "kid@example.com", Age: age, Password: "password1"})
		assert.ErrorIs(t, err, ErrInvalidAge, "age %d", age)
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc, _ := newTestAuthService("admin@example.com")
	ctx := context.Background()

	in := RegisterInput{Name: "Ana", Email: "ana@example.com", Age: 30, Password: "s3cretpass"}
	_, err := svc.Register(ctx, in)
	require.NoError(t, err)

	// Same address with different casing collides too.
	in.Email = "ANA@example.com"
	_, err = svc.Register(ctx, in)
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestWrongCodeLeavesAccountUnverified(t *testing.T) {
	svc, users := newTestAuthService("admin@example.com")
	ctx := context.Background()

	delivery, err := svc.Register(ctx, RegisterInput{Name: "Ana", Email: "ana@example.com", Age: 30, Password: "s3cretpass"})
	require.NoError(t, err)

	wrong := "000000"
	if wrong == delivery.SimulatedCode {
		wrong = "000001"
	}
	assert.ErrorIs(t, svc.VerifyCode(ctx, "ana@example.com", wrong), ErrInvalidOrExpiredCode)

	u, err := users.GetByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.False(t, u.Verified)

	// The issued code is still valid after a wrong guess.
	require.NoError(t, svc.VerifyCode(ctx, "ana@example.com", delivery.SimulatedCode))
}

func TestCodeIsSingleUse(t *testing.T) {
	svc, _ := newTestAuthService("admin@example.com")
	ctx := context.Background()

	delivery, err := svc.Register(ctx, RegisterInput{Name: "Ana", Email: "ana@example.com", Age: 30, Password: "s3cretpass"})
	require.NoError(t, err)

	require.NoError(t, svc.VerifyCode(ctx, "ana@example.com", delivery.SimulatedCode))
	assert.ErrorIs(t, svc.VerifyCode(ctx, "ana@example.com", delivery.SimulatedCode), ErrInvalidOrExpiredCode)
}

func TestResendCodeInvalidatesPreviousCode(t *testing.T) {
	svc, _ := newTestAuthService("admin@example.com")
	ctx := context.Background()

	first, err := svc.Register(ctx, RegisterInput{Name: "Ana", Email: "ana@example.com", Age: 30, Password: "s3cretpass"})
	require.NoError(t, err)

	var second *CodeDelivery
	// GenCode may repeat; resend until the code actually changes.
	for i := 0; i < 50; i++ {
		second, err = svc.ResendCode(ctx, "ana@example.com")
		require.NoError(t, err)
		if second.SimulatedCode != first.SimulatedCode {
			break
		}
	}
	require.NotEqual(t, first.SimulatedCode, second.SimulatedCode)

	assert.ErrorIs(t, svc.VerifyCode(ctx, "ana@example.com", first.SimulatedCode), ErrInvalidOrExpiredCode)
	require.NoError(t, svc.VerifyCode(ctx, "ana@example.com", second.SimulatedCode))
}

func TestResendCodeUnknownEmail(t *testing.T) {
	svc, _ := newTestAuthService("admin@example.com")
	_, err := svc.ResendCode(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, ErrUnknownEmail)
}

func TestLoginInvalidCredentials(t *testing.T) {
	svc, _ := newTestAuthService("admin@example.com")
	ctx := context.Background()

	delivery, err := svc.Register(ctx, RegisterInput{Name: "Ana", Email: "ana@example.com", Age: 30, Password: "s3cretpass"})
	require.NoError(t, err)
	require.NoError(t, svc.VerifyCode(ctx, "ana@example.com", delivery.SimulatedCode))

	_, err = svc.Login(ctx, "ana@example.com", "wrongpass1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// Unknown accounts fail the same way, no enumeration.
	_, err = svc.Login(ctx, "nobody@example.com", "whatever12")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAdminLoginGate(t *testing.T) {
	svc, _ := newTestAuthService("admin@example.com")
	ctx := context.Background()

	require.NoError(t, svc.EnsureAdmin(ctx, "Admin", "adminpass1"))

	delivery, err := svc.Register(ctx, RegisterInput{Name: "Ana", Email: "ana@example.com", Age: 30, Password: "s3cretpass"})
	require.NoError(t, err)
	require.NoError(t, svc.VerifyCode(ctx, "ana@example.com", delivery.SimulatedCode))

	// Correct credentials on a standard account still fail the admin gate.
	_, err = svc.AdminLogin(ctx, "ana@example.com", "s3cretpass")
	assert.ErrorIs(t, err, ErrAccessDenied)

	tok, err := svc.AdminLogin(ctx, "admin@example.com", "adminpass1")
	require.NoError(t, err)
	assert.True(t, tok.Admin)
}

func TestEnsureAdminIsIdempotent(t *testing.T) {
	svc, users := newTestAuthService("admin@example.com")
	ctx := context.Background()

	require.NoError(t, svc.EnsureAdmin(ctx, "Admin", "adminpass1"))
	require.NoError(t, svc.EnsureAdmin(ctx, "Admin", "otherpass1"))

	n, err := users.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	// First password wins; the second call must not overwrite.
	_, err = svc.AdminLogin(ctx, "admin@example.com", "adminpass1")
	assert.NoError(t, err)
}

func TestPasswordResetFlow(t *testing.T) {
	svc, _ := newTestAuthService("admin@example.com")
	ctx := context.Background()

	delivery, err := svc.Register(ctx, RegisterInput{Name: "Ana", Email: "ana@example.com", Age: 30, Password: "oldpass123"})
	require.NoError(t, err)
	require.NoError(t, svc.VerifyCode(ctx, "ana@example.com", delivery.SimulatedCode))

	reset, err := svc.RequestPasswordReset(ctx, "ana@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, reset.SimulatedCode)

	require.NoError(t, svc.ResetPassword(ctx, "ana@example.com", reset.SimulatedCode, "newpass456"))

	_, err = svc.Login(ctx, "ana@example.com", "oldpass123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, "ana@example.com", "newpass456")
	assert.NoError(t, err)
}

func TestResetCodeDoesNotVerifyAccount(t *testing.T) {
	svc, users := newTestAuthService("admin@example.com")
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Name: "Ana", Email: "ana@example.com", Age: 30, Password: "oldpass123"})
	require.NoError(t, err)

	reset, err := svc.RequestPasswordReset(ctx, "ana@example.com")
	require.NoError(t, err)

	// A reset code is not interchangeable with a signup code.
	assert.ErrorIs(t, svc.VerifyCode(ctx, "ana@example.com", reset.SimulatedCode), ErrInvalidOrExpiredCode)

	require.NoError(t, svc.ResetPassword(ctx, "ana@example.com", reset.SimulatedCode, "newpass456"))

	u, err := users.GetByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.False(t, u.Verified)
}
