package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/vbbs/blood-bank-api/internal/models"
	appErrors "github.com/vbbs/blood-bank-api/pkg/errors"
)

type mockAdminLookup struct {
	admins map[string]*models.Admin
}

func (m *mockAdminLookup) FindByUsername(ctx context.Context, username string) (*models.Admin, error) {
	if admin, ok := m.admins[username]; ok {
		cp := *admin
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

type mockDonorLookup struct {
	donors map[string]*models.Donor
}

func (m *mockDonorLookup) FindByEmail(ctx context.Context, email string) (*models.Donor, error) {
	if donor, ok := m.donors[email]; ok {
		cp := *donor
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func newAuthService(admins *mockAdminLookup, donors *mockDonorLookup) *AuthService {
	return NewAuthService(admins, donors, validator.New(), zap.NewNop(), AuthConfig{
		Secret:     "test-secret",
		Expiration: time.Hour,
		Issuer:     "blood-bank-api",
	})
}

func TestResolvePrincipalAdminWinsOverDonor(t *testing.T) {
	admins := &mockAdminLookup{admins: map[string]*models.Admin{
		"shared": {ID: "a1", Username: "shared", PasswordHash: "admin-hash"},
	}}
	donors := &mockDonorLookup{donors: map[string]*models.Donor{
		"shared": {ID: "d1", Name: "Donor", Email: "shared", PasswordHash: "donor-hash"},
	}}
	svc := newAuthService(admins, donors)

	principal, err := svc.ResolvePrincipal(context.Background(), "shared")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, principal.Role)
	assert.Equal(t, "a1", principal.ID)
}

func TestResolvePrincipalDonorByEmail(t *testing.T) {
	admins := &mockAdminLookup{}
	donors := &mockDonorLookup{donors: map[string]*models.Donor{
		"donor@example.com": {ID: "d1", Name: "Donor One", Email: "donor@example.com", PasswordHash: "hash"},
	}}
	svc := newAuthService(admins, donors)

	principal, err := svc.ResolvePrincipal(context.Background(), "donor@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleDonor, principal.Role)
	assert.Equal(t, "Donor One", principal.DisplayName)
}

func TestResolvePrincipalNotFound(t *testing.T) {
	svc := newAuthService(&mockAdminLookup{}, &mockDonorLookup{})

	_, err := svc.ResolvePrincipal(context.Background(), "ghost")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, errorCode(t, err))
}

func TestLoginIssuesValidToken(t *testing.T) {
	admins := &mockAdminLookup{admins: map[string]*models.Admin{
		"admin": {ID: "a1", Username: "admin", PasswordHash: hashPassword(t, "admin123")},
	}}
	svc := newAuthService(admins, &mockDonorLookup{})

	resp, err := svc.Login(context.Background(), models.LoginRequest{Identifier: "admin", Password: "admin123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, int64(3600), resp.ExpiresIn)
	assert.Equal(t, models.RoleAdmin, resp.Principal.Role)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "a1", claims.PrincipalID)
	assert.Equal(t, models.RoleAdmin, claims.Role)
}

func TestLoginWrongPassword(t *testing.T) {
	admins := &mockAdminLookup{admins: map[string]*models.Admin{
		"admin": {ID: "a1", Username: "admin", PasswordHash: hashPassword(t, "admin123")},
	}}
	svc := newAuthService(admins, &mockDonorLookup{})

	_, err := svc.Login(context.Background(), models.LoginRequest{Identifier: "admin", Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, errorCode(t, err))
}

func TestLoginUnknownIdentifierMasksNotFound(t *testing.T) {
	svc := newAuthService(&mockAdminLookup{}, &mockDonorLookup{})

	_, err := svc.Login(context.Background(), models.LoginRequest{Identifier: "ghost", Password: "whatever"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, errorCode(t, err))
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	admins := &mockAdminLookup{admins: map[string]*models.Admin{
		"admin": {ID: "a1", Username: "admin", PasswordHash: hashPassword(t, "admin123")},
	}}
	svc := newAuthService(admins, &mockDonorLookup{})

	resp, err := svc.Login(context.Background(), models.LoginRequest{Identifier: "admin", Password: "admin123"})
	require.NoError(t, err)

	other := NewAuthService(admins, &mockDonorLookup{}, validator.New(), zap.NewNop(), AuthConfig{
		Secret:     "different-secret",
		Expiration: time.Hour,
	})
	_, err = other.ValidateToken(resp.AccessToken)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, errorCode(t, err))
}

func TestValidateTokenGarbage(t *testing.T) {
	svc := newAuthService(&mockAdminLookup{}, &mockDonorLookup{})

	_, err := svc.ValidateToken("not.a.token")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, errorCode(t, err))
}
