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

	"github.com/vbbs/blood-bank-api/internal/models"
	appErrors "github.com/vbbs/blood-bank-api/pkg/errors"
)

type mockDonorRepo struct {
	items      map[string]*models.Donor
	emailIndex map[string]string
}

func (m *mockDonorRepo) Create(ctx context.Context, donor *models.Donor) error {
	if m.items == nil {
		m.items = make(map[string]*models.Donor)
	}
	if m.emailIndex == nil {
		m.emailIndex = make(map[string]string)
	}
	if donor.ID == "" {
		donor.ID = "generated"
	}
	donor.CreatedAt = time.Now().UTC()
	cp := *donor
	m.items[donor.ID] = &cp
	m.emailIndex[donor.Email] = donor.ID
	return nil
}

func (m *mockDonorRepo) FindByID(ctx context.Context, id string) (*models.Donor, error) {
	if donor, ok := m.items[id]; ok {
		cp := *donor
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockDonorRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, ok := m.emailIndex[email]
	return ok, nil
}

func (m *mockDonorRepo) List(ctx context.Context) ([]models.Donor, error) {
	var out []models.Donor
	for _, donor := range m.items {
		out = append(out, *donor)
	}
	return out, nil
}

func (m *mockDonorRepo) ListByGroup(ctx context.Context, group models.BloodGroup) ([]models.Donor, error) {
	var out []models.Donor
	for _, donor := range m.items {
		if donor.BloodGroup == group {
			out = append(out, *donor)
		}
	}
	return out, nil
}

func (m *mockDonorRepo) UpdateAvailability(ctx context.Context, id string, available bool, lastDonation *time.Time) (*models.Donor, error) {
	donor, ok := m.items[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	donor.Available = available
	if lastDonation != nil {
		donor.LastDonationDate = lastDonation
	}
	cp := *donor
	return &cp, nil
}

func validDonorRequest() RegisterDonorRequest {
	return RegisterDonorRequest{
		Name:       "Donor One",
		Email:      "donor@example.com",
		Password:   "password123",
		Phone:      "1234567890",
		BloodGroup: models.GroupAPositive,
		City:       "Oslo",
	}
}

func TestDonorServiceRegister(t *testing.T) {
	repo := &mockDonorRepo{}
	svc := NewDonorService(repo, validator.New(), zap.NewNop())

	donor, err := svc.Register(context.Background(), validDonorRequest())
	require.NoError(t, err)
	assert.True(t, donor.Available)
	assert.NotEmpty(t, donor.PasswordHash)
	assert.NotEqual(t, "password123", donor.PasswordHash)
	assert.Len(t, repo.items, 1)
}

func TestDonorServiceRegisterDuplicateEmail(t *testing.T) {
	repo := &mockDonorRepo{emailIndex: map[string]string{"donor@example.com": "d1"}}
	svc := NewDonorService(repo, validator.New(), zap.NewNop())

	_, err := svc.Register(context.Background(), validDonorRequest())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, errorCode(t, err))
}

func TestDonorServiceRegisterInvalidPayload(t *testing.T) {
	svc := NewDonorService(&mockDonorRepo{}, validator.New(), zap.NewNop())

	req := validDonorRequest()
	req.Email = "not-an-email"
	_, err := svc.Register(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, errorCode(t, err))
}

func TestDonorServiceListByGroup(t *testing.T) {
	repo := &mockDonorRepo{items: map[string]*models.Donor{
		"d1": {ID: "d1", BloodGroup: models.GroupAPositive},
		"d2": {ID: "d2", BloodGroup: models.GroupONegative},
	}}
	svc := NewDonorService(repo, validator.New(), zap.NewNop())

	donors, err := svc.ListByGroup(context.Background(), models.GroupAPositive)
	require.NoError(t, err)
	assert.Len(t, donors, 1)
}

func TestDonorServiceListByGroupInvalid(t *testing.T) {
	svc := NewDonorService(&mockDonorRepo{}, validator.New(), zap.NewNop())

	_, err := svc.ListByGroup(context.Background(), "Z+")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, errorCode(t, err))
}

func TestDonorServiceSetAvailabilityCooldownActive(t *testing.T) {
	repo := &mockDonorRepo{items: map[string]*models.Donor{
		"d1": {ID: "d1", BloodGroup: models.GroupAPositive},
	}}
	svc := NewDonorService(repo, validator.New(), zap.NewNop())

	now := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	recent := now.Add(-30 * 24 * time.Hour)
	_, err := svc.SetAvailability(context.Background(), "d1", SetAvailabilityRequest{
		Available:        true,
		LastDonationDate: &recent,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidState.Code, errorCode(t, err))
	assert.False(t, repo.items["d1"].Available)
}

func TestDonorServiceSetAvailabilityCooldownElapsed(t *testing.T) {
	repo := &mockDonorRepo{items: map[string]*models.Donor{
		"d1": {ID: "d1", BloodGroup: models.GroupAPositive},
	}}
	svc := NewDonorService(repo, validator.New(), zap.NewNop())

	now := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	old := now.Add(-91 * 24 * time.Hour)
	donor, err := svc.SetAvailability(context.Background(), "d1", SetAvailabilityRequest{
		Available:        true,
		LastDonationDate: &old,
	})
	require.NoError(t, err)
	assert.True(t, donor.Available)
}

func TestDonorServiceSetAvailabilityExactBoundary(t *testing.T) {
	repo := &mockDonorRepo{items: map[string]*models.Donor{
		"d1": {ID: "d1", BloodGroup: models.GroupAPositive},
	}}
	svc := NewDonorService(repo, validator.New(), zap.NewNop())

	now := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	// Exactly 90 days ago is not after the cutoff, so it passes.
	boundary := now.Add(-donationCooldown)
	donor, err := svc.SetAvailability(context.Background(), "d1", SetAvailabilityRequest{
		Available:        true,
		LastDonationDate: &boundary,
	})
	require.NoError(t, err)
	assert.True(t, donor.Available)
}

func TestDonorServiceSetAvailabilityUnavailableSkipsCooldown(t *testing.T) {
	repo := &mockDonorRepo{items: map[string]*models.Donor{
		"d1": {ID: "d1", BloodGroup: models.GroupAPositive, Available: true},
	}}
	svc := NewDonorService(repo, validator.New(), zap.NewNop())

	recent := time.Now().UTC().Add(-24 * time.Hour)
	donor, err := svc.SetAvailability(context.Background(), "d1", SetAvailabilityRequest{
		Available:        false,
		LastDonationDate: &recent,
	})
	require.NoError(t, err)
	assert.False(t, donor.Available)
	require.NotNil(t, donor.LastDonationDate)
	assert.Equal(t, recent, *donor.LastDonationDate)
}

func TestDonorServiceSetAvailabilityNotFound(t *testing.T) {
	svc := NewDonorService(&mockDonorRepo{}, validator.New(), zap.NewNop())

	_, err := svc.SetAvailability(context.Background(), "missing", SetAvailabilityRequest{Available: true})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, errorCode(t, err))
}
