package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/vbbs/blood-bank-api/internal/models"
	appErrors "github.com/vbbs/blood-bank-api/pkg/errors"
)

// donationCooldown is the minimum interval between a donation and the donor
// becoming available again. The boundary at exactly 90 days is permitted.
const donationCooldown = 90 * 24 * time.Hour

type donorRepository interface {
	Create(ctx context.Context, donor *models.Donor) error
	FindByID(ctx context.Context, id string) (*models.Donor, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	List(ctx context.Context) ([]models.Donor, error)
	ListByGroup(ctx context.Context, group models.BloodGroup) ([]models.Donor, error)
	UpdateAvailability(ctx context.Context, id string, available bool, lastDonation *time.Time) (*models.Donor, error)
}

// RegisterDonorRequest holds payload for donor registration.
type RegisterDonorRequest struct {
	Name       string            `json:"name" validate:"required"`
	Email      string            `json:"email" validate:"required,email"`
	Password   string            `json:"password" validate:"required,min=6"`
	Phone      string            `json:"phone" validate:"required"`
	BloodGroup models.BloodGroup `json:"blood_group" validate:"required,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
	City       string            `json:"city" validate:"required"`
}

// SetAvailabilityRequest holds payload for the availability update.
type SetAvailabilityRequest struct {
	Available        bool       `json:"available"`
	LastDonationDate *time.Time `json:"last_donation_date,omitempty"`
}

// DonorService handles donor directory use-cases.
type DonorService struct {
	repo      donorRepository
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewDonorService constructs the donor service.
func NewDonorService(repo donorRepository, validate *validator.Validate, logger *zap.Logger) *DonorService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DonorService{repo: repo, validator: validate, logger: logger, now: func() time.Time { return time.Now().UTC() }}
}

// Register creates a new donor account, available by default.
func (s *DonorService) Register(ctx context.Context, req RegisterDonorRequest) (*models.Donor, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid donor payload")
	}

	exists, err := s.repo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check donor email")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "email already in use")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	donor := &models.Donor{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Phone:        req.Phone,
		BloodGroup:   req.BloodGroup,
		City:         req.City,
		Available:    true,
	}
	if err := s.repo.Create(ctx, donor); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create donor")
	}

	s.logger.Info("donor registered",
		zap.String("donor_id", donor.ID),
		zap.String("blood_group", string(donor.BloodGroup)))
	return donor, nil
}

// List returns all donors.
func (s *DonorService) List(ctx context.Context) ([]models.Donor, error) {
	donors, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list donors")
	}
	return donors, nil
}

// ListByGroup returns donors of one blood group.
func (s *DonorService) ListByGroup(ctx context.Context, group models.BloodGroup) ([]models.Donor, error) {
	if !group.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid blood group")
	}
	donors, err := s.repo.ListByGroup(ctx, group)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list donors by group")
	}
	return donors, nil
}

// SetAvailability updates the availability flag, enforcing the 90-day
// donation cooldown when a donor tries to become available with a recent
// donation date.
func (s *DonorService) SetAvailability(ctx context.Context, id string, req SetAvailabilityRequest) (*models.Donor, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "donor not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load donor")
	}

	if req.Available && req.LastDonationDate != nil {
		cutoff := s.now().Add(-donationCooldown)
		if req.LastDonationDate.After(cutoff) {
			return nil, appErrors.Clone(appErrors.ErrInvalidState, "donation cooldown not elapsed: last donation was less than 90 days ago")
		}
	}

	donor, err := s.repo.UpdateAvailability(ctx, id, req.Available, req.LastDonationDate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "donor not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update availability")
	}

	s.logger.Info("donor availability updated",
		zap.String("donor_id", donor.ID),
		zap.Bool("available", donor.Available))
	return donor, nil
}
