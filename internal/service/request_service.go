package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/vbbs/blood-bank-api/internal/models"
	"github.com/vbbs/blood-bank-api/internal/repository"
	appErrors "github.com/vbbs/blood-bank-api/pkg/errors"
)

type requestRepository interface {
	Create(ctx context.Context, req *models.BloodRequest) error
	List(ctx context.Context) ([]models.BloodRequest, error)
	Approve(ctx context.Context, id string) (*models.BloodRequest, *models.BloodInventory, error)
	Reject(ctx context.Context, id string) (*models.BloodRequest, error)
}

// SubmitRequestRequest holds payload for submitting a blood request.
type SubmitRequestRequest struct {
	PatientName   string            `json:"patient_name" validate:"required"`
	BloodGroup    models.BloodGroup `json:"blood_group" validate:"required,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
	UnitsRequired int               `json:"units_required" validate:"required,gt=0"`
	HospitalName  string            `json:"hospital_name" validate:"required"`
	City          string            `json:"city" validate:"required"`
}

// RequestService handles the request workflow use-cases.
type RequestService struct {
	repo      requestRepository
	metrics   stockGauge
	validator *validator.Validate
	logger    *zap.Logger
}

// NewRequestService constructs the request service. metrics may be nil.
func NewRequestService(repo requestRepository, metrics stockGauge, validate *validator.Validate, logger *zap.Logger) *RequestService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RequestService{repo: repo, metrics: metrics, validator: validate, logger: logger}
}

// Submit creates a new request in PENDING state.
func (s *RequestService) Submit(ctx context.Context, req SubmitRequestRequest) (*models.BloodRequest, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request payload")
	}

	request := &models.BloodRequest{
		PatientName:   req.PatientName,
		BloodGroup:    req.BloodGroup,
		UnitsRequired: req.UnitsRequired,
		HospitalName:  req.HospitalName,
		City:          req.City,
	}
	if err := s.repo.Create(ctx, request); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create request")
	}

	s.logger.Info("blood request submitted",
		zap.String("request_id", request.ID),
		zap.String("blood_group", string(request.BloodGroup)),
		zap.Int("units_required", request.UnitsRequired))
	return request, nil
}

// List returns all requests.
func (s *RequestService) List(ctx context.Context) ([]models.BloodRequest, error) {
	requests, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list requests")
	}
	return requests, nil
}

// Approve transitions a pending request to APPROVED and deducts stock as one
// atomic unit. On any failure the request stays PENDING and the inventory is
// untouched.
func (s *RequestService) Approve(ctx context.Context, id string) (*models.BloodRequest, error) {
	request, inv, err := s.repo.Approve(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, appErrors.Clone(appErrors.ErrNotFound, "request not found")
		case errors.Is(err, repository.ErrRequestNotPending):
			return nil, appErrors.Clone(appErrors.ErrInvalidState, "request is not in PENDING state")
		case errors.Is(err, repository.ErrInsufficientStock):
			return nil, appErrors.Clone(appErrors.ErrInsufficientStock, "insufficient stock to approve request")
		default:
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to approve request")
		}
	}

	if s.metrics != nil && inv != nil {
		s.metrics.SetBloodUnits(inv.BloodGroup, inv.UnitsAvailable)
	}
	s.logger.Info("blood request approved",
		zap.String("request_id", request.ID),
		zap.String("blood_group", string(request.BloodGroup)),
		zap.Int("units_deducted", request.UnitsRequired),
		zap.Int("units_remaining", inv.UnitsAvailable))
	return request, nil
}

// Reject transitions a pending request to REJECTED. No inventory side effect.
func (s *RequestService) Reject(ctx context.Context, id string) (*models.BloodRequest, error) {
	request, err := s.repo.Reject(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, appErrors.Clone(appErrors.ErrNotFound, "request not found")
		case errors.Is(err, repository.ErrRequestNotPending):
			return nil, appErrors.Clone(appErrors.ErrInvalidState, "request is not in PENDING state")
		default:
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reject request")
		}
	}

	s.logger.Info("blood request rejected", zap.String("request_id", request.ID))
	return request, nil
}
