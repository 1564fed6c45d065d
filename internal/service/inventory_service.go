package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/vbbs/blood-bank-api/internal/models"
	"github.com/vbbs/blood-bank-api/internal/repository"
	appErrors "github.com/vbbs/blood-bank-api/pkg/errors"
)

type inventoryRepository interface {
	Restock(ctx context.Context, group models.BloodGroup, units int) (*models.BloodInventory, error)
	Deduct(ctx context.Context, group models.BloodGroup, units int) (*models.BloodInventory, error)
	List(ctx context.Context) ([]models.BloodInventory, error)
}

type stockGauge interface {
	SetBloodUnits(group models.BloodGroup, units int)
}

// StockChangeRequest holds payload for restocking or deducting units.
type StockChangeRequest struct {
	BloodGroup models.BloodGroup `json:"blood_group" validate:"required,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
	Units      int               `json:"units" validate:"required,gt=0"`
}

// InventoryService handles stock ledger use-cases.
type InventoryService struct {
	repo      inventoryRepository
	metrics   stockGauge
	validator *validator.Validate
	logger    *zap.Logger
}

// NewInventoryService constructs the inventory service. metrics may be nil.
func NewInventoryService(repo inventoryRepository, metrics stockGauge, validate *validator.Validate, logger *zap.Logger) *InventoryService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InventoryService{repo: repo, metrics: metrics, validator: validate, logger: logger}
}

// Restock adds units to a group, creating the row on first restock.
func (s *InventoryService) Restock(ctx context.Context, req StockChangeRequest) (*models.BloodInventory, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid restock payload")
	}

	inv, err := s.repo.Restock(ctx, req.BloodGroup, req.Units)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to restock inventory")
	}

	s.observeStock(inv)
	s.logger.Info("inventory restocked",
		zap.String("blood_group", string(inv.BloodGroup)),
		zap.Int("units_added", req.Units),
		zap.Int("units_available", inv.UnitsAvailable))
	return inv, nil
}

// Deduct removes units from a group's stock.
func (s *InventoryService) Deduct(ctx context.Context, req StockChangeRequest) (*models.BloodInventory, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid deduction payload")
	}

	inv, err := s.repo.Deduct(ctx, req.BloodGroup, req.Units)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("no inventory found for blood group %s", req.BloodGroup))
		case errors.Is(err, repository.ErrInsufficientStock):
			return nil, appErrors.Clone(appErrors.ErrInsufficientStock, fmt.Sprintf("insufficient stock for %s", req.BloodGroup))
		default:
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deduct inventory")
		}
	}

	s.observeStock(inv)
	s.logger.Info("inventory deducted",
		zap.String("blood_group", string(inv.BloodGroup)),
		zap.Int("units_removed", req.Units),
		zap.Int("units_available", inv.UnitsAvailable))
	return inv, nil
}

// List returns the full stock ledger.
func (s *InventoryService) List(ctx context.Context) ([]models.BloodInventory, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list inventory")
	}
	return rows, nil
}

func (s *InventoryService) observeStock(inv *models.BloodInventory) {
	if s.metrics != nil && inv != nil {
		s.metrics.SetBloodUnits(inv.BloodGroup, inv.UnitsAvailable)
	}
}
