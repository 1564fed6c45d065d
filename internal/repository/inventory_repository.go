package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/vbbs/blood-bank-api/internal/models"
)

// ErrInsufficientStock is returned when a deduction would drive a stock row
// negative. The conditional UPDATE is the authoritative check; callers map
// this to their own error taxonomy.
var ErrInsufficientStock = errors.New("insufficient stock")

// InventoryRepository provides database access for blood stock rows.
type InventoryRepository struct {
	db *sqlx.DB
}

// NewInventoryRepository creates a new instance of InventoryRepository.
func NewInventoryRepository(db *sqlx.DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}

const inventoryColumns = `id, blood_group, units_available, last_updated`

// Restock adds units to the group's row, creating it when absent. The upsert
// is a single statement so the existence check and the write cannot race.
func (r *InventoryRepository) Restock(ctx context.Context, group models.BloodGroup, units int) (*models.BloodInventory, error) {
	const query = `INSERT INTO blood_inventory (id, blood_group, units_available, last_updated)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (blood_group) DO UPDATE
		SET units_available = blood_inventory.units_available + EXCLUDED.units_available,
		    last_updated = EXCLUDED.last_updated
		RETURNING ` + inventoryColumns

	var inv models.BloodInventory
	if err := r.db.GetContext(ctx, &inv, query, uuid.NewString(), group, units, time.Now().UTC()); err != nil {
		return nil, fmt.Errorf("restock %s: %w", group, err)
	}
	return &inv, nil
}

// Deduct subtracts units from the group's row. It returns sql.ErrNoRows when
// no row exists for the group and ErrInsufficientStock when the row holds
// fewer units than requested.
func (r *InventoryRepository) Deduct(ctx context.Context, group models.BloodGroup, units int) (*models.BloodInventory, error) {
	return deductStock(ctx, r.db, group, units)
}

// FindByGroup returns the stock row for a group.
func (r *InventoryRepository) FindByGroup(ctx context.Context, group models.BloodGroup) (*models.BloodInventory, error) {
	const query = `SELECT ` + inventoryColumns + ` FROM blood_inventory WHERE blood_group = $1 LIMIT 1`
	var inv models.BloodInventory
	if err := r.db.GetContext(ctx, &inv, query, group); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find inventory by group: %w", err)
	}
	return &inv, nil
}

// List returns every stock row ordered by blood group.
func (r *InventoryRepository) List(ctx context.Context) ([]models.BloodInventory, error) {
	const query = `SELECT ` + inventoryColumns + ` FROM blood_inventory ORDER BY blood_group`
	var rows []models.BloodInventory
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	return rows, nil
}

// EnsureGroup creates a zero-conflict row with the given starting units when
// the group has no row yet. Used by the bootstrap seed only.
func (r *InventoryRepository) EnsureGroup(ctx context.Context, group models.BloodGroup, units int) error {
	const query = `INSERT INTO blood_inventory (id, blood_group, units_available, last_updated)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (blood_group) DO NOTHING`
	if _, err := r.db.ExecContext(ctx, query, uuid.NewString(), group, units, time.Now().UTC()); err != nil {
		return fmt.Errorf("ensure inventory group %s: %w", group, err)
	}
	return nil
}

// deductStock runs the guarded subtraction against any executor so the same
// statement serves both the standalone deduction and the approval
// transaction. The WHERE clause takes the row lock and enforces sufficiency
// in one atomic read-modify-write.
func deductStock(ctx context.Context, ext sqlx.ExtContext, group models.BloodGroup, units int) (*models.BloodInventory, error) {
	const query = `UPDATE blood_inventory
		SET units_available = units_available - $2, last_updated = $3
		WHERE blood_group = $1 AND units_available >= $2
		RETURNING ` + inventoryColumns

	var inv models.BloodInventory
	err := sqlx.GetContext(ctx, ext, &inv, query, group, units, time.Now().UTC())
	if err == nil {
		return &inv, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("deduct %d units of %s: %w", units, group, err)
	}

	// No row matched: distinguish a missing group from insufficient stock.
	var exists bool
	const probe = `SELECT EXISTS (SELECT 1 FROM blood_inventory WHERE blood_group = $1)`
	if probeErr := sqlx.GetContext(ctx, ext, &exists, probe, group); probeErr != nil {
		return nil, fmt.Errorf("probe inventory for %s: %w", group, probeErr)
	}
	if !exists {
		return nil, sql.ErrNoRows
	}
	return nil, ErrInsufficientStock
}
