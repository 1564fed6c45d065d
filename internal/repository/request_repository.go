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

// ErrRequestNotPending is returned when an approval or rejection targets a
// request that already reached a terminal status.
var ErrRequestNotPending = errors.New("request is not pending")

// RequestRepository provides database access for blood requests.
type RequestRepository struct {
	db *sqlx.DB
}

// NewRequestRepository creates a new instance of RequestRepository.
func NewRequestRepository(db *sqlx.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

const requestColumns = `id, patient_name, blood_group, units_required, hospital_name, city, status, request_date`

// Create inserts a new request. Status and request date are stamped here so
// submissions always start PENDING regardless of the payload.
func (r *RequestRepository) Create(ctx context.Context, req *models.BloodRequest) error {
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	req.Status = models.StatusPending
	if req.RequestDate.IsZero() {
		req.RequestDate = time.Now().UTC()
	}

	const query = `INSERT INTO blood_requests (id, patient_name, blood_group, units_required, hospital_name, city, status, request_date)
		VALUES (:id, :patient_name, :blood_group, :units_required, :hospital_name, :city, :status, :request_date)`
	if _, err := r.db.NamedExecContext(ctx, query, req); err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return nil
}

// FindByID returns a request by identifier.
func (r *RequestRepository) FindByID(ctx context.Context, id string) (*models.BloodRequest, error) {
	const query = `SELECT ` + requestColumns + ` FROM blood_requests WHERE id = $1 LIMIT 1`
	var req models.BloodRequest
	if err := r.db.GetContext(ctx, &req, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find request by id: %w", err)
	}
	return &req, nil
}

// List returns all requests, newest first.
func (r *RequestRepository) List(ctx context.Context) ([]models.BloodRequest, error) {
	const query = `SELECT ` + requestColumns + ` FROM blood_requests ORDER BY request_date DESC`
	var requests []models.BloodRequest
	if err := r.db.SelectContext(ctx, &requests, query); err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	return requests, nil
}

// Approve deducts inventory and flips the request to APPROVED inside one
// transaction. The request row is locked first so two concurrent approvals of
// the same request serialize; the guarded inventory UPDATE serializes
// approvals competing for the same blood group. Any failure rolls back both
// effects.
//
// Returns sql.ErrNoRows when the request (or the group's inventory row) is
// missing, ErrRequestNotPending on a terminal status, and
// ErrInsufficientStock when stock cannot cover the request.
func (r *RequestRepository) Approve(ctx context.Context, id string) (*models.BloodRequest, *models.BloodInventory, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("begin approve tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const lockQuery = `SELECT ` + requestColumns + ` FROM blood_requests WHERE id = $1 FOR UPDATE`
	var req models.BloodRequest
	if err := tx.GetContext(ctx, &req, lockQuery, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("lock request for approval: %w", err)
	}

	if req.Status != models.StatusPending {
		return nil, nil, ErrRequestNotPending
	}

	inv, err := deductStock(ctx, tx, req.BloodGroup, req.UnitsRequired)
	if err != nil {
		return nil, nil, err
	}

	const updateQuery = `UPDATE blood_requests SET status = $2 WHERE id = $1`
	if _, err := tx.ExecContext(ctx, updateQuery, id, models.StatusApproved); err != nil {
		return nil, nil, fmt.Errorf("mark request approved: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("commit approve tx: %w", err)
	}

	req.Status = models.StatusApproved
	return &req, inv, nil
}

// Reject flips a pending request to REJECTED. The status guard lives in the
// UPDATE itself so a racing approval cannot be overwritten.
func (r *RequestRepository) Reject(ctx context.Context, id string) (*models.BloodRequest, error) {
	const query = `UPDATE blood_requests SET status = $2
		WHERE id = $1 AND status = $3
		RETURNING ` + requestColumns

	var req models.BloodRequest
	err := r.db.GetContext(ctx, &req, query, id, models.StatusRejected, models.StatusPending)
	if err == nil {
		return &req, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("reject request: %w", err)
	}

	// Nothing matched: missing request or non-pending status.
	var exists bool
	const probe = `SELECT EXISTS (SELECT 1 FROM blood_requests WHERE id = $1)`
	if probeErr := r.db.GetContext(ctx, &exists, probe, id); probeErr != nil {
		return nil, fmt.Errorf("probe request: %w", probeErr)
	}
	if !exists {
		return nil, sql.ErrNoRows
	}
	return nil, ErrRequestNotPending
}
