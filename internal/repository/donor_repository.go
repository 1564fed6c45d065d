package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/vbbs/blood-bank-api/internal/models"
)

// DonorRepository provides database access for donor accounts.
type DonorRepository struct {
	db *sqlx.DB
}

// NewDonorRepository creates a new instance of DonorRepository.
func NewDonorRepository(db *sqlx.DB) *DonorRepository {
	return &DonorRepository{db: db}
}

const donorColumns = `id, name, email, password_hash, phone, blood_group, city, last_donation_date, available, created_at, updated_at`

// Create inserts a new donor record.
func (r *DonorRepository) Create(ctx context.Context, donor *models.Donor) error {
	if donor.ID == "" {
		donor.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if donor.CreatedAt.IsZero() {
		donor.CreatedAt = now
	}
	donor.UpdatedAt = now

	const query = `INSERT INTO donors (id, name, email, password_hash, phone, blood_group, city, last_donation_date, available, created_at, updated_at)
		VALUES (:id, :name, :email, :password_hash, :phone, :blood_group, :city, :last_donation_date, :available, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, donor); err != nil {
		return fmt.Errorf("create donor: %w", err)
	}
	return nil
}

// FindByID returns a donor by identifier.
func (r *DonorRepository) FindByID(ctx context.Context, id string) (*models.Donor, error) {
	const query = `SELECT ` + donorColumns + ` FROM donors WHERE id = $1 LIMIT 1`
	var donor models.Donor
	if err := r.db.GetContext(ctx, &donor, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find donor by id: %w", err)
	}
	return &donor, nil
}

// FindByEmail returns a donor by email. The match is exact as stored.
func (r *DonorRepository) FindByEmail(ctx context.Context, email string) (*models.Donor, error) {
	const query = `SELECT ` + donorColumns + ` FROM donors WHERE email = $1 LIMIT 1`
	var donor models.Donor
	if err := r.db.GetContext(ctx, &donor, query, email); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find donor by email: %w", err)
	}
	return &donor, nil
}

// ExistsByEmail reports whether any donor already uses the email.
func (r *DonorRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM donors WHERE email = $1)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, email); err != nil {
		return false, fmt.Errorf("check donor email: %w", err)
	}
	return exists, nil
}

// List returns all donors in insertion order.
func (r *DonorRepository) List(ctx context.Context) ([]models.Donor, error) {
	const query = `SELECT ` + donorColumns + ` FROM donors ORDER BY created_at`
	var donors []models.Donor
	if err := r.db.SelectContext(ctx, &donors, query); err != nil {
		return nil, fmt.Errorf("list donors: %w", err)
	}
	return donors, nil
}

// ListByGroup returns all donors of the given blood group.
func (r *DonorRepository) ListByGroup(ctx context.Context, group models.BloodGroup) ([]models.Donor, error) {
	const query = `SELECT ` + donorColumns + ` FROM donors WHERE blood_group = $1 ORDER BY created_at`
	var donors []models.Donor
	if err := r.db.SelectContext(ctx, &donors, query, group); err != nil {
		return nil, fmt.Errorf("list donors by group: %w", err)
	}
	return donors, nil
}

// UpdateAvailability sets the availability flag and, when provided, the last
// donation date.
func (r *DonorRepository) UpdateAvailability(ctx context.Context, id string, available bool, lastDonation *time.Time) (*models.Donor, error) {
	const query = `UPDATE donors
		SET available = $2, last_donation_date = COALESCE($3, last_donation_date), updated_at = $4
		WHERE id = $1
		RETURNING ` + donorColumns

	var donor models.Donor
	if err := r.db.GetContext(ctx, &donor, query, id, available, lastDonation, time.Now().UTC()); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("update donor availability: %w", err)
	}
	return &donor, nil
}
