package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbbs/blood-bank-api/internal/models"
)

func requestRows(id string, status models.RequestStatus, units int) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "patient_name", "blood_group", "units_required", "hospital_name", "city", "status", "request_date"}).
		AddRow(id, "Patient", string(models.GroupAPositive), units, "City Hospital", "Oslo", string(status), time.Now())
}

func TestRequestCreate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewRequestRepository(db)

	mock.ExpectExec(`INSERT INTO blood_requests`).WillReturnResult(sqlmock.NewResult(0, 1))

	req := &models.BloodRequest{
		PatientName:   "Patient",
		BloodGroup:    models.GroupAPositive,
		UnitsRequired: 3,
		HospitalName:  "City Hospital",
		City:          "Oslo",
	}
	err := repo.Create(context.Background(), req)
	require.NoError(t, err)
	assert.NotEmpty(t, req.ID)
	assert.Equal(t, models.StatusPending, req.Status)
	assert.False(t, req.RequestDate.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestApprove(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewRequestRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .+ FROM blood_requests WHERE id = \$1 FOR UPDATE`).
		WithArgs("req-1").
		WillReturnRows(requestRows("req-1", models.StatusPending, 3))
	mock.ExpectQuery(`UPDATE blood_inventory\s+SET units_available = units_available - \$2`).
		WithArgs(string(models.GroupAPositive), 3, sqlmock.AnyArg()).
		WillReturnRows(inventoryRows(models.GroupAPositive, 47))
	mock.ExpectExec(`UPDATE blood_requests SET status = \$2 WHERE id = \$1`).
		WithArgs("req-1", string(models.StatusApproved)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	req, inv, err := repo.Approve(context.Background(), "req-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, req.Status)
	assert.Equal(t, 47, inv.UnitsAvailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestApproveNotPending(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewRequestRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .+ FROM blood_requests WHERE id = \$1 FOR UPDATE`).
		WithArgs("req-1").
		WillReturnRows(requestRows("req-1", models.StatusApproved, 3))
	mock.ExpectRollback()

	_, _, err := repo.Approve(context.Background(), "req-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRequestNotPending)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestApproveInsufficientStockRollsBack(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewRequestRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .+ FROM blood_requests WHERE id = \$1 FOR UPDATE`).
		WithArgs("req-1").
		WillReturnRows(requestRows("req-1", models.StatusPending, 500))
	mock.ExpectQuery(`UPDATE blood_inventory\s+SET units_available = units_available - \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "blood_group", "units_available", "last_updated"}))
	mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM blood_inventory WHERE blood_group = \$1\)`).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	_, _, err := repo.Approve(context.Background(), "req-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestApproveMissingRequest(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewRequestRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .+ FROM blood_requests WHERE id = \$1 FOR UPDATE`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, _, err := repo.Approve(context.Background(), "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestReject(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewRequestRepository(db)

	mock.ExpectQuery(`UPDATE blood_requests SET status = \$2\s+WHERE id = \$1 AND status = \$3`).
		WithArgs("req-1", string(models.StatusRejected), string(models.StatusPending)).
		WillReturnRows(requestRows("req-1", models.StatusRejected, 3))

	req, err := repo.Reject(context.Background(), "req-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, req.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestRejectAlreadyDecided(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewRequestRepository(db)

	mock.ExpectQuery(`UPDATE blood_requests SET status = \$2\s+WHERE id = \$1 AND status = \$3`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "patient_name", "blood_group", "units_required", "hospital_name", "city", "status", "request_date"}))
	mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM blood_requests WHERE id = \$1\)`).
		WithArgs("req-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	_, err := repo.Reject(context.Background(), "req-1")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRequestNotPending)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestList(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewRequestRepository(db)

	mock.ExpectQuery(`SELECT .+ FROM blood_requests ORDER BY request_date DESC`).
		WillReturnRows(requestRows("req-1", models.StatusPending, 3))

	list, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}
