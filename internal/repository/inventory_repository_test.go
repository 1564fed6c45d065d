package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbbs/blood-bank-api/internal/models"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxdb := sqlx.NewDb(db, "sqlmock")
	return sqlxdb, mock, func() {
		db.Close()
	}
}

func inventoryRows(group models.BloodGroup, units int) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "blood_group", "units_available", "last_updated"}).
		AddRow("inv-1", string(group), units, time.Now())
}

func TestInventoryRestock(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewInventoryRepository(db)

	mock.ExpectQuery(`INSERT INTO blood_inventory .+ ON CONFLICT \(blood_group\) DO UPDATE`).
		WillReturnRows(inventoryRows(models.GroupAPositive, 60))

	inv, err := repo.Restock(context.Background(), models.GroupAPositive, 10)
	require.NoError(t, err)
	assert.Equal(t, models.GroupAPositive, inv.BloodGroup)
	assert.Equal(t, 60, inv.UnitsAvailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInventoryDeduct(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewInventoryRepository(db)

	mock.ExpectQuery(`UPDATE blood_inventory\s+SET units_available = units_available - \$2`).
		WithArgs(string(models.GroupONegative), 5, sqlmock.AnyArg()).
		WillReturnRows(inventoryRows(models.GroupONegative, 25))

	inv, err := repo.Deduct(context.Background(), models.GroupONegative, 5)
	require.NoError(t, err)
	assert.Equal(t, 25, inv.UnitsAvailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInventoryDeductInsufficientStock(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewInventoryRepository(db)

	mock.ExpectQuery(`UPDATE blood_inventory\s+SET units_available = units_available - \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "blood_group", "units_available", "last_updated"}))
	mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM blood_inventory WHERE blood_group = \$1\)`).
		WithArgs(string(models.GroupABNegative)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	_, err := repo.Deduct(context.Background(), models.GroupABNegative, 999)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInventoryDeductMissingGroup(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewInventoryRepository(db)

	mock.ExpectQuery(`UPDATE blood_inventory\s+SET units_available = units_available - \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "blood_group", "units_available", "last_updated"}))
	mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM blood_inventory WHERE blood_group = \$1\)`).
		WithArgs(string(models.GroupBNegative)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	_, err := repo.Deduct(context.Background(), models.GroupBNegative, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInventoryList(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewInventoryRepository(db)

	rows := sqlmock.NewRows([]string{"id", "blood_group", "units_available", "last_updated"}).
		AddRow("inv-1", string(models.GroupANegative), 20, time.Now()).
		AddRow("inv-2", string(models.GroupAPositive), 50, time.Now())
	mock.ExpectQuery(`SELECT id, blood_group, units_available, last_updated FROM blood_inventory ORDER BY blood_group`).
		WillReturnRows(rows)

	list, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInventoryEnsureGroup(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewInventoryRepository(db)

	mock.ExpectExec(`INSERT INTO blood_inventory .+ ON CONFLICT \(blood_group\) DO NOTHING`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.EnsureGroup(context.Background(), models.GroupOPositive, 100)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInventoryFindByGroupNotFound(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewInventoryRepository(db)

	mock.ExpectQuery(`SELECT id, blood_group, units_available, last_updated FROM blood_inventory WHERE blood_group = \$1`).
		WithArgs(string(models.GroupABPositive)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByGroup(context.Background(), models.GroupABPositive)
	require.Error(t, err)
	assert.True(t, errors.Is(err, sql.ErrNoRows))
	assert.NoError(t, mock.ExpectationsWereMet())
}
