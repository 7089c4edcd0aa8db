package services

import (
	"database/sql"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vahango/rental-gateway/internal/database"
	"github.com/vahango/rental-gateway/internal/models"
)

func TestReconcileCheckoutsJob(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	audits := database.NewCheckoutAuditRepository(&sweepMockDB{db: db}, discardLogger())
	svc := NewCronService(nil, audits)

	mock.ExpectExec(`UPDATE checkout_audits`).
		WithArgs(
			models.CheckoutAbandoned,
			models.AuditActionCheckout,
			models.CheckoutRedirecting,
			sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(0, 2))

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM checkout_audits`).
		WithArgs(models.AuditActionCheckout, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	svc.reconcileCheckoutsJob()

	// The sweep both flags abandoned checkouts and counts recent failures
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReconcileCheckoutsJob_SweepErrorSkipsCount(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	audits := database.NewCheckoutAuditRepository(&sweepMockDB{db: db}, discardLogger())
	svc := NewCronService(nil, audits)

	mock.ExpectExec(`UPDATE checkout_audits`).
		WillReturnError(fmt.Errorf("database error"))

	svc.reconcileCheckoutsJob()

	assert.NoError(t, mock.ExpectationsWereMet())
}

// sweepMockDB wraps sqlmock's *sql.DB behind the database.DB interface
type sweepMockDB struct {
	db *sql.DB
}

func (m *sweepMockDB) Get(dest interface{}, query string, args ...interface{}) error {
	return fmt.Errorf("Get not implemented in mock")
}

func (m *sweepMockDB) Select(dest interface{}, query string, args ...interface{}) error {
	return fmt.Errorf("Select not implemented in mock")
}

func (m *sweepMockDB) Query(query string, args ...interface{}) (*sql.Rows, error) {
	return m.db.Query(query, args...)
}

func (m *sweepMockDB) QueryRow(query string, args ...interface{}) *sql.Row {
	return m.db.QueryRow(query, args...)
}

func (m *sweepMockDB) Exec(query string, args ...interface{}) (sql.Result, error) {
	return m.db.Exec(query, args...)
}

func (m *sweepMockDB) Close() error {
	return m.db.Close()
}

func (m *sweepMockDB) Ping() error {
	return m.db.Ping()
}
