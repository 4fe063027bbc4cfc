package financedb

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// sqlmockDriver opens a fresh sqlmock-backed connection per call, the same
// open-per-query shape the real drivers have.
type sqlmockDriver struct {
	prepare func(mock sqlmock.Sqlmock)
}

func (d *sqlmockDriver) Open(config ConnectionConfig) (*gorm.DB, error) {
	db, mock, err := sqlmock.New()
	if err != nil {
		return nil, err
	}
	d.prepare(mock)
	return gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: db}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
}

func newMockExecutor(t *testing.T, prepare func(mock sqlmock.Sqlmock)) *Executor {
	t.Helper()
	executor := NewExecutor(ConnectionConfig{Type: "mock", Database: "financas"})
	executor.RegisterDriver("mock", &sqlmockDriver{prepare: prepare})
	return executor
}

func TestExecuteQueryReturnsRowsAndColumns(t *testing.T) {
	query := "SELECT descricao, valor FROM despesas WHERE documento_titular = '12345678901'"
	executor := newMockExecutor(t, func(mock sqlmock.Sqlmock) {
		mock.ExpectQuery(regexp.QuoteMeta(query)).WillReturnRows(
			sqlmock.NewRows([]string{"descricao", "valor"}).
				AddRow([]byte("Supermercado"), 152.40).
				AddRow([]byte("Farmácia"), 38.90),
		)
	})

	result, err := executor.ExecuteQuery(context.Background(), query)
	require.NoError(t, err)
	assert.Equal(t, []string{"descricao", "valor"}, result.Columns)
	require.Len(t, result.Rows, 2)
	assert.Equal(t, "Supermercado", result.Rows[0]["descricao"])
	assert.Equal(t, 152.40, result.Rows[0]["valor"])
	assert.False(t, result.IsEmpty())
}

func TestExecuteQueryEmptyResult(t *testing.T) {
	query := "SELECT descricao FROM despesas WHERE documento_titular = '00000000000'"
	executor := newMockExecutor(t, func(mock sqlmock.Sqlmock) {
		mock.ExpectQuery(regexp.QuoteMeta(query)).WillReturnRows(
			sqlmock.NewRows([]string{"descricao"}),
		)
	})

	result, err := executor.ExecuteQuery(context.Background(), query)
	require.NoError(t, err)
	assert.True(t, result.IsEmpty())
	assert.Equal(t, []string{"descricao"}, result.Columns)
}

func TestExecuteQueryWrapsDatabaseError(t *testing.T) {
	query := "SELECT nope FROM despesas"
	executor := newMockExecutor(t, func(mock sqlmock.Sqlmock) {
		mock.ExpectQuery(regexp.QuoteMeta(query)).WillReturnError(
			assert.AnError,
		)
	})

	result, err := executor.ExecuteQuery(context.Background(), query)
	require.Error(t, err)
	assert.Nil(t, result)
	// The underlying driver error text survives the wrap
	assert.Contains(t, err.Error(), "query execution failed")
	assert.Contains(t, err.Error(), assert.AnError.Error())
}

func TestExecuteQueryUnknownDatabaseType(t *testing.T) {
	executor := NewExecutor(ConnectionConfig{Type: "oracle"})

	result, err := executor.ExecuteQuery(context.Background(), "SELECT 1")
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "no driver registered")
}
