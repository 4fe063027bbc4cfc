package financedb

import (
	"context"
	"fmt"
	"log"
)

// Executor runs model-generated SQL against the finance database. Each call
// opens a fresh connection and closes it before returning: a single
// best-effort read with no retry and no transaction.
type Executor struct {
	drivers map[string]DatabaseDriver
	config  ConnectionConfig
}

func NewExecutor(config ConnectionConfig) *Executor {
	return &Executor{
		drivers: make(map[string]DatabaseDriver),
		config:  config,
	}
}

func (e *Executor) RegisterDriver(dbType string, driver DatabaseDriver) {
	e.drivers[dbType] = driver
}

// ExecuteQuery executes the candidate SQL verbatim and fetches all rows and
// column names. The statement carries no parameter placeholders; the
// identity values were embedded textually by the generator and verified by
// the guard before this point.
func (e *Executor) ExecuteQuery(ctx context.Context, sqlText string) (*QueryResult, error) {
	driver, exists := e.drivers[e.config.Type]
	if !exists {
		return nil, fmt.Errorf("no driver registered for database type: %s", e.config.Type)
	}

	db, err := driver.Open(e.config)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to finance database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get SQL DB: %v", err)
	}
	defer sqlDB.Close()

	rows, err := db.WithContext(ctx).Raw(sqlText).Rows()
	if err != nil {
		return nil, fmt.Errorf("query execution failed: %v", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read result columns: %v", err)
	}

	result := &QueryResult{Columns: columns}
	for rows.Next() {
		values := make([]interface{}, len(columns))
		pointers := make([]interface{}, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}

		if err := rows.Scan(pointers...); err != nil {
			return nil, fmt.Errorf("failed to scan result row: %v", err)
		}

		row := make(map[string]interface{}, len(columns))
		for i, col := range columns {
			row[col] = normalizeValue(values[i])
		}
		result.Rows = append(result.Rows, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query execution failed: %v", err)
	}

	log.Printf("ExecuteQuery -> fetched %d rows, %d columns", len(result.Rows), len(columns))
	return result, nil
}

// normalizeValue converts driver byte slices to strings so rows are
// printable and JSON-friendly.
func normalizeValue(v interface{}) interface{} {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}
