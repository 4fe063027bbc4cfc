package financedb

// ConnectionConfig holds the credentials for the finance database. The
// executor opens a fresh connection from it on every query.
type ConnectionConfig struct {
	Type     string
	Host     string
	Port     string
	Username string
	Password string
	Database string
}

// QueryResult is the full result of one executed statement: ordered column
// names and every fetched row as a column→value map.
type QueryResult struct {
	Columns []string
	Rows    []map[string]interface{}
}

// IsEmpty reports whether the statement matched no rows.
func (r *QueryResult) IsEmpty() bool {
	return r == nil || len(r.Rows) == 0
}
