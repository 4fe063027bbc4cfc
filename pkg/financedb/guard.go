package financedb

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	ErrEmptyStatement     = errors.New("empty SQL statement")
	ErrNotSelect          = errors.New("only SELECT statements are allowed")
	ErrMultipleStatements = errors.New("multiple SQL statements are not allowed")
	ErrNotOwnerScoped     = errors.New("statement does not filter by the authenticated user's document")
)

// forbiddenKeywordPattern catches write verbs anywhere in the statement,
// including inside CTE bodies (WITH x AS (DELETE ...)).
var forbiddenKeywordPattern = regexp.MustCompile(`(?i)\b(insert|update|delete|drop|alter|truncate|grant|revoke)\b`)

// EnsureReadOnly validates that a model-generated statement is a single
// read-only SELECT before it is executed.
func EnsureReadOnly(sqlText string) error {
	s := strings.TrimSpace(sqlText)
	s = strings.TrimSuffix(s, ";")
	if s == "" {
		return ErrEmptyStatement
	}

	if strings.Contains(s, ";") {
		return ErrMultipleStatements
	}

	first := strings.ToUpper(firstToken(s))
	if first != "SELECT" && first != "WITH" {
		return fmt.Errorf("%w, got %s", ErrNotSelect, first)
	}

	if match := forbiddenKeywordPattern.FindString(s); match != "" {
		return fmt.Errorf("%w, found %s", ErrNotSelect, strings.ToUpper(match))
	}

	return nil
}

// EnsureOwnerScoped verifies the statement references the authenticated
// user's document, so the ownership filter can not be silently dropped by
// the model.
func EnsureOwnerScoped(sqlText, document string) error {
	if document == "" {
		return ErrNotOwnerScoped
	}
	if !strings.Contains(sqlText, document) {
		return ErrNotOwnerScoped
	}
	return nil
}

func firstToken(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
