package financedb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureReadOnlyAcceptsSelect(t *testing.T) {
	valid := []string{
		"SELECT * FROM despesas WHERE documento_titular = '12345678901'",
		"select valor from receitas",
		"  SELECT 1  ",
		"SELECT valor FROM despesas;",
		"WITH totais AS (SELECT SUM(valor) AS total FROM despesas) SELECT total FROM totais",
	}
	for _, sqlText := range valid {
		assert.NoError(t, EnsureReadOnly(sqlText), "statement: %s", sqlText)
	}
}

func TestEnsureReadOnlyRejectsWrites(t *testing.T) {
	cases := []struct {
		sqlText string
		want    error
	}{
		{"", ErrEmptyStatement},
		{"   ; ", ErrEmptyStatement},
		{"DELETE FROM despesas", ErrNotSelect},
		{"UPDATE contas SET saldo = 0", ErrNotSelect},
		{"INSERT INTO receitas VALUES (1)", ErrNotSelect},
		{"DROP TABLE usuarios", ErrNotSelect},
		{"SELECT 1; DELETE FROM despesas", ErrMultipleStatements},
		{"WITH x AS (DELETE FROM despesas) SELECT 1", ErrNotSelect},
		{"SELECT * FROM despesas; TRUNCATE emprestimos", ErrMultipleStatements},
	}
	for _, tc := range cases {
		err := EnsureReadOnly(tc.sqlText)
		require.Error(t, err, "statement: %s", tc.sqlText)
		assert.ErrorIs(t, err, tc.want, "statement: %s", tc.sqlText)
	}
}

func TestEnsureReadOnlyRejectsEmbeddedWriteKeyword(t *testing.T) {
	err := EnsureReadOnly("SELECT * FROM despesas WHERE descricao = x UPDATE y")
	assert.ErrorIs(t, err, ErrNotSelect)

	// Keyword as part of a longer identifier is fine
	assert.NoError(t, EnsureReadOnly("SELECT data_updated_at FROM contas WHERE documento = '1'"))
}

func TestEnsureOwnerScoped(t *testing.T) {
	document := "12345678901"

	assert.NoError(t, EnsureOwnerScoped(
		"SELECT valor FROM despesas WHERE documento_titular = '12345678901'", document))

	assert.ErrorIs(t, EnsureOwnerScoped(
		"SELECT valor FROM despesas", document), ErrNotOwnerScoped)

	assert.ErrorIs(t, EnsureOwnerScoped(
		"SELECT valor FROM despesas WHERE documento_titular = '12345678901'", ""), ErrNotOwnerScoped)
}
