package vectorstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubEmbedder maps known texts to fixed vectors so similarity is
// deterministic without a remote model.
type stubEmbedder struct {
	vectors map[string][]float32
}

func (e *stubEmbedder) CreateEmbedding(_ context.Context, text string) ([]float32, error) {
	if v, ok := e.vectors[text]; ok {
		return v, nil
	}
	return []float32{0, 0, 1}, nil
}

func newTestStore(t *testing.T) (*Store, *stubEmbedder) {
	t.Helper()
	embedder := &stubEmbedder{vectors: map[string][]float32{
		"gastos com mercado":  {1, 0, 0},
		"total de receitas":   {0, 1, 0},
		"despesas do mercado": {0.9, 0.1, 0},
	}}

	store, err := New(filepath.Join(t.TempDir(), "conversas.db"), "respostas_financeiras", embedder)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store, embedder
}

func TestAddAndSearchOrdersByScore(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, "sess-1:1", "user-1", "gastos com mercado", "SELECT 1"))
	require.NoError(t, store.Add(ctx, "sess-1:2", "user-1", "total de receitas", "SELECT 2"))

	results, err := store.Search(ctx, "user-1", "despesas do mercado", 10)
	require.NoError(t, err)
	require.Len(t, results, 2)

	// the market entry is the better match for a market query
	assert.Equal(t, "sess-1:1", results[0].ID)
	assert.Equal(t, "gastos com mercado", results[0].Document)
	assert.Equal(t, "SELECT 1", results[0].SQL)
	assert.Greater(t, results[0].Score, results[1].Score)
}

func TestSearchLimitsToK(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, "sess-1:1", "user-1", "gastos com mercado", ""))
	require.NoError(t, store.Add(ctx, "sess-1:2", "user-1", "total de receitas", ""))
	require.NoError(t, store.Add(ctx, "sess-1:3", "user-1", "despesas do mercado", ""))

	results, err := store.Search(ctx, "user-1", "gastos com mercado", 2)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestSearchOnlyReturnsOwnEntries(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, "sess-a:1", "user-a", "gastos com mercado", "SELECT a"))
	require.NoError(t, store.Add(ctx, "sess-b:1", "user-b", "total de receitas", "SELECT b"))

	// user-b never sees user-a's entry, even though it scores higher
	results, err := store.Search(ctx, "user-b", "gastos com mercado", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "sess-b:1", results[0].ID)
	assert.Equal(t, "total de receitas", results[0].Document)

	results, err = store.Search(ctx, "user-a", "gastos com mercado", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "sess-a:1", results[0].ID)
}

func TestAddRejectsDuplicateID(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, "sess-1:1", "user-1", "gastos com mercado", ""))

	err := store.Add(ctx, "sess-1:1", "user-1", "total de receitas", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sess-1:1")
}

func TestSearchEmptyCollection(t *testing.T) {
	store, _ := newTestStore(t)

	results, err := store.Search(context.Background(), "user-1", "qualquer coisa", 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}
