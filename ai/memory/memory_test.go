package memory

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lifepilot/lifepilot/ai/core/embedding"
	"github.com/lifepilot/lifepilot/internal/profile"
	"github.com/lifepilot/lifepilot/store"
	"github.com/lifepilot/lifepilot/store/db/sqlite"
)

// stubEmbedder maps texts onto a fixed keyword basis so similarity is
// deterministic under test.
type stubEmbedder struct {
	unavailable bool
}

var keywordBasis = []string{"meal", "vegetarian", "shopping", "travel", "budget"}

func (e *stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if e.unavailable {
		return nil, fmt.Errorf("%w: connection refused", embedding.ErrServiceUnavailable)
	}
	vec := make([]float32, len(keywordBasis))
	lower := strings.ToLower(text)
	for i, kw := range keywordBasis {
		if strings.Contains(lower, kw) {
			vec[i] = 1
		}
	}
	// Bias so no vector is all-zero.
	vec = append(vec, 0.01)
	return vec, nil
}

func (e *stubEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := e.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (e *stubEmbedder) Dimensions() int { return len(keywordBasis) + 1 }

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	p := &profile.Profile{
		Driver:           "sqlite",
		DSN:              filepath.Join(t.TempDir(), "memory_test.db"),
		MemoryMaxRecords: 1024,
	}
	driver, err := sqlite.NewDB(p)
	require.NoError(t, err)
	require.NoError(t, driver.Migrate(context.Background()))
	t.Cleanup(func() { _ = driver.Close() })
	return store.New(driver, p)
}

func TestStoreAndRetrieveRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc := NewService(&stubEmbedder{}, newTestStore(t))

	id, err := svc.Store(ctx, "weekly vegetarian meal plan with lentils", "meal")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	// A related query must surface the stored record within top-k when it is
	// the only "meal" record.
	records, err := svc.Retrieve(ctx, "what vegetarian meal did I plan?", 3)
	require.NoError(t, err)
	require.NotEmpty(t, records)
	require.Equal(t, id, records[0].ID)
	require.Equal(t, "meal", records[0].Tag)
}

func TestRetrieveNearestFirst(t *testing.T) {
	ctx := context.Background()
	svc := NewService(&stubEmbedder{}, newTestStore(t))

	_, err := svc.Store(ctx, "travel itinerary for lisbon on a budget", "travel")
	require.NoError(t, err)
	mealID, err := svc.Store(ctx, "vegetarian meal plan", "meal")
	require.NoError(t, err)

	records, err := svc.Retrieve(ctx, "vegetarian meal ideas", 2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, mealID, records[0].ID)
}

func TestRetrieveDegradesWhenEmbedderUnavailable(t *testing.T) {
	ctx := context.Background()
	svc := NewService(&stubEmbedder{unavailable: true}, newTestStore(t))

	records, err := svc.Retrieve(ctx, "anything", 3)
	require.NoError(t, err)
	require.Empty(t, records)
}

// failingSearchDriver delegates to a real driver but fails vector search,
// simulating a store backend outage mid-run.
type failingSearchDriver struct {
	store.Driver
}

func (d failingSearchDriver) SearchMemoryRecords(ctx context.Context, opts *store.VectorSearchOptions) ([]*store.MemoryRecordWithScore, error) {
	return nil, fmt.Errorf("database is locked")
}

func TestRetrieveDegradesWhenStoreSearchFails(t *testing.T) {
	ctx := context.Background()
	p := &profile.Profile{
		Driver:           "sqlite",
		DSN:              filepath.Join(t.TempDir(), "memory_test.db"),
		MemoryMaxRecords: 1024,
	}
	driver, err := sqlite.NewDB(p)
	require.NoError(t, err)
	require.NoError(t, driver.Migrate(ctx))
	t.Cleanup(func() { _ = driver.Close() })

	svc := NewService(&stubEmbedder{}, store.New(failingSearchDriver{driver}, p))

	records, err := svc.Retrieve(ctx, "vegetarian meal ideas", 3)
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestStoreFailsWhenEmbedderUnavailable(t *testing.T) {
	ctx := context.Background()
	svc := NewService(&stubEmbedder{unavailable: true}, newTestStore(t))

	_, err := svc.Store(ctx, "text", "meal")
	require.ErrorIs(t, err, embedding.ErrServiceUnavailable)
}
