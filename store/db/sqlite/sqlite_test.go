package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lifepilot/lifepilot/internal/profile"
	"github.com/lifepilot/lifepilot/store"
)

func newTestDriver(t *testing.T) store.Driver {
	t.Helper()
	p := &profile.Profile{
		Driver: "sqlite",
		DSN:    filepath.Join(t.TempDir(), "lifepilot_test.db"),
	}
	driver, err := NewDB(p)
	require.NoError(t, err)
	require.NoError(t, driver.Migrate(context.Background()))
	t.Cleanup(func() { _ = driver.Close() })
	return driver
}

func TestMemoryRecordCRUD(t *testing.T) {
	ctx := context.Background()
	driver := newTestDriver(t)

	created, err := driver.CreateMemoryRecord(ctx, &store.MemoryRecord{
		ID:        "rec-1",
		Text:      "weekly vegetarian meal plan",
		Embedding: []float32{1, 0, 0},
		Tag:       "meal",
	})
	require.NoError(t, err)
	require.NotZero(t, created.CreatedTs)

	tag := "meal"
	list, err := driver.ListMemoryRecords(ctx, &store.FindMemoryRecord{Tag: &tag})
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "rec-1", list[0].ID)
	require.Equal(t, []float32{1, 0, 0}, list[0].Embedding)
}

func TestSearchMemoryRecordsNearestFirst(t *testing.T) {
	ctx := context.Background()
	driver := newTestDriver(t)

	records := []*store.MemoryRecord{
		{ID: "far", Text: "trip to lisbon", Embedding: []float32{0, 1, 0}, Tag: "travel"},
		{ID: "near", Text: "vegetarian dinner", Embedding: []float32{0.9, 0.1, 0}, Tag: "meal"},
		{ID: "exact", Text: "vegetarian meal plan", Embedding: []float32{1, 0, 0}, Tag: "meal"},
	}
	for _, r := range records {
		_, err := driver.CreateMemoryRecord(ctx, r)
		require.NoError(t, err)
	}

	results, err := driver.SearchMemoryRecords(ctx, &store.VectorSearchOptions{
		Vector: []float32{1, 0, 0},
		Limit:  2,
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
	require.Equal(t, "exact", results[0].Record.ID)
	require.Equal(t, "near", results[1].Record.ID)
	require.Greater(t, results[0].Score, results[1].Score)
}

func TestSearchMemoryRecordsTagFilter(t *testing.T) {
	ctx := context.Background()
	driver := newTestDriver(t)

	_, err := driver.CreateMemoryRecord(ctx, &store.MemoryRecord{
		ID: "m1", Text: "meal", Embedding: []float32{1, 0}, Tag: "meal",
	})
	require.NoError(t, err)
	_, err = driver.CreateMemoryRecord(ctx, &store.MemoryRecord{
		ID: "t1", Text: "travel", Embedding: []float32{1, 0}, Tag: "travel",
	})
	require.NoError(t, err)

	tag := "travel"
	results, err := driver.SearchMemoryRecords(ctx, &store.VectorSearchOptions{
		Vector: []float32{1, 0},
		Limit:  10,
		Tag:    &tag,
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "t1", results[0].Record.ID)
}

func TestPruneMemoryRecordsKeepsNewest(t *testing.T) {
	ctx := context.Background()
	driver := newTestDriver(t)

	for i, id := range []string{"a", "b", "c", "d"} {
		_, err := driver.CreateMemoryRecord(ctx, &store.MemoryRecord{
			ID:        id,
			Text:      id,
			Embedding: []float32{1},
			CreatedTs: int64(100 + i),
		})
		require.NoError(t, err)
	}

	pruned, err := driver.PruneMemoryRecords(ctx, 2)
	require.NoError(t, err)
	require.EqualValues(t, 2, pruned)

	list, err := driver.ListMemoryRecords(ctx, &store.FindMemoryRecord{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "d", list[0].ID)
	require.Equal(t, "c", list[1].ID)
}

func TestRunCRUD(t *testing.T) {
	ctx := context.Background()
	driver := newTestDriver(t)

	created, err := driver.CreateRun(ctx, &store.Run{
		ID:    "run-1",
		State: "RECEIVED",
		Query: "plan my week",
	})
	require.NoError(t, err)
	require.NotZero(t, created.UpdatedTs)

	created.State = "AWAITING_CLARIFICATION"
	created.ResumeState = "MEAL"
	created.Clarification = "Any dietary preference?"
	_, err = driver.UpdateRun(ctx, created)
	require.NoError(t, err)

	fetched, err := driver.GetRun(ctx, "run-1")
	require.NoError(t, err)
	require.NotNil(t, fetched)
	require.Equal(t, "AWAITING_CLARIFICATION", fetched.State)
	require.Equal(t, "MEAL", fetched.ResumeState)
	require.Equal(t, "Any dietary preference?", fetched.Clarification)

	missing, err := driver.GetRun(ctx, "nope")
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestUpdateRunNotFound(t *testing.T) {
	ctx := context.Background()
	driver := newTestDriver(t)

	_, err := driver.UpdateRun(ctx, &store.Run{ID: "ghost", State: "DONE"})
	require.Error(t, err)
}

func TestCosineSimilarity(t *testing.T) {
	require.InDelta(t, 1.0, cosineSimilarity([]float32{1, 0}, []float32{1, 0}), 1e-6)
	require.InDelta(t, 0.0, cosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-6)
	require.Zero(t, cosineSimilarity([]float32{1, 0}, []float32{1}))
	require.Zero(t, cosineSimilarity([]float32{0, 0}, []float32{1, 0}))
}

func TestVectorBlobRoundTrip(t *testing.T) {
	vec := []float32{0.25, -1.5, 3.75}
	got, err := blobToFloat32Array(float32ArrayToBLOB(vec))
	require.NoError(t, err)
	require.Equal(t, vec, got)

	_, err = blobToFloat32Array([]byte{1, 2, 3})
	require.Error(t, err)
}
