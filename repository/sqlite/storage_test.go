package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"problemtracker/internal/domain/errors"
	"problemtracker/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	storage, err := NewStorage(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = storage.Close() })
	return storage
}

func strPtr(s string) *string { return &s }

func TestStorageProblemLifecycle(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	p := &models.Problem{
		Title:        "Two Sum",
		Topic:        "Arrays",
		Difficulty:   1,
		Status:       models.StatusNotStarted,
		DeadlineDate: strPtr("2025-12-31"),
	}
	require.NoError(t, storage.CreateProblem(ctx, p))
	require.NotEmpty(t, p.ID)

	got, err := storage.GetProblemByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, *p, *got)

	require.NoError(t, storage.UpdateStatus(ctx, p.ID, models.StatusCompleted))
	got, err = storage.GetProblemByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, got.Status)
	assert.Equal(t, "Arrays", got.Topic)

	require.NoError(t, storage.DeleteProblem(ctx, p.ID))
	_, err = storage.GetProblemByID(ctx, p.ID)
	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func TestStorageListProblemsOrdering(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	inputs := []models.Problem{
		{Title: "hard", Difficulty: 3, Status: models.StatusNotStarted},
		{Title: "easy none", Difficulty: 1, Status: models.StatusNotStarted},
		{Title: "easy late", Difficulty: 1, Status: models.StatusNotStarted, DeadlineDate: strPtr("2025-05-01")},
		{Title: "easy early", Difficulty: 1, Status: models.StatusNotStarted, DeadlineDate: strPtr("2025-01-01")},
	}
	for i := range inputs {
		require.NoError(t, storage.CreateProblem(ctx, &inputs[i]))
	}

	got, err := storage.ListProblems(ctx)
	require.NoError(t, err)

	titles := make([]string, 0, len(got))
	for _, p := range got {
		titles = append(titles, p.Title)
	}
	assert.Equal(t, []string{"easy early", "easy late", "easy none", "hard"}, titles)
	assert.Nil(t, got[2].DeadlineDate)
}

func TestStorageListProblemsEmpty(t *testing.T) {
	storage := newTestStorage(t)

	got, err := storage.ListProblems(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestStorageMissingProblem(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	_, err := storage.GetProblemByID(ctx, "missing")
	assert.ErrorIs(t, err, errors.ErrNotFound)
	assert.ErrorIs(t, storage.UpdateStatus(ctx, "missing", models.StatusCompleted), errors.ErrNotFound)
	assert.ErrorIs(t, storage.DeleteProblem(ctx, "missing"), errors.ErrNotFound)
}

func TestStoragePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "problems.db")
	ctx := context.Background()

	first, err := NewStorage(path)
	require.NoError(t, err)
	p := &models.Problem{Title: "Two Sum", Difficulty: 1, Status: models.StatusNotStarted}
	require.NoError(t, first.CreateProblem(ctx, p))
	require.NoError(t, first.Close())

	second, err := NewStorage(path)
	require.NoError(t, err)
	defer second.Close()

	got, err := second.GetProblemByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Two Sum", got.Title)
}
