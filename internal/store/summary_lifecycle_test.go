package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSummaryLifecycle tests the store across a full import cycle: empty
// store, first import, re-import, and the run history around them.
func TestSummaryLifecycle(t *testing.T) {
	t.Parallel()

	t.Run("fresh store has no summary", func(t *testing.T) {
		t.Parallel()
		db := newTestDB(t)

		_, err := db.LoadSummary()
		assert.ErrorIs(t, err, ErrNoSummary)

		_, err = db.TargetDistribution()
		assert.ErrorIs(t, err, ErrNoSummary)

		_, err = db.SourcePoolSize()
		assert.ErrorIs(t, err, ErrNoSummary)

		_, err = db.ImportedAt()
		assert.ErrorIs(t, err, ErrNoSummary)

		runs, err := db.ListReportRuns(0)
		require.NoError(t, err)
		assert.Empty(t, runs)
	})

	t.Run("first import round-trips", func(t *testing.T) {
		t.Parallel()
		db := newTestDB(t)
		want := testSummary()

		require.NoError(t, db.ReplaceSummary(want))

		got, err := db.LoadSummary()
		require.NoError(t, err)
		assert.Equal(t, want, got)

		count, err := db.CountRecords()
		require.NoError(t, err)
		assert.Equal(t, len(want.Records), count)
	})

	t.Run("re-import replaces the previous records", func(t *testing.T) {
		t.Parallel()
		db := newTestDB(t)

		require.NoError(t, db.ReplaceSummary(testSummary()))

		second := testSummary()
		second.Records = second.Records[:1]
		second.SourcePoolSize = 12
		require.NoError(t, db.ReplaceSummary(second))

		got, err := db.LoadSummary()
		require.NoError(t, err)
		require.Len(t, got.Records, 1)
		assert.Equal(t, 12, got.SourcePoolSize)
	})

	t.Run("run history survives re-imports", func(t *testing.T) {
		t.Parallel()
		db := newTestDB(t)

		require.NoError(t, db.ReplaceSummary(testSummary()))
		_, err := db.RecordReportRun("reports/run1", 5)
		require.NoError(t, err)

		require.NoError(t, db.ReplaceSummary(testSummary()))
		_, err = db.RecordReportRun("reports/run2", 3)
		require.NoError(t, err)

		runs, err := db.ListReportRuns(10)
		require.NoError(t, err)
		assert.Len(t, runs, 2)
	})
}
