package snapshot

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drkit/draudit/internal/audit"
	"github.com/drkit/draudit/internal/canonical"
	"github.com/drkit/draudit/internal/graph"
	"github.com/drkit/draudit/internal/testutil"
)

func sampleReport(runID string) *audit.Report {
	return &audit.Report{
		RunID:        runID,
		Timestamp:    time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC),
		ModelName:    "acme-platform",
		ModelVersion: "2.1.0",
		Layers:       []string{"motivation", "business"},
		Coverage: []audit.CoverageMetric{
			{LayerID: "motivation", TotalTypes: 2, IsolatedTypes: 1, IsolationPct: 50, Density: 1.5},
		},
		Gaps: []audit.Gap{
			{SourceType: "goal", DestinationType: "requirement", Predicate: "realizes", Priority: audit.PriorityHigh},
		},
		Duplicates: []audit.DuplicateCandidate{
			{RelationshipIDs: [2]string{"r1", "r2"}, Reason: audit.ReasonSamePredicate},
		},
		Balance: []audit.BalanceAssessment{
			{TypeID: "goal", Category: graph.CategoryStructural, Count: 3, Min: 2, Max: 4, Status: audit.StatusBalanced},
		},
		Connectivity: []audit.ConnectivityMetric{
			{Scope: "model", Components: 1, IsolatedNodes: 0, LargestComponent: 4, AverageDegree: 1.5},
		},
	}
}

func testStore(t *testing.T) (*Store, *testutil.ManualClock) {
	t.Helper()
	clock := testutil.NewManualClock(time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC))
	return New(t.TempDir(), WithClock(clock)), clock
}

func TestStore_SaveAssignsTimestampID(t *testing.T) {
	store, _ := testStore(t)
	meta, err := store.Save(sampleReport("run-1"))
	require.NoError(t, err)
	assert.Equal(t, "20260830-100000", meta.ID)
	assert.Equal(t, "acme-platform", meta.ModelName)
	assert.NotEmpty(t, meta.Fingerprint)
}

func TestStore_SaveLoadRoundTripsBytes(t *testing.T) {
	store, _ := testStore(t)
	report := sampleReport("run-1")

	meta, err := store.Save(report)
	require.NoError(t, err)

	loaded, err := store.Load(meta.ID)
	require.NoError(t, err)

	wantBytes, err := canonical.Marshal(report)
	require.NoError(t, err)
	gotBytes, err := canonical.Marshal(loaded)
	require.NoError(t, err)
	assert.Equal(t, string(wantBytes), string(gotBytes))

	onDisk, err := os.ReadFile(filepath.Join(store.Dir(), meta.ID+".json"))
	require.NoError(t, err)
	assert.Equal(t, string(wantBytes), string(onDisk), "stored bytes are the canonical form")
}

func TestStore_SameSecondSaveConflicts(t *testing.T) {
	store, clock := testStore(t)

	_, err := store.Save(sampleReport("run-1"))
	require.NoError(t, err)

	_, err = store.Save(sampleReport("run-2"))
	require.Error(t, err)
	assert.True(t, IsWriteConflict(err))

	clock.Advance(time.Second)
	_, err = store.Save(sampleReport("run-2"))
	require.NoError(t, err)
}

func TestStore_ListNewestFirst(t *testing.T) {
	store, clock := testStore(t)
	for i := 0; i < 3; i++ {
		_, err := store.Save(sampleReport("run"))
		require.NoError(t, err)
		clock.Advance(time.Minute)
	}

	metas, err := store.List()
	require.NoError(t, err)
	require.Len(t, metas, 3)
	assert.Equal(t, "20260830-100200", metas[0].ID)
	assert.Equal(t, "20260830-100100", metas[1].ID)
	assert.Equal(t, "20260830-100000", metas[2].ID)
}

func TestStore_ListEmptyDirMissing(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "never-created"))
	metas, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, metas)
}

func TestStore_LoadMissingListsAvailable(t *testing.T) {
	store, _ := testStore(t)
	_, err := store.Save(sampleReport("run-1"))
	require.NoError(t, err)

	_, err = store.Load("19990101-000000")
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Contains(t, err.Error(), "20260830-100000")
}

func TestStore_DeleteRemovesBothFiles(t *testing.T) {
	store, _ := testStore(t)
	meta, err := store.Save(sampleReport("run-1"))
	require.NoError(t, err)

	require.NoError(t, store.Delete(meta.ID))
	_, err = os.Stat(filepath.Join(store.Dir(), meta.ID+".json"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(store.Dir(), meta.ID+".meta.json"))
	assert.True(t, os.IsNotExist(err))

	err = store.Delete(meta.ID)
	assert.True(t, IsNotFound(err))
}

func TestStore_Clear(t *testing.T) {
	store, clock := testStore(t)
	for i := 0; i < 2; i++ {
		_, err := store.Save(sampleReport("run"))
		require.NoError(t, err)
		clock.Advance(time.Second)
	}

	n, err := store.Clear()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	metas, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, metas)
}

func TestStore_RetentionEvictsOldest(t *testing.T) {
	clock := testutil.NewManualClock(time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC))
	store := New(t.TempDir(), WithClock(clock), WithMaxSnapshots(2))

	for i := 0; i < 4; i++ {
		_, err := store.Save(sampleReport("run"))
		require.NoError(t, err)
		clock.Advance(time.Second)
	}

	metas, err := store.List()
	require.NoError(t, err)
	require.Len(t, metas, 2)
	assert.Equal(t, "20260830-100003", metas[0].ID)
	assert.Equal(t, "20260830-100002", metas[1].ID)
}

func TestStore_NoTempFilesLeftBehind(t *testing.T) {
	store, _ := testStore(t)
	_, err := store.Save(sampleReport("run-1"))
	require.NoError(t, err)

	entries, err := os.ReadDir(store.Dir())
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.Contains(e.Name(), ".tmp-"), "leftover temp file %s", e.Name())
	}
}
