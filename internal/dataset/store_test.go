package dataset

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moonlight/internal/config"
	"moonlight/internal/shared/testutil"
)

func newTestStore(t *testing.T, dir string) *Store {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	paths := config.NewPaths(t.TempDir(), config.PathsConfig{DataDir: dir})
	return NewStore(DefaultRegistry(), paths, StoreOptions{CacheSize: 8, Logger: logger})
}

func TestLoadCountry(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteSampleDataset(t, dir)
	store := newTestStore(t, dir)
	ctx := context.Background()

	frame, err := store.LoadCountry(ctx, "sierra leone")
	require.NoError(t, err)
	assert.Equal(t, 4, frame.Len())
	assert.Equal(t, []string{"Sierra Leone"}, frame.CountryNames())

	again, err := store.LoadCountry(ctx, "SL")
	require.NoError(t, err)
	assert.Same(t, frame, again, "second load is served from cache")
}

func TestLoadCountryUnknown(t *testing.T) {
	store := newTestStore(t, t.TempDir())

	frame, err := store.LoadCountry(context.Background(), "Ghana")
	assert.NoError(t, err)
	assert.True(t, frame.Empty())
}

func TestLoadCountryMissingFile(t *testing.T) {
	store := newTestStore(t, t.TempDir())

	frame, err := store.LoadCountry(context.Background(), "Benin")
	assert.ErrorIs(t, err, ErrDataFileNotFound)
	assert.True(t, frame.Empty())
}

func TestLoadCountryMalformed(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "togo_clean.csv"), []byte("Timestamp,GHI\nnot-a-date,1\n"), 0o644))
	store := newTestStore(t, dir)

	frame, err := store.LoadCountry(context.Background(), "Togo")
	require.Error(t, err)
	var parseErr *ParseError
	assert.ErrorAs(t, err, &parseErr)
	assert.True(t, frame.Empty())
}

func TestLoadCountryReloadsChangedFile(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteCSV(t, dir, "benin_clean.csv", testutil.SampleColumns, testutil.SampleRows([]float64{1, 2}))
	store := newTestStore(t, dir)
	ctx := context.Background()

	first, err := store.LoadCountry(ctx, "Benin")
	require.NoError(t, err)
	assert.Equal(t, 2, first.Len())

	testutil.WriteCSV(t, dir, "benin_clean.csv", testutil.SampleColumns, testutil.SampleRows([]float64{1, 2, 3}))
	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(path, later, later))

	second, err := store.LoadCountry(ctx, "Benin")
	require.NoError(t, err)
	assert.Equal(t, 3, second.Len())
}

func TestLoadAll(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteSampleDataset(t, dir)
	store := newTestStore(t, dir)

	combined, err := store.LoadAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 12, combined.Len())
	assert.Equal(t, []string{"Benin", "Sierra Leone", "Togo"}, combined.CountryNames())
	assert.Equal(t, testutil.SampleStart, combined.Timestamps[4], "original timestamps are kept")
}

func TestLoadAllSelectionKeepsRegistryOrder(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteSampleDataset(t, dir)
	store := newTestStore(t, dir)

	combined, err := store.LoadAll(context.Background(), "Togo", "BJ", "Ghana")
	require.NoError(t, err)
	assert.Equal(t, []string{"Benin", "Togo"}, combined.CountryNames())
}

func TestLoadAllSkipsMissingCountry(t *testing.T) {
	dir := t.TempDir()
	for _, f := range []string{"benin_clean.csv", "togo_clean.csv"} {
		testutil.WriteCSV(t, dir, f, testutil.SampleColumns, testutil.SampleRows(testutil.SampleGHI[f]))
	}
	store := newTestStore(t, dir)

	combined, err := store.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Benin", "Togo"}, combined.CountryNames())
	assert.Equal(t, 8, combined.Len())
}

func TestLoadAllNothingAvailable(t *testing.T) {
	store := newTestStore(t, t.TempDir())

	combined, err := store.LoadAll(context.Background())
	require.NoError(t, err)
	assert.True(t, combined.Empty())
}

func TestLoadAllCancelled(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteSampleDataset(t, dir)
	store := newTestStore(t, dir)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.LoadAll(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStatusAndInvalidate(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteCSV(t, dir, "togo_clean.csv", testutil.SampleColumns, testutil.SampleRows([]float64{1}))
	store := newTestStore(t, dir)

	status := store.Status()
	require.Len(t, status, 3)
	assert.False(t, status[0].Available)
	assert.False(t, status[1].Available)
	assert.True(t, status[2].Available)
	assert.Equal(t, filepath.Join(dir, "togo_clean.csv"), status[2].Path)

	_, err := store.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Positive(t, store.Invalidate())
	assert.Zero(t, store.Invalidate())
}

func TestStatusSkipsUnreadableFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "benin_clean.csv"), nil, 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "togo_clean.csv"), 0755))
	store := newTestStore(t, dir)

	for _, st := range store.Status() {
		assert.False(t, st.Available, st.Name)
		assert.Empty(t, st.Path, st.Name)
	}
}
