package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/plantcare/pkg/types"
)

// setupBackend creates an initialized Backend on a fresh database in a temp
// dir and closes it when the test ends.
func setupBackend(t *testing.T, opts ...Option) *Backend {
	t.Helper()
	b := NewBackend(types.Config{
		Backend: types.BackendSQLite,
		DataDir: t.TempDir(),
	}, opts...)
	require.NoError(t, b.Initialize(context.Background()))
	t.Cleanup(func() { b.Close() })
	return b
}

// steppingClock returns a clock that advances one second per call, starting
// at start.
func steppingClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	next := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now := next
		next = next.Add(time.Second)
		return now
	}
}

// dropTable removes a table behind the backend's back to simulate storage
// trouble.
func dropTable(t *testing.T, b *Backend, table string) {
	t.Helper()
	db, err := b.handle(context.Background())
	require.NoError(t, err)
	_, err = db.Exec("DROP TABLE " + table)
	require.NoError(t, err)
}

func TestInitializeIsIdempotent(t *testing.T) {
	ctx := context.Background()
	b := setupBackend(t)

	p, err := b.AddPlant(ctx, types.Plant{Name: "Fern", Species: "Boston Fern", AddedDate: "2024-01-01T00:00:00.000Z", WateringFrequency: 3})
	require.NoError(t, err)

	require.NoError(t, b.Initialize(ctx))
	require.NoError(t, b.Initialize(ctx))

	got, err := b.GetPlant(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got, "initialize must not drop existing rows")
}

func TestInitializeCreatesDatabaseFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	b := NewBackend(types.Config{Backend: types.BackendSQLite, DataDir: dir, DBName: "garden.db"})
	require.NoError(t, b.Initialize(context.Background()))
	defer b.Close()

	_, err := os.Stat(filepath.Join(dir, "garden.db"))
	assert.NoError(t, err)
}

func TestInitializeStorageUnavailable(t *testing.T) {
	tests := []struct {
		name   string
		config func(t *testing.T) types.Config
	}{
		{
			name: "data dir is a file",
			config: func(t *testing.T) types.Config {
				file := filepath.Join(t.TempDir(), "occupied")
				require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
				return types.Config{Backend: types.BackendSQLite, DataDir: filepath.Join(file, "sub")}
			},
		},
		{
			name: "unknown backend",
			config: func(t *testing.T) types.Config {
				return types.Config{Backend: "postgres", DataDir: t.TempDir()}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBackend(tt.config(t))
			err := b.Initialize(context.Background())
			require.Error(t, err)
			assert.ErrorIs(t, err, types.ErrStorageUnavailable)
		})
	}
}

func TestCloseIsIdempotentAndReopens(t *testing.T) {
	ctx := context.Background()
	b := setupBackend(t)

	p, err := b.AddPlant(ctx, types.Plant{Name: "Pothos", Species: "Epipremnum aureum", AddedDate: "2024-01-01T00:00:00.000Z", WateringFrequency: 7})
	require.NoError(t, err)

	require.NoError(t, b.Close())
	require.NoError(t, b.Close())

	got, err := b.GetPlant(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Pothos", got.Name)
}

func TestReadsDegradeWithTaggedError(t *testing.T) {
	ctx := context.Background()
	b := setupBackend(t)
	dropTable(t, b, types.TablePlants)

	plants, err := b.GetPlants(ctx)
	assert.ErrorIs(t, err, types.ErrReadDegraded)
	assert.NotNil(t, plants)
	assert.Empty(t, plants)

	page, err := b.GetPlantsPaginated(ctx, 0, 10)
	assert.ErrorIs(t, err, types.ErrReadDegraded)
	assert.Empty(t, page)

	found, err := b.SearchPlants(ctx, "fern")
	assert.ErrorIs(t, err, types.ErrReadDegraded)
	assert.Empty(t, found)

	count, err := b.GetPlantsCount(ctx)
	assert.ErrorIs(t, err, types.ErrReadDegraded)
	assert.Zero(t, count)

	p, err := b.GetPlant(ctx, "anything")
	assert.ErrorIs(t, err, types.ErrReadDegraded)
	assert.Nil(t, p)
}

func TestWritesPropagateFailure(t *testing.T) {
	ctx := context.Background()
	b := setupBackend(t)
	dropTable(t, b, types.TablePlants)

	_, err := b.AddPlant(ctx, types.Plant{Name: "Fern"})
	assert.ErrorIs(t, err, types.ErrWriteFailed)

	err = b.UpdatePlant(ctx, "some-id", types.PlantPatch{Name: types.Ptr("Renamed")})
	assert.ErrorIs(t, err, types.ErrWriteFailed)

	err = b.DeletePlant(ctx, "some-id")
	assert.ErrorIs(t, err, types.ErrWriteFailed)
}

func TestGenerateIDIsTimeOrdered(t *testing.T) {
	prev := generateID()
	for i := 0; i < 100; i++ {
		next := generateID()
		assert.Less(t, prev, next)
		prev = next
	}
}
