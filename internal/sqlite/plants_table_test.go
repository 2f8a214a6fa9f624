package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/plantcare/pkg/types"
)

func fern() types.Plant {
	return types.Plant{
		Name:              "Fern",
		Species:           "Boston Fern",
		AddedDate:         "2024-01-01T00:00:00.000Z",
		WateringFrequency: 3,
	}
}

func TestAddPlant(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		plant types.Plant
	}{
		{"minimal plant", fern()},
		{
			name: "all fields",
			plant: types.Plant{
				Name:              "Monstera",
				Species:           "Monstera deliciosa",
				AddedDate:         "2024-02-10T08:30:00.000Z",
				LastWateredDate:   types.Ptr("2024-02-11T09:00:00.000Z"),
				WateringFrequency: 7,
				ImageThumb:        types.Ptr("file:///photos/monstera.jpg"),
				Notes:             "east window",
			},
		},
		{
			name:  "zero frequency stored as given",
			plant: types.Plant{Name: "Cactus", Species: "Cactaceae", AddedDate: "2024-03-01T00:00:00.000Z"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := setupBackend(t)

			added, err := b.AddPlant(ctx, tt.plant)
			require.NoError(t, err)
			assert.NotEmpty(t, added.ID)
			assert.Equal(t, 1, added.SyncStatus)

			got, err := b.GetPlant(ctx, added.ID)
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, added, *got)
		})
	}
}

func TestAddPlantGeneratesDistinctIDs(t *testing.T) {
	ctx := context.Background()
	b := setupBackend(t)

	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		p, err := b.AddPlant(ctx, fern())
		require.NoError(t, err)
		assert.False(t, seen[p.ID], "duplicate id %s", p.ID)
		seen[p.ID] = true
	}
}

func TestGetPlantMissing(t *testing.T) {
	b := setupBackend(t)

	got, err := b.GetPlant(context.Background(), "no-such-plant")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestGetPlantsOrdering(t *testing.T) {
	ctx := context.Background()
	b := setupBackend(t)

	dates := []string{
		"2024-01-02T00:00:00.000Z",
		"2024-03-05T00:00:00.000Z",
		"2023-12-31T00:00:00.000Z",
	}
	for _, d := range dates {
		p := fern()
		p.AddedDate = d
		_, err := b.AddPlant(ctx, p)
		require.NoError(t, err)
	}

	plants, err := b.GetPlants(ctx)
	require.NoError(t, err)
	require.Len(t, plants, 3)
	assert.Equal(t, "2024-03-05T00:00:00.000Z", plants[0].AddedDate)
	assert.Equal(t, "2024-01-02T00:00:00.000Z", plants[1].AddedDate)
	assert.Equal(t, "2023-12-31T00:00:00.000Z", plants[2].AddedDate)
}

func TestGetPlantsEmpty(t *testing.T) {
	b := setupBackend(t)

	plants, err := b.GetPlants(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, plants)
	assert.Empty(t, plants)
}

func TestUpdatePlant(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		seed  types.Plant
		patch types.PlantPatch
		check func(t *testing.T, before types.Plant, after types.Plant)
	}{
		{
			name:  "rename only",
			seed:  fern(),
			patch: types.PlantPatch{Name: types.Ptr("Sword Fern")},
			check: func(t *testing.T, before, after types.Plant) {
				assert.Equal(t, "Sword Fern", after.Name)
				assert.Equal(t, before.Species, after.Species)
				assert.Equal(t, before.AddedDate, after.AddedDate)
				assert.Equal(t, before.WateringFrequency, after.WateringFrequency)
			},
		},
		{
			name: "several fields",
			seed: fern(),
			patch: types.PlantPatch{
				Species:           types.Ptr("Nephrolepis exaltata"),
				WateringFrequency: types.Ptr(5),
				Notes:             types.Ptr("bathroom"),
			},
			check: func(t *testing.T, before, after types.Plant) {
				assert.Equal(t, before.Name, after.Name)
				assert.Equal(t, "Nephrolepis exaltata", after.Species)
				assert.Equal(t, 5, after.WateringFrequency)
				assert.Equal(t, "bathroom", after.Notes)
			},
		},
		{
			name: "clear nullable columns",
			seed: func() types.Plant {
				p := fern()
				p.LastWateredDate = types.Ptr("2024-01-02T00:00:00.000Z")
				p.ImageThumb = types.Ptr("file:///fern.jpg")
				return p
			}(),
			patch: types.PlantPatch{LastWateredDate: types.Null(), ImageThumb: types.Null()},
			check: func(t *testing.T, _, after types.Plant) {
				assert.Nil(t, after.LastWateredDate)
				assert.Nil(t, after.ImageThumb)
			},
		},
		{
			name:  "set nullable column",
			seed:  fern(),
			patch: types.PlantPatch{ImageThumb: types.NullOf("file:///new.jpg")},
			check: func(t *testing.T, _, after types.Plant) {
				require.NotNil(t, after.ImageThumb)
				assert.Equal(t, "file:///new.jpg", *after.ImageThumb)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := setupBackend(t)
			before, err := b.AddPlant(ctx, tt.seed)
			require.NoError(t, err)

			require.NoError(t, b.UpdatePlant(ctx, before.ID, tt.patch))

			after, err := b.GetPlant(ctx, before.ID)
			require.NoError(t, err)
			require.NotNil(t, after)
			assert.Equal(t, 1, after.SyncStatus)
			tt.check(t, before, *after)
		})
	}
}

func TestUpdatePlantEmptyPatchIsNoop(t *testing.T) {
	ctx := context.Background()
	b := setupBackend(t)

	before, err := b.AddPlant(ctx, fern())
	require.NoError(t, err)

	// Reset the marker so a stray UPDATE would show up.
	db, err := b.handle(ctx)
	require.NoError(t, err)
	_, err = db.Exec("UPDATE plants SET sync_status = 0 WHERE id = ?", before.ID)
	require.NoError(t, err)

	require.NoError(t, b.UpdatePlant(ctx, before.ID, types.PlantPatch{}))

	after, err := b.GetPlant(ctx, before.ID)
	require.NoError(t, err)
	require.NotNil(t, after)
	assert.Equal(t, 0, after.SyncStatus)
	assert.Equal(t, before.Name, after.Name)
}

func TestUpdatePlantMissingIsNotAnError(t *testing.T) {
	b := setupBackend(t)
	err := b.UpdatePlant(context.Background(), "ghost", types.PlantPatch{Name: types.Ptr("x")})
	assert.NoError(t, err)
}

func TestDeletePlantCascades(t *testing.T) {
	ctx := context.Background()
	b := setupBackend(t)

	keep, err := b.AddPlant(ctx, types.Plant{Name: "Pothos", Species: "Epipremnum", AddedDate: "2024-01-01T00:00:00.000Z", WateringFrequency: 7})
	require.NoError(t, err)
	doomed, err := b.AddPlant(ctx, fern())
	require.NoError(t, err)

	for _, p := range []types.Plant{keep, doomed} {
		_, err = b.AddWateringRecord(ctx, p.ID, "")
		require.NoError(t, err)
		_, err = b.AddMoment(ctx, p.ID, "file:///m.jpg", "new frond")
		require.NoError(t, err)
		_, err = b.AddGoal(ctx, p.ID, "Repot", "", "")
		require.NoError(t, err)
		_, err = b.AddPlantNote(ctx, p.ID, "looks happy")
		require.NoError(t, err)
	}

	require.NoError(t, b.DeletePlant(ctx, doomed.ID))

	got, err := b.GetPlant(ctx, doomed.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	db, err := b.handle(ctx)
	require.NoError(t, err)
	for _, table := range types.DependentTableNames {
		var n int
		require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM "+table+" WHERE plant_id = ?", doomed.ID).Scan(&n))
		assert.Zero(t, n, "rows left in %s", table)
		require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM "+table+" WHERE plant_id = ?", keep.ID).Scan(&n))
		assert.Equal(t, 1, n, "sibling rows lost in %s", table)
	}
}

func TestDeletePlantRollsBackOnFailure(t *testing.T) {
	ctx := context.Background()
	b := setupBackend(t)

	p, err := b.AddPlant(ctx, fern())
	require.NoError(t, err)
	_, err = b.AddWateringRecord(ctx, p.ID, "")
	require.NoError(t, err)

	dropTable(t, b, types.TablePlantNotes)

	err = b.DeletePlant(ctx, p.ID)
	require.ErrorIs(t, err, types.ErrWriteFailed)

	got, err := b.GetPlant(ctx, p.ID)
	require.NoError(t, err)
	assert.NotNil(t, got, "plant must survive a failed cascade")
	history, err := b.GetWateringHistory(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestDeletePlantMissingIsNotAnError(t *testing.T) {
	b := setupBackend(t)
	assert.NoError(t, b.DeletePlant(context.Background(), "ghost"))
}

func TestFernLifecycle(t *testing.T) {
	ctx := context.Background()
	clock := steppingClock(time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC))
	b := setupBackend(t, WithClock(clock))

	p, err := b.AddPlant(ctx, fern())
	require.NoError(t, err)

	rec, err := b.AddWateringRecord(ctx, p.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-05T10:00:00.000Z", rec.WateredDate)

	got, err := b.GetPlant(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.NotNil(t, got.LastWateredDate)
	assert.Equal(t, rec.WateredDate, *got.LastWateredDate)

	history, err := b.GetWateringHistory(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, rec, history[0])

	require.NoError(t, b.DeletePlant(ctx, p.ID))

	plants, err := b.GetPlants(ctx)
	require.NoError(t, err)
	assert.Empty(t, plants)
	history, err = b.GetWateringHistory(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, history)
}
