package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/plantcare/pkg/types"
)

func TestAddWateringRecordStampsPlant(t *testing.T) {
	ctx := context.Background()
	b := setupBackend(t)

	p, err := b.AddPlant(ctx, fern())
	require.NoError(t, err)

	before := time.Now().Add(-time.Second)
	rec, err := b.AddWateringRecord(ctx, p.ID, "deep soak")
	require.NoError(t, err)
	after := time.Now().Add(time.Second)

	assert.Equal(t, p.ID, rec.PlantID)
	assert.Equal(t, "deep soak", rec.Notes)
	watered, err := types.ParseTimestamp(rec.WateredDate)
	require.NoError(t, err)
	assert.True(t, watered.After(before) && watered.Before(after), "watered at %s", rec.WateredDate)

	got, err := b.GetPlant(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.NotNil(t, got.LastWateredDate)
	assert.Equal(t, rec.WateredDate, *got.LastWateredDate)

	stored, err := b.GetWateringRecord(ctx, rec.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, rec, *stored)
}

func TestAddWateringRecordRollsBackOnFailure(t *testing.T) {
	ctx := context.Background()
	b := setupBackend(t)
	dropTable(t, b, types.TablePlants)

	_, err := b.AddWateringRecord(ctx, "plant-1", "")
	require.ErrorIs(t, err, types.ErrWriteFailed)

	history, err := b.GetWateringHistory(ctx, "plant-1")
	require.NoError(t, err)
	assert.Empty(t, history, "history insert must roll back with the stamp")
}

func TestWateringHistoryMostRecentFirst(t *testing.T) {
	ctx := context.Background()
	clock := steppingClock(time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC))
	b := setupBackend(t, WithClock(clock))

	p, err := b.AddPlant(ctx, fern())
	require.NoError(t, err)
	other, err := b.AddPlant(ctx, fern())
	require.NoError(t, err)

	var ids []string
	for i := 0; i < 3; i++ {
		rec, err := b.AddWateringRecord(ctx, p.ID, "")
		require.NoError(t, err)
		ids = append(ids, rec.ID)
	}
	_, err = b.AddWateringRecord(ctx, other.ID, "")
	require.NoError(t, err)

	history, err := b.GetWateringHistory(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, ids[2], history[0].ID)
	assert.Equal(t, ids[1], history[1].ID)
	assert.Equal(t, ids[0], history[2].ID)

	got, err := b.GetPlant(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, history[0].WateredDate, *got.LastWateredDate)
}

func TestMoments(t *testing.T) {
	ctx := context.Background()
	clock := steppingClock(time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC))
	b := setupBackend(t, WithClock(clock))

	p, err := b.AddPlant(ctx, fern())
	require.NoError(t, err)

	first, err := b.AddMoment(ctx, p.ID, "file:///a.jpg", "first frond")
	require.NoError(t, err)
	second, err := b.AddMoment(ctx, p.ID, "file:///b.jpg", "")
	require.NoError(t, err)

	moments, err := b.GetMoments(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, moments, 2)
	assert.Equal(t, second, moments[0])
	assert.Equal(t, first, moments[1])

	require.NoError(t, b.UpdateMoment(ctx, first.ID, types.MomentPatch{Caption: types.Ptr("unfurled")}))
	got, err := b.GetMoment(ctx, first.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "unfurled", got.Caption)
	assert.Equal(t, first.Image, got.Image)

	require.NoError(t, b.DeleteMoment(ctx, second.ID))
	got, err = b.GetMoment(ctx, second.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestGoals(t *testing.T) {
	ctx := context.Background()
	b := setupBackend(t)

	p, err := b.AddPlant(ctx, fern())
	require.NoError(t, err)

	later, err := b.AddGoal(ctx, p.ID, "Repot", "bigger pot", "2024-09-01")
	require.NoError(t, err)
	sooner, err := b.AddGoal(ctx, p.ID, "Fertilize", "", "2024-07-01")
	require.NoError(t, err)
	assert.False(t, later.Completed)

	goals, err := b.GetGoals(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, goals, 2)
	assert.Equal(t, sooner.ID, goals[0].ID)
	assert.Equal(t, later.ID, goals[1].ID)

	require.NoError(t, b.ToggleGoal(ctx, later.ID))
	got, err := b.GetGoal(ctx, later.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Completed)

	require.NoError(t, b.ToggleGoal(ctx, later.ID))
	got, err = b.GetGoal(ctx, later.ID)
	require.NoError(t, err)
	assert.False(t, got.Completed)

	require.NoError(t, b.UpdateGoal(ctx, sooner.ID, types.GoalPatch{
		Title:     types.Ptr("Fertilize lightly"),
		Completed: types.Ptr(true),
	}))
	got, err = b.GetGoal(ctx, sooner.ID)
	require.NoError(t, err)
	assert.Equal(t, "Fertilize lightly", got.Title)
	assert.True(t, got.Completed)
	assert.Equal(t, "2024-07-01", got.TargetDate)

	require.NoError(t, b.DeleteGoal(ctx, sooner.ID))
	goals, err = b.GetGoals(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, goals, 1)
}

func TestGoalCompletedNormalizesStoredIntegers(t *testing.T) {
	ctx := context.Background()
	b := setupBackend(t)

	db, err := b.handle(ctx)
	require.NoError(t, err)
	_, err = db.Exec("INSERT INTO goals (id, plant_id, title, completed) VALUES ('g1', 'p1', 'Mist', 2), ('g2', 'p1', 'Prune', 0)")
	require.NoError(t, err)

	g1, err := b.GetGoal(ctx, "g1")
	require.NoError(t, err)
	assert.True(t, g1.Completed)
	g2, err := b.GetGoal(ctx, "g2")
	require.NoError(t, err)
	assert.False(t, g2.Completed)
}

func TestPlantNotes(t *testing.T) {
	ctx := context.Background()
	clock := steppingClock(time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC))
	b := setupBackend(t, WithClock(clock))

	p, err := b.AddPlant(ctx, fern())
	require.NoError(t, err)

	older, err := b.AddPlantNote(ctx, p.ID, "yellow leaf")
	require.NoError(t, err)
	newer, err := b.AddPlantNote(ctx, p.ID, "new growth")
	require.NoError(t, err)

	notes, err := b.GetPlantNotes(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, notes, 2)
	assert.Equal(t, newer, notes[0])
	assert.Equal(t, older, notes[1])

	require.NoError(t, b.UpdatePlantNote(ctx, older.ID, types.NotePatch{Note: types.Ptr("yellow leaf, removed")}))
	got, err := b.GetPlantNote(ctx, older.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "yellow leaf, removed", got.Note)

	require.NoError(t, b.DeletePlantNote(ctx, older.ID))
	notes, err = b.GetPlantNotes(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, notes, 1)
}

func TestListsForUnknownPlantAreEmpty(t *testing.T) {
	ctx := context.Background()
	b := setupBackend(t)

	history, err := b.GetWateringHistory(ctx, "ghost")
	require.NoError(t, err)
	assert.NotNil(t, history)
	moments, err := b.GetMoments(ctx, "ghost")
	require.NoError(t, err)
	assert.NotNil(t, moments)
	goals, err := b.GetGoals(ctx, "ghost")
	require.NoError(t, err)
	assert.NotNil(t, goals)
	notes, err := b.GetPlantNotes(ctx, "ghost")
	require.NoError(t, err)
	assert.NotNil(t, notes)
}
