package sqlite

import (
	"context"
	"fmt"

	"github.com/mesh-intelligence/plantcare/pkg/types"
)

// Schema DDL for all tables. Every statement is safe to run on an existing
// database. The layout is the on-disk contract shared with backup tooling.
const (
	createPlants = `CREATE TABLE IF NOT EXISTS plants (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    species TEXT NOT NULL,
    added_date TEXT NOT NULL,
    last_watered_date TEXT,
    watering_frequency INTEGER NOT NULL,
    image_thumb TEXT,
    notes TEXT,
    last_sync_date TEXT,
    sync_status INTEGER DEFAULT 0
);`

	createWateringHistory = `CREATE TABLE IF NOT EXISTS watering_history (
    id TEXT PRIMARY KEY,
    plant_id TEXT NOT NULL,
    watered_date TEXT NOT NULL,
    notes TEXT,
    sync_status INTEGER DEFAULT 0
);`

	createMoments = `CREATE TABLE IF NOT EXISTS moments (
    id TEXT PRIMARY KEY,
    plant_id TEXT NOT NULL,
    image TEXT NOT NULL,
    caption TEXT,
    date TEXT NOT NULL,
    sync_status INTEGER DEFAULT 0
);`

	createGoals = `CREATE TABLE IF NOT EXISTS goals (
    id TEXT PRIMARY KEY,
    plant_id TEXT NOT NULL,
    title TEXT NOT NULL,
    description TEXT,
    target_date TEXT,
    completed INTEGER DEFAULT 0,
    sync_status INTEGER DEFAULT 0
);`

	createPlantNotes = `CREATE TABLE IF NOT EXISTS plant_notes (
    id TEXT PRIMARY KEY,
    plant_id TEXT NOT NULL,
    note TEXT NOT NULL,
    date TEXT NOT NULL,
    sync_status INTEGER DEFAULT 0
);`
)

// Index DDL for the list and search queries.
const (
	idxPlantsAddedDate      = `CREATE INDEX IF NOT EXISTS idx_plants_added_date ON plants(added_date);`
	idxPlantsName           = `CREATE INDEX IF NOT EXISTS idx_plants_name ON plants(name);`
	idxWateringHistoryPlant = `CREATE INDEX IF NOT EXISTS idx_watering_history_plant ON watering_history(plant_id, watered_date);`
	idxMomentsPlant         = `CREATE INDEX IF NOT EXISTS idx_moments_plant ON moments(plant_id, date);`
	idxGoalsPlant           = `CREATE INDEX IF NOT EXISTS idx_goals_plant ON goals(plant_id, target_date);`
	idxPlantNotesPlant      = `CREATE INDEX IF NOT EXISTS idx_plant_notes_plant ON plant_notes(plant_id, date);`
)

// schemaDDL lists all CREATE TABLE statements, plants first.
var schemaDDL = []string{
	createPlants,
	createWateringHistory,
	createMoments,
	createGoals,
	createPlantNotes,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxPlantsAddedDate,
	idxPlantsName,
	idxWateringHistoryPlant,
	idxMomentsPlant,
	idxGoalsPlant,
	idxPlantNotesPlant,
}

// Initialize opens the database if needed and creates any missing table or
// index. It is safe to call on every start. Failures wrap
// ErrStorageUnavailable and are fatal for the session.
func (b *Backend) Initialize(ctx context.Context) error {
	db, err := b.handle(ctx)
	if err != nil {
		b.logger.Printf("initialize failed: %v", err)
		return err
	}

	for _, stmt := range append(append([]string{}, schemaDDL...), indexDDL...) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			b.logger.Printf("initialize failed: %v", err)
			return fmt.Errorf("%w: applying schema: %w", types.ErrStorageUnavailable, err)
		}
	}

	b.logger.Printf("database initialized")
	return nil
}
