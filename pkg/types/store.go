package types

import "context"

// Store is the record store used by the plant cache, the care helpers and
// the CLI.
//
// Writes return errors wrapping ErrWriteFailed. Reads never fail loudly: on a
// storage error they return an empty (non-nil) result together with an error
// wrapping ErrReadDegraded, so a caller may render the empty result and
// still report the reason. Point lookups return nil, nil when the record
// does not exist.
type Store interface {
	// Initialize creates the schema if absent. Idempotent.
	Initialize(ctx context.Context) error
	// Close releases the database handle.
	Close() error

	AddPlant(ctx context.Context, p Plant) (Plant, error)
	GetPlant(ctx context.Context, id string) (*Plant, error)
	GetPlants(ctx context.Context) ([]Plant, error)
	UpdatePlant(ctx context.Context, id string, patch PlantPatch) error
	DeletePlant(ctx context.Context, id string) error

	SearchPlants(ctx context.Context, query string) ([]Plant, error)
	GetPlantsPaginated(ctx context.Context, offset, limit int) ([]Plant, error)
	GetPlantsCount(ctx context.Context) (int, error)

	AddWateringRecord(ctx context.Context, plantID, notes string) (WateringRecord, error)
	GetWateringRecord(ctx context.Context, id string) (*WateringRecord, error)
	GetWateringHistory(ctx context.Context, plantID string) ([]WateringRecord, error)

	AddMoment(ctx context.Context, plantID, image, caption string) (Moment, error)
	GetMoment(ctx context.Context, id string) (*Moment, error)
	GetMoments(ctx context.Context, plantID string) ([]Moment, error)
	UpdateMoment(ctx context.Context, id string, patch MomentPatch) error
	DeleteMoment(ctx context.Context, id string) error

	AddGoal(ctx context.Context, plantID, title, description, targetDate string) (Goal, error)
	GetGoal(ctx context.Context, id string) (*Goal, error)
	GetGoals(ctx context.Context, plantID string) ([]Goal, error)
	UpdateGoal(ctx context.Context, id string, patch GoalPatch) error
	ToggleGoal(ctx context.Context, id string) error
	DeleteGoal(ctx context.Context, id string) error

	AddPlantNote(ctx context.Context, plantID, note string) (PlantNote, error)
	GetPlantNote(ctx context.Context, id string) (*PlantNote, error)
	GetPlantNotes(ctx context.Context, plantID string) ([]PlantNote, error)
	UpdatePlantNote(ctx context.Context, id string, patch NotePatch) error
	DeletePlantNote(ctx context.Context, id string) error
}

// Snapshotter copies every table to and from a directory of JSONL files.
// The local-directory sync target and the export/import commands use it.
type Snapshotter interface {
	Export(ctx context.Context, dir string) error
	Import(ctx context.Context, dir string) (int, error)
}
