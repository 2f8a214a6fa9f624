package sqlite

import (
	"context"

	"github.com/mesh-intelligence/plantcare/pkg/types"
)

const noteColumns = "id, plant_id, note, date"

// AddPlantNote attaches a note to the plant, dated now.
func (b *Backend) AddPlantNote(ctx context.Context, plantID, note string) (types.PlantNote, error) {
	db, err := b.handle(ctx)
	if err != nil {
		return types.PlantNote{}, b.writeFailed("adding plant note", err)
	}

	n := types.PlantNote{
		ID:      b.newID(),
		PlantID: plantID,
		Note:    note,
		Date:    b.timestamp(),
	}
	if _, err := db.ExecContext(ctx,
		"INSERT INTO plant_notes (id, plant_id, note, date, sync_status) VALUES (?, ?, ?, ?, 1)",
		n.ID, n.PlantID, n.Note, n.Date,
	); err != nil {
		return types.PlantNote{}, b.writeFailed("adding plant note", err)
	}

	b.logger.Printf("plant note added: %s (plant %s)", n.ID, plantID)
	return n, nil
}

// GetPlantNote returns one note, or nil if there is none.
func (b *Backend) GetPlantNote(ctx context.Context, id string) (*types.PlantNote, error) {
	db, err := b.handle(ctx)
	if err != nil {
		return nil, b.readFailed("getting plant note", err)
	}
	n, err := queryOne(ctx, db, scanPlantNote,
		"SELECT "+noteColumns+" FROM plant_notes WHERE id = ?", id)
	if err != nil {
		return nil, b.readFailed("getting plant note "+id, err)
	}
	return n, nil
}

// GetPlantNotes returns the plant's notes, most recent first.
func (b *Backend) GetPlantNotes(ctx context.Context, plantID string) ([]types.PlantNote, error) {
	db, err := b.handle(ctx)
	if err != nil {
		return []types.PlantNote{}, b.readFailed("listing plant notes", err)
	}
	notes, err := queryAll(ctx, db, scanPlantNote,
		"SELECT "+noteColumns+" FROM plant_notes WHERE plant_id = ? ORDER BY date DESC, id DESC", plantID)
	if err != nil {
		return notes, b.readFailed("listing plant notes for "+plantID, err)
	}
	return notes, nil
}

// UpdatePlantNote applies the set fields of patch.
func (b *Backend) UpdatePlantNote(ctx context.Context, id string, patch types.NotePatch) error {
	if patch.IsEmpty() {
		return nil
	}
	db, err := b.handle(ctx)
	if err != nil {
		return b.writeFailed("updating plant note", err)
	}

	var sets []assignment
	if patch.Note != nil {
		sets = append(sets, assignment{"note", *patch.Note})
	}
	if patch.Date != nil {
		sets = append(sets, assignment{"date", *patch.Date})
	}

	query, args := buildUpdate(types.TablePlantNotes, sets, id)
	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return b.writeFailed("updating plant note "+id, err)
	}
	return nil
}

// DeletePlantNote removes one note.
func (b *Backend) DeletePlantNote(ctx context.Context, id string) error {
	db, err := b.handle(ctx)
	if err != nil {
		return b.writeFailed("deleting plant note", err)
	}
	if _, err := db.ExecContext(ctx, "DELETE FROM plant_notes WHERE id = ?", id); err != nil {
		return b.writeFailed("deleting plant note "+id, err)
	}
	return nil
}

func scanPlantNote(row rowScanner) (types.PlantNote, error) {
	var n types.PlantNote
	if err := row.Scan(&n.ID, &n.PlantID, &n.Note, &n.Date); err != nil {
		return types.PlantNote{}, err
	}
	return n, nil
}
