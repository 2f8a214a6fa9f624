package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mesh-intelligence/plantcare/pkg/types"
)

// plantColumns is the select list hydrated by scanPlant.
const plantColumns = "id, name, species, added_date, last_watered_date, watering_frequency, image_thumb, notes, sync_status"

// plantOrder is the canonical plant ordering: newest first, ties broken by
// id so pages never overlap.
const plantOrder = "ORDER BY added_date DESC, id DESC"

// AddPlant inserts p under a newly generated id and returns the stored
// record. Field values are stored as given.
func (b *Backend) AddPlant(ctx context.Context, p types.Plant) (types.Plant, error) {
	db, err := b.handle(ctx)
	if err != nil {
		return types.Plant{}, b.writeFailed("adding plant", err)
	}

	p.ID = b.newID()
	p.SyncStatus = 1
	_, err = db.ExecContext(ctx,
		`INSERT INTO plants (id, name, species, added_date, last_watered_date, watering_frequency, image_thumb, notes, sync_status)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Species, p.AddedDate, nullableString(p.LastWateredDate),
		p.WateringFrequency, nullableString(p.ImageThumb), p.Notes, p.SyncStatus,
	)
	if err != nil {
		return types.Plant{}, b.writeFailed("adding plant", err)
	}

	b.logger.Printf("plant added: %s", p.ID)
	return p, nil
}

// GetPlant returns the plant with the given id, or nil if there is none.
func (b *Backend) GetPlant(ctx context.Context, id string) (*types.Plant, error) {
	db, err := b.handle(ctx)
	if err != nil {
		return nil, b.readFailed("getting plant", err)
	}
	p, err := queryOne(ctx, db, scanPlant,
		"SELECT "+plantColumns+" FROM plants WHERE id = ?", id)
	if err != nil {
		return nil, b.readFailed("getting plant "+id, err)
	}
	return p, nil
}

// GetPlants returns every plant, newest first.
func (b *Backend) GetPlants(ctx context.Context) ([]types.Plant, error) {
	db, err := b.handle(ctx)
	if err != nil {
		return []types.Plant{}, b.readFailed("listing plants", err)
	}
	plants, err := queryAll(ctx, db, scanPlant,
		"SELECT "+plantColumns+" FROM plants "+plantOrder)
	if err != nil {
		return plants, b.readFailed("listing plants", err)
	}
	return plants, nil
}

// UpdatePlant applies the set fields of patch and marks the row as written.
// An empty patch executes nothing. Updating a missing id is not an error.
func (b *Backend) UpdatePlant(ctx context.Context, id string, patch types.PlantPatch) error {
	if patch.IsEmpty() {
		return nil
	}
	db, err := b.handle(ctx)
	if err != nil {
		return b.writeFailed("updating plant", err)
	}

	query, args := buildUpdate(types.TablePlants, plantAssignments(patch), id)
	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return b.writeFailed("updating plant "+id, err)
	}
	b.logger.Printf("plant updated: %s", id)
	return nil
}

// DeletePlant removes the plant and every watering record, moment, goal and
// note that references it. All five deletes commit together or not at all.
func (b *Backend) DeletePlant(ctx context.Context, id string) error {
	db, err := b.handle(ctx)
	if err != nil {
		return b.writeFailed("deleting plant", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return b.writeFailed("deleting plant "+id, fmt.Errorf("beginning transaction: %w", err))
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM plants WHERE id = ?", id); err != nil {
		return b.writeFailed("deleting plant "+id, err)
	}
	for _, table := range types.DependentTableNames {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE plant_id = ?", id); err != nil {
			return b.writeFailed("deleting plant "+id, fmt.Errorf("deleting %s: %w", table, err))
		}
	}

	if err := tx.Commit(); err != nil {
		return b.writeFailed("deleting plant "+id, fmt.Errorf("committing: %w", err))
	}

	b.logger.Printf("plant deleted: %s", id)
	return nil
}

// plantAssignments lists the columns set by patch in a fixed order.
func plantAssignments(p types.PlantPatch) []assignment {
	var sets []assignment
	if p.Name != nil {
		sets = append(sets, assignment{"name", *p.Name})
	}
	if p.Species != nil {
		sets = append(sets, assignment{"species", *p.Species})
	}
	if p.AddedDate != nil {
		sets = append(sets, assignment{"added_date", *p.AddedDate})
	}
	if p.LastWateredDate != nil {
		sets = append(sets, assignment{"last_watered_date", *p.LastWateredDate})
	}
	if p.WateringFrequency != nil {
		sets = append(sets, assignment{"watering_frequency", *p.WateringFrequency})
	}
	if p.ImageThumb != nil {
		sets = append(sets, assignment{"image_thumb", *p.ImageThumb})
	}
	if p.Notes != nil {
		sets = append(sets, assignment{"notes", *p.Notes})
	}
	return sets
}

// scanPlant hydrates one row selected with plantColumns.
func scanPlant(row rowScanner) (types.Plant, error) {
	var (
		p           types.Plant
		lastWatered sql.NullString
		thumb       sql.NullString
		notes       sql.NullString
		syncStatus  sql.NullInt64
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Species, &p.AddedDate, &lastWatered,
		&p.WateringFrequency, &thumb, &notes, &syncStatus); err != nil {
		return types.Plant{}, err
	}
	p.LastWateredDate = stringPtr(lastWatered)
	p.ImageThumb = stringPtr(thumb)
	p.Notes = notes.String
	p.SyncStatus = int(syncStatus.Int64)
	return p, nil
}
