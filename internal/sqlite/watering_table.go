package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mesh-intelligence/plantcare/pkg/types"
)

const wateringColumns = "id, plant_id, watered_date, notes"

// AddWateringRecord logs a watering of the plant now and stamps the plant's
// last_watered_date with the same timestamp. Both writes share one
// transaction.
func (b *Backend) AddWateringRecord(ctx context.Context, plantID, notes string) (types.WateringRecord, error) {
	db, err := b.handle(ctx)
	if err != nil {
		return types.WateringRecord{}, b.writeFailed("adding watering record", err)
	}

	rec := types.WateringRecord{
		ID:          b.newID(),
		PlantID:     plantID,
		WateredDate: b.timestamp(),
		Notes:       notes,
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return types.WateringRecord{}, b.writeFailed("adding watering record", fmt.Errorf("beginning transaction: %w", err))
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO watering_history (id, plant_id, watered_date, notes, sync_status) VALUES (?, ?, ?, ?, 1)",
		rec.ID, rec.PlantID, rec.WateredDate, rec.Notes,
	); err != nil {
		return types.WateringRecord{}, b.writeFailed("adding watering record", err)
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE plants SET last_watered_date = ?, sync_status = 1 WHERE id = ?",
		rec.WateredDate, plantID,
	); err != nil {
		return types.WateringRecord{}, b.writeFailed("stamping last watered date", err)
	}

	if err := tx.Commit(); err != nil {
		return types.WateringRecord{}, b.writeFailed("adding watering record", fmt.Errorf("committing: %w", err))
	}

	b.logger.Printf("watering record added: %s (plant %s)", rec.ID, plantID)
	return rec, nil
}

// GetWateringRecord returns one watering record, or nil if there is none.
func (b *Backend) GetWateringRecord(ctx context.Context, id string) (*types.WateringRecord, error) {
	db, err := b.handle(ctx)
	if err != nil {
		return nil, b.readFailed("getting watering record", err)
	}
	rec, err := queryOne(ctx, db, scanWateringRecord,
		"SELECT "+wateringColumns+" FROM watering_history WHERE id = ?", id)
	if err != nil {
		return nil, b.readFailed("getting watering record "+id, err)
	}
	return rec, nil
}

// GetWateringHistory returns the plant's watering log, most recent first.
func (b *Backend) GetWateringHistory(ctx context.Context, plantID string) ([]types.WateringRecord, error) {
	db, err := b.handle(ctx)
	if err != nil {
		return []types.WateringRecord{}, b.readFailed("listing watering history", err)
	}
	recs, err := queryAll(ctx, db, scanWateringRecord,
		"SELECT "+wateringColumns+" FROM watering_history WHERE plant_id = ? ORDER BY watered_date DESC, id DESC",
		plantID)
	if err != nil {
		return recs, b.readFailed("listing watering history for "+plantID, err)
	}
	return recs, nil
}

func scanWateringRecord(row rowScanner) (types.WateringRecord, error) {
	var (
		r     types.WateringRecord
		notes sql.NullString
	)
	if err := row.Scan(&r.ID, &r.PlantID, &r.WateredDate, &notes); err != nil {
		return types.WateringRecord{}, err
	}
	r.Notes = notes.String
	return r, nil
}
