package sqlite

import (
	"context"
	"database/sql"

	"github.com/mesh-intelligence/plantcare/pkg/types"
)

const momentColumns = "id, plant_id, image, caption, date"

// AddMoment records a photo moment for the plant, dated now.
func (b *Backend) AddMoment(ctx context.Context, plantID, image, caption string) (types.Moment, error) {
	db, err := b.handle(ctx)
	if err != nil {
		return types.Moment{}, b.writeFailed("adding moment", err)
	}

	m := types.Moment{
		ID:      b.newID(),
		PlantID: plantID,
		Image:   image,
		Caption: caption,
		Date:    b.timestamp(),
	}
	if _, err := db.ExecContext(ctx,
		"INSERT INTO moments (id, plant_id, image, caption, date, sync_status) VALUES (?, ?, ?, ?, ?, 1)",
		m.ID, m.PlantID, m.Image, m.Caption, m.Date,
	); err != nil {
		return types.Moment{}, b.writeFailed("adding moment", err)
	}

	b.logger.Printf("moment added: %s (plant %s)", m.ID, plantID)
	return m, nil
}

// GetMoment returns one moment, or nil if there is none.
func (b *Backend) GetMoment(ctx context.Context, id string) (*types.Moment, error) {
	db, err := b.handle(ctx)
	if err != nil {
		return nil, b.readFailed("getting moment", err)
	}
	m, err := queryOne(ctx, db, scanMoment,
		"SELECT "+momentColumns+" FROM moments WHERE id = ?", id)
	if err != nil {
		return nil, b.readFailed("getting moment "+id, err)
	}
	return m, nil
}

// GetMoments returns the plant's moments, most recent first.
func (b *Backend) GetMoments(ctx context.Context, plantID string) ([]types.Moment, error) {
	db, err := b.handle(ctx)
	if err != nil {
		return []types.Moment{}, b.readFailed("listing moments", err)
	}
	moments, err := queryAll(ctx, db, scanMoment,
		"SELECT "+momentColumns+" FROM moments WHERE plant_id = ? ORDER BY date DESC, id DESC", plantID)
	if err != nil {
		return moments, b.readFailed("listing moments for "+plantID, err)
	}
	return moments, nil
}

// UpdateMoment applies the set fields of patch.
func (b *Backend) UpdateMoment(ctx context.Context, id string, patch types.MomentPatch) error {
	if patch.IsEmpty() {
		return nil
	}
	db, err := b.handle(ctx)
	if err != nil {
		return b.writeFailed("updating moment", err)
	}

	var sets []assignment
	if patch.Image != nil {
		sets = append(sets, assignment{"image", *patch.Image})
	}
	if patch.Caption != nil {
		sets = append(sets, assignment{"caption", *patch.Caption})
	}
	if patch.Date != nil {
		sets = append(sets, assignment{"date", *patch.Date})
	}

	query, args := buildUpdate(types.TableMoments, sets, id)
	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return b.writeFailed("updating moment "+id, err)
	}
	return nil
}

// DeleteMoment removes one moment.
func (b *Backend) DeleteMoment(ctx context.Context, id string) error {
	db, err := b.handle(ctx)
	if err != nil {
		return b.writeFailed("deleting moment", err)
	}
	if _, err := db.ExecContext(ctx, "DELETE FROM moments WHERE id = ?", id); err != nil {
		return b.writeFailed("deleting moment "+id, err)
	}
	return nil
}

func scanMoment(row rowScanner) (types.Moment, error) {
	var (
		m       types.Moment
		caption sql.NullString
	)
	if err := row.Scan(&m.ID, &m.PlantID, &m.Image, &caption, &m.Date); err != nil {
		return types.Moment{}, err
	}
	m.Caption = caption.String
	return m, nil
}
