package sqlite

import (
	"context"
	"database/sql"

	"github.com/mesh-intelligence/plantcare/pkg/types"
)

const goalColumns = "id, plant_id, title, description, target_date, completed"

// AddGoal creates an open goal for the plant. targetDate may be empty.
func (b *Backend) AddGoal(ctx context.Context, plantID, title, description, targetDate string) (types.Goal, error) {
	db, err := b.handle(ctx)
	if err != nil {
		return types.Goal{}, b.writeFailed("adding goal", err)
	}

	g := types.Goal{
		ID:          b.newID(),
		PlantID:     plantID,
		Title:       title,
		Description: description,
		TargetDate:  targetDate,
	}
	if _, err := db.ExecContext(ctx,
		"INSERT INTO goals (id, plant_id, title, description, target_date, completed, sync_status) VALUES (?, ?, ?, ?, ?, 0, 1)",
		g.ID, g.PlantID, g.Title, g.Description, g.TargetDate,
	); err != nil {
		return types.Goal{}, b.writeFailed("adding goal", err)
	}

	b.logger.Printf("goal added: %s (plant %s)", g.ID, plantID)
	return g, nil
}

// GetGoal returns one goal, or nil if there is none.
func (b *Backend) GetGoal(ctx context.Context, id string) (*types.Goal, error) {
	db, err := b.handle(ctx)
	if err != nil {
		return nil, b.readFailed("getting goal", err)
	}
	g, err := queryOne(ctx, db, scanGoal,
		"SELECT "+goalColumns+" FROM goals WHERE id = ?", id)
	if err != nil {
		return nil, b.readFailed("getting goal "+id, err)
	}
	return g, nil
}

// GetGoals returns the plant's goals by target date, earliest first. Goals
// without a target date sort first, as SQLite orders NULL and "" lowest.
func (b *Backend) GetGoals(ctx context.Context, plantID string) ([]types.Goal, error) {
	db, err := b.handle(ctx)
	if err != nil {
		return []types.Goal{}, b.readFailed("listing goals", err)
	}
	goals, err := queryAll(ctx, db, scanGoal,
		"SELECT "+goalColumns+" FROM goals WHERE plant_id = ? ORDER BY target_date ASC, id ASC", plantID)
	if err != nil {
		return goals, b.readFailed("listing goals for "+plantID, err)
	}
	return goals, nil
}

// UpdateGoal applies the set fields of patch and marks the row as written.
func (b *Backend) UpdateGoal(ctx context.Context, id string, patch types.GoalPatch) error {
	if patch.IsEmpty() {
		return nil
	}
	db, err := b.handle(ctx)
	if err != nil {
		return b.writeFailed("updating goal", err)
	}

	var sets []assignment
	if patch.Title != nil {
		sets = append(sets, assignment{"title", *patch.Title})
	}
	if patch.Description != nil {
		sets = append(sets, assignment{"description", *patch.Description})
	}
	if patch.TargetDate != nil {
		sets = append(sets, assignment{"target_date", *patch.TargetDate})
	}
	if patch.Completed != nil {
		sets = append(sets, assignment{"completed", boolToInt(*patch.Completed)})
	}

	query, args := buildUpdate(types.TableGoals, sets, id)
	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return b.writeFailed("updating goal "+id, err)
	}
	b.logger.Printf("goal updated: %s", id)
	return nil
}

// ToggleGoal flips the goal's completed flag in place.
func (b *Backend) ToggleGoal(ctx context.Context, id string) error {
	db, err := b.handle(ctx)
	if err != nil {
		return b.writeFailed("toggling goal", err)
	}
	if _, err := db.ExecContext(ctx,
		"UPDATE goals SET completed = CASE WHEN completed = 1 THEN 0 ELSE 1 END, sync_status = 1 WHERE id = ?", id,
	); err != nil {
		return b.writeFailed("toggling goal "+id, err)
	}
	return nil
}

// DeleteGoal removes one goal.
func (b *Backend) DeleteGoal(ctx context.Context, id string) error {
	db, err := b.handle(ctx)
	if err != nil {
		return b.writeFailed("deleting goal", err)
	}
	if _, err := db.ExecContext(ctx, "DELETE FROM goals WHERE id = ?", id); err != nil {
		return b.writeFailed("deleting goal "+id, err)
	}
	return nil
}

// scanGoal hydrates a goal row. completed is read as an integer and any
// non-zero value counts as done.
func scanGoal(row rowScanner) (types.Goal, error) {
	var (
		g           types.Goal
		description sql.NullString
		targetDate  sql.NullString
		completed   sql.NullInt64
	)
	if err := row.Scan(&g.ID, &g.PlantID, &g.Title, &description, &targetDate, &completed); err != nil {
		return types.Goal{}, err
	}
	g.Description = description.String
	g.TargetDate = targetDate.String
	g.Completed = completed.Int64 != 0
	return g, nil
}
