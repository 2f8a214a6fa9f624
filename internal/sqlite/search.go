package sqlite

import (
	"context"

	"github.com/mesh-intelligence/plantcare/pkg/types"
)

// SearchPlants returns plants whose name or species contains query, ordered
// by name. Matching follows SQLite LIKE, which ignores ASCII case. An empty
// query matches every plant.
func (b *Backend) SearchPlants(ctx context.Context, query string) ([]types.Plant, error) {
	db, err := b.handle(ctx)
	if err != nil {
		return []types.Plant{}, b.readFailed("searching plants", err)
	}
	pattern := "%" + escapeLike(query) + "%"
	plants, err := queryAll(ctx, db, scanPlant,
		"SELECT "+plantColumns+` FROM plants
		 WHERE name LIKE ? ESCAPE '\' OR species LIKE ? ESCAPE '\'
		 ORDER BY name ASC, id ASC`,
		pattern, pattern)
	if err != nil {
		return plants, b.readFailed("searching plants for "+query, err)
	}
	return plants, nil
}

// GetPlantsPaginated returns at most limit plants starting at offset in the
// GetPlants ordering. A non-positive limit yields no rows; a negative offset
// is treated as zero.
func (b *Backend) GetPlantsPaginated(ctx context.Context, offset, limit int) ([]types.Plant, error) {
	if limit <= 0 {
		return []types.Plant{}, nil
	}
	if offset < 0 {
		offset = 0
	}
	db, err := b.handle(ctx)
	if err != nil {
		return []types.Plant{}, b.readFailed("paging plants", err)
	}
	plants, err := queryAll(ctx, db, scanPlant,
		"SELECT "+plantColumns+" FROM plants "+plantOrder+" LIMIT ? OFFSET ?",
		limit, offset)
	if err != nil {
		return plants, b.readFailed("paging plants", err)
	}
	return plants, nil
}

// GetPlantsCount returns the number of stored plants.
func (b *Backend) GetPlantsCount(ctx context.Context) (int, error) {
	db, err := b.handle(ctx)
	if err != nil {
		return 0, b.readFailed("counting plants", err)
	}
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM plants").Scan(&count); err != nil {
		return 0, b.readFailed("counting plants", err)
	}
	return count, nil
}

// escapeLike makes LIKE wildcards in s match literally.
func escapeLike(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch r {
		case '%', '_', '\\':
			out = append(out, '\\')
		}
		out = append(out, r)
	}
	return string(out)
}
