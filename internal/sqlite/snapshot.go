package sqlite

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/mesh-intelligence/plantcare/pkg/types"
)

// maxSnapshotLine bounds one JSONL row. Moments carry image URIs, so rows can
// be longer than bufio's default token size.
const maxSnapshotLine = 4 << 20

// row is one table row keyed by column name, as stored in a snapshot file.
type row map[string]any

// snapshotTables maps each table to its backup file and column list, plants
// first.
var snapshotTables = []struct {
	table   string
	file    string
	columns []string
}{
	{types.TablePlants, "plants.jsonl", []string{"id", "name", "species", "added_date", "last_watered_date", "watering_frequency", "image_thumb", "notes", "last_sync_date", "sync_status"}},
	{types.TableWateringHistory, "watering_history.jsonl", []string{"id", "plant_id", "watered_date", "notes", "sync_status"}},
	{types.TableMoments, "moments.jsonl", []string{"id", "plant_id", "image", "caption", "date", "sync_status"}},
	{types.TableGoals, "goals.jsonl", []string{"id", "plant_id", "title", "description", "target_date", "completed", "sync_status"}},
	{types.TablePlantNotes, "plant_notes.jsonl", []string{"id", "plant_id", "note", "date", "sync_status"}},
}

// SnapshotFiles lists the file names Export writes, in table order.
func SnapshotFiles() []string {
	files := make([]string, len(snapshotTables))
	for i, t := range snapshotTables {
		files[i] = t.file
	}
	return files
}

// Export writes every table to dir as one JSONL file per table. Each file is
// replaced atomically. Rows are written as column-keyed objects.
func (b *Backend) Export(ctx context.Context, dir string) error {
	db, err := b.handle(ctx)
	if err != nil {
		return fmt.Errorf("exporting: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating export dir: %w", err)
	}

	for _, t := range snapshotTables {
		rows, err := selectRows(ctx, db, t.table, t.columns)
		if err != nil {
			return fmt.Errorf("exporting %s: %w", t.table, err)
		}
		if err := saveRows(filepath.Join(dir, t.file), rows); err != nil {
			return fmt.Errorf("writing %s: %w", t.file, err)
		}
		b.logger.Printf("exported %d rows from %s", len(rows), t.table)
	}
	return nil
}

// selectRows reads every row of table, ordered by id.
func selectRows(ctx context.Context, q querier, table string, columns []string) ([]row, error) {
	rs, err := q.QueryContext(ctx,
		fmt.Sprintf("SELECT %s FROM %s ORDER BY id", strings.Join(columns, ", "), table))
	if err != nil {
		return nil, err
	}
	defer rs.Close()

	var rows []row
	values := make([]any, len(columns))
	dest := make([]any, len(columns))
	for i := range values {
		dest[i] = &values[i]
	}
	for rs.Next() {
		if err := rs.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		r := make(row, len(columns))
		for i, col := range columns {
			if raw, ok := values[i].([]byte); ok {
				r[col] = string(raw)
				continue
			}
			r[col] = values[i]
		}
		rows = append(rows, r)
	}
	if err := rs.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}
	return rows, nil
}

// saveRows writes rows to path, one JSON object per line. The file appears
// under its final name only once fully written and synced.
func saveRows(path string, rows []row) (err error) {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(f.Name())
		}
	}()

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	for _, r := range rows {
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encoding row %v: %w", r["id"], err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing %s: %w", path, err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("syncing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return os.Rename(f.Name(), path)
}

// loadRows reads the rows of a snapshot file. Blank lines and lines that are
// not a JSON object are skipped. A missing file yields an error wrapping
// os.ErrNotExist.
func loadRows(path string) ([]row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var rows []row
	sc := bufio.NewScanner(f)
	sc.Buffer(nil, maxSnapshotLine)
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		var r row
		if err := json.Unmarshal(line, &r); err != nil || r == nil {
			continue
		}
		rows = append(rows, r)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return rows, nil
}

// Import loads the JSONL files in dir written by Export. Rows replace any
// existing row with the same id. A missing file counts as an empty table.
// Malformed lines, rows without an id and rows that violate a column
// constraint are skipped. Any other failure aborts the import and nothing is
// written. All tables load in one transaction. Import returns the number of
// rows written.
func (b *Backend) Import(ctx context.Context, dir string) (int, error) {
	if err := b.Initialize(ctx); err != nil {
		return 0, err
	}
	db, err := b.handle(ctx)
	if err != nil {
		return 0, b.writeFailed("importing", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, b.writeFailed("importing", fmt.Errorf("beginning transaction: %w", err))
	}
	defer tx.Rollback()

	total := 0
	for _, t := range snapshotTables {
		rows, err := loadRows(filepath.Join(dir, t.file))
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return 0, b.writeFailed("importing "+t.table, err)
		}
		n, skipped, err := upsertRows(ctx, tx, t.table, t.columns, rows)
		if err != nil {
			return 0, b.writeFailed("importing "+t.table, err)
		}
		b.logger.Printf("imported %d rows into %s (%d skipped)", n, t.table, skipped)
		total += n
	}

	if err := tx.Commit(); err != nil {
		return 0, b.writeFailed("importing", fmt.Errorf("committing: %w", err))
	}
	return total, nil
}

// upsertRows writes rows into table with INSERT OR REPLACE. Keys outside
// columns are ignored and absent columns are stored as NULL. Rows without an
// id or rejected by a constraint are counted as skipped; any other error is
// returned.
func upsertRows(ctx context.Context, q querier, table string, columns []string, rows []row) (written, skipped int, err error) {
	stmt := fmt.Sprintf("INSERT OR REPLACE INTO %s (%s) VALUES (%s)",
		table, strings.Join(columns, ", "),
		strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", "))

	args := make([]any, len(columns))
	for _, r := range rows {
		if id, _ := r["id"].(string); id == "" {
			skipped++
			continue
		}
		for i, col := range columns {
			args[i] = r[col]
		}
		if _, err := q.ExecContext(ctx, stmt, args...); err != nil {
			if isConstraintError(err) {
				skipped++
				continue
			}
			return written, skipped, fmt.Errorf("row %v: %w", r["id"], err)
		}
		written++
	}
	return written, skipped, nil
}

// isConstraintError reports whether err is a SQLite constraint violation,
// such as a NULL in a NOT NULL column.
func isConstraintError(err error) bool {
	var se *msqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.Code()&0xff == sqlite3.SQLITE_CONSTRAINT
}
