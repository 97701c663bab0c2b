// Package repositories persists a local snapshot of the remote catalog in
// SQLite so listing and the TUI browser keep working offline.
//
// Rows are keyed by the server-assigned IDs; the cache is replaced
// wholesale by `distream cache sync` and never written back to the API.
package repositories

import (
	"database/sql"
	"fmt"
	"time"
)

// now is swapped in tests for deterministic cached_at values.
var now = time.Now

// PruneBefore deletes cache rows older than the given cutoff from the named
// table. Used by sync to drop entries the server no longer returns.
func PruneBefore(db *sql.DB, table string, cutoff time.Time) (int64, error) {
	switch table {
	case "movies", "genres":
	default:
		return 0, fmt.Errorf("unknown cache table: %s", table)
	}

	result, err := db.Exec(fmt.Sprintf("DELETE FROM %s WHERE cached_at < ?", table), cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune %s: %w", table, err)
	}

	return result.RowsAffected()
}
