package storage

import "fmt"

// DeleteOlderThan deletes samples whose timestamp is before the given unix
// epoch. Returns the number of deleted rows.
func (d *DB) DeleteOlderThan(before int64) (int64, error) {
	tx, err := d.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}

	res, err := tx.Exec("DELETE FROM battery_samples WHERE timestamp < ?", before)
	if err != nil {
		tx.Rollback()
		return 0, fmt.Errorf("delete from battery_samples: %w", err)
	}
	n, _ := res.RowsAffected()

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return n, nil
}
