package index

import (
	"fmt"
	"time"
)

// RecordRow represents a searchable record in the index.
type RecordRow struct {
	Kind      string
	ID        string
	Title     string
	Checksum  string
	UpdatedAt time.Time
}

// SearchResult represents one search hit.
type SearchResult struct {
	Kind    string `json:"kind"`
	ID      string `json:"id"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

// Key returns the composite identity used for checksum reconciliation.
func (r RecordRow) Key() string { return r.Kind + "/" + r.ID }

// Upsert inserts or replaces a record and its FTS entry within a transaction.
func (db *DB) Upsert(r RecordRow, body string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	_, err = tx.Exec(`
		INSERT INTO records (kind, id, title, body, checksum, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(kind, id) DO UPDATE SET
			title      = excluded.title,
			body       = excluded.body,
			checksum   = excluded.checksum,
			updated_at = excluded.updated_at
	`, r.Kind, r.ID, r.Title, body, r.Checksum, r.UpdatedAt)
	if err != nil {
		return fmt.Errorf("index: upsert record: %w", err)
	}

	// FTS upsert (no-op when the FTS5 tag is absent).
	if err := ftsUpsert(tx, r.Kind, r.ID, r.Title, body); err != nil {
		return err
	}

	return tx.Commit()
}

// Delete removes a record and its FTS entry.
func (db *DB) Delete(kind, id string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	ftsDelete(tx, kind, id)
	_, _ = tx.Exec(`DELETE FROM records WHERE kind = ? AND id = ?`, kind, id)

	return tx.Commit()
}

// AllChecksums returns the stored checksum of every indexed record,
// keyed by kind/id.
func (db *DB) AllChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT kind, id, checksum FROM records`)
	if err != nil {
		return nil, fmt.Errorf("index: all checksums: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var kind, id, cs string
		if err := rows.Scan(&kind, &id, &cs); err != nil {
			return nil, err
		}
		out[kind+"/"+id] = cs
	}
	return out, rows.Err()
}
