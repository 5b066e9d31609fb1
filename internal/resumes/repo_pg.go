package resumes

import (
	"context"
	"database/sql"
	"fmt"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Insert appends a record to resume_records.
func (r *PGRepo) Insert(ctx context.Context, rec Record) error {
	if err := validate(rec); err != nil {
		return err
	}
	const query = `
INSERT INTO resume_records (
    id,
    collection,
    file_name,
    extracted_text,
    storage_key,
    uploaded_at
) VALUES ($1, $2, $3, $4, $5, $6)`

	var storageKey sql.NullString
	if rec.StorageKey != "" {
		storageKey = sql.NullString{String: rec.StorageKey, Valid: true}
	}

	if _, err := r.DB.ExecContext(ctx, query,
		rec.ID,
		rec.Collection,
		rec.FileName,
		rec.Text,
		storageKey,
		rec.UploadedAt,
	); err != nil {
		return fmt.Errorf("insert resume record collection=%s: %w", rec.Collection, err)
	}
	return nil
}

var _ Repo = (*PGRepo)(nil)
