package resumes

import (
	"context"
	"errors"
)

// ErrInvalidRecord is returned when a record lacks required fields.
var ErrInvalidRecord = errors.New("invalid resume record")

// Repo appends résumé records to durable storage.
type Repo interface {
	Insert(ctx context.Context, rec Record) error
}

func validate(rec Record) error {
	switch {
	case rec.ID == "":
		return errors.Join(ErrInvalidRecord, errors.New("id is required"))
	case rec.Collection == "":
		return errors.Join(ErrInvalidRecord, errors.New("collection is required"))
	case rec.UploadedAt.IsZero():
		return errors.Join(ErrInvalidRecord, errors.New("uploaded_at is required"))
	}
	return nil
}
