package resumes

import "time"

// Record is one analyzed résumé. Records are append-only.
type Record struct {
	ID         string
	Collection string
	FileName   string
	Text       string
	StorageKey string
	UploadedAt time.Time
}
