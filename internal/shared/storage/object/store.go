package object

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidKey is returned when a namespace or file name leaves no usable key.
var ErrInvalidKey = errors.New("invalid storage key")

// ObjectStore archives raw uploads.
type ObjectStore interface {
	Save(ctx context.Context, namespace string, fileName string, r io.Reader) (Object, error)
}

// Object describes a stored upload.
type Object struct {
	Key         string
	SizeBytes   int64
	ContentType string
}

// NewKey builds "<namespace>/<yyyy>/<mm>/<dd>/<uuid>_<file>" for an upload.
func NewKey(namespace, fileName string, now time.Time) (string, error) {
	ns := sanitizeSegment(namespace)
	name := sanitizeSegment(fileName)
	if ns == "" || name == "" {
		return "", ErrInvalidKey
	}
	return path.Join(ns, now.UTC().Format("2006/01/02"), uuid.NewString()+"_"+name), nil
}

// SniffContentType reads up to 512 bytes from r and returns the detected
// MIME type plus a reader replaying the full stream.
func SniffContentType(r io.Reader) (string, io.Reader, error) {
	var sniff [512]byte
	n, err := io.ReadFull(r, sniff[:])
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", nil, err
	}
	head := append([]byte(nil), sniff[:n]...)
	return http.DetectContentType(head), io.MultiReader(bytes.NewReader(head), r), nil
}

func sanitizeSegment(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, "..", "_")
	return s
}
