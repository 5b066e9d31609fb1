package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrUnreadable is returned when the uploaded byte stream itself cannot be read.
var ErrUnreadable = errors.New("document unreadable")

// Document is the text pulled out of a paginated upload.
type Document struct {
	Text         string
	PageCount    int
	SkippedPages int
}

// Text reads the whole stream and returns its extracted text.
// Library used: github.com/ledongthuc/pdf.
func Text(ctx context.Context, r io.Reader) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	return FromBytes(ctx, data)
}

// FromBytes extracts text from an in-memory PDF. A malformed or empty
// document yields an empty Document rather than an error.
func FromBytes(ctx context.Context, data []byte) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	if len(data) == 0 {
		return Document{}, nil
	}
	reader, err := openPDF(data)
	if err != nil {
		return Document{}, nil
	}
	return joinPages(ctx, pdfPages{r: reader})
}

// pageSource is a 1-indexed paginated text source.
type pageSource interface {
	NumPage() int
	PageText(i int) (string, error)
}

// joinPages joins non-empty page text with newlines. Pages that fail or
// yield no text are skipped without a placeholder; whitespace is kept.
func joinPages(ctx context.Context, src pageSource) (Document, error) {
	total := src.NumPage()
	doc := Document{PageCount: total}
	parts := make([]string, 0, total)
	for i := 1; i <= total; i++ {
		if err := ctx.Err(); err != nil {
			return Document{}, err
		}
		text, err := src.PageText(i)
		if err != nil || text == "" {
			doc.SkippedPages++
			continue
		}
		parts = append(parts, text)
	}
	doc.Text = strings.Join(parts, "\n")
	return doc, nil
}

func openPDF(data []byte) (r *pdf.Reader, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			r, err = nil, fmt.Errorf("open pdf: %v", rec)
		}
	}()
	return pdf.NewReader(bytes.NewReader(data), int64(len(data)))
}

type pdfPages struct {
	r *pdf.Reader
}

func (p pdfPages) NumPage() (n int) {
	defer func() {
		if rec := recover(); rec != nil {
			n = 0
		}
	}()
	return p.r.NumPage()
}

func (p pdfPages) PageText(i int) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			text, err = "", fmt.Errorf("page %d: %v", i, rec)
		}
	}()
	page := p.r.Page(i)
	if page.V.IsNull() {
		return "", nil
	}
	return page.GetPlainText(nil)
}
