package decode

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/nattapong-dev/tor-analyzer/constants"
)

// PDFDecoder extracts the embedded text stream of a PDF. Scanned PDFs with no
// text layer decode to an empty string; whether to fall back to OCR is the
// caller's call, not this decoder's.
type PDFDecoder struct{}

func (PDFDecoder) Format() constants.Format { return constants.PDF }

func (PDFDecoder) Decode(ctx context.Context, data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	var b strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// some pages fail to parse in otherwise-fine documents
			continue
		}
		if text == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\f\n")
		}
		b.WriteString(text)
	}
	return b.String(), nil
}
