// Package decode converts document bytes of a known format into plain text.
// Each format has an independent decoder behind one dispatch set, so a broken
// or unavailable decoder degrades to a typed error for just that format.
package decode

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nattapong-dev/tor-analyzer/constants"
)

// ErrUnsupportedFormat is returned when no decoder exists for a format.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// DecodeError reports that a decoder matched the format but failed internally
// (corrupt file, missing external tool). Not retried at this layer.
type DecodeError struct {
	Format constants.Format
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Format, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Decoder extracts plain text from document bytes of a single format.
type Decoder interface {
	Format() constants.Format
	Decode(ctx context.Context, data []byte) (string, error)
}

// Config holds settings for decoders that shell out to external tools.
type Config struct {
	Tesseract     string // binary name or absolute path; if empty -> "tesseract"
	TesseractLang string // default "eng+tha"
	TessdataDir   string
}

// Set dispatches decoding over a closed set of decoders keyed by format.
type Set struct {
	decoders map[constants.Format]Decoder
	logger   *slog.Logger
}

// NewSet builds the default decoder set: UTF-8 text, PDF, DOCX, and OCR image.
func NewSet(cfg Config, logger *slog.Logger) *Set {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Set{decoders: make(map[constants.Format]Decoder), logger: logger}
	s.Register(TextDecoder{})
	s.Register(PDFDecoder{})
	s.Register(DOCXDecoder{})
	s.Register(NewImageDecoder(cfg, logger))
	return s
}

// Register adds or replaces the decoder for its format. Tests use this to
// substitute stub decoders for formats backed by external tools.
func (s *Set) Register(d Decoder) {
	s.decoders[d.Format()] = d
}

// Decode routes data to the decoder for format. Returns ErrUnsupportedFormat
// when the format has no decoder, or a *DecodeError when the decoder fails.
func (s *Set) Decode(ctx context.Context, format constants.Format, data []byte) (string, error) {
	d, ok := s.decoders[format]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	text, err := d.Decode(ctx, data)
	if err != nil {
		s.logger.Error("decode.failed", "format", string(format), "bytes", len(data), "error", err)
		return "", &DecodeError{Format: format, Err: err}
	}
	s.logger.Debug("decode.ok", "format", string(format), "bytes", len(data), "text_len", len(text))
	return text, nil
}
