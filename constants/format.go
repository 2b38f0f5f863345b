package constants

import "strings"

// Format is the closed set of document formats the decoder set understands.
type Format string

const (
	TEXT  Format = "TEXT"
	PDF   Format = "PDF"
	DOCX  Format = "DOCX"
	IMAGE Format = "IMAGE"
)

// Formats holds the allowed formats, in dispatch order.
var Formats = []Format{TEXT, PDF, DOCX, IMAGE}

// textualMIMEs are non-"text/*" MIME types we still treat as plain text.
var textualMIMEs = map[string]struct{}{
	"application/json":     {},
	"application/xml":      {},
	"application/x-ndjson": {},
}

const (
	mimePDF       = "application/pdf"
	mimeDOCX      = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimeLegacyDoc = "application/msword"
)

// FormatForMIME resolves a MIME type to a Format. The second return is false
// when no decoder exists for the type.
func FormatForMIME(mimeType string) (Format, bool) {
	mt := NormalizeMIME(mimeType)
	switch {
	case strings.HasPrefix(mt, "text/"):
		return TEXT, true
	case mt == mimePDF:
		return PDF, true
	case mt == mimeDOCX || mt == mimeLegacyDoc:
		return DOCX, true
	case strings.HasPrefix(mt, "image/"):
		return IMAGE, true
	}
	if _, ok := textualMIMEs[mt]; ok {
		return TEXT, true
	}
	return "", false
}

// NormalizeMIME lowercases a MIME type and strips any parameters
// (e.g. "text/plain; charset=utf-8" -> "text/plain").
func NormalizeMIME(mimeType string) string {
	mt := strings.TrimSpace(strings.ToLower(mimeType))
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	return mt
}
