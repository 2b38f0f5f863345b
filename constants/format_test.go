package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatForMIME(t *testing.T) {
	tests := []struct {
		name     string
		mimeType string
		want     Format
		ok       bool
	}{
		{"plain text", "text/plain", TEXT, true},
		{"text with charset", "text/plain; charset=utf-8", TEXT, true},
		{"html counts as text", "text/html", TEXT, true},
		{"json", "application/json", TEXT, true},
		{"pdf", "application/pdf", PDF, true},
		{"docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document", DOCX, true},
		{"legacy doc", "application/msword", DOCX, true},
		{"png", "image/png", IMAGE, true},
		{"jpeg", "image/jpeg", IMAGE, true},
		{"uppercase", "IMAGE/PNG", IMAGE, true},
		{"zip unsupported", "application/zip", "", false},
		{"empty", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FormatForMIME(tt.mimeType)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeMIME(t *testing.T) {
	assert.Equal(t, "text/plain", NormalizeMIME(" Text/Plain; charset=UTF-8 "))
	assert.Equal(t, "application/pdf", NormalizeMIME("application/pdf"))
}
