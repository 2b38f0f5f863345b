package source

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nattapong-dev/tor-analyzer/constants"
	"github.com/nattapong-dev/tor-analyzer/internal/decode"
	"github.com/nattapong-dev/tor-analyzer/internal/entity"
)

// stubDecoder stands in for a format-specific decoder.
type stubDecoder struct {
	format constants.Format
	text   string
	calls  int
	got    []byte
}

func (d *stubDecoder) Format() constants.Format { return d.format }

func (d *stubDecoder) Decode(_ context.Context, data []byte) (string, error) {
	d.calls++
	d.got = data
	return d.text, nil
}

func newTestResolver(stubs ...decode.Decoder) *Resolver {
	set := decode.NewSet(decode.Config{}, nil)
	for _, s := range stubs {
		set.Register(s)
	}
	return NewResolver(Config{}, set, nil)
}

func TestResolveTextPassthrough(t *testing.T) {
	r := newTestResolver()

	got, err := r.Resolve(context.Background(), entity.DocumentSource{
		SourceType: entity.SourceText,
		Content:    "hello world",
	})
	require.NoError(t, err)
	assert.Equal(t, "hello world", got.Text)
	assert.Equal(t, constants.TEXT, got.Format)
}

func TestResolveFileBase64PDF(t *testing.T) {
	pdfStub := &stubDecoder{format: constants.PDF, text: "PDF TEXT"}
	r := newTestResolver(pdfStub)

	got, err := r.Resolve(context.Background(), entity.DocumentSource{
		SourceType: entity.SourceFile,
		Content:    "JVBERi0xLjQ=", // %PDF-1.4
		MIMEType:   "application/pdf",
	})
	require.NoError(t, err)
	assert.Equal(t, "PDF TEXT", got.Text)
	assert.Equal(t, constants.PDF, got.Format)
	assert.Equal(t, 1, pdfStub.calls)
	assert.Equal(t, []byte("%PDF-1.4"), pdfStub.got)
}

func TestResolveFileRequiresMIME(t *testing.T) {
	r := newTestResolver()

	_, err := r.Resolve(context.Background(), entity.DocumentSource{
		SourceType: entity.SourceFile,
		Content:    base64.StdEncoding.EncodeToString([]byte("data")),
	})
	require.Error(t, err)
}

func TestResolveFileUnsupportedMIME(t *testing.T) {
	r := newTestResolver()

	_, err := r.Resolve(context.Background(), entity.DocumentSource{
		SourceType: entity.SourceFile,
		Content:    base64.StdEncoding.EncodeToString([]byte("PK")),
		MIMEType:   "application/zip",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, decode.ErrUnsupportedFormat)
}

func TestResolveFileBadBase64(t *testing.T) {
	r := newTestResolver()

	_, err := r.Resolve(context.Background(), entity.DocumentSource{
		SourceType: entity.SourceFile,
		Content:    "not base64!!!",
		MIMEType:   "text/plain",
	})
	require.Error(t, err)
}

func TestResolveURLFetchesAndDecodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("remote document body"))
	}))
	defer srv.Close()

	r := newTestResolver()
	got, err := r.Resolve(context.Background(), entity.DocumentSource{
		SourceType: entity.SourceURL,
		Content:    srv.URL,
	})
	require.NoError(t, err)
	assert.Equal(t, "remote document body", got.Text)
	assert.Equal(t, constants.TEXT, got.Format)
}

func TestResolveURLNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	r := newTestResolver()
	_, err := r.Resolve(context.Background(), entity.DocumentSource{
		SourceType: entity.SourceURL,
		Content:    srv.URL,
	})
	require.Error(t, err)

	var fErr *FetchError
	require.ErrorAs(t, err, &fErr)
	assert.Equal(t, http.StatusNotFound, fErr.Status)
}

func TestResolveURLUnknownContentTypeDefaultsToText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/x-whatever")
		_, _ = w.Write([]byte("opaque but textual"))
	}))
	defer srv.Close()

	r := newTestResolver()
	got, err := r.Resolve(context.Background(), entity.DocumentSource{
		SourceType: entity.SourceURL,
		Content:    srv.URL,
	})
	require.NoError(t, err)
	assert.Equal(t, constants.TEXT, got.Format)
	assert.Equal(t, "opaque but textual", got.Text)
}
