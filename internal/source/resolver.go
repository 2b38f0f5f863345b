// Package source turns a DocumentSource (raw text, URL, or base64 file) into
// decoded plain text ready for extraction.
package source

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/nattapong-dev/tor-analyzer/constants"
	"github.com/nattapong-dev/tor-analyzer/internal/decode"
	"github.com/nattapong-dev/tor-analyzer/internal/entity"
)

// FetchError reports that url-sourced content could not be retrieved.
// Retryable by the caller; non-2xx responses carry the status code.
type FetchError struct {
	URL    string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Resolved is the output of Resolve: decoded text plus the format it came from.
type Resolved struct {
	Text   string
	Format constants.Format
}

// Config for the resolver's outbound fetch.
type Config struct {
	FetchTimeout time.Duration // per-URL fetch; default 30s
	MaxFetchSize int64         // response body cap in bytes; default 20MB
}

// Resolver resolves document sources. Only url sources touch the network;
// every resolve is a fresh fetch, no caching at this layer.
type Resolver struct {
	cfg      Config
	decoders *decode.Set
	client   *http.Client
	logger   *slog.Logger
}

func NewResolver(cfg Config, decoders *decode.Set, logger *slog.Logger) *Resolver {
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 30 * time.Second
	}
	if cfg.MaxFetchSize <= 0 {
		cfg.MaxFetchSize = 20 << 20
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		cfg:      cfg,
		decoders: decoders,
		client:   &http.Client{Timeout: cfg.FetchTimeout},
		logger:   logger,
	}
}

// Resolve produces decoded text for a source.
//   - text: passthrough, no network or decoding cost.
//   - url: HTTP GET; the response content-type picks the decoder.
//   - file: base64 bytes plus the caller-declared MIME type.
func (r *Resolver) Resolve(ctx context.Context, src entity.DocumentSource) (Resolved, error) {
	switch src.SourceType {
	case entity.SourceText:
		return Resolved{Text: src.Content, Format: constants.TEXT}, nil

	case entity.SourceURL:
		data, contentType, err := r.fetch(ctx, src.Content)
		if err != nil {
			return Resolved{}, err
		}
		format, ok := constants.FormatForMIME(contentType)
		if !ok {
			// servers frequently omit or garble content-type; default to text
			format = constants.TEXT
		}
		return r.decodeAs(ctx, format, data)

	case entity.SourceFile:
		if src.MIMEType == "" {
			return Resolved{}, fmt.Errorf("mime type is required for file sources")
		}
		format, ok := constants.FormatForMIME(src.MIMEType)
		if !ok {
			return Resolved{}, fmt.Errorf("%w: %s", decode.ErrUnsupportedFormat, src.MIMEType)
		}
		data, err := base64.StdEncoding.DecodeString(src.Content)
		if err != nil {
			return Resolved{}, fmt.Errorf("decode base64 content: %w", err)
		}
		return r.decodeAs(ctx, format, data)

	default:
		return Resolved{}, fmt.Errorf("unsupported source type: %q", src.SourceType)
	}
}

func (r *Resolver) decodeAs(ctx context.Context, format constants.Format, data []byte) (Resolved, error) {
	text, err := r.decoders.Decode(ctx, format, data)
	if err != nil {
		return Resolved{}, err
	}
	return Resolved{Text: text, Format: format}, nil
}

func (r *Resolver) fetch(ctx context.Context, url string) ([]byte, string, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", &FetchError{URL: url, Err: err}
	}
	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Error("source.fetch.error", "url", url, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return nil, "", &FetchError{URL: url, Err: err}
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			r.logger.Warn("source.fetch.body_close_error", "url", url, "error", err)
		}
	}()

	if resp.StatusCode/100 != 2 {
		r.logger.Error("source.fetch.bad_status", "url", url, "status", resp.StatusCode)
		return nil, "", &FetchError{URL: url, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, r.cfg.MaxFetchSize))
	if err != nil {
		return nil, "", &FetchError{URL: url, Err: err}
	}

	r.logger.Info("source.fetch.ok",
		"url", url,
		"status", resp.StatusCode,
		"bytes", len(body),
		"content_type", resp.Header.Get("Content-Type"),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return body, resp.Header.Get("Content-Type"), nil
}
