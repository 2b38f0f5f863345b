package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"time"

	"github.com/nattapong-dev/tor-analyzer/internal/analyze"
	"github.com/nattapong-dev/tor-analyzer/internal/common"
	"github.com/nattapong-dev/tor-analyzer/internal/decode"
	"github.com/nattapong-dev/tor-analyzer/internal/entity"
	"github.com/nattapong-dev/tor-analyzer/internal/llm/openai"
	"github.com/nattapong-dev/tor-analyzer/internal/repository"
	"github.com/nattapong-dev/tor-analyzer/internal/source"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	var (
		filePath = flag.String("file", "", "path to a document file (pdf, docx, image, txt)")
		url      = flag.String("url", "", "url of a remote document")
		text     = flag.String("text", "", "raw document text; use - to read from stdin")
		mimeType = flag.String("mime", "", "mime type override for -file")
		memory   = flag.Bool("memory", false, "use an in-memory history store (nothing is persisted)")
	)
	flag.Parse()

	src, err := buildSource(*filePath, *url, *text, *mimeType)
	if err != nil {
		logger.Error("invalid input", "error", err)
		os.Exit(2)
	}

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	materials, cleanup, err := openRepository(ctx, cfg, *memory, logger)
	if err != nil {
		logger.Error("open history store", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	decoders := decode.NewSet(decode.Config{
		Tesseract:     cfg.Decode.Tesseract,
		TesseractLang: cfg.Decode.TesseractLang,
		TessdataDir:   cfg.Decode.TessdataDir,
	}, logger)
	resolver := source.NewResolver(source.Config{FetchTimeout: cfg.Fetch.Timeout}, decoders, logger)
	completer := openai.NewClient(openai.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
	}, logger)

	analyzer := analyze.NewAnalyzer(analyze.Config{}, resolver, completer, materials, logger)

	analysis, err := analyzer.Analyze(ctx, src)
	if analysis == nil && err != nil {
		logger.Error("analysis failed", "error", err)
		os.Exit(1)
	}
	if err != nil {
		// analysis computed but the save failed; still print it
		logger.Warn("material specs not persisted", "error", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(analysis); err != nil {
		logger.Error("encode result", "error", err)
		os.Exit(1)
	}
}

// buildSource picks exactly one of -file / -url / -text.
func buildSource(filePath, url, text, mimeOverride string) (entity.DocumentSource, error) {
	set := 0
	for _, v := range []string{filePath, url, text} {
		if v != "" {
			set++
		}
	}
	if set != 1 {
		return entity.DocumentSource{}, fmt.Errorf("exactly one of -file, -url, -text is required")
	}

	switch {
	case url != "":
		return entity.DocumentSource{SourceType: entity.SourceURL, Content: url}, nil

	case filePath != "":
		data, err := os.ReadFile(filePath)
		if err != nil {
			return entity.DocumentSource{}, fmt.Errorf("read %s: %w", filePath, err)
		}
		mt := mimeOverride
		if mt == "" {
			mt = mime.TypeByExtension(filepath.Ext(filePath))
		}
		if mt == "" {
			return entity.DocumentSource{}, fmt.Errorf("cannot determine mime type for %s; pass -mime", filePath)
		}
		return entity.DocumentSource{
			SourceType: entity.SourceFile,
			Content:    base64.StdEncoding.EncodeToString(data),
			MIMEType:   mt,
		}, nil

	default:
		if text == "-" {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return entity.DocumentSource{}, fmt.Errorf("read stdin: %w", err)
			}
			text = string(data)
		}
		return entity.DocumentSource{SourceType: entity.SourceText, Content: text}, nil
	}
}

// openRepository picks the history store: Postgres when DB_URL is set,
// otherwise SQLite, or memory when asked.
func openRepository(ctx context.Context, cfg *common.Config, memory bool, logger *slog.Logger) (repository.MaterialRepository, func(), error) {
	if memory {
		return repository.NewMemoryRepository(), func() {}, nil
	}

	if cfg.Database.DSN != "" {
		pool, err := repository.Open(ctx, repository.Config{
			DSN:              cfg.Database.DSN,
			MaxConns:         cfg.Database.MaxConns,
			MinConns:         cfg.Database.MinConns,
			MaxConnLifetime:  cfg.Database.MaxConnLifetime,
			MaxConnIdleTime:  cfg.Database.MaxConnIdleTime,
			DialTimeout:      cfg.Database.DialTimeout,
			StatementTimeout: cfg.Database.StatementTimeout,
		}, logger)
		if err != nil {
			return nil, nil, err
		}
		repo, err := repository.NewPostgresRepository(ctx, pool, logger)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		return repo, pool.Close, nil
	}

	repo, err := repository.NewSQLiteRepository(cfg.Database.SQLitePath, logger)
	if err != nil {
		return nil, nil, err
	}
	return repo, func() {
		if err := repo.Close(); err != nil {
			logger.Warn("close sqlite store", "error", err)
		}
	}, nil
}
