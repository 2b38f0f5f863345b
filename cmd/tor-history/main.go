package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/nattapong-dev/tor-analyzer/internal/common"
	"github.com/nattapong-dev/tor-analyzer/internal/entity"
	"github.com/nattapong-dev/tor-analyzer/internal/export"
	"github.com/nattapong-dev/tor-analyzer/internal/repository"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	var (
		analysisID = flag.String("id", "", "lookup specs by tor analysis id")
		itemName   = flag.String("item", "", "search specs by item-name substring")
		agency     = flag.String("agency", "", "restrict -item search to one agency")
		limit      = flag.Int("limit", 0, "max rows (0 = default)")
		xlsxPath   = flag.String("xlsx", "", "with -id: write the specs as an XLSX workbook to this path")
	)
	flag.Parse()

	if (*analysisID == "") == (*itemName == "") {
		logger.Error("exactly one of -id or -item is required")
		os.Exit(2)
	}

	cfg := common.LoadConfig()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	materials, cleanup, err := openRepository(ctx, cfg, logger)
	if err != nil {
		logger.Error("open history store", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	var specs []entity.StoredMaterialSpec
	if *analysisID != "" {
		specs, err = materials.GetByAnalysisID(ctx, *analysisID, *limit)
	} else {
		specs, err = materials.SearchByItemName(ctx, *itemName, *agency, *limit)
	}
	if err != nil {
		logger.Error("lookup failed", "error", err)
		os.Exit(1)
	}

	if *xlsxPath != "" && *analysisID != "" {
		svc := export.NewService(materials, logger)
		data, err := svc.ExportMaterialSpecsXLSX(ctx, *analysisID)
		if err != nil {
			logger.Error("export failed", "error", err)
			os.Exit(1)
		}
		if err := os.WriteFile(*xlsxPath, data, 0o644); err != nil {
			logger.Error("write workbook", "path", *xlsxPath, "error", err)
			os.Exit(1)
		}
		logger.Info("workbook written", "path", *xlsxPath, "rows", len(specs))
		return
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(specs); err != nil {
		logger.Error("encode result", "error", err)
		os.Exit(1)
	}
}

func openRepository(ctx context.Context, cfg *common.Config, logger *slog.Logger) (repository.MaterialRepository, func(), error) {
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
		if err := repository.HealthCheck(ctx, pool, time.Second, logger); err != nil {
			pool.Close()
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
