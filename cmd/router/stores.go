package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"venueRouter/internal/arbitrage"
	"venueRouter/internal/config"
	"venueRouter/internal/storage"
	"venueRouter/internal/storage/postgres"
	"venueRouter/internal/storage/sqlite"
)

type stores struct {
	reports storage.ReportStore
	journal storage.Journal
	closers []func()
}

func (s stores) Close() {
	for _, c := range s.closers {
		c()
	}
}

// openStores wires the configured report store. Database stores also keep
// unit records next to the JSONL journal.
func openStores(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) (stores, error) {
	var s stores
	var journals storage.Journals
	if cfg.Journal != "" {
		journals = append(journals, storage.NewJsonlJournal(cfg.Journal))
	}

	switch cfg.ReportStore {
	case "file":
		s.reports = storage.NewFileReportStore(cfg.ReportFile)
	case "postgres":
		store, err := postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return stores{}, fmt.Errorf("connect postgres: %w", err)
		}
		if err := store.Migrate(ctx); err != nil {
			store.Close()
			return stores{}, fmt.Errorf("migrate postgres: %w", err)
		}
		s.reports = store
		journals = append(journals, store)
		s.closers = append(s.closers, store.Close)
	case "sqlite":
		store, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return stores{}, fmt.Errorf("open sqlite: %w", err)
		}
		s.reports = store
		journals = append(journals, store)
		s.closers = append(s.closers, func() {
			if err := store.Close(); err != nil {
				logger.Warn("close sqlite", zap.Error(err))
			}
		})
	}
	if len(journals) > 0 {
		s.journal = journals
	}

	logger.Info("stores opened",
		zap.String("report_store", cfg.ReportStore),
		zap.String("journal", cfg.Journal),
	)
	return s, nil
}

func newGate(cfg config.GateConfig, logger *zap.Logger) *arbitrage.Gate {
	gate := arbitrage.NewGate(logger)
	gate.Policy = policy(cfg)
	if cfg.MaxAge > 0 {
		gate.MaxAge = cfg.MaxAge
	}
	return gate
}

// policy selects the legs held to the freshness and verification floors.
func policy(cfg config.GateConfig) arbitrage.Policy {
	return arbitrage.Policy{
		Starting: cfg.EnforceStarting,
		Bridging: cfg.EnforceBridging,
		Crossing: cfg.EnforceCrossing,
	}
}

func verification(cfg config.GateConfig) arbitrage.Verification {
	return arbitrage.Verification{Full: cfg.FullVerification, Signatures: cfg.MinSignatures}
}
