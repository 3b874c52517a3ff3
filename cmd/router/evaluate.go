package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/sugawarayuuta/sonnet"
	"go.uber.org/zap"

	"venueRouter/internal/arbitrage"
	"venueRouter/internal/config"
	"venueRouter/internal/fault"
	"venueRouter/internal/ledger"
	"venueRouter/internal/plan"
)

func runEvaluate(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadEvaluate(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	f, err := plan.Load(cfg.Plan)
	if err != nil {
		return err
	}
	if f.Gate == nil {
		return fmt.Errorf("plan %s has no gate section", cfg.Plan)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := ledger.NewClient(cfg.RPCURL, cfg.RateLimit)
	defer client.Close()

	participant := cfg.Participant
	if participant == "" {
		participant = f.User
	}
	obs, err := f.Gate.Observations(ctx, client, policy(cfg.Gate), verification(cfg.Gate), participant)
	if err != nil {
		return err
	}

	st, err := openStores(ctx, cfg.Storage, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	report, err := newGate(cfg.Gate, logger).Check(*obs)
	if err != nil && !errors.Is(err, fault.ErrNotProfitable) {
		logger.Error("gate check failed", zap.String("kind", fault.Kind(err)), zap.Error(err))
		return err
	}
	// The latest evaluation is stored whether or not it clears the gate.
	if st.reports != nil {
		if perr := st.reports.PutReport(ctx, report); perr != nil {
			return fmt.Errorf("store report: %w", perr)
		}
	}

	data, merr := sonnet.Marshal(report)
	if merr != nil {
		return merr
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	logger.Info("evaluated",
		zap.String("participant", report.Participant),
		zap.Int64("profit_bps", report.ProfitBps),
		zap.String("starting", arbitrage.Price(obs.Starting)),
		zap.String("bridging", arbitrage.Price(obs.Bridging)),
		zap.String("crossing", arbitrage.Price(obs.Crossing)),
	)
	return err
}
