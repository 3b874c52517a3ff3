package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/gagliardetto/solana-go"
	"github.com/spf13/cobra"
	"github.com/sugawarayuuta/sonnet"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"venueRouter/internal/arbitrage"
	"venueRouter/internal/config"
	"venueRouter/internal/fault"
	"venueRouter/internal/ledger"
	"venueRouter/internal/model"
	"venueRouter/internal/plan"
	"venueRouter/internal/router"
	"venueRouter/internal/venue"
)

func runExecute(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadExecute(cfgFile, cmd.Flags())
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
	hops, err := f.RouterHops(cfg.MinOutputOverride)
	if err != nil {
		return err
	}

	signer, err := loadKeypair(cfg.Keypair)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := ledger.NewClient(cfg.RPCURL, cfg.RateLimit)
	defer client.Close()

	var obs *arbitrage.Observations
	if f.Gate != nil {
		obs, err = f.Gate.Observations(ctx, client, policy(cfg.Gate), verification(cfg.Gate), signer.PublicKey().String())
		if err != nil {
			return err
		}
	}

	st, err := openStores(ctx, cfg.Storage, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	routerCfg := router.Config{OnChainGate: cfg.OnChainGate, GateSender: signer.PublicKey()}
	if cfg.GateProgram != "" {
		routerCfg.GateProgram, err = solana.PublicKeyFromBase58(cfg.GateProgram)
		if err != nil {
			return fmt.Errorf("gate program: %w", err)
		}
	}

	acceptorCfg := ledger.DefaultAcceptorConfig()
	acceptorCfg.Simulate = cfg.Simulate
	acceptorCfg.BreakerFailureRatio = cfg.BreakerRatio
	acceptorCfg.BreakerMinRequests = cfg.BreakerMinimum

	cell := router.NewSyncCell()
	refresher := ledger.NewRefresher(client, cell, ledger.RefresherConfig{
		Interval:     cfg.RefreshInterval,
		MaxRetries:   cfg.MaxRetries,
		RetryBackoff: cfg.RetryBackoff,
	}, logger)
	r := router.NewRouter(routerCfg, venue.NewRegistry(logger), ledger.NewAcceptor(client, signer, acceptorCfg, logger),
		cell, newGate(cfg.Gate, logger), st.reports, st.journal, logger)

	unit, err := r.Build(hops, obs)
	if err != nil {
		logger.Error("unit build failed", zap.String("kind", fault.Kind(err)), zap.Error(err))
		return err
	}

	logger.Info("execute start",
		zap.String("rpc", cfg.RPCURL),
		zap.String("plan", cfg.Plan),
		zap.Stringer("signer", signer.PublicKey()),
		zap.Strings("invocations", unit.Labels()),
		zap.Bool("gated", obs != nil),
		zap.Bool("simulate", cfg.Simulate),
	)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		return refresher.Run(gctx)
	})

	var receipt model.Receipt
	g.Go(func() error {
		defer cancel()
		execCtx, done := context.WithTimeout(gctx, cfg.Timeout)
		defer done()
		var err error
		receipt, err = r.Execute(execCtx, unit)
		return err
	})

	if err := g.Wait(); err != nil {
		logger.Error("unit failed", zap.Stringer("unit", unit.ID), zap.String("kind", fault.Kind(err)), zap.Error(err))
		return err
	}

	data, err := sonnet.Marshal(receipt)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

func loadKeypair(path string) (solana.PrivateKey, error) {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(home, path[2:])
	}
	key, err := solana.PrivateKeyFromSolanaKeygenFile(path)
	if err != nil {
		return nil, fmt.Errorf("load keypair %s: %w", path, err)
	}
	return key, nil
}
