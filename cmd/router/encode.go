package main

import (
	"fmt"
	"math"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"venueRouter/internal/config"
	"venueRouter/internal/plan"
	"venueRouter/internal/venue"
)

func runEncode(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadEncode(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.Venue == "" {
		return fmt.Errorf("venue is required")
	}
	params, err := config.ParseParams(cfg.Params)
	if err != nil {
		return err
	}
	hop := plan.Hop{
		Venue:           cfg.Venue,
		Amount:          cfg.Amount,
		MinOutput:       cfg.MinOutputOverride,
		SourceMint:      cfg.SourceMint,
		DestinationMint: cfg.DestinationMint,
		Accounts:        cfg.Accounts,
		Trailing:        cfg.Trailing,
		Params:          params,
	}
	if cfg.Decimals != nil {
		if *cfg.Decimals > math.MaxInt32 {
			return fmt.Errorf("decimals %d out of range", *cfg.Decimals)
		}
		d := int32(*cfg.Decimals)
		hop.Decimals = &d
	}
	hops, err := plan.File{User: cfg.User, Hops: []plan.Hop{hop}}.RouterHops(nil)
	if err != nil {
		return err
	}
	req := hops[0].Request

	v, err := venue.NewRegistry(logger).Resolve(hops[0].Venue)
	if err != nil {
		return err
	}
	layout, err := v.Layout(req)
	if err != nil {
		return err
	}
	payload, err := v.Encode(req)
	if err != nil {
		return err
	}
	accounts, err := v.Resources(req)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "program  %s\n", v.Program)
	fmt.Fprintf(out, "layout   %s (%d bytes)\n", layout.Name, len(payload))
	fmt.Fprintf(out, "payload  %s\n", hexutil.Encode(payload))
	for i, ref := range accounts {
		fmt.Fprintf(out, "account  %2d %s\n", i, ref)
	}

	if cfg.ArbDex != "" {
		dex, err := arbDex(cfg.ArbDex, hops[0].Venue)
		if err != nil {
			return err
		}
		wrapper, err := venue.EncodeArbProgram(venue.ArbSwap{
			Dex:                dex,
			MaxBinToProcess:    cfg.MaxBinToProcess,
			MinProfitThreshold: cfg.MinProfitThreshold,
			NoFailure:          cfg.NoFailure,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "arb      %s (%s)\n", hexutil.Encode(wrapper), dex)
	}

	logger.Debug("encoded",
		zap.Stringer("venue", hops[0].Venue),
		zap.Int("payload_bytes", len(payload)),
		zap.Int("accounts", len(accounts)),
	)
	return nil
}

func arbDex(name string, id venue.ID) (venue.SupportDex, error) {
	if name == "auto" {
		return venue.DexFor(id)
	}
	return venue.ParseDex(name)
}

func runDecode(cmd *cobra.Command, args []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadEncode(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	id, err := venue.ParseID(cfg.Venue)
	if err != nil {
		return err
	}
	payload, err := hexutil.Decode(args[0])
	if err != nil {
		return fmt.Errorf("payload: %w", err)
	}

	decoded, err := venue.NewRegistry(logger).Decode(id, payload)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "layout   %s\n", decoded.Layout.Name)
	for i, field := range decoded.Layout.Fields {
		value := "none"
		if decoded.Values[i] != nil {
			value = decoded.Values[i].String()
		}
		fmt.Fprintf(out, "%-24s %s\n", field.Name, value)
	}
	return nil
}
