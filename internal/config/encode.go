package config

import (
	"github.com/spf13/pflag"
)

// EncodeConfig holds configuration for the encode and decode commands.
type EncodeConfig struct {
	Venue             string
	Amount            string
	Decimals          *uint64
	MinOutputOverride *uint64
	User              string
	SourceMint        string
	DestinationMint   string
	Accounts          map[string]string
	Trailing          []string
	Params            map[string]string
	// ArbDex, when set, wraps the payload in the arb program instruction.
	ArbDex             string
	MaxBinToProcess    uint64
	MinProfitThreshold uint64
	NoFailure          bool
	LogLevel           string
}

// LoadEncode merges config file, environment variables, and flags into EncodeConfig.
func LoadEncode(cfgFile string, flags *pflag.FlagSet) (EncodeConfig, error) {
	v, err := newViper(cfgFile, flags, map[string]interface{}{
		"max-bin-to-process": 20,
		"no-failure":         true,
	})
	if err != nil {
		return EncodeConfig{}, err
	}

	cfg := EncodeConfig{
		Venue:              v.GetString("venue"),
		Amount:             v.GetString("amount"),
		Decimals:           getUint64Ptr(v, "decimals"),
		MinOutputOverride:  getUint64Ptr(v, "min-output-override"),
		User:               v.GetString("user"),
		SourceMint:         v.GetString("source-mint"),
		DestinationMint:    v.GetString("destination-mint"),
		Accounts:           getStringMap(v, "accounts"),
		Trailing:           getStringSlice(v, "trailing"),
		Params:             getStringMap(v, "params"),
		ArbDex:             v.GetString("arb-dex"),
		MaxBinToProcess:    v.GetUint64("max-bin-to-process"),
		MinProfitThreshold: v.GetUint64("min-profit-threshold"),
		NoFailure:          v.GetBool("no-failure"),
		LogLevel:           v.GetString("log-level"),
	}

	return cfg, nil
}
