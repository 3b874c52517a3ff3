package config

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"
)

// ExecuteConfig holds configuration for the execute command.
type ExecuteConfig struct {
	RPCURL            string
	Keypair           string
	Plan              string
	LogLevel          string
	MinOutputOverride *uint64
	Gate              GateConfig
	Storage           StorageConfig
	MaxRetries        int
	RetryBackoff      time.Duration
	RefreshInterval   time.Duration
	Timeout           time.Duration
	RateLimit         int
	BreakerRatio      float64
	BreakerMinimum    uint32
	GateProgram       string
	OnChainGate       bool
	Simulate          bool
}

// LoadExecute merges config file, environment variables, and flags into ExecuteConfig.
func LoadExecute(cfgFile string, flags *pflag.FlagSet) (ExecuteConfig, error) {
	v, err := newViper(cfgFile, flags, merge(gateDefaults, storageDefaults, map[string]interface{}{
		"rpc":                   "https://api.mainnet-beta.solana.com",
		"keypair":               "~/.config/solana/id.json",
		"max-retries":           5,
		"retry-backoff":         500 * time.Millisecond,
		"refresh-interval":      2 * time.Second,
		"timeout":               30 * time.Second,
		"rate-limit":            10,
		"breaker-failure-ratio": 0.6,
		"breaker-min-requests":  5,
		"on-chain-gate":         false,
		"simulate":              true,
	}))
	if err != nil {
		return ExecuteConfig{}, err
	}

	gate, err := gateConfig(v)
	if err != nil {
		return ExecuteConfig{}, err
	}
	storage, err := storageConfig(v)
	if err != nil {
		return ExecuteConfig{}, err
	}

	cfg := ExecuteConfig{
		RPCURL:            v.GetString("rpc"),
		Keypair:           v.GetString("keypair"),
		Plan:              v.GetString("plan"),
		LogLevel:          v.GetString("log-level"),
		MinOutputOverride: getUint64Ptr(v, "min-output-override"),
		Gate:              gate,
		Storage:           storage,
		MaxRetries:        v.GetInt("max-retries"),
		RetryBackoff:      v.GetDuration("retry-backoff"),
		RefreshInterval:   v.GetDuration("refresh-interval"),
		Timeout:           v.GetDuration("timeout"),
		RateLimit:         v.GetInt("rate-limit"),
		BreakerRatio:      v.GetFloat64("breaker-failure-ratio"),
		BreakerMinimum:    v.GetUint32("breaker-min-requests"),
		GateProgram:       v.GetString("gate-program"),
		OnChainGate:       v.GetBool("on-chain-gate"),
		Simulate:          v.GetBool("simulate"),
	}
	if cfg.Plan == "" {
		return ExecuteConfig{}, fmt.Errorf("plan is required")
	}

	return cfg, nil
}
