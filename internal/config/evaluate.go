package config

import (
	"fmt"

	"github.com/spf13/pflag"
)

// EvaluateConfig holds configuration for the evaluate command.
type EvaluateConfig struct {
	RPCURL      string
	Plan        string
	Participant string
	LogLevel    string
	RateLimit   int
	Gate        GateConfig
	Storage     StorageConfig
}

// LoadEvaluate merges config file, environment variables, and flags into EvaluateConfig.
func LoadEvaluate(cfgFile string, flags *pflag.FlagSet) (EvaluateConfig, error) {
	v, err := newViper(cfgFile, flags, merge(gateDefaults, storageDefaults, map[string]interface{}{
		"rpc":        "https://api.mainnet-beta.solana.com",
		"rate-limit": 10,
	}))
	if err != nil {
		return EvaluateConfig{}, err
	}

	gate, err := gateConfig(v)
	if err != nil {
		return EvaluateConfig{}, err
	}
	storage, err := storageConfig(v)
	if err != nil {
		return EvaluateConfig{}, err
	}

	cfg := EvaluateConfig{
		RPCURL:      v.GetString("rpc"),
		Plan:        v.GetString("plan"),
		Participant: v.GetString("participant"),
		LogLevel:    v.GetString("log-level"),
		RateLimit:   v.GetInt("rate-limit"),
		Gate:        gate,
		Storage:     storage,
	}
	if cfg.Plan == "" {
		return EvaluateConfig{}, fmt.Errorf("plan is required")
	}

	return cfg, nil
}
