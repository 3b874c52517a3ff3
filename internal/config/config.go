package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "ROUTER"

// GateConfig holds the arbitrage gate settings shared by evaluate and
// execute.
type GateConfig struct {
	EnforceStarting bool
	EnforceBridging bool
	EnforceCrossing bool
	MaxAge          time.Duration
	// MinSignatures is the Partial verification floor; FullVerification
	// requires fully verified price updates instead.
	MinSignatures    uint8
	FullVerification bool
}

// StorageConfig selects where arbitrage reports and unit records go.
type StorageConfig struct {
	// ReportStore is one of file, postgres, sqlite or none.
	ReportStore string
	ReportFile  string
	PGDSN       string
	SQLitePath  string
	// Journal is a JSONL path for unit records; empty disables it.
	Journal string
}

// newViper merges config file, environment variables and flags. Flags win
// over env, env over file, file over defaults.
func newViper(cfgFile string, flags *pflag.FlagSet, defaults map[string]interface{}) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("log-level", "info")
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}
	return v, nil
}

var gateDefaults = map[string]interface{}{
	"enforce-freshness-starting": true,
	"enforce-freshness-bridging": false,
	"enforce-freshness-crossing": true,
	"max-age":                    6000 * time.Second,
	"min-signatures":             4,
	"full-verification":          false,
}

var storageDefaults = map[string]interface{}{
	"report-store": "file",
	"report-file":  "./data/reports.json",
	"sqlite-path":  "./data/router.db",
	"journal":      "./data/units.jsonl",
}

func merge(sets ...map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{})
	for _, set := range sets {
		for k, v := range set {
			out[k] = v
		}
	}
	return out
}

func gateConfig(v *viper.Viper) (GateConfig, error) {
	sigs := v.GetInt("min-signatures")
	if sigs < 0 || sigs > 255 {
		return GateConfig{}, fmt.Errorf("min-signatures %d out of range", sigs)
	}
	return GateConfig{
		EnforceStarting:  v.GetBool("enforce-freshness-starting"),
		EnforceBridging:  v.GetBool("enforce-freshness-bridging"),
		EnforceCrossing:  v.GetBool("enforce-freshness-crossing"),
		MaxAge:           v.GetDuration("max-age"),
		MinSignatures:    uint8(sigs),
		FullVerification: v.GetBool("full-verification"),
	}, nil
}

func storageConfig(v *viper.Viper) (StorageConfig, error) {
	cfg := StorageConfig{
		ReportStore: strings.ToLower(v.GetString("report-store")),
		ReportFile:  v.GetString("report-file"),
		PGDSN:       v.GetString("pg-dsn"),
		SQLitePath:  v.GetString("sqlite-path"),
		Journal:     v.GetString("journal"),
	}
	switch cfg.ReportStore {
	case "file", "sqlite", "none":
	case "postgres":
		if cfg.PGDSN == "" {
			return StorageConfig{}, fmt.Errorf("report-store postgres needs pg-dsn")
		}
	default:
		return StorageConfig{}, fmt.Errorf("unknown report-store %q", cfg.ReportStore)
	}
	return cfg, nil
}

// getUint64Ptr returns nil unless key was set by a flag, env or file.
func getUint64Ptr(v *viper.Viper, key string) *uint64 {
	if !v.IsSet(key) {
		return nil
	}
	val := v.GetUint64(key)
	return &val
}

func getStringSlice(v *viper.Viper, key string) []string {
	if !v.IsSet(key) {
		return nil
	}

	val := v.Get(key)
	switch typed := val.(type) {
	case []string:
		return cleanStrings(typed)
	case string:
		return splitAndClean(typed)
	case []interface{}:
		items := make([]string, 0, len(typed))
		for _, item := range typed {
			items = append(items, fmt.Sprintf("%v", item))
		}
		return cleanStrings(items)
	default:
		return nil
	}
}

func splitAndClean(input string) []string {
	if input == "" {
		return nil
	}
	return cleanStrings(strings.Split(input, ","))
}

// cleanStrings trims entries. Empty entries are kept as absent slots.
func cleanStrings(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, strings.TrimSpace(item))
	}
	return out
}

func getStringMap(v *viper.Viper, key string) map[string]string {
	if !v.IsSet(key) {
		return map[string]string{}
	}

	val := v.Get(key)
	switch typed := val.(type) {
	case map[string]string:
		return typed
	case map[string]interface{}:
		out := make(map[string]string, len(typed))
		for k, v := range typed {
			out[k] = fmt.Sprintf("%v", v)
		}
		return out
	case string:
		return parseStringMap(typed)
	default:
		return map[string]string{}
	}
}

// parseStringMap reads "name=value,name=value".
func parseStringMap(input string) map[string]string {
	out := make(map[string]string)
	if strings.TrimSpace(input) == "" {
		return out
	}
	for _, pair := range strings.Split(input, ",") {
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if key == "" || value == "" {
			continue
		}
		out[key] = value
	}
	return out
}

// ParseParams converts a string map into numeric venue params.
func ParseParams(raw map[string]string) (map[string]uint64, error) {
	out := make(map[string]uint64, len(raw))
	for k, s := range raw {
		val, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("param %s: %w", k, err)
		}
		out[k] = val
	}
	return out, nil
}
