package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func TestLoadExecuteDefaults(t *testing.T) {
	flags := pflag.NewFlagSet("execute", pflag.ContinueOnError)
	flags.String("plan", "", "")
	flags.Uint64("min-output-override", 0, "")
	if err := flags.Parse([]string{"--plan", "route.json"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	cfg, err := LoadExecute("", flags)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Plan != "route.json" || cfg.LogLevel != "info" || !cfg.Simulate {
		t.Fatalf("defaults mismatch: %+v", cfg)
	}
	if cfg.MinOutputOverride != nil {
		t.Fatalf("unset override should be nil, got %d", *cfg.MinOutputOverride)
	}
	if !cfg.Gate.EnforceStarting || cfg.Gate.EnforceBridging || !cfg.Gate.EnforceCrossing {
		t.Fatalf("freshness defaults mismatch: %+v", cfg.Gate)
	}
	if cfg.Gate.MaxAge != 6000*time.Second || cfg.Gate.MinSignatures != 4 {
		t.Fatalf("gate defaults mismatch: %+v", cfg.Gate)
	}
	if cfg.Storage.ReportStore != "file" || cfg.RateLimit != 10 || cfg.BreakerMinimum != 5 {
		t.Fatalf("defaults mismatch: %+v", cfg)
	}
}

func TestLoadExecuteEnvAndFlags(t *testing.T) {
	t.Setenv("ROUTER_PLAN", "env.json")
	t.Setenv("ROUTER_REPORT_STORE", "SQLite")
	t.Setenv("ROUTER_ENFORCE_FRESHNESS_BRIDGING", "true")
	t.Setenv("ROUTER_MIN_OUTPUT_OVERRIDE", "25")
	t.Setenv("ROUTER_SIMULATE", "false")

	flags := pflag.NewFlagSet("execute", pflag.ContinueOnError)
	flags.String("plan", "", "")
	flags.Duration("max-age", 0, "")
	if err := flags.Parse([]string{"--max-age", "90s"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	cfg, err := LoadExecute("", flags)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Plan != "env.json" || cfg.Storage.ReportStore != "sqlite" || cfg.Simulate {
		t.Fatalf("env override mismatch: %+v", cfg)
	}
	if !cfg.Gate.EnforceBridging || cfg.Gate.MaxAge != 90*time.Second {
		t.Fatalf("gate override mismatch: %+v", cfg.Gate)
	}
	if cfg.MinOutputOverride == nil || *cfg.MinOutputOverride != 25 {
		t.Fatalf("min output override mismatch: %v", cfg.MinOutputOverride)
	}
}

func TestLoadExecuteRejects(t *testing.T) {
	if _, err := LoadExecute("", nil); err == nil {
		t.Fatalf("expected error without plan")
	}
	t.Setenv("ROUTER_PLAN", "p.json")
	t.Setenv("ROUTER_REPORT_STORE", "postgres")
	if _, err := LoadExecute("", nil); err == nil {
		t.Fatalf("expected error for postgres without dsn")
	}
	t.Setenv("ROUTER_REPORT_STORE", "redis")
	if _, err := LoadExecute("", nil); err == nil {
		t.Fatalf("expected error for unknown store")
	}
}

func TestLoadEvaluateFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "router.yaml")
	body := "plan: gate.json\nparticipant: desk-1\nmin-signatures: 5\nfull-verification: true\nreport-store: none\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadEvaluate(path, nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Plan != "gate.json" || cfg.Participant != "desk-1" || cfg.Storage.ReportStore != "none" {
		t.Fatalf("file values mismatch: %+v", cfg)
	}
	if cfg.Gate.MinSignatures != 5 || !cfg.Gate.FullVerification {
		t.Fatalf("gate values mismatch: %+v", cfg.Gate)
	}
}

func TestLoadEncodeMapsAndSlices(t *testing.T) {
	flags := pflag.NewFlagSet("encode", pflag.ContinueOnError)
	flags.String("venue", "", "")
	flags.String("accounts", "", "")
	flags.String("params", "", "")
	flags.StringSlice("trailing", nil, "")
	flags.Uint64("decimals", 0, "")
	err := flags.Parse([]string{
		"--venue", "saros",
		"--accounts", "pool=A, pool_authority=B,broken",
		"--params", "base_lot_size=10",
		"--trailing", "X,,Y",
		"--decimals", "6",
	})
	if err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	cfg, err := LoadEncode("", flags)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Venue != "saros" || len(cfg.Accounts) != 2 || cfg.Accounts["pool_authority"] != "B" {
		t.Fatalf("accounts mismatch: %+v", cfg.Accounts)
	}
	if len(cfg.Trailing) != 3 || cfg.Trailing[1] != "" {
		t.Fatalf("trailing should keep absent slots: %q", cfg.Trailing)
	}
	if cfg.Decimals == nil || *cfg.Decimals != 6 || cfg.MaxBinToProcess != 20 || !cfg.NoFailure {
		t.Fatalf("values mismatch: %+v", cfg)
	}

	params, err := ParseParams(cfg.Params)
	if err != nil || params["base_lot_size"] != 10 {
		t.Fatalf("params mismatch: %v %v", params, err)
	}
	if _, err := ParseParams(map[string]string{"x": "-1"}); err == nil {
		t.Fatalf("expected error for negative param")
	}
}
