package sqlite

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"venueRouter/internal/model"
)

func TestStoreReportsAndRecords(t *testing.T) {
	ctx := context.Background()
	store, err := Open(ctx, filepath.Join(t.TempDir(), "router.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()

	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	for _, bps := range []int64{-20, 45} {
		report := model.ArbitrageReport{Participant: "alice", StartingPrice: 3, BridgingPrice: 2, CrossingPrice: 1, UpdatedAt: at, ProfitBps: bps}
		if err := store.PutReport(ctx, report); err != nil {
			t.Fatalf("put report: %v", err)
		}
	}
	got, ok, err := store.GetReport(ctx, "alice")
	if err != nil || !ok {
		t.Fatalf("get report: ok=%v err=%v", ok, err)
	}
	if got.ProfitBps != 45 || !got.UpdatedAt.Equal(at) {
		t.Fatalf("report mismatch: %+v", got)
	}
	if _, ok, _ := store.GetReport(ctx, "nobody"); ok {
		t.Fatalf("unexpected report for unknown participant")
	}

	profit := int64(45)
	records := []model.UnitRecord{
		{UnitID: "u1", Venues: []string{"whirlpool", "saros"}, State: "submitted", RecordedAt: at},
		{UnitID: "u1", Venues: []string{"whirlpool", "saros"}, State: "committed", Signature: "sig", Slot: 77, Simulated: true, ProfitBps: &profit, RecordedAt: at.Add(time.Second)},
	}
	for _, r := range records {
		if err := store.Append(ctx, r); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	stored, err := store.Records(ctx, "u1")
	if err != nil {
		t.Fatalf("records: %v", err)
	}
	if !reflect.DeepEqual(stored, records) {
		t.Fatalf("records mismatch: %+v != %+v", stored, records)
	}
}
