package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"venueRouter/internal/model"
)

func TestFileReportStoreOverwritesPerParticipant(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state", "reports.json")
	store := NewFileReportStore(path)

	if _, ok, err := store.GetReport(ctx, "alice"); err != nil || ok {
		t.Fatalf("empty store: ok=%v err=%v", ok, err)
	}

	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	first := model.ArbitrageReport{Participant: "alice", StartingPrice: 1, BridgingPrice: 2, CrossingPrice: 3, UpdatedAt: at, ProfitBps: -5}
	second := model.ArbitrageReport{Participant: "alice", StartingPrice: 4, BridgingPrice: 5, CrossingPrice: 6, UpdatedAt: at.Add(time.Minute), ProfitBps: 12}
	other := model.ArbitrageReport{Participant: "bob", ProfitBps: 7, UpdatedAt: at}

	for _, r := range []model.ArbitrageReport{first, other, second} {
		if err := store.PutReport(ctx, r); err != nil {
			t.Fatalf("put %s: %v", r.Participant, err)
		}
	}

	got, ok, err := store.GetReport(ctx, "alice")
	if err != nil || !ok {
		t.Fatalf("get alice: ok=%v err=%v", ok, err)
	}
	if !reflect.DeepEqual(got, second) {
		t.Fatalf("latest report mismatch: %+v != %+v", got, second)
	}
	if got, _, _ := NewFileReportStore(path).GetReport(ctx, "bob"); got.ProfitBps != 7 {
		t.Fatalf("bob report lost: %+v", got)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temporary file left behind: %v", err)
	}
	if err := store.PutReport(ctx, model.ArbitrageReport{}); err == nil {
		t.Fatalf("expected error for report without participant")
	}
}

func TestJsonlJournalAppends(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "journal.jsonl")
	journal := NewJsonlJournal(path)

	profit := int64(31)
	records := []model.UnitRecord{
		{UnitID: "u1", Venues: []string{"raydium-swap"}, State: "rejected", ErrorKind: "NotProfitable", Error: "profit -3 bps: not profitable", RecordedAt: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)},
		{UnitID: "u2", Venues: []string{"whirlpool", "meteora-dlmm"}, State: "committed", Signature: "sig", Slot: 9, ProfitBps: &profit, RecordedAt: time.Date(2024, 6, 1, 0, 1, 0, 0, time.UTC)},
	}
	for _, r := range records {
		if err := journal.Append(ctx, r); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	got, err := ReadJournal(path)
	if err != nil {
		t.Fatalf("read journal: %v", err)
	}
	if !reflect.DeepEqual(got, records) {
		t.Fatalf("journal mismatch: %+v != %+v", got, records)
	}

	missing, err := ReadJournal(filepath.Join(t.TempDir(), "none.jsonl"))
	if err != nil || len(missing) != 0 {
		t.Fatalf("missing journal: %v %v", missing, err)
	}
}

type failingJournal struct{}

func (failingJournal) Append(context.Context, model.UnitRecord) error {
	return os.ErrPermission
}

func TestJournalsFanOut(t *testing.T) {
	path := filepath.Join(t.TempDir(), "units.jsonl")
	js := Journals{failingJournal{}, NewJsonlJournal(path)}

	err := js.Append(context.Background(), model.UnitRecord{UnitID: "u1", State: "committed"})
	if !errors.Is(err, os.ErrPermission) {
		t.Fatalf("expected the failing journal's error, got %v", err)
	}
	records, err := ReadJournal(path)
	if err != nil || len(records) != 1 || records[0].UnitID != "u1" {
		t.Fatalf("later journals should still append: %v %v", records, err)
	}
}
