package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"venueRouter/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS arbitrage_reports (
	participant    TEXT PRIMARY KEY,
	starting_price INTEGER NOT NULL,
	bridging_price INTEGER NOT NULL,
	crossing_price INTEGER NOT NULL,
	profit_bps     INTEGER NOT NULL,
	updated_at     INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS unit_records (
	unit_id     TEXT NOT NULL,
	venues      TEXT NOT NULL,
	state       TEXT NOT NULL,
	signature   TEXT,
	slot        INTEGER,
	simulated   INTEGER NOT NULL DEFAULT 0,
	profit_bps  INTEGER,
	error_kind  TEXT,
	error       TEXT,
	recorded_at INTEGER NOT NULL
);
`

// Store keeps reports and unit records in a local SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and applies the
// schema.
func Open(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// PutReport inserts or replaces the participant's report.
func (s *Store) PutReport(ctx context.Context, report model.ArbitrageReport) error {
	if report.Participant == "" {
		return fmt.Errorf("report participant is required")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO arbitrage_reports (
			participant, starting_price, bridging_price, crossing_price, profit_bps, updated_at
		) VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (participant) DO UPDATE SET
			starting_price = excluded.starting_price,
			bridging_price = excluded.bridging_price,
			crossing_price = excluded.crossing_price,
			profit_bps = excluded.profit_bps,
			updated_at = excluded.updated_at
	`,
		report.Participant,
		report.StartingPrice,
		report.BridgingPrice,
		report.CrossingPrice,
		report.ProfitBps,
		report.UpdatedAt.UnixNano(),
	)
	return err
}

// GetReport returns the participant's latest report.
func (s *Store) GetReport(ctx context.Context, participant string) (model.ArbitrageReport, bool, error) {
	report := model.ArbitrageReport{Participant: participant}
	var updated int64
	row := s.db.QueryRowContext(ctx, `
		SELECT starting_price, bridging_price, crossing_price, profit_bps, updated_at
		FROM arbitrage_reports WHERE participant = ?
	`, participant)
	if err := row.Scan(&report.StartingPrice, &report.BridgingPrice, &report.CrossingPrice, &report.ProfitBps, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.ArbitrageReport{}, false, nil
		}
		return model.ArbitrageReport{}, false, err
	}
	report.UpdatedAt = time.Unix(0, updated).UTC()
	return report, true, nil
}

// Append inserts one unit record.
func (s *Store) Append(ctx context.Context, record model.UnitRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO unit_records (
			unit_id, venues, state, signature, slot, simulated, profit_bps, error_kind, error, recorded_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		record.UnitID,
		strings.Join(record.Venues, ","),
		record.State,
		nullString(record.Signature),
		int64(record.Slot),
		record.Simulated,
		record.ProfitBps,
		nullString(record.ErrorKind),
		nullString(record.Error),
		record.RecordedAt.UnixNano(),
	)
	return err
}

// Records returns the unit records of unitID in insertion order.
func (s *Store) Records(ctx context.Context, unitID string) ([]model.UnitRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT venues, state, signature, slot, simulated, profit_bps, error_kind, error, recorded_at
		FROM unit_records WHERE unit_id = ? ORDER BY rowid
	`, unitID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.UnitRecord
	for rows.Next() {
		var (
			venues                   string
			signature, kind, message sql.NullString
			slot, profit             sql.NullInt64
			recorded                 int64
		)
		record := model.UnitRecord{UnitID: unitID}
		if err := rows.Scan(&venues, &record.State, &signature, &slot, &record.Simulated, &profit, &kind, &message, &recorded); err != nil {
			return nil, err
		}
		if venues != "" {
			record.Venues = strings.Split(venues, ",")
		}
		record.Signature = signature.String
		record.Slot = uint64(slot.Int64)
		if profit.Valid {
			p := profit.Int64
			record.ProfitBps = &p
		}
		record.ErrorKind = kind.String
		record.Error = message.String
		record.RecordedAt = time.Unix(0, recorded).UTC()
		out = append(out, record)
	}
	return out, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
