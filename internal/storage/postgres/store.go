package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"venueRouter/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS arbitrage_reports (
	participant    TEXT PRIMARY KEY,
	starting_price BIGINT NOT NULL,
	bridging_price BIGINT NOT NULL,
	crossing_price BIGINT NOT NULL,
	profit_bps     BIGINT NOT NULL,
	updated_at     TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS unit_records (
	unit_id     UUID NOT NULL,
	venues      TEXT[] NOT NULL,
	state       TEXT NOT NULL,
	signature   TEXT,
	slot        BIGINT,
	simulated   BOOLEAN NOT NULL DEFAULT false,
	profit_bps  BIGINT,
	error_kind  TEXT,
	error       TEXT,
	recorded_at TIMESTAMPTZ NOT NULL
);
`

// Store provides Postgres persistence for reports and unit records.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Migrate creates the tables when missing.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, schema)
	return err
}

// PutReport inserts or replaces the participant's report.
func (s *Store) PutReport(ctx context.Context, report model.ArbitrageReport) error {
	if report.Participant == "" {
		return fmt.Errorf("report participant is required")
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO arbitrage_reports (
			participant, starting_price, bridging_price, crossing_price, profit_bps, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (participant)
		DO UPDATE SET
			starting_price = EXCLUDED.starting_price,
			bridging_price = EXCLUDED.bridging_price,
			crossing_price = EXCLUDED.crossing_price,
			profit_bps = EXCLUDED.profit_bps,
			updated_at = EXCLUDED.updated_at
	`,
		report.Participant,
		report.StartingPrice,
		report.BridgingPrice,
		report.CrossingPrice,
		report.ProfitBps,
		report.UpdatedAt,
	)
	return err
}

// GetReport returns the participant's latest report.
func (s *Store) GetReport(ctx context.Context, participant string) (model.ArbitrageReport, bool, error) {
	report := model.ArbitrageReport{Participant: participant}
	row := s.pool.QueryRow(ctx, `
		SELECT starting_price, bridging_price, crossing_price, profit_bps, updated_at
		FROM arbitrage_reports WHERE participant=$1
	`, participant)
	if err := row.Scan(&report.StartingPrice, &report.BridgingPrice, &report.CrossingPrice, &report.ProfitBps, &report.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ArbitrageReport{}, false, nil
		}
		return model.ArbitrageReport{}, false, err
	}
	return report, true, nil
}

// Append inserts one unit record.
func (s *Store) Append(ctx context.Context, record model.UnitRecord) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO unit_records (
			unit_id, venues, state, signature, slot, simulated, profit_bps, error_kind, error, recorded_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		record.UnitID,
		record.Venues,
		record.State,
		nullString(record.Signature),
		int64(record.Slot),
		record.Simulated,
		record.ProfitBps,
		nullString(record.ErrorKind),
		nullString(record.Error),
		record.RecordedAt,
	)
	return err
}

// AppendBatch inserts several records in one round trip.
func (s *Store) AppendBatch(ctx context.Context, records []model.UnitRecord) error {
	if len(records) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, record := range records {
		batch.Queue(`
			INSERT INTO unit_records (
				unit_id, venues, state, signature, slot, simulated, profit_bps, error_kind, error, recorded_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		`,
			record.UnitID,
			record.Venues,
			record.State,
			nullString(record.Signature),
			int64(record.Slot),
			record.Simulated,
			record.ProfitBps,
			nullString(record.ErrorKind),
			nullString(record.Error),
			record.RecordedAt,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range records {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
