package router

import (
	"context"
	"crypto/sha256"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"venueRouter/internal/arbitrage"
	"venueRouter/internal/fault"
	"venueRouter/internal/model"
	"venueRouter/internal/venue"
)

type mockAcceptor struct {
	mock.Mock
	atomic bool
}

func (m *mockAcceptor) Accept(ctx context.Context, token SyncToken, invocations []Invocation) (model.Receipt, error) {
	args := m.Called(ctx, token, invocations)
	return args.Get(0).(model.Receipt), args.Error(1)
}

func (m *mockAcceptor) AtomicChain() bool {
	return m.atomic
}

type memoryReports struct {
	mu      sync.Mutex
	reports map[string]model.ArbitrageReport
}

func (s *memoryReports) PutReport(_ context.Context, report model.ArbitrageReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reports == nil {
		s.reports = make(map[string]model.ArbitrageReport)
	}
	s.reports[report.Participant] = report
	return nil
}

func (s *memoryReports) GetReport(_ context.Context, participant string) (model.ArbitrageReport, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reports[participant]
	return r, ok, nil
}

type memoryJournal struct {
	mu      sync.Mutex
	records []model.UnitRecord
}

func (j *memoryJournal) Append(_ context.Context, record model.UnitRecord) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.records = append(j.records, record)
	return nil
}

func key(name string) solana.PublicKey {
	return solana.PublicKey(sha256.Sum256([]byte(name)))
}

func sarosHop(src, dst string) Hop {
	accounts := map[string]solana.PublicKey{}
	for _, name := range []string{"pool", "pool_authority", "pool_source", "pool_destination", "pool_lp_mint", "protocol_lp_token"} {
		accounts[name] = key(src + dst + name)
	}
	return Hop{
		Venue: venue.Saros,
		Request: venue.Request{
			Amount:          1_000_000,
			User:            key("user"),
			SourceMint:      key(src),
			DestinationMint: key(dst),
			Accounts:        accounts,
		},
	}
}

// Whirlpool needs its mint accounts; without them the hop cannot encode.
func brokenHop() Hop {
	return Hop{
		Venue: venue.Whirlpool,
		Request: venue.Request{
			Amount:          5,
			User:            key("user"),
			SourceMint:      key("b"),
			DestinationMint: key("c"),
		},
	}
}

var blockhash = solana.HashFromBytes(key("blockhash").Bytes())

func readyCell() *SyncCell {
	cell := NewSyncCell()
	cell.Set(SyncToken{Blockhash: blockhash, Slot: 100})
	return cell
}

func newTestRouter(acceptor Acceptor, cell *SyncCell, now time.Time) (*Router, *memoryReports, *memoryJournal) {
	gate := arbitrage.NewGate(nil)
	gate.Clock = func() time.Time { return now }
	reports, journal := &memoryReports{}, &memoryJournal{}
	r := NewRouter(Config{}, venue.NewRegistry(nil), acceptor, cell, gate, reports, journal, nil)
	r.now = func() time.Time { return now }
	return r, reports, journal
}

func gateObservations(now time.Time, crossing int64) *arbitrage.Observations {
	at := func(m int64) arbitrage.Observation {
		return arbitrage.Observation{Mantissa: m, Exponent: -8, PublishTime: now.Add(-time.Second)}
	}
	return &arbitrage.Observations{
		Participant: key("user").String(),
		Starting:    at(350000000000),
		Bridging:    at(5000000),
		Crossing:    at(crossing),
	}
}

func TestSecondHopEncodingFailureMakesNoCalls(t *testing.T) {
	acceptor := &mockAcceptor{atomic: true}
	r, _, journal := newTestRouter(acceptor, readyCell(), time.Now())

	_, _, err := r.Run(context.Background(), []Hop{sarosHop("a", "b"), brokenHop()}, nil)
	require.ErrorIs(t, err, fault.ErrMisconfigured)
	acceptor.AssertNumberOfCalls(t, "Accept", 0)
	require.Empty(t, journal.records)
}

func TestUnsupportedHopMakesNoCalls(t *testing.T) {
	acceptor := &mockAcceptor{atomic: true}
	r, _, _ := newTestRouter(acceptor, readyCell(), time.Now())

	hop := sarosHop("a", "b")
	hop.Venue = venue.Jupiter
	_, _, err := r.Run(context.Background(), []Hop{hop}, nil)
	require.ErrorIs(t, err, fault.ErrUnsupportedVenue)
	acceptor.AssertNotCalled(t, "Accept", mock.Anything, mock.Anything, mock.Anything)
}

func TestMultiHopNeedsAtomicAcceptor(t *testing.T) {
	acceptor := &mockAcceptor{atomic: false}
	r, _, _ := newTestRouter(acceptor, readyCell(), time.Now())

	_, err := r.Build([]Hop{sarosHop("a", "b"), sarosHop("b", "a")}, nil)
	require.ErrorIs(t, err, fault.ErrPartialChainUnsupported)

	unit, err := r.Build([]Hop{sarosHop("a", "b")}, nil)
	require.NoError(t, err)
	require.Len(t, unit.Invocations, 1)
}

func TestExecuteCommitsInOrder(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	acceptor := &mockAcceptor{atomic: true}
	r, reports, journal := newTestRouter(acceptor, readyCell(), now)

	unit, err := r.Build([]Hop{sarosHop("a", "b"), sarosHop("b", "a")}, gateObservations(now, 17000000000))
	require.NoError(t, err)

	acceptor.On("Accept", mock.Anything, SyncToken{Blockhash: blockhash, Slot: 100}, mock.MatchedBy(func(invs []Invocation) bool {
		return len(invs) == 2 && invs[0].Venue == venue.Saros && invs[1].Accounts[3].Key != invs[0].Accounts[3].Key
	})).Return(model.Receipt{Signature: "sig", Slot: 101}, nil).Once()

	receipt, err := r.Execute(context.Background(), unit)
	require.NoError(t, err)
	acceptor.AssertExpectations(t)

	require.Equal(t, Committed, unit.State)
	require.Equal(t, unit.ID.String(), receipt.UnitID)
	require.Equal(t, now, receipt.CommittedAt)

	stored, ok, _ := reports.GetReport(context.Background(), key("user").String())
	require.True(t, ok)
	require.Equal(t, int64(294), stored.ProfitBps)

	require.Len(t, journal.records, 1)
	require.Equal(t, "committed", journal.records[0].State)
	require.Equal(t, []string{"saros", "saros"}, journal.records[0].Venues)

	_, err = r.Execute(context.Background(), unit)
	require.ErrorIs(t, err, fault.ErrMisconfigured)
	acceptor.AssertNumberOfCalls(t, "Accept", 1)
}

func TestGateRejectsBeforeSubmission(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	acceptor := &mockAcceptor{atomic: true}
	r, reports, journal := newTestRouter(acceptor, readyCell(), now)

	unit, err := r.Build([]Hop{sarosHop("a", "b")}, gateObservations(now, 17600000000))
	require.NoError(t, err)

	_, err = r.Execute(context.Background(), unit)
	require.ErrorIs(t, err, fault.ErrNotProfitable)
	acceptor.AssertNumberOfCalls(t, "Accept", 0)
	require.Equal(t, Rejected, unit.State)
	require.NotNil(t, unit.Report)
	require.Equal(t, int64(-57), unit.Report.ProfitBps)
	require.Empty(t, reports.reports)

	require.Len(t, journal.records, 1)
	require.Equal(t, "NotProfitable", journal.records[0].ErrorKind)

	stale := gateObservations(now, 17000000000)
	stale.Crossing.PublishTime = now.Add(-2 * arbitrage.DefaultMaxAge)
	unit, err = r.Build([]Hop{sarosHop("a", "b")}, stale)
	require.NoError(t, err)
	_, err = r.Execute(context.Background(), unit)
	require.ErrorIs(t, err, fault.ErrStaleObservation)
	acceptor.AssertNumberOfCalls(t, "Accept", 0)
}

func TestVenueRejectionPassesThrough(t *testing.T) {
	acceptor := &mockAcceptor{atomic: true}
	r, _, journal := newTestRouter(acceptor, readyCell(), time.Now())

	logs := []string{"Program log: Error: exceeds desired slippage limit"}
	acceptor.On("Accept", mock.Anything, mock.Anything, mock.Anything).
		Return(model.Receipt{}, fault.Rejected("custom program error: 0x1771", logs)).Once()

	unit, err := r.Build([]Hop{sarosHop("a", "b")}, nil)
	require.NoError(t, err)
	_, err = r.Execute(context.Background(), unit)

	var rejected *fault.VenueRejectedError
	require.True(t, errors.As(err, &rejected))
	require.Equal(t, "custom program error: 0x1771", rejected.Diagnostic)
	require.Equal(t, logs, rejected.Logs)
	require.Equal(t, Rejected, unit.State)
	require.Equal(t, "VenueRejected", journal.records[0].ErrorKind)
}

func TestExecuteWaitsForSyncToken(t *testing.T) {
	acceptor := &mockAcceptor{atomic: true}
	cell := NewSyncCell()
	r, _, _ := newTestRouter(acceptor, cell, time.Now())

	unit, err := r.Build([]Hop{sarosHop("a", "b")}, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = r.Execute(ctx, unit)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Equal(t, Built, unit.State)
	acceptor.AssertNumberOfCalls(t, "Accept", 0)

	acceptor.On("Accept", mock.Anything, SyncToken{Blockhash: blockhash, Slot: 7}, mock.Anything).
		Return(model.Receipt{Signature: "sig"}, nil).Once()
	go func() {
		time.Sleep(10 * time.Millisecond)
		cell.Set(SyncToken{Blockhash: blockhash, Slot: 7})
	}()
	_, err = r.Execute(context.Background(), unit)
	require.NoError(t, err)
	acceptor.AssertExpectations(t)
}

func TestOnChainGateAppended(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	acceptor := &mockAcceptor{atomic: true}
	r := NewRouter(Config{OnChainGate: true}, venue.NewRegistry(nil), acceptor, readyCell(), nil, nil, nil, nil)

	obs := gateObservations(now, 17000000000)
	_, err := r.Build([]Hop{sarosHop("a", "b")}, obs)
	require.ErrorIs(t, err, fault.ErrMisconfigured, "price accounts are required")

	obs.Starting.Account = key("starting")
	obs.Bridging.Account = key("bridging")
	obs.Crossing.Account = key("crossing")
	unit, err := r.Build([]Hop{sarosHop("a", "b")}, obs)
	require.NoError(t, err)
	require.Len(t, unit.Invocations, 2)

	last := unit.Invocations[1]
	require.True(t, last.Gate)
	require.Equal(t, arbitrage.GateProgram, last.Program)
	require.Equal(t, key("user"), last.Accounts[0].Key)
	require.Equal(t, []string{"saros", "arbitrage-gate"}, unit.Labels())
	require.Len(t, unit.Instructions(), 2)
}

func TestSyncCell(t *testing.T) {
	cell := NewSyncCell()
	if _, ok := cell.Get(); ok {
		t.Fatalf("new cell should be unset")
	}

	done := make(chan SyncToken)
	go func() {
		token, err := cell.Wait(context.Background())
		if err != nil {
			t.Errorf("wait: %v", err)
		}
		done <- token
	}()

	cell.Set(SyncToken{Slot: 1})
	cell.Set(SyncToken{Slot: 2})
	if got := <-done; got.Slot == 0 {
		t.Fatalf("waiter released with unset token")
	}
	if got, ok := cell.Get(); !ok || got.Slot != 2 {
		t.Fatalf("latest token mismatch: %+v", got)
	}
}

func TestUnconfirmedUnitKeepsSignature(t *testing.T) {
	acceptor := &mockAcceptor{atomic: true}
	r, _, journal := newTestRouter(acceptor, readyCell(), time.Now())

	acceptor.On("Accept", mock.Anything, mock.Anything, mock.Anything).
		Return(model.Receipt{}, fault.Unconfirmed("sig", errors.New("still processed"))).Once()

	unit, err := r.Build([]Hop{sarosHop("a", "b")}, nil)
	require.NoError(t, err)
	_, err = r.Execute(context.Background(), unit)
	require.ErrorIs(t, err, fault.ErrUnconfirmed)
	require.NotErrorIs(t, err, fault.ErrVenueRejected)
	require.Equal(t, Unconfirmed, unit.State)

	require.Len(t, journal.records, 1)
	require.Equal(t, "unconfirmed", journal.records[0].State)
	require.Equal(t, "Unconfirmed", journal.records[0].ErrorKind)
	require.Equal(t, "sig", journal.records[0].Signature)
}

func TestExecuteWithoutSyncCell(t *testing.T) {
	acceptor := &mockAcceptor{atomic: true}
	r, _, _ := newTestRouter(acceptor, nil, time.Now())

	unit, err := r.Build([]Hop{sarosHop("a", "b")}, nil)
	require.NoError(t, err)
	_, err = r.Execute(context.Background(), unit)
	require.ErrorIs(t, err, fault.ErrMisconfigured)
	require.Equal(t, Built, unit.State)
	acceptor.AssertNumberOfCalls(t, "Accept", 0)
}
