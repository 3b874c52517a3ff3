package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/jsonrpc"
	"github.com/sony/gobreaker"

	"venueRouter/internal/fault"
	"venueRouter/internal/resource"
	"venueRouter/internal/router"
)

type fakeSubmitter struct {
	simulation Simulation
	simErr     error
	sendErr    error
	statuses   []*rpc.SignatureStatusesResult
	sent       int
	polled     int
}

func (f *fakeSubmitter) Simulate(_ context.Context, tx *solana.Transaction) (Simulation, error) {
	return f.simulation, f.simErr
}

func (f *fakeSubmitter) Send(_ context.Context, tx *solana.Transaction) (solana.Signature, error) {
	f.sent++
	if f.sendErr != nil {
		return solana.Signature{}, f.sendErr
	}
	return tx.Signatures[0], nil
}

func (f *fakeSubmitter) Status(_ context.Context, _ solana.Signature) (*rpc.SignatureStatusesResult, error) {
	if f.polled >= len(f.statuses) {
		return nil, nil
	}
	st := f.statuses[f.polled]
	f.polled++
	return st, nil
}

func testSigner(t *testing.T) solana.PrivateKey {
	t.Helper()
	key, err := solana.NewRandomPrivateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	return key
}

func invocations(signer solana.PublicKey) []router.Invocation {
	program := solana.MustPublicKeyFromBase58("SSwpkEEcbUqx4vtoEByFjSkhKdCT862DNVb52nZg1UZ")
	return []router.Invocation{{
		Program:  program,
		Accounts: resource.List{{Key: signer, Writable: true, Signer: true}, {Key: solana.TokenProgramID}},
		Payload:  []byte{1, 2, 3},
	}}
}

func testToken() router.SyncToken {
	return router.SyncToken{Blockhash: solana.HashFromBytes(make([]byte, 32)), Slot: 9}
}

func fastConfig() AcceptorConfig {
	cfg := DefaultAcceptorConfig()
	cfg.ConfirmBackoff = time.Millisecond
	cfg.ConfirmRetries = 3
	return cfg
}

func TestAcceptSimulated(t *testing.T) {
	signer := testSigner(t)
	client := &fakeSubmitter{simulation: Simulation{Slot: 12, Logs: []string{"ok"}, UnitsConsumed: 4200}}
	cfg := fastConfig()
	cfg.Simulate = true
	a := NewAcceptor(client, signer, cfg, nil)

	receipt, err := a.Accept(context.Background(), testToken(), invocations(signer.PublicKey()))
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if !receipt.Simulated || receipt.Slot != 12 || receipt.UnitsConsumed != 4200 || receipt.Signature == "" {
		t.Fatalf("receipt mismatch: %+v", receipt)
	}
	if client.sent != 0 {
		t.Fatalf("simulation must not send")
	}
}

func TestAcceptSimulationRejected(t *testing.T) {
	signer := testSigner(t)
	logs := []string{"Program log: slippage"}
	client := &fakeSubmitter{simulation: Simulation{Err: "InstructionError", Logs: logs}}
	cfg := fastConfig()
	cfg.Simulate = true
	a := NewAcceptor(client, signer, cfg, nil)

	_, err := a.Accept(context.Background(), testToken(), invocations(signer.PublicKey()))
	var rejected *fault.VenueRejectedError
	if !errors.As(err, &rejected) {
		t.Fatalf("expected venue rejection, got %v", err)
	}
	if rejected.Diagnostic != "InstructionError" || len(rejected.Logs) != 1 {
		t.Fatalf("diagnostic mismatch: %+v", rejected)
	}
}

func TestAcceptSendConfirms(t *testing.T) {
	signer := testSigner(t)
	client := &fakeSubmitter{statuses: []*rpc.SignatureStatusesResult{
		nil,
		{Slot: 30, ConfirmationStatus: rpc.ConfirmationStatusProcessed},
		{Slot: 31, ConfirmationStatus: rpc.ConfirmationStatusConfirmed},
	}}
	a := NewAcceptor(client, signer, fastConfig(), nil)

	receipt, err := a.Accept(context.Background(), testToken(), invocations(signer.PublicKey()))
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	if receipt.Simulated || receipt.Slot != 31 || client.sent != 1 {
		t.Fatalf("receipt mismatch: %+v sent=%d", receipt, client.sent)
	}
}

func TestAcceptSendRejections(t *testing.T) {
	signer := testSigner(t)
	client := &fakeSubmitter{sendErr: &jsonrpc.RPCError{
		Code:    -32002,
		Message: "Transaction simulation failed: Error processing Instruction 0: custom program error: 0x1",
		Data:    map[string]interface{}{"logs": []interface{}{"Program log: fail"}},
	}}
	a := NewAcceptor(client, signer, fastConfig(), nil)

	_, err := a.Accept(context.Background(), testToken(), invocations(signer.PublicKey()))
	var rejected *fault.VenueRejectedError
	if !errors.As(err, &rejected) || len(rejected.Logs) != 1 {
		t.Fatalf("expected preflight rejection with logs, got %v", err)
	}

	client = &fakeSubmitter{statuses: []*rpc.SignatureStatusesResult{
		{Slot: 5, ConfirmationStatus: rpc.ConfirmationStatusConfirmed, Err: map[string]interface{}{"InstructionError": []interface{}{0, "Custom"}}},
	}}
	a = NewAcceptor(client, signer, fastConfig(), nil)
	_, err = a.Accept(context.Background(), testToken(), invocations(signer.PublicKey()))
	if !errors.Is(err, fault.ErrVenueRejected) {
		t.Fatalf("expected failed transaction to be rejected, got %v", err)
	}
}

func TestAcceptNeedsEveryAuthorizer(t *testing.T) {
	signer := testSigner(t)
	other := testSigner(t)
	a := NewAcceptor(&fakeSubmitter{}, signer, fastConfig(), nil)
	_, err := a.Accept(context.Background(), testToken(), invocations(other.PublicKey()))
	if !errors.Is(err, fault.ErrMisconfigured) {
		t.Fatalf("expected misconfigured, got %v", err)
	}
	if _, err := a.Accept(context.Background(), testToken(), nil); !errors.Is(err, fault.ErrMisconfigured) {
		t.Fatalf("expected misconfigured for empty unit, got %v", err)
	}
}

func TestBreakerIgnoresRejections(t *testing.T) {
	signer := testSigner(t)
	cfg := fastConfig()
	cfg.Simulate = true
	cfg.BreakerMinRequests = 2
	cfg.BreakerFailureRatio = 0.25

	client := &fakeSubmitter{simulation: Simulation{Err: "fail"}}
	a := NewAcceptor(client, signer, cfg, nil)
	for i := 0; i < 5; i++ {
		_, err := a.Accept(context.Background(), testToken(), invocations(signer.PublicKey()))
		if !errors.Is(err, fault.ErrVenueRejected) {
			t.Fatalf("attempt %d: expected rejection, got %v", i, err)
		}
	}

	client.simulation = Simulation{}
	client.simErr = errors.New("connection refused")
	for i := 0; i < 2; i++ {
		if _, err := a.Accept(context.Background(), testToken(), invocations(signer.PublicKey())); err == nil {
			t.Fatalf("expected transport failure")
		}
	}
	_, err := a.Accept(context.Background(), testToken(), invocations(signer.PublicKey()))
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Fatalf("expected open breaker, got %v", err)
	}
}

type flakySource struct {
	failures int
	calls    int
}

func (s *flakySource) LatestBlockhash(context.Context) (router.SyncToken, error) {
	s.calls++
	if s.calls <= s.failures {
		return router.SyncToken{}, errors.New("timeout")
	}
	return router.SyncToken{Blockhash: solana.HashFromBytes(make([]byte, 32)), Slot: uint64(s.calls)}, nil
}

func TestRefreshRetries(t *testing.T) {
	cell := router.NewSyncCell()
	source := &flakySource{failures: 2}
	r := NewRefresher(source, cell, RefresherConfig{MaxRetries: 2, RetryBackoff: time.Millisecond}, nil)
	if err := r.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	token, ok := cell.Get()
	if !ok || token.Slot != 3 {
		t.Fatalf("token mismatch: %+v %v", token, ok)
	}

	source = &flakySource{failures: 10}
	r = NewRefresher(source, router.NewSyncCell(), RefresherConfig{MaxRetries: 1, RetryBackoff: time.Millisecond}, nil)
	if err := r.Refresh(context.Background()); err == nil {
		t.Fatalf("expected error after retries")
	}
	if source.calls != 2 {
		t.Fatalf("expected 2 calls, got %d", source.calls)
	}
}

func TestRunStopsWithContext(t *testing.T) {
	cell := router.NewSyncCell()
	r := NewRefresher(&flakySource{}, cell, RefresherConfig{Interval: time.Millisecond}, nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	waitCtx, waitCancel := context.WithTimeout(context.Background(), time.Second)
	defer waitCancel()
	if _, err := cell.Wait(waitCtx); err != nil {
		t.Fatalf("cell never set: %v", err)
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("run: %v", err)
	}
}

func TestAcceptSendUnconfirmed(t *testing.T) {
	signer := testSigner(t)
	client := &fakeSubmitter{statuses: []*rpc.SignatureStatusesResult{
		{Slot: 30, ConfirmationStatus: rpc.ConfirmationStatusProcessed},
	}}
	a := NewAcceptor(client, signer, fastConfig(), nil)

	_, err := a.Accept(context.Background(), testToken(), invocations(signer.PublicKey()))
	var unconfirmed *fault.UnconfirmedError
	if !errors.As(err, &unconfirmed) {
		t.Fatalf("expected unconfirmed outcome, got %v", err)
	}
	if unconfirmed.Signature == "" || !errors.Is(err, errPending) || errors.Is(err, fault.ErrVenueRejected) {
		t.Fatalf("unconfirmed mismatch: %v", err)
	}
	if fault.Kind(err) != "Unconfirmed" || client.sent != 1 {
		t.Fatalf("kind %s sent=%d", fault.Kind(err), client.sent)
	}
}

func TestWithRetryStopsOnPermanentErrors(t *testing.T) {
	for _, perm := range []error{
		fault.Rejected("custom program error: 0x1", nil),
		fault.ErrMisconfigured,
	} {
		calls := 0
		err := withRetry(context.Background(), 5, time.Millisecond, func(context.Context) error {
			calls++
			return perm
		})
		if !errors.Is(err, perm) || calls != 1 {
			t.Fatalf("expected one call returning %v, got %d calls and %v", perm, calls, err)
		}
	}

	calls := 0
	err := withRetry(context.Background(), 3, time.Millisecond, func(context.Context) error {
		calls++
		return errPending
	})
	if !errors.Is(err, errPending) || calls != 4 {
		t.Fatalf("expected 4 calls ending pending, got %d and %v", calls, err)
	}
}

func TestWithRetryKeepsPendingOnDeadline(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()
	err := withRetry(ctx, 1000, time.Millisecond, func(context.Context) error {
		return errPending
	})
	if !errors.Is(err, context.DeadlineExceeded) || !errors.Is(err, errPending) {
		t.Fatalf("expected deadline wrapping pending, got %v", err)
	}
}
