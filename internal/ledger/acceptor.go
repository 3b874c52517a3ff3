package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/jsonrpc"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"venueRouter/internal/fault"
	"venueRouter/internal/model"
	"venueRouter/internal/router"
)

// Submitter is the part of the RPC client the acceptor needs.
type Submitter interface {
	Simulate(ctx context.Context, tx *solana.Transaction) (Simulation, error)
	Send(ctx context.Context, tx *solana.Transaction) (solana.Signature, error)
	Status(ctx context.Context, signature solana.Signature) (*rpc.SignatureStatusesResult, error)
}

// AcceptorConfig controls submission.
type AcceptorConfig struct {
	// Simulate stops short of sending; the receipt reports the simulation.
	Simulate       bool
	ConfirmRetries int
	ConfirmBackoff time.Duration
	// The breaker opens once BreakerMinRequests calls were made and the
	// failure ratio reaches BreakerFailureRatio.
	BreakerFailureRatio float64
	BreakerMinRequests  uint32
	BreakerTimeout      time.Duration
}

func DefaultAcceptorConfig() AcceptorConfig {
	return AcceptorConfig{
		ConfirmRetries:      8,
		ConfirmBackoff:      250 * time.Millisecond,
		BreakerFailureRatio: 0.6,
		BreakerMinRequests:  5,
		BreakerTimeout:      30 * time.Second,
	}
}

// Acceptor packs a unit's invocations into one signed transaction, so the
// chain is all-or-nothing.
type Acceptor struct {
	client  Submitter
	signer  solana.PrivateKey
	cfg     AcceptorConfig
	breaker *gobreaker.CircuitBreaker
	logger  *zap.Logger
}

// NewAcceptor builds an acceptor that signs with signer.
func NewAcceptor(client Submitter, signer solana.PrivateKey, cfg AcceptorConfig, logger *zap.Logger) *Acceptor {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &Acceptor{client: client, signer: signer, cfg: cfg, logger: logger}
	a.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "ledger",
		Timeout: cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.BreakerMinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= cfg.BreakerFailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			switch {
			case to == gobreaker.StateOpen:
				logger.Warn("ledger seems down, stop submitting", zap.String("breaker", name))
			case from == gobreaker.StateOpen && to == gobreaker.StateHalfOpen:
				logger.Info("checking ledger status", zap.String("breaker", name))
			case from == gobreaker.StateHalfOpen && to == gobreaker.StateClosed:
				logger.Info("ledger seems ok, resume submitting", zap.String("breaker", name))
			}
		},
	})
	return a
}

// AtomicChain is true: every invocation lands in the same transaction.
func (a *Acceptor) AtomicChain() bool {
	return true
}

// outcome separates venue rejections, which must not trip the breaker, from
// transport failures.
type outcome struct {
	receipt   model.Receipt
	rejection error
}

// Accept signs and submits the invocations stamped with token.
func (a *Acceptor) Accept(ctx context.Context, token router.SyncToken, invocations []router.Invocation) (model.Receipt, error) {
	if len(invocations) == 0 {
		return model.Receipt{}, fmt.Errorf("no invocations: %w", fault.ErrMisconfigured)
	}
	instructions := make([]solana.Instruction, len(invocations))
	for i, inv := range invocations {
		instructions[i] = inv.Instruction()
	}

	payer := a.signer.PublicKey()
	tx, err := solana.NewTransaction(instructions, token.Blockhash, solana.TransactionPayer(payer))
	if err != nil {
		return model.Receipt{}, fmt.Errorf("build transaction: %w", err)
	}
	if _, err := tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(payer) {
			return &a.signer
		}
		return nil
	}); err != nil {
		return model.Receipt{}, fmt.Errorf("sign transaction as %s: %v: %w", payer, err, fault.ErrMisconfigured)
	}

	res, err := a.breaker.Execute(func() (interface{}, error) {
		if a.cfg.Simulate {
			return a.simulate(ctx, tx)
		}
		return a.send(ctx, tx)
	})
	if err != nil {
		return model.Receipt{}, err
	}
	out := res.(outcome)
	if out.rejection != nil {
		return model.Receipt{}, out.rejection
	}
	return out.receipt, nil
}

func (a *Acceptor) simulate(ctx context.Context, tx *solana.Transaction) (outcome, error) {
	sim, err := a.client.Simulate(ctx, tx)
	if err != nil {
		return outcome{}, fmt.Errorf("simulate transaction: %w", err)
	}
	if sim.Err != nil {
		return outcome{rejection: fault.Rejected(fmt.Sprint(sim.Err), sim.Logs)}, nil
	}
	a.logger.Debug("transaction simulated", zap.Uint64("slot", sim.Slot), zap.Uint64("units", sim.UnitsConsumed))
	return outcome{receipt: model.Receipt{
		Signature:     tx.Signatures[0].String(),
		Slot:          sim.Slot,
		Simulated:     true,
		UnitsConsumed: sim.UnitsConsumed,
		Logs:          sim.Logs,
	}}, nil
}

func (a *Acceptor) send(ctx context.Context, tx *solana.Transaction) (outcome, error) {
	signature, err := a.client.Send(ctx, tx)
	if err != nil {
		var rpcErr *jsonrpc.RPCError
		if errors.As(err, &rpcErr) {
			return outcome{rejection: fault.Rejected(rpcErr.Message, preflightLogs(rpcErr.Data))}, nil
		}
		return outcome{}, fmt.Errorf("send transaction: %w", err)
	}
	a.logger.Debug("transaction sent", zap.Stringer("signature", signature))

	var status *rpc.SignatureStatusesResult
	err = withRetry(ctx, a.cfg.ConfirmRetries, a.cfg.ConfirmBackoff, func(ctx context.Context) error {
		st, err := a.client.Status(ctx, signature)
		if err != nil {
			return err
		}
		if st == nil || st.ConfirmationStatus == rpc.ConfirmationStatusProcessed || st.ConfirmationStatus == "" {
			return errPending
		}
		status = st
		return nil
	})
	if err != nil {
		a.logger.Warn("transaction outcome unknown", zap.Stringer("signature", signature), zap.Error(err))
		unconfirmed := fault.Unconfirmed(signature.String(), err)
		if errors.Is(err, errPending) {
			// The ledger answered; only confirmation is missing.
			return outcome{rejection: unconfirmed}, nil
		}
		return outcome{}, unconfirmed
	}
	if status.Err != nil {
		return outcome{rejection: fault.Rejected(fmt.Sprint(status.Err), nil)}, nil
	}
	return outcome{receipt: model.Receipt{Signature: signature.String(), Slot: status.Slot}}, nil
}

// preflightLogs extracts program logs from a preflight failure's data.
func preflightLogs(data interface{}) []string {
	m, ok := data.(map[string]interface{})
	if !ok {
		return nil
	}
	raw, ok := m["logs"].([]interface{})
	if !ok {
		return nil
	}
	logs := make([]string, 0, len(raw))
	for _, l := range raw {
		if s, ok := l.(string); ok {
			logs = append(logs, s)
		}
	}
	return logs
}
