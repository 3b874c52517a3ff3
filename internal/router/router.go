package router

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"venueRouter/internal/arbitrage"
	"venueRouter/internal/fault"
	"venueRouter/internal/model"
	"venueRouter/internal/storage"
	"venueRouter/internal/venue"
)

// Resolver maps a venue id to its codec.
type Resolver interface {
	Resolve(id venue.ID) (*venue.Venue, error)
}

// Acceptor submits a unit's invocations. AtomicChain reports whether several
// invocations are applied all-or-nothing.
type Acceptor interface {
	Accept(ctx context.Context, token SyncToken, invocations []Invocation) (model.Receipt, error)
	AtomicChain() bool
}

// Config holds router settings.
type Config struct {
	// OnChainGate appends the gate program call to gated units.
	OnChainGate bool
	GateProgram solana.PublicKey
	// GateSender signs the gate call; it is usually the hops' user.
	GateSender solana.PublicKey
}

// Router builds execution units from hops and drives them to completion.
type Router struct {
	cfg      Config
	resolver Resolver
	acceptor Acceptor
	cell     *SyncCell
	gate     *arbitrage.Gate
	reports  storage.ReportStore
	journal  storage.Journal
	logger   *zap.Logger
	now      func() time.Time
}

// NewRouter builds a Router with its dependencies. reports and journal may be
// nil.
func NewRouter(cfg Config, resolver Resolver, acceptor Acceptor, cell *SyncCell, gate *arbitrage.Gate, reports storage.ReportStore, journal storage.Journal, logger *zap.Logger) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	if gate == nil {
		gate = arbitrage.NewGate(logger)
	}
	if cfg.GateProgram.IsZero() {
		cfg.GateProgram = arbitrage.GateProgram
	}
	return &Router{
		cfg:      cfg,
		resolver: resolver,
		acceptor: acceptor,
		cell:     cell,
		gate:     gate,
		reports:  reports,
		journal:  journal,
		logger:   logger,
		now:      time.Now,
	}
}

// Build encodes every hop before anything is submitted; the first failure
// aborts the whole unit.
func (r *Router) Build(hops []Hop, gate *arbitrage.Observations) (*Unit, error) {
	if len(hops) == 0 {
		return nil, fmt.Errorf("unit has no hops: %w", fault.ErrMisconfigured)
	}

	invocations := make([]Invocation, 0, len(hops)+1)
	for i, hop := range hops {
		inv, err := r.encodeHop(hop)
		if err != nil {
			return nil, fmt.Errorf("hop %d: %w", i, err)
		}
		invocations = append(invocations, inv)
	}

	if gate != nil && r.cfg.OnChainGate {
		sender := r.cfg.GateSender
		if sender.IsZero() {
			sender = hops[0].Request.User
		}
		call, err := arbitrage.GateInstruction(r.cfg.GateProgram, sender, *gate)
		if err != nil {
			return nil, fmt.Errorf("gate: %w", err)
		}
		invocations = append(invocations, Invocation{Gate: true, Program: call.Program, Accounts: call.Accounts, Payload: call.Payload})
	}

	if len(invocations) > 1 && !r.acceptor.AtomicChain() {
		return nil, fmt.Errorf("%d invocations: %w", len(invocations), fault.ErrPartialChainUnsupported)
	}

	unit := &Unit{ID: uuid.New(), Invocations: invocations, Gate: gate, State: Built}
	r.logger.Info("unit built", zap.Stringer("unit", unit.ID), zap.Strings("invocations", unit.Labels()))
	return unit, nil
}

func (r *Router) encodeHop(hop Hop) (Invocation, error) {
	v, err := r.resolver.Resolve(hop.Venue)
	if err != nil {
		return Invocation{}, err
	}
	payload, err := v.Encode(hop.Request)
	if err != nil {
		return Invocation{}, err
	}
	accounts, err := v.Resources(hop.Request)
	if err != nil {
		return Invocation{}, err
	}
	r.logger.Debug("hop encoded",
		zap.Stringer("venue", hop.Venue),
		zap.Int("payload_bytes", len(payload)),
		zap.Int("accounts", len(accounts)),
	)
	return Invocation{Venue: hop.Venue, Program: v.Program, Accounts: accounts, Payload: payload}, nil
}

// Execute runs a built unit. A gated unit is checked locally first and never
// submitted when stale or unprofitable. ctx bounds the wait for a sync token
// and is detached once the unit is submitted.
func (r *Router) Execute(ctx context.Context, unit *Unit) (model.Receipt, error) {
	if unit == nil || unit.State != Built {
		return model.Receipt{}, fmt.Errorf("unit is not in built state: %w", fault.ErrMisconfigured)
	}
	logger := r.logger.With(zap.Stringer("unit", unit.ID))

	if unit.Gate != nil {
		report, err := r.gate.Check(*unit.Gate)
		if err == nil || errors.Is(err, fault.ErrNotProfitable) {
			unit.Report = &report
		}
		if err != nil {
			unit.State = Rejected
			logger.Info("unit rejected by gate", zap.String("kind", fault.Kind(err)), zap.Error(err))
			r.record(ctx, unit, model.Receipt{}, err)
			return model.Receipt{}, fmt.Errorf("unit %s: %w", unit.ID, err)
		}
	}

	if r.cell == nil {
		return model.Receipt{}, fmt.Errorf("router has no sync cell: %w", fault.ErrMisconfigured)
	}
	token, err := r.cell.Wait(ctx)
	if err != nil {
		return model.Receipt{}, fmt.Errorf("wait for sync token: %w", err)
	}

	unit.State = Submitted
	logger.Info("unit submitted", zap.Uint64("slot", token.Slot), zap.Stringer("blockhash", token.Blockhash))
	submitCtx := context.WithoutCancel(ctx)

	receipt, err := r.acceptor.Accept(submitCtx, token, unit.Invocations)
	var unconfirmed *fault.UnconfirmedError
	switch {
	case errors.As(err, &unconfirmed):
		unit.State = Unconfirmed
		logger.Warn("unit outcome unknown", zap.String("signature", unconfirmed.Signature), zap.Error(err))
		r.record(submitCtx, unit, model.Receipt{Signature: unconfirmed.Signature}, err)
		return model.Receipt{}, fmt.Errorf("unit %s: %w", unit.ID, err)
	case err != nil:
		unit.State = Rejected
		logger.Warn("unit rejected", zap.String("kind", fault.Kind(err)), zap.Error(err))
		r.record(submitCtx, unit, model.Receipt{}, err)
		return model.Receipt{}, fmt.Errorf("unit %s: %w", unit.ID, err)
	}

	unit.State = Committed
	receipt.UnitID = unit.ID.String()
	if receipt.CommittedAt.IsZero() {
		receipt.CommittedAt = r.now().UTC()
	}
	logger.Info("unit committed", zap.String("signature", receipt.Signature), zap.Uint64("slot", receipt.Slot), zap.Bool("simulated", receipt.Simulated))

	if unit.Report != nil && r.reports != nil {
		if err := r.reports.PutReport(submitCtx, *unit.Report); err != nil {
			logger.Error("persist arbitrage report failed", zap.Error(err))
		}
	}
	r.record(submitCtx, unit, receipt, nil)
	return receipt, nil
}

// Run builds and executes hops as one unit.
func (r *Router) Run(ctx context.Context, hops []Hop, gate *arbitrage.Observations) (*Unit, model.Receipt, error) {
	unit, err := r.Build(hops, gate)
	if err != nil {
		return nil, model.Receipt{}, err
	}
	receipt, err := r.Execute(ctx, unit)
	return unit, receipt, err
}

func (r *Router) record(ctx context.Context, unit *Unit, receipt model.Receipt, cause error) {
	if r.journal == nil {
		return
	}
	rec := model.UnitRecord{
		UnitID:     unit.ID.String(),
		Venues:     unit.Labels(),
		State:      unit.State.String(),
		Signature:  receipt.Signature,
		Slot:       receipt.Slot,
		Simulated:  receipt.Simulated,
		RecordedAt: r.now().UTC(),
	}
	if unit.Report != nil {
		profit := unit.Report.ProfitBps
		rec.ProfitBps = &profit
	}
	if cause != nil {
		rec.ErrorKind = fault.Kind(cause)
		rec.Error = cause.Error()
	}
	if err := r.journal.Append(ctx, rec); err != nil {
		r.logger.Error("append unit record failed", zap.Stringer("unit", unit.ID), zap.Error(err))
	}
}
