package ledger

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"go.uber.org/ratelimit"

	"venueRouter/internal/router"
)

// Simulation is the outcome of a simulated transaction.
type Simulation struct {
	Slot          uint64
	Err           interface{}
	Logs          []string
	UnitsConsumed uint64
}

// Client wraps the Solana RPC client and paces every call.
type Client struct {
	rpcClient  *rpc.Client
	limiter    ratelimit.Limiter
	commitment rpc.CommitmentType
}

// NewClient creates a client for the RPC endpoint. rate caps calls per
// second; zero or less disables pacing.
func NewClient(endpoint string, rate int) *Client {
	limiter := ratelimit.NewUnlimited()
	if rate > 0 {
		limiter = ratelimit.New(rate)
	}
	return &Client{
		rpcClient:  rpc.New(endpoint),
		limiter:    limiter,
		commitment: rpc.CommitmentConfirmed,
	}
}

// Close closes the underlying RPC client.
func (c *Client) Close() error {
	return c.rpcClient.Close()
}

// LatestBlockhash returns the latest blockhash and the slot it was read at.
func (c *Client) LatestBlockhash(ctx context.Context) (router.SyncToken, error) {
	c.limiter.Take()
	out, err := c.rpcClient.GetLatestBlockhash(ctx, c.commitment)
	if err != nil {
		return router.SyncToken{}, err
	}
	if out == nil || out.Value == nil {
		return router.SyncToken{}, fmt.Errorf("empty blockhash response")
	}
	return router.SyncToken{Blockhash: out.Value.Blockhash, Slot: out.Context.Slot}, nil
}

// AccountData returns the raw data of an account.
func (c *Client) AccountData(ctx context.Context, account solana.PublicKey) ([]byte, error) {
	c.limiter.Take()
	out, err := c.rpcClient.GetAccountInfoWithOpts(ctx, account, &rpc.GetAccountInfoOpts{Commitment: c.commitment})
	if err != nil {
		return nil, fmt.Errorf("account %s: %w", account, err)
	}
	if out == nil || out.Value == nil {
		return nil, fmt.Errorf("account %s: %w", account, rpc.ErrNotFound)
	}
	return out.GetBinary(), nil
}

// Simulate runs the transaction without committing it.
func (c *Client) Simulate(ctx context.Context, tx *solana.Transaction) (Simulation, error) {
	c.limiter.Take()
	out, err := c.rpcClient.SimulateTransactionWithOpts(ctx, tx, &rpc.SimulateTransactionOpts{
		SigVerify:  true,
		Commitment: c.commitment,
	})
	if err != nil {
		return Simulation{}, err
	}
	if out == nil || out.Value == nil {
		return Simulation{}, fmt.Errorf("empty simulation response")
	}
	sim := Simulation{Slot: out.Context.Slot, Err: out.Value.Err, Logs: out.Value.Logs}
	if out.Value.UnitsConsumed != nil {
		sim.UnitsConsumed = *out.Value.UnitsConsumed
	}
	return sim, nil
}

// Send submits the transaction with preflight checks.
func (c *Client) Send(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	c.limiter.Take()
	return c.rpcClient.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		PreflightCommitment: c.commitment,
	})
}

// Status returns the signature's status, or nil when the cluster has not
// seen it yet.
func (c *Client) Status(ctx context.Context, signature solana.Signature) (*rpc.SignatureStatusesResult, error) {
	c.limiter.Take()
	out, err := c.rpcClient.GetSignatureStatuses(ctx, false, signature)
	if err != nil {
		return nil, err
	}
	if len(out.Value) == 0 {
		return nil, nil
	}
	return out.Value[0], nil
}
