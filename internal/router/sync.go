package router

import (
	"context"
	"sync"

	"github.com/gagliardetto/solana-go"
)

// SyncToken is the recent blockhash a unit is stamped with, and the slot it
// was observed at.
type SyncToken struct {
	Blockhash solana.Hash
	Slot      uint64
}

// SyncCell holds the current sync token. It starts unset; readers that need
// a token wait for the first Set.
type SyncCell struct {
	mu    sync.RWMutex
	token SyncToken
	set   bool
	ready chan struct{}
}

func NewSyncCell() *SyncCell {
	return &SyncCell{ready: make(chan struct{})}
}

// Set replaces the token and releases waiters.
func (c *SyncCell) Set(token SyncToken) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
	if !c.set {
		c.set = true
		close(c.ready)
	}
}

// Get returns the token and whether one has been set.
func (c *SyncCell) Get() (SyncToken, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token, c.set
}

// Wait returns the token, blocking until one is set or ctx ends.
func (c *SyncCell) Wait(ctx context.Context) (SyncToken, error) {
	if token, ok := c.Get(); ok {
		return token, nil
	}
	select {
	case <-ctx.Done():
		return SyncToken{}, ctx.Err()
	case <-c.ready:
	}
	token, _ := c.Get()
	return token, nil
}
