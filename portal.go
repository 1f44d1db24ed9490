package main

import (
	"context"
	"math/big"
	"sync"

	"wave-portal-tui/contract"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// -------------------- CONTRACT SEAM --------------------
// The controller only sees these interfaces so tests can drive it without a node.

// wavePortal is the WavePortal contract as the controller uses it.
type wavePortal interface {
	HeadBlock(ctx context.Context) (uint64, error)
	GetTotalWaves(ctx context.Context) (*big.Int, error)
	GetAllWavesAt(ctx context.Context, block *big.Int) ([]contract.RawWave, error)
	SendWave(ctx context.Context, req contract.WaveRequest) (waveTx, error)
	Subscribe(ctx context.Context, start *uint64, handler func(contract.NewWave)) (subscription, error)
}

// waveTx is a submitted wave awaiting confirmation.
type waveTx interface {
	Hash() common.Hash
	Transaction() *types.Transaction
	Wait(ctx context.Context) (*types.Receipt, error)
}

// subscription is an open NewWave event stream.
type subscription interface {
	Unsubscribe()
	Err() <-chan error
	Polling() bool
}

// contractPortal adapts *contract.Client.
type contractPortal struct {
	*contract.Client
	forcePoll bool
}

func (p contractPortal) SendWave(ctx context.Context, req contract.WaveRequest) (waveTx, error) {
	pending, err := p.Wave(ctx, req)
	if err != nil {
		return nil, err
	}
	return pending, nil
}

func (p contractPortal) Subscribe(ctx context.Context, start *uint64, handler func(contract.NewWave)) (subscription, error) {
	sub, err := p.SubscribeNewWave(ctx, &contract.SubscribeOptions{Start: start, ForcePoll: p.forcePoll}, handler)
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// waveFeed carries events from the subscription goroutine into Update.
// push never blocks once the feed is closed, so Unsubscribe can wait on an
// in-flight handler safely.
type waveFeed struct {
	events chan contract.NewWave
	stop   chan struct{}
	once   sync.Once
}

func newWaveFeed() *waveFeed {
	return &waveFeed{
		events: make(chan contract.NewWave, 64),
		stop:   make(chan struct{}),
	}
}

func (f *waveFeed) push(ev contract.NewWave) {
	select {
	case f.events <- ev:
	case <-f.stop:
	}
}

func (f *waveFeed) close() {
	f.once.Do(func() { close(f.stop) })
}
