package contract

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/event"
	gethrpc "github.com/ethereum/go-ethereum/rpc"

	waveerr "wave-portal-tui/pkg/errors"
)

// SubscribeOptions controls where a subscription starts.
type SubscribeOptions struct {
	// Start is the first block to deliver events from. Nil means new blocks only.
	Start *uint64
	// ForcePoll skips the push subscription and polls FilterLogs.
	ForcePoll bool
}

// Subscription delivers NewWave events to a handler until Unsubscribe.
type Subscription struct {
	mu      sync.Mutex
	closed  bool
	handler func(NewWave)
	sub     event.Subscription
	cancel  context.CancelFunc
	done    chan struct{}
	errs    chan error
	polling bool
}

// SubscribeNewWave registers handler for NewWave events. Events are handed over
// one at a time in the order the log stream yields them and are never
// reordered. The only logs dropped are reorg removals and the overlap between
// the Start catch-up and the live stream. The handler must not call
// Unsubscribe itself.
func (c *Client) SubscribeNewWave(ctx context.Context, opts *SubscribeOptions, handler func(NewWave)) (*Subscription, error) {
	if opts == nil {
		opts = &SubscribeOptions{}
	}

	subCtx, cancel := context.WithCancel(context.Background())
	s := &Subscription{
		handler: handler,
		cancel:  cancel,
		done:    make(chan struct{}),
		errs:    make(chan error, 8),
	}

	var (
		logs    <-chan types.Log
		sub     event.Subscription
		backlog []types.Log
		err     error
	)
	if !opts.ForcePoll {
		logs, sub, err = c.bound.WatchLogs(&bind.WatchOpts{Context: subCtx}, eventNewWave)
		if err == nil && opts.Start != nil {
			backlog, err = c.catchUp(ctx, *opts.Start)
			if err != nil {
				sub.Unsubscribe()
			}
		}
	}
	if opts.ForcePoll || isNotifyUnsupported(err) {
		start := opts.Start
		if start == nil {
			head, herr := c.backend.BlockNumber(ctx)
			if herr != nil {
				cancel()
				return nil, waveerr.WithCause(waveerr.ErrSubscription, herr)
			}
			next := head + 1
			start = &next
		}
		logs, sub = c.pollLogs(subCtx, *start, s.report)
		s.polling = true
		err = nil
	}
	if err != nil {
		cancel()
		return nil, waveerr.WithCause(waveerr.ErrSubscription, err)
	}

	s.sub = sub
	go c.dispatch(s, backlog, logs)
	return s, nil
}

// catchUp fetches NewWave logs from start up to the current head so a push
// subscription opened after a pinned read does not miss anything.
func (c *Client) catchUp(ctx context.Context, start uint64) ([]types.Log, error) {
	head, err := c.backend.BlockNumber(ctx)
	if err != nil {
		return nil, err
	}
	if head < start {
		return nil, nil
	}
	q := c.newWaveQuery()
	q.FromBlock = new(big.Int).SetUint64(start)
	q.ToBlock = new(big.Int).SetUint64(head)
	return c.backend.FilterLogs(ctx, q)
}

func (c *Client) newWaveQuery() ethereum.FilterQuery {
	return ethereum.FilterQuery{
		Addresses: []common.Address{c.address},
		Topics:    [][]common.Hash{{c.abi.Events[eventNewWave].ID}},
	}
}

// Unsubscribe stops s. It is idempotent and nil-safe.
func (c *Client) Unsubscribe(s *Subscription) {
	s.Unsubscribe()
}

// Unsubscribe stops delivery. Once it returns the handler will not be invoked
// again. Calling it more than once is a no-op.
func (s *Subscription) Unsubscribe() {
	if s == nil {
		return
	}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	if s.sub != nil {
		s.sub.Unsubscribe()
	}
	close(s.done)
}

// Err carries subscription failures, including transient poll errors.
func (s *Subscription) Err() <-chan error {
	return s.errs
}

// Polling reports whether events come from FilterLogs polling.
func (s *Subscription) Polling() bool {
	return s.polling
}

func (s *Subscription) report(err error) {
	select {
	case s.errs <- err:
	default:
	}
}

func (s *Subscription) deliver(ev NewWave) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.handler == nil {
		return
	}
	s.handler(ev)
}

// logPos orders logs by block then index.
type logPos struct {
	block uint64
	index uint
	set   bool
}

func (p *logPos) after(lg types.Log) bool {
	if !p.set {
		return true
	}
	if lg.BlockNumber != p.block {
		return lg.BlockNumber > p.block
	}
	return lg.Index > p.index
}

func (c *Client) dispatch(s *Subscription, backlog []types.Log, logs <-chan types.Log) {
	var last logPos
	handle := func(lg types.Log) {
		// Removed logs come from reorgs; a backlog/stream overlap is skipped by position.
		if lg.Removed || !last.after(lg) {
			return
		}
		last = logPos{block: lg.BlockNumber, index: lg.Index, set: true}

		var ev NewWave
		if err := c.bound.UnpackLog(&ev, eventNewWave, lg); err != nil {
			s.report(waveerr.WithCause(waveerr.ErrSubscription, err))
			return
		}
		ev.Raw = lg
		s.deliver(ev)
	}

	for _, lg := range backlog {
		select {
		case <-s.done:
			return
		default:
		}
		handle(lg)
	}

	for {
		select {
		case <-s.done:
			return
		case err, ok := <-s.sub.Err():
			if ok && err != nil {
				s.report(waveerr.WithCause(waveerr.ErrSubscription, err))
			}
			return
		case lg := <-logs:
			handle(lg)
		}
	}
}

// pollLogs emulates a log subscription with FilterLogs for endpoints that
// cannot push. Each tick covers [next, head]; a failed tick is reported and
// the same range is asked for again on the next one.
func (c *Client) pollLogs(ctx context.Context, start uint64, report func(error)) (<-chan types.Log, event.Subscription) {
	out := make(chan types.Log)
	query := c.newWaveQuery()
	interval := c.pollInterval

	sub := event.NewSubscription(func(quit <-chan struct{}) error {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		next := start
		for {
			head, err := c.backend.BlockNumber(ctx)
			if err == nil && head >= next {
				q := query
				q.FromBlock = new(big.Int).SetUint64(next)
				q.ToBlock = new(big.Int).SetUint64(head)
				var logs []types.Log
				logs, err = c.backend.FilterLogs(ctx, q)
				if err == nil {
					for _, lg := range logs {
						select {
						case out <- lg:
						case <-quit:
							return nil
						}
					}
					next = head + 1
				}
			}
			if err != nil && ctx.Err() == nil {
				report(waveerr.WithCause(waveerr.ErrSubscription, err))
			}

			select {
			case <-quit:
				return nil
			case <-ticker.C:
			}
		}
	})
	return out, sub
}

func isNotifyUnsupported(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gethrpc.ErrNotificationsUnsupported) {
		return true
	}
	return strings.Contains(err.Error(), "notifications not supported")
}
