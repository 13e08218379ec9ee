package mux

import (
	"fmt"
	"sync"
)

// Pipeline serializes command writes to a LineSource and pairs each one
// with its eventual Result in FIFO order — control-mode responses carry
// no correlation id of their own, so the only way to know which command a
// %begin/%end block answers is the order in which commands were sent.
type Pipeline struct {
	ls *LineSource

	mu      sync.Mutex
	pending []chan Result
	closed  bool
}

// NewPipeline wraps ls and pre-enqueues one sentinel callback to absorb
// the unsolicited welcome Result tmux -C sends immediately on attach,
// before any real command has been issued. The sentinel's channel is never
// handed to any caller.
func NewPipeline(ls *LineSource) *Pipeline {
	p := &Pipeline{ls: ls}
	p.pending = append(p.pending, make(chan Result, 1))
	return p
}

// Enqueue writes cmd to the line source and registers a callback channel
// for its result, as one atomic operation with respect to other callers.
func (p *Pipeline) Enqueue(cmd string) (<-chan Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, fmt.Errorf("mux: pipeline closed")
	}

	ch := make(chan Result, 1)
	if err := p.ls.WriteLine(cmd); err != nil {
		return nil, err
	}
	p.pending = append(p.pending, ch)
	return ch, nil
}

// TakeNextCallback pops the oldest pending callback channel. Called by the
// Dispatcher whenever a Result notification arrives.
func (p *Pipeline) TakeNextCallback() (chan Result, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.pending) == 0 {
		return nil, false
	}
	ch := p.pending[0]
	p.pending = p.pending[1:]
	return ch, true
}

// Close drains any still-pending callbacks with a synthetic error Result
// so no caller blocks forever past process exit.
func (p *Pipeline) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	p.closed = true
	for _, ch := range p.pending {
		ch <- Result{Error: true, Lines: []string{"pipeline closed"}}
		close(ch)
	}
	p.pending = nil
}
