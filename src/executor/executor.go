// Package executor runs cooperative processes against a logical clock.
//
// Every process is a goroutine, but the engine hands control to exactly one of them at a
// time and blocks until it suspends again. Shared state may therefore be mutated freely
// between suspension points without locks.
package executor

import (
	"container/heap"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"
)

var ErrClosed = errors.New("executor: engine closed")

// Engine owns the clock and every pending wake-up.
type Engine struct {
	now     time.Duration
	seq     uint64
	pending wakeupQueue
	live    map[int]*Proc
	nextID  int
	current *Proc
	closed  bool
}

func NewEngine() *Engine {
	e := &Engine{live: make(map[int]*Proc)}
	heap.Init(&e.pending)
	return e
}

// Now returns the simulated time since the start of the run.
func (e *Engine) Now() time.Duration { return e.now }

// Live returns the number of processes that have not terminated.
func (e *Engine) Live() int { return len(e.live) }

// Go starts body as a new process. It first runs at the current time, after every
// process already scheduled for that time.
func (e *Engine) Go(name string, body func(p *Proc)) *Proc {
	if e.closed {
		panic(ErrClosed)
	}
	p := &Proc{
		ID:       e.nextID,
		Name:     name,
		eng:      e,
		resumeCh: make(chan bool),
		yieldCh:  make(chan yield),
	}
	e.nextID++
	e.live[p.ID] = p
	go p.run(body)
	e.ScheduleAfter(0, p)
	return p
}

// ScheduleAfter registers p to resume at now+delay.
func (e *Engine) ScheduleAfter(delay time.Duration, p *Proc) {
	if e.closed {
		panic(ErrClosed)
	}
	if delay < 0 {
		panic(fmt.Sprintf("executor: negative delay %v for process %q", delay, p.Name))
	}
	if p.state == stateDone {
		panic(fmt.Sprintf("executor: scheduling terminated process %q", p.Name))
	}
	if p.state == stateScheduled {
		panic(fmt.Sprintf("executor: process %q is already scheduled", p.Name))
	}
	e.seq++
	heap.Push(&e.pending, wakeup{at: e.now + delay, seq: e.seq, proc: p})
	p.state = stateScheduled
}

// RunUntil resumes processes in wake-up order until nothing is due at or before end.
// The clock is then left at end, so a later call continues the same run.
// A process that panics halts the run and its failure is returned.
func (e *Engine) RunUntil(end time.Duration) error {
	if e.closed {
		return ErrClosed
	}
	if end < e.now {
		return fmt.Errorf("executor: end %v is before now %v", end, e.now)
	}
	for e.pending.Len() > 0 && e.pending[0].at <= end {
		next := heap.Pop(&e.pending).(wakeup)
		if next.proc.state != stateScheduled {
			continue
		}
		e.now = next.at
		if err := e.resume(next.proc, false); err != nil {
			slog.Error("Process failed, halting run", "process", next.proc.Name, "at", e.now, "error", err)
			return err
		}
	}
	e.now = end
	return nil
}

// Kill terminates a suspended process. Its deferred calls run and it never resumes again.
// A process may kill another process but not itself.
func (e *Engine) Kill(p *Proc) {
	if p.state == stateDone {
		return
	}
	if p == e.current {
		panic(fmt.Sprintf("executor: process %q cannot kill itself", p.Name))
	}
	// Killing from inside a process nests the handoff; the caller stays blocked until p has unwound.
	caller := e.current
	_ = e.resume(p, true)
	e.current = caller
}

// Close kills every live process. The engine cannot be used afterwards.
func (e *Engine) Close() {
	if e.closed {
		return
	}
	ids := make([]int, 0, len(e.live))
	for id := range e.live {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		e.Kill(e.live[id])
	}
	e.pending = nil
	e.closed = true
	slog.Debug("Engine closed", "now", e.now, "killed", len(ids))
}

// resume hands control to p and waits until it suspends or terminates.
func (e *Engine) resume(p *Proc, kill bool) error {
	e.current = p
	p.state = stateRunning
	p.resumeCh <- kill
	y := <-p.yieldCh
	e.current = nil
	if y.done {
		p.state = stateDone
		delete(e.live, p.ID)
	}
	return y.err
}
