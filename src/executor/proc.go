package executor

import (
	"fmt"
	"runtime"
	"time"
)

type procState int

const (
	stateNew procState = iota
	stateScheduled
	stateRunning
	stateWaiting
	stateDone
)

type yield struct {
	done bool
	err  error
}

// Proc is a cooperative process. Its methods may only be called from its own body while it runs.
type Proc struct {
	ID   int
	Name string

	eng      *Engine
	state    procState
	resumeCh chan bool // true asks the process to unwind
	yieldCh  chan yield
}

// Now returns the engine clock.
func (p *Proc) Now() time.Duration { return p.eng.now }

// Done reports whether the process has terminated or been killed.
func (p *Proc) Done() bool { return p.state == stateDone }

// Timeout suspends the process for d of simulated time.
func (p *Proc) Timeout(d time.Duration) {
	p.mustBeRunning("Timeout")
	p.eng.ScheduleAfter(d, p)
	p.suspend()
}

// Wait suspends the process until s is resolved. It returns at once if s already is.
func (p *Proc) Wait(s *Signal) {
	p.mustBeRunning("Wait")
	if s.resolved {
		return
	}
	s.waiters = append(s.waiters, p)
	p.state = stateWaiting
	p.suspend()
}

func (p *Proc) mustBeRunning(op string) {
	if p.eng.current != p {
		panic(fmt.Sprintf("executor: %s on process %q which is not running", op, p.Name))
	}
}

func (p *Proc) suspend() {
	p.yieldCh <- yield{}
	p.await()
}

func (p *Proc) await() {
	if kill := <-p.resumeCh; kill {
		runtime.Goexit()
	}
}

func (p *Proc) run(body func(p *Proc)) {
	y := yield{done: true}
	defer func() {
		if r := recover(); r != nil {
			y.err = fmt.Errorf("process %q at %v: %v", p.Name, p.eng.now, r)
		}
		p.yieldCh <- y
	}()
	p.await()
	body(p)
}
