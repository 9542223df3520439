package executor

import "errors"

var ErrSignalResolved = errors.New("executor: signal resolved twice")

// Signal is a one-shot event. Resolving it wakes every waiter at the current time.
// A resolved signal stays resolved; its owner creates a new one for the next cycle.
type Signal struct {
	eng      *Engine
	resolved bool
	waiters  []*Proc
}

func (e *Engine) NewSignal() *Signal {
	return &Signal{eng: e}
}

func (s *Signal) Resolved() bool { return s.resolved }

// Resolve schedules all current waiters in the order they started waiting.
// Waiters that were killed in the meantime are skipped.
func (s *Signal) Resolve() {
	if s.resolved {
		panic(ErrSignalResolved)
	}
	s.resolved = true
	for _, p := range s.waiters {
		if p.state == stateWaiting {
			s.eng.ScheduleAfter(0, p)
		}
	}
	s.waiters = nil
}
