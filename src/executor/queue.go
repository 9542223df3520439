package executor

import "time"

// wakeup is a pending resumption. seq keeps equal times in registration order.
type wakeup struct {
	at   time.Duration
	seq  uint64
	proc *Proc
}

// wakeupQueue implements heap.Interface ordered by (at, seq).
type wakeupQueue []wakeup

func (q wakeupQueue) Len() int { return len(q) }

func (q wakeupQueue) Less(i, j int) bool {
	if q[i].at == q[j].at {
		return q[i].seq < q[j].seq
	}
	return q[i].at < q[j].at
}

func (q wakeupQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *wakeupQueue) Push(x any) { *q = append(*q, x.(wakeup)) }

func (q *wakeupQueue) Pop() any {
	old := *q
	n := len(old)
	x := old[n-1]
	old[n-1] = wakeup{}
	*q = old[:n-1]
	return x
}
