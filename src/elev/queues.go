package elev

import (
	"fmt"

	"liftsim/src/types"
)

type queueSlot struct {
	floor int
	dir   types.Direction
}

// FloorQueues holds one ascending and one descending FIFO of waiting riders per floor.
// A rider is in at most one queue at a time.
type FloorQueues struct {
	numFloors int
	up        [][]Rider
	down      [][]Rider
	queued    map[int]queueSlot
}

func NewFloorQueues(numFloors int) *FloorQueues {
	return &FloorQueues{
		numFloors: numFloors,
		up:        make([][]Rider, numFloors),
		down:      make([][]Rider, numFloors),
		queued:    make(map[int]queueSlot),
	}
}

func (q *FloorQueues) NumFloors() int { return q.numFloors }

// Request appends r to the queue for travel in dir from floor.
func (q *FloorQueues) Request(r Rider, floor int, dir types.Direction) {
	if floor < 1 || floor > q.numFloors {
		panic(fmt.Sprintf("elev: rider %d requested from floor %d outside 1..%d", r.ID(), floor, q.numFloors))
	}
	if slot, ok := q.queued[r.ID()]; ok {
		panic(fmt.Sprintf("elev: rider %d already queued %s at floor %d", r.ID(), slot.dir, slot.floor))
	}
	queue := q.queue(floor, dir)
	*queue = append(*queue, r)
	q.queued[r.ID()] = queueSlot{floor: floor, dir: dir}
}

// Pop removes the rider at the head of the queue, if any.
func (q *FloorQueues) Pop(floor int, dir types.Direction) (Rider, bool) {
	queue := q.queue(floor, dir)
	if len(*queue) == 0 {
		return nil, false
	}
	r := (*queue)[0]
	(*queue)[0] = nil
	*queue = (*queue)[1:]
	delete(q.queued, r.ID())
	return r, true
}

// Remove takes r out of whichever queue holds it.
func (q *FloorQueues) Remove(r Rider) bool {
	slot, ok := q.queued[r.ID()]
	if !ok {
		return false
	}
	queue := q.queue(slot.floor, slot.dir)
	for i, queuedRider := range *queue {
		if queuedRider.ID() == r.ID() {
			*queue = append((*queue)[:i], (*queue)[i+1:]...)
			break
		}
	}
	delete(q.queued, r.ID())
	return true
}

// Queued reports whether r is waiting in some queue.
func (q *FloorQueues) Queued(r Rider) bool {
	_, ok := q.queued[r.ID()]
	return ok
}

// Waiting returns the number of riders in all queues.
func (q *FloorQueues) Waiting() int { return len(q.queued) }

func (q *FloorQueues) queue(floor int, dir types.Direction) *[]Rider {
	if dir == types.Ascending {
		return &q.up[floor-1]
	}
	return &q.down[floor-1]
}
