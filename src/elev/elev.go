package elev

import (
	"fmt"
	"log/slog"
	"time"

	"liftsim/src/executor"
	"liftsim/src/types"
)

// Elevator is a car that sweeps the building from floor 1 to the top and back, forever.
type Elevator struct {
	ID    int
	Floor int
	Dir   types.Direction

	occupants    []Rider
	capacity     int
	numFloors    int
	timePerStory time.Duration
	queues       *FloorQueues
	sink         types.EventSink
	eng          *executor.Engine
}

// New returns a car parked at floor 1, about to ascend.
func New(id, capacity int, timePerStory time.Duration, queues *FloorQueues, sink types.EventSink) *Elevator {
	return &Elevator{
		ID:           id,
		Floor:        1,
		Dir:          types.Ascending,
		capacity:     capacity,
		numFloors:    queues.NumFloors(),
		timePerStory: timePerStory,
		queues:       queues,
		sink:         sink,
	}
}

// Start registers the sweep as a process on eng.
func (e *Elevator) Start(eng *executor.Engine) *executor.Proc {
	e.eng = eng
	slog.Debug("Elevator initialized", "elevator", e.ID, "floor", e.Floor, "capacity", e.capacity)
	return eng.Go(fmt.Sprintf("elevator-%d", e.ID), e.work)
}

// Load returns the number of riders in the car.
func (e *Elevator) Load() int { return len(e.occupants) }

func (e *Elevator) Snapshot() Snapshot {
	ids := make([]int, len(e.occupants))
	for i, r := range e.occupants {
		ids[i] = r.ID()
	}
	return Snapshot{ID: e.ID, Floor: e.Floor, Dir: e.Dir, Occupants: ids}
}

// work is the SCAN sweep. Every iteration suspends for one story of travel.
func (e *Elevator) work(p *executor.Proc) {
	for {
		e.serveFloor()
		if e.Dir == types.Ascending {
			e.travel(p, 1)
		} else {
			e.travel(p, -1)
		}
	}
}

// travel moves one story. The direction only flips on reaching the top or the ground floor.
func (e *Elevator) travel(p *executor.Proc, step int) {
	e.sink.Emit(types.ElevatorDeparted{At: e.eng.Now(), Elevator: e.ID, Floor: e.Floor, Dir: e.Dir})
	p.Timeout(e.timePerStory)
	e.Floor += step
	switch e.Floor {
	case e.numFloors:
		e.Dir = types.Descending
	case 1:
		e.Dir = types.Ascending
	}
	e.sink.Emit(types.ElevatorArrived{At: e.eng.Now(), Elevator: e.ID, Floor: e.Floor, Dir: e.Dir})
}

// serveFloor drops off before picking up so freed capacity is usable at the same stop.
func (e *Elevator) serveFloor() {
	e.dropOff()
	e.pickUp()
}

func (e *Elevator) dropOff() {
	kept := e.occupants[:0]
	var leaving []Rider
	for _, r := range e.occupants {
		if r.Destination() == e.Floor {
			leaving = append(leaving, r)
		} else {
			kept = append(kept, r)
		}
	}
	for i := len(kept); i < len(e.occupants); i++ {
		e.occupants[i] = nil
	}
	e.occupants = kept

	for _, r := range leaving {
		r.Alight(e.ID, e.Floor)
		e.sink.Emit(types.PassengerAlighted{
			At: e.eng.Now(), Elevator: e.ID, Passenger: r.ID(), Floor: e.Floor, Load: len(e.occupants),
		})
	}
}

func (e *Elevator) pickUp() {
	for len(e.occupants) < e.capacity {
		r, ok := e.queues.Pop(e.Floor, e.Dir)
		if !ok {
			return
		}
		e.occupants = append(e.occupants, r)
		r.Board(e.ID)
		e.sink.Emit(types.PassengerBoarded{
			At: e.eng.Now(), Elevator: e.ID, Passenger: r.ID(), Floor: e.Floor, Load: len(e.occupants),
		})
	}
}
