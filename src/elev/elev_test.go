package elev

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"liftsim/src/executor"
	"liftsim/src/types"
)

type fakeRider struct {
	id          int
	destination int
	floor       int
	boardedAt   []time.Duration
	alightedAt  []time.Duration
	eng         *executor.Engine
}

func (r *fakeRider) ID() int          { return r.id }
func (r *fakeRider) Destination() int { return r.destination }

func (r *fakeRider) Board(int) { r.boardedAt = append(r.boardedAt, r.eng.Now()) }

func (r *fakeRider) Alight(_ int, floor int) {
	r.floor = floor
	r.alightedAt = append(r.alightedAt, r.eng.Now())
}

type recorder struct{ events []types.Event }

func (r *recorder) Emit(ev types.Event) { r.events = append(r.events, ev) }

func TestCapacitySaturation(t *testing.T) {
	eng := executor.NewEngine()
	defer eng.Close()

	queues := NewFloorQueues(5)
	riders := make([]*fakeRider, 3)
	for i := range riders {
		riders[i] = &fakeRider{id: i, destination: 3, floor: 1, eng: eng}
		queues.Request(riders[i], 1, types.Ascending)
	}
	car := New(0, 2, 3*time.Second, queues, types.Discard)
	car.Start(eng)

	require.NoError(t, eng.RunUntil(0))
	require.Equal(t, 2, car.Load())
	require.Equal(t, 1, queues.Waiting())
	require.True(t, queues.Queued(riders[2]))
	require.Empty(t, riders[2].boardedAt)

	// Up 1->5 and back down 5->1 is eight stories.
	require.NoError(t, eng.RunUntil(24*time.Second))
	require.Equal(t, []time.Duration{6 * time.Second}, riders[0].alightedAt)
	require.Equal(t, []time.Duration{6 * time.Second}, riders[1].alightedAt)
	require.Equal(t, []time.Duration{24 * time.Second}, riders[2].boardedAt)
	require.Equal(t, 0, queues.Waiting())
	require.Equal(t, 1, car.Load())
}

func TestSweepVisitsEveryFloorAndFlipsAtEnds(t *testing.T) {
	eng := executor.NewEngine()
	defer eng.Close()

	rec := &recorder{}
	car := New(0, 1, time.Second, NewFloorQueues(4), rec)
	car.Start(eng)
	require.NoError(t, eng.RunUntil(12*time.Second))

	var floors []int
	var dirs []types.Direction
	for _, ev := range rec.events {
		if arrived, ok := ev.(types.ElevatorArrived); ok {
			floors = append(floors, arrived.Floor)
			dirs = append(dirs, arrived.Dir)
		}
	}
	require.Equal(t, []int{2, 3, 4, 3, 2, 1, 2, 3, 4, 3, 2, 1}, floors)
	for i := 1; i < len(dirs); i++ {
		if dirs[i] != dirs[i-1] {
			require.Contains(t, []int{1, 4}, floors[i])
		}
	}
}

func TestDropOffBeforePickUpFreesCapacity(t *testing.T) {
	eng := executor.NewEngine()
	defer eng.Close()

	queues := NewFloorQueues(4)
	rec := &recorder{}
	car := New(0, 1, time.Second, queues, rec)
	first := &fakeRider{id: 1, destination: 2, floor: 1, eng: eng}
	second := &fakeRider{id: 2, destination: 4, floor: 2, eng: eng}
	queues.Request(first, 1, types.Ascending)
	queues.Request(second, 2, types.Ascending)
	car.Start(eng)

	require.NoError(t, eng.RunUntil(time.Second))
	require.Equal(t, 2, first.floor)
	require.Equal(t, []time.Duration{time.Second}, second.boardedAt)

	var kinds []string
	for _, ev := range rec.events {
		switch ev.(type) {
		case types.PassengerAlighted:
			kinds = append(kinds, "alight")
		case types.PassengerBoarded:
			kinds = append(kinds, "board")
		}
	}
	require.Equal(t, []string{"board", "alight", "board"}, kinds)
}

func TestDescendingCarIgnoresAscendingQueue(t *testing.T) {
	eng := executor.NewEngine()
	defer eng.Close()

	queues := NewFloorQueues(3)
	up := &fakeRider{id: 1, destination: 3, floor: 2, eng: eng}
	down := &fakeRider{id: 2, destination: 1, floor: 2, eng: eng}
	queues.Request(up, 2, types.Ascending)
	queues.Request(down, 2, types.Descending)
	car := New(0, 5, time.Second, queues, types.Discard)
	car.Start(eng)

	// t=1 at floor 2 ascending, t=3 back at floor 2 descending.
	require.NoError(t, eng.RunUntil(time.Second))
	require.Equal(t, []time.Duration{time.Second}, up.boardedAt)
	require.Empty(t, down.boardedAt)

	require.NoError(t, eng.RunUntil(3*time.Second))
	require.Equal(t, []time.Duration{3 * time.Second}, down.boardedAt)
	require.Equal(t, 3, up.floor)
}

func TestQueueExclusivity(t *testing.T) {
	queues := NewFloorQueues(3)
	r := &fakeRider{id: 9, destination: 3}

	queues.Request(r, 1, types.Ascending)
	require.Panics(t, func() { queues.Request(r, 2, types.Descending) })
	require.Panics(t, func() { queues.Request(r, 1, types.Ascending) })

	popped, ok := queues.Pop(1, types.Ascending)
	require.True(t, ok)
	require.Equal(t, 9, popped.ID())
	require.False(t, queues.Queued(r))

	queues.Request(r, 2, types.Descending)
	require.True(t, queues.Remove(r))
	require.False(t, queues.Remove(r))
	require.Equal(t, 0, queues.Waiting())
}

func TestQueuesAreFIFO(t *testing.T) {
	queues := NewFloorQueues(2)
	for id := range 4 {
		queues.Request(&fakeRider{id: id}, 2, types.Descending)
	}
	queues.Remove(&fakeRider{id: 1})

	var order []int
	for {
		r, ok := queues.Pop(2, types.Descending)
		if !ok {
			break
		}
		order = append(order, r.ID())
	}
	require.Equal(t, []int{0, 2, 3}, order)
}

func TestRequestOutsideBuildingPanics(t *testing.T) {
	queues := NewFloorQueues(3)
	require.Panics(t, func() { queues.Request(&fakeRider{id: 1}, 0, types.Ascending) })
	require.Panics(t, func() { queues.Request(&fakeRider{id: 1}, 4, types.Descending) })
}
