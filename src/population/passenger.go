package population

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/stat"

	"liftsim/src/executor"
	"liftsim/src/types"
	"liftsim/src/utils"
)

// Passenger travels between floors until it is retired.
type Passenger struct {
	id          int
	location    int
	destination int
	alive       bool
	state       types.PassengerState
	createdAt   time.Duration
	waits       []time.Duration

	pickup  *executor.Signal
	dropoff *executor.Signal
	proc    *executor.Proc
	ctl     *Controller
}

func (p *Passenger) ID() int                     { return p.id }
func (p *Passenger) Location() int               { return p.location }
func (p *Passenger) Destination() int            { return p.destination }
func (p *Passenger) Alive() bool                 { return p.alive }
func (p *Passenger) State() types.PassengerState { return p.state }
func (p *Passenger) CreatedAt() time.Duration    { return p.createdAt }

// Waits returns a copy of the passenger's own waiting times.
func (p *Passenger) Waits() []time.Duration {
	return append([]time.Duration(nil), p.waits...)
}

// MeanWait returns the mean of the passenger's waits and false if it never waited.
func (p *Passenger) MeanWait() (time.Duration, bool) {
	if len(p.waits) == 0 {
		return 0, false
	}
	return time.Duration(stat.Mean(utils.Float64s(p.waits), nil)), true
}

// Board is called by the car that takes the passenger out of its floor queue.
func (p *Passenger) Board(int) {
	p.setState(types.Onboard)
	p.pickup.Resolve()
}

// Alight is called by the car that lets the passenger out.
// A cancelled passenger still leaves the car but stays Retired.
func (p *Passenger) Alight(_ int, floor int) {
	p.location = floor
	p.setState(types.Idling)
	p.dropoff.Resolve()
}

func (p *Passenger) setState(s types.PassengerState) {
	if p.state != types.Retired {
		p.state = s
	}
}

func (p *Passenger) start() {
	p.proc = p.ctl.eng.Go(fmt.Sprintf("passenger-%d", p.id), p.live)
}

// live is the passenger's life cycle: request, wait for pickup, ride, idle, repeat.
// Each trip suspends at least on the idle timeout.
func (p *Passenger) live(proc *executor.Proc) {
	ctl := p.ctl
	for p.alive {
		p.state = types.Requesting
		for p.destination == p.location {
			p.destination = ctl.randomFloor()
		}
		dir := types.DirectionTo(p.location, p.destination)

		p.pickup = ctl.eng.NewSignal()
		p.dropoff = ctl.eng.NewSignal()
		ctl.queues.Request(p, p.location, dir)
		p.state = types.WaitingForPickup
		ctl.sink.Emit(types.PassengerRequested{
			At: proc.Now(), Passenger: p.id, Floor: p.location, Destination: p.destination, Dir: dir,
		})

		waitStart := proc.Now()
		proc.Wait(p.pickup)
		wait := proc.Now() - waitStart
		p.waits = append(p.waits, wait)
		ctl.recordWait(p, wait)

		proc.Wait(p.dropoff)
		idle := ctl.randomIdle()
		ctl.sink.Emit(types.PassengerIdling{At: proc.Now(), Passenger: p.id, Floor: p.location, Idle: idle})
		proc.Timeout(idle)
	}
	p.state = types.Retired
}
