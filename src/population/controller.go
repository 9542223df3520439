// Package population creates passengers, runs their life cycles and retires them
// with a probability that depends on the time of day.
package population

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/tiendc/go-deepcopy"

	"liftsim/src/config"
	"liftsim/src/elev"
	"liftsim/src/executor"
	"liftsim/src/types"
)

// Controller owns the live passengers and the run's samples.
type Controller struct {
	cfg    config.Config
	eng    *executor.Engine
	queues *elev.FloorQueues
	rng    *rand.Rand
	sink   types.EventSink

	live   []*Passenger
	stats  Stats
	nextID int
}

func NewController(cfg config.Config, eng *executor.Engine, queues *elev.FloorQueues, rng *rand.Rand, sink types.EventSink) *Controller {
	return &Controller{
		cfg:    cfg,
		eng:    eng,
		queues: queues,
		rng:    rng,
		sink:   sink,
	}
}

// Start creates the initial population and registers the spawner, despawner and census processes.
func (c *Controller) Start() {
	for range c.cfg.InitialPopulation {
		c.Spawn()
	}
	c.eng.Go("spawner", c.spawner)
	c.eng.Go("despawner", c.despawner)
	c.eng.Go("census", c.census)
	slog.Debug("Population control started",
		"initial", c.cfg.InitialPopulation,
		"spawnInterval", c.cfg.SpawnInterval,
		"despawnInterval", c.cfg.DespawnInterval)
}

// Spawn creates a passenger on the ground floor with a random destination and starts its life cycle.
func (c *Controller) Spawn() *Passenger {
	destination := config.GroundFloor
	for destination == config.GroundFloor {
		destination = c.randomFloor()
	}
	return c.SpawnTo(destination)
}

// SpawnTo creates a passenger on the ground floor heading for destination.
func (c *Controller) SpawnTo(destination int) *Passenger {
	if destination < 1 || destination > c.cfg.NumFloors {
		panic(fmt.Sprintf("population: destination %d outside 1..%d", destination, c.cfg.NumFloors))
	}
	p := &Passenger{
		id:          c.nextID,
		location:    config.GroundFloor,
		destination: destination,
		alive:       true,
		state:       types.Requesting,
		createdAt:   c.eng.Now(),
		ctl:         c,
	}
	c.nextID++
	c.stats.Created++
	c.live = append(c.live, p)
	p.start()
	c.sink.Emit(types.PassengerSpawned{At: c.eng.Now(), Passenger: p.id, Floor: p.location, Destination: destination})
	return p
}

// RetireOldest retires the passenger that has been alive longest.
func (c *Controller) RetireOldest() (*Passenger, bool) {
	if len(c.live) == 0 {
		return nil, false
	}
	p := c.live[0]
	c.live[0] = nil
	c.live = c.live[1:]
	c.retire(p)
	return p, true
}

func (c *Controller) retire(p *Passenger) {
	p.alive = false
	mean, waited := p.MeanWait()
	if waited {
		c.stats.MeanWaits = append(c.stats.MeanWaits, mean)
	}

	if c.cfg.Retirement == config.Cancel {
		c.queues.Remove(p)
		c.eng.Kill(p.proc)
		p.state = types.Retired
	}
	c.sink.Emit(types.PassengerRetired{
		At:        c.eng.Now(),
		Passenger: p.id,
		Age:       c.eng.Now() - p.CreatedAt(),
		Trips:     len(p.waits),
		MeanWait:  mean,
	})
}

// Live returns the live passengers, oldest first.
func (c *Controller) Live() []*Passenger {
	return append([]*Passenger(nil), c.live...)
}

// Stats returns a deep copy of the samples gathered so far.
func (c *Controller) Stats() Stats {
	var out Stats
	if err := deepcopy.Copy(&out, &c.stats); err != nil {
		panic(err)
	}
	return out
}

func (c *Controller) recordWait(p *Passenger, wait time.Duration) {
	c.stats.WaitingTimes = append(c.stats.WaitingTimes, wait)
	c.sink.Emit(types.PassengerWaited{At: c.eng.Now(), Passenger: p.id, Wait: wait})
}

// dayFraction is the current time normalized to the run duration.
func (c *Controller) dayFraction() float64 {
	return float64(c.eng.Now()) / float64(c.cfg.Duration)
}

func (c *Controller) spawner(p *executor.Proc) {
	for {
		if Decide(c.rng, SpawnChance(c.dayFraction())) {
			c.Spawn()
		}
		p.Timeout(c.cfg.SpawnInterval)
	}
}

// despawner always draws, even with nobody alive, so the random stream does not depend on the population.
func (c *Controller) despawner(p *executor.Proc) {
	for {
		if Decide(c.rng, DespawnChance(c.dayFraction())) && len(c.live) > 0 {
			c.RetireOldest()
		}
		p.Timeout(c.cfg.DespawnInterval)
	}
}

func (c *Controller) census(p *executor.Proc) {
	for {
		c.stats.LiveCounts = append(c.stats.LiveCounts, len(c.live))
		c.sink.Emit(types.PopulationSampled{At: p.Now(), Live: len(c.live)})
		p.Timeout(c.cfg.SampleInterval)
	}
}

func (c *Controller) randomFloor() int {
	return 1 + c.rng.IntN(c.cfg.NumFloors)
}

func (c *Controller) randomIdle() time.Duration {
	span := int64(c.cfg.IdleMax - c.cfg.IdleMin)
	return c.cfg.IdleMin + time.Duration(c.rng.Int64N(span+1))
}
