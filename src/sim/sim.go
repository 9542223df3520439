// Package sim assembles a building: the engine, the floor queues, the cars and the population.
package sim

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"liftsim/src/config"
	"liftsim/src/elev"
	"liftsim/src/executor"
	"liftsim/src/population"
	"liftsim/src/types"
)

// chunk bounds how much simulated time passes between context checks.
const chunk = time.Hour

// Simulation is the single owner of all state of one run.
type Simulation struct {
	cfg        config.Config
	eng        *executor.Engine
	queues     *elev.FloorQueues
	elevators  []*elev.Elevator
	population *population.Controller
}

// Results are the aggregated outputs of a finished run.
type Results struct {
	Config    config.Config
	Stats     population.Stats
	Elevators []elev.Snapshot
	// Queued is the number of passengers still waiting on a floor when the run ended.
	Queued int
}

// New validates cfg and wires a building. Processes are registered in the order
// cars, initial population, spawner, despawner, census.
func New(cfg config.Config, sink types.EventSink) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if sink == nil {
		sink = types.Discard
	}

	eng := executor.NewEngine()
	queues := elev.NewFloorQueues(cfg.NumFloors)
	rng := rand.New(rand.NewPCG(uint64(cfg.Seed), 0))

	s := &Simulation{
		cfg:        cfg,
		eng:        eng,
		queues:     queues,
		population: population.NewController(cfg, eng, queues, rng, sink),
	}
	for id := range cfg.NumElevators {
		car := elev.New(id, cfg.Capacity, cfg.TimePerStory, queues, sink)
		car.Start(eng)
		s.elevators = append(s.elevators, car)
	}
	s.population.Start()

	slog.Info("Simulation built",
		"elevators", cfg.NumElevators,
		"floors", cfg.NumFloors,
		"capacity", cfg.Capacity,
		"duration", cfg.Duration,
		"seed", cfg.Seed,
		"retirement", cfg.Retirement)
	return s, nil
}

// Run advances the clock to the configured duration and releases every process.
// ctx is checked between hours of simulated time.
func (s *Simulation) Run(ctx context.Context) (Results, error) {
	defer s.eng.Close()

	started := time.Now()
	for s.eng.Now() < s.cfg.Duration {
		if err := ctx.Err(); err != nil {
			return s.Results(), fmt.Errorf("simulation stopped at %v: %w", s.eng.Now(), err)
		}
		end := min(s.eng.Now()+chunk, s.cfg.Duration)
		if err := s.eng.RunUntil(end); err != nil {
			return s.Results(), err
		}
	}

	results := s.Results()
	slog.Info("Simulation finished",
		"created", results.Stats.Created,
		"waits", len(results.Stats.WaitingTimes),
		"queued", results.Queued,
		"elapsed", time.Since(started))
	return results, nil
}

// Now returns the simulated time.
func (s *Simulation) Now() time.Duration { return s.eng.Now() }

// Results returns a detached copy of everything gathered so far.
func (s *Simulation) Results() Results {
	results := Results{
		Config: s.cfg,
		Stats:  s.population.Stats(),
		Queued: s.queues.Waiting(),
	}
	for _, car := range s.elevators {
		results.Elevators = append(results.Elevators, car.Snapshot())
	}
	return results
}
