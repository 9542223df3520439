// Package trace writes the simulation's event stream as a log, one line per event,
// stamped with the simulated clock.
package trace

import (
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/diode"

	"liftsim/src/types"
	"liftsim/src/utils"
)

const (
	bufferSize   = 100_000
	pollInterval = 10 * time.Millisecond
	clockField   = "clock"
)

// Tracer is an EventSink. Events go through a ring buffer, so Emit never waits on the writer;
// if the writer falls behind, the oldest unwritten lines are dropped and counted.
type Tracer struct {
	log     zerolog.Logger
	writer  diode.Writer
	dropped atomic.Int64
}

// New traces to w. Pretty selects a human readable console format over JSON lines.
func New(w io.Writer, pretty bool) *Tracer {
	return newTracer(w, pretty, bufferSize)
}

func newTracer(w io.Writer, pretty bool, size int) *Tracer {
	t := &Tracer{}
	dw := diode.NewWriter(w, size, pollInterval, func(missed int) {
		t.dropped.Add(int64(missed))
		slog.Warn("Trace writer fell behind, events dropped", "missed", missed)
	})

	var out io.Writer = dw
	if pretty {
		out = zerolog.ConsoleWriter{
			Out:           dw,
			NoColor:       true,
			PartsOrder:    []string{clockField, zerolog.MessageFieldName},
			FieldsExclude: []string{clockField},
		}
	}
	t.log = zerolog.New(out)
	t.writer = dw
	return t
}

// Close flushes buffered lines and closes the underlying writer if it is a Closer.
func (t *Tracer) Close() error {
	return t.writer.Close()
}

// Dropped returns how many lines were lost so far. It is final once Close returns.
func (t *Tracer) Dropped() int64 {
	return t.dropped.Load()
}

func (t *Tracer) Emit(ev types.Event) {
	switch ev := ev.(type) {
	case types.ElevatorDeparted:
		t.at(ev.At).Int("elevator", ev.Elevator).Int("floor", ev.Floor).Stringer("dir", ev.Dir).
			Msg("Elevator departing")
	case types.ElevatorArrived:
		t.at(ev.At).Int("elevator", ev.Elevator).Int("floor", ev.Floor).Stringer("dir", ev.Dir).
			Msg("Elevator arrived")
	case types.PassengerRequested:
		t.at(ev.At).Int("passenger", ev.Passenger).Int("floor", ev.Floor).Int("destination", ev.Destination).
			Stringer("dir", ev.Dir).Msg("Passenger requested elevator")
	case types.PassengerBoarded:
		t.at(ev.At).Int("elevator", ev.Elevator).Int("passenger", ev.Passenger).Int("floor", ev.Floor).
			Int("load", ev.Load).Msg("Picking up passenger")
	case types.PassengerAlighted:
		t.at(ev.At).Int("elevator", ev.Elevator).Int("passenger", ev.Passenger).Int("floor", ev.Floor).
			Int("load", ev.Load).Msg("Dropping passenger")
	case types.PassengerWaited:
		t.at(ev.At).Int("passenger", ev.Passenger).Dur("wait", ev.Wait).Msg("Passenger waited")
	case types.PassengerIdling:
		t.at(ev.At).Int("passenger", ev.Passenger).Int("floor", ev.Floor).Dur("idle", ev.Idle).
			Msg("Passenger arrived, idling")
	case types.PassengerSpawned:
		t.at(ev.At).Int("passenger", ev.Passenger).Int("floor", ev.Floor).Int("destination", ev.Destination).
			Msg("Spawned passenger")
	case types.PassengerRetired:
		t.at(ev.At).Int("passenger", ev.Passenger).Dur("age", ev.Age).Int("trips", ev.Trips).
			Dur("meanWait", ev.MeanWait).Msg("Despawned passenger")
	case types.PopulationSampled:
		// One per simulated second; kept out of the trace.
	default:
		t.log.Warn().Type("event", ev).Msg("Unknown event")
	}
}

func (t *Tracer) at(at time.Duration) *zerolog.Event {
	return t.log.Info().Str(clockField, utils.FormatClock(at))
}
