package types

import "time"

// Event is emitted by the simulation core. At is the simulated time since the start of the run.
type Event interface{ isEvent() }

type ElevatorDeparted struct {
	At       time.Duration
	Elevator int
	Floor    int
	Dir      Direction
}

type ElevatorArrived struct {
	At       time.Duration
	Elevator int
	Floor    int
	Dir      Direction
}

type PassengerRequested struct {
	At          time.Duration
	Passenger   int
	Floor       int
	Destination int
	Dir         Direction
}

// PassengerBoarded and PassengerAlighted carry the car load after the change.
type PassengerBoarded struct {
	At        time.Duration
	Elevator  int
	Passenger int
	Floor     int
	Load      int
}

type PassengerAlighted struct {
	At        time.Duration
	Elevator  int
	Passenger int
	Floor     int
	Load      int
}

type PassengerWaited struct {
	At        time.Duration
	Passenger int
	Wait      time.Duration
}

type PassengerIdling struct {
	At        time.Duration
	Passenger int
	Floor     int
	Idle      time.Duration
}

type PassengerSpawned struct {
	At          time.Duration
	Passenger   int
	Floor       int
	Destination int
}

type PassengerRetired struct {
	At        time.Duration
	Passenger int
	// Age is the time since the passenger was spawned.
	Age      time.Duration
	Trips    int
	MeanWait time.Duration
}

type PopulationSampled struct {
	At   time.Duration
	Live int
}

func (ElevatorDeparted) isEvent()   {}
func (ElevatorArrived) isEvent()    {}
func (PassengerRequested) isEvent() {}
func (PassengerBoarded) isEvent()   {}
func (PassengerAlighted) isEvent()  {}
func (PassengerWaited) isEvent()    {}
func (PassengerIdling) isEvent()    {}
func (PassengerSpawned) isEvent()   {}
func (PassengerRetired) isEvent()   {}
func (PopulationSampled) isEvent()  {}

// EventSink receives events as they happen. Emit must return without waiting on the consumer.
type EventSink interface {
	Emit(ev Event)
}

// SinkFunc adapts a function to an EventSink.
type SinkFunc func(ev Event)

func (f SinkFunc) Emit(ev Event) { f(ev) }

// Sinks fans each event out to every sink in order.
type Sinks []EventSink

func (s Sinks) Emit(ev Event) {
	for _, sink := range s {
		sink.Emit(ev)
	}
}

// Discard drops every event.
var Discard EventSink = SinkFunc(func(Event) {})
