// State types are defined in elev package so the car and the floor queues share one view of a passenger.
package elev

import "liftsim/src/types"

// Rider is a passenger as the car and the floor queues see it.
type Rider interface {
	ID() int
	Destination() int
	// Board is called when a car takes the rider out of its floor queue.
	Board(elevatorID int)
	// Alight is called when a car lets the rider out at floor.
	Alight(elevatorID int, floor int)
}

// Snapshot is a detached copy of a car's state.
type Snapshot struct {
	ID        int             `yaml:"id"`
	Floor     int             `yaml:"floor"`
	Dir       types.Direction `yaml:"dir"`
	Occupants []int           `yaml:"occupants,flow"`
}
