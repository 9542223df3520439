package types

// Direction is the sweep direction of a car, or the travel direction a passenger requests.
type Direction int

const (
	Ascending Direction = iota
	Descending
)

func (d Direction) String() string {
	switch d {
	case Ascending:
		return "ascending"
	case Descending:
		return "descending"
	}
	return "unknown"
}

func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// DirectionTo is Ascending when to lies above from.
func DirectionTo(from, to int) Direction {
	if from < to {
		return Ascending
	}
	return Descending
}

type PassengerState int

const (
	Requesting PassengerState = iota
	WaitingForPickup
	Onboard
	Idling
	Retired
)

func (s PassengerState) String() string {
	switch s {
	case Requesting:
		return "requesting"
	case WaitingForPickup:
		return "waiting-for-pickup"
	case Onboard:
		return "onboard"
	case Idling:
		return "idling"
	case Retired:
		return "retired"
	}
	return "unknown"
}
