package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSinksFanOutInOrder(t *testing.T) {
	var got []string
	sinks := Sinks{
		SinkFunc(func(Event) { got = append(got, "first") }),
		Discard,
		SinkFunc(func(Event) { got = append(got, "second") }),
	}
	sinks.Emit(PopulationSampled{At: time.Second, Live: 1})
	require.Equal(t, []string{"first", "second"}, got)
}

func TestDirection(t *testing.T) {
	require.Equal(t, Ascending, DirectionTo(1, 4))
	require.Equal(t, Descending, DirectionTo(4, 1))

	text, err := Descending.MarshalText()
	require.NoError(t, err)
	require.Equal(t, "descending", string(text))
}
