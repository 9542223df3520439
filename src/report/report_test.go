package report

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"liftsim/src/config"
	"liftsim/src/elev"
	"liftsim/src/population"
	"liftsim/src/sim"
	"liftsim/src/types"
)

func sampleResults() sim.Results {
	cfg := config.Default()
	cfg.Seed = 42
	return sim.Results{
		Config: cfg,
		Stats: population.Stats{
			WaitingTimes: []time.Duration{4 * time.Second, 10 * time.Second, 1500 * time.Millisecond},
			MeanWaits:    []time.Duration{7 * time.Second, 3 * time.Second},
			LiveCounts:   []int{0, 2, 5, 3},
			Created:      6,
		},
		Elevators: []elev.Snapshot{{ID: 0, Floor: 4, Dir: types.Descending, Occupants: []int{3}}},
		Queued:    1,
	}
}

func TestDigest(t *testing.T) {
	samples := []time.Duration{9 * time.Second, time.Second, 5 * time.Second, 3 * time.Second}

	d := Digest(samples)
	require.Equal(t, 4, d.Count)
	require.Equal(t, 4500*time.Millisecond, d.Mean)
	require.Equal(t, 4*time.Second, d.Median)
	require.Equal(t, 5*time.Second, Digest(samples[:3]).Median)
	require.Equal(t, time.Second, d.Min)
	require.Equal(t, 9*time.Second, d.Max)

	// Digest must not reorder the caller's slice.
	require.Equal(t, 9*time.Second, samples[0])
}

func TestDigestOfNothing(t *testing.T) {
	require.Equal(t, Distribution{}, Digest(nil))
}

func TestWriteStats(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteStats(&buf, sampleResults()))

	want := strings.Join([]string{
		"STATISTICS:",
		"___________",
		"",
		"humans simulated: 6",
		"maximum humans alive: 5",
		"",
		"",
		"WAITING TIME:",
		"_____________",
		"mean   [s]: 5.166666666",
		"median [s]: 4",
		"max    [s]: 10",
		"min    [s]: 1.5",
		"",
		"mean of human means   [s]: 5",
		"median of human means [s]: 5",
		"max of human means    [s]: 7",
		"min of human means    [s]: 3",
	}, "\n") + "\n"
	require.Equal(t, want, buf.String())
}

func TestWriteStatsWithoutSamples(t *testing.T) {
	results := sampleResults()
	results.Stats.MeanWaits = nil

	var buf bytes.Buffer
	require.NoError(t, WriteStats(&buf, results))
	require.Contains(t, buf.String(), "median of human means [s]: n/a\n")
}

func TestWriteSummary(t *testing.T) {
	var buf bytes.Buffer
	summary := NewSummary(sampleResults())
	summary.TraceDropped = 12
	require.NoError(t, WriteSummary(&buf, summary))

	var got struct {
		Created int `yaml:"humans_simulated"`
		MaxLive int `yaml:"max_alive"`
		Queued  int `yaml:"queued_at_end"`
		Waits   struct {
			Count  int    `yaml:"count"`
			Median string `yaml:"median"`
		} `yaml:"waiting_time"`
		Dropped   int64         `yaml:"trace_lines_dropped"`
		Config    config.Config `yaml:"config"`
		Elevators []struct {
			Dir       string `yaml:"dir"`
			Occupants []int  `yaml:"occupants"`
		} `yaml:"elevators"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	require.Equal(t, 6, got.Created)
	require.Equal(t, 5, got.MaxLive)
	require.Equal(t, 1, got.Queued)
	require.Equal(t, 3, got.Waits.Count)
	require.Equal(t, "4s", got.Waits.Median)
	require.EqualValues(t, 12, got.Dropped)
	require.Equal(t, sampleResults().Config, got.Config)
	require.Len(t, got.Elevators, 1)
	require.Equal(t, "descending", got.Elevators[0].Dir)
	require.Equal(t, []int{3}, got.Elevators[0].Occupants)
}

func TestWriteAllLaysOutSeedDirectory(t *testing.T) {
	dir, err := Dir(t.TempDir(), 42)
	require.NoError(t, err)
	require.Equal(t, "42", filepath.Base(dir))

	require.NoError(t, WriteAll(dir, sampleResults(), 0))

	for _, name := range []string{
		"stats_42.txt",
		"summary_42.yaml",
		"waiting_times_42.csv",
		"average_waiting_times_per_human_42.csv",
		"humans_alive_42.csv",
	} {
		require.FileExists(t, filepath.Join(dir, name))
	}

	f, err := os.Open(filepath.Join(dir, "humans_alive_42.csv"))
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Equal(t, [][]string{
		{"t_s", "alive"},
		{"0", "0"},
		{"1", "2"},
		{"2", "5"},
		{"3", "3"},
	}, records)
}
