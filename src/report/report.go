// Package report writes the outputs of a finished run into a per-seed directory.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gopkg.in/yaml.v3"

	"liftsim/src/config"
	"liftsim/src/elev"
	"liftsim/src/sim"
	"liftsim/src/utils"
)

// Dir returns the output directory of a seed under root, creating it if needed.
func Dir(root string, seed int64) (string, error) {
	dir := filepath.Join(root, strconv.FormatInt(seed, 10))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	return dir, nil
}

// Path names an output file of the given kind inside dir.
func Path(dir, kind string, seed int64, ext string) string {
	return filepath.Join(dir, fmt.Sprintf("%s_%d.%s", kind, seed, ext))
}

// WriteAll writes the stats file, the summary and the series for results into dir.
// traceDropped is the number of trace lines the tracer lost.
func WriteAll(dir string, results sim.Results, traceDropped int64) error {
	seed := results.Config.Seed
	if err := writeFile(Path(dir, "stats", seed, "txt"), func(w io.Writer) error {
		return WriteStats(w, results)
	}); err != nil {
		return err
	}
	if err := writeFile(Path(dir, "summary", seed, "yaml"), func(w io.Writer) error {
		summary := NewSummary(results)
		summary.TraceDropped = traceDropped
		return WriteSummary(w, summary)
	}); err != nil {
		return err
	}
	return WriteSeries(dir, results)
}

// WriteStats writes the human readable statistics block. Times are in seconds.
func WriteStats(w io.Writer, results sim.Results) error {
	stats := results.Stats
	lines := []string{
		"STATISTICS:",
		"___________",
		"",
		fmt.Sprintf("humans simulated: %d", stats.Created),
		fmt.Sprintf("maximum humans alive: %d", stats.MaxLive()),
		"",
		"",
		"WAITING TIME:",
		"_____________",
	}
	lines = append(lines, summaryLines("", stats.WaitingTimes)...)
	lines = append(lines, "")
	lines = append(lines, summaryLines(" of human means", stats.MeanWaits)...)

	_, err := io.WriteString(w, strings.Join(lines, "\n")+"\n")
	return err
}

func summaryLines(suffix string, samples []time.Duration) []string {
	d := Digest(samples)
	rows := []struct {
		name  string
		value time.Duration
	}{
		{"mean", d.Mean},
		{"median", d.Median},
		{"max", d.Max},
		{"min", d.Min},
	}
	width := len("median" + suffix)
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		value := "n/a"
		if len(samples) > 0 {
			value = seconds(row.value)
		}
		lines = append(lines, fmt.Sprintf("%-*s [s]: %s", width, row.name+suffix, value))
	}
	return lines
}

func seconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', -1, 64)
}

// Summary is the machine readable digest of a run.
type Summary struct {
	Config     config.Config   `yaml:"config"`
	Created    int             `yaml:"humans_simulated"`
	MaxLive    int             `yaml:"max_alive"`
	Queued     int             `yaml:"queued_at_end"`
	Waits      Distribution    `yaml:"waiting_time"`
	HumanMeans Distribution    `yaml:"human_mean_waiting_time"`
	Elevators  []elev.Snapshot `yaml:"elevators"`

	// TraceDropped counts trace lines lost to a slow trace writer.
	TraceDropped int64 `yaml:"trace_lines_dropped"`
}

// Distribution summarises a series of durations.
type Distribution struct {
	Count  int           `yaml:"count"`
	Mean   time.Duration `yaml:"mean"`
	Median time.Duration `yaml:"median"`
	Max    time.Duration `yaml:"max"`
	Min    time.Duration `yaml:"min"`
}

// Digest summarises samples. The median of an even count averages the two middle samples.
// An empty series digests to zeros.
func Digest(samples []time.Duration) Distribution {
	if len(samples) == 0 {
		return Distribution{}
	}
	x := utils.Float64s(samples)
	slices.Sort(x)
	lower := stat.Quantile(0.5, stat.Empirical, x, nil)
	upper := x[len(x)/2]
	return Distribution{
		Count:  len(x),
		Mean:   time.Duration(stat.Mean(x, nil)),
		Median: time.Duration((lower + upper) / 2),
		Max:    time.Duration(floats.Max(x)),
		Min:    time.Duration(floats.Min(x)),
	}
}

// NewSummary digests results.
func NewSummary(results sim.Results) Summary {
	return Summary{
		Config:     results.Config,
		Created:    results.Stats.Created,
		MaxLive:    results.Stats.MaxLive(),
		Queued:     results.Queued,
		Waits:      Digest(results.Stats.WaitingTimes),
		HumanMeans: Digest(results.Stats.MeanWaits),
		Elevators:  results.Elevators,
	}
}

// WriteSummary writes summary as YAML.
func WriteSummary(w io.Writer, summary Summary) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(summary); err != nil {
		return fmt.Errorf("encoding summary: %w", err)
	}
	return enc.Close()
}

// WriteSeries writes one CSV per sampled series, ready for plotting.
func WriteSeries(dir string, results sim.Results) error {
	stats := results.Stats
	seed := results.Config.Seed

	series := []struct {
		kind   string
		header []string
		rows   int
		row    func(i int) []string
	}{
		{
			kind:   "waiting_times",
			header: []string{"pickup", "wait_s"},
			rows:   len(stats.WaitingTimes),
			row: func(i int) []string {
				return []string{strconv.Itoa(i), seconds(stats.WaitingTimes[i])}
			},
		},
		{
			kind:   "average_waiting_times_per_human",
			header: []string{"human", "mean_wait_s"},
			rows:   len(stats.MeanWaits),
			row: func(i int) []string {
				return []string{strconv.Itoa(i), seconds(stats.MeanWaits[i])}
			},
		},
		{
			kind:   "humans_alive",
			header: []string{"t_s", "alive"},
			rows:   len(stats.LiveCounts),
			row: func(i int) []string {
				at := time.Duration(i) * results.Config.SampleInterval
				return []string{seconds(at), strconv.Itoa(stats.LiveCounts[i])}
			},
		},
	}

	for _, s := range series {
		err := writeFile(Path(dir, s.kind, seed, "csv"), func(w io.Writer) error {
			cw := csv.NewWriter(w)
			if err := cw.Write(s.header); err != nil {
				return err
			}
			for i := range s.rows {
				if err := cw.Write(s.row(i)); err != nil {
					return err
				}
			}
			cw.Flush()
			return cw.Error()
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
