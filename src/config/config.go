package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	NumElevators      = 3
	NumFloors         = 15
	Capacity          = 5
	TimePerStory      = 3 * time.Second
	Duration          = 24 * time.Hour
	IdleMin           = 100 * time.Second
	IdleMax           = 500 * time.Second
	SpawnInterval     = 10 * time.Second
	DespawnInterval   = 10 * time.Second
	SampleInterval    = 1 * time.Second
	InitialPopulation = 0
	Seed              = 102302338232934
	GroundFloor       = 1
	EnvPrefix         = "LIFTSIM_"
)

// RetirePolicy decides what happens to a passenger's process when it is retired.
type RetirePolicy string

const (
	// Abandon clears the alive flag and lets the passenger finish whatever it is waiting on.
	Abandon RetirePolicy = "abandon"
	// Cancel removes the passenger from its floor queue and kills its process.
	Cancel RetirePolicy = "cancel"
)

type Config struct {
	NumElevators      int           `yaml:"num_elevators"`
	NumFloors         int           `yaml:"num_floors"`
	Capacity          int           `yaml:"elevator_capacity"`
	TimePerStory      time.Duration `yaml:"time_per_story"`
	Duration          time.Duration `yaml:"simulation_duration"`
	IdleMin           time.Duration `yaml:"idle_min"`
	IdleMax           time.Duration `yaml:"idle_max"`
	SpawnInterval     time.Duration `yaml:"spawn_interval"`
	DespawnInterval   time.Duration `yaml:"despawn_interval"`
	SampleInterval    time.Duration `yaml:"sample_interval"`
	InitialPopulation int           `yaml:"initial_population"`
	Seed              int64         `yaml:"seed"`
	Retirement        RetirePolicy  `yaml:"retirement"`
}

// Default returns the configuration of a full simulated day in a 15 story building.
func Default() Config {
	return Config{
		NumElevators:      NumElevators,
		NumFloors:         NumFloors,
		Capacity:          Capacity,
		TimePerStory:      TimePerStory,
		Duration:          Duration,
		IdleMin:           IdleMin,
		IdleMax:           IdleMax,
		SpawnInterval:     SpawnInterval,
		DespawnInterval:   DespawnInterval,
		SampleInterval:    SampleInterval,
		InitialPopulation: InitialPopulation,
		Seed:              Seed,
		Retirement:        Abandon,
	}
}

// Load reads a YAML file on top of the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	file, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	if err := yaml.NewDecoder(file).Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("decode config %s: %w", path, err)
	}
	slog.Debug("Config loaded", "path", path)
	return cfg, nil
}

// LoadEnvFile reads KEY=VALUE pairs from a .env file without touching the process environment.
func LoadEnvFile(path string) (map[string]string, error) {
	env, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("read env file %s: %w", path, err)
	}
	return env, nil
}

// ApplyEnv overrides fields from LIFTSIM_* keys. Unknown keys are ignored.
func ApplyEnv(cfg *Config, env map[string]string) error {
	var errs []error
	setInt := func(key string, dst *int) {
		if v, ok := env[EnvPrefix+key]; ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
				return
			}
			*dst = n
		}
	}
	setDuration := func(key string, dst *time.Duration) {
		if v, ok := env[EnvPrefix+key]; ok {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
				return
			}
			*dst = d
		}
	}

	setInt("NUM_ELEVATORS", &cfg.NumElevators)
	setInt("NUM_FLOORS", &cfg.NumFloors)
	setInt("ELEVATOR_CAPACITY", &cfg.Capacity)
	setInt("INITIAL_POPULATION", &cfg.InitialPopulation)
	setDuration("TIME_PER_STORY", &cfg.TimePerStory)
	setDuration("SIMULATION_DURATION", &cfg.Duration)
	setDuration("IDLE_MIN", &cfg.IdleMin)
	setDuration("IDLE_MAX", &cfg.IdleMax)
	setDuration("SPAWN_INTERVAL", &cfg.SpawnInterval)
	setDuration("DESPAWN_INTERVAL", &cfg.DespawnInterval)
	setDuration("SAMPLE_INTERVAL", &cfg.SampleInterval)

	if v, ok := env[EnvPrefix+"SEED"]; ok {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sSEED: %w", EnvPrefix, err))
		} else {
			cfg.Seed = seed
		}
	}
	if v, ok := env[EnvPrefix+"RETIREMENT"]; ok {
		cfg.Retirement = RetirePolicy(v)
	}
	return errors.Join(errs...)
}

// Validate reports every invalid parameter at once.
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.NumElevators >= 1, "num_elevators must be at least 1, got %d", c.NumElevators)
	check(c.NumFloors >= 2, "num_floors must be at least 2, got %d", c.NumFloors)
	check(c.Capacity >= 1, "elevator_capacity must be at least 1, got %d", c.Capacity)
	check(c.TimePerStory > 0, "time_per_story must be positive, got %v", c.TimePerStory)
	check(c.Duration > 0, "simulation_duration must be positive, got %v", c.Duration)
	check(c.IdleMin >= 0, "idle_min must not be negative, got %v", c.IdleMin)
	check(c.IdleMin <= c.IdleMax, "idle_min (%v) must not exceed idle_max (%v)", c.IdleMin, c.IdleMax)
	check(c.SpawnInterval > 0, "spawn_interval must be positive, got %v", c.SpawnInterval)
	check(c.DespawnInterval > 0, "despawn_interval must be positive, got %v", c.DespawnInterval)
	check(c.SampleInterval > 0, "sample_interval must be positive, got %v", c.SampleInterval)
	check(c.InitialPopulation >= 0, "initial_population must not be negative, got %d", c.InitialPopulation)
	check(c.Retirement == Abandon || c.Retirement == Cancel,
		"retirement must be %q or %q, got %q", Abandon, Cancel, c.Retirement)

	return errors.Join(errs...)
}
