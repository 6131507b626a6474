package config

import (
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/go-viper/mapstructure/v2"
	"github.com/plus3/tankfield/ecs"
	"github.com/plus3/tankfield/tanks"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes environment overrides, e.g. TANKS_TUNING_GRAVITY.
const EnvPrefix = "TANKS"

// Config is the effective configuration of a tankfield process.
type Config struct {
	LogLevel  string `mapstructure:"logLevel" yaml:"logLevel"`
	LogFormat string `mapstructure:"logFormat" yaml:"logFormat"`

	Seed     int64 `mapstructure:"seed" yaml:"seed"`
	Agents   int   `mapstructure:"agents" yaml:"agents"`
	TickRate int   `mapstructure:"tickRate" yaml:"tickRate"`

	Tuning   TuningConfig   `mapstructure:"tuning" yaml:"tuning"`
	Parallel ParallelConfig `mapstructure:"parallel" yaml:"parallel"`
	Viewer   ViewerConfig   `mapstructure:"viewer" yaml:"viewer"`
}

// TuningConfig mirrors tanks.Tuning with plain arrays for vectors.
type TuningConfig struct {
	NoiseFrequency   float64    `mapstructure:"noiseFrequency" yaml:"noiseFrequency"`
	AgentSpeed       float64    `mapstructure:"agentSpeed" yaml:"agentSpeed"`
	MuzzleOffset     [3]float64 `mapstructure:"muzzleOffset" yaml:"muzzleOffset,flow"`
	MuzzleDirection  [3]float64 `mapstructure:"muzzleDirection" yaml:"muzzleDirection,flow"`
	MuzzleSpeed      float64    `mapstructure:"muzzleSpeed" yaml:"muzzleSpeed"`
	Gravity          float64    `mapstructure:"gravity" yaml:"gravity"`
	FloorHeight      float64    `mapstructure:"floorHeight" yaml:"floorHeight"`
	BounceDamping    float64    `mapstructure:"bounceDamping" yaml:"bounceDamping"`
	DespawnSpeedSq   float64    `mapstructure:"despawnSpeedSq" yaml:"despawnSpeedSq"`
	CameraOffset     [3]float64 `mapstructure:"cameraOffset" yaml:"cameraOffset,flow"`
	CameraLookOffset [3]float64 `mapstructure:"cameraLookOffset" yaml:"cameraLookOffset,flow"`
}

// ParallelConfig controls the projectile pass.
type ParallelConfig struct {
	// Workers is the goroutine limit; 0 means GOMAXPROCS.
	Workers   int `mapstructure:"workers" yaml:"workers"`
	ChunkSize int `mapstructure:"chunkSize" yaml:"chunkSize"`
}

// ViewerConfig holds the window settings of cmd/tanks.
type ViewerConfig struct {
	Width  int `mapstructure:"width" yaml:"width"`
	Height int `mapstructure:"height" yaml:"height"`
	// Scale is screen pixels per world unit.
	Scale float64 `mapstructure:"scale" yaml:"scale"`
}

func vec(v mgl64.Vec3) []float64 {
	return []float64{v[0], v[1], v[2]}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logLevel", "info")
	v.SetDefault("logFormat", "console")

	v.SetDefault("seed", 0)
	v.SetDefault("agents", tanks.DefaultAgents)
	v.SetDefault("tickRate", 60)

	t := tanks.DefaultTuning()
	v.SetDefault("tuning.noiseFrequency", t.NoiseFrequency)
	v.SetDefault("tuning.agentSpeed", t.AgentSpeed)
	v.SetDefault("tuning.muzzleOffset", vec(t.MuzzleOffset))
	v.SetDefault("tuning.muzzleDirection", vec(t.MuzzleDirection))
	v.SetDefault("tuning.muzzleSpeed", t.MuzzleSpeed)
	v.SetDefault("tuning.gravity", t.Gravity)
	v.SetDefault("tuning.floorHeight", t.FloorHeight)
	v.SetDefault("tuning.bounceDamping", t.BounceDamping)
	v.SetDefault("tuning.despawnSpeedSq", t.DespawnSpeedSq)
	v.SetDefault("tuning.cameraOffset", vec(t.CameraOffset))
	v.SetDefault("tuning.cameraLookOffset", vec(t.CameraLookOffset))

	v.SetDefault("parallel.workers", 0)
	v.SetDefault("parallel.chunkSize", ecs.DefaultChunkSize)

	v.SetDefault("viewer.width", 1280)
	v.SetDefault("viewer.height", 720)
	v.SetDefault("viewer.scale", 8.0)
}

// Load builds the configuration from defaults, the YAML file at path (skipped
// when path is empty) and TANKS_* environment variables, in increasing priority.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(decodeHook)); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// decodeHook extends viper's default hooks so vector keys also accept a
// comma-separated string, e.g. TANKS_TUNING_CAMERAOFFSET="0,5,-10".
var decodeHook = mapstructure.ComposeDecodeHookFunc(
	mapstructure.StringToTimeDurationHookFunc(),
	mapstructure.StringToSliceHookFunc(","),
	stringToArrayHook(","),
)

func stringToArrayHook(sep string) mapstructure.DecodeHookFuncType {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String || t.Kind() != reflect.Array {
			return data, nil
		}
		parts := strings.Split(data.(string), sep)
		if len(parts) != t.Len() {
			return nil, fmt.Errorf("want %d comma-separated values, got %q", t.Len(), data)
		}
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts, nil
	}
}

// Validate checks values that viper cannot constrain.
func (c *Config) Validate() error {
	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("invalid logFormat %q: want console or json", c.LogFormat)
	}
	if c.Agents < 0 {
		return fmt.Errorf("invalid agents %d: must not be negative", c.Agents)
	}
	if c.TickRate <= 0 {
		return fmt.Errorf("invalid tickRate %d: must be positive", c.TickRate)
	}
	if c.Viewer.Scale <= 0 {
		return fmt.Errorf("invalid viewer.scale %v: must be positive", c.Viewer.Scale)
	}
	tuning := c.Tuning.Tuning()
	if err := tuning.Validate(); err != nil {
		return fmt.Errorf("invalid tuning: %w", err)
	}
	return nil
}

// Tuning converts the section to simulation constants.
func (t TuningConfig) Tuning() tanks.Tuning {
	return tanks.Tuning{
		NoiseFrequency:   t.NoiseFrequency,
		AgentSpeed:       t.AgentSpeed,
		MuzzleOffset:     mgl64.Vec3(t.MuzzleOffset),
		MuzzleDirection:  mgl64.Vec3(t.MuzzleDirection),
		MuzzleSpeed:      t.MuzzleSpeed,
		Gravity:          t.Gravity,
		FloorHeight:      t.FloorHeight,
		BounceDamping:    t.BounceDamping,
		DespawnSpeedSq:   t.DespawnSpeedSq,
		CameraOffset:     mgl64.Vec3(t.CameraOffset),
		CameraLookOffset: mgl64.Vec3(t.CameraLookOffset),
	}
}

// TickInterval returns the duration of one tick at TickRate, in seconds.
func (c *Config) TickInterval() float64 {
	return 1 / float64(c.TickRate)
}

// WorldOptions returns the tanks.Options described by the configuration. The
// caller fills in Logger and Meter.
func (c *Config) WorldOptions() tanks.Options {
	opts := tanks.DefaultOptions()
	opts.Seed = c.Seed
	opts.Agents = c.Agents
	opts.Tuning = c.Tuning.Tuning()
	opts.Workers = c.Parallel.Workers
	opts.ChunkSize = c.Parallel.ChunkSize
	return opts
}

// Dump writes the configuration as YAML.
func (c *Config) Dump(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return enc.Close()
}
