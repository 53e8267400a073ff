package limlog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Config holds every tunable of a Facade: a flat struct with json and toml
// tags so the same value can come from a config file or be built up in code.
type Config struct {
	Level      string `json:"level" toml:"level"`             // trace, debug, info, warn, error, fatal
	Directory  string `json:"directory" toml:"directory"`     // log file directory
	Name       string `json:"name" toml:"name"`                // base file name, without extension
	Extension  string `json:"extension" toml:"extension"`     // file extension, including the dot

	RingSize         int `json:"ring_size" toml:"ring_size"`                   // per-goroutine ring buffer bytes
	OutputBufferSize int `json:"output_buffer_size" toml:"output_buffer_size"` // sink scratch buffer bytes

	MaxSizeMB      int64 `json:"max_size_mb" toml:"max_size_mb"`
	MaxBackups     int   `json:"max_backups" toml:"max_backups"`
	MaxAgeDays     int   `json:"max_age_days" toml:"max_age_days"`
	MaxTotalSizeMB int64 `json:"max_total_size_mb" toml:"max_total_size_mb"`
	MinDiskFreeMB  int64 `json:"min_disk_free_mb" toml:"min_disk_free_mb"`

	TraceDepth int64  `json:"trace_depth" toml:"trace_depth"` // 0-10, 0 disables call-chain tracing
	Precision  string `json:"precision" toml:"precision"`     // second, millisecond, microsecond, nanosecond
}

// defaultConfig is the package-level default literal.
func defaultConfig() *Config {
	return &Config{
		Level:            "info",
		Directory:        "./logs",
		Name:             "limlog",
		Extension:        ".log",
		RingSize:         defaultRingSize,
		OutputBufferSize: defaultOutputBufferSize,
		MaxSizeMB:        defaultMaxSizeMiB,
		MaxBackups:       defaultMaxBackups,
		MaxAgeDays:       0,
		MaxTotalSizeMB:   0,
		MinDiskFreeMB:    0,
		TraceDepth:       0,
		Precision:        "microsecond",
	}
}

// mergeConfig fills every zero-valued field of cfg from defaults,
// field-by-field, so a caller may supply a Config with only the fields
// they care about set.
func mergeConfig(cfg *Config) *Config {
	d := defaultConfig()
	if cfg == nil {
		return d
	}
	return &Config{
		Level:            getConfigValue(d.Level, cfg.Level),
		Directory:        getConfigValue(d.Directory, cfg.Directory),
		Name:             getConfigValue(d.Name, cfg.Name),
		Extension:        getConfigValue(d.Extension, cfg.Extension),
		RingSize:         getConfigValue(d.RingSize, cfg.RingSize),
		OutputBufferSize: getConfigValue(d.OutputBufferSize, cfg.OutputBufferSize),
		MaxSizeMB:        getConfigValue(d.MaxSizeMB, cfg.MaxSizeMB),
		MaxBackups:       getConfigValue(d.MaxBackups, cfg.MaxBackups),
		MaxAgeDays:       getConfigValue(d.MaxAgeDays, cfg.MaxAgeDays),
		MaxTotalSizeMB:   getConfigValue(d.MaxTotalSizeMB, cfg.MaxTotalSizeMB),
		MinDiskFreeMB:    getConfigValue(d.MinDiskFreeMB, cfg.MinDiskFreeMB),
		TraceDepth:       getConfigValue(d.TraceDepth, cfg.TraceDepth),
		Precision:        getConfigValue(d.Precision, cfg.Precision),
	}
}

// getConfigValue returns defaultVal if cfgVal is the zero value for T,
// otherwise cfgVal.
func getConfigValue[T comparable](defaultVal, cfgVal T) T {
	var zero T
	if cfgVal == zero {
		return defaultVal
	}
	return cfgVal
}

// LoadConfigFile reads a JSON or TOML config file, selecting the decoder by
// the file's extension (.json vs .toml; no extension is read as TOML). It
// never terminates the process; read and decode errors are returned to the
// caller.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("limlog: read config file %s: %w", path, err)
	}

	cfg := &Config{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("limlog: parse json config %s: %w", path, err)
		}
	case ".toml", "":
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("limlog: parse toml config %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("limlog: unrecognized config extension %q", filepath.Ext(path))
	}
	return cfg, nil
}

func (c *Config) precision() TimestampPrecision {
	switch strings.ToLower(c.Precision) {
	case "second":
		return PrecisionSecond
	case "millisecond":
		return PrecisionMillisecond
	case "nanosecond":
		return PrecisionNanosecond
	default:
		return PrecisionMicrosecond
	}
}

func (c *Config) filename() string {
	return filepath.Join(c.Directory, c.Name+c.Extension)
}
