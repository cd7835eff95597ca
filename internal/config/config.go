package config

// #region imports
import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/smart-bin/go-controller/internal/facts"
)

// #endregion

// #region config

// Config holds all controller configuration. Precedence: env vars over the
// YAML file over defaults.
type Config struct {
	DBPath     string `yaml:"db_path"`
	VisionAddr string `yaml:"vision_addr"`
	SensorAddr string `yaml:"sensor_addr"`

	Hub HubConfig `yaml:"hub"`

	Derive DeriveConfig `yaml:"derive"`

	// CycleBudget caps one item's classification end to end, collaborator
	// fetches included. The engine itself carries no timeout logic.
	CycleBudget string `yaml:"cycle_budget"`
}

// HubConfig configures the dashboard feed.
type HubConfig struct {
	URL     string `yaml:"url"`
	Enabled bool   `yaml:"enabled"`
}

// DeriveConfig configures sensor derivation thresholds.
type DeriveConfig struct {
	MoistureThresholdPercent float64 `yaml:"moisture_threshold_percent"`
	TransparencyThreshold    float64 `yaml:"transparency_threshold"`
	FlexThreshold            float64 `yaml:"flex_threshold"`
}

// #endregion config

// #region defaults

// Default returns the stock configuration for a local bench setup.
func Default() Config {
	d := facts.DefaultDeriveConfig()
	return Config{
		DBPath:     "smart_bin.db",
		VisionAddr: "http://localhost:8090",
		SensorAddr: "http://localhost:8091",
		Hub: HubConfig{
			URL:     "ws://localhost:5000/hub/classifications",
			Enabled: false,
		},
		Derive: DeriveConfig{
			MoistureThresholdPercent: d.MoistureThresholdPercent,
			TransparencyThreshold:    d.TransparencyThreshold,
			FlexThreshold:            d.FlexThreshold,
		},
		CycleBudget: "5s",
	}
}

// #endregion defaults

// #region load

// Load builds the effective configuration: defaults, then the YAML file at
// path (optional, "" skips), then env overrides: SMARTBIN_DB,
// SMARTBIN_VISION_ADDR, SMARTBIN_SENSOR_ADDR, SMARTBIN_HUB_URL,
// SMARTBIN_HUB_ENABLED, SMARTBIN_CYCLE_BUDGET.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if v := os.Getenv("SMARTBIN_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("SMARTBIN_VISION_ADDR"); v != "" {
		cfg.VisionAddr = v
	}
	if v := os.Getenv("SMARTBIN_SENSOR_ADDR"); v != "" {
		cfg.SensorAddr = v
	}
	if v := os.Getenv("SMARTBIN_HUB_URL"); v != "" {
		cfg.Hub.URL = v
	}
	if v := os.Getenv("SMARTBIN_HUB_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Hub.Enabled = b
		}
	}
	if v := os.Getenv("SMARTBIN_CYCLE_BUDGET"); v != "" {
		cfg.CycleBudget = v
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if _, err := time.ParseDuration(c.CycleBudget); err != nil {
		return fmt.Errorf("cycle_budget %q: %w", c.CycleBudget, err)
	}
	if c.Derive.MoistureThresholdPercent < 0 || c.Derive.MoistureThresholdPercent > 100 {
		return fmt.Errorf("moisture_threshold_percent %.2f outside [0,100]", c.Derive.MoistureThresholdPercent)
	}
	if c.Derive.TransparencyThreshold < 0 || c.Derive.TransparencyThreshold > 1 {
		return fmt.Errorf("transparency_threshold %.2f outside [0,1]", c.Derive.TransparencyThreshold)
	}
	if c.Derive.FlexThreshold < 0 || c.Derive.FlexThreshold > 1 {
		return fmt.Errorf("flex_threshold %.2f outside [0,1]", c.Derive.FlexThreshold)
	}
	return nil
}

// #endregion load

// #region accessors

// CycleTimeout returns the parsed processing-time budget per item.
func (c Config) CycleTimeout() time.Duration {
	d, err := time.ParseDuration(c.CycleBudget)
	if err != nil {
		d, _ = time.ParseDuration(Default().CycleBudget)
	}
	return d
}

// DeriveThresholds converts the config section into the facts package's
// derivation thresholds.
func (c Config) DeriveThresholds() facts.DeriveConfig {
	return facts.DeriveConfig{
		MoistureThresholdPercent: c.Derive.MoistureThresholdPercent,
		TransparencyThreshold:    c.Derive.TransparencyThreshold,
		FlexThreshold:            c.Derive.FlexThreshold,
	}
}

// #endregion accessors
