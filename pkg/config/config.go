// Package config loads and validates the hazard-map configuration file.
package config

import (
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ServerConfig controls the map API server.
type ServerConfig struct {
	Addr       string `yaml:"addr"`
	SeenDBPath string `yaml:"seen_db"`
}

// AlertsConfig holds every tunable of the ingestion pipeline. Durations are
// milliseconds in the file.
type AlertsConfig struct {
	URL                string `yaml:"url" validate:"omitempty,url"`
	UserAgent          string `yaml:"user_agent"`
	MainFetchTimeoutMS int    `yaml:"main_fetch_timeout_ms" validate:"gte=0"`
	ZoneFetchTimeoutMS int    `yaml:"zone_fetch_timeout_ms" validate:"gte=0"`
	TimeBudgetMS       int    `yaml:"time_budget_ms" validate:"gte=0"`
	ZoneFetchCap       int    `yaml:"zone_fetch_cap" validate:"gte=0"`
	ZoneConcurrency    int    `yaml:"zone_concurrency" validate:"gte=0"`
	MaxZonesPerAlert   int    `yaml:"max_zones_per_alert" validate:"gte=0"`
	RefreshIntervalSec int    `yaml:"refresh_interval_sec" validate:"gte=0"`
}

// WindowConfig is the fixed viewing rectangle; it is never auto-expanded to
// fit data.
type WindowConfig struct {
	MinLat float64 `yaml:"min_lat" validate:"gte=-90,lte=90"`
	MinLng float64 `yaml:"min_lng" validate:"gte=-180,lte=180"`
	MaxLat float64 `yaml:"max_lat" validate:"gte=-90,lte=90"`
	MaxLng float64 `yaml:"max_lng" validate:"gte=-180,lte=180"`
}

// SourcesConfig points at the transit and road feeds the scraper
// normalizes.
type SourcesConfig struct {
	SeptaURL    string `yaml:"septa_url" validate:"omitempty,url"`
	AmtrakURL   string `yaml:"amtrak_url" validate:"omitempty,url"`
	RoadsURL    string `yaml:"roads_url" validate:"omitempty,url"`
	RoadsAPIKey string `yaml:"roads_api_key"`
	OutputDir   string `yaml:"output_dir"`
}

// Config is the root configuration structure.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Alerts  AlertsConfig  `yaml:"alerts"`
	Window  WindowConfig  `yaml:"window"`
	Sources SourcesConfig `yaml:"sources"`
}

// Default returns the configuration used when no file is present: the NWS
// active-alerts feed windowed to the Pennsylvania corridor.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:       ":8787",
			SeenDBPath: "data/seen",
		},
		Alerts: AlertsConfig{
			URL:                "https://api.weather.gov/alerts/active",
			UserAgent:          "hazard-map (github.com/sudorandom/hazard-map)",
			MainFetchTimeoutMS: 30000,
			ZoneFetchTimeoutMS: 8000,
			TimeBudgetMS:       45000,
			ZoneFetchCap:       120,
			ZoneConcurrency:    4,
			MaxZonesPerAlert:   12,
			RefreshIntervalSec: 120,
		},
		Window: WindowConfig{MinLat: 38.5, MinLng: -81.0, MaxLat: 43.5, MaxLng: -73.0},
		Sources: SourcesConfig{
			SeptaURL:  "https://www3.septa.org/api/Alerts/index.php",
			AmtrakURL: "https://api-v3.amtraker.com/v3/trains",
			RoadsURL:  "https://www.511pa.com/api/v2/get/roadconditions",
			OutputDir: "data",
		},
	}
}

// Load reads path, falling back to defaults when the file does not exist.
// Fields left out of the file keep their default values.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (a AlertsConfig) MainFetchTimeout() time.Duration {
	return time.Duration(a.MainFetchTimeoutMS) * time.Millisecond
}

func (a AlertsConfig) ZoneFetchTimeout() time.Duration {
	return time.Duration(a.ZoneFetchTimeoutMS) * time.Millisecond
}

func (a AlertsConfig) TimeBudget() time.Duration {
	return time.Duration(a.TimeBudgetMS) * time.Millisecond
}

func (a AlertsConfig) RefreshInterval() time.Duration {
	return time.Duration(a.RefreshIntervalSec) * time.Second
}
