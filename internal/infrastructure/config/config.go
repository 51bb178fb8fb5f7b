package config

import "github.com/kelseyhightower/envconfig"

// Storage backends for analytics snapshots.
const (
	StorageFile  = "file"
	StorageTurso = "turso"
)

// App holds configuration shared by every entrypoint.
type App struct {
	Storage               string `envconfig:"STORAGE" default:"file"`
	SampleIntervalSeconds int    `envconfig:"SAMPLE_INTERVAL_SECONDS" default:"10"`
	HistoryCap            int    `envconfig:"HISTORY_CAP" default:"1000"`
	TemplatePath          string `envconfig:"TEMPLATE_PATH"`
}

// Server holds configuration for the local API server.
type Server struct {
	App
	Port int `envconfig:"PORT" default:"8080"`
}

// LoadApp loads shared configuration from environment variables.
func LoadApp() (*App, error) {
	var cfg App
	if err := envconfig.Process("FOCUSMETRICS", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadServer loads server configuration from environment variables.
func LoadServer() (*Server, error) {
	var cfg Server
	if err := envconfig.Process("FOCUSMETRICS", &cfg.App); err != nil {
		return nil, err
	}
	if err := envconfig.Process("FOCUSMETRICS", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
