package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kwv/aerialmatch/engine"
)

// Candidate is one lat/lon reference site a drone image can be matched
// against. The tile itself is fetched lazily through a TileFetcher.
type Candidate struct {
	ID  string  `yaml:"id" json:"id"`
	Lat float64 `yaml:"lat" json:"lat"`
	Lon float64 `yaml:"lon" json:"lon"`
}

// MQTTConfig holds the optional live-ingestion MQTT connection settings.
// Leaving Broker empty disables MQTT mode entirely, unless the MQTT_BROKER
// environment variable supplies one (see InitMQTT).
type MQTTConfig struct {
	Broker        string `yaml:"broker"`
	ClientID      string `yaml:"clientId"`
	Username      string `yaml:"username,omitempty"`
	Password      string `yaml:"password,omitempty"`
	RequestTopic  string `yaml:"requestTopic"`
	PublishPrefix string `yaml:"publishPrefix"`
}

// AppConfig is the outer application configuration: everything that sits
// above engine.MatchConfig and isn't part of the matching contract itself
// (tile provider, data directory, MQTT, the candidate site list).
type AppConfig struct {
	MQTT            MQTTConfig         `yaml:"mqtt"`
	DataDir         string             `yaml:"dataDir"`
	TileProviderURL string             `yaml:"tileProviderUrl"`
	TileWidthMeters float64            `yaml:"tileWidthMeters"`
	Match           engine.MatchConfig `yaml:"match"`
	Candidates      []Candidate        `yaml:"candidates"`
}

// DefaultAppConfig returns sane defaults: engine defaults, a local data
// directory, no tile provider or MQTT configured (both are opt-in).
func DefaultAppConfig() AppConfig {
	return AppConfig{
		DataDir:         "./data",
		TileWidthMeters: 200,
		Match:           engine.DefaultMatchConfig(),
	}
}

// LoadAppConfig loads the application configuration from a YAML file.
func LoadAppConfig(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	config := DefaultAppConfig()
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// SaveAppConfig writes the configuration to a YAML file.
func SaveAppConfig(path string, config *AppConfig) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("marshaling config YAML: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Validate checks required fields and delegates the matching knobs to
// engine.MatchConfig.Validate.
func (c *AppConfig) Validate() error {
	if c.TileWidthMeters <= 0 {
		return fmt.Errorf("tileWidthMeters must be positive, got %v", c.TileWidthMeters)
	}
	for i, cand := range c.Candidates {
		if cand.ID == "" {
			return fmt.Errorf("candidates[%d].id is required", i)
		}
	}
	if err := c.Match.Validate(); err != nil {
		return err
	}
	return nil
}

// CandidateByID returns the candidate with the given ID, or ok=false.
func (c *AppConfig) CandidateByID(id string) (Candidate, bool) {
	for _, cand := range c.Candidates {
		if cand.ID == id {
			return cand, true
		}
	}
	return Candidate{}, false
}
