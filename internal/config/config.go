package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"fit-calories/internal/analysis"
	"fit-calories/internal/keytel"
)

// FilesDirEnv overrides Files.Dir when set
const FilesDirEnv = "FITCAL_FILES_DIR"

const configDirName = ".fit-calories"

// Config represents the application configuration
type Config struct {
	Profile ProfileConfig `json:"profile" yaml:"profile"`
	Files   FilesConfig   `json:"files" yaml:"files"`
	Zones   ZonesConfig   `json:"zones" yaml:"zones"`
}

// ProfileConfig holds the athlete values used by the calorie formula
type ProfileConfig struct {
	WeightKg float64 `json:"weight_kg" yaml:"weight_kg"`
	AgeYears float64 `json:"age_years" yaml:"age_years"`
	Gender   string  `json:"gender" yaml:"gender"`
}

// FilesConfig says where batch runs look for activity files
type FilesConfig struct {
	Dir     string `json:"dir" yaml:"dir"`
	Pattern string `json:"pattern" yaml:"pattern"`
}

// ZonesConfig holds heart rate zone settings. MaxHR of 0 means estimate from age.
type ZonesConfig struct {
	RestingHR   int       `json:"resting_hr" yaml:"resting_hr"`
	MaxHR       int       `json:"max_hr" yaml:"max_hr"`
	Intensities []float64 `json:"intensities" yaml:"intensities"`
}

// ErrNoConfig is returned when the config file doesn't exist
var ErrNoConfig = errors.New("config file not found")

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Profile: ProfileConfig{
			WeightKg: 70,
			AgeYears: 30,
			Gender:   keytel.Male.String(),
		},
		Files: FilesConfig{
			Dir:     "activities",
			Pattern: "*.fit",
		},
		Zones: ZonesConfig{
			RestingHR:   60,
			Intensities: append([]float64(nil), analysis.DefaultIntensities...),
		},
	}
}

// Load reads the configuration from ~/.fit-calories, preferring config.json
// over config.yaml
func Load() (*Config, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return nil, err
	}

	for _, name := range []string{"config.json", "config.yaml"} {
		cfg, err := LoadFile(filepath.Join(dir, name))
		if errors.Is(err, ErrNoConfig) {
			continue
		}
		return cfg, err
	}
	return nil, ErrNoConfig
}

// LoadFile reads a JSON or YAML config, chosen by extension, and fills in
// defaults for missing values
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, ErrNoConfig
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyDefaults()
	if dir := os.Getenv(FilesDirEnv); dir != "" {
		cfg.Files.Dir = dir
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Profile.WeightKg == 0 {
		c.Profile.WeightKg = defaults.Profile.WeightKg
	}
	if c.Profile.AgeYears == 0 {
		c.Profile.AgeYears = defaults.Profile.AgeYears
	}
	if c.Profile.Gender == "" {
		c.Profile.Gender = defaults.Profile.Gender
	}
	if c.Files.Dir == "" {
		c.Files.Dir = defaults.Files.Dir
	}
	if c.Files.Pattern == "" {
		c.Files.Pattern = defaults.Files.Pattern
	}
	if c.Zones.RestingHR == 0 {
		c.Zones.RestingHR = defaults.Zones.RestingHR
	}
	if len(c.Zones.Intensities) == 0 {
		c.Zones.Intensities = defaults.Zones.Intensities
	}
}

// Save writes the configuration to ~/.fit-calories/config.json
func Save(cfg *Config) error {
	path, err := getConfigPath()
	if err != nil {
		return err
	}
	return SaveFile(path, cfg)
}

// SaveFile writes cfg as indented JSON, creating parent directories
func SaveFile(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// CreateExample creates an example config file if none exists
func CreateExample() error {
	path, err := getConfigPath()
	if err != nil {
		return err
	}

	if _, err := os.Stat(path); err == nil {
		return nil // Config exists, don't overwrite
	}

	example := DefaultConfig()
	return Save(&example)
}

// Validate checks profile, files and zone settings. Values that are present
// but out of range are errors; they are never replaced by defaults.
func (c *Config) Validate() error {
	if _, err := c.AthleteProfile(); err != nil {
		return err
	}

	if c.Files.Pattern != "" {
		if _, err := filepath.Match(c.Files.Pattern, ""); err != nil {
			return fmt.Errorf("files.pattern %q is not a valid glob: %w", c.Files.Pattern, err)
		}
	}

	if c.Zones.RestingHR < 0 || float64(c.Zones.RestingHR) > keytel.MaxHeartRate {
		return fmt.Errorf("zones.resting_hr must be between 0 and %.0f, got %d", keytel.MaxHeartRate, c.Zones.RestingHR)
	}
	if c.Zones.MaxHR < 0 || float64(c.Zones.MaxHR) > keytel.MaxHeartRate {
		return fmt.Errorf("zones.max_hr must be between 0 and %.0f, got %d", keytel.MaxHeartRate, c.Zones.MaxHR)
	}
	if c.Zones.MaxHR > 0 && c.Zones.RestingHR >= c.Zones.MaxHR {
		return fmt.Errorf("zones.resting_hr (%d) must be less than zones.max_hr (%d)", c.Zones.RestingHR, c.Zones.MaxHR)
	}
	for _, in := range c.Zones.Intensities {
		if in < 0 || in > 1 {
			return fmt.Errorf("zones.intensities must be between 0 and 1, got %v", in)
		}
	}

	return nil
}

// AthleteProfile converts the profile section into a validated analysis.Profile
func (c *Config) AthleteProfile() (analysis.Profile, error) {
	return analysis.NewProfile(c.Profile.WeightKg, c.Profile.AgeYears, c.Profile.Gender)
}

// getConfigPath returns the path to the JSON config file
func getConfigPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// GetConfigDir returns the path to the config directory
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, configDirName), nil
}
