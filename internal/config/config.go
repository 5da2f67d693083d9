package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"mspro-labs/wildlife-finder/internal/models"
)

const (
	DefaultAPIURL      = "https://apps.des.qld.gov.au/species/"
	DefaultRadius      = 100000
	DefaultHTTPTimeout = 30 * time.Second
	DefaultConfigPath  = "wildlife.yaml"
)

// AppConfig holds the settings resolved from defaults, the YAML file and environment variables.
type AppConfig struct {
	APIURL      string
	Radius      int
	HTTPTimeout time.Duration
	DBPath      string // Optional gazetteer database, empty disables it
	ConfigPath  string // Path to the YAML config file
	LogLevel    slog.Level
	Places      []models.Place

	OTLPEndpoint string // OTLP gRPC collector, empty disables tracing
}

// FileConfig is the YAML config file layout.
type FileConfig struct {
	APIURL      string      `yaml:"api_url"`
	Radius      int         `yaml:"radius"`
	HTTPTimeout string      `yaml:"http_timeout"`
	DBPath      string      `yaml:"db_path"`
	Places      []PlaceYAML `yaml:"places"`

	OTLPEndpoint string `yaml:"otlp_endpoint"`
}

// PlaceYAML is one entry of a places list.
type PlaceYAML struct {
	Name      string  `yaml:"name"`
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
}

// LoadDotEnv loads a .env file from the working directory if there is one.
func LoadDotEnv() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("Could not load .env file", "err", err)
	}
}

// GetAppConfig resolves the configuration. Environment variables win over the
// YAML file, which wins over defaults. A missing YAML file is not an error.
func GetAppConfig() (AppConfig, error) {
	cfg := AppConfig{
		APIURL:      DefaultAPIURL,
		Radius:      DefaultRadius,
		HTTPTimeout: DefaultHTTPTimeout,
		ConfigPath:  getEnv("CONFIG_PATH", DefaultConfigPath),
		LogLevel:    slog.LevelWarn,
	}

	fc, err := LoadFileConfig(cfg.ConfigPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return cfg, err
	default:
		if err := cfg.apply(fc); err != nil {
			return cfg, fmt.Errorf("config file %s: %w", cfg.ConfigPath, err)
		}
	}

	if v := os.Getenv("WILDLIFE_API_URL"); v != "" {
		cfg.APIURL = v
	}
	if v := os.Getenv("WILDLIFE_RADIUS"); v != "" {
		r, err := parseRadius(v)
		if err != nil {
			return cfg, fmt.Errorf("WILDLIFE_RADIUS: %w", err)
		}
		cfg.Radius = r
	}
	if v := os.Getenv("WILDLIFE_HTTP_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("WILDLIFE_HTTP_TIMEOUT: %w", err)
		}
		cfg.HTTPTimeout = d
	}
	if v := os.Getenv("DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); v != "" {
		cfg.OTLPEndpoint = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return cfg, fmt.Errorf("LOG_LEVEL: %w", err)
		}
	}

	return cfg, nil
}

func (c *AppConfig) apply(fc *FileConfig) error {
	if fc.APIURL != "" {
		c.APIURL = fc.APIURL
	}
	if fc.Radius != 0 {
		if fc.Radius < 0 {
			return fmt.Errorf("radius must be positive, got %d", fc.Radius)
		}
		c.Radius = fc.Radius
	}
	if fc.HTTPTimeout != "" {
		d, err := time.ParseDuration(fc.HTTPTimeout)
		if err != nil {
			return fmt.Errorf("http_timeout: %w", err)
		}
		c.HTTPTimeout = d
	}
	if fc.DBPath != "" {
		c.DBPath = fc.DBPath
	}
	if fc.OTLPEndpoint != "" {
		c.OTLPEndpoint = fc.OTLPEndpoint
	}
	if err := ValidatePlaces(fc.Places); err != nil {
		return fmt.Errorf("places: %w", err)
	}
	c.Places = append(c.Places, ToPlaces(fc.Places)...)
	return nil
}

// LoadFileConfig reads the YAML config file at path.
func LoadFileConfig(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file at '%s': %w", path, err)
	}
	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	return &cfg, nil
}

// ParsePlaces decodes a YAML document with a top-level places list.
func ParsePlaces(data []byte) ([]models.Place, error) {
	var doc struct {
		Places []PlaceYAML `yaml:"places"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse places YAML: %w", err)
	}
	if err := ValidatePlaces(doc.Places); err != nil {
		return nil, err
	}
	return ToPlaces(doc.Places), nil
}

// ValidatePlaces rejects entries with no name or coordinates outside the valid range.
func ValidatePlaces(places []PlaceYAML) error {
	for i, p := range places {
		if strings.TrimSpace(p.Name) == "" {
			return fmt.Errorf("place %d has no name", i+1)
		}
		if p.Latitude < -90 || p.Latitude > 90 || p.Longitude < -180 || p.Longitude > 180 {
			return fmt.Errorf("place %q has out of range coordinates", p.Name)
		}
	}
	return nil
}

// ToPlaces converts YAML entries to models.Place values.
func ToPlaces(in []PlaceYAML) []models.Place {
	out := make([]models.Place, 0, len(in))
	for _, p := range in {
		out = append(out, models.Place{
			Name:       p.Name,
			Coordinate: models.Coordinate{Latitude: p.Latitude, Longitude: p.Longitude},
		})
	}
	return out
}

func parseRadius(s string) (int, error) {
	r, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	if r <= 0 {
		return 0, fmt.Errorf("radius must be positive, got %d", r)
	}
	return r, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
