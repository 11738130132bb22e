package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application's configuration.
type Config struct {
	Host            string
	Port            string
	LedgerFile      string
	AllowedOrigins  []string
	ShutdownTimeout time.Duration
	MirrorTimeout   time.Duration

	InfluxDBURL    string
	InfluxDBToken  string
	InfluxDBOrg    string
	InfluxDBBucket string

	KafkaBrokers []string
	KafkaTopic   string
}

const (
	DefaultHost           = "0.0.0.0"
	DefaultPort           = "5000"
	DefaultLedgerFile     = "ledger.json"
	DefaultInfluxDBBucket = "sensor_ledger"
	DefaultKafkaTopic     = "sensor.readings"

	// ServerWriteTimeout caps a whole /addData exchange.
	ServerWriteTimeout   = 10 * time.Second
	DefaultMirrorTimeout = 2 * time.Second
)

// mirrorSlots is how many mirrors may run one after another per request.
const mirrorSlots = 2

// LoadConfig loads the configuration from environment variables.
func LoadConfig() (Config, error) {
	//load env variables
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, relying on system environment variables")
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from the given lookup, applying defaults.
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Config{
		Host:            valueOr(getenv("HOST"), DefaultHost),
		Port:            valueOr(getenv("PORT"), DefaultPort),
		LedgerFile:      valueOr(getenv("LEDGER_FILE"), DefaultLedgerFile),
		AllowedOrigins:  splitList(valueOr(getenv("CORS_ALLOWED_ORIGINS"), "*")),
		ShutdownTimeout: 5 * time.Second,
		MirrorTimeout:   DefaultMirrorTimeout,
		InfluxDBURL:     getenv("INFLUXDB_URL"),
		InfluxDBToken:   getenv("INFLUXDB_TOKEN"),
		InfluxDBOrg:     getenv("INFLUXDB_ORG"),
		InfluxDBBucket:  valueOr(getenv("INFLUXDB_BUCKET"), DefaultInfluxDBBucket),
		KafkaBrokers:    splitList(getenv("KAFKA_BROKERS")),
		KafkaTopic:      valueOr(getenv("KAFKA_TOPIC"), DefaultKafkaTopic),
	}

	port, err := strconv.Atoi(cfg.Port)
	if err != nil || port <= 0 || port > 65535 {
		return Config{}, fmt.Errorf("invalid PORT %q", cfg.Port)
	}
	if raw := getenv("SHUTDOWN_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("invalid SHUTDOWN_TIMEOUT %q: %w", raw, err)
		}
		cfg.ShutdownTimeout = d
	}
	if raw := getenv("MIRROR_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("invalid MIRROR_TIMEOUT %q: %w", raw, err)
		}
		if d <= 0 || mirrorSlots*d >= ServerWriteTimeout {
			return Config{}, fmt.Errorf("MIRROR_TIMEOUT %s must be positive and below %s", d, ServerWriteTimeout/mirrorSlots)
		}
		cfg.MirrorTimeout = d
	}
	return cfg, nil
}

// Addr is the host:port the server binds to.
func (c Config) Addr() string {
	return c.Host + ":" + c.Port
}

// InfluxDBEnabled reports whether enough settings are present to mirror
// readings into InfluxDB.
func (c Config) InfluxDBEnabled() bool {
	return c.InfluxDBURL != "" && c.InfluxDBToken != "" && c.InfluxDBOrg != ""
}

func (c Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

func valueOr(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return strings.TrimSpace(v)
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
