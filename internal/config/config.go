package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress    string
	DatabaseURI   string
	RedisAddress  string
	SeenCacheTTL  time.Duration
	OracleAddress string
	OracleTimeout time.Duration

	EventPollInterval time.Duration
	WorkerPoolSize    int
	EventBatchSize    int
	EventMaxAttempts  int
	ShutdownTimeout   time.Duration

	DefaultCurrency         string
	DefaultUnit             string
	RenewalConfidenceFloor  int
	IncompleteConfidenceCap int
	RenewalCues             []string
	PhoneRegion             string

	IngestRPS   float64
	IngestBurst int
	LogLevel    string
}

const (
	defaultRunAddress              = ":8080"
	defaultSeenCacheTTL            = 72 * time.Hour
	defaultOracleTimeout           = 30 * time.Second
	defaultEventPollInterval       = 2 * time.Second
	defaultWorkerPoolSize          = 4
	defaultEventBatchSize          = 32
	defaultEventMaxAttempts        = 5
	defaultShutdownTimeout         = 10 * time.Second
	defaultCurrency                = "MAD"
	defaultUnit                    = "pièces"
	defaultRenewalConfidenceFloor  = 85
	defaultIncompleteConfidenceCap = 60
	defaultPhoneRegion             = "MA"
	defaultIngestRPS               = 5
	defaultIngestBurst             = 10
	defaultLogLevel                = "info"
)

// Load reads an optional .env file, then parses environment variables and flags.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:              getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:             getString(lookup, "DATABASE_URI", ""),
		RedisAddress:            getString(lookup, "REDIS_ADDRESS", ""),
		SeenCacheTTL:            getDuration(lookup, "SEEN_CACHE_TTL", defaultSeenCacheTTL),
		OracleAddress:           getString(lookup, "ORACLE_ADDRESS", ""),
		OracleTimeout:           getDuration(lookup, "ORACLE_TIMEOUT", defaultOracleTimeout),
		EventPollInterval:       getDuration(lookup, "EVENT_POLL_INTERVAL", defaultEventPollInterval),
		WorkerPoolSize:          getInt(lookup, "WORKER_POOL_SIZE", defaultWorkerPoolSize),
		EventBatchSize:          getInt(lookup, "EVENT_BATCH_SIZE", defaultEventBatchSize),
		EventMaxAttempts:        getInt(lookup, "EVENT_MAX_ATTEMPTS", defaultEventMaxAttempts),
		ShutdownTimeout:         getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		DefaultCurrency:         getString(lookup, "DEFAULT_CURRENCY", defaultCurrency),
		DefaultUnit:             getString(lookup, "DEFAULT_UNIT", defaultUnit),
		RenewalConfidenceFloor:  getInt(lookup, "RENEWAL_CONFIDENCE_FLOOR", defaultRenewalConfidenceFloor),
		IncompleteConfidenceCap: getInt(lookup, "INCOMPLETE_CONFIDENCE_CAP", defaultIncompleteConfidenceCap),
		PhoneRegion:             getString(lookup, "PHONE_REGION", defaultPhoneRegion),
		IngestRPS:               getFloat(lookup, "INGEST_RPS", defaultIngestRPS),
		IngestBurst:             getInt(lookup, "INGEST_BURST", defaultIngestBurst),
		LogLevel:                getString(lookup, "LOG_LEVEL", defaultLogLevel),
	}

	fs := flag.NewFlagSet("orderdesk", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		seenTTLStr         = cfg.SeenCacheTTL.String()
		oracleTimeoutStr   = cfg.OracleTimeout.String()
		pollIntervalStr    = cfg.EventPollInterval.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
		cuesStr            = getString(lookup, "RENEWAL_CUES", "")
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.RedisAddress, "redis", cfg.RedisAddress, "Redis address for the seen-message cache")
	fs.StringVar(&seenTTLStr, "seen-ttl", seenTTLStr, "Seen-message cache TTL")
	fs.StringVar(&cfg.OracleAddress, "o", cfg.OracleAddress, "Extraction oracle base URL")
	fs.StringVar(&oracleTimeoutStr, "oracle-timeout", oracleTimeoutStr, "Extraction oracle request timeout")
	fs.StringVar(&pollIntervalStr, "poll-interval", pollIntervalStr, "Interval between outbox polls")
	fs.IntVar(&cfg.WorkerPoolSize, "worker-pool", cfg.WorkerPoolSize, "Number of concurrent event workers")
	fs.IntVar(&cfg.EventBatchSize, "event-batch", cfg.EventBatchSize, "Maximum events per polling batch")
	fs.IntVar(&cfg.EventMaxAttempts, "event-attempts", cfg.EventMaxAttempts, "Delivery attempts per event")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	fs.StringVar(&cfg.DefaultCurrency, "currency", cfg.DefaultCurrency, "Currency applied when none is extracted")
	fs.StringVar(&cfg.DefaultUnit, "unit", cfg.DefaultUnit, "Unit applied when none is extracted")
	fs.IntVar(&cfg.RenewalConfidenceFloor, "renewal-floor", cfg.RenewalConfidenceFloor, "Minimum confidence of history-completed orders")
	fs.IntVar(&cfg.IncompleteConfidenceCap, "incomplete-cap", cfg.IncompleteConfidenceCap, "Maximum confidence of incomplete orders")
	fs.StringVar(&cuesStr, "renewal-cues", cuesStr, "Comma separated extra renewal cues")
	fs.StringVar(&cfg.PhoneRegion, "phone-region", cfg.PhoneRegion, "Default region for phone numbers")
	fs.Float64Var(&cfg.IngestRPS, "ingest-rps", cfg.IngestRPS, "Ingest requests per second per caller")
	fs.IntVar(&cfg.IngestBurst, "ingest-burst", cfg.IngestBurst, "Ingest burst per caller")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.SeenCacheTTL, err = time.ParseDuration(seenTTLStr); err != nil {
		return nil, fmt.Errorf("invalid seen cache ttl: %w", err)
	}

	if cfg.OracleTimeout, err = time.ParseDuration(oracleTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid oracle timeout: %w", err)
	}

	if cfg.EventPollInterval, err = time.ParseDuration(pollIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid poll interval: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	cfg.RenewalCues = splitList(cuesStr)

	if cfg.SeenCacheTTL <= 0 {
		cfg.SeenCacheTTL = defaultSeenCacheTTL
	}

	if cfg.OracleTimeout <= 0 {
		cfg.OracleTimeout = defaultOracleTimeout
	}

	if cfg.EventPollInterval <= 0 {
		cfg.EventPollInterval = defaultEventPollInterval
	}

	if cfg.WorkerPoolSize <= 0 {
		cfg.WorkerPoolSize = defaultWorkerPoolSize
	}

	if cfg.EventBatchSize <= 0 {
		cfg.EventBatchSize = defaultEventBatchSize
	}

	if cfg.EventMaxAttempts <= 0 {
		cfg.EventMaxAttempts = defaultEventMaxAttempts
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.IngestRPS <= 0 {
		cfg.IngestRPS = defaultIngestRPS
	}

	if cfg.IngestBurst <= 0 {
		cfg.IngestBurst = defaultIngestBurst
	}

	cfg.RenewalConfidenceFloor = clampPercent(cfg.RenewalConfidenceFloor)
	cfg.IncompleteConfidenceCap = clampPercent(cfg.IncompleteConfidenceCap)

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getFloat(lookup envLookup, key string, def float64) float64 {
	if v, ok := lookup(key); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func clampPercent(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
