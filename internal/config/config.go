// Package config loads SolFlow's environment-driven configuration (§6),
// following the teacher's pattern of preferring an environment variable
// and falling back to a documented default (see
// spltoken/price/config.go's mustStableMintsFromEnv in the reference
// pack) rather than requiring every value to be set.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config centralizes every knob named in §6.
type Config struct {
	GRPCEndpoint string
	GRPCToken    string
	Commitment   string

	DatabasePath          string
	EnableBackupFileWrite bool

	IngestionChannelCapacity int
	FlushInterval            time.Duration
	BucketGCInterval         time.Duration
	CorrelationWindow        time.Duration
	DCAOverlapThreshold     float64
	HistoryBucketRetention   time.Duration

	BreakoutNetFlowSOL   float64
	BreakoutBuyCount     int
	SurgeBuyCount        int
	SurgeNetFlowSOL      float64
	FocusedUniqueWallets int
	FocusedVolumeSOL     float64
}

// Load reads configuration from the environment, first loading a local
// .env file if present (a missing .env is not an error). Fatal
// configuration errors (missing gRPC endpoint) are returned, not
// panicked — callers at the edge (cmd/solflow) print a single-line
// diagnostic and exit non-zero per §7.
func Load() (Config, error) {
	_ = godotenv.Load() // optional; absence is not an error

	cfg := Config{
		GRPCEndpoint:             os.Getenv("SOLFLOW_GRPC_ENDPOINT"),
		GRPCToken:                os.Getenv("SOLFLOW_GRPC_TOKEN"),
		Commitment:               getEnvString("SOLFLOW_COMMITMENT", "Confirmed"),
		DatabasePath:             getEnvString("SOLFLOW_DATABASE_PATH", "data/solflow.db"),
		EnableBackupFileWrite:    getEnvBool("SOLFLOW_ENABLE_BACKUP_FILE_WRITES", false),
		IngestionChannelCapacity: getEnvInt("SOLFLOW_INGESTION_CHANNEL_CAPACITY", 10000),
		FlushInterval:            getEnvSeconds("SOLFLOW_FLUSH_INTERVAL_SECONDS", 5),
		BucketGCInterval:         getEnvSeconds("SOLFLOW_BUCKET_GC_INTERVAL_SECONDS", 300),
		CorrelationWindow:        getEnvSeconds("SOLFLOW_CORRELATION_WINDOW_SECONDS", 60),
		DCAOverlapThreshold:      getEnvFloat("SOLFLOW_DCA_OVERLAP_THRESHOLD", 0.25),
		HistoryBucketRetention:   getEnvSeconds("SOLFLOW_HISTORY_BUCKET_RETENTION_SECONDS", 7200),
		BreakoutNetFlowSOL:       getEnvFloat("SOLFLOW_BREAKOUT_NET_FLOW_SOL", 50),
		BreakoutBuyCount:         getEnvInt("SOLFLOW_BREAKOUT_BUY_COUNT", 10),
		SurgeBuyCount:            getEnvInt("SOLFLOW_SURGE_BUY_COUNT", 5),
		SurgeNetFlowSOL:          getEnvFloat("SOLFLOW_SURGE_NET_FLOW_SOL", 10),
		FocusedUniqueWallets:     getEnvInt("SOLFLOW_FOCUSED_UNIQUE_WALLETS", 5),
		FocusedVolumeSOL:         getEnvFloat("SOLFLOW_FOCUSED_VOLUME_SOL", 100),
	}

	if cfg.GRPCEndpoint == "" {
		return cfg, fmt.Errorf("config: SOLFLOW_GRPC_ENDPOINT is required")
	}
	if cfg.DatabasePath == "" {
		return cfg, fmt.Errorf("config: SOLFLOW_DATABASE_PATH must not be empty")
	}

	return cfg, nil
}

func getEnvString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getEnvFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

func getEnvSeconds(key string, defSeconds int) time.Duration {
	return time.Duration(getEnvInt(key, defSeconds)) * time.Second
}
