// Package config loads runtime configuration from the environment and an
// optional .env file.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/energy-index/internal/core/domain"
)

// Run modes
const (
	ModeIndex  = "index"
	ModeCharts = "charts"
	ModeServe  = "serve"
	ModeAll    = "all"
	ModeImport = "import"
)

type AppConfig struct {
	Mode     string
	LogLevel slog.Level
}

type DataConfig struct {
	Corpora      []domain.Job
	CorpusSource domain.CorpusSource
	OutputDir    string
	EIADataDir   string
	AnalysisFile string // empty means embedded defaults
}

type WorkerConfig struct {
	Concurrency      int           // corpora processed at once
	IndexConcurrency int           // bills scored at once per corpus
	ReindexInterval  time.Duration // serve mode re-runs corpora this often; 0 disables
}

type StorageConfig struct {
	DatabaseURL     string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	InitSchema      bool
	RedisURL        string
	CacheTTL        time.Duration
}

type ServerConfig struct {
	Host        string
	Port        int
	CORSOrigins []string
}

type AuthConfig struct {
	JWTSecret          string
	AdminUsername      string
	AdminPasswordHash  string
	ViewerUsername     string // read-only account; disabled without a hash
	ViewerPasswordHash string
	TokenTTL           time.Duration
}

// Accounts returns the configured login accounts
func (a AuthConfig) Accounts() []domain.Account {
	return []domain.Account{
		{Username: a.AdminUsername, PasswordHash: a.AdminPasswordHash, Role: domain.RoleAdmin},
		{Username: a.ViewerUsername, PasswordHash: a.ViewerPasswordHash, Role: domain.RoleViewer},
	}
}

type Config struct {
	App     AppConfig
	Data    DataConfig
	Worker  WorkerConfig
	Storage StorageConfig
	Server  ServerConfig
	Auth    AuthConfig
}

// Load reads .env (if present) and the environment
func Load() (*Config, error) {
	_ = godotenv.Load()

	source := domain.CorpusSource(getEnv("CORPUS_SOURCE", string(domain.CorpusSourceFile)))
	corpora, err := ParseCorpora(getEnv("CORPORA", "texas=pdf_links_texas.json,pennsylvania=pdf_links_pennsylvania.json"), source)
	if err != nil {
		return nil, err
	}

	return &Config{
		App: AppConfig{
			Mode:     getEnv("RUN_MODE", ModeIndex),
			LogLevel: parseLogLevel(getEnv("LOG_LEVEL", "info")),
		},
		Data: DataConfig{
			Corpora:      corpora,
			CorpusSource: source,
			OutputDir:    getEnv("OUTPUT_DIR", "out"),
			EIADataDir:   getEnv("EIA_DATA_DIR", "energy_states"),
			AnalysisFile: getEnv("ANALYSIS_CONFIG", ""),
		},
		Worker: WorkerConfig{
			Concurrency:      getEnvInt("WORKER_CONCURRENCY", 2),
			IndexConcurrency: getEnvInt("INDEX_CONCURRENCY", runtime.GOMAXPROCS(0)),
			ReindexInterval:  getEnvDuration("REINDEX_INTERVAL", 0),
		},
		Storage: StorageConfig{
			DatabaseURL:     getEnv("DATABASE_URL", ""),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: time.Duration(getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300)) * time.Second,
			ConnMaxIdleTime: time.Duration(getEnvInt("DB_CONN_MAX_IDLE_SEC", 60)) * time.Second,
			InitSchema:      getEnvBool("DB_INIT_SCHEMA", true),
			RedisURL:        getEnv("REDIS_URL", ""),
			CacheTTL:        getEnvDuration("CACHE_TTL", 7*24*time.Hour),
		},
		Server: ServerConfig{
			Host:        getEnv("HOST", "0.0.0.0"),
			Port:        getEnvInt("PORT", 8080),
			CORSOrigins: splitList(getEnv("CORS_ORIGINS", "")),
		},
		Auth: AuthConfig{
			JWTSecret:          getEnv("JWT_SECRET", "development-secret-change-in-production"),
			AdminUsername:      getEnv("ADMIN_USERNAME", "admin"),
			AdminPasswordHash:  getEnv("ADMIN_PASSWORD_HASH", ""),
			ViewerUsername:     getEnv("VIEWER_USERNAME", "viewer"),
			ViewerPasswordHash: getEnv("VIEWER_PASSWORD_HASH", ""),
			TokenTTL:           getEnvDuration("TOKEN_TTL", 24*time.Hour),
		},
	}, nil
}

// Validate checks values that would make the selected mode fail later
func (c *Config) Validate() error {
	switch c.App.Mode {
	case ModeIndex, ModeCharts, ModeServe, ModeAll:
	case ModeImport:
		if c.Storage.DatabaseURL == "" {
			return fmt.Errorf("RUN_MODE=import requires DATABASE_URL")
		}
		for _, job := range c.Data.Corpora {
			if job.Path == "" {
				return fmt.Errorf("RUN_MODE=import needs a file path for corpus %q (name=path)", job.Corpus)
			}
		}
	default:
		return fmt.Errorf("unknown RUN_MODE %q (use: index, charts, serve, all, or import)", c.App.Mode)
	}

	switch c.Data.CorpusSource {
	case domain.CorpusSourceFile:
	case domain.CorpusSourcePostgres:
		if c.Storage.DatabaseURL == "" {
			return fmt.Errorf("CORPUS_SOURCE=postgres requires DATABASE_URL")
		}
	default:
		return fmt.Errorf("unknown CORPUS_SOURCE %q (use: file or postgres)", c.Data.CorpusSource)
	}

	if c.Worker.Concurrency < 1 {
		return fmt.Errorf("WORKER_CONCURRENCY must be at least 1")
	}
	if c.App.Mode == ModeServe || c.App.Mode == ModeAll {
		if c.Server.Port < 1 || c.Server.Port > 65535 {
			return fmt.Errorf("PORT out of range: %d", c.Server.Port)
		}
	}
	return nil
}

// ParseCorpora parses "name=path,name=path". For the postgres source the
// path may be omitted ("texas,pennsylvania").
func ParseCorpora(value string, source domain.CorpusSource) ([]domain.Job, error) {
	var jobs []domain.Job
	seen := make(map[string]bool)

	for _, item := range splitList(value) {
		name, path, _ := strings.Cut(item, "=")
		name, path = strings.TrimSpace(name), strings.TrimSpace(path)

		if name == "" {
			return nil, fmt.Errorf("CORPORA entry %q has no name", item)
		}
		if source == domain.CorpusSourceFile && path == "" {
			return nil, fmt.Errorf("CORPORA entry %q needs a file path (name=path)", item)
		}
		if seen[name] {
			return nil, fmt.Errorf("CORPORA lists %q twice", name)
		}
		seen[name] = true

		jobs = append(jobs, domain.Job{Corpus: name, Source: source, Path: path})
	}
	return jobs, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseLogLevel(value string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(value)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if result, err := strconv.Atoi(value); err == nil {
			return result
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
