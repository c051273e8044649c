package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/energy-index/internal/core/domain"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir()) // no .env
	for _, key := range []string{"RUN_MODE", "CORPORA", "CORPUS_SOURCE", "PORT", "LOG_LEVEL", "DATABASE_URL", "CACHE_TTL"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ModeIndex, cfg.App.Mode)
	assert.Equal(t, slog.LevelInfo, cfg.App.LogLevel)
	assert.Equal(t, "out", cfg.Data.OutputDir)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 7*24*time.Hour, cfg.Storage.CacheTTL)
	assert.Zero(t, cfg.Worker.ReindexInterval)
	assert.True(t, cfg.Storage.InitSchema)
	assert.Equal(t, []domain.Job{
		{Corpus: "texas", Source: domain.CorpusSourceFile, Path: "pdf_links_texas.json"},
		{Corpus: "pennsylvania", Source: domain.CorpusSourceFile, Path: "pdf_links_pennsylvania.json"},
	}, cfg.Data.Corpora)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("RUN_MODE", "serve")
	t.Setenv("CORPORA", "ohio=bills/ohio.json")
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("REINDEX_INTERVAL", "6h")
	t.Setenv("CACHE_TTL", "1h")
	t.Setenv("DB_INIT_SCHEMA", "false")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("WORKER_CONCURRENCY", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ModeServe, cfg.App.Mode)
	assert.Equal(t, slog.LevelDebug, cfg.App.LogLevel)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, time.Hour, cfg.Storage.CacheTTL)
	assert.Equal(t, 6*time.Hour, cfg.Worker.ReindexInterval)
	assert.False(t, cfg.Storage.InitSchema)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 2, cfg.Worker.Concurrency, "invalid ints fall back to the default")
	require.Len(t, cfg.Data.Corpora, 1)
	assert.Equal(t, "bills/ohio.json", cfg.Data.Corpora[0].Path)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("OUTPUT_DIR=results\n"), 0o644))
	t.Chdir(dir)
	t.Setenv("OUTPUT_DIR", "")
	os.Unsetenv("OUTPUT_DIR")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "results", cfg.Data.OutputDir)
}

func TestLoad_InvalidCorpora(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("CORPORA", "texas")
	t.Setenv("CORPUS_SOURCE", "")

	_, err := Load()
	assert.ErrorContains(t, err, "needs a file path")
}

func TestParseCorpora(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		source  domain.CorpusSource
		want    []domain.Job
		wantErr string
	}{
		{name: "empty", value: "", source: domain.CorpusSourceFile},
		{
			name:   "files with spaces",
			value:  " texas = tx.json , pa=pa.json ,",
			source: domain.CorpusSourceFile,
			want: []domain.Job{
				{Corpus: "texas", Source: domain.CorpusSourceFile, Path: "tx.json"},
				{Corpus: "pa", Source: domain.CorpusSourceFile, Path: "pa.json"},
			},
		},
		{
			name:   "postgres names only",
			value:  "texas,pennsylvania",
			source: domain.CorpusSourcePostgres,
			want: []domain.Job{
				{Corpus: "texas", Source: domain.CorpusSourcePostgres},
				{Corpus: "pennsylvania", Source: domain.CorpusSourcePostgres},
			},
		},
		{name: "missing name", value: "=tx.json", source: domain.CorpusSourceFile, wantErr: "has no name"},
		{name: "duplicate", value: "tx=a.json,tx=b.json", source: domain.CorpusSourceFile, wantErr: "twice"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jobs, err := ParseCorpora(tt.value, tt.source)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, jobs)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			App:    AppConfig{Mode: ModeAll},
			Data:   DataConfig{CorpusSource: domain.CorpusSourceFile},
			Worker: WorkerConfig{Concurrency: 1},
			Server: ServerConfig{Port: 8080},
		}
	}

	assert.NoError(t, valid().Validate())

	cfg := valid()
	cfg.App.Mode = "worker"
	assert.ErrorContains(t, cfg.Validate(), "unknown RUN_MODE")

	cfg = valid()
	cfg.Data.CorpusSource = domain.CorpusSourcePostgres
	assert.ErrorContains(t, cfg.Validate(), "DATABASE_URL")

	cfg = valid()
	cfg.Data.CorpusSource = "s3"
	assert.ErrorContains(t, cfg.Validate(), "unknown CORPUS_SOURCE")

	cfg = valid()
	cfg.Worker.Concurrency = 0
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.Server.Port = 70000
	assert.ErrorContains(t, cfg.Validate(), "PORT")

	cfg.App.Mode = ModeIndex
	assert.NoError(t, cfg.Validate(), "port is ignored outside serve modes")

	cfg = valid()
	cfg.App.Mode = ModeImport
	cfg.Data.Corpora = []domain.Job{{Corpus: "texas", Source: domain.CorpusSourceFile, Path: "tx.json"}}
	assert.ErrorContains(t, cfg.Validate(), "requires DATABASE_URL")

	cfg.Storage.DatabaseURL = "postgres://localhost/energy"
	assert.NoError(t, cfg.Validate())

	cfg.Data.Corpora = append(cfg.Data.Corpora, domain.Job{Corpus: "ohio", Source: domain.CorpusSourcePostgres})
	assert.ErrorContains(t, cfg.Validate(), `corpus "ohio"`)
}

func TestAuthConfig_Accounts(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ADMIN_USERNAME", "")
	t.Setenv("ADMIN_PASSWORD_HASH", "$2a$10$admin")
	t.Setenv("VIEWER_USERNAME", "analyst")
	t.Setenv("VIEWER_PASSWORD_HASH", "$2a$10$viewer")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, []domain.Account{
		{Username: "admin", PasswordHash: "$2a$10$admin", Role: domain.RoleAdmin},
		{Username: "analyst", PasswordHash: "$2a$10$viewer", Role: domain.RoleViewer},
	}, cfg.Auth.Accounts())
}

func TestLoadAnalysis_Defaults(t *testing.T) {
	cfg, err := LoadAnalysis("")
	require.NoError(t, err)

	assert.Equal(t, 20, cfg.WindowSize)
	assert.Equal(t, 60, cfg.TopK)
	assert.Equal(t, []int{1, 2}, cfg.NGramSizes)
	assert.True(t, cfg.Lemmatize)
	assert.Len(t, cfg.Keywords, 43)
	assert.Contains(t, cfg.Keywords.Strings(), "climate change")
	assert.Contains(t, cfg.Keywords.Strings(), "drill")
	assert.True(t, cfg.Stopwords.Contains("the"), "english stopwords included")
	assert.True(t, cfg.Stopwords.Contains("commonwealth"), "extra stopwords included")
}

func TestLoadAnalysis_OverridesKeepDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analysis.yaml")
	require.NoError(t, os.WriteFile(path, []byte("window_size: 10\nkeywords: [solar, wind power]\nlemmatize: false\n"), 0o644))

	cfg, err := LoadAnalysis(path)
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.WindowSize)
	assert.Equal(t, []string{"solar", "wind power"}, cfg.Keywords.Strings())
	assert.False(t, cfg.Lemmatize)
	assert.Equal(t, 60, cfg.TopK, "unset fields keep defaults")
	assert.True(t, cfg.Stopwords.Contains("hereby"))
}

func TestLoadAnalysis_Invalid(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
	}{
		{name: "zero window", content: "window_size: 0\n"},
		{name: "negative top", content: "top_k: -1\n"},
		{name: "bad ngram size", content: "ngram_sizes: [0]\n"},
		{name: "no keywords", content: "keywords: []\n"},
		{name: "unknown field", content: "windowsize: 5\n"},
		{name: "not yaml", content: "window_size: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))

			_, err := LoadAnalysis(path)
			assert.ErrorIs(t, err, domain.ErrInvalidConfig)
		})
	}

	_, err := LoadAnalysis(filepath.Join(dir, "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
