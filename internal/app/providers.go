// Package app assembles the service from configuration.
package app

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"voicescribe/internal/api/server"
	v1routes "voicescribe/internal/api/v1/routes"
	"voicescribe/internal/api/v1/services"
	"voicescribe/internal/app/api"
	"voicescribe/internal/app/api/provider"
	"voicescribe/internal/app/blob"
	"voicescribe/internal/app/converter"
	apperrors "voicescribe/internal/app/errors"
	"voicescribe/internal/app/metrics"
	"voicescribe/internal/app/pipeline"
	"voicescribe/internal/app/repository"
	"voicescribe/internal/app/repository/memory"
	"voicescribe/internal/app/repository/pg"
	"voicescribe/internal/app/repository/redis"
	"voicescribe/internal/app/repository/sqlite"
	"voicescribe/internal/config"
)

// OpenHistoryStore opens the store named by a DATABASE_URL. A bare path or
// sqlite:// selects SQLite; postgres://, redis:// and memory:// select the
// other backends.
func OpenHistoryStore(ctx context.Context, databaseURL string) (repository.HistoryStore, error) {
	scheme, rest := splitScheme(databaseURL)
	switch scheme {
	case "", "sqlite", "sqlite3", "file":
		return sqlite.Open(ctx, rest)
	case "postgres", "postgresql":
		return pg.Open(ctx, databaseURL)
	case "redis", "rediss":
		return redis.Open(ctx, databaseURL)
	case "memory":
		return memory.New(), nil
	default:
		return nil, apperrors.Wrapf(apperrors.ErrUnknownScheme, "%q in DATABASE_URL", scheme)
	}
}

func splitScheme(databaseURL string) (string, string) {
	i := strings.Index(databaseURL, "://")
	if i < 0 {
		return "", databaseURL
	}
	return strings.ToLower(databaseURL[:i]), databaseURL[i+3:]
}

// ProvideHistoryStore opens the configured store; the cleanup closes it.
func ProvideHistoryStore(ctx context.Context, cfg config.Config, logger *zap.Logger) (repository.HistoryStore, func(), error) {
	store, err := OpenHistoryStore(ctx, cfg.Storage.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := store.Close(); err != nil {
			logger.Warn("failed to close history store", zap.Error(err))
		}
	}
	return store, cleanup, nil
}

// ProvideBlobStore selects the transient upload storage.
func ProvideBlobStore(ctx context.Context, cfg config.Config) (blob.Store, error) {
	if strings.EqualFold(cfg.Storage.BlobBackend, "minio") {
		return blob.NewMinioStore(ctx, cfg.Storage.Minio)
	}
	return blob.NewLocalStore(cfg.Storage.UploadDir), nil
}

// ProvideTranscriber builds the configured speech-to-text client.
func ProvideTranscriber(ctx context.Context, cfg config.Config, logger *zap.Logger) (api.Transcriber, error) {
	if err := cfg.RequireAPIKey(); err != nil {
		return nil, err
	}
	if err := cfg.CheckAPIKeyFormat(); err != nil {
		logger.Warn("API key format looks unusual", zap.String("provider", cfg.Transcribe.Provider), zap.Error(err))
	}
	return provider.New(ctx, cfg.Transcribe.ProviderConfig())
}

func ProvidePipelineConfig(cfg config.Config) pipeline.Config {
	pc := cfg.Transcribe.ProviderConfig()
	return pipeline.Config{
		Provider: pc.Provider,
		Model:    provider.DefaultModel(pc),
		Timeout:  cfg.Transcribe.Timeout,
	}
}

func ProvideServiceContainer(p *pipeline.Pipeline, history repository.HistoryStore, cfg config.Config, m *metrics.Metrics) *v1routes.ServiceContainer {
	return &v1routes.ServiceContainer{
		TranscriptionService: services.NewTranscriptionService(p),
		HistoryService:       services.NewHistoryService(history, cfg.Storage.HistoryLimit, m),
		ExportService:        services.NewExportService(history),
	}
}

func ProvideServerConfig(cfg config.Config) server.Config {
	return server.Config{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout(cfg.Transcribe.Timeout),
		IdleTimeout:    cfg.Server.IdleTimeout,
		Environment:    cfg.Server.Environment,
		MaxUploadBytes: cfg.Storage.MaxUploadBytes,
	}
}

// ProvideConverter runs local files through the same pipeline as the API.
func ProvideConverter(p *pipeline.Pipeline, logger *zap.Logger, progress converter.ProgressConfig) *converter.Converter {
	return converter.NewConverter(p, logger).WithProgress(progress)
}
