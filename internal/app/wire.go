//go:build wireinject
// +build wireinject

package app

import (
	"context"

	"github.com/google/wire"
	"go.uber.org/zap"

	"voicescribe/internal/api/server"
	"voicescribe/internal/app/converter"
	"voicescribe/internal/app/metrics"
	"voicescribe/internal/app/pipeline"
	"voicescribe/internal/config"
)

var pipelineSet = wire.NewSet(
	ProvideHistoryStore,
	ProvideBlobStore,
	ProvideTranscriber,
	ProvidePipelineConfig,
	metrics.New,
	pipeline.New,
)

func InitializeServer(ctx context.Context, cfg config.Config, logger *zap.Logger) (*server.Server, func(), error) {
	wire.Build(pipelineSet, ProvideServiceContainer, ProvideServerConfig, server.NewServer)
	return nil, nil, nil
}

func InitializeConverter(ctx context.Context, cfg config.Config, logger *zap.Logger, progress converter.ProgressConfig) (*converter.Converter, func(), error) {
	wire.Build(pipelineSet, ProvideConverter)
	return nil, nil, nil
}
