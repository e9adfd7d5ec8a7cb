//go:build wireinject
// +build wireinject

package mcp

import (
	"context"

	"github.com/google/wire"

	"github.com/honeycarbs/job-aggregator/internal/config"
	"github.com/honeycarbs/job-aggregator/internal/domain/job"
	"github.com/honeycarbs/job-aggregator/pkg/backend"
	"github.com/honeycarbs/job-aggregator/pkg/logging"
)

// InitializeResources creates Resources with all resources wired up
func InitializeResources(ctx context.Context, cfg config.Config, log *logging.Logger) (*Resources, func(), error) {
	wire.Build(
		// Infrastructure - job backend
		provideBackendConfig,
		backend.NewClient,
		provideJobBackend,

		// Infrastructure - sessions and archive
		provideSessionStore,
		provideArchive,

		// Exporters
		provideCSVExporter,
		provideSheetsExporter,

		// Services
		provideSourceMode,
		job.NewServiceWithDeps,

		newResources,
	)

	return nil, nil, nil
}
