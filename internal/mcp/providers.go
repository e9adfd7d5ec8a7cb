package mcp

import (
	"context"
	"time"

	"github.com/honeycarbs/job-aggregator/internal/config"
	"github.com/honeycarbs/job-aggregator/internal/domain"
	"github.com/honeycarbs/job-aggregator/internal/domain/job"
	backendprovider "github.com/honeycarbs/job-aggregator/internal/domain/job/providers/backend"
	"github.com/honeycarbs/job-aggregator/internal/domain/session"
	"github.com/honeycarbs/job-aggregator/internal/export/csvexport"
	"github.com/honeycarbs/job-aggregator/internal/export/sheets"
	"github.com/honeycarbs/job-aggregator/internal/storage/memory"
	neo4jstorage "github.com/honeycarbs/job-aggregator/internal/storage/neo4j"
	redisstorage "github.com/honeycarbs/job-aggregator/internal/storage/redis"
	"github.com/honeycarbs/job-aggregator/pkg/backend"
	"github.com/honeycarbs/job-aggregator/pkg/logging"
	n4j "github.com/honeycarbs/job-aggregator/pkg/neo4j"
	redisclient "github.com/honeycarbs/job-aggregator/pkg/redis"
	sheetsclient "github.com/honeycarbs/job-aggregator/pkg/sheets"
)

const closeTimeout = 5 * time.Second

// provideBackendConfig extracts the backend client config from main config
func provideBackendConfig(cfg config.Config) backend.Config {
	return backend.Config{
		BaseURL: cfg.Jobs.APIURL,
		Timeout: cfg.Jobs.Timeout,
	}
}

// provideJobBackend adapts the HTTP client to job.Backend
func provideJobBackend(client *backend.Client) (job.Backend, error) {
	return backendprovider.NewProvider(client)
}

func provideSourceMode(cfg config.Config) domain.SourceMode {
	return cfg.Jobs.Mode
}

// provideSessionStore uses Redis when REDIS_URL is set and reachable and
// falls back to process memory otherwise
func provideSessionStore(ctx context.Context, cfg config.Config, log *logging.Logger) (session.Store, func(), error) {
	if cfg.Redis.URL == "" {
		log.Warn("REDIS_URL not set, sessions are kept in memory")
		return memory.NewStore(), func() {}, nil
	}

	rdb, err := redisclient.NewClient(ctx, cfg.Redis.URL)
	if err != nil {
		log.Warn("redis unavailable, sessions are kept in memory", "err", err)
		return memory.NewStore(), func() {}, nil
	}

	store, err := redisstorage.NewStore(rdb, cfg.Redis.SessionTTL)
	if err != nil {
		_ = rdb.Close()
		return nil, nil, err
	}

	log.Info("redis session store initialized", "ttl", cfg.Redis.SessionTTL)
	cleanup := func() {
		if err := rdb.Close(); err != nil {
			log.Warn("failed to close redis client", "err", err)
		}
	}
	return store, cleanup, nil
}

// provideArchive uses Neo4j when configured and discards archives otherwise
func provideArchive(ctx context.Context, cfg config.Config, log *logging.Logger) (job.Archive, func(), error) {
	if !cfg.Neo4jEnabled() {
		log.Warn("NEO4J_URI not set, result sets are not archived")
		return job.NopArchive{}, func() {}, nil
	}

	client, err := n4j.NewClient(ctx, n4j.Config{
		URI:      cfg.Neo4j.URI,
		Username: cfg.Neo4j.Username,
		Password: cfg.Neo4j.Password,
		Database: cfg.Neo4j.Database,
	})
	if err != nil {
		log.Warn("neo4j unavailable, result sets are not archived", "err", err)
		return job.NopArchive{}, func() {}, nil
	}

	cleanup := func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), closeTimeout)
		defer cancel()
		if err := client.Close(closeCtx); err != nil {
			log.Warn("failed to close neo4j driver", "err", err)
		}
	}

	repo := neo4jstorage.NewArchiveRepository(client)
	if err := repo.EnsureSchema(ctx); err != nil {
		log.Warn("failed to ensure neo4j schema", "err", err)
	}

	log.Info("neo4j archive initialized", "uri", cfg.Neo4j.URI)
	return repo, cleanup, nil
}

func provideCSVExporter(cfg config.Config) (*csvexport.Exporter, error) {
	return csvexport.NewExporter(csvexport.DirSaver{Dir: cfg.ExportDir}, cfg.Jobs.Mode)
}

// provideSheetsExporter returns nil when Sheets export is not configured
func provideSheetsExporter(ctx context.Context, cfg config.Config, log *logging.Logger) *sheets.Exporter {
	if cfg.SheetsCredsPath == "" {
		log.Info("GOOGLE_SHEETS_CREDENTIALS_PATH not set, sheets export disabled")
		return nil
	}

	client, err := sheetsclient.NewClient(ctx, sheetsclient.Config{CredentialsPath: cfg.SheetsCredsPath})
	if err != nil {
		log.Warn("failed to initialize sheets client, sheets export disabled", "err", err)
		return nil
	}

	exp, err := sheets.NewExporter(client, cfg.Jobs.Mode)
	if err != nil {
		log.Warn("failed to initialize sheets exporter", "err", err)
		return nil
	}
	return exp
}
