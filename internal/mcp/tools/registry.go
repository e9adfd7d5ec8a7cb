package tools

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/job-aggregator/internal/domain/job"
	"github.com/honeycarbs/job-aggregator/pkg/logging"
)

// Option configures which tools are registered
type Option func(*registry)

type registry struct {
	server  *sdkmcp.Server
	service job.Service
	logger  *logging.Logger
	names   []string
}

// Register applies the provided tool options
func Register(server *sdkmcp.Server, service job.Service, logger *logging.Logger, opts ...Option) []string {
	if logger == nil {
		logger = logging.NewNop()
	}
	reg := &registry{server: server, service: service, logger: logger}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(reg)
	}
	return reg.names
}

func (r *registry) add(name string) {
	r.names = append(r.names, name)
}

// RegisterJobTools installs every job tool on server
func RegisterJobTools(server *sdkmcp.Server, service job.Service, logger *logging.Logger) []string {
	names := Register(server, service, logger,
		WithJobSearch(),
		WithPageView(),
		WithPageGoto(),
		WithPageSize(),
		WithJobSources(),
		WithSelectSources(),
		WithExportCSV(),
		WithSheetsExport(),
		WithQueryHistory(),
	)
	if logger != nil {
		logger.Info("job tools registered", "tools", names, "mode", service.Mode())
	}
	return names
}
