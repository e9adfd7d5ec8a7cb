package mcp

import (
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/honeycarbs/job-aggregator/internal/domain/job"
	"github.com/honeycarbs/job-aggregator/internal/mcp/tools"
	"github.com/honeycarbs/job-aggregator/pkg/logging"
)

type ToolRegistry struct {
	logger *logging.Logger
}

// Resources holds everything the tools need at runtime
type Resources struct {
	JobService job.Service
}

func NewToolRegistry(logger *logging.Logger) *ToolRegistry {
	return &ToolRegistry{logger: logger}
}

func (r *ToolRegistry) RegisterAll(server *sdkmcp.Server, res *Resources) error {
	if res == nil || res.JobService == nil {
		return fmt.Errorf("mcp: job service is required")
	}

	tools.RegisterJobTools(server, res.JobService, r.logger)
	return nil
}

func newResources(jobService job.Service) *Resources {
	return &Resources{
		JobService: jobService,
	}
}
