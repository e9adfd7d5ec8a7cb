package shutdown

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/honeycarbs/job-aggregator/pkg/logging"
)

type stopper struct {
	stopped bool
	err     error
}

func (s *stopper) Shutdown(ctx context.Context) error {
	s.stopped = true
	return s.err
}

func TestNow_StopsThenClosesInOrder(t *testing.T) {
	s := &stopper{err: errors.New("listener already closed")}
	var order []string

	Now(s, time.Second, logging.NewNop(),
		func(context.Context) error { order = append(order, "redis"); return nil },
		func(context.Context) error { order = append(order, "neo4j"); return errors.New("boom") },
		func(context.Context) error { order = append(order, "last"); return nil },
	)

	assert.True(t, s.stopped)
	assert.Equal(t, []string{"redis", "neo4j", "last"}, order)
}
