package shutdown

import (
	"context"
	"os"
	"os/signal"
	"time"

	"github.com/honeycarbs/job-aggregator/pkg/logging"
)

type Stoppable interface {
	Shutdown(ctx context.Context) error
}

// Closer releases a resource once the server has stopped
type Closer func(ctx context.Context) error

// Graceful blocks until one of signals arrives, stops s and then runs the
// closers in order, all within timeout.
func Graceful(signals []os.Signal, s Stoppable, timeout time.Duration, log *logging.Logger, closers ...Closer) {
	sigCtx, stop := signal.NotifyContext(context.Background(), signals...)
	defer stop()

	<-sigCtx.Done()
	log.Info("shutdown signal received")

	Now(s, timeout, log, closers...)
}

// Now stops s and runs closers without waiting for a signal
func Now(s Stoppable, timeout time.Duration, log *logging.Logger, closers ...Closer) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		log.Warn("graceful shutdown completed with error", "err", err)
	} else {
		log.Info("graceful shutdown completed successfully")
	}

	for _, c := range closers {
		if err := c(ctx); err != nil {
			log.Warn("failed to release resource", "err", err)
		}
	}
}
