package service

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/go-list-keeper/internal/adapter"
	"github.com/MKhiriev/go-list-keeper/internal/config"
	"github.com/MKhiriev/go-list-keeper/internal/logger"
)

type clientProbeJob struct {
	adapter  adapter.ServerAdapter
	observer *ConnectivityObserver
	interval time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup

	logger *logger.Logger
}

// NewClientProbeJob creates a job that pings the server every
// cfg.ProbeInterval and feeds the outcome to observer. The job is idle until
// Start is called.
func NewClientProbeJob(serverAdapter adapter.ServerAdapter, observer *ConnectivityObserver, cfg config.ClientWorkers, logger *logger.Logger) ClientProbeJob {
	return &clientProbeJob{
		adapter:  serverAdapter,
		observer: observer,
		interval: cfg.ProbeInterval,
		logger:   logger,
	}
}

// Probe implements ClientProbeJob. Any answer from the server, even a
// rejection, counts as reachable.
func (j *clientProbeJob) Probe(ctx context.Context) bool {
	err := j.adapter.Ping(ctx)
	reachable := err == nil || !adapter.IsUnavailable(err)

	j.logger.Debug().Err(err).Str("func", "clientProbeJob.Probe").Bool("reachable", reachable).Msg("probed server")
	j.observer.SetOnline(ctx, reachable)
	return reachable
}

// Start implements ClientProbeJob. It stops any previously running job, then
// probes once and launches a background goroutine that probes every
// interval. A zero or negative interval disables the job. The goroutine
// exits when ctx is cancelled or Stop is called.
func (j *clientProbeJob) Start(ctx context.Context) {
	if j.interval <= 0 {
		j.logger.Info().Str("func", "clientProbeJob.Start").Msg("reachability probe disabled")
		return
	}

	j.Stop()

	j.mu.Lock()
	jobCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.wg.Add(1)
	j.mu.Unlock()

	go func() {
		defer j.wg.Done()
		t := time.NewTicker(j.interval)
		defer t.Stop()

		j.Probe(jobCtx)
		for {
			select {
			case <-jobCtx.Done():
				return
			case <-t.C:
				j.Probe(jobCtx)
			}
		}
	}()
}

// Stop implements ClientProbeJob. It cancels the background goroutine's
// context and blocks until the goroutine has fully exited. Safe to call when
// the job is not running.
func (j *clientProbeJob) Stop() {
	j.mu.Lock()
	cancel := j.cancel
	j.cancel = nil
	j.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	j.wg.Wait()
}
