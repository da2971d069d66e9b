package service

import (
	"context"
	"sync"

	"github.com/MKhiriev/go-list-keeper/internal/adapter"
	"github.com/MKhiriev/go-list-keeper/internal/logger"
)

type subscription struct {
	id       int
	observer PendingObserver
}

// ConnectivityObserver tracks whether the server is believed reachable and
// fans out pending-count changes.
//
// It starts Offline. Every transition from Offline to Online, whether
// signalled through SetOnline or observed through Report, starts exactly one
// drain in a background goroutine. Going Offline has no side effect and
// never interrupts a drain in flight.
//
// The state is only a hint. Callers decide on the error of the call at hand
// and consult IsOnline for nothing but log severity.
type ConnectivityObserver struct {
	mu      sync.Mutex
	online  bool
	drainer Drainer

	subsMu      sync.Mutex
	subscribers []subscription
	nextSubID   int

	wg     sync.WaitGroup
	logger *logger.Logger
}

// NewConnectivityObserver returns an observer in the Offline state. The
// drainer is bound when the sync engine is constructed.
func NewConnectivityObserver(logger *logger.Logger) *ConnectivityObserver {
	return &ConnectivityObserver{logger: logger}
}

func (o *ConnectivityObserver) setDrainer(d Drainer) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.drainer = d
}

// IsOnline reports the last known state.
func (o *ConnectivityObserver) IsOnline() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.online
}

// SetOnline feeds an external reachability signal. The drain started on a
// transition to online runs with ctx.
func (o *ConnectivityObserver) SetOnline(ctx context.Context, online bool) {
	o.transition(ctx, online)
}

// Report records the outcome of a remote call and returns the state that
// was known before it. A nil error or a rejection both prove the server
// answered. Only an unavailable outcome means Offline.
func (o *ConnectivityObserver) Report(ctx context.Context, err error) (wasOnline bool) {
	return o.transition(ctx, err == nil || !adapter.IsUnavailable(err))
}

func (o *ConnectivityObserver) transition(ctx context.Context, online bool) bool {
	o.mu.Lock()
	was := o.online
	o.online = online
	drainer := o.drainer
	o.mu.Unlock()

	if was == online {
		return was
	}

	if !online {
		o.logger.Info().Str("func", "ConnectivityObserver.transition").Msg("server unreachable, working offline")
		return was
	}

	o.logger.Info().Str("func", "ConnectivityObserver.transition").Msg("server reachable again")
	if drainer == nil {
		return was
	}

	o.wg.Add(1)
	go func() {
		defer o.wg.Done()

		res, err := drainer.Drain(ctx)
		if err != nil {
			o.logger.Err(err).Str("func", "ConnectivityObserver.transition").Msg("replay after reconnect failed")
			return
		}
		o.logger.Info().
			Str("func", "ConnectivityObserver.transition").
			Int("succeeded", res.Succeeded).
			Int("failed", res.Failed).
			Int("dead_lettered", res.DeadLettered).
			Int("remaining", res.Remaining).
			Bool("stopped", res.Stopped).
			Msg("replayed queued operations after reconnect")
	}()

	return was
}

// Wait blocks until every drain started by a transition has returned.
func (o *ConnectivityObserver) Wait() {
	o.wg.Wait()
}

// Subscribe registers observer for pending-count changes and returns a
// function that removes it. Notifications are delivered synchronously, in
// subscription order, on the goroutine that changed the queue.
func (o *ConnectivityObserver) Subscribe(observer PendingObserver) (unsubscribe func()) {
	o.subsMu.Lock()
	defer o.subsMu.Unlock()

	o.nextSubID++
	id := o.nextSubID
	o.subscribers = append(o.subscribers, subscription{id: id, observer: observer})

	return func() {
		o.subsMu.Lock()
		defer o.subsMu.Unlock()

		for i, s := range o.subscribers {
			if s.id == id {
				o.subscribers = append(o.subscribers[:i:i], o.subscribers[i+1:]...)
				return
			}
		}
	}
}

func (o *ConnectivityObserver) notify(count int) {
	o.subsMu.Lock()
	subs := make([]subscription, len(o.subscribers))
	copy(subs, o.subscribers)
	o.subsMu.Unlock()

	for _, s := range subs {
		s.observer.PendingCountChanged(count)
	}
}
