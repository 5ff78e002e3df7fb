// Package scheduler triggers periodic filter refresh runs. The cron only
// enqueues work; the Redis queue workers execute it, so a slow run never
// blocks the next tick.
package scheduler

import (
	"context"
	"time"

	"EquiScreen/pkg/queue"

	applogger "EquiScreen/pkg/logger"

	"github.com/robfig/cron/v3"
)

// RefreshMessageType identifies scheduled refresh messages on the queue.
const RefreshMessageType = "filter_refresh"

// RefreshPayload is the queue payload of one scheduled refresh.
type RefreshPayload struct {
	Universe    []string  `json:"universe"`
	RequestedAt time.Time `json:"requested_at"`
}

// Scheduler enqueues a refresh for the configured universe on every cron
// tick.
type Scheduler struct {
	cron     *cron.Cron
	queue    queue.QueueService
	spec     string
	universe []string
	l        *applogger.Logger
}

func New(spec string, universe []string, q queue.QueueService, l *applogger.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		queue:    q,
		spec:     spec,
		universe: universe,
		l:        l,
	}
}

// Start registers the cron entry and starts ticking.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		payload := RefreshPayload{Universe: s.universe, RequestedAt: time.Now().UTC()}
		if err := s.queue.PublishMessage(ctx, RefreshMessageType, payload); err != nil {
			if s.l != nil {
				s.l.Error("enqueue scheduled refresh failed", applogger.Error(err))
			}
			return
		}
		if s.l != nil {
			s.l.Info("scheduled refresh enqueued", applogger.Strings("universe", s.universe))
		}
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

// Stop stops the cron and waits for a running entry to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
