package scheduler

import (
	"context"
	"fmt"
	"time"

	"outreach_backend/internal/directory"
	outreachsvc "outreach_backend/internal/outreach/service"
	"outreach_backend/platform/config"
	"outreach_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// UserLister enumerates the users periodic sweeps run for.
type UserLister interface {
	ListUsers(ctx context.Context) ([]directory.User, error)
}

type Worker struct {
	server   *asynq.Server
	mux      *asynq.ServeMux
	sweeper  *outreachsvc.Service
	users    UserLister
	enqueue  SweepScheduler
	interval time.Duration
	log      *logger.Logger
}

// NewWorker builds the background worker. It consumes sweep tasks and, when
// an interval is configured, enqueues a sweep for every known user on a tick.
func NewWorker(cfg config.SchedulerConfig, sweeper *outreachsvc.Service, users UserLister, enqueue SweepScheduler, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:   server,
		mux:      mux,
		sweeper:  sweeper,
		users:    users,
		enqueue:  enqueue,
		interval: cfg.GetSweepInterval(),
		log:      log,
	}

	mux.HandleFunc(TaskOutreachSweep, w.handleSweep)

	return w, nil
}

func (w *Worker) handleSweep(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseSweepPayload(task)
	if err != nil {
		return err
	}

	summary, err := w.sweeper.Sweep(ctx, outreachsvc.SweepInput{
		UserEmail:      payload.UserEmail,
		UserName:       payload.UserName,
		UserLinkedIn:   payload.UserLinkedIn,
		GraphToken:     payload.GraphToken,
		RelayAccountID: payload.UnipileAccountID,
		ForceDeepCheck: payload.ForceDeepCheck,
	})
	if err != nil {
		return err
	}

	if summary.ConcurrentSkip {
		w.log.Info("background sweep skipped, one already running", "user", payload.UserEmail)
	}
	return nil
}

// enqueueAll schedules one sweep per known user. Background sweeps carry no
// mailbox token, so they cover the LinkedIn channel and SMTP forwards.
func (w *Worker) enqueueAll(ctx context.Context) {
	users, err := w.users.ListUsers(ctx)
	if err != nil {
		w.log.Error("list users for periodic sweep failed", "error", err)
		return
	}

	for _, user := range users {
		payload := SweepPayload{UserEmail: user.Email, UserName: user.Name}
		if user.LinkedIn != nil {
			payload.UserLinkedIn = *user.LinkedIn
		}
		if user.RelayAccountID != nil {
			payload.UnipileAccountID = *user.RelayAccountID
		}
		if err := w.enqueue.EnqueueSweep(ctx, payload); err != nil {
			w.log.Error("enqueue periodic sweep failed", "user", user.Email, "error", err)
		}
	}
}

func (w *Worker) runPeriodic(ctx context.Context) {
	if w.interval <= 0 || w.users == nil || w.enqueue == nil {
		return
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.enqueueAll(ctx)
		}
	}
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go w.runPeriodic(ctx)

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}
