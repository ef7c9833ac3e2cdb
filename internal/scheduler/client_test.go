package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/hibiken/asynq"
)

type schedulerCfg struct {
	redisURL string
}

func (c schedulerCfg) GetRedisURL() string             { return c.redisURL }
func (c schedulerCfg) GetRedisTLSInsecure() bool       { return false }
func (c schedulerCfg) GetAsynqQueueName() string       { return "outreach" }
func (c schedulerCfg) GetAsynqConcurrency() int        { return 1 }
func (c schedulerCfg) GetSweepInterval() time.Duration { return 0 }

func TestSweepPayloadRoundTrip(t *testing.T) {
	payload := SweepPayload{
		UserEmail:        "me@example.com",
		UserName:         "Me",
		UnipileAccountID: "acct-1",
		ForceDeepCheck:   true,
	}

	task, err := NewOutreachSweepTask(payload)
	if err != nil {
		t.Fatalf("NewOutreachSweepTask: %v", err)
	}
	if task.Type() != TaskOutreachSweep {
		t.Fatalf("task type = %q", task.Type())
	}

	parsed, err := ParseSweepPayload(task)
	if err != nil {
		t.Fatalf("ParseSweepPayload: %v", err)
	}
	if parsed != payload {
		t.Fatalf("parsed = %+v, want %+v", parsed, payload)
	}
}

func TestClientEnqueuesSweep(t *testing.T) {
	srv := miniredis.RunT(t)

	client, err := NewClient(schedulerCfg{redisURL: "redis://" + srv.Addr()})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	defer client.Close()

	err = client.EnqueueSweep(context.Background(), SweepPayload{UserEmail: "me@example.com"})
	if err != nil {
		t.Fatalf("EnqueueSweep: %v", err)
	}

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: srv.Addr()})
	defer inspector.Close()

	pending, err := inspector.ListPendingTasks("outreach")
	if err != nil {
		t.Fatalf("ListPendingTasks: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("pending tasks = %d, want 1", len(pending))
	}
	if pending[0].Type != TaskOutreachSweep {
		t.Fatalf("task type = %q", pending[0].Type)
	}
}

func TestNewClientRequiresRedisURL(t *testing.T) {
	if _, err := NewClient(schedulerCfg{}); err == nil {
		t.Fatal("expected error for missing redis url")
	}
}
