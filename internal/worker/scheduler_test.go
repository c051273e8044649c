package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewScheduler_Defaults(t *testing.T) {
	s := NewScheduler(SchedulerConfig{})
	assert.Equal(t, 24*time.Hour, s.interval)
	assert.NotNil(t, s.logger)
}

func TestScheduler_RunsOnInterval(t *testing.T) {
	orch := &mockOrchestrator{}
	w := NewWorker(WorkerConfig{Orchestrator: orch})
	s := NewScheduler(SchedulerConfig{
		Worker:   w,
		Jobs:     jobs("texas"),
		Interval: 10 * time.Millisecond,
	})

	s.Start(context.Background())
	require.Eventually(t, func() bool {
		return len(orch.corpora()) >= 2
	}, time.Second, 5*time.Millisecond)
	s.Stop()
	assert.Equal(t, "texas", orch.corpora()[0])

	// No batches after Stop
	n := len(orch.corpora())
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, n, len(orch.corpora()))
}

func TestScheduler_StartTwice(t *testing.T) {
	s := NewScheduler(SchedulerConfig{
		Worker:   NewWorker(WorkerConfig{Orchestrator: &mockOrchestrator{}}),
		Interval: time.Hour,
	})

	s.Start(context.Background())
	s.Start(context.Background())
	s.Stop()
	s.Stop()
}

func TestScheduler_StopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := NewScheduler(SchedulerConfig{
		Worker:   NewWorker(WorkerConfig{Orchestrator: &mockOrchestrator{}}),
		Interval: time.Hour,
	})

	s.Start(ctx)
	cancel()

	select {
	case <-s.doneCh:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not exit after cancel")
	}
	s.Stop()
}
