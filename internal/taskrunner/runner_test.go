package taskrunner

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"sermonclip/log"
)

func TestMain(m *testing.M) {
	log.Logger = zap.NewNop()
	m.Run()
}

type recordingExecutor struct {
	mu    sync.Mutex
	seen  []string
	block chan struct{}
}

func (e *recordingExecutor) ExecuteRenderTask(_ context.Context, taskId string) error {
	if e.block != nil {
		<-e.block
	}
	e.mu.Lock()
	e.seen = append(e.seen, taskId)
	e.mu.Unlock()
	return nil
}

func (e *recordingExecutor) tasks() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.seen...)
}

func TestDispatchExecutesTasks(t *testing.T) {
	executor := &recordingExecutor{}
	runner := NewRunner(executor, 2, 8)

	for _, id := range []string{"a", "b", "c"} {
		if err := runner.Dispatch(id); err != nil {
			t.Fatalf("Dispatch(%q) failed: %v", id, err)
		}
	}
	runner.Stop()

	if got := executor.tasks(); len(got) != 3 {
		t.Errorf("executed %d tasks, want 3: %v", len(got), got)
	}
}

func TestDispatchRejectsWhenBacklogFull(t *testing.T) {
	executor := &recordingExecutor{block: make(chan struct{})}
	runner := NewRunner(executor, 1, 1)

	// First job occupies the worker, second fills the backlog.
	if err := runner.Dispatch("running"); err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}
	// The worker may not have picked the first job up yet, so the backlog
	// can hold at most one more before rejecting.
	var rejected bool
	for _, id := range []string{"queued", "overflow"} {
		if err := runner.Dispatch(id); err != nil {
			rejected = true
			break
		}
	}
	if !rejected {
		t.Error("expected a dispatch to be rejected with a full backlog")
	}

	close(executor.block)
	runner.Stop()
}

func TestDispatchAfterStop(t *testing.T) {
	runner := NewRunner(&recordingExecutor{}, 1, 1)
	runner.Stop()

	if err := runner.Dispatch("late"); err == nil {
		t.Error("expected an error after Stop")
	}
}

func TestStopWaitsForInFlight(t *testing.T) {
	executor := &recordingExecutor{block: make(chan struct{})}
	runner := NewRunner(executor, 1, 4)

	if err := runner.Dispatch("slow"); err != nil {
		t.Fatalf("Dispatch failed: %v", err)
	}

	go func() {
		time.Sleep(20 * time.Millisecond)
		close(executor.block)
	}()
	runner.Stop()

	if got := executor.tasks(); len(got) != 1 {
		t.Errorf("executed %d tasks, want 1", len(got))
	}
}
