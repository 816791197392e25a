// Package progress fans out render pipeline status updates to any
// listeners, currently the websocket endpoint. The pipeline publishes,
// subscribers get the latest known state on attach plus every update after.
package progress

import (
	"sync"
)

// Update is one pipeline status snapshot for a task.
type Update struct {
	TaskId     string `json:"task_id"`
	Status     int8   `json:"status"`
	ProcessPct uint8  `json:"process_percent"`
	Message    string `json:"message"`
}

type hub struct {
	mu          sync.Mutex
	subscribers map[string]map[chan Update]struct{}
	latest      map[string]Update
}

var defaultHub = &hub{
	subscribers: make(map[string]map[chan Update]struct{}),
	latest:      make(map[string]Update),
}

// Publish records the task's latest state and notifies subscribers. Slow
// subscribers are skipped rather than blocking the pipeline.
func Publish(update Update) {
	defaultHub.mu.Lock()
	defer defaultHub.mu.Unlock()

	defaultHub.latest[update.TaskId] = update
	for ch := range defaultHub.subscribers[update.TaskId] {
		select {
		case ch <- update:
		default:
		}
	}
}

// Subscribe attaches a listener to a task's updates. The returned cancel
// function must be called to release the channel.
func Subscribe(taskId string) (<-chan Update, func()) {
	ch := make(chan Update, 16)

	defaultHub.mu.Lock()
	if defaultHub.subscribers[taskId] == nil {
		defaultHub.subscribers[taskId] = make(map[chan Update]struct{})
	}
	defaultHub.subscribers[taskId][ch] = struct{}{}
	if latest, ok := defaultHub.latest[taskId]; ok {
		ch <- latest
	}
	defaultHub.mu.Unlock()

	cancel := func() {
		defaultHub.mu.Lock()
		defer defaultHub.mu.Unlock()
		if subs, ok := defaultHub.subscribers[taskId]; ok {
			delete(subs, ch)
			if len(subs) == 0 {
				delete(defaultHub.subscribers, taskId)
			}
		}
	}
	return ch, cancel
}

// Forget drops the cached state for a task, for use after task deletion.
func Forget(taskId string) {
	defaultHub.mu.Lock()
	defer defaultHub.mu.Unlock()
	delete(defaultHub.latest, taskId)
}
