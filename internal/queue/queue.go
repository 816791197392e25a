// Package queue dispatches render tasks through redis via asynq, for
// deployments that outlive a single process. Single-machine setups use the
// in-process runner instead.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"sermonclip/config"
	"sermonclip/log"
)

const TypeRenderTask = "render:task"

// Executor runs a persisted render task to completion.
type Executor interface {
	ExecuteRenderTask(ctx context.Context, taskId string) error
}

type RenderTaskPayload struct {
	TaskId string `json:"task_id"`
}

type Queue struct {
	client   *asynq.Client
	server   *asynq.Server
	redisOpt asynq.RedisClientOpt
}

func NewQueue() *Queue {
	redisOpt := asynq.RedisClientOpt{
		Addr:     config.Conf.Queue.RedisAddr,
		Password: config.Conf.Queue.RedisPassword,
		DB:       config.Conf.Queue.RedisDB,
	}
	return &Queue{
		client:   asynq.NewClient(redisOpt),
		redisOpt: redisOpt,
	}
}

// Dispatch enqueues a render task. Implements service.Dispatcher.
func (q *Queue) Dispatch(taskId string) error {
	payload, err := json.Marshal(RenderTaskPayload{TaskId: taskId})
	if err != nil {
		return err
	}
	info, err := q.client.Enqueue(
		asynq.NewTask(TypeRenderTask, payload),
		asynq.MaxRetry(1),
		asynq.Timeout(30*time.Minute),
	)
	if err != nil {
		return fmt.Errorf("enqueue render task: %w", err)
	}
	log.GetLogger().Info("render task enqueued",
		zap.String("task_id", taskId), zap.String("queue_id", info.ID))
	return nil
}

// StartWorker begins consuming render tasks. Blocks until Shutdown.
func (q *Queue) StartWorker(executor Executor) error {
	concurrency := config.Conf.Queue.Concurrency
	if concurrency <= 0 {
		concurrency = 2
	}
	q.server = asynq.NewServer(q.redisOpt, asynq.Config{
		Concurrency: concurrency,
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeRenderTask, func(ctx context.Context, task *asynq.Task) error {
		var payload RenderTaskPayload
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			return fmt.Errorf("decode render task payload: %w", err)
		}
		if err := executor.ExecuteRenderTask(ctx, payload.TaskId); err != nil {
			log.GetLogger().Error("render task failed in worker",
				zap.String("task_id", payload.TaskId), zap.Error(err))
			return err
		}
		return nil
	})
	return q.server.Run(mux)
}

func (q *Queue) Shutdown() {
	if q.server != nil {
		q.server.Shutdown()
	}
	if q.client != nil {
		_ = q.client.Close()
	}
}
