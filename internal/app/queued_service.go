package app

import (
	"context"

	"taskManager/internal/models/task"
	"taskManager/internal/query"
	"taskManager/internal/service"
	"taskManager/internal/worker"

	"github.com/google/uuid"
)

// обёртка над сервисом: мутации уходят в очередь записей и применяются
// в порядке постановки, чтение идёт напрямую

type queuedTaskService struct {
	svc   service.TaskService
	queue *worker.WriteQueue
}

func newQueuedTaskService(svc service.TaskService, queue *worker.WriteQueue) *queuedTaskService {
	return &queuedTaskService{
		svc:   svc,
		queue: queue,
	}
}

func (q *queuedTaskService) CreateNewTask(ctx context.Context, title, description, dueDate, priority string) (uuid.UUID, error) {
	var id uuid.UUID
	err := q.queue.Submit(ctx, func(ctx context.Context) error {
		var err error
		id, err = q.svc.CreateNewTask(ctx, title, description, dueDate, priority)
		return err
	})
	return id, err
}

func (q *queuedTaskService) UpdateTaskByID(ctx context.Context, id uuid.UUID, update service.TaskUpdate) error {
	return q.queue.Submit(ctx, func(ctx context.Context) error {
		return q.svc.UpdateTaskByID(ctx, id, update)
	})
}

func (q *queuedTaskService) MarkCompleted(ctx context.Context, id uuid.UUID) error {
	return q.queue.Submit(ctx, func(ctx context.Context) error {
		return q.svc.MarkCompleted(ctx, id)
	})
}

func (q *queuedTaskService) DeleteTaskByID(ctx context.Context, id uuid.UUID) error {
	return q.queue.Submit(ctx, func(ctx context.Context) error {
		return q.svc.DeleteTaskByID(ctx, id)
	})
}

func (q *queuedTaskService) DeleteAllTasks(ctx context.Context) (int64, error) {
	var deleted int64
	err := q.queue.Submit(ctx, func(ctx context.Context) error {
		var err error
		deleted, err = q.svc.DeleteAllTasks(ctx)
		return err
	})
	return deleted, err
}

func (q *queuedTaskService) GetTasks(ctx context.Context, filter query.Filter) ([]*task.Task, error) {
	return q.svc.GetTasks(ctx, filter)
}

func (q *queuedTaskService) GetTaskByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	return q.svc.GetTaskByID(ctx, id)
}

func (q *queuedTaskService) HealthCheck(ctx context.Context) error {
	return q.svc.HealthCheck(ctx)
}
