package handlers

import (
	"context"

	"taskManager/internal/models/task"
	"taskManager/internal/query"
	"taskManager/internal/service"

	"github.com/google/uuid"
)

type TaskService interface {
	CreateNewTask(ctx context.Context, title, description, dueDate, priority string) (uuid.UUID, error)
	GetTasks(context.Context, query.Filter) ([]*task.Task, error)
	GetTaskByID(context.Context, uuid.UUID) (*task.Task, error)
	UpdateTaskByID(context.Context, uuid.UUID, service.TaskUpdate) error
	MarkCompleted(context.Context, uuid.UUID) error
	DeleteTaskByID(context.Context, uuid.UUID) error
	DeleteAllTasks(context.Context) (int64, error)
	HealthCheck(context.Context) error
}
