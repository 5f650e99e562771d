package service

import (
	"context"

	"taskManager/internal/models/task"
	"taskManager/internal/query"

	"github.com/google/uuid"
)

type TaskRepository interface {
	Insert(context.Context, *task.Task) error
	Update(context.Context, *task.Task) error
	Find(context.Context, query.Predicate) ([]*task.Task, error)
	GetByID(context.Context, uuid.UUID) (*task.Task, error)
	Delete(context.Context, uuid.UUID) error
	DeleteAll(context.Context) (int64, error)
	HealthCheck(context.Context) error
}
