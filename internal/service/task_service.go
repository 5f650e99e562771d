package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"taskManager/internal/logger"
	"taskManager/internal/models/task"
	"taskManager/internal/query"
	rep "taskManager/internal/repository"
	"taskManager/internal/validate"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// здесь происходит проверка бизнес-правил: валидация полей до записи,
// построение предиката фильтра и обращение к репозиторию

type TaskService struct {
	repo TaskRepository
	now  func() time.Time
}

func NewTaskService(repo TaskRepository) TaskService {
	return TaskService{
		repo: repo,
		now:  time.Now,
	}
}

// NewTaskServiceAt - с внешним источником времени, нужен тестам проверки дедлайнов
func NewTaskServiceAt(repo TaskRepository, now func() time.Time) TaskService {
	return TaskService{
		repo: repo,
		now:  now,
	}
}

func (s *TaskService) HealthCheck(ctx context.Context) error {
	return s.repo.HealthCheck(ctx)
}

// порядок проверки полей фиксирован: название, описание, дедлайн, приоритет;
// первая же ошибка прерывает создание
func (s *TaskService) CreateNewTask(ctx context.Context, title, description, dueDate, priority string) (uuid.UUID, error) {
	validTitle, err := validate.Title(title)
	if err != nil {
		return uuid.Nil, NewValidationError("title", err)
	}

	validDescription, err := validate.Description(description)
	if err != nil {
		return uuid.Nil, NewValidationError("description", err)
	}

	validDueDate, err := validate.DueDate(dueDate)
	if err != nil {
		return uuid.Nil, NewValidationError("due_date", err)
	}
	if err := validate.NotPast(validDueDate, s.now()); err != nil {
		return uuid.Nil, NewValidationError("due_date", err)
	}

	validPriority, err := validate.Priority(priority)
	if err != nil {
		return uuid.Nil, NewValidationError("priority", err)
	}

	id := uuid.New()
	taskToCreate := &task.Task{
		UUID:        id,
		Title:       validTitle,
		Description: validDescription,
		Priority:    validPriority,
		Status:      task.StatusPending,
		DueDate:     validDueDate,
		CreatedAt:   s.now(),
	}

	if err := s.repo.Insert(ctx, taskToCreate); err != nil {
		return uuid.Nil, fmt.Errorf("добавление задачи: %w", err)
	}

	logger.Info("Service: Задача создана", zap.String("task_id", id.String()))
	return id, nil
}

func (s *TaskService) GetTasks(ctx context.Context, filter query.Filter) ([]*task.Task, error) {
	predicate, err := query.Build(filter)
	if err != nil {
		return nil, NewFilterError(err)
	}

	tasks, err := s.repo.Find(ctx, predicate)
	if err != nil {
		return nil, fmt.Errorf("получение задач: %w", err)
	}

	return tasks, nil
}

func (s *TaskService) GetTaskByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	taskToGet, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			logger.Info("Service: Задача не найдена", zap.String("target_id", id.String()))
			return nil, NewNotFound(id.String())
		}
		return nil, fmt.Errorf("получение задачи: %w", err)
	}
	return taskToGet, nil
}

// TaskUpdate - частичное обновление: заполнены только изменяемые поля,
// каждое проверяется отдельно до слияния
type TaskUpdate struct {
	Title       *string
	Description *string
	DueDate     *string
	Priority    *string
	Status      *string
}

func (u TaskUpdate) isEmpty() bool {
	return u.Title == nil && u.Description == nil && u.DueDate == nil &&
		u.Priority == nil && u.Status == nil
}

func (s *TaskService) validateUpdate(update TaskUpdate) ([]task.TaskOption, error) {
	options := []task.TaskOption{}

	if update.Title != nil {
		validTitle, err := validate.Title(*update.Title)
		if err != nil {
			return nil, NewValidationError("title", err)
		}
		options = append(options, task.WithTitle(validTitle))
	}

	if update.Description != nil {
		validDescription, err := validate.Description(*update.Description)
		if err != nil {
			return nil, NewValidationError("description", err)
		}
		options = append(options, task.WithDescription(validDescription))
	}

	if update.DueDate != nil {
		validDueDate, err := validate.DueDate(*update.DueDate)
		if err != nil {
			return nil, NewValidationError("due_date", err)
		}
		if err := validate.NotPast(validDueDate, s.now()); err != nil {
			return nil, NewValidationError("due_date", err)
		}
		options = append(options, task.WithDueDate(validDueDate))
	}

	if update.Priority != nil {
		validPriority, err := validate.Priority(*update.Priority)
		if err != nil {
			return nil, NewValidationError("priority", err)
		}
		options = append(options, task.WithPriority(validPriority))
	}

	if update.Status != nil {
		validStatus, err := validate.Status(*update.Status)
		if err != nil {
			return nil, NewValidationError("status", err)
		}
		options = append(options, task.WithStatus(validStatus))
	}

	return options, nil
}

func (s *TaskService) UpdateTaskByID(ctx context.Context, id uuid.UUID, update TaskUpdate) error {
	if update.isEmpty() {
		return NewValidationError("update", errors.New("не задано ни одного поля для обновления"))
	}

	options, err := s.validateUpdate(update)
	if err != nil {
		return err
	}

	taskToUpdate, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			logger.Info("Service: Задача не найдена", zap.String("target_id", id.String()))
			return NewNotFound(id.String())
		}
		return fmt.Errorf("получение задачи: %w", err)
	}

	for _, opt := range options {
		opt(taskToUpdate)
	}

	if err := s.repo.Update(ctx, taskToUpdate); err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			return NewNotFound(id.String())
		}
		return fmt.Errorf("обновление задачи: %w", err)
	}

	logger.Info("Service: Задача обновлена", zap.String("task_id", id.String()))
	return nil
}

func (s *TaskService) MarkCompleted(ctx context.Context, id uuid.UUID) error {
	taskToComplete, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			logger.Info("Service: Задача не найдена", zap.String("target_id", id.String()))
			return NewNotFound(id.String())
		}
		return fmt.Errorf("получение задачи: %w", err)
	}

	taskToComplete.Status = task.StatusCompleted
	if err := s.repo.Update(ctx, taskToComplete); err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			return NewNotFound(id.String())
		}
		return fmt.Errorf("обновление статуса: %w", err)
	}

	logger.Info("Service: Задача завершена", zap.String("task_id", id.String()))
	return nil
}

func (s *TaskService) DeleteTaskByID(ctx context.Context, id uuid.UUID) error {
	err := s.repo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, rep.ErrNotFound) {
			logger.Info("Service: Задача не найдена", zap.String("target_id", id.String()))
			return NewNotFound(id.String())
		}
		return fmt.Errorf("удаление задачи: %w", err)
	}

	logger.Info("Service: Задача удалена", zap.String("task_id", id.String()))
	return nil
}

func (s *TaskService) DeleteAllTasks(ctx context.Context) (int64, error) {
	deleted, err := s.repo.DeleteAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("удаление всех задач: %w", err)
	}

	logger.Info("Service: Все задачи удалены", zap.Int64("deleted", deleted))
	return deleted, nil
}
