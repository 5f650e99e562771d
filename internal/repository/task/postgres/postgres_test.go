package postgres_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"taskManager/internal/models/task"
	"taskManager/internal/query"
	"taskManager/internal/repository"
	"taskManager/internal/repository/task/postgres"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// PostgresTestSuite - интеграционные тесты хранилища на контейнере PostgreSQL
type PostgresTestSuite struct {
	suite.Suite
	container  testcontainers.Container
	storage    *postgres.Storage
	ctx        context.Context
	connString string
}

// SetupSuite запускается один раз перед всеми тестами
func (s *PostgresTestSuite) SetupSuite() {
	s.ctx = context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:15-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(30 * time.Second),
	}

	container, err := testcontainers.GenericContainer(s.ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(s.T(), err)
	s.container = container

	host, err := container.Host(s.ctx)
	require.NoError(s.T(), err)

	port, err := container.MappedPort(s.ctx, "5432")
	require.NoError(s.T(), err)

	s.connString = fmt.Sprintf("postgres://test:test@%s:%s/testdb", host, port.Port())

	s.storage, err = postgres.New(s.ctx, s.connString, "tasks")
	require.NoError(s.T(), err)

	require.NoError(s.T(), s.applyTestMigrations())
}

// TearDownSuite очищает после всех тестов
func (s *PostgresTestSuite) TearDownSuite() {
	if s.storage != nil {
		s.storage.Close()
	}
	if s.container != nil {
		s.container.Terminate(s.ctx)
	}
}

// SetupTest очищает таблицу перед каждым тестом
func (s *PostgresTestSuite) SetupTest() {
	conn, err := pgx.Connect(s.ctx, s.connString)
	require.NoError(s.T(), err)
	defer conn.Close(s.ctx)

	_, err = conn.Exec(s.ctx, "DELETE FROM tasks")
	require.NoError(s.T(), err)
}

// applyTestMigrations создаёт тестовую таблицу той же схемы, что и миграции
func (s *PostgresTestSuite) applyTestMigrations() error {
	conn, err := pgx.Connect(s.ctx, s.connString)
	if err != nil {
		return err
	}
	defer conn.Close(s.ctx)

	schema := `
	CREATE TABLE IF NOT EXISTS tasks (
		uuid        UUID PRIMARY KEY,
		title       TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		priority    TEXT NOT NULL,
		status      TEXT NOT NULL DEFAULT 'Pending',
		due_date    TIMESTAMPTZ NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at  TIMESTAMPTZ
	);

	CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status);
	CREATE INDEX IF NOT EXISTS idx_tasks_priority ON tasks(priority);
	CREATE INDEX IF NOT EXISTS idx_tasks_due_date ON tasks(due_date);
	`

	_, err = conn.Exec(s.ctx, schema)
	return err
}

func (s *PostgresTestSuite) newTask(title string, priority task.Priority, status task.Status, dueDate time.Time) *task.Task {
	return &task.Task{
		UUID:     uuid.New(),
		Title:    title,
		Priority: priority,
		Status:   status,
		DueDate:  dueDate,
	}
}

// TestInsertAndGetByID тестирует запись и чтение задачи без искажений
func (s *PostgresTestSuite) TestInsertAndGetByID() {
	due := time.Date(2030, 6, 1, 14, 30, 0, 0, time.UTC)
	taskToCreate := s.newTask("Quarterly Report", task.PriorityHigh, task.StatusPending, due)
	taskToCreate.Description = "prepare slides"

	require.NoError(s.T(), s.storage.Insert(s.ctx, taskToCreate))
	assert.False(s.T(), taskToCreate.CreatedAt.IsZero())

	retrieved, err := s.storage.GetByID(s.ctx, taskToCreate.UUID)
	require.NoError(s.T(), err)

	assert.Equal(s.T(), taskToCreate.UUID, retrieved.UUID)
	assert.Equal(s.T(), "Quarterly Report", retrieved.Title)
	assert.Equal(s.T(), "prepare slides", retrieved.Description)
	assert.Equal(s.T(), task.PriorityHigh, retrieved.Priority)
	assert.Equal(s.T(), task.StatusPending, retrieved.Status)
	assert.True(s.T(), retrieved.DueDate.Equal(due))
	assert.Nil(s.T(), retrieved.UpdatedAt)
}

// TestGetByID_NotFound тестирует чтение несуществующей задачи
func (s *PostgresTestSuite) TestGetByID_NotFound() {
	_, err := s.storage.GetByID(s.ctx, uuid.New())
	assert.ErrorIs(s.T(), err, repository.ErrNotFound)
}

// TestFind тестирует перевод предиката в SQL
func (s *PostgresTestSuite) TestFind() {
	due := time.Date(2030, 6, 10, 0, 0, 0, 0, time.UTC)

	high := s.newTask("Deploy release", task.PriorityHigh, task.StatusPending, due)
	low := s.newTask("Quarterly Report", task.PriorityLow, task.StatusCompleted, due.AddDate(0, 0, 10))
	require.NoError(s.T(), s.storage.Insert(s.ctx, high))
	require.NoError(s.T(), s.storage.Insert(s.ctx, low))

	// пустой предикат возвращает всё
	tasks, err := s.storage.Find(s.ctx, query.Predicate{})
	require.NoError(s.T(), err)
	assert.Len(s.T(), tasks, 2)

	// по приоритету
	predicate, err := query.Build(query.Filter{Priority: "high"})
	require.NoError(s.T(), err)
	tasks, err = s.storage.Find(s.ctx, predicate)
	require.NoError(s.T(), err)
	require.Len(s.T(), tasks, 1)
	assert.Equal(s.T(), high.UUID, tasks[0].UUID)

	// по подстроке названия без учёта регистра
	predicate, err = query.Build(query.Filter{Title: "report"})
	require.NoError(s.T(), err)
	tasks, err = s.storage.Find(s.ctx, predicate)
	require.NoError(s.T(), err)
	require.Len(s.T(), tasks, 1)
	assert.Equal(s.T(), low.UUID, tasks[0].UUID)

	// односторонний диапазон: только верхняя граница
	predicate, err = query.Build(query.Filter{DateFrom: "*", DateTo: "2030-06-15"})
	require.NoError(s.T(), err)
	tasks, err = s.storage.Find(s.ctx, predicate)
	require.NoError(s.T(), err)
	require.Len(s.T(), tasks, 1)
	assert.Equal(s.T(), high.UUID, tasks[0].UUID)
}

// TestFind_TitleMetacharsLiteral тестирует, что % и _ в подстроке
// названия ищутся буквально, а не как шаблон LIKE
func (s *PostgresTestSuite) TestFind_TitleMetacharsLiteral() {
	due := time.Date(2030, 6, 10, 0, 0, 0, 0, time.UTC)

	underscored := s.newTask("daily_report", task.PriorityLow, task.StatusPending, due)
	spaced := s.newTask("dailyXreport", task.PriorityLow, task.StatusPending, due)
	percent := s.newTask("done 100% today", task.PriorityLow, task.StatusPending, due)
	require.NoError(s.T(), s.storage.Insert(s.ctx, underscored))
	require.NoError(s.T(), s.storage.Insert(s.ctx, spaced))
	require.NoError(s.T(), s.storage.Insert(s.ctx, percent))

	predicate, err := query.Build(query.Filter{Title: "daily_"})
	require.NoError(s.T(), err)
	tasks, err := s.storage.Find(s.ctx, predicate)
	require.NoError(s.T(), err)
	require.Len(s.T(), tasks, 1)
	assert.Equal(s.T(), underscored.UUID, tasks[0].UUID)

	predicate, err = query.Build(query.Filter{Title: "100%"})
	require.NoError(s.T(), err)
	tasks, err = s.storage.Find(s.ctx, predicate)
	require.NoError(s.T(), err)
	require.Len(s.T(), tasks, 1)
	assert.Equal(s.T(), percent.UUID, tasks[0].UUID)
}

// TestUpdate тестирует обновление задачи
func (s *PostgresTestSuite) TestUpdate() {
	taskToUpdate := s.newTask("Before", task.PriorityLow, task.StatusPending, time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(s.T(), s.storage.Insert(s.ctx, taskToUpdate))

	taskToUpdate.Title = "After"
	taskToUpdate.Status = task.StatusInProgress
	require.NoError(s.T(), s.storage.Update(s.ctx, taskToUpdate))
	assert.NotNil(s.T(), taskToUpdate.UpdatedAt)

	retrieved, err := s.storage.GetByID(s.ctx, taskToUpdate.UUID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "After", retrieved.Title)
	assert.Equal(s.T(), task.StatusInProgress, retrieved.Status)
}

// TestUpdate_NotFound тестирует обновление несуществующей задачи
func (s *PostgresTestSuite) TestUpdate_NotFound() {
	missing := s.newTask("Ghost", task.PriorityLow, task.StatusPending, time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC))
	err := s.storage.Update(s.ctx, missing)
	assert.ErrorIs(s.T(), err, repository.ErrNotFound)
}

// TestDelete тестирует удаление
func (s *PostgresTestSuite) TestDelete() {
	taskToDelete := s.newTask("Doomed", task.PriorityLow, task.StatusPending, time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(s.T(), s.storage.Insert(s.ctx, taskToDelete))

	require.NoError(s.T(), s.storage.Delete(s.ctx, taskToDelete.UUID))

	_, err := s.storage.GetByID(s.ctx, taskToDelete.UUID)
	assert.ErrorIs(s.T(), err, repository.ErrNotFound)

	err = s.storage.Delete(s.ctx, taskToDelete.UUID)
	assert.ErrorIs(s.T(), err, repository.ErrNotFound)
}

// TestDeleteAll тестирует массовое удаление со счётчиком
func (s *PostgresTestSuite) TestDeleteAll() {
	for i := 0; i < 3; i++ {
		t := s.newTask(fmt.Sprintf("task-%d", i), task.PriorityLow, task.StatusPending, time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC))
		require.NoError(s.T(), s.storage.Insert(s.ctx, t))
	}

	deleted, err := s.storage.DeleteAll(s.ctx)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), int64(3), deleted)

	tasks, err := s.storage.Find(s.ctx, query.Predicate{})
	require.NoError(s.T(), err)
	assert.Empty(s.T(), tasks)
}

func TestPostgresTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("интеграционный тест, пропускаем с -short")
	}
	suite.Run(t, new(PostgresTestSuite))
}
