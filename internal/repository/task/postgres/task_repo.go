package postgres

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"taskManager/internal/logger"
	"taskManager/internal/models/task"
	"taskManager/internal/query"
	repo "taskManager/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// хранилище задач поверх PostgreSQL: одна "коллекция" = одна таблица

type Storage struct {
	pool  *pgxpool.Pool
	table string
}

func New(ctx context.Context, connString, collection string) (*Storage, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		logger.Error("Repository: Ошибка загрузки конфига", err)
		return nil, fmt.Errorf("загрузка конфига: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnIdleTime = time.Minute * 5

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		logger.Error("Repository: Ошибка создания пула", err)
		return nil, fmt.Errorf("создание пула: %w", err)
	}

	err = pool.Ping(ctx)
	if err != nil {
		logger.Error("Repository: Неудачная проверка ping", err)
		return nil, fmt.Errorf("проверка соединения ping: %w", err)
	}

	logger.Info("Repository: Успешное создание подключения к PostgreSQL",
		zap.String("collection", collection))
	return &Storage{
		pool:  pool,
		table: pgx.Identifier{collection}.Sanitize(),
	}, nil
}

func (s *Storage) Close() {
	s.pool.Close()
	logger.Info("Repository: Закрытие всех соединений PostgreSQL")
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	err := s.pool.Ping(ctx)
	if err != nil {
		logger.Error("Repository: Неудачная проверка ping", err)
		return fmt.Errorf("проверка соединения ping: %w", err)
	}
	return nil
}

func (s *Storage) Insert(ctx context.Context, taskToCreate *task.Task) error {
	start := time.Now()

	sql := fmt.Sprintf(`INSERT INTO %s
				(uuid, title, description, priority, status, due_date, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
				RETURNING created_at`, s.table)

	err := s.pool.QueryRow(ctx, sql,
		taskToCreate.UUID,
		taskToCreate.Title,
		taskToCreate.Description,
		taskToCreate.Priority,
		taskToCreate.Status,
		taskToCreate.DueDate,
		time.Now(),
	).Scan(&taskToCreate.CreatedAt)

	if err != nil {
		logger.Error("Repository: Не удалось добавить задачу", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("добавление задачи: %w", err)
	}

	if time.Since(start) > time.Millisecond*50 {
		logger.Warn("Repository: Медленный запрос", zap.Duration("ms", time.Since(start)))
	}
	return nil
}

func (s *Storage) Update(ctx context.Context, taskToUpdate *task.Task) error {
	start := time.Now()

	sql := fmt.Sprintf(`UPDATE %s
			SET title = $1,
				description = $2,
				priority = $3,
				status = $4,
				due_date = $5,
				updated_at = NOW()
			WHERE uuid = $6
			RETURNING updated_at`, s.table)

	err := s.pool.QueryRow(ctx, sql,
		taskToUpdate.Title,
		taskToUpdate.Description,
		taskToUpdate.Priority,
		taskToUpdate.Status,
		taskToUpdate.DueDate,
		taskToUpdate.UUID,
	).Scan(&taskToUpdate.UpdatedAt)

	if err != nil {
		if err == pgx.ErrNoRows {
			return repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось обновить задачу", err)
		return fmt.Errorf("обновление задачи: %w", err)
	}

	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Repository: Медленная операция", zap.Duration("ms", time.Since(start)))
	}
	return nil
}

func (s *Storage) GetByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	start := time.Now()

	sql := fmt.Sprintf(`SELECT
				uuid,
				title,
				description,
				priority,
				status,
				due_date,
				created_at,
				updated_at
				FROM %s
				WHERE uuid = $1`, s.table)

	taskToGet := &task.Task{}
	err := s.pool.QueryRow(ctx, sql, id).Scan(
		&taskToGet.UUID,
		&taskToGet.Title,
		&taskToGet.Description,
		&taskToGet.Priority,
		&taskToGet.Status,
		&taskToGet.DueDate,
		&taskToGet.CreatedAt,
		&taskToGet.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить задачу", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение задачи: %w", err)
	}

	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Repository: Медленный запрос", zap.Duration("ms", time.Since(start)))
	}

	return taskToGet, nil
}

// % и _ в подстроке названия ищутся буквально, как в strings.Contains
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// перевод предиката в условия WHERE, критерии объединяются по AND
func buildWhere(predicate query.Predicate) (string, []any) {
	conditions := []string{}
	args := []any{}

	addCondition := func(condition string, arg any) {
		args = append(args, arg)
		conditions = append(conditions, fmt.Sprintf(condition, len(args)))
	}

	if predicate.Priority != nil {
		addCondition("priority = $%d", *predicate.Priority)
	}
	if predicate.Status != nil {
		addCondition("status = $%d", *predicate.Status)
	}
	if predicate.Title != "" {
		addCondition(`LOWER(title) LIKE '%%' || $%d || '%%' ESCAPE '\'`, likeEscaper.Replace(predicate.Title))
	}
	if predicate.From != nil {
		addCondition("due_date >= $%d", *predicate.From)
	}
	if predicate.To != nil {
		addCondition("due_date <= $%d", *predicate.To)
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func (s *Storage) Find(ctx context.Context, predicate query.Predicate) ([]*task.Task, error) {
	start := time.Now()

	where, args := buildWhere(predicate)
	sql := fmt.Sprintf(`SELECT
				uuid,
				title,
				description,
				priority,
				status,
				due_date,
				created_at,
				updated_at
				FROM %s%s
				ORDER BY created_at`, s.table, where)

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		logger.Error("Repository: Не удалось получить задачи", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение задач: %w", err)
	}

	defer rows.Close()

	tasks := []*task.Task{}
	for rows.Next() {
		taskToGet := &task.Task{}

		err := rows.Scan(
			&taskToGet.UUID,
			&taskToGet.Title,
			&taskToGet.Description,
			&taskToGet.Priority,
			&taskToGet.Status,
			&taskToGet.DueDate,
			&taskToGet.CreatedAt,
			&taskToGet.UpdatedAt,
		)
		if err != nil {
			logger.Warn("Repository: Ошибка сканирования задачи", zap.Error(err))
			continue
		}
		tasks = append(tasks, taskToGet)
	}
	if err := rows.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}

	if time.Since(start) > time.Millisecond*200 {
		logger.Warn("Repository: Медленный запрос", zap.Duration("ms", time.Since(start)))
	}

	return tasks, nil
}

func (s *Storage) Delete(ctx context.Context, id uuid.UUID) error {
	start := time.Now()

	sql := fmt.Sprintf(`DELETE FROM %s WHERE uuid = $1`, s.table)

	tag, err := s.pool.Exec(ctx, sql, id)
	if err != nil {
		logger.Error("Repository: Удаление задачи", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("удаление задачи: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}

	if time.Since(start) > time.Millisecond*100 {
		logger.Warn("Repository: Медленная операция", zap.Duration("ms", time.Since(start)))
	}
	return nil
}

func (s *Storage) DeleteAll(ctx context.Context) (int64, error) {
	start := time.Now()

	sql := fmt.Sprintf(`DELETE FROM %s`, s.table)

	tag, err := s.pool.Exec(ctx, sql)
	if err != nil {
		logger.Error("Repository: Удаление всех задач", err, zap.Duration("ms", time.Since(start)))
		return 0, fmt.Errorf("удаление всех задач: %w", err)
	}

	logger.Info("Repository: Все задачи удалены", zap.Int64("deleted", tag.RowsAffected()))
	return tag.RowsAffected(), nil
}

// миграции применяются вручную, как и раньше: читаем .sql и исполняем,
// {{collection}} в файле заменяется на имя настроенной таблицы
func (s *Storage) Migrate(ctx context.Context) error {
	logger.Info("Попытка миграций")

	files := []string{
		"internal/migrations/001_init.up.sql",
		"internal/migrations/002_indexes.up.sql",
	}

	for _, file := range files {
		raw, err := os.ReadFile(file)
		if err != nil {
			logger.Error("Repository: Не удалось прочитать миграцию", err, zap.String("file", file))
			return fmt.Errorf("чтение миграции %s: %w", file, err)
		}

		sql := strings.ReplaceAll(string(raw), "{{collection}}", s.table)
		if _, err := s.pool.Exec(ctx, sql); err != nil {
			logger.Error("Repository: Не удалось применить миграцию", err, zap.String("file", file))
			return fmt.Errorf("применение миграции %s: %w", file, err)
		}
	}

	logger.Info("Миграции применены")
	return nil
}

func (s *Storage) Down(ctx context.Context) error {
	logger.Info("Откат миграций")

	files := []string{
		"internal/migrations/002_indexes.down.sql",
		"internal/migrations/001_init.down.sql",
	}

	for _, file := range files {
		raw, err := os.ReadFile(file)
		if err != nil {
			logger.Error("Repository: Не удалось прочитать миграцию", err, zap.String("file", file))
			return fmt.Errorf("чтение миграции %s: %w", file, err)
		}

		sql := strings.ReplaceAll(string(raw), "{{collection}}", s.table)
		if _, err := s.pool.Exec(ctx, sql); err != nil {
			logger.Error("Repository: Не удалось откатить миграцию", err, zap.String("file", file))
			return fmt.Errorf("откат миграции %s: %w", file, err)
		}
	}

	logger.Info("Откат миграций завершён")
	return nil
}
