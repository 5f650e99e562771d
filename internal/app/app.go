package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"taskManager/internal/config"
	"taskManager/internal/handlers"
	"taskManager/internal/logger"
	"taskManager/internal/middleware"
	"taskManager/internal/repository/task/inmemory"
	"taskManager/internal/repository/task/postgres"
	"taskManager/internal/service"
	"taskManager/internal/worker"

	"github.com/go-chi/chi/v5"
)

type App struct {
	config     *config.Config
	server     *http.Server
	repository service.TaskRepository
	service    handlers.TaskService
	queue      *worker.WriteQueue
	shutdowns  []func() // функции для graceful shutdown
}

func New(cfg *config.Config) *App {
	return &App{
		config:    cfg,
		shutdowns: make([]func(), 0),
	}
}

func (a *App) Init(ctx context.Context) error {
	if err := logger.Init(a.config.Logging.Development, a.config.Logging.Level); err != nil {
		return fmt.Errorf("инициализация логгера: %w", err)
	}

	a.shutdowns = append(a.shutdowns, func() {
		logger.Info("Завершение работы логгирования...")
		logger.Sync()
	})

	switch a.config.Store.Type {
	case "postgres":
		storage, err := postgres.New(ctx, a.config.ConnString(), a.config.Store.Collection)
		if err != nil {
			return fmt.Errorf("подключение к хранилищу: %w", err)
		}
		if err := storage.Migrate(ctx); err != nil {
			storage.Close()
			return fmt.Errorf("миграции: %w", err)
		}
		a.shutdowns = append(a.shutdowns, storage.Close)
		a.repository = storage
	case "inmemory":
		a.repository = inmemory.NewTaskStorage()
	default:
		return fmt.Errorf("неизвестный тип репозитория: %s", a.config.Store.Type)
	}

	taskService := service.NewTaskService(a.repository)
	a.queue = worker.NewWriteQueue(nil)
	a.service = newQueuedTaskService(taskService, a.queue)

	if a.config.Server.Enabled {
		a.server = a.buildServer()
	}

	return nil
}

func (a *App) buildServer() *http.Server {
	taskHandler := handlers.NewTaskHandler(a.service)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(middleware.RateLimit(100))

	r.Route("/tasks", func(r chi.Router) {
		r.Get("/", taskHandler.GetTasks)         // GET /tasks
		r.Post("/", taskHandler.PostTask)        // POST /tasks
		r.Delete("/", taskHandler.DeleteAllTasks) // DELETE /tasks

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", taskHandler.GetTaskByID)       // GET /tasks/{id}
			r.Put("/", taskHandler.UpdateTaskByID)    // PUT /tasks/{id}
			r.Delete("/", taskHandler.DeleteTaskByID) // DELETE /tasks/{id}

			r.Post("/complete", taskHandler.CompleteTask) // POST /tasks/{id}/complete
		})
	})
	r.Get("/health", taskHandler.HealthCheck)

	return &http.Server{
		Addr:    a.config.GetServerAddr(),
		Handler: r,
	}
}

// Run блокируется до выхода из меню
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go a.queue.Start(ctx)

	if a.server != nil {
		go func() {
			logger.Info("HTTP сервер запущен")
			if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("HTTP сервер остановлен с ошибкой", err)
			}
		}()
	}

	menu := newMenu(a.config.AppName, a.service)
	menu.Run(ctx)

	if a.server != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		a.server.Shutdown(shutdownCtx)
	}

	return nil
}

func (a *App) Shutdown() {
	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		a.shutdowns[i]()
	}
}
