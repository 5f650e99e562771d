package worker

import (
	"context"
	"errors"
	"time"

	"taskManager/internal/logger"

	"go.uber.org/zap"
)

// очередь записей: все мутации хранилища проходят через один канал
// и применяются одной горутиной, поэтому операции над одной задачей
// выполняются в порядке постановки

var ErrQueueClosed = errors.New("очередь записей остановлена")

type Job func(ctx context.Context) error

type queuedJob struct {
	job  Job
	done chan error
}

type WriteQueue struct {
	jobs chan queuedJob
}

func NewWriteQueue(size *int) *WriteQueue {
	var sizeToSet int
	if size == nil {
		sizeToSet = 64
	} else {
		sizeToSet = *size
	}

	return &WriteQueue{
		jobs: make(chan queuedJob, sizeToSet),
	}
}

func (q *WriteQueue) Start(ctx context.Context) {
	logger.Info("Worker: Очередь записей запущена", zap.Time("started_at", time.Now()))

	processed := 0
	for {
		select {
		case queued := <-q.jobs:
			queued.done <- queued.job(ctx)
			processed++
		case <-ctx.Done():
			logger.Info("Worker: Очередь записей останавливается", zap.Int("processed", processed))
			return
		}
	}
}

// Submit ставит мутацию в очередь и ждёт результата, так что для
// вызывающего операция остаётся синхронной
func (q *WriteQueue) Submit(ctx context.Context, job Job) error {
	queued := queuedJob{
		job:  job,
		done: make(chan error, 1),
	}

	select {
	case q.jobs <- queued:
	case <-ctx.Done():
		return ErrQueueClosed
	}

	select {
	case err := <-queued.done:
		return err
	case <-ctx.Done():
		return ErrQueueClosed
	}
}
