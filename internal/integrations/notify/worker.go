package notify

import (
	"fmt"

	"github.com/hibiken/asynq"
)

// Worker обрабатывает задачи подтверждения из очереди
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	log    Logger
}

// NewWorker создает воркер очереди уведомлений
func NewWorker(redisOpt asynq.RedisConnOpt, concurrency int, notifier RecordNotifier, log Logger) *Worker {
	if concurrency <= 0 {
		concurrency = 5
	}

	server := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			"default": 1,
		},
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeBookingConfirmation, HandleConfirmationTask(notifier, log))

	return &Worker{server: server, mux: mux, log: log}
}

// Start запускает обработку задач в фоне
func (w *Worker) Start() error {
	if err := w.server.Start(w.mux); err != nil {
		return fmt.Errorf("notify worker: start: %w", err)
	}
	w.log.Info("Notification worker started")
	return nil
}

// Shutdown дожидается активных задач и останавливает воркер
func (w *Worker) Shutdown() {
	w.server.Shutdown()
	w.log.Info("Notification worker stopped")
}
