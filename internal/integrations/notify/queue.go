package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
)

// TypeBookingConfirmation тип задачи отправки подтверждения
const TypeBookingConfirmation = "booking:confirmation"

// TaskEnqueuer постановка задачи в очередь (*asynq.Client)
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// RecordNotifier синхронная отправка подтверждения
type RecordNotifier interface {
	Notify(ctx context.Context, record *domain.BookingRecord) error
}

// NewConfirmationTask создает задачу отправки подтверждения
func NewConfirmationTask(record *domain.BookingRecord) (*asynq.Task, error) {
	payload, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal: %v", ErrInvalidPayload, err)
	}
	return asynq.NewTask(TypeBookingConfirmation, payload), nil
}

// QueueNotifier ставит подтверждение в очередь asynq вместо прямой отправки.
// Письмо отправляет воркер с повторами
type QueueNotifier struct {
	enqueuer TaskEnqueuer
	maxRetry int
	log      Logger
}

// NewQueueNotifier создает notifier через очередь
func NewQueueNotifier(enqueuer TaskEnqueuer, maxRetry int, log Logger) *QueueNotifier {
	return &QueueNotifier{enqueuer: enqueuer, maxRetry: maxRetry, log: log}
}

// Notify ставит задачу в очередь. TaskID совпадает с booking_id, поэтому повторная постановка отклоняется очередью
func (q *QueueNotifier) Notify(ctx context.Context, record *domain.BookingRecord) error {
	task, err := NewConfirmationTask(record)
	if err != nil {
		return err
	}

	info, err := q.enqueuer.EnqueueContext(ctx, task,
		asynq.TaskID(record.BookingID),
		asynq.MaxRetry(q.maxRetry),
	)
	if err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			q.log.Info("Notify: confirmation already queued: booking_id=%s", record.BookingID)
			return nil
		}
		return fmt.Errorf("%w: booking_id=%s: %v", ErrEnqueue, record.BookingID, err)
	}

	q.log.Info("Notify: confirmation queued: booking_id=%s, task_id=%s, queue=%s", record.BookingID, info.ID, info.Queue)
	return nil
}

// HandleConfirmationTask обработчик задачи для воркера asynq
func HandleConfirmationTask(notifier RecordNotifier, log Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var record domain.BookingRecord
		if err := json.Unmarshal(task.Payload(), &record); err != nil {
			log.Error("HandleConfirmationTask: invalid payload: %v", err)
			return fmt.Errorf("%w: %v: %w", ErrInvalidPayload, err, asynq.SkipRetry)
		}

		if err := notifier.Notify(ctx, &record); err != nil {
			log.Warn("HandleConfirmationTask: send failed: booking_id=%s, error=%v", record.BookingID, err)
			return err
		}
		return nil
	}
}
