package payment

import (
	"context"
	"sync"
	"time"
)

// Pending ожидание результата одной попытки оплаты.
// Разрешается callback'ом провайдера или отменой; Await возвращает ErrTimeout по таймауту
type Pending struct {
	AttemptID string

	done chan struct{}
	once sync.Once
}

// NewPending создает ожидание для попытки attemptID
func NewPending(attemptID string) *Pending {
	return &Pending{
		AttemptID: attemptID,
		done:      make(chan struct{}),
	}
}

// Resolve завершает ожидание. Возвращает true, если вызов был первым
func (p *Pending) Resolve() bool {
	resolved := false
	p.once.Do(func() {
		close(p.done)
		resolved = true
	})
	return resolved
}

// Done закрывается после Resolve
func (p *Pending) Done() <-chan struct{} {
	return p.done
}

// Await ждет Resolve не дольше timeout
func (p *Pending) Await(ctx context.Context, timeout time.Duration) error {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-p.done:
		return nil
	case <-timer.C:
		return ErrTimeout
	case <-ctx.Done():
		return ctx.Err()
	}
}
