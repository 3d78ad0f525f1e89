package unitofwork

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/burenotti/gym_tracker_backend/internal/adapter/storage"
	"github.com/burenotti/gym_tracker_backend/internal/domain"
)

var (
	ErrRollback = errors.New("rollback")
)

const DefaultMaxAttempts = 3

type AtomicContext interface {
	Context() context.Context
	Commit() error
	Close() error
	CollectEvents() []domain.Event
}

type MessageBus interface {
	PublishEvents(events ...domain.Event) error
}

type UnitOfWork[T AtomicContext] struct {
	db          storage.DBContext
	newContext  func(context.Context, storage.DBContext) (T, error)
	msgBus      MessageBus
	logger      *slog.Logger
	maxAttempts int
}

type Option[T AtomicContext] func(*UnitOfWork[T])

// WithMaxAttempts limits how many times a conflicting transaction is run.
func WithMaxAttempts[T AtomicContext](n int) Option[T] {
	return func(uow *UnitOfWork[T]) {
		if n > 0 {
			uow.maxAttempts = n
		}
	}
}

func New[T AtomicContext](
	db storage.DBContext,
	newCtx func(context.Context, storage.DBContext) (T, error),
	msgBus MessageBus,
	logger *slog.Logger,
	opts ...Option[T],
) *UnitOfWork[T] {
	uow := &UnitOfWork[T]{
		db:          db,
		newContext:  newCtx,
		msgBus:      msgBus,
		logger:      logger,
		maxAttempts: DefaultMaxAttempts,
	}
	for _, opt := range opts {
		opt(uow)
	}
	return uow
}

// Atomic runs do inside one transaction. do is expected to call Commit as
// its last step; anything not committed is rolled back. Transactions that
// fail with storage.ErrConflict are retried from scratch. Events are
// published only after a successful run.
func (uow *UnitOfWork[T]) Atomic(
	ctx context.Context,
	do func(T) error,
) (err error) {
	for attempt := 1; ; attempt++ {
		var events []domain.Event
		events, err = uow.attempt(ctx, do)
		if err == nil {
			if err := uow.msgBus.PublishEvents(events...); err != nil {
				uow.logger.Error("failed to publish events", "error", err)
				return err
			}
			return nil
		}

		if !errors.Is(err, storage.ErrConflict) || attempt >= uow.maxAttempts || ctx.Err() != nil {
			return err
		}
		uow.logger.Warn("retrying conflicting transaction", "attempt", attempt, "error", err)
	}
}

func (uow *UnitOfWork[T]) attempt(ctx context.Context, do func(T) error) ([]domain.Event, error) {
	tx, err := uow.db.Begin(ctx)
	if err != nil {
		return nil, stateRollbackError(err)
	}

	txCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	defer func() {
		if err := tx.Rollback(); err != nil {
			uow.logger.Error("failed to rollback transaction", "error", err)
		}
	}()

	atomicCtx, err := uow.newContext(txCtx, tx)
	if err != nil {
		return nil, stateRollbackError(err)
	}

	defer func() {
		if err := atomicCtx.Close(); err != nil {
			uow.logger.Error("failed to close atomic context", "error", err)
		}
	}()

	if err := do(atomicCtx); err != nil {
		return nil, stateRollbackError(err)
	}

	return atomicCtx.CollectEvents(), nil
}

func stateRollbackError(err error) error {
	return errors.Join(fmt.Errorf("state rollback: %w", err), ErrRollback)
}
