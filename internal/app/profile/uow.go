package profileapp

import (
	"context"
	"log/slog"

	"github.com/burenotti/gym_tracker_backend/internal/adapter/storage"
	"github.com/burenotti/gym_tracker_backend/internal/adapter/storage/userstorage"
	"github.com/burenotti/gym_tracker_backend/internal/domain"
	"github.com/burenotti/gym_tracker_backend/internal/domain/user"
)

type AtomicContext struct {
	ctx         context.Context
	dbContext   storage.DBContext
	UserStorage UserStorage
}

type UserStorage interface {
	GetByID(ctx context.Context, userID string) (*user.User, error)
	CollectEvents() []domain.Event
	Close() error
}

func NewContextFactory(
	open func(db storage.DBContext) UserStorage,
) func(context.Context, storage.DBContext) (*AtomicContext, error) {
	return func(ctx context.Context, dbContext storage.DBContext) (*AtomicContext, error) {
		return &AtomicContext{
			ctx:         ctx,
			dbContext:   dbContext,
			UserStorage: open(dbContext),
		}, nil
	}
}

func PostgresUsers(logger *slog.Logger) func(db storage.DBContext) UserStorage {
	return func(db storage.DBContext) UserStorage {
		return userstorage.NewPostgresStorage(db, logger)
	}
}

func (a *AtomicContext) Context() context.Context {
	return a.ctx
}

func (a *AtomicContext) Commit() error {
	return a.dbContext.Commit()
}

func (a *AtomicContext) Close() error {
	return a.UserStorage.Close()
}

func (a *AtomicContext) CollectEvents() []domain.Event {
	return a.UserStorage.CollectEvents()
}
