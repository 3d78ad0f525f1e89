package userstorage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/burenotti/gym_tracker_backend/internal/adapter/storage"
	"github.com/burenotti/gym_tracker_backend/internal/adapter/storage/pgutil"
	"github.com/burenotti/gym_tracker_backend/internal/domain"
	"github.com/burenotti/gym_tracker_backend/internal/domain/user"
	"github.com/leporo/sqlf"
	"github.com/r3labs/diff"
)

type PostgresStorage struct {
	base   *pgutil.BasePostgresStorage
	logger *slog.Logger
}

func NewPostgresStorage(db storage.DBContext, logger *slog.Logger) *PostgresStorage {
	return &PostgresStorage{
		base:   pgutil.NewBasePostgresStorage(db),
		logger: logger,
	}
}

func (s *PostgresStorage) get(
	ctx context.Context,
	modify func(stmt *sqlf.Stmt) *sqlf.Stmt,
) (map[string]*user.User, error) {
	var tmp userRow

	q := sqlf.From("users u").
		Select("u.user_id").To(&tmp.UserID).
		Select("u.email").To(&tmp.Email).
		Select("u.name").To(&tmp.Name).
		Select("u.role").To(&tmp.Role).
		Select("u.weight").To(&tmp.Weight).
		Select("u.height").To(&tmp.Height).
		Select("u.desired_weight").To(&tmp.DesiredWeight).
		Select("u.date_of_birth").To(&tmp.DateOfBirth).
		Select("u.personal_trainer_id").To(&tmp.PersonalTrainerID).
		Select("u.created_at").To(&tmp.CreatedAt).
		Select("u.updated_at").To(&tmp.UpdatedAt)

	q = modify(q)

	users := make(map[string]*user.User)

	err := q.QueryAndClose(ctx, s.base.DB, func(rows *sql.Rows) {
		u := tmp.toDomain()
		users[u.UserID] = u
	})

	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, pgutil.Wrap(err)
	}

	for id, u := range users {
		s.base.MarkSeen(id, u)
	}
	return users, nil
}

func (s *PostgresStorage) GetByID(ctx context.Context, userID string) (*user.User, error) {
	users, err := s.get(ctx, func(stmt *sqlf.Stmt) *sqlf.Stmt {
		return stmt.Where("u.user_id = ?", userID)
	})
	return pgutil.PeekOrErr(users, err, user.ErrUserNotFound)
}

// GetForUpdate loads the user and locks its row until the transaction ends.
func (s *PostgresStorage) GetForUpdate(ctx context.Context, userID string) (*user.User, error) {
	users, err := s.get(ctx, func(stmt *sqlf.Stmt) *sqlf.Stmt {
		return stmt.Where("u.user_id = ?", userID).Clause("FOR UPDATE")
	})
	return pgutil.PeekOrErr(users, err, user.ErrUserNotFound)
}

func (s *PostgresStorage) GetMany(ctx context.Context, userIDs []string) (map[string]*user.User, error) {
	if len(userIDs) == 0 {
		return map[string]*user.User{}, nil
	}
	return s.get(ctx, byIDs(userIDs))
}

func byIDs(userIDs []string) func(stmt *sqlf.Stmt) *sqlf.Stmt {
	args := make([]any, len(userIDs))
	for i, id := range userIDs {
		args[i] = id
	}
	return func(stmt *sqlf.Stmt) *sqlf.Stmt {
		return stmt.Where("u.user_id").In(args...)
	}
}

// Persist writes the fields of u that differ from the stored row.
func (s *PostgresStorage) Persist(ctx context.Context, u *user.User) error {
	dbState, err := s.GetByID(ctx, u.UserID)
	if err != nil {
		return err
	}

	changes, err := diff.Diff(dbState, u)
	if err != nil {
		return fmt.Errorf("diff user: %w", err)
	}
	if len(changes) == 0 {
		return nil
	}

	q := sqlf.Update("users").Where("user_id = ?", u.UserID)
	q = pgutil.MakeUpdateQuery(q, changes, values(u))

	res, err := q.ExecAndClose(ctx, s.base.DB)
	if err := pgutil.AssertUpdated(res, err, user.ErrUserNotFound); err != nil {
		return err
	}

	s.logger.DebugContext(ctx, "user persisted",
		slog.String("user_id", u.UserID),
		slog.Any("columns", pgutil.ChangedColumns(changes)),
	)
	s.base.MarkSeen(u.UserID, u)
	return nil
}

func (s *PostgresStorage) CollectEvents() []domain.Event {
	return s.base.CollectEvents()
}

func (s *PostgresStorage) Close() error {
	s.base.Close()
	return nil
}

func values(u *user.User) map[string]any {
	return map[string]any{
		"email":               u.Email,
		"name":                u.Name,
		"role":                string(u.Role),
		"weight":              u.Weight,
		"height":              u.Height,
		"desired_weight":      u.DesiredWeight,
		"date_of_birth":       u.DateOfBirth,
		"personal_trainer_id": u.PersonalTrainerID,
		"updated_at":          u.UpdatedAt,
	}
}
