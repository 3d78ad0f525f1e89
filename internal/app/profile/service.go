package profileapp

import (
	"context"
	"log/slog"

	"github.com/burenotti/gym_tracker_backend/internal/app/unitofwork"
	"github.com/burenotti/gym_tracker_backend/internal/domain/user"
)

type UnitOfWork = unitofwork.UnitOfWork[*AtomicContext]

type Service struct {
	logger *slog.Logger
}

func New(
	logger *slog.Logger,
) *Service {
	return &Service{
		logger: logger,
	}
}

func (s *Service) GetUserByID(
	ctx context.Context,
	userID string,
	uow *UnitOfWork,
) (u *user.User, err error) {
	err = uow.Atomic(ctx, func(ctx *AtomicContext) error {
		var err error
		u, err = ctx.UserStorage.GetByID(ctx.Context(), userID)
		return err
	})
	return
}

// GetTrainer fails with user.ErrNotATrainer for accounts of other roles.
func (s *Service) GetTrainer(
	ctx context.Context,
	userID string,
	uow *UnitOfWork,
) (*user.User, error) {
	u, err := s.GetUserByID(ctx, userID, uow)
	if err != nil {
		return nil, err
	}
	if !u.IsTrainer() {
		return nil, user.ErrNotATrainer
	}
	return u, nil
}

// GetAssignedClient returns the client if viewerID may read its data: the
// client itself or the trainer the client is linked to.
func (s *Service) GetAssignedClient(
	ctx context.Context,
	viewerID, clientID string,
	uow *UnitOfWork,
) (client *user.User, err error) {
	err = uow.Atomic(ctx, func(ctx *AtomicContext) error {
		viewer, err := ctx.UserStorage.GetByID(ctx.Context(), viewerID)
		if err != nil {
			return err
		}

		if client, err = ctx.UserStorage.GetByID(ctx.Context(), clientID); err != nil {
			return err
		}

		if !client.IsClient() {
			return user.ErrNotAClient
		}

		if !viewer.CanViewClient(client) {
			s.logger.WarnContext(ctx.Context(), "client access denied",
				slog.String("viewer_id", viewerID),
				slog.String("client_id", clientID),
			)
			return user.ErrClientNotOwned
		}
		return nil
	})
	return
}
