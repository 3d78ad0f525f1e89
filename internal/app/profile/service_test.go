package profileapp_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/burenotti/gym_tracker_backend/internal/adapter/storage"
	"github.com/burenotti/gym_tracker_backend/internal/adapter/storage/memstorage"
	profileapp "github.com/burenotti/gym_tracker_backend/internal/app/profile"
	"github.com/burenotti/gym_tracker_backend/internal/app/unitofwork"
	"github.com/burenotti/gym_tracker_backend/internal/domain"
	"github.com/burenotti/gym_tracker_backend/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopBus struct{}

func (noopBus) PublishEvents(...domain.Event) error { return nil }

func setup(t *testing.T) (*profileapp.Service, *profileapp.UnitOfWork) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memstorage.New()

	trainerID := "t1"
	store.PutUser(&user.User{UserID: "t1", Role: user.RolePersonalTrainer})
	store.PutUser(&user.User{UserID: "t2", Role: user.RolePersonalTrainer})
	store.PutUser(&user.User{UserID: "c1", Role: user.RoleClient, PersonalTrainerID: &trainerID})
	store.PutUser(&user.User{UserID: "c2", Role: user.RoleClient})

	uow := unitofwork.New(
		store.DB(),
		profileapp.NewContextFactory(func(storage.DBContext) profileapp.UserStorage {
			return store.UserStorage()
		}),
		noopBus{},
		logger,
	)
	return profileapp.New(logger), uow
}

func TestGetTrainer(t *testing.T) {
	s, uow := setup(t)
	ctx := context.Background()

	u, err := s.GetTrainer(ctx, "t1", uow)
	require.NoError(t, err)
	assert.Equal(t, "t1", u.UserID)

	_, err = s.GetTrainer(ctx, "c1", uow)
	assert.ErrorIs(t, err, user.ErrNotATrainer)

	_, err = s.GetTrainer(ctx, "ghost", uow)
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestGetAssignedClient(t *testing.T) {
	s, uow := setup(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		viewer   string
		client   string
		expected error
	}{
		{name: "own trainer", viewer: "t1", client: "c1"},
		{name: "self", viewer: "c1", client: "c1"},
		{name: "other trainer", viewer: "t2", client: "c1", expected: user.ErrClientNotOwned},
		{name: "unassigned client", viewer: "t1", client: "c2", expected: user.ErrClientNotOwned},
		{name: "other client", viewer: "c2", client: "c1", expected: user.ErrClientNotOwned},
		{name: "trainer as client", viewer: "t1", client: "t2", expected: user.ErrNotAClient},
		{name: "missing client", viewer: "t1", client: "ghost", expected: user.ErrUserNotFound},
		{name: "missing viewer", viewer: "ghost", client: "c1", expected: user.ErrUserNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := s.GetAssignedClient(ctx, tt.viewer, tt.client, uow)
			if tt.expected != nil {
				assert.ErrorIs(t, err, tt.expected)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.client, c.UserID)
		})
	}
}
