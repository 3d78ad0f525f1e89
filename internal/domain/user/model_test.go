package user

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCanViewClient(t *testing.T) {
	trainerID := "t1"
	trainer := &User{UserID: trainerID, Role: RolePersonalTrainer}
	other := &User{UserID: "t2", Role: RolePersonalTrainer}
	client := &User{UserID: "c1", Role: RoleClient, PersonalTrainerID: &trainerID}
	loner := &User{UserID: "c2", Role: RoleClient}

	assert.True(t, trainer.CanViewClient(client))
	assert.False(t, other.CanViewClient(client))
	assert.False(t, trainer.CanViewClient(loner))
	assert.True(t, client.CanViewClient(client))
	assert.False(t, loner.CanViewClient(client))
}

func TestChangeWeight(t *testing.T) {
	u := &User{UserID: "c1", Role: RoleClient, Weight: 80}
	now := time.Now()

	assert.ErrorIs(t, u.ChangeWeight(0, now), ErrInvalidWeight)
	assert.Equal(t, 80.0, u.Weight)
	assert.Nil(t, u.UpdatedAt)

	assert.NoError(t, u.ChangeWeight(79.2, now))
	assert.Equal(t, 79.2, u.Weight)
	assert.Equal(t, now, *u.UpdatedAt)
}

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleClient.Valid())
	assert.True(t, RolePersonalTrainer.Valid())
	assert.False(t, Role("admin").Valid())
}
