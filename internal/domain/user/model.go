package user

import (
	"fmt"
	"time"

	"github.com/burenotti/gym_tracker_backend/internal/domain"
)

var (
	ErrUserNotFound   = fmt.Errorf("%w: user not found", domain.ErrNotFound)
	ErrInvalidWeight  = fmt.Errorf("%w: weight must be positive", domain.ErrInvalidInput)
	ErrNotATrainer    = fmt.Errorf("%w: personal trainer account required", domain.ErrForbidden)
	ErrNotAClient     = fmt.Errorf("%w: client account required", domain.ErrForbidden)
	ErrClientNotOwned = fmt.Errorf("%w: client is not assigned to this trainer", domain.ErrForbidden)
)

type Role string

const (
	RolePersonalTrainer Role = "personal_trainer"
	RoleClient          Role = "client"
)

func (r Role) Valid() bool {
	return r == RolePersonalTrainer || r == RoleClient
}

type User struct {
	domain.Aggregate  `diff:"-"`
	UserID            string     `diff:"-"`
	Email             string     `diff:"email"`
	Name              string     `diff:"name"`
	Role              Role       `diff:"role"`
	Weight            float64    `diff:"weight"`
	Height            float64    `diff:"height"`
	DesiredWeight     *float64   `diff:"desired_weight"`
	DateOfBirth       time.Time  `diff:"date_of_birth"`
	PersonalTrainerID *string    `diff:"personal_trainer_id"`
	CreatedAt         time.Time  `diff:"-"`
	UpdatedAt         *time.Time `diff:"updated_at"`
}

func (u *User) IsTrainer() bool {
	return u.Role == RolePersonalTrainer
}

func (u *User) IsClient() bool {
	return u.Role == RoleClient
}

// CanViewClient reports whether u may read the metrics of client.
// Users can always see their own data.
func (u *User) CanViewClient(client *User) bool {
	if u.UserID == client.UserID {
		return true
	}
	return u.IsTrainer() &&
		client.PersonalTrainerID != nil &&
		*client.PersonalTrainerID == u.UserID
}

func (u *User) ChangeWeight(weight float64, at time.Time) error {
	if weight <= 0 {
		return ErrInvalidWeight
	}
	u.Weight = weight
	u.UpdatedAt = &at
	return nil
}
