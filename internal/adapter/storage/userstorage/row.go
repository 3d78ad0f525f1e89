package userstorage

import (
	"time"

	"github.com/burenotti/gym_tracker_backend/internal/domain/user"
)

type userRow struct {
	UserID            string
	Email             string
	Name              string
	Role              string
	Weight            float64
	Height            float64
	DesiredWeight     *float64
	DateOfBirth       time.Time
	PersonalTrainerID *string
	CreatedAt         time.Time
	UpdatedAt         *time.Time
}

func (r userRow) toDomain() *user.User {
	return &user.User{
		UserID:            r.UserID,
		Email:             r.Email,
		Name:              r.Name,
		Role:              user.Role(r.Role),
		Weight:            r.Weight,
		Height:            r.Height,
		DesiredWeight:     r.DesiredWeight,
		DateOfBirth:       r.DateOfBirth,
		PersonalTrainerID: r.PersonalTrainerID,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
}
