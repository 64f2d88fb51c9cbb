package model

import (
	"github.com/google/uuid"
)

type Role string

const (
	RolePatient Role = "patient"
	RoleDoctor  Role = "doctor"
	RoleAdmin   Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RolePatient, RoleDoctor, RoleAdmin:
		return true
	}
	return false
}

// User is the single identity record. The profile row (patient or doctor)
// is linked through ProfileID; role decides which table it points into.
type User struct {
	Base
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         Role      `db:"role" json:"role"`
	ProfileID    uuid.UUID `db:"profile_id" json:"profile_id"`
}
