package model

import (
	"github.com/google/uuid"
)

// Doctor is the professional identity record a DOCTOR user claims.
// UserID stays nil until a one-time claim links it to a user.
type Doctor struct {
	Base
	Name           string     `db:"name" json:"name"`
	LicenseNumber  string     `db:"license_number" json:"license_number"`
	Specialization string     `db:"specialization" json:"specialization"`
	Email          *string    `db:"email" json:"email,omitempty"`
	PhoneNumber    *string    `db:"phone_number" json:"phone_number,omitempty"`
	UserID         *uuid.UUID `db:"user_id" json:"user_id,omitempty"`
}

type CreateDoctorRequest struct {
	Name           string `json:"name" binding:"required"`
	LicenseNumber  string `json:"license_number" binding:"required"`
	Specialization string `json:"specialization" binding:"required"`
}

type UpdateDoctorRequest struct {
	Name           *string `json:"name"`
	Specialization *string `json:"specialization"`
	Email          *string `json:"email" binding:"omitempty,email"`
	PhoneNumber    *string `json:"phone_number"`
}
