package model

import (
	"time"

	"github.com/google/uuid"
)

// Patient is the identity record a PATIENT user claims.
// UserID stays nil until a one-time claim links it to a user.
type Patient struct {
	Base
	Name                 string     `db:"name" json:"name"`
	PersonalHealthNumber string     `db:"personal_health_number" json:"personal_health_number"`
	DateOfBirth          time.Time  `db:"date_of_birth" json:"date_of_birth"`
	Email                *string    `db:"email" json:"email,omitempty"`
	PhoneNumber          *string    `db:"phone_number" json:"phone_number,omitempty"`
	UserID               *uuid.UUID `db:"user_id" json:"user_id,omitempty"`
}

type CreatePatientRequest struct {
	Name                 string    `json:"name" binding:"required"`
	PersonalHealthNumber string    `json:"personal_health_number" binding:"required,len=10"`
	DateOfBirth          time.Time `json:"date_of_birth" binding:"required"`
}

type UpdatePatientRequest struct {
	Name        *string `json:"name"`
	Email       *string `json:"email" binding:"omitempty,email"`
	PhoneNumber *string `json:"phone_number"`
}
