package model

import (
	"time"
)

// IdentityType distinguishes which record a registration claim targets
type IdentityType string

const (
	IdentityDoctor  IdentityType = "doctor"
	IdentityPatient IdentityType = "patient"
)

type IdentityCheckRequest struct {
	Name                 string `json:"name" binding:"required"`
	LicenseNumber        string `json:"license_number"`
	PersonalHealthNumber string `json:"personal_health_number" binding:"omitempty,len=10"`
}

type RegisterRequest struct {
	Email       string    `json:"email" binding:"required,email"`
	Password    string    `json:"password" binding:"required,min=8"`
	DateOfBirth time.Time `json:"date_of_birth" binding:"required"`
	PhoneNumber *string   `json:"phone_number"`
}

type LoginRequest struct {
	Email      string `json:"email" binding:"required,email"`
	Password   string `json:"password" binding:"required"`
	RememberMe bool   `json:"remember_me"`
}

// VerifiedIdentity is the outcome of a successful pre-check, carried to
// register inside a short-lived cookie
type VerifiedIdentity struct {
	Identity IdentityType `json:"identity"`
	ID       string       `json:"id"`
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}
