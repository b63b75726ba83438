package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Base contains common fields for all models
type Base struct {
	ID        uuid.UUID `json:"id" db:"id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Role identifies the tenant a caller acts as
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleDoctor  Role = "DOCTOR"
	RolePatient Role = "PATIENT"
	RoleGuest   Role = "GUEST"
)

// ParseRole maps a claim string to a Role, defaulting to GUEST
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleAdmin, RoleDoctor, RolePatient:
		return Role(s)
	default:
		return RoleGuest
	}
}

// Principal is the authenticated caller extracted from the access token
type Principal struct {
	UserID uuid.UUID `json:"user_id"`
	RoleID uuid.UUID `json:"role_id"`
	Email  string    `json:"email"`
	Roles  []Role    `json:"roles"`
}

// HasRole reports whether the principal carries the given role
func (p *Principal) HasRole(role Role) bool {
	if p == nil {
		return false
	}
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

type principalKey struct{}

// WithPrincipal attaches the authenticated principal to the context
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the authenticated principal, or nil for
// unauthenticated requests
func PrincipalFromContext(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalKey{}).(*Principal)
	return p
}

// JSONMap represents a generic JSON object
type JSONMap map[string]interface{}
