package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Roles stores the role list as a JSONB column
type Roles []Role

func (r Roles) Value() (driver.Value, error) {
	if r == nil {
		return "[]", nil
	}
	return json.Marshal(r)
}

func (r *Roles) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*r = nil
		return nil
	case []byte:
		return json.Unmarshal(v, r)
	case string:
		return json.Unmarshal([]byte(v), r)
	default:
		return fmt.Errorf("unsupported roles type %T", src)
	}
}

// User is a login account bound to exactly one doctor or patient record
// through RoleID. JWTID holds the jti of the most recently issued refresh
// token; older refresh tokens fail closed against it.
type User struct {
	Base
	RoleID       uuid.UUID  `db:"role_id" json:"role_id"`
	Name         string     `db:"name" json:"name"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	DateOfBirth  time.Time  `db:"date_of_birth" json:"date_of_birth"`
	PhoneNumber  *string    `db:"phone_number" json:"phone_number,omitempty"`
	Roles        Roles      `db:"roles" json:"roles"`
	JWTID        *string    `db:"jwt_id" json:"-"`
	LastLoginAt  *time.Time `db:"last_login_at" json:"last_login_at,omitempty"`
}
