package model

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	assert.Equal(t, RoleAdmin, ParseRole("ADMIN"))
	assert.Equal(t, RoleDoctor, ParseRole("DOCTOR"))
	assert.Equal(t, RolePatient, ParseRole("PATIENT"))
	assert.Equal(t, RoleGuest, ParseRole("root"))
	assert.Equal(t, RoleGuest, ParseRole(""))
}

func TestPrincipalContextRoundTrip(t *testing.T) {
	assert.Nil(t, PrincipalFromContext(context.Background()))

	p := &Principal{UserID: uuid.New(), Roles: []Role{RoleDoctor}}
	ctx := WithPrincipal(context.Background(), p)
	assert.Same(t, p, PrincipalFromContext(ctx))
}

func TestHasRoleNilSafe(t *testing.T) {
	var p *Principal
	assert.False(t, p.HasRole(RoleAdmin))

	p = &Principal{Roles: []Role{RolePatient}}
	assert.True(t, p.HasRole(RolePatient))
	assert.False(t, p.HasRole(RoleAdmin))
}

func TestReleasingStatuses(t *testing.T) {
	assert.True(t, AppointmentStatusCancelled.Releasing())
	assert.True(t, AppointmentStatusRejected.Releasing())
	assert.False(t, AppointmentStatusApproved.Releasing())
	assert.False(t, AppointmentStatusCompleted.Releasing())
	assert.False(t, AppointmentStatusNoShow.Releasing())
}

func TestSlotDetailsScan(t *testing.T) {
	original := SlotDetails{
		SlotID:    uuid.New(),
		StartTime: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
	}
	value, err := original.Value()
	require.NoError(t, err)

	var scanned SlotDetails
	require.NoError(t, scanned.Scan(value))
	assert.Equal(t, original, scanned)

	assert.Error(t, scanned.Scan(42))
}

func TestResultColumnNull(t *testing.T) {
	var null ResultColumn
	value, err := null.Value()
	require.NoError(t, err)
	assert.Nil(t, value)

	raw, err := json.Marshal(null)
	require.NoError(t, err)
	assert.Equal(t, "null", string(raw))

	var scanned ResultColumn
	require.NoError(t, scanned.Scan(nil))
	assert.False(t, scanned.Valid)
}

func TestResultColumnRoundTrip(t *testing.T) {
	result := ResultColumn{
		RequisitionResult: RequisitionResult{
			Value:      "5.4",
			Unit:       "mmol/L",
			ObservedAt: time.Date(2026, 2, 10, 8, 0, 0, 0, time.UTC),
		},
		Valid: true,
	}

	value, err := result.Value()
	require.NoError(t, err)

	var scanned ResultColumn
	require.NoError(t, scanned.Scan(value))
	assert.True(t, scanned.Valid)
	assert.Equal(t, result.RequisitionResult, scanned.RequisitionResult)
}

func TestRolesValueEmpty(t *testing.T) {
	var roles Roles
	value, err := roles.Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", value)
}
