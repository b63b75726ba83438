package model

import (
	"time"

	"github.com/google/uuid"
)

type SlotStatus string

const (
	SlotStatusAvailable       SlotStatus = "AVAILABLE"
	SlotStatusBooked          SlotStatus = "BOOKED"
	SlotStatusPendingApproval SlotStatus = "PENDING_APPROVAL"
	SlotStatusApproved        SlotStatus = "APPROVED"
	SlotStatusRejected        SlotStatus = "REJECTED"
	SlotStatusCompleted       SlotStatus = "COMPLETED"
	SlotStatusCancelled       SlotStatus = "CANCELLED"
	SlotStatusNoShow          SlotStatus = "NO_SHOW"
)

// Slot is a bookable doctor time window. A slot leaves AVAILABLE only
// together with creation of exactly one appointment referencing it.
type Slot struct {
	Base
	DoctorID  uuid.UUID  `db:"doctor_id" json:"doctor_id"`
	PatientID *uuid.UUID `db:"patient_id" json:"patient_id,omitempty"`
	StartTime time.Time  `db:"start_time" json:"start_time"`
	EndTime   time.Time  `db:"end_time" json:"end_time"`
	Status    SlotStatus `db:"status" json:"status"`
}

type CreateSlotRequest struct {
	DoctorID  uuid.UUID `json:"doctor_id" binding:"required"`
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time" binding:"required,gtfield=StartTime"`
}

// SlotFilter narrows slot listings; zero fields are ignored. Repeating the
// status parameter matches slots in any of the given statuses.
type SlotFilter struct {
	DoctorID *uuid.UUID   `form:"doctor_id"`
	From     *time.Time   `form:"from"`
	To       *time.Time   `form:"to"`
	Statuses []SlotStatus `form:"status"`
}
