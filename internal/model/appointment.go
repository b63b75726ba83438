package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusPendingApproval AppointmentStatus = "PENDING_APPROVAL"
	AppointmentStatusApproved        AppointmentStatus = "APPROVED"
	AppointmentStatusRejected        AppointmentStatus = "REJECTED"
	AppointmentStatusInProgress      AppointmentStatus = "IN_PROGRESS"
	AppointmentStatusCompleted       AppointmentStatus = "COMPLETED"
	AppointmentStatusCancelled       AppointmentStatus = "CANCELLED"
	AppointmentStatusNoShow          AppointmentStatus = "NO_SHOW"
)

// Releasing reports whether the status hands the slot back to AVAILABLE
func (s AppointmentStatus) Releasing() bool {
	return s == AppointmentStatusCancelled || s == AppointmentStatusRejected
}

// Terminal reports whether the appointment ran to its end; the slot of a
// terminal appointment is spent and never returns to AVAILABLE.
func (s AppointmentStatus) Terminal() bool {
	return s == AppointmentStatusCompleted || s == AppointmentStatusNoShow
}

// SlotDetails is the slot snapshot embedded in an appointment at booking time
type SlotDetails struct {
	SlotID    uuid.UUID `db:"slot_id" json:"slot_id"`
	StartTime time.Time `db:"start_time" json:"start_time"`
	EndTime   time.Time `db:"end_time" json:"end_time"`
}

// SlotDetails is stored as a JSONB column, mirroring the embedded shape
// it had as a sub-document.
func (d SlotDetails) Value() (driver.Value, error) {
	return json.Marshal(d)
}

func (d *SlotDetails) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, d)
	case string:
		return json.Unmarshal([]byte(v), d)
	default:
		return fmt.Errorf("unsupported slot details type %T", src)
	}
}

// Appointment is a patient's reservation of a slot. Doctor and patient
// name fields are denormalized snapshots taken at booking time; they can
// go stale relative to later doctor or patient edits, which is accepted
// in exchange for join-free reads.
type Appointment struct {
	Base
	PatientID            uuid.UUID         `db:"patient_id" json:"patient_id"`
	DoctorID             uuid.UUID         `db:"doctor_id" json:"doctor_id"`
	Slot                 SlotDetails       `db:"slot" json:"slot"`
	PatientName          string            `db:"patient_name" json:"patient_name"`
	DoctorName           string            `db:"doctor_name" json:"doctor_name"`
	DoctorSpecialization string            `db:"doctor_specialization" json:"doctor_specialization"`
	VisitReason          string            `db:"visit_reason" json:"visit_reason"`
	Status               AppointmentStatus `db:"status" json:"status"`
}

type CreateAppointmentRequest struct {
	SlotID      uuid.UUID `json:"slot_id" binding:"required"`
	VisitReason string    `json:"visit_reason" binding:"required,max=1000"`
}

type UpdateAppointmentRequest struct {
	Status      AppointmentStatus `json:"status" binding:"required,appointmentstatus"`
	VisitReason *string           `json:"visit_reason" binding:"omitempty,max=1000"`
}

// AppointmentFilter narrows appointment listings; zero fields are ignored
type AppointmentFilter struct {
	PatientID *uuid.UUID         `form:"patient_id"`
	DoctorID  *uuid.UUID         `form:"doctor_id"`
	From      *time.Time         `form:"from"`
	To        *time.Time         `form:"to"`
	Status    *AppointmentStatus `form:"status"`
}
