package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Prescription is a single prescribed medication on a medical record
type Prescription struct {
	Medication string `json:"medication"`
	Dosage     string `json:"dosage"`
	Frequency  string `json:"frequency"`
	Duration   string `json:"duration"`
}

// Prescriptions stores the prescription list as a JSONB column
type Prescriptions []Prescription

func (p Prescriptions) Value() (driver.Value, error) {
	if p == nil {
		return "[]", nil
	}
	return json.Marshal(p)
}

func (p *Prescriptions) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*p = nil
		return nil
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	default:
		return fmt.Errorf("unsupported prescriptions type %T", src)
	}
}

// RequisitionIDs stores linked requisition ids as a JSONB column
type RequisitionIDs []uuid.UUID

func (r RequisitionIDs) Value() (driver.Value, error) {
	if r == nil {
		return "[]", nil
	}
	return json.Marshal(r)
}

func (r *RequisitionIDs) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*r = nil
		return nil
	case []byte:
		return json.Unmarshal(v, r)
	case string:
		return json.Unmarshal([]byte(v), r)
	default:
		return fmt.Errorf("unsupported requisition ids type %T", src)
	}
}

// MedicalRecord captures the clinical outcome of one appointment
type MedicalRecord struct {
	Base
	PatientID          uuid.UUID      `db:"patient_id" json:"patient_id"`
	DoctorID           uuid.UUID      `db:"doctor_id" json:"doctor_id"`
	AppointmentID      uuid.UUID      `db:"appointment_id" json:"appointment_id"`
	VisitReason        string         `db:"visit_reason" json:"visit_reason"`
	PatientDescription string         `db:"patient_description" json:"patient_description"`
	DoctorNotes        string         `db:"doctor_notes" json:"doctor_notes,omitempty"`
	FinalDiagnosis     string         `db:"final_diagnosis" json:"final_diagnosis,omitempty"`
	Requisitions       RequisitionIDs `db:"requisitions" json:"requisitions,omitempty"`
	Prescriptions      Prescriptions  `db:"prescriptions" json:"prescriptions,omitempty"`
	BillingAmount      *float64       `db:"billing_amount" json:"billing_amount,omitempty"`
}

type CreateMedicalRecordRequest struct {
	AppointmentID      uuid.UUID `json:"appointment_id" binding:"required"`
	PatientDescription string    `json:"patient_description" binding:"required"`
	DoctorNotes        string    `json:"doctor_notes"`
	BillingAmount      *float64  `json:"billing_amount" binding:"omitempty,gt=0"`
}

type UpdateMedicalRecordRequest struct {
	PatientDescription *string        `json:"patient_description"`
	DoctorNotes        *string        `json:"doctor_notes"`
	FinalDiagnosis     *string        `json:"final_diagnosis"`
	Requisitions       RequisitionIDs `json:"requisitions"`
	Prescriptions      Prescriptions  `json:"prescriptions"`
}

// MedicalRecordFilter narrows record listings; zero fields are ignored
type MedicalRecordFilter struct {
	PatientID *uuid.UUID `form:"patient_id"`
	DoctorID  *uuid.UUID `form:"doctor_id"`
	From      *time.Time `form:"from"`
	To        *time.Time `form:"to"`
}
