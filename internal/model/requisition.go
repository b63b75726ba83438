package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type RequisitionStatus string

const (
	RequisitionStatusPending       RequisitionStatus = "PENDING"
	RequisitionStatusPendingResult RequisitionStatus = "PENDING_RESULT"
	RequisitionStatusCompleted     RequisitionStatus = "COMPLETED"
)

// RequisitionResult is the lab outcome attached to a requisition
type RequisitionResult struct {
	Value       string    `json:"value"`
	Unit        string    `json:"unit,omitempty"`
	ObservedAt  time.Time `json:"observed_at"`
	Interpreted string    `json:"interpreted,omitempty"`
}

// ResultColumn stores an optional result as a JSONB column
type ResultColumn struct {
	RequisitionResult
	Valid bool
}

func (r ResultColumn) Value() (driver.Value, error) {
	if !r.Valid {
		return nil, nil
	}
	return json.Marshal(r.RequisitionResult)
}

func (r *ResultColumn) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		r.Valid = false
		return nil
	case []byte:
		r.Valid = true
		return json.Unmarshal(v, &r.RequisitionResult)
	case string:
		r.Valid = true
		return json.Unmarshal([]byte(v), &r.RequisitionResult)
	default:
		return fmt.Errorf("unsupported requisition result type %T", src)
	}
}

func (r ResultColumn) MarshalJSON() ([]byte, error) {
	if !r.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(r.RequisitionResult)
}

func (r *ResultColumn) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		r.Valid = false
		return nil
	}
	r.Valid = true
	return json.Unmarshal(data, &r.RequisitionResult)
}

// Requisition is a lab test ordered from a medical record
type Requisition struct {
	Base
	MedicalRecordID uuid.UUID         `db:"medical_record_id" json:"medical_record_id"`
	TestName        string            `db:"test_name" json:"test_name"`
	Status          RequisitionStatus `db:"status" json:"status"`
	Result          ResultColumn      `db:"result" json:"result"`
}

type CreateRequisitionRequest struct {
	MedicalRecordID uuid.UUID `json:"medical_record_id" binding:"required"`
	TestName        string    `json:"test_name" binding:"required"`
}

type UpdateRequisitionStatusRequest struct {
	Status RequisitionStatus `json:"status" binding:"required,oneof=PENDING PENDING_RESULT COMPLETED"`
}

type AttachResultRequest struct {
	Value       string    `json:"value" binding:"required"`
	Unit        string    `json:"unit"`
	ObservedAt  time.Time `json:"observed_at" binding:"required"`
	Interpreted string    `json:"interpreted"`
}
