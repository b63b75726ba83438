package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type OutboxStatus string

const (
	OutboxStatusPending   OutboxStatus = "PENDING"
	OutboxStatusProcessed OutboxStatus = "PROCESSED"
	OutboxStatusFailed    OutboxStatus = "FAILED"
)

// Event types written by the coordinators
const (
	EventAppointmentBooked   = "appointment.booked"
	EventAppointmentUpdated  = "appointment.updated"
	EventMedicalRecordOpened = "medical_record.created"
	EventMedicalRecordPurged = "medical_record.deleted"
	EventDoctorDeleted       = "doctor.deleted"
)

// OutboxEvent is written in the same transaction as the state change it
// describes and published asynchronously by the outbox worker.
type OutboxEvent struct {
	ID          uuid.UUID       `db:"id" json:"id"`
	EventType   string          `db:"event_type" json:"event_type"`
	Payload     json.RawMessage `db:"payload" json:"payload"`
	Status      OutboxStatus    `db:"status" json:"status"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	ProcessedAt *time.Time      `db:"processed_at" json:"processed_at,omitempty"`
}
