package model

import (
	"time"

	"github.com/google/uuid"
)

type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "PENDING"
	PaymentStatusProcessing PaymentStatus = "PROCESSING"
	PaymentStatusCompleted  PaymentStatus = "COMPLETED"
	PaymentStatusFailed     PaymentStatus = "FAILED"
)

// Payment bills one medical record. The store keeps at most one payment
// per record; the list-returning lookup is kept for a future
// multi-payment shape.
type Payment struct {
	ID              uuid.UUID     `db:"id" json:"id"`
	MedicalRecordID uuid.UUID     `db:"medical_record_id" json:"medical_record_id"`
	Amount          float64       `db:"amount" json:"amount"`
	Status          PaymentStatus `db:"status" json:"status"`
	RequestedAt     time.Time     `db:"requested_at" json:"requested_at"`
	UpdatedAt       time.Time     `db:"updated_at" json:"updated_at"`
}

type CreatePaymentRequest struct {
	MedicalRecordID uuid.UUID `json:"medical_record_id" binding:"required"`
	Amount          float64   `json:"amount" binding:"required,gt=0"`
}

type UpdatePaymentRequest struct {
	Status *PaymentStatus `json:"status" binding:"omitempty,oneof=PENDING PROCESSING COMPLETED FAILED"`
	Amount *float64       `json:"amount" binding:"omitempty,gt=0"`
}
