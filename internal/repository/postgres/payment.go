package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/healthdesk/clinic-api/internal/model"
)

func (r *paymentRepository) Create(ctx context.Context, payment *model.Payment) error {
	payment.ID = uuid.New()
	if payment.Status == "" {
		payment.Status = model.PaymentStatusPending
	}
	payment.RequestedAt = time.Now()
	payment.UpdatedAt = payment.RequestedAt

	saved, err := r.Save(ctx, payment)
	if err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}
	*payment = *saved
	return nil
}

func (r *paymentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Payment, error) {
	return r.FindByID(ctx, id)
}

func (r *paymentRepository) ListByMedicalRecord(ctx context.Context, medicalRecordID uuid.UUID) ([]*model.Payment, error) {
	query := `
		SELECT id, medical_record_id, amount, status, requested_at, updated_at
		FROM payments
		WHERE medical_record_id = $1
		ORDER BY requested_at ASC
	`
	var payments []*model.Payment
	if err := sqlx.SelectContext(ctx, r.router.For(ctx), &payments, query, medicalRecordID); err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return payments, nil
}

func (r *paymentRepository) Update(ctx context.Context, id uuid.UUID, req *model.UpdatePaymentRequest) (*model.Payment, error) {
	patch := map[string]interface{}{}
	if req.Status != nil {
		patch["status"] = *req.Status
	}
	if req.Amount != nil {
		patch["amount"] = *req.Amount
	}
	return r.ConditionalUpdate(ctx, id, nil, patch)
}
