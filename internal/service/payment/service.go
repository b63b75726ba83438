package payment

import (
	"context"

	"github.com/google/uuid"

	"github.com/healthdesk/clinic-api/internal/model"
	"github.com/healthdesk/clinic-api/internal/repository"
)

type Service struct {
	payments repository.PaymentRepository
	records  repository.MedicalRecordRepository
}

func NewService(payments repository.PaymentRepository, records repository.MedicalRecordRepository) *Service {
	return &Service{payments: payments, records: records}
}

func (s *Service) Create(ctx context.Context, req *model.CreatePaymentRequest) (*model.Payment, error) {
	if _, err := s.records.Get(ctx, req.MedicalRecordID); err != nil {
		return nil, err
	}

	payment := &model.Payment{
		MedicalRecordID: req.MedicalRecordID,
		Amount:          req.Amount,
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, err
	}
	return payment, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Payment, error) {
	return s.payments.Get(ctx, id)
}

func (s *Service) ListByMedicalRecord(ctx context.Context, medicalRecordID uuid.UUID) ([]*model.Payment, error) {
	return s.payments.ListByMedicalRecord(ctx, medicalRecordID)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdatePaymentRequest) (*model.Payment, error) {
	return s.payments.Update(ctx, id, req)
}
