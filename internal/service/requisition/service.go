package requisition

import (
	"context"

	"github.com/google/uuid"

	"github.com/healthdesk/clinic-api/internal/model"
	"github.com/healthdesk/clinic-api/internal/repository"
)

type Service struct {
	requisitions repository.RequisitionRepository
	records      repository.MedicalRecordRepository
}

func NewService(requisitions repository.RequisitionRepository, records repository.MedicalRecordRepository) *Service {
	return &Service{requisitions: requisitions, records: records}
}

func (s *Service) Create(ctx context.Context, req *model.CreateRequisitionRequest) (*model.Requisition, error) {
	if _, err := s.records.Get(ctx, req.MedicalRecordID); err != nil {
		return nil, err
	}

	requisition := &model.Requisition{
		MedicalRecordID: req.MedicalRecordID,
		TestName:        req.TestName,
	}
	if err := s.requisitions.Create(ctx, requisition); err != nil {
		return nil, err
	}
	return requisition, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Requisition, error) {
	return s.requisitions.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, medicalRecordID *uuid.UUID, status *model.RequisitionStatus) ([]*model.Requisition, error) {
	return s.requisitions.List(ctx, medicalRecordID, status)
}

// UpdateStatus moves the requisition along its lifecycle, typically to
// PENDING_RESULT once the ordered test is dispatched to the lab.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, req *model.UpdateRequisitionStatusRequest) (*model.Requisition, error) {
	return s.requisitions.UpdateStatus(ctx, id, req.Status)
}

// AttachResult completes the requisition with its result; a requisition
// that is already COMPLETED is left untouched.
func (s *Service) AttachResult(ctx context.Context, id uuid.UUID, req *model.AttachResultRequest) (*model.Requisition, error) {
	return s.requisitions.AttachResult(ctx, id, &model.RequisitionResult{
		Value:       req.Value,
		Unit:        req.Unit,
		ObservedAt:  req.ObservedAt,
		Interpreted: req.Interpreted,
	})
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.requisitions.Delete(ctx, id)
	return err
}
