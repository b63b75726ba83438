package medical

import (
	"context"

	"github.com/google/uuid"

	"github.com/healthdesk/clinic-api/internal/model"
	"github.com/healthdesk/clinic-api/internal/repository"
)

// Service owns medical records. Opening and deleting a record touch
// multiple collections and go through the coordinator; reads and field
// updates are single-row.
type Service struct {
	records     repository.MedicalRecordRepository
	coordinator repository.Coordinator
}

func NewService(records repository.MedicalRecordRepository, coordinator repository.Coordinator) *Service {
	return &Service{records: records, coordinator: coordinator}
}

// Open creates the record for an approved appointment, advancing the
// appointment to IN_PROGRESS and raising the payment in the same commit.
func (s *Service) Open(ctx context.Context, req *model.CreateMedicalRecordRequest) (*model.MedicalRecord, error) {
	return s.coordinator.OpenMedicalRecord(ctx, req)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.MedicalRecord, error) {
	return s.records.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, filter *model.MedicalRecordFilter) ([]*model.MedicalRecord, error) {
	return s.records.List(ctx, filter)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateMedicalRecordRequest) (*model.MedicalRecord, error) {
	return s.records.Update(ctx, id, req)
}

// Delete removes the record together with its payments and requisitions
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.coordinator.DeleteMedicalRecord(ctx, id)
}
