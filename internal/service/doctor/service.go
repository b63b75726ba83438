package doctor

import (
	"context"

	"github.com/google/uuid"

	"github.com/healthdesk/clinic-api/internal/model"
	"github.com/healthdesk/clinic-api/internal/repository"
)

type Service struct {
	doctors     repository.DoctorRepository
	coordinator repository.Coordinator
}

func NewService(doctors repository.DoctorRepository, coordinator repository.Coordinator) *Service {
	return &Service{doctors: doctors, coordinator: coordinator}
}

func (s *Service) Create(ctx context.Context, req *model.CreateDoctorRequest) (*model.Doctor, error) {
	doctor := &model.Doctor{
		Name:           req.Name,
		LicenseNumber:  req.LicenseNumber,
		Specialization: req.Specialization,
	}
	if err := s.doctors.Create(ctx, doctor); err != nil {
		return nil, err
	}
	return doctor, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	return s.doctors.Get(ctx, id)
}

func (s *Service) GetByUser(ctx context.Context, userID uuid.UUID) (*model.Doctor, error) {
	return s.doctors.GetByUserID(ctx, userID)
}

func (s *Service) List(ctx context.Context) ([]*model.Doctor, error) {
	return s.doctors.List(ctx)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateDoctorRequest) (*model.Doctor, error) {
	return s.doctors.Update(ctx, id, req)
}

// Delete removes the doctor and all their slots; false means the doctor
// was already gone.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.coordinator.DeleteDoctor(ctx, id)
}
