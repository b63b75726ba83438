package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/healthdesk/clinic-api/internal/model"
	"github.com/healthdesk/clinic-api/pkg/apperror"
)

func (r *doctorRepository) Create(ctx context.Context, doctor *model.Doctor) error {
	doctor.ID = uuid.New()
	doctor.CreatedAt = time.Now()
	doctor.UpdatedAt = doctor.CreatedAt

	saved, err := r.Save(ctx, doctor)
	if err != nil {
		return fmt.Errorf("failed to create doctor: %w", err)
	}
	*doctor = *saved
	return nil
}

func (r *doctorRepository) Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	return r.FindByID(ctx, id)
}

func (r *doctorRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Doctor, error) {
	query := fmt.Sprintf("SELECT %s FROM doctors WHERE user_id = $1", r.selectList())

	var doctor model.Doctor
	if err := sqlx.GetContext(ctx, r.router.For(ctx), &doctor, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("doctor", err)
		}
		return nil, fmt.Errorf("failed to get doctor by user: %w", err)
	}
	return &doctor, nil
}

func (r *doctorRepository) GetByLicenseNumber(ctx context.Context, licenseNumber string) (*model.Doctor, error) {
	query := fmt.Sprintf("SELECT %s FROM doctors WHERE license_number = $1", r.selectList())

	var doctor model.Doctor
	if err := sqlx.GetContext(ctx, r.router.For(ctx), &doctor, query, licenseNumber); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("doctor", err)
		}
		return nil, fmt.Errorf("failed to get doctor by license: %w", err)
	}
	return &doctor, nil
}

func (r *doctorRepository) List(ctx context.Context) ([]*model.Doctor, error) {
	return r.FindMany(ctx, nil)
}

func (r *doctorRepository) Update(ctx context.Context, id uuid.UUID, req *model.UpdateDoctorRequest) (*model.Doctor, error) {
	patch := map[string]interface{}{}
	if req.Name != nil {
		patch["name"] = *req.Name
	}
	if req.Specialization != nil {
		patch["specialization"] = *req.Specialization
	}
	if req.Email != nil {
		patch["email"] = *req.Email
	}
	if req.PhoneNumber != nil {
		patch["phone_number"] = *req.PhoneNumber
	}
	return r.ConditionalUpdate(ctx, id, nil, patch)
}
