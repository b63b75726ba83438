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

func (r *patientRepository) Create(ctx context.Context, patient *model.Patient) error {
	patient.ID = uuid.New()
	patient.CreatedAt = time.Now()
	patient.UpdatedAt = patient.CreatedAt

	saved, err := r.Save(ctx, patient)
	if err != nil {
		return fmt.Errorf("failed to create patient: %w", err)
	}
	*patient = *saved
	return nil
}

func (r *patientRepository) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	return r.FindByID(ctx, id)
}

func (r *patientRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Patient, error) {
	query := fmt.Sprintf("SELECT %s FROM patients WHERE user_id = $1", r.selectList())

	var patient model.Patient
	if err := sqlx.GetContext(ctx, r.router.For(ctx), &patient, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("patient", err)
		}
		return nil, fmt.Errorf("failed to get patient by user: %w", err)
	}
	return &patient, nil
}

func (r *patientRepository) GetByPersonalHealthNumber(ctx context.Context, phn string) (*model.Patient, error) {
	query := fmt.Sprintf("SELECT %s FROM patients WHERE personal_health_number = $1", r.selectList())

	var patient model.Patient
	if err := sqlx.GetContext(ctx, r.router.For(ctx), &patient, query, phn); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("patient", err)
		}
		return nil, fmt.Errorf("failed to get patient by health number: %w", err)
	}
	return &patient, nil
}

func (r *patientRepository) List(ctx context.Context) ([]*model.Patient, error) {
	return r.FindMany(ctx, nil)
}

func (r *patientRepository) Update(ctx context.Context, id uuid.UUID, req *model.UpdatePatientRequest) (*model.Patient, error) {
	patch := map[string]interface{}{}
	if req.Name != nil {
		patch["name"] = *req.Name
	}
	if req.Email != nil {
		patch["email"] = *req.Email
	}
	if req.PhoneNumber != nil {
		patch["phone_number"] = *req.PhoneNumber
	}
	return r.ConditionalUpdate(ctx, id, nil, patch)
}
