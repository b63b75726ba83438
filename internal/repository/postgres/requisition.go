package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/healthdesk/clinic-api/internal/model"
	"github.com/healthdesk/clinic-api/internal/repository"
	"github.com/healthdesk/clinic-api/pkg/apperror"
)

func (r *requisitionRepository) Create(ctx context.Context, requisition *model.Requisition) error {
	requisition.ID = uuid.New()
	requisition.Status = model.RequisitionStatusPending
	requisition.CreatedAt = time.Now()
	requisition.UpdatedAt = requisition.CreatedAt

	saved, err := r.Save(ctx, requisition)
	if err != nil {
		return fmt.Errorf("failed to create requisition: %w", err)
	}
	*requisition = *saved
	return nil
}

func (r *requisitionRepository) Get(ctx context.Context, id uuid.UUID) (*model.Requisition, error) {
	return r.FindByID(ctx, id)
}

func (r *requisitionRepository) List(ctx context.Context, medicalRecordID *uuid.UUID, status *model.RequisitionStatus) ([]*model.Requisition, error) {
	var f repository.Filter
	if medicalRecordID != nil {
		f = f.Eq("medical_record_id", *medicalRecordID)
	}
	if status != nil {
		f = f.Eq("status", *status)
	}
	return r.FindMany(ctx, f)
}

func (r *requisitionRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.RequisitionStatus) (*model.Requisition, error) {
	return r.ConditionalUpdate(ctx, id, nil, map[string]interface{}{"status": status})
}

// AttachResult completes the requisition with its result; completing an
// already completed requisition loses the race and reports NotFound.
func (r *requisitionRepository) AttachResult(ctx context.Context, id uuid.UUID, result *model.RequisitionResult) (*model.Requisition, error) {
	query := `
		UPDATE requisitions
		SET status = $1, result = $2, updated_at = now()
		WHERE id = $3 AND status <> $1
		RETURNING id, medical_record_id, test_name, status, result, created_at, updated_at
	`
	resultCol := model.ResultColumn{RequisitionResult: *result, Valid: true}

	var updated model.Requisition
	err := r.router.For(ctx).QueryRowxContext(ctx, query, model.RequisitionStatusCompleted, resultCol, id).StructScan(&updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("requisition", err)
		}
		return nil, fmt.Errorf("failed to attach requisition result: %w", err)
	}
	return &updated, nil
}

func (r *requisitionRepository) Delete(ctx context.Context, id uuid.UUID) (*model.Requisition, error) {
	return r.ConditionalDelete(ctx, id, nil)
}
