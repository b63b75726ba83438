package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/healthdesk/clinic-api/internal/model"
	"github.com/healthdesk/clinic-api/internal/repository"
)

func (r *slotRepository) Create(ctx context.Context, slot *model.Slot) error {
	slot.ID = uuid.New()
	slot.Status = model.SlotStatusAvailable
	slot.CreatedAt = time.Now()
	slot.UpdatedAt = slot.CreatedAt

	saved, err := r.Save(ctx, slot)
	if err != nil {
		return fmt.Errorf("failed to create slot: %w", err)
	}
	*slot = *saved
	return nil
}

func (r *slotRepository) Get(ctx context.Context, id uuid.UUID) (*model.Slot, error) {
	return r.FindByID(ctx, id)
}

func (r *slotRepository) List(ctx context.Context, filter *model.SlotFilter) ([]*model.Slot, error) {
	var f repository.Filter
	if filter != nil {
		if filter.DoctorID != nil {
			f = f.Eq("doctor_id", *filter.DoctorID)
		}
		if filter.From != nil {
			f = f.Gte("start_time", *filter.From)
		}
		if filter.To != nil {
			f = f.Lte("end_time", *filter.To)
		}
		if len(filter.Statuses) > 0 {
			statuses := make([]interface{}, len(filter.Statuses))
			for i, status := range filter.Statuses {
				statuses[i] = string(status)
			}
			f = f.In("status", statuses...)
		}
	}
	return r.FindMany(ctx, f)
}

func (r *slotRepository) Release(ctx context.Context, id uuid.UUID) (*model.Slot, error) {
	return r.ConditionalUpdate(ctx, id, nil, map[string]interface{}{
		"status":     model.SlotStatusAvailable,
		"patient_id": nil,
	})
}

func (r *slotRepository) DeleteAvailable(ctx context.Context, id uuid.UUID) (*model.Slot, error) {
	return r.ConditionalDelete(ctx, id, map[string]interface{}{
		"status": model.SlotStatusAvailable,
	})
}
