package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/healthdesk/clinic-api/internal/model"
	"github.com/healthdesk/clinic-api/internal/repository"
)

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	return r.FindByID(ctx, id)
}

func (r *appointmentRepository) List(ctx context.Context, filter *model.AppointmentFilter) ([]*model.Appointment, error) {
	var f repository.Filter
	if filter != nil {
		if filter.PatientID != nil {
			f = f.Eq("patient_id", *filter.PatientID)
		}
		if filter.DoctorID != nil {
			f = f.Eq("doctor_id", *filter.DoctorID)
		}
		// the slot snapshot is a JSONB document; range filters address its
		// embedded times
		if filter.From != nil {
			f = f.Gte("(slot->>'start_time')::timestamptz", *filter.From)
		}
		if filter.To != nil {
			f = f.Lte("(slot->>'end_time')::timestamptz", *filter.To)
		}
		if filter.Status != nil {
			f = f.Eq("status", *filter.Status)
		}
	}
	return r.FindMany(ctx, f)
}

func (r *appointmentRepository) Delete(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	return r.ConditionalDelete(ctx, id, nil)
}
