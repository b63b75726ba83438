package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/healthdesk/clinic-api/internal/model"
	"github.com/healthdesk/clinic-api/internal/repository"
)

func (r *medicalRecordRepository) Get(ctx context.Context, id uuid.UUID) (*model.MedicalRecord, error) {
	return r.FindByID(ctx, id)
}

func (r *medicalRecordRepository) List(ctx context.Context, filter *model.MedicalRecordFilter) ([]*model.MedicalRecord, error) {
	var f repository.Filter
	if filter != nil {
		if filter.PatientID != nil {
			f = f.Eq("patient_id", *filter.PatientID)
		}
		if filter.DoctorID != nil {
			f = f.Eq("doctor_id", *filter.DoctorID)
		}
		if filter.From != nil {
			f = f.Gte("created_at", *filter.From)
		}
		if filter.To != nil {
			f = f.Lte("created_at", *filter.To)
		}
	}
	return r.FindMany(ctx, f)
}

func (r *medicalRecordRepository) Update(ctx context.Context, id uuid.UUID, req *model.UpdateMedicalRecordRequest) (*model.MedicalRecord, error) {
	patch := map[string]interface{}{}
	if req.PatientDescription != nil {
		patch["patient_description"] = *req.PatientDescription
	}
	if req.DoctorNotes != nil {
		patch["doctor_notes"] = *req.DoctorNotes
	}
	if req.FinalDiagnosis != nil {
		patch["final_diagnosis"] = *req.FinalDiagnosis
	}
	if len(req.Requisitions) > 0 {
		patch["requisitions"] = req.Requisitions
	}
	if len(req.Prescriptions) > 0 {
		patch["prescriptions"] = req.Prescriptions
	}
	return r.ConditionalUpdate(ctx, id, nil, patch)
}
