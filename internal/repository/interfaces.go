package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/healthdesk/clinic-api/internal/model"
)

// Op is a filter predicate operator
type Op string

const (
	OpEq  Op = "="
	OpGte Op = ">="
	OpLte Op = "<="
	OpIn  Op = "IN"
)

// Predicate is a single field condition
type Predicate struct {
	Field string
	Op    Op
	Value interface{}
}

// Filter is a conjunction of field predicates
type Filter []Predicate

func (f Filter) Eq(field string, value interface{}) Filter {
	return append(f, Predicate{Field: field, Op: OpEq, Value: value})
}

func (f Filter) Gte(field string, value interface{}) Filter {
	return append(f, Predicate{Field: field, Op: OpGte, Value: value})
}

func (f Filter) Lte(field string, value interface{}) Filter {
	return append(f, Predicate{Field: field, Op: OpLte, Value: value})
}

func (f Filter) In(field string, values ...interface{}) Filter {
	return append(f, Predicate{Field: field, Op: OpIn, Value: values})
}

// Gateway provides generic single-collection primitives. ConditionalUpdate
// and ConditionalDelete apply only when the row matches id AND criteria, in
// one round trip; every status change in the system goes through them so a
// lost race surfaces as NotFound instead of a silent overwrite.
type Gateway[T any] interface {
	FindByID(ctx context.Context, id uuid.UUID) (*T, error)
	FindMany(ctx context.Context, filter Filter) ([]*T, error)
	Save(ctx context.Context, entity *T) (*T, error)
	ConditionalUpdate(ctx context.Context, id uuid.UUID, criteria, patch map[string]interface{}) (*T, error)
	ConditionalDelete(ctx context.Context, id uuid.UUID, criteria map[string]interface{}) (*T, error)
}

// All repository interfaces in one file
type (
	SlotRepository interface {
		Create(ctx context.Context, slot *model.Slot) error
		Get(ctx context.Context, id uuid.UUID) (*model.Slot, error)
		List(ctx context.Context, filter *model.SlotFilter) ([]*model.Slot, error)
		// Release puts the slot back to AVAILABLE regardless of its current
		// non-terminal status; idempotent.
		Release(ctx context.Context, id uuid.UUID) (*model.Slot, error)
		// DeleteAvailable deletes the slot only while it is still AVAILABLE,
		// so a booked slot can never orphan its appointment.
		DeleteAvailable(ctx context.Context, id uuid.UUID) (*model.Slot, error)
	}

	AppointmentRepository interface {
		Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
		List(ctx context.Context, filter *model.AppointmentFilter) ([]*model.Appointment, error)
		Delete(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
	}

	MedicalRecordRepository interface {
		Get(ctx context.Context, id uuid.UUID) (*model.MedicalRecord, error)
		List(ctx context.Context, filter *model.MedicalRecordFilter) ([]*model.MedicalRecord, error)
		Update(ctx context.Context, id uuid.UUID, req *model.UpdateMedicalRecordRequest) (*model.MedicalRecord, error)
	}

	PaymentRepository interface {
		Create(ctx context.Context, payment *model.Payment) error
		Get(ctx context.Context, id uuid.UUID) (*model.Payment, error)
		ListByMedicalRecord(ctx context.Context, medicalRecordID uuid.UUID) ([]*model.Payment, error)
		Update(ctx context.Context, id uuid.UUID, req *model.UpdatePaymentRequest) (*model.Payment, error)
	}

	RequisitionRepository interface {
		Create(ctx context.Context, requisition *model.Requisition) error
		Get(ctx context.Context, id uuid.UUID) (*model.Requisition, error)
		List(ctx context.Context, medicalRecordID *uuid.UUID, status *model.RequisitionStatus) ([]*model.Requisition, error)
		// UpdateStatus moves the requisition along PENDING -> PENDING_RESULT
		// -> COMPLETED without touching the result.
		UpdateStatus(ctx context.Context, id uuid.UUID, status model.RequisitionStatus) (*model.Requisition, error)
		// AttachResult moves PENDING or PENDING_RESULT to COMPLETED with the
		// result attached, conditionally on the current status.
		AttachResult(ctx context.Context, id uuid.UUID, result *model.RequisitionResult) (*model.Requisition, error)
		Delete(ctx context.Context, id uuid.UUID) (*model.Requisition, error)
	}

	DoctorRepository interface {
		Create(ctx context.Context, doctor *model.Doctor) error
		Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error)
		GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Doctor, error)
		GetByLicenseNumber(ctx context.Context, licenseNumber string) (*model.Doctor, error)
		List(ctx context.Context) ([]*model.Doctor, error)
		Update(ctx context.Context, id uuid.UUID, req *model.UpdateDoctorRequest) (*model.Doctor, error)
	}

	PatientRepository interface {
		Create(ctx context.Context, patient *model.Patient) error
		Get(ctx context.Context, id uuid.UUID) (*model.Patient, error)
		GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Patient, error)
		GetByPersonalHealthNumber(ctx context.Context, phn string) (*model.Patient, error)
		List(ctx context.Context) ([]*model.Patient, error)
		Update(ctx context.Context, id uuid.UUID, req *model.UpdatePatientRequest) (*model.Patient, error)
	}

	UserRepository interface {
		Get(ctx context.Context, id uuid.UUID) (*model.User, error)
		GetByEmail(ctx context.Context, email string) (*model.User, error)
		List(ctx context.Context) ([]*model.User, error)
		// SetRefreshTokenID overwrites the stored jti, invalidating every
		// previously issued refresh token for the user.
		SetRefreshTokenID(ctx context.Context, id uuid.UUID, jti string) error
	}

	OutboxRepository interface {
		FetchPending(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
		MarkProcessed(ctx context.Context, id uuid.UUID) error
		MarkFailed(ctx context.Context, id uuid.UUID) error
	}

	AnalyticsRepository interface {
		TopDoctors(ctx context.Context, from, to time.Time, limit int) ([]*model.TopDoctorRow, error)
		SpecialtyStats(ctx context.Context, from, to time.Time) ([]*model.SpecialtyStatsRow, error)
		AgeDistribution(ctx context.Context) ([]*model.AgeBucketRow, error)
		DoctorCountBySpecialty(ctx context.Context) ([]*model.SpecialtyDoctorCountRow, error)
		RoleDistribution(ctx context.Context) ([]*model.RoleDistributionRow, error)
	}

	// Coordinator owns every multi-collection transaction. Each operation is
	// all-or-nothing and retried on transient transaction conflicts before a
	// terminal failure is surfaced.
	Coordinator interface {
		// BookAppointment flips the slot AVAILABLE -> BOOKED, snapshots the
		// doctor and patient, and inserts the PENDING_APPROVAL appointment in
		// one transaction. Exactly one of N concurrent calls for the same slot
		// succeeds; the rest fail with a Conflict.
		BookAppointment(ctx context.Context, patientID, slotID uuid.UUID, visitReason string) (*model.Appointment, error)
		// UpdateAppointmentStatus applies the status change and writes the
		// appointment.updated event in the same transaction.
		UpdateAppointmentStatus(ctx context.Context, id uuid.UUID, status model.AppointmentStatus, visitReason *string) (*model.Appointment, error)
		// OpenMedicalRecord advances an APPROVED or IN_PROGRESS appointment,
		// inserts the record and, when a billing amount is present, a PENDING
		// payment.
		OpenMedicalRecord(ctx context.Context, req *model.CreateMedicalRecordRequest) (*model.MedicalRecord, error)
		// DeleteDoctor removes the doctor and all their slots; absent doctor
		// reports false rather than an error.
		DeleteDoctor(ctx context.Context, id uuid.UUID) (bool, error)
		// DeleteMedicalRecord removes the record together with its payments;
		// a record with no payment is a broken invariant and reports NotFound.
		DeleteMedicalRecord(ctx context.Context, id uuid.UUID) error
		// RegisterUser inserts the user and claims the unclaimed doctor or
		// patient record; a lost claim aborts the whole registration.
		RegisterUser(ctx context.Context, identity model.IdentityType, roleID uuid.UUID, user *model.User) (*model.User, error)
	}
)
