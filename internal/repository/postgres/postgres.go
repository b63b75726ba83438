package postgres

import (
	"github.com/healthdesk/clinic-api/internal/model"
	"github.com/healthdesk/clinic-api/internal/repository"
)

// Column lists are shared between the gateways and the coordinator so
// RETURNING clauses always produce scannable rows.
var (
	slotCols = []string{"id", "doctor_id", "patient_id", "start_time", "end_time", "status", "created_at", "updated_at"}

	appointmentCols = []string{"id", "patient_id", "doctor_id", "slot", "patient_name", "doctor_name",
		"doctor_specialization", "visit_reason", "status", "created_at", "updated_at"}

	medicalRecordCols = []string{"id", "patient_id", "doctor_id", "appointment_id", "visit_reason",
		"patient_description", "doctor_notes", "final_diagnosis", "requisitions", "prescriptions",
		"billing_amount", "created_at", "updated_at"}

	paymentCols = []string{"id", "medical_record_id", "amount", "status", "requested_at", "updated_at"}

	requisitionCols = []string{"id", "medical_record_id", "test_name", "status", "result", "created_at", "updated_at"}

	doctorCols = []string{"id", "name", "license_number", "specialization", "email", "phone_number",
		"user_id", "created_at", "updated_at"}

	patientCols = []string{"id", "name", "personal_health_number", "date_of_birth", "email",
		"phone_number", "user_id", "created_at", "updated_at"}

	userCols = []string{"id", "role_id", "name", "email", "password_hash", "date_of_birth",
		"phone_number", "roles", "jwt_id", "last_login_at", "created_at", "updated_at"}

	outboxCols = []string{"id", "event_type", "payload", "status", "created_at", "processed_at"}
)

type slotRepository struct {
	*gateway[model.Slot]
}

type appointmentRepository struct {
	*gateway[model.Appointment]
}

type medicalRecordRepository struct {
	*gateway[model.MedicalRecord]
}

type paymentRepository struct {
	*gateway[model.Payment]
}

type requisitionRepository struct {
	*gateway[model.Requisition]
}

type doctorRepository struct {
	*gateway[model.Doctor]
}

type patientRepository struct {
	*gateway[model.Patient]
}

type userRepository struct {
	*gateway[model.User]
}

type outboxRepository struct {
	router *StoreRouter
}

type analyticsRepository struct {
	router *StoreRouter
}

func NewSlotRepository(router *StoreRouter) repository.SlotRepository {
	return &slotRepository{newGateway[model.Slot](router, "slots", "slot", slotCols...)}
}

func NewAppointmentRepository(router *StoreRouter) repository.AppointmentRepository {
	return &appointmentRepository{newGateway[model.Appointment](router, "appointments", "appointment", appointmentCols...)}
}

func NewMedicalRecordRepository(router *StoreRouter) repository.MedicalRecordRepository {
	return &medicalRecordRepository{newGateway[model.MedicalRecord](router, "medical_records", "medical record", medicalRecordCols...)}
}

func NewPaymentRepository(router *StoreRouter) repository.PaymentRepository {
	return &paymentRepository{newGateway[model.Payment](router, "payments", "payment", paymentCols...)}
}

func NewRequisitionRepository(router *StoreRouter) repository.RequisitionRepository {
	return &requisitionRepository{newGateway[model.Requisition](router, "requisitions", "requisition", requisitionCols...)}
}

func NewDoctorRepository(router *StoreRouter) repository.DoctorRepository {
	return &doctorRepository{newGateway[model.Doctor](router, "doctors", "doctor", doctorCols...)}
}

func NewPatientRepository(router *StoreRouter) repository.PatientRepository {
	return &patientRepository{newGateway[model.Patient](router, "patients", "patient", patientCols...)}
}

func NewUserRepository(router *StoreRouter) repository.UserRepository {
	return &userRepository{newGateway[model.User](router, "users", "user", userCols...)}
}

func NewOutboxRepository(router *StoreRouter) repository.OutboxRepository {
	return &outboxRepository{router: router}
}

func NewAnalyticsRepository(router *StoreRouter) repository.AnalyticsRepository {
	return &analyticsRepository{router: router}
}
