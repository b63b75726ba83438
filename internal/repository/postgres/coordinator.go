package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/healthdesk/clinic-api/internal/model"
	"github.com/healthdesk/clinic-api/internal/repository"
	"github.com/healthdesk/clinic-api/pkg/apperror"
	"github.com/healthdesk/clinic-api/pkg/metrics"
)

// coordinator implements every multi-collection write as a single
// serializable transaction on the caller's handle. Outbox events ride in
// the same transaction as the state change they announce.
type coordinator struct {
	router  *StoreRouter
	metrics *metrics.Metrics
}

func NewCoordinator(router *StoreRouter, m *metrics.Metrics) repository.Coordinator {
	return &coordinator{router: router, metrics: m}
}

func (c *coordinator) runTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	return runTx(ctx, c.router.For(ctx), c.metrics, fn)
}

func (c *coordinator) observeBooking(outcome string) {
	if c.metrics != nil {
		c.metrics.BookingAttempts.WithLabelValues(outcome).Inc()
	}
}

func (c *coordinator) BookAppointment(ctx context.Context, patientID, slotID uuid.UUID, visitReason string) (*model.Appointment, error) {
	var appointment *model.Appointment

	err := c.runTx(ctx, func(tx *sqlx.Tx) error {
		slot, err := condUpdate[model.Slot](ctx, tx, "slots", "slot", slotCols, slotID,
			map[string]interface{}{"status": model.SlotStatusAvailable},
			map[string]interface{}{"status": model.SlotStatusBooked, "patient_id": patientID})
		if err != nil {
			if errors.Is(err, apperror.NotFound("slot", nil)) {
				if _, getErr := txGet[model.Slot](ctx, tx, "slots", "slot", slotCols, slotID); getErr == nil {
					return apperror.Conflict("slot is no longer available", err)
				}
			}
			return err
		}

		doctor, err := txGet[model.Doctor](ctx, tx, "doctors", "doctor", doctorCols, slot.DoctorID)
		if err != nil {
			return err
		}
		patient, err := txGet[model.Patient](ctx, tx, "patients", "patient", patientCols, patientID)
		if err != nil {
			return err
		}

		now := time.Now()
		appointment, err = txInsert(ctx, tx, "appointments", "appointment", appointmentCols, &model.Appointment{
			Base:      model.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
			PatientID: patient.ID,
			DoctorID:  doctor.ID,
			Slot: model.SlotDetails{
				SlotID:    slot.ID,
				StartTime: slot.StartTime,
				EndTime:   slot.EndTime,
			},
			PatientName:          patient.Name,
			DoctorName:           doctor.Name,
			DoctorSpecialization: doctor.Specialization,
			VisitReason:          visitReason,
			Status:               model.AppointmentStatusPendingApproval,
		})
		if err != nil {
			return err
		}

		return insertOutbox(ctx, tx, model.EventAppointmentBooked, appointment)
	})
	switch {
	case err == nil:
		c.observeBooking("booked")
	case apperror.CodeOf(err) == apperror.CodeConflict:
		c.observeBooking("conflict")
	default:
		c.observeBooking("failed")
	}
	if err != nil {
		return nil, err
	}
	return appointment, nil
}

// UpdateAppointmentStatus applies the status change and enqueues the
// matching event in the same transaction.
func (c *coordinator) UpdateAppointmentStatus(ctx context.Context, id uuid.UUID, status model.AppointmentStatus, visitReason *string) (*model.Appointment, error) {
	patch := map[string]interface{}{"status": status}
	if visitReason != nil {
		patch["visit_reason"] = *visitReason
	}

	var appointment *model.Appointment
	err := c.runTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		appointment, err = condUpdate[model.Appointment](ctx, tx, "appointments", "appointment", appointmentCols, id, nil, patch)
		if err != nil {
			return err
		}
		return insertOutbox(ctx, tx, model.EventAppointmentUpdated, appointment)
	})
	if err != nil {
		return nil, err
	}
	return appointment, nil
}

func (c *coordinator) OpenMedicalRecord(ctx context.Context, req *model.CreateMedicalRecordRequest) (*model.MedicalRecord, error) {
	var record *model.MedicalRecord

	err := c.runTx(ctx, func(tx *sqlx.Tx) error {
		// A record opens from an APPROVED or an already IN_PROGRESS
		// appointment; the guard and the advance are one statement.
		query := fmt.Sprintf(
			"UPDATE appointments SET status = $1, updated_at = now() WHERE id = $2 AND status = ANY($3) RETURNING %s",
			strings.Join(appointmentCols, ", "))

		var appointment model.Appointment
		err := tx.QueryRowxContext(ctx, query,
			model.AppointmentStatusInProgress, req.AppointmentID,
			pq.Array([]string{
				string(model.AppointmentStatusApproved),
				string(model.AppointmentStatusInProgress),
			})).StructScan(&appointment)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				if _, getErr := txGet[model.Appointment](ctx, tx, "appointments", "appointment", appointmentCols, req.AppointmentID); getErr == nil {
					return apperror.Conflict("appointment is not approved or in progress", err)
				}
				return apperror.NotFound("appointment", err)
			}
			return fmt.Errorf("failed to advance appointment: %w", err)
		}

		now := time.Now()
		record, err = txInsert(ctx, tx, "medical_records", "medical record", medicalRecordCols, &model.MedicalRecord{
			Base:               model.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
			PatientID:          appointment.PatientID,
			DoctorID:           appointment.DoctorID,
			AppointmentID:      appointment.ID,
			VisitReason:        appointment.VisitReason,
			PatientDescription: req.PatientDescription,
			DoctorNotes:        req.DoctorNotes,
			BillingAmount:      req.BillingAmount,
		})
		if err != nil {
			return err
		}

		if req.BillingAmount != nil {
			if _, err := txInsert(ctx, tx, "payments", "payment", paymentCols, &model.Payment{
				ID:              uuid.New(),
				MedicalRecordID: record.ID,
				Amount:          *req.BillingAmount,
				Status:          model.PaymentStatusPending,
				RequestedAt:     now,
				UpdatedAt:       now,
			}); err != nil {
				return err
			}
		}

		return insertOutbox(ctx, tx, model.EventMedicalRecordOpened, record)
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (c *coordinator) DeleteDoctor(ctx context.Context, id uuid.UUID) (bool, error) {
	found := true

	err := c.runTx(ctx, func(tx *sqlx.Tx) error {
		doctor, err := condDelete[model.Doctor](ctx, tx, "doctors", "doctor", doctorCols, id, nil)
		if err != nil {
			if errors.Is(err, apperror.NotFound("doctor", nil)) {
				found = false
				return nil
			}
			return err
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM slots WHERE doctor_id = $1", id); err != nil {
			return fmt.Errorf("failed to delete doctor slots: %w", err)
		}

		return insertOutbox(ctx, tx, model.EventDoctorDeleted, doctor)
	})
	if err != nil {
		return false, err
	}
	return found, nil
}

func (c *coordinator) DeleteMedicalRecord(ctx context.Context, id uuid.UUID) error {
	return c.runTx(ctx, func(tx *sqlx.Tx) error {
		record, err := condDelete[model.MedicalRecord](ctx, tx, "medical_records", "medical record", medicalRecordCols, id, nil)
		if err != nil {
			return err
		}

		// The delete path asserts one payment per record and refuses to
		// proceed without it.
		res, err := tx.ExecContext(ctx, "DELETE FROM payments WHERE medical_record_id = $1", id)
		if err != nil {
			return fmt.Errorf("failed to delete record payments: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return apperror.NotFound("payment", nil)
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM requisitions WHERE medical_record_id = $1", id); err != nil {
			return fmt.Errorf("failed to delete record requisitions: %w", err)
		}

		return insertOutbox(ctx, tx, model.EventMedicalRecordPurged, record)
	})
}

func (c *coordinator) RegisterUser(ctx context.Context, identity model.IdentityType, roleID uuid.UUID, user *model.User) (*model.User, error) {
	table, entity := "patients", "patient"
	if identity == model.IdentityDoctor {
		table, entity = "doctors", "doctor"
	}

	var saved *model.User
	err := c.runTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		saved, err = txInsert(ctx, tx, "users", "user", userCols, user)
		if err != nil {
			if isUniqueViolation(err) {
				return apperror.Conflict("email already registered", err)
			}
			return err
		}

		// One-time claim: succeeds only while the record is still unowned.
		query := fmt.Sprintf(
			"UPDATE %s SET user_id = $1, updated_at = now() WHERE id = $2 AND user_id IS NULL", table)
		res, err := tx.ExecContext(ctx, query, saved.ID, roleID)
		if err != nil {
			return fmt.Errorf("failed to claim %s record: %w", entity, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			if _, getErr := txExists(ctx, tx, table, entity, roleID); getErr != nil {
				return apperror.NotFound(entity, nil)
			}
			return apperror.Conflict(entity+" record is already claimed", nil)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// txGet fetches one row by id inside the transaction
func txGet[T any](ctx context.Context, tx *sqlx.Tx, table, entity string, cols []string, id uuid.UUID) (*T, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", strings.Join(cols, ", "), table)

	var e T
	if err := tx.GetContext(ctx, &e, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound(entity, err)
		}
		return nil, fmt.Errorf("failed to get %s: %w", entity, err)
	}
	return &e, nil
}

// txExists checks bare row existence without scanning the full shape
func txExists(ctx context.Context, tx *sqlx.Tx, table, entity string, id uuid.UUID) (uuid.UUID, error) {
	var got uuid.UUID
	query := fmt.Sprintf("SELECT id FROM %s WHERE id = $1", table)
	if err := tx.GetContext(ctx, &got, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return uuid.Nil, apperror.NotFound(entity, err)
		}
		return uuid.Nil, fmt.Errorf("failed to check %s: %w", entity, err)
	}
	return got, nil
}

// txInsert inserts the entity inside the transaction and returns the row
// the store produced
func txInsert[T any](ctx context.Context, tx *sqlx.Tx, table, entity string, cols []string, e *T) (*T, error) {
	placeholders := make([]string, len(cols))
	for i, col := range cols {
		placeholders[i] = ":" + col
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
		table, strings.Join(cols, ", "), strings.Join(placeholders, ", "), strings.Join(cols, ", "))

	rows, err := sqlx.NamedQueryContext(ctx, tx, query, e)
	if err != nil {
		return nil, fmt.Errorf("failed to insert %s: %w", entity, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("failed to insert %s: %w", entity, err)
		}
		return nil, fmt.Errorf("failed to insert %s: no row returned", entity)
	}

	var inserted T
	if err := rows.StructScan(&inserted); err != nil {
		return nil, fmt.Errorf("failed to scan inserted %s: %w", entity, err)
	}
	return &inserted, nil
}

func insertOutbox(ctx context.Context, tx *sqlx.Tx, eventType string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", eventType, err)
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO outbox_events (id, event_type, payload, status, created_at) VALUES ($1, $2, $3, $4, now())",
		uuid.New(), eventType, body, model.OutboxStatusPending)
	if err != nil {
		return fmt.Errorf("failed to enqueue %s event: %w", eventType, err)
	}
	return nil
}
