package scheduling

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/healthdesk/clinic-api/internal/model"
	"github.com/healthdesk/clinic-api/internal/repository"
	"github.com/healthdesk/clinic-api/pkg/apperror"
)

const (
	MinSlotDuration = 15 * time.Minute
	MaxSlotDuration = 4 * time.Hour

	releaseAttempts = 3
	releaseDelay    = 50 * time.Millisecond
)

// Service owns the slot and appointment lifecycle. Booking is delegated to
// the coordinator so the slot flip and the appointment insert commit
// together; everything else is single-row work.
type Service struct {
	slots        repository.SlotRepository
	appointments repository.AppointmentRepository
	doctors      repository.DoctorRepository
	coordinator  repository.Coordinator
}

func NewService(slots repository.SlotRepository, appointments repository.AppointmentRepository, doctors repository.DoctorRepository, coordinator repository.Coordinator) *Service {
	return &Service{
		slots:        slots,
		appointments: appointments,
		doctors:      doctors,
		coordinator:  coordinator,
	}
}

func (s *Service) CreateSlot(ctx context.Context, req *model.CreateSlotRequest) (*model.Slot, error) {
	if err := s.validateSlotTime(req.StartTime, req.EndTime); err != nil {
		return nil, err
	}
	if _, err := s.doctors.Get(ctx, req.DoctorID); err != nil {
		return nil, err
	}

	slot := &model.Slot{
		DoctorID:  req.DoctorID,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
	}
	if err := s.slots.Create(ctx, slot); err != nil {
		return nil, err
	}
	return slot, nil
}

func (s *Service) validateSlotTime(startTime, endTime time.Time) error {
	duration := endTime.Sub(startTime)

	if startTime.Before(time.Now()) {
		return apperror.Validation("slot cannot start in the past", nil)
	}
	if duration < MinSlotDuration {
		return apperror.Validation(fmt.Sprintf("slot must be at least %v", MinSlotDuration), nil)
	}
	if duration > MaxSlotDuration {
		return apperror.Validation(fmt.Sprintf("slot cannot exceed %v", MaxSlotDuration), nil)
	}
	return nil
}

func (s *Service) GetSlot(ctx context.Context, id uuid.UUID) (*model.Slot, error) {
	return s.slots.Get(ctx, id)
}

func (s *Service) ListSlots(ctx context.Context, filter *model.SlotFilter) ([]*model.Slot, error) {
	return s.slots.List(ctx, filter)
}

// DeleteSlot removes the slot only while it is still AVAILABLE
func (s *Service) DeleteSlot(ctx context.Context, id uuid.UUID) (*model.Slot, error) {
	return s.slots.DeleteAvailable(ctx, id)
}

// BookAppointment reserves the slot for the patient. Of N concurrent calls
// for the same slot exactly one succeeds.
func (s *Service) BookAppointment(ctx context.Context, patientID uuid.UUID, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	return s.coordinator.BookAppointment(ctx, patientID, req.SlotID, req.VisitReason)
}

func (s *Service) GetAppointment(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	return s.appointments.Get(ctx, id)
}

func (s *Service) ListAppointments(ctx context.Context, filter *model.AppointmentFilter) ([]*model.Appointment, error) {
	return s.appointments.List(ctx, filter)
}

// UpdateAppointment applies the status change and, when the new status hands
// the slot back, releases it. The release is retried; if it still fails the
// appointment change stands and the caller gets a cascade failure.
func (s *Service) UpdateAppointment(ctx context.Context, id uuid.UUID, req *model.UpdateAppointmentRequest) (*model.Appointment, error) {
	appointment, err := s.coordinator.UpdateAppointmentStatus(ctx, id, req.Status, req.VisitReason)
	if err != nil {
		return nil, err
	}

	if req.Status.Releasing() {
		if err := s.releaseSlot(ctx, appointment.Slot.SlotID); err != nil {
			return nil, apperror.CascadeFailure("appointment updated but slot release failed", err)
		}
	}
	return appointment, nil
}

// DeleteAppointment removes the appointment and hands its slot back. The
// slot of a terminal appointment is spent and stays out of the pool.
func (s *Service) DeleteAppointment(ctx context.Context, id uuid.UUID) error {
	appointment, err := s.appointments.Delete(ctx, id)
	if err != nil {
		return err
	}

	if appointment.Status.Terminal() {
		return nil
	}
	if err := s.releaseSlot(ctx, appointment.Slot.SlotID); err != nil {
		return apperror.CascadeFailure("appointment deleted but slot release failed", err)
	}
	return nil
}

func (s *Service) releaseSlot(ctx context.Context, slotID uuid.UUID) error {
	var lastErr error
	for attempt := 1; attempt <= releaseAttempts; attempt++ {
		if _, lastErr = s.slots.Release(ctx, slotID); lastErr == nil {
			return nil
		}
		if apperror.CodeOf(lastErr) == apperror.CodeNotFound {
			return lastErr
		}
		log.Warn().Err(lastErr).Str("slot_id", slotID.String()).Int("attempt", attempt).Msg("slot release failed, retrying")

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(releaseDelay * time.Duration(attempt)):
		}
	}
	return lastErr
}
