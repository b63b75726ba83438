package scheduling

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthdesk/clinic-api/internal/model"
	"github.com/healthdesk/clinic-api/pkg/apperror"
)

type fakeSlots struct {
	releaseErr   error
	releaseCalls int
	releasedID   uuid.UUID
	deleted      *model.Slot
}

func (f *fakeSlots) Create(ctx context.Context, slot *model.Slot) error {
	slot.ID = uuid.New()
	slot.Status = model.SlotStatusAvailable
	return nil
}

func (f *fakeSlots) Get(ctx context.Context, id uuid.UUID) (*model.Slot, error) {
	return &model.Slot{Base: model.Base{ID: id}}, nil
}

func (f *fakeSlots) List(ctx context.Context, filter *model.SlotFilter) ([]*model.Slot, error) {
	return nil, nil
}

func (f *fakeSlots) Release(ctx context.Context, id uuid.UUID) (*model.Slot, error) {
	f.releaseCalls++
	f.releasedID = id
	if f.releaseErr != nil {
		return nil, f.releaseErr
	}
	return &model.Slot{Base: model.Base{ID: id}, Status: model.SlotStatusAvailable}, nil
}

func (f *fakeSlots) DeleteAvailable(ctx context.Context, id uuid.UUID) (*model.Slot, error) {
	if f.deleted == nil {
		return nil, apperror.NotFound("slot", nil)
	}
	return f.deleted, nil
}

type fakeAppointments struct {
	appointment *model.Appointment
}

func (f *fakeAppointments) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	return f.appointment, nil
}

func (f *fakeAppointments) List(ctx context.Context, filter *model.AppointmentFilter) ([]*model.Appointment, error) {
	return nil, nil
}

func (f *fakeAppointments) Delete(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	return f.appointment, nil
}

type fakeDoctors struct {
	missing bool
}

func (f *fakeDoctors) Create(ctx context.Context, doctor *model.Doctor) error { return nil }

func (f *fakeDoctors) Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	if f.missing {
		return nil, apperror.NotFound("doctor", nil)
	}
	return &model.Doctor{Base: model.Base{ID: id}}, nil
}

func (f *fakeDoctors) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Doctor, error) {
	return nil, apperror.NotFound("doctor", nil)
}

func (f *fakeDoctors) GetByLicenseNumber(ctx context.Context, licenseNumber string) (*model.Doctor, error) {
	return nil, apperror.NotFound("doctor", nil)
}

func (f *fakeDoctors) List(ctx context.Context) ([]*model.Doctor, error) { return nil, nil }

func (f *fakeDoctors) Update(ctx context.Context, id uuid.UUID, req *model.UpdateDoctorRequest) (*model.Doctor, error) {
	return nil, nil
}

type fakeCoordinator struct {
	booked      *model.Appointment
	bookErr     error
	appointment *model.Appointment
	updateErr   error
}

func (f *fakeCoordinator) BookAppointment(ctx context.Context, patientID, slotID uuid.UUID, visitReason string) (*model.Appointment, error) {
	return f.booked, f.bookErr
}

func (f *fakeCoordinator) UpdateAppointmentStatus(ctx context.Context, id uuid.UUID, status model.AppointmentStatus, visitReason *string) (*model.Appointment, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	f.appointment.Status = status
	return f.appointment, nil
}

func (f *fakeCoordinator) OpenMedicalRecord(ctx context.Context, req *model.CreateMedicalRecordRequest) (*model.MedicalRecord, error) {
	return nil, nil
}

func (f *fakeCoordinator) DeleteDoctor(ctx context.Context, id uuid.UUID) (bool, error) {
	return false, nil
}

func (f *fakeCoordinator) DeleteMedicalRecord(ctx context.Context, id uuid.UUID) error { return nil }

func (f *fakeCoordinator) RegisterUser(ctx context.Context, identity model.IdentityType, roleID uuid.UUID, user *model.User) (*model.User, error) {
	return user, nil
}

func testAppointment(slotID uuid.UUID) *model.Appointment {
	return &model.Appointment{
		Base:   model.Base{ID: uuid.New()},
		Slot:   model.SlotDetails{SlotID: slotID},
		Status: model.AppointmentStatusPendingApproval,
	}
}

func TestCreateSlotValidation(t *testing.T) {
	svc := NewService(&fakeSlots{}, &fakeAppointments{}, &fakeDoctors{}, &fakeCoordinator{})
	ctx := context.Background()
	doctorID := uuid.New()

	tests := []struct {
		name  string
		start time.Time
		end   time.Time
	}{
		{"starts in the past", time.Now().Add(-time.Hour), time.Now().Add(time.Hour)},
		{"too short", time.Now().Add(time.Hour), time.Now().Add(time.Hour + 5*time.Minute)},
		{"too long", time.Now().Add(time.Hour), time.Now().Add(6 * time.Hour)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateSlot(ctx, &model.CreateSlotRequest{
				DoctorID:  doctorID,
				StartTime: tt.start,
				EndTime:   tt.end,
			})
			assert.Equal(t, apperror.CodeValidation, apperror.CodeOf(err))
		})
	}
}

func TestCreateSlotUnknownDoctor(t *testing.T) {
	svc := NewService(&fakeSlots{}, &fakeAppointments{}, &fakeDoctors{missing: true}, &fakeCoordinator{})

	_, err := svc.CreateSlot(context.Background(), &model.CreateSlotRequest{
		DoctorID:  uuid.New(),
		StartTime: time.Now().Add(time.Hour),
		EndTime:   time.Now().Add(2 * time.Hour),
	})
	assert.Equal(t, apperror.CodeNotFound, apperror.CodeOf(err))
}

func TestCreateSlot(t *testing.T) {
	svc := NewService(&fakeSlots{}, &fakeAppointments{}, &fakeDoctors{}, &fakeCoordinator{})

	slot, err := svc.CreateSlot(context.Background(), &model.CreateSlotRequest{
		DoctorID:  uuid.New(),
		StartTime: time.Now().Add(time.Hour),
		EndTime:   time.Now().Add(2 * time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, model.SlotStatusAvailable, slot.Status)
	assert.NotEqual(t, uuid.Nil, slot.ID)
}

func TestUpdateAppointmentReleasesSlot(t *testing.T) {
	slotID := uuid.New()
	slots := &fakeSlots{}
	coord := &fakeCoordinator{appointment: testAppointment(slotID)}
	svc := NewService(slots, &fakeAppointments{}, &fakeDoctors{}, coord)

	updated, err := svc.UpdateAppointment(context.Background(), coord.appointment.ID, &model.UpdateAppointmentRequest{
		Status: model.AppointmentStatusCancelled,
	})
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCancelled, updated.Status)
	assert.Equal(t, 1, slots.releaseCalls)
	assert.Equal(t, slotID, slots.releasedID)
}

func TestUpdateAppointmentNonReleasingKeepsSlot(t *testing.T) {
	slots := &fakeSlots{}
	coord := &fakeCoordinator{appointment: testAppointment(uuid.New())}
	svc := NewService(slots, &fakeAppointments{}, &fakeDoctors{}, coord)

	_, err := svc.UpdateAppointment(context.Background(), coord.appointment.ID, &model.UpdateAppointmentRequest{
		Status: model.AppointmentStatusApproved,
	})
	require.NoError(t, err)
	assert.Zero(t, slots.releaseCalls)
}

func TestUpdateAppointmentReleaseFailureIsCascade(t *testing.T) {
	slots := &fakeSlots{releaseErr: errors.New("store down")}
	coord := &fakeCoordinator{appointment: testAppointment(uuid.New())}
	svc := NewService(slots, &fakeAppointments{}, &fakeDoctors{}, coord)

	_, err := svc.UpdateAppointment(context.Background(), coord.appointment.ID, &model.UpdateAppointmentRequest{
		Status: model.AppointmentStatusRejected,
	})
	assert.Equal(t, apperror.CodeCascadeFailure, apperror.CodeOf(err))
	assert.Equal(t, releaseAttempts, slots.releaseCalls)
	// the status change itself stands
	assert.Equal(t, model.AppointmentStatusRejected, coord.appointment.Status)
}

func TestUpdateAppointmentReleaseStopsOnMissingSlot(t *testing.T) {
	slots := &fakeSlots{releaseErr: apperror.NotFound("slot", nil)}
	coord := &fakeCoordinator{appointment: testAppointment(uuid.New())}
	svc := NewService(slots, &fakeAppointments{}, &fakeDoctors{}, coord)

	_, err := svc.UpdateAppointment(context.Background(), coord.appointment.ID, &model.UpdateAppointmentRequest{
		Status: model.AppointmentStatusCancelled,
	})
	assert.Equal(t, apperror.CodeCascadeFailure, apperror.CodeOf(err))
	assert.Equal(t, 1, slots.releaseCalls)
}

func TestDeleteAppointmentReleasesSlot(t *testing.T) {
	slotID := uuid.New()
	slots := &fakeSlots{}
	appointments := &fakeAppointments{appointment: testAppointment(slotID)}
	svc := NewService(slots, appointments, &fakeDoctors{}, &fakeCoordinator{})

	err := svc.DeleteAppointment(context.Background(), appointments.appointment.ID)
	require.NoError(t, err)
	assert.Equal(t, slotID, slots.releasedID)
}

func TestDeleteAppointmentKeepsTerminalSlot(t *testing.T) {
	for _, status := range []model.AppointmentStatus{
		model.AppointmentStatusCompleted,
		model.AppointmentStatusNoShow,
	} {
		t.Run(string(status), func(t *testing.T) {
			slots := &fakeSlots{}
			appointment := testAppointment(uuid.New())
			appointment.Status = status
			svc := NewService(slots, &fakeAppointments{appointment: appointment}, &fakeDoctors{}, &fakeCoordinator{})

			err := svc.DeleteAppointment(context.Background(), appointment.ID)
			require.NoError(t, err)
			// a spent slot never returns to the bookable pool
			assert.Zero(t, slots.releaseCalls)
		})
	}
}

func TestBookAppointmentDelegatesToCoordinator(t *testing.T) {
	booked := testAppointment(uuid.New())
	svc := NewService(&fakeSlots{}, &fakeAppointments{}, &fakeDoctors{}, &fakeCoordinator{booked: booked})

	got, err := svc.BookAppointment(context.Background(), uuid.New(), &model.CreateAppointmentRequest{
		SlotID:      booked.Slot.SlotID,
		VisitReason: "checkup",
	})
	require.NoError(t, err)
	assert.Same(t, booked, got)
}

func TestBookAppointmentConflictPassesThrough(t *testing.T) {
	svc := NewService(&fakeSlots{}, &fakeAppointments{}, &fakeDoctors{}, &fakeCoordinator{
		bookErr: apperror.Conflict("slot is no longer available", nil),
	})

	_, err := svc.BookAppointment(context.Background(), uuid.New(), &model.CreateAppointmentRequest{
		SlotID:      uuid.New(),
		VisitReason: "checkup",
	})
	assert.Equal(t, apperror.CodeConflict, apperror.CodeOf(err))
}
