package handler

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/healthdesk/clinic-api/internal/model"
)

// RegisterValidations installs custom binding validators on gin's engine
func RegisterValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("appointmentstatus", validAppointmentStatus)
	}
}

// PENDING_APPROVAL is the booking-time status and never a valid update target
func validAppointmentStatus(fl validator.FieldLevel) bool {
	switch model.AppointmentStatus(fl.Field().String()) {
	case model.AppointmentStatusApproved,
		model.AppointmentStatusRejected,
		model.AppointmentStatusInProgress,
		model.AppointmentStatusCompleted,
		model.AppointmentStatusCancelled,
		model.AppointmentStatusNoShow:
		return true
	default:
		return false
	}
}
