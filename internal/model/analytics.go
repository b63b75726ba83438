package model

import (
	"github.com/google/uuid"
)

// Analytics rows are read-only projections over historical data.

type TopDoctorRow struct {
	DoctorID         uuid.UUID `db:"doctor_id" json:"doctor_id"`
	DoctorName       string    `db:"doctor_name" json:"doctor_name"`
	Specialization   string    `db:"specialization" json:"specialization"`
	AppointmentCount int       `db:"appointment_count" json:"appointment_count"`
}

type SpecialtyStatsRow struct {
	Specialty        string `db:"specialty" json:"specialty"`
	AppointmentCount int    `db:"appointment_count" json:"appointment_count"`
}

type AgeBucketRow struct {
	Bucket    string `db:"bucket" json:"bucket"`
	UserCount int    `db:"user_count" json:"user_count"`
}

type SpecialtyDoctorCountRow struct {
	Specialty   string `db:"specialty" json:"specialty"`
	DoctorCount int    `db:"doctor_count" json:"doctor_count"`
}

type RoleDistributionRow struct {
	Role      Role `db:"role" json:"role"`
	UserCount int  `db:"user_count" json:"user_count"`
}

type AnalyticsFilter struct {
	Year  int `form:"year" binding:"required,gte=2000,lte=2100"`
	Month int `form:"month" binding:"required,gte=1,lte=12"`
}
