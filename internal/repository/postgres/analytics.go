package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/healthdesk/clinic-api/internal/model"
)

// Analytics queries aggregate over approved appointments and the user base.
// They run against the caller's handle so the router's isolation rules apply
// to reads as well.

func (r *analyticsRepository) TopDoctors(ctx context.Context, from, to time.Time, limit int) ([]*model.TopDoctorRow, error) {
	query := `
		SELECT a.doctor_id,
		       a.doctor_name,
		       a.doctor_specialization AS specialization,
		       COUNT(*) AS appointment_count
		FROM appointments a
		WHERE a.status = $1
		  AND (a.slot->>'start_time')::timestamptz >= $2
		  AND (a.slot->>'start_time')::timestamptz < $3
		GROUP BY a.doctor_id, a.doctor_name, a.doctor_specialization
		ORDER BY appointment_count DESC, a.doctor_name ASC
		LIMIT $4`

	var rows []*model.TopDoctorRow
	if err := r.router.For(ctx).SelectContext(ctx, &rows, query, model.AppointmentStatusApproved, from, to, limit); err != nil {
		return nil, fmt.Errorf("failed to rank doctors: %w", err)
	}
	return rows, nil
}

func (r *analyticsRepository) SpecialtyStats(ctx context.Context, from, to time.Time) ([]*model.SpecialtyStatsRow, error) {
	query := `
		SELECT a.doctor_specialization AS specialty,
		       COUNT(*) AS appointment_count
		FROM appointments a
		WHERE a.status = $1
		  AND (a.slot->>'start_time')::timestamptz >= $2
		  AND (a.slot->>'start_time')::timestamptz < $3
		GROUP BY a.doctor_specialization
		ORDER BY appointment_count DESC, specialty ASC`

	var rows []*model.SpecialtyStatsRow
	if err := r.router.For(ctx).SelectContext(ctx, &rows, query, model.AppointmentStatusApproved, from, to); err != nil {
		return nil, fmt.Errorf("failed to aggregate specialties: %w", err)
	}
	return rows, nil
}

func (r *analyticsRepository) AgeDistribution(ctx context.Context) ([]*model.AgeBucketRow, error) {
	query := `
		SELECT CASE
		           WHEN age < 18 THEN '0-17'
		           WHEN age < 31 THEN '18-30'
		           WHEN age < 46 THEN '31-45'
		           WHEN age < 61 THEN '46-60'
		           ELSE '61+'
		       END AS bucket,
		       COUNT(*) AS user_count
		FROM (
		    SELECT EXTRACT(YEAR FROM age(now(), date_of_birth))::int AS age
		    FROM users
		    WHERE date_of_birth IS NOT NULL
		) ages
		GROUP BY bucket
		ORDER BY bucket ASC`

	var rows []*model.AgeBucketRow
	if err := r.router.For(ctx).SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to bucket ages: %w", err)
	}
	return rows, nil
}

func (r *analyticsRepository) DoctorCountBySpecialty(ctx context.Context) ([]*model.SpecialtyDoctorCountRow, error) {
	query := `
		SELECT specialization AS specialty,
		       COUNT(*) AS doctor_count
		FROM doctors
		GROUP BY specialization
		ORDER BY doctor_count DESC, specialty ASC`

	var rows []*model.SpecialtyDoctorCountRow
	if err := r.router.For(ctx).SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to count doctors by specialty: %w", err)
	}
	return rows, nil
}

func (r *analyticsRepository) RoleDistribution(ctx context.Context) ([]*model.RoleDistributionRow, error) {
	query := `
		SELECT role, COUNT(*) AS user_count
		FROM users, jsonb_array_elements_text(roles) AS role
		GROUP BY role
		ORDER BY user_count DESC, role ASC`

	var rows []*model.RoleDistributionRow
	if err := r.router.For(ctx).SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to count users by role: %w", err)
	}
	return rows, nil
}
