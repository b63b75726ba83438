package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthdesk/clinic-api/internal/model"
)

type countingRepo struct {
	calls int
	from  time.Time
	to    time.Time
}

func (r *countingRepo) TopDoctors(ctx context.Context, from, to time.Time, limit int) ([]*model.TopDoctorRow, error) {
	r.calls++
	r.from, r.to = from, to
	return []*model.TopDoctorRow{{DoctorName: "Ada Okafor", AppointmentCount: 12}}, nil
}

func (r *countingRepo) SpecialtyStats(ctx context.Context, from, to time.Time) ([]*model.SpecialtyStatsRow, error) {
	r.calls++
	return nil, nil
}

func (r *countingRepo) AgeDistribution(ctx context.Context) ([]*model.AgeBucketRow, error) {
	r.calls++
	return []*model.AgeBucketRow{{Bucket: "18-30", UserCount: 4}}, nil
}

func (r *countingRepo) DoctorCountBySpecialty(ctx context.Context) ([]*model.SpecialtyDoctorCountRow, error) {
	r.calls++
	return nil, nil
}

func (r *countingRepo) RoleDistribution(ctx context.Context) ([]*model.RoleDistributionRow, error) {
	r.calls++
	return nil, nil
}

func TestTopDoctorsCachesPerMonth(t *testing.T) {
	repo := &countingRepo{}
	svc := NewService(repo)
	ctx := context.Background()

	march := &model.AnalyticsFilter{Year: 2026, Month: 3}
	first, err := svc.TopDoctors(ctx, march)
	require.NoError(t, err)
	second, err := svc.TopDoctors(ctx, march)
	require.NoError(t, err)

	assert.Equal(t, 1, repo.calls)
	assert.Equal(t, first, second)

	// a different month is a different cache entry
	_, err = svc.TopDoctors(ctx, &model.AnalyticsFilter{Year: 2026, Month: 4})
	require.NoError(t, err)
	assert.Equal(t, 2, repo.calls)
}

func TestMonthWindowBounds(t *testing.T) {
	repo := &countingRepo{}
	svc := NewService(repo)

	_, err := svc.TopDoctors(context.Background(), &model.AnalyticsFilter{Year: 2026, Month: 12})
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC), repo.from)
	assert.Equal(t, time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC), repo.to)
}

func TestAgeDistributionCached(t *testing.T) {
	repo := &countingRepo{}
	svc := NewService(repo)
	ctx := context.Background()

	_, err := svc.AgeDistribution(ctx)
	require.NoError(t, err)
	_, err = svc.AgeDistribution(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, repo.calls)
}
