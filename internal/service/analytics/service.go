package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/healthdesk/clinic-api/internal/model"
	"github.com/healthdesk/clinic-api/internal/repository"
)

const (
	cacheTTL    = time.Minute
	topDoctorsN = 5
)

// Service serves aggregate statistics with a short response cache. Only
// computed aggregates are cached; entity state is always read fresh.
type Service struct {
	repo  repository.AnalyticsRepository
	cache *cache.Cache
}

func NewService(repo repository.AnalyticsRepository) *Service {
	return &Service{
		repo:  repo,
		cache: cache.New(cacheTTL, 5*time.Minute),
	}
}

func monthWindow(filter *model.AnalyticsFilter) (time.Time, time.Time) {
	from := time.Date(filter.Year, time.Month(filter.Month), 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0)
}

func (s *Service) TopDoctors(ctx context.Context, filter *model.AnalyticsFilter) ([]*model.TopDoctorRow, error) {
	key := fmt.Sprintf("top_doctors:%d-%02d", filter.Year, filter.Month)
	if cached, ok := s.cache.Get(key); ok {
		return cached.([]*model.TopDoctorRow), nil
	}

	from, to := monthWindow(filter)
	rows, err := s.repo.TopDoctors(ctx, from, to, topDoctorsN)
	if err != nil {
		return nil, err
	}
	s.cache.SetDefault(key, rows)
	return rows, nil
}

func (s *Service) SpecialtyStats(ctx context.Context, filter *model.AnalyticsFilter) ([]*model.SpecialtyStatsRow, error) {
	key := fmt.Sprintf("specialty_stats:%d-%02d", filter.Year, filter.Month)
	if cached, ok := s.cache.Get(key); ok {
		return cached.([]*model.SpecialtyStatsRow), nil
	}

	from, to := monthWindow(filter)
	rows, err := s.repo.SpecialtyStats(ctx, from, to)
	if err != nil {
		return nil, err
	}
	s.cache.SetDefault(key, rows)
	return rows, nil
}

func (s *Service) AgeDistribution(ctx context.Context) ([]*model.AgeBucketRow, error) {
	if cached, ok := s.cache.Get("age_distribution"); ok {
		return cached.([]*model.AgeBucketRow), nil
	}

	rows, err := s.repo.AgeDistribution(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.SetDefault("age_distribution", rows)
	return rows, nil
}

func (s *Service) DoctorCountBySpecialty(ctx context.Context) ([]*model.SpecialtyDoctorCountRow, error) {
	if cached, ok := s.cache.Get("doctors_by_specialty"); ok {
		return cached.([]*model.SpecialtyDoctorCountRow), nil
	}

	rows, err := s.repo.DoctorCountBySpecialty(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.SetDefault("doctors_by_specialty", rows)
	return rows, nil
}

func (s *Service) RoleDistribution(ctx context.Context) ([]*model.RoleDistributionRow, error) {
	if cached, ok := s.cache.Get("role_distribution"); ok {
		return cached.([]*model.RoleDistributionRow), nil
	}

	rows, err := s.repo.RoleDistribution(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.SetDefault("role_distribution", rows)
	return rows, nil
}
