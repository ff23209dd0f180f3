package mockservice

import (
	"context"

	"view-analytics-service/internal/model"

	"github.com/stretchr/testify/mock"
)

type Service struct {
	mock.Mock
}

func (m *Service) BuildView(req model.RecordViewRequest) (model.ViewSession, error) {
	args := m.Called(req)
	return args.Get(0).(model.ViewSession), args.Error(1)
}

func (m *Service) BuildProgress(req model.ProgressRequest) (model.ViewSession, error) {
	args := m.Called(req)
	return args.Get(0).(model.ViewSession), args.Error(1)
}

func (m *Service) Record(ctx context.Context, row model.ViewSession) {
	m.Called(ctx, row)
}

func (m *Service) PlayerAnalytics(ctx context.Context, playerID string) model.PlayerViewAnalytics {
	args := m.Called(ctx, playerID)
	return args.Get(0).(model.PlayerViewAnalytics)
}

func (m *Service) MostWatched(ctx context.Context, limit int) model.MostWatchedData {
	args := m.Called(ctx, limit)
	return args.Get(0).(model.MostWatchedData)
}

func (m *Service) ViewCounts(ctx context.Context) model.ViewCounts {
	args := m.Called(ctx)
	return args.Get(0).(model.ViewCounts)
}
