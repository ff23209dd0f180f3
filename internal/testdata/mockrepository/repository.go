package mockrepository

import (
	"context"

	"view-analytics-service/internal/model"
	"view-analytics-service/internal/repository"

	"github.com/stretchr/testify/mock"
)

type Repository struct {
	mock.Mock
}

// Interface compliance check
var _ repository.ViewRepository = &Repository{}

func (m *Repository) InsertBatch(ctx context.Context, rows []model.ViewSession) error {
	args := m.Called(ctx, rows)
	return args.Error(0)
}

func (m *Repository) FetchPlayerSessions(ctx context.Context, playerID string) ([]model.ViewSession, error) {
	args := m.Called(ctx, playerID)
	var sessions []model.ViewSession
	if v := args.Get(0); v != nil {
		sessions = v.([]model.ViewSession)
	}
	return sessions, args.Error(1)
}

func (m *Repository) FetchAllSessions(ctx context.Context) ([]model.ViewSession, error) {
	args := m.Called(ctx)
	var sessions []model.ViewSession
	if v := args.Get(0); v != nil {
		sessions = v.([]model.ViewSession)
	}
	return sessions, args.Error(1)
}
