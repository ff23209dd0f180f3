package mockplayerrepository

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
var _ repository.PlayerRepository = &Repository{}

func (m *Repository) FetchSummaries(ctx context.Context, ids []string) (map[string]model.PlayerSummary, error) {
	args := m.Called(ctx, ids)
	var summaries map[string]model.PlayerSummary
	if v := args.Get(0); v != nil {
		summaries = v.(map[string]model.PlayerSummary)
	}
	return summaries, args.Error(1)
}
