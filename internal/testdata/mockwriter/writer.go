package mockwriter

import (
	"context"

	"view-analytics-service/internal/model"

	"github.com/stretchr/testify/mock"
)

type Writer struct {
	mock.Mock
}

func (m *Writer) RecordView(ctx context.Context, req model.RecordViewRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *Writer) UpdateView(ctx context.Context, req model.ProgressRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}
