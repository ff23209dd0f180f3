package mockworker

import (
	"view-analytics-service/internal/model"

	"github.com/stretchr/testify/mock"
)

type Worker struct {
	mock.Mock
}

func (m *Worker) Enqueue(row model.ViewSession) {
	m.Called(row)
}

func (m *Worker) Shutdown() {
	m.Called()
}
