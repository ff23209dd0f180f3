package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"view-analytics-service/internal/model"
	"view-analytics-service/internal/service"
	"view-analytics-service/internal/testdata/mockservice"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type ControllerTestSuite struct {
	suite.Suite
	app     *fiber.App
	service *mockservice.Service
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerTestSuite))
}

func (s *ControllerTestSuite) SetupTest() {
	s.service = &mockservice.Service{}
	ctrl := NewViewController(s.service)
	s.app = fiber.New()
	s.app.Post("/views", ctrl.RecordView)
	s.app.Post("/views/progress", ctrl.RecordProgress)
	s.app.Get("/views/most-watched", ctrl.GetMostWatched)
	s.app.Get("/views/counts", ctrl.GetViewCounts)
	s.app.Get("/players/:id/analytics", ctrl.GetPlayerAnalytics)
}

func (s *ControllerTestSuite) performPost(path string, body any) *http.Response {
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.app.Test(req, -1)
	require.NoError(s.T(), err)
	return resp
}

func (s *ControllerTestSuite) TestRecordView_Success() {
	reqBody := model.RecordViewRequest{
		PlayerID:     "player-1",
		SessionID:    "sess-1",
		TotalSeconds: 90,
	}
	row := model.ViewSession{PlayerID: "player-1", SessionID: "sess-1", TotalDuration: 90}
	s.service.On("BuildView", reqBody).Return(row, nil)
	s.service.On("Record", mock.Anything, row)

	resp := s.performPost("/views", reqBody)

	require.Equal(s.T(), http.StatusAccepted, resp.StatusCode)
}

func (s *ControllerTestSuite) TestRecordView_InvalidJSON() {
	req := httptest.NewRequest(http.MethodPost, "/views", bytes.NewBufferString("{"))
	req.Header.Set("Content-Type", "application/json")
	resp, _ := s.app.Test(req, -1)
	require.Equal(s.T(), http.StatusBadRequest, resp.StatusCode)
}

func (s *ControllerTestSuite) TestRecordView_ValidationError() {
	reqBody := model.RecordViewRequest{SessionID: "sess-1"}
	s.service.On("BuildView", reqBody).Return(model.ViewSession{}, &service.ValidationError{Message: "player_id is required"})

	resp := s.performPost("/views", reqBody)

	require.Equal(s.T(), http.StatusBadRequest, resp.StatusCode)
	s.service.AssertNotCalled(s.T(), "Record", mock.Anything, mock.Anything)
}

func (s *ControllerTestSuite) TestRecordProgress_Success() {
	reqBody := model.ProgressRequest{
		PlayerID:     "player-1",
		SessionID:    "sess-1",
		WatchSeconds: 42.5,
		TotalSeconds: 90,
	}
	row := model.ViewSession{PlayerID: "player-1", SessionID: "sess-1", WatchDuration: 42.5, TotalDuration: 90}
	s.service.On("BuildProgress", reqBody).Return(row, nil)
	s.service.On("Record", mock.Anything, row)

	resp := s.performPost("/views/progress", reqBody)

	require.Equal(s.T(), http.StatusAccepted, resp.StatusCode)
}

func (s *ControllerTestSuite) TestRecordProgress_ValidationError() {
	reqBody := model.ProgressRequest{PlayerID: "player-1"}
	s.service.On("BuildProgress", reqBody).Return(model.ViewSession{}, &service.ValidationError{Message: "session_id is required"})

	resp := s.performPost("/views/progress", reqBody)

	require.Equal(s.T(), http.StatusBadRequest, resp.StatusCode)
}

func (s *ControllerTestSuite) TestGetPlayerAnalytics() {
	expected := model.PlayerViewAnalytics{
		PlayerID:      "player-1",
		TotalViews:    4,
		UniqueViewers: 3,
		RecentViewers: []model.RecentViewer{},
	}
	s.service.On("PlayerAnalytics", mock.Anything, "player-1").Return(expected)

	req := httptest.NewRequest(http.MethodGet, "/players/player-1/analytics", nil)
	resp, err := s.app.Test(req, -1)
	require.NoError(s.T(), err)
	require.Equal(s.T(), http.StatusOK, resp.StatusCode)

	var body model.PlayerViewAnalytics
	require.NoError(s.T(), json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(s.T(), expected, body)
}

func (s *ControllerTestSuite) TestGetMostWatched() {
	expected := model.MostWatchedData{
		Leaderboard: []model.LeaderboardEntry{
			{
				PlayerID:       "player-1",
				TotalViews:     5,
				TotalWatchTime: 500,
				LastViewed:     time.Unix(0, 0).UTC(),
				Player:         model.PlayerSummary{ID: "player-1", Name: "Player One"},
			},
		},
		PlatformStats: model.PlatformStats{TotalViews: 13, TotalWatchTimeSeconds: 900, UniquePlayersWatched: 3},
	}
	s.service.On("MostWatched", mock.Anything, 8).Return(expected)

	req := httptest.NewRequest(http.MethodGet, "/views/most-watched?limit=8", nil)
	resp, err := s.app.Test(req, -1)
	require.NoError(s.T(), err)
	require.Equal(s.T(), http.StatusOK, resp.StatusCode)

	var body model.MostWatchedData
	require.NoError(s.T(), json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(s.T(), expected, body)
}

func (s *ControllerTestSuite) TestGetMostWatched_NoLimitUsesServiceDefault() {
	s.service.On("MostWatched", mock.Anything, 0).Return(model.MostWatchedData{Leaderboard: []model.LeaderboardEntry{}})

	req := httptest.NewRequest(http.MethodGet, "/views/most-watched", nil)
	resp, err := s.app.Test(req, -1)
	require.NoError(s.T(), err)
	require.Equal(s.T(), http.StatusOK, resp.StatusCode)
}

func (s *ControllerTestSuite) TestGetMostWatched_NegativeLimit() {
	req := httptest.NewRequest(http.MethodGet, "/views/most-watched?limit=-1", nil)
	resp, err := s.app.Test(req, -1)
	require.NoError(s.T(), err)
	require.Equal(s.T(), http.StatusBadRequest, resp.StatusCode)
}

func (s *ControllerTestSuite) TestGetViewCounts() {
	s.service.On("ViewCounts", mock.Anything).Return(model.ViewCounts{Counts: map[string]uint64{"player-1": 5}})

	req := httptest.NewRequest(http.MethodGet, "/views/counts", nil)
	resp, err := s.app.Test(req, -1)
	require.NoError(s.T(), err)
	require.Equal(s.T(), http.StatusOK, resp.StatusCode)

	var body model.ViewCounts
	require.NoError(s.T(), json.NewDecoder(resp.Body).Decode(&body))
	require.Equal(s.T(), uint64(5), body.Counts["player-1"])
}
