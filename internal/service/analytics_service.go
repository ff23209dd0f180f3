package service

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"view-analytics-service/internal/model"
	"view-analytics-service/internal/repository"
)

// ValidationError represents user input issues.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// AnalyticsService owns the write path into raw view sessions and the
// read-time aggregation over them.
type AnalyticsService interface {
	BuildView(req model.RecordViewRequest) (model.ViewSession, error)
	BuildProgress(req model.ProgressRequest) (model.ViewSession, error)
	Record(ctx context.Context, row model.ViewSession)
	PlayerAnalytics(ctx context.Context, playerID string) model.PlayerViewAnalytics
	MostWatched(ctx context.Context, limit int) model.MostWatchedData
	ViewCounts(ctx context.Context) model.ViewCounts
}

type analyticsService struct {
	views        repository.ViewRepository
	players      repository.PlayerRepository
	worker       BatchViewWorker
	now          func() time.Time
	recentLimit  int
	defaultLimit int
}

// NewAnalyticsService constructs an analyticsService.
func NewAnalyticsService(views repository.ViewRepository, players repository.PlayerRepository, worker BatchViewWorker, recentLimit, defaultLimit int) AnalyticsService {
	if recentLimit <= 0 {
		recentLimit = 20
	}
	if defaultLimit <= 0 {
		defaultLimit = 10
	}
	return &analyticsService{
		views:        views,
		players:      players,
		worker:       worker,
		now:          time.Now,
		recentLimit:  recentLimit,
		defaultLimit: defaultLimit,
	}
}

// BuildView validates and constructs the create row of a view session.
func (s *analyticsService) BuildView(req model.RecordViewRequest) (model.ViewSession, error) {
	if req.PlayerID == "" {
		return model.ViewSession{}, &ValidationError{Message: "player_id is required"}
	}

	if req.SessionID == "" {
		return model.ViewSession{}, &ValidationError{Message: "session_id is required"}
	}

	if req.WatchSeconds < 0 || req.TotalSeconds < 0 {
		return model.ViewSession{}, &ValidationError{Message: "durations must be non-negative"}
	}

	now := s.now().UTC()
	row := model.ViewSession{
		PlayerID:      req.PlayerID,
		SessionID:     req.SessionID,
		WatchDuration: req.WatchSeconds,
		TotalDuration: req.TotalSeconds,
		CreatedAt:     now,
		WatchedAt:     now,
	}
	if req.ViewerID != nil {
		row.ViewerID = *req.ViewerID
	}
	if req.ViewerEmail != nil {
		row.ViewerEmail = *req.ViewerEmail
	}
	if req.ViewerName != nil {
		row.ViewerName = *req.ViewerName
	}
	return row, nil
}

// BuildProgress validates and constructs a progress row for an existing
// session. Each progress row restates the viewer identity and the session
// start, so the collapsed session keeps both no matter which row version
// the storage engine retains.
func (s *analyticsService) BuildProgress(req model.ProgressRequest) (model.ViewSession, error) {
	if req.PlayerID == "" {
		return model.ViewSession{}, &ValidationError{Message: "player_id is required"}
	}

	if req.SessionID == "" {
		return model.ViewSession{}, &ValidationError{Message: "session_id is required"}
	}

	if req.WatchSeconds < 0 || req.TotalSeconds < 0 {
		return model.ViewSession{}, &ValidationError{Message: "durations must be non-negative"}
	}

	now := s.now().UTC()
	row := model.ViewSession{
		PlayerID:      req.PlayerID,
		SessionID:     req.SessionID,
		WatchDuration: req.WatchSeconds,
		TotalDuration: req.TotalSeconds,
		CreatedAt:     now,
		WatchedAt:     now,
	}
	if req.StartedAt != nil && !req.StartedAt.IsZero() {
		row.CreatedAt = req.StartedAt.UTC()
	}
	if req.ViewerID != nil {
		row.ViewerID = *req.ViewerID
	}
	if req.ViewerEmail != nil {
		row.ViewerEmail = *req.ViewerEmail
	}
	if req.ViewerName != nil {
		row.ViewerName = *req.ViewerName
	}
	return row, nil
}

// Record hands a view row to the async batch worker. Ingestion is
// fire-and-forget; the caller is acknowledged before the row is durable.
func (s *analyticsService) Record(ctx context.Context, row model.ViewSession) {
	s.worker.Enqueue(row)
}

// PlayerAnalytics computes the per-player rollup. Storage failures and
// unknown players both yield a well-formed zero-valued result.
func (s *analyticsService) PlayerAnalytics(ctx context.Context, playerID string) model.PlayerViewAnalytics {
	analytics := model.PlayerViewAnalytics{
		PlayerID:      playerID,
		RecentViewers: []model.RecentViewer{},
	}

	sessions, err := s.views.FetchPlayerSessions(ctx, playerID)
	if err != nil {
		log.Warn().Err(err).Str("player_id", playerID).Msg("player analytics query failed, returning empty result")
		return analytics
	}
	if len(sessions) == 0 {
		return analytics
	}

	unique := make(map[string]struct{}, len(sessions))
	var watchSum, completionSum float64
	for _, sess := range sessions {
		if sess.ViewerID != "" {
			unique["viewer:"+sess.ViewerID] = struct{}{}
		} else {
			unique["session:"+sess.SessionID] = struct{}{}
		}
		watchSum += sess.WatchDuration
		completionSum += sess.Completion()
	}

	analytics.TotalViews = uint64(len(sessions))
	analytics.UniqueViewers = uint64(len(unique))
	analytics.AvgWatchDuration = watchSum / float64(len(sessions))
	analytics.AvgCompletion = completionSum / float64(len(sessions))

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].WatchedAt.After(sessions[j].WatchedAt)
	})
	limit := s.recentLimit
	if limit > len(sessions) {
		limit = len(sessions)
	}
	for _, sess := range sessions[:limit] {
		analytics.RecentViewers = append(analytics.RecentViewers, model.RecentViewer{
			Label:         viewerLabel(sess),
			ViewerName:    sess.ViewerName,
			ViewerEmail:   sess.ViewerEmail,
			WatchedAt:     sess.WatchedAt,
			WatchDuration: sess.WatchDuration,
			Completion:    sess.Completion(),
		})
	}
	return analytics
}

type playerAccumulator struct {
	views         uint64
	watchTime     float64
	completionSum float64
	lastViewed    time.Time
}

// MostWatched ranks players by total views with watch-time and recency
// tie-breaks, and computes platform stats over the entire event set
// regardless of the leaderboard cutoff.
func (s *analyticsService) MostWatched(ctx context.Context, limit int) model.MostWatchedData {
	data := model.MostWatchedData{Leaderboard: []model.LeaderboardEntry{}}
	if limit <= 0 {
		limit = s.defaultLimit
	}

	sessions, err := s.views.FetchAllSessions(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("leaderboard query failed, returning empty result")
		return data
	}
	if len(sessions) == 0 {
		return data
	}

	groups := make(map[string]*playerAccumulator)
	for _, sess := range sessions {
		acc, ok := groups[sess.PlayerID]
		if !ok {
			acc = &playerAccumulator{}
			groups[sess.PlayerID] = acc
		}
		acc.views++
		acc.watchTime += sess.WatchDuration
		acc.completionSum += sess.Completion()
		if sess.WatchedAt.After(acc.lastViewed) {
			acc.lastViewed = sess.WatchedAt
		}
		data.PlatformStats.TotalViews++
		data.PlatformStats.TotalWatchTimeSeconds += sess.WatchDuration
	}
	data.PlatformStats.UniquePlayersWatched = uint64(len(groups))

	entries := make([]model.LeaderboardEntry, 0, len(groups))
	for playerID, acc := range groups {
		entries = append(entries, model.LeaderboardEntry{
			PlayerID:       playerID,
			TotalViews:     acc.views,
			TotalWatchTime: acc.watchTime,
			AvgCompletion:  acc.completionSum / float64(acc.views),
			LastViewed:     acc.lastViewed,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].TotalViews != entries[j].TotalViews {
			return entries[i].TotalViews > entries[j].TotalViews
		}
		if entries[i].TotalWatchTime != entries[j].TotalWatchTime {
			return entries[i].TotalWatchTime > entries[j].TotalWatchTime
		}
		return entries[i].LastViewed.After(entries[j].LastViewed)
	})
	if limit < len(entries) {
		entries = entries[:limit]
	}

	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		ids = append(ids, entry.PlayerID)
	}

	summaries, err := s.players.FetchSummaries(ctx, ids)
	if err != nil {
		log.Warn().Err(err).Msg("player summary lookup failed, leaderboard degrades to ids")
		summaries = map[string]model.PlayerSummary{}
	}
	for i := range entries {
		if summary, ok := summaries[entries[i].PlayerID]; ok {
			entries[i].Player = summary
		} else {
			entries[i].Player = model.PlayerSummary{ID: entries[i].PlayerID}
		}
	}

	data.Leaderboard = entries
	return data
}

// ViewCounts returns total views per player for every player with at least
// one view.
func (s *analyticsService) ViewCounts(ctx context.Context) model.ViewCounts {
	counts := model.ViewCounts{Counts: map[string]uint64{}}

	sessions, err := s.views.FetchAllSessions(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("view counts query failed, returning empty result")
		return counts
	}
	for _, sess := range sessions {
		counts.Counts[sess.PlayerID]++
	}
	return counts
}

func viewerLabel(sess model.ViewSession) string {
	if sess.ViewerName != "" {
		return sess.ViewerName
	}
	if sess.ViewerEmail != "" {
		return sess.ViewerEmail
	}
	return "Anonymous Viewer"
}
