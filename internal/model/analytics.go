package model

import "time"

// RecentViewer is one entry of a player's recent-viewer listing.
type RecentViewer struct {
	Label         string    `json:"label"`
	ViewerName    string    `json:"viewer_name"`
	ViewerEmail   string    `json:"viewer_email"`
	WatchedAt     time.Time `json:"watched_at"`
	WatchDuration float64   `json:"watch_duration"`
	Completion    float64   `json:"completion"`
}

// PlayerViewAnalytics is the per-player rollup derived from raw view
// sessions. It is recomputed on every request and never stored.
type PlayerViewAnalytics struct {
	PlayerID         string         `json:"player_id"`
	TotalViews       uint64         `json:"total_views"`
	UniqueViewers    uint64         `json:"unique_viewers"`
	AvgWatchDuration float64        `json:"avg_watch_duration"`
	AvgCompletion    float64        `json:"avg_completion"`
	RecentViewers    []RecentViewer `json:"recent_viewers"`
}

// PlayerSummary carries the denormalized display fields of the externally
// maintained player catalog, used for the leaderboard join.
type PlayerSummary struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Position   string  `json:"position"`
	PositionFr string  `json:"position_fr"`
	Club       string  `json:"club"`
	Region     string  `json:"region"`
	Image      string  `json:"image"`
	Rating     float64 `json:"rating"`
	Age        uint8   `json:"age"`
	VideoURL   string  `json:"video_url"`
}

// LeaderboardEntry is one ranked player of the most-watched leaderboard.
type LeaderboardEntry struct {
	PlayerID       string        `json:"player_id"`
	TotalViews     uint64        `json:"total_views"`
	TotalWatchTime float64       `json:"total_watch_time"`
	AvgCompletion  float64       `json:"avg_completion"`
	LastViewed     time.Time     `json:"last_viewed"`
	Player         PlayerSummary `json:"player"`
}

// PlatformStats aggregates the entire view-event set, independent of any
// leaderboard cutoff.
type PlatformStats struct {
	TotalViews            uint64  `json:"total_views"`
	TotalWatchTimeSeconds float64 `json:"total_watch_time_seconds"`
	UniquePlayersWatched  uint64  `json:"unique_players_watched"`
}

// MostWatchedData is returned for leaderboard queries.
type MostWatchedData struct {
	Leaderboard   []LeaderboardEntry `json:"leaderboard"`
	PlatformStats PlatformStats      `json:"platform_stats"`
}

// ViewCounts maps player ids to their total view count, for bulk
// annotation of listing displays.
type ViewCounts struct {
	Counts map[string]uint64 `json:"counts"`
}
