package model

import (
	"math"
	"time"
)

// RecordViewRequest is the payload sent when a playback session starts.
type RecordViewRequest struct {
	PlayerID     string  `json:"player_id"`
	SessionID    string  `json:"session_id"`
	ViewerID     *string `json:"viewer_id"`
	ViewerEmail  *string `json:"viewer_email"`
	ViewerName   *string `json:"viewer_name"`
	WatchSeconds float64 `json:"watch_duration_seconds"`
	TotalSeconds float64 `json:"total_duration_seconds"`
}

// ProgressRequest is the payload for periodic watch-time updates of an
// already recorded session. It restates the viewer identity and the session
// start so every stored row version carries the full session state.
type ProgressRequest struct {
	PlayerID     string     `json:"player_id"`
	SessionID    string     `json:"session_id"`
	ViewerID     *string    `json:"viewer_id"`
	ViewerEmail  *string    `json:"viewer_email"`
	ViewerName   *string    `json:"viewer_name"`
	WatchSeconds float64    `json:"watch_duration_seconds"`
	TotalSeconds float64    `json:"total_duration_seconds"`
	StartedAt    *time.Time `json:"started_at"`
}

// ViewSession is the domain model for one playback session of one player's
// video. Creates and progress updates are both persisted as versioned rows
// keyed by (PlayerID, SessionID); reads collapse them back to a single
// logical session.
type ViewSession struct {
	PlayerID      string
	SessionID     string
	ViewerID      string
	ViewerEmail   string
	ViewerName    string
	WatchDuration float64
	TotalDuration float64
	CreatedAt     time.Time
	WatchedAt     time.Time
}

// Completion returns the watched percentage of the session, rounded and
// clamped to [0, 100]. A zero or unknown total duration yields 0, never NaN.
func (v ViewSession) Completion() float64 {
	return CompletionPercent(v.WatchDuration, v.TotalDuration)
}

// CompletionPercent computes min(100, round(100*watch/total)), with a
// defined fallback of 0 when total is zero, negative or not a number.
func CompletionPercent(watchSeconds, totalSeconds float64) float64 {
	if totalSeconds <= 0 || math.IsNaN(totalSeconds) || math.IsNaN(watchSeconds) {
		return 0
	}
	if watchSeconds <= 0 {
		return 0
	}
	pct := math.Round(100 * watchSeconds / totalSeconds)
	if pct > 100 {
		return 100
	}
	return pct
}
