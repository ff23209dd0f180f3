package recorder

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"view-analytics-service/internal/model"
)

// Playback exposes the observable state of one playback surface.
type Playback interface {
	// CurrentTime is the playback position in seconds.
	CurrentTime() float64
	// Duration is the total video length in seconds, 0 until metadata loads.
	Duration() float64
}

// ViewWriter is the recorder's write path into the view store. Both calls
// are best-effort; the recorder swallows every error.
type ViewWriter interface {
	RecordView(ctx context.Context, req model.RecordViewRequest) error
	UpdateView(ctx context.Context, req model.ProgressRequest) error
}

// Viewer identifies an authenticated viewer. A nil Viewer records an
// anonymous session.
type Viewer struct {
	ID    string
	Email string
	Name  string
}

// State of a recorder attached to one playback surface.
type State int

const (
	StateIdle State = iota
	StateActive
	StatePaused
	StateFailed
)

// Options tune a Recorder. Zero values fall back to the defaults used in
// production.
type Options struct {
	Viewer         *Viewer
	OnViewRecorded func()

	// SampleInterval is how often the periodic progress report runs.
	SampleInterval time.Duration
	// MinReportDelta is the watch-time advance, in seconds, required
	// between two periodic reports. The final flush ignores it.
	MinReportDelta float64
	// WriteTimeout bounds each telemetry write.
	WriteTimeout time.Duration
}

const (
	defaultSampleInterval = 5 * time.Second
	defaultMinReportDelta = 2.0
	defaultWriteTimeout   = 3 * time.Second
)

// Recorder observes a single playback surface and reports how much of a
// video was watched. It creates at most one view session per mounted
// surface and throttles progress writes so telemetry stays cheap.
type Recorder struct {
	writer   ViewWriter
	playback Playback
	tokens   TokenProvider
	playerID string
	opts     Options
	now      func() time.Time

	mu           sync.Mutex
	state        State
	sessionID    string
	startedAt    time.Time
	recorded     bool
	lastReported float64
	stop         chan struct{}
	wg           sync.WaitGroup
}

// New builds a Recorder for one player's video on one playback surface.
func New(writer ViewWriter, playback Playback, tokens TokenProvider, playerID string, opts Options) *Recorder {
	if opts.SampleInterval <= 0 {
		opts.SampleInterval = defaultSampleInterval
	}
	if opts.MinReportDelta <= 0 {
		opts.MinReportDelta = defaultMinReportDelta
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = defaultWriteTimeout
	}
	return &Recorder{
		writer:   writer,
		playback: playback,
		tokens:   tokens,
		playerID: playerID,
		opts:     opts,
		now:      time.Now,
		state:    StateIdle,
	}
}

// State returns the current lifecycle state.
func (r *Recorder) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// SessionID returns the session identifier, empty until the first play.
func (r *Recorder) SessionID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessionID
}

// Play transitions to Active. The first successful play of a mounted
// surface creates the session and issues the one-shot create write on a
// background goroutine, so the playback surface never waits on the backend;
// resuming after a pause reuses the same session and only restarts sampling.
func (r *Recorder) Play(ctx context.Context) {
	r.mu.Lock()
	if r.state == StateFailed || r.state == StateActive {
		r.mu.Unlock()
		return
	}

	firstPlay := !r.recorded
	if firstPlay {
		r.recorded = true
		r.startedAt = r.now()
		r.sessionID = SessionID(r.tokens.SessionToken(), r.playerID, r.startedAt)
	}
	r.state = StateActive
	stop := make(chan struct{})
	r.stop = stop
	r.wg.Add(1)
	go r.loop(stop)

	if firstPlay {
		req := model.RecordViewRequest{
			PlayerID:     r.playerID,
			SessionID:    r.sessionID,
			WatchSeconds: 0,
			TotalSeconds: r.playback.Duration(),
		}
		req.ViewerID, req.ViewerEmail, req.ViewerName = r.viewerIdentity()
		// Pause and Fail wait on this before their final flush.
		r.wg.Add(1)
		go func() {
			defer r.wg.Done()
			wctx, cancel := context.WithTimeout(ctx, r.opts.WriteTimeout)
			defer cancel()
			if err := r.writer.RecordView(wctx, req); err != nil {
				log.Debug().Err(err).Str("session_id", req.SessionID).Msg("record view write dropped")
			}
			if r.opts.OnViewRecorded != nil {
				r.opts.OnViewRecorded()
			}
		}()
	}
	r.mu.Unlock()
}

// viewerIdentity returns pointers to the non-empty identity fields of the
// configured viewer, all nil for anonymous sessions.
func (r *Recorder) viewerIdentity() (id, email, name *string) {
	v := r.opts.Viewer
	if v == nil {
		return nil, nil, nil
	}
	if v.ID != "" {
		id = &v.ID
	}
	if v.Email != "" {
		email = &v.Email
	}
	if v.Name != "" {
		name = &v.Name
	}
	return id, email, name
}

// Pause stops sampling and issues one unconditional final flush so the last
// seconds of viewing are not lost. Safe to call on end-of-media, seeks back
// to the start, and teardown alike.
func (r *Recorder) Pause(ctx context.Context) {
	r.mu.Lock()
	if r.state != StateActive {
		r.mu.Unlock()
		return
	}
	r.state = StatePaused
	stop := r.stop
	r.stop = nil
	r.mu.Unlock()

	close(stop)
	r.wg.Wait()
	r.flush(ctx, false)
}

// Fail marks the surface as broken; no further writes happen until Retry.
func (r *Recorder) Fail() {
	r.mu.Lock()
	stop := r.stop
	r.stop = nil
	r.state = StateFailed
	r.mu.Unlock()

	if stop != nil {
		close(stop)
		r.wg.Wait()
	}
}

// Retry resets a failed surface to Idle and clears the one-shot view guard
// so the next play starts a fresh session.
func (r *Recorder) Retry() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StateFailed {
		return
	}
	r.state = StateIdle
	r.recorded = false
	r.sessionID = ""
	r.startedAt = time.Time{}
	r.lastReported = 0
}

// Close tears the recorder down: sampling stops and a best-effort final
// flush is attempted.
func (r *Recorder) Close(ctx context.Context) {
	r.Pause(ctx)
}

func (r *Recorder) loop(stop chan struct{}) {
	defer r.wg.Done()
	ticker := time.NewTicker(r.opts.SampleInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			r.flush(context.Background(), true)
		}
	}
}

// flush reports the current watch position. Periodic flushes are throttled
// by MinReportDelta; the final flush on pause/teardown is not. Reported
// watch time never decreases, even if the playback position does. Each
// report restates the viewer identity and the session start, keeping every
// stored row version of the session complete.
func (r *Recorder) flush(ctx context.Context, throttled bool) {
	r.mu.Lock()
	if r.sessionID == "" || (throttled && r.state != StateActive) {
		r.mu.Unlock()
		return
	}
	current := r.playback.CurrentTime()
	if throttled && current-r.lastReported < r.opts.MinReportDelta {
		r.mu.Unlock()
		return
	}
	watch := current
	if watch < r.lastReported {
		watch = r.lastReported
	}
	r.lastReported = watch
	started := r.startedAt
	req := model.ProgressRequest{
		PlayerID:     r.playerID,
		SessionID:    r.sessionID,
		WatchSeconds: watch,
		TotalSeconds: r.playback.Duration(),
		StartedAt:    &started,
	}
	req.ViewerID, req.ViewerEmail, req.ViewerName = r.viewerIdentity()
	r.mu.Unlock()

	wctx, cancel := context.WithTimeout(ctx, r.opts.WriteTimeout)
	defer cancel()
	if err := r.writer.UpdateView(wctx, req); err != nil {
		log.Debug().Err(err).Str("session_id", req.SessionID).Msg("progress write dropped")
	}
}
