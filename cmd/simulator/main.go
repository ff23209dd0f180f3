// Simulator drives simulated viewers through the real telemetry recorder
// against a running service instance, for end-to-end smoke and load testing
// of the ingestion and aggregation path.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"view-analytics-service/internal/format"
	"view-analytics-service/internal/model"
	"view-analytics-service/internal/recorder"
)

type simConfig struct {
	Endpoint    string
	Viewers     int
	Players     int
	MaxWatchSec int
	Interval    time.Duration
}

func parseFlags() *simConfig {
	c := &simConfig{}
	flag.StringVar(&c.Endpoint, "endpoint", "", "Service base URL (required)")
	flag.IntVar(&c.Viewers, "viewers", 50, "Concurrent simulated viewers")
	flag.IntVar(&c.Players, "players", 10, "Distinct players to watch")
	flag.IntVar(&c.MaxWatchSec, "max-watch", 30, "Max seconds each viewer watches")
	flag.DurationVar(&c.Interval, "interval", 2*time.Second, "Recorder sample interval")
	flag.Parse()

	if c.Endpoint == "" {
		fmt.Fprintln(os.Stderr, "Error: -endpoint is required")
		flag.Usage()
		os.Exit(1)
	}
	return c
}

// httpWriter reports telemetry over the service's HTTP API.
type httpWriter struct {
	endpoint string
	client   *http.Client

	views   atomic.Uint64
	updates atomic.Uint64
	errors  atomic.Uint64
}

func (w *httpWriter) RecordView(ctx context.Context, req model.RecordViewRequest) error {
	if err := w.post(ctx, "/views", req); err != nil {
		w.errors.Add(1)
		return err
	}
	w.views.Add(1)
	return nil
}

func (w *httpWriter) UpdateView(ctx context.Context, req model.ProgressRequest) error {
	if err := w.post(ctx, "/views/progress", req); err != nil {
		w.errors.Add(1)
		return err
	}
	w.updates.Add(1)
	return nil
}

func (w *httpWriter) post(ctx context.Context, path string, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.endpoint+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	res, err := w.client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d", res.StatusCode)
	}
	return nil
}

// wallClockPlayback advances with real time until the video ends.
type wallClockPlayback struct {
	started time.Time
	total   float64
}

func (p *wallClockPlayback) CurrentTime() float64 {
	elapsed := time.Since(p.started).Seconds()
	if elapsed > p.total {
		return p.total
	}
	return elapsed
}

func (p *wallClockPlayback) Duration() float64 {
	return p.total
}

func watchOnce(cfg *simConfig, writer *httpWriter, rng *rand.Rand, viewerNum int) time.Duration {
	playerID := fmt.Sprintf("player-%d", rng.Intn(cfg.Players)+1)
	playback := &wallClockPlayback{
		started: time.Now(),
		total:   float64(30 + rng.Intn(90)),
	}

	var viewer *recorder.Viewer
	if rng.Intn(2) == 0 {
		viewer = &recorder.Viewer{
			ID:    fmt.Sprintf("viewer-%d", viewerNum),
			Email: fmt.Sprintf("viewer%d@example.com", viewerNum),
			Name:  fmt.Sprintf("Viewer %d", viewerNum),
		}
	}

	rec := recorder.New(writer, playback, &recorder.TabToken{}, playerID, recorder.Options{
		Viewer:         viewer,
		SampleInterval: cfg.Interval,
	})

	ctx := context.Background()
	rec.Play(ctx)
	watchFor := time.Duration(1+rng.Intn(cfg.MaxWatchSec)) * time.Second
	time.Sleep(watchFor)
	rec.Close(ctx)
	return watchFor
}

func main() {
	cfg := parseFlags()

	writer := &httpWriter{
		endpoint: cfg.Endpoint,
		client:   &http.Client{Timeout: 5 * time.Second},
	}

	start := time.Now()
	var wg sync.WaitGroup
	var watchedSec atomic.Uint64
	for i := 0; i < cfg.Viewers; i++ {
		wg.Add(1)
		go func(num int) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(time.Now().UnixNano() + int64(num)))
			watched := watchOnce(cfg, writer, rng, num)
			watchedSec.Add(uint64(watched.Seconds()))
		}(i + 1)
	}
	wg.Wait()

	fmt.Printf("done in %s: views=%s watched=%s updates=%d errors=%d\n",
		time.Since(start).Round(time.Millisecond),
		format.ViewCount(writer.views.Load()),
		format.WatchTime(float64(watchedSec.Load())),
		writer.updates.Load(), writer.errors.Load())
}
