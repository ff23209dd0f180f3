package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"view-analytics-service/internal/model"
	"view-analytics-service/internal/repository"
)

// BatchViewWorker buffers incoming view rows and flushes them to storage in
// bulk. Telemetry is best-effort: rows that cannot be buffered or flushed
// are dropped, never retried.
type BatchViewWorker interface {
	Enqueue(row model.ViewSession)
	Shutdown()
}

type batchViewWorker struct {
	repo          repository.ViewRepository
	queue         chan model.ViewSession
	batchSize     int
	flushInterval time.Duration
	wg            sync.WaitGroup
}

// NewBatchViewWorker starts the background flush loop.
func NewBatchViewWorker(repo repository.ViewRepository, bufferSize, batchSize int, interval time.Duration) *batchViewWorker {
	worker := &batchViewWorker{
		repo:          repo,
		queue:         make(chan model.ViewSession, bufferSize),
		batchSize:     batchSize,
		flushInterval: interval,
	}
	worker.wg.Add(1)
	go worker.startLoop()
	return worker
}

// Enqueue never blocks the caller; when the buffer is full the row is
// dropped, bounded in impact to one sampling interval of watch time.
func (w *batchViewWorker) Enqueue(row model.ViewSession) {
	select {
	case w.queue <- row:
	default:
		log.Warn().Str("player_id", row.PlayerID).Str("session_id", row.SessionID).Msg("view buffer full, dropping sample")
	}
}

// Shutdown closes the queue and waits for the loop to drain and flush.
func (w *batchViewWorker) Shutdown() {
	close(w.queue)
	w.wg.Wait()
}

func (w *batchViewWorker) startLoop() {
	defer w.wg.Done()

	var batch []model.ViewSession
	ticker := time.NewTicker(w.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case row, ok := <-w.queue:
			if !ok {
				if len(batch) > 0 {
					w.flush(batch)
				}
				log.Info().Msg("view worker drained and stopped")
				return
			}

			batch = append(batch, row)
			if len(batch) >= w.batchSize {
				w.flush(batch)
				batch = nil
			}

		case <-ticker.C:
			if len(batch) > 0 {
				w.flush(batch)
				batch = nil
			}
		}
	}
}

func (w *batchViewWorker) flush(rows []model.ViewSession) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := w.repo.InsertBatch(ctx, rows); err != nil {
		log.Error().Err(err).Int("rows", len(rows)).Msg("view batch insert failed, samples lost")
		return
	}
	log.Debug().Int("rows", len(rows)).Msg("view batch flushed")
}
