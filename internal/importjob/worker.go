package importjob

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"alumni/internal/bulkimport"
	"alumni/internal/metrics"
	"alumni/internal/queue"
)

// MessageType tags import jobs on the queue.
const MessageType = "import"

// Job asks the worker to import a previewed session.
type Job struct {
	SessionID   string `json:"session_id"`
	RequestedBy string `json:"requested_by,omitempty"`
}

// Enqueue publishes an import job for sessionID.
func Enqueue(ctx context.Context, q queue.Queue, job Job) error {
	body, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return q.Publish(ctx, queue.Message{Type: MessageType, Body: body})
}

// Worker runs queued imports one at a time.
type Worker struct {
	store   Store
	creator bulkimport.Creator
	delay   time.Duration
	log     *logrus.Logger
}

// NewWorker creates a worker that submits records through creator.
func NewWorker(store Store, creator bulkimport.Creator, delay time.Duration, log *logrus.Logger) *Worker {
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}
	return &Worker{store: store, creator: creator, delay: delay, log: log}
}

// Run consumes q until ctx ends.
func (w *Worker) Run(ctx context.Context, q queue.Queue) error {
	messages, err := q.Consume(ctx)
	if err != nil {
		return fmt.Errorf("queue consume init failed: %w", err)
	}
	w.log.Info("import worker started, waiting for jobs")
	for msg := range messages {
		if msg.Type != MessageType {
			w.log.WithField("type", msg.Type).Warn("ignoring unknown message")
			continue
		}
		if err := w.Handle(ctx, msg.Body); err != nil {
			w.log.WithError(err).Error("import job failed")
		}
	}
	w.log.Info("import worker stopped")
	return nil
}

// Handle runs a single import job and persists its progress and result.
func (w *Worker) Handle(ctx context.Context, body []byte) error {
	var job Job
	if err := json.Unmarshal(body, &job); err != nil {
		return fmt.Errorf("decode job: %w", err)
	}
	log := w.log.WithField("session_id", job.SessionID)

	s, err := w.store.Get(ctx, job.SessionID)
	if err != nil {
		return fmt.Errorf("load session %s: %w", job.SessionID, err)
	}
	if err := s.Ready(); err != nil {
		log.WithError(err).Warn("skipping import job")
		return nil
	}

	log.WithFields(logrus.Fields{
		"file":  s.FileName,
		"valid": len(s.Preview.Valid),
	}).Info("import started")

	start := time.Now()
	im := bulkimport.NewImporter(w.creator, w.delay, w.log)
	_, runErr := s.Import(ctx, im, func(p bulkimport.Progress) {
		metrics.ImportRecords.WithLabelValues(string(p.Outcome)).Inc()
		if err := w.store.Save(ctx, s); err != nil {
			log.WithError(err).Warn("saving progress failed")
		}
	})
	metrics.ImportDuration.Observe(time.Since(start).Seconds())
	metrics.ImportRuns.WithLabelValues(string(s.State)).Inc()

	// The run may have been cancelled; the final state is still written.
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := w.store.Save(saveCtx, s); err != nil {
		return fmt.Errorf("save result: %w", err)
	}
	if runErr != nil {
		return fmt.Errorf("import %s: %w", s.ID, runErr)
	}
	log.WithFields(logrus.Fields{
		"succeeded": s.Result.Succeeded,
		"skipped":   s.Result.Skipped,
		"failed":    s.Result.Failed,
	}).Info("import finished")
	return nil
}
