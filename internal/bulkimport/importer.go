package bulkimport

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"alumni/internal/alumni"
)

// DefaultDelay is the pause between two submissions.
const DefaultDelay = 100 * time.Millisecond

// AlreadyExistsMarker identifies a creator rejection that means the record is
// already stored. Such rejections count as skipped rather than failed.
const AlreadyExistsMarker = "already exists"

// CreateResponse is the creator's verdict for one record.
type CreateResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Creator stores one record. A non-nil error means the request itself failed.
type Creator interface {
	Create(ctx context.Context, rec alumni.Record) (CreateResponse, error)
}

// CreatorFunc adapts a function to Creator.
type CreatorFunc func(ctx context.Context, rec alumni.Record) (CreateResponse, error)

func (f CreatorFunc) Create(ctx context.Context, rec alumni.Record) (CreateResponse, error) {
	return f(ctx, rec)
}

// Progress is reported after each record.
type Progress struct {
	State   State
	Done    int
	Total   int
	Record  alumni.Record
	Outcome Outcome
	Message string
}

// Importer submits records strictly one at a time.
type Importer struct {
	creator Creator
	delay   time.Duration
	log     *logrus.Logger
}

// NewImporter creates an importer. A negative delay disables pausing, zero
// selects DefaultDelay, and a nil logger discards output.
func NewImporter(creator Creator, delay time.Duration, log *logrus.Logger) *Importer {
	if delay == 0 {
		delay = DefaultDelay
	}
	if delay < 0 {
		delay = 0
	}
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}
	return &Importer{creator: creator, delay: delay, log: log}
}

// Run submits records in order and waits for each verdict before sending the
// next. Nothing is rolled back. When ctx ends the run stops before the next
// submission and returns the partial result with State set to StateCancelled
// together with ctx's error.
func (im *Importer) Run(ctx context.Context, records []alumni.Record, progress func(Progress)) (*Result, error) {
	res := &Result{State: StateImporting, Total: len(records)}
	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			return im.cancel(res, err)
		}

		outcome, msg := im.submit(ctx, rec)
		res.record(rec, outcome, msg)

		state := StateImporting
		if i == len(records)-1 {
			state = StateCompleted
		}
		if progress != nil {
			progress(Progress{State: state, Done: i + 1, Total: len(records), Record: rec, Outcome: outcome, Message: msg})
		}

		if i < len(records)-1 && im.delay > 0 {
			t := time.NewTimer(im.delay)
			select {
			case <-ctx.Done():
				t.Stop()
				return im.cancel(res, ctx.Err())
			case <-t.C:
			}
		}
	}
	res.State = StateCompleted
	im.log.WithFields(logrus.Fields{
		"total":     res.Total,
		"succeeded": res.Succeeded,
		"skipped":   res.Skipped,
		"failed":    res.Failed,
	}).Info("import completed")
	return res, nil
}

func (im *Importer) cancel(res *Result, err error) (*Result, error) {
	res.State = StateCancelled
	im.log.WithFields(logrus.Fields{
		"processed": res.Processed(),
		"total":     res.Total,
	}).WithError(err).Warn("import cancelled")
	return res, err
}

func (im *Importer) submit(ctx context.Context, rec alumni.Record) (Outcome, string) {
	entry := im.log.WithField("alumni_id", rec.AlumniID)
	resp, err := im.creator.Create(ctx, rec)
	switch {
	case err != nil:
		entry.WithError(err).Warn("create request failed")
		return OutcomeFailed, err.Error()
	case resp.Success:
		entry.Debug("record imported")
		return OutcomeSucceeded, ""
	case strings.Contains(resp.Message, AlreadyExistsMarker):
		entry.Info("record already stored, skipping")
		return OutcomeSkipped, resp.Message
	}
	msg := resp.Message
	if msg == "" {
		msg = "Unknown error"
	}
	entry.WithField("reason", msg).Warn("record rejected")
	return OutcomeFailed, msg
}
