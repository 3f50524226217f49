package bulkimport

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNothingToImport is returned when a session has no valid rows.
	ErrNothingToImport = errors.New("no valid records to import")
	// ErrSessionStarted is returned when a session is imported twice.
	ErrSessionStarted = errors.New("import already started")
)

// Session carries one uploaded file from preview to result.
type Session struct {
	ID        string    `json:"id"`
	FileName  string    `json:"file_name"`
	CreatedAt time.Time `json:"created_at"`
	State     State     `json:"state"`
	Preview   *Preview  `json:"preview"`
	Progress  int       `json:"progress"`
	Result    *Result   `json:"result,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// NewSession parses r against the existing ids and returns an idle session.
func NewSession(fileName string, r io.Reader, existing IDSet) (*Session, error) {
	p, err := Parse(r, existing)
	if err != nil {
		return nil, err
	}
	return &Session{
		ID:        uuid.NewString(),
		FileName:  fileName,
		CreatedAt: time.Now().UTC(),
		State:     StateIdle,
		Preview:   p,
	}, nil
}

// Ready reports whether the session can be imported.
func (s *Session) Ready() error {
	if s.State != StateIdle {
		return ErrSessionStarted
	}
	if s.Preview == nil || len(s.Preview.Valid) == 0 {
		return ErrNothingToImport
	}
	return nil
}

// Import runs the importer over the valid rows, tracking state and progress
// on the session.
func (s *Session) Import(ctx context.Context, im *Importer, progress func(Progress)) (*Result, error) {
	if err := s.Ready(); err != nil {
		return nil, err
	}
	s.State = StateImporting
	res, err := im.Run(ctx, s.Preview.Records(), func(p Progress) {
		s.Progress = p.Done
		if progress != nil {
			progress(p)
		}
	})
	s.Result = res
	s.State = res.State
	if err != nil {
		s.Error = err.Error()
	}
	return res, err
}
