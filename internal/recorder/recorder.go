package recorder

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"codeberg.org/nording/hrvctl/internal/errors"
	"codeberg.org/nording/hrvctl/internal/logger"
	"codeberg.org/nording/hrvctl/internal/model"
)

// Recorder appends every session-relevant model update to a CSV log: one
// row per update with a wall-clock timestamp, the field name, and the
// value reduced to its latest scalar.
//
// The subscription only exists while a recording is active; updates that
// arrive while stopped are dropped, not buffered.
type Recorder struct {
	model        *model.Model
	dir          string
	allowReplace bool

	mu   sync.Mutex
	file *os.File
	w    *csv.Writer
	sub  *model.Subscription
	rows int
	wg   sync.WaitGroup
}

// New creates a recorder. Relative destinations resolve against dir; an
// empty dir means the working directory. When allowReplace is set,
// existing files may be overwritten without the caller asking for it.
func New(m *model.Model, dir string, allowReplace bool) *Recorder {
	return &Recorder{model: m, dir: dir, allowReplace: allowReplace}
}

// Start validates the destination and begins recording. The parent
// directory must exist, and an existing file is refused unless overwrite
// is set; a recording never silently truncates earlier data.
func (r *Recorder) Start(path string, overwrite bool) error {
	errFactory := errors.New()

	if path == "" {
		return errFactory.New(ErrInvalidPath)
	}
	if !filepath.IsAbs(path) && r.dir != "" {
		path = filepath.Join(r.dir, path)
	}
	if info, err := os.Stat(filepath.Dir(path)); err != nil || !info.IsDir() {
		return errFactory.WithData(ErrInvalidPath, path)
	}
	if _, err := os.Stat(path); err == nil && !overwrite && !r.allowReplace {
		return errFactory.WithData(ErrPathExists, path)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sub != nil {
		return errFactory.New(ErrAlreadyRecording)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return errFactory.Wrap(ErrOpenFailed, err)
	}

	r.file = file
	r.w = csv.NewWriter(file)
	r.rows = 0
	if err := r.w.Write([]string{"timestamp", "field", "value"}); err != nil {
		file.Close()
		r.file, r.w = nil, nil
		return errFactory.Wrap(ErrWriteFailed, err)
	}

	r.sub = r.model.Bus().Subscribe(0, model.RecorderFields()...)
	r.wg.Add(1)
	go r.drain(r.sub)

	logger.Info().Str("path", path).Msg("recording started")
	r.model.EmitStatus(fmt.Sprintf("Recording to %s.", path))

	return nil
}

// Stop flushes and closes the recording. Idempotent: stopping a stopped
// recorder is a no-op.
func (r *Recorder) Stop() error {
	errFactory := errors.New()

	r.mu.Lock()
	sub := r.sub
	r.sub = nil
	r.mu.Unlock()

	if sub == nil {
		return nil
	}

	sub.Close()
	r.wg.Wait()

	r.mu.Lock()
	defer r.mu.Unlock()

	r.w.Flush()
	err := r.w.Error()
	if closeErr := r.file.Close(); err == nil {
		err = closeErr
	}
	rows := r.rows
	r.file, r.w = nil, nil

	if err != nil {
		return errFactory.Wrap(ErrCloseFailed, err)
	}

	logger.Info().Int("rows", rows).Msg("recording saved")
	r.model.EmitStatus("Recording saved.")

	return nil
}

// Recording reports whether a destination is currently open.
func (r *Recorder) Recording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.sub != nil
}

func (r *Recorder) drain(sub *model.Subscription) {
	defer r.wg.Done()

	for u := range sub.C {
		r.writeRow(u)
	}
}

func (r *Recorder) writeRow(u model.Update) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.w == nil {
		return
	}

	row := []string{
		u.Time.Format(time.RFC3339Nano),
		string(u.Field),
		u.Value.Text(),
	}
	if err := r.w.Write(row); err != nil {
		errFactory := errors.New()
		logger.ErrorWithCode(errFactory.Wrap(ErrWriteFailed, err)).Msg("")
		return
	}
	r.w.Flush()
	r.rows++
}
