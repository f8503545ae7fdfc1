// Package sessionlog persists raw session payloads as append-only JSONL.
//
// All writes funnel through a bounded job channel into a single writer
// goroutine, so concurrent appends serialize into whole lines and the file
// never interleaves. Each append waits for its own ack before returning.
package sessionlog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/neurofitplus/neurofit/internal/domain/model"
	"github.com/neurofitplus/neurofit/pkg/logger"
	"github.com/neurofitplus/neurofit/pkg/metrics"
)

// Default store configuration constants.
const (
	defaultQueueSize = 1024
	defaultFileMode  = 0o644
	defaultDirMode   = 0o755
)

// Store provides durable append access to the session log.
type Store interface {
	// Append persists one session record and blocks until the writer has
	// acknowledged the line, or ctx expires. Once the job is enqueued the
	// writer keeps it: a ctx error returned from that point does not mean the
	// line was dropped, so retrying on cancellation can duplicate records.
	Append(ctx context.Context, s model.Session) (model.SaveReceipt, error)

	// Count returns the number of records appended since startup.
	Count(ctx context.Context) int

	// Path returns the log file location.
	Path() string

	// Close drains pending appends and releases the file handle.
	// After closing, new appends fail with ErrClosed.
	Close() error
}

type job struct {
	line []byte
	ack  chan error
}

// JSONLStore implements Store with a buffered channel feeding one writer.
type JSONLStore struct {
	path      string
	queueSize int
	name      string

	jobs chan job
	done chan struct{}

	mu     sync.RWMutex
	closed bool

	appended atomic.Int64

	logger logger.Logger
}

// NewJSONLStore creates a store writing to path and starts its writer loop.
// The destination directory and file are created on the first append.
func NewJSONLStore(path string, opts ...Option) *JSONLStore {
	s := &JSONLStore{
		path:      path,
		queueSize: defaultQueueSize,
		name:      "sessionlog",
		done:      make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.jobs = make(chan job, s.queueSize)
	s.logger = logger.Get().Named(s.name)

	metrics.UpdateAppendQueueCapacity(s.queueSize)
	metrics.UpdateAppendQueueSize(0)

	go s.run()

	return s
}

// Append persists one session record.
func (s *JSONLStore) Append(ctx context.Context, sess model.Session) (model.SaveReceipt, error) {
	start := time.Now()

	line, err := json.Marshal(sess)
	if err != nil {
		metrics.RecordSessionAppendError()
		return model.SaveReceipt{}, fmt.Errorf("%w: %w", ErrEncode, err)
	}

	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		metrics.RecordSessionAppendError()
		return model.SaveReceipt{}, ErrClosed
	}

	j := job{line: line, ack: make(chan error, 1)}
	select {
	case s.jobs <- j:
		s.mu.RUnlock()
	case <-ctx.Done():
		s.mu.RUnlock()
		metrics.RecordSessionAppendError()
		return model.SaveReceipt{}, ctx.Err()
	}
	metrics.UpdateAppendQueueSize(len(s.jobs))

	select {
	case err := <-j.ack:
		if err != nil {
			metrics.RecordSessionAppendError()
			return model.SaveReceipt{}, err
		}
	case <-ctx.Done():
		metrics.RecordSessionAppendError()
		return model.SaveReceipt{}, ctx.Err()
	}

	s.appended.Add(1)
	metrics.RecordSessionAppend()
	metrics.RecordAppendLatency(float64(time.Since(start).Milliseconds()))

	return model.SaveReceipt{
		Status:    "saved",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		File:      s.path,
	}, nil
}

// Count returns the number of records appended since startup.
func (s *JSONLStore) Count(_ context.Context) int {
	return int(s.appended.Load())
}

// Path returns the log file location.
func (s *JSONLStore) Path() string {
	return s.path
}

// Close drains pending appends and stops the writer.
func (s *JSONLStore) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	close(s.jobs)
	s.mu.Unlock()

	<-s.done
	return nil
}

// run is the single writer loop. It owns the file handle exclusively; the
// handle is opened on the first job so a store pointed at a read-only
// location only fails when something is actually saved.
func (s *JSONLStore) run() {
	defer close(s.done)

	ctx := context.Background()
	var f *os.File

	for j := range s.jobs {
		if f == nil {
			var err error
			f, err = s.open()
			if err != nil {
				s.logger.Error(ctx, "opening session log", logger.Error(err), logger.String("path", s.path))
				j.ack <- fmt.Errorf("%w: %w", ErrOpen, err)
				continue
			}
		}

		if _, err := f.Write(append(j.line, '\n')); err != nil {
			s.logger.Error(ctx, "appending session record", logger.Error(err))
			j.ack <- fmt.Errorf("%w: %w", ErrWrite, err)
			continue
		}
		j.ack <- nil
		metrics.UpdateAppendQueueSize(len(s.jobs))
	}

	if f != nil {
		if err := f.Close(); err != nil {
			s.logger.Warn(ctx, "closing session log", logger.Error(err))
		}
	}
}

func (s *JSONLStore) open() (*os.File, error) {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, defaultDirMode); err != nil {
			return nil, err
		}
	}
	return os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, defaultFileMode)
}
