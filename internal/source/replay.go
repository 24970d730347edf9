package source

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"
)

// ErrMalformed is returned for a JSON Lines record that cannot be decoded.
// The reader has moved past the record, so Next may be called again.
var ErrMalformed = errors.New("malformed observation")

const maxLineSize = 1 << 20

// ReplaySource plays back a fixed list of observations.
type ReplaySource struct {
	obs      []Observation
	loop     bool
	interval time.Duration
	clock    func() time.Time

	mu     sync.Mutex
	pos    int
	closed bool
}

// ReplayOption configures a ReplaySource.
type ReplayOption func(*ReplaySource)

// WithLoop restarts playback from the first observation after the last.
func WithLoop() ReplayOption {
	return func(r *ReplaySource) { r.loop = true }
}

// WithInterval paces playback to one observation per d.
func WithInterval(d time.Duration) ReplayOption {
	return func(r *ReplaySource) { r.interval = d }
}

// WithStamp overwrites every observation's timestamp with now() at the time
// it is returned.
func WithStamp(now func() time.Time) ReplayOption {
	return func(r *ReplaySource) { r.clock = now }
}

// NewReplaySource returns a source that yields obs in order.
func NewReplaySource(obs []Observation, opts ...ReplayOption) *ReplaySource {
	r := &ReplaySource{obs: obs}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Next returns the next observation, or io.EOF once a non-looping replay is
// exhausted or the source is closed. An empty looping replay is exhausted
// immediately.
func (r *ReplaySource) Next(ctx context.Context) (Observation, error) {
	if err := ctx.Err(); err != nil {
		return Observation{}, err
	}

	if r.interval > 0 {
		timer := time.NewTimer(r.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return Observation{}, ctx.Err()
		case <-timer.C:
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed || len(r.obs) == 0 {
		return Observation{}, io.EOF
	}
	if r.pos >= len(r.obs) {
		if !r.loop {
			return Observation{}, io.EOF
		}
		r.pos = 0
	}

	o := r.obs[r.pos]
	r.pos++
	if r.clock != nil {
		o.Timestamp = r.clock()
	}
	return o, nil
}

// Close ends playback.
func (r *ReplaySource) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

// ReaderSource decodes JSON Lines observations lazily from a stream, one
// record per line. Blank lines and lines starting with '#' are skipped.
type ReaderSource struct {
	scanner *bufio.Scanner
	closer  io.Closer
	line    int
	mu      sync.Mutex
}

// NewReaderSource reads observations from r. If r is an io.Closer it is
// closed by Close.
func NewReaderSource(r io.Reader) *ReaderSource {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	s := &ReaderSource{scanner: sc}
	if c, ok := r.(io.Closer); ok {
		s.closer = c
	}
	return s
}

// Next decodes the next record. Records without a timestamp are stamped with
// the current time.
func (s *ReaderSource) Next(ctx context.Context) (Observation, error) {
	if err := ctx.Err(); err != nil {
		return Observation{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for s.scanner.Scan() {
		s.line++
		raw := bytes.TrimSpace(s.scanner.Bytes())
		if len(raw) == 0 || raw[0] == '#' {
			continue
		}

		var o Observation
		if err := json.Unmarshal(raw, &o); err != nil {
			return Observation{}, fmt.Errorf("line %d: %w: %v", s.line, ErrMalformed, err)
		}
		if o.Timestamp.IsZero() {
			o.Timestamp = time.Now()
		}
		return o, nil
	}

	if err := s.scanner.Err(); err != nil {
		return Observation{}, fmt.Errorf("line %d: %w", s.line+1, err)
	}
	return Observation{}, io.EOF
}

// Line returns the number of the last line read.
func (s *ReaderSource) Line() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.line
}

// Close closes the underlying reader when it is closable.
func (s *ReaderSource) Close() error {
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}

// LoadJSONL decodes every record of r. Malformed records abort the load.
func LoadJSONL(r io.Reader) ([]Observation, error) {
	src := NewReaderSource(r)
	var out []Observation
	for {
		o, err := src.Next(context.Background())
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
}
