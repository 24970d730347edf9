package capture

import (
	"context"
	"fmt"
	"sync"

	"gocv.io/x/gocv"
)

// LatestJPEG holds the most recent frame as JPEG bytes so viewers can watch
// the camera without opening it a second time.
type LatestJPEG struct {
	mu      sync.Mutex
	data    []byte
	seq     uint64
	changed chan struct{}
}

// NewLatestJPEG returns an empty buffer.
func NewLatestJPEG() *LatestJPEG {
	return &LatestJPEG{changed: make(chan struct{})}
}

// Publish encodes frame and replaces the stored image.
func (l *LatestJPEG) Publish(frame *gocv.Mat) error {
	if frame == nil || frame.Empty() {
		return ErrEmptyFrame
	}
	buf, err := gocv.IMEncode(gocv.JPEGFileExt, *frame)
	if err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	data := make([]byte, buf.Len())
	copy(data, buf.GetBytes())
	l.Set(data)
	return nil
}

// Set replaces the stored image with already encoded bytes.
func (l *LatestJPEG) Set(data []byte) {
	l.mu.Lock()
	l.data = data
	l.seq++
	close(l.changed)
	l.changed = make(chan struct{})
	l.mu.Unlock()
}

// Next blocks until an image newer than seq exists and returns it with its
// sequence number. Pass 0 to get the current image if there is one.
func (l *LatestJPEG) Next(ctx context.Context, seq uint64) ([]byte, uint64, error) {
	for {
		l.mu.Lock()
		if l.seq > seq && l.data != nil {
			data, cur := l.data, l.seq
			l.mu.Unlock()
			return data, cur, nil
		}
		wait := l.changed
		l.mu.Unlock()

		select {
		case <-ctx.Done():
			return nil, seq, ctx.Err()
		case <-wait:
		}
	}
}
