package capture

import (
	"context"
	"errors"
	"testing"
	"time"

	"gocv.io/x/gocv"
)

func TestLatestJPEG_Next(t *testing.T) {
	l := NewLatestJPEG()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, _, err := l.Next(ctx, 0); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Next() on empty buffer error = %v, want deadline", err)
	}

	l.Set([]byte("a"))
	data, seq, err := l.Next(context.Background(), 0)
	if err != nil || string(data) != "a" || seq != 1 {
		t.Fatalf("Next() = %q, %d, %v", data, seq, err)
	}

	done := make(chan string)
	go func() {
		data, _, _ := l.Next(context.Background(), seq)
		done <- string(data)
	}()

	time.Sleep(10 * time.Millisecond)
	l.Set([]byte("b"))

	select {
	case got := <-done:
		if got != "b" {
			t.Errorf("waiter got %q, want b", got)
		}
	case <-time.After(time.Second):
		t.Fatal("waiter was not woken by Set")
	}
}

func TestLatestJPEG_Publish(t *testing.T) {
	l := NewLatestJPEG()

	empty := gocv.NewMat()
	defer empty.Close()
	if err := l.Publish(&empty); !errors.Is(err, ErrEmptyFrame) {
		t.Errorf("Publish(empty) error = %v, want ErrEmptyFrame", err)
	}

	frame := gocv.NewMatWithSize(48, 64, gocv.MatTypeCV8UC3)
	defer frame.Close()
	if err := l.Publish(&frame); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	data, _, err := l.Next(context.Background(), 0)
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if len(data) < 2 || data[0] != 0xFF || data[1] != 0xD8 {
		t.Error("published bytes do not start with a JPEG marker")
	}
}
