package chunk

import (
	"context"
	"io"
	"sync"
)

// StreamSource buffers pushed bytes from an open-ended stream and hands them
// out as full chunks. A partial remainder is flushed as the final chunk once
// End is called. No total size limit applies; audio duration is open-ended.
type StreamSource struct {
	mu        sync.Mutex
	buf       []byte
	chunkSize int
	offset    int64
	ended     bool
	failErr   error
	notify    chan struct{}
}

func NewStreamSource(chunkSize int) *StreamSource {
	return &StreamSource{
		chunkSize: chunkSize,
		notify:    make(chan struct{}, 1),
	}
}

// Push appends bytes from the producer side. Pushing after End is a no-op.
func (s *StreamSource) Push(p []byte) {
	s.mu.Lock()
	if s.ended {
		s.mu.Unlock()
		return
	}
	s.buf = append(s.buf, p...)
	s.mu.Unlock()
	s.wake()
}

// End marks the producer side finished. Buffered bytes stay readable.
func (s *StreamSource) End() {
	s.mu.Lock()
	s.ended = true
	s.mu.Unlock()
	s.wake()
}

// Fail poisons the source with a producer-side read error. Next reports it
// immediately, ahead of any still-buffered bytes, so a vanished upstream
// surfaces without delay.
func (s *StreamSource) Fail(err error) {
	if err == nil {
		return
	}
	s.mu.Lock()
	if s.failErr == nil {
		s.failErr = err
	}
	s.ended = true
	s.mu.Unlock()
	s.wake()
}

func (s *StreamSource) wake() {
	select {
	case s.notify <- struct{}{}:
	default:
	}
}

func (s *StreamSource) Next(ctx context.Context) ([]byte, error) {
	for {
		s.mu.Lock()
		if s.failErr != nil {
			err := s.failErr
			s.mu.Unlock()
			return nil, err
		}
		if len(s.buf) >= s.chunkSize || (s.ended && len(s.buf) > 0) {
			n := s.chunkSize
			if len(s.buf) < n {
				n = len(s.buf)
			}
			out := make([]byte, n)
			copy(out, s.buf[:n])
			s.buf = s.buf[n:]
			s.offset += int64(n)
			s.mu.Unlock()
			return out, nil
		}
		if s.ended {
			s.mu.Unlock()
			return nil, io.EOF
		}
		s.mu.Unlock()

		select {
		case <-s.notify:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

func (s *StreamSource) Offset() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.offset
}

func (s *StreamSource) Close() error {
	s.End()
	return nil
}

// Pump copies r into the stream source until EOF, then ends it. Intended to
// run in its own goroutine; a read error other than EOF poisons the source
// and is returned.
func Pump(ctx context.Context, r io.Reader, s *StreamSource) error {
	defer s.End()
	buf := make([]byte, s.chunkSize)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := r.Read(buf)
		if n > 0 {
			s.Push(buf[:n])
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			s.Fail(err)
			return err
		}
	}
}
