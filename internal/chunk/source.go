package chunk

import (
	"context"
	"io"
	"os"
	"sync"
)

// Source yields bounded audio chunks in order. Next returns io.EOF once the
// source is exhausted; a returned chunk is never longer than the configured
// chunk size. Callers own resumption: a chunk obtained from Next has not been
// delivered anywhere until the caller says so, which is what lets a paused
// send loop pick up again at the exact byte it stopped at.
type Source interface {
	Next(ctx context.Context) ([]byte, error)
	Offset() int64
	Close() error
}

type FileSource struct {
	mu        sync.Mutex
	file      *os.File
	chunkSize int
	offset    int64
	done      bool
}

func NewFileSource(path string, chunkSize int) (*FileSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &FileSource{file: f, chunkSize: chunkSize}, nil
}

func (s *FileSource) Next(_ context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done {
		return nil, io.EOF
	}
	buf := make([]byte, s.chunkSize)
	n, err := io.ReadFull(s.file, buf)
	if err == io.ErrUnexpectedEOF {
		s.done = true
		err = nil
	}
	if err == io.EOF {
		s.done = true
		return nil, io.EOF
	}
	if err != nil {
		return nil, err
	}
	if n == 0 {
		s.done = true
		return nil, io.EOF
	}
	s.offset += int64(n)
	return buf[:n], nil
}

func (s *FileSource) Offset() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.offset
}

func (s *FileSource) Close() error {
	return s.file.Close()
}
