package chunk

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTempFile(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "audio.pcm")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return path
}

func patternBytes(n int) []byte {
	data := make([]byte, n)
	for i := range data {
		data[i] = byte(i % 251)
	}
	return data
}

func drain(t *testing.T, src Source) [][]byte {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var chunks [][]byte
	for {
		c, err := src.Next(ctx)
		if err == io.EOF {
			return chunks
		}
		if err != nil {
			t.Fatalf("unexpected error from Next: %v", err)
		}
		chunks = append(chunks, c)
	}
}

func TestFileSource_ExactBytesAndBoundedChunks(t *testing.T) {
	data := patternBytes(6400*2 + 123)
	src, err := NewFileSource(writeTempFile(t, data), 6400)
	if err != nil {
		t.Fatalf("failed to open file source: %v", err)
	}
	defer src.Close()

	chunks := drain(t, src)
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	var joined []byte
	for _, c := range chunks {
		if len(c) > 6400 {
			t.Fatalf("chunk exceeds chunk size: %d", len(c))
		}
		joined = append(joined, c...)
	}
	if !bytes.Equal(joined, data) {
		t.Fatal("reassembled chunks do not match source data")
	}
	if len(chunks[2]) != 123 {
		t.Fatalf("expected 123-byte tail chunk, got %d", len(chunks[2]))
	}
	if src.Offset() != int64(len(data)) {
		t.Fatalf("expected offset %d, got %d", len(data), src.Offset())
	}
}

func TestFileSource_ChunkAlignedNoEmptyTail(t *testing.T) {
	data := patternBytes(6400)
	src, err := NewFileSource(writeTempFile(t, data), 6400)
	if err != nil {
		t.Fatalf("failed to open file source: %v", err)
	}
	defer src.Close()

	chunks := drain(t, src)
	if len(chunks) != 1 {
		t.Fatalf("expected exactly 1 chunk, got %d", len(chunks))
	}
}

func TestFileSource_EmptyFile(t *testing.T) {
	src, err := NewFileSource(writeTempFile(t, nil), 6400)
	if err != nil {
		t.Fatalf("failed to open file source: %v", err)
	}
	defer src.Close()

	if chunks := drain(t, src); len(chunks) != 0 {
		t.Fatalf("expected no chunks from empty file, got %d", len(chunks))
	}
}

func TestStreamSource_TwoFullChunksNoTrailingEmpty(t *testing.T) {
	src := NewStreamSource(6400)
	src.Push(patternBytes(12800))
	src.End()

	chunks := drain(t, src)
	if len(chunks) != 2 {
		t.Fatalf("expected exactly 2 chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if len(c) != 6400 {
			t.Fatalf("chunk %d: expected 6400 bytes, got %d", i, len(c))
		}
	}
}

func TestStreamSource_PartialTailFlushedOnEnd(t *testing.T) {
	src := NewStreamSource(100)
	src.Push(patternBytes(250))
	src.End()

	chunks := drain(t, src)
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	if len(chunks[2]) != 50 {
		t.Fatalf("expected 50-byte tail chunk, got %d", len(chunks[2]))
	}
}

func TestStreamSource_NextBlocksUntilPush(t *testing.T) {
	src := NewStreamSource(4)
	got := make(chan []byte, 1)
	go func() {
		c, err := src.Next(context.Background())
		if err != nil {
			return
		}
		got <- c
	}()

	time.Sleep(20 * time.Millisecond)
	src.Push([]byte("abcd"))

	select {
	case c := <-got:
		if string(c) != "abcd" {
			t.Fatalf("unexpected chunk: %q", c)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Next did not return after push")
	}
}

func TestStreamSource_NextHonorsContextCancel(t *testing.T) {
	src := NewStreamSource(4)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := src.Next(ctx); err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestStreamSource_FailSurfacesAheadOfBufferedBytes(t *testing.T) {
	src := NewStreamSource(4)
	src.Push([]byte("abcd"))
	failErr := errors.New("upstream vanished")
	src.Fail(failErr)

	if _, err := src.Next(context.Background()); err != failErr {
		t.Fatalf("expected the poisoning error, got %v", err)
	}
}

func TestPump_ReadErrorPoisonsSource(t *testing.T) {
	readErr := errors.New("device removed")
	src := NewStreamSource(4)
	r := io.MultiReader(bytes.NewReader([]byte("abcd")), &failingReader{err: readErr})
	if err := Pump(context.Background(), r, src); err != readErr {
		t.Fatalf("expected the read error from Pump, got %v", err)
	}
	if _, err := src.Next(context.Background()); err != readErr {
		t.Fatalf("expected the read error from Next, got %v", err)
	}
}

type failingReader struct {
	err error
}

func (r *failingReader) Read([]byte) (int, error) {
	return 0, r.err
}

func TestPump_CopiesReaderAndEnds(t *testing.T) {
	data := patternBytes(300)
	src := NewStreamSource(128)
	if err := Pump(context.Background(), bytes.NewReader(data), src); err != nil {
		t.Fatalf("pump failed: %v", err)
	}

	chunks := drain(t, src)
	var joined []byte
	for _, c := range chunks {
		joined = append(joined, c...)
	}
	if !bytes.Equal(joined, data) {
		t.Fatal("pumped bytes do not match reader data")
	}
}
