package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/foxseedlab/honyakun/internal/chunk"
)

// pacer drains the chunk source at the configured rate and forwards each
// chunk to the session's active transport. A chunk stays pending until one
// send succeeds, so a transport swap mid-stream resumes at the exact byte
// the previous transport dropped. Caller-context cancellation is a graceful
// stop: remaining chunks are abandoned and end-of-source is signaled.
type pacer struct {
	src       chunk.Source
	interval  time.Duration
	conn      *connManager
	baseCtx   context.Context
	sessionID string

	sentBytes  int64
	sentChunks int64
}

func (p *pacer) run(ctx context.Context) error {
	var pending []byte
	for {
		if ctx.Err() != nil {
			return p.finish("canceled")
		}
		if pending == nil {
			c, err := p.src.Next(ctx)
			if err == io.EOF {
				return p.finish("source exhausted")
			}
			if err != nil {
				if ctx.Err() != nil {
					return p.finish("canceled")
				}
				return fmt.Errorf("read audio chunk: %w", err)
			}
			pending = c
		}

		tr, err := p.conn.awaitSendable(ctx)
		if err != nil {
			if errors.Is(err, errStreamingDone) {
				return nil
			}
			if ctx.Err() != nil {
				return p.finish("canceled")
			}
			return err
		}
		if err := tr.Send(pending); err != nil {
			slog.Warn("chunk send failed; waiting for replacement transport",
				"session_id", p.sessionID, "chunk_bytes", len(pending), "error", err)
			continue
		}
		p.sentBytes += int64(len(pending))
		p.sentChunks++
		pending = nil

		if p.interval > 0 {
			select {
			case <-time.After(p.interval):
			case <-ctx.Done():
			}
		}
	}
}

// finish signals end-of-source on a sendable transport, waiting out an
// in-flight reconnection if necessary.
func (p *pacer) finish(reason string) error {
	slog.Info("signaling end of source", "session_id", p.sessionID,
		"reason", reason, "sent_bytes", p.sentBytes, "sent_chunks", p.sentChunks)
	for {
		tr, err := p.conn.awaitSendable(p.baseCtx)
		if err != nil {
			if errors.Is(err, errStreamingDone) {
				return nil
			}
			return err
		}
		if err := tr.SendEndOfSource(); err != nil {
			slog.Warn("end-of-source send failed; waiting for replacement transport",
				"session_id", p.sessionID, "error", err)
			continue
		}
		return nil
	}
}
