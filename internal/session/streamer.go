package session

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/foxseedlab/honyakun/internal/chunk"
	"github.com/foxseedlab/honyakun/internal/control"
	"github.com/foxseedlab/honyakun/internal/repository"
	"github.com/foxseedlab/honyakun/internal/transcript"
	"github.com/foxseedlab/honyakun/internal/transport"
)

type sessionState string

const (
	stateRequestingSession sessionState = "requesting_session"
	stateConnecting        sessionState = "connecting"
	stateStreaming         sessionState = "streaming"
	stateCompleted         sessionState = "completed"
	stateFailed            sessionState = "failed"
)

// Streamer runs speech-translation streaming sessions: exactly one active
// session per call, with independent pacing, accumulation, and reconnection
// state per invocation.
type Streamer struct {
	control  control.Client
	factory  transport.Factory
	archiver repository.Archiver
}

// NewStreamer builds a Streamer. archiver may be nil, in which case terminal
// results are not persisted.
func NewStreamer(ctrl control.Client, factory transport.Factory, archiver repository.Archiver) *Streamer {
	return &Streamer{
		control:  ctrl,
		factory:  factory,
		archiver: archiver,
	}
}

// StreamFile streams a finite audio file.
func (s *Streamer) StreamFile(ctx context.Context, path string, opts Options, obs *Observers) (*transcript.SessionResult, error) {
	opts = opts.normalized()
	if err := opts.validate(); err != nil {
		return nil, err
	}
	src, err := chunk.NewFileSource(path, opts.ChunkBytes)
	if err != nil {
		return nil, fmt.Errorf("open audio file: %w", err)
	}
	defer func() {
		if cerr := src.Close(); cerr != nil {
			slog.Warn("failed to close audio file", "path", path, "error", cerr)
		}
	}()
	return s.StreamSource(ctx, src, opts, obs)
}

// StreamReader streams an open-ended byte stream such as standard input.
func (s *Streamer) StreamReader(ctx context.Context, r io.Reader, opts Options, obs *Observers) (*transcript.SessionResult, error) {
	opts = opts.normalized()
	if err := opts.validate(); err != nil {
		return nil, err
	}
	src := chunk.NewStreamSource(opts.ChunkBytes)
	go func() {
		if err := chunk.Pump(ctx, r, src); err != nil && ctx.Err() == nil {
			slog.Error("audio stream read failed", "error", err)
		}
	}()
	return s.StreamSource(ctx, src, opts, obs)
}

// StreamSource runs one full session over an arbitrary chunk source.
// Cancelling ctx requests a graceful stop: pacing ends, end-of-source is
// signaled, and the operation still resolves through its normal terminal
// path.
func (s *Streamer) StreamSource(ctx context.Context, src chunk.Source, opts Options, obs *Observers) (*transcript.SessionResult, error) {
	opts = opts.normalized()
	if err := opts.validate(); err != nil {
		return nil, err
	}

	// Reconnection and result archiving must survive caller cancellation,
	// since cancellation only requests a graceful wind-down.
	baseCtx := context.WithoutCancel(ctx)
	startedAt := time.Now()

	slog.Info("session state changed", "state", stateRequestingSession,
		"source_language", opts.SourceLanguage, "target_languages", opts.TargetLanguages,
		"content_type", opts.ContentType)
	grant, err := s.control.CreateSession(ctx, control.CreateSessionParams{
		SourceLanguage:  opts.SourceLanguage,
		TargetLanguages: opts.TargetLanguages,
		ContentType:     opts.ContentType,
		Formality:       opts.Formality,
		GlossaryID:      opts.GlossaryID,
	})
	if err != nil {
		return nil, &ConnectionError{Err: fmt.Errorf("create session: %w", err)}
	}

	acc := transcript.NewAccumulator(opts.SourceLanguage, opts.TargetLanguages)
	fail := newFailure()
	conn := newConnManager(grant.SessionID, acc, obs, fail)
	rec := newReconnector(baseCtx, s.control, s.factory, conn, obs, fail, grant, opts)
	conn.onAbnormalClosure = rec.handleAbnormalClosure

	slog.Info("session state changed", "state", stateConnecting, "session_id", grant.SessionID)
	tr, err := s.factory.Dial(ctx, grant.StreamURL, grant.Credential, conn.handlers())
	if err != nil {
		return nil, &ConnectionError{Err: fmt.Errorf("open transport: %w", err)}
	}
	conn.install(tr)

	p := &pacer{
		src:       src,
		interval:  opts.ChunkInterval,
		conn:      conn,
		baseCtx:   baseCtx,
		sessionID: grant.SessionID,
	}
	pacerCtx, stopPacer := context.WithCancel(ctx)
	defer stopPacer()
	pacerDone := make(chan error, 1)
	go func() { pacerDone <- p.run(pacerCtx) }()
	slog.Info("session state changed", "state", stateStreaming, "session_id", grant.SessionID,
		"chunk_bytes", opts.ChunkBytes, "chunk_interval", opts.ChunkInterval.String())

	var finalizeTimer *time.Timer
	var finalize <-chan time.Time
	defer func() {
		if finalizeTimer != nil {
			finalizeTimer.Stop()
		}
	}()

	for {
		select {
		case perr := <-pacerDone:
			pacerDone = nil
			if perr != nil {
				fail.set(&StreamingError{Err: perr})
				conn.closeCurrent()
				continue
			}
			if opts.FinalizeTimeout > 0 {
				finalizeTimer = time.NewTimer(opts.FinalizeTimeout)
				finalize = finalizeTimer.C
			}
		case <-conn.complete:
			slog.Info("session state changed", "state", stateCompleted, "session_id", grant.SessionID,
				"sent_bytes", p.sentBytes, "reconnect_attempts", rec.attemptCount())
			conn.closeCurrent()
			result := acc.Result(grant.SessionID)
			s.archive(baseCtx, result, opts, startedAt, p.sentBytes, rec.attemptCount())
			return result, nil
		case <-fail.ch:
			conn.closeCurrent()
			err := fail.get()
			slog.Error("session state changed", "state", stateFailed, "session_id", grant.SessionID, "error", err)
			return nil, err
		case <-finalize:
			fail.set(&StreamingError{Message: "no terminal event received after end of source"})
		}
	}
}

func (s *Streamer) archive(ctx context.Context, result *transcript.SessionResult, opts Options, startedAt time.Time, sentBytes int64, reconnects int) {
	if s.archiver == nil {
		return
	}
	input := repository.SaveResultInput{
		SessionID:         result.SessionID,
		SourceLanguage:    result.Source.Language,
		ContentType:       opts.ContentType,
		StartedAt:         startedAt,
		EndedAt:           time.Now(),
		SentBytes:         sentBytes,
		ReconnectAttempts: reconnects,
		Lines:             make([]repository.SaveLineInput, 0, 1+len(result.Targets)),
	}
	input.Lines = append(input.Lines, saveLine(result.Source, repository.LineKindSource, 0))
	for i, line := range result.Targets {
		input.Lines = append(input.Lines, saveLine(line, repository.LineKindTarget, i+1))
	}
	if err := s.archiver.SaveResult(ctx, input); err != nil {
		slog.Error("failed to archive session result", "session_id", result.SessionID, "error", err)
	}
}

func saveLine(line transcript.LineResult, kind repository.LineKind, position int) repository.SaveLineInput {
	segments := make([]repository.SaveSegmentInput, 0, len(line.Segments))
	for i, seg := range line.Segments {
		segments = append(segments, repository.SaveSegmentInput{
			SegmentIndex: i,
			Text:         seg.Text,
			StartTime:    seg.StartTime,
			EndTime:      seg.EndTime,
		})
	}
	return repository.SaveLineInput{
		Language: line.Language,
		Kind:     kind,
		Position: position,
		Text:     line.Text,
		Segments: segments,
	}
}
