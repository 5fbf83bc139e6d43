package repository

import (
	"context"
	"time"
)

type LineKind string

const (
	LineKindSource LineKind = "source"
	LineKindTarget LineKind = "target"
)

type SaveSegmentInput struct {
	SegmentIndex int
	Text         string
	StartTime    float64
	EndTime      float64
}

type SaveLineInput struct {
	Language string
	Kind     LineKind
	Position int
	Text     string
	Segments []SaveSegmentInput
}

type SaveResultInput struct {
	SessionID         string
	SourceLanguage    string
	ContentType       string
	StartedAt         time.Time
	EndedAt           time.Time
	SentBytes         int64
	ReconnectAttempts int
	Lines             []SaveLineInput
}

// Archiver persists the terminal result of a completed session. It is write
// only: nothing is ever read back, and sessions are never resumed from it.
type Archiver interface {
	SaveResult(ctx context.Context, input SaveResultInput) error
}
