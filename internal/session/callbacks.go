package session

import "github.com/foxseedlab/honyakun/internal/transcript"

// TranscriptUpdate is the payload handed to transcript observers: the newly
// concluded segments of one update, the replacement tentative text, and the
// cumulative line text after applying the update.
type TranscriptUpdate struct {
	Concluded []transcript.Segment
	Tentative string
	Text      string
}

// Observers is the optional callback bundle for live progress. Every slot may
// be nil; populated slots are invoked synchronously from the event-handling
// goroutine, so they must not block for long.
type Observers struct {
	OnSourceTranscript      func(update TranscriptUpdate)
	OnTargetTranscript      func(language string, update TranscriptUpdate)
	OnEndOfSourceTranscript func()
	OnEndOfTargetTranscript func(language string)
	OnReconnecting          func(attempt int)
}

func (o *Observers) sourceTranscript(u TranscriptUpdate) {
	if o == nil || o.OnSourceTranscript == nil {
		return
	}
	o.OnSourceTranscript(u)
}

func (o *Observers) targetTranscript(language string, u TranscriptUpdate) {
	if o == nil || o.OnTargetTranscript == nil {
		return
	}
	o.OnTargetTranscript(language, u)
}

func (o *Observers) endOfSourceTranscript() {
	if o == nil || o.OnEndOfSourceTranscript == nil {
		return
	}
	o.OnEndOfSourceTranscript()
}

func (o *Observers) endOfTargetTranscript(language string) {
	if o == nil || o.OnEndOfTargetTranscript == nil {
		return
	}
	o.OnEndOfTargetTranscript(language)
}

func (o *Observers) reconnecting(attempt int) {
	if o == nil || o.OnReconnecting == nil {
		return
	}
	o.OnReconnecting(attempt)
}
