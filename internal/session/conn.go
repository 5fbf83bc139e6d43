package session

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/foxseedlab/honyakun/internal/protocol"
	"github.com/foxseedlab/honyakun/internal/transcript"
	"github.com/foxseedlab/honyakun/internal/transport"
)

var errStreamingDone = errors.New("streaming already completed")

// failure records the first fatal error of a session. Later calls to set are
// no-ops; ch is closed once an error is recorded.
type failure struct {
	once sync.Once
	ch   chan struct{}
	err  error
}

func newFailure() *failure {
	return &failure{ch: make(chan struct{})}
}

func (f *failure) set(err error) {
	f.once.Do(func() {
		f.err = err
		close(f.ch)
	})
}

func (f *failure) isSet() bool {
	select {
	case <-f.ch:
		return true
	default:
		return false
	}
}

func (f *failure) get() error {
	<-f.ch
	return f.err
}

// connManager owns the single active transport of a session. The transport
// reference is swapped wholesale on reconnection; waiters learn about the
// swap through the generation channel. It also routes inbound protocol events
// to the accumulator and observers, and classifies transport closures: normal
// when end_of_stream was already seen, abnormal otherwise.
type connManager struct {
	sessionID string
	acc       *transcript.Accumulator
	obs       *Observers
	fail      *failure

	complete     chan struct{}
	completeOnce sync.Once

	// onAbnormalClosure is invoked at most once per closure, from the
	// transport's read goroutine.
	onAbnormalClosure func(cause error)

	mu      sync.Mutex
	tr      transport.Transport
	epoch   int
	swapped chan struct{}
}

func newConnManager(sessionID string, acc *transcript.Accumulator, obs *Observers, fail *failure) *connManager {
	return &connManager{
		sessionID: sessionID,
		acc:       acc,
		obs:       obs,
		fail:      fail,
		complete:  make(chan struct{}),
		swapped:   make(chan struct{}),
	}
}

func (c *connManager) handlers() transport.Handlers {
	return transport.Handlers{
		OnEvent: c.handleEvent,
		OnClose: c.handleClose,
	}
}

// install swaps in a freshly opened transport and releases anyone parked in
// awaitSendable. Every install bumps the epoch.
func (c *connManager) install(tr transport.Transport) {
	c.mu.Lock()
	c.tr = tr
	c.epoch++
	released := c.swapped
	c.swapped = make(chan struct{})
	c.mu.Unlock()
	close(released)
}

func (c *connManager) currentEpoch() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.epoch
}

// installSince installs tr only if no other transport has been installed since
// the observed epoch. A transport can report its closure before the dial that
// opened it returns; the nested closure handling then installs a replacement
// first, and the outer install must be discarded rather than clobber it.
func (c *connManager) installSince(tr transport.Transport, since int) bool {
	c.mu.Lock()
	if c.epoch != since {
		c.mu.Unlock()
		return false
	}
	c.tr = tr
	c.epoch++
	released := c.swapped
	c.swapped = make(chan struct{})
	c.mu.Unlock()
	close(released)
	return true
}

// awaitSendable blocks until the active transport can carry audio, the
// session reaches a terminal state, or ctx ends. Returns errStreamingDone
// when the service already completed the stream.
func (c *connManager) awaitSendable(ctx context.Context) (transport.Transport, error) {
	for {
		c.mu.Lock()
		tr := c.tr
		swapped := c.swapped
		c.mu.Unlock()
		if tr != nil && tr.Ready() {
			return tr, nil
		}
		select {
		case <-swapped:
		case <-c.complete:
			return nil, errStreamingDone
		case <-c.fail.ch:
			return nil, c.fail.get()
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

func (c *connManager) closeCurrent() {
	c.mu.Lock()
	tr := c.tr
	c.mu.Unlock()
	if tr == nil {
		return
	}
	if err := tr.Close(); err != nil {
		slog.Debug("transport close failed", "session_id", c.sessionID, "error", err)
	}
}

func (c *connManager) completed() bool {
	select {
	case <-c.complete:
		return true
	default:
		return false
	}
}

func (c *connManager) handleEvent(ev *protocol.Event) {
	switch ev.Type {
	case protocol.EventSourceTranscriptUpdate:
		segs := mapSegments(ev.Concluded)
		tentative := joinTentative(ev.Tentative)
		c.acc.ApplySource(segs, tentative)
		c.obs.sourceTranscript(TranscriptUpdate{
			Concluded: segs,
			Tentative: tentative,
			Text:      c.acc.SourceText(),
		})
	case protocol.EventTargetTranscriptUpdate:
		segs := mapSegments(ev.Concluded)
		tentative := joinTentative(ev.Tentative)
		if !c.acc.ApplyTarget(ev.Language, segs, tentative) {
			slog.Warn("dropping update for unrequested language", "session_id", c.sessionID, "language", ev.Language)
			return
		}
		c.obs.targetTranscript(ev.Language, TranscriptUpdate{
			Concluded: segs,
			Tentative: tentative,
			Text:      c.acc.TargetText(ev.Language),
		})
	case protocol.EventEndOfSourceTranscript:
		c.acc.FinishSource()
		c.obs.endOfSourceTranscript()
	case protocol.EventEndOfTargetTranscript:
		if !c.acc.FinishTarget(ev.Language) {
			slog.Warn("dropping end-of-line for unrequested language", "session_id", c.sessionID, "language", ev.Language)
			return
		}
		c.obs.endOfTargetTranscript(ev.Language)
	case protocol.EventEndOfStream:
		slog.Info("service signaled end of stream", "session_id", c.sessionID)
		c.completeOnce.Do(func() { close(c.complete) })
	case protocol.EventError:
		slog.Error("service reported streaming error", "session_id", c.sessionID, "code", ev.Code, "message", ev.Message)
		c.fail.set(&StreamingError{Code: ev.Code, Message: ev.Message})
	}
}

func (c *connManager) handleClose(cause error) {
	if c.completed() {
		slog.Info("transport closed after completion", "session_id", c.sessionID)
		return
	}
	if c.fail.isSet() {
		slog.Debug("transport closed after failure", "session_id", c.sessionID, "cause", cause)
		return
	}
	if cause == nil {
		cause = errors.New("transport closed before end of stream")
	}
	slog.Warn("transport closed abnormally", "session_id", c.sessionID, "cause", cause)
	c.onAbnormalClosure(cause)
}

func mapSegments(in []protocol.Segment) []transcript.Segment {
	if len(in) == 0 {
		return nil
	}
	out := make([]transcript.Segment, 0, len(in))
	for _, seg := range in {
		out = append(out, transcript.Segment{
			Text:      seg.Text,
			StartTime: seg.StartTime,
			EndTime:   seg.EndTime,
		})
	}
	return out
}

func joinTentative(in []protocol.Segment) string {
	if len(in) == 0 {
		return ""
	}
	parts := make([]string, 0, len(in))
	for _, seg := range in {
		if seg.Text == "" {
			continue
		}
		parts = append(parts, seg.Text)
	}
	return strings.Join(parts, " ")
}
