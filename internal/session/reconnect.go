package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/foxseedlab/honyakun/internal/control"
	"github.com/foxseedlab/honyakun/internal/transport"
)

type reconnectState string

const (
	reconnectStateIdle         reconnectState = "not_reconnecting"
	reconnectStateReconnecting reconnectState = "reconnecting"
	reconnectStateResumed      reconnectState = "resumed"
	reconnectStateExhausted    reconnectState = "exhausted"
)

// reconnector restores streaming after an abnormal transport closure: it
// renews the transport credential for the same logical session, opens a fresh
// transport, and installs it so the parked pacer resumes from its last unsent
// chunk. The attempt counter only ever grows and is capped by maxAttempts.
type reconnector struct {
	baseCtx context.Context
	control control.Client
	factory transport.Factory
	conn    *connManager
	obs     *Observers
	fail    *failure

	sessionID   string
	enabled     bool
	maxAttempts int

	mu         sync.Mutex
	state      reconnectState
	attempts   int
	credential string
	streamURL  string
}

func newReconnector(baseCtx context.Context, ctrl control.Client, factory transport.Factory, conn *connManager, obs *Observers, fail *failure, grant *control.SessionGrant, opts Options) *reconnector {
	return &reconnector{
		baseCtx:     baseCtx,
		control:     ctrl,
		factory:     factory,
		conn:        conn,
		obs:         obs,
		fail:        fail,
		sessionID:   grant.SessionID,
		enabled:     !opts.DisableReconnect,
		maxAttempts: opts.MaxReconnectAttempts,
		state:       reconnectStateIdle,
		credential:  grant.Credential,
		streamURL:   grant.StreamURL,
	}
}

func (r *reconnector) attemptCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.attempts
}

// handleAbnormalClosure runs on the transport's read goroutine. It either
// installs a replacement transport or records the session's fatal error.
func (r *reconnector) handleAbnormalClosure(cause error) {
	if !r.enabled {
		slog.Warn("reconnection disabled; abnormal closure is terminal", "session_id", r.sessionID, "cause", cause)
		r.fail.set(&StreamingError{Err: fmt.Errorf("transport closed abnormally: %w", cause)})
		return
	}

	// A replacement transport may close before our dial returns it; the nested
	// closure handling observes this same epoch and wins the install.
	sinceEpoch := r.conn.currentEpoch()

	for {
		r.mu.Lock()
		if r.attempts >= r.maxAttempts {
			r.state = reconnectStateExhausted
			attempts := r.attempts
			r.mu.Unlock()
			slog.Error("reconnect attempts exhausted", "session_id", r.sessionID, "attempts", attempts, "cause", cause)
			r.fail.set(&ReconnectionExhaustedError{Attempts: attempts, Err: cause})
			return
		}
		r.attempts++
		attempt := r.attempts
		r.state = reconnectStateReconnecting
		prevCredential := r.credential
		r.mu.Unlock()

		slog.Info("reconnecting session", "session_id", r.sessionID, "attempt", attempt, "cause", cause)
		r.obs.reconnecting(attempt)

		grant, err := r.control.ReconnectSession(r.baseCtx, prevCredential)
		if err != nil {
			r.mu.Lock()
			r.state = reconnectStateExhausted
			r.mu.Unlock()
			slog.Error("credential renewal failed", "session_id", r.sessionID, "attempt", attempt, "error", err)
			r.fail.set(&ReconnectionExhaustedError{Attempts: attempt, Err: fmt.Errorf("renew transport credential: %w", err)})
			return
		}

		r.mu.Lock()
		r.credential = grant.Credential
		if grant.StreamURL != "" {
			r.streamURL = grant.StreamURL
		}
		url := r.streamURL
		credential := r.credential
		r.mu.Unlock()

		tr, err := r.factory.Dial(r.baseCtx, url, credential, r.conn.handlers())
		if err != nil {
			slog.Warn("reconnect dial failed", "session_id", r.sessionID, "attempt", attempt, "error", err)
			cause = err
			continue
		}

		if !r.conn.installSince(tr, sinceEpoch) {
			slog.Info("discarding superseded transport", "session_id", r.sessionID, "attempt", attempt)
			if cerr := tr.Close(); cerr != nil {
				slog.Debug("superseded transport close failed", "session_id", r.sessionID, "error", cerr)
			}
			return
		}
		r.mu.Lock()
		r.state = reconnectStateResumed
		r.mu.Unlock()
		slog.Info("session resumed on new transport", "session_id", r.sessionID, "attempt", attempt)
		return
	}
}
