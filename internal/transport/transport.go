package transport

import (
	"context"
	"errors"

	"github.com/foxseedlab/honyakun/internal/protocol"
)

// ErrNotSendable is returned by Send when the transport is no longer able to
// carry audio, typically after an abnormal closure.
var ErrNotSendable = errors.New("transport is not sendable")

// Handlers receives inbound traffic from a transport. OnEvent is called once
// per decoded protocol event; OnClose is called exactly once when the
// transport stops reading, with the underlying cause (nil for a clean
// close-frame shutdown). Classifying the closure as normal or abnormal is the
// caller's job, since only the caller knows whether end_of_stream was seen.
type Handlers struct {
	OnEvent func(ev *protocol.Event)
	OnClose func(cause error)
}

type Transport interface {
	Send(chunk []byte) error
	SendEndOfSource() error
	Ready() bool
	Close() error
}

type Factory interface {
	Dial(ctx context.Context, url, credential string, h Handlers) (Transport, error)
}
