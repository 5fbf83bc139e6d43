package transport

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/foxseedlab/honyakun/internal/protocol"
	"github.com/foxseedlab/honyakun/internal/transport"
)

const (
	defaultHandshakeTimeout = 15 * time.Second
	writeTimeout            = 10 * time.Second
)

type WebsocketFactory struct {
	dialer *websocket.Dialer
}

func NewWebsocketFactory() *WebsocketFactory {
	return &WebsocketFactory{
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: defaultHandshakeTimeout,
		},
	}
}

func (f *WebsocketFactory) Dial(ctx context.Context, url, credential string, h transport.Handlers) (transport.Transport, error) {
	header := http.Header{}
	header.Set("Authorization", "Bearer "+credential)
	conn, _, err := f.dialer.DialContext(ctx, url, header)
	if err != nil {
		return nil, fmt.Errorf("dial websocket: %w", err)
	}
	t := &wsTransport{conn: conn, handlers: h}
	t.ready.Store(true)
	go t.readLoop()
	return t, nil
}

type wsTransport struct {
	conn     *websocket.Conn
	handlers transport.Handlers

	writeMu   sync.Mutex
	ready     atomic.Bool
	closeOnce sync.Once
}

func (t *wsTransport) Send(chunk []byte) error {
	return t.write(websocket.BinaryMessage, chunk)
}

func (t *wsTransport) SendEndOfSource() error {
	return t.write(websocket.TextMessage, protocol.EndOfSourceFrame())
}

func (t *wsTransport) write(messageType int, payload []byte) error {
	if !t.ready.Load() {
		return transport.ErrNotSendable
	}
	t.writeMu.Lock()
	defer t.writeMu.Unlock()
	if err := t.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	if err := t.conn.WriteMessage(messageType, payload); err != nil {
		// A failed write means the connection is gone; close it so the read
		// loop unblocks and reports the closure.
		t.ready.Store(false)
		_ = t.conn.Close()
		return err
	}
	return nil
}

func (t *wsTransport) Ready() bool {
	return t.ready.Load()
}

func (t *wsTransport) Close() error {
	var err error
	t.closeOnce.Do(func() {
		t.ready.Store(false)
		t.writeMu.Lock()
		_ = t.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(writeTimeout))
		t.writeMu.Unlock()
		err = t.conn.Close()
	})
	return err
}

func (t *wsTransport) readLoop() {
	for {
		messageType, data, err := t.conn.ReadMessage()
		if err != nil {
			t.ready.Store(false)
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				t.handlers.OnClose(nil)
			} else {
				t.handlers.OnClose(err)
			}
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}
		ev, err := protocol.Decode(data)
		if err != nil {
			slog.Warn("skipping undecodable frame", "error", err)
			continue
		}
		t.handlers.OnEvent(ev)
	}
}
