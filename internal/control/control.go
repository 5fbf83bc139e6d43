package control

import "context"

type CreateSessionParams struct {
	SourceLanguage  string
	TargetLanguages []string
	ContentType     string
	Formality       string
	GlossaryID      string
}

// SessionGrant is what the session-control API hands back: a transport
// credential scoped to one logical session and the websocket URL to dial.
type SessionGrant struct {
	SessionID  string
	Credential string
	StreamURL  string
}

type Client interface {
	CreateSession(ctx context.Context, params CreateSessionParams) (*SessionGrant, error)
	ReconnectSession(ctx context.Context, previousCredential string) (*SessionGrant, error)
}
