package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrTransportClosed is returned when a message is sent on a closed transport
	ErrTransportClosed = errors.New("transport closed")
	// ErrMalformedRequest is returned when the body is not parseable JSON-RPC
	ErrMalformedRequest = errors.New("malformed JSON-RPC request")
)

// Transport binds one session to a protocol server. Requests on the same
// session are serialized here; MCP sessions are single-stream by contract.
// The out channel feeds the GET streaming response for server-to-client push.
type Transport struct {
	server *Server

	mu     sync.Mutex
	out    chan []byte
	closed chan struct{}
	once   sync.Once

	// OnClose fires exactly once when the transport shuts down
	OnClose func()
}

// NewTransport creates a transport bound to the given protocol server
func NewTransport(server *Server) *Transport {
	return &Transport{
		server: server,
		out:    make(chan []byte, 16),
		closed: make(chan struct{}),
	}
}

// HandleMessage processes one JSON-RPC request body and returns the encoded
// response, or nil for notifications.
func (t *Transport) HandleMessage(ctx context.Context, body []byte) ([]byte, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	select {
	case <-t.closed:
		return nil, ErrTransportClosed
	default:
	}

	var req Request
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRequest, err)
	}

	resp := t.server.Handle(ctx, &req)
	// An id-less request is a notification and never gets a reply, even
	// when the method handler produced one.
	if resp == nil || req.IsNotification() {
		return nil, nil
	}

	data, err := json.Marshal(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to encode response: %w", err)
	}
	return data, nil
}

// Send pushes a server-initiated message to the session's stream
func (t *Transport) Send(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	select {
	case <-t.closed:
		return ErrTransportClosed
	case t.out <- data:
		return nil
	}
}

// Out is the stream of server-initiated messages for the GET response
func (t *Transport) Out() <-chan []byte {
	return t.out
}

// Done is closed when the transport shuts down
func (t *Transport) Done() <-chan struct{} {
	return t.closed
}

// Close shuts the transport down and fires OnClose. Safe to call more than
// once; only the first call has any effect.
func (t *Transport) Close() {
	t.once.Do(func() {
		close(t.closed)
		if t.OnClose != nil {
			t.OnClose()
		}
	})
}
