package mcp

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/sirupsen/logrus"
)

// ProtocolVersion is the MCP protocol revision this server speaks
const ProtocolVersion = "2025-03-26"

// ServerInfo identifies the server in the initialize handshake
type ServerInfo struct {
	Name    string `json:"name"`
	Title   string `json:"title,omitempty"`
	Version string `json:"version"`
}

// Server resolves JSON-RPC methods against the tool registry. One server is
// bound to each session transport; the registry behind it is shared.
type Server struct {
	info     ServerInfo
	registry *Registry
	logger   *logrus.Logger
}

// NewServer creates a protocol server over the given registry
func NewServer(info ServerInfo, registry *Registry, logger *logrus.Logger) *Server {
	return &Server{info: info, registry: registry, logger: logger}
}

type callToolParams struct {
	Name      string                 `json:"name"`
	Arguments map[string]interface{} `json:"arguments"`
}

// Handle processes a single request and returns the response, or nil when
// the request is a notification. Panics are converted into internal errors
// so a misbehaving handler cannot tear the session down.
func (s *Server) Handle(ctx context.Context, req *Request) (resp *Response) {
	defer func() {
		if rec := recover(); rec != nil {
			s.logger.WithField("method", req.Method).Errorf("Request handling panicked: %v", rec)
			resp = NewErrorResponse(req.ID, CodeInternalError, "Internal JSON-RPC error", nil)
		}
	}()

	if req.JSONRPC != "2.0" {
		return NewErrorResponse(req.ID, CodeInvalidRequest, "Invalid Request: jsonrpc must be \"2.0\"", nil)
	}

	switch {
	case req.Method == "initialize":
		return NewResponse(req.ID, map[string]interface{}{
			"protocolVersion": ProtocolVersion,
			"capabilities": map[string]interface{}{
				"logging": map[string]interface{}{},
				"tools":   map[string]interface{}{},
			},
			"serverInfo": s.info,
		})

	case strings.HasPrefix(req.Method, "notifications/"):
		s.logger.WithField("method", req.Method).Debug("Received notification")
		return nil

	case req.Method == "ping":
		return NewResponse(req.ID, map[string]interface{}{})

	case req.Method == "tools/list":
		s.logger.Debug("Handling list tools request")
		return NewResponse(req.ID, map[string]interface{}{
			"tools": s.registry.List(),
		})

	case req.Method == "tools/call":
		var params callToolParams
		if err := json.Unmarshal(req.Params, &params); err != nil || params.Name == "" {
			return NewErrorResponse(req.ID, CodeInvalidParams, "Invalid params for tools/call", nil)
		}

		s.logger.WithField("tool", params.Name).Info("Executing MCP tool")
		result, err := s.registry.Call(ctx, params.Name, params.Arguments)
		if err != nil {
			if rpcErr, ok := err.(*Error); ok {
				return &Response{JSONRPC: "2.0", ID: orNull(req.ID), Error: rpcErr}
			}
			return NewErrorResponse(req.ID, CodeInternalError, err.Error(), nil)
		}
		return NewResponse(req.ID, result)

	default:
		return NewErrorResponse(req.ID, CodeMethodNotFound, "Method not found: "+req.Method, nil)
	}
}

func orNull(id json.RawMessage) json.RawMessage {
	if len(id) == 0 {
		return json.RawMessage("null")
	}
	return id
}
