package handlers

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/summarly/summarly-backend/internal/mcp"
)

// HeaderSessionID carries the MCP session id on every request after initialize
const HeaderSessionID = "mcp-session-id"

// MCPHandler is the protocol dispatcher: it maps POST/GET/DELETE on /mcp
// onto session lifecycle transitions and transport dispatch.
type MCPHandler struct {
	sessions *mcp.SessionManager
	server   *mcp.Server
	logger   *logrus.Logger
}

// NewMCPHandler creates the MCP dispatcher over a session manager and a
// protocol server bound to the full tool registry.
func NewMCPHandler(sessions *mcp.SessionManager, server *mcp.Server, logger *logrus.Logger) *MCPHandler {
	return &MCPHandler{sessions: sessions, server: server, logger: logger}
}

// Post handles POST /mcp: either an initialize request that opens a new
// session, or a request on an existing session.
func (h *MCPHandler) Post(c *fiber.Ctx) error {
	body := c.Body()
	sessionID := c.Get(HeaderSessionID)

	if sessionID != "" {
		session, errResp := h.resolveSession(c, sessionID, body)
		if session == nil {
			return errResp
		}
		h.logger.WithField("session_id", sessionID).Debug("Using existing MCP session")
		h.sessions.Touch(sessionID)
		return h.dispatch(c, session.Transport, body)
	}

	if !mcp.IsInitializeRequest(body) {
		h.logger.Warn("Invalid MCP request: no valid session ID or initialize request")
		return jsonrpcErrorEnvelope(c, fiber.StatusBadRequest, mcp.CodeInvalidRequest,
			"Invalid session ID or malformed request", body)
	}

	transport := mcp.NewTransport(h.server)
	session := h.sessions.Create(transport)
	transport.OnClose = func() { h.sessions.Close(session.ID) }

	c.Set(HeaderSessionID, session.ID)
	return h.dispatch(c, transport, body)
}

// Get handles GET /mcp: a server-to-client stream for an existing session
func (h *MCPHandler) Get(c *fiber.Ctx) error {
	sessionID := c.Get(HeaderSessionID)
	session, errResp := h.resolveSession(c, sessionID, nil)
	if session == nil {
		return errResp
	}

	h.logger.WithField("session_id", sessionID).Info("Handling MCP GET stream")
	h.sessions.Touch(sessionID)

	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")

	transport := session.Transport
	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		for {
			select {
			case msg := <-transport.Out():
				fmt.Fprintf(w, "data: %s\n\n", msg)
				if err := w.Flush(); err != nil {
					return
				}
			case <-transport.Done():
				return
			}
		}
	})
	return nil
}

// Delete handles DELETE /mcp: explicit session termination. The response is
// produced before the session table entry and idle timer are removed.
func (h *MCPHandler) Delete(c *fiber.Ctx) error {
	sessionID := c.Get(HeaderSessionID)
	session, errResp := h.resolveSession(c, sessionID, nil)
	if session == nil {
		return errResp
	}

	h.logger.WithField("session_id", sessionID).Info("Handling MCP DELETE request")
	h.sessions.Close(session.ID)

	return c.JSON(mcp.NewResponse(nil, map[string]interface{}{}))
}

// resolveSession validates the session id syntax and looks it up. On failure
// it writes the JSON-RPC error envelope and returns a nil session.
func (h *MCPHandler) resolveSession(c *fiber.Ctx, sessionID string, body []byte) (*mcp.Session, error) {
	if sessionID == "" {
		h.logger.Warn("Invalid MCP request: session ID missing")
		return nil, jsonrpcErrorEnvelope(c, fiber.StatusBadRequest, mcp.CodeInvalidRequest,
			"Invalid Request: Session ID required in mcp-session-id header", body)
	}
	if !mcp.ValidSessionID(sessionID) {
		h.logger.WithField("session_id", sessionID).Warn("Invalid MCP session ID format")
		return nil, jsonrpcErrorEnvelope(c, fiber.StatusBadRequest, mcp.CodeInvalidRequest,
			"Invalid Request: Invalid session ID format", body)
	}
	session, ok := h.sessions.Get(sessionID)
	if !ok {
		h.logger.WithField("session_id", sessionID).Warn("Unknown MCP session")
		return nil, jsonrpcErrorEnvelope(c, fiber.StatusBadRequest, mcp.CodeInvalidRequest,
			"Invalid or missing session ID", body)
	}
	return session, nil
}

// dispatch runs one request body through the transport and writes the result
func (h *MCPHandler) dispatch(c *fiber.Ctx, transport *mcp.Transport, body []byte) error {
	resp, err := transport.HandleMessage(c.Context(), body)
	if errors.Is(err, mcp.ErrTransportClosed) {
		return jsonrpcErrorEnvelope(c, fiber.StatusBadRequest, mcp.CodeInvalidRequest,
			"Invalid or missing session ID", body)
	}
	if errors.Is(err, mcp.ErrMalformedRequest) {
		return jsonrpcErrorEnvelope(c, fiber.StatusBadRequest, mcp.CodeInvalidRequest,
			"Invalid session ID or malformed request", body)
	}
	if err != nil {
		h.logger.WithError(err).Error("Error in MCP request handler")
		return jsonrpcErrorEnvelope(c, fiber.StatusInternalServerError, mcp.CodeInternalError,
			"Internal JSON-RPC error", body)
	}
	if resp == nil {
		// Notification: nothing to send back
		return c.SendStatus(fiber.StatusAccepted)
	}
	c.Set("Content-Type", "application/json")
	return c.Send(resp)
}

// jsonrpcErrorEnvelope writes a JSON-RPC error envelope, echoing the request
// id when one can be recovered from the body.
func jsonrpcErrorEnvelope(c *fiber.Ctx, status, code int, message string, body []byte) error {
	var id json.RawMessage = json.RawMessage("null")
	if len(body) > 0 {
		id = mcp.RequestID(body)
	}
	return c.Status(status).JSON(mcp.NewErrorResponse(id, code, message, nil))
}
