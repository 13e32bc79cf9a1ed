package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/summarly/summarly-backend/internal/mcp"
)

func newMCPTestApp(t *testing.T) (*fiber.App, *mcp.SessionManager) {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	echo := &mcp.Tool{
		ID:          "echo",
		Name:        "Echo",
		Description: "Returns its input",
		InputSchema: mcp.MustSchema(map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"message": map[string]interface{}{"type": "string"},
			},
			"required": []interface{}{"message"},
		}),
		Handler: func(_ context.Context, args map[string]interface{}) (interface{}, error) {
			return map[string]interface{}{"message": args["message"]}, nil
		},
	}

	registry, err := mcp.NewRegistry(logger, echo)
	require.NoError(t, err)
	server := mcp.NewServer(mcp.ServerInfo{Name: "test", Version: "0.0.1"}, registry, logger)
	sessions := mcp.NewSessionManager(time.Minute, logger)

	app := fiber.New()
	handler := NewMCPHandler(sessions, server, logger)
	app.Post("/mcp", handler.Post)
	app.Get("/mcp", handler.Get)
	app.Delete("/mcp", handler.Delete)

	return app, sessions
}

func mcpRequest(method, sessionID string, body string) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, "/mcp", reader)
	req.Header.Set("Content-Type", "application/json")
	if sessionID != "" {
		req.Header.Set(HeaderSessionID, sessionID)
	}
	return req
}

func decodeResponse(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func initializeSession(t *testing.T, app *fiber.App) string {
	t.Helper()
	resp, err := app.Test(mcpRequest(http.MethodPost, "",
		`{"jsonrpc":"2.0","id":1,"method":"initialize"}`), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	sessionID := resp.Header.Get(HeaderSessionID)
	require.True(t, mcp.ValidSessionID(sessionID))
	return sessionID
}

func TestMCPHandler_InitializeOpensSession(t *testing.T) {
	app, sessions := newMCPTestApp(t)

	resp, err := app.Test(mcpRequest(http.MethodPost, "",
		`{"jsonrpc":"2.0","id":1,"method":"initialize"}`), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	sessionID := resp.Header.Get(HeaderSessionID)
	assert.True(t, mcp.ValidSessionID(sessionID))
	assert.Equal(t, 1, sessions.Count())

	body := decodeResponse(t, resp)
	result, ok := body["result"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, mcp.ProtocolVersion, result["protocolVersion"])
}

func TestMCPHandler_NonInitializeWithoutSession(t *testing.T) {
	app, _ := newMCPTestApp(t)

	resp, err := app.Test(mcpRequest(http.MethodPost, "",
		`{"jsonrpc":"2.0","id":2,"method":"tools/list"}`), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decodeResponse(t, resp)
	rpcErr, ok := body["error"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(mcp.CodeInvalidRequest), rpcErr["code"])
	// The request id is echoed back in the envelope
	assert.Equal(t, float64(2), body["id"])
}

func TestMCPHandler_InvalidSessionIDFormat(t *testing.T) {
	app, _ := newMCPTestApp(t)

	resp, err := app.Test(mcpRequest(http.MethodPost, "not-a-uuid",
		`{"jsonrpc":"2.0","id":3,"method":"tools/list"}`), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMCPHandler_UnknownSession(t *testing.T) {
	app, _ := newMCPTestApp(t)

	resp, err := app.Test(mcpRequest(http.MethodPost, "2162ef6e-c00a-4d75-9f6c-80d2dc759a07",
		`{"jsonrpc":"2.0","id":4,"method":"tools/list"}`), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMCPHandler_ToolsCallOnSession(t *testing.T) {
	app, _ := newMCPTestApp(t)
	sessionID := initializeSession(t, app)

	resp, err := app.Test(mcpRequest(http.MethodPost, sessionID,
		`{"jsonrpc":"2.0","id":5,"method":"tools/call","params":{"name":"echo","arguments":{"message":"hi"}}}`), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeResponse(t, resp)
	result, ok := body["result"].(map[string]interface{})
	require.True(t, ok)
	content, ok := result["content"].([]interface{})
	require.True(t, ok)
	require.Len(t, content, 1)
	assert.Nil(t, result["isError"])
}

func TestMCPHandler_NotificationReturnsAccepted(t *testing.T) {
	app, _ := newMCPTestApp(t)
	sessionID := initializeSession(t, app)

	resp, err := app.Test(mcpRequest(http.MethodPost, sessionID,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
}

func TestMCPHandler_MalformedBodyOnSession(t *testing.T) {
	app, _ := newMCPTestApp(t)
	sessionID := initializeSession(t, app)

	resp, err := app.Test(mcpRequest(http.MethodPost, sessionID, `{not json`), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMCPHandler_DeleteClosesSession(t *testing.T) {
	app, sessions := newMCPTestApp(t)
	sessionID := initializeSession(t, app)

	resp, err := app.Test(mcpRequest(http.MethodDelete, sessionID, ""), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 0, sessions.Count())

	// The session is gone, so a second teardown is an invalid request
	resp, err = app.Test(mcpRequest(http.MethodDelete, sessionID, ""), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMCPHandler_DeleteWithoutSessionHeader(t *testing.T) {
	app, _ := newMCPTestApp(t)

	resp, err := app.Test(mcpRequest(http.MethodDelete, "", ""), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
