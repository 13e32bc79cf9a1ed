package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	registry, err := NewRegistry(testLogger(), echoTool())
	require.NoError(t, err)
	return NewServer(ServerInfo{Name: "test-server", Version: "0.0.1"}, registry, testLogger())
}

func request(t *testing.T, id, method string, params interface{}) *Request {
	t.Helper()
	req := &Request{JSONRPC: "2.0", Method: method}
	if id != "" {
		req.ID = json.RawMessage(id)
	}
	if params != nil {
		raw, err := json.Marshal(params)
		require.NoError(t, err)
		req.Params = raw
	}
	return req
}

func TestServer_Initialize(t *testing.T) {
	server := testServer(t)

	resp := server.Handle(context.Background(), request(t, "1", "initialize", nil))
	require.NotNil(t, resp)
	require.Nil(t, resp.Error)

	result, ok := resp.Result.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, ProtocolVersion, result["protocolVersion"])
	assert.Equal(t, ServerInfo{Name: "test-server", Version: "0.0.1"}, result["serverInfo"])
	assert.Contains(t, result, "capabilities")
}

func TestServer_NotificationProducesNoResponse(t *testing.T) {
	server := testServer(t)

	resp := server.Handle(context.Background(), request(t, "", "notifications/initialized", nil))
	assert.Nil(t, resp)
}

func TestServer_Ping(t *testing.T) {
	server := testServer(t)

	resp := server.Handle(context.Background(), request(t, "7", "ping", nil))
	require.NotNil(t, resp)
	assert.Nil(t, resp.Error)
	assert.Equal(t, json.RawMessage("7"), resp.ID)
}

func TestServer_ToolsList(t *testing.T) {
	server := testServer(t)

	resp := server.Handle(context.Background(), request(t, "2", "tools/list", nil))
	require.NotNil(t, resp)
	require.Nil(t, resp.Error)

	result, ok := resp.Result.(map[string]interface{})
	require.True(t, ok)
	tools, ok := result["tools"].([]ToolDescriptor)
	require.True(t, ok)
	require.Len(t, tools, 1)
	assert.Equal(t, "echo", tools[0].Name)
}

func TestServer_ToolsCall(t *testing.T) {
	server := testServer(t)

	resp := server.Handle(context.Background(), request(t, "3", "tools/call", map[string]interface{}{
		"name":      "echo",
		"arguments": map[string]interface{}{"message": "hello"},
	}))
	require.NotNil(t, resp)
	require.Nil(t, resp.Error)

	result, ok := resp.Result.(*CallResult)
	require.True(t, ok)
	assert.False(t, result.IsError)
}

func TestServer_ToolsCallUnknownTool(t *testing.T) {
	server := testServer(t)

	resp := server.Handle(context.Background(), request(t, "4", "tools/call", map[string]interface{}{
		"name": "missing",
	}))
	require.NotNil(t, resp)
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeMethodNotFound, resp.Error.Code)
}

func TestServer_ToolsCallMissingName(t *testing.T) {
	server := testServer(t)

	resp := server.Handle(context.Background(), request(t, "5", "tools/call", map[string]interface{}{}))
	require.NotNil(t, resp)
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeInvalidParams, resp.Error.Code)
}

func TestServer_UnknownMethod(t *testing.T) {
	server := testServer(t)

	resp := server.Handle(context.Background(), request(t, "6", "resources/list", nil))
	require.NotNil(t, resp)
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeMethodNotFound, resp.Error.Code)
}

func TestServer_WrongProtocolVersion(t *testing.T) {
	server := testServer(t)

	req := request(t, "8", "ping", nil)
	req.JSONRPC = "1.0"
	resp := server.Handle(context.Background(), req)
	require.NotNil(t, resp)
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeInvalidRequest, resp.Error.Code)
}
