package mcp

import (
	"encoding/json"
)

// JSON-RPC 2.0 error codes used by the protocol layer
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
)

// Request is a JSON-RPC 2.0 request or notification. The ID is kept raw so
// string, number and null ids round-trip unchanged.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// IsNotification reports whether the request carries no id
func (r *Request) IsNotification() bool {
	return len(r.ID) == 0 || string(r.ID) == "null"
}

// Response is a JSON-RPC 2.0 response
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  interface{}     `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

// Error is a JSON-RPC 2.0 error object. It satisfies the error interface so
// protocol failures can travel through ordinary error returns.
type Error struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func (e *Error) Error() string {
	return e.Message
}

// NewResponse builds a success response for the given request id
func NewResponse(id json.RawMessage, result interface{}) *Response {
	if len(id) == 0 {
		id = json.RawMessage("null")
	}
	return &Response{JSONRPC: "2.0", ID: id, Result: result}
}

// NewErrorResponse builds an error response for the given request id
func NewErrorResponse(id json.RawMessage, code int, message string, data interface{}) *Response {
	if len(id) == 0 {
		id = json.RawMessage("null")
	}
	return &Response{
		JSONRPC: "2.0",
		ID:      id,
		Error:   &Error{Code: code, Message: message, Data: data},
	}
}

// IsInitializeRequest reports whether the raw body is a well-formed
// initialize request, the only request allowed to arrive without a session.
func IsInitializeRequest(body []byte) bool {
	var req Request
	if err := json.Unmarshal(body, &req); err != nil {
		return false
	}
	return req.JSONRPC == "2.0" && req.Method == "initialize"
}

// RequestID extracts the id from a raw request body for error envelopes.
// Malformed bodies yield null.
func RequestID(body []byte) json.RawMessage {
	var probe struct {
		ID json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(body, &probe); err != nil || len(probe.ID) == 0 {
		return json.RawMessage("null")
	}
	return probe.ID
}
