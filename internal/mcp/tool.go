package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"
)

// HandlerFunc executes a tool call. A returned error becomes a tool-level
// isError result, never a protocol failure.
type HandlerFunc func(ctx context.Context, args map[string]interface{}) (interface{}, error)

// Tool is a named, schema-described operation exposed to MCP clients
type Tool struct {
	ID           string
	Name         string
	Description  string
	InputSchema  *Schema
	OutputSchema *Schema
	Handler      HandlerFunc
}

// ToolDescriptor is the tools/list wire representation of a tool
type ToolDescriptor struct {
	Name         string                 `json:"name"`
	Title        string                 `json:"title,omitempty"`
	Description  string                 `json:"description,omitempty"`
	InputSchema  map[string]interface{} `json:"inputSchema"`
	OutputSchema map[string]interface{} `json:"outputSchema,omitempty"`
}

// ContentBlock is a single piece of tool result content
type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// CallResult is the result of a tools/call invocation
type CallResult struct {
	Content           []ContentBlock `json:"content"`
	StructuredContent interface{}    `json:"structuredContent,omitempty"`
	IsError           bool           `json:"isError,omitempty"`
}

// Registry is the read-only tool catalogue shared by every session. It is
// immutable once constructed.
type Registry struct {
	tools  []*Tool
	byID   map[string]*Tool
	logger *logrus.Logger
}

// NewRegistry builds a registry from the given tools. Tool ids must be unique.
func NewRegistry(logger *logrus.Logger, tools ...*Tool) (*Registry, error) {
	byID := make(map[string]*Tool, len(tools))
	for _, tool := range tools {
		if _, exists := byID[tool.ID]; exists {
			return nil, fmt.Errorf("duplicate tool id: %s", tool.ID)
		}
		byID[tool.ID] = tool
	}

	logger.WithField("count", len(tools)).Info("Registered MCP tools")
	return &Registry{tools: tools, byID: byID, logger: logger}, nil
}

// List returns the descriptors of all registered tools
func (r *Registry) List() []ToolDescriptor {
	descriptors := make([]ToolDescriptor, 0, len(r.tools))
	for _, tool := range r.tools {
		d := ToolDescriptor{
			Name:        tool.ID,
			Title:       tool.Name,
			Description: tool.Description,
			InputSchema: tool.InputSchema.Document(),
		}
		if tool.OutputSchema != nil {
			d.OutputSchema = tool.OutputSchema.Document()
		}
		descriptors = append(descriptors, d)
	}
	return descriptors
}

// Call invokes a tool by id. An unknown id is a protocol-level method-not-
// found error; every other failure is folded into an isError result so a bad
// call never takes the session down.
func (r *Registry) Call(ctx context.Context, name string, args map[string]interface{}) (result *CallResult, err error) {
	tool, ok := r.byID[name]
	if !ok {
		r.logger.WithField("tool", name).Error("Tool not found")
		return nil, &Error{Code: CodeMethodNotFound, Message: fmt.Sprintf("Method not found: %s", name)}
	}

	defer func() {
		if rec := recover(); rec != nil {
			r.logger.WithField("tool", name).Errorf("Tool handler panicked: %v", rec)
			result = errorResult(fmt.Sprintf("tool %s panicked", name))
			err = nil
		}
	}()

	if args == nil {
		args = map[string]interface{}{}
	}
	merged, verr := tool.InputSchema.Apply(args)
	if verr != nil {
		r.logger.WithField("tool", name).WithError(verr).Warn("Tool arguments rejected")
		return errorResult(verr.Error()), nil
	}

	out, herr := tool.Handler(ctx, merged)
	if herr != nil {
		r.logger.WithField("tool", name).WithError(herr).Error("Tool execution failed")
		return errorResult(herr.Error()), nil
	}

	text, merr := json.Marshal(out)
	if merr != nil {
		return errorResult(fmt.Sprintf("failed to encode tool result: %v", merr)), nil
	}

	r.logger.WithField("tool", name).Info("Tool executed successfully")
	return &CallResult{
		Content:           []ContentBlock{{Type: "text", Text: string(text)}},
		StructuredContent: out,
	}, nil
}

func errorResult(message string) *CallResult {
	payload, _ := json.Marshal(map[string]string{"error": message})
	return &CallResult{
		IsError: true,
		Content: []ContentBlock{{Type: "text", Text: string(payload)}},
	}
}
