package server

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toodo-app/toodo/internal/config"
	"github.com/toodo-app/toodo/internal/daemon/todo"
)

func newTestTools(t *testing.T) *todoTools {
	t.Helper()
	return newTodoTools(todo.NewManager(t.TempDir(), time.Hour))
}

func call(t *testing.T, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) (string, bool) {
	t.Helper()
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args

	result, err := handler(context.Background(), req)
	require.NoError(t, err, "handlers report failures as results, not errors")
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)

	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text, result.IsError
}

func TestToolsDemoFlow(t *testing.T) {
	tools := newTestTools(t)

	text, isErr := call(t, tools.createTodo, map[string]any{"name": "demo"})
	assert.False(t, isErr)
	assert.Equal(t, "Todo 'demo' created.", text)

	text, isErr = call(t, tools.addStep, map[string]any{"todo_name": "demo", "step_content": "step one"})
	assert.False(t, isErr)
	assert.Equal(t, "Step added to 'demo'.", text)

	_, isErr = call(t, tools.addStep, map[string]any{"todo_name": "demo", "step_content": "step two"})
	assert.False(t, isErr)

	text, isErr = call(t, tools.completeStep, map[string]any{"todo_name": "demo", "step_index": float64(0)})
	assert.False(t, isErr)
	assert.Equal(t, "Step 0 completed in 'demo'.", text)

	text, isErr = call(t, tools.deleteStep, map[string]any{"todo_name": "demo", "step_index": float64(1)})
	assert.False(t, isErr)
	assert.Equal(t, "Step 1 deleted from 'demo'.", text)

	text, isErr = call(t, tools.readTodo, map[string]any{"name": "demo"})
	assert.False(t, isErr)
	assert.Contains(t, text, "# demo\nExpires at: ")
	assert.Contains(t, text, "0. [x] step one\n")
	assert.NotContains(t, text, "step two")

	text, isErr = call(t, tools.listTodos, map[string]any{})
	assert.False(t, isErr)
	assert.Contains(t, text, "# Active todos")
	assert.Contains(t, text, "0. demo [1/1]")

	text, isErr = call(t, tools.deleteTodo, map[string]any{"name": "demo"})
	assert.False(t, isErr)
	assert.Equal(t, "Todo 'demo' deleted.", text)

	text, isErr = call(t, tools.listTodos, map[string]any{})
	assert.False(t, isErr)
	assert.Equal(t, "No active todos.", text)
}

func TestReadTodoWithoutSteps(t *testing.T) {
	tools := newTestTools(t)
	_, err := tools.manager.Create("empty")
	require.NoError(t, err)

	text, isErr := call(t, tools.readTodo, map[string]any{"name": "empty"})
	assert.False(t, isErr)
	assert.Contains(t, text, "(No steps yet)")
}

func TestToolErrorsAreResults(t *testing.T) {
	tools := newTestTools(t)
	_, err := tools.manager.Create("list")
	require.NoError(t, err)

	tests := []struct {
		name    string
		handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)
		args    map[string]any
		want    string
	}{
		{"create missing name", tools.createTodo, map[string]any{}, ""},
		{"create blank name", tools.createTodo, map[string]any{"name": "  "}, "Todo name must not be empty"},
		{"read missing todo", tools.readTodo, map[string]any{"name": "nope"}, "Todo not found"},
		{"add to missing todo", tools.addStep, map[string]any{"todo_name": "nope", "step_content": "x"}, "Todo not found"},
		{"add missing content", tools.addStep, map[string]any{"todo_name": "list"}, ""},
		{"complete out of range", tools.completeStep, map[string]any{"todo_name": "list", "step_index": float64(3)}, "Step index out of range"},
		{"complete fractional index", tools.completeStep, map[string]any{"todo_name": "list", "step_index": 0.5}, "Step_index must be an integer"},
		{"complete index as string", tools.completeStep, map[string]any{"todo_name": "list", "step_index": "0"}, ""},
		{"delete step negative", tools.deleteStep, map[string]any{"todo_name": "list", "step_index": float64(-1)}, "Step index out of range"},
		{"delete missing todo", tools.deleteTodo, map[string]any{"name": "nope"}, "Todo not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, isErr := call(t, tt.handler, tt.args)
			assert.True(t, isErr)
			if tt.want != "" {
				assert.Contains(t, text, tt.want)
			}
		})
	}
}

func TestReadExpiredTodo(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()
	clock := func() time.Time { return now }
	tools := newTodoTools(todo.NewManager(dir, time.Minute, todo.WithClock(clock)))

	_, isErr := call(t, tools.createTodo, map[string]any{"name": "brief"})
	require.False(t, isErr)

	now = now.Add(2 * time.Minute)
	text, isErr := call(t, tools.readTodo, map[string]any{"name": "brief"})
	assert.True(t, isErr)
	assert.Contains(t, text, "expired")

	_, statErr := os.Stat(config.TodoFile(dir, "brief"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestServerListsAllTools(t *testing.T) {
	s := New(todo.NewManager(t.TempDir(), time.Hour))

	msg := s.MCPServer().HandleMessage(context.Background(),
		json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	require.NotNil(t, msg)

	raw, err := json.Marshal(msg)
	require.NoError(t, err)

	for _, name := range []string{
		ToolCreateTodo, ToolReadTodo, ToolAddStep, ToolCompleteStep,
		ToolDeleteStep, ToolListTodos, ToolDeleteTodo,
	} {
		assert.Contains(t, string(raw), `"name":"`+name+`"`)
	}
}
