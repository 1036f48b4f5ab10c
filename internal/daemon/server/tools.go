package server

import (
	"context"
	"fmt"
	"math"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/toodo-app/toodo/internal/daemon/todo"
	"github.com/toodo-app/toodo/internal/log"
)

// Tool names.
const (
	ToolCreateTodo   = "create_todo"
	ToolReadTodo     = "read_todo"
	ToolAddStep      = "add_step"
	ToolCompleteStep = "complete_step"
	ToolDeleteStep   = "delete_step"
	ToolListTodos    = "list_todos"
	ToolDeleteTodo   = "delete_todo"
)

// todoTools exposes the todo manager as MCP tools. Every failure is reported
// as an error result; handlers never return a Go error to the transport.
type todoTools struct {
	manager *todo.Manager
	logger  zerolog.Logger
}

func newTodoTools(manager *todo.Manager) *todoTools {
	return &todoTools{
		manager: manager,
		logger:  log.Component("tools"),
	}
}

func (t *todoTools) register(s *server.MCPServer) {
	s.AddTool(mcp.NewTool(ToolCreateTodo,
		mcp.WithDescription("Create a new todo list. An existing todo with the same name is replaced."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Name of the todo")),
	), t.createTodo)

	s.AddTool(mcp.NewTool(ToolReadTodo,
		mcp.WithDescription("Show a todo and its steps with their indices."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Name of the todo")),
	), t.readTodo)

	s.AddTool(mcp.NewTool(ToolAddStep,
		mcp.WithDescription("Append a step to a todo."),
		mcp.WithString("todo_name", mcp.Required(), mcp.Description("Name of the todo")),
		mcp.WithString("step_content", mcp.Required(), mcp.Description("Description of the step")),
	), t.addStep)

	s.AddTool(mcp.NewTool(ToolCompleteStep,
		mcp.WithDescription("Mark a step of a todo as completed."),
		mcp.WithString("todo_name", mcp.Required(), mcp.Description("Name of the todo")),
		mcp.WithNumber("step_index", mcp.Required(), mcp.Description("0-based index of the step"), mcp.Min(0)),
	), t.completeStep)

	s.AddTool(mcp.NewTool(ToolDeleteStep,
		mcp.WithDescription("Delete a step from a todo. Later steps shift down by one."),
		mcp.WithString("todo_name", mcp.Required(), mcp.Description("Name of the todo")),
		mcp.WithNumber("step_index", mcp.Required(), mcp.Description("0-based index of the step"), mcp.Min(0)),
	), t.deleteStep)

	s.AddTool(mcp.NewTool(ToolListTodos,
		mcp.WithDescription("List all active todos, most recently updated first."),
	), t.listTodos)

	s.AddTool(mcp.NewTool(ToolDeleteTodo,
		mcp.WithDescription("Delete a todo."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Name of the todo")),
	), t.deleteTodo)
}

func (t *todoTools) fail(tool string, err error) (*mcp.CallToolResult, error) {
	t.logger.Warn().Err(err).Str("tool", tool).Msg("tool call failed")
	return mcp.NewToolResultError(capitalize(err.Error())), nil
}

func (t *todoTools) createTodo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return t.fail(ToolCreateTodo, err)
	}
	if _, err := t.manager.Create(name); err != nil {
		return t.fail(ToolCreateTodo, err)
	}
	return mcp.NewToolResultText(fmt.Sprintf("Todo '%s' created.", name)), nil
}

func (t *todoTools) readTodo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return t.fail(ToolReadTodo, err)
	}
	td, err := t.manager.Get(name)
	if err != nil {
		return t.fail(ToolReadTodo, err)
	}
	if td == nil {
		return t.fail(ToolReadTodo, fmt.Errorf("%w: %s", todo.ErrNotFound, name))
	}
	return mcp.NewToolResultText(renderTodo(td)), nil
}

func (t *todoTools) addStep(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("todo_name")
	if err != nil {
		return t.fail(ToolAddStep, err)
	}
	content, err := req.RequireString("step_content")
	if err != nil {
		return t.fail(ToolAddStep, err)
	}
	if _, err := t.manager.AddStep(name, content); err != nil {
		return t.fail(ToolAddStep, err)
	}
	return mcp.NewToolResultText(fmt.Sprintf("Step added to '%s'.", name)), nil
}

func (t *todoTools) completeStep(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, index, err := stepArgs(req)
	if err != nil {
		return t.fail(ToolCompleteStep, err)
	}
	if _, err := t.manager.CompleteStep(name, index); err != nil {
		return t.fail(ToolCompleteStep, err)
	}
	return mcp.NewToolResultText(fmt.Sprintf("Step %d completed in '%s'.", index, name)), nil
}

func (t *todoTools) deleteStep(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, index, err := stepArgs(req)
	if err != nil {
		return t.fail(ToolDeleteStep, err)
	}
	if _, err := t.manager.DeleteStep(name, index); err != nil {
		return t.fail(ToolDeleteStep, err)
	}
	return mcp.NewToolResultText(fmt.Sprintf("Step %d deleted from '%s'.", index, name)), nil
}

func (t *todoTools) listTodos(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	todos, err := t.manager.List()
	if err != nil {
		return t.fail(ToolListTodos, err)
	}
	return mcp.NewToolResultText(renderTodoList(todos)), nil
}

func (t *todoTools) deleteTodo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return t.fail(ToolDeleteTodo, err)
	}
	if err := t.manager.Delete(name); err != nil {
		return t.fail(ToolDeleteTodo, err)
	}
	return mcp.NewToolResultText(fmt.Sprintf("Todo '%s' deleted.", name)), nil
}

// stepArgs extracts todo_name and an integral, non-negative step_index.
func stepArgs(req mcp.CallToolRequest) (string, int, error) {
	name, err := req.RequireString("todo_name")
	if err != nil {
		return "", 0, err
	}
	raw, err := req.RequireFloat("step_index")
	if err != nil {
		return "", 0, err
	}
	if raw != math.Trunc(raw) || math.IsInf(raw, 0) || raw > math.MaxInt32 || raw < math.MinInt32 {
		return "", 0, fmt.Errorf("step_index must be an integer, got %v", raw)
	}
	return name, int(raw), nil
}
