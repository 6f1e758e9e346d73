// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes tracker tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/eunoia-app/eunoia/internal/ai"
	"github.com/eunoia-app/eunoia/internal/insights"
	"github.com/eunoia-app/eunoia/internal/models"
	"github.com/eunoia-app/eunoia/internal/service"
)

// Server wraps the MCP server with tracker tools.
type Server struct {
	mcp    *server.MCPServer
	svc    *service.Service
	logger *slog.Logger
}

// New creates a new MCP server with all tracker tools registered.
func New(svc *service.Service, logger *slog.Logger) *Server {
	s := &Server{svc: svc, logger: logger}

	s.mcp = server.NewMCPServer(
		"Eunoia",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_records",
		mcp.WithDescription("Full-text search through notes, daily logs, and tasks."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchRecords)

	s.mcp.AddTool(mcp.NewTool("list_tasks",
		mcp.WithDescription("List tasks, optionally filtered by status."),
		mcp.WithString("status", mcp.Description("Optional status filter: Pending, In Progress, or Completed")),
	), s.listTasks)

	s.mcp.AddTool(mcp.NewTool("add_task",
		mcp.WithDescription("Create a new task."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Task title")),
		mcp.WithString("description", mcp.Description("Optional task description")),
		mcp.WithString("due_date", mcp.Description("Optional due date, RFC 3339 or YYYY-MM-DD")),
	), s.addTask)

	s.mcp.AddTool(mcp.NewTool("complete_habit",
		mcp.WithDescription("Mark a habit complete for today by its title. Idempotent within a calendar day."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Habit title (case-insensitive match)")),
	), s.completeHabit)

	s.mcp.AddTool(mcp.NewTool("log_activity",
		mcp.WithDescription("Record a daily-log entry for today."),
		mcp.WithString("activity", mcp.Required(), mcp.Description("What was done")),
		mcp.WithString("mood", mcp.Description("Optional mood label")),
		mcp.WithString("notes", mcp.Description("Optional free-form notes")),
	), s.logActivity)

	s.mcp.AddTool(mcp.NewTool("daily_summary",
		mcp.WithDescription("Aggregated life-area summary for the trailing seven days."),
	), s.dailySummary)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) searchRecords(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.svc.Search(ctx, query, 20)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(results, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listTasks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status := models.TaskStatus(req.GetString("status", ""))
	tasks, err := s.svc.ListTasks(ctx, status)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(tasks, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) addTask(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	task := models.Task{
		Title:       title,
		Description: req.GetString("description", ""),
	}
	if raw := req.GetString("due_date", ""); raw != "" {
		due, perr := parseWhen(raw)
		if perr != nil {
			return mcp.NewToolResultError(perr.Error()), nil
		}
		task.DueDate = &due
	}

	created, err := s.svc.CreateTask(ctx, task)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(created, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) completeHabit(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	res, err := s.svc.ExecuteIntent(ctx, ai.Intent{Action: ai.ActionCompleteHabit, Title: title})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !res.Executed {
		return mcp.NewToolResultError(res.Message), nil
	}
	return mcp.NewToolResultText(res.Message), nil
}

func (s *Server) logActivity(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	activity, err := req.RequireString("activity")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	entry, err := s.svc.CreateLog(ctx, models.LogEntry{
		Activity: activity,
		Mood:     req.GetString("mood", ""),
		Notes:    req.GetString("notes", ""),
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(entry, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) dailySummary(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	now := time.Now()
	sum, err := s.svc.Insights(ctx, insights.Range{Start: now.AddDate(0, 0, -7), End: now})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(sum, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func parseWhen(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation("2006-01-02", raw, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid due_date %q, want RFC 3339 or YYYY-MM-DD", raw)
	}
	return t, nil
}
