// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Watercooler tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/watercoolerhq/watercooler/internal/threadservice"
)

// Server wraps the MCP server with Watercooler tools.
type Server struct {
	mcp *server.MCPServer
	svc *threadservice.Service
}

// New creates a new MCP server with all Watercooler tools registered.
func New(svc *threadservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Watercooler",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_threads",
		mcp.WithDescription("List every thread repository with its threads, "+
			"including status, ball holder and unread markers."),
	), s.listThreads)

	s.mcp.AddTool(mcp.NewTool("read_thread",
		mcp.WithDescription("Read a thread document: title, header fields and every entry."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path to the thread (e.g. acme-threads/launch.md)")),
	), s.readThread)

	s.mcp.AddTool(mcp.NewTool("update_thread_metadata",
		mcp.WithDescription("Update header fields of a thread (Status, Priority, Ball, Title, ...). "+
			"Pass null to remove a field. Entries are never touched. The change is committed "+
			"to git; a failed push is reported as a warning. Read the thread format first via "+
			"the get_thread_contract tool or the watercooler://thread-format resource."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Relative path to the thread")),
		mcp.WithString("updates", mcp.Required(), mcp.Description(`JSON object of field updates, e.g. {"Status":"CLOSED","Ball":null}`)),
	), s.updateThreadMetadata)

	s.mcp.AddTool(mcp.NewTool("search_threads",
		mcp.WithDescription("Full-text search through thread topics, titles and bodies."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchThreads)

	s.mcp.AddTool(mcp.NewTool("get_thread_contract",
		mcp.WithDescription("Returns the canonical thread document format. "+
			"Call this before interpreting or updating threads."),
	), s.getThreadContract)

	// Resource: thread format contract.
	s.mcp.AddResource(
		mcp.NewResource("watercooler://thread-format", "Thread Format Contract",
			mcp.WithResourceDescription("Canonical plain-text thread document format."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readThreadFormatResource,
	)

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

func (s *Server) listThreads(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dash, err := s.svc.Dashboard(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(dash, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readThread(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	detail, err := s.svc.GetThread(ctx, path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", path)), nil
	}
	out, _ := json.MarshalIndent(detail.Document, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) updateThreadMetadata(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	rawUpdates, err := req.RequireString("updates")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var updates map[string]*string
	if err := json.Unmarshal([]byte(rawUpdates), &updates); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("updates must be a JSON object: %v", err)), nil
	}

	detail, warning, err := s.svc.UpdateMetadata(ctx, path, updates)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	msg := fmt.Sprintf("updated: %s", path)
	if warning != "" {
		msg += "\nwarning: " + warning
	}
	out, _ := json.MarshalIndent(detail.Document.Metadata, "", "  ")
	return mcp.NewToolResultText(msg + "\n" + string(out)), nil
}

func (s *Server) searchThreads(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.svc.Search(ctx, query, 20)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(results) == 0 {
		return mcp.NewToolResultText("no matches"), nil
	}
	var b strings.Builder
	for _, r := range results {
		fmt.Fprintf(&b, "%s (%s): %s\n", r.Path, r.Repo, r.Snippet)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) getThreadContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(ThreadFormatContract), nil
}

func (s *Server) readThreadFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "watercooler://thread-format",
			MIMEType: "text/markdown",
			Text:     ThreadFormatContract,
		},
	}, nil
}
