package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"notesapp/internal/apperr"
	"notesapp/internal/auth"
	"notesapp/internal/notes"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewServer creates an MCP server exposing the caller's notes as tools.
// Every tool acts on behalf of the identity the auth middleware put in the
// request context.
func NewServer(svc *notes.Service) *server.MCPServer {
	s := server.NewMCPServer(
		"Notes",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	// Tool: list_notes - All of the caller's notes
	s.AddTool(
		mcp.NewTool("list_notes",
			mcp.WithDescription("List all of your notes, pinned notes first and then newest first. Use this to get an overview of what has been written."),
		),
		handleListNotes(svc),
	)

	// Tool: search_notes - Substring search
	s.AddTool(
		mcp.NewTool("search_notes",
			mcp.WithDescription("Case-insensitive search across the title, content and tags of your notes."),
			mcp.WithString("query",
				mcp.Required(),
				mcp.Description("Text to look for"),
			),
		),
		handleSearchNotes(svc),
	)

	// Tool: get_note - One note by ID
	s.AddTool(
		mcp.NewTool("get_note",
			mcp.WithDescription("Get a specific note by its ID. Use this when you have a note ID and need the full content."),
			mcp.WithString("id",
				mcp.Required(),
				mcp.Description("The note ID (24-character hex string)"),
			),
		),
		handleGetNote(svc),
	)

	// Tool: add_note - Create a note
	s.AddTool(
		mcp.NewTool("add_note",
			mcp.WithDescription("Create a new note. Content is markdown."),
			mcp.WithString("title",
				mcp.Required(),
				mcp.Description("Note title"),
			),
			mcp.WithString("content",
				mcp.Required(),
				mcp.Description("Note body in markdown"),
			),
			mcp.WithArray("tags",
				mcp.Description("Optional list of tags"),
				mcp.WithStringItems(),
			),
		),
		handleAddNote(svc),
	)

	// Tool: set_pinned - Pin or unpin a note
	s.AddTool(
		mcp.NewTool("set_pinned",
			mcp.WithDescription("Pin or unpin one of your notes. Pinned notes are listed first."),
			mcp.WithString("id",
				mcp.Required(),
				mcp.Description("The note ID (24-character hex string)"),
			),
			mcp.WithBoolean("pinned",
				mcp.Required(),
				mcp.Description("true to pin, false to unpin"),
			),
		),
		handleSetPinned(svc),
	)

	return s
}

// NoteResult represents a note in tool responses
type NoteResult struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	Pinned    bool      `json:"pinned"`
	CreatedOn time.Time `json:"createdOn"`
	UpdatedOn time.Time `json:"updatedOn,omitempty"`
}

func handleListNotes(svc *notes.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, ok := auth.FromContext(ctx)
		if !ok {
			return mcp.NewToolResultError("not authenticated"), nil
		}

		noteList, err := svc.List(ctx, id.ID)
		if err != nil {
			return toolError("failed to list notes", err), nil
		}
		return jsonResult(notesToResults(noteList)), nil
	}
}

func handleSearchNotes(svc *notes.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, ok := auth.FromContext(ctx)
		if !ok {
			return mcp.NewToolResultError("not authenticated"), nil
		}
		query, err := req.RequireString("query")
		if err != nil {
			return mcp.NewToolResultError("query is required"), nil
		}

		noteList, err := svc.Search(ctx, id.ID, query)
		if err != nil {
			return toolError("failed to search notes", err), nil
		}
		return jsonResult(notesToResults(noteList)), nil
	}
}

func handleGetNote(svc *notes.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, ok := auth.FromContext(ctx)
		if !ok {
			return mcp.NewToolResultError("not authenticated"), nil
		}
		noteID, err := req.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError("id is required"), nil
		}

		note, err := svc.Get(ctx, id.ID, noteID)
		if err != nil {
			return toolError("failed to get note", err), nil
		}
		return jsonResult(noteToResult(note)), nil
	}
}

func handleAddNote(svc *notes.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, ok := auth.FromContext(ctx)
		if !ok {
			return mcp.NewToolResultError("not authenticated"), nil
		}

		input := notes.AddNoteInput{
			Title:   req.GetString("title", ""),
			Content: req.GetString("content", ""),
			Tags:    req.GetStringSlice("tags", nil),
		}
		note, err := svc.Create(ctx, id.ID, input)
		if err != nil {
			return toolError("failed to add note", err), nil
		}
		return jsonResult(noteToResult(note)), nil
	}
}

func handleSetPinned(svc *notes.Service) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, ok := auth.FromContext(ctx)
		if !ok {
			return mcp.NewToolResultError("not authenticated"), nil
		}
		noteID, err := req.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError("id is required"), nil
		}
		pinned, err := req.RequireBool("pinned")
		if err != nil {
			return mcp.NewToolResultError("pinned is required"), nil
		}

		note, err := svc.SetPinned(ctx, id.ID, noteID, pinned)
		if err != nil {
			return toolError("failed to update note pin", err), nil
		}
		return jsonResult(noteToResult(note)), nil
	}
}

// Helper functions

// toolError shows classified messages to the caller and hides internal ones.
func toolError(prefix string, err error) *mcp.CallToolResult {
	if e, ok := apperr.As(err); ok && e.Type != apperr.Internal {
		return mcp.NewToolResultError(fmt.Sprintf("%s: %s", prefix, e.Message))
	}
	return mcp.NewToolResultError(prefix)
}

func jsonResult(v any) *mcp.CallToolResult {
	data, _ := json.MarshalIndent(v, "", "  ")
	return mcp.NewToolResultText(string(data))
}

func noteToResult(note *notes.Note) NoteResult {
	return NoteResult{
		ID:        note.ID.Hex(),
		Title:     note.Title,
		Content:   note.Content,
		Tags:      note.Tags,
		Pinned:    note.IsPinned,
		CreatedOn: note.CreatedOn,
		UpdatedOn: note.UpdatedOn,
	}
}

func notesToResults(noteList []*notes.Note) []NoteResult {
	results := make([]NoteResult, len(noteList))
	for i, note := range noteList {
		results[i] = noteToResult(note)
	}
	return results
}
