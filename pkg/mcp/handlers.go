package mcp

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/unowned-ai/daybook/pkg/datefilter"
	"github.com/unowned-ai/daybook/pkg/journal"
)

// RegisterTools adds every daybook tool to s.
func RegisterTools(s *server.MCPServer, db *sql.DB) {
	RegisterPingTool(s)
	RegisterCreateFolderTool(s, db)
	RegisterListFoldersTool(s, db)
	RegisterDeleteFolderTool(s, db)
	RegisterCreateJournalTool(s, db)
	RegisterGetJournalTool(s, db)
	RegisterUpdateJournalTool(s, db)
	RegisterDeleteJournalTool(s, db)
	RegisterListJournalsTool(s, db)
	RegisterSearchJournalsTool(s, db)
}

// RegisterPingTool registers the simple ping tool.
func RegisterPingTool(s *server.MCPServer) {
	pingTool := mcp.NewTool("ping",
		mcp.WithDescription("Responds with 'pong' to check if the Daybook MCP server is alive."),
	)
	s.AddTool(pingTool, pingHandler)
}

func pingHandler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText("pong_daybook"), nil
}

func RegisterCreateFolderTool(s *server.MCPServer, db *sql.DB) {
	tool := mcp.NewTool("create_folder",
		mcp.WithDescription("Creates a folder for one category. Fails if a folder with that category already exists."),
		mcp.WithString("category", mcp.Required(),
			mcp.Description("Folder category."),
			mcp.Enum(categoryNames()...),
		),
		mcp.WithString("color", mcp.Description("Palette color name or hex value. Defaults to the first palette color.")),
	)
	s.AddTool(tool, createFolderHandler(db))
}

func createFolderHandler(db *sql.DB) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		rawCategory, ok := stringArg(request, "category")
		if !ok || rawCategory == "" {
			return mcp.NewToolResultError("'category' parameter is required and must be a non-empty string."), nil
		}
		category, err := journal.ParseCategory(rawCategory)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		color := journal.Palette[0]
		if rawColor, ok := stringArg(request, "color"); ok && rawColor != "" {
			c, found := journal.LookupColor(rawColor)
			if !found {
				return mcp.NewToolResultError(fmt.Sprintf("Unknown color '%s'.", rawColor)), nil
			}
			color = c
		}

		folder, err := journal.AddFolder(ctx, db, string(category), color.Hex)
		if err != nil {
			if errors.Is(err, journal.ErrFolderExists) {
				return mcp.NewToolResultError("Folder with this category already exists."), nil
			}
			return mcp.NewToolResultError(fmt.Sprintf("Failed to create folder: %v", err)), nil
		}
		return jsonResult(folder)
	}
}

func RegisterListFoldersTool(s *server.MCPServer, db *sql.DB) {
	tool := mcp.NewTool("list_folders",
		mcp.WithDescription("Lists all folders."),
	)
	s.AddTool(tool, listFoldersHandler(db))
}

func listFoldersHandler(db *sql.DB) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		folders, err := journal.ListFolders(ctx, db)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to list folders: %v", err)), nil
		}
		if len(folders) == 0 {
			return mcp.NewToolResultText("[]"), nil
		}
		return jsonResult(folders)
	}
}

func RegisterDeleteFolderTool(s *server.MCPServer, db *sql.DB) {
	tool := mcp.NewTool("delete_folder",
		mcp.WithDescription("Deletes a folder and every journal entry in it."),
		mcp.WithNumber("folder_id", mcp.Required(), mcp.Description("ID of the folder to delete.")),
	)
	s.AddTool(tool, deleteFolderHandler(db))
}

func deleteFolderHandler(db *sql.DB) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := idArg(request, "folder_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		removed, err := journal.DeleteFolder(ctx, db, id)
		if err != nil {
			if errors.Is(err, journal.ErrFolderNotFound) {
				return mcp.NewToolResultError(fmt.Sprintf("Folder %d not found.", id)), nil
			}
			return mcp.NewToolResultError(fmt.Sprintf("Failed to delete folder: %v", err)), nil
		}
		return jsonResult(map[string]any{"folder_id": id, "journals_removed": removed})
	}
}

func RegisterCreateJournalTool(s *server.MCPServer, db *sql.DB) {
	tool := mcp.NewTool("create_journal",
		mcp.WithDescription("Creates a journal entry in a folder."),
		mcp.WithNumber("folder_id", mcp.Required(), mcp.Description("ID of the folder holding the entry.")),
		mcp.WithString("title", mcp.Required(), mcp.Description("Entry title.")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Entry body. Markdown is fine.")),
		mcp.WithString("mood", mcp.Description("Optional mood."), mcp.Enum(moodNames()...)),
	)
	s.AddTool(tool, createJournalHandler(db))
}

func createJournalHandler(db *sql.DB) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		folderID, err := idArg(request, "folder_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		title, _ := stringArg(request, "title")
		content, _ := stringArg(request, "content")
		mood, err := moodArg(request)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		entry, err := journal.CreateJournal(ctx, db, folderID, title, content, mood)
		if err != nil {
			return entryError("create", folderID, err), nil
		}
		return jsonResult(entry)
	}
}

func RegisterGetJournalTool(s *server.MCPServer, db *sql.DB) {
	tool := mcp.NewTool("get_journal",
		mcp.WithDescription("Retrieves one journal entry by ID."),
		mcp.WithNumber("journal_id", mcp.Required(), mcp.Description("ID of the entry.")),
	)
	s.AddTool(tool, getJournalHandler(db))
}

func getJournalHandler(db *sql.DB) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := idArg(request, "journal_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		entry, err := journal.GetJournal(ctx, db, id)
		if err != nil {
			return entryError("get", id, err), nil
		}
		return jsonResult(entry)
	}
}

func RegisterUpdateJournalTool(s *server.MCPServer, db *sql.DB) {
	tool := mcp.NewTool("update_journal",
		mcp.WithDescription("Replaces the title and content of an entry. The mood is kept unless given; 'none' clears it."),
		mcp.WithNumber("journal_id", mcp.Required(), mcp.Description("ID of the entry.")),
		mcp.WithString("title", mcp.Required(), mcp.Description("New title.")),
		mcp.WithString("content", mcp.Required(), mcp.Description("New body.")),
		mcp.WithString("mood", mcp.Description("Optional mood."), mcp.Enum(moodNames()...)),
	)
	s.AddTool(tool, updateJournalHandler(db))
}

func updateJournalHandler(db *sql.DB) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := idArg(request, "journal_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		title, _ := stringArg(request, "title")
		content, _ := stringArg(request, "content")
		mood, err := moodArg(request)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		entry, err := journal.UpdateJournal(ctx, db, id, title, content, mood)
		if err != nil {
			return entryError("update", id, err), nil
		}
		return jsonResult(entry)
	}
}

func RegisterDeleteJournalTool(s *server.MCPServer, db *sql.DB) {
	tool := mcp.NewTool("delete_journal",
		mcp.WithDescription("Deletes one journal entry."),
		mcp.WithNumber("journal_id", mcp.Required(), mcp.Description("ID of the entry.")),
	)
	s.AddTool(tool, deleteJournalHandler(db))
}

func deleteJournalHandler(db *sql.DB) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := idArg(request, "journal_id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if err := journal.DeleteJournal(ctx, db, id); err != nil {
			return entryError("delete", id, err), nil
		}
		return mcp.NewToolResultText(fmt.Sprintf("Journal %d deleted.", id)), nil
	}
}

func RegisterListJournalsTool(s *server.MCPServer, db *sql.DB) {
	tool := mcp.NewTool("list_journals",
		mcp.WithDescription("Lists journal entries newest first, grouped by day. Optionally limited to a folder, year and month."),
		mcp.WithNumber("folder_id", mcp.Description("Only entries in this folder.")),
		mcp.WithString("year", mcp.Description("Four digit year, or 'All'.")),
		mcp.WithString("month", mcp.Description("English month name, or 'All'."), mcp.Enum(datefilter.MonthOptions()...)),
	)
	s.AddTool(tool, listJournalsHandler(db))
}

type dayGroupResult struct {
	Day     string           `json:"day"`
	Entries []journal.Listed `json:"entries"`
}

func listJournalsHandler(db *sql.DB) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		filter := datefilter.Filter{}
		filter.Year, _ = stringArg(request, "year")
		filter.Month, _ = stringArg(request, "month")
		if err := filter.Validate(); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		var listed []journal.Listed
		if _, present := request.Params.Arguments["folder_id"]; present {
			folderID, err := idArg(request, "folder_id")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			folder, err := journal.GetFolder(ctx, db, folderID)
			if err != nil {
				if errors.Is(err, journal.ErrFolderNotFound) {
					return mcp.NewToolResultError(fmt.Sprintf("Folder %d not found.", folderID)), nil
				}
				return mcp.NewToolResultError(fmt.Sprintf("Failed to list journals: %v", err)), nil
			}
			entries, err := journal.ListJournalsByFolder(ctx, db, folderID, filter)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to list journals: %v", err)), nil
			}
			for _, e := range entries {
				listed = append(listed, journal.Listed{Journal: e, FolderName: folder.Name, FolderColor: folder.Color})
			}
		} else {
			var err error
			listed, err = journal.ListAllJournals(ctx, db, filter)
			if err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("Failed to list journals: %v", err)), nil
			}
		}

		if len(listed) == 0 {
			return mcp.NewToolResultText(filter.EmptyMessage()), nil
		}

		groups := datefilter.GroupByDay(listed, func(l journal.Listed) time.Time { return l.DateModified })
		out := make([]dayGroupResult, 0, len(groups))
		for _, g := range groups {
			out = append(out, dayGroupResult{Day: g.Label, Entries: g.Items})
		}
		return jsonResult(out)
	}
}

// RegisterSearchJournalsTool registers a tool to find entries by words in their title or content.
func RegisterSearchJournalsTool(s *server.MCPServer, db *sql.DB) {
	tool := mcp.NewTool("search_journals",
		mcp.WithDescription("Finds journal entries whose title or content contains any of the given words, ignoring case. Results are ranked by how many of the words match."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Space separated words to look for.")),
		mcp.WithNumber("folder_id", mcp.Description("Only search this folder.")),
	)
	s.AddTool(tool, searchJournalsHandler(db))
}

func searchJournalsHandler(db *sql.DB) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, _ := stringArg(request, "query")
		terms := strings.Fields(query)
		if len(terms) == 0 {
			return mcp.NewToolResultError("'query' parameter is required"), nil
		}

		var folderID *int64
		if _, present := request.Params.Arguments["folder_id"]; present {
			id, err := idArg(request, "folder_id")
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			folderID = &id
		}

		results, err := journal.SearchJournals(ctx, db, folderID, terms)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to search journals: %v", err)), nil
		}
		return jsonResult(results)
	}
}

func entryError(action string, id int64, err error) *mcp.CallToolResult {
	switch {
	case errors.Is(err, journal.ErrValidation):
		return mcp.NewToolResultError("Please enter both title and content.")
	case errors.Is(err, journal.ErrFolderNotFound):
		return mcp.NewToolResultError(fmt.Sprintf("Folder %d not found.", id))
	case errors.Is(err, journal.ErrJournalNotFound):
		return mcp.NewToolResultError(fmt.Sprintf("Journal %d not found.", id))
	default:
		return mcp.NewToolResultError(fmt.Sprintf("Failed to %s journal: %v", action, err))
	}
}

func categoryNames() []string {
	names := make([]string, 0, len(journal.Categories))
	for _, c := range journal.Categories {
		names = append(names, string(c))
	}
	return names
}
